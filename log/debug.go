// Debug mode with replay profiling. Enable by setting TERMCAST_DEBUG=1.
package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

var (
	DebugEnabled bool
	DebugLog     *log.Logger
	debugLogFile *os.File
)

var debugLogFileName = filepath.Join(os.TempDir(), "termcast-debug.log")

// InitDebug initializes debug logging if TERMCAST_DEBUG=1 is set.
// Call this after Initialize() in main.
func InitDebug() {
	if os.Getenv("TERMCAST_DEBUG") != "1" {
		// No-op logger so callers never have to nil-check
		DebugLog = log.New(io.Discard, "", 0)
		return
	}

	DebugEnabled = true

	f, err := os.OpenFile(debugLogFileName, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		if ErrorLog != nil {
			ErrorLog.Printf("could not open debug log file: %s", err)
		}
		DebugLog = log.New(io.Discard, "", 0)
		return
	}

	DebugLog = log.New(f, "DEBUG:", log.Ldate|log.Ltime|log.Lmicroseconds)
	debugLogFile = f

	DebugLog.Println("Debug mode enabled")
	DebugLog.Printf("Debug log: %s", debugLogFileName)
}

// CloseDebug closes the debug log file.
func CloseDebug() {
	if debugLogFile != nil {
		_ = debugLogFile.Close()
		fmt.Println("wrote debug logs to " + debugLogFileName)
	}
}

// Debug logs a debug message if debug mode is enabled.
func Debug(format string, v ...interface{}) {
	if DebugEnabled && DebugLog != nil {
		DebugLog.Printf(format, v...)
	}
}

// ReplayProfiler tracks replay throughput: how long feeding and diffing
// each grouped event takes.
type ReplayProfiler struct {
	mu         sync.Mutex
	frameCount int64
	totalTime  time.Duration
	maxTime    time.Duration
}

var profiler = &ReplayProfiler{}

// GetProfiler returns the global replay profiler.
func GetProfiler() *ReplayProfiler {
	return profiler
}

// StartFrame begins timing one replayed event. Returns a function to call
// once its diffs have been emitted.
func (p *ReplayProfiler) StartFrame() func() {
	if !DebugEnabled {
		return func() {}
	}
	start := time.Now()
	return func() {
		elapsed := time.Since(start)
		p.mu.Lock()
		defer p.mu.Unlock()
		p.frameCount++
		p.totalTime += elapsed
		if elapsed > p.maxTime {
			p.maxTime = elapsed
		}
	}
}

// Stats returns a summary of replay timings.
func (p *ReplayProfiler) Stats() string {
	if !DebugEnabled {
		return ""
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	var sb strings.Builder
	sb.WriteString("\n=== Replay Profile ===\n")
	sb.WriteString(fmt.Sprintf("Events replayed: %d\n", p.frameCount))
	if p.frameCount > 0 {
		sb.WriteString(fmt.Sprintf("Avg per event: %v\n", p.totalTime/time.Duration(p.frameCount)))
		sb.WriteString(fmt.Sprintf("Max per event: %v\n", p.maxTime))
	}
	return sb.String()
}
