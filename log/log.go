// Package log provides file-backed loggers for the application. Logs go to
// a file because stdout belongs to the recorded shell session.
package log

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

var (
	InfoLog    *log.Logger
	WarningLog *log.Logger
	ErrorLog   *log.Logger
)

var (
	logFileName = filepath.Join(os.TempDir(), "termcast.log")
	logFile     *os.File
)

// Initialize opens the log file and sets up the package loggers. Call once
// from main; if the file cannot be opened the loggers discard output rather
// than fail the recording.
func Initialize() {
	f, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	var w io.Writer = f
	if err != nil {
		w = io.Discard
	} else {
		logFile = f
	}
	flags := log.Ldate | log.Ltime | log.Lshortfile
	InfoLog = log.New(w, "INFO: ", flags)
	WarningLog = log.New(w, "WARN: ", flags)
	ErrorLog = log.New(w, "ERROR: ", flags)
}

// Close closes the log file opened by Initialize.
func Close() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// Path returns where log output is written.
func Path() string {
	return logFileName
}
