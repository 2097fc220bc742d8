package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"termcast/asciicast"
	"termcast/castname"
	"termcast/config"
	"termcast/log"
	"termcast/term"
	"termcast/vt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"

	columnsFlag int
	rowsFlag    int
	textFlag    bool

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#3B82F6"}).
			Bold(true)
	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#22C55E", Dark: "#22C55E"})

	rootCmd = &cobra.Command{
		Use:   "termcast [file]",
		Short: "Record a shell session to an asciicast v2 file",
		Long: "Termcast records an interactive shell session through a pseudo-terminal\n" +
			"and saves it as an asciicast v2 file. Exit the shell to stop recording.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize()
			defer log.Close()
			log.InitDebug()
			defer log.CloseDebug()

			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runRecord(path)
		},
	}

	framesCmd = &cobra.Command{
		Use:   "frames <file>",
		Short: "Replay a cast file and print its screen diffs as JSON lines",
		Long: "Frames replays a cast through the terminal emulator and prints one JSON\n" +
			"line per changed screen row, the stream an animation renderer consumes.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize()
			defer log.Close()
			log.InitDebug()
			defer log.CloseDebug()

			return runFrames(args[0], textFlag)
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of termcast",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("termcast version %s\n", version)
		},
	}
)

func runRecord(path string) error {
	cfg := config.LoadConfig()
	stdin := int(os.Stdin.Fd())
	stdout := int(os.Stdout.Fd())

	columns, rows := columnsFlag, rowsFlag
	if columns == 0 || rows == 0 {
		var err error
		columns, rows, err = term.GetTerminalSize(stdin)
		if err != nil {
			return fmt.Errorf("stdin is not a terminal; pass --columns and --rows: %w", err)
		}
	}

	out, err := openCastFile(path)
	if err != nil {
		return err
	}
	defer out.Close()

	fmt.Println(noticeStyle.Render("Recording started, exit the shell to stop"))

	guard, err := term.MakeRawMode(stdin)
	if err != nil && !errors.Is(err, term.ErrNotATerminal) {
		return err
	}
	defer guard.Restore()

	rec, err := term.RecordCommand(cfg.Shell, columns, rows, stdin, stdout)
	if err != nil {
		return err
	}
	rec.Header.Theme = term.DetectTheme()

	stopResize := rec.NotifyResize(stdin)
	defer stopResize()

	w := asciicast.NewWriter(out)
	if err := w.WriteHeader(rec.Header); err != nil {
		return err
	}
	for ev, evErr := range rec.Events {
		if evErr != nil {
			log.ErrorLog.Printf("recording aborted: %v", evErr)
			return evErr
		}
		if err := w.WriteEvent(ev); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err := rec.Wait(); err != nil {
		log.WarningLog.Printf("shell exited: %v", err)
	}
	if err := rec.Close(); err != nil {
		log.WarningLog.Printf("closing pty: %v", err)
	}

	// Leave raw mode before printing so the message isn't mangled.
	if err := guard.Restore(); err != nil {
		return err
	}
	fmt.Println(doneStyle.Render("Recording saved to " + out.Name()))
	return nil
}

func openCastFile(path string) (*os.File, error) {
	if path != "" {
		return os.Create(path)
	}
	for i := 0; i < 3; i++ {
		name := castname.Generate()
		if name == "" {
			break
		}
		f, err := os.OpenFile(
			filepath.Join(os.TempDir(), name+".cast"),
			os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, nil
		}
		if !os.IsExist(err) {
			return nil, err
		}
	}
	return os.CreateTemp("", "termcast-*.cast")
}

func runFrames(path string, plainText bool) error {
	cfg := config.LoadConfig()
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	records := asciicast.NewReader(f).Records()
	emu := vt.NewScreen(80, 24) // resized to the header by Replay
	lastFrame := time.Duration(cfg.LastFrameDuration) * time.Millisecond
	minFrame := time.Duration(cfg.MinFrameDuration) * time.Millisecond
	maxFrame := time.Duration(cfg.MaxFrameDuration) * time.Millisecond

	enc := json.NewEncoder(os.Stdout)
	if plainText {
		frames, err := term.Replay(records, emu, term.TextMapper{},
			lastFrame, nil, nil, minFrame, maxFrame)
		if err != nil {
			return err
		}
		return printFrames(enc, frames)
	}
	frames, err := term.Replay(records, emu, term.StyledMapper{},
		lastFrame, nil, term.DefaultTheme, minFrame, maxFrame)
	if err != nil {
		return err
	}
	return printFrames(enc, frames)
}

func printFrames[T any](enc *json.Encoder, frames *term.Frames[T]) error {
	if err := enc.Encode(frames.Header); err != nil {
		return err
	}
	prof := log.GetProfiler()
	for rec, err := range frames.Records {
		stopFrame := prof.StartFrame()
		if err != nil {
			return err
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
		stopFrame()
	}
	if stats := prof.Stats(); stats != "" {
		fmt.Fprint(os.Stderr, stats)
	}
	return nil
}

func main() {
	rootCmd.Flags().IntVar(&columnsFlag, "columns", 0, "Recorded terminal width (default: the current terminal's)")
	rootCmd.Flags().IntVar(&rowsFlag, "rows", 0, "Recorded terminal height (default: the current terminal's)")
	framesCmd.Flags().BoolVar(&textFlag, "text", false, "Emit plain characters without color information")
	rootCmd.AddCommand(framesCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
