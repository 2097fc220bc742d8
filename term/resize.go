package term

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/creack/pty"
)

// NotifyResize propagates SIGWINCH window-size changes from the terminal at
// fd to the recording's pty until the returned stop function is called.
// This runs outside the record loop and is optional; recordings made
// against a fixed size never need it.
func (r *Recording) NotifyResize(fd int) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGWINCH)
	done := make(chan struct{})

	go func() {
		defer signal.Stop(ch)
		for {
			select {
			case <-done:
				return
			case <-ch:
				columns, rows, err := GetTerminalSize(fd)
				if err != nil {
					continue
				}
				_ = pty.Setsize(r.master, &pty.Winsize{
					Rows: uint16(rows),
					Cols: uint16(columns),
				})
			}
		}
	}()
	return func() { close(done) }
}
