//go:build linux

package serialio

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// OpenConsole returns the process terminal as a Port. When stdin is a tty it
// is switched to raw mode so single bytes (CR, LF) reach the bridge as typed;
// Close restores the previous settings.
func OpenConsole() (*Port, error) {
	c := &console{in: os.Stdin, out: os.Stdout, fd: int(os.Stdin.Fd())}
	if err := c.makeRaw(); err != nil {
		return nil, err
	}
	return New(ConsoleName, c, DefaultRingSize), nil
}

type console struct {
	in  io.Reader
	out io.Writer

	fd    int
	saved *unix.Termios
}

func (c *console) makeRaw() error {
	t, err := unix.IoctlGetTermios(c.fd, unix.TCGETS)
	if err != nil {
		// Not a terminal (pipe, file); nothing to change.
		return nil
	}
	saved := *t

	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB
	t.Cflag |= unix.CS8
	// Keep ISIG so Ctrl-C still stops the daemon.
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(c.fd, unix.TCSETS, t); err != nil {
		return err
	}
	c.saved = &saved
	return nil
}

func (c *console) Read(b []byte) (int, error)  { return c.in.Read(b) }
func (c *console) Write(b []byte) (int, error) { return c.out.Write(b) }

func (c *console) Close() error {
	if c.saved == nil {
		return nil
	}
	err := unix.IoctlSetTermios(c.fd, unix.TCSETS, c.saved)
	c.saved = nil
	return err
}
