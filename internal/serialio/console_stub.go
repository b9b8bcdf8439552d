//go:build !linux

package serialio

import (
	"io"
	"os"
)

// OpenConsole returns the process terminal as a Port. Raw mode is only
// available on Linux; elsewhere input arrives line-buffered.
func OpenConsole() (*Port, error) {
	return New(ConsoleName, stdio{}, DefaultRingSize), nil
}

type stdio struct{}

func (stdio) Read(b []byte) (int, error)  { return os.Stdin.Read(b) }
func (stdio) Write(b []byte) (int, error) { return os.Stdout.Write(b) }
func (stdio) Close() error                { return nil }

var _ io.ReadWriteCloser = stdio{}
