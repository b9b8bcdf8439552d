// Package gpio drives the board control lines through the Linux GPIO
// character device.
package gpio

// Output is a single line driven by this process.
type Output interface {
	SetValue(v int) error
	Close() error
}

// Input is a single line sampled by this process.
type Input interface {
	Value() (int, error)
	Close() error
}

const consumer = "modembridge"
