//go:build !linux

package gpio

import "fmt"

func OpenOutput(chip string, offset, initial int) (Output, error) {
	return nil, fmt.Errorf("gpio: unsupported on this platform")
}

func OpenInput(chip string, offset int) (Input, error) {
	return nil, fmt.Errorf("gpio: unsupported on this platform")
}
