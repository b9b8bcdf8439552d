//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// OpenOutput requests offset on chip as an output at the initial level.
func OpenOutput(chip string, offset, initial int) (Output, error) {
	if offset < 0 {
		return nil, fmt.Errorf("gpio: invalid offset %d", offset)
	}
	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsOutput(initial),
		gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("gpio: request %s:%d as output: %w", chip, offset, err)
	}
	return &cdevLine{l: line}, nil
}

// OpenInput requests offset on chip as an input with the internal pull-up
// enabled, so an open button reads 1.
func OpenInput(chip string, offset int) (Input, error) {
	if offset < 0 {
		return nil, fmt.Errorf("gpio: invalid offset %d", offset)
	}
	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("gpio: request %s:%d as input: %w", chip, offset, err)
	}
	return &cdevLine{l: line}, nil
}

type cdevLine struct {
	l *gpiocdev.Line
}

func (g *cdevLine) SetValue(v int) error {
	if g == nil || g.l == nil {
		return fmt.Errorf("gpio: line not initialized")
	}
	return g.l.SetValue(v)
}

func (g *cdevLine) Value() (int, error) {
	if g == nil || g.l == nil {
		return 0, fmt.Errorf("gpio: line not initialized")
	}
	return g.l.Value()
}

func (g *cdevLine) Close() error {
	if g == nil || g.l == nil {
		return nil
	}
	err := g.l.Close()
	g.l = nil
	return err
}
