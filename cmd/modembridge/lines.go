package main

import (
	"errors"

	"modembridge/internal/config"
	"modembridge/internal/gpio"
)

type boardLines struct {
	powerOn    gpio.Output
	reset      gpio.Output
	modemPower gpio.Output
	dtr        gpio.Output
	gpsWakeup  gpio.Output
	button     gpio.Input

	closers []interface{ Close() error }
}

// openLines requests every configured board line. On failure the lines
// already requested are released.
func openLines(c config.GPIOConfig, withButton bool) (*boardLines, error) {
	l := &boardLines{}
	ok := false
	defer func() {
		if !ok {
			_ = l.Close()
		}
	}()

	out := func(offset, initial int) (gpio.Output, error) {
		o, err := openOutputFn(c.Chip, offset, initial)
		if err != nil {
			return nil, err
		}
		l.closers = append(l.closers, o)
		return o, nil
	}

	var err error
	if l.powerOn, err = out(c.PowerOn, 0); err != nil {
		return nil, err
	}
	if l.reset, err = out(c.Reset, 0); err != nil {
		return nil, err
	}
	if l.modemPower, err = out(c.ModemPower, 0); err != nil {
		return nil, err
	}
	if c.ModemDTR != nil && *c.ModemDTR >= 0 {
		if l.dtr, err = out(*c.ModemDTR, 0); err != nil {
			return nil, err
		}
	}
	if c.GPSWakeup != nil && *c.GPSWakeup >= 0 {
		if l.gpsWakeup, err = out(*c.GPSWakeup, 0); err != nil {
			return nil, err
		}
	}
	if withButton {
		in, err := openInputFn(c.Chip, c.Button)
		if err != nil {
			return nil, err
		}
		l.button = in
		l.closers = append(l.closers, in)
	}
	ok = true
	return l, nil
}

func (l *boardLines) Close() error {
	var errs []error
	for i := len(l.closers) - 1; i >= 0; i-- {
		errs = append(errs, l.closers[i].Close())
	}
	l.closers = nil
	return errors.Join(errs...)
}
