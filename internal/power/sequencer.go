// Package power brings the modem and GPS up after the board is energised.
package power

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"modembridge/internal/gpio"
)

const (
	DefaultPulseLow  = 100 * time.Millisecond
	DefaultPulseHigh = 1000 * time.Millisecond
)

// Sequencer drives the board control lines. ModemDTR and GPSWakeup are
// optional and left untouched when nil.
type Sequencer struct {
	PowerOn    gpio.Output
	Reset      gpio.Output
	ModemPower gpio.Output

	ModemDTR  gpio.Output
	GPSWakeup gpio.Output

	PulseLow  time.Duration
	PulseHigh time.Duration
}

var sleepFn = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run enables the board supply, releases reset and pulses the modem power key
// low-high-low. Nothing is read back: a modem that did not start shows up
// later as silence on the AT channel.
func (s *Sequencer) Run(ctx context.Context) error {
	if s.PowerOn == nil || s.Reset == nil || s.ModemPower == nil {
		return fmt.Errorf("power: power_on, reset and modem_power lines are required")
	}
	low, high := s.PulseLow, s.PulseHigh
	if low <= 0 {
		low = DefaultPulseLow
	}
	if high <= 0 {
		high = DefaultPulseHigh
	}

	steps := []struct {
		name string
		line gpio.Output
		v    int
		wait time.Duration
	}{
		{"power_on", s.PowerOn, 1, 0},
		{"reset", s.Reset, 0, 0},
		{"modem_power", s.ModemPower, 0, low},
		{"modem_power", s.ModemPower, 1, high},
		{"modem_power", s.ModemPower, 0, 0},
	}
	for _, st := range steps {
		if err := st.line.SetValue(st.v); err != nil {
			return fmt.Errorf("power: set %s=%d: %w", st.name, st.v, err)
		}
		if st.wait > 0 {
			if err := sleepFn(ctx, st.wait); err != nil {
				return err
			}
		}
	}

	if s.ModemDTR != nil {
		if err := s.ModemDTR.SetValue(0); err != nil {
			return fmt.Errorf("power: set modem_dtr=0: %w", err)
		}
	}
	if s.GPSWakeup != nil {
		if err := s.GPSWakeup.SetValue(1); err != nil {
			return fmt.Errorf("power: set gps_wakeup=1: %w", err)
		}
	}
	log.Info().Dur("pulse", high).Msg("modem power sequence done")
	return nil
}
