// Package app is the cooperative control loop tying the channels together.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"modembridge/internal/bridge"
	"modembridge/internal/button"
	"modembridge/internal/gps"
)

// Loop runs one iteration at a time in a fixed order: GPS drain and report,
// GPS health, button, AT relay, yield. Nothing in an iteration blocks except
// the health pause and a dispatched self-test.
type Loop struct {
	Out io.Writer // operator channel

	GPS    *gps.Ingest
	Health gps.Health
	Bridge *bridge.Bridge

	// Button and Pressed are nil when the self-test button is disabled.
	Button   *button.Debouncer
	Pressed  func() (bool, error)
	SelfTest func(ctx context.Context) error

	Start time.Time
	Yield time.Duration

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (l *Loop) clock() time.Time {
	if l.now != nil {
		return l.now()
	}
	return time.Now()
}

func (l *Loop) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	if l.sleep != nil {
		return l.sleep(ctx, d)
	}
	return sleepCtx(ctx, d)
}

// Run iterates until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	if l.Start.IsZero() {
		l.Start = l.clock()
	}
	yield := l.Yield
	if yield <= 0 {
		yield = time.Millisecond
	}
	log.Info().Dur("yield", yield).Bool("button", l.Button != nil).Msg("control loop running")
	for {
		if err := l.Tick(ctx, l.clock()); err != nil {
			return nil
		}
		if err := l.pause(ctx, yield); err != nil {
			return nil
		}
	}
}

// Tick performs a single iteration at now. It returns ctx's error once the
// loop should stop.
func (l *Loop) Tick(ctx context.Context, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if l.GPS != nil {
		l.GPS.Tick(now)
		if l.Health.Check(now.Sub(l.Start), l.GPS.Decoder.CharsProcessed()) {
			fmt.Fprint(l.Out, gps.NoGPSMessage+"\r\n")
			if err := l.pause(ctx, l.Health.Pause); err != nil {
				return err
			}
		}
	}

	if l.Button != nil && l.Pressed != nil && l.Button.Poll(now, l.Pressed) {
		log.Info().Msg("button released, running self-test")
		if l.SelfTest != nil {
			if err := l.SelfTest(ctx); err != nil {
				log.Warn().Err(err).Msg("self-test failed")
			}
			if l.Bridge != nil {
				if n := l.Bridge.DiscardInput(); n > 0 {
					log.Info().Int("bytes", n).Msg("operator input during self-test dropped")
				}
			}
		}
	}

	if l.Bridge != nil {
		l.Bridge.Tick()
	}
	return nil
}
