// Package button turns a bouncing push-button line into one event per
// press-and-release cycle.
package button

import (
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultInterval = 50 * time.Millisecond

type State int

const (
	Idle State = iota
	Armed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	default:
		return "unknown"
	}
}

// Debouncer samples the button no more often than Interval. Contact bounce
// shorter than the interval is never seen as an edge.
type Debouncer struct {
	interval time.Duration

	state      State
	pressed    bool // last sample
	lastSample time.Time
	sampled    bool
}

func NewDebouncer(interval time.Duration) *Debouncer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Debouncer{interval: interval}
}

func (d *Debouncer) State() State { return d.state }

// Poll takes a sample when the interval has elapsed and reports whether the
// button was just released after a press. read returns true while the button
// is held.
func (d *Debouncer) Poll(now time.Time, read func() (bool, error)) bool {
	if d.sampled && now.Sub(d.lastSample) < d.interval {
		return false
	}
	pressed, err := read()
	if err != nil {
		log.Warn().Err(err).Msg("button read failed")
		return false
	}
	d.lastSample = now
	d.sampled = true

	fire := false
	switch {
	case pressed && !d.pressed && d.state == Idle:
		d.state = Armed
	case !pressed && d.pressed && d.state == Armed:
		d.state = Idle
		fire = true
	}
	d.pressed = pressed
	return fire
}

// ActiveLow adapts a raw line reader for a pull-up button wired to ground.
func ActiveLow(value func() (int, error)) func() (bool, error) {
	return func() (bool, error) {
		v, err := value()
		if err != nil {
			return false, err
		}
		return v == 0, nil
	}
}
