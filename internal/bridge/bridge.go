// Package bridge relays AT traffic between the operator's debug channel and
// the modem.
//
// Modem output is copied to the debug channel byte for byte. Operator input
// is collected into lines; a CR or LF sends the line to the modem with a
// canonical "\r\n" terminator, and an empty line sends nothing.
package bridge

import (
	"github.com/rs/zerolog/log"
	"tinygo.org/x/drivers"
)

const DefaultMaxLine = 256

const chunk = 64

type Option func(*Bridge)

// WithMaxLine bounds the pending command line. A line that grows past n bytes
// is dropped whole.
func WithMaxLine(n int) Option {
	return func(b *Bridge) {
		if n >= 2 {
			b.maxLine = n
		}
	}
}

type Bridge struct {
	debug drivers.UART
	modem drivers.UART

	maxLine    int
	pending    []byte
	discarding bool
	dropped    int

	scratch [chunk]byte
}

func New(debug, modem drivers.UART, opts ...Option) *Bridge {
	b := &Bridge{debug: debug, modem: modem, maxLine: DefaultMaxLine}
	for _, o := range opts {
		o(b)
	}
	b.pending = make([]byte, 0, b.maxLine)
	return b
}

// Tick relays everything currently available in both directions. It never
// waits for more input.
func (b *Bridge) Tick() {
	b.fromModem()
	b.fromDebug()
}

func (b *Bridge) fromModem() {
	for remaining := b.modem.Buffered(); remaining > 0; {
		n, err := b.modem.Read(b.scratch[:min(remaining, chunk)])
		if n == 0 || err != nil {
			return
		}
		remaining -= n
		if _, err := b.debug.Write(b.scratch[:n]); err != nil {
			log.Warn().Err(err).Msg("bridge: write to debug channel failed")
		}
	}
}

func (b *Bridge) fromDebug() {
	for remaining := b.debug.Buffered(); remaining > 0; {
		n, err := b.debug.Read(b.scratch[:min(remaining, chunk)])
		if n == 0 || err != nil {
			return
		}
		remaining -= n
		for _, c := range b.scratch[:n] {
			b.feed(c)
		}
	}
}

func (b *Bridge) feed(c byte) {
	if c == '\r' || c == '\n' {
		if b.discarding {
			b.discarding = false
			return
		}
		if len(b.pending) == 0 {
			return
		}
		b.flush()
		return
	}
	if b.discarding {
		return
	}
	if len(b.pending) >= b.maxLine {
		b.dropped++
		b.discarding = true
		log.Warn().Int("max_line", b.maxLine).Msg("bridge: command line too long, dropped")
		b.pending = b.pending[:0]
		return
	}
	b.pending = append(b.pending, c)
}

func (b *Bridge) flush() {
	line := append(b.pending, '\r', '\n')
	if _, err := b.modem.Write(line); err != nil {
		log.Warn().Err(err).Msg("bridge: write to modem failed")
	}
	b.pending = b.pending[:0]
}

// DiscardInput drops operator input that is buffered but not yet relayed,
// including a partial command line. It is used after the loop was held by
// something else (the self-test) so stale keystrokes never reach the modem.
func (b *Bridge) DiscardInput() int {
	n := len(b.pending)
	b.pending = b.pending[:0]
	b.discarding = false
	for remaining := b.debug.Buffered(); remaining > 0; {
		r, err := b.debug.Read(b.scratch[:min(remaining, chunk)])
		if r == 0 || err != nil {
			break
		}
		remaining -= r
		n += r
	}
	return n
}

// Pending returns a copy of the unterminated command line.
func (b *Bridge) Pending() []byte {
	out := make([]byte, len(b.pending))
	copy(out, b.pending)
	return out
}

// Dropped returns how many over-long command lines were discarded.
func (b *Bridge) Dropped() int { return b.dropped }
