// Package serialio exposes host serial devices as drivers.UART channels.
//
// Each Port runs one reader goroutine that copies incoming bytes into a
// fixed-size ring, the way a UART RX FIFO is filled by its interrupt handler
// on a microcontroller. Reads from the control loop never block.
package serialio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
	"tinygo.org/x/drivers"
)

// DefaultRingSize is the RX capacity of a Port.
const DefaultRingSize = 4096

// ConsoleName is the Port name used for the process terminal.
const ConsoleName = "stdio"

// readTimeout bounds how long the reader goroutine blocks in the driver so it
// notices Close on platforms that do not interrupt a pending read.
const readTimeout = 100 * time.Millisecond

var ErrClosed = errors.New("serialio: port closed")

var openFn = func(device string, mode *serial.Mode) (io.ReadWriteCloser, error) {
	p, err := serial.Open(device, mode)
	if err != nil {
		return nil, err
	}
	if err := p.SetReadTimeout(readTimeout); err != nil {
		_ = p.Close()
		return nil, err
	}
	return p, nil
}

type Port struct {
	name string
	rwc  io.ReadWriteCloser
	rx   *Ring

	wmu sync.Mutex

	dropped atomic.Uint64
	closing atomic.Bool
	done    chan struct{}
	once    sync.Once

	errMu sync.Mutex
	err   error
}

var _ drivers.UART = (*Port)(nil)

// Open opens device at baud, 8N1.
func Open(device string, baud int) (*Port, error) {
	if device == "" {
		return nil, fmt.Errorf("serialio: device is required")
	}
	if baud <= 0 {
		return nil, fmt.Errorf("serialio: invalid baud %d", baud)
	}
	rwc, err := openFn(device, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("serialio: open %s: %w", device, err)
	}
	log.Debug().Str("device", device).Int("baud", baud).Msg("serial port opened")
	return New(device, rwc, DefaultRingSize), nil
}

// New wraps an already open stream and starts its reader goroutine.
func New(name string, rwc io.ReadWriteCloser, ringSize int) *Port {
	p := &Port{
		name: name,
		rwc:  rwc,
		rx:   NewRing(ringSize),
		done: make(chan struct{}),
	}
	go p.pump()
	return p
}

func (p *Port) pump() {
	defer close(p.done)
	buf := make([]byte, 256)
	for {
		n, err := p.rwc.Read(buf)
		if n > 0 {
			if w := p.rx.WriteFrom(buf[:n]); w < n {
				if p.dropped.Add(uint64(n-w)) == uint64(n-w) {
					log.Warn().Str("device", p.name).Msg("rx ring full, dropping bytes")
				}
			}
		}
		if p.closing.Load() {
			return
		}
		if err != nil {
			// A timed out read is (0, nil) for go.bug.st/serial; anything else ends the port.
			p.setErr(err)
			if !errors.Is(err, io.EOF) {
				log.Error().Err(err).Str("device", p.name).Msg("serial read stopped")
			}
			return
		}
	}
}

func (p *Port) setErr(err error) {
	p.errMu.Lock()
	defer p.errMu.Unlock()
	if p.err == nil {
		p.err = err
	}
}

// Err returns the error that stopped the reader, if any.
func (p *Port) Err() error {
	p.errMu.Lock()
	defer p.errMu.Unlock()
	return p.err
}

func (p *Port) Name() string { return p.name }

// Buffered returns the number of received bytes waiting to be read.
func (p *Port) Buffered() int { return p.rx.Available() }

// Dropped returns the number of received bytes lost to a full ring.
func (p *Port) Dropped() uint64 { return p.dropped.Load() }

// Read copies buffered bytes into b without blocking. It returns (0, nil)
// when nothing is buffered and io.EOF once the reader has stopped and the
// ring is drained.
func (p *Port) Read(b []byte) (int, error) {
	n := p.rx.ReadInto(b)
	if n == 0 && p.stopped() {
		return 0, io.EOF
	}
	return n, nil
}

func (p *Port) stopped() bool {
	select {
	case <-p.done:
		return p.rx.Available() == 0
	default:
		return false
	}
}

// ReadByte is the single-byte read primitive.
func (p *Port) ReadByte() (byte, error) {
	var b [1]byte
	n, err := p.Read(b[:])
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, io.ErrNoProgress
	}
	return b[0], nil
}

func (p *Port) Write(b []byte) (int, error) {
	if p.closing.Load() {
		return 0, ErrClosed
	}
	p.wmu.Lock()
	defer p.wmu.Unlock()
	return p.rwc.Write(b)
}

func (p *Port) WriteByte(c byte) error {
	_, err := p.Write([]byte{c})
	return err
}

// Stream lends the port to a blocking consumer such as an AT command
// session. Reads on the returned stream block until data arrives and return
// io.EOF once ctx is done. Call Release after cancelling ctx and before
// reading the port directly again.
func (p *Port) Stream(ctx context.Context) *Stream {
	return &Stream{p: p, ctx: ctx}
}

type Stream struct {
	p   *Port
	ctx context.Context
	mu  sync.Mutex // held for the duration of a Read
}

func (s *Stream) Read(b []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		if err := s.ctx.Err(); err != nil {
			return 0, io.EOF
		}
		if n := s.p.rx.ReadInto(b); n > 0 {
			return n, nil
		}
		select {
		case <-s.ctx.Done():
			return 0, io.EOF
		case <-s.p.done:
			if s.p.rx.Available() == 0 {
				return 0, io.EOF
			}
		case <-s.p.rx.Readable():
		}
	}
}

func (s *Stream) Write(b []byte) (int, error) {
	if err := s.ctx.Err(); err != nil {
		return 0, err
	}
	return s.p.Write(b)
}

// Release waits for an in-flight Read to return. ctx must already be done.
func (s *Stream) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
}

// Close stops the port. It does not wait for the reader goroutine, which may
// stay parked in a read on devices that cannot be interrupted (stdin).
func (p *Port) Close() error {
	var err error
	p.once.Do(func() {
		p.closing.Store(true)
		err = p.rwc.Close()
	})
	return err
}
