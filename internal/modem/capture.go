package modem

import (
	"bytes"
	"io"
	"sync"
)

// capture sits between the AT session and the port and, while armed, keeps a
// copy of every byte the session reads. Payloads that the modem sends outside
// a command response (+HTTPREAD data after OK) are recovered from it.
type capture struct {
	rw io.ReadWriter

	mu     sync.Mutex
	buf    *bytes.Buffer
	notify chan struct{}
}

func newCapture(rw io.ReadWriter) *capture {
	return &capture{rw: rw, notify: make(chan struct{}, 1)}
}

func (c *capture) Read(b []byte) (int, error) {
	n, err := c.rw.Read(b)
	if n > 0 {
		c.mu.Lock()
		if c.buf != nil {
			c.buf.Write(b[:n])
			select {
			case c.notify <- struct{}{}:
			default:
			}
		}
		c.mu.Unlock()
	}
	return n, err
}

func (c *capture) Write(b []byte) (int, error) { return c.rw.Write(b) }

func (c *capture) arm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buf = &bytes.Buffer{}
	select {
	case <-c.notify:
	default:
	}
}

func (c *capture) disarm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buf = nil
}

// bytes returns a copy of what was captured since arm.
func (c *capture) bytes() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.buf == nil {
		return nil
	}
	return bytes.Clone(c.buf.Bytes())
}

// wait returns a channel that fires after new bytes were captured.
func (c *capture) wait() <-chan struct{} { return c.notify }
