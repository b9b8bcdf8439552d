package modem

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/warthog618/modem/info"
)

const DefaultHTTPTimeout = 60 * time.Second

// HTTP performs requests with the modem's internal HTTP stack
// (AT+HTTPINIT / HTTPPARA / HTTPACTION / HTTPREAD / HTTPTERM).
type HTTP struct {
	d       *Driver
	timeout time.Duration
}

func NewHTTP(d *Driver, timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &HTTP{d: d, timeout: timeout}
}

type actionResult struct {
	method int
	status int
	length int
}

// Get fetches http://host+path and returns the status code and body.
func (h *HTTP) Get(ctx context.Context, host, path string) (int, []byte, error) {
	if _, err := h.d.command(ctx, "+HTTPINIT"); err != nil {
		return 0, nil, fmt.Errorf("modem: http init: %w", err)
	}
	defer func() {
		if _, err := h.d.a.Command("+HTTPTERM"); err != nil {
			log.Debug().Err(err).Msg("modem: http term failed")
		}
	}()

	url := "http://" + host + path
	if _, err := h.d.command(ctx, fmt.Sprintf("+HTTPPARA=\"URL\",\"%s\"", url)); err != nil {
		return 0, nil, fmt.Errorf("modem: http url: %w", err)
	}

	results := make(chan string, 1)
	handler := func(lines []string) {
		select {
		case results <- lines[0]:
		default:
		}
	}
	if err := h.d.a.AddIndication("+HTTPACTION:", handler); err != nil {
		return 0, nil, fmt.Errorf("modem: http indication: %w", err)
	}
	defer h.d.a.CancelIndication("+HTTPACTION:")

	if _, err := h.d.command(ctx, "+HTTPACTION=0"); err != nil {
		return 0, nil, fmt.Errorf("modem: http action: %w", err)
	}

	wctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	var res actionResult
	select {
	case <-wctx.Done():
		return 0, nil, fmt.Errorf("%w: %v", ErrHTTPNoResponse, wctx.Err())
	case l := <-results:
		var err error
		if res, err = parseHTTPAction(l); err != nil {
			return 0, nil, err
		}
	}

	if res.length == 0 {
		return res.status, nil, nil
	}
	body, err := h.read(wctx, res.length)
	if err != nil {
		return res.status, nil, err
	}
	return res.status, body, nil
}

// read issues +HTTPREAD for length bytes. Depending on firmware the payload
// comes inside the command response or after its OK, framed as
// "+HTTPREAD: <n>\r\n<n bytes>\r\n+HTTPREAD: 0", so it is taken from the
// raw byte stream rather than from the response lines.
func (h *HTTP) read(ctx context.Context, length int) ([]byte, error) {
	h.d.cap.arm()
	defer h.d.cap.disarm()

	if _, err := h.d.command(ctx, fmt.Sprintf("+HTTPREAD=0,%d", length)); err != nil {
		return nil, fmt.Errorf("modem: http read: %w", err)
	}
	for {
		if body, ok := httpPayload(h.d.cap.bytes()); ok {
			return body, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrHTTPNoResponse, ctx.Err())
		case <-h.d.cap.wait():
		}
	}
}

// parseHTTPAction decodes "+HTTPACTION: <method>,<status>,<datalen>".
func parseHTTPAction(l string) (actionResult, error) {
	fields := strings.Split(info.TrimPrefix(strings.TrimSpace(l), "+HTTPACTION"), ",")
	if len(fields) != 3 {
		return actionResult{}, fmt.Errorf("%w: %q", ErrBadResponse, l)
	}
	var v [3]int
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || n < 0 {
			return actionResult{}, fmt.Errorf("%w: %q", ErrBadResponse, l)
		}
		v[i] = n
	}
	return actionResult{method: v[0], status: v[1], length: v[2]}, nil
}

var readHeader = []byte("+HTTPREAD:")

// httpPayload extracts the data following the first non-zero
// "+HTTPREAD: <n>" header in raw. ok is false until all n bytes are present.
func httpPayload(raw []byte) (body []byte, ok bool) {
	for {
		i := bytes.Index(raw, readHeader)
		if i < 0 {
			return nil, false
		}
		raw = raw[i+len(readHeader):]
		eol := bytes.Index(raw, []byte("\r\n"))
		if eol < 0 {
			return nil, false
		}
		n, err := strconv.Atoi(strings.TrimSpace(string(raw[:eol])))
		raw = raw[eol+2:]
		if err != nil || n <= 0 {
			continue
		}
		if len(raw) < n {
			return nil, false
		}
		return raw[:n], true
	}
}
