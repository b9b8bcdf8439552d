// Package modem talks to the A7670G over its AT port.
//
// Driver covers the handful of 3GPP commands the connectivity self-test
// needs (SIM, registration, signal, PDP context). HTTP drives the modem's
// built-in HTTP client.
package modem

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/warthog618/modem/at"
	"github.com/warthog618/modem/info"
)

const (
	DefaultTimeout = 5 * time.Second
	probeAttempts  = 5
	probeDelay     = 500 * time.Millisecond
	pollInterval   = 500 * time.Millisecond
	restartDelay   = 10 * time.Second
)

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

type Driver struct {
	a       *at.AT
	cap     *capture
	timeout time.Duration
}

type Option func(*Driver)

func WithTimeout(d time.Duration) Option {
	return func(m *Driver) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// New starts an AT session on rw. The session ends when rw returns an error
// from Read.
func New(rw io.ReadWriter, opts ...Option) *Driver {
	d := &Driver{timeout: DefaultTimeout}
	for _, o := range opts {
		o(d)
	}
	d.cap = newCapture(rw)
	d.a = at.New(d.cap, at.WithTimeout(d.timeout))
	return d
}

func (d *Driver) command(ctx context.Context, cmd string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lines, err := d.a.Command(cmd)
	if err != nil {
		log.Debug().Str("cmd", "AT"+cmd).Err(err).Msg("modem command failed")
	}
	return lines, err
}

// Probe sends AT until the modem answers OK, up to five times. Once it
// answers, echo is turned off and numeric error codes enabled.
func (d *Driver) Probe(ctx context.Context) error {
	var err error
	for i := 0; i < probeAttempts; i++ {
		if _, err = d.command(ctx, ""); err == nil {
			break
		}
		if serr := sleepFn(ctx, probeDelay); serr != nil {
			return serr
		}
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoResponse, err)
	}
	for _, cmd := range []string{"E0", "+CMEE=1"} {
		if _, err := d.command(ctx, cmd); err != nil {
			return fmt.Errorf("modem: AT%s: %w", cmd, err)
		}
	}
	return nil
}

// Restart reboots the modem and waits for it to answer again.
func (d *Driver) Restart(ctx context.Context) error {
	if _, err := d.command(ctx, "+CRESET"); err != nil {
		return fmt.Errorf("modem: restart: %w", err)
	}
	if err := sleepFn(ctx, restartDelay); err != nil {
		return err
	}
	return d.Probe(ctx)
}

// IsNetworkConnected reports home or roaming registration on LTE or GSM.
func (d *Driver) IsNetworkConnected(ctx context.Context) bool {
	for _, cmd := range []string{"+CEREG", "+CREG"} {
		lines, err := d.command(ctx, cmd+"?")
		if err != nil {
			continue
		}
		if stat, ok := parseRegStatus(lines, cmd); ok && (stat == 1 || stat == 5) {
			return true
		}
	}
	return false
}

func (d *Driver) SIMStatus(ctx context.Context) (SIMStatus, error) {
	lines, err := d.command(ctx, "+CPIN?")
	return parseCPIN(lines, err)
}

func (d *Driver) SIMUnlock(ctx context.Context, pin string) error {
	if _, err := d.command(ctx, fmt.Sprintf("+CPIN=\"%s\"", pin)); err != nil {
		return fmt.Errorf("modem: unlock SIM: %w", err)
	}
	return nil
}

// WaitForNetwork polls registration until it succeeds or ctx is done.
func (d *Driver) WaitForNetwork(ctx context.Context) error {
	for {
		if d.IsNetworkConnected(ctx) {
			return nil
		}
		if err := sleepFn(ctx, pollInterval); err != nil {
			return fmt.Errorf("%w: %v", ErrNotRegistered, err)
		}
	}
}

// SignalQuality returns the +CSQ RSSI index (0-31, 99 unknown).
func (d *Driver) SignalQuality(ctx context.Context) (int, error) {
	lines, err := d.command(ctx, "+CSQ")
	if err != nil {
		return 0, fmt.Errorf("modem: signal quality: %w", err)
	}
	for _, l := range lines {
		if !info.HasPrefix(l, "+CSQ") {
			continue
		}
		fields := strings.Split(info.TrimPrefix(l, "+CSQ"), ",")
		rssi, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrBadResponse, l)
		}
		return rssi, nil
	}
	return 0, fmt.Errorf("%w: no +CSQ line", ErrBadResponse)
}

// GPRSConnect defines PDP context 1 for apn and activates it.
func (d *Driver) GPRSConnect(ctx context.Context, apn, user, pass string) error {
	cmds := []string{fmt.Sprintf("+CGDCONT=1,\"IP\",\"%s\"", apn)}
	if user != "" || pass != "" {
		cmds = append(cmds, fmt.Sprintf("+CGAUTH=1,1,\"%s\",\"%s\"", pass, user))
	}
	cmds = append(cmds, "+CGATT=1", "+CGACT=1,1")
	for _, cmd := range cmds {
		if _, err := d.command(ctx, cmd); err != nil {
			return fmt.Errorf("modem: AT%s: %w", cmd, err)
		}
	}
	return nil
}

// LocalIP returns the address assigned to PDP context 1.
func (d *Driver) LocalIP(ctx context.Context) (string, error) {
	lines, err := d.command(ctx, "+CGPADDR=1")
	if err != nil {
		return "", fmt.Errorf("modem: local ip: %w", err)
	}
	for _, l := range lines {
		if !info.HasPrefix(l, "+CGPADDR") {
			continue
		}
		fields := strings.Split(info.TrimPrefix(l, "+CGPADDR"), ",")
		if len(fields) < 2 {
			break
		}
		return strings.Trim(strings.TrimSpace(fields[1]), "\""), nil
	}
	return "", fmt.Errorf("%w: no +CGPADDR line", ErrBadResponse)
}

func (d *Driver) GPRSDisconnect(ctx context.Context) error {
	if _, err := d.command(ctx, "+CGACT=0,1"); err != nil {
		return fmt.Errorf("modem: deactivate pdp: %w", err)
	}
	return nil
}

// parseRegStatus extracts <stat> from a +CREG?/+CEREG? reply ("+CEREG: 0,1").
func parseRegStatus(lines []string, prefix string) (int, bool) {
	for _, l := range lines {
		if !info.HasPrefix(l, prefix) {
			continue
		}
		fields := strings.Split(info.TrimPrefix(l, prefix), ",")
		if len(fields) < 2 {
			return 0, false
		}
		stat, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return 0, false
		}
		return stat, true
	}
	return 0, false
}
