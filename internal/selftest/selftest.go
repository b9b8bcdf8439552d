// Package selftest runs the button-triggered connectivity check: SIM,
// registration, signal, data attach and one HTTP GET.
package selftest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gosuri/uiprogress"
	"github.com/rs/zerolog/log"

	"modembridge/internal/modem"
)

//go:generate mockgen -source=selftest.go -destination=mocks_test.go -package=selftest

// Modem is the part of the modem driver the self-test uses.
type Modem interface {
	Probe(ctx context.Context) error
	Restart(ctx context.Context) error
	IsNetworkConnected(ctx context.Context) bool
	SIMStatus(ctx context.Context) (modem.SIMStatus, error)
	SIMUnlock(ctx context.Context, pin string) error
	WaitForNetwork(ctx context.Context) error
	SignalQuality(ctx context.Context) (int, error)
	GPRSConnect(ctx context.Context, apn, user, pass string) error
	LocalIP(ctx context.Context) (string, error)
	GPRSDisconnect(ctx context.Context) error
}

// HTTPExecutor performs a single GET through the modem.
type HTTPExecutor interface {
	Get(ctx context.Context, host, path string) (status int, body []byte, err error)
}

var (
	ErrProbe          = errors.New("selftest: modem not responding")
	ErrSIMAbsent      = errors.New("selftest: SIM card not detected")
	ErrSIMLocked      = errors.New("selftest: SIM locked")
	ErrPUKRequired    = errors.New("selftest: SIM requires PUK")
	ErrNetworkTimeout = errors.New("selftest: network registration timed out")
	ErrGPRS           = errors.New("selftest: GPRS connect failed")
	ErrHTTP           = errors.New("selftest: HTTP request failed")
)

type Config struct {
	APN      string
	User     string
	Password string
	SIMPin   string

	Host string
	Path string

	NetworkTimeout time.Duration
	BodyLimit      int
	Progress       bool
}

type Runner struct {
	Modem Modem
	HTTP  HTTPExecutor
	Out   io.Writer
	Cfg   Config
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.Out, format+"\r\n", args...)
}

// Run executes the check once. Each failing step prints a diagnostic and
// stops the run; nothing is retried.
func (r *Runner) Run(ctx context.Context) (err error) {
	start := time.Now()
	defer func() {
		ev := log.Info()
		if err != nil {
			ev = log.Warn().Err(err)
		}
		ev.Dur("took", time.Since(start)).Msg("selftest finished")
	}()

	r.printf("Starting connectivity self-test...")
	if err := r.Modem.Probe(ctx); err != nil {
		r.printf("Modem not responding: %v", err)
		return fmt.Errorf("%w: %v", ErrProbe, err)
	}
	if !r.Modem.IsNetworkConnected(ctx) {
		r.printf("Network not connected, restarting modem...")
		if err := r.Modem.Restart(ctx); err != nil {
			r.printf("Modem restart failed: %v", err)
			return fmt.Errorf("%w: %v", ErrProbe, err)
		}
	}

	if err := r.checkSIM(ctx); err != nil {
		return err
	}

	r.printf("Waiting for network (up to %s)...", r.networkTimeout())
	if err := r.waitForNetwork(ctx); err != nil {
		r.printf("Network registration failed: %v", err)
		return fmt.Errorf("%w: %v", ErrNetworkTimeout, err)
	}
	r.printf("Network connected")

	if q, err := r.Modem.SignalQuality(ctx); err != nil {
		r.printf("Signal quality: unavailable (%v)", err)
	} else {
		r.printf("Signal quality: %d", q)
	}

	r.printf("Connecting to APN %s...", r.Cfg.APN)
	if err := r.Modem.GPRSConnect(ctx, r.Cfg.APN, r.Cfg.User, r.Cfg.Password); err != nil {
		r.printf("GPRS connect failed: %v", err)
		return fmt.Errorf("%w: %v", ErrGPRS, err)
	}
	defer func() {
		if derr := r.Modem.GPRSDisconnect(ctx); derr != nil {
			r.printf("GPRS disconnect failed: %v", derr)
		} else {
			r.printf("GPRS disconnected")
		}
	}()
	if ip, err := r.Modem.LocalIP(ctx); err == nil {
		r.printf("Local IP: %s", ip)
	}

	r.printf("HTTP GET %s%s", r.Cfg.Host, r.Cfg.Path)
	status, body, err := r.HTTP.Get(ctx, r.Cfg.Host, r.Cfg.Path)
	if err != nil {
		r.printf("HTTP request failed: %v", err)
		return fmt.Errorf("%w: %v", ErrHTTP, err)
	}
	r.printf("HTTP status: %d", status)
	if len(body) > 0 {
		r.printf("Response:")
		r.printf("%s", Truncate(body, r.bodyLimit()))
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("%w: status %d", ErrHTTP, status)
	}
	r.printf("Self-test passed")
	return nil
}

func (r *Runner) checkSIM(ctx context.Context) error {
	st, err := r.Modem.SIMStatus(ctx)
	if err != nil {
		r.printf("SIM status query failed: %v", err)
		return fmt.Errorf("%w: %v", ErrSIMAbsent, err)
	}
	switch st {
	case modem.SIMReady:
		r.printf("SIM ready")
		return nil
	case modem.SIMAbsent:
		r.printf("SIM card not detected")
		return ErrSIMAbsent
	case modem.SIMPUKRequired:
		r.printf("SIM requires PUK code, cannot continue")
		return ErrPUKRequired
	case modem.SIMLocked:
		if r.Cfg.SIMPin == "" {
			r.printf("SIM locked and no PIN configured")
			return ErrSIMLocked
		}
		r.printf("Unlocking SIM...")
		if err := r.Modem.SIMUnlock(ctx, r.Cfg.SIMPin); err != nil {
			r.printf("SIM unlock failed: %v", err)
			return fmt.Errorf("%w: %v", ErrSIMLocked, err)
		}
		return nil
	default:
		r.printf("SIM status unknown (%s)", st)
		return fmt.Errorf("%w: status %s", ErrSIMAbsent, st)
	}
}

func (r *Runner) waitForNetwork(ctx context.Context) error {
	wctx, cancel := context.WithTimeout(ctx, r.networkTimeout())
	defer cancel()

	if r.Cfg.Progress {
		stop := r.countdown(wctx)
		defer stop()
	}
	return r.Modem.WaitForNetwork(wctx)
}

// countdown draws a progress bar over the wait window until stop is called.
func (r *Runner) countdown(ctx context.Context) (stop func()) {
	secs := int(r.networkTimeout() / time.Second)
	progress := uiprogress.New()
	progress.SetOut(r.Out)
	progress.Start()
	bar := progress.AddBar(secs)
	bar.PrependElapsed()
	bar.AppendCompleted()

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		t := time.NewTicker(time.Second)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-t.C:
				bar.Incr()
			}
		}
	}()
	return func() {
		close(done)
		<-finished
		progress.Stop()
	}
}

func (r *Runner) networkTimeout() time.Duration {
	if r.Cfg.NetworkTimeout > 0 {
		return r.Cfg.NetworkTimeout
	}
	return 30 * time.Second
}

func (r *Runner) bodyLimit() int {
	if r.Cfg.BodyLimit > 0 {
		return r.Cfg.BodyLimit
	}
	return 500
}

// Truncate returns at most limit characters of body.
func Truncate(body []byte, limit int) string {
	rs := []rune(string(body))
	if len(rs) <= limit {
		return string(rs)
	}
	return string(rs[:limit])
}
