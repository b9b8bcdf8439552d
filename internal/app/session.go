package app

import (
	"context"
	"io"
	stdlog "log"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/warthog618/modem/trace"

	"modembridge/internal/modem"
	"modembridge/internal/selftest"
	"modembridge/internal/serialio"
)

// SelfTestSession runs the connectivity check on the modem port. The port is
// borrowed for the duration of the run and handed back to the bridge after.
type SelfTestSession struct {
	Port        *serialio.Port
	Out         io.Writer
	Config      selftest.Config
	Timeout     time.Duration
	HTTPTimeout time.Duration
	Trace       bool
}

func (s *SelfTestSession) Run(ctx context.Context) error {
	sctx, cancel := context.WithCancel(ctx)
	stream := s.Port.Stream(sctx)
	defer func() {
		cancel()
		stream.Release()
	}()

	var rw io.ReadWriter = stream
	if s.Trace {
		rw = trace.New(stream, trace.WithLogger(stdlog.New(log.Logger, "", 0)))
	}
	d := modem.New(rw, modem.WithTimeout(s.Timeout))
	r := &selftest.Runner{
		Modem: d,
		HTTP:  modem.NewHTTP(d, s.HTTPTimeout),
		Out:   s.Out,
		Cfg:   s.Config,
	}
	return r.Run(sctx)
}
