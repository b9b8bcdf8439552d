package gps

import (
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"tinygo.org/x/drivers"
)

// Ingest drains the receiver channel into the decoder each loop iteration.
type Ingest struct {
	In       drivers.UART
	Decoder  *Decoder
	Reporter *Reporter

	// Echo copies raw NMEA bytes to this writer when set.
	Echo io.Writer

	scratch [128]byte
}

// Tick consumes every byte currently buffered and returns the number of
// report lines printed.
func (g *Ingest) Tick(now time.Time) int {
	reports := 0
	for remaining := g.In.Buffered(); remaining > 0; {
		n, err := g.In.Read(g.scratch[:min(remaining, len(g.scratch))])
		if err != nil {
			log.Debug().Err(err).Msg("gps: read failed")
			return reports
		}
		if n == 0 {
			return reports
		}
		remaining -= n
		if g.Echo != nil {
			_, _ = g.Echo.Write(g.scratch[:n])
		}
		for _, c := range g.scratch[:n] {
			ok := g.Decoder.Encode(c)
			if g.Reporter != nil && g.Reporter.Offer(now, g.Decoder, ok) {
				reports++
			}
		}
	}
	return reports
}
