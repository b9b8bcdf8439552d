package gps

import (
	"bytes"
	"testing"
)

type fakeUART struct {
	rx bytes.Buffer
}

func (u *fakeUART) Buffered() int               { return u.rx.Len() }
func (u *fakeUART) Read(p []byte) (int, error)  { return u.rx.Read(p) }
func (u *fakeUART) Write(p []byte) (int, error) { return len(p), nil }

func TestIngest_DrainsAndReports(t *testing.T) {
	in := &fakeUART{}
	var out, echo bytes.Buffer
	g := &Ingest{
		In:       in,
		Decoder:  NewDecoder(),
		Reporter: &Reporter{Out: &out, Variant: Simple},
		Echo:     &echo,
	}
	stream := nmeaLine(rmcFix) + nmeaLine(ggaFix)
	in.rx.WriteString(stream)

	if got := g.Tick(t0); got != 2 {
		t.Fatalf("reports=%d want 2", got)
	}
	if in.Buffered() != 0 {
		t.Fatalf("left %d bytes undrained", in.Buffered())
	}
	if echo.String() != stream {
		t.Fatalf("echo=%q", echo.String())
	}
	if g.Decoder.CharsProcessed() != uint32(len(stream)) {
		t.Fatalf("chars=%d", g.Decoder.CharsProcessed())
	}
}

func TestIngest_PartialSentenceAcrossTicks(t *testing.T) {
	in := &fakeUART{}
	var out bytes.Buffer
	g := &Ingest{In: in, Decoder: NewDecoder(), Reporter: &Reporter{Out: &out, Variant: Simple}}
	line := nmeaLine(rmcFix)

	in.rx.WriteString(line[:20])
	if got := g.Tick(t0); got != 0 {
		t.Fatalf("reports=%d want 0", got)
	}
	in.rx.WriteString(line[20:])
	if got := g.Tick(t0); got != 1 {
		t.Fatalf("reports=%d want 1", got)
	}
}

func TestIngest_Idle(t *testing.T) {
	g := &Ingest{In: &fakeUART{}, Decoder: NewDecoder()}
	if got := g.Tick(t0); got != 0 {
		t.Fatalf("reports=%d", got)
	}
}
