package gps

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const DefaultReportInterval = 5 * time.Second

type Variant int

const (
	Simple Variant = iota
	Extended
)

// ParseVariant maps the configured name to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "simple":
		return Simple, nil
	case "extended":
		return Extended, nil
	default:
		return Simple, fmt.Errorf("gps: unknown variant %q", s)
	}
}

// Reporter prints fix lines to the operator.
//
// Simple prints after every decoded sentence. Extended prints at most once
// per Interval and only when location or satellite count changed since the
// last line.
type Reporter struct {
	Out      io.Writer
	Variant  Variant
	Interval time.Duration

	lastReport time.Time
	reported   bool
	count      int
}

// Count returns the number of lines printed.
func (r *Reporter) Count() int { return r.count }

// Offer is called after d consumed a byte. sentence is Encode's result for
// that byte. It returns true when a line was printed.
func (r *Reporter) Offer(now time.Time, d *Decoder, sentence bool) bool {
	switch r.Variant {
	case Extended:
		interval := r.Interval
		if interval <= 0 {
			interval = DefaultReportInterval
		}
		if r.reported && now.Sub(r.lastReport) < interval {
			return false
		}
		if !d.Location.IsUpdated() && !d.Satellites.IsUpdated() {
			return false
		}
		fmt.Fprint(r.Out, FormatExtended(d)+"\r\n")
		d.ClearUpdated()
	default:
		if !sentence {
			return false
		}
		fmt.Fprint(r.Out, FormatSimple(d)+"\r\n")
	}
	r.lastReport = now
	r.reported = true
	r.count++
	return true
}

const invalid = "INVALID"

// FormatSimple renders the compact line:
//
//	Location: 48.117300,11.516667  Date/Time: 3/23/1994 12:35:19.00
func FormatSimple(d *Decoder) string {
	var b strings.Builder
	b.WriteString("Location: ")
	if d.Location.IsValid() {
		ll := d.Location.Value()
		fmt.Fprintf(&b, "%.6f,%.6f", ll.Lat, ll.Lng)
	} else {
		b.WriteString(invalid)
	}
	b.WriteString("  Date/Time: ")
	if d.Date.IsValid() {
		dt := d.Date.Value()
		fmt.Fprintf(&b, "%d/%d/%d", dt.Month, dt.Day, dt.Year)
	} else {
		b.WriteString(invalid)
	}
	b.WriteString(" ")
	if d.Time.IsValid() {
		c := d.Time.Value()
		fmt.Fprintf(&b, "%02d:%02d:%02d.%02d", c.Hour, c.Minute, c.Second, c.Centisecond)
	} else {
		b.WriteString(invalid)
	}
	return b.String()
}

// FormatExtended renders the pipe-delimited line with every field.
func FormatExtended(d *Decoder) string {
	parts := make([]string, 0, 7)

	if d.Location.IsValid() {
		ll := d.Location.Value()
		parts = append(parts, fmt.Sprintf("Location: %.6f,%.6f", ll.Lat, ll.Lng))
	} else {
		parts = append(parts, "Location: "+invalid)
	}
	if d.Altitude.IsValid() {
		parts = append(parts, fmt.Sprintf("Altitude: %.2f m", d.Altitude.Value()))
	} else {
		parts = append(parts, "Altitude: "+invalid)
	}
	if d.Speed.IsValid() {
		parts = append(parts, fmt.Sprintf("Speed: %.2f km/h", d.SpeedKPH()))
	} else {
		parts = append(parts, "Speed: "+invalid)
	}
	if d.Course.IsValid() {
		parts = append(parts, fmt.Sprintf("Course: %.2f°", d.Course.Value()))
	} else {
		parts = append(parts, "Course: "+invalid)
	}
	if d.Date.IsValid() && d.Time.IsValid() {
		dt, c := d.Date.Value(), d.Time.Value()
		parts = append(parts, fmt.Sprintf("Time: %04d-%02d-%02d %02d:%02d:%02d",
			dt.Year, dt.Month, dt.Day, c.Hour, c.Minute, c.Second))
	} else {
		parts = append(parts, "Time: "+invalid)
	}
	if d.Satellites.IsValid() {
		parts = append(parts, fmt.Sprintf("Satellites: %d", d.Satellites.Value()))
	} else {
		parts = append(parts, "Satellites: "+invalid)
	}
	if d.HDOP.IsValid() {
		parts = append(parts, fmt.Sprintf("HDOP: %.2f", d.HDOP.Value()))
	} else {
		parts = append(parts, "HDOP: "+invalid)
	}
	return strings.Join(parts, " | ")
}
