package gps

import (
	"errors"

	nmea "github.com/adrianmo/go-nmea"
	"github.com/rs/zerolog/log"
)

// maxLine bounds a buffered sentence. NMEA allows 82 bytes; anything much
// longer is noise.
const maxLine = 120

// Field holds one decoded value. Valid is sticky once a sentence supplied the
// value; Updated is set on every commit until ClearUpdated.
type Field[T any] struct {
	value   T
	valid   bool
	updated bool
}

func (f *Field[T]) Value() T        { return f.value }
func (f *Field[T]) IsValid() bool   { return f.valid }
func (f *Field[T]) IsUpdated() bool { return f.updated }

func (f *Field[T]) set(v T) {
	f.value = v
	f.valid = true
	f.updated = true
}

func (f *Field[T]) invalidate() {
	f.valid = false
	f.updated = true
}

type LatLng struct {
	Lat float64
	Lng float64
}

type Date struct {
	Year  int
	Month int
	Day   int
}

type Clock struct {
	Hour        int
	Minute      int
	Second      int
	Centisecond int
}

// Decoder consumes the receiver's byte stream one byte at a time.
type Decoder struct {
	Location   Field[LatLng]
	Altitude   Field[float64] // metres above MSL
	Speed      Field[float64] // knots
	Course     Field[float64] // degrees true
	Date       Field[Date]
	Time       Field[Clock]
	Satellites Field[int]
	HDOP       Field[float64]

	line     []byte
	overflow bool
	inLine   bool

	charsProcessed   uint32
	passedChecksum   uint32
	failedChecksum   uint32
	sentencesWithFix uint32
}

func NewDecoder() *Decoder {
	return &Decoder{line: make([]byte, 0, maxLine)}
}

func (d *Decoder) CharsProcessed() uint32   { return d.charsProcessed }
func (d *Decoder) PassedChecksum() uint32   { return d.passedChecksum }
func (d *Decoder) FailedChecksum() uint32   { return d.failedChecksum }
func (d *Decoder) SentencesWithFix() uint32 { return d.sentencesWithFix }

// SpeedKPH returns Speed converted to km/h.
func (d *Decoder) SpeedKPH() float64 { return d.Speed.Value() * 1.852 }

// ClearUpdated resets every Updated flag.
func (d *Decoder) ClearUpdated() {
	d.Location.updated = false
	d.Altitude.updated = false
	d.Speed.updated = false
	d.Course.updated = false
	d.Date.updated = false
	d.Time.updated = false
	d.Satellites.updated = false
	d.HDOP.updated = false
}

// Encode feeds one byte. It returns true when the byte completed a good RMC
// or GGA sentence. VTG, ZDA and GSA update fields but do not count as a
// new fix.
func (d *Decoder) Encode(c byte) bool {
	d.charsProcessed++
	switch c {
	case '$':
		d.line = append(d.line[:0], c)
		d.inLine = true
		d.overflow = false
		return false
	case '\r':
		return false
	case '\n':
		if !d.inLine {
			return false
		}
		d.inLine = false
		if d.overflow {
			return false
		}
		return d.commit(string(d.line))
	}
	if !d.inLine || d.overflow {
		return false
	}
	if len(d.line) >= maxLine {
		d.overflow = true
		log.Debug().Int("max", maxLine).Msg("gps: sentence too long, discarded")
		return false
	}
	d.line = append(d.line, c)
	return false
}

func (d *Decoder) commit(raw string) bool {
	s, err := nmea.Parse(raw)
	if err != nil {
		var unsupported *nmea.NotSupportedError
		if !errors.As(err, &unsupported) {
			d.failedChecksum++
			log.Debug().Err(err).Msg("gps: bad sentence")
			return false
		}
		// Well-formed but of a type we do not decode (GSV, TXT, ...).
		d.passedChecksum++
		return false
	}
	d.passedChecksum++

	switch m := s.(type) {
	case nmea.RMC:
		d.commitTime(m.Time)
		if m.Date.Valid {
			d.Date.set(Date{Year: fullYear(m.Date.YY), Month: m.Date.MM, Day: m.Date.DD})
		}
		if m.Validity == nmea.ValidRMC {
			d.sentencesWithFix++
			d.Location.set(LatLng{Lat: m.Latitude, Lng: m.Longitude})
			d.Speed.set(m.Speed)
			d.Course.set(m.Course)
		}
	case nmea.GGA:
		d.commitTime(m.Time)
		if m.FixQuality != nmea.Invalid && m.FixQuality != "" {
			d.sentencesWithFix++
			d.Location.set(LatLng{Lat: m.Latitude, Lng: m.Longitude})
			d.Altitude.set(m.Altitude)
		}
		d.Satellites.set(int(m.NumSatellites))
		d.HDOP.set(m.HDOP)
	case nmea.VTG:
		// Before a fix the receiver sends VTG with empty fields.
		if fieldSet(m.Fields, 4) {
			d.Speed.set(m.GroundSpeedKnots)
		}
		if fieldSet(m.Fields, 0) {
			d.Course.set(m.TrueTrack)
		}
		return false
	case nmea.ZDA:
		d.commitTime(m.Time)
		if m.Year > 0 {
			d.Date.set(Date{Year: int(m.Year), Month: int(m.Month), Day: int(m.Day)})
		}
		return false
	case nmea.GSA:
		if m.FixType == nmea.FixNone {
			d.Location.invalidate()
		}
		d.HDOP.set(m.HDOP)
		return false
	default:
		return false
	}
	return true
}

func fieldSet(fields []string, i int) bool {
	return i < len(fields) && fields[i] != ""
}

func (d *Decoder) commitTime(t nmea.Time) {
	if !t.Valid {
		return
	}
	d.Time.set(Clock{
		Hour:        t.Hour,
		Minute:      t.Minute,
		Second:      t.Second,
		Centisecond: t.Millisecond / 10,
	})
}

// fullYear expands an RMC two-digit year. GPS time starts in 1980.
func fullYear(yy int) int {
	if yy >= 80 {
		return 1900 + yy
	}
	return 2000 + yy
}
