package modem

import (
	"errors"
	"strings"

	"github.com/warthog618/modem/at"
	"github.com/warthog618/modem/info"
)

type SIMStatus int

const (
	SIMUnknown SIMStatus = iota
	SIMAbsent
	SIMReady
	SIMLocked
	SIMPUKRequired
)

func (s SIMStatus) String() string {
	switch s {
	case SIMAbsent:
		return "absent"
	case SIMReady:
		return "ready"
	case SIMLocked:
		return "locked"
	case SIMPUKRequired:
		return "puk required"
	default:
		return "unknown"
	}
}

// parseCPIN maps the +CPIN? reply (or its error) to a SIMStatus.
func parseCPIN(lines []string, err error) (SIMStatus, error) {
	if err != nil {
		var cme at.CMEError
		if errors.As(err, &cme) {
			code := strings.ToLower(strings.TrimSpace(string(cme)))
			// 10: SIM not inserted, 13: SIM failure.
			if code == "10" || code == "13" || strings.Contains(code, "not inserted") {
				return SIMAbsent, nil
			}
		}
		return SIMUnknown, err
	}
	for _, l := range lines {
		if !info.HasPrefix(l, "+CPIN") {
			continue
		}
		v := strings.ToUpper(info.TrimPrefix(l, "+CPIN"))
		switch {
		case v == "READY":
			return SIMReady, nil
		case v == "SIM PIN":
			return SIMLocked, nil
		case v == "SIM PUK":
			return SIMPUKRequired, nil
		case strings.Contains(v, "NOT INSERTED"), strings.Contains(v, "NOT READY"):
			return SIMAbsent, nil
		default:
			return SIMUnknown, nil
		}
	}
	return SIMUnknown, ErrBadResponse
}
