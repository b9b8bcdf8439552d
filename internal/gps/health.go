package gps

import "time"

const NoGPSMessage = "No GPS detected: check wiring and antenna connection."

// Health detects a receiver that is not wired or not powered.
type Health struct {
	Grace    time.Duration
	MinChars uint32
	Pause    time.Duration
}

func DefaultHealth() Health {
	return Health{Grace: 30 * time.Second, MinChars: 10, Pause: time.Second}
}

// Check reports whether the warning should be printed: the grace period has
// passed and the decoder has still seen fewer than MinChars bytes.
func (h Health) Check(uptime time.Duration, chars uint32) bool {
	return uptime > h.Grace && chars < h.MinChars
}
