package app

import (
	"io"
	"strings"
)

var banner = []string{
	"==============================================",
	"LilyGO T-A7670G R2 with GPS (Model Q425)",
	"==============================================",
	"",
	"Board: T-A7670G R2",
	"Modem: A7670G (4G LTE CAT1)",
	"GPS: L76K External GPS Module",
	"",
}

// PrintBanner writes the startup identification block.
func PrintBanner(w io.Writer, selfTest bool) error {
	lines := append([]string(nil), banner...)
	if selfTest {
		lines = append(lines, "Press the BOOT button to run the connectivity self-test.", "")
	}
	lines = append(lines,
		"Waiting for GPS signal...",
		"(This may take several minutes outdoors)",
		"",
	)
	_, err := io.WriteString(w, strings.Join(lines, "\r\n")+"\r\n")
	return err
}
