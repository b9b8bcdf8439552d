// Package gps ingests NMEA from the L76K receiver.
//
// Decoder accumulates the latest fix from RMC, GGA, VTG, ZDA and GSA
// sentences with per-field valid/updated flags. Reporter decides when a fix
// line is printed for the operator and Health flags a receiver that never
// produced any bytes.
package gps
