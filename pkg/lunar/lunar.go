// Package lunar provides moon phase calculations anchored on a known new moon.
// Phase is the fractional position within a mean synodic month, so results
// drift from true ephemeris values by up to about a day; illumination follows
// a cosine of phase rather than the real phase angle.
package lunar

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// SynodicMonth is the average length of the lunar cycle in days
const SynodicMonth = 29.53059

// ReferenceNewMoon is the new moon every phase is measured from.
var ReferenceNewMoon = time.Date(2025, time.August, 23, 6, 6, 0, 0, time.UTC)

// MoonSnapshot contains calculated moon phase information for one instant
type MoonSnapshot struct {
	Phase        float64   `json:"phase"`        // Phase fraction [0,1): 0=new, 0.5=full
	Illumination int       `json:"illumination"` // Lit percentage of the disc [0,100]
	PhaseName    PhaseName `json:"phaseName"`    // One of the eight named phases
	AgeDays      float64   `json:"ageDays"`      // Days since new moon [0,SynodicMonth)
}

// IsWaxing reports whether the moon is getting fuller
func (m MoonSnapshot) IsWaxing() bool {
	return m.Phase < 0.5
}

// Visual returns the lit-region shape for this snapshot
func (m MoonSnapshot) Visual() VisualShape {
	return Visual(m)
}

// Calculate computes the moon phase for a given timestamp
func Calculate(t time.Time) MoonSnapshot {
	cyclePosition := math.Mod(daysSinceReference(t), SynodicMonth)
	if cyclePosition < 0 {
		cyclePosition += SynodicMonth
	}
	// A tiny negative remainder can round up to a full month
	if cyclePosition >= SynodicMonth {
		cyclePosition = 0
	}

	phase := cyclePosition / SynodicMonth

	return MoonSnapshot{
		Phase:        phase,
		Illumination: illumination(phase),
		PhaseName:    phaseName(phase),
		AgeDays:      cyclePosition,
	}
}

// daysSinceReference returns the exact elapsed time between the reference new
// moon and t in fractional days. Seconds and nanoseconds are split so dates
// centuries away do not overflow time.Duration.
func daysSinceReference(t time.Time) float64 {
	secs := float64(t.Unix() - ReferenceNewMoon.Unix())
	nanos := float64(t.Nanosecond() - ReferenceNewMoon.Nanosecond())
	return (secs + nanos/1e9) / 86400.0
}

// illumination returns the lit percentage for a phase fraction
func illumination(phase float64) int {
	return int(math.Round(50 * (1 - math.Cos(phase*2*math.Pi))))
}

// phaseName returns the 8-phase name for a phase fraction. The quarter, full
// and new bands are deliberately narrow.
func phaseName(phase float64) PhaseName {
	switch {
	case phase < 0.033 || phase > 0.967:
		return NewMoon
	case phase < 0.235:
		return WaxingCrescent
	case phase < 0.265:
		return FirstQuarter
	case phase < 0.485:
		return WaxingGibbous
	case phase < 0.515:
		return FullMoon
	case phase < 0.735:
		return WaningGibbous
	case phase < 0.765:
		return LastQuarter
	default:
		return WaningCrescent
	}
}

// JulianDay converts a time to its Julian Day number
func JulianDay(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}
