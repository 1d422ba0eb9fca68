package lunar

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPhase is returned when a string does not name one of the eight phases
var ErrUnknownPhase = errors.New("unknown moon phase")

// PhaseName is the human-readable name of a moon phase
type PhaseName string

const (
	NewMoon        PhaseName = "New Moon"
	WaxingCrescent PhaseName = "Waxing Crescent"
	FirstQuarter   PhaseName = "First Quarter"
	WaxingGibbous  PhaseName = "Waxing Gibbous"
	FullMoon       PhaseName = "Full Moon"
	WaningGibbous  PhaseName = "Waning Gibbous"
	LastQuarter    PhaseName = "Last Quarter"
	WaningCrescent PhaseName = "Waning Crescent"
)

// PhaseNames lists every phase in cycle order, starting at new moon
var PhaseNames = []PhaseName{
	NewMoon, WaxingCrescent, FirstQuarter, WaxingGibbous,
	FullMoon, WaningGibbous, LastQuarter, WaningCrescent,
}

func (p PhaseName) String() string {
	return string(p)
}

// Slug returns the URL form of the name, e.g. "full-moon"
func (p PhaseName) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(p)), " ", "-")
}

// Valid reports whether p is one of the eight phases
func (p PhaseName) Valid() bool {
	for _, n := range PhaseNames {
		if n == p {
			return true
		}
	}
	return false
}

// ParsePhaseName accepts a phase name or slug in any case
// ("Full Moon", "full moon", "full-moon", "full_moon").
func ParsePhaseName(s string) (PhaseName, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	for _, n := range PhaseNames {
		if n.Slug() == norm {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPhase, s)
}
