package lunar

import (
	"errors"
	"time"
)

// SearchWindowDays bounds how far ahead FindNext looks. Every phase recurs
// within one synodic month, so two months is ample.
const SearchWindowDays = 60

// ErrPhaseNotFound is returned when no day in the search window has the target phase
var ErrPhaseNotFound = errors.New("phase not found within search window")

// FindNext returns the first day after from, sampled at from's wall-clock
// time, whose phase name equals target.
func FindNext(from time.Time, target PhaseName) (time.Time, error) {
	day := from
	for i := 0; i < SearchWindowDays; i++ {
		day = day.AddDate(0, 0, 1)
		if Calculate(day).PhaseName == target {
			return day, nil
		}
	}
	return time.Time{}, ErrPhaseNotFound
}
