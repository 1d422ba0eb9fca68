// Package dashboard turns lunar calculations into display-ready values: the
// formatted strings, moon shapes, forecast cards and starfield that the HTML
// page and the API hand to a client. Nothing here reads the wall clock
// directly; the current time comes from the injected now function.
package dashboard

import (
	"fmt"
	"time"

	"github.com/chrissnell/moondash/pkg/lunar"
)

const (
	// DefaultForecastDays is the length of the forecast strip
	DefaultForecastDays = 7
	// MaxForecastDays bounds API forecast requests
	MaxForecastDays = 30
	// DefaultStarCount is the number of decorative stars
	DefaultStarCount = 100
	// DefaultTitle is the page title
	DefaultTitle = "Lunar Phase"

	// NotAvailable is displayed when a phase search finds nothing
	NotAvailable = "N/A"

	longDateLayout  = "Monday, January 2, 2006"
	shortDateLayout = "Jan 2"
	cardDateLayout  = "Mon, Jan 2"
)

// Options configures a Builder
type Options struct {
	Title        string
	ForecastDays int
	StarCount    int
	StarSeed     uint64 // 0 seeds the starfield from the clock
}

// Builder assembles dashboards
type Builder struct {
	now  func() time.Time
	opts Options
}

// Dashboard is everything the page shows for one instant
type Dashboard struct {
	Title        string           `json:"title"`
	GeneratedAt  time.Time        `json:"generatedAt"`
	Date         string           `json:"date"`
	Moon         MoonView         `json:"moon"`
	NextFullMoon PhaseEvent       `json:"nextFullMoon"`
	NextNewMoon  PhaseEvent       `json:"nextNewMoon"`
	Zodiac       lunar.ZodiacSign `json:"zodiac"`
	Forecast     Forecast         `json:"forecast"`
	Stars        []Star           `json:"stars,omitempty"`
}

// MoonView is a snapshot with its display strings and shape
type MoonView struct {
	lunar.MoonSnapshot
	IlluminationText string            `json:"illuminationText"`
	AgeText          string            `json:"ageText"`
	Shape            lunar.VisualShape `json:"shape"`
	LitPercent       float64           `json:"litPercent"`
	Style            string            `json:"style"`
}

// PhaseEvent is the result of searching for the next occurrence of a phase
type PhaseEvent struct {
	Phase   lunar.PhaseName `json:"phase"`
	Found   bool            `json:"found"`
	Date    *time.Time      `json:"date,omitempty"`
	Display string          `json:"display"`
}

// NewBuilder creates a Builder. A nil now uses time.Now.
func NewBuilder(now func() time.Time, opts Options) *Builder {
	if now == nil {
		now = time.Now
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.ForecastDays <= 0 {
		opts.ForecastDays = DefaultForecastDays
	}
	if opts.ForecastDays > MaxForecastDays {
		opts.ForecastDays = MaxForecastDays
	}
	if opts.StarCount < 0 {
		opts.StarCount = 0
	}
	return &Builder{now: now, opts: opts}
}

// Now returns the builder's current time
func (b *Builder) Now() time.Time {
	return b.now()
}

// Options returns the effective options after defaults
func (b *Builder) Options() Options {
	return b.opts
}

// Build assembles the dashboard for the current time
func (b *Builder) Build() Dashboard {
	return b.BuildAt(b.now())
}

// BuildAt assembles the dashboard for t
func (b *Builder) BuildAt(t time.Time) Dashboard {
	return Dashboard{
		Title:        b.opts.Title,
		GeneratedAt:  t,
		Date:         t.Format(longDateLayout),
		Moon:         NewMoonView(lunar.Calculate(t)),
		NextFullMoon: NextPhase(t, lunar.FullMoon),
		NextNewMoon:  NextPhase(t, lunar.NewMoon),
		Zodiac:       lunar.Zodiac(t),
		Forecast:     NewForecast(t, b.opts.ForecastDays),
		Stars:        b.Stars(),
	}
}

// NewMoonView wraps a snapshot with its display strings
func NewMoonView(snap lunar.MoonSnapshot) MoonView {
	shape := snap.Visual()
	return MoonView{
		MoonSnapshot:     snap,
		IlluminationText: fmt.Sprintf("%d%% Illuminated", snap.Illumination),
		AgeText:          fmt.Sprintf("%.1f days", snap.AgeDays),
		Shape:            shape,
		LitPercent:       shape.LitWidth(),
		Style:            CSS(shape),
	}
}

// NextPhase searches for the next day with the given phase after t
func NextPhase(t time.Time, name lunar.PhaseName) PhaseEvent {
	date, err := lunar.FindNext(t, name)
	if err != nil {
		return NewPhaseEvent(name, time.Time{})
	}
	return NewPhaseEvent(name, date)
}

// NewPhaseEvent describes name occurring at date. A zero date means the
// search found nothing and displays as NotAvailable.
func NewPhaseEvent(name lunar.PhaseName, date time.Time) PhaseEvent {
	ev := PhaseEvent{Phase: name, Display: NotAvailable}
	if date.IsZero() {
		return ev
	}
	ev.Found = true
	ev.Date = &date
	ev.Display = date.Format(shortDateLayout)
	return ev
}
