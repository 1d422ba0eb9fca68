package dashboard

import (
	"testing"
	"time"

	"github.com/chrissnell/moondash/pkg/lunar"
	"gonum.org/v1/gonum/floats/scalar"
)

var fixedNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func TestBuild(t *testing.T) {
	b := NewBuilder(fixedClock, Options{StarCount: 10, StarSeed: 42})
	d := b.Build()

	if d.Title != DefaultTitle {
		t.Errorf("Title = %q, expected %q", d.Title, DefaultTitle)
	}
	if d.Date != "Saturday, October 17, 2026" {
		t.Errorf("Date = %q", d.Date)
	}
	if !d.GeneratedAt.Equal(fixedNow) {
		t.Errorf("GeneratedAt = %v, expected %v", d.GeneratedAt, fixedNow)
	}

	if d.Moon.PhaseName != lunar.WaxingCrescent {
		t.Errorf("PhaseName = %q, expected %q", d.Moon.PhaseName, lunar.WaxingCrescent)
	}
	if d.Moon.IlluminationText != "44% Illuminated" {
		t.Errorf("IlluminationText = %q", d.Moon.IlluminationText)
	}
	if d.Moon.AgeText != "6.8 days" {
		t.Errorf("AgeText = %q", d.Moon.AgeText)
	}
	if d.Moon.Style != "clip-path: ellipse(46.17% 50% at 100% 50%);" {
		t.Errorf("Style = %q", d.Moon.Style)
	}
	if !scalar.EqualWithinAbs(d.Moon.LitPercent, 46.17, 0.005) {
		t.Errorf("LitPercent = %.4f, expected 46.17", d.Moon.LitPercent)
	}

	if !d.NextFullMoon.Found || d.NextFullMoon.Display != "Oct 25" {
		t.Errorf("NextFullMoon = %+v, expected Oct 25", d.NextFullMoon)
	}
	if !d.NextNewMoon.Found || d.NextNewMoon.Display != "Nov 8" {
		t.Errorf("NextNewMoon = %+v, expected Nov 8", d.NextNewMoon)
	}
	if d.Zodiac != lunar.Capricorn {
		t.Errorf("Zodiac = %q, expected %q", d.Zodiac, lunar.Capricorn)
	}

	if len(d.Forecast.Days) != DefaultForecastDays {
		t.Errorf("forecast has %d days, expected %d", len(d.Forecast.Days), DefaultForecastDays)
	}
	if len(d.Stars) != 10 {
		t.Errorf("got %d stars, expected 10", len(d.Stars))
	}
}

func TestNewBuilderDefaults(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		expected Options
	}{
		{"zero value", Options{}, Options{Title: DefaultTitle, ForecastDays: DefaultForecastDays}},
		{"capped forecast", Options{Title: "Moon", ForecastDays: 90}, Options{Title: "Moon", ForecastDays: MaxForecastDays}},
		{"negative stars", Options{ForecastDays: 3, StarCount: -5}, Options{Title: DefaultTitle, ForecastDays: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewBuilder(fixedClock, tt.opts).Options(); got != tt.expected {
				t.Errorf("Options() = %+v, expected %+v", got, tt.expected)
			}
		})
	}
}

func TestNewBuilderNilClock(t *testing.T) {
	b := NewBuilder(nil, Options{})
	before := time.Now()
	got := b.Now()
	if got.Before(before.Add(-time.Second)) {
		t.Errorf("Now() = %v, expected wall clock", got)
	}
}

func TestNextPhaseNotFound(t *testing.T) {
	ev := NextPhase(fixedNow, lunar.PhaseName("Blue Moon"))
	if ev.Found || ev.Date != nil || ev.Display != NotAvailable {
		t.Errorf("NextPhase = %+v, expected not found with %q", ev, NotAvailable)
	}
}

func TestNewPhaseEvent(t *testing.T) {
	date := time.Date(2026, 10, 25, 12, 0, 0, 0, time.UTC)
	ev := NewPhaseEvent(lunar.FullMoon, date)
	if !ev.Found || ev.Date == nil || !ev.Date.Equal(date) || ev.Display != "Oct 25" {
		t.Errorf("NewPhaseEvent = %+v, expected Oct 25", ev)
	}

	if ev := NewPhaseEvent(lunar.NewMoon, time.Time{}); ev.Found || ev.Date != nil || ev.Display != NotAvailable {
		t.Errorf("NewPhaseEvent(zero) = %+v, expected not found", ev)
	}

	if got := NextPhase(fixedNow, lunar.FullMoon); got.Display != ev.Display {
		t.Errorf("NextPhase display %q differs from NewPhaseEvent %q", got.Display, ev.Display)
	}
}

func TestNewForecast(t *testing.T) {
	f := NewForecast(fixedNow, 7)

	expected := []struct {
		label        string
		phase        lunar.PhaseName
		illumination int
	}{
		{"Sun, Oct 18", lunar.FirstQuarter, 55},
		{"Mon, Oct 19", lunar.WaxingGibbous, 65},
		{"Tue, Oct 20", lunar.WaxingGibbous, 75},
		{"Wed, Oct 21", lunar.WaxingGibbous, 83},
		{"Thu, Oct 22", lunar.WaxingGibbous, 90},
		{"Fri, Oct 23", lunar.WaxingGibbous, 96},
		{"Sat, Oct 24", lunar.WaxingGibbous, 99},
	}

	if len(f.Days) != len(expected) {
		t.Fatalf("got %d days, expected %d", len(f.Days), len(expected))
	}

	for i, e := range expected {
		card := f.Days[i]
		if card.Label != e.label || card.PhaseName != e.phase || card.Illumination != e.illumination {
			t.Errorf("day %d = {%q %q %d}, expected {%q %q %d}", i+1,
				card.Label, card.PhaseName, card.Illumination, e.label, e.phase, e.illumination)
		}
		if card.Style != CSS(card.Shape) {
			t.Errorf("day %d style %q does not match shape %+v", i+1, card.Style, card.Shape)
		}
		if card.LitPercent != card.Shape.LitWidth() {
			t.Errorf("day %d LitPercent %.2f does not match shape %+v", i+1, card.LitPercent, card.Shape)
		}
		// waxing all week, so the lit part only grows
		if i > 0 && card.LitPercent <= f.Days[i-1].LitPercent {
			t.Errorf("day %d LitPercent %.2f did not grow from %.2f", i+1, card.LitPercent, f.Days[i-1].LitPercent)
		}
	}

	if f.Days[0].IlluminationText != "55% illuminated" {
		t.Errorf("IlluminationText = %q", f.Days[0].IlluminationText)
	}
	if !scalar.EqualWithinAbs(f.MeanIllumination, 563.0/7, 1e-9) {
		t.Errorf("MeanIllumination = %.4f, expected %.4f", f.MeanIllumination, 563.0/7)
	}
	if !scalar.EqualWithinAbs(f.Trend, 7.4642857, 1e-6) {
		t.Errorf("Trend = %.6f, expected 7.464286", f.Trend)
	}
}

func TestNewForecastShortStrips(t *testing.T) {
	if f := NewForecast(fixedNow, 0); len(f.Days) != 0 || f.Trend != 0 {
		t.Errorf("empty forecast = %+v", f)
	}

	f := NewForecast(fixedNow, 1)
	if len(f.Days) != 1 {
		t.Fatalf("got %d days, expected 1", len(f.Days))
	}
	if f.Trend != 0 {
		t.Errorf("single-day Trend = %v, expected 0", f.Trend)
	}
	if f.MeanIllumination != 55 {
		t.Errorf("single-day MeanIllumination = %v, expected 55", f.MeanIllumination)
	}
}
