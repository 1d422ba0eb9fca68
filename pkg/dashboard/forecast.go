package dashboard

import (
	"fmt"
	"time"

	"github.com/chrissnell/moondash/pkg/lunar"
	"gonum.org/v1/gonum/stat"
)

// DayCard is one entry of the forecast strip
type DayCard struct {
	Date             time.Time         `json:"date"`
	Label            string            `json:"label"`
	PhaseName        lunar.PhaseName   `json:"phaseName"`
	Illumination     int               `json:"illumination"`
	IlluminationText string            `json:"illuminationText"`
	Shape            lunar.VisualShape `json:"shape"`
	LitPercent       float64           `json:"litPercent"`
	Style            string            `json:"style"`
}

// Forecast is the strip of days following a date plus a summary of how the
// illumination moves across it
type Forecast struct {
	Days []DayCard `json:"days"`

	// MeanIllumination is the average lit percentage over the strip
	MeanIllumination float64 `json:"meanIllumination"`
	// Trend is the least-squares slope of illumination in percent per day.
	// Positive while waxing.
	Trend float64 `json:"trend"`
}

// NewForecast builds cards for the n days after from, each sampled at from's
// wall-clock time
func NewForecast(from time.Time, n int) Forecast {
	if n <= 0 {
		return Forecast{Days: []DayCard{}}
	}

	f := Forecast{Days: make([]DayCard, 0, n)}
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)

	for i := 1; i <= n; i++ {
		date := from.AddDate(0, 0, i)
		snap := lunar.Calculate(date)
		shape := snap.Visual()

		f.Days = append(f.Days, DayCard{
			Date:             date,
			Label:            date.Format(cardDateLayout),
			PhaseName:        snap.PhaseName,
			Illumination:     snap.Illumination,
			IlluminationText: fmt.Sprintf("%d%% illuminated", snap.Illumination),
			Shape:            shape,
			LitPercent:       shape.LitWidth(),
			Style:            CSS(shape),
		})
		xs = append(xs, float64(i))
		ys = append(ys, float64(snap.Illumination))
	}

	f.MeanIllumination = stat.Mean(ys, nil)
	if n > 1 {
		_, f.Trend = stat.LinearRegression(xs, ys, nil, false)
	}
	return f
}
