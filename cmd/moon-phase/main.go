package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/chrissnell/moondash/internal/controllers/grpcserver"
	"github.com/chrissnell/moondash/pkg/dashboard"
	"github.com/chrissnell/moondash/pkg/lunar"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// report is what the CLI prints, in either format
type report struct {
	Time         time.Time            `json:"time"`
	Snapshot     lunar.MoonSnapshot   `json:"snapshot"`
	Waxing       bool                 `json:"waxing"`
	JulianDay    float64              `json:"julianDay"`
	NextFullMoon dashboard.PhaseEvent `json:"nextFullMoon"`
	NextNewMoon  dashboard.PhaseEvent `json:"nextNewMoon"`
	Zodiac       lunar.ZodiacSign     `json:"zodiac"`
	Forecast     *dashboard.Forecast  `json:"forecast,omitempty"`
}

func main() {
	var (
		timeStr string
		days    int
		format  string
		server  string
	)
	flag.StringVar(&timeStr, "time", "", "UTC time to calculate phase for (RFC3339 format, e.g., 2024-01-15T12:00:00Z)")
	flag.IntVar(&days, "forecast", 0, fmt.Sprintf("Print a forecast for this many days (0-%d)", dashboard.MaxForecastDays))
	flag.StringVar(&format, "format", "text", "Output format: 'text' or 'json'")
	flag.StringVar(&server, "server", "", "Ask a moondash gRPC server (host:port) for the snapshot, phase dates and zodiac instead of computing them locally")
	flag.Parse()

	var t time.Time
	if timeStr == "" {
		t = time.Now().UTC()
	} else {
		var err error
		t, err = time.Parse(time.RFC3339, timeStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing time: %v\n", err)
			os.Exit(1)
		}
	}

	if days < 0 || days > dashboard.MaxForecastDays {
		fmt.Fprintf(os.Stderr, "Error: -forecast must be between 0 and %d\n", dashboard.MaxForecastDays)
		os.Exit(1)
	}
	if format != "text" && format != "json" {
		fmt.Fprintf(os.Stderr, "Error: unsupported format %q. Use 'text' or 'json'\n", format)
		os.Exit(1)
	}

	var r report
	if server != "" {
		var err error
		r, err = queryServer(server, t)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error querying %s: %v\n", server, err)
			os.Exit(1)
		}
	} else {
		r = localReport(t)
	}
	if days > 0 {
		f := dashboard.NewForecast(t, days)
		r.Forecast = &f
	}

	var err error
	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(r)
	} else {
		err = writeText(os.Stdout, r)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}
}

func localReport(t time.Time) report {
	snap := lunar.Calculate(t)
	return report{
		Time:         t,
		Snapshot:     snap,
		Waxing:       snap.IsWaxing(),
		JulianDay:    lunar.JulianDay(t),
		NextFullMoon: dashboard.NextPhase(t, lunar.FullMoon),
		NextNewMoon:  dashboard.NextPhase(t, lunar.NewMoon),
		Zodiac:       lunar.Zodiac(t),
	}
}

func queryServer(addr string, t time.Time) (report, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return report{}, err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return remoteReport(ctx, grpcserver.NewClient(conn), t)
}

// remoteReport fills the report from the server's snapshot, phase search
// and zodiac calls
func remoteReport(ctx context.Context, client *grpcserver.Client, t time.Time) (report, error) {
	snap, err := client.Snapshot(ctx, t)
	if err != nil {
		return report{}, fmt.Errorf("snapshot: %w", err)
	}

	r := report{
		Time:      t,
		Snapshot:  snap,
		Waxing:    snap.IsWaxing(),
		JulianDay: lunar.JulianDay(t),
	}

	if r.NextFullMoon, err = remotePhase(ctx, client, t, lunar.FullMoon); err != nil {
		return report{}, err
	}
	if r.NextNewMoon, err = remotePhase(ctx, client, t, lunar.NewMoon); err != nil {
		return report{}, err
	}

	if r.Zodiac, err = client.GetZodiac(ctx, t); err != nil {
		return report{}, fmt.Errorf("zodiac: %w", err)
	}
	return r, nil
}

// remotePhase treats NotFound as a search that came up empty
func remotePhase(ctx context.Context, client *grpcserver.Client, t time.Time, name lunar.PhaseName) (dashboard.PhaseEvent, error) {
	date, err := client.FindNextPhase(ctx, t, name)
	if status.Code(err) == codes.NotFound {
		return dashboard.NewPhaseEvent(name, time.Time{}), nil
	}
	if err != nil {
		return dashboard.PhaseEvent{}, fmt.Errorf("next %s: %w", name, err)
	}
	return dashboard.NewPhaseEvent(name, date), nil
}

func writeText(w io.Writer, r report) error {
	direction := "Waning"
	if r.Waxing {
		direction = "Waxing"
	}

	_, err := fmt.Fprintf(w, `Moon Phase for %s
  Phase:          %.1f%% (%.4f)
  Phase Name:     %s
  Illumination:   %d%%
  Age:            %.1f days
  Direction:      %s
  Julian Day:     %.5f
  Next Full Moon: %s
  Next New Moon:  %s
  Zodiac:         %s
`,
		r.Time.Format(time.RFC3339),
		r.Snapshot.Phase*100, r.Snapshot.Phase,
		r.Snapshot.PhaseName,
		r.Snapshot.Illumination,
		r.Snapshot.AgeDays,
		direction,
		r.JulianDay,
		r.NextFullMoon.Display,
		r.NextNewMoon.Display,
		r.Zodiac,
	)
	if err != nil || r.Forecast == nil {
		return err
	}

	fmt.Fprintf(w, "\nForecast (mean %.1f%%, trend %+.1f%%/day)\n", r.Forecast.MeanIllumination, r.Forecast.Trend)
	for _, d := range r.Forecast.Days {
		if _, err := fmt.Fprintf(w, "  %-11s %-16s %3d%%\n", d.Label, d.PhaseName, d.Illumination); err != nil {
			return err
		}
	}
	return nil
}
