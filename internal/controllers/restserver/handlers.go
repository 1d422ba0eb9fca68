package restserver

import (
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/chrissnell/moondash/internal/constants"
	"github.com/chrissnell/moondash/internal/log"
	"github.com/chrissnell/moondash/pkg/dashboard"
	"github.com/chrissnell/moondash/pkg/lunar"
	"github.com/chrissnell/moondash/pkg/responseformat"
	"github.com/gorilla/mux"
)

const (
	indexTemplate  = "index.html.tmpl"
	dateOnlyLayout = "2006-01-02"
)

var errBadDays = fmt.Errorf("days must be between 1 and %d", dashboard.MaxForecastDays)

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

// MoonResponse is the body of /api/moon
type MoonResponse struct {
	dashboard.MoonView
	Date      time.Time `json:"date"`
	JulianDay float64   `json:"julianDay"`
}

// ZodiacResponse is the body of /api/zodiac
type ZodiacResponse struct {
	Date   time.Time        `json:"date"`
	Zodiac lunar.ZodiacSign `json:"zodiac"`
}

// HealthResponse is the body of /healthz
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func parseIndexTemplate(fsys fs.FS) (*htmltemplate.Template, error) {
	funcs := htmltemplate.FuncMap{
		// Styles are built from numbers only, so they are safe to inline
		"css": func(s string) htmltemplate.CSS { return htmltemplate.CSS(s) },
	}
	return htmltemplate.New(indexTemplate).Funcs(funcs).ParseFS(fsys, indexTemplate)
}

// requestTime reads ?date= as RFC3339 or YYYY-MM-DD. Plain dates are taken at
// the current wall-clock time in the clock's location.
func (h *Handlers) requestTime(req *http.Request) (time.Time, error) {
	now := h.controller.Builder.Now()
	return parseDate(req.URL.Query().Get("date"), now)
}

func parseDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	d, err := time.ParseInLocation(dateOnlyLayout, s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected RFC3339 or YYYY-MM-DD", s)
	}
	hour, minute, sec := now.Clock()
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, sec, now.Nanosecond(), now.Location()), nil
}

func (h *Handlers) writeError(w http.ResponseWriter, req *http.Request, status int, err error) {
	if werr := h.formatter.WriteError(w, req, status, err); werr != nil {
		log.Errorf("error writing error response: %v", werr)
	}
}

func (h *Handlers) write(w http.ResponseWriter, req *http.Request, data any) {
	if err := h.formatter.WriteResponse(w, req, data, nil); err != nil {
		log.Errorf("error encoding response for %s: %v", req.URL.Path, err)
	}
}

// ServeIndexTemplate renders the HTML dashboard
func (h *Handlers) ServeIndexTemplate(w http.ResponseWriter, req *http.Request) {
	t, err := h.requestTime(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	dash := h.controller.Builder.BuildAt(t)
	templateData := struct {
		dashboard.Dashboard
		Version string
		IsToday bool
	}{
		Dashboard: dash,
		Version:   constants.Version,
		IsToday:   req.URL.Query().Get("date") == "",
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.controller.index.Execute(w, templateData); err != nil {
		log.Error("error executing index template:", err)
		return
	}
}

// GetDashboard returns the full dashboard view-model
func (h *Handlers) GetDashboard(w http.ResponseWriter, req *http.Request) {
	t, err := h.requestTime(req)
	if err != nil {
		h.writeError(w, req, http.StatusBadRequest, err)
		return
	}
	h.write(w, req, h.controller.Builder.BuildAt(t))
}

// GetMoon returns the snapshot and shape for one instant
func (h *Handlers) GetMoon(w http.ResponseWriter, req *http.Request) {
	t, err := h.requestTime(req)
	if err != nil {
		h.writeError(w, req, http.StatusBadRequest, err)
		return
	}

	log.Debugw("moon requested", "date", t)
	h.write(w, req, MoonResponse{
		MoonView:  dashboard.NewMoonView(lunar.Calculate(t)),
		Date:      t,
		JulianDay: lunar.JulianDay(t),
	})
}

// GetForecast returns the forecast strip following ?date=
func (h *Handlers) GetForecast(w http.ResponseWriter, req *http.Request) {
	t, err := h.requestTime(req)
	if err != nil {
		h.writeError(w, req, http.StatusBadRequest, err)
		return
	}

	days := h.controller.Builder.Options().ForecastDays
	if v := req.URL.Query().Get("days"); v != "" {
		days, err = strconv.Atoi(v)
		if err != nil || days < 1 || days > dashboard.MaxForecastDays {
			h.writeError(w, req, http.StatusBadRequest, errBadDays)
			return
		}
	}

	h.write(w, req, dashboard.NewForecast(t, days))
}

// GetNextPhase returns the next day whose phase is {phase}. Exhausting the
// search window is not an error: the event comes back with found=false.
func (h *Handlers) GetNextPhase(w http.ResponseWriter, req *http.Request) {
	name, err := lunar.ParsePhaseName(mux.Vars(req)["phase"])
	if err != nil {
		h.writeError(w, req, http.StatusBadRequest, err)
		return
	}

	t, err := h.requestTime(req)
	if err != nil {
		h.writeError(w, req, http.StatusBadRequest, err)
		return
	}

	h.write(w, req, dashboard.NextPhase(t, name))
}

// GetZodiac returns the zodiac sign for ?date=
func (h *Handlers) GetZodiac(w http.ResponseWriter, req *http.Request) {
	t, err := h.requestTime(req)
	if err != nil {
		h.writeError(w, req, http.StatusBadRequest, err)
		return
	}
	h.write(w, req, ZodiacResponse{Date: t, Zodiac: lunar.Zodiac(t)})
}

// GetHealth reports liveness
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	h.write(w, req, HealthResponse{Status: "ok", Version: constants.Version})
}
