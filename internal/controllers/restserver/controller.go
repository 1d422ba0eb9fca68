package restserver

import (
	"context"
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/chrissnell/moondash/internal/log"
	"github.com/chrissnell/moondash/pkg/config"
	"github.com/chrissnell/moondash/pkg/dashboard"
	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// shutdownTimeout bounds how long in-flight requests may run once the
// controller's context is cancelled
var shutdownTimeout = 5 * time.Second

// Controller represents the REST server controller
type Controller struct {
	ctx        context.Context
	wg         *sync.WaitGroup
	restConfig config.RESTServerData
	Server     http.Server
	FS         fs.FS
	Builder    *dashboard.Builder
	logger     *zap.SugaredLogger
	handlers   *Handlers
	index      *htmltemplate.Template
}

// NewController creates a new REST server controller. now is the clock every
// request is answered against; nil uses time.Now.
func NewController(ctx context.Context, wg *sync.WaitGroup, configProvider config.ConfigProvider, rc config.RESTServerData, logger *zap.SugaredLogger, now func() time.Time) (*Controller, error) {
	ctrl := &Controller{
		ctx:        ctx,
		wg:         wg,
		restConfig: rc,
		logger:     logger,
	}

	// Load configuration
	dash, err := configProvider.GetDashboard()
	if err != nil {
		return nil, fmt.Errorf("error loading dashboard configuration: %v", err)
	}

	ctrl.Builder = dashboard.NewBuilder(now, dashboard.Options{
		Title:        dash.Title,
		ForecastDays: dash.ForecastDays,
		StarCount:    dash.StarCount,
		StarSeed:     dash.StarSeed,
	})

	// If a ListenAddr was not provided, listen on all interfaces
	if rc.ListenAddr == "" {
		logger.Info("rest.listen_addr not provided; defaulting to 0.0.0.0 (all interfaces)")
		rc.ListenAddr = config.DefaultListenAddr
	}

	// Set default HTTP port if not specified
	if rc.Port == 0 {
		logger.Infof("rest.port not provided; defaulting to %d", config.DefaultRESTPort)
		rc.Port = config.DefaultRESTPort
	}
	ctrl.restConfig = rc

	ctrl.FS = GetAssets()
	ctrl.index, err = parseIndexTemplate(ctrl.FS)
	if err != nil {
		return nil, fmt.Errorf("error parsing index template: %v", err)
	}

	ctrl.handlers = NewHandlers(ctrl)

	ctrl.Server.Addr = net.JoinHostPort(rc.ListenAddr, fmt.Sprint(rc.Port))
	ctrl.Server.Handler = ctrl.Handler()
	ctrl.Server.ReadHeaderTimeout = 10 * time.Second

	return ctrl, nil
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	log.Info("Starting REST server controller...")

	listener, err := net.Listen("tcp", c.Server.Addr)
	if err != nil {
		return fmt.Errorf("could not listen on %s: %v", c.Server.Addr, err)
	}
	return c.Serve(listener)
}

// Serve runs the server on l until the controller's context is cancelled
func (c *Controller) Serve(l net.Listener) error {
	c.wg.Add(2)

	go func() {
		defer c.wg.Done()

		var err error
		if c.restConfig.Cert != "" && c.restConfig.Key != "" {
			err = c.Server.ServeTLS(l, c.restConfig.Cert, c.restConfig.Key)
		} else {
			err = c.Server.Serve(l)
		}
		if err != http.ErrServerClosed {
			log.Errorf("REST server error: %v", err)
		}
	}()

	go func() {
		defer c.wg.Done()
		<-c.ctx.Done()
		log.Info("Shutting down the REST server...")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := c.Server.Shutdown(ctx); err != nil {
			c.logger.Errorf("REST server shutdown error: %v", err)
		}
	}()

	log.Infof("REST server listening on %s", l.Addr())
	return nil
}

// Handler returns the full middleware-wrapped router
func (c *Controller) Handler() http.Handler {
	return c.wrap(c.setupRouter())
}

// wrap adds gzip compression and panic recovery around h
func (c *Controller) wrap(h http.Handler) http.Handler {
	compressed := gorillahandlers.CompressHandler(h)
	return gorillahandlers.RecoveryHandler(
		gorillahandlers.RecoveryLogger(recoveryLogger{c.logger}),
		gorillahandlers.PrintRecoveryStack(true),
	)(compressed)
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(log.HTTPMiddleware(c.logger))

	// API endpoints
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/dashboard", c.handlers.GetDashboard).Methods(http.MethodGet)
	api.HandleFunc("/moon", c.handlers.GetMoon).Methods(http.MethodGet)
	api.HandleFunc("/forecast", c.handlers.GetForecast).Methods(http.MethodGet)
	api.HandleFunc("/next/{phase}", c.handlers.GetNextPhase).Methods(http.MethodGet)
	api.HandleFunc("/zodiac", c.handlers.GetZodiac).Methods(http.MethodGet)

	router.HandleFunc("/healthz", c.handlers.GetHealth).Methods(http.MethodGet)

	// Template endpoint
	router.HandleFunc("/", c.handlers.ServeIndexTemplate).Methods(http.MethodGet)

	// Static file serving
	static, err := fs.Sub(c.FS, "static")
	if err == nil {
		router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	}

	return router
}

// recoveryLogger adapts zap to the gorilla recovery handler
type recoveryLogger struct {
	logger *zap.SugaredLogger
}

func (r recoveryLogger) Println(args ...interface{}) {
	r.logger.Error(args...)
}
