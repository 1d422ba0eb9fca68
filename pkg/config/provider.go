package config

import (
	"errors"
	"fmt"
)

// ErrNoControllers is returned when a configuration enables no servers
var ErrNoControllers = errors.New("no controllers configured")

// Controller types
const (
	ControllerREST = "rest"
	ControllerGRPC = "grpc"
)

// Defaults applied by ApplyDefaults
const (
	DefaultTitle        = "Lunar Phase"
	DefaultForecastDays = 7
	MaxForecastDays     = 30
	DefaultStarCount    = 100
	DefaultListenAddr   = "0.0.0.0"
	DefaultRESTPort     = 8080
	DefaultGRPCPort     = 50051
	DefaultLogMaxSizeMB = 100
	DefaultLogBackups   = 3
	DefaultLogMaxAge    = 28
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration, with defaults applied and validated
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetLogging() (*LoggingData, error)
	GetDashboard() (*DashboardData, error)
	GetControllers() ([]ControllerData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Logging     LoggingData      `json:"logging"`
	Dashboard   DashboardData    `json:"dashboard"`
	Controllers []ControllerData `json:"controllers,omitempty"`
}

// LoggingData configures the logger. File output is rotated.
type LoggingData struct {
	Debug      bool   `json:"debug"`
	File       string `json:"file,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty"`
	MaxAgeDays int    `json:"max_age_days,omitempty"`
}

// DashboardData configures what the dashboard shows
type DashboardData struct {
	Title        string `json:"title,omitempty"`
	ForecastDays int    `json:"forecast_days,omitempty"`
	StarCount    int    `json:"star_count,omitempty"` // negative disables the starfield
	StarSeed     uint64 `json:"star_seed,omitempty"`
}

// ControllerData holds the configuration for one server
type ControllerData struct {
	Type       string          `json:"type"`
	RESTServer *RESTServerData `json:"rest,omitempty"`
	GRPCServer *GRPCServerData `json:"grpc,omitempty"`
}

// RESTServerData configures the HTTP dashboard and API
type RESTServerData struct {
	ListenAddr string `json:"listen_addr,omitempty"`
	Port       int    `json:"port,omitempty"`
	Cert       string `json:"cert,omitempty"`
	Key        string `json:"key,omitempty"`
}

// GRPCServerData configures the gRPC lunar service
type GRPCServerData struct {
	ListenAddr string `json:"listen_addr,omitempty"`
	Port       int    `json:"port,omitempty"`
	Cert       string `json:"cert,omitempty"`
	Key        string `json:"key,omitempty"`
}

// normalizeControllerType maps accepted aliases onto the canonical type names
func normalizeControllerType(t string) string {
	switch t {
	case "rest", "restserver":
		return ControllerREST
	case "grpc", "grpcserver":
		return ControllerGRPC
	default:
		return t
	}
}

// ApplyDefaults fills unset values
func (c *ConfigData) ApplyDefaults() {
	if c.Dashboard.Title == "" {
		c.Dashboard.Title = DefaultTitle
	}
	if c.Dashboard.ForecastDays == 0 {
		c.Dashboard.ForecastDays = DefaultForecastDays
	}
	if c.Dashboard.StarCount == 0 {
		c.Dashboard.StarCount = DefaultStarCount
	}

	if c.Logging.File != "" {
		if c.Logging.MaxSizeMB == 0 {
			c.Logging.MaxSizeMB = DefaultLogMaxSizeMB
		}
		if c.Logging.MaxBackups == 0 {
			c.Logging.MaxBackups = DefaultLogBackups
		}
		if c.Logging.MaxAgeDays == 0 {
			c.Logging.MaxAgeDays = DefaultLogMaxAge
		}
	}

	for i := range c.Controllers {
		cc := &c.Controllers[i]
		cc.Type = normalizeControllerType(cc.Type)
		switch cc.Type {
		case ControllerREST:
			if cc.RESTServer == nil {
				cc.RESTServer = &RESTServerData{}
			}
			if cc.RESTServer.ListenAddr == "" {
				cc.RESTServer.ListenAddr = DefaultListenAddr
			}
			if cc.RESTServer.Port == 0 {
				cc.RESTServer.Port = DefaultRESTPort
			}
		case ControllerGRPC:
			if cc.GRPCServer == nil {
				cc.GRPCServer = &GRPCServerData{}
			}
			if cc.GRPCServer.ListenAddr == "" {
				cc.GRPCServer.ListenAddr = DefaultListenAddr
			}
			if cc.GRPCServer.Port == 0 {
				cc.GRPCServer.Port = DefaultGRPCPort
			}
		}
	}
}

// Validate checks a configuration after defaults have been applied
func (c *ConfigData) Validate() error {
	if c.Dashboard.ForecastDays < 1 || c.Dashboard.ForecastDays > MaxForecastDays {
		return fmt.Errorf("dashboard.forecast_days must be between 1 and %d, got %d", MaxForecastDays, c.Dashboard.ForecastDays)
	}

	if len(c.Controllers) == 0 {
		return ErrNoControllers
	}

	for i, cc := range c.Controllers {
		var port int
		var cert, key string
		switch cc.Type {
		case ControllerREST:
			port, cert, key = cc.RESTServer.Port, cc.RESTServer.Cert, cc.RESTServer.Key
		case ControllerGRPC:
			port, cert, key = cc.GRPCServer.Port, cc.GRPCServer.Cert, cc.GRPCServer.Key
		default:
			return fmt.Errorf("controller %d: unknown type %q", i, cc.Type)
		}
		if port < 1 || port > 65535 {
			return fmt.Errorf("controller %d (%s): invalid port %d", i, cc.Type, port)
		}
		if (cert == "") != (key == "") {
			return fmt.Errorf("controller %d (%s): cert and key must be set together", i, cc.Type)
		}
	}
	return nil
}

// finalize applies defaults and validates, for use by providers' LoadConfig
func finalize(c *ConfigData) (*ConfigData, error) {
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}
