package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sampleYAML = `
logging:
  debug: true
  file: /var/log/moondash.log
dashboard:
  title: Backyard Moon
  forecast_days: 10
  star_seed: 12345
controllers:
  - type: rest
    rest:
      port: 9090
  - type: grpcserver
`

func writeYAML(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestYAMLProviderLoadConfig(t *testing.T) {
	p := NewYAMLProvider(writeYAML(t, sampleYAML))
	defer p.Close()

	cfg, err := p.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if !cfg.Logging.Debug || cfg.Logging.File != "/var/log/moondash.log" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.Logging.MaxSizeMB != DefaultLogMaxSizeMB || cfg.Logging.MaxBackups != DefaultLogBackups || cfg.Logging.MaxAgeDays != DefaultLogMaxAge {
		t.Errorf("rotation defaults not applied: %+v", cfg.Logging)
	}

	expectedDashboard := DashboardData{Title: "Backyard Moon", ForecastDays: 10, StarCount: DefaultStarCount, StarSeed: 12345}
	if cfg.Dashboard != expectedDashboard {
		t.Errorf("Dashboard = %+v, expected %+v", cfg.Dashboard, expectedDashboard)
	}

	if len(cfg.Controllers) != 2 {
		t.Fatalf("got %d controllers, expected 2", len(cfg.Controllers))
	}
	rest := cfg.Controllers[0]
	if rest.Type != ControllerREST || rest.RESTServer.Port != 9090 || rest.RESTServer.ListenAddr != DefaultListenAddr {
		t.Errorf("REST controller = %+v / %+v", rest, rest.RESTServer)
	}
	grpc := cfg.Controllers[1]
	if grpc.Type != ControllerGRPC || grpc.GRPCServer == nil || grpc.GRPCServer.Port != DefaultGRPCPort {
		t.Errorf("gRPC controller = %+v", grpc)
	}

	if !p.IsReadOnly() {
		t.Error("YAML provider should be read-only")
	}

	controllers, err := p.GetControllers()
	if err != nil || len(controllers) != 2 {
		t.Errorf("GetControllers = %v, %v", controllers, err)
	}
	dash, err := p.GetDashboard()
	if err != nil || dash.Title != "Backyard Moon" {
		t.Errorf("GetDashboard = %+v, %v", dash, err)
	}
	logging, err := p.GetLogging()
	if err != nil || !logging.Debug {
		t.Errorf("GetLogging = %+v, %v", logging, err)
	}
}

func TestYAMLProviderErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"no controllers", "dashboard:\n  title: x\n", ErrNoControllers.Error()},
		{"unknown controller", "controllers:\n  - type: ftp\n", "unknown type"},
		{"forecast too long", "dashboard:\n  forecast_days: 45\ncontrollers:\n  - type: rest\n", "forecast_days"},
		{"cert without key", "controllers:\n  - type: rest\n    rest:\n      cert: a.pem\n", "cert and key"},
		{"unknown field", "controllers:\n  - type: rest\nbogus: 1\n", "bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewYAMLProvider(writeYAML(t, tt.yaml)).LoadConfig()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadConfig err = %v, expected it to mention %q", err, tt.wantErr)
			}
		})
	}

	if _, err := NewYAMLProvider(filepath.Join(t.TempDir(), "missing.yaml")).LoadConfig(); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v, expected os.ErrNotExist", err)
	}
}

func TestValidateNoControllers(t *testing.T) {
	cfg := &ConfigData{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); !errors.Is(err, ErrNoControllers) {
		t.Errorf("Validate err = %v, expected ErrNoControllers", err)
	}
}

func TestSQLiteProviderRoundTrip(t *testing.T) {
	yamlCfg, err := NewYAMLProvider(writeYAML(t, sampleYAML)).LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig (yaml): %v", err)
	}

	dbPath := filepath.Join(t.TempDir(), "config.db")
	p, err := NewSQLiteProvider(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteProvider: %v", err)
	}
	defer p.Close()

	if err := p.InitSchema(); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}
	if err := p.SaveConfig(yamlCfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	cfg, err := p.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig (sqlite): %v", err)
	}

	if cfg.Logging != yamlCfg.Logging {
		t.Errorf("Logging = %+v, expected %+v", cfg.Logging, yamlCfg.Logging)
	}
	if cfg.Dashboard != yamlCfg.Dashboard {
		t.Errorf("Dashboard = %+v, expected %+v", cfg.Dashboard, yamlCfg.Dashboard)
	}
	if len(cfg.Controllers) != len(yamlCfg.Controllers) {
		t.Fatalf("got %d controllers, expected %d", len(cfg.Controllers), len(yamlCfg.Controllers))
	}
	if *cfg.Controllers[0].RESTServer != *yamlCfg.Controllers[0].RESTServer {
		t.Errorf("REST = %+v, expected %+v", cfg.Controllers[0].RESTServer, yamlCfg.Controllers[0].RESTServer)
	}
	if *cfg.Controllers[1].GRPCServer != *yamlCfg.Controllers[1].GRPCServer {
		t.Errorf("gRPC = %+v, expected %+v", cfg.Controllers[1].GRPCServer, yamlCfg.Controllers[1].GRPCServer)
	}

	if p.IsReadOnly() {
		t.Error("SQLite provider should be writable")
	}
}

func TestSQLiteProviderSaveReplaces(t *testing.T) {
	p, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "config.db"))
	if err != nil {
		t.Fatalf("NewSQLiteProvider: %v", err)
	}
	defer p.Close()
	if err := p.InitSchema(); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}

	first := &ConfigData{Controllers: []ControllerData{{Type: ControllerREST}, {Type: ControllerGRPC}}}
	first.ApplyDefaults()
	if err := p.SaveConfig(first); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	second := &ConfigData{
		Dashboard:   DashboardData{StarSeed: ^uint64(0)},
		Controllers: []ControllerData{{Type: ControllerGRPC, GRPCServer: &GRPCServerData{Port: 6000}}},
	}
	second.ApplyDefaults()
	if err := p.SaveConfig(second); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	controllers, err := p.GetControllers()
	if err != nil {
		t.Fatalf("GetControllers: %v", err)
	}
	if len(controllers) != 1 || controllers[0].GRPCServer.Port != 6000 {
		t.Errorf("controllers = %+v, expected a single gRPC controller on 6000", controllers)
	}

	dash, err := p.GetDashboard()
	if err != nil {
		t.Fatalf("GetDashboard: %v", err)
	}
	if dash.StarSeed != ^uint64(0) {
		t.Errorf("StarSeed = %d, expected max uint64", dash.StarSeed)
	}
}

func TestSQLiteProviderEmptyDatabase(t *testing.T) {
	p, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "config.db"))
	if err != nil {
		t.Fatalf("NewSQLiteProvider: %v", err)
	}
	defer p.Close()
	if err := p.InitSchema(); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}

	if _, err := p.LoadConfig(); !errors.Is(err, ErrNoControllers) {
		t.Errorf("LoadConfig err = %v, expected ErrNoControllers", err)
	}
}

func TestProviderSectionsMatchLoadConfig(t *testing.T) {
	const minimalYAML = `
logging:
  file: /var/log/moondash.log
controllers:
  - type: rest
  - type: grpc
`
	raw := &ConfigData{
		Logging:     LoggingData{File: "/var/log/moondash.log"},
		Controllers: []ControllerData{{Type: "rest"}, {Type: "grpc"}},
	}

	sqlite, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "config.db"))
	if err != nil {
		t.Fatalf("NewSQLiteProvider: %v", err)
	}
	defer sqlite.Close()
	if err := sqlite.InitSchema(); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}
	// Saved without defaults, as an older or hand-edited database would be
	if err := sqlite.SaveConfig(raw); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	providers := map[string]ConfigProvider{
		"yaml":   NewYAMLProvider(writeYAML(t, minimalYAML)),
		"sqlite": sqlite,
	}

	for name, p := range providers {
		t.Run(name, func(t *testing.T) {
			cfg, err := p.LoadConfig()
			if err != nil {
				t.Fatalf("LoadConfig: %v", err)
			}

			dash, err := p.GetDashboard()
			if err != nil {
				t.Fatalf("GetDashboard: %v", err)
			}
			if !reflect.DeepEqual(*dash, cfg.Dashboard) {
				t.Errorf("GetDashboard() = %+v, LoadConfig().Dashboard = %+v", *dash, cfg.Dashboard)
			}
			if dash.Title != DefaultTitle || dash.ForecastDays != DefaultForecastDays || dash.StarCount != DefaultStarCount {
				t.Errorf("dashboard defaults not applied: %+v", *dash)
			}

			logging, err := p.GetLogging()
			if err != nil {
				t.Fatalf("GetLogging: %v", err)
			}
			if !reflect.DeepEqual(*logging, cfg.Logging) {
				t.Errorf("GetLogging() = %+v, LoadConfig().Logging = %+v", *logging, cfg.Logging)
			}
			if logging.MaxSizeMB != DefaultLogMaxSizeMB {
				t.Errorf("MaxSizeMB = %d, expected %d", logging.MaxSizeMB, DefaultLogMaxSizeMB)
			}

			controllers, err := p.GetControllers()
			if err != nil {
				t.Fatalf("GetControllers: %v", err)
			}
			if !reflect.DeepEqual(controllers, cfg.Controllers) {
				t.Errorf("GetControllers() = %+v, LoadConfig().Controllers = %+v", controllers, cfg.Controllers)
			}
			if len(controllers) != 2 || controllers[0].RESTServer.Port != DefaultRESTPort || controllers[1].GRPCServer.Port != DefaultGRPCPort {
				t.Errorf("controller defaults not applied: %+v", controllers)
			}
		})
	}
}

func TestSQLiteProviderEmptyDatabaseSections(t *testing.T) {
	p, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "config.db"))
	if err != nil {
		t.Fatalf("NewSQLiteProvider: %v", err)
	}
	defer p.Close()
	if err := p.InitSchema(); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}

	dash, err := p.GetDashboard()
	if err != nil {
		t.Fatalf("GetDashboard: %v", err)
	}
	if dash.ForecastDays != DefaultForecastDays || dash.StarCount != DefaultStarCount {
		t.Errorf("empty database dashboard = %+v, expected defaults", *dash)
	}
}
