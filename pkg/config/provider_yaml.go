package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// YAML representations of the configuration sections
type LoggingYAML struct {
	Debug      bool   `yaml:"debug"`
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty"`
	MaxBackups int    `yaml:"max_backups,omitempty"`
	MaxAgeDays int    `yaml:"max_age_days,omitempty"`
}

type DashboardYAML struct {
	Title        string `yaml:"title,omitempty"`
	ForecastDays int    `yaml:"forecast_days,omitempty"`
	StarCount    int    `yaml:"star_count,omitempty"`
	StarSeed     uint64 `yaml:"star_seed,omitempty"`
}

type ServerYAML struct {
	ListenAddr string `yaml:"listen_addr,omitempty"`
	Port       int    `yaml:"port,omitempty"`
	Cert       string `yaml:"cert,omitempty"`
	Key        string `yaml:"key,omitempty"`
}

type ControllerYAML struct {
	Type       string      `yaml:"type"`
	RESTServer *ServerYAML `yaml:"rest,omitempty"`
	GRPCServer *ServerYAML `yaml:"grpc,omitempty"`
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	if y.config != nil {
		return y.config, nil
	}

	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		Logging     LoggingYAML      `yaml:"logging,omitempty"`
		Dashboard   DashboardYAML    `yaml:"dashboard,omitempty"`
		Controllers []ControllerYAML `yaml:"controllers"`
	}

	if err := yaml.UnmarshalStrict(cfgFile, &yamlConfig); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", y.filename, err)
	}

	// Convert to our internal format
	config := &ConfigData{
		Logging: LoggingData{
			Debug:      yamlConfig.Logging.Debug,
			File:       yamlConfig.Logging.File,
			MaxSizeMB:  yamlConfig.Logging.MaxSizeMB,
			MaxBackups: yamlConfig.Logging.MaxBackups,
			MaxAgeDays: yamlConfig.Logging.MaxAgeDays,
		},
		Dashboard: DashboardData{
			Title:        yamlConfig.Dashboard.Title,
			ForecastDays: yamlConfig.Dashboard.ForecastDays,
			StarCount:    yamlConfig.Dashboard.StarCount,
			StarSeed:     yamlConfig.Dashboard.StarSeed,
		},
		Controllers: make([]ControllerData, len(yamlConfig.Controllers)),
	}

	for i, controller := range yamlConfig.Controllers {
		config.Controllers[i] = ControllerData{
			Type: controller.Type,
		}

		if controller.RESTServer != nil {
			config.Controllers[i].RESTServer = &RESTServerData{
				ListenAddr: controller.RESTServer.ListenAddr,
				Port:       controller.RESTServer.Port,
				Cert:       controller.RESTServer.Cert,
				Key:        controller.RESTServer.Key,
			}
		}

		if controller.GRPCServer != nil {
			config.Controllers[i].GRPCServer = &GRPCServerData{
				ListenAddr: controller.GRPCServer.ListenAddr,
				Port:       controller.GRPCServer.Port,
				Cert:       controller.GRPCServer.Cert,
				Key:        controller.GRPCServer.Key,
			}
		}
	}

	config, err = finalize(config)
	if err != nil {
		return nil, err
	}

	y.config = config
	return config, nil
}

// GetLogging returns the logging configuration
func (y *YAMLProvider) GetLogging() (*LoggingData, error) {
	config, err := y.LoadConfig()
	if err != nil {
		return nil, err
	}
	return &config.Logging, nil
}

// GetDashboard returns the dashboard configuration
func (y *YAMLProvider) GetDashboard() (*DashboardData, error) {
	config, err := y.LoadConfig()
	if err != nil {
		return nil, err
	}
	return &config.Dashboard, nil
}

// GetControllers returns controller configurations
func (y *YAMLProvider) GetControllers() ([]ControllerData, error) {
	config, err := y.LoadConfig()
	if err != nil {
		return nil, err
	}
	return config.Controllers, nil
}

// IsReadOnly returns true since YAML files are read-only in this implementation
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}
