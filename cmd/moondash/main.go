package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chrissnell/moondash/internal/app"
	"github.com/chrissnell/moondash/internal/constants"
	"github.com/chrissnell/moondash/internal/log"
	"github.com/chrissnell/moondash/pkg/config"
)

func main() {
	cfgFile := flag.String("config", "config.yaml", "Path to configuration source:\n\t\t\t  YAML: config.yaml\n\t\t\t  SQLite: config.db\n\t\t\t  Use 'config-convert' tool to convert YAML→SQLite")
	cfgBackend := flag.String("config-backend", "yaml", "Configuration backend type: 'yaml' for YAML files, 'sqlite' for SQLite databases")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("moondash %s\n", constants.Version)
		os.Exit(0)
	}

	// Bootstrap logging so configuration errors are reported consistently
	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Load configuration
	provider, cfgData, err := loadConfig(*cfgFile, *cfgBackend)
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	defer provider.Close()

	// Reinitialize with the configured sinks
	err = log.InitWithOptions(log.Options{
		Debug:      *debug || cfgData.Logging.Debug,
		File:       cfgData.Logging.File,
		MaxSizeMB:  cfgData.Logging.MaxSizeMB,
		MaxBackups: cfgData.Logging.MaxBackups,
		MaxAgeDays: cfgData.Logging.MaxAgeDays,
	})
	if err != nil {
		log.Errorf("Failed to configure logging: %v", err)
		os.Exit(1)
	}

	log.Infow("moondash starting", "version", constants.Version, "config", *cfgFile, "backend", *cfgBackend, "controllers", len(cfgData.Controllers))

	// Create and run the application
	application := app.New(provider, log.GetSugaredLogger())
	if err := application.Run(context.Background()); err != nil {
		log.Errorf("Application error: %v", err)
		os.Exit(1)
	}
}

func loadConfig(cfgFile, cfgBackend string) (config.ConfigProvider, *config.ConfigData, error) {
	filename, _ := filepath.Abs(cfgFile)

	var provider config.ConfigProvider
	var err error

	switch cfgBackend {
	case "yaml":
		provider = config.NewYAMLProvider(filename)
	case "sqlite":
		provider, err = config.NewSQLiteProvider(filename)
		if err != nil {
			return nil, nil, fmt.Errorf("error creating SQLite provider: %w", err)
		}
	default:
		return nil, nil, fmt.Errorf("unsupported configuration backend: %s. Use 'yaml' or 'sqlite'", cfgBackend)
	}

	cfgData, err := provider.LoadConfig()
	if err != nil {
		provider.Close()
		return nil, nil, fmt.Errorf("error reading config file. Did you pass the -config flag? Run with -h for help: %w", err)
	}

	return provider, cfgData, nil
}
