package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chrissnell/moondash/pkg/config"
)

func main() {
	var (
		yamlFile   = flag.String("yaml", "", "Path to YAML configuration file (required)")
		sqliteFile = flag.String("sqlite", "", "Path to SQLite database file (required)")
		force      = flag.Bool("force", false, "Overwrite existing SQLite database")
		dryRun     = flag.Bool("dry-run", false, "Show what would be done without executing")
	)
	flag.Parse()

	if *yamlFile == "" || *sqliteFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -yaml <config.yaml> -sqlite <config.db>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Check if YAML file exists
	if _, err := os.Stat(*yamlFile); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: YAML file does not exist: %s\n", *yamlFile)
		os.Exit(1)
	}

	// Check if SQLite file already exists
	if _, err := os.Stat(*sqliteFile); err == nil && !*force {
		fmt.Fprintf(os.Stderr, "Error: SQLite file already exists: %s\n", *sqliteFile)
		fmt.Fprintf(os.Stderr, "Use -force to overwrite or choose a different filename\n")
		os.Exit(1)
	}

	fmt.Printf("Converting YAML configuration to SQLite...\n")
	fmt.Printf("  Source: %s\n", *yamlFile)
	fmt.Printf("  Target: %s\n", *sqliteFile)

	if *dryRun {
		fmt.Println("DRY RUN - No changes will be made")
	}

	// Load YAML configuration
	fmt.Printf("Loading YAML configuration...\n")
	yamlProvider := config.NewYAMLProvider(*yamlFile)
	configData, err := yamlProvider.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading YAML configuration: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("  Loaded %d controllers\n", len(configData.Controllers))

	if *dryRun {
		printConfigSummary(configData)
		fmt.Println("DRY RUN complete - no database created")
		return
	}

	// Remove existing SQLite file if force is specified
	if *force {
		if err := os.Remove(*sqliteFile); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error removing existing SQLite file: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Loading configuration into SQLite database...\n")
	if err := convert(*sqliteFile, configData); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration into SQLite: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Conversion completed successfully!\n")
	fmt.Printf("You can now use the SQLite backend with: -config-backend sqlite -config %s\n", *sqliteFile)
}

// convert creates the schema in dbPath, saves configData into it and reads
// it back to make sure the database loads
func convert(dbPath string, configData *config.ConfigData) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	sqliteProvider, err := config.NewSQLiteProvider(dbPath)
	if err != nil {
		return fmt.Errorf("failed to create SQLite provider: %w", err)
	}
	defer sqliteProvider.Close()

	if err := sqliteProvider.InitSchema(); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	fmt.Printf("  Inserting dashboard and logging configuration...\n")
	fmt.Printf("  Inserting %d controllers...\n", len(configData.Controllers))
	if err := sqliteProvider.SaveConfig(configData); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	reloaded, err := sqliteProvider.LoadConfig()
	if err != nil {
		return fmt.Errorf("saved configuration does not load: %w", err)
	}
	if len(reloaded.Controllers) != len(configData.Controllers) {
		return fmt.Errorf("saved %d controllers but read back %d", len(configData.Controllers), len(reloaded.Controllers))
	}

	fmt.Printf("  Configuration successfully inserted into database\n")
	return nil
}

func printConfigSummary(configData *config.ConfigData) {
	fmt.Println("\nConfiguration Summary:")
	fmt.Printf("Dashboard: %q, %d-day forecast, %d stars\n",
		configData.Dashboard.Title, configData.Dashboard.ForecastDays, configData.Dashboard.StarCount)

	if configData.Logging.File != "" {
		fmt.Printf("Log file: %s\n", configData.Logging.File)
	}

	fmt.Printf("\nControllers (%d):\n", len(configData.Controllers))
	for _, controller := range configData.Controllers {
		switch {
		case controller.RESTServer != nil:
			fmt.Printf("  - %s on %s:%d\n", controller.Type, controller.RESTServer.ListenAddr, controller.RESTServer.Port)
		case controller.GRPCServer != nil:
			fmt.Printf("  - %s on %s:%d\n", controller.Type, controller.GRPCServer.ListenAddr, controller.GRPCServer.Port)
		default:
			fmt.Printf("  - %s\n", controller.Type)
		}
	}
}
