package config

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const defaultConfigName = "default"

const schema = `
CREATE TABLE IF NOT EXISTS configs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL UNIQUE,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS logging_configs (
	config_id    INTEGER PRIMARY KEY REFERENCES configs(id) ON DELETE CASCADE,
	debug        INTEGER NOT NULL DEFAULT 0,
	file         TEXT,
	max_size_mb  INTEGER,
	max_backups  INTEGER,
	max_age_days INTEGER
);

CREATE TABLE IF NOT EXISTS dashboard_configs (
	config_id     INTEGER PRIMARY KEY REFERENCES configs(id) ON DELETE CASCADE,
	title         TEXT,
	forecast_days INTEGER,
	star_count    INTEGER,
	star_seed     INTEGER
);

CREATE TABLE IF NOT EXISTS controller_configs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	config_id   INTEGER NOT NULL REFERENCES configs(id) ON DELETE CASCADE,
	type        TEXT NOT NULL,
	listen_addr TEXT,
	port        INTEGER,
	cert        TEXT,
	key         TEXT
);
`

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	// SQLite serialises writers anyway
	db.SetMaxOpenConns(1)

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// InitSchema creates the configuration tables if they do not exist
func (s *SQLiteProvider) InitSchema() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config, err := s.readConfig()
	if err != nil {
		return nil, err
	}
	return finalize(config)
}

// GetLogging returns the logging configuration with defaults applied
func (s *SQLiteProvider) GetLogging() (*LoggingData, error) {
	config, err := s.readConfig()
	if err != nil {
		return nil, err
	}
	return &config.Logging, nil
}

// GetDashboard returns the dashboard configuration with defaults applied
func (s *SQLiteProvider) GetDashboard() (*DashboardData, error) {
	config, err := s.readConfig()
	if err != nil {
		return nil, err
	}
	return &config.Dashboard, nil
}

// GetControllers returns controller configurations with defaults applied
func (s *SQLiteProvider) GetControllers() ([]ControllerData, error) {
	config, err := s.readConfig()
	if err != nil {
		return nil, err
	}
	return config.Controllers, nil
}

// readConfig reads every section and applies defaults. It does not validate,
// so a database without controllers still yields its logging and dashboard.
func (s *SQLiteProvider) readConfig() (*ConfigData, error) {
	config := &ConfigData{}

	logging, err := s.readLogging()
	if err != nil {
		return nil, fmt.Errorf("failed to load logging config: %w", err)
	}
	config.Logging = *logging

	dashboard, err := s.readDashboard()
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard config: %w", err)
	}
	config.Dashboard = *dashboard

	controllers, err := s.readControllers()
	if err != nil {
		return nil, fmt.Errorf("failed to load controllers: %w", err)
	}
	config.Controllers = controllers

	config.ApplyDefaults()
	return config, nil
}

// readLogging reads the logging row. A missing row yields the zero value.
func (s *SQLiteProvider) readLogging() (*LoggingData, error) {
	query := `
		SELECT debug, file, max_size_mb, max_backups, max_age_days
		FROM logging_configs
		WHERE config_id = (SELECT id FROM configs WHERE name = ?)
	`

	var logging LoggingData
	var file sql.NullString
	var maxSize, maxBackups, maxAge sql.NullInt64

	err := s.db.QueryRow(query, defaultConfigName).Scan(&logging.Debug, &file, &maxSize, &maxBackups, &maxAge)
	if errors.Is(err, sql.ErrNoRows) {
		return &logging, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query logging config: %w", err)
	}

	logging.File = file.String
	logging.MaxSizeMB = int(maxSize.Int64)
	logging.MaxBackups = int(maxBackups.Int64)
	logging.MaxAgeDays = int(maxAge.Int64)

	return &logging, nil
}

// readDashboard reads the dashboard row. A missing row yields the zero value.
func (s *SQLiteProvider) readDashboard() (*DashboardData, error) {
	query := `
		SELECT title, forecast_days, star_count, star_seed
		FROM dashboard_configs
		WHERE config_id = (SELECT id FROM configs WHERE name = ?)
	`

	var dashboard DashboardData
	var title sql.NullString
	var forecastDays, starCount, starSeed sql.NullInt64

	err := s.db.QueryRow(query, defaultConfigName).Scan(&title, &forecastDays, &starCount, &starSeed)
	if errors.Is(err, sql.ErrNoRows) {
		return &dashboard, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query dashboard config: %w", err)
	}

	dashboard.Title = title.String
	dashboard.ForecastDays = int(forecastDays.Int64)
	dashboard.StarCount = int(starCount.Int64)
	// SQLite integers are signed; the seed is stored bit-for-bit
	dashboard.StarSeed = uint64(starSeed.Int64)

	return &dashboard, nil
}

func (s *SQLiteProvider) readControllers() ([]ControllerData, error) {
	query := `
		SELECT type, listen_addr, port, cert, key
		FROM controller_configs
		WHERE config_id = (SELECT id FROM configs WHERE name = ?)
		ORDER BY id
	`

	rows, err := s.db.Query(query, defaultConfigName)
	if err != nil {
		return nil, fmt.Errorf("failed to query controllers: %w", err)
	}
	defer rows.Close()

	var controllers []ControllerData
	for rows.Next() {
		var controllerType string
		var listenAddr, cert, key sql.NullString
		var port sql.NullInt64

		if err := rows.Scan(&controllerType, &listenAddr, &port, &cert, &key); err != nil {
			return nil, fmt.Errorf("failed to scan controller row: %w", err)
		}

		controller := ControllerData{Type: normalizeControllerType(controllerType)}
		switch controller.Type {
		case ControllerREST:
			controller.RESTServer = &RESTServerData{
				ListenAddr: listenAddr.String,
				Port:       int(port.Int64),
				Cert:       cert.String,
				Key:        key.String,
			}
		case ControllerGRPC:
			controller.GRPCServer = &GRPCServerData{
				ListenAddr: listenAddr.String,
				Port:       int(port.Int64),
				Cert:       cert.String,
				Key:        key.String,
			}
		}
		controllers = append(controllers, controller)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating controller rows: %w", err)
	}

	return controllers, nil
}

// SaveConfig replaces the stored configuration with config
func (s *SQLiteProvider) SaveConfig(config *ConfigData) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO configs (name) VALUES (?) ON CONFLICT(name) DO UPDATE SET updated_at = CURRENT_TIMESTAMP`, defaultConfigName); err != nil {
		return fmt.Errorf("failed to upsert config: %w", err)
	}

	var configID int64
	if err := tx.QueryRow(`SELECT id FROM configs WHERE name = ?`, defaultConfigName).Scan(&configID); err != nil {
		return fmt.Errorf("failed to look up config id: %w", err)
	}

	for _, table := range []string{"logging_configs", "dashboard_configs", "controller_configs"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE config_id = ?", configID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	l := config.Logging
	if _, err := tx.Exec(`
		INSERT INTO logging_configs (config_id, debug, file, max_size_mb, max_backups, max_age_days)
		VALUES (?, ?, ?, ?, ?, ?)`,
		configID, l.Debug, l.File, l.MaxSizeMB, l.MaxBackups, l.MaxAgeDays); err != nil {
		return fmt.Errorf("failed to insert logging config: %w", err)
	}

	d := config.Dashboard
	if _, err := tx.Exec(`
		INSERT INTO dashboard_configs (config_id, title, forecast_days, star_count, star_seed)
		VALUES (?, ?, ?, ?, ?)`,
		configID, d.Title, d.ForecastDays, d.StarCount, int64(d.StarSeed)); err != nil {
		return fmt.Errorf("failed to insert dashboard config: %w", err)
	}

	for _, c := range config.Controllers {
		var listenAddr, cert, key string
		var port int
		switch {
		case c.RESTServer != nil:
			listenAddr, port, cert, key = c.RESTServer.ListenAddr, c.RESTServer.Port, c.RESTServer.Cert, c.RESTServer.Key
		case c.GRPCServer != nil:
			listenAddr, port, cert, key = c.GRPCServer.ListenAddr, c.GRPCServer.Port, c.GRPCServer.Cert, c.GRPCServer.Key
		}
		if _, err := tx.Exec(`
			INSERT INTO controller_configs (config_id, type, listen_addr, port, cert, key)
			VALUES (?, ?, ?, ?, ?, ?)`,
			configID, c.Type, listenAddr, port, cert, key); err != nil {
			return fmt.Errorf("failed to insert %s controller: %w", c.Type, err)
		}
	}

	return tx.Commit()
}

// IsReadOnly returns false since SQLite supports writes
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
