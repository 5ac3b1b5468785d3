package config

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const stationsSchema = `
	CREATE TABLE IF NOT EXISTS stations (
		name            TEXT PRIMARY KEY,
		base_url        TEXT,
		view_user       TEXT NOT NULL,
		imei            TEXT NOT NULL,
		window_minutes  INTEGER,
		direction_range TEXT,
		timeout         TEXT
	)
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

	if _, err := db.Exec(stationsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create stations table: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	stations, err := s.GetStations()
	if err != nil {
		return nil, fmt.Errorf("failed to load stations: %w", err)
	}

	return &ConfigData{Stations: stations}, nil
}

// GetStations returns station configurations from the database
func (s *SQLiteProvider) GetStations() ([]StationData, error) {
	query := `
		SELECT name, base_url, view_user, imei, window_minutes, direction_range, timeout
		FROM stations
		ORDER BY name
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query stations: %w", err)
	}
	defer rows.Close()

	var stations []StationData
	for rows.Next() {
		var station StationData
		var baseURL, directionRange, timeout sql.NullString
		var windowMinutes sql.NullInt64

		err := rows.Scan(
			&station.Name, &baseURL, &station.ViewUser, &station.IMEI,
			&windowMinutes, &directionRange, &timeout,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan station row: %w", err)
		}

		station.BaseURL = baseURL.String
		station.DirectionRange = directionRange.String
		station.Timeout = timeout.String
		if windowMinutes.Valid {
			station.WindowMinutes = int(windowMinutes.Int64)
		}

		stations = append(stations, station)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read station rows: %w", err)
	}

	return stations, nil
}

// IsReadOnly returns false since SQLite supports write operations
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

// SaveConfig replaces all stored stations with those in configData
func (s *SQLiteProvider) SaveConfig(configData *ConfigData) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM stations"); err != nil {
		return fmt.Errorf("failed to clear existing stations: %w", err)
	}

	for _, station := range configData.Stations {
		if err := s.insertStation(tx, &station); err != nil {
			return fmt.Errorf("failed to insert station %s: %w", station.Name, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteProvider) insertStation(tx *sql.Tx, station *StationData) error {
	query := `
		INSERT INTO stations (
			name, base_url, view_user, imei, window_minutes, direction_range, timeout
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var windowMinutes sql.NullInt64
	if station.WindowMinutes != 0 {
		windowMinutes = sql.NullInt64{Int64: int64(station.WindowMinutes), Valid: true}
	}

	_, err := tx.Exec(query,
		station.Name, nullString(station.BaseURL), station.ViewUser, station.IMEI,
		windowMinutes, nullString(station.DirectionRange), nullString(station.Timeout),
	)
	return err
}

// Helper functions for handling nullable fields
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
