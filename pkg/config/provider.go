package config

import "fmt"

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetStations() ([]StationData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Stations []StationData `json:"stations"`
}

// StationData holds configuration for one Navis live-data sensor
type StationData struct {
	Name           string `json:"name"`
	BaseURL        string `json:"base_url,omitempty"`
	ViewUser       string `json:"view_user"`
	IMEI           string `json:"imei"`
	WindowMinutes  int    `json:"window_minutes,omitempty"`
	DirectionRange string `json:"direction_range,omitempty"`
	Timeout        string `json:"timeout,omitempty"`
}

// Station returns the named station, or the only configured station when
// name is empty.
func (c *ConfigData) Station(name string) (*StationData, error) {
	if name == "" {
		if len(c.Stations) == 1 {
			return &c.Stations[0], nil
		}
		return nil, fmt.Errorf("%d stations configured; select one with -station", len(c.Stations))
	}

	for i := range c.Stations {
		if c.Stations[i].Name == name {
			return &c.Stations[i], nil
		}
	}

	return nil, fmt.Errorf("station [%s] not found in configuration", name)
}

// Validate checks that the fields needed to query a station are present
func (s StationData) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("station must have a name")
	}
	if s.IMEI == "" {
		return fmt.Errorf("station [%s] must define an imei", s.Name)
	}
	if s.ViewUser == "" {
		return fmt.Errorf("station [%s] must define a view user", s.Name)
	}
	if s.WindowMinutes < 0 {
		return fmt.Errorf("station [%s] has a negative window", s.Name)
	}
	return nil
}
