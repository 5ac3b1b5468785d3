package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	config, err := parseYAML(cfgFile)
	if err != nil {
		return nil, err
	}

	y.config = config
	return config, nil
}

func parseYAML(data []byte) (*ConfigData, error) {
	var yamlConfig struct {
		Stations []StationYAML `yaml:"stations"`
	}

	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return nil, err
	}

	config := &ConfigData{
		Stations: make([]StationData, len(yamlConfig.Stations)),
	}

	for i, station := range yamlConfig.Stations {
		config.Stations[i] = StationData{
			Name:           station.Name,
			BaseURL:        station.BaseURL,
			ViewUser:       station.ViewUser,
			IMEI:           station.IMEI,
			WindowMinutes:  station.WindowMinutes,
			DirectionRange: station.DirectionRange,
			Timeout:        station.Timeout,
		}
	}

	return config, nil
}

// GetStations returns station configurations
func (y *YAMLProvider) GetStations() ([]StationData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return y.config.Stations, nil
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// StationYAML carries the YAML tags for a station entry
type StationYAML struct {
	Name           string `yaml:"name"`
	BaseURL        string `yaml:"base-url,omitempty"`
	ViewUser       string `yaml:"view-user"`
	IMEI           string `yaml:"imei"`
	WindowMinutes  int    `yaml:"window-minutes,omitempty"`
	DirectionRange string `yaml:"direction-range,omitempty"`
	Timeout        string `yaml:"timeout,omitempty"`
}
