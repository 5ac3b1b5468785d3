package config

import (
	"os"
	"path/filepath"
	"testing"
)

const testYAML = `
stations:
  - name: seaview
    view-user: "36371"
    imei: 083af23b9b89_15_1
    window-minutes: 60
  - name: harbour
    base-url: http://localhost:8080
    view-user: "100"
    imei: abc
    direction-range: raw
    timeout: 5s
`

func writeTestYAML(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestYAMLProvider(t *testing.T) {
	provider := NewYAMLProvider(writeTestYAML(t))
	defer provider.Close()

	stations, err := provider.GetStations()
	if err != nil {
		t.Fatalf("GetStations returned error: %v", err)
	}
	if len(stations) != 2 {
		t.Fatalf("got %d stations, expected 2", len(stations))
	}

	seaview := stations[0]
	if seaview.Name != "seaview" || seaview.ViewUser != "36371" || seaview.IMEI != "083af23b9b89_15_1" || seaview.WindowMinutes != 60 {
		t.Errorf("unexpected first station: %+v", seaview)
	}

	harbour := stations[1]
	if harbour.BaseURL != "http://localhost:8080" || harbour.DirectionRange != "raw" || harbour.Timeout != "5s" {
		t.Errorf("unexpected second station: %+v", harbour)
	}

	if !provider.IsReadOnly() {
		t.Error("YAML provider should be read-only")
	}
}

func TestYAMLProviderMissingFile(t *testing.T) {
	provider := NewYAMLProvider(filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := provider.LoadConfig(); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSQLiteProviderRoundTrip(t *testing.T) {
	cfg, err := NewYAMLProvider(writeTestYAML(t)).LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	provider, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "config.db"))
	if err != nil {
		t.Fatalf("NewSQLiteProvider returned error: %v", err)
	}
	defer provider.Close()

	if err := provider.SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig returned error: %v", err)
	}

	loaded, err := provider.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if len(loaded.Stations) != 2 {
		t.Fatalf("got %d stations, expected 2", len(loaded.Stations))
	}

	// rows come back ordered by name
	if loaded.Stations[0] != cfg.Stations[1] {
		t.Errorf("station = %+v, expected %+v", loaded.Stations[0], cfg.Stations[1])
	}
	if loaded.Stations[1] != cfg.Stations[0] {
		t.Errorf("station = %+v, expected %+v", loaded.Stations[1], cfg.Stations[0])
	}
}

func TestStationLookup(t *testing.T) {
	cfg := &ConfigData{Stations: []StationData{
		{Name: "a", ViewUser: "1", IMEI: "x"},
		{Name: "b", ViewUser: "2", IMEI: "y"},
	}}

	s, err := cfg.Station("b")
	if err != nil || s.IMEI != "y" {
		t.Errorf("Station(\"b\") = %+v, %v", s, err)
	}
	if _, err := cfg.Station("c"); err == nil {
		t.Error("expected error for unknown station")
	}
	if _, err := cfg.Station(""); err == nil {
		t.Error("expected error selecting among multiple stations")
	}

	single := &ConfigData{Stations: cfg.Stations[:1]}
	if s, err := single.Station(""); err != nil || s.Name != "a" {
		t.Errorf("Station(\"\") = %+v, %v", s, err)
	}
}

func TestStationValidate(t *testing.T) {
	tests := []struct {
		name    string
		station StationData
		wantErr bool
	}{
		{"valid", StationData{Name: "a", ViewUser: "1", IMEI: "x"}, false},
		{"missing name", StationData{ViewUser: "1", IMEI: "x"}, true},
		{"missing imei", StationData{Name: "a", ViewUser: "1"}, true},
		{"missing view user", StationData{Name: "a", IMEI: "x"}, true},
		{"negative window", StationData{Name: "a", ViewUser: "1", IMEI: "x", WindowMinutes: -5}, true},
	}

	for _, tt := range tests {
		if err := tt.station.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}
