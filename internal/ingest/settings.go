package ingest

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings are the tuning knobs of one ingestion run, loadable from a
// YAML file. Zero values fall back to the defaults below.
type Settings struct {
	Workers             int    `yaml:"workers"`
	BatchSize           int    `yaml:"batch_size"`
	StalenessMinutes    int    `yaml:"staleness_minutes"`
	FetchTimeoutSeconds int    `yaml:"fetch_timeout_seconds"`
	UserAgent           string `yaml:"user_agent"`
}

func DefaultSettings() Settings {
	return Settings{
		Workers:             4,
		BatchSize:           defaultBatchSize,
		StalenessMinutes:    10,
		FetchTimeoutSeconds: 10,
	}
}

func (s Settings) Staleness() time.Duration {
	return time.Duration(s.StalenessMinutes) * time.Minute
}

func (s Settings) FetchTimeout() time.Duration {
	return time.Duration(s.FetchTimeoutSeconds) * time.Second
}

func (s Settings) Validate() error {
	if s.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", s.Workers)
	}
	if s.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", s.BatchSize)
	}
	if s.StalenessMinutes <= 0 {
		return fmt.Errorf("staleness_minutes must be positive, got %d", s.StalenessMinutes)
	}
	if s.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("fetch_timeout_seconds must be positive, got %d", s.FetchTimeoutSeconds)
	}
	return nil
}

type SettingsLoader struct {
	reader io.Reader
}

func NewSettingsLoader(reader io.Reader) *SettingsLoader {
	return &SettingsLoader{
		reader: reader,
	}
}

// Load decodes settings, filling unset fields with defaults before
// validation.
func (sl *SettingsLoader) Load() (*Settings, error) {
	settings := DefaultSettings()
	decoder := yaml.NewDecoder(sl.reader)
	if err := decoder.Decode(&settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}
