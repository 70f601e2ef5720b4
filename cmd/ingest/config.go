package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/storyhound/storyhound/internal/ingest"
	"github.com/storyhound/storyhound/internal/storage/es"
	"github.com/storyhound/storyhound/internal/storage/pg"
	"github.com/storyhound/storyhound/pkg/config/env"
)

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type IngestConfig struct {
	Pg       pg.PoolConfig
	Es       es.ClientConfig
	Settings ingest.Settings
}

func (ac *AppConfig) Load() (*IngestConfig, error) {
	err := env.LoadDotEnv(ac.ENV, "cmd/ingest/.env")
	if err != nil {
		slog.Info("Failed to load .env, continuing with existing environment variables", "error", err)
	}

	pgCfg := pg.PoolConfig{
		ConnStr: os.Getenv("PG_CONNECTION_STRING"),
	}
	if pgCfg.ConnStr == "" {
		return nil, fmt.Errorf("PG_CONNECTION_STRING environment variable is not set")
	}

	esCfg, err := loadEsConfig()
	if err != nil {
		return nil, err
	}

	settings := ingest.DefaultSettings()
	if path := os.Getenv("INGEST_SETTINGS_PATH"); path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open settings file: %w", err)
		}
		defer file.Close()

		loaded, err := ingest.NewSettingsLoader(file).Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load settings from %s: %w", path, err)
		}
		settings = *loaded
	}

	return &IngestConfig{
		Pg:       pgCfg,
		Es:       *esCfg,
		Settings: settings,
	}, nil
}

func loadEsConfig() (*es.ClientConfig, error) {
	addresses := os.Getenv("ES_ADDRESSES")
	if addresses == "" {
		return nil, fmt.Errorf("ES_ADDRESSES environment variable is not set")
	}

	indexName := os.Getenv("ES_INDEX_NAME")
	if indexName == "" {
		indexName = es.DefaultIndexName
	}

	return &es.ClientConfig{
		Addresses: strings.Split(addresses, ","),
		IndexName: indexName,
		Username:  os.Getenv("ES_USERNAME"),
		Password:  os.Getenv("ES_PASSWORD"),
	}, nil
}
