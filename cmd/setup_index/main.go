package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/storyhound/storyhound/internal/storage/es"
	"github.com/storyhound/storyhound/pkg/config/env"
)

// setup_index drops and recreates the stories index with its fixed field
// mapping. Used for initial provisioning and full resets; destructive by
// design, never invoked by the ingestion run itself.
func main() {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	indexer, err := es.NewIndexer(*cfg)
	if err != nil {
		slog.Error("failed to create indexer", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if err := indexer.DropIndex(ctx); err != nil {
		slog.Error("failed to drop index", "error", err)
		os.Exit(1)
	}

	if err := indexer.EnsureIndex(ctx); err != nil {
		slog.Error("failed to create index", "error", err)
		os.Exit(1)
	}

	slog.Info("index provisioned")
}

func loadConfig() (*es.ClientConfig, error) {
	err := env.LoadDotEnv(os.Getenv("ENV"), "cmd/setup_index/.env")
	if err != nil {
		slog.Info("Failed to load .env, continuing with existing environment variables", "error", err)
	}

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
