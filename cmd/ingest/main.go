package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/storyhound/storyhound/internal/collector"
	"github.com/storyhound/storyhound/internal/fetch"
	"github.com/storyhound/storyhound/internal/ingest"
	"github.com/storyhound/storyhound/internal/normalize"
	"github.com/storyhound/storyhound/internal/storage/es"
	"github.com/storyhound/storyhound/internal/storage/pg"
)

func main() {
	appSettings := NewAppConfig()

	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pg.NewConnectionPool(ctx, cfg.Pg)
	if err != nil {
		slog.Error("failed to connect to feed store", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	indexer, err := es.NewIndexer(cfg.Es)
	if err != nil {
		slog.Error("failed to create indexer", "error", err)
		os.Exit(1)
	}

	pipeline := newPipeline(pg.NewFeedStore(pool), indexer, cfg.Settings)

	report, err := pipeline.Run(ctx)
	if err != nil {
		slog.Error("ingestion run failed", "error", err)
		os.Exit(1)
	}

	if report.Index.Failed() > 0 || len(report.FeedFailures) > 0 {
		slog.Warn("ingestion run finished with recovered failures",
			"feed_failures", len(report.FeedFailures),
			"index_failures", report.Index.Failed(),
		)
	}
}

func newPipeline(store *pg.FeedStore, indexer *es.Indexer, settings ingest.Settings) *ingest.Pipeline {
	clientOpts := []fetch.ClientOption{
		fetch.WithTimeout(settings.FetchTimeout()),
	}
	if settings.UserAgent != "" {
		clientOpts = append(clientOpts, fetch.WithUserAgent(settings.UserAgent))
	}

	client := fetch.NewClient(&http.Client{}, clientOpts...)

	c := collector.NewStoryCollector(
		store,
		client,
		fetch.NewParser(),
		normalize.NewNormalizer(),
		collector.WithWorkers(settings.Workers),
		collector.WithStaleness(settings.Staleness()),
	)

	return ingest.NewPipeline(c, indexer, ingest.WithBatchSize(settings.BatchSize))
}
