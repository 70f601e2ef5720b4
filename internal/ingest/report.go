package ingest

import (
	"time"

	"github.com/storyhound/storyhound/internal/storage"
)

// FeedFailure is one feed skipped this run. The staleness-based selector
// retries it naturally next cycle, so nothing here schedules a retry.
type FeedFailure struct {
	Name string
	Err  error
}

// RunReport aggregates everything one ingestion run recovered from:
// skipped feeds, dropped entries and per-document index rejections.
type RunReport struct {
	StoriesCollected int
	FeedFailures     []FeedFailure
	EntriesDropped   int
	Index            storage.IndexReport
	Duration         time.Duration
}
