package ingest

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/storyhound/storyhound/internal/apperr"
	"github.com/storyhound/storyhound/internal/collector"
	"github.com/storyhound/storyhound/internal/domain"
	"github.com/storyhound/storyhound/internal/storage"
)

const defaultBatchSize = 500

// Pipeline consumes the collected story stream and performs idempotent
// bulk writes into the document index. Batches bound request size; a
// batch's partial failures land in the run report and never block the
// batches after it. Only an unreachable index aborts the run.
type Pipeline struct {
	collector collector.Collector[domain.Story]
	indexer   storage.DocumentIndexer
	batchSize int
}

type PipelineOption func(*Pipeline)

func WithBatchSize(size int) PipelineOption {
	return func(p *Pipeline) {
		if size > 0 {
			p.batchSize = size
		}
	}
}

func NewPipeline(c collector.Collector[domain.Story], indexer storage.DocumentIndexer, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		collector: c,
		indexer:   indexer,
		batchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one ingestion cycle and reports what happened to every
// feed, entry and document it touched. The error is non-nil only for
// run-fatal conditions: an unavailable feed store, a cancelled context,
// or an unreachable document index.
func (p *Pipeline) Run(ctx context.Context) (*RunReport, error) {
	start := time.Now()
	report := &RunReport{}

	slog.Info("Starting ingestion run", "batch_size", p.batchSize)

	results, err := p.collector.Collect(ctx)
	if err != nil {
		slog.Error("Feed store unavailable, aborting run", "error", err)
		return report, err
	}

	batch := make([]domain.Story, 0, p.batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		batchReport, err := p.indexer.BulkUpsert(ctx, batch)
		report.Index.Merge(batchReport)
		batch = batch[:0]
		return err
	}

	for {
		select {
		case <-ctx.Done():
			report.Duration = time.Since(start)
			return report, ctx.Err()
		case res, ok := <-results:
			if !ok {
				if err := flush(); err != nil {
					report.Duration = time.Since(start)
					return report, err
				}
				report.Duration = time.Since(start)
				p.logSummary(report)
				return report, nil
			}

			if res.Err != nil {
				p.recordFailure(report, res.Err)
				continue
			}

			report.StoriesCollected++
			batch = append(batch, res.Result)
			if len(batch) >= p.batchSize {
				if err := flush(); err != nil {
					report.Duration = time.Since(start)
					return report, err
				}
			}
		}
	}
}

func (p *Pipeline) recordFailure(report *RunReport, err error) {
	var fetchErr *apperr.FetchError
	var parseErr *apperr.ParseError
	var normErr *apperr.NormalizeError

	switch {
	case errors.As(err, &fetchErr):
		report.FeedFailures = append(report.FeedFailures, FeedFailure{Name: fetchErr.FeedName, Err: err})
		slog.Error("Feed skipped: fetch failed", "feed", fetchErr.FeedName, "url", fetchErr.URL, "status", fetchErr.StatusCode, "error", err)
	case errors.As(err, &parseErr):
		report.FeedFailures = append(report.FeedFailures, FeedFailure{Name: parseErr.FeedName, Err: err})
		slog.Error("Feed skipped: payload is not a valid feed", "feed", parseErr.FeedName, "error", err)
	case errors.As(err, &normErr):
		report.EntriesDropped++
		slog.Error("Entry dropped", "feed", normErr.FeedName, "guid", normErr.GUID, "error", err)
	default:
		report.EntriesDropped++
		slog.Error("Collection error", "error", err)
	}
}

func (p *Pipeline) logSummary(report *RunReport) {
	for _, failure := range report.Index.Failures {
		slog.Error("Document rejected by index", "doc_id", failure.DocID, "status", failure.Status, "reason", failure.Reason)
	}
	slog.Info("Ingestion run completed",
		"stories", report.StoriesCollected,
		"indexed", report.Index.Successful,
		"index_failures", report.Index.Failed(),
		"feed_failures", len(report.FeedFailures),
		"entries_dropped", report.EntriesDropped,
		"duration", report.Duration,
	)
}
