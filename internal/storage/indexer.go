package storage

import (
	"context"

	"github.com/storyhound/storyhound/internal/domain"
)

// DocumentIndexer is the search index the pipeline writes into. Every
// write is an idempotent upsert keyed by the story's derived DocID; index
// provisioning is an explicit operator action, never implied by a write.
type DocumentIndexer interface {
	EnsureIndex(ctx context.Context) error
	DropIndex(ctx context.Context) error
	Upsert(ctx context.Context, story domain.Story) error
	BulkUpsert(ctx context.Context, stories []domain.Story) (*IndexReport, error)
}

// ItemFailure is one document the index rejected, e.g. a mapping
// conflict. It never fails the batch it belongs to.
type ItemFailure struct {
	DocID  string
	Status int
	Reason string
}

// IndexReport summarizes one bulk write. Partial failures are data, not
// errors: the caller decides whether to log or alert.
type IndexReport struct {
	Total      int
	Successful int
	Failures   []ItemFailure
}

func (r *IndexReport) Failed() int {
	return len(r.Failures)
}

// Merge folds another report into this one, preserving failure order.
func (r *IndexReport) Merge(other *IndexReport) {
	if other == nil {
		return
	}
	r.Total += other.Total
	r.Successful += other.Successful
	r.Failures = append(r.Failures, other.Failures...)
}
