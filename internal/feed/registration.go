package feed

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Registration is one RSS/Atom source known to the feed store. The
// pipeline reads registrations and writes back exactly one field,
// LastFetchedAt, after a successful fetch and parse of that feed.
type Registration struct {
	ID            uuid.UUID
	Name          string
	SourceURL     string
	Active        bool
	LastFetchedAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Store is the feed registry the pipeline consumes. Registrations are
// created and managed elsewhere; SourceURL is unique across them.
type Store interface {
	ListActive(ctx context.Context) ([]Registration, error)
	MarkFetched(ctx context.Context, id uuid.UUID, fetchedAt time.Time) error
}
