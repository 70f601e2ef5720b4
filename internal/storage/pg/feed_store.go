package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storyhound/storyhound/internal/feed"
)

// FeedStore reads feed registrations from Postgres. Registrations are
// managed outside the pipeline; the only column written here is
// last_fetched_at, stamped after a feed's successful fetch and parse.
type FeedStore struct {
	db *pgxpool.Pool
}

var _ feed.Store = (*FeedStore)(nil)

func NewFeedStore(pool *ConnectionPool) *FeedStore {
	return &FeedStore{db: pool.conn}
}

func (s *FeedStore) ListActive(ctx context.Context) ([]feed.Registration, error) {
	query := `
        SELECT id, name, source_url, is_active, last_fetched_at, created_at, updated_at
        FROM feeds
        WHERE is_active = true
        ORDER BY name;
    `
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active feeds: %w", err)
	}
	defer rows.Close()

	var regs []feed.Registration
	for rows.Next() {
		var reg feed.Registration
		if err := rows.Scan(
			&reg.ID,
			&reg.Name,
			&reg.SourceURL,
			&reg.Active,
			&reg.LastFetchedAt,
			&reg.CreatedAt,
			&reg.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan feed registration: %w", err)
		}
		regs = append(regs, reg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read feed registrations: %w", err)
	}

	return regs, nil
}

func (s *FeedStore) MarkFetched(ctx context.Context, id uuid.UUID, fetchedAt time.Time) error {
	cmd := `
        UPDATE feeds
        SET last_fetched_at = $2, updated_at = now()
        WHERE id = $1;
    `
	tag, err := s.db.Exec(ctx, cmd, id, fetchedAt)
	if err != nil {
		return fmt.Errorf("failed to mark feed %s as fetched: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("feed %s not found", id)
	}
	return nil
}
