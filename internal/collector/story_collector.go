package collector

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/storyhound/storyhound/internal/domain"
	"github.com/storyhound/storyhound/internal/feed"
	"github.com/storyhound/storyhound/internal/fetch"
	"github.com/storyhound/storyhound/internal/normalize"
)

const defaultWorkers = 4

// StoryCollector drives one ingestion cycle's collection side: select the
// due feeds, fetch and parse each one on a bounded worker pool, normalize
// every entry, and stamp the feed's last-fetched time after a successful
// fetch+parse. Feeds are independent, so one feed's failure only emits an
// error result and never stops the others. Each registration is owned by
// exactly one worker, which keeps the stamp write single-writer.
type StoryCollector struct {
	store      feed.Store
	client     *fetch.Client
	parser     *fetch.Parser
	normalizer *normalize.Normalizer
	workers    int
	staleness  time.Duration
	now        func() time.Time
}

type StoryCollectorOption func(*StoryCollector)

func WithWorkers(n int) StoryCollectorOption {
	return func(c *StoryCollector) {
		if n > 0 {
			c.workers = n
		}
	}
}

func WithStaleness(threshold time.Duration) StoryCollectorOption {
	return func(c *StoryCollector) {
		if threshold > 0 {
			c.staleness = threshold
		}
	}
}

// WithClock substitutes the time source, used by tests to pin the
// run-wide fetched_at stamp.
func WithClock(now func() time.Time) StoryCollectorOption {
	return func(c *StoryCollector) {
		c.now = now
	}
}

func NewStoryCollector(
	store feed.Store,
	client *fetch.Client,
	parser *fetch.Parser,
	normalizer *normalize.Normalizer,
	opts ...StoryCollectorOption,
) *StoryCollector {
	c := &StoryCollector{
		store:      store,
		client:     client,
		parser:     parser,
		normalizer: normalizer,
		workers:    defaultWorkers,
		staleness:  feed.DefaultStalenessThreshold,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect starts the worker pool and returns the story stream. The
// fetched_at stamp is fixed here, once, at run start: every story of the
// run carries the same value. The channel closes when all due feeds are
// processed. An error return means the feed store itself was unavailable.
func (c *StoryCollector) Collect(ctx context.Context) (<-chan Result[domain.Story], error) {
	runStart := c.now().UTC()
	stamp := runStart.Format(domain.TimeLayout)

	regs, err := c.store.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	due := feed.SelectDue(regs, runStart, c.staleness)
	slog.Info("Selected due feeds", "due", len(due), "active", len(regs), "staleness", c.staleness)

	jobs := make(chan feed.Registration)
	out := make(chan Result[domain.Story])

	var wg sync.WaitGroup
	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for reg := range jobs {
				c.processFeed(ctx, reg, stamp, out)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, reg := range due {
			select {
			case <-ctx.Done():
				return
			case jobs <- reg:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	return out, nil
}

func (c *StoryCollector) processFeed(ctx context.Context, reg feed.Registration, stamp string, out chan<- Result[domain.Story]) {
	payload, err := c.client.Fetch(ctx, reg.Name, reg.SourceURL)
	if err != nil {
		c.emit(ctx, out, Result[domain.Story]{Err: err})
		return
	}

	parsed, err := c.parser.Parse(reg.Name, payload)
	if err != nil {
		c.emit(ctx, out, Result[domain.Story]{Err: err})
		return
	}

	// The staleness stamp follows fetch+parse success and is decoupled
	// from indexing: a feed whose stories later fail to index is not
	// refetched early, the next cycle's selection handles retries.
	if err := c.store.MarkFetched(ctx, reg.ID, c.now().UTC()); err != nil {
		slog.Warn("Failed to stamp feed as fetched", "feed", reg.Name, "error", err)
	}

	for _, entry := range parsed.Entries {
		story, err := c.normalizer.Normalize(reg.Name, entry, stamp)
		if err != nil {
			c.emit(ctx, out, Result[domain.Story]{Err: err})
			continue
		}
		c.emit(ctx, out, Result[domain.Story]{Result: story})
	}
}

func (c *StoryCollector) emit(ctx context.Context, out chan<- Result[domain.Story], res Result[domain.Story]) {
	select {
	case <-ctx.Done():
	case out <- res:
	}
}
