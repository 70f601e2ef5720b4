package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyhound/storyhound/internal/domain"
	"github.com/storyhound/storyhound/internal/feed"
	"github.com/storyhound/storyhound/internal/fetch"
	"github.com/storyhound/storyhound/internal/normalize"
)

const feedPayload = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>T</title>
<item>
  <title>One</title>
  <guid>item-1</guid>
  <pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
</item>
<item>
  <title>Two</title>
  <guid>item-2</guid>
</item>
</channel></rss>`

type fakeStore struct {
	mu      sync.Mutex
	regs    []feed.Registration
	listErr error
	stamped map[uuid.UUID]time.Time
}

func newFakeStore(regs ...feed.Registration) *fakeStore {
	return &fakeStore{regs: regs, stamped: make(map[uuid.UUID]time.Time)}
}

func (s *fakeStore) ListActive(ctx context.Context) ([]feed.Registration, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.regs, nil
}

func (s *fakeStore) MarkFetched(ctx context.Context, id uuid.UUID, fetchedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamped[id] = fetchedAt
	return nil
}

func collectAll(t *testing.T, c *StoryCollector) ([]domain.Story, []error) {
	t.Helper()
	results, err := c.Collect(context.Background())
	require.NoError(t, err)

	var stories []domain.Story
	var errs []error
	for res := range results {
		if res.Err != nil {
			errs = append(errs, res.Err)
			continue
		}
		stories = append(stories, res.Result)
	}
	return stories, errs
}

func newCollectorUnderTest(store feed.Store, opts ...StoryCollectorOption) *StoryCollector {
	return NewStoryCollector(
		store,
		fetch.NewClient(&http.Client{}),
		fetch.NewParser(),
		normalize.NewNormalizer(),
		opts...,
	)
}

func TestStoryCollector_CollectsAndStamps(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feedPayload))
	}))
	defer server.Close()

	reg := feed.Registration{ID: uuid.New(), Name: "t", SourceURL: server.URL, Active: true}
	store := newFakeStore(reg)

	c := newCollectorUnderTest(store)

	stories, errs := collectAll(t, c)

	assert.Empty(t, errs)
	require.Len(t, stories, 2)
	assert.Contains(t, store.stamped, reg.ID, "successful fetch+parse stamps the feed")
}

func TestStoryCollector_FetchedAtFixedPerRun(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feedPayload))
	}))
	defer server.Close()

	regs := []feed.Registration{
		{ID: uuid.New(), Name: "a", SourceURL: server.URL, Active: true},
		{ID: uuid.New(), Name: "b", SourceURL: server.URL, Active: true},
	}
	runStart := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	c := newCollectorUnderTest(newFakeStore(regs...), WithClock(func() time.Time { return runStart }))

	stories, _ := collectAll(t, c)

	require.NotEmpty(t, stories)
	for _, story := range stories {
		assert.Equal(t, "2024-06-01T12:00:00Z", story.FetchedAt, "every story of a run carries the run-start stamp")
	}
}

func TestStoryCollector_FeedFailureIsIsolated(t *testing.T) {
	okServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feedPayload))
	}))
	defer okServer.Close()
	brokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer brokenServer.Close()

	working := feed.Registration{ID: uuid.New(), Name: "working", SourceURL: okServer.URL, Active: true}
	broken := feed.Registration{ID: uuid.New(), Name: "broken", SourceURL: brokenServer.URL, Active: true}
	store := newFakeStore(broken, working)

	c := newCollectorUnderTest(store)

	stories, errs := collectAll(t, c)

	assert.Len(t, stories, 2, "the working feed's entries still come through")
	assert.Len(t, errs, 1, "the broken feed surfaces exactly one failure")
	assert.Contains(t, store.stamped, working.ID)
	assert.NotContains(t, store.stamped, broken.ID, "a failed feed is not stamped and stays eligible")
}

func TestStoryCollector_SkipsFreshFeeds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("fresh feed must not be fetched")
	}))
	defer server.Close()

	justFetched := time.Now().UTC().Add(-time.Minute)
	reg := feed.Registration{ID: uuid.New(), Name: "fresh", SourceURL: server.URL, Active: true, LastFetchedAt: &justFetched}

	c := newCollectorUnderTest(newFakeStore(reg))

	stories, errs := collectAll(t, c)

	assert.Empty(t, stories)
	assert.Empty(t, errs)
}

func TestStoryCollector_StoreErrorIsFatal(t *testing.T) {
	store := newFakeStore()
	store.listErr = assert.AnError

	c := newCollectorUnderTest(store)

	_, err := c.Collect(context.Background())
	assert.Error(t, err)
}
