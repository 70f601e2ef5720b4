package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyhound/storyhound/internal/apperr"
)

func TestClient_Fetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte("<rss></rss>"))
	}))
	defer server.Close()

	client := NewClient(server.Client())

	payload, err := client.Fetch(context.Background(), "test-feed", server.URL)

	require.NoError(t, err)
	assert.Equal(t, "<rss></rss>", string(payload))
}

func TestClient_Fetch_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.Client())

	_, err := client.Fetch(context.Background(), "test-feed", server.URL)

	var fe *apperr.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusServiceUnavailable, fe.StatusCode)
	assert.Equal(t, "test-feed", fe.FeedName)
}

func TestClient_Fetch_TransportError(t *testing.T) {
	client := NewClient(&http.Client{})

	_, err := client.Fetch(context.Background(), "test-feed", "http://127.0.0.1:1/feed.xml")

	var fe *apperr.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "test-feed", fe.FeedName)
}

func TestClient_Fetch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(server.Client(), WithTimeout(20*time.Millisecond))

	start := time.Now()
	_, err := client.Fetch(context.Background(), "slow-feed", server.URL)

	var fe *apperr.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Less(t, time.Since(start), 150*time.Millisecond, "timeout should cut the request short")
}
