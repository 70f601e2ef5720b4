package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"

	"github.com/storyhound/storyhound/internal/apperr"
	"github.com/storyhound/storyhound/internal/domain"
	"github.com/storyhound/storyhound/internal/storage"
)

// Indexer writes stories into Elasticsearch keyed by their derived
// document ID, so re-indexing the same story is a full overwrite of one
// document. Provisioning (EnsureIndex/DropIndex) is exposed to operators
// and never invoked implicitly by a write.
type Indexer struct {
	client       *elasticsearch.TypedClient
	indexName    string
	indexBuilder *IndexBuilder
}

var _ storage.DocumentIndexer = (*Indexer)(nil)

func NewIndexer(config ClientConfig) (*Indexer, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	indexName := config.IndexName
	if indexName == "" {
		indexName = DefaultIndexName
	}

	return &Indexer{
		client:       client,
		indexName:    indexName,
		indexBuilder: NewIndexBuilder(),
	}, nil
}

// EnsureIndex creates the stories index with its fixed mapping when it
// does not exist yet. Idempotent.
func (e *Indexer) EnsureIndex(ctx context.Context) error {
	exists, err := e.client.Indices.Exists(e.indexName).Do(ctx)
	if err != nil {
		return apperr.NewIndexTransport("exists", err)
	}

	if exists {
		slog.Info("Index already exists", "index", e.indexName)
		return nil
	}

	settings := e.indexBuilder.buildSettings()
	mappings := e.indexBuilder.buildMapping()

	createRes, err := e.client.Indices.Create(e.indexName).
		Settings(&settings).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return apperr.NewIndexTransport("create", err)
	}

	if !createRes.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("Index created successfully", "index", e.indexName)
	return nil
}

// DropIndex deletes the stories index when present. Idempotent.
func (e *Indexer) DropIndex(ctx context.Context) error {
	exists, err := e.client.Indices.Exists(e.indexName).Do(ctx)
	if err != nil {
		return apperr.NewIndexTransport("exists", err)
	}

	if !exists {
		return nil
	}

	if _, err := e.client.Indices.Delete(e.indexName).Do(ctx); err != nil {
		return apperr.NewIndexTransport("delete", err)
	}

	slog.Info("Index deleted", "index", e.indexName)
	return nil
}

// Upsert writes a single story, replacing any previous document with the
// same identity.
func (e *Indexer) Upsert(ctx context.Context, story domain.Story) error {
	docID := story.DocID()

	res, err := e.client.Index(e.indexName).Id(docID).Document(story).Do(ctx)
	if err != nil {
		return apperr.NewIndexTransport("index", err)
	}

	slog.Debug("document indexed", "id", docID, "index", e.indexName, "result", res.Result)
	return nil
}

// BulkUpsert submits one upsert action per story. Each action is
// independent: a rejected document lands in the report's failures and
// never discards the others. The returned error is non-nil only when the
// index itself was unreachable.
func (e *Indexer) BulkUpsert(ctx context.Context, stories []domain.Story) (*storage.IndexReport, error) {
	report := &storage.IndexReport{}
	if len(stories) == 0 {
		return report, nil
	}

	var (
		mu           sync.Mutex
		transportErr error
	)

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:      e.indexName,
		Client:     e.client,
		NumWorkers: 2,
		FlushBytes: 5e+6, // 5MB
		OnError: func(ctx context.Context, err error) {
			mu.Lock()
			defer mu.Unlock()
			if transportErr == nil {
				transportErr = err
			}
		},
	})
	if err != nil {
		return report, apperr.NewIndexTransport("bulk", err)
	}

	for _, story := range stories {
		docID := story.DocID()
		report.Total++

		docBytes, err := json.Marshal(story)
		if err != nil {
			report.Failures = append(report.Failures, storage.ItemFailure{
				DocID:  docID,
				Reason: fmt.Sprintf("marshal: %v", err),
			})
			continue
		}

		err = bi.Add(
			ctx,
			esutil.BulkIndexerItem{
				Action:     "index",
				DocumentID: docID,
				Body:       bytes.NewReader(docBytes),
				OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
					mu.Lock()
					defer mu.Unlock()
					report.Successful++
				},
				OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
					mu.Lock()
					defer mu.Unlock()
					failure := storage.ItemFailure{DocID: item.DocumentID, Status: res.Status}
					if err != nil {
						failure.Reason = err.Error()
					} else {
						failure.Reason = fmt.Sprintf("%s: %s", res.Error.Type, res.Error.Reason)
					}
					report.Failures = append(report.Failures, failure)
				},
			},
		)
		if err != nil {
			mu.Lock()
			report.Failures = append(report.Failures, storage.ItemFailure{
				DocID:  docID,
				Reason: fmt.Sprintf("enqueue: %v", err),
			})
			mu.Unlock()
		}
	}

	if err := bi.Close(ctx); err != nil {
		return report, apperr.NewIndexTransport("bulk", err)
	}

	if transportErr != nil {
		return report, apperr.NewIndexTransport("bulk", transportErr)
	}

	slog.Info("Bulk indexing completed",
		"successful", report.Successful,
		"failed", report.Failed(),
		"total", report.Total,
		"index", e.indexName)

	return report, nil
}
