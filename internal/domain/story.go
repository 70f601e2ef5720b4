package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// TimeLayout is the wire format for every timestamp the pipeline emits,
// always rendered in UTC.
const TimeLayout = "2006-01-02T15:04:05Z"

// Story is the canonical, sanitized document produced from one feed entry.
// It is immutable once constructed; re-indexing is a full overwrite keyed
// by DocID, never a partial patch.
type Story struct {
	Source      string   `json:"source"`
	TitleHTML   string   `json:"title_html"`
	TitleText   string   `json:"title_text"`
	SummaryHTML string   `json:"summary_html"`
	SummaryText string   `json:"summary_text"`
	ContentHTML string   `json:"content_html"`
	ContentText string   `json:"content_text"`
	URL         string   `json:"url"`
	Author      string   `json:"author"`
	Categories  []string `json:"categories"`
	GUID        string   `json:"guid"`
	PublishedAt *string  `json:"published_at"`
	FetchedAt   string   `json:"fetched_at"`
	ImageURL    string   `json:"image_url"`
	Language    string   `json:"language"`
}

// docKey is the identity tuple hashed into the document ID. Field order
// matches sorted JSON key order, which keeps the hash input canonical.
type docKey struct {
	GUID        string  `json:"guid"`
	PublishedAt *string `json:"published_at"`
}

// DocID derives the content-address identity of the story: the SHA-256 of
// the canonical JSON of {guid, published_at}. It is a pure function of
// those two fields, so entries sharing both collapse to one document no
// matter which feed emitted them. A missing guid or date still yields a
// deterministic (if weaker) identity.
func (s Story) DocID() string {
	key, err := json.Marshal(docKey{GUID: s.GUID, PublishedAt: s.PublishedAt})
	if err != nil {
		// docKey contains only strings; Marshal cannot fail.
		panic(err)
	}
	sum := sha256.Sum256(key)
	return hex.EncodeToString(sum[:])
}
