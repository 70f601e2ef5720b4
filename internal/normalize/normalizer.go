package normalize

import (
	"fmt"
	"html"

	"github.com/microcosm-cc/bluemonday"

	"github.com/storyhound/storyhound/internal/apperr"
	"github.com/storyhound/storyhound/internal/domain"
)

// Normalizer turns one raw feed entry into a canonical Story: field
// fallback chains, HTML sanitization, plain-text extraction and date
// normalization. It holds the sanitization policy, which is safe for
// concurrent use, so one Normalizer serves a whole run.
type Normalizer struct {
	policy *bluemonday.Policy
}

func NewNormalizer() *Normalizer {
	return &Normalizer{
		policy: newStoryPolicy(),
	}
}

// Normalize derives a Story from one entry. The stamp is the run-wide
// fetched_at value, fixed once at run start. A failure here drops only
// this entry; the feed and the run continue.
func (n *Normalizer) Normalize(feedName string, entry domain.RawEntry, fetchedAt string) (domain.Story, error) {
	story, err := n.derive(feedName, entry, fetchedAt)
	if err != nil {
		return domain.Story{}, apperr.NewNormalize(feedName, entry.GUID, err)
	}
	return story, nil
}

func (n *Normalizer) derive(feedName string, entry domain.RawEntry, fetchedAt string) (story domain.Story, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during field extraction: %v", r)
		}
	}()

	published := firstNonEmpty(entry.Published, entry.Updated)
	summary := entry.Summary
	content := firstNonEmpty(entry.Content, entry.Summary)

	story = domain.Story{
		Source:      feedName,
		TitleHTML:   entry.Title,
		TitleText:   html.UnescapeString(entry.Title),
		SummaryHTML: n.policy.Sanitize(summary),
		SummaryText: plainText(summary),
		ContentHTML: n.policy.Sanitize(content),
		ContentText: plainText(content),
		URL:         entry.Link,
		Author:      firstNonEmpty(entry.Author, entry.Creator),
		Categories:  categoryTerms(entry.Tags),
		GUID:        entry.GUID,
		PublishedAt: normalizeDate(published),
		FetchedAt:   fetchedAt,
		ImageURL:    firstMediaURL(entry.Media),
		Language:    entry.Language,
	}
	return story, nil
}

// categoryTerms keeps the ordered term of each tag, skipping tags that
// carry none.
func categoryTerms(tags []domain.Tag) []string {
	terms := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag.Term == "" {
			continue
		}
		terms = append(terms, tag.Term)
	}
	return terms
}

func firstMediaURL(media []domain.MediaContent) string {
	if len(media) == 0 {
		return ""
	}
	return media[0].URL
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
