package fetch

import (
	"bytes"

	"github.com/mmcdole/gofeed"

	"github.com/storyhound/storyhound/internal/apperr"
	"github.com/storyhound/storyhound/internal/domain"
)

// Parser turns raw RSS/Atom payloads into loosely-typed entries. It is
// tolerant by construction: a payload that parses as a feed envelope
// yields its well-formed items even when individual items are sparse or
// partially broken.
type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Parse parses one payload. An unrecognizable format comes back as
// *apperr.ParseError; the feed is skipped for this run and retried
// naturally on the next cycle.
func (p *Parser) Parse(feedName string, payload []byte) (*domain.ParsedFeed, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(payload))
	if err != nil {
		return nil, apperr.NewParse(feedName, err)
	}

	result := &domain.ParsedFeed{
		Title:    parsed.Title,
		Link:     parsed.Link,
		Language: parsed.Language,
		Entries:  make([]domain.RawEntry, 0, len(parsed.Items)),
	}

	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		result.Entries = append(result.Entries, p.toRawEntry(item, parsed.Language))
	}

	return result, nil
}

func (p *Parser) toRawEntry(item *gofeed.Item, feedLanguage string) domain.RawEntry {
	entry := domain.RawEntry{
		Title:     item.Title,
		Link:      item.Link,
		Published: item.Published,
		Updated:   item.Updated,
		Summary:   item.Description,
		Content:   item.Content,
		GUID:      item.GUID,
		Language:  feedLanguage,
	}

	if item.Author != nil {
		entry.Author = item.Author.Name
	}
	if item.DublinCoreExt != nil && len(item.DublinCoreExt.Creator) > 0 {
		entry.Creator = item.DublinCoreExt.Creator[0]
	}

	for _, category := range item.Categories {
		entry.Tags = append(entry.Tags, domain.Tag{Term: category})
	}

	for _, media := range item.Extensions["media"]["content"] {
		entry.Media = append(entry.Media, domain.MediaContent{URL: media.Attrs["url"]})
	}

	return entry
}
