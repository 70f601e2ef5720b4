package normalize

import (
	"github.com/araddon/dateparse"

	"github.com/storyhound/storyhound/internal/domain"
)

// normalizeDate leniently parses a raw feed date string and renders it as
// YYYY-MM-DDTHH:MM:SSZ in UTC. An empty or unparseable input yields nil:
// a story without a published date is still valid.
func normalizeDate(raw string) *string {
	if raw == "" {
		return nil
	}
	parsed, err := dateparse.ParseAny(raw)
	if err != nil {
		return nil
	}
	formatted := parsed.UTC().Format(domain.TimeLayout)
	return &formatted
}
