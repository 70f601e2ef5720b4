package domain

// RawEntry is one loosely-typed item from a parsed feed. Every field is
// optional: upstream feeds differ wildly in completeness, so consumers
// read it through ordered fallback chains and default to the zero value
// rather than failing. Date fields keep the raw payload strings; lenient
// parsing happens during normalization.
type RawEntry struct {
	Title     string
	Link      string
	Published string
	Updated   string
	Summary   string
	Content   string
	Author    string
	Creator   string
	Tags      []Tag
	Media     []MediaContent
	GUID      string
	Language  string
}

// Tag is one category attached to an entry. Entries whose tags carry no
// term are skipped during normalization.
type Tag struct {
	Term string
}

// MediaContent is one media attachment (media:content or enclosure).
type MediaContent struct {
	URL string
}

// ParsedFeed is the structured result of parsing one feed payload.
type ParsedFeed struct {
	Title    string
	Link     string
	Language string
	Entries  []RawEntry
}
