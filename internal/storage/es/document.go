package es

import (
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

// dateFormat pins both date fields to the exact wire format the
// normalizer emits.
const dateFormat = "yyyy-MM-dd'T'HH:mm:ss'Z'"

// IndexBuilder builds the fixed settings and field mapping the stories
// index is provisioned with.
type IndexBuilder struct{}

func NewIndexBuilder() *IndexBuilder {
	return &IndexBuilder{}
}

func (b *IndexBuilder) buildSettings() types.IndexSettings {
	shards := "1"
	replicas := "0"
	return types.IndexSettings{
		NumberOfShards:   &shards,
		NumberOfReplicas: &replicas,
	}
}

func (b *IndexBuilder) buildMapping() types.TypeMapping {
	return types.TypeMapping{
		Properties: map[string]types.Property{
			"source":       types.NewKeywordProperty(),
			"url":          types.NewKeywordProperty(),
			"title_html":   types.NewTextProperty(),
			"title_text":   types.NewTextProperty(),
			"summary_html": types.NewTextProperty(),
			"summary_text": types.NewTextProperty(),
			"content_html": types.NewTextProperty(),
			"content_text": types.NewTextProperty(),
			"author":       types.NewKeywordProperty(),
			"categories":   types.NewKeywordProperty(),
			"guid":         types.NewKeywordProperty(),
			"published_at": b.createDateProperty(),
			"fetched_at":   b.createDateProperty(),
			"image_url":    types.NewKeywordProperty(),
			"language":     types.NewKeywordProperty(),
		},
	}
}

func (b *IndexBuilder) createDateProperty() types.Property {
	dateProp := types.NewDateProperty()
	format := dateFormat
	dateProp.Format = &format
	return dateProp
}
