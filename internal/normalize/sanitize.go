package normalize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// newStoryPolicy builds the sanitization policy for stored HTML: inline
// paragraph/emphasis/anchor only, anchors restricted to href. Disallowed
// tags and attributes are stripped, not escaped-and-kept. Images and
// block-level structure are intentionally not part of stored HTML.
func newStoryPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "em", "a")
	p.AllowAttrs("href").OnElements("a")
	return p
}

// plainText de-tags an HTML fragment, concatenating its text nodes with
// entities decoded. Markup never survives into the output.
func plainText(fragment string) string {
	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			// The tokenizer never fails on fragments; this is EOF.
			return b.String()
		case html.TextToken:
			b.Write(tokenizer.Text())
		}
	}
}
