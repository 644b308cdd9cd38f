package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Run converts a Feed into its output representation: a pretty-printed JSON
// document when jsonOutput is set, a human-readable text block otherwise.
func (r *Renderer) Run(feed *Feed, jsonOutput bool) (string, error) {
	if jsonOutput {
		return r.renderJSON(feed)
	}
	return r.renderText(feed), nil
}

func (r *Renderer) renderJSON(feed *Feed) (string, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	// Non-ASCII characters and HTML-significant runes stay literal.
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(feed); err != nil {
		return "", fmt.Errorf("failed to encode feed as JSON: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func (r *Renderer) renderText(feed *Feed) string {
	b := &textBuilder{}

	b.line("Feed: " + feed.Title)
	b.line("Link: " + feed.Link)
	b.optional("Last Build Date: ", feed.LastBuildDate)
	b.optional("Publish Date: ", feed.PubDate)
	b.optional("Language: ", feed.Language)
	if len(feed.Categories) > 0 {
		b.line("Categories: " + strings.Join(feed.Categories, ", "))
	}
	b.optional("Editor: ", feed.ManagingEditor)
	b.optional("Description: ", feed.Description)

	if len(feed.Items) > 0 {
		b.separator()
	}

	for _, item := range feed.Items {
		b.line("Title: " + item.Title)
		b.optional("Author: ", item.Author)
		b.optional("Published: ", item.PubDate)
		b.optional("Link: ", item.Link)
		if len(item.Categories) > 0 {
			b.line("Categories: " + strings.Join(item.Categories, ", "))
		}
		if item.Description != "" {
			b.line("")
			b.line(item.Description)
		}
		b.separator()
	}

	return strings.Join(b.lines, "\n")
}

// textBuilder accumulates output lines. Separator blank lines are held back
// until the next real line arrives, so the output never ends with one.
type textBuilder struct {
	lines      []string
	sepPending bool
}

func (b *textBuilder) line(s string) {
	if b.sepPending {
		b.lines = append(b.lines, "")
		b.sepPending = false
	}
	b.lines = append(b.lines, s)
}

func (b *textBuilder) optional(prefix, value string) {
	if value != "" {
		b.line(prefix + value)
	}
}

func (b *textBuilder) separator() {
	b.sepPending = true
}
