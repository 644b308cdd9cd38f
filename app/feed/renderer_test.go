package feed

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRenderTextMinimal(t *testing.T) {
	feed := &Feed{
		Title:      "News",
		Link:       "http://x",
		Categories: []string{},
		Items: []Item{
			{Title: "A", Categories: []string{}},
		},
	}

	renderer := NewRenderer()
	out, err := renderer.Run(feed, false)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := "Feed: News\nLink: http://x\n\nTitle: A"
	if out != expected {
		t.Errorf("Expected %q, got %q", expected, out)
	}
}

func TestRenderTextFull(t *testing.T) {
	feed := &Feed{
		Title:          "Test Feed",
		Link:           "https://example.com",
		LastBuildDate:  "Mon, 03 Jul 2023 12:00:00 GMT",
		PubDate:        "Sun, 02 Jul 2023 09:00:00 GMT",
		Language:       "en-us",
		Categories:     []string{"Technology", "News"},
		ManagingEditor: "editor@example.com",
		Description:    "A feed for tests",
		Items: []Item{
			{
				Title:       "Item 1",
				Author:      "author@example.com",
				PubDate:     "Mon, 03 Jul 2023 10:00:00 GMT",
				Link:        "https://example.com/item1",
				Categories:  []string{"Go", "Programming"},
				Description: "First item body",
			},
			{
				Title:      "Item 2",
				Categories: []string{},
			},
		},
	}

	renderer := NewRenderer()
	out, err := renderer.Run(feed, false)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := strings.Join([]string{
		"Feed: Test Feed",
		"Link: https://example.com",
		"Last Build Date: Mon, 03 Jul 2023 12:00:00 GMT",
		"Publish Date: Sun, 02 Jul 2023 09:00:00 GMT",
		"Language: en-us",
		"Categories: Technology, News",
		"Editor: editor@example.com",
		"Description: A feed for tests",
		"",
		"Title: Item 1",
		"Author: author@example.com",
		"Published: Mon, 03 Jul 2023 10:00:00 GMT",
		"Link: https://example.com/item1",
		"Categories: Go, Programming",
		"",
		"First item body",
		"",
		"Title: Item 2",
	}, "\n")

	if out != expected {
		t.Errorf("Unexpected text output.\nExpected:\n%s\n\nGot:\n%s", expected, out)
	}
}

func TestRenderTextNoItems(t *testing.T) {
	feed := &Feed{
		Title:      "Empty",
		Link:       "https://example.com",
		Categories: []string{},
		Items:      []Item{},
	}

	renderer := NewRenderer()
	out, err := renderer.Run(feed, false)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := "Feed: Empty\nLink: https://example.com"
	if out != expected {
		t.Errorf("Expected %q, got %q", expected, out)
	}
	if strings.HasSuffix(out, "\n") {
		t.Error("Output must not end with a blank line")
	}
}

func TestRenderTextEmptyItemTitleKeepsPrefix(t *testing.T) {
	feed := &Feed{
		Title:      "Feed",
		Link:       "https://example.com",
		Categories: []string{},
		Items: []Item{
			{Categories: []string{}, Description: "body only"},
		},
	}

	renderer := NewRenderer()
	out, err := renderer.Run(feed, false)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := "Feed: Feed\nLink: https://example.com\n\nTitle: \n\nbody only"
	if out != expected {
		t.Errorf("Expected %q, got %q", expected, out)
	}
}

func TestRenderJSON(t *testing.T) {
	feed := &Feed{
		Title:      "News",
		Link:       "http://x",
		Categories: []string{},
		Items: []Item{
			{Title: "A", Categories: []string{}},
		},
	}

	renderer := NewRenderer()
	out, err := renderer.Run(feed, true)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := `{
  "title": "News",
  "link": "http://x",
  "lastBuildDate": "",
  "pubDate": "",
  "language": "",
  "categories": [],
  "managingEditor": "",
  "description": "",
  "items": [
    {
      "title": "A",
      "author": "",
      "pubDate": "",
      "link": "",
      "categories": [],
      "description": ""
    }
  ]
}`

	if out != expected {
		t.Errorf("Unexpected JSON output.\nExpected:\n%s\n\nGot:\n%s", expected, out)
	}
}

func TestRenderJSONIsValid(t *testing.T) {
	feed := &Feed{
		Title:      "Feed",
		Link:       "https://example.com",
		Categories: []string{"One"},
		Items:      []Item{},
	}

	renderer := NewRenderer()
	out, err := renderer.Run(feed, true)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	keys := []string{"title", "link", "lastBuildDate", "pubDate", "language",
		"categories", "managingEditor", "description", "items"}
	if len(decoded) != len(keys) {
		t.Errorf("Expected %d top-level keys, got %d", len(keys), len(decoded))
	}
	for _, key := range keys {
		if _, ok := decoded[key]; !ok {
			t.Errorf("Missing top-level key %q", key)
		}
	}

	// Key order in the serialized document must follow the contract.
	prev := -1
	for _, key := range keys {
		idx := strings.Index(out, `"`+key+`"`)
		if idx < 0 {
			t.Fatalf("Key %q not found in output", key)
		}
		if idx < prev {
			t.Errorf("Key %q is out of order", key)
		}
		prev = idx
	}
}

func TestRenderJSONNonASCII(t *testing.T) {
	feed := &Feed{
		Title:      "Новости — café",
		Link:       "https://example.com/?a=1&b=2",
		Categories: []string{},
		Items:      []Item{},
	}

	renderer := NewRenderer()
	out, err := renderer.Run(feed, true)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(out, "Новости — café") {
		t.Error("Non-ASCII characters must stay literal")
	}
	if strings.Contains(out, `\u`) {
		t.Errorf("Output must not contain unicode escapes: %s", out)
	}
}

func TestRenderIdempotent(t *testing.T) {
	feed := &Feed{
		Title:      "Feed",
		Link:       "https://example.com",
		Categories: []string{"A"},
		Items: []Item{
			{Title: "X", Categories: []string{}, Description: "body"},
		},
	}

	renderer := NewRenderer()
	for _, jsonOutput := range []bool{false, true} {
		first, err := renderer.Run(feed, jsonOutput)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		second, err := renderer.Run(feed, jsonOutput)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if first != second {
			t.Errorf("Rendering is not idempotent (json=%t)", jsonOutput)
		}
	}
}
