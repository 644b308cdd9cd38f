package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/mmcdole/gofeed"
	"golang.org/x/text/encoding/htmlindex"
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Run parses an RSS document into a normalized Feed. limit, when non-nil,
// caps the number of items kept after empty items are dropped; nil keeps
// every surviving item. Negative limits are a caller error and must be
// rejected before this point.
func (p *Parser) Run(data []byte, limit *int) (*Feed, error) {
	// Atom is out of scope; fail with a clear message instead of a
	// confusing "missing channel" error.
	if gofeed.DetectFeedType(bytes.NewReader(data)) == gofeed.FeedTypeAtom {
		return nil, fmt.Errorf("%w: Atom feeds are not supported", ErrInvalidFeed)
	}

	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charsetReader

	// The whole token stream is consumed even after the channel has been
	// extracted, so malformations anywhere in the document surface as
	// errors. The decoder itself does not enforce a single root element or
	// reject top-level text, hence the extra bookkeeping.
	var feed *Feed
	depth := 0
	rootSeen := false
	rootClosed := false
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			if rootClosed {
				return nil, fmt.Errorf("%w: junk after document element", ErrMalformedDocument)
			}
			rootSeen = true
			if feed == nil && t.Name.Local == "channel" {
				feed, err = p.parseChannel(decoder)
				if err != nil {
					return nil, err
				}
				if depth == 0 {
					rootClosed = true
				}
			} else {
				depth++
			}
		case xml.EndElement:
			depth--
			if depth == 0 {
				rootClosed = true
			}
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				return nil, fmt.Errorf("%w: text outside document element", ErrMalformedDocument)
			}
		}
	}

	if !rootSeen {
		return nil, fmt.Errorf("%w: no element found", ErrMalformedDocument)
	}
	if feed == nil {
		return nil, fmt.Errorf("%w: missing channel element", ErrInvalidFeed)
	}

	feed.Items = applyLimit(feed.Items, limit)

	return feed, nil
}

// parseChannel consumes tokens through the matching </channel> and extracts
// the channel metadata and items. Repeated scalar elements keep the first
// occurrence, matching the single-child contract of the RSS fields.
func (p *Parser) parseChannel(decoder *xml.Decoder) (*Feed, error) {
	feed := &Feed{
		Categories: []string{},
		Items:      []Item{},
	}
	seen := make(map[string]bool)

	for {
		token, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		switch t := token.(type) {
		case xml.EndElement:
			return feed, nil
		case xml.StartElement:
			switch t.Name.Local {
			case "category":
				text, err := elementText(decoder)
				if err != nil {
					return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
				}
				feed.Categories = append(feed.Categories, normalizeText(text))
			case "item":
				item, err := p.parseItem(decoder)
				if err != nil {
					return nil, err
				}
				// Items carrying neither title nor description are noise and
				// are dropped before any limit is applied.
				if item.Title == "" && item.Description == "" {
					continue
				}
				feed.Items = append(feed.Items, item)
			case "title", "link", "lastBuildDate", "pubDate", "language", "managingEditor", "description":
				text, err := elementText(decoder)
				if err != nil {
					return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
				}
				if !seen[t.Name.Local] {
					seen[t.Name.Local] = true
					setChannelField(feed, t.Name.Local, normalizeText(text))
				}
			default:
				if err := decoder.Skip(); err != nil {
					return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
				}
			}
		}
	}
}

// parseItem consumes tokens through the matching </item>.
func (p *Parser) parseItem(decoder *xml.Decoder) (Item, error) {
	item := Item{
		Categories: []string{},
	}
	seen := make(map[string]bool)

	for {
		token, err := decoder.Token()
		if err != nil {
			return Item{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		switch t := token.(type) {
		case xml.EndElement:
			return item, nil
		case xml.StartElement:
			switch t.Name.Local {
			case "category":
				text, err := elementText(decoder)
				if err != nil {
					return Item{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
				}
				item.Categories = append(item.Categories, normalizeText(text))
			case "title", "author", "pubDate", "link", "description":
				text, err := elementText(decoder)
				if err != nil {
					return Item{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
				}
				if !seen[t.Name.Local] {
					seen[t.Name.Local] = true
					setItemField(&item, t.Name.Local, normalizeText(text))
				}
			default:
				if err := decoder.Skip(); err != nil {
					return Item{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
				}
			}
		}
	}
}

func setChannelField(feed *Feed, name, value string) {
	switch name {
	case "title":
		feed.Title = value
	case "link":
		feed.Link = value
	case "lastBuildDate":
		feed.LastBuildDate = value
	case "pubDate":
		feed.PubDate = value
	case "language":
		feed.Language = value
	case "managingEditor":
		feed.ManagingEditor = value
	case "description":
		feed.Description = value
	}
}

func setItemField(item *Item, name, value string) {
	switch name {
	case "title":
		item.Title = value
	case "author":
		item.Author = value
	case "pubDate":
		item.PubDate = value
	case "link":
		item.Link = value
	case "description":
		item.Description = value
	}
}

// elementText consumes tokens through the end of the current element and
// returns the character data found directly inside it. Text inside nested
// elements is ignored.
func elementText(decoder *xml.Decoder) (string, error) {
	var sb strings.Builder
	depth := 0
	for {
		token, err := decoder.Token()
		if err != nil {
			return "", err
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				return sb.String(), nil
			}
			depth--
		case xml.CharData:
			if depth == 0 {
				sb.Write(t)
			}
		}
	}
}

// normalizeText is the single normalization primitive: HTML entity
// unescaping followed by whitespace trimming. Absent or empty elements
// normalize to "".
func normalizeText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(s))
}

func applyLimit(items []Item, limit *int) []Item {
	if limit == nil || len(items) <= *limit {
		return items
	}
	return items[:*limit]
}

// charsetReader lets the decoder handle feeds declared in legacy encodings
// such as windows-1251.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %v", charset, err)
	}
	return enc.NewDecoder().Reader(input), nil
}
