package feed

// Feed is the normalized representation of a single RSS channel. Field order
// matches the JSON output contract, so the struct is serialized as-is.
type Feed struct {
	Title          string   `json:"title"`
	Link           string   `json:"link"`
	LastBuildDate  string   `json:"lastBuildDate"`
	PubDate        string   `json:"pubDate"`
	Language       string   `json:"language"`
	Categories     []string `json:"categories"`
	ManagingEditor string   `json:"managingEditor"`
	Description    string   `json:"description"`
	Items          []Item   `json:"items"`
}

// Item is the normalized representation of a single <item> entry.
type Item struct {
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	PubDate     string   `json:"pubDate"`
	Link        string   `json:"link"`
	Categories  []string `json:"categories"`
	Description string   `json:"description"`
}
