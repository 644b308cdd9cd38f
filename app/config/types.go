package config

// FeedConfig describes a named feed shortcut loaded from the feeds
// directory, so `rss-reader lenta` can stand in for a full URL.
type FeedConfig struct {
	Name     string         // Derived from filename (without .yml extension)
	URL      string         `yaml:"url"`
	Settings ConfigSettings `yaml:"settings"`
}

type ConfigSettings struct {
	Limit   *int `yaml:"limit"`   // default item limit for this feed
	Timeout int  `yaml:"timeout"` // seconds, 0 inherits the global timeout
}
