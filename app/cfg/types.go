package cfg

type Cfg struct {
	// One-shot reader options
	Source     string
	Limit      *int
	JSONOutput bool

	// HTTP client options
	Timeout   int
	UserAgent string

	// Feed shortcut configuration
	FeedsDir string

	// Local document cache
	CacheDB string
	NoCache bool

	// Server mode
	Serve bool
	Port  string

	// Application metadata
	Debug   bool
	Version string
}
