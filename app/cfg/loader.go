package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	JSONOutput bool   `long:"json" env:"JSON_OUTPUT" description:"Print result as JSON"`
	Limit      *int   `long:"limit" env:"LIMIT" description:"Limit the number of news items in the output"`
	Timeout    int    `long:"timeout" env:"TIMEOUT" default:"30" description:"HTTP timeout in seconds"`
	UserAgent  string `long:"user-agent" env:"USER_AGENT" default:"rss-reader/1.0" description:"User agent string for HTTP requests"`
	FeedsDir   string `long:"feeds-dir" env:"FEEDS_DIR" default:"./feeds" description:"Directory containing named feed shortcut files"`
	CacheDB    string `long:"cache-db" env:"CACHE_DB" default:"rss-reader.db" description:"Path to the local document cache database"`
	NoCache    bool   `long:"no-cache" env:"NO_CACHE" description:"Disable the local document cache"`
	Serve      bool   `long:"serve" env:"SERVE" description:"Run as an HTTP server instead of printing once"`
	Port       string `long:"port" env:"PORT" default:"8080" description:"HTTP server port (server mode)"`
	Debug      bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`

	Args struct {
		Source string `positional-arg-name:"SOURCE" description:"RSS feed URL or a feed name from the feeds directory"`
	} `positional-args:"yes"`
}

var globalCfg *Cfg

// Load parses command-line flags and environment variables. A nil Cfg with a
// nil error means help was requested and the process should exit quietly.
func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Source:     raw.Args.Source,
		Limit:      raw.Limit,
		JSONOutput: raw.JSONOutput,
		Timeout:    raw.Timeout,
		UserAgent:  raw.UserAgent,
		FeedsDir:   raw.FeedsDir,
		CacheDB:    raw.CacheDB,
		NoCache:    raw.NoCache,
		Serve:      raw.Serve,
		Port:       raw.Port,
		Debug:      raw.Debug,
		Version:    GetVersion(),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// validate rejects option values the core is never allowed to see, such as
// a negative item limit.
func (c *Cfg) validate() error {
	if c.Limit != nil && *c.Limit < 0 {
		return fmt.Errorf("invalid argument: --limit must be non-negative, got %d", *c.Limit)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid argument: --timeout must be positive, got %d", c.Timeout)
	}
	if !c.Serve && c.Source == "" {
		return fmt.Errorf("a feed URL or feed name is required")
	}
	return nil
}
