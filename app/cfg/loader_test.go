package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestValidateNegativeLimit(t *testing.T) {
	limit := -1
	cfg := &Cfg{
		Source:  "https://example.com/feed.xml",
		Limit:   &limit,
		Timeout: 30,
	}

	if err := cfg.validate(); err == nil {
		t.Error("Expected an error for negative limit")
	}
}

func TestValidateZeroLimitAllowed(t *testing.T) {
	limit := 0
	cfg := &Cfg{
		Source:  "https://example.com/feed.xml",
		Limit:   &limit,
		Timeout: 30,
	}

	if err := cfg.validate(); err != nil {
		t.Errorf("Expected no error for zero limit, got: %v", err)
	}
}

func TestValidateMissingSource(t *testing.T) {
	cfg := &Cfg{Timeout: 30}

	if err := cfg.validate(); err == nil {
		t.Error("Expected an error when no source is given")
	}
}

func TestValidateServeWithoutSource(t *testing.T) {
	cfg := &Cfg{Serve: true, Timeout: 30, Port: "8080"}

	if err := cfg.validate(); err != nil {
		t.Errorf("Server mode should not require a source, got: %v", err)
	}
}
