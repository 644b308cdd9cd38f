package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vodnokasanie/rss-reader/app/feed"
)

type Handler struct {
	fetcher  FetcherInterface
	parser   *feed.Parser
	renderer *feed.Renderer
}

func NewHandler(f FetcherInterface) *Handler {
	return &Handler{
		fetcher:  f,
		parser:   feed.NewParser(),
		renderer: feed.NewRenderer(),
	}
}

// GetFeed fetches, parses and renders the feed named by the url query
// parameter. Supported query parameters: url (required), limit
// (non-negative integer), format (text or json, default text).
func (h *Handler) GetFeed(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing url parameter"})
		return
	}

	var limit *int
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = &n
	}

	format := c.DefaultQuery("format", "text")
	if format != "text" && format != "json" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be 'text' or 'json'"})
		return
	}

	data, err := h.fetcher.Run(c.Request.Context(), url)
	if err != nil {
		slog.Error("Fetch failed", "url", url, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch feed"})
		return
	}

	parsed, err := h.parser.Run(data, limit)
	if err != nil {
		if errors.Is(err, feed.ErrMalformedDocument) || errors.Is(err, feed.ErrInvalidFeed) {
			slog.Error("Parse failed", "url", url, "error", err)
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		slog.Error("Unexpected parse error", "url", url, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	out, err := h.renderer.Run(parsed, format == "json")
	if err != nil {
		slog.Error("Render failed", "url", url, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	if format == "json" {
		c.Header("Content-Type", "application/json; charset=utf-8")
	} else {
		c.Header("Content-Type", "text/plain; charset=utf-8")
	}
	c.Header("X-Feed-Items", strconv.Itoa(len(parsed.Items)))

	c.String(http.StatusOK, out)
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
