package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/vodnokasanie/rss-reader/app/api"
	"github.com/vodnokasanie/rss-reader/app/cfg"
	"github.com/vodnokasanie/rss-reader/app/config"
	"github.com/vodnokasanie/rss-reader/app/database"
	"github.com/vodnokasanie/rss-reader/app/feed"
	"github.com/vodnokasanie/rss-reader/app/fetcher"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogging(appCfg)

	if appCfg.Serve {
		if err := runServer(appCfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runOnce(appCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging routes logs to stderr so stdout carries only rendered
// output. One-shot runs stay quiet unless --debug is set.
func setupLogging(appCfg *cfg.Cfg) {
	level := slog.LevelWarn
	if appCfg.Serve {
		level = slog.LevelInfo
	}
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// runOnce performs a single fetch-parse-render cycle and prints the result
// to stdout.
func runOnce(appCfg *cfg.Cfg) error {
	url, limit, timeout, err := resolveSource(appCfg)
	if err != nil {
		return err
	}

	repo, closeCache := openCache(appCfg)
	defer closeCache()

	httpFetcher := fetcher.NewFetcher(appCfg.UserAgent, timeout)
	data, err := httpFetcher.Run(context.Background(), url)
	if err != nil {
		if repo == nil {
			return err
		}
		cached, fetchedAt, cacheErr := repo.GetDocument(url)
		if cacheErr != nil || cached == nil {
			return err
		}
		slog.Warn("Fetch failed, using cached copy",
			"url", url,
			"fetched_at", fetchedAt.Format(time.RFC3339),
			"error", err)
		data = cached
	} else if repo != nil {
		if err := repo.UpsertDocument(url, data); err != nil {
			slog.Warn("Failed to cache document", "url", url, "error", err)
		}
	}

	parsed, err := feed.NewParser().Run(data, limit)
	if err != nil {
		return err
	}

	out, err := feed.NewRenderer().Run(parsed, appCfg.JSONOutput)
	if err != nil {
		return err
	}

	fmt.Println(out)
	return nil
}

// resolveSource turns the positional argument into a fetchable URL. A bare
// name is looked up in the feeds directory; its shortcut settings fill in
// whatever the command line left unset.
func resolveSource(appCfg *cfg.Cfg) (string, *int, time.Duration, error) {
	limit := appCfg.Limit
	timeout := time.Duration(appCfg.Timeout) * time.Second

	if isURL(appCfg.Source) {
		return appCfg.Source, limit, timeout, nil
	}

	configs, err := config.NewLoader(appCfg.FeedsDir).LoadAll()
	if err != nil {
		return "", nil, 0, err
	}

	shortcut, ok := configs[appCfg.Source]
	if !ok {
		return "", nil, 0, fmt.Errorf("unknown feed %q: not a URL and no shortcut found in %s",
			appCfg.Source, appCfg.FeedsDir)
	}

	if limit == nil {
		limit = shortcut.Settings.Limit
	}
	if shortcut.Settings.Timeout > 0 {
		timeout = time.Duration(shortcut.Settings.Timeout) * time.Second
	}

	return shortcut.URL, limit, timeout, nil
}

// openCache opens the document cache. Cache failures never break a run;
// they only cost the offline fallback.
func openCache(appCfg *cfg.Cfg) (*database.DocumentRepository, func()) {
	if appCfg.NoCache {
		return nil, func() {}
	}

	db, err := database.NewConnection(appCfg.CacheDB)
	if err != nil {
		slog.Warn("Cache unavailable", "path", appCfg.CacheDB, "error", err)
		return nil, func() {}
	}

	if _, _, err := database.RunMigrations(db); err != nil {
		slog.Warn("Cache migrations failed", "path", appCfg.CacheDB, "error", err)
		db.Close()
		return nil, func() {}
	}

	return database.NewDocumentRepository(db), func() { db.Close() }
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// runServer exposes the reader over HTTP until interrupted.
func runServer(appCfg *cfg.Cfg) error {
	httpFetcher := fetcher.NewFetcher(appCfg.UserAgent, time.Duration(appCfg.Timeout)*time.Second)
	handler := api.NewHandler(httpFetcher)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "port", appCfg.Port, "version", appCfg.Version)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}

	slog.Info("HTTP server stopped")
	return nil
}
