package api

import (
	"context"

	"github.com/vodnokasanie/rss-reader/app/fetcher"
)

type FetcherInterface interface {
	Run(ctx context.Context, url string) ([]byte, error)
}

var _ FetcherInterface = (*fetcher.Fetcher)(nil)
