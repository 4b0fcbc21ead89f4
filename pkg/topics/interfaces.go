package topics

import (
	"context"

	"github.com/osari-hq/seobot/internal/domain"
	"github.com/osari-hq/seobot/pkg/httpclient"
)

// Fetcher retrieves candidate topics for one source. Concrete
// implementations live in type-specific files (rss.go, competitor.go).
type Fetcher interface {
	ID() string
	Fetch(ctx context.Context, cfg Source) ([]domain.Topic, error)
}

// FetcherRegistry resolves the fetcher implementation for a given source config.
type FetcherRegistry interface {
	FetcherFor(cfg Source) (Fetcher, error)
}

// HTTPClient aliases the shared httpclient.Client interface for clarity within topics.
type HTTPClient = httpclient.Client
