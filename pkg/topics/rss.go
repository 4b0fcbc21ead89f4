package topics

import (
	"context"
	"fmt"
	"strings"

	"github.com/osari-hq/seobot/internal/domain"
)

// rssFetcher implements Fetcher for plain RSS feed sources.
type rssFetcher struct {
	client HTTPClient
}

func NewRSSFetcher(client HTTPClient) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &rssFetcher{client: client}
}

func (f *rssFetcher) ID() string {
	return SourceTypeRSS
}

func (f *rssFetcher) Fetch(ctx context.Context, cfg Source) ([]domain.Topic, error) {
	if strings.TrimSpace(cfg.SourceURL) == "" {
		return nil, fmt.Errorf("source %q source_url is empty", cfg.ID)
	}

	raw, err := fetchBody(ctx, f.client, cfg.SourceURL, cfg.ID, Headers(cfg))
	if err != nil {
		return nil, err
	}

	items, err := parseRSSFeed(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s feed: %w", cfg.ID, err)
	}

	topics := topicsFromItems(items, sourceTag(cfg.Type), cfg.Limit)
	if len(topics) == 0 {
		return nil, fmt.Errorf("%s feed returned no usable items", cfg.ID)
	}
	return topics, nil
}
