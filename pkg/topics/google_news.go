package topics

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/osari-hq/seobot/internal/domain"
)

const googleNewsSearchURL = "https://news.google.com/rss/search"

// googleNewsFetcher implements Fetcher for Google News keyword searches. The
// source either carries a ready feed URL or a query to search for.
type googleNewsFetcher struct {
	client HTTPClient
}

func NewGoogleNewsFetcher(client HTTPClient) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &googleNewsFetcher{client: client}
}

func (f *googleNewsFetcher) ID() string {
	return SourceTypeGoogleNews
}

func (f *googleNewsFetcher) Fetch(ctx context.Context, cfg Source) ([]domain.Topic, error) {
	feedURL := strings.TrimSpace(cfg.SourceURL)
	if feedURL == "" {
		query := ConfigString(cfg, ConfigQueryKey, "")
		if query == "" {
			return nil, fmt.Errorf("source %q needs source_url or a query", cfg.ID)
		}
		feedURL = buildSearchURL(query,
			ConfigString(cfg, ConfigLanguageKey, "ru"),
			ConfigString(cfg, ConfigCountryKey, "RU"))
	}

	raw, err := fetchBody(ctx, f.client, feedURL, cfg.ID, Headers(cfg))
	if err != nil {
		return nil, err
	}

	items, err := parseRSSFeed(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s feed: %w", cfg.ID, err)
	}

	topics := topicsFromItems(items, domain.SourceGoogleNews, cfg.Limit)
	if len(topics) == 0 {
		return nil, fmt.Errorf("%s search returned no usable items", cfg.ID)
	}
	return topics, nil
}

func buildSearchURL(query, language, country string) string {
	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", language)
	params.Set("gl", country)
	params.Set("ceid", country+":"+language)
	return googleNewsSearchURL + "?" + params.Encode()
}
