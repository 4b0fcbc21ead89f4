package topics

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/osari-hq/seobot/internal/domain"
)

// competitorFetcher implements Fetcher for competitor blog pages. It prefers
// the advertised RSS feed when the page links one, and falls back to
// scraping article headings out of the markup.
type competitorFetcher struct {
	client HTTPClient
}

func NewCompetitorFetcher(client HTTPClient) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &competitorFetcher{client: client}
}

func (f *competitorFetcher) ID() string {
	return SourceTypeCompetitorPage
}

func (f *competitorFetcher) Fetch(ctx context.Context, cfg Source) ([]domain.Topic, error) {
	if strings.TrimSpace(cfg.SourceURL) == "" {
		return nil, fmt.Errorf("source %q source_url is empty", cfg.ID)
	}

	raw, err := fetchBody(ctx, f.client, cfg.SourceURL, cfg.ID, Headers(cfg))
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse %s page: %w", cfg.ID, err)
	}

	if feedURL := discoverFeedURL(doc, cfg.SourceURL); feedURL != "" {
		if topics, err := f.fetchFeed(ctx, cfg, feedURL); err == nil {
			return topics, nil
		}
		// A broken advertised feed falls through to heading scraping.
	}

	topics := scrapeHeadings(doc, cfg)
	if len(topics) == 0 {
		return nil, fmt.Errorf("%s page yielded no headings", cfg.ID)
	}
	return topics, nil
}

func (f *competitorFetcher) fetchFeed(ctx context.Context, cfg Source, feedURL string) ([]domain.Topic, error) {
	raw, err := fetchBody(ctx, f.client, feedURL, cfg.ID, Headers(cfg))
	if err != nil {
		return nil, err
	}
	items, err := parseRSSFeed(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s feed: %w", cfg.ID, err)
	}
	topics := topicsFromItems(items, domain.SourceCompetitor, cfg.Limit)
	if len(topics) == 0 {
		return nil, fmt.Errorf("%s feed returned no usable items", cfg.ID)
	}
	return topics, nil
}

// discoverFeedURL finds an advertised RSS or Atom feed in the page head and
// resolves it against the page URL.
func discoverFeedURL(doc *goquery.Document, pageURL string) string {
	href, _ := doc.Find(`link[type="application/rss+xml"], link[type="application/atom+xml"]`).
		First().Attr("href")
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// scrapeHeadings pulls candidate titles from article headings, keeping the
// link when the heading wraps or sits inside one.
func scrapeHeadings(doc *goquery.Document, cfg Source) []domain.Topic {
	var topics []domain.Topic
	seen := make(map[string]struct{})

	doc.Find("article h2, article h3, h2 a, h3 a, h2, h3").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := strings.TrimSpace(sel.Text())
		if title == "" {
			return true
		}
		if _, dup := seen[title]; dup {
			return true
		}
		seen[title] = struct{}{}

		link, _ := sel.Attr("href")
		if link == "" {
			link, _ = sel.Find("a").First().Attr("href")
		}

		topics = append(topics, domain.Topic{
			Title:     title,
			SourceURL: strings.TrimSpace(link),
			Source:    domain.SourceCompetitor,
		})
		return cfg.Limit <= 0 || len(topics) < cfg.Limit
	})

	return topics
}
