package topics

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/osari-hq/seobot/internal/domain"
	"github.com/osari-hq/seobot/pkg/httpclient"
)

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

type rssFeed struct {
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
}

func parseRSSFeed(data []byte) ([]rssItem, error) {
	var feed rssFeed
	if err := xml.Unmarshal(data, &feed); err != nil {
		return nil, err
	}
	return feed.Channel.Items, nil
}

// topicsFromItems maps feed items to topics, dropping empty titles and
// capping the result at limit.
func topicsFromItems(items []rssItem, sourceTag string, limit int) []domain.Topic {
	topics := make([]domain.Topic, 0, len(items))
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		topics = append(topics, domain.Topic{
			Title:       title,
			Description: strings.TrimSpace(item.Description),
			SourceURL:   strings.TrimSpace(item.Link),
			Source:      sourceTag,
		})
		if limit > 0 && len(topics) >= limit {
			break
		}
	}
	return topics
}

// sourceTag maps a source type to the domain topic tag.
func sourceTag(typ string) string {
	switch strings.ToLower(strings.TrimSpace(typ)) {
	case SourceTypeGoogleNews:
		return domain.SourceGoogleNews
	case SourceTypeYandexNews:
		return domain.SourceYandexNews
	case SourceTypeCompetitorPage:
		return domain.SourceCompetitor
	default:
		return domain.SourceCompetitor
	}
}

func fetchBody(ctx context.Context, client httpclient.Client, url, sourceID string, headers map[string]string) ([]byte, error) {
	resp, err := client.Get(ctx, url, headers)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", sourceID, err)
	}

	body := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d body: %s", sourceID, resp.StatusCode(), responseSnippet(body))
	}

	return body, nil
}
