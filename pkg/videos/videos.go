// Package videos finds Rutube videos for a topic and renders the embed
// markup that goes into article sections.
package videos

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/osari-hq/seobot/pkg/httpclient"
)

const (
	defaultSearchURL = "https://rutube.ru/api/video/search/"
	embedURLFormat   = "https://rutube.ru/play/embed/%s"
)

var videoIDRe = regexp.MustCompile(`rutube\.ru/video/([0-9a-f]{32})`)

// EmbedHTML converts a Rutube video page URL into iframe embed markup.
func EmbedHTML(videoURL string) (string, error) {
	m := videoIDRe.FindStringSubmatch(videoURL)
	if m == nil {
		return "", fmt.Errorf("unrecognized video url %q", videoURL)
	}
	return embedForID(m[1]), nil
}

func embedForID(id string) string {
	src := fmt.Sprintf(embedURLFormat, id)
	return fmt.Sprintf(`<iframe width="720" height="405" src=%q frameborder="0" allow="clipboard-write; autoplay" allowfullscreen></iframe>`, src)
}

// Searcher queries the Rutube search API for topic-relevant videos.
type Searcher struct {
	client    httpclient.Client
	searchURL string
}

// NewSearcher builds a Searcher over the given HTTP client. A custom search
// endpoint can be set for tests via WithSearchURL.
func NewSearcher(client httpclient.Client) *Searcher {
	return &Searcher{client: client, searchURL: defaultSearchURL}
}

// WithSearchURL overrides the search endpoint and returns the searcher.
func (s *Searcher) WithSearchURL(u string) *Searcher {
	s.searchURL = strings.TrimRight(u, "/") + "/"
	return s
}

// Search returns embed markup for up to limit videos matching the query.
// An empty result is not an error; articles ship fine without videos.
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if strings.TrimSpace(query) == "" || limit <= 0 {
		return nil, nil
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", fmt.Sprint(limit))

	resp, err := s.client.Get(ctx, s.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("video search: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("video search returned status %d", resp.StatusCode())
	}

	var embeds []string
	gjson.GetBytes(resp.Body(), "results").ForEach(func(_, item gjson.Result) bool {
		id := item.Get("id").String()
		if id == "" {
			// Some result shapes only carry the page URL.
			if m := videoIDRe.FindStringSubmatch(item.Get("video_url").String()); m != nil {
				id = m[1]
			}
		}
		if id != "" {
			embeds = append(embeds, embedForID(id))
		}
		return len(embeds) < limit
	})
	return embeds, nil
}
