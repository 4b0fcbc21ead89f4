package domain

import (
	"regexp"
	"strings"
)

// Topic source tags.
const (
	SourceCompetitor = "competitor"
	SourceGoogleNews = "google_news"
	SourceYandexNews = "yandex_news"
	SourceManual     = "manual"
)

// Topic is a candidate article subject discovered by a topic source or
// entered manually. Immutable once created.
type Topic struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	SourceURL   string `json:"source_url"`
	Source      string `json:"source"`
}

const topicKeyMaxLen = 60

var nonWordRe = regexp.MustCompile(`\W+`)

// Key returns the normalized dedup key for the topic title: non-word runes
// stripped, case-folded, truncated to a bounded prefix so near-duplicate
// titles from different sources collapse to one entry.
func (t Topic) Key() string {
	key := nonWordRe.ReplaceAllString(strings.ToLower(t.Title), "")
	if runes := []rune(key); len(runes) > topicKeyMaxLen {
		key = string(runes[:topicKeyMaxLen])
	}
	return key
}

// DeduplicateTopics removes topics whose normalized title key was already
// seen, preserving input order. The seen set is updated in place so callers
// can carry it across batches.
func DeduplicateTopics(topics []Topic, seen map[string]struct{}) []Topic {
	if seen == nil {
		seen = make(map[string]struct{})
	}
	unique := make([]Topic, 0, len(topics))
	for _, t := range topics {
		key := t.Key()
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, t)
	}
	return unique
}
