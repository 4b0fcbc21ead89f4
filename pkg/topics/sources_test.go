package topics

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSourcesFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write sources file: %v", err)
	}
	return path
}

func TestLoadSourcesYAML(t *testing.T) {
	path := writeSourcesFile(t, "sources.yaml", `
sources:
  - id: competitor-blog
    name: Competitor blog
    type: competitor_page
    source_url: https://example.com/blog
    limit: 5
  - id: news-search
    name: Niche news
    type: google_news
    config:
      query: массажные кресла
`)

	if err := LoadSources(path); err != nil {
		t.Fatalf("LoadSources: %v", err)
	}

	all := Sources()
	if len(all) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(all))
	}

	src, ok := SourceByID("competitor-blog")
	if !ok {
		t.Fatal("competitor-blog not indexed")
	}
	if src.Limit != 5 || src.Type != SourceTypeCompetitorPage {
		t.Fatalf("unexpected source %+v", src)
	}

	search, _ := SourceByID("news-search")
	if search.Limit != defaultTopicLimit {
		t.Fatalf("limit default not applied: %d", search.Limit)
	}
	if got := ConfigString(search, ConfigQueryKey, ""); got != "массажные кресла" {
		t.Fatalf("query = %q", got)
	}
}

func TestLoadSourcesValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"empty registry", `sources: []`},
		{"missing id", "sources:\n  - name: x\n    type: rss\n    source_url: https://e.com\n"},
		{"missing url and query", "sources:\n  - id: a\n    name: x\n    type: rss\n"},
		{"duplicate id", "sources:\n  - id: a\n    name: x\n    type: rss\n    source_url: https://e.com\n  - id: a\n    name: y\n    type: rss\n    source_url: https://e.com\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeSourcesFile(t, "sources.yaml", tc.content)
			if err := LoadSources(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadSourcesJSON(t *testing.T) {
	path := writeSourcesFile(t, "sources.json",
		`{"sources":[{"id":"feed","name":"Feed","type":"rss","source_url":"https://e.com/rss"}]}`)

	if err := LoadSources(path); err != nil {
		t.Fatalf("LoadSources: %v", err)
	}
	if _, ok := SourceByID("feed"); !ok {
		t.Fatal("feed source not loaded")
	}
}
