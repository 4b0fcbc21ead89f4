package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/osari-hq/seobot/internal/logger"
)

type stubLLM struct {
	response string
	err      error
	prompt   Prompt
}

func (s *stubLLM) Complete(_ context.Context, p Prompt) (string, error) {
	s.prompt = p
	return s.response, s.err
}

func TestGenerateBuildsArticle(t *testing.T) {
	llm := &stubLLM{response: "```json\n" + sampleJSON + "\n```"}
	gen := New(llm, &logger.NopLogger{})

	article, err := gen.Generate(context.Background(), Request{
		TopicTitle: "fallback title",
		MinWords:   1500,
		Tone:       "expert",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if article.Title != "Chair guide" {
		t.Fatalf("unexpected title %q", article.Title)
	}
	if len(article.Sections) != 1 || !article.Sections[0].HasImagePlaceholder {
		t.Fatalf("sections not carried over: %+v", article.Sections)
	}
	if article.Intro != "P1\n\nP2" {
		t.Fatalf("intro mangled: %q", article.Intro)
	}
}

func TestGenerateFallsBackToTopicTitle(t *testing.T) {
	llm := &stubLLM{response: `{"intro":"hello"}`}
	gen := New(llm, nil)

	article, err := gen.Generate(context.Background(), Request{TopicTitle: "My topic"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if article.Title != "My topic" {
		t.Fatalf("expected topic title fallback, got %q", article.Title)
	}
}

func TestGenerateSurfacesMalformedResponse(t *testing.T) {
	llm := &stubLLM{response: "I could not produce an article, sorry."}
	gen := New(llm, nil)

	_, err := gen.Generate(context.Background(), Request{TopicTitle: "t"})
	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedResponseError, got %v", err)
	}
}

func TestVideoIndexResolution(t *testing.T) {
	embeds := []string{"<iframe one>", "<iframe two>", "<iframe three>"}

	cases := []struct {
		name      string
		index     int
		wantHTML  string
		wantVideo bool
	}{
		{"in range", 2, "<iframe two>", true},
		{"zero", 0, "", false},
		{"out of range", 99, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := payload{Sections: []sectionPayload{{Heading: "H", VideoIndex: flexInt(tc.index)}}}
			article := articleFromPayload(p, Request{VideoEmbeds: embeds})

			sec := article.Sections[0]
			if sec.VideoHTML != tc.wantHTML {
				t.Fatalf("video html = %q, want %q", sec.VideoHTML, tc.wantHTML)
			}
			if sec.HasVideoPlaceholder != tc.wantVideo {
				t.Fatalf("placeholder = %v, want %v", sec.HasVideoPlaceholder, tc.wantVideo)
			}
		})
	}
}

func TestBuildPromptIncludesRequestParameters(t *testing.T) {
	llm := &stubLLM{response: sampleJSON}
	gen := New(llm, nil)

	_, err := gen.Generate(context.Background(), Request{
		TopicTitle:  "Massage chairs",
		SiteURL:     "https://osari.ru/massagnie-kresla",
		SiteAnchor:  "massage chairs",
		LinksCount:  2,
		MinWords:    2000,
		Tone:        "expert",
		ImageCount:  3,
		VideoEmbeds: []string{"<iframe>"},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, want := range []string{"Massage chairs", "https://osari.ru/massagnie-kresla", "2000", "has_image_placeholder", "video_index"} {
		if !strings.Contains(llm.prompt.User, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}
