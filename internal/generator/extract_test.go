package generator

import (
	"errors"
	"reflect"
	"testing"
)

const sampleJSON = `{"title":"Chair guide","intro":"P1\n\nP2","sections":[{"heading":"H1","paragraphs":["a"],"list_items":["x","y"],"has_image_placeholder":true}],"conclusion":"Done"}`

func TestExtractPayloadFencedAndBareAreIdentical(t *testing.T) {
	fenced, err := extractPayload("Here is the article:\n```json\n" + sampleJSON + "\n```\nHope it helps!")
	if err != nil {
		t.Fatalf("extract fenced: %v", err)
	}
	bare, err := extractPayload(sampleJSON)
	if err != nil {
		t.Fatalf("extract bare: %v", err)
	}
	if !reflect.DeepEqual(fenced, bare) {
		t.Fatalf("fenced and bare payloads differ:\n%+v\n%+v", fenced, bare)
	}
	if fenced.Title != "Chair guide" || len(fenced.Sections) != 1 {
		t.Fatalf("unexpected payload: %+v", fenced)
	}
}

func TestExtractPayloadUntaggedFence(t *testing.T) {
	p, err := extractPayload("```\n" + sampleJSON + "\n```")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if p.Title != "Chair guide" {
		t.Fatalf("unexpected title %q", p.Title)
	}
}

func TestExtractPayloadBraceFallback(t *testing.T) {
	raw := "Sure! The JSON you asked for is " + sampleJSON + " and nothing else."
	p, err := extractPayload(raw)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if p.Conclusion != "Done" {
		t.Fatalf("unexpected conclusion %q", p.Conclusion)
	}
}

func TestExtractPayloadMissingFieldsDefault(t *testing.T) {
	p, err := extractPayload(`{"title":"T"}`)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if p.Intro != "" || p.Sections != nil || p.Reviews != nil {
		t.Fatalf("expected zero defaults, got %+v", p)
	}
}

func TestExtractPayloadFailures(t *testing.T) {
	for _, raw := range []string{"", "   \n\t ", "no json here at all", "{broken", "```json\nnope\n```"} {
		_, err := extractPayload(raw)
		var malformed *MalformedResponseError
		if !errors.As(err, &malformed) {
			t.Fatalf("raw %q: expected MalformedResponseError, got %v", raw, err)
		}
	}
}

func TestExtractPayloadExcerptBounded(t *testing.T) {
	raw := "x"
	for len(raw) < 2000 {
		raw += raw
	}
	_, err := extractPayload(raw)
	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedResponseError, got %v", err)
	}
	if len(malformed.Excerpt) > excerptMaxLen {
		t.Fatalf("excerpt too long: %d", len(malformed.Excerpt))
	}
}

func TestFlexFieldsTolerateMixedTypes(t *testing.T) {
	raw := `{"reviews":[{"name":"Anna","rating":"4","text":"ok"}],"comparison":[{"model":"X","price":42000,"rating":4.8}],"sections":[{"video_index":null}]}`
	p, err := extractPayload(raw)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if p.Reviews[0].Rating != 4 {
		t.Fatalf("string rating not decoded: %d", p.Reviews[0].Rating)
	}
	if p.Comparison[0].Price != "42000" {
		t.Fatalf("numeric price not decoded: %q", p.Comparison[0].Price)
	}
	if p.Sections[0].VideoIndex != 0 {
		t.Fatalf("null video_index should decode to 0, got %d", p.Sections[0].VideoIndex)
	}
}
