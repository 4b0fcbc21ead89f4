package generator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Models rarely return bare JSON: the payload is usually wrapped in prose or
// a fenced code block. Extraction tries, in order: the first fenced block,
// the first-{ .. last-} substring, then the whole trimmed text. First
// candidate that decodes wins.

const excerptMaxLen = 500

// MalformedResponseError reports that no extraction attempt produced a
// decodable payload. Excerpt carries a prefix of the raw response for
// diagnostics.
type MalformedResponseError struct {
	Excerpt string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("llm response is not decodable json: %q", e.Excerpt)
}

// extractPayload decodes a raw LLM response into the article payload.
func extractPayload(raw string) (payload, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return payload{}, &MalformedResponseError{Excerpt: ""}
	}

	for _, candidate := range payloadCandidates(trimmed) {
		var p payload
		if err := json.Unmarshal([]byte(candidate), &p); err == nil {
			return p, nil
		}
	}

	return payload{}, &MalformedResponseError{Excerpt: excerpt(trimmed)}
}

// payloadCandidates yields decode attempts in priority order.
func payloadCandidates(trimmed string) []string {
	var out []string

	if fenced := fencedBlock(trimmed); fenced != "" {
		out = append(out, fenced)
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start != -1 && end > start {
		out = append(out, trimmed[start:end+1])
	}

	return append(out, trimmed)
}

// fencedBlock returns the trimmed contents of the first triple-backtick
// region, optionally tagged "json", or "" when absent.
func fencedBlock(s string) string {
	open := strings.Index(s, "```")
	if open == -1 {
		return ""
	}
	rest := s[open+3:]
	if strings.HasPrefix(rest, "json") {
		rest = rest[4:]
	}
	closing := strings.Index(rest, "```")
	if closing == -1 {
		return ""
	}
	return strings.TrimSpace(rest[:closing])
}

func excerpt(s string) string {
	if len(s) > excerptMaxLen {
		return s[:excerptMaxLen]
	}
	return s
}

// flexInt decodes a JSON number or a numeric string into an int. The model
// does not strictly control field types, so "5" and 5 must both work.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexInt(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		var fl float64
		if err2 := json.Unmarshal(data, &fl); err2 != nil {
			return err
		}
		n = int(fl)
	}
	*f = flexInt(n)
	return nil
}

// flexString decodes a JSON string or number into a string.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(data)
	return nil
}

// payload mirrors the JSON shape requested from the model. Every field is
// optional: a missing key defaults to its zero value and never errors.
type payload struct {
	Title           string           `json:"title"`
	MetaDescription string           `json:"meta_description"`
	Keywords        []string         `json:"keywords"`
	Breadcrumbs     []string         `json:"breadcrumbs"`
	Brief           string           `json:"brief"`
	Intro           string           `json:"intro"`
	AboutText       string           `json:"about_text"`
	Sections        []sectionPayload `json:"sections"`
	SpecsTable      []specPayload    `json:"specs_table"`
	FAQ             []faqPayload     `json:"faq"`
	Comparison      []cmpPayload     `json:"comparison"`
	ForWhom         []string         `json:"for_whom"`
	ExpertComment   string           `json:"expert_comment"`
	Reviews         []reviewPayload  `json:"reviews"`
	Conclusion      string           `json:"conclusion"`
	ImageAlts       []string         `json:"image_alts"`
}

type sectionPayload struct {
	Heading             string   `json:"heading"`
	Paragraphs          []string `json:"paragraphs"`
	ListItems           []string `json:"list_items"`
	HasImagePlaceholder bool     `json:"has_image_placeholder"`
	HasVideoPlaceholder bool     `json:"has_video_placeholder"`
	VideoIndex          flexInt  `json:"video_index"`
}

type specPayload struct {
	Prop  flexString `json:"prop"`
	Value flexString `json:"value"`
}

type faqPayload struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
}

type cmpPayload struct {
	Model     flexString `json:"model"`
	Price     flexString `json:"price"`
	Advantage flexString `json:"advantage"`
	Rating    flexString `json:"rating"`
}

type reviewPayload struct {
	Name   string  `json:"name"`
	Date   string  `json:"date"`
	Rating flexInt `json:"rating"`
	Text   string  `json:"text"`
}
