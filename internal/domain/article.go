package domain

import "strings"

// Domain contains the core article and topic models shared across packages.

// Section is one body section of a generated article. Order is the reading
// order of the final document.
type Section struct {
	Heading             string   `json:"heading"`
	Paragraphs          []string `json:"paragraphs"`
	ListItems           []string `json:"list_items"`
	HasImagePlaceholder bool     `json:"has_image_placeholder"`
	HasVideoPlaceholder bool     `json:"has_video_placeholder"`
	VideoIndex          int      `json:"video_index,omitempty"`
	VideoHTML           string   `json:"video_html,omitempty"`
}

// SpecRow is one property/value pair of the technical specifications table.
type SpecRow struct {
	Prop  string `json:"prop"`
	Value string `json:"value"`
}

// FAQItem is one question/answer entry.
type FAQItem struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
}

// ComparisonRow is one row of the model comparison table.
type ComparisonRow struct {
	Model     string `json:"model"`
	Price     string `json:"price"`
	Advantage string `json:"advantage"`
	Rating    string `json:"rating"`
}

// Review is one customer review. Rating is 1-5; zero means "not provided".
type Review struct {
	Name   string `json:"name"`
	Date   string `json:"date"`
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

// Article is the canonical in-memory representation of a generated article.
// It is created once per generation request and treated as immutable
// afterwards; block assembly only reads it.
type Article struct {
	Title           string          `json:"title"`
	MetaDescription string          `json:"meta_description"`
	Keywords        []string        `json:"keywords"`
	Breadcrumbs     []string        `json:"breadcrumbs"`
	Brief           string          `json:"brief"`
	Intro           string          `json:"intro"`
	AboutText       string          `json:"about_text"`
	Sections        []Section       `json:"sections"`
	SpecsTable      []SpecRow       `json:"specs_table"`
	FAQ             []FAQItem       `json:"faq"`
	Comparison      []ComparisonRow `json:"comparison"`
	ForWhom         []string        `json:"for_whom"`
	ExpertComment   string          `json:"expert_comment"`
	Reviews         []Review        `json:"reviews"`
	VideoEmbeds     []string        `json:"video_embeds"`
	Conclusion      string          `json:"conclusion"`
	ImageAlts       []string        `json:"image_alts"`
}

// WordCount returns an approximate word count across all textual parts.
func (a *Article) WordCount() int {
	if a == nil {
		return 0
	}
	parts := []string{a.Brief, a.Intro, a.AboutText, a.ExpertComment, a.Conclusion}
	for _, s := range a.Sections {
		parts = append(parts, s.Paragraphs...)
		parts = append(parts, s.ListItems...)
	}
	count := 0
	for _, p := range parts {
		count += len(strings.Fields(p))
	}
	return count
}
