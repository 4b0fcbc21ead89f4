package generator

import (
	"context"
	"fmt"

	"github.com/osari-hq/seobot/internal/domain"
	"github.com/osari-hq/seobot/internal/logger"
)

// Article variants.
const (
	VariantGeneral = "general"
	VariantExpert  = "expert"
)

// Request carries the operator-supplied generation parameters for one call.
type Request struct {
	TopicTitle       string
	TopicDescription string
	ProductSpecs     string
	ResearchData     string
	Variant          string
	VideoEmbeds      []string
	NicheKeywords    []string
	SiteURL          string
	SiteAnchor       string
	MinWords         int
	LinksCount       int
	Tone             string
	ImageCount       int
}

// Generator produces structured articles from an LLM.
type Generator struct {
	llm LLMClient
	log logger.Logger
}

// New builds a Generator around the given LLM client.
func New(llm LLMClient, log logger.Logger) *Generator {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Generator{llm: llm, log: log}
}

// Generate asks the model for an article and decodes the response into the
// canonical Article. Extraction failure is surfaced as-is (wrapped
// MalformedResponseError); it is never retried here.
func (g *Generator) Generate(ctx context.Context, req Request) (*domain.Article, error) {
	if g == nil || g.llm == nil {
		return nil, fmt.Errorf("generator is not initialized")
	}

	prompt := buildPrompt(req)
	g.log.InfoObj("article generation started", "generation_meta", map[string]any{
		"topic":   req.TopicTitle,
		"variant": req.Variant,
	})

	raw, err := g.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("llm completion: %w", err)
	}

	p, err := extractPayload(raw)
	if err != nil {
		return nil, fmt.Errorf("extract article payload: %w", err)
	}

	article := articleFromPayload(p, req)
	g.log.InfoObj("article generated", "generation_result", map[string]any{
		"title": article.Title,
		"words": article.WordCount(),
	})
	return article, nil
}

// articleFromPayload builds the immutable Article from a decoded payload,
// resolving section video references against the caller-supplied embed list.
func articleFromPayload(p payload, req Request) *domain.Article {
	title := p.Title
	if title == "" {
		title = req.TopicTitle
	}

	sections := make([]domain.Section, 0, len(p.Sections))
	for _, s := range p.Sections {
		sec := domain.Section{
			Heading:             s.Heading,
			Paragraphs:          s.Paragraphs,
			ListItems:           s.ListItems,
			HasImagePlaceholder: s.HasImagePlaceholder,
			HasVideoPlaceholder: s.HasVideoPlaceholder,
			VideoIndex:          int(s.VideoIndex),
		}
		// A 1-based index within range of the supplied embeds resolves the
		// video and forces the placeholder on. Anything else: no video.
		if idx := int(s.VideoIndex); idx >= 1 && idx <= len(req.VideoEmbeds) {
			sec.VideoHTML = req.VideoEmbeds[idx-1]
			sec.HasVideoPlaceholder = true
		}
		sections = append(sections, sec)
	}

	specs := make([]domain.SpecRow, 0, len(p.SpecsTable))
	for _, row := range p.SpecsTable {
		specs = append(specs, domain.SpecRow{Prop: string(row.Prop), Value: string(row.Value)})
	}

	faq := make([]domain.FAQItem, 0, len(p.FAQ))
	for _, item := range p.FAQ {
		faq = append(faq, domain.FAQItem{Question: item.Question, Answer: item.Answer})
	}

	comparison := make([]domain.ComparisonRow, 0, len(p.Comparison))
	for _, row := range p.Comparison {
		comparison = append(comparison, domain.ComparisonRow{
			Model:     string(row.Model),
			Price:     string(row.Price),
			Advantage: string(row.Advantage),
			Rating:    string(row.Rating),
		})
	}

	reviews := make([]domain.Review, 0, len(p.Reviews))
	for _, r := range p.Reviews {
		reviews = append(reviews, domain.Review{
			Name:   r.Name,
			Date:   r.Date,
			Rating: int(r.Rating),
			Text:   r.Text,
		})
	}

	return &domain.Article{
		Title:           title,
		MetaDescription: p.MetaDescription,
		Keywords:        p.Keywords,
		Breadcrumbs:     p.Breadcrumbs,
		Brief:           p.Brief,
		Intro:           p.Intro,
		AboutText:       p.AboutText,
		Sections:        sections,
		SpecsTable:      specs,
		FAQ:             faq,
		Comparison:      comparison,
		ForWhom:         p.ForWhom,
		ExpertComment:   p.ExpertComment,
		Reviews:         reviews,
		VideoEmbeds:     req.VideoEmbeds,
		Conclusion:      p.Conclusion,
		ImageAlts:       p.ImageAlts,
	}
}
