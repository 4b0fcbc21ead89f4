package generator

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a senior SEO copywriter producing expert long-form
articles for a business audience. You write deeply and with structure, using
concrete examples and numbers. The style is expert but lively, free of filler.`

const payloadFormat = `{
  "title": "article headline",
  "meta_description": "SEO description, 150-160 characters",
  "keywords": ["kw1", "kw2", "kw3", "kw4", "kw5"],
  "breadcrumbs": ["Home", "Category", "Article"],
  "brief": "short encyclopedic summary of the topic, 2-3 sentences",
  "intro": "introductory paragraphs separated by \n\n",
  "sections": [
    {
      "heading": "section subheading",
      "paragraphs": ["paragraph 1", "paragraph 2"],
      "list_items": ["item 1", "item 2", "item 3"],
      "has_image_placeholder": false,
      "has_video_placeholder": false,
      "video_index": 0
    }
  ],
  "specs_table": [{"prop": "property", "value": "value"}],
  "about_text": "500-800 word SEO text about the product, paragraphs separated by \n\n",
  "comparison": [{"model": "", "price": "", "advantage": "", "rating": ""}],
  "for_whom": ["audience segment 1", "audience segment 2"],
  "expert_comment": "expert commentary paragraphs separated by \n\n",
  "faq": [{"q": "question", "a": "answer"}],
  "reviews": [{"name": "", "date": "", "rating": 5, "text": ""}],
  "conclusion": "closing text with a call to action",
  "image_alts": ["alt text for photo 1", "alt text for photo 2"]
}`

// buildPrompt renders the generation prompt for a request.
func buildPrompt(req Request) Prompt {
	kw := strings.Join(req.NicheKeywords, ", ")
	if kw == "" {
		kw = req.TopicTitle
	}
	desc := req.TopicDescription
	if strings.TrimSpace(desc) == "" {
		desc = "no additional context"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write an SEO long-form article on the topic: \"%s\"\n\n", req.TopicTitle)
	fmt.Fprintf(&b, "Topic context: %s\n\n", desc)
	b.WriteString("MANDATORY REQUIREMENTS:\n")
	fmt.Fprintf(&b, "1. Length: at least %d words\n", req.MinWords)
	fmt.Fprintf(&b, "2. Tone: %s\n", req.Tone)
	fmt.Fprintf(&b, "3. Keywords to weave in naturally: %s\n", kw)
	if req.SiteURL != "" && req.LinksCount > 0 {
		fmt.Fprintf(&b, "4. Insert exactly %d links to %s inside paragraph text, as HTML: <a href=%q>%s</a>\n",
			req.LinksCount, req.SiteURL, req.SiteURL, req.SiteAnchor)
	}
	b.WriteString("5. Structure: a catchy headline, a 2-3 paragraph intro, 5-7 sections with subheadings, at least 2 bullet lists inside sections, and a conclusion with a call to action\n")
	if req.ImageCount > 0 {
		fmt.Fprintf(&b, "6. Mark photo slots by setting \"has_image_placeholder\": true on exactly %d sections, spread evenly (not the first, not the last), and provide a matching \"image_alts\" entry for each\n",
			req.ImageCount)
	}
	if n := len(req.VideoEmbeds); n > 0 {
		fmt.Fprintf(&b, "7. %d video embeds are available. For sections that should host one, set \"has_video_placeholder\": true and \"video_index\" to the 1-based embed number\n", n)
	}
	if strings.TrimSpace(req.ProductSpecs) != "" {
		fmt.Fprintf(&b, "\nProduct specifications (use for precise numbers and the specs_table):\n%s\n", req.ProductSpecs)
	}
	if strings.TrimSpace(req.ResearchData) != "" {
		fmt.Fprintf(&b, "\nApproved research notes (only these facts may be cited):\n%s\n", req.ResearchData)
	}
	if req.Variant == VariantExpert {
		b.WriteString("\nThis is an expert review article: keep the framing strictly positive and authoritative.\n")
	}
	fmt.Fprintf(&b, "\nRESPONSE FORMAT — strictly JSON, no surrounding text:\n%s\n", payloadFormat)

	return Prompt{System: systemPrompt, User: b.String()}
}
