package osnova

import (
	"strings"

	"github.com/osari-hq/seobot/internal/domain"
)

// The platform consumes EditorJS-compatible blocks. Each block is a typed
// tag plus a data object; the create-entry call serializes the whole list as
// {"blocks": [...], "version": "2.14"}.

// Block kinds.
const (
	BlockParagraph = "paragraph"
	BlockHeader    = "header"
	BlockList      = "list"
	BlockImage     = "image"
	BlockTable     = "table"
	BlockDelimiter = "delimiter"
)

// Block is one typed unit of rich-text content.
type Block struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ParagraphData holds paragraph HTML.
type ParagraphData struct {
	Text string `json:"text"`
}

// EmbedData holds raw embed HTML. It rides the paragraph block type on the
// wire (the platform renders the iframe from paragraph text) but stays a
// distinct Go type so assembled sequences remain inspectable.
type EmbedData struct {
	Text string `json:"text"`
}

// HeaderData holds a heading and its level.
type HeaderData struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// ListData holds list style and items.
type ListData struct {
	Style string   `json:"style"`
	Items []string `json:"items"`
}

// ImageFile is the uploaded file reference inside an image block.
type ImageFile struct {
	URL    string `json:"url"`
	UUID   string `json:"uuid"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ImageData holds an image block's file reference and presentation flags.
type ImageData struct {
	File           ImageFile `json:"file"`
	Caption        string    `json:"caption"`
	WithBorder     bool      `json:"withBorder"`
	Stretched      bool      `json:"stretched"`
	WithBackground bool      `json:"withBackground"`
}

// TableData holds table rows.
type TableData struct {
	WithHeadings bool       `json:"withHeadings"`
	Content      [][]string `json:"content"`
}

// MediaReference is the platform's identifier for an uploaded image. It is
// owned by the publish call that created it and discarded afterwards.
type MediaReference struct {
	URL    string `json:"url"`
	UUID   string `json:"uuid"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

const (
	defaultImageWidth  = 1200
	defaultImageHeight = 630
)

// Section group headings of the assembled document.
const (
	headingBrief      = "In brief"
	headingSpecs      = "Technical specifications"
	headingAbout      = "About the product"
	headingComparison = "Model comparison"
	headingForWhom    = "Who it suits"
	headingExpert     = "Expert commentary"
	headingFAQ        = "Frequently asked questions"
	headingReviews    = "Customer reviews"
	headingConclusion = "Conclusion"
)

func paragraphBlock(html string) Block {
	return Block{Type: BlockParagraph, Data: ParagraphData{Text: html}}
}

func italicParagraphBlock(text string) Block {
	return paragraphBlock("<i>" + text + "</i>")
}

func headerBlock(text string, level int) Block {
	return Block{Type: BlockHeader, Data: HeaderData{Text: text, Level: level}}
}

func listBlock(items []string) Block {
	return Block{Type: BlockList, Data: ListData{Style: "unordered", Items: items}}
}

func embedBlock(html string) Block {
	return Block{Type: BlockParagraph, Data: EmbedData{Text: html}}
}

func delimiterBlock() Block {
	return Block{Type: BlockDelimiter, Data: struct{}{}}
}

func tableBlock(rows [][]string, withHeadings bool) Block {
	return Block{Type: BlockTable, Data: TableData{WithHeadings: withHeadings, Content: rows}}
}

func imageBlock(ref MediaReference, caption string) Block {
	width, height := ref.Width, ref.Height
	if width == 0 {
		width = defaultImageWidth
	}
	if height == 0 {
		height = defaultImageHeight
	}
	return Block{Type: BlockImage, Data: ImageData{
		File: ImageFile{
			URL:    ref.URL,
			UUID:   ref.UUID,
			Width:  width,
			Height: height,
		},
		Caption:   caption,
		Stretched: true,
	}}
}

// assembler carries the shared FIFO media queue through the traversal.
type assembler struct {
	blocks     []Block
	queue      []MediaReference
	alts       []string
	altCounter int
}

func (a *assembler) add(blocks ...Block) {
	a.blocks = append(a.blocks, blocks...)
}

func (a *assembler) popMedia() (MediaReference, bool) {
	if len(a.queue) == 0 {
		return MediaReference{}, false
	}
	ref := a.queue[0]
	a.queue = a.queue[1:]
	return ref, true
}

// nextAlt returns the alt text for the next section-placed image, empty
// once the list is exhausted.
func (a *assembler) nextAlt() string {
	alt := ""
	if a.altCounter < len(a.alts) {
		alt = a.alts[a.altCounter]
	}
	a.altCounter++
	return alt
}

func (a *assembler) addParagraphs(text string) {
	for _, para := range splitParagraphs(text) {
		a.add(paragraphBlock(para))
	}
}

// splitParagraphs splits on the blank-line separator, dropping empties.
func splitParagraphs(text string) []string {
	var out []string
	for _, para := range strings.Split(text, "\n\n") {
		if para = strings.TrimSpace(para); para != "" {
			out = append(out, para)
		}
	}
	return out
}

// AssembleBlocks deterministically linearizes the article into blocks,
// interleaving the uploaded media queue at its designated slots. The queue
// is strictly FIFO; once exhausted, sections with image placeholders simply
// get no image, and any references left over after the comparison table are
// drained as fallback image blocks so no upload is silently dropped.
func AssembleBlocks(article *domain.Article, media []MediaReference) []Block {
	a := &assembler{
		queue: append([]MediaReference(nil), media...),
		alts:  article.ImageAlts,
	}

	if article.Brief != "" {
		a.add(headerBlock(headingBrief, 3))
		a.add(italicParagraphBlock(article.Brief))
		a.add(delimiterBlock())
	}

	a.addParagraphs(article.Intro)

	// First photo goes right after the intro, regardless of placeholders.
	if ref, ok := a.popMedia(); ok {
		a.add(imageBlock(ref, ""))
	}

	for _, section := range article.Sections {
		if section.Heading != "" {
			a.add(headerBlock(section.Heading, 2))
		}
		for _, para := range section.Paragraphs {
			if para = strings.TrimSpace(para); para != "" {
				a.add(paragraphBlock(para))
			}
		}
		if len(section.ListItems) > 0 {
			a.add(listBlock(section.ListItems))
		}
		if section.HasImagePlaceholder {
			if ref, ok := a.popMedia(); ok {
				a.add(imageBlock(ref, a.nextAlt()))
			}
		}
		if section.HasVideoPlaceholder && section.VideoHTML != "" {
			a.add(embedBlock(section.VideoHTML))
		}
	}

	if len(article.SpecsTable) > 0 {
		a.add(delimiterBlock())
		a.add(headerBlock(headingSpecs, 2))
		rows := make([][]string, 0, len(article.SpecsTable))
		for _, row := range article.SpecsTable {
			rows = append(rows, []string{row.Prop, row.Value})
		}
		a.add(tableBlock(rows, false))
	}

	if article.AboutText != "" {
		a.add(delimiterBlock())
		a.add(headerBlock(headingAbout, 2))
		a.addParagraphs(article.AboutText)
	}

	if len(article.Comparison) > 0 {
		a.add(delimiterBlock())
		a.add(headerBlock(headingComparison, 2))
		rows := [][]string{{"Model", "Price", "Advantage", "Rating"}}
		for _, row := range article.Comparison {
			rows = append(rows, []string{row.Model, row.Price, row.Advantage, row.Rating})
		}
		a.add(tableBlock(rows, true))
	}

	// Fallback drain: every uploaded photo must end up in the document.
	for {
		ref, ok := a.popMedia()
		if !ok {
			break
		}
		a.add(imageBlock(ref, ""))
	}

	if len(article.ForWhom) > 0 {
		a.add(delimiterBlock())
		a.add(headerBlock(headingForWhom, 2))
		a.add(listBlock(article.ForWhom))
	}

	if article.ExpertComment != "" {
		a.add(delimiterBlock())
		a.add(headerBlock(headingExpert, 2))
		for _, para := range splitParagraphs(article.ExpertComment) {
			a.add(italicParagraphBlock(para))
		}
	}

	if len(article.FAQ) > 0 {
		a.add(delimiterBlock())
		a.add(headerBlock(headingFAQ, 2))
		for _, item := range article.FAQ {
			if item.Question != "" {
				a.add(headerBlock(item.Question, 3))
			}
			if item.Answer != "" {
				a.add(paragraphBlock(item.Answer))
			}
		}
	}

	if len(article.Reviews) > 0 {
		a.add(delimiterBlock())
		a.add(headerBlock(headingReviews, 2))
		for _, review := range article.Reviews {
			nameLine := "<b>" + review.Name + "</b> — " + review.Date + " " + starRating(review.Rating)
			a.add(paragraphBlock(nameLine))
			if review.Text != "" {
				a.add(paragraphBlock(review.Text))
			}
		}
	}

	if article.Conclusion != "" {
		a.add(delimiterBlock())
		a.add(headerBlock(headingConclusion, 2))
		a.addParagraphs(article.Conclusion)
	}

	return a.blocks
}

// starRating renders a 1-5 rating as filled and empty star glyphs. A zero
// (absent) rating defaults to five stars.
func starRating(rating int) string {
	if rating <= 0 || rating > 5 {
		rating = 5
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}
