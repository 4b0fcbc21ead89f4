// Package archive persists generated articles as standalone HTML files. Each
// file is a human-readable preview with the full article JSON embedded in a
// comment marker, so the original structure can be recovered and republished
// without regenerating.
package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"github.com/osari-hq/seobot/internal/domain"
)

const (
	jsonMarkerStart = "<!--JSON:"
	jsonMarkerEnd   = "-->"

	slugMaxRunes = 60
)

// Entry describes one archived article file.
type Entry struct {
	Name    string    `json:"name"`
	SavedAt time.Time `json:"saved_at"`
	Size    int64     `json:"size"`
}

// Render produces the archive HTML for an article: a readable preview plus
// the embedded JSON payload.
func Render(article *domain.Article) (string, error) {
	payload, err := json.MarshalIndent(article, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal article: %w", err)
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"ru\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(article.Title))
	if article.MetaDescription != "" {
		fmt.Fprintf(&b, "<meta name=\"description\" content=%q>\n", article.MetaDescription)
	}
	if len(article.Keywords) > 0 {
		fmt.Fprintf(&b, "<meta name=\"keywords\" content=%q>\n", strings.Join(article.Keywords, ", "))
	}
	b.WriteString("</head>\n<body>\n")

	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(article.Title))
	if article.Brief != "" {
		fmt.Fprintf(&b, "<p><i>%s</i></p>\n", html.EscapeString(article.Brief))
	}
	writeParagraphs(&b, article.Intro)

	for _, section := range article.Sections {
		if section.Heading != "" {
			fmt.Fprintf(&b, "<h2>%s</h2>\n", html.EscapeString(section.Heading))
		}
		for _, para := range section.Paragraphs {
			fmt.Fprintf(&b, "<p>%s</p>\n", para)
		}
		if len(section.ListItems) > 0 {
			b.WriteString("<ul>\n")
			for _, item := range section.ListItems {
				fmt.Fprintf(&b, "<li>%s</li>\n", html.EscapeString(item))
			}
			b.WriteString("</ul>\n")
		}
		if section.VideoHTML != "" {
			b.WriteString(section.VideoHTML + "\n")
		}
	}

	if len(article.SpecsTable) > 0 {
		b.WriteString("<table>\n")
		for _, row := range article.SpecsTable {
			fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td></tr>\n",
				html.EscapeString(row.Prop), html.EscapeString(row.Value))
		}
		b.WriteString("</table>\n")
	}
	writeParagraphs(&b, article.AboutText)
	writeParagraphs(&b, article.ExpertComment)

	for _, item := range article.FAQ {
		if item.Question != "" {
			fmt.Fprintf(&b, "<h3>%s</h3>\n", html.EscapeString(item.Question))
		}
		if item.Answer != "" {
			fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(item.Answer))
		}
	}
	writeParagraphs(&b, article.Conclusion)

	b.WriteString("</body>\n</html>\n")
	b.WriteString(jsonMarkerStart)
	b.Write(payload)
	b.WriteString(jsonMarkerEnd)
	b.WriteString("\n")
	return b.String(), nil
}

func writeParagraphs(b *strings.Builder, text string) {
	for _, para := range strings.Split(text, "\n\n") {
		if para = strings.TrimSpace(para); para != "" {
			fmt.Fprintf(b, "<p>%s</p>\n", para)
		}
	}
}

// Parse recovers the article from archive file content. Files without the
// JSON marker (hand-edited or foreign) degrade to a title-only article
// scraped from the markup.
func Parse(content []byte) (*domain.Article, error) {
	start := bytes.Index(content, []byte(jsonMarkerStart))
	if start >= 0 {
		rest := content[start+len(jsonMarkerStart):]
		end := bytes.Index(rest, []byte(jsonMarkerEnd))
		if end < 0 {
			return nil, fmt.Errorf("archive JSON marker is not terminated")
		}
		var article domain.Article
		if err := json.Unmarshal(rest[:end], &article); err != nil {
			return nil, fmt.Errorf("decode archived article: %w", err)
		}
		return &article, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse archive markup: %w", err)
	}
	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if title == "" {
		return nil, fmt.Errorf("archive file carries neither JSON payload nor a title")
	}
	return &domain.Article{Title: title}, nil
}

// Save writes the article into dir and returns the file name. Names are
// timestamped so repeated saves of the same topic never collide within a
// second.
func Save(dir string, article *domain.Article) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	content, err := Render(article)
	if err != nil {
		return "", err
	}

	name := time.Now().Format("20060102_150405") + "_" + slugify(article.Title) + ".html"
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write archive file: %w", err)
	}
	return name, nil
}

// Load reads one archived article by file name. The name is cleaned of path
// elements so callers can pass user input.
func Load(dir, name string) (*domain.Article, error) {
	content, err := os.ReadFile(filepath.Join(dir, filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("read archive file: %w", err)
	}
	return Parse(content)
}

// List returns the archived files in dir, newest first. A missing directory
// is an empty archive, not an error.
func List(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read archive dir: %w", err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".html") {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Name:    de.Name(),
			SavedAt: info.ModTime(),
			Size:    info.Size(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].SavedAt.After(entries[j].SavedAt) })
	return entries, nil
}

// slugify turns a title into a file-name-safe fragment. Letters and digits
// of any script survive, everything else becomes an underscore, capped at 60
// runes.
func slugify(title string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	runes := []rune(b.String())
	if len(runes) > slugMaxRunes {
		runes = runes[:slugMaxRunes]
	}
	if len(runes) == 0 {
		return "untitled"
	}
	return string(runes)
}
