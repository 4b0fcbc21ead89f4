package osnova

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/osari-hq/seobot/internal/domain"
	"github.com/osari-hq/seobot/internal/logger"
	"github.com/osari-hq/seobot/pkg/httpclient"
)

// editorVersion is the block-format version the platform expects in the
// entry text payload.
const editorVersion = "2.14"

// Options configures a platform API client.
type Options struct {
	BaseURL       string
	Token         string
	SubsiteID     int
	UploadTimeout time.Duration
	EntryTimeout  time.Duration
	Logger        logger.Logger
}

// Client talks to the Osnova-style publishing API. All calls authenticate
// with the device token header.
type Client struct {
	http      *resty.Client
	subsiteID int
	log       logger.Logger

	uploadTimeout time.Duration
	entryTimeout  time.Duration
}

// NewClient builds a Client from options. Timeouts of zero fall back to
// sensible defaults.
func NewClient(opts Options) *Client {
	uploadTimeout := opts.UploadTimeout
	if uploadTimeout <= 0 {
		uploadTimeout = 60 * time.Second
	}
	entryTimeout := opts.EntryTimeout
	if entryTimeout <= 0 {
		entryTimeout = 30 * time.Second
	}

	log := opts.Logger
	if log == nil {
		log = &logger.NopLogger{}
	}

	c := httpclient.NewRestyHTTPClient(uploadTimeout)
	c.SetBaseURL(strings.TrimRight(opts.BaseURL, "/"))
	c.SetHeader("X-Device-Token", opts.Token)

	return &Client{
		http:          c,
		subsiteID:     opts.SubsiteID,
		log:           log,
		uploadTimeout: uploadTimeout,
		entryTimeout:  entryTimeout,
	}
}

// UploadImage uploads one local image file and returns the platform's
// reference to it.
func (c *Client) UploadImage(ctx context.Context, path string) (MediaReference, error) {
	f, err := os.Open(path)
	if err != nil {
		return MediaReference{}, fmt.Errorf("open image %s: %w", path, err)
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "image/jpeg"
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetMultipartField("file", filepath.Base(path), contentType, f).
		Post("/uploader/upload")
	if err != nil {
		return MediaReference{}, fmt.Errorf("upload image: %w", err)
	}
	if resp.IsError() {
		return MediaReference{}, fmt.Errorf("upload image status %d: %s", resp.StatusCode(), readBodySnippet(resp.Body()))
	}

	ref, err := parseUploadedMedia(resp.Body())
	if err != nil {
		return MediaReference{}, fmt.Errorf("parse upload response: %w", err)
	}
	return ref, nil
}

// CreateEntry creates a post from pre-assembled blocks. With publish false
// the entry is left as a draft.
func (c *Client) CreateEntry(ctx context.Context, title string, blocks []Block, publish bool) (Entry, error) {
	text, err := json.Marshal(struct {
		Blocks  []Block `json:"blocks"`
		Version string  `json:"version"`
	}{Blocks: blocks, Version: editorVersion})
	if err != nil {
		return Entry{}, fmt.Errorf("marshal entry blocks: %w", err)
	}

	form := map[string]string{
		"title": title,
		"text":  string(text),
	}
	if c.subsiteID != 0 {
		form["subsite_id"] = strconv.Itoa(c.subsiteID)
	}
	if !publish {
		form["is_published"] = "0"
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(form).
		Post("/entry/create")
	if err != nil {
		return Entry{}, fmt.Errorf("create entry: %w", err)
	}
	if resp.IsError() {
		return Entry{}, fmt.Errorf("create entry status %d: %s", resp.StatusCode(), readBodySnippet(resp.Body()))
	}

	entry, err := parseEntry(resp.Body())
	if err != nil {
		return Entry{}, fmt.Errorf("parse entry response: %w", err)
	}
	return entry, nil
}

// PublishArticle uploads the article's photos, assembles the block document
// and creates the entry. Photo uploads are best effort: a failed upload is
// logged and skipped, the article still ships with whatever made it through.
func (c *Client) PublishArticle(ctx context.Context, article *domain.Article, photoPaths []string, publish bool) (Entry, error) {
	media := make([]MediaReference, 0, len(photoPaths))
	for _, path := range photoPaths {
		uploadCtx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
		ref, err := c.UploadImage(uploadCtx, path)
		cancel()
		if err != nil {
			c.log.WarnObj("photo upload failed, continuing without it", "upload_error", map[string]any{
				"path":  path,
				"error": err.Error(),
			})
			continue
		}
		media = append(media, ref)
	}

	blocks := AssembleBlocks(article, media)

	entryCtx, cancel := context.WithTimeout(ctx, c.entryTimeout)
	defer cancel()
	entry, err := c.CreateEntry(entryCtx, article.Title, blocks, publish)
	if err != nil {
		return Entry{}, err
	}

	c.log.InfoObj("article published", "publish_result", map[string]any{
		"entry_id": entry.ID,
		"url":      entry.URL,
		"photos":   len(media),
		"blocks":   len(blocks),
	})
	return entry, nil
}

func readBodySnippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > 512 {
		body = body[:512]
	}
	return strings.TrimSpace(string(body))
}
