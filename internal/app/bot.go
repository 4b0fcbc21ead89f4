package app

import (
	"context"
	"fmt"
	"time"

	"github.com/osari-hq/seobot/internal/archive"
	"github.com/osari-hq/seobot/internal/config"
	"github.com/osari-hq/seobot/internal/domain"
	"github.com/osari-hq/seobot/internal/generator"
	"github.com/osari-hq/seobot/internal/logger"
	"github.com/osari-hq/seobot/internal/osnova"
	"github.com/osari-hq/seobot/internal/storage"
	"github.com/osari-hq/seobot/pkg/httpclient"
	"github.com/osari-hq/seobot/pkg/notify"
	"github.com/osari-hq/seobot/pkg/photos"
	"github.com/osari-hq/seobot/pkg/topics"
	"github.com/osari-hq/seobot/pkg/videos"
)

// Bot is the content production runtime. It coordinates topic discovery,
// generation, archiving, publishing and downstream notifications, and owns
// storage initialization and cleanup.
type Bot struct {
	cfg        *config.Config
	gen        *generator.Generator
	client     *osnova.Client
	library    *photos.Library
	searcher   *videos.Searcher
	fetchers   topics.FetcherRegistry
	fanout     *notify.Fanout
	store      storage.Store
	log        logger.Logger
	hasSources bool
}

// Result describes the outcome of one processed topic.
type Result struct {
	Article     *domain.Article
	ArchiveFile string
	Entry       osnova.Entry
	Published   bool
}

// NewBot builds the runtime from config files.
func NewBot(ctx context.Context, cfg *config.Config, log logger.Logger) (*Bot, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	hasSources := false
	if cfg.SourcesFile != "" {
		if err := topics.LoadSources(cfg.SourcesFile); err != nil {
			log.WarnObj("topic sources not loaded; manual topics only", "sources_error", map[string]any{
				"file":  cfg.SourcesFile,
				"error": err.Error(),
			})
		} else {
			hasSources = true
			sourceList := topics.Sources()
			ids := make([]string, 0, len(sourceList))
			for _, s := range sourceList {
				ids = append(ids, s.ID)
			}
			log.InfoObj("topic sources loaded", "sources_meta", map[string]any{
				"count": len(ids),
				"ids":   ids,
			})
		}
	}

	var fanout *notify.Fanout
	if cfg.NotifiersFile != "" {
		notifierReg, err := notify.LoadRegistry(cfg.NotifiersFile)
		if err != nil {
			return nil, fmt.Errorf("load notifiers registry: %w", err)
		}
		enabled := notifierReg.Enabled()
		sinks, err := notify.BuildAll(ctx, notify.DefaultRegistry(), enabled, log)
		if err != nil {
			return nil, fmt.Errorf("build notifiers: %w", err)
		}
		fanout = notify.NewFanout(sinks)
		summaries := make([]map[string]string, 0, len(enabled))
		for _, n := range enabled {
			summaries = append(summaries, map[string]string{"id": n.ID, "type": n.Type})
		}
		log.InfoObj("notifiers loaded", "notifiers_meta", map[string]any{
			"count":     fanout.Size(),
			"notifiers": summaries,
		})
	} else {
		fanout = notify.NewFanout(nil)
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type": cfg.StorageType,
		"path": cfg.BBoltPath,
	})

	llm, err := generator.NewOpenAILLM(generator.LLMSettings{
		APIKey:  cfg.LLMAPIKey,
		Model:   cfg.LLMModel,
		BaseURL: cfg.LLMBaseURL,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("init llm client: %w", err)
	}

	client := osnova.NewClient(osnova.Options{
		BaseURL:       cfg.OsnovaBaseURL,
		Token:         cfg.OsnovaToken,
		SubsiteID:     cfg.SubsiteID,
		UploadTimeout: cfg.UploadTimeout,
		EntryTimeout:  cfg.EntryTimeout,
		Logger:        log,
	})

	httpClient := httpclient.NewRestyClient(cfg.FetchTimeout)

	return &Bot{
		cfg:        cfg,
		gen:        generator.New(llm, log),
		client:     client,
		library:    photos.NewLibrary(cfg.PhotosDir, store),
		searcher:   videos.NewSearcher(httpClient),
		fetchers:   topics.DefaultFetcherRegistry(httpClient),
		fanout:     fanout,
		store:      store,
		log:        log,
		hasSources: hasSources,
	}, nil
}

// Close releases the storage handle.
func (b *Bot) Close() {
	if b == nil || b.store == nil {
		return
	}
	if err := b.store.Close(); err != nil {
		b.log.WarnObj("storage close failed", "storage_error", err.Error())
	}
}

// ListTopics gathers candidate topics from every configured source, dropping
// duplicates and topics already processed. Individual source failures are
// logged and skipped so one dead feed cannot stall the pipeline.
func (b *Bot) ListTopics(ctx context.Context) ([]domain.Topic, error) {
	if !b.hasSources {
		return nil, nil
	}

	var collected []domain.Topic
	for _, src := range topics.Sources() {
		fetcher, err := b.fetchers.FetcherFor(src)
		if err != nil {
			b.log.WarnObj("no fetcher for source", "source_error", map[string]any{
				"source": src.ID,
				"error":  err.Error(),
			})
			continue
		}
		found, err := fetcher.Fetch(ctx, src)
		if err != nil {
			b.log.WarnObj("topic source failed", "source_error", map[string]any{
				"source": src.ID,
				"error":  err.Error(),
			})
			continue
		}
		collected = append(collected, found...)
	}

	unique := domain.DeduplicateTopics(collected, nil)

	fresh := make([]domain.Topic, 0, len(unique))
	for _, t := range unique {
		seen, err := b.store.SeenTopic(t.Key())
		if err != nil {
			return nil, fmt.Errorf("check topic seen: %w", err)
		}
		if !seen {
			fresh = append(fresh, t)
		}
	}

	b.log.InfoObj("topics collected", "topics_meta", map[string]any{
		"collected": len(collected),
		"unique":    len(unique),
		"fresh":     len(fresh),
	})
	return fresh, nil
}

// GenerateOptions carries the per-run inputs a single article can take
// beyond the topic itself. Zero values mean the general variant, a video
// search by topic title, and the normal archive-then-publish flow.
type GenerateOptions struct {
	ProductSpecs string
	ResearchData string
	Variant      string
	VideoEmbeds  []string
	Publish      bool
	LocalOnly    bool
}

// ProcessTopic runs the default pipeline for one topic.
func (b *Bot) ProcessTopic(ctx context.Context, topic domain.Topic, publish bool) (*Result, error) {
	return b.ProcessTopicWith(ctx, topic, GenerateOptions{Publish: publish})
}

// ProcessTopicWith runs the full pipeline for one topic: video lookup,
// article generation, local archiving, platform publishing and notification.
// The topic is marked processed only after a successful archive, so
// transient failures leave it eligible for retry. With LocalOnly set the
// run stops after the archive and nothing reaches the platform.
func (b *Bot) ProcessTopicWith(ctx context.Context, topic domain.Topic, opts GenerateOptions) (*Result, error) {
	variant := opts.Variant
	if variant == "" {
		variant = generator.VariantGeneral
	}

	embeds := opts.VideoEmbeds
	if len(embeds) == 0 {
		found, err := b.searcher.Search(ctx, topic.Title, 2)
		if err != nil {
			b.log.WarnObj("video search failed, continuing without embeds", "video_error", map[string]any{
				"topic": topic.Title,
				"error": err.Error(),
			})
			found = nil
		}
		embeds = found
	}

	article, err := b.gen.Generate(ctx, generator.Request{
		TopicTitle:       topic.Title,
		TopicDescription: topic.Description,
		ProductSpecs:     opts.ProductSpecs,
		ResearchData:     opts.ResearchData,
		Variant:          variant,
		VideoEmbeds:      embeds,
		NicheKeywords:    b.cfg.NicheKeywords(),
		SiteURL:          b.cfg.SiteURL,
		SiteAnchor:       b.cfg.SiteAnchor,
		MinWords:         b.cfg.MinWords,
		LinksCount:       b.cfg.LinksCount,
		Tone:             b.cfg.Tone,
		ImageCount:       b.cfg.PhotosPerArticle,
	})
	if err != nil {
		b.notifyStatus(ctx, topic.Title, topic.Title, notify.StatusFailed, err)
		return nil, fmt.Errorf("generate article: %w", err)
	}

	archiveFile, err := archive.Save(b.cfg.ArchiveDir, article)
	if err != nil {
		return nil, fmt.Errorf("archive article: %w", err)
	}

	if err := b.store.MarkTopic(topic.Key()); err != nil {
		return nil, fmt.Errorf("mark topic processed: %w", err)
	}

	result := &Result{Article: article, ArchiveFile: archiveFile}

	if opts.LocalOnly {
		b.log.InfoObj("article archived locally, publish skipped", "local_result", map[string]any{
			"title":   article.Title,
			"archive": archiveFile,
		})
		return result, nil
	}

	photoPaths, err := b.library.Pick(b.cfg.PhotosPerArticle)
	if err != nil {
		b.log.WarnObj("photo selection failed, publishing without photos", "photos_error", err.Error())
		photoPaths = nil
	}

	entry, err := b.client.PublishArticle(ctx, article, photoPaths, opts.Publish)
	if err != nil {
		b.notifyStatus(ctx, article.Title, topic.Title, notify.StatusFailed, err)
		return result, fmt.Errorf("publish article: %w", err)
	}
	result.Entry = entry
	result.Published = opts.Publish

	status := notify.StatusDraft
	if opts.Publish {
		status = notify.StatusPublished
	}
	b.notifyEntry(ctx, article.Title, topic.Title, status, entry)

	return result, nil
}

// topicPause spaces out consecutive articles so the batch does not hammer
// the LLM and platform APIs.
const topicPause = 5 * time.Second

// RunBatch discovers fresh topics and processes up to count of them. It
// returns the successful results; per-topic failures are logged and the
// batch keeps going.
func (b *Bot) RunBatch(ctx context.Context, count int, publish bool) ([]*Result, error) {
	fresh, err := b.ListTopics(ctx)
	if err != nil {
		return nil, err
	}
	if len(fresh) == 0 {
		b.log.InfoObj("no fresh topics to process", "batch_meta", map[string]any{"requested": count})
		return nil, nil
	}
	if count > 0 && len(fresh) > count {
		fresh = fresh[:count]
	}

	var results []*Result
	for i, topic := range fresh {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if i > 0 {
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			case <-time.After(topicPause):
			}
		}
		res, err := b.ProcessTopic(ctx, topic, publish)
		if err != nil {
			b.log.ErrorObj("topic processing failed", "process_error", map[string]any{
				"topic": topic.Title,
				"error": err.Error(),
			})
			continue
		}
		results = append(results, res)
	}

	b.log.InfoObj("batch finished", "batch_result", map[string]any{
		"requested": count,
		"processed": len(results),
	})
	return results, nil
}

// ResetPhotoRotation clears photo usage counters.
func (b *Bot) ResetPhotoRotation() error {
	return b.library.Reset()
}

func (b *Bot) notifyEntry(ctx context.Context, title, topic, status string, entry osnova.Entry) {
	evt := notify.NewEvent(title, topic, status)
	evt.EntryID = entry.ID
	evt.EntryURL = entry.URL
	b.dispatch(ctx, evt)
}

func (b *Bot) notifyStatus(ctx context.Context, title, topic, status string, cause error) {
	evt := notify.NewEvent(title, topic, status)
	if cause != nil {
		evt.Error = cause.Error()
	}
	b.dispatch(ctx, evt)
}

func (b *Bot) dispatch(ctx context.Context, evt Event) {
	delivered, err := b.fanout.Notify(ctx, evt)
	if err != nil {
		b.log.WarnObj("some notifiers failed", "notify_error", map[string]any{
			"delivered": delivered,
			"error":     err.Error(),
		})
	}
}

// Event aliases the notify event type for callers wiring custom sinks.
type Event = notify.Event
