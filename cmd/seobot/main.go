package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/osari-hq/seobot/internal/app"
	"github.com/osari-hq/seobot/internal/config"
	"github.com/osari-hq/seobot/internal/domain"
	"github.com/osari-hq/seobot/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seobot failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		count       = flag.Int("count", 1, "number of topics to process")
		topic       = flag.String("topic", "", "process a single manual topic instead of discovered ones")
		description = flag.String("description", "", "extra context for the manual topic")
		publish     = flag.Bool("publish", false, "publish entries directly instead of leaving drafts")
		listTopics  = flag.Bool("list-topics", false, "print fresh topics and exit")
		resetPhotos = flag.Bool("reset-photos", false, "clear photo rotation counters and exit")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if _, err := logger.Init(cfg.LogLevel); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()
	log := logger.Default()

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot, err := app.NewBot(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("init bot: %w", err)
	}
	defer bot.Close()

	switch {
	case *resetPhotos:
		if err := bot.ResetPhotoRotation(); err != nil {
			return err
		}
		fmt.Println("photo rotation counters cleared")
		return nil

	case *listTopics:
		fresh, err := bot.ListTopics(ctx)
		if err != nil {
			return err
		}
		if len(fresh) == 0 {
			fmt.Println("no fresh topics")
			return nil
		}
		for _, t := range fresh {
			fmt.Printf("[%s] %s\n", t.Source, t.Title)
		}
		return nil

	case strings.TrimSpace(*topic) != "":
		res, err := bot.ProcessTopic(ctx, domain.Topic{
			Title:       strings.TrimSpace(*topic),
			Description: strings.TrimSpace(*description),
			Source:      domain.SourceManual,
		}, *publish)
		if err != nil {
			return err
		}
		printResult(res)
		return nil

	default:
		results, err := bot.RunBatch(ctx, *count, *publish)
		if err != nil {
			return err
		}
		for _, res := range results {
			printResult(res)
		}
		fmt.Printf("processed %d article(s)\n", len(results))
		return nil
	}
}

func printResult(res *app.Result) {
	state := "draft"
	if res.Published {
		state = "published"
	}
	fmt.Printf("%s\n  archive: %s\n  entry:   %s (%s)\n", res.Article.Title, res.ArchiveFile, res.Entry.URL, state)
}
