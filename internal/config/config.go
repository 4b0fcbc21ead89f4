package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	// Publishing platform (Osnova).
	OsnovaToken   string `mapstructure:"osnova_token"`
	OsnovaBaseURL string `mapstructure:"osnova_base_url"`
	SubsiteID     int    `mapstructure:"osnova_subsite_id"`
	PublishDirect bool   `mapstructure:"publish_direct"`

	// LLM.
	LLMAPIKey  string `mapstructure:"llm_api_key"`
	LLMModel   string `mapstructure:"llm_model"`
	LLMBaseURL string `mapstructure:"llm_base_url"`

	// Article generation parameters.
	SiteURL          string `mapstructure:"site_url"`
	SiteAnchor       string `mapstructure:"site_anchor"`
	NicheKeywordsCSV string `mapstructure:"niche_keywords"`
	MinWords         int    `mapstructure:"article_min_words"`
	LinksCount       int    `mapstructure:"article_links_count"`
	Tone             string `mapstructure:"article_tone"`
	PhotosPerArticle int    `mapstructure:"photos_per_article"`

	// Local resources.
	PhotosDir     string `mapstructure:"photos_dir"`
	ArchiveDir    string `mapstructure:"archive_dir"`
	SourcesFile   string `mapstructure:"sources_file"`
	NotifiersFile string `mapstructure:"notifiers_file"`

	// Storage.
	StorageType string `mapstructure:"storage_type"`
	BBoltPath   string `mapstructure:"bbolt_path"`

	// Control panel.
	PanelAddr string `mapstructure:"panel_addr"`

	// Timeouts (seconds in config, durations derived).
	UploadTimeoutSeconds int64         `mapstructure:"upload_timeout_seconds"`
	EntryTimeoutSeconds  int64         `mapstructure:"entry_timeout_seconds"`
	FetchTimeoutSeconds  int64         `mapstructure:"fetch_timeout_seconds"`
	UploadTimeout        time.Duration `mapstructure:"-"`
	EntryTimeout         time.Duration `mapstructure:"-"`
	FetchTimeout         time.Duration `mapstructure:"-"`
}

// NicheKeywords returns the configured niche keywords as a slice.
func (c *Config) NicheKeywords() []string {
	if c == nil || strings.TrimSpace(c.NicheKeywordsCSV) == "" {
		return nil
	}
	parts := strings.Split(c.NicheKeywordsCSV, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "osari-seobot")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("osnova_base_url", "https://api.vc.ru/v2.8")
	v.SetDefault("publish_direct", false)
	v.SetDefault("llm_model", "gpt-4o")
	v.SetDefault("article_min_words", 2000)
	v.SetDefault("article_links_count", 2)
	v.SetDefault("article_tone", "expert, informative, with practical advice")
	v.SetDefault("photos_per_article", 3)
	v.SetDefault("photos_dir", "./photos")
	v.SetDefault("archive_dir", "./articles")
	v.SetDefault("sources_file", "./configs/sources.yaml")
	v.SetDefault("notifiers_file", "")
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/seobot.db")
	v.SetDefault("panel_addr", ":5000")
	v.SetDefault("upload_timeout_seconds", 60)
	v.SetDefault("entry_timeout_seconds", 30)
	v.SetDefault("fetch_timeout_seconds", 15)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	for name, secs := range map[string]int64{
		"upload_timeout_seconds": cfg.UploadTimeoutSeconds,
		"entry_timeout_seconds":  cfg.EntryTimeoutSeconds,
		"fetch_timeout_seconds":  cfg.FetchTimeoutSeconds,
	} {
		if secs <= 0 {
			return nil, fmt.Errorf("invalid %s (must be positive seconds)", name)
		}
	}
	cfg.UploadTimeout = time.Duration(cfg.UploadTimeoutSeconds) * time.Second
	cfg.EntryTimeout = time.Duration(cfg.EntryTimeoutSeconds) * time.Second
	cfg.FetchTimeout = time.Duration(cfg.FetchTimeoutSeconds) * time.Second

	return &cfg, nil
}

// ErrMissingCredential reports a required credential absent from the config.
var ErrMissingCredential = errors.New("missing required credential")

// Validate fails fast when a required external credential is absent, before
// any network call is attempted.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if strings.TrimSpace(c.LLMAPIKey) == "" {
		return fmt.Errorf("%w: llm_api_key", ErrMissingCredential)
	}
	if strings.TrimSpace(c.OsnovaToken) == "" {
		return fmt.Errorf("%w: osnova_token", ErrMissingCredential)
	}
	return nil
}
