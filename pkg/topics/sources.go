package topics

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Package topics contains pluggable topic source configs (YAML/JSON) and the
// fetchers that turn them into candidate article subjects.

// Source types.
const (
	SourceTypeRSS            = "rss"
	SourceTypeCompetitorPage = "competitor_page"
	SourceTypeGoogleNews     = "google_news"
	SourceTypeYandexNews     = "yandex_news"
)

type Source struct {
	ID             string         `json:"id" yaml:"id"`
	Name           string         `json:"name" yaml:"name"`
	Type           string         `json:"type" yaml:"type"`
	SourceURL      string         `json:"source_url" yaml:"source_url"`
	Limit          int            `json:"limit" yaml:"limit"`
	RequestDelayMs int            `json:"request_delay_ms" yaml:"request_delay_ms"`
	Config         map[string]any `json:"config" yaml:"config"`
}

type registry struct {
	Sources []Source `json:"sources" yaml:"sources"`
}

var (
	regMu                 sync.RWMutex
	currentReg            registry
	sourcesIdx            map[string]Source
	defaultRequestDelayMs = 500
	defaultTopicLimit     = 10
)

// Sources returns a copy of the currently loaded source registry.
func Sources() []Source {
	regMu.RLock()
	defer regMu.RUnlock()

	if len(currentReg.Sources) == 0 {
		return nil
	}

	out := make([]Source, len(currentReg.Sources))
	copy(out, currentReg.Sources)
	return out
}

// SourceByID returns the source entry for the given id, if loaded.
func SourceByID(id string) (Source, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Source{}, false
	}

	regMu.RLock()
	defer regMu.RUnlock()

	if sourcesIdx == nil {
		return Source{}, false
	}

	s, ok := sourcesIdx[id]
	return s, ok
}

// LoadSources loads the source registry from file.
func LoadSources(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("sources file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open sources file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read sources file: %w", err)
	}

	reg, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return err
	}

	if len(reg.Sources) == 0 {
		return errors.New("sources file contains no source entries")
	}

	idx := make(map[string]Source, len(reg.Sources))
	for i := range reg.Sources {
		s := sanitizeSource(reg.Sources[i])
		if err := validateSource(s); err != nil {
			return fmt.Errorf("source[%d]: %w", i, err)
		}
		if _, exists := idx[s.ID]; exists {
			return fmt.Errorf("duplicate source id %q", s.ID)
		}
		reg.Sources[i] = s
		idx[s.ID] = s
	}

	regMu.Lock()
	currentReg = reg
	sourcesIdx = idx
	regMu.Unlock()

	return nil
}

func parseRegistry(data []byte, ext string) (registry, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if reg, err := unmarshalRegistry(d.name, data, d.fn); err == nil {
			return reg, nil
		}
	}

	return registry{}, errors.New("sources file format not recognized (expected YAML or JSON)")
}

type unmarshalFn func([]byte, any) error

func unmarshalRegistry(name string, data []byte, fn unmarshalFn) (registry, error) {
	var reg registry
	if err := fn(data, &reg); err != nil {
		return registry{}, fmt.Errorf("decode %s sources: %w", name, err)
	}
	return reg, nil
}

func sanitizeSource(s Source) Source {
	s.ID = strings.TrimSpace(s.ID)
	s.Name = strings.TrimSpace(s.Name)
	s.Type = strings.TrimSpace(s.Type)
	s.SourceURL = strings.TrimSpace(s.SourceURL)

	if s.Config == nil {
		s.Config = map[string]any{}
	}
	if s.RequestDelayMs <= 0 {
		s.RequestDelayMs = defaultRequestDelayMs
	}
	if s.Limit <= 0 {
		s.Limit = defaultTopicLimit
	}

	return s
}

func validateSource(s Source) error {
	if s.ID == "" {
		return errors.New("id is required")
	}
	if s.Name == "" {
		return fmt.Errorf("name is required for source %q", s.ID)
	}
	if s.Type == "" {
		return fmt.Errorf("type is required for source %q", s.ID)
	}
	// News search sources can derive their URL from a configured query.
	if s.SourceURL == "" && ConfigString(s, ConfigQueryKey, "") == "" {
		return fmt.Errorf("source %q needs source_url or a query", s.ID)
	}
	return nil
}

// RequestDelay returns the per-request throttle duration for the source.
func (s Source) RequestDelay() time.Duration {
	if s.RequestDelayMs <= 0 {
		return time.Duration(defaultRequestDelayMs) * time.Millisecond
	}
	return time.Duration(s.RequestDelayMs) * time.Millisecond
}
