package storage

import (
	"fmt"
	"strings"
)

// Package storage provides the local DB abstraction for processed-topic
// tracking and photo usage rotation.

// Store persists processed topic keys and per-photo usage counters.
type Store interface {
	Close() error

	// SeenTopic reports whether a topic key was already processed.
	SeenTopic(key string) (bool, error)
	// MarkTopic records a topic key as processed.
	MarkTopic(key string) error

	// PhotoUsage returns the usage counter for every known photo name.
	PhotoUsage() (map[string]uint64, error)
	// IncrementPhoto bumps the usage counter for a photo name.
	IncrementPhoto(name string) error
	// ResetPhotoUsage clears all photo usage counters.
	ResetPhotoUsage() error
}

// NewStore creates the configured storage backend.
func NewStore(typ, path string) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

type noopStore struct{}

func (noopStore) Close() error                          { return nil }
func (noopStore) SeenTopic(string) (bool, error)        { return false, nil }
func (noopStore) MarkTopic(string) error                { return nil }
func (noopStore) PhotoUsage() (map[string]uint64, error) { return nil, nil }
func (noopStore) IncrementPhoto(string) error           { return nil }
func (noopStore) ResetPhotoUsage() error                { return nil }
