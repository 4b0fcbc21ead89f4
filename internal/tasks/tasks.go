// Package tasks tracks the state of long-running generation jobs started
// from the control panel. The store is in-memory; restarting the panel
// forgets finished work, which is fine because the archive on disk is the
// durable record.
package tasks

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// Task statuses.
const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// Task is a snapshot of one job's state.
type Task struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	Topic      string    `json:"topic"`
	Error      string    `json:"error,omitempty"`
	EntryURL   string    `json:"entry_url,omitempty"`
	Archived   []string  `json:"archived,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

// Store holds task snapshots keyed by id. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	tasks map[string]Task
}

// NewStore creates an empty task store.
func NewStore() *Store {
	return &Store{tasks: make(map[string]Task)}
}

// NewID returns a random 16-hex-char task identifier.
func NewID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform is broken; fall back to
		// a time-derived id rather than panicking the panel.
		return hex.EncodeToString([]byte(time.Now().Format("150405.000")))[:16]
	}
	return hex.EncodeToString(buf)
}

// Start registers a new running task and returns its id.
func (s *Store) Start(topic string) string {
	id := NewID()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[id] = Task{
		ID:        id,
		Status:    StatusRunning,
		Topic:     topic,
		StartedAt: time.Now(),
	}
	return id
}

// Done marks the task finished, recording the entry URL and archived files.
func (s *Store) Done(id, entryURL string, archived []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return
	}
	task.Status = StatusDone
	task.EntryURL = entryURL
	task.Archived = archived
	task.FinishedAt = time.Now()
	s.tasks[id] = task
}

// Fail marks the task failed with the given error message.
func (s *Store) Fail(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return
	}
	task.Status = StatusFailed
	if err != nil {
		task.Error = err.Error()
	}
	task.FinishedAt = time.Now()
	s.tasks[id] = task
}

// Get returns the task snapshot for id.
func (s *Store) Get(id string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	return task, ok
}
