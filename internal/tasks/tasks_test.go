package tasks

import (
	"errors"
	"sync"
	"testing"
)

func TestStoreLifecycle(t *testing.T) {
	store := NewStore()

	id := store.Start("massage chairs")
	task, ok := store.Get(id)
	if !ok {
		t.Fatal("started task not found")
	}
	if task.Status != StatusRunning || task.Topic != "massage chairs" {
		t.Fatalf("unexpected task %+v", task)
	}

	store.Done(id, "https://vc.ru/s/x/1", []string{"a.html"})
	task, _ = store.Get(id)
	if task.Status != StatusDone || task.EntryURL != "https://vc.ru/s/x/1" {
		t.Fatalf("unexpected task %+v", task)
	}
	if task.FinishedAt.IsZero() {
		t.Fatal("FinishedAt not set")
	}
}

func TestStoreFail(t *testing.T) {
	store := NewStore()

	id := store.Start("t")
	store.Fail(id, errors.New("llm exploded"))

	task, _ := store.Get(id)
	if task.Status != StatusFailed || task.Error != "llm exploded" {
		t.Fatalf("unexpected task %+v", task)
	}
}

func TestStoreUnknownIDIsNoop(t *testing.T) {
	store := NewStore()
	store.Done("missing", "", nil)
	store.Fail("missing", errors.New("x"))
	if _, ok := store.Get("missing"); ok {
		t.Fatal("unknown id should not exist")
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := store.Start("topic")
			store.Done(id, "url", nil)
			if task, ok := store.Get(id); !ok || task.Status != StatusDone {
				t.Errorf("task %s not done", id)
			}
		}()
	}
	wg.Wait()
}

func TestNewIDUnique(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		id := NewID()
		if len(id) != 16 {
			t.Fatalf("id length = %d", len(id))
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = struct{}{}
	}
}
