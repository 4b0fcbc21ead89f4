package storage

import (
	"testing"
)

func TestBoltStoreMarksTopics(t *testing.T) {
	dir := t.TempDir()

	store, err := openBolt(dir + "/seobot.db")
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	defer store.Close()

	seen, err := store.SeenTopic("howtochooseamassagechair")
	if err != nil || seen {
		t.Fatalf("expected unseen topic, seen=%v err=%v", seen, err)
	}

	if err := store.MarkTopic("howtochooseamassagechair"); err != nil {
		t.Fatalf("MarkTopic: %v", err)
	}

	seen, err = store.SeenTopic("howtochooseamassagechair")
	if err != nil || !seen {
		t.Fatalf("expected topic marked as seen, got seen=%v err=%v", seen, err)
	}
}

func TestBoltStorePhotoUsageRoundTrip(t *testing.T) {
	dir := t.TempDir()

	store, err := openBolt(dir + "/seobot.db")
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	defer store.Close()

	for i := 0; i < 3; i++ {
		if err := store.IncrementPhoto("chair.jpg"); err != nil {
			t.Fatalf("IncrementPhoto: %v", err)
		}
	}
	if err := store.IncrementPhoto("sofa.png"); err != nil {
		t.Fatalf("IncrementPhoto: %v", err)
	}

	usage, err := store.PhotoUsage()
	if err != nil {
		t.Fatalf("PhotoUsage: %v", err)
	}
	if usage["chair.jpg"] != 3 || usage["sofa.png"] != 1 {
		t.Fatalf("unexpected usage counters: %v", usage)
	}

	if err := store.ResetPhotoUsage(); err != nil {
		t.Fatalf("ResetPhotoUsage: %v", err)
	}
	usage, err = store.PhotoUsage()
	if err != nil {
		t.Fatalf("PhotoUsage after reset: %v", err)
	}
	if len(usage) != 0 {
		t.Fatalf("expected empty usage after reset, got %v", usage)
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "")
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.MarkTopic("x"); err != nil {
		t.Fatalf("noop store MarkTopic: %v", err)
	}
}
