package notify

import (
	"context"
	"errors"
	"testing"
)

type stubNotifier struct {
	id    string
	err   error
	calls int
}

func (s *stubNotifier) ID() string   { return s.id }
func (s *stubNotifier) Type() string { return "stub" }
func (s *stubNotifier) Notify(context.Context, Event) error {
	s.calls++
	return s.err
}

func TestFanoutNotifiesAll(t *testing.T) {
	a := &stubNotifier{id: "a"}
	b := &stubNotifier{id: "b"}
	fanout := NewFanout([]Notifier{a, nil, b})

	if fanout.Size() != 2 {
		t.Fatalf("Size() = %d", fanout.Size())
	}

	n, err := fanout.Notify(context.Background(), NewEvent("A", "t", StatusPublished))
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if n != 2 || a.calls != 1 || b.calls != 1 {
		t.Fatalf("delivered = %d (a=%d b=%d)", n, a.calls, b.calls)
	}
}

func TestFanoutCollectsErrorsButKeepsGoing(t *testing.T) {
	a := &stubNotifier{id: "a", err: errors.New("down")}
	b := &stubNotifier{id: "b"}
	fanout := NewFanout([]Notifier{a, b})

	n, err := fanout.Notify(context.Background(), NewEvent("A", "t", StatusPublished))
	if err == nil {
		t.Fatal("expected joined error")
	}
	if n != 1 || b.calls != 1 {
		t.Fatalf("delivered = %d, b.calls = %d", n, b.calls)
	}
}

func TestFanoutEmptyIsNoop(t *testing.T) {
	var fanout *Fanout
	if n, err := fanout.Notify(context.Background(), Event{}); n != 0 || err != nil {
		t.Fatalf("nil fanout: n=%d err=%v", n, err)
	}
}

func TestRegistryRejectsUnknownType(t *testing.T) {
	reg := DefaultRegistry()
	_, err := reg.NotifierFor(context.Background(), NotifierConfig{ID: "x", Type: "carrier-pigeon"}, nil)
	if err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestBuildAllBuildsHTTPNotifiers(t *testing.T) {
	reg := DefaultRegistry()
	notifiers, err := BuildAll(context.Background(), reg, []NotifierConfig{
		{ID: "hook", Type: TypeHTTP, HTTP: &HTTPNotifierConfig{URL: "https://x", Method: "POST", TimeoutSeconds: 5}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(notifiers) != 1 || notifiers[0].Type() != TypeHTTP {
		t.Fatalf("notifiers = %+v", notifiers)
	}
}
