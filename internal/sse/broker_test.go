package sse

import (
	"strings"
	"testing"
	"time"
)

func receive(t *testing.T, ch chan []byte) string {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return string(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return ""
	}
}

func TestBroker_PublishWordEvent(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishWordEvent("created", "words/dělat.md")
	msg := receive(t, ch)
	if !strings.Contains(msg, "event: word.created") {
		t.Errorf("msg = %q", msg)
	}
	if !strings.Contains(msg, `"path":"words/dělat.md"`) {
		t.Errorf("msg = %q", msg)
	}

	b.PublishWordEvent("indexed", "words/mít.md")
	if msg := receive(t, ch); !strings.Contains(msg, "event: word.updated") {
		t.Errorf("indexed must map to word.updated, got %q", msg)
	}
}

func TestBroker_PublishProgress(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishProgress(Progress{Page: "vocab.md", Processed: 3, Failed: 1})
	msg := receive(t, ch)
	if !strings.Contains(msg, "event: ingest.progress") {
		t.Errorf("msg = %q", msg)
	}
	if !strings.Contains(msg, `"processed":3`) {
		t.Errorf("msg = %q", msg)
	}
}

func TestBroker_ClientCount(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	if n := b.ClientCount(); n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
	ch := b.Subscribe()
	if n := b.ClientCount(); n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
	b.Unsubscribe(ch)
	if n := b.ClientCount(); n != 0 {
		t.Errorf("count after unsubscribe = %d, want 0", n)
	}
}

func TestBroker_CloseClosesClients(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe()
	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed")
	}

	// Publishing after close is a no-op, not a panic.
	b.PublishWordEvent("created", "x.md")
}
