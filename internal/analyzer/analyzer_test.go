package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mkraus/slovnik/internal/apperr"
	"github.com/mkraus/slovnik/internal/word"
)

func TestBalancer_RoundRobin(t *testing.T) {
	b := Balancer{Endpoints: []string{"a", "b", "c"}}
	var got []string
	for i := 0; i < 5; i++ {
		endpoint, next, err := b.PickNext()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, endpoint)
		b = next
	}
	want := "a,b,c,a,b"
	if s := strings.Join(got, ","); s != want {
		t.Errorf("rotation = %s, want %s", s, want)
	}
}

func TestBalancer_Empty(t *testing.T) {
	b := Balancer{}
	if _, _, err := b.PickNext(); !errors.Is(err, apperr.ErrNoEndpoints) {
		t.Fatalf("err = %v, want ErrNoEndpoints", err)
	}
}

func TestBalancer_ValueSemantics(t *testing.T) {
	b := Balancer{Endpoints: []string{"a", "b"}}
	first, _, _ := b.PickNext()
	second, _, _ := b.PickNext()
	if first != second {
		t.Error("PickNext must not mutate the receiver")
	}
}

func noSleep(ctx context.Context, d time.Duration) error { return nil }

func analysisHandler(t *testing.T, g word.GrammarAnalysis) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/analyze" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("word"); got == "" {
			t.Error("missing word query parameter")
		}
		if err := json.NewEncoder(w).Encode(g); err != nil {
			t.Errorf("encode: %v", err)
		}
	}
}

func TestServiceAnalyze_Success(t *testing.T) {
	srv := httptest.NewServer(analysisHandler(t, word.GrammarAnalysis{
		PartOfSpeechFull: "Sloveso nedokonavé",
		PartOfSpeechType: word.Verb,
		VerbPattern:      "Dělat",
	}))
	defer srv.Close()

	svc := NewService([]string{srv.URL}, WithSleep(noSleep))
	g, err := svc.Analyze(context.Background(), "dělat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.PartOfSpeechType != word.Verb || g.VerbPattern != "Dělat" {
		t.Errorf("analysis = %+v", g)
	}
	if !strings.Contains(g.FormattedResult, "Vzor: Dělat") {
		t.Errorf("formatted report not derived: %q", g.FormattedResult)
	}
}

func TestServiceAnalyze_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(word.GrammarAnalysis{PartOfSpeechType: word.Noun})
	}))
	defer srv.Close()

	var sleeps []time.Duration
	svc := NewService([]string{srv.URL},
		WithRetries(3, 2*time.Second),
		WithSleep(func(ctx context.Context, d time.Duration) error {
			sleeps = append(sleeps, d)
			return nil
		}))

	g, err := svc.Analyze(context.Background(), "kniha")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.PartOfSpeechType != word.Noun {
		t.Errorf("analysis = %+v", g)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
	// Backoff doubles per retry.
	if len(sleeps) != 2 || sleeps[0] != 2*time.Second || sleeps[1] != 4*time.Second {
		t.Errorf("sleeps = %v", sleeps)
	}
}

func TestServiceAnalyze_ExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewService([]string{srv.URL}, WithRetries(2, time.Millisecond), WithSleep(noSleep))
	if _, err := svc.Analyze(context.Background(), "x"); err == nil {
		t.Fatal("expected terminal error")
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3 (1 + 2 retries)", calls.Load())
	}
}

func TestServiceAnalyze_RotatesEndpoints(t *testing.T) {
	var primary, secondary atomic.Int32
	fail := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		primary.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secondary.Add(1)
		json.NewEncoder(w).Encode(word.GrammarAnalysis{PartOfSpeechType: word.Adverb})
	})
	srvA := httptest.NewServer(fail)
	defer srvA.Close()
	srvB := httptest.NewServer(ok)
	defer srvB.Close()

	svc := NewService([]string{srvA.URL, srvB.URL}, WithSleep(noSleep))
	g, err := svc.Analyze(context.Background(), "rychle")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.PartOfSpeechType != word.Adverb {
		t.Errorf("analysis = %+v", g)
	}
	if primary.Load() != 1 || secondary.Load() != 1 {
		t.Errorf("calls = %d/%d, want 1/1", primary.Load(), secondary.Load())
	}
}

func TestServiceAnalyze_ContextCancelledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	svc := NewService([]string{srv.URL}, WithSleep(func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}))
	_, err := svc.Analyze(ctx, "x")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
