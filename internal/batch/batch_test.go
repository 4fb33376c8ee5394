package batch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mkraus/slovnik/internal/testutil"
	"github.com/mkraus/slovnik/internal/word"
)

type fakeAnalyzer struct {
	analyses map[string]*word.GrammarAnalysis
	calls    []string
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, headword string) (*word.GrammarAnalysis, error) {
	f.calls = append(f.calls, headword)
	g, ok := f.analyses[headword]
	if !ok {
		return nil, errors.New("analysis failed")
	}
	return g, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func noSleep(ctx context.Context, d time.Duration) error { return nil }

func TestProcessRecords_WritesAndIndexes(t *testing.T) {
	_, store := testutil.TestVault(t)
	db := testutil.TestDB(t)

	fake := &fakeAnalyzer{analyses: map[string]*word.GrammarAnalysis{
		"dělat": {
			PartOfSpeechFull: "Sloveso nedokonavé",
			PartOfSpeechType: word.Verb,
			VerbPattern:      "Dělat",
		},
	}}
	var events []string
	p := NewProcessor(store, discardLogger(),
		WithAnalyzer(fake),
		WithIndex(db),
		WithSleep(noSleep),
		WithEventCallback(func(kind, path string) { events = append(events, kind+":"+path) }))

	report := p.ProcessRecords(context.Background(), []word.Record{
		{Headword: "dělat", Translation: "to do", ThemeTag: "Basic Verbs"},
	})
	if report.Processed != 1 || report.Failed != 0 || report.NoAnalysis != 0 {
		t.Fatalf("report = %+v", report)
	}

	data, err := store.Read("words/dělat.md")
	if err != nil {
		t.Fatalf("note not written: %v", err)
	}
	if !strings.Contains(string(data), "vzor: \"Dělat\"") {
		t.Errorf("analysis missing from note:\n%s", data)
	}

	row, err := db.GetWord("words/dělat.md")
	if err != nil {
		t.Fatalf("note not indexed: %v", err)
	}
	if row.Headword != "dělat" {
		t.Errorf("indexed row = %+v", row)
	}

	if len(events) != 1 || events[0] != "created:words/dělat.md" {
		t.Errorf("events = %v", events)
	}
}

func TestProcessRecords_ContinuesPastFailures(t *testing.T) {
	_, store := testutil.TestVault(t)
	p := NewProcessor(store, discardLogger(), WithSleep(noSleep))

	report := p.ProcessRecords(context.Background(), []word.Record{
		{Headword: "", Translation: "broken row"},
		{Headword: "mít", Translation: "to have", ThemeTag: "Basic Verbs"},
	})
	if report.Failed != 1 || report.Processed != 1 {
		t.Fatalf("report = %+v", report)
	}
	if len(report.Errors) != 1 {
		t.Fatalf("errors = %+v", report.Errors)
	}
	if _, err := store.Read("words/mít.md"); err != nil {
		t.Errorf("surviving word not written: %v", err)
	}
}

func TestProcessRecords_AnalyzerFailureStillWritesNote(t *testing.T) {
	_, store := testutil.TestVault(t)
	fake := &fakeAnalyzer{} // fails for every word
	p := NewProcessor(store, discardLogger(), WithAnalyzer(fake), WithSleep(noSleep))

	report := p.ProcessRecords(context.Background(), []word.Record{
		{Headword: "kniha", Translation: "book", ThemeTag: "Věci"},
	})
	if report.Processed != 1 || report.NoAnalysis != 1 || report.Failed != 0 {
		t.Fatalf("report = %+v", report)
	}
	data, err := store.Read("words/kniha.md")
	if err != nil {
		t.Fatalf("note missing: %v", err)
	}
	if !strings.Contains(string(data), "partOfSpeech: \"NOT_DEFINED\"") {
		t.Errorf("offline note should carry the sentinel:\n%s", data)
	}
}

func TestProcessRecords_DelayBetweenAnalyzerCalls(t *testing.T) {
	_, store := testutil.TestVault(t)
	fake := &fakeAnalyzer{analyses: map[string]*word.GrammarAnalysis{}}

	var sleeps int
	p := NewProcessor(store, discardLogger(),
		WithAnalyzer(fake),
		WithRequestDelay(10*time.Second),
		WithSleep(func(ctx context.Context, d time.Duration) error {
			if d != 10*time.Second {
				t.Errorf("delay = %v", d)
			}
			sleeps++
			return nil
		}))

	p.ProcessRecords(context.Background(), []word.Record{
		{Headword: "a", Translation: "and", ThemeTag: "Spojky"},
		{Headword: "ale", Translation: "but", ThemeTag: "Spojky"},
		{Headword: "nebo", Translation: "or", ThemeTag: "Spojky"},
	})
	// No sleep before the first word, one before each subsequent one.
	if sleeps != 2 {
		t.Errorf("sleeps = %d, want 2", sleeps)
	}
	if len(fake.calls) != 3 {
		t.Errorf("analyzer calls = %v", fake.calls)
	}
}

func TestProcessRecords_NoDelayWithoutAnalyzer(t *testing.T) {
	_, store := testutil.TestVault(t)
	p := NewProcessor(store, discardLogger(), WithSleep(func(ctx context.Context, d time.Duration) error {
		t.Error("offline mode must not pace requests")
		return nil
	}))
	report := p.ProcessRecords(context.Background(), []word.Record{
		{Headword: "a", Translation: "and", ThemeTag: "Spojky"},
		{Headword: "ale", Translation: "but", ThemeTag: "Spojky"},
	})
	if report.Processed != 2 {
		t.Fatalf("report = %+v", report)
	}
}

func TestProcessRecords_ContextCancellation(t *testing.T) {
	_, store := testutil.TestVault(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewProcessor(store, discardLogger(), WithSleep(noSleep))
	report := p.ProcessRecords(ctx, []word.Record{
		{Headword: "a", Translation: "and", ThemeTag: "Spojky"},
		{Headword: "ale", Translation: "but", ThemeTag: "Spojky"},
	})
	if report.Failed != 2 || report.Processed != 0 {
		t.Fatalf("report = %+v", report)
	}
}

func TestProcessPage(t *testing.T) {
	_, store := testutil.TestVault(t)
	page := "## Basic Verbs\n\n| Slovo | Překlad |\n| --- | --- |\n| dělat | to do |\n| mít | to have |\n"
	if err := store.Write("vocab.md", []byte(page)); err != nil {
		t.Fatal(err)
	}

	p := NewProcessor(store, discardLogger(), WithSleep(noSleep))
	report, err := p.ProcessPage(context.Background(), "vocab.md")
	if err != nil {
		t.Fatalf("ProcessPage: %v", err)
	}
	if report.Processed != 2 {
		t.Fatalf("report = %+v", report)
	}
	data, err := store.Read("words/dělat.md")
	if err != nil {
		t.Fatalf("note missing: %v", err)
	}
	if !strings.Contains(string(data), "theme: \"basic_verbs\"") {
		t.Errorf("theme not propagated:\n%s", data)
	}
}

func TestProcessPage_MissingPage(t *testing.T) {
	_, store := testutil.TestVault(t)
	p := NewProcessor(store, discardLogger())
	if _, err := p.ProcessPage(context.Background(), "missing.md"); err == nil {
		t.Fatal("expected error for missing page")
	}
}

func TestProcessRecords_NoteLinkHintPlacement(t *testing.T) {
	_, store := testutil.TestVault(t)
	p := NewProcessor(store, discardLogger())
	report := p.ProcessRecords(context.Background(), []word.Record{
		{Headword: "mít", Translation: "to have", ThemeTag: "Basic Verbs", NoteLinkHint: "[mít](verbs/mít.md)"},
	})
	if report.Processed != 1 {
		t.Fatalf("report = %+v", report)
	}
	if _, err := store.Read("verbs/mít.md"); err != nil {
		t.Errorf("note not at hinted path: %v", err)
	}
}
