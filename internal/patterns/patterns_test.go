package patterns

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/mkraus/slovnik/internal/llm"
	"github.com/mkraus/slovnik/internal/testutil"
)

type fakeChat struct {
	reply string
	err   error
}

func (f *fakeChat) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	return f.reply, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestParseRecords(t *testing.T) {
	reply := `[{"name":"Akuzativ po slovese","description":"d","example":"Vidím psa.","exampleTranslation":"I see a dog."}]`
	records, err := ParseRecords(reply)
	if err != nil {
		t.Fatalf("ParseRecords: %v", err)
	}
	if len(records) != 1 || records[0].Name != "Akuzativ po slovese" {
		t.Errorf("records = %+v", records)
	}
}

func TestParseRecords_ToleratesFencesAndProse(t *testing.T) {
	reply := "Sure, here you go:\n```json\n[{\"name\":\"X\"}]\n```\n"
	records, err := ParseRecords(reply)
	if err != nil {
		t.Fatalf("ParseRecords: %v", err)
	}
	if len(records) != 1 || records[0].Name != "X" {
		t.Errorf("records = %+v", records)
	}
}

func TestParseRecords_NoArray(t *testing.T) {
	if _, err := ParseRecords("no json here"); err == nil {
		t.Fatal("expected error")
	}
}

func TestRun_WritesNotes(t *testing.T) {
	_, store := testutil.TestVault(t)
	chat := &fakeChat{reply: `[
		{"name":"Akuzativ po slovese","description":"Accusative after verbs","example":"Vidím psa.","exampleTranslation":"I see a dog."},
		{"name":"","description":"unnamed, skipped"}
	]`}
	g := NewGenerator(chat, store, "", discardLogger())

	paths, err := g.Run(context.Background(), "pády", 2)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(paths) != 1 || paths[0] != "patterns/akuzativ_po_slovese.md" {
		t.Fatalf("paths = %v", paths)
	}

	data, err := store.Read(paths[0])
	if err != nil {
		t.Fatalf("note missing: %v", err)
	}
	note := string(data)
	for _, want := range []string{
		"# Akuzativ po slovese",
		"Accusative after verbs",
		"#flashcards/patterns/pady",
		"Vidím psa. !speak[Vidím psa.] ::: I see a dog.",
	} {
		if !strings.Contains(note, want) {
			t.Errorf("note missing %q:\n%s", want, note)
		}
	}
}

func TestRun_ChatError(t *testing.T) {
	_, store := testutil.TestVault(t)
	g := NewGenerator(&fakeChat{err: errors.New("boom")}, store, "patterns", discardLogger())
	if _, err := g.Run(context.Background(), "t", 1); err == nil {
		t.Fatal("expected error")
	}
}
