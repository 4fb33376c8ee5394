package noteservice

import (
	"context"
	"errors"
	"testing"

	"github.com/mkraus/slovnik/internal/apperr"
	"github.com/mkraus/slovnik/internal/testutil"
)

const sampleNote = "---\nslovo: \"kniha\"\ntranslation: \"book\"\ntheme: \"things\"\n---\n# kniha\n\n## Flashcards\n#flashcards/czwords/all\nkniha !speak[kniha] ::: book\n"

func TestGetWord_IndexesOnDemand(t *testing.T) {
	_, store := testutil.TestVault(t)
	db := testutil.TestDB(t)
	svc := NewService(store, db, nil)

	// The note exists on disk but was never indexed.
	if err := store.Write("words/kniha.md", []byte(sampleNote)); err != nil {
		t.Fatal(err)
	}

	detail, err := svc.GetWord(context.Background(), "words/kniha.md")
	if err != nil {
		t.Fatalf("GetWord: %v", err)
	}
	if detail.Headword != "kniha" || detail.Translation != "book" {
		t.Errorf("detail = %+v", detail)
	}
	if len(detail.SpeakTexts) != 1 || detail.SpeakTexts[0] != "kniha" {
		t.Errorf("speak texts = %v", detail.SpeakTexts)
	}
	if detail.Tags == nil {
		t.Error("tags must never be nil")
	}

	// The on-demand indexing is persistent.
	if _, err := db.GetWord("words/kniha.md"); err != nil {
		t.Errorf("note not indexed after GetWord: %v", err)
	}
}

func TestGetWord_Missing(t *testing.T) {
	_, store := testutil.TestVault(t)
	svc := NewService(store, testutil.TestDB(t), nil)
	if _, err := svc.GetWord(context.Background(), "words/missing.md"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestIngestPage_Unconfigured(t *testing.T) {
	_, store := testutil.TestVault(t)
	svc := NewService(store, testutil.TestDB(t), nil)
	if _, err := svc.IngestPage(context.Background(), "vocab.md"); err == nil {
		t.Fatal("expected error when the pipeline is not wired")
	}
}
