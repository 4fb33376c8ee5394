// Package noteservice coordinates storage, index, and batch operations for
// the API and MCP surfaces.
package noteservice

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/mkraus/slovnik/internal/apperr"
	"github.com/mkraus/slovnik/internal/batch"
	"github.com/mkraus/slovnik/internal/checksum"
	"github.com/mkraus/slovnik/internal/index"
	"github.com/mkraus/slovnik/internal/speak"
	"github.com/mkraus/slovnik/internal/storage"
)

// WordDetail is the full representation of one word note.
type WordDetail struct {
	Path         string    `json:"path"`
	Headword     string    `json:"headword"`
	Translation  string    `json:"translation"`
	Theme        string    `json:"theme"`
	PartOfSpeech string    `json:"part_of_speech"`
	Pattern      string    `json:"vzor,omitempty"`
	Tags         []string  `json:"tags"`
	SpeakTexts   []string  `json:"speak_texts,omitempty"`
	Content      string    `json:"content"`
	Checksum     string    `json:"checksum"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Service coordinates the vault, the word index, and the batch pipeline.
type Service struct {
	store storage.Provider
	db    *index.DB
	proc  *batch.Processor
}

// NewService creates a new note service. proc may be nil when ingestion is
// not wired (MCP-only mode without an analyzer, for instance).
func NewService(store storage.Provider, db *index.DB, proc *batch.Processor) *Service {
	return &Service{store: store, db: db, proc: proc}
}

// GetWord reads a word note from storage and enriches it with index fields.
func (s *Service) GetWord(_ context.Context, path string) (*WordDetail, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	row, err := s.db.GetWord(path)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		// Not indexed yet; index on demand so the detail is complete.
		if err := index.IndexNote(s.db, path, data); err != nil {
			return nil, err
		}
		if row, err = s.db.GetWord(path); err != nil {
			return nil, err
		}
	}
	return &WordDetail{
		Path:         row.Path,
		Headword:     row.Headword,
		Translation:  row.Translation,
		Theme:        row.Theme,
		PartOfSpeech: row.PartOfSpeech,
		Pattern:      row.Pattern,
		Tags:         nonNilSlice(row.Tags),
		SpeakTexts:   speak.Markers(string(data)),
		Content:      string(data),
		Checksum:     checksum.Sum(data),
		UpdatedAt:    row.UpdatedAt,
	}, nil
}

// ListWords returns paginated indexed words with an optional theme filter.
func (s *Service) ListWords(_ context.Context, limit, offset int, theme string) ([]index.WordRow, int, error) {
	return s.db.ListWords(limit, offset, theme)
}

// Search delegates substring search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.WordRow, error) {
	return s.db.Search(query, limit)
}

// IngestPage runs the batch pipeline over a vocabulary page in the vault.
func (s *Service) IngestPage(ctx context.Context, pagePath string) (batch.Report, error) {
	if s.proc == nil {
		return batch.Report{}, errors.New("noteservice: ingestion not configured")
	}
	return s.proc.ProcessPage(ctx, pagePath)
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
