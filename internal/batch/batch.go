// Package batch drives the per-word pipeline: analyze, reconcile, write,
// index. Words are processed strictly one at a time with a fixed delay
// between analyzer calls; a failed word is reported and skipped, never
// aborting the rest of the table.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mkraus/slovnik/internal/analyzer"
	"github.com/mkraus/slovnik/internal/index"
	"github.com/mkraus/slovnik/internal/mdtable"
	"github.com/mkraus/slovnik/internal/reconcile"
	"github.com/mkraus/slovnik/internal/storage"
	"github.com/mkraus/slovnik/internal/word"
)

// Analyzer is the part of the analyzer service the pipeline needs.
type Analyzer interface {
	Analyze(ctx context.Context, headword string) (*word.GrammarAnalysis, error)
}

// ItemError records a per-word failure inside an otherwise successful batch.
type ItemError struct {
	Headword string
	Err      error
}

// Report summarizes one batch run.
type Report struct {
	// Processed counts notes successfully written.
	Processed int
	// Failed counts words whose note could not be written; those notes are
	// left untouched.
	Failed int
	// NoAnalysis counts words written without remote analysis after the
	// analyzer gave up on them.
	NoAnalysis int
	Errors     []ItemError
}

// Processor runs batches against one vault.
type Processor struct {
	store             storage.Provider
	db                *index.DB
	analyzer          Analyzer
	logger            *slog.Logger
	columns           mdtable.Columns
	notesFolder       string
	flashcardsSection string
	requestDelay      time.Duration
	sleep             analyzer.SleepFunc
	onEvent           func(kind, path string)
}

// Option customizes a Processor.
type Option func(*Processor)

// WithAnalyzer attaches the remote grammar analyzer. Without one every word
// is processed in offline mode.
func WithAnalyzer(a Analyzer) Option {
	return func(p *Processor) { p.analyzer = a }
}

// WithIndex attaches the word index updated after each written note.
func WithIndex(db *index.DB) Option {
	return func(p *Processor) { p.db = db }
}

// WithColumns sets the vocabulary table column names.
func WithColumns(c mdtable.Columns) Option {
	return func(p *Processor) { p.columns = c }
}

// WithNotesFolder sets the vault folder new word notes land in.
func WithNotesFolder(folder string) Option {
	return func(p *Processor) { p.notesFolder = folder }
}

// WithFlashcardsSection sets the heading of the flashcards section.
func WithFlashcardsSection(name string) Option {
	return func(p *Processor) { p.flashcardsSection = name }
}

// WithRequestDelay sets the pause between consecutive analyzer calls.
func WithRequestDelay(d time.Duration) Option {
	return func(p *Processor) { p.requestDelay = d }
}

// WithSleep replaces the delay wait; tests inject a no-op.
func WithSleep(fn analyzer.SleepFunc) Option {
	return func(p *Processor) { p.sleep = fn }
}

// WithEventCallback registers a callback fired after each written note.
func WithEventCallback(fn func(kind, path string)) Option {
	return func(p *Processor) { p.onEvent = fn }
}

// NewProcessor builds a Processor writing notes through store.
func NewProcessor(store storage.Provider, logger *slog.Logger, opts ...Option) *Processor {
	p := &Processor{
		store:             store,
		logger:            logger,
		columns:           mdtable.DefaultColumns(),
		notesFolder:       "words",
		flashcardsSection: reconcile.DefaultFlashcardsSection,
		requestDelay:      10 * time.Second,
		sleep: func(ctx context.Context, d time.Duration) error {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
				return nil
			}
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessPage reads a vocabulary page from the vault and processes every
// table on it.
func (p *Processor) ProcessPage(ctx context.Context, pagePath string) (Report, error) {
	data, err := p.store.Read(pagePath)
	if err != nil {
		return Report{}, fmt.Errorf("batch: read page: %w", err)
	}
	tables := mdtable.Parse(string(data), p.columns)
	var records []word.Record
	for _, t := range tables {
		records = append(records, t.Records...)
	}
	p.logger.Info("batch: page parsed",
		slog.String("page", pagePath),
		slog.Int("tables", len(tables)),
		slog.Int("words", len(records)))
	return p.ProcessRecords(ctx, records), nil
}

// ProcessRecords runs the pipeline over records sequentially. The returned
// report counts written, skipped, and analysis-less words; the only error
// path out of the loop is context cancellation, surfaced inside the report.
func (p *Processor) ProcessRecords(ctx context.Context, records []word.Record) Report {
	var report Report
	for i, rec := range records {
		if ctx.Err() != nil {
			report.Failed += len(records) - i
			report.Errors = append(report.Errors, ItemError{Headword: rec.Headword, Err: ctx.Err()})
			break
		}
		if i > 0 && p.analyzer != nil {
			if err := p.sleep(ctx, p.requestDelay); err != nil {
				report.Failed += len(records) - i
				report.Errors = append(report.Errors, ItemError{Headword: rec.Headword, Err: err})
				break
			}
		}
		if err := p.processOne(ctx, rec, &report); err != nil {
			report.Failed++
			report.Errors = append(report.Errors, ItemError{Headword: rec.Headword, Err: err})
			p.logger.Warn("batch: word failed",
				slog.String("headword", rec.Headword),
				slog.String("error", err.Error()))
		}
	}
	p.logger.Info("batch: done",
		slog.Int("processed", report.Processed),
		slog.Int("failed", report.Failed),
		slog.Int("no_analysis", report.NoAnalysis))
	return report
}

func (p *Processor) processOne(ctx context.Context, rec word.Record, report *Report) error {
	var grammar *word.GrammarAnalysis
	if p.analyzer != nil {
		g, err := p.analyzer.Analyze(ctx, rec.Headword)
		if err != nil {
			// Terminal analyzer failure: the note is still produced, just
			// without remote analysis.
			report.NoAnalysis++
			p.logger.Warn("batch: analysis unavailable",
				slog.String("headword", rec.Headword),
				slog.String("error", err.Error()))
		} else {
			grammar = g
		}
	}

	notePath := reconcile.NotePath(rec, p.notesFolder)

	var existing []byte
	if data, err := p.store.Read(notePath); err == nil {
		existing = data
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read existing note: %w", err)
	}

	updated, err := reconcile.Reconcile(reconcile.Request{
		Existing:          existing,
		Record:            rec,
		Grammar:           grammar,
		FlashcardsSection: p.flashcardsSection,
	})
	if err != nil {
		return err
	}

	if err := p.store.Write(notePath, []byte(updated)); err != nil {
		return fmt.Errorf("write note: %w", err)
	}
	if p.db != nil {
		if err := index.IndexNote(p.db, notePath, []byte(updated)); err != nil {
			p.logger.Warn("batch: index failed",
				slog.String("path", notePath),
				slog.String("error", err.Error()))
		}
	}
	report.Processed++
	if p.onEvent != nil {
		kind := "updated"
		if existing == nil {
			kind = "created"
		}
		p.onEvent(kind, notePath)
	}
	p.logger.Debug("batch: note written", slog.String("path", notePath))
	return nil
}
