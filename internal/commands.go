package internal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mkraus/slovnik/internal/batch"
	"github.com/mkraus/slovnik/internal/index"
	"github.com/mkraus/slovnik/internal/llm"
	"github.com/mkraus/slovnik/internal/mcpserver"
	"github.com/mkraus/slovnik/internal/patterns"
)

// RunIngest processes one vocabulary page from the vault and exits. Per-word
// failures end up in the report, not in the returned error; a non-zero
// Failed count is reported through the exit error so scripts notice.
func RunIngest(ctx context.Context, cfg *Config, page string) error {
	s, err := buildStack(cfg, nil)
	if err != nil {
		return err
	}
	defer s.close()

	report, err := s.proc.ProcessPage(ctx, page)
	if err != nil {
		return err
	}
	for _, item := range report.Errors {
		s.logger.Warn("ingest: word failed",
			slog.String("headword", item.Headword),
			slog.String("error", item.Err.Error()))
	}
	s.logger.Info("ingest: finished",
		slog.String("page", page),
		slog.Int("processed", report.Processed),
		slog.Int("failed", report.Failed),
		slog.Int("no_analysis", report.NoAnalysis))
	if report.Failed > 0 {
		return fmt.Errorf("ingest: %d of %d words failed", report.Failed, report.Failed+report.Processed)
	}
	return nil
}

// RunPatterns generates grammar drill notes for a topic with the configured
// LLM provider.
func RunPatterns(ctx context.Context, cfg *Config, topic string, count int) error {
	if cfg.LLM.BaseURL == "" || cfg.LLM.Model == "" {
		return fmt.Errorf("patterns: llm base_url and model must be configured")
	}
	s, err := buildStack(cfg, nil)
	if err != nil {
		return err
	}
	defer s.close()

	client := llm.NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model)
	gen := patterns.NewGenerator(client, s.store, cfg.Notes.PatternsFolder, s.logger)
	paths, err := gen.Run(ctx, topic, count)
	if err != nil {
		return err
	}
	for _, p := range paths {
		if data, readErr := s.store.Read(p); readErr == nil {
			_ = index.IndexNote(s.db, p, data)
		}
	}
	s.logger.Info("patterns: finished", slog.String("topic", topic), slog.Int("notes", len(paths)))
	return nil
}

// RunMCP serves the MCP tools over stdio until the client disconnects.
func RunMCP(_ context.Context, cfg *Config) error {
	s, err := buildStack(cfg, nil)
	if err != nil {
		return err
	}
	defer s.close()

	if err := index.Sync(s.db, s.store, s.logger); err != nil {
		s.logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	// Avoid handing a typed-nil interface to the MCP server.
	var a batch.Analyzer
	if s.analyzer != nil {
		a = s.analyzer
	}
	srv := mcpserver.New(s.svc, s.db, a)
	return srv.ServeStdio()
}
