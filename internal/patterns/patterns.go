// Package patterns generates grammar drill notes with an LLM: it asks the
// model for a JSON array of drill patterns on a topic and materializes one
// note per pattern in the vault.
package patterns

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/mkraus/slovnik/internal/llm"
	"github.com/mkraus/slovnik/internal/storage"
	"github.com/mkraus/slovnik/internal/word"
)

// ChatClient is the part of the LLM client the generator needs.
type ChatClient interface {
	Chat(ctx context.Context, messages []llm.Message) (string, error)
}

// Record is one grammar drill pattern as returned by the model.
type Record struct {
	Name               string `json:"name"`
	Description        string `json:"description"`
	Example            string `json:"example"`
	ExampleTranslation string `json:"exampleTranslation"`
}

const systemPrompt = "You are a Czech grammar tutor. Answer with a JSON array only, " +
	"no prose, no code fences. Each element must have the keys " +
	`"name", "description", "example", "exampleTranslation".`

// Generator produces drill notes under one vault folder.
type Generator struct {
	client ChatClient
	store  storage.Provider
	folder string
	logger *slog.Logger
}

// NewGenerator builds a Generator writing into folder.
func NewGenerator(client ChatClient, store storage.Provider, folder string, logger *slog.Logger) *Generator {
	if folder == "" {
		folder = "patterns"
	}
	return &Generator{client: client, store: store, folder: folder, logger: logger}
}

// Generate asks the model for count drill patterns on topic and returns the
// parsed records without writing anything.
func (g *Generator) Generate(ctx context.Context, topic string, count int) ([]Record, error) {
	if count <= 0 {
		count = 5
	}
	reply, err := g.client.Chat(ctx, []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf("Produce %d grammar drill patterns for the topic %q.", count, topic)},
	})
	if err != nil {
		return nil, err
	}
	return ParseRecords(reply)
}

// Run generates patterns for topic and writes one note per pattern,
// returning the vault paths written. A single bad pattern is skipped, not
// fatal.
func (g *Generator) Run(ctx context.Context, topic string, count int) ([]string, error) {
	records, err := g.Generate(ctx, topic, count)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, rec := range records {
		if rec.Name == "" {
			g.logger.Warn("patterns: skipping unnamed pattern")
			continue
		}
		notePath := path.Join(g.folder, word.Slug(rec.Name)+".md")
		if err := g.store.Write(notePath, []byte(Note(topic, rec))); err != nil {
			g.logger.Warn("patterns: write failed",
				slog.String("path", notePath),
				slog.String("error", err.Error()))
			continue
		}
		paths = append(paths, notePath)
	}
	g.logger.Info("patterns: generated",
		slog.String("topic", topic),
		slog.Int("written", len(paths)))
	return paths, nil
}

// ParseRecords parses the model reply as a JSON array of records, tolerating
// a code fence or prose around the array.
func ParseRecords(reply string) ([]Record, error) {
	start := strings.Index(reply, "[")
	end := strings.LastIndex(reply, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("patterns: no JSON array in reply")
	}
	var out []Record
	if err := json.Unmarshal([]byte(reply[start:end+1]), &out); err != nil {
		return nil, fmt.Errorf("patterns: parse reply: %w", err)
	}
	return out, nil
}

// Note renders the drill note for one pattern.
func Note(topic string, rec Record) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "pattern: %q\n", rec.Name)
	fmt.Fprintf(&b, "topic: %q\n", topic)
	b.WriteString("---\n")
	fmt.Fprintf(&b, "# %s\n\n", rec.Name)
	if rec.Description != "" {
		b.WriteString(rec.Description + "\n")
	}
	if rec.Example != "" {
		b.WriteString("\n## Drill\n")
		fmt.Fprintf(&b, "#flashcards/patterns/%s\n", word.Slug(topic))
		fmt.Fprintf(&b, "%s !speak[%s] ::: %s\n", rec.Example, rec.Example, rec.ExampleTranslation)
	}
	return b.String()
}
