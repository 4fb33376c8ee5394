// Package mdtable extracts vocabulary tables from Markdown pages. A table is
// a heading followed by a pipe-delimited header row naming the configured
// columns, then data rows until the next heading or non-table line.
package mdtable

import (
	"strings"

	"github.com/mkraus/slovnik/internal/word"
)

// Columns names the table columns a vault uses. Matching is case-insensitive
// against trimmed header cells; only Word is mandatory for a row to count.
type Columns struct {
	Word              string `yaml:"word"`
	Translation       string `yaml:"translation"`
	Phrase            string `yaml:"phrase"`
	PhraseTranslation string `yaml:"phrase_translation"`
	NoteLink          string `yaml:"note_link"`
	PartOfSpeech      string `yaml:"part_of_speech"`
}

// DefaultColumns returns the column names used by stock vocabulary pages.
func DefaultColumns() Columns {
	return Columns{
		Word:              "Slovo",
		Translation:       "Překlad",
		Phrase:            "Fráze",
		PhraseTranslation: "Překlad fráze",
		NoteLink:          "Poznámka",
		PartOfSpeech:      "Slovní druh",
	}
}

// Table is one vocabulary table: the heading line it sits under (theme) and
// the word records parsed from its rows.
type Table struct {
	Theme   string
	Records []word.Record
}

// Parse scans the page for vocabulary tables. Rows with an empty word cell
// are skipped; a table without a recognizable header row is ignored entirely.
func Parse(page string, cols Columns) []Table {
	lines := strings.Split(page, "\n")

	var tables []Table
	theme := ""
	i := 0
	for i < len(lines) {
		line := lines[i]
		if isHeading(line) {
			theme = strings.TrimSpace(line)
			i++
			continue
		}
		if idx, ok := headerIndex(line, cols); ok {
			i++
			// Optional delimiter row ( | --- | --- | ).
			if i < len(lines) && isDelimiterRow(lines[i]) {
				i++
			}
			table := Table{Theme: theme}
			for i < len(lines) && isTableRow(lines[i]) {
				if rec, ok := parseRow(lines[i], idx, theme); ok {
					table.Records = append(table.Records, rec)
				}
				i++
			}
			if len(table.Records) > 0 {
				tables = append(tables, table)
			}
			continue
		}
		i++
	}
	return tables
}

// columnIndex maps the semantic columns to their cell positions in one
// particular table.
type columnIndex struct {
	word, translation, phrase, phraseTranslation, noteLink, partOfSpeech int
}

// headerIndex decides whether line is a table header row and, if so, where
// each configured column sits. The word column must be present.
func headerIndex(line string, cols Columns) (columnIndex, bool) {
	if !isTableRow(line) {
		return columnIndex{}, false
	}
	idx := columnIndex{word: -1, translation: -1, phrase: -1, phraseTranslation: -1, noteLink: -1, partOfSpeech: -1}
	for i, cell := range splitRow(line) {
		switch {
		case matches(cell, cols.Word):
			idx.word = i
		case matches(cell, cols.Translation):
			idx.translation = i
		case matches(cell, cols.Phrase):
			idx.phrase = i
		case matches(cell, cols.PhraseTranslation):
			idx.phraseTranslation = i
		case matches(cell, cols.NoteLink):
			idx.noteLink = i
		case matches(cell, cols.PartOfSpeech):
			idx.partOfSpeech = i
		}
	}
	return idx, idx.word >= 0
}

func parseRow(line string, idx columnIndex, theme string) (word.Record, bool) {
	cells := splitRow(line)
	cell := func(i int) string {
		if i < 0 || i >= len(cells) {
			return ""
		}
		return cells[i]
	}
	rec := word.Record{
		Headword:                 cell(idx.word),
		Translation:              cell(idx.translation),
		ExamplePhrase:            cell(idx.phrase),
		ExamplePhraseTranslation: cell(idx.phraseTranslation),
		NoteLinkHint:             cell(idx.noteLink),
		PartOfSpeechRaw:          cell(idx.partOfSpeech),
		ThemeTag:                 theme,
	}
	if rec.Headword == "" {
		return word.Record{}, false
	}
	return rec, true
}

func matches(cell, name string) bool {
	return name != "" && strings.EqualFold(cell, name)
}

func isHeading(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "#") && strings.Contains(trimmed, "# ")
}

func isTableRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "|") && strings.Count(trimmed, "|") >= 2
}

func isDelimiterRow(line string) bool {
	if !isTableRow(line) {
		return false
	}
	for _, cell := range splitRow(line) {
		if cell == "" {
			continue
		}
		if strings.Trim(cell, ":-") != "" {
			return false
		}
	}
	return true
}

// splitRow splits a pipe row into trimmed cells, dropping the empty fragments
// outside the outer pipes.
func splitRow(line string) []string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")
	parts := strings.Split(trimmed, "|")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}
