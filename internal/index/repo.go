package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mkraus/slovnik/internal/apperr"
)

// WordRow represents one processed word note in the index.
type WordRow struct {
	Path         string
	Headword     string
	Translation  string
	Theme        string
	PartOfSpeech string
	Pattern      string
	Tags         []string
	Checksum     string
	UpdatedAt    time.Time
}

// UpsertWord inserts or replaces a word row keyed by note path.
func (db *DB) UpsertWord(w WordRow) error {
	tagsJSON, _ := json.Marshal(w.Tags)
	_, err := db.conn.Exec(`
		INSERT INTO words (path, headword, translation, theme, part_of_speech, vzor, tags, checksum, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			headword       = excluded.headword,
			translation    = excluded.translation,
			theme          = excluded.theme,
			part_of_speech = excluded.part_of_speech,
			vzor           = excluded.vzor,
			tags           = excluded.tags,
			checksum       = excluded.checksum,
			updated_at     = excluded.updated_at
	`, w.Path, w.Headword, w.Translation, w.Theme, w.PartOfSpeech, w.Pattern, string(tagsJSON), w.Checksum, w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert word: %w", err)
	}
	return nil
}

// DeleteWord removes a word row.
func (db *DB) DeleteWord(path string) error {
	if _, err := db.conn.Exec(`DELETE FROM words WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete word: %w", err)
	}
	return nil
}

// GetWord returns the row for a note path, or apperr.ErrNotFound.
func (db *DB) GetWord(path string) (*WordRow, error) {
	row := db.conn.QueryRow(`
		SELECT path, headword, translation, theme, part_of_speech, vzor, tags, checksum, updated_at
		FROM words WHERE path = ?`, path)
	w, err := scanWord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("index: get word: %w", err)
	}
	return w, nil
}

// FindByHeadword returns every indexed note for the given headword.
func (db *DB) FindByHeadword(headword string) ([]WordRow, error) {
	rows, err := db.conn.Query(`
		SELECT path, headword, translation, theme, part_of_speech, vzor, tags, checksum, updated_at
		FROM words WHERE headword = ? ORDER BY path`, headword)
	if err != nil {
		return nil, fmt.Errorf("index: find by headword: %w", err)
	}
	return collectWords(rows)
}

// ListWords returns paginated word rows, optionally filtered by theme slug,
// together with the total count for the filter.
func (db *DB) ListWords(limit, offset int, theme string) ([]WordRow, int, error) {
	if limit <= 0 {
		limit = 50
	}
	where := ""
	args := []any{}
	if theme != "" {
		where = "WHERE theme = ?"
		args = append(args, theme)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM words `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count words: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT path, headword, translation, theme, part_of_speech, vzor, tags, checksum, updated_at
		FROM words %s ORDER BY headword LIMIT ? OFFSET ?`, where)
	rows, err := db.conn.Query(query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list words: %w", err)
	}
	out, err := collectWords(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Search matches query as a case-insensitive substring of headword,
// translation, or theme.
func (db *DB) Search(query string, limit int) ([]WordRow, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT path, headword, translation, theme, part_of_speech, vzor, tags, checksum, updated_at
		FROM words
		WHERE headword LIKE ? OR translation LIKE ? OR theme LIKE ?
		ORDER BY headword LIMIT ?`, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	return collectWords(rows)
}

// AllChecksums returns path → checksum for every indexed note.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM words`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWord(s scanner) (*WordRow, error) {
	var w WordRow
	var tagsJSON string
	if err := s.Scan(&w.Path, &w.Headword, &w.Translation, &w.Theme, &w.PartOfSpeech,
		&w.Pattern, &tagsJSON, &w.Checksum, &w.UpdatedAt); err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(tagsJSON), &w.Tags)
	return &w, nil
}

func collectWords(rows *sql.Rows) ([]WordRow, error) {
	defer rows.Close()
	var out []WordRow
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}
