package index

import (
	"log/slog"
	"regexp"
	"time"

	"github.com/mkraus/slovnik/internal/checksum"
	"github.com/mkraus/slovnik/internal/frontmatter"
	"github.com/mkraus/slovnik/internal/storage"
)

var tagRe = regexp.MustCompile(`(?:^|\s)#([\pL\pN][\pL\pN_/.-]*)`)

// Sync walks the vault and brings the index up to date:
//   - new/changed word notes are parsed and upserted
//   - files that are not word notes are ignored
//   - notes removed from disk are deleted from the index
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := IndexNote(db, m.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteWord(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// IndexNote parses data and upserts it when it is a word note (frontmatter
// carries a "slovo" key). Non-word notes are removed from the index in case
// an earlier version of the file was one.
func IndexNote(db *DB, path string, data []byte) error {
	row, ok := rowFromNote(path, data)
	if !ok {
		return db.DeleteWord(path)
	}
	return db.UpsertWord(row)
}

// rowFromNote extracts the indexable fields from a note. The strict parser
// handles our own canonical frontmatter; hand-edited notes fall back to the
// lenient scanner.
func rowFromNote(path string, data []byte) (WordRow, bool) {
	block, body := frontmatter.Split(string(data))
	if block == "" {
		return WordRow{}, false
	}
	fm, err := frontmatter.ParseStrict(block)
	if err != nil {
		fm = frontmatter.Parse(block)
	}
	headword := fm.GetString("slovo")
	if headword == "" {
		return WordRow{}, false
	}

	var tags []string
	seen := make(map[string]struct{})
	for _, m := range tagRe.FindAllStringSubmatch(body, -1) {
		if _, dup := seen[m[1]]; dup {
			continue
		}
		seen[m[1]] = struct{}{}
		tags = append(tags, m[1])
	}

	return WordRow{
		Path:         path,
		Headword:     headword,
		Translation:  fm.GetString("translation"),
		Theme:        fm.GetString("theme"),
		PartOfSpeech: fm.GetString("partOfSpeech"),
		Pattern:      fm.GetString("vzor"),
		Tags:         tags,
		Checksum:     checksum.Sum(data),
		UpdatedAt:    time.Now(),
	}, true
}
