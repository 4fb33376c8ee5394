// Package reconcile produces the updated text of a word note from computed
// word data and an optional prior version of the note. It is pure: no I/O, no
// shared state, deterministic and idempotent for identical inputs.
package reconcile

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/mkraus/slovnik/internal/apperr"
	"github.com/mkraus/slovnik/internal/frontmatter"
	"github.com/mkraus/slovnik/internal/section"
	"github.com/mkraus/slovnik/internal/word"
)

// Deck kinds used for the two flashcard lines of every note.
const (
	DeckWords  = "czwords"
	DeckPhrase = "czphrase"
)

// DefaultFlashcardsSection is used when the request does not name one.
const DefaultFlashcardsSection = "Flashcards"

// Request is the unit of work: reconcile word data against the prior note
// text. Existing is nil for a brand-new note.
type Request struct {
	Existing          []byte
	Record            word.Record
	Grammar           *word.GrammarAnalysis
	FlashcardsSection string
}

// Reconcile merges computed word data into the note. Frontmatter merges
// field by field with a fill-empty-only policy, the headword / flashcards /
// grammar sections are replaced wholesale, and every other byte of the
// existing note survives. The only failure is a missing headword.
func Reconcile(req Request) (string, error) {
	if strings.TrimSpace(req.Record.Headword) == "" {
		return "", apperr.ErrMissingHeadword
	}
	sectionName := req.FlashcardsSection
	if sectionName == "" {
		sectionName = DefaultFlashcardsSection
	}

	existingFM := frontmatter.New()
	body := ""
	if req.Existing != nil {
		block, rest := frontmatter.Split(string(req.Existing))
		body = rest
		if block != "" {
			// Our own serialized output parses strictly; hand-authored
			// frontmatter falls back to the lenient line scanner.
			if fm, err := frontmatter.ParseStrict(block); err == nil {
				existingFM = fm
			} else {
				existingFM = frontmatter.Parse(block)
			}
		}
	}

	merged := frontmatter.Merge(existingFM, targetFrontmatter(req.Record, req.Grammar))

	body = section.Upsert(body, "#", req.Record.Headword, headwordBody(req.Record, req.Grammar))
	body = section.Upsert(body, "##", sectionName, flashcardsBody(req.Record, req.Grammar))
	body = section.Upsert(body, "##", "Grammar", grammarBody(req.Record, req.Grammar))

	doc := "---\n" + frontmatter.Serialize(merged) + "---\n" + strings.TrimLeft(body, "\n")
	return normalize(doc), nil
}

// targetFrontmatter computes the incoming side of the frontmatter merge:
// identity and gloss fields always, category-specific grammar fields only for
// the category the analyzer resolved.
func targetFrontmatter(rec word.Record, g *word.GrammarAnalysis) *frontmatter.Mapping {
	fm := frontmatter.New()
	fm.Set("slovo", rec.Headword)
	fm.Set("translation", rec.Translation)
	fm.Set("theme", word.Slug(rec.ThemeTag))
	fm.Set("phrase", rec.ExamplePhrase)
	fm.Set("phrase_translation", rec.ExamplePhraseTranslation)
	fm.Set("partOfSpeech", string(word.DerivePartOfSpeech(rec, g)))
	if g != nil {
		fm.Set("partOfSpeechVerbose", g.PartOfSpeechFull)
		switch g.PartOfSpeechType {
		case word.Verb:
			if g.VerbConjugationGroup != 0 {
				fm.Set("verbConjugationGroup", strconv.Itoa(g.VerbConjugationGroup))
			}
			fm.Set("vzor", g.VerbPattern)
			if g.IsIrregularVerb != nil {
				fm.Set("isIrregularVerb", strconv.FormatBool(*g.IsIrregularVerb))
			}
		case word.Noun:
			fm.Set("nounRod", g.NounGender)
			fm.Set("nounRodFull", g.NounGenderFull)
			fm.Set("vzor", g.NounPattern)
		}
	}
	return fm
}

// headwordBody renders the body of the "# {headword}" section: theme
// backlink, one-line grammar summary, and the two editor input-field
// placeholders (opaque literal text as far as this package is concerned).
func headwordBody(rec word.Record, g *word.GrammarAnalysis) string {
	theme := strings.TrimLeft(rec.ThemeTag, "# \t")
	summary := ""
	if pattern := g.Pattern(); pattern != "" {
		summary = fmt.Sprintf("%s. Grammar pattern is: %s", g.PartOfSpeechFull, pattern)
	}
	lines := []string{
		"Téma: [[" + theme + "]]",
		summary,
		"`INPUT[text:translation]`",
		"`INPUT[text:phrase]`",
	}
	return strings.Join(lines, "\n")
}

// flashcardsBody renders the word line and, when an example phrase exists,
// the phrase line, each preceded by its tag line.
func flashcardsBody(rec word.Record, g *word.GrammarAnalysis) string {
	var b strings.Builder
	b.WriteString(strings.Join(word.BuildTags(rec, g, DeckWords), " "))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s !speak[%s] ::: %s\n", rec.Headword, rec.Headword, rec.Translation)
	if rec.ExamplePhrase != "" {
		b.WriteString("\n")
		b.WriteString(strings.Join(word.BuildTags(rec, g, DeckPhrase), " "))
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s !speak[%s] ::: %s\n",
			rec.ExamplePhrase, rec.ExamplePhrase, rec.ExamplePhraseTranslation)
	}
	return strings.TrimRight(b.String(), "\n")
}

// grammarBody renders the two fixed dictionary reference links followed by
// the analyzer's formatted report when one exists.
func grammarBody(rec word.Record, g *word.GrammarAnalysis) string {
	lines := []string{
		fmt.Sprintf("[slovnik.seznam.cz](https://slovnik.seznam.cz/preklad/cesky_anglicky/%s)",
			url.PathEscape(rec.Headword)),
		fmt.Sprintf("[prirucka.ujc.cas.cz](https://prirucka.ujc.cas.cz/?slovo=%s)",
			url.QueryEscape(rec.Headword)),
	}
	if g != nil && g.FormattedResult != "" {
		lines = append(lines, "", g.FormattedResult)
	}
	return strings.Join(lines, "\n")
}

var trailingWS = regexp.MustCompile(`[ \t]+\n`)

// normalize trims trailing whitespace on every line and guarantees the note
// ends with exactly one newline.
func normalize(doc string) string {
	doc = trailingWS.ReplaceAllString(doc, "\n")
	doc = strings.TrimRight(doc, " \t\n")
	return doc + "\n"
}

var noteLinkRe = regexp.MustCompile(`\[[^\]]*\]\(([^)]+)\)`)

// NotePath resolves the vault-relative destination for a record's note. A
// parseable note-link hint wins; otherwise the note lands in folder under the
// headword's name.
func NotePath(rec word.Record, folder string) string {
	if rec.NoteLinkHint != "" {
		if m := noteLinkRe.FindStringSubmatch(rec.NoteLinkHint); m != nil {
			return filepath.ToSlash(filepath.Clean(m[1]))
		}
	}
	return filepath.ToSlash(filepath.Join(folder, rec.Headword+".md"))
}
