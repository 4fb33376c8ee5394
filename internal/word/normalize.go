package word

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// posKeywords maps each category to the free-text fragments that identify it.
// Hints arrive in Czech, Russian, or English depending on who authored the
// table, so each row carries all three. Matching is case-insensitive
// substring, first category in this order wins; "pronoun" must precede the
// bare "noun" keyword.
var posKeywords = []struct {
	pos      PartOfSpeech
	keywords []string
}{
	{Pronoun, []string{"zájm", "zajm", "местоим", "pronoun"}},
	{Noun, []string{"podstat", "существ", "noun"}},
	{Adjective, []string{"přídav", "pridav", "прилаг", "adject"}},
	{Numeral, []string{"číslov", "cislov", "числит", "numeral"}},
	{Verb, []string{"sloves", "глагол", "verb"}},
	{Adverb, []string{"příslov", "prislov", "нареч", "adverb"}},
	{Preposition, []string{"předl", "predl", "предлог", "preposition"}},
	{Conjunction, []string{"spoj", "союз", "conjunction"}},
	{Particle, []string{"částic", "castic", "частиц", "particle"}},
	{Interjection, []string{"citoslov", "междомет", "interjection"}},
}

// DerivePartOfSpeech resolves the category for a record: the analyzer's
// verdict verbatim when available, otherwise a keyword scan over the raw
// free-text hint from the table.
func DerivePartOfSpeech(rec Record, g *GrammarAnalysis) PartOfSpeech {
	if g != nil && g.PartOfSpeechType != "" && g.PartOfSpeechType != NotDefined {
		return g.PartOfSpeechType
	}
	raw := strings.ToLower(strings.TrimSpace(rec.PartOfSpeechRaw))
	if raw == "" {
		return NotDefined
	}
	for _, entry := range posKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(raw, kw) {
				return entry.pos
			}
		}
	}
	return NotDefined
}

var asciiFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slug normalizes text into a tag-safe identifier: leading heading marks and
// whitespace are stripped, diacritics fold to their base letters, every
// maximal run of non-letter-non-digit runes collapses to one underscore, and
// the result is lowercased with no leading or trailing underscore. Letters
// without an ASCII base (Cyrillic and such) pass through unchanged.
func Slug(text string) string {
	text = strings.TrimLeft(text, "# \t")
	if folded, _, err := transform.String(asciiFold, text); err == nil {
		text = folded
	}
	var b strings.Builder
	pending := false
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		pending = true
	}
	return b.String()
}

// BuildTags returns the flashcard tag line for a record in the fixed order
// the notes depend on: theme, part of speech, grammar pattern, verb group or
// noun gender, and the catch-all. deckKind selects the word or phrase deck.
func BuildTags(rec Record, g *GrammarAnalysis, deckKind string) []string {
	prefix := "#flashcards/" + deckKind
	tags := []string{prefix + "/theme/" + Slug(rec.ThemeTag)}

	pos := DerivePartOfSpeech(rec, g)
	if pos != NotDefined {
		tags = append(tags, prefix+"/"+Slug(string(pos)))
	}
	if pattern := g.Pattern(); pattern != "" {
		tags = append(tags, fmt.Sprintf("%s/%s_vzor/%s", prefix, Slug(string(pos)), pattern))
	}
	if g != nil {
		switch g.PartOfSpeechType {
		case Verb:
			if g.VerbConjugationGroup != 0 {
				tags = append(tags, fmt.Sprintf("%s/verbgroup/%d", prefix, g.VerbConjugationGroup))
			}
		case Noun:
			if g.NounGender != "" {
				tags = append(tags, prefix+"/nounrod/"+g.NounGender)
			}
		}
	}
	return append(tags, prefix+"/all")
}
