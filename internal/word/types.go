// Package word defines the vocabulary domain types and derives the canonical
// per-word fields (part of speech, tags, slugs, grammar report) that the
// reconciler writes into notes.
package word

// PartOfSpeech is the closed set of part-of-speech categories produced by the
// grammar analyzer or derived from free-text hints. Values are the Czech
// category names as the analyzer reports them.
type PartOfSpeech string

const (
	Noun         PartOfSpeech = "Podstatné jméno"
	Adjective    PartOfSpeech = "Přídavné jméno"
	Pronoun      PartOfSpeech = "Zájmeno"
	Numeral      PartOfSpeech = "Číslovka"
	Verb         PartOfSpeech = "Sloveso"
	Adverb       PartOfSpeech = "Příslovce"
	Preposition  PartOfSpeech = "Předložka"
	Conjunction  PartOfSpeech = "Spojka"
	Particle     PartOfSpeech = "Částice"
	Interjection PartOfSpeech = "Citoslovce"
	NotDefined   PartOfSpeech = "NOT_DEFINED"
)

// Record is one word under study, as read from a vocabulary table row or a
// note's frontmatter. Headword is the identity key; everything else may be
// empty.
type Record struct {
	Headword                 string
	Translation              string
	ExamplePhrase            string
	ExamplePhraseTranslation string
	ThemeTag                 string
	PartOfSpeechRaw          string
	// NoteLinkHint, when set, is a Markdown link "[text](path)" pointing at
	// a pre-existing note location which takes precedence over the
	// configured notes folder.
	NoteLinkHint string
}

// GrammarNumber pairs the singular and plural forms of one grammatical slot.
type GrammarNumber struct {
	Singular string `json:"singular"`
	Plural   string `json:"plural"`
}

// ConjugationTable holds present-tense verb forms by person.
type ConjugationTable struct {
	First  GrammarNumber `json:"first"`
	Second GrammarNumber `json:"second"`
	Third  GrammarNumber `json:"third"`
}

// DeclensionTable holds noun forms for the seven Czech cases.
type DeclensionTable struct {
	Nominative   GrammarNumber `json:"nominative"`
	Genitive     GrammarNumber `json:"genitive"`
	Dative       GrammarNumber `json:"dative"`
	Accusative   GrammarNumber `json:"accusative"`
	Vocative     GrammarNumber `json:"vocative"`
	Locative     GrammarNumber `json:"locative"`
	Instrumental GrammarNumber `json:"instrumental"`
}

// GrammarAnalysis is the analyzer's verdict for one headword. Verb fields are
// populated iff PartOfSpeechType is Verb, noun fields iff Noun; both groups
// stay zero otherwise.
type GrammarAnalysis struct {
	PartOfSpeechFull string       `json:"partOfSpeechFull"`
	PartOfSpeechType PartOfSpeech `json:"partOfSpeechType"`

	VerbConjugationGroup int    `json:"verbConjugationGroup,omitempty"`
	VerbPattern          string `json:"verbVzor,omitempty"`
	IsIrregularVerb      *bool  `json:"isIrregularVerb,omitempty"`

	NounGenderFull string `json:"nounRodFull,omitempty"`
	NounGender     string `json:"nounRod,omitempty"`
	NounPattern    string `json:"vzor,omitempty"`

	Conjugation *ConjugationTable `json:"conjugation,omitempty"`
	Declension  *DeclensionTable  `json:"declension,omitempty"`

	// FormattedResult is the human-readable report spliced into the
	// ## Grammar section. The analyzer wire format does not carry it; it is
	// derived locally by FormatReport.
	FormattedResult string `json:"-"`
}

// Pattern returns the declension or conjugation pattern for the analysis, or
// "" when none applies.
func (g *GrammarAnalysis) Pattern() string {
	if g == nil {
		return ""
	}
	switch g.PartOfSpeechType {
	case Verb:
		return g.VerbPattern
	case Noun:
		return g.NounPattern
	}
	return ""
}
