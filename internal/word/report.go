package word

import (
	"fmt"
	"strings"
)

// FormatReport renders the human-readable grammar summary spliced into a
// note's ## Grammar section. The analyzer wire format carries only raw
// fields and tables; the report text is derived here so its shape stays under
// our control.
func FormatReport(g *GrammarAnalysis) string {
	if g == nil {
		return ""
	}
	var lines []string
	if g.PartOfSpeechFull != "" {
		lines = append(lines, g.PartOfSpeechFull)
	}
	switch g.PartOfSpeechType {
	case Verb:
		if g.VerbPattern != "" {
			lines = append(lines, "Vzor: "+g.VerbPattern)
		}
		if g.VerbConjugationGroup != 0 {
			lines = append(lines, fmt.Sprintf("Třída: %d", g.VerbConjugationGroup))
		}
		if g.IsIrregularVerb != nil && *g.IsIrregularVerb {
			lines = append(lines, "Nepravidelné sloveso")
		}
		if g.Conjugation != nil {
			lines = append(lines,
				"",
				"| osoba | jednotné | množné |",
				"| --- | --- | --- |",
				conjRow("1.", g.Conjugation.First),
				conjRow("2.", g.Conjugation.Second),
				conjRow("3.", g.Conjugation.Third),
			)
		}
	case Noun:
		if g.NounGenderFull != "" {
			lines = append(lines, "Rod: "+g.NounGenderFull)
		}
		if g.NounPattern != "" {
			lines = append(lines, "Vzor: "+g.NounPattern)
		}
		if g.Declension != nil {
			lines = append(lines,
				"",
				"| pád | jednotné | množné |",
				"| --- | --- | --- |",
				declRow("1.", g.Declension.Nominative),
				declRow("2.", g.Declension.Genitive),
				declRow("3.", g.Declension.Dative),
				declRow("4.", g.Declension.Accusative),
				declRow("5.", g.Declension.Vocative),
				declRow("6.", g.Declension.Locative),
				declRow("7.", g.Declension.Instrumental),
			)
		}
	}
	return strings.Join(lines, "\n")
}

func conjRow(person string, n GrammarNumber) string {
	return fmt.Sprintf("| %s os. | %s | %s |", person, n.Singular, n.Plural)
}

func declRow(grammarCase string, n GrammarNumber) string {
	return fmt.Sprintf("| %s pád | %s | %s |", grammarCase, n.Singular, n.Plural)
}
