package word

import (
	"reflect"
	"testing"
)

func TestSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Čísla a barvy!", "cisla_a_barvy"},
		{"## Téma", "tema"},
		{"Basic Verbs", "basic_verbs"},
		{"Podstatné jméno", "podstatne_jmeno"},
		{"  už--zase  ", "uz_zase"},
		{"слово дня", "слово_дня"},
		{"123 go", "123_go"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tc := range cases {
		if got := Slug(tc.in); got != tc.want {
			t.Errorf("Slug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSlug_Deterministic(t *testing.T) {
	if Slug("Čísla a barvy!") != Slug("Čísla a barvy!") {
		t.Error("slug must be deterministic")
	}
}

func TestDerivePartOfSpeech_AnalyzerWins(t *testing.T) {
	rec := Record{PartOfSpeechRaw: "noun"}
	g := &GrammarAnalysis{PartOfSpeechType: Verb}
	if got := DerivePartOfSpeech(rec, g); got != Verb {
		t.Errorf("got %q, want %q", got, Verb)
	}
}

func TestDerivePartOfSpeech_FromRawHint(t *testing.T) {
	cases := []struct {
		raw  string
		want PartOfSpeech
	}{
		{"podstatné jméno", Noun},
		{"существительное", Noun},
		{"Noun", Noun},
		{"pronoun", Pronoun},
		{"sloveso", Verb},
		{"глагол", Verb},
		{"přídavné jméno", Adjective},
		{"наречие", Adverb},
		{"spojka", Conjunction},
		{"citoslovce", Interjection},
		{"", NotDefined},
		{"gibberish", NotDefined},
	}
	for _, tc := range cases {
		got := DerivePartOfSpeech(Record{PartOfSpeechRaw: tc.raw}, nil)
		if got != tc.want {
			t.Errorf("DerivePartOfSpeech(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestDerivePartOfSpeech_SentinelAnalysisFallsBack(t *testing.T) {
	rec := Record{PartOfSpeechRaw: "sloveso"}
	g := &GrammarAnalysis{PartOfSpeechType: NotDefined}
	if got := DerivePartOfSpeech(rec, g); got != Verb {
		t.Errorf("got %q, want %q", got, Verb)
	}
}

func TestBuildTags_NounOrder(t *testing.T) {
	rec := Record{Headword: "kniha", ThemeTag: "## Téma"}
	g := &GrammarAnalysis{
		PartOfSpeechType: Noun,
		NounGender:       "ženský",
		NounPattern:      "Žena",
	}
	got := BuildTags(rec, g, "words")
	want := []string{
		"#flashcards/words/theme/tema",
		"#flashcards/words/podstatne_jmeno",
		"#flashcards/words/podstatne_jmeno_vzor/Žena",
		"#flashcards/words/nounrod/ženský",
		"#flashcards/words/all",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tags = %v, want %v", got, want)
	}
}

func TestBuildTags_VerbOrder(t *testing.T) {
	rec := Record{Headword: "dělat", ThemeTag: "Basic Verbs"}
	g := &GrammarAnalysis{
		PartOfSpeechType:     Verb,
		VerbPattern:          "Dělat",
		VerbConjugationGroup: 1,
	}
	got := BuildTags(rec, g, "czwords")
	want := []string{
		"#flashcards/czwords/theme/basic_verbs",
		"#flashcards/czwords/sloveso",
		"#flashcards/czwords/sloveso_vzor/Dělat",
		"#flashcards/czwords/verbgroup/1",
		"#flashcards/czwords/all",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tags = %v, want %v", got, want)
	}
}

func TestBuildTags_NoAnalysis(t *testing.T) {
	rec := Record{Headword: "a", ThemeTag: "Spojky"}
	got := BuildTags(rec, nil, "czwords")
	want := []string{
		"#flashcards/czwords/theme/spojky",
		"#flashcards/czwords/all",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tags = %v, want %v", got, want)
	}
}

func TestPattern_NilSafe(t *testing.T) {
	var g *GrammarAnalysis
	if got := g.Pattern(); got != "" {
		t.Errorf("nil pattern = %q", got)
	}
}
