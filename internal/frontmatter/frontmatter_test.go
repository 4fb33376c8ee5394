package frontmatter

import (
	"strings"
	"testing"
)

func TestParse_KeyValueLines(t *testing.T) {
	block := "slovo: \"dělat\"\ntranslation: to do\njunk line without colon-key\npartOfSpeech: \"Sloveso\"\n"
	m := Parse(block)
	if got := m.GetString("slovo"); got != "dělat" {
		t.Errorf("slovo = %q, want %q", got, "dělat")
	}
	if got := m.GetString("translation"); got != "to do" {
		t.Errorf("translation = %q, want %q", got, "to do")
	}
	if got := m.GetString("partOfSpeech"); got != "Sloveso" {
		t.Errorf("partOfSpeech = %q, want %q", got, "Sloveso")
	}
	if m.Len() != 3 {
		t.Errorf("len = %d, want 3", m.Len())
	}
}

func TestParse_MalformedNeverFails(t *testing.T) {
	m := Parse(":::\n- just a list\n{{{")
	if m.Len() != 0 {
		t.Errorf("expected empty mapping, got %d keys", m.Len())
	}
}

func TestParse_StripsOneQuoteLayer(t *testing.T) {
	m := Parse(`note: "\"quoted\""` + "\n")
	// Only the outer layer comes off; the rest is opaque.
	if got := m.GetString("note"); got != `\"quoted\"` {
		t.Errorf("note = %q", got)
	}
}

func TestSerialize_OrderAndQuoting(t *testing.T) {
	m := New()
	m.Set("slovo", "kniha")
	m.Set("translation", `a "book"`)
	m.Set("theme", "")
	got := Serialize(m)
	want := "slovo: \"kniha\"\ntranslation: \"a \\\"book\\\"\"\ntheme: \"\"\n"
	if got != want {
		t.Errorf("serialize = %q, want %q", got, want)
	}
}

func TestSerialize_ArraysAndNested(t *testing.T) {
	nested := New()
	nested.Set("inner", "v")
	m := New()
	m.Set("tags", []string{"a", "b"})
	m.Set("meta", nested)
	got := Serialize(m)
	want := "tags:\n  - \"a\"\n  - \"b\"\nmeta:\n  inner: \"v\"\n"
	if got != want {
		t.Errorf("serialize = %q, want %q", got, want)
	}
}

func TestParseStrict_RoundTrip(t *testing.T) {
	m := New()
	m.Set("slovo", "dělat")
	m.Set("tags", []string{"one", "two"})
	m.Set("vzor", "Dělat")

	parsed, err := ParseStrict(Serialize(m))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := parsed.Keys(); strings.Join(got, ",") != "slovo,tags,vzor" {
		t.Errorf("keys = %v", got)
	}
	if got := parsed.GetString("slovo"); got != "dělat" {
		t.Errorf("slovo = %q", got)
	}
	v, _ := parsed.Get("tags")
	tags, ok := v.([]string)
	if !ok || len(tags) != 2 || tags[0] != "one" {
		t.Errorf("tags = %#v", v)
	}
}

func TestParseStrict_RejectsNonMapping(t *testing.T) {
	if _, err := ParseStrict("- a\n- b\n"); err == nil {
		t.Fatal("expected error for top-level sequence")
	}
}

func TestSplit_FrontmatterAndBody(t *testing.T) {
	block, body := Split("---\nslovo: \"x\"\n---\n# x\nbody\n")
	if block != "slovo: \"x\"" {
		t.Errorf("block = %q", block)
	}
	if body != "# x\nbody\n" {
		t.Errorf("body = %q", body)
	}
}

func TestSplit_NoFrontmatter(t *testing.T) {
	block, body := Split("# heading\ntext\n")
	if block != "" {
		t.Errorf("block = %q, want empty", block)
	}
	if body != "# heading\ntext\n" {
		t.Errorf("body = %q", body)
	}
}

func TestSplit_UnterminatedBlock(t *testing.T) {
	block, body := Split("---\nslovo: x\nno closing delimiter")
	if block != "" {
		t.Errorf("block = %q, want empty", block)
	}
	if !strings.Contains(body, "no closing delimiter") {
		t.Errorf("body = %q", body)
	}
}

func TestMerge_KeepsExistingValue(t *testing.T) {
	existing := New()
	existing.Set("partOfSpeech", "Sloveso")
	incoming := New()
	incoming.Set("partOfSpeech", "Podstatné jméno")

	merged := Merge(existing, incoming)
	if got := merged.GetString("partOfSpeech"); got != "Sloveso" {
		t.Errorf("partOfSpeech = %q, want %q", got, "Sloveso")
	}
}

func TestMerge_FillsSentinel(t *testing.T) {
	existing := New()
	existing.Set("partOfSpeech", NotDefined)
	incoming := New()
	incoming.Set("partOfSpeech", "Podstatné jméno")

	merged := Merge(existing, incoming)
	if got := merged.GetString("partOfSpeech"); got != "Podstatné jméno" {
		t.Errorf("partOfSpeech = %q, want %q", got, "Podstatné jméno")
	}
}

func TestMerge_FillsEmptyAndMissing(t *testing.T) {
	existing := New()
	existing.Set("translation", "")
	incoming := New()
	incoming.Set("translation", "to do")
	incoming.Set("vzor", "Dělat")

	merged := Merge(existing, incoming)
	if got := merged.GetString("translation"); got != "to do" {
		t.Errorf("translation = %q", got)
	}
	if got := merged.GetString("vzor"); got != "Dělat" {
		t.Errorf("vzor = %q", got)
	}
}

func TestMerge_SkipsNilIncoming(t *testing.T) {
	existing := New()
	incoming := New()
	incoming.Set("ghost", nil)

	merged := Merge(existing, incoming)
	if _, ok := merged.Get("ghost"); ok {
		t.Error("nil incoming value must not be merged")
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	existing := New()
	existing.Set("a", "")
	incoming := New()
	incoming.Set("a", "x")

	_ = Merge(existing, incoming)
	if got := existing.GetString("a"); got != "" {
		t.Errorf("existing mutated: a = %q", got)
	}
}
