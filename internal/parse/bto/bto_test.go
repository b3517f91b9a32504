package bto

import (
	"sort"
	"strings"
	"testing"
)

const fixture = `{
  "bto_0000010": {
    "key": "BTO:0000010",
    "label": "liver",
    "ancestors": ["BTO:0001489", "BTO:0000522", "BTO:0000042"],
    "synonyms": ["hepatic tissue"]
  },
  "bto_0000042": {
    "key": "BTO:0000042",
    "label": "animal",
    "ancestors": []
  },
  "empty_entry": {}
}`

func TestParseKeepsNonEmptyTermsOnly(t *testing.T) {
	terms, err := Parse(strings.NewReader(fixture))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(terms) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(terms))
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].SourceID < terms[j].SourceID })
	liver := terms[0]
	if liver.SourceID != "BTO:0000010" || liver.Name != "liver" {
		t.Fatalf("term identity from inner key field: %+v", liver)
	}
	// BTO supplies the full transitive chain; it must be preserved exactly,
	// no more and no less.
	want := []string{"BTO:0001489", "BTO:0000522", "BTO:0000042"}
	if len(liver.Ancestors) != len(want) {
		t.Fatalf("ancestors = %v, want %v", liver.Ancestors, want)
	}
	for i := range want {
		if liver.Ancestors[i] != want[i] {
			t.Fatalf("ancestors = %v, want %v", liver.Ancestors, want)
		}
	}
	if len(liver.Synonyms) != 1 || liver.Synonyms[0] != "hepatic tissue" {
		t.Fatalf("synonyms = %v", liver.Synonyms)
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	if _, err := Parse(strings.NewReader("{not json")); err == nil {
		t.Fatal("expected decode error")
	}
}
