package correct

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read corrected file: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestChEBIJoinsSpacedXrefValues(t *testing.T) {
	path := writeFixture(t, "chebi.obo", strings.Join([]string{
		"[Term]",
		"id: CHEBI:15366",
		"xref: Wikipedia:Acetic acid",
		"xref: KEGG:C00033",
	}, "\n"))
	out, err := ChEBI(path)
	if err != nil {
		t.Fatalf("correct chebi: %v", err)
	}
	lines := readLines(t, out)
	if lines[2] != "xref: Wikipedia:Acetic_acid" {
		t.Fatalf("spaced xref not joined: %q", lines[2])
	}
	if lines[3] != "xref: KEGG:C00033" {
		t.Fatalf("clean xref altered: %q", lines[3])
	}
}

func TestChEBIWritesAlongsideOriginal(t *testing.T) {
	path := writeFixture(t, "chebi.obo", "id: CHEBI:1\n")
	out, err := ChEBI(path)
	if err != nil {
		t.Fatalf("correct chebi: %v", err)
	}
	if filepath.Dir(out) != filepath.Dir(path) {
		t.Fatalf("corrected file written elsewhere: %s", out)
	}
	if filepath.Base(out) != "corrected_chebi.obo" {
		t.Fatalf("unexpected corrected name: %s", filepath.Base(out))
	}
	original, err := os.ReadFile(path)
	if err != nil || string(original) != "id: CHEBI:1\n" {
		t.Fatalf("original mutated: %q err=%v", original, err)
	}
}

func TestECOJoinsBracketedCitations(t *testing.T) {
	path := writeFixture(t, "eco.obo", strings.Join([]string{
		`def: "Evidence." [url:http\://example.org, PMID:12 345]`,
		`name: untouched [A B]`,
	}, "\n"))
	out, err := ECO(path)
	if err != nil {
		t.Fatalf("correct eco: %v", err)
	}
	lines := readLines(t, out)
	if strings.Contains(lines[0][strings.Index(lines[0], "["):], " ") {
		t.Fatalf("def citation still contains spaces: %q", lines[0])
	}
	if lines[1] != "name: untouched [A B]" {
		t.Fatalf("non-def line altered: %q", lines[1])
	}
}

func TestSBODropsPropertyValuesAndScopesSynonyms(t *testing.T) {
	path := writeFixture(t, "sbo.obo", strings.Join([]string{
		"property_value: mathml \"x\" xsd:string",
		`synonym: "unscoped" []`,
		`synonym: "already scoped" RELATED []`,
	}, "\n"))
	out, err := SBO(path)
	if err != nil {
		t.Fatalf("correct sbo: %v", err)
	}
	lines := readLines(t, out)
	if len(lines) != 2 {
		t.Fatalf("property_value line survived: %v", lines)
	}
	if lines[0] != `synonym: "unscoped" EXACT []` {
		t.Fatalf("EXACT scope not inserted: %q", lines[0])
	}
	if lines[1] != `synonym: "already scoped" RELATED []` {
		t.Fatalf("scoped synonym altered: %q", lines[1])
	}
}

func TestPWONormalizesBracketedLists(t *testing.T) {
	path := writeFixture(t, "pwo.obo", `subset: [ first entry , second entry, a\,b entry ]`)
	out, err := PWO(path)
	if err != nil {
		t.Fatalf("correct pwo: %v", err)
	}
	lines := readLines(t, out)
	want := `subset: [first-entry,second-entry,a\,b-entry]`
	if lines[0] != want {
		t.Fatalf("bracketed list = %q, want %q", lines[0], want)
	}
}

func TestUnrecognizedLinesPassThrough(t *testing.T) {
	body := "! random comment\nnot a field at all\n"
	for name, fn := range map[string]func(string) (string, error){
		"chebi": ChEBI, "eco": ECO, "sbo": SBO, "pwo": PWO,
	} {
		path := writeFixture(t, name+".obo", body)
		out, err := fn(path)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		data, err := os.ReadFile(out)
		if err != nil || string(data) != body {
			t.Fatalf("%s altered unrecognized lines: %q err=%v", name, data, err)
		}
	}
}
