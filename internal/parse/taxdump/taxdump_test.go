package taxdump

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const namesFixture = "1\t|\troot\t|\t\t|\tscientific name\t|\n" +
	"9606\t|\tHomo sapiens\t|\t\t|\tscientific name\t|\n" +
	"9606\t|\thuman\t|\t\t|\tgenbank common name\t|\n"

const divisionFixture = "0\t|\tBCT\t|\tBacteria\t|\t\t|\n" +
	"5\t|\tPRI\t|\tPrimates\t|\t\t|\n"

const nodesFixture = "1\t|\t1\t|\tno rank\t|\t\t|\t0\t|\n" +
	"9606\t|\t9605\t|\tspecies\t|\t\t|\t5\t|\n" +
	"4932\t|\t4930\t|\tspecies\t|\t\t|\t9\t|\n"

func TestParseNamesFiltersScientificNames(t *testing.T) {
	names, err := ParseNames(strings.NewReader(namesFixture))
	if err != nil {
		t.Fatalf("parse names: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 scientific names, got %d", len(names))
	}
	if names["9606"] != "Homo sapiens" {
		t.Fatalf("names[9606] = %q", names["9606"])
	}
}

func TestParseNodesResolvesNamesAndDivisions(t *testing.T) {
	names, err := ParseNames(strings.NewReader(namesFixture))
	if err != nil {
		t.Fatalf("parse names: %v", err)
	}
	divisions, err := ParseDivisions(strings.NewReader(divisionFixture))
	if err != nil {
		t.Fatalf("parse divisions: %v", err)
	}
	taxa, err := ParseNodes(strings.NewReader(nodesFixture), names, divisions)
	if err != nil {
		t.Fatalf("parse nodes: %v", err)
	}
	if len(taxa) != 3 {
		t.Fatalf("expected 3 taxa, got %d", len(taxa))
	}
	root := taxa[0]
	if root.TaxID != "1" || root.AncestorTaxID != "1" {
		t.Fatalf("root must self-reference: %+v", root)
	}
	human := taxa[1]
	if human.Name != "Homo sapiens" || human.Rank != "species" || human.Division != "Primates" {
		t.Fatalf("human = %+v", human)
	}
	if taxa[2].Division != "unspecified" {
		t.Fatalf("unknown division code should map to unspecified, got %q", taxa[2].Division)
	}
}

func TestParseDirReadsAllThreeFiles(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		NodesFile:    nodesFixture,
		NamesFile:    namesFixture,
		DivisionFile: divisionFixture,
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	taxa, err := ParseDir(dir)
	if err != nil {
		t.Fatalf("parse dir: %v", err)
	}
	if len(taxa) != 3 {
		t.Fatalf("expected 3 taxa, got %d", len(taxa))
	}
}

func TestParseDirMissingFile(t *testing.T) {
	if _, err := ParseDir(t.TempDir()); err == nil {
		t.Fatal("expected error for missing dump files")
	}
}
