package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	blobmem "github.com/Constellab/gws-biota-sub001/internal/infra/blob/memory"
)

func TestStageSourcesCopiesDumpsLocally(t *testing.T) {
	ctx := context.Background()
	archive := blobmem.New()
	seed := func(key, body string) {
		t.Helper()
		if _, err := archive.Put(ctx, key, strings.NewReader(body)); err != nil {
			t.Fatalf("Put %s: %v", key, err)
		}
	}
	seed("obo/go.obo", "format-version: 1.2\n")
	seed("taxdump/nodes.dmp", "1\t|\t1\t|\tno rank\t|\n")
	seed("taxdump/names.dmp", "1\t|\troot\t|\t\t|\tscientific name\t|\n")
	seed("taxdump/division.dmp", "0\t|\tBAC\t|\tBacteria\t|\n")
	seed("rhea/rhea2kegg.tsv", "RHEA_ID\tID\n")

	work := t.TempDir()
	staged, err := StageSources(ctx, archive, Sources{
		GO:         "obo/go.obo",
		TaxdumpDir: "taxdump",
		RheaXrefs:  map[string]string{"kegg": "rhea/rhea2kegg.tsv"},
	}, work)
	if err != nil {
		t.Fatalf("StageSources: %v", err)
	}

	if filepath.Dir(staged.GO) != work {
		t.Fatalf("GO staged outside work dir: %s", staged.GO)
	}
	data, err := os.ReadFile(staged.GO)
	if err != nil || string(data) != "format-version: 1.2\n" {
		t.Fatalf("staged GO contents wrong: %q err=%v", data, err)
	}

	for _, name := range []string{"nodes.dmp", "names.dmp", "division.dmp"} {
		if _, err := os.Stat(filepath.Join(staged.TaxdumpDir, name)); err != nil {
			t.Fatalf("taxdump file %s not staged: %v", name, err)
		}
	}

	if local, ok := staged.RheaXrefs["kegg"]; !ok || filepath.Dir(local) != work {
		t.Fatalf("kegg xref not staged: %v", staged.RheaXrefs)
	}

	// Unset sources stay unset.
	if staged.Brenda != "" || staged.Uniprot != "" {
		t.Fatalf("unexpected staged paths: %+v", staged)
	}
}

func TestStageSourcesMissingDump(t *testing.T) {
	archive := blobmem.New()
	_, err := StageSources(context.Background(), archive, Sources{ECO: "obo/eco.obo"}, t.TempDir())
	if err == nil {
		t.Fatalf("expected error for missing archive key")
	}
	if !strings.Contains(err.Error(), "obo/eco.obo") {
		t.Fatalf("error should name the key: %v", err)
	}
}
