package ingest

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sort"
)

// Fetcher stages a named dump from a source archive into a local directory
// and returns the local path. Satisfied by the blob backends.
type Fetcher interface {
	Fetch(ctx context.Context, key string, destDir string) (string, error)
}

// taxdumpFiles are the dump tables the taxonomy stage reads.
var taxdumpFiles = []string{"nodes.dmp", "names.dmp", "division.dmp"}

// StageSources fetches every non-empty entry of src, treated as an archive
// key, into workDir and returns a Sources with local paths substituted.
// TaxdumpDir is treated as a key prefix; its three tables are staged into a
// taxdump subdirectory.
func StageSources(ctx context.Context, fetcher Fetcher, src Sources, workDir string) (Sources, error) {
	staged := src
	stage := func(dest *string, key string) error {
		if key == "" {
			return nil
		}
		local, err := fetcher.Fetch(ctx, key, workDir)
		if err != nil {
			return fmt.Errorf("stage %s: %w", key, err)
		}
		*dest = local
		return nil
	}

	fields := []struct {
		dest *string
		key  string
	}{
		{&staged.ECO, src.ECO},
		{&staged.GO, src.GO},
		{&staged.SBO, src.SBO},
		{&staged.BTO, src.BTO},
		{&staged.ChEBI, src.ChEBI},
		{&staged.ReactomePathways, src.ReactomePathways},
		{&staged.ReactomeRelations, src.ReactomeRelations},
		{&staged.ReactomeCompounds, src.ReactomeCompounds},
		{&staged.Uniprot, src.Uniprot},
		{&staged.Brenda, src.Brenda},
		{&staged.BKMS, src.BKMS},
		{&staged.RheaReactions, src.RheaReactions},
		{&staged.RheaDirections, src.RheaDirections},
	}
	for _, f := range fields {
		if err := stage(f.dest, f.key); err != nil {
			return Sources{}, err
		}
	}

	if src.TaxdumpDir != "" {
		destDir := filepath.Join(workDir, "taxdump")
		for _, name := range taxdumpFiles {
			key := path.Join(src.TaxdumpDir, name)
			if _, err := fetcher.Fetch(ctx, key, destDir); err != nil {
				return Sources{}, fmt.Errorf("stage %s: %w", key, err)
			}
		}
		staged.TaxdumpDir = destDir
	}

	if len(src.RheaXrefs) > 0 {
		tables := make([]string, 0, len(src.RheaXrefs))
		for table := range src.RheaXrefs {
			tables = append(tables, table)
		}
		sort.Strings(tables)
		staged.RheaXrefs = make(map[string]string, len(tables))
		for _, table := range tables {
			key := src.RheaXrefs[table]
			local, err := fetcher.Fetch(ctx, key, workDir)
			if err != nil {
				return Sources{}, fmt.Errorf("stage %s: %w", key, err)
			}
			staged.RheaXrefs[table] = local
		}
	}

	return staged, nil
}
