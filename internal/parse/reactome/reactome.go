// Package reactome parses the three plain-text Reactome tables the pipeline
// ingests: the pathway list, the pathway-ancestor relation list, and the
// ChEBI-to-pathway association list. All three are tab-separated with fixed
// positional fields and no header row.
package reactome

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Constellab/gws-biota-sub001/pkg/biota"
)

func scanRows(r io.Reader, minFields int, row func(fields []string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1<<20), 1<<20)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < minFields {
			continue
		}
		row(fields)
	}
	return scanner.Err()
}

// ParsePathways reads the three-column pathway list (stable id, name,
// species).
func ParsePathways(r io.Reader) ([]biota.Pathway, error) {
	var pathways []biota.Pathway
	err := scanRows(r, 3, func(fields []string) {
		pathways = append(pathways, biota.Pathway{
			SourceID: strings.TrimSpace(fields[0]),
			Name:     strings.TrimSpace(fields[1]),
			Species:  strings.TrimSpace(fields[2]),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("read pathway list: %w", err)
	}
	return pathways, nil
}

// ParseRelations reads the two-column ancestor list (ancestor id, child id).
func ParseRelations(r io.Reader) ([]biota.PathwayAncestor, error) {
	var relations []biota.PathwayAncestor
	err := scanRows(r, 2, func(fields []string) {
		relations = append(relations, biota.PathwayAncestor{
			AncestorID: strings.TrimSpace(fields[0]),
			PathwayID:  strings.TrimSpace(fields[1]),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("read pathway relations: %w", err)
	}
	return relations, nil
}

// ParseCompoundPathways reads the six-column ChEBI-to-pathway list (chebi id,
// pathway stable id, url, event name, evidence code, species). ChEBI ids in
// this file are bare numbers; the CHEBI prefix is restored here so the linker
// can match compound natural keys directly.
func ParseCompoundPathways(r io.Reader) ([]biota.PathwayCompound, error) {
	var rows []biota.PathwayCompound
	err := scanRows(r, 6, func(fields []string) {
		chebi := strings.TrimSpace(fields[0])
		if chebi == "" {
			return
		}
		if !strings.HasPrefix(chebi, "CHEBI:") {
			chebi = "CHEBI:" + chebi
		}
		rows = append(rows, biota.PathwayCompound{
			ChEBIID:   chebi,
			PathwayID: strings.TrimSpace(fields[1]),
			Species:   strings.TrimSpace(fields[5]),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("read compound pathways: %w", err)
	}
	return rows, nil
}

func parseFileWith[T any](path string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reactome table: %w", err)
	}
	defer func() { _ = f.Close() }()
	return parse(f)
}

// ParsePathwaysFile reads the pathway list at path.
func ParsePathwaysFile(path string) ([]biota.Pathway, error) {
	return parseFileWith(path, ParsePathways)
}

// ParseRelationsFile reads the ancestor relation list at path.
func ParseRelationsFile(path string) ([]biota.PathwayAncestor, error) {
	return parseFileWith(path, ParseRelations)
}

// ParseCompoundPathwaysFile reads the ChEBI-to-pathway list at path.
func ParseCompoundPathwaysFile(path string) ([]biota.PathwayCompound, error) {
	return parseFileWith(path, ParseCompoundPathways)
}
