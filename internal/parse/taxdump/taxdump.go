// Package taxdump parses NCBI taxonomy dump files (nodes.dmp, names.dmp,
// division.dmp). The dump format is pipe-delimited with "\t|\t" field
// separators and a trailing "\t|" line terminator.
package taxdump

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Constellab/gws-biota-sub001/pkg/biota"
)

// Standard dump file names inside a taxdump directory.
const (
	NodesFile    = "nodes.dmp"
	NamesFile    = "names.dmp"
	DivisionFile = "division.dmp"
)

// divisionUnspecified is assigned when a node references a division code the
// division file does not define.
const divisionUnspecified = "unspecified"

// scientificNameClass is the only name class carried into taxon records.
const scientificNameClass = "scientific name"

// ParseDir parses the three dump files under dir into taxon records.
func ParseDir(dir string) ([]biota.Taxon, error) {
	names, err := parseFileWith(filepath.Join(dir, NamesFile), ParseNames)
	if err != nil {
		return nil, err
	}
	divisions, err := parseFileWith(filepath.Join(dir, DivisionFile), ParseDivisions)
	if err != nil {
		return nil, err
	}
	nodes, err := os.Open(filepath.Join(dir, NodesFile))
	if err != nil {
		return nil, fmt.Errorf("open nodes dump: %w", err)
	}
	defer func() { _ = nodes.Close() }()
	return ParseNodes(nodes, names, divisions)
}

func parseFileWith(path string, parse func(io.Reader) (map[string]string, error)) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = f.Close() }()
	return parse(f)
}

// splitRow splits one dump line into its fields, dropping the trailing
// terminator.
func splitRow(line string) []string {
	line = strings.TrimSuffix(line, "\t|")
	return strings.Split(line, "\t|\t")
}

// ParseNames builds the tax_id → scientific-name mapping, ignoring every
// other name class (synonyms, common names, authorities).
func ParseNames(r io.Reader) (map[string]string, error) {
	names := make(map[string]string)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1<<20), 1<<20)
	for scanner.Scan() {
		fields := splitRow(scanner.Text())
		if len(fields) < 4 {
			continue
		}
		if strings.TrimSpace(fields[3]) != scientificNameClass {
			continue
		}
		names[strings.TrimSpace(fields[0])] = strings.TrimSpace(fields[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read names dump: %w", err)
	}
	return names, nil
}

// ParseDivisions builds the division-code → division-name lookup.
func ParseDivisions(r io.Reader) (map[string]string, error) {
	divisions := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := splitRow(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		divisions[strings.TrimSpace(fields[0])] = strings.TrimSpace(fields[2])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read division dump: %w", err)
	}
	return divisions, nil
}

// ParseNodes parses the nodes dump into taxon records, resolving names and
// divisions through the supplied lookups. The root node references itself as
// ancestor, which terminates downstream chain walks.
func ParseNodes(r io.Reader, names, divisions map[string]string) ([]biota.Taxon, error) {
	var taxa []biota.Taxon
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1<<20), 1<<20)
	for scanner.Scan() {
		fields := splitRow(scanner.Text())
		if len(fields) < 5 {
			continue
		}
		taxID := strings.TrimSpace(fields[0])
		division, ok := divisions[strings.TrimSpace(fields[4])]
		if !ok {
			division = divisionUnspecified
		}
		taxa = append(taxa, biota.Taxon{
			TaxID:         taxID,
			Name:          names[taxID],
			AncestorTaxID: strings.TrimSpace(fields[1]),
			Rank:          strings.TrimSpace(fields[2]),
			Division:      division,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read nodes dump: %w", err)
	}
	return taxa, nil
}
