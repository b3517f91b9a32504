// Package bto parses the BTO tissue-ontology JSON export. Unlike the OBO
// sources, BTO's file enumerates each term's full transitive ancestor chain,
// and that chain is carried through to the store verbatim.
package bto

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Constellab/gws-biota-sub001/pkg/biota"
)

// entry mirrors one value of the top-level key→term mapping.
type entry struct {
	Key       string   `json:"key"`
	Label     string   `json:"label"`
	Ancestors []string `json:"ancestors"`
	Synonyms  []string `json:"synonyms"`
}

// ParseFile parses the BTO JSON file at path.
func ParseFile(path string) ([]biota.Term, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bto file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// Parse reads the nested key→term mapping. Terms with empty content are
// dropped; the term id comes from the inner "key" field, not the outer map
// key. Ancestor order follows the source file.
func Parse(r io.Reader) ([]biota.Term, error) {
	var raw map[string]entry
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode bto json: %w", err)
	}
	terms := make([]biota.Term, 0, len(raw))
	for _, e := range raw {
		if e.Key == "" && e.Label == "" {
			continue
		}
		terms = append(terms, biota.Term{
			SourceID:  e.Key,
			Name:      e.Label,
			Synonyms:  e.Synonyms,
			Ancestors: e.Ancestors,
		})
	}
	return terms, nil
}
