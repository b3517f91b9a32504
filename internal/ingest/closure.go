package ingest

import (
	"fmt"

	"github.com/Constellab/gws-biota-sub001/pkg/biota"
)

// materializeAncestors persists each term's ancestor list as explicit edge
// rows, batched at the configured edge batch size. It runs strictly after the
// ontology's terms were inserted in the same transaction, because edge rows
// resolve against loaded terms. Self-loops are filtered, duplicate
// (child, ancestor) pairs collapse, and an ancestor id that resolves to no
// loaded term is skipped rather than aborting the ontology: upstream releases
// are known to reference obsolete or unshipped terms.
//
// For BTO the incoming list already is the full transitive chain; for every
// other ontology it is the distance-1 superclass set, and that asymmetry is
// preserved as-is.
func (s *Service) materializeAncestors(tx biota.Tx, kind biota.EntityKind, terms []biota.Term) (written, skipped int, err error) {
	batch := make([]biota.AncestorEdge, 0, s.batch.Edges)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := tx.InsertAncestors(kind, batch); err != nil {
			return fmt.Errorf("insert %s ancestors: %w", kind, err)
		}
		written += len(batch)
		batch = batch[:0]
		return nil
	}
	for i := range terms {
		term := &terms[i]
		seen := make(map[string]struct{}, len(term.Ancestors))
		for _, ancestor := range term.Ancestors {
			if ancestor == term.SourceID {
				continue
			}
			if _, dup := seen[ancestor]; dup {
				continue
			}
			seen[ancestor] = struct{}{}
			if !tx.HasTerm(kind, ancestor) {
				skipped++
				continue
			}
			batch = append(batch, biota.AncestorEdge{Child: term.SourceID, Ancestor: ancestor})
			if len(batch) >= s.batch.Edges {
				if err := flush(); err != nil {
					return written, skipped, err
				}
			}
		}
	}
	if err := flush(); err != nil {
		return written, skipped, err
	}
	return written, skipped, nil
}
