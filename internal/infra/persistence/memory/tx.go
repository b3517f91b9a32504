package memory

import (
	"fmt"

	"github.com/Constellab/gws-biota-sub001/pkg/biota"
)

var _ biota.Tx = (*transaction)(nil)

// transaction mutates a cloned state; the store swaps the clone in on
// commit, so a failed transaction leaves committed state untouched.
type transaction struct {
	state *state
}

func (tx *transaction) InsertTerms(kind biota.EntityKind, terms []biota.Term) error {
	table := tx.state.terms[kind]
	if table == nil {
		table = make(map[string]biota.Term, len(terms))
		tx.state.terms[kind] = table
	}
	for _, term := range terms {
		if term.SourceID == "" {
			return fmt.Errorf("%s term without source id", kind)
		}
		table[term.SourceID] = term
	}
	return nil
}

func (tx *transaction) InsertAncestors(kind biota.EntityKind, edges []biota.AncestorEdge) error {
	tx.state.ancestors[kind] = append(tx.state.ancestors[kind], edges...)
	return nil
}

func (tx *transaction) InsertCompounds(compounds []biota.Compound) error {
	for _, c := range compounds {
		if c.ChEBIID == "" {
			return fmt.Errorf("compound %q without chebi id", c.Name)
		}
		tx.state.compounds[c.ChEBIID] = c
	}
	return nil
}

func (tx *transaction) InsertPathways(pathways []biota.Pathway) error {
	for _, p := range pathways {
		if p.SourceID == "" {
			return fmt.Errorf("pathway %q without source id", p.Name)
		}
		tx.state.pathways[p.SourceID] = p
	}
	return nil
}

func (tx *transaction) InsertPathwayAncestors(rows []biota.PathwayAncestor) error {
	tx.state.pathwayAncestors = append(tx.state.pathwayAncestors, rows...)
	return nil
}

func (tx *transaction) InsertPathwayCompounds(rows []biota.PathwayCompound) error {
	tx.state.pathwayCompounds = append(tx.state.pathwayCompounds, rows...)
	return nil
}

func (tx *transaction) InsertTaxa(taxa []biota.Taxon) error {
	for _, t := range taxa {
		if t.TaxID == "" {
			return fmt.Errorf("taxon %q without tax id", t.Name)
		}
		tx.state.taxa[t.TaxID] = t
		if t.Name != "" {
			tx.state.taxaByName[t.Name] = t.TaxID
		}
	}
	return nil
}

func (tx *transaction) InsertProteins(proteins []biota.Protein) error {
	for _, p := range proteins {
		if p.Accession == "" {
			return fmt.Errorf("protein %q without accession", p.ID)
		}
		// Fallback for records whose header had no entry-name segment.
		if p.ID == "" {
			p.ID = p.Accession
		}
		tx.state.proteins[p.Accession] = p
	}
	return nil
}

func (tx *transaction) InsertEnzymes(enzymes []biota.Enzyme) ([]biota.Enzyme, error) {
	out := make([]biota.Enzyme, 0, len(enzymes))
	for _, e := range enzymes {
		if e.ECNumber == "" {
			return nil, fmt.Errorf("enzyme %q without EC number", e.Name)
		}
		tx.state.enzymeSeq++
		e.ID = fmt.Sprintf("enz-%06d", tx.state.enzymeSeq)
		tx.state.enzymes[e.ID] = e
		tx.state.enzymesByEC[e.ECNumber] = append(tx.state.enzymesByEC[e.ECNumber], e.ID)
		out = append(out, e)
	}
	return out, nil
}

func (tx *transaction) InsertDeprecatedEnzymes(rows []biota.DeprecatedEnzyme) error {
	for _, row := range rows {
		if row.OldEC == "" {
			return fmt.Errorf("deprecated enzyme record without EC number")
		}
		tx.state.deprecated[row.OldEC] = row
	}
	return nil
}

func (tx *transaction) InsertEnzymePathways(rows []biota.EnzymePathway) error {
	tx.state.enzymePathways = append(tx.state.enzymePathways, rows...)
	return nil
}

func (tx *transaction) InsertEnzymeTissues(rows []biota.EnzymeTissue) error {
	tx.state.enzymeTissues = append(tx.state.enzymeTissues, rows...)
	return nil
}

func (tx *transaction) InsertReactions(reactions []biota.Reaction) error {
	for _, r := range reactions {
		if r.RheaID == "" {
			return fmt.Errorf("reaction %q without rhea id", r.Definition)
		}
		tx.state.reactions[r.RheaID] = r
	}
	return nil
}

func (tx *transaction) InsertReactionSubstrates(rows []biota.ReactionCompound) error {
	tx.state.reactionSubstrates = append(tx.state.reactionSubstrates, rows...)
	return nil
}

func (tx *transaction) InsertReactionProducts(rows []biota.ReactionCompound) error {
	tx.state.reactionProducts = append(tx.state.reactionProducts, rows...)
	return nil
}

func (tx *transaction) InsertReactionEnzymes(rows []biota.ReactionEnzyme) error {
	tx.state.reactionEnzymes = append(tx.state.reactionEnzymes, rows...)
	return nil
}

func (tx *transaction) HasTerm(kind biota.EntityKind, sourceID string) bool {
	if kind == biota.EntityCompound {
		_, ok := tx.state.compounds[sourceID]
		return ok
	}
	_, ok := tx.state.terms[kind][sourceID]
	return ok
}

func (tx *transaction) FindTerm(kind biota.EntityKind, sourceID string) (biota.Term, bool) {
	if kind == biota.EntityCompound {
		c, ok := tx.state.compounds[sourceID]
		return c.Term, ok
	}
	term, ok := tx.state.terms[kind][sourceID]
	return term, ok
}

func (tx *transaction) FindCompound(chebiID string) (biota.Compound, bool) {
	c, ok := tx.state.compounds[chebiID]
	return c, ok
}

func (tx *transaction) FindTaxon(taxID string) (biota.Taxon, bool) {
	t, ok := tx.state.taxa[taxID]
	return t, ok
}

func (tx *transaction) FindTaxonByName(name string) (biota.Taxon, bool) {
	taxID, ok := tx.state.taxaByName[name]
	if !ok {
		return biota.Taxon{}, false
	}
	return tx.FindTaxon(taxID)
}

func (tx *transaction) FindPathway(sourceID string) (biota.Pathway, bool) {
	p, ok := tx.state.pathways[sourceID]
	return p, ok
}

func (tx *transaction) FindReaction(rheaID string) (biota.Reaction, bool) {
	r, ok := tx.state.reactions[rheaID]
	return r, ok
}

func (tx *transaction) FindDeprecatedEnzyme(oldEC string) (biota.DeprecatedEnzyme, bool) {
	d, ok := tx.state.deprecated[oldEC]
	return d, ok
}

func (tx *transaction) EnzymesByEC(ec string) []biota.Enzyme {
	ids := tx.state.enzymesByEC[ec]
	out := make([]biota.Enzyme, 0, len(ids))
	for _, id := range ids {
		if e, ok := tx.state.enzymes[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

func (tx *transaction) UpdateEnzyme(id string, mutator func(*biota.Enzyme) error) error {
	current, ok := tx.state.enzymes[id]
	if !ok {
		return biota.ErrNotFound{Kind: biota.EntityEnzyme, Key: id}
	}
	if err := mutator(&current); err != nil {
		return err
	}
	current.ID = id
	tx.state.enzymes[id] = current
	return nil
}

func (tx *transaction) UpdateReaction(rheaID string, mutator func(*biota.Reaction) error) error {
	current, ok := tx.state.reactions[rheaID]
	if !ok {
		return biota.ErrNotFound{Kind: biota.EntityReaction, Key: rheaID}
	}
	if err := mutator(&current); err != nil {
		return err
	}
	current.RheaID = rheaID
	tx.state.reactions[rheaID] = current
	return nil
}

func (tx *transaction) UpdateEnzymePathways(ec string, mutator func(*biota.EnzymePathway) error) (int, error) {
	matched := 0
	for i := range tx.state.enzymePathways {
		if tx.state.enzymePathways[i].ECNumber != ec {
			continue
		}
		if err := mutator(&tx.state.enzymePathways[i]); err != nil {
			return matched, err
		}
		matched++
	}
	return matched, nil
}
