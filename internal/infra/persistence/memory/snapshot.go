package memory

import "github.com/Constellab/gws-biota-sub001/pkg/biota"

// Snapshot is the portable, point-in-time export of the full store state.
// The SQL-backed stores persist and hydrate through it. Derived indexes
// (taxon name lookup, EC grouping) are rebuilt on import, not persisted.
type Snapshot struct {
	Terms     map[biota.EntityKind]map[string]biota.Term  `json:"terms,omitempty"`
	Ancestors map[biota.EntityKind][]biota.AncestorEdge   `json:"ancestors,omitempty"`

	Compounds map[string]biota.Compound `json:"compounds,omitempty"`

	Pathways         map[string]biota.Pathway `json:"pathways,omitempty"`
	PathwayAncestors []biota.PathwayAncestor  `json:"pathway_ancestors,omitempty"`
	PathwayCompounds []biota.PathwayCompound  `json:"pathway_compounds,omitempty"`

	Taxa     map[string]biota.Taxon   `json:"taxa,omitempty"`
	Proteins map[string]biota.Protein `json:"proteins,omitempty"`

	Enzymes   map[string]biota.Enzyme `json:"enzymes,omitempty"`
	EnzymeSeq int                     `json:"enzyme_seq,omitempty"`

	Deprecated     map[string]biota.DeprecatedEnzyme `json:"deprecated,omitempty"`
	EnzymePathways []biota.EnzymePathway             `json:"enzyme_pathways,omitempty"`
	EnzymeTissues  []biota.EnzymeTissue              `json:"enzyme_tissues,omitempty"`

	Reactions          map[string]biota.Reaction  `json:"reactions,omitempty"`
	ReactionSubstrates []biota.ReactionCompound   `json:"reaction_substrates,omitempty"`
	ReactionProducts   []biota.ReactionCompound   `json:"reaction_products,omitempty"`
	ReactionEnzymes    []biota.ReactionEnzyme     `json:"reaction_enzymes,omitempty"`

	Manifests []biota.Manifest `json:"manifests,omitempty"`
}

// ExportState clones the committed state into a Snapshot.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state.clone()
	return Snapshot{
		Terms:              st.terms,
		Ancestors:          st.ancestors,
		Compounds:          st.compounds,
		Pathways:           st.pathways,
		PathwayAncestors:   st.pathwayAncestors,
		PathwayCompounds:   st.pathwayCompounds,
		Taxa:               st.taxa,
		Proteins:           st.proteins,
		Enzymes:            st.enzymes,
		EnzymeSeq:          st.enzymeSeq,
		Deprecated:         st.deprecated,
		EnzymePathways:     st.enzymePathways,
		EnzymeTissues:      st.enzymeTissues,
		Reactions:          st.reactions,
		ReactionSubstrates: st.reactionSubstrates,
		ReactionProducts:   st.reactionProducts,
		ReactionEnzymes:    st.reactionEnzymes,
		Manifests:          append([]biota.Manifest(nil), s.manifests...),
	}
}

// ImportState replaces the store state with the snapshot contents and
// rebuilds the derived lookup indexes.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := newState()
	if snapshot.Terms != nil {
		st.terms = snapshot.Terms
	}
	if snapshot.Ancestors != nil {
		st.ancestors = snapshot.Ancestors
	}
	if snapshot.Compounds != nil {
		st.compounds = snapshot.Compounds
	}
	if snapshot.Pathways != nil {
		st.pathways = snapshot.Pathways
	}
	st.pathwayAncestors = snapshot.PathwayAncestors
	st.pathwayCompounds = snapshot.PathwayCompounds
	if snapshot.Taxa != nil {
		st.taxa = snapshot.Taxa
	}
	if snapshot.Proteins != nil {
		st.proteins = snapshot.Proteins
	}
	if snapshot.Enzymes != nil {
		st.enzymes = snapshot.Enzymes
	}
	st.enzymeSeq = snapshot.EnzymeSeq
	if snapshot.Deprecated != nil {
		st.deprecated = snapshot.Deprecated
	}
	st.enzymePathways = snapshot.EnzymePathways
	st.enzymeTissues = snapshot.EnzymeTissues
	if snapshot.Reactions != nil {
		st.reactions = snapshot.Reactions
	}
	st.reactionSubstrates = snapshot.ReactionSubstrates
	st.reactionProducts = snapshot.ReactionProducts
	st.reactionEnzymes = snapshot.ReactionEnzymes

	for taxID, taxon := range st.taxa {
		if taxon.Name != "" {
			st.taxaByName[taxon.Name] = taxID
		}
	}
	for id, enzyme := range st.enzymes {
		st.enzymesByEC[enzyme.ECNumber] = append(st.enzymesByEC[enzyme.ECNumber], id)
	}
	s.state = st
	s.manifests = append([]biota.Manifest(nil), snapshot.Manifests...)
}
