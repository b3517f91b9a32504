// Package memory provides the in-memory implementation of the biota store
// contracts, used for tests and ephemeral environments. Transactional
// semantics are real (clone, mutate, swap on commit) so loader behavior
// matches the SQL-backed stores.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/Constellab/gws-biota-sub001/pkg/biota"
)

// Compile-time contract assertion.
var _ biota.Store = (*Store)(nil)

// Store keeps every table as native maps and slices guarded by one RWMutex.
type Store struct {
	mu        sync.RWMutex
	state     *state
	manifests []biota.Manifest
	closed    bool
}

type state struct {
	terms     map[biota.EntityKind]map[string]biota.Term
	ancestors map[biota.EntityKind][]biota.AncestorEdge

	compounds map[string]biota.Compound

	pathways         map[string]biota.Pathway
	pathwayAncestors []biota.PathwayAncestor
	pathwayCompounds []biota.PathwayCompound

	taxa       map[string]biota.Taxon
	taxaByName map[string]string

	proteins map[string]biota.Protein

	enzymes     map[string]biota.Enzyme
	enzymesByEC map[string][]string
	enzymeSeq   int

	deprecated     map[string]biota.DeprecatedEnzyme
	enzymePathways []biota.EnzymePathway
	enzymeTissues  []biota.EnzymeTissue

	reactions          map[string]biota.Reaction
	reactionSubstrates []biota.ReactionCompound
	reactionProducts   []biota.ReactionCompound
	reactionEnzymes    []biota.ReactionEnzyme
}

func newState() *state {
	return &state{
		terms:       make(map[biota.EntityKind]map[string]biota.Term),
		ancestors:   make(map[biota.EntityKind][]biota.AncestorEdge),
		compounds:   make(map[string]biota.Compound),
		pathways:    make(map[string]biota.Pathway),
		taxa:        make(map[string]biota.Taxon),
		taxaByName:  make(map[string]string),
		proteins:    make(map[string]biota.Protein),
		enzymes:     make(map[string]biota.Enzyme),
		enzymesByEC: make(map[string][]string),
		deprecated:  make(map[string]biota.DeprecatedEnzyme),
		reactions:   make(map[string]biota.Reaction),
	}
}

// New constructs an empty store.
func New() *Store {
	return &Store{state: newState()}
}

var errClosed = errors.New("memory store is closed")

// Reset drops the tables owned by the listed kinds.
func (s *Store) Reset(_ context.Context, kinds ...biota.EntityKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	for _, kind := range kinds {
		s.state.reset(kind)
	}
	return nil
}

func (st *state) reset(kind biota.EntityKind) {
	switch kind {
	case biota.EntityECO, biota.EntityGO, biota.EntitySBO, biota.EntityBTO:
		delete(st.terms, kind)
		delete(st.ancestors, kind)
	case biota.EntityCompound:
		st.compounds = make(map[string]biota.Compound)
		delete(st.ancestors, kind)
	case biota.EntityPathway:
		st.pathways = make(map[string]biota.Pathway)
		st.pathwayAncestors = nil
		st.pathwayCompounds = nil
	case biota.EntityTaxon:
		st.taxa = make(map[string]biota.Taxon)
		st.taxaByName = make(map[string]string)
	case biota.EntityProtein:
		st.proteins = make(map[string]biota.Protein)
	case biota.EntityEnzyme:
		st.enzymes = make(map[string]biota.Enzyme)
		st.enzymesByEC = make(map[string][]string)
		st.enzymeSeq = 0
		st.enzymeTissues = nil
	case biota.EntityDeprecatedEnzyme:
		st.deprecated = make(map[string]biota.DeprecatedEnzyme)
	case biota.EntityEnzymePathway:
		st.enzymePathways = nil
	case biota.EntityReaction:
		st.reactions = make(map[string]biota.Reaction)
		st.reactionSubstrates = nil
		st.reactionProducts = nil
		st.reactionEnzymes = nil
	}
}

// RunInTransaction executes fn against a transactional clone of the store
// state and swaps the clone in only when fn returns nil.
func (s *Store) RunInTransaction(ctx context.Context, fn func(biota.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	staged := s.state.clone()
	if err := fn(&transaction{state: staged}); err != nil {
		return err
	}
	s.state = staged
	return nil
}

// View executes fn against a clone of the committed state. Mutations made
// through the transaction are discarded.
func (s *Store) View(fn func(biota.Tx)) {
	s.mu.RLock()
	staged := s.state.clone()
	s.mu.RUnlock()
	fn(&transaction{state: staged})
}

// Counts reports committed row counts for the listed kinds.
func (s *Store) Counts(_ context.Context, kinds ...biota.EntityKind) (map[biota.EntityKind]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed
	}
	counts := make(map[biota.EntityKind]int, len(kinds))
	for _, kind := range kinds {
		counts[kind] = s.state.count(kind)
	}
	return counts, nil
}

func (st *state) count(kind biota.EntityKind) int {
	switch kind {
	case biota.EntityECO, biota.EntityGO, biota.EntitySBO, biota.EntityBTO:
		return len(st.terms[kind])
	case biota.EntityCompound:
		return len(st.compounds)
	case biota.EntityPathway:
		return len(st.pathways)
	case biota.EntityTaxon:
		return len(st.taxa)
	case biota.EntityProtein:
		return len(st.proteins)
	case biota.EntityEnzyme:
		return len(st.enzymes)
	case biota.EntityDeprecatedEnzyme:
		return len(st.deprecated)
	case biota.EntityEnzymePathway:
		return len(st.enzymePathways)
	case biota.EntityReaction:
		return len(st.reactions)
	default:
		return 0
	}
}

// PutManifest appends a build manifest.
func (s *Store) PutManifest(_ context.Context, manifest biota.Manifest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	s.manifests = append(s.manifests, manifest)
	return nil
}

// Manifests returns every recorded manifest in insertion order.
func (s *Store) Manifests(_ context.Context) ([]biota.Manifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed
	}
	out := make([]biota.Manifest, len(s.manifests))
	copy(out, s.manifests)
	return out, nil
}

// Close marks the store closed; later calls fail.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// AncestorEdges returns the committed edge rows for kind.
func (s *Store) AncestorEdges(kind biota.EntityKind) []biota.AncestorEdge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]biota.AncestorEdge(nil), s.state.ancestors[kind]...)
}

// PathwayLinks returns the committed pathway hierarchy and compound
// membership rows.
func (s *Store) PathwayLinks() ([]biota.PathwayAncestor, []biota.PathwayCompound) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ancestors := append([]biota.PathwayAncestor(nil), s.state.pathwayAncestors...)
	members := append([]biota.PathwayCompound(nil), s.state.pathwayCompounds...)
	return ancestors, members
}

// EnzymePathways returns the committed per-EC pathway rows.
func (s *Store) EnzymePathways() []biota.EnzymePathway {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]biota.EnzymePathway(nil), s.state.enzymePathways...)
}

// EnzymeTissues returns the committed enzyme-tissue association rows.
func (s *Store) EnzymeTissues() []biota.EnzymeTissue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]biota.EnzymeTissue(nil), s.state.enzymeTissues...)
}

// ReactionLinks returns the committed substrate, product, and enzyme
// association rows.
func (s *Store) ReactionLinks() (substrates, products []biota.ReactionCompound, enzymes []biota.ReactionEnzyme) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	substrates = append(substrates, s.state.reactionSubstrates...)
	products = append(products, s.state.reactionProducts...)
	enzymes = append(enzymes, s.state.reactionEnzymes...)
	return substrates, products, enzymes
}

func (st *state) clone() *state {
	out := newState()
	for kind, terms := range st.terms {
		m := make(map[string]biota.Term, len(terms))
		for k, v := range terms {
			m[k] = v
		}
		out.terms[kind] = m
	}
	for kind, edges := range st.ancestors {
		out.ancestors[kind] = append([]biota.AncestorEdge(nil), edges...)
	}
	for k, v := range st.compounds {
		out.compounds[k] = v
	}
	for k, v := range st.pathways {
		out.pathways[k] = v
	}
	out.pathwayAncestors = append([]biota.PathwayAncestor(nil), st.pathwayAncestors...)
	out.pathwayCompounds = append([]biota.PathwayCompound(nil), st.pathwayCompounds...)
	for k, v := range st.taxa {
		out.taxa[k] = v
	}
	for k, v := range st.taxaByName {
		out.taxaByName[k] = v
	}
	for k, v := range st.proteins {
		out.proteins[k] = v
	}
	for k, v := range st.enzymes {
		out.enzymes[k] = v
	}
	for k, v := range st.enzymesByEC {
		out.enzymesByEC[k] = append([]string(nil), v...)
	}
	out.enzymeSeq = st.enzymeSeq
	for k, v := range st.deprecated {
		out.deprecated[k] = v
	}
	out.enzymePathways = append([]biota.EnzymePathway(nil), st.enzymePathways...)
	out.enzymeTissues = append([]biota.EnzymeTissue(nil), st.enzymeTissues...)
	for k, v := range st.reactions {
		out.reactions[k] = v
	}
	out.reactionSubstrates = append([]biota.ReactionCompound(nil), st.reactionSubstrates...)
	out.reactionProducts = append([]biota.ReactionCompound(nil), st.reactionProducts...)
	out.reactionEnzymes = append([]biota.ReactionEnzyme(nil), st.reactionEnzymes...)
	return out
}
