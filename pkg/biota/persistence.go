package biota

import (
	"context"
	"time"
)

// Store is the bulk persistence gateway contract. Implementations guarantee
// that RunInTransaction is all-or-nothing: every row written by fn commits
// together or not at all. Reset drops and recreates the tables owned by the
// listed kinds, which is the only supported rebuild semantics — there is no
// partial upsert anywhere in the pipeline.
type Store interface {
	Reset(ctx context.Context, kinds ...EntityKind) error
	RunInTransaction(ctx context.Context, fn func(Tx) error) error
	Counts(ctx context.Context, kinds ...EntityKind) (map[EntityKind]int, error)
	PutManifest(ctx context.Context, manifest Manifest) error
	Manifests(ctx context.Context) ([]Manifest, error)
	Close() error
}

// Tx exposes the bulk insert, update, and natural-key lookup operations a
// stage loader may perform within one atomic scope. Lookups observe rows
// committed by earlier stages as well as rows staged in the current scope.
type Tx interface {
	InsertTerms(kind EntityKind, terms []Term) error
	InsertAncestors(kind EntityKind, edges []AncestorEdge) error
	InsertCompounds(compounds []Compound) error
	InsertPathways(pathways []Pathway) error
	InsertPathwayAncestors(rows []PathwayAncestor) error
	InsertPathwayCompounds(rows []PathwayCompound) error
	InsertTaxa(taxa []Taxon) error
	InsertProteins(proteins []Protein) error
	// InsertEnzymes assigns each row an internal ID and returns the stored
	// rows; EC numbers are not unique so callers must use the returned IDs
	// for association rows.
	InsertEnzymes(enzymes []Enzyme) ([]Enzyme, error)
	InsertDeprecatedEnzymes(rows []DeprecatedEnzyme) error
	InsertEnzymePathways(rows []EnzymePathway) error
	InsertEnzymeTissues(rows []EnzymeTissue) error
	InsertReactions(reactions []Reaction) error
	InsertReactionSubstrates(rows []ReactionCompound) error
	InsertReactionProducts(rows []ReactionCompound) error
	InsertReactionEnzymes(rows []ReactionEnzyme) error

	HasTerm(kind EntityKind, sourceID string) bool
	FindTerm(kind EntityKind, sourceID string) (Term, bool)
	FindCompound(chebiID string) (Compound, bool)
	FindTaxon(taxID string) (Taxon, bool)
	FindTaxonByName(name string) (Taxon, bool)
	FindPathway(sourceID string) (Pathway, bool)
	FindReaction(rheaID string) (Reaction, bool)
	FindDeprecatedEnzyme(oldEC string) (DeprecatedEnzyme, bool)
	EnzymesByEC(ec string) []Enzyme

	UpdateEnzyme(id string, mutator func(*Enzyme) error) error
	UpdateReaction(rheaID string, mutator func(*Reaction) error) error
	// UpdateEnzymePathways applies mutator to every enzyme-pathway row with
	// the given EC and reports how many rows matched.
	UpdateEnzymePathways(ec string, mutator func(*EnzymePathway) error) (int, error)
}

// Manifest records what one full build produced. One row per run.
type Manifest struct {
	RunID      string             `json:"run_id"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	Counts     map[EntityKind]int `json:"counts"`
}
