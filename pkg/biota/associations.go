package biota

// Association records are pure join rows: created in bulk by the
// cross-reference linker, never mutated afterwards except via full rebuild of
// the owning entity kind.

// ReactionCompound links a reaction to one substrate or product compound.
// Coefficient carries the stoichiometric coefficient as written in the
// equation ("1", "2", "n", ...).
type ReactionCompound struct {
	RheaID      string `json:"rhea_id"`
	ChEBIID     string `json:"chebi_id"`
	Coefficient string `json:"coefficient"`
}

// ReactionEnzyme links a reaction to one enzyme row resolved by EC number.
type ReactionEnzyme struct {
	RheaID   string `json:"rhea_id"`
	EnzymeID string `json:"enzyme_id"`
}

// EnzymeTissue links an enzyme to one BTO tissue term.
type EnzymeTissue struct {
	EnzymeID string `json:"enzyme_id"`
	BTOID    string `json:"bto_id"`
}

// PathwayAncestor links a Reactome pathway to one of its ancestor pathways.
type PathwayAncestor struct {
	PathwayID  string `json:"pathway_id"`
	AncestorID string `json:"ancestor_id"`
}

// PathwayCompound links a ChEBI compound to a Reactome pathway.
type PathwayCompound struct {
	ChEBIID   string `json:"chebi_id"`
	PathwayID string `json:"pathway_id"`
	Species   string `json:"species,omitempty"`
}
