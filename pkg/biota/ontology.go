package biota

// OntologySpec describes the storage capabilities of one ontology kind.
// Capability flags replace per-ontology subclassing: every ontology is the
// same Term value type, and loaders consult the spec for behavior that varies.
type OntologySpec struct {
	Kind EntityKind
	// HasAncestors reports whether the kind owns an ancestor-edge table.
	HasAncestors bool
	// AncestorsPrecomputed marks kinds whose source already enumerates the
	// full transitive ancestor chain per term (BTO only). All other kinds
	// persist distance-1 edges, and multi-hop queries walk the edge table.
	AncestorsPrecomputed bool
}

var ontologySpecs = map[EntityKind]OntologySpec{
	EntityECO:      {Kind: EntityECO, HasAncestors: true},
	EntityGO:       {Kind: EntityGO, HasAncestors: true},
	EntitySBO:      {Kind: EntitySBO, HasAncestors: true},
	EntityBTO:      {Kind: EntityBTO, HasAncestors: true, AncestorsPrecomputed: true},
	EntityCompound: {Kind: EntityCompound, HasAncestors: true},
	EntityPathway:  {Kind: EntityPathway, HasAncestors: true},
}

// OntologyFor returns the capability spec for kind. The second result is false
// for kinds that are not stored as term graphs (taxa, enzymes, reactions).
func OntologyFor(kind EntityKind) (OntologySpec, bool) {
	spec, ok := ontologySpecs[kind]
	return spec, ok
}

// OntologyKinds lists the kinds stored as term graphs, in build order.
func OntologyKinds() []EntityKind {
	return []EntityKind{EntityECO, EntityGO, EntitySBO, EntityBTO, EntityCompound, EntityPathway}
}
