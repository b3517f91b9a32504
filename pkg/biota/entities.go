// Package biota defines the persistent entities, association records, and
// store contracts shared by the reference-database ingestion pipeline.
package biota

// EntityKind identifies a persisted record family. Each kind owns one table
// (plus an ancestor table where HasAncestors reports true) that is dropped and
// fully repopulated on every rebuild.
type EntityKind string

// Supported entity kinds, in build order.
const (
	// EntityECO identifies evidence-ontology terms.
	EntityECO EntityKind = "eco"
	// EntityGO identifies gene-ontology terms.
	EntityGO EntityKind = "go"
	// EntitySBO identifies systems-biology-ontology terms.
	EntitySBO EntityKind = "sbo"
	// EntityBTO identifies tissue-ontology terms.
	EntityBTO EntityKind = "bto"
	// EntityCompound identifies ChEBI chemical entities.
	EntityCompound EntityKind = "compound"
	// EntityPathway identifies Reactome pathways.
	EntityPathway EntityKind = "pathway"
	// EntityTaxon identifies NCBI taxonomy nodes.
	EntityTaxon EntityKind = "taxon"
	// EntityProtein identifies UniProt protein records.
	EntityProtein EntityKind = "protein"
	// EntityEnzyme identifies BRENDA enzyme records.
	EntityEnzyme EntityKind = "enzyme"
	// EntityDeprecatedEnzyme identifies transferred or deleted EC records.
	EntityDeprecatedEnzyme EntityKind = "deprecated_enzyme"
	// EntityEnzymePathway identifies the per-EC pathway rows enriched from BKMS.
	EntityEnzymePathway EntityKind = "enzyme_pathway"
	// EntityReaction identifies Rhea reactions.
	EntityReaction EntityKind = "reaction"
)

// EntityKinds lists every entity kind in load order.
func EntityKinds() []EntityKind {
	return []EntityKind{
		EntityECO, EntityGO, EntitySBO, EntityBTO,
		EntityCompound, EntityPathway, EntityTaxon, EntityProtein,
		EntityEnzyme, EntityDeprecatedEnzyme, EntityEnzymePathway,
		EntityReaction,
	}
}

// Term is one node of a controlled vocabulary. SourceID is the stable natural
// key ("GO:0000001", "BTO:0000010") used for all cross-referencing; internal
// storage ids never leak out of the store layer.
type Term struct {
	SourceID   string              `json:"source_id"`
	Name       string              `json:"name"`
	Namespace  string              `json:"namespace,omitempty"`
	Definition string              `json:"definition,omitempty"`
	Synonyms   []string            `json:"synonyms,omitempty"`
	AltIDs     []string            `json:"alt_ids,omitempty"`
	CrossRefs  map[string][]string `json:"cross_refs,omitempty"`
	// Ancestors holds superclass natural keys. For every ontology except BTO
	// this is the distance-1 set; BTO's source supplies the full transitive
	// chain and that chain is persisted as-is.
	Ancestors []string `json:"ancestors,omitempty"`
	Obsolete  bool     `json:"obsolete,omitempty"`
}

// AncestorEdge is one persisted child→ancestor row within a single ontology.
// (Child, Ancestor) pairs are unique and Child never equals Ancestor.
type AncestorEdge struct {
	Child    string `json:"child"`
	Ancestor string `json:"ancestor"`
}

// Compound is a ChEBI term augmented with chemical attributes extracted from
// property-value annotations.
type Compound struct {
	Term
	ChEBIID          string  `json:"chebi_id"`
	Formula          string  `json:"formula,omitempty"`
	Charge           int     `json:"charge,omitempty"`
	Mass             float64 `json:"mass,omitempty"`
	MonoisotopicMass float64 `json:"monoisotopic_mass,omitempty"`
	InChI            string  `json:"inchi,omitempty"`
	InChIKey         string  `json:"inchikey,omitempty"`
	SMILES           string  `json:"smiles,omitempty"`
	KeggID           string  `json:"kegg_id,omitempty"`
	MetacycID        string  `json:"metacyc_id,omitempty"`
	Subset           string  `json:"subset,omitempty"`
}

// Measurement is one BRENDA parameter observation for an enzyme: a raw value
// plus the comment and collapsed literature references that came with it.
type Measurement struct {
	Value   string   `json:"value,omitempty"`
	Comment string   `json:"comment,omitempty"`
	Refs    []string `json:"refs,omitempty"`
}

// Parameter groups the measurements recorded under one BRENDA field code
// ("KM", "TN", "ST", ...) for a single enzyme record.
type Parameter struct {
	Code         string        `json:"code"`
	Measurements []Measurement `json:"measurements,omitempty"`
}

// TaxonRanks is the flattened taxonomic-rank projection of an enzyme's source
// organism, populated by walking the Taxon ancestor chain. Fields hold tax_ids;
// ranks absent from the chain stay empty.
type TaxonRanks struct {
	Superkingdom string `json:"tax_superkingdom,omitempty"`
	Clade        string `json:"tax_clade,omitempty"`
	Kingdom      string `json:"tax_kingdom,omitempty"`
	Subkingdom   string `json:"tax_subkingdom,omitempty"`
	Class        string `json:"tax_class,omitempty"`
	Phylum       string `json:"tax_phylum,omitempty"`
	Subphylum    string `json:"tax_subphylum,omitempty"`
	Order        string `json:"tax_order,omitempty"`
	Family       string `json:"tax_family,omitempty"`
	Genus        string `json:"tax_genus,omitempty"`
	Species      string `json:"tax_species,omitempty"`
}

// Enzyme is one BRENDA protein record. ECNumber is not unique: multiple
// organism variants share one EC, so the store assigns each row an internal ID.
type Enzyme struct {
	ID         string      `json:"id"`
	ECNumber   string      `json:"ec_number"`
	Name       string      `json:"name,omitempty"`
	Organism   string      `json:"organism,omitempty"`
	UniprotID  string      `json:"uniprot_id,omitempty"`
	TaxonID    string      `json:"taxon_id,omitempty"`
	Ranks      TaxonRanks  `json:"ranks,omitempty"`
	Params     []Parameter `json:"params,omitempty"`
	TissueIDs  []string    `json:"tissue_ids,omitempty"`
	References []string    `json:"references,omitempty"`
}

// DeprecatedEnzyme records a transferred or deleted EC number. NewECs may name
// zero or more successor ECs, which may themselves be deprecated.
type DeprecatedEnzyme struct {
	OldEC  string   `json:"old_ec"`
	NewECs []string `json:"new_ecs,omitempty"`
	Reason string   `json:"reason,omitempty"`
}

// PathwayRef is a nested {id, name} reference contributed by one BKMS source
// database.
type PathwayRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// EnzymePathway is the per-EC pathway row enriched from the BRENDA BKMS table.
type EnzymePathway struct {
	ECNumber string      `json:"ec_number"`
	Brenda   *PathwayRef `json:"brenda,omitempty"`
	Kegg     *PathwayRef `json:"kegg,omitempty"`
	Metacyc  *PathwayRef `json:"metacyc,omitempty"`
}

// ReactionDirection enumerates the four Rhea direction buckets.
type ReactionDirection string

// Rhea reaction directions.
const (
	DirectionUndefined     ReactionDirection = "UN"
	DirectionLeftToRight   ReactionDirection = "LR"
	DirectionRightToLeft   ReactionDirection = "RL"
	DirectionBidirectional ReactionDirection = "BI"
)

// Reaction is one Rhea reaction. Substrate/product identifier lists are the
// ChEBI ids captured from the equation before compound rows are resolved;
// association rows are emitted by the cross-reference linker afterwards.
// Coefficients are kept per side: the same species can appear on both sides
// of an equation with different stoichiometry.
type Reaction struct {
	RheaID                string            `json:"rhea_id"`
	MasterID              string            `json:"master_id,omitempty"`
	Definition            string            `json:"definition,omitempty"`
	Direction             ReactionDirection `json:"direction"`
	BiocycIDs             []string          `json:"biocyc_ids,omitempty"`
	KeggID                string            `json:"kegg_id,omitempty"`
	SubstrateIDs          []string          `json:"substrate_ids,omitempty"`
	ProductIDs            []string          `json:"product_ids,omitempty"`
	SubstrateCoefficients map[string]string `json:"substrate_coefficients,omitempty"`
	ProductCoefficients   map[string]string `json:"product_coefficients,omitempty"`
	EnzymeECs             []string          `json:"enzyme_ecs,omitempty"`
}

// Taxon is one NCBI taxonomy node. The root's AncestorTaxID equals its own
// TaxID, terminating ancestor walks.
type Taxon struct {
	TaxID         string `json:"tax_id"`
	Name          string `json:"name"`
	Rank          string `json:"rank,omitempty"`
	Division      string `json:"division,omitempty"`
	AncestorTaxID string `json:"ancestor_tax_id"`
}

// Pathway is one Reactome pathway.
type Pathway struct {
	SourceID string `json:"source_id"`
	Name     string `json:"name"`
	Species  string `json:"species,omitempty"`
}

// Protein is one UniProt record parsed from FASTA.
type Protein struct {
	ID        string `json:"id"`
	Accession string `json:"accession"`
	Database  string `json:"database,omitempty"`
	GeneName  string `json:"gene_name,omitempty"`
	TaxonID   string `json:"taxon_id,omitempty"`
	Evidence  int    `json:"evidence,omitempty"`
	Sequence  string `json:"sequence,omitempty"`
}
