package obo

import (
	"strings"
	"testing"
)

const chebiFixture = `format-version: 1.2
data-version: 239
ontology: chebi

[Term]
id: CHEBI:15366
name: acetic acid
namespace: chebi_ontology
def: "A simple monocarboxylic acid." [ChEBI:ss]
subset: 3_STAR
synonym: "acetic acid" EXACT [ChEBI:ss]
synonym: "ethanoic acid" RELATED [KEGG:ss]
xref: KEGG:C00033
xref: MetaCyc:ACET
xref: Wikipedia:Acetic_acid
alt_id: CHEBI:22169
is_a: CHEBI:15734 ! primary alcohol
is_a: CHEBI:27066
property_value: http://purl.obolibrary.org/obo/chebi/formula "C2H4O2" xsd:string
property_value: http://purl.obolibrary.org/obo/chebi/charge "+1" xsd:string
property_value: http://purl.obolibrary.org/obo/chebi/mass "60.052" xsd:string
property_value: http://purl.obolibrary.org/obo/chebi/monoisotopicmass "60.02113" xsd:string
property_value: http://purl.obolibrary.org/obo/chebi/inchikey "QTBSBXVTEAMEQO-UHFFFAOYSA-N" xsd:string
property_value: http://purl.obolibrary.org/obo/chebi/smiles "CC(O)=O" xsd:string

[Term]
id: CHEBI:99999
name: obsolete thing
is_obsolete: true

[Typedef]
id: has_part
name: has part
`

func TestParseOBOExtractsStanzaFields(t *testing.T) {
	doc, err := Parse(strings.NewReader(chebiFixture))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if doc.FormatVersion != "1.2" || doc.DataVersion != "239" || doc.Name != "chebi" {
		t.Fatalf("header = %q %q %q", doc.FormatVersion, doc.DataVersion, doc.Name)
	}
	if len(doc.Terms) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(doc.Terms))
	}
	term := doc.Terms[0]
	if term.ID != "CHEBI:15366" || term.Name != "acetic acid" || term.Namespace != "chebi_ontology" {
		t.Fatalf("identity fields wrong: %+v", term)
	}
	if term.Definition != "A simple monocarboxylic acid." {
		t.Fatalf("definition = %q", term.Definition)
	}
	if len(term.SuperClasses) != 2 || term.SuperClasses[0] != "CHEBI:15734" || term.SuperClasses[1] != "CHEBI:27066" {
		t.Fatalf("superclasses = %v", term.SuperClasses)
	}
	if len(term.Synonyms) != 2 || term.Synonyms[0].Scope != "EXACT" || term.Synonyms[1].Scope != "RELATED" {
		t.Fatalf("synonyms = %v", term.Synonyms)
	}
	if term.Properties["formula"] != "C2H4O2" || term.Properties["inchikey"] != "QTBSBXVTEAMEQO-UHFFFAOYSA-N" {
		t.Fatalf("properties = %v", term.Properties)
	}
	if len(term.AltIDs) != 1 || term.AltIDs[0] != "CHEBI:22169" {
		t.Fatalf("alt ids = %v", term.AltIDs)
	}
	if !doc.Terms[1].Obsolete {
		t.Fatal("obsolete flag not parsed")
	}
}

func TestTermsBuildDirectAncestorEdges(t *testing.T) {
	doc, err := Parse(strings.NewReader(chebiFixture))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	terms := Terms(doc)
	if len(terms) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(terms))
	}
	got := terms[0]
	if len(got.Ancestors) != 2 || got.Ancestors[0] != "CHEBI:15734" {
		t.Fatalf("ancestors = %v", got.Ancestors)
	}
	if len(got.Synonyms) != 2 {
		t.Fatalf("generic term should keep all synonym scopes: %v", got.Synonyms)
	}
	if ids := got.CrossRefs["KEGG"]; len(ids) != 1 || ids[0] != "C00033" {
		t.Fatalf("xrefs not partitioned by prefix: %v", got.CrossRefs)
	}
}

func TestCompoundsExtractChemicalAttributes(t *testing.T) {
	doc, err := Parse(strings.NewReader(chebiFixture))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	compounds := Compounds(doc)
	c := compounds[0]
	if c.ChEBIID != "CHEBI:15366" {
		t.Fatalf("chebi id = %q", c.ChEBIID)
	}
	if c.Formula != "C2H4O2" || c.SMILES != "CC(O)=O" {
		t.Fatalf("formula/smiles = %q %q", c.Formula, c.SMILES)
	}
	if c.Charge != 1 {
		t.Fatalf("charge = %d, want 1", c.Charge)
	}
	if c.Mass != 60.052 || c.MonoisotopicMass != 60.02113 {
		t.Fatalf("mass = %v %v", c.Mass, c.MonoisotopicMass)
	}
	if c.KeggID != "C00033" || c.MetacycID != "ACET" {
		t.Fatalf("kegg/metacyc = %q %q", c.KeggID, c.MetacycID)
	}
	if len(c.Synonyms) != 1 || c.Synonyms[0] != "acetic acid" {
		t.Fatalf("compound synonyms must be EXACT only: %v", c.Synonyms)
	}
	if c.Subset != "3_STAR" {
		t.Fatalf("subset = %q", c.Subset)
	}
}

const owlFixture = `<?xml version="1.0"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
         xmlns:rdfs="http://www.w3.org/2000/01/rdf-schema#"
         xmlns:owl="http://www.w3.org/2002/07/owl#"
         xmlns:oboInOwl="http://www.geneontology.org/formats/oboInOwl#"
         xmlns:obo="http://purl.obolibrary.org/obo/">
  <owl:Ontology rdf:about="http://purl.obolibrary.org/obo/go.owl"/>
  <owl:Class rdf:about="http://purl.obolibrary.org/obo/GO_0000002">
    <rdfs:label>mitochondrial genome maintenance</rdfs:label>
    <rdfs:subClassOf rdf:resource="http://purl.obolibrary.org/obo/GO_0007005"/>
    <oboInOwl:hasOBONamespace>biological_process</oboInOwl:hasOBONamespace>
    <oboInOwl:hasExactSynonym>mitochondrial genome upkeep</oboInOwl:hasExactSynonym>
    <oboInOwl:hasDbXref>Reactome:R-HSA-1</oboInOwl:hasDbXref>
  </owl:Class>
</rdf:RDF>
`

func TestParseOWLMapsClasses(t *testing.T) {
	doc, err := ParseOWL(strings.NewReader(owlFixture))
	if err != nil {
		t.Fatalf("parse owl: %v", err)
	}
	if len(doc.Terms) != 1 {
		t.Fatalf("expected 1 class, got %d", len(doc.Terms))
	}
	term := doc.Terms[0]
	if term.ID != "GO:0000002" {
		t.Fatalf("curie conversion failed: %q", term.ID)
	}
	if term.Name != "mitochondrial genome maintenance" || term.Namespace != "biological_process" {
		t.Fatalf("label/namespace = %q %q", term.Name, term.Namespace)
	}
	if len(term.SuperClasses) != 1 || term.SuperClasses[0] != "GO:0007005" {
		t.Fatalf("superclasses = %v", term.SuperClasses)
	}
	if len(term.Synonyms) != 1 || term.Synonyms[0].Scope != "EXACT" {
		t.Fatalf("synonyms = %v", term.Synonyms)
	}
}

func TestPartitionXrefsSkipsMalformedEntries(t *testing.T) {
	got := PartitionXrefs([]string{"KEGG:C1", "KEGG:C2", "no-colon", ":empty", "Wikipedia:Water \"desc\""})
	if len(got["KEGG"]) != 2 {
		t.Fatalf("kegg ids = %v", got["KEGG"])
	}
	if len(got["Wikipedia"]) != 1 || got["Wikipedia"][0] != "Water" {
		t.Fatalf("wikipedia ids = %v", got["Wikipedia"])
	}
	if _, ok := got[""]; ok {
		t.Fatal("empty prefix retained")
	}
}
