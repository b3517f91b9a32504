package obo

import (
	"strconv"
	"strings"

	"github.com/Constellab/gws-biota-sub001/pkg/biota"
)

// Terms converts a parsed document into domain terms. Ancestors carry the
// distance-1 superclass set exactly as written in the source; self-loop and
// dangling-reference filtering is the closure materializer's job.
func Terms(doc *Document) []biota.Term {
	terms := make([]biota.Term, 0, len(doc.Terms))
	for i := range doc.Terms {
		terms = append(terms, toTerm(&doc.Terms[i]))
	}
	return terms
}

func toTerm(t *Term) biota.Term {
	out := biota.Term{
		SourceID:   t.ID,
		Name:       t.Name,
		Namespace:  t.Namespace,
		Definition: t.Definition,
		AltIDs:     t.AltIDs,
		CrossRefs:  PartitionXrefs(t.Xrefs),
		Ancestors:  t.SuperClasses,
		Obsolete:   t.Obsolete,
	}
	for _, syn := range t.Synonyms {
		out.Synonyms = append(out.Synonyms, syn.Text)
	}
	return out
}

// Compounds converts a parsed ChEBI document, extracting chemical attributes
// from property-value annotations. Synonyms keep the EXACT scope only and the
// first listed subset tag is retained.
func Compounds(doc *Document) []biota.Compound {
	compounds := make([]biota.Compound, 0, len(doc.Terms))
	for i := range doc.Terms {
		compounds = append(compounds, toCompound(&doc.Terms[i]))
	}
	return compounds
}

func toCompound(t *Term) biota.Compound {
	c := biota.Compound{Term: toTerm(t), ChEBIID: t.ID}
	c.Synonyms = nil
	for _, syn := range t.Synonyms {
		if syn.Scope == "EXACT" {
			c.Synonyms = append(c.Synonyms, syn.Text)
		}
	}
	if len(t.Subsets) > 0 {
		c.Subset = t.Subsets[0]
	}
	c.Formula = t.Properties["formula"]
	c.InChI = t.Properties["inchi"]
	c.InChIKey = t.Properties["inchikey"]
	c.SMILES = t.Properties["smiles"]
	c.Charge = parseCharge(t.Properties["charge"])
	c.Mass = parseMass(t.Properties["mass"])
	c.MonoisotopicMass = parseMass(t.Properties["monoisotopicmass"])
	if ids := c.CrossRefs["KEGG"]; len(ids) > 0 {
		c.KeggID = ids[0]
	}
	if ids := c.CrossRefs["MetaCyc"]; len(ids) > 0 {
		c.MetacycID = ids[0]
	}
	return c
}

// PartitionXrefs groups cross-references by their source-database prefix.
// Trailing quoted descriptions are discarded.
func PartitionXrefs(xrefs []string) map[string][]string {
	if len(xrefs) == 0 {
		return nil
	}
	out := make(map[string][]string, len(xrefs))
	for _, xref := range xrefs {
		token, _, _ := strings.Cut(xref, " ")
		db, id, ok := strings.Cut(token, ":")
		if !ok || db == "" || id == "" {
			continue
		}
		out[db] = append(out[db], id)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// parseCharge tolerates explicit plus signs ("+2"); unparseable values
// default to zero charge.
func parseCharge(s string) int {
	s = strings.TrimPrefix(strings.TrimSpace(s), "+")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func parseMass(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
