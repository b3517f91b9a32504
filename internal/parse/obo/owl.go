package obo

import (
	"encoding/xml"
	"io"
	"strings"
)

// RDF namespace URIs used by OBO-library OWL exports.
const (
	nsOWL  = "http://www.w3.org/2002/07/owl#"
	nsRDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	nsRDFS = "http://www.w3.org/2000/01/rdf-schema#"
	nsOBO  = "http://purl.obolibrary.org/obo/"
)

// ParseOWL reads an OWL/RDF-XML ontology export. Only owl:Class elements are
// mapped; object properties and axiom annotations are skipped because the
// pipeline persists the plain superclass relation only.
func ParseOWL(r io.Reader) (*Document, error) {
	decoder := xml.NewDecoder(r)
	pool := make(internPool, 64)
	doc := &Document{Terms: make([]Term, 0, initialTermCapacity)}

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch {
		case matchElement(se, nsOWL, "Class"):
			term := parseClass(decoder, se, pool)
			if term.ID != "" {
				doc.Terms = append(doc.Terms, term)
			}
		case matchElement(se, nsOWL, "Ontology"):
			parseOntologyHeader(decoder, se, doc)
		case matchElement(se, nsRDF, "RDF"):
			// container element, descend
		default:
			_ = decoder.Skip()
		}
	}
	return doc, nil
}

func matchElement(se xml.StartElement, ns, local string) bool {
	return se.Name.Space == ns && se.Name.Local == local
}

func getAttr(se xml.StartElement, ns, local string) string {
	for _, a := range se.Attr {
		if a.Name.Space == ns && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// curieFromURI converts http://purl.obolibrary.org/obo/GO_0000001 to
// GO:0000001. Non-OBO URIs pass through unchanged.
func curieFromURI(uri string) string {
	if !strings.HasPrefix(uri, nsOBO) {
		return uri
	}
	id := uri[len(nsOBO):]
	if idx := strings.IndexByte(id, '_'); idx >= 0 {
		return id[:idx] + ":" + id[idx+1:]
	}
	return id
}

func parseOntologyHeader(decoder *xml.Decoder, se xml.StartElement, doc *Document) {
	if about := getAttr(se, nsRDF, "about"); about != "" {
		doc.Name = about
	}
	for {
		tok, err := decoder.Token()
		if err != nil {
			return
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "versionIRI" {
				if v := getAttr(t, nsRDF, "resource"); v != "" {
					doc.DataVersion = v
				}
			}
			_ = decoder.Skip()
		case xml.EndElement:
			return
		}
	}
}

func parseClass(decoder *xml.Decoder, se xml.StartElement, pool internPool) Term {
	var t Term
	if about := getAttr(se, nsRDF, "about"); about != "" {
		t.ID = curieFromURI(about)
	}
	for {
		tok, err := decoder.Token()
		if err != nil {
			return t
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch {
			case matchElement(el, nsRDFS, "label"):
				t.Name = readCharData(decoder)
			case matchElement(el, nsRDFS, "subClassOf"):
				if res := getAttr(el, nsRDF, "resource"); res != "" {
					t.SuperClasses = append(t.SuperClasses, curieFromURI(res))
				}
				// Anonymous restrictions (typed relationships) are skipped:
				// only the plain superclass relation is persisted.
				_ = decoder.Skip()
			case el.Name.Local == "deprecated":
				t.Obsolete = readCharData(decoder) == "true"
			case el.Name.Local == "hasAlternativeId":
				t.AltIDs = append(t.AltIDs, readCharData(decoder))
			case el.Name.Local == "hasOBONamespace":
				t.Namespace = pool.get(readCharData(decoder))
			case el.Name.Local == "IAO_0000115":
				// definition annotation property
				t.Definition = readCharData(decoder)
			case el.Name.Local == "hasExactSynonym":
				t.Synonyms = append(t.Synonyms, Synonym{Text: readCharData(decoder), Scope: pool.get("EXACT")})
			case el.Name.Local == "hasBroadSynonym":
				t.Synonyms = append(t.Synonyms, Synonym{Text: readCharData(decoder), Scope: pool.get("BROAD")})
			case el.Name.Local == "hasNarrowSynonym":
				t.Synonyms = append(t.Synonyms, Synonym{Text: readCharData(decoder), Scope: pool.get("NARROW")})
			case el.Name.Local == "hasRelatedSynonym":
				t.Synonyms = append(t.Synonyms, Synonym{Text: readCharData(decoder), Scope: pool.get("RELATED")})
			case el.Name.Local == "hasDbXref":
				t.Xrefs = append(t.Xrefs, readCharData(decoder))
			case el.Name.Local == "inSubset":
				if res := getAttr(el, nsRDF, "resource"); res != "" {
					t.Subsets = append(t.Subsets, pool.get(curieFromURI(res)))
				}
				_ = decoder.Skip()
			default:
				// ChEBI publishes chemical attributes as plain annotation
				// elements (chebi:formula, chebi:charge, ...); capture any
				// text-valued element keyed by local name.
				if val := readCharData(decoder); val != "" {
					if t.Properties == nil {
						t.Properties = make(map[string]string, 8)
					}
					t.Properties[el.Name.Local] = val
				}
			}
		case xml.EndElement:
			return t
		}
	}
}

// readCharData collects the character data up to the matching end element,
// descending into nested elements.
func readCharData(decoder *xml.Decoder) string {
	var sb strings.Builder
	for {
		tok, err := decoder.Token()
		if err != nil {
			return sb.String()
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			sb.WriteString(readCharData(decoder))
		case xml.EndElement:
			return sb.String()
		}
	}
}
