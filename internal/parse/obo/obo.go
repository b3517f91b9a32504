// Package obo parses OBO and OWL/RDF-XML ontology files into a generic
// term-graph representation. Only the stanza fields the ingestion pipeline
// consumes are extracted: identity, naming, definitions, synonyms with scope,
// cross-references, alternate ids, distance-1 superclasses, and property-value
// annotations keyed by URI suffix.
package obo

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	// initialTermCapacity sizes the term slice for the largest ingested
	// ontology (ChEBI, ~180k terms).
	initialTermCapacity = 200000
	scannerBufferSize   = 1 << 20
)

// Synonym is a term synonym with its scope tag (EXACT, BROAD, NARROW, RELATED).
type Synonym struct {
	Text  string
	Scope string
}

// Term is one [Term] stanza (or owl:Class).
type Term struct {
	ID           string
	Name         string
	Namespace    string
	Definition   string
	Obsolete     bool
	AltIDs       []string
	Xrefs        []string
	Subsets      []string
	Synonyms     []Synonym
	SuperClasses []string
	// Properties holds property_value annotations keyed by the suffix of the
	// property URI ("formula", "charge", "inchikey", ...).
	Properties map[string]string
}

// Document is a parsed ontology file.
type Document struct {
	FormatVersion string
	DataVersion   string
	Name          string
	Terms         []Term
}

// internPool deduplicates repeated string values (namespaces, scopes) so a
// large ontology does not hold one allocation per occurrence.
type internPool map[string]string

func (p internPool) get(s string) string {
	if v, ok := p[s]; ok {
		return v
	}
	p[s] = s
	return s
}

// ParseFile parses path, dispatching on extension: ".owl" selects the RDF-XML
// parser, everything else is treated as OBO text.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ontology: %w", err)
	}
	defer func() { _ = f.Close() }()
	if strings.EqualFold(filepath.Ext(path), ".owl") {
		return ParseOWL(f)
	}
	return Parse(f)
}

// Parse reads an OBO-format ontology.
func Parse(r io.Reader) (*Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, scannerBufferSize), scannerBufferSize)

	doc := &Document{Terms: make([]Term, 0, initialTermCapacity)}
	pool := make(internPool, 64)

	inHeader := true
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		switch {
		case line == "[Term]":
			inHeader = false
			doc.Terms = append(doc.Terms, parseStanza(scanner, pool))
		case line == "" || line[0] == '[':
			// Non-term stanzas (Typedef, Instance) carry no graph content
			// the pipeline uses; their body lines fall through harmlessly.
			inHeader = false
		case inHeader:
			parseHeaderLine(doc, line)
		}
	}
	return doc, scanner.Err()
}

func parseHeaderLine(doc *Document, line string) {
	key, val, ok := strings.Cut(line, ": ")
	if !ok {
		return
	}
	switch key {
	case "format-version":
		doc.FormatVersion = val
	case "data-version":
		doc.DataVersion = val
	case "ontology":
		doc.Name = val
	}
}

func parseStanza(scanner *bufio.Scanner, pool internPool) Term {
	var t Term
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			break
		}
		key, val, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		switch key {
		case "id":
			t.ID = val
		case "name":
			t.Name = val
		case "namespace":
			t.Namespace = pool.get(val)
		case "def":
			t.Definition = parseQuoted(val)
		case "subset":
			t.Subsets = append(t.Subsets, pool.get(val))
		case "synonym":
			t.Synonyms = append(t.Synonyms, parseSynonym(val, pool))
		case "xref":
			t.Xrefs = append(t.Xrefs, val)
		case "alt_id":
			t.AltIDs = append(t.AltIDs, val)
		case "is_a":
			id, _, _ := strings.Cut(val, " ! ")
			t.SuperClasses = append(t.SuperClasses, strings.TrimSpace(id))
		case "is_obsolete":
			t.Obsolete = val == "true"
		case "property_value":
			k, v := parsePropertyValue(val)
			if k != "" {
				if t.Properties == nil {
					t.Properties = make(map[string]string, 8)
				}
				t.Properties[k] = v
			}
		}
	}
	return t
}

// parseQuoted extracts the text between the first pair of double quotes,
// honoring backslash escapes. Input without quotes is returned as-is.
func parseQuoted(s string) string {
	start := strings.IndexByte(s, '"')
	if start < 0 {
		return s
	}
	var sb strings.Builder
	escaped := false
	for i := start + 1; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			sb.WriteByte(c)
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			return sb.String()
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// parseSynonym parses `"text" SCOPE [xrefs]`.
func parseSynonym(s string, pool internPool) Synonym {
	syn := Synonym{Text: parseQuoted(s)}
	closing := strings.LastIndexByte(s, '"')
	if closing < 0 || closing+1 >= len(s) {
		return syn
	}
	fields := strings.Fields(s[closing+1:])
	if len(fields) > 0 && !strings.HasPrefix(fields[0], "[") {
		syn.Scope = pool.get(fields[0])
	}
	return syn
}

// parsePropertyValue parses `<uri> "value" xsd:type` or `<uri> value`,
// reducing the property URI to its trailing path segment.
func parsePropertyValue(val string) (string, string) {
	parts := strings.SplitN(val, " ", 2)
	if len(parts) < 2 {
		return "", ""
	}
	key := parts[0]
	if idx := strings.LastIndexAny(key, "/#"); idx >= 0 {
		key = key[idx+1:]
	}
	rest := parts[1]
	if strings.HasPrefix(rest, "\"") {
		return key, parseQuoted(rest)
	}
	value, _, _ := strings.Cut(rest, " ")
	return key, value
}
