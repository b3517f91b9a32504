// Package brenda parses the BRENDA enzyme flat-file download. Entries are
// separated by "///" lines; each entry carries section headers in upper case
// ("PROTEIN", "SOURCE_TISSUE", "REFERENCE") followed by tab-prefixed data
// lines whose two-letter code identifies the field. Protein rows, parameter
// measurements, and literature references cross-link through "#n#" protein
// anchors and "<n>" reference anchors.
package brenda

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/Constellab/gws-biota-sub001/pkg/biota"
)

// Organism is one PR row: an organism-specific protein variant of the entry's
// EC number.
type Organism struct {
	Num       string
	Name      string
	UniprotID string
	RefNums   []string
}

// Measurement is one parameter observation before reference collapsing.
type Measurement struct {
	ProteinNums []string
	Value       string
	Comment     string
	RefNums     []string
}

// Reference is one RF row.
type Reference struct {
	Num    string
	Pubmed string
	Info   string
}

// Collapse reduces a reference to its PubMed id when present, otherwise to
// its free-text description.
func (r Reference) Collapse() string {
	if r.Pubmed != "" {
		return r.Pubmed
	}
	return r.Info
}

// Entry is one parsed flat-file record.
type Entry struct {
	EC         string
	Name       string
	Organisms  []Organism
	Params     map[string][]Measurement
	References map[string]Reference
}

var (
	ecPattern       = regexp.MustCompile(`\b(\d+\.\d+\.\d+\.\d+)\b`)
	idComment       = regexp.MustCompile(`\(([^)]*)\)\s*$`)
	proteinAnchors  = regexp.MustCompile(`^#([\d,\s]+)#\s*`)
	refAnchors      = regexp.MustCompile(`<([\d,\s.]+)>`)
	pubmedPattern   = regexp.MustCompile(`Pubmed:(\d+)`)
	parenComment    = regexp.MustCompile(`\(([^)]*)\)`)
	accessionSuffix = regexp.MustCompile(`\s+(\S+)\s+(UniProt|Uniprot|SwissProt|Swissprot|TrEMBL|GenBank)\s*$`)
)

// ParseFile parses the flat file at path.
func ParseFile(path string) ([]Entry, []biota.DeprecatedEnzyme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open brenda file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// Parse reads every entry, returning live entries and the side list of
// transferred or deleted EC records.
func Parse(r io.Reader) ([]Entry, []biota.DeprecatedEnzyme, error) {
	var (
		entries    []Entry
		deprecated []biota.DeprecatedEnzyme
		block      []string
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1<<20), 1<<20)
	flush := func() {
		if len(block) == 0 {
			return
		}
		entry, dep := parseEntry(block)
		switch {
		case dep != nil:
			deprecated = append(deprecated, *dep)
		case entry.EC != "":
			entries = append(entries, entry)
		}
		block = block[:0]
	}
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, "///") {
			flush()
			continue
		}
		block = append(block, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read brenda file: %w", err)
	}
	flush()
	return entries, deprecated, nil
}

func parseEntry(lines []string) (Entry, *biota.DeprecatedEnzyme) {
	entry := Entry{
		Params:     make(map[string][]Measurement),
		References: make(map[string]Reference),
	}
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		code, content, ok := strings.Cut(line, "\t")
		if !ok || code == "" {
			// section headers and blank lines
			continue
		}
		// join continuation lines (leading tab, no code)
		for i+1 < len(lines) && strings.HasPrefix(lines[i+1], "\t") {
			i++
			content += " " + strings.TrimSpace(lines[i])
		}
		switch code {
		case "ID":
			ec, dep := parseID(content)
			if dep != nil {
				return entry, dep
			}
			entry.EC = ec
		case "RN":
			if entry.Name == "" {
				entry.Name = strings.TrimSpace(content)
			}
		case "PR":
			if org, ok := parseOrganism(content); ok {
				entry.Organisms = append(entry.Organisms, org)
			}
		case "RF":
			ref := parseReference(content)
			if ref.Num != "" {
				entry.References[ref.Num] = ref
			}
		default:
			m := parseMeasurement(content)
			entry.Params[code] = append(entry.Params[code], m)
		}
	}
	return entry, nil
}

// parseID extracts the EC number; a parenthesized trailer mentioning a
// transfer or deletion turns the whole entry into a deprecation record.
func parseID(content string) (string, *biota.DeprecatedEnzyme) {
	content = strings.TrimSpace(content)
	ec := ""
	if m := ecPattern.FindString(content); m != "" {
		ec = m
	}
	cm := idComment.FindStringSubmatch(content)
	if cm == nil {
		return ec, nil
	}
	reason := strings.TrimSpace(cm[1])
	lower := strings.ToLower(reason)
	if !strings.Contains(lower, "transferred") && !strings.Contains(lower, "deleted") {
		return ec, nil
	}
	dep := &biota.DeprecatedEnzyme{OldEC: ec, Reason: reason}
	for _, successor := range ecPattern.FindAllString(reason, -1) {
		if successor != ec {
			dep.NewECs = append(dep.NewECs, successor)
		}
	}
	return ec, dep
}

// parseOrganism parses a PR row: `#1# Homo sapiens P07327 UniProt <1,2>`.
func parseOrganism(content string) (Organism, bool) {
	var org Organism
	content = strings.TrimSpace(content)
	anchors := proteinAnchors.FindStringSubmatch(content)
	if anchors == nil {
		return org, false
	}
	org.Num = strings.TrimSpace(strings.Split(anchors[1], ",")[0])
	content = content[len(anchors[0]):]
	if refs := refAnchors.FindStringSubmatch(content); refs != nil {
		org.RefNums = splitNums(refs[1])
		content = strings.TrimSpace(refAnchors.ReplaceAllString(content, ""))
	}
	if acc := accessionSuffix.FindStringSubmatch(content); acc != nil {
		org.UniprotID = acc[1]
		content = strings.TrimSpace(content[:len(content)-len(acc[0])])
	}
	org.Name = strings.TrimSpace(content)
	return org, true
}

// parseMeasurement parses one parameter row: leading protein anchors, the raw
// value, an optional parenthesized comment, and trailing reference anchors.
func parseMeasurement(content string) Measurement {
	var m Measurement
	content = strings.TrimSpace(content)
	if anchors := proteinAnchors.FindStringSubmatch(content); anchors != nil {
		m.ProteinNums = splitNums(anchors[1])
		content = content[len(anchors[0]):]
	}
	if refs := refAnchors.FindStringSubmatch(content); refs != nil {
		m.RefNums = splitNums(refs[1])
		content = refAnchors.ReplaceAllString(content, "")
	}
	if comment := parenComment.FindStringSubmatch(content); comment != nil {
		m.Comment = strings.TrimSpace(comment[1])
		content = parenComment.ReplaceAllString(content, "")
	}
	m.Value = strings.Join(strings.Fields(content), " ")
	return m
}

func parseReference(content string) Reference {
	var ref Reference
	content = strings.TrimSpace(content)
	if refs := refAnchors.FindStringSubmatch(content); refs != nil {
		nums := splitNums(refs[1])
		if len(nums) > 0 {
			ref.Num = nums[0]
		}
		content = strings.TrimSpace(strings.Replace(content, refs[0], "", 1))
	}
	if pm := pubmedPattern.FindStringSubmatch(content); pm != nil {
		ref.Pubmed = pm[1]
	}
	ref.Info = content
	return ref
}

func splitNums(s string) []string {
	var nums []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '.' }) {
		part = strings.TrimSpace(part)
		if part != "" {
			nums = append(nums, part)
		}
	}
	return nums
}

// Enzymes expands parsed entries into one enzyme record per organism variant.
// Each record carries only the measurements anchored to its protein number,
// with literature anchors collapsed to PubMed ids (or free-text fallbacks) and
// parameter codes emitted in sorted order for deterministic output.
func Enzymes(entries []Entry) []biota.Enzyme {
	var enzymes []biota.Enzyme
	for i := range entries {
		entry := &entries[i]
		codes := make([]string, 0, len(entry.Params))
		for code := range entry.Params {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, org := range entry.Organisms {
			enz := biota.Enzyme{
				ECNumber:   entry.EC,
				Name:       entry.Name,
				Organism:   org.Name,
				UniprotID:  org.UniprotID,
				References: entry.collapseRefs(org.RefNums),
			}
			for _, code := range codes {
				param := biota.Parameter{Code: code}
				for _, m := range entry.Params[code] {
					if !anchoredTo(m.ProteinNums, org.Num) {
						continue
					}
					param.Measurements = append(param.Measurements, biota.Measurement{
						Value:   m.Value,
						Comment: m.Comment,
						Refs:    entry.collapseRefs(m.RefNums),
					})
				}
				if len(param.Measurements) > 0 {
					enz.Params = append(enz.Params, param)
				}
			}
			enzymes = append(enzymes, enz)
		}
	}
	return enzymes
}

func anchoredTo(nums []string, num string) bool {
	for _, n := range nums {
		if n == num {
			return true
		}
	}
	return false
}

func (e *Entry) collapseRefs(nums []string) []string {
	var out []string
	for _, num := range nums {
		ref, ok := e.References[num]
		if !ok {
			continue
		}
		out = append(out, ref.Collapse())
	}
	sort.Strings(out)
	return out
}
