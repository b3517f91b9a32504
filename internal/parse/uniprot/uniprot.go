// Package uniprot parses UniProt FASTA releases. The record header carries a
// pipe-delimited id ("sp|P07327|ADH1A_HUMAN") and a free-text description with
// OX= (taxonomy id) and PE= (protein existence evidence) tags.
package uniprot

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/Constellab/gws-biota-sub001/pkg/biota"
)

// descriptionTags captures the taxonomy id and evidence score in one pass.
// The gene name tag is optional and matched separately.
var (
	descriptionTags = regexp.MustCompile(`OX=(\w+).*PE=(\d+)`)
	geneTag         = regexp.MustCompile(`GN=(\S+)`)
)

// ParseFile parses the FASTA file at path.
func ParseFile(path string) ([]biota.Protein, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fasta file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// Parse reads every record. Records whose description lacks the OX/PE tags
// default to an empty taxonomy id and evidence score 0.
func Parse(r io.Reader) ([]biota.Protein, error) {
	var (
		proteins []biota.Protein
		current  *biota.Protein
		seq      strings.Builder
	)
	flush := func() {
		if current == nil {
			return
		}
		current.Sequence = seq.String()
		proteins = append(proteins, *current)
		current = nil
		seq.Reset()
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1<<20), 1<<20)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, ">") {
			flush()
			p := parseHeader(line[1:])
			current = &p
			continue
		}
		if current != nil {
			seq.WriteString(strings.TrimSpace(line))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read fasta file: %w", err)
	}
	flush()
	return proteins, nil
}

// parseHeader splits `sp|P07327|ADH1A_HUMAN Alcohol dehydrogenase 1A
// OS=Homo sapiens OX=9606 ... PE=1 SV=2`.
func parseHeader(header string) biota.Protein {
	var p biota.Protein
	id, description, _ := strings.Cut(header, " ")
	parts := strings.Split(id, "|")
	if len(parts) > 0 && parts[0] != "" {
		p.Database = parts[0][:1]
	}
	if len(parts) > 1 {
		p.Accession = parts[1]
	}
	if len(parts) > 2 {
		p.ID = parts[2]
	}
	if m := geneTag.FindStringSubmatch(description); m != nil {
		p.GeneName = m[1]
	}
	if m := descriptionTags.FindStringSubmatch(description); m != nil {
		p.TaxonID = m[1]
		if score, err := strconv.Atoi(m[2]); err == nil {
			p.Evidence = score
		}
	}
	return p
}
