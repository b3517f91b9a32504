// Package rhea parses the Rhea reaction flat file and its tab-separated
// cross-reference tables. Flat-file records are separated by "///" lines and
// carry ENTRY, DEFINITION, EQUATION, and ENZYME fields; the equation splits
// into a reagent side and a product side on whichever reaction arrow is
// present.
package rhea

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Constellab/gws-biota-sub001/pkg/biota"
)

// equationArrows in checking priority. The order is load-bearing: " = " is a
// substring of both directed arrows, so it must be tried last.
var equationArrows = []string{" => ", " <=> ", " = "}

// ParseFile parses the reaction flat file at path.
func ParseFile(path string) ([]biota.Reaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rhea file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// Parse reads every record. A record whose equation carries no recognized
// arrow is a fatal parse error: silently skipping it would corrupt the
// substrate/product link tables downstream.
func Parse(r io.Reader) ([]biota.Reaction, error) {
	var (
		reactions []biota.Reaction
		block     []string
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1<<20), 1<<20)
	flush := func() error {
		if len(block) == 0 {
			return nil
		}
		reaction, err := parseRecord(block)
		block = block[:0]
		if err != nil {
			return err
		}
		if reaction.RheaID != "" {
			reactions = append(reactions, reaction)
		}
		return nil
	}
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, "///") {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		block = append(block, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read rhea file: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return reactions, nil
}

// joinContinuations folds indented continuation lines into their field line.
func joinContinuations(lines []string) []string {
	var out []string
	for _, line := range lines {
		if len(out) > 0 && (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) {
			out[len(out)-1] += " " + strings.TrimSpace(line)
			continue
		}
		out = append(out, line)
	}
	return out
}

func parseRecord(lines []string) (biota.Reaction, error) {
	reaction := biota.Reaction{Direction: biota.DirectionUndefined}
	var equation string
	for _, line := range joinContinuations(lines) {
		field, content, ok := cutField(line)
		if !ok {
			continue
		}
		switch field {
		case "ENTRY":
			reaction.RheaID = strings.TrimPrefix(content, "RHEA:")
		case "DEFINITION":
			reaction.Definition = content
		case "EQUATION":
			equation = content
		case "ENZYME":
			reaction.EnzymeECs = append(reaction.EnzymeECs, strings.Fields(content)...)
		}
	}
	if equation == "" {
		return reaction, nil
	}
	substrates, products, substrateCoefficients, productCoefficients, err := ParseEquation(equation)
	if err != nil {
		return reaction, fmt.Errorf("entry %s: %w", reaction.RheaID, err)
	}
	reaction.SubstrateIDs = substrates
	reaction.ProductIDs = products
	reaction.SubstrateCoefficients = substrateCoefficients
	reaction.ProductCoefficients = productCoefficients
	return reaction, nil
}

// cutField splits "FIELD    content" on the first whitespace run.
func cutField(line string) (string, string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", "", false
	}
	fields := strings.SplitN(trimmed, " ", 2)
	if len(fields) == 1 {
		return fields[0], "", fields[0] == strings.ToUpper(fields[0])
	}
	return fields[0], strings.TrimSpace(fields[1]), true
}

// ParseEquation splits an equation into its substrate and product identifier
// lists plus one coefficient mapping per side. The maps are kept separate
// because a species can appear on both sides with different stoichiometry.
// Tokens of the form "<coefficient> <identifier>" split into the two parts;
// a bare identifier gets coefficient "1".
func ParseEquation(equation string) (substrates, products []string, substrateCoefficients, productCoefficients map[string]string, err error) {
	var left, right string
	found := false
	for _, arrow := range equationArrows {
		if l, r, ok := strings.Cut(equation, arrow); ok {
			left, right, found = l, r, true
			break
		}
	}
	if !found {
		return nil, nil, nil, nil, fmt.Errorf("equation %q has no recognized arrow", equation)
	}
	substrateCoefficients = make(map[string]string)
	productCoefficients = make(map[string]string)
	substrates = parseSide(left, substrateCoefficients)
	products = parseSide(right, productCoefficients)
	return substrates, products, substrateCoefficients, productCoefficients, nil
}

func parseSide(side string, coefficients map[string]string) []string {
	var ids []string
	for _, chunk := range strings.Split(side, ",") {
		for _, token := range strings.Split(chunk, " + ") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			coefficient, id := "1", token
			if fields := strings.Fields(token); len(fields) > 1 {
				coefficient = fields[0]
				id = strings.Join(fields[1:], " ")
			}
			ids = append(ids, id)
			coefficients[id] = coefficient
		}
	}
	return ids
}
