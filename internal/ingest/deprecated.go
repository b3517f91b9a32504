package ingest

import "github.com/Constellab/gws-biota-sub001/pkg/biota"

// SelectNewEnzymes resolves an EC number to its live enzyme rows, following
// transferred-EC chains through the deprecated-enzyme records. A deprecated
// EC may point at successors that are themselves deprecated; the chain is
// walked to its live ends. Deleted ECs and dead ends resolve to nothing. A
// visited set bounds the walk: upstream releases have contained transfer
// cycles, and a cycle simply contributes no enzymes.
func SelectNewEnzymes(tx biota.Tx, ec string) []biota.Enzyme {
	visited := make(map[string]struct{})
	return selectLive(tx, ec, visited)
}

func selectLive(tx biota.Tx, ec string, visited map[string]struct{}) []biota.Enzyme {
	if _, seen := visited[ec]; seen {
		return nil
	}
	visited[ec] = struct{}{}
	if live := tx.EnzymesByEC(ec); len(live) > 0 {
		return live
	}
	dep, ok := tx.FindDeprecatedEnzyme(ec)
	if !ok {
		return nil
	}
	var out []biota.Enzyme
	for _, next := range dep.NewECs {
		out = append(out, selectLive(tx, next, visited)...)
	}
	return out
}
