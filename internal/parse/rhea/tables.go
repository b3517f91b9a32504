package rhea

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Constellab/gws-biota-sub001/pkg/biota"
)

// DirectionRow is one line of the rhea-directions table: the master reaction
// id followed by its three directional variants.
type DirectionRow struct {
	Master string
	LR     string
	RL     string
	BI     string
}

// ParseDirections reads the four-column directions table. The file has no
// header row; short rows are skipped.
func ParseDirections(r io.Reader) ([]DirectionRow, error) {
	var rows []DirectionRow
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Split(strings.TrimRight(scanner.Text(), "\r\n"), "\t")
		if len(fields) < 4 {
			continue
		}
		rows = append(rows, DirectionRow{
			Master: strings.TrimSpace(fields[0]),
			LR:     strings.TrimSpace(fields[1]),
			RL:     strings.TrimSpace(fields[2]),
			BI:     strings.TrimSpace(fields[3]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read directions table: %w", err)
	}
	return rows, nil
}

// ParseDirectionsFile reads the directions table at path.
func ParseDirectionsFile(path string) ([]DirectionRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open directions table: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ParseDirections(f)
}

// DirectionBuckets partitions every rhea id in the table by the column it
// appeared in.
func DirectionBuckets(rows []DirectionRow) map[biota.ReactionDirection][]string {
	buckets := map[biota.ReactionDirection][]string{}
	for _, row := range rows {
		if row.Master != "" {
			buckets[biota.DirectionUndefined] = append(buckets[biota.DirectionUndefined], row.Master)
		}
		if row.LR != "" {
			buckets[biota.DirectionLeftToRight] = append(buckets[biota.DirectionLeftToRight], row.LR)
		}
		if row.RL != "" {
			buckets[biota.DirectionRightToLeft] = append(buckets[biota.DirectionRightToLeft], row.RL)
		}
		if row.BI != "" {
			buckets[biota.DirectionBidirectional] = append(buckets[biota.DirectionBidirectional], row.BI)
		}
	}
	return buckets
}

// MasterIDs maps every directional variant id back to its master id.
func MasterIDs(rows []DirectionRow) map[string]string {
	masters := make(map[string]string, len(rows)*3)
	for _, row := range rows {
		for _, variant := range []string{row.LR, row.RL, row.BI} {
			if variant != "" {
				masters[variant] = row.Master
			}
		}
	}
	return masters
}

// XrefRow is one line of an rhea2xxx id-mapping table.
type XrefRow struct {
	RheaID    string
	Direction string
	MasterID  string
	ID        string
}

// ParseXrefs reads a four-column rhea2xxx table, skipping the header row.
func ParseXrefs(r io.Reader) ([]XrefRow, error) {
	var rows []XrefRow
	scanner := bufio.NewScanner(r)
	first := true
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if first {
			first = false
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 4 {
			continue
		}
		rows = append(rows, XrefRow{
			RheaID:    strings.TrimSpace(fields[0]),
			Direction: strings.TrimSpace(fields[1]),
			MasterID:  strings.TrimSpace(fields[2]),
			ID:        strings.TrimSpace(fields[3]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read xref table: %w", err)
	}
	return rows, nil
}

// ParseXrefsFile reads the id-mapping table at path.
func ParseXrefsFile(path string) ([]XrefRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open xref table: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ParseXrefs(f)
}
