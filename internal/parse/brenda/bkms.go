package brenda

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// BKMSRow is one row of the BKMS-react reconciliation table. Only the
// columns that carry pathway assignments are retained.
type BKMSRow struct {
	ECNumber           string
	BrendaPathwayName  string
	KeggPathwayID      string
	KeggPathwayName    string
	MetacycPathwayID   string
	MetacycPathwayName string
}

// ParseBKMS reads a tab-separated BKMS-react export. The first line is a
// header and is skipped. Rows without an EC number are dropped: they
// cannot be attached to any enzyme.
func ParseBKMS(r io.Reader) ([]BKMSRow, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	var rows []BKMSRow
	first := true
	for sc.Scan() {
		line := sc.Text()
		if first {
			first = false
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		cols := strings.Split(line, "\t")
		row := BKMSRow{ECNumber: strings.TrimSpace(col(cols, 0))}
		if row.ECNumber == "" {
			continue
		}
		row.BrendaPathwayName = strings.TrimSpace(col(cols, 1))
		row.KeggPathwayID = strings.TrimSpace(col(cols, 2))
		row.KeggPathwayName = strings.TrimSpace(col(cols, 3))
		row.MetacycPathwayID = strings.TrimSpace(col(cols, 4))
		row.MetacycPathwayName = strings.TrimSpace(col(cols, 5))
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan bkms table: %w", err)
	}
	return rows, nil
}

// ParseBKMSFile opens path and parses it with ParseBKMS.
func ParseBKMSFile(path string) ([]BKMSRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bkms table: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ParseBKMS(f)
}

func col(cols []string, i int) string {
	if i < len(cols) {
		return cols[i]
	}
	return ""
}
