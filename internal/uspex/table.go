package uspex

import (
	"fmt"
	"regexp"
	"strings"
)

// borderRe matches the +----+----+ border rows of a USPEX ASCII table.
var borderRe = regexp.MustCompile(`\+[+-]+`)

// Table is a split result listing: the header cells and one string slice
// per data row. Cells are trimmed; no typing or validation beyond column
// count is applied.
type Table struct {
	Columns []string
	Rows    [][]string
}

// SplitTable splits an ASCII table on its border rows. The first
// non-border chunk is the header; the rest are data rows, with "||"
// marking wrapped multi-line rows.
func SplitTable(src string) (*Table, error) {
	var chunks []string
	for _, chunk := range borderRe.Split(src, -1) {
		chunk = strings.ReplaceAll(strings.TrimSpace(chunk), "\n", "")
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no table content")
	}

	table := &Table{Columns: splitCells(chunks[0])}
	for _, chunk := range chunks[1:] {
		for _, line := range strings.Split(chunk, "||") {
			cells := splitCells(line)
			if len(cells) == 0 {
				continue
			}
			if len(cells) != len(table.Columns) {
				return nil, fmt.Errorf("row has %d cells, want %d: %q", len(cells), len(table.Columns), line)
			}
			table.Rows = append(table.Rows, cells)
		}
	}
	return table, nil
}

func splitCells(line string) []string {
	var cells []string
	for _, cell := range strings.Split(line, "|") {
		cell = strings.TrimSpace(cell)
		if cell != "" {
			cells = append(cells, cell)
		}
	}
	return cells
}
