// Package export turns lead records into tabular artifacts: deterministic
// column projection, CSV and styled XLSX serialization, row splitting and
// filename derivation.
package export

import (
	"github.com/leadrelay/leadrelay-go/internal/domain/entities"
)

// CreatedTimeColumn is the synthetic first column carrying each lead's
// creation timestamp.
const CreatedTimeColumn = "Created Time"

// PreferredColumnOrder is the fixed prefix of the emitted column order; any
// field names not listed here follow in first-seen order.
var PreferredColumnOrder = []string{
	CreatedTimeColumn,
	"full_name",
	"phone_number",
	"street_address",
	"city",
	"state",
	"post_code",
	"email",
}

// Table is a fully projected lead set: every row has a value (possibly "")
// for every column.
type Table struct {
	Columns []string
	Rows    [][]string
}

const createdTimeLayout = "2006-01-02 15:04:05"

// BuildTable projects leads into rows under a deterministic column order:
// the preferred prefix first (restricted to columns actually present), then
// the remaining field names in order of first appearance. Missing values
// render as the empty string.
func BuildTable(leads []entities.Lead) Table {
	seen := make(map[string]bool)
	var discovered []string
	for _, lead := range leads {
		for _, field := range lead.FieldData {
			if !seen[field.Name] {
				seen[field.Name] = true
				discovered = append(discovered, field.Name)
			}
		}
	}

	columns := []string{CreatedTimeColumn}
	inPreferred := map[string]bool{CreatedTimeColumn: true}
	for _, name := range PreferredColumnOrder[1:] {
		if seen[name] {
			columns = append(columns, name)
			inPreferred[name] = true
		}
	}
	for _, name := range discovered {
		if !inPreferred[name] {
			columns = append(columns, name)
		}
	}

	rows := make([][]string, 0, len(leads))
	for _, lead := range leads {
		row := make([]string, len(columns))
		for i, col := range columns {
			if col == CreatedTimeColumn {
				if t, ok := lead.CreatedAt(); ok {
					row[i] = t.Format(createdTimeLayout)
				} else {
					row[i] = lead.CreatedTime
				}
				continue
			}
			row[i] = lead.FieldValue(col)
		}
		rows = append(rows, row)
	}

	return Table{Columns: columns, Rows: rows}
}
