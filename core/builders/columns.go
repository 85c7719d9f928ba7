package builders

import (
	"database/sql"
	"fmt"

	"github.com/rowset/csvexport/core"
)

// ColumnsFromRows captures column metadata from an open result set.
// It must be called before the first scan. Positions are 1-based.
func ColumnsFromRows(rows *sql.Rows) ([]*core.Column, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("rows.ColumnTypes: %w", err)
	}

	out := make([]*core.Column, len(types))
	for i, ct := range types {
		var width int64
		if length, ok := ct.Length(); ok {
			width = length
		}

		out[i] = &core.Column{
			Position:     i + 1,
			Name:         ct.Name(),
			DatabaseType: ct.DatabaseTypeName(),
			Kind:         core.ClassifyType(ct.DatabaseTypeName()),
			Width:        width,
		}
	}

	return out, nil
}

// TextColumns builds text-kind columns from bare names, for sources
// that carry no native type metadata.
func TextColumns(names ...string) []*core.Column {
	out := make([]*core.Column, len(names))
	for i, name := range names {
		out[i] = &core.Column{
			Position: i + 1,
			Name:     name,
			Kind:     core.KindText,
		}
	}
	return out
}
