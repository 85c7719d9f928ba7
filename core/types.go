package core

import "strings"

type TypeKind int

const (
	KindText TypeKind = iota
	KindNumeric
	KindTemporal
	KindOther
)

func (k TypeKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumeric:
		return "numeric"
	case KindTemporal:
		return "temporal"
	case KindOther:
		return "other"
	default:
		return "other"
	}
}

type (
	// Row is a single record from a source, one value per column.
	Row []any

	// Column describes a single column of a source result set.
	// Captured once at open time and immutable afterwards.
	Column struct {
		// Position of the column in the row, 1-based.
		Position int
		// Name of the column as reported by the source.
		Name string
		// DatabaseType is the source's native type name.
		DatabaseType string
		// Kind is the classified type used for formatting dispatch.
		Kind TypeKind
		// Width is the declared column length, 0 when unknown.
		Width int64
	}

	// Source is an open, forward-only result set. It reports column
	// metadata and serves rows in batches. A Source has a single read
	// position and must have exactly one owner.
	Source interface {
		// Columns returns the ordered column metadata.
		Columns() ([]*Column, error)
		// Fetch returns up to n rows. An empty slice with a nil error
		// means the source is drained.
		Fetch(n int) ([]Row, error)
		Close()
	}

	// Sink consumes finished CSV rows one at a time.
	Sink interface {
		WriteRow(row string) error
	}
)

// textTypes, numericTypes and temporalTypes hold lowercased native type
// names per kind. The lists cover the types reported by the bundled
// adapters.
var (
	textTypes = []string{
		"char", "varchar", "varchar2", "nvarchar", "nchar", "text",
		"tinytext", "mediumtext", "longtext", "clob", "nclob",
		"character", "character varying", "bpchar", "string", "uuid",
		"enum", "json", "jsonb", "xml",
	}
	numericTypes = []string{
		"int", "integer", "tinyint", "smallint", "mediumint", "bigint",
		"int2", "int4", "int8", "serial", "bigserial", "decimal",
		"numeric", "number", "float", "float4", "float8", "double",
		"double precision", "real", "money", "bit", "hugeint",
		"unsigned bigint",
	}
	temporalTypes = []string{
		"date", "time", "datetime", "datetime2", "smalldatetime",
		"timestamp", "timestamptz", "timetz", "datetimeoffset",
		"interval", "year",
	}
)

// ClassifyType maps a source native type name to a TypeKind. Matching
// is case-insensitive and ignores a trailing length or precision
// specifier, so "VARCHAR(255)" and "NUMERIC(10,2)" classify the same
// as their bare names. Unrecognized types classify as KindOther.
func ClassifyType(databaseType string) TypeKind {
	typ := strings.ToLower(strings.TrimSpace(databaseType))
	if i := strings.IndexByte(typ, '('); i >= 0 {
		typ = strings.TrimSpace(typ[:i])
	}

	for _, t := range textTypes {
		if typ == t {
			return KindText
		}
	}
	for _, t := range numericTypes {
		if typ == t {
			return KindNumeric
		}
	}
	for _, t := range temporalTypes {
		if typ == t {
			return KindTemporal
		}
	}

	// some drivers report "timestamp with time zone" style names
	switch {
	case strings.HasPrefix(typ, "timestamp"),
		strings.HasPrefix(typ, "time "),
		strings.HasPrefix(typ, "datetime"):
		return KindTemporal
	case strings.HasPrefix(typ, "varchar"),
		strings.HasPrefix(typ, "nvarchar"),
		strings.HasPrefix(typ, "char"):
		return KindText
	}

	return KindOther
}
