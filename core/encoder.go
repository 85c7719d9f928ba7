package core

import "strings"

// quoteChar is the RFC4180 quote character. It is not configurable.
const quoteChar = '"'

// encodeRow joins formatted fields into one CSV row. The separator is
// inserted strictly between fields, never after the last one. Fields
// containing the separator, CR, LF or a quote are wrapped in quotes
// with interior quotes doubled; the separator and newlines themselves
// are never escaped, quoting contains them.
func encodeRow(fields []string, kinds []TypeKind, cfg *config) string {
	var sb strings.Builder

	for i, field := range fields {
		if i > 0 {
			sb.WriteRune(cfg.separator)
		}

		forced := cfg.quoteAllStrings && quoteAllApplies(kinds, i)
		writeField(&sb, field, cfg.separator, forced)
	}

	return sb.String()
}

// encodeHeader encodes column names with the same rule as data fields,
// including the quote-all flag. Header names count as text.
func encodeHeader(columns []*Column, cfg *config) string {
	var sb strings.Builder

	for i, col := range columns {
		if i > 0 {
			sb.WriteRune(cfg.separator)
		}
		writeField(&sb, col.Name, cfg.separator, cfg.quoteAllStrings)
	}

	return sb.String()
}

// quoteAllApplies reports whether the quote-all flag covers field i.
// Only text and other kinds are forced; numeric and temporal fields
// stay unquoted unless their content requires it.
func quoteAllApplies(kinds []TypeKind, i int) bool {
	if i >= len(kinds) {
		return true
	}
	return kinds[i] == KindText || kinds[i] == KindOther
}

func writeField(sb *strings.Builder, field string, sep rune, forceQuote bool) {
	if !forceQuote && !needsQuote(field, sep) {
		sb.WriteString(field)
		return
	}

	sb.WriteByte(quoteChar)
	for _, r := range field {
		if r == quoteChar {
			sb.WriteByte(quoteChar)
		}
		sb.WriteRune(r)
	}
	sb.WriteByte(quoteChar)
}

func needsQuote(field string, sep rune) bool {
	return strings.ContainsRune(field, sep) ||
		strings.ContainsAny(field, "\r\n\"")
}
