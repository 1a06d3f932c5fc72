package migration

import "strings"

// ParseDelimited tokenizes comma-separated text into rows of fields.
//
// This is intentionally NOT encoding/csv: legacy spreadsheet exports are
// messy, and the historical importer was permissive about them. Semantics:
// CRLF and bare CR are normalized to LF, blank lines are dropped, a double
// quote toggles quoting, "" inside quotes emits a literal quote, commas
// outside quotes split fields, and fields are trimmed of surrounding
// whitespace. An unterminated quote is not an error; the rest of the line is
// absorbed into the open field.
func ParseDelimited(text string) [][]string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, splitLine(line))
	}
	return rows
}

func splitLine(line string) []string {
	var fields []string
	var buf strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				// escaped quote
				buf.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(buf.String()))
			buf.Reset()
		default:
			buf.WriteRune(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(buf.String()))
	return fields
}

// field returns row[idx] or "" when the row is too short.
func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
