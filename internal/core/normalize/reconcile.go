package normalize

import (
	"unicode/utf8"

	"github.com/baditaflorin/go_cra_records/internal/core/domain"
)

// Reconcile right-pads every row with empty cells to width and assigns the
// positional schema for that width. Rows are never truncated; width must be
// at least the longest row.
func Reconcile(rows []domain.Row, width int) domain.Table {
	for i, row := range rows {
		if len(row) < width {
			padded := make(domain.Row, width)
			copy(padded, row)
			rows[i] = padded
		}
	}
	return domain.Table{Schema: domain.SchemaForWidth(width), Rows: rows}
}

// SplitStatus splits a Status_Title value into its one-character status code
// and the remaining title.
func SplitStatus(value string) (code, title string) {
	if value == "" {
		return "", ""
	}
	_, size := utf8.DecodeRuneInString(value)
	return value[:size], value[size:]
}

// DecomposeStatus inserts Status_Code and Title directly after Status_Title.
// Tables without Status_Title, or already decomposed, are returned unchanged.
func DecomposeStatus(t domain.Table) domain.Table {
	src, ok := t.Schema.Index(domain.ColStatusTitle)
	if !ok || t.Schema.Has(domain.ColStatusCode) {
		return t
	}

	schema, at, _ := t.Schema.InsertAfter(domain.ColStatusTitle, domain.ColStatusCode, domain.ColTitle)

	rows := make([]domain.Row, len(t.Rows))
	for i, row := range t.Rows {
		code, title := SplitStatus(row[src])

		out := make(domain.Row, len(row)+2)
		copy(out, row[:at])
		out[at] = code
		out[at+1] = title
		copy(out[at+2:], row[at:])
		rows[i] = out
	}

	return domain.Table{Schema: schema, Rows: rows}
}
