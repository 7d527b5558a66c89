package domain

import (
	"fmt"
	"slices"
)

// Column names with a fixed meaning in a CRA record.
const (
	ColAccountID   = "Account_ID"
	ColStatusTitle = "Status_Title"
	ColStatusCode  = "Status_Code"
	ColTitle       = "Title"
	ColFirstName   = "First_Name"
	ColLastName    = "Last_Name"
	ColPostcode1   = "Postcode_1"
	ColPostcode2   = "Postcode_2"
)

// fixedColumnNames names the first positions of every record.
var fixedColumnNames = [...]string{
	ColAccountID,
	"Column_2",
	"Column_3",
	"Column_4",
	"Column_5",
	"Column_6",
	ColStatusTitle,
	ColFirstName,
	ColLastName,
	"Address_Line_1",
	"Address_Line_2",
	"City",
	"County",
	ColPostcode1,
	ColPostcode2,
	"Date_Field",
	"Column_17",
	"Column_18",
}

// FixedColumnCount is the number of positions with a fixed name.
const FixedColumnCount = len(fixedColumnNames)

// FixedColumnNames returns a copy of the fixed column names.
func FixedColumnNames() []string {
	return slices.Clone(fixedColumnNames[:])
}

// Schema is an ordered, immutable list of column names.
type Schema struct {
	names []string
	index map[string]int
}

// NewSchema builds a schema from the given names. The first occurrence of a
// duplicated name wins lookups.
func NewSchema(names []string) Schema {
	s := Schema{
		names: slices.Clone(names),
		index: make(map[string]int, len(names)),
	}
	for i, name := range s.names {
		if _, exists := s.index[name]; !exists {
			s.index[name] = i
		}
	}
	return s
}

// SchemaForWidth returns the positional schema for rows of the given width.
// Widths up to FixedColumnCount use a prefix of the fixed names; wider rows
// continue with Column_19, Column_20, ...
func SchemaForWidth(width int) Schema {
	if width <= 0 {
		return NewSchema(nil)
	}
	if width <= FixedColumnCount {
		return NewSchema(fixedColumnNames[:width])
	}
	names := make([]string, 0, width)
	names = append(names, fixedColumnNames[:]...)
	for i := FixedColumnCount; i < width; i++ {
		names = append(names, fmt.Sprintf("Column_%d", i+1))
	}
	return NewSchema(names)
}

// Len returns the number of columns.
func (s Schema) Len() int {
	return len(s.names)
}

// Names returns a copy of the column names in order.
func (s Schema) Names() []string {
	return slices.Clone(s.names)
}

// Name returns the column name at position i.
func (s Schema) Name(i int) string {
	return s.names[i]
}

// Index resolves a column name to its position.
func (s Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Has reports whether the schema declares the named column.
func (s Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// InsertAfter returns a new schema with names inserted directly after the
// anchor column, together with the position of the first inserted name.
// The receiver is left untouched. ok is false when the anchor is unknown.
func (s Schema) InsertAfter(anchor string, names ...string) (out Schema, at int, ok bool) {
	pos, ok := s.index[anchor]
	if !ok {
		return s, -1, false
	}
	at = pos + 1
	merged := make([]string, 0, len(s.names)+len(names))
	merged = append(merged, s.names[:at]...)
	merged = append(merged, names...)
	merged = append(merged, s.names[at:]...)
	return NewSchema(merged), at, true
}
