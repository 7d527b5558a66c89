package domain

// Row holds one normalized record. Its length always equals the width of the
// schema of the table that owns it.
type Row []string

// Table is a schema plus its rows in input order. Tables are treated as
// immutable once built; filtered tables share rows with their source.
type Table struct {
	Schema Schema
	Rows   []Row
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Width returns the number of columns.
func (t Table) Width() int {
	return t.Schema.Len()
}

// Value returns the cell of row i in the named column.
func (t Table) Value(i int, name string) (string, bool) {
	col, ok := t.Schema.Index(name)
	if !ok {
		return "", false
	}
	return t.Rows[i][col], true
}

// WithRows returns a table sharing t's schema with a different row set.
func (t Table) WithRows(rows []Row) Table {
	return Table{Schema: t.Schema, Rows: rows}
}

// Criteria holds the optional filter constraints of one evaluation request.
// Zero values are absent constraints.
type Criteria struct {
	AccountID    string   `json:"account_id,omitempty" yaml:"account_id,omitempty"`
	ExactMatch   bool     `json:"exact_match,omitempty" yaml:"exact_match,omitempty"`
	StatusCodes  []string `json:"status_codes,omitempty" yaml:"status_codes,omitempty"`
	FirstName    string   `json:"first_name,omitempty" yaml:"first_name,omitempty"`
	LastName     string   `json:"last_name,omitempty" yaml:"last_name,omitempty"`
	Postcode     string   `json:"postcode,omitempty" yaml:"postcode,omitempty"`
	SearchColumn string   `json:"search_column,omitempty" yaml:"search_column,omitempty"`
	SearchValue  string   `json:"search_value,omitempty" yaml:"search_value,omitempty"`
}

// IsEmpty reports whether no constraint is active.
func (c Criteria) IsEmpty() bool {
	return c.AccountID == "" &&
		len(c.StatusCodes) == 0 &&
		c.FirstName == "" &&
		c.LastName == "" &&
		c.Postcode == "" &&
		(c.SearchColumn == "" || c.SearchValue == "")
}

// StatusCodes lists the status codes a CRA report uses.
var StatusCodes = []string{"A", "M", "P", "V"}
