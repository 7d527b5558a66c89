// Package filter selects the rows of a normalized table that satisfy a set of
// independently optional criteria.
package filter

import (
	"strings"

	"github.com/baditaflorin/go_cra_records/internal/core/domain"
	"github.com/baditaflorin/go_cra_records/internal/ports"
)

// predicate reports whether a row satisfies one criterion.
type predicate func(row domain.Row) bool

// Evaluator implements ports.Evaluator.
type Evaluator struct {
	logger ports.Logger
}

// NewEvaluator creates a new filter evaluator.
func NewEvaluator(logger ports.Logger) *Evaluator {
	return &Evaluator{logger: logger}
}

// Apply returns the rows of table matching every active criterion, in table
// order. The result shares schema and rows with table, which is never
// modified. Without active criteria table itself is returned.
func (e *Evaluator) Apply(table domain.Table, criteria domain.Criteria) domain.Table {
	predicates := e.compile(table.Schema, criteria)
	if len(predicates) == 0 {
		return table
	}

	rows := make([]domain.Row, 0, len(table.Rows)/4)
	for _, row := range table.Rows {
		if matchAll(predicates, row) {
			rows = append(rows, row)
		}
	}

	e.logger.Debug("Filter applied",
		"criteria", len(predicates),
		"rows", len(table.Rows),
		"matched", len(rows),
	)

	return table.WithRows(rows)
}

// compile resolves criteria against schema into row predicates. Criteria
// naming a column the schema lacks never match, except the free column
// search, which is dropped when its column is unknown.
func (e *Evaluator) compile(schema domain.Schema, c domain.Criteria) []predicate {
	var predicates []predicate

	if account := strings.TrimSpace(c.AccountID); account != "" {
		if c.ExactMatch {
			predicates = append(predicates, equals(schema, domain.ColAccountID, account))
		} else {
			predicates = append(predicates, contains(schema, account, domain.ColAccountID))
		}
	}

	if len(c.StatusCodes) > 0 {
		predicates = append(predicates, memberOf(schema, domain.ColStatusCode, c.StatusCodes))
	}

	if c.FirstName != "" {
		predicates = append(predicates, contains(schema, c.FirstName, domain.ColFirstName))
	}

	if c.LastName != "" {
		predicates = append(predicates, contains(schema, c.LastName, domain.ColLastName))
	}

	if c.Postcode != "" {
		predicates = append(predicates, contains(schema, c.Postcode, domain.ColPostcode1, domain.ColPostcode2))
	}

	if c.SearchColumn != "" && c.SearchValue != "" {
		if schema.Has(c.SearchColumn) {
			predicates = append(predicates, contains(schema, c.SearchValue, c.SearchColumn))
		} else {
			e.logger.Debug("Ignoring search on unknown column", "column", c.SearchColumn)
		}
	}

	return predicates
}

func matchAll(predicates []predicate, row domain.Row) bool {
	for _, p := range predicates {
		if !p(row) {
			return false
		}
	}
	return true
}

func never(domain.Row) bool { return false }

// equals matches rows whose cell in column is byte-for-byte value.
func equals(schema domain.Schema, column, value string) predicate {
	col, ok := schema.Index(column)
	if !ok {
		return never
	}
	return func(row domain.Row) bool {
		return row[col] == value
	}
}

// memberOf matches rows whose cell in column is one of values.
func memberOf(schema domain.Schema, column string, values []string) predicate {
	col, ok := schema.Index(column)
	if !ok {
		return never
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return func(row domain.Row) bool {
		_, hit := set[row[col]]
		return hit
	}
}

// contains matches rows where any of the columns contains query, ignoring
// case. Columns absent from the schema are skipped.
func contains(schema domain.Schema, query string, columns ...string) predicate {
	cols := make([]int, 0, len(columns))
	for _, name := range columns {
		if col, ok := schema.Index(name); ok {
			cols = append(cols, col)
		}
	}
	if len(cols) == 0 {
		return never
	}

	needle := strings.ToLower(query)
	return func(row domain.Row) bool {
		for _, col := range cols {
			if ContainsFold(row[col], needle) {
				return true
			}
		}
		return false
	}
}

// ContainsFold reports whether cell contains the already lower-cased needle,
// ignoring case. An empty cell never matches.
func ContainsFold(cell, needle string) bool {
	if cell == "" {
		return false
	}
	return strings.Contains(strings.ToLower(cell), needle)
}
