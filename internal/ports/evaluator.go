package ports

import "github.com/baditaflorin/go_cra_records/internal/core/domain"

// Evaluator selects the rows of a table that satisfy a set of criteria.
type Evaluator interface {
	Apply(table domain.Table, criteria domain.Criteria) domain.Table
}
