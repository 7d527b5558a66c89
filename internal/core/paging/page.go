// Package paging slices tables into pages and summarizes filter results.
package paging

import (
	"fmt"
	"slices"

	"github.com/baditaflorin/go_cra_records/internal/core/domain"
)

// DefaultPerPage is the page size used when none or an unsupported one is asked for.
const DefaultPerPage = 100

// PageSizes lists the supported rows-per-page values.
var PageSizes = []int{50, 100, 250, 500, 1000}

// PageResult is one page of a table.
type PageResult struct {
	Rows       []domain.Row `json:"rows"`
	Page       int          `json:"page"`
	PerPage    int          `json:"per_page"`
	TotalPages int          `json:"total_pages"`
	TotalRows  int          `json:"total_rows"`
	// Start and End are 1-based inclusive row numbers; both are 0 for an empty table.
	Start int `json:"start"`
	End   int `json:"end"`
}

// Caption describes the visible row range.
func (p PageResult) Caption() string {
	return fmt.Sprintf("Showing rows %d to %d of %d", p.Start, p.End, p.TotalRows)
}

// Page returns page number page (1-based) of table. Unsupported page sizes
// fall back to DefaultPerPage and the page number is clamped to the
// available range.
func Page(table domain.Table, perPage, page int) PageResult {
	if !slices.Contains(PageSizes, perPage) {
		perPage = DefaultPerPage
	}

	total := table.Len()
	result := PageResult{PerPage: perPage, TotalRows: total}
	if total == 0 {
		return result
	}

	result.TotalPages = (total-1)/perPage + 1
	result.Page = min(max(page, 1), result.TotalPages)

	start := (result.Page - 1) * perPage
	end := min(start+perPage, total)
	result.Rows = table.Rows[start:end]
	result.Start = start + 1
	result.End = end

	return result
}

// Stats summarizes how much of a table survived filtering.
type Stats struct {
	Total    int     `json:"total"`
	Filtered int     `json:"filtered"`
	Percent  float64 `json:"percent"`
}

// NewStats computes the share of filtered rows in percent.
func NewStats(total, filtered int) Stats {
	s := Stats{Total: total, Filtered: filtered}
	if total > 0 {
		s.Percent = float64(filtered) / float64(total) * 100
	}
	return s
}

// String formats the statistics the way the report summary shows them.
func (s Stats) String() string {
	return fmt.Sprintf("Total records: %d | Filtered records: %d | Showing: %.1f%%", s.Total, s.Filtered, s.Percent)
}
