package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/baditaflorin/go_cra_records/internal/core/domain"
)

// CSVExporter writes RFC 4180 CSV with a header row of column names.
type CSVExporter struct{}

// NewCSVExporter creates a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

func (e *CSVExporter) ContentType() string { return "text/csv; charset=utf-8" }
func (e *CSVExporter) Extension() string   { return "csv" }

// Export writes the header and every row of table to w. A table without
// columns produces no output.
func (e *CSVExporter) Export(w io.Writer, table domain.Table) error {
	if table.Width() == 0 {
		return nil
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(table.Schema.Names()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, row := range table.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
