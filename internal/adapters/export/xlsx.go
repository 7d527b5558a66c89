package export

import (
	"fmt"
	"io"

	"github.com/baditaflorin/go_cra_records/internal/core/domain"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding exported records.
const SheetName = "Records"

// XLSXExporter writes a single-sheet workbook with a frozen header row.
type XLSXExporter struct{}

// NewXLSXExporter creates an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

func (e *XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (e *XLSXExporter) Extension() string { return "xlsx" }

// Export streams table into a workbook and writes it to w. Cells are stored
// as text so account numbers keep their exact digits.
func (e *XLSXExporter) Export(w io.Writer, table domain.Table) error {
	if table.Len()+1 > excelize.TotalRows {
		return fmt.Errorf("xlsx export: %d rows exceed the sheet limit of %d", table.Len(), excelize.TotalRows-1)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("xlsx export: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("xlsx export: %w", err)
	}
	if err := sw.SetPanes(&excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("xlsx export: %w", err)
	}

	if err := sw.SetRow("A1", toValues(table.Schema.Names())); err != nil {
		return fmt.Errorf("xlsx export header: %w", err)
	}
	for i, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsx export row %d: %w", i+1, err)
		}
		if err := sw.SetRow(cell, toValues(row)); err != nil {
			return fmt.Errorf("xlsx export row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("xlsx export: %w", err)
	}

	return f.Write(w)
}

func toValues(cells []string) []interface{} {
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	return values
}
