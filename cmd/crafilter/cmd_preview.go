package main

import (
	"fmt"

	"github.com/baditaflorin/go_cra_records/pkg/records"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var (
	previewCriteria criteriaFlags
	previewPage     int
	previewPerPage  int
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	captionStyle = lipgloss.NewStyle().Faint(true)
)

// previewCmd renders one page of filtered records
var previewCmd = &cobra.Command{
	Use:   "preview FILE",
	Short: "Show one page of filtered records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analyzer, tbl, err := loadFile(cmd, args[0])
		if err != nil {
			return err
		}

		perPage := previewPerPage
		if perPage == 0 {
			perPage = cfg.Preview.PerPage
		}

		filtered := analyzer.Filter(tbl, previewCriteria.Criteria)
		page := analyzer.Page(filtered, perPage, previewPage)

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, analyzer.Stats(tbl, filtered))
		if page.TotalRows == 0 {
			fmt.Fprintln(out, "No records match the current filters.")
			return nil
		}

		fmt.Fprintln(out, renderPage(filtered.Schema.Names(), page))
		fmt.Fprintln(out, captionStyle.Render(fmt.Sprintf("%s (page %d of %d)", page.Caption(), page.Page, page.TotalPages)))
		return nil
	},
}

// renderPage draws the rows of page under a header of column names.
func renderPage(columns []string, page records.PageResult) string {
	rows := make([][]string, len(page.Rows))
	for i, row := range page.Rows {
		rows[i] = row
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(columns...).
		Rows(rows...).
		String()
}

func init() {
	previewCriteria.register(previewCmd)
	previewCmd.Flags().IntVar(&previewPage, "page", 1, "Page number")
	previewCmd.Flags().IntVar(&previewPerPage, "per-page", 0, "Rows per page: 50, 100, 250, 500, 1000")
}
