package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/baditaflorin/go_cra_records/pkg/records"
	"github.com/spf13/cobra"
)

var (
	filterCriteria criteriaFlags
	filterFormat   string
	filterOut      string
)

// filterCmd filters a record file and exports the matching rows
var filterCmd = &cobra.Command{
	Use:   "filter FILE",
	Short: "Filter a record file and export the matching records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analyzer, table, err := loadFile(cmd, args[0])
		if err != nil {
			return err
		}

		format := filterFormat
		if format == "" {
			format = cfg.Export.Format
		}
		if filterOut == "" && format != "" && !strings.EqualFold(format, "csv") {
			return fmt.Errorf("--out is required for %s output", format)
		}

		filtered := analyzer.Filter(table, filterCriteria.Criteria)

		if filterOut == "" {
			if _, _, err := analyzer.Export(cmd.OutOrStdout(), filtered, format); err != nil {
				return err
			}
		} else if err := exportFile(analyzer, filtered, format, filterOut); err != nil {
			return err
		}

		fmt.Fprintln(cmd.ErrOrStderr(), analyzer.Stats(table, filtered))
		return nil
	},
}

// exportFile writes the export to path, removing the file when the export fails.
func exportFile(analyzer *records.Analyzer, table records.Table, format, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
		if err != nil {
			os.Remove(path)
		}
	}()

	_, _, err = analyzer.Export(f, table, format)
	return err
}

func init() {
	filterCriteria.register(filterCmd)
	filterCmd.Flags().StringVarP(&filterFormat, "format", "f", "", "Output format: "+strings.Join(records.Formats(), ", "))
	filterCmd.Flags().StringVarP(&filterOut, "out", "o", "", "Output file (csv defaults to stdout)")
}
