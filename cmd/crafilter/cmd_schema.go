package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// schemaCmd lists the column names a record file normalizes to
var schemaCmd = &cobra.Command{
	Use:   "schema FILE",
	Short: "List the columns of a record file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, table, err := loadFile(cmd, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for i, name := range table.Schema.Names() {
			fmt.Fprintf(out, "%3d  %s\n", i+1, name)
		}
		fmt.Fprintf(out, "%d records\n", table.Len())
		return nil
	},
}
