package main

import (
	"github.com/baditaflorin/go_cra_records/pkg/records"
	"github.com/spf13/cobra"
)

// criteriaFlags binds filter criteria to command flags.
type criteriaFlags struct {
	records.Criteria
}

func (f *criteriaFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.AccountID, "account-id", "", "Account ID to search for")
	fs.BoolVar(&f.ExactMatch, "exact", false, "Match the account ID exactly")
	fs.StringSliceVar(&f.StatusCodes, "status", nil, "Status codes to keep (A, M, P, V)")
	fs.StringVar(&f.FirstName, "first-name", "", "First name substring")
	fs.StringVar(&f.LastName, "last-name", "", "Last name substring")
	fs.StringVar(&f.Postcode, "postcode", "", "Postcode substring, matched in both postcode fields")
	fs.StringVar(&f.SearchColumn, "column", "", "Column for a free text search")
	fs.StringVar(&f.SearchValue, "value", "", "Substring to search for in --column")
}
