// Package crarecords normalizes whitespace-delimited CRA report files into
// named tables and filters them.
//
// Every line of the input becomes one row. Lines are split on runs of spaces
// and tabs; shorter rows are padded with empty cells to the widest row. The
// first 18 columns carry fixed names (Account_ID, Status_Title, First_Name,
// Last_Name, Postcode_1, ...) and Status_Title is further split into
// Status_Code and Title:
//
//	table, ok := crarecords.Normalize(text)
//	if !ok {
//		// the input could not be processed
//	}
//	active := crarecords.Filter(table, crarecords.Criteria{StatusCodes: []string{"A"}})
//
// For configurable logging, caching or parallel tokenization use the
// pkg/records package.
package crarecords

import (
	"bytes"
	"context"
	"sync"

	"github.com/baditaflorin/go_cra_records/pkg/records"
)

type (
	// Table is a normalized record table.
	Table = records.Table
	// Criteria holds optional filter constraints.
	Criteria = records.Criteria
)

var defaultAnalyzer = sync.OnceValue(func() *records.Analyzer {
	a, err := records.New(records.WithoutLogging(), records.WithParallel(true))
	if err != nil {
		panic(err)
	}
	return a
})

// Normalize converts decoded text into a table using default settings.
func Normalize(text string) (Table, bool) {
	return defaultAnalyzer().Load(context.Background(), text)
}

// Filter returns the rows of table matching every active criterion.
func Filter(table Table, criteria Criteria) Table {
	return defaultAnalyzer().Filter(table, criteria)
}

// ToCSV serializes table as CSV with a header row.
func ToCSV(table Table) ([]byte, error) {
	var buf bytes.Buffer
	if _, _, err := records.Export(&buf, table, "csv"); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
