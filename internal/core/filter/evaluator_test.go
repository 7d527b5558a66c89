package filter

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/baditaflorin/go_cra_records/internal/core/domain"
	"github.com/baditaflorin/go_cra_records/internal/core/normalize"
	"github.com/google/go-cmp/cmp"
)

// mockLogger records messages for assertions
type mockLogger struct {
	mu       sync.Mutex
	messages []string
}

func (m *mockLogger) log(level, msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, fmt.Sprintf("%s: %s %v", level, msg, keysAndValues))
}

func (m *mockLogger) Debug(msg string, kv ...interface{}) { m.log("DEBUG", msg, kv...) }
func (m *mockLogger) Info(msg string, kv ...interface{})  { m.log("INFO", msg, kv...) }
func (m *mockLogger) Warn(msg string, kv ...interface{})  { m.log("WARN", msg, kv...) }
func (m *mockLogger) Error(msg string, kv ...interface{}) { m.log("ERROR", msg, kv...) }
func (m *mockLogger) Close() error                        { return nil }

func (m *mockLogger) contains(s string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.messages {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

func record(fields ...string) string {
	return strings.Join(fields, "\t")
}

var fixture = strings.Join([]string{
	record("864652", "2.24062E+32", "0", "0", "0", "0", "AMiss", "Sarah", "Lawrence", "70", "VICTORIA", "LONDON", "GREATER", "SW1A", "1AA", "01/02/2020"),
	record("8646520", "2.24062E+32", "0", "0", "0", "0", "MMiss", "Charlotte", "Giles", "12", "HIGH", "LEEDS", "WEST", "LS1", "4DY", "03/04/2021"),
	record("86465", "2.24062E+32", "0", "0", "0", "0", "PMiss", "Emma", "Stone", "5", "PARK", "YORK", "NORTH", "YO1", "7HH", "05/06/2019"),
	record("123456", "2.24062E+32", "0", "0", "0", "0", "VMr", "James", "Sarahson", "9", "MILL", "BATH", "SOMERSET", "BA1", "SW1X", "07/08/2018"),
}, "\n")

func loadTable(t *testing.T, text string) domain.Table {
	t.Helper()
	table, ok := normalize.NewNormalizer(&mockLogger{}, normalize.Config{}).Normalize(context.Background(), text)
	if !ok {
		t.Fatal("failed to normalize fixture")
	}
	return table
}

func accountIDs(t *testing.T, table domain.Table) []string {
	t.Helper()
	ids := make([]string, 0, table.Len())
	for i := range table.Rows {
		id, ok := table.Value(i, domain.ColAccountID)
		if !ok {
			t.Fatal("table has no Account_ID column")
		}
		ids = append(ids, id)
	}
	return ids
}

func TestApply(t *testing.T) {
	table := loadTable(t, fixture)

	tests := []struct {
		name     string
		criteria domain.Criteria
		expected []string
	}{
		{
			name:     "Exact account",
			criteria: domain.Criteria{AccountID: "864652", ExactMatch: true},
			expected: []string{"864652"},
		},
		{
			name:     "Exact account trims input",
			criteria: domain.Criteria{AccountID: " 864652 ", ExactMatch: true},
			expected: []string{"864652"},
		},
		{
			name:     "Account substring",
			criteria: domain.Criteria{AccountID: "86465"},
			expected: []string{"864652", "8646520", "86465"},
		},
		{
			name:     "Blank account is absent",
			criteria: domain.Criteria{AccountID: "   "},
			expected: []string{"864652", "8646520", "86465", "123456"},
		},
		{
			name:     "Status union keeps order",
			criteria: domain.Criteria{StatusCodes: []string{"M", "A"}},
			expected: []string{"864652", "8646520"},
		},
		{
			name:     "Status is case sensitive",
			criteria: domain.Criteria{StatusCodes: []string{"a"}},
			expected: []string{},
		},
		{
			name:     "First name ignores case",
			criteria: domain.Criteria{FirstName: "sarah"},
			expected: []string{"864652"},
		},
		{
			name:     "Last name ignores case",
			criteria: domain.Criteria{LastName: "SARAH"},
			expected: []string{"123456"},
		},
		{
			name:     "Postcode matches either field",
			criteria: domain.Criteria{Postcode: "sw1"},
			expected: []string{"864652", "123456"},
		},
		{
			name:     "Column search",
			criteria: domain.Criteria{SearchColumn: "City", SearchValue: "lee"},
			expected: []string{"8646520"},
		},
		{
			name:     "Column search on derived column",
			criteria: domain.Criteria{SearchColumn: domain.ColTitle, SearchValue: "mr"},
			expected: []string{"123456"},
		},
		{
			name:     "Unknown search column is ignored",
			criteria: domain.Criteria{SearchColumn: "Nope", SearchValue: "x"},
			expected: []string{"864652", "8646520", "86465", "123456"},
		},
		{
			name:     "Criteria combine with AND",
			criteria: domain.Criteria{StatusCodes: []string{"A", "M"}, Postcode: "ls1"},
			expected: []string{"8646520"},
		},
		{
			name:     "No match",
			criteria: domain.Criteria{AccountID: "999999", ExactMatch: true},
			expected: []string{},
		},
	}

	eval := NewEvaluator(&mockLogger{})
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := eval.Apply(table, tc.criteria)
			if diff := cmp.Diff(tc.expected, accountIDs(t, got)); diff != "" {
				t.Errorf("unexpected rows (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(table.Schema.Names(), got.Schema.Names()); diff != "" {
				t.Errorf("schema changed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyExactAccountRejectsNeighbours(t *testing.T) {
	table := loadTable(t, fixture)
	got := NewEvaluator(&mockLogger{}).Apply(table, domain.Criteria{AccountID: "864652", ExactMatch: true})

	for _, id := range accountIDs(t, got) {
		if id != "864652" {
			t.Errorf("exact match returned %q", id)
		}
	}
}

func TestApplyStatusScenario(t *testing.T) {
	text := strings.Join([]string{
		record("1", "0", "0", "0", "0", "0", "AMiss"),
		record("2", "0", "0", "0", "0", "0", "MMiss"),
		record("3", "0", "0", "0", "0", "0", "PMiss"),
		record("4", "0", "0", "0", "0", "0", "VMr"),
	}, "\n")
	table := loadTable(t, text)

	got := NewEvaluator(&mockLogger{}).Apply(table, domain.Criteria{StatusCodes: []string{"A", "M"}})
	if diff := cmp.Diff([]string{"1", "2"}, accountIDs(t, got)); diff != "" {
		t.Errorf("unexpected rows (-want +got):\n%s", diff)
	}
}

func TestApplyEmptyCriteriaIsIdentity(t *testing.T) {
	table := loadTable(t, fixture)
	got := NewEvaluator(&mockLogger{}).Apply(table, domain.Criteria{})

	if got.Len() != table.Len() {
		t.Fatalf("expected %d rows, got %d", table.Len(), got.Len())
	}
	if &got.Rows[0] != &table.Rows[0] {
		t.Error("expected empty criteria to return the input rows")
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	table := loadTable(t, fixture)
	eval := NewEvaluator(&mockLogger{})

	criteria := []domain.Criteria{
		{AccountID: "8646"},
		{StatusCodes: []string{"A", "V"}},
		{Postcode: "SW1", FirstName: "a"},
		{SearchColumn: "County", SearchValue: "e"},
	}
	for _, c := range criteria {
		once := eval.Apply(table, c)
		twice := eval.Apply(once, c)
		if diff := cmp.Diff(once.Rows, twice.Rows); diff != "" {
			t.Errorf("%+v: second application changed rows (-want +got):\n%s", c, diff)
		}
	}
}

func TestApplyDoesNotModifyInput(t *testing.T) {
	table := loadTable(t, fixture)
	before := make([]domain.Row, len(table.Rows))
	for i, row := range table.Rows {
		before[i] = append(domain.Row(nil), row...)
	}

	_ = NewEvaluator(&mockLogger{}).Apply(table, domain.Criteria{StatusCodes: []string{"P"}, Postcode: "yo"})

	if diff := cmp.Diff(before, table.Rows); diff != "" {
		t.Errorf("input modified (-want +got):\n%s", diff)
	}
}

func TestApplyEmptyCellsNeverMatch(t *testing.T) {
	// the short row has no postcode fields, so they are padding
	text := fixture + "\n" + record("555", "0", "0", "0", "0", "0", "AMr", "Ann", "Lee")
	table := loadTable(t, text)

	got := NewEvaluator(&mockLogger{}).Apply(table, domain.Criteria{Postcode: "1"})
	for _, id := range accountIDs(t, got) {
		if id == "555" {
			t.Error("padded postcode cells should never match")
		}
	}
}

func TestApplyMissingColumn(t *testing.T) {
	table := loadTable(t, "1 2 3\n4 5 6")
	eval := NewEvaluator(&mockLogger{})

	if got := eval.Apply(table, domain.Criteria{StatusCodes: []string{"A"}}); got.Len() != 0 {
		t.Errorf("status filter on a table without Status_Code kept %d rows", got.Len())
	}
	if got := eval.Apply(table, domain.Criteria{AccountID: "4"}); got.Len() != 1 {
		t.Errorf("expected 1 row, got %d", got.Len())
	}
}

func TestApplyLogsIgnoredColumn(t *testing.T) {
	table := loadTable(t, fixture)
	logger := &mockLogger{}

	_ = NewEvaluator(logger).Apply(table, domain.Criteria{SearchColumn: "Missing", SearchValue: "x"})

	if !logger.contains("Ignoring search on unknown column") {
		t.Error("expected a debug message for the unknown column")
	}
}

func TestContainsFold(t *testing.T) {
	tests := []struct {
		cell     string
		needle   string
		expected bool
	}{
		{cell: "LONDON", needle: "lon", expected: true},
		{cell: "Müller", needle: "mül", expected: true},
		{cell: "", needle: "a", expected: false},
		{cell: "abc", needle: "x", expected: false},
	}

	for _, tc := range tests {
		if got := ContainsFold(tc.cell, tc.needle); got != tc.expected {
			t.Errorf("ContainsFold(%q, %q) = %v, expected %v", tc.cell, tc.needle, got, tc.expected)
		}
	}
}
