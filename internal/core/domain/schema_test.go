package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSchemaForWidth(t *testing.T) {
	tests := []struct {
		name  string
		width int
		first string
		last  string
	}{
		{name: "Single column", width: 1, first: "Account_ID", last: "Account_ID"},
		{name: "Status width", width: 7, first: "Account_ID", last: "Status_Title"},
		{name: "Exactly fixed", width: 18, first: "Account_ID", last: "Column_18"},
		{name: "Generated names", width: 21, first: "Account_ID", last: "Column_21"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := SchemaForWidth(tc.width)
			if s.Len() != tc.width {
				t.Fatalf("expected %d columns, got %d", tc.width, s.Len())
			}
			if got := s.Name(0); got != tc.first {
				t.Errorf("expected first column %q, got %q", tc.first, got)
			}
			if got := s.Name(tc.width - 1); got != tc.last {
				t.Errorf("expected last column %q, got %q", tc.last, got)
			}
		})
	}
}

func TestSchemaForWidthContinuesNumbering(t *testing.T) {
	s := SchemaForWidth(20)
	want := append(FixedColumnNames(), "Column_19", "Column_20")
	if diff := cmp.Diff(want, s.Names()); diff != "" {
		t.Errorf("unexpected names (-want +got):\n%s", diff)
	}
}

func TestSchemaForWidthZero(t *testing.T) {
	s := SchemaForWidth(0)
	if s.Len() != 0 {
		t.Errorf("expected empty schema, got %v", s.Names())
	}
	if s.Has(ColAccountID) {
		t.Error("empty schema should not resolve Account_ID")
	}
}

func TestSchemaInsertAfter(t *testing.T) {
	s := NewSchema([]string{"a", "b", "c"})

	out, at, ok := s.InsertAfter("b", "x", "y")
	if !ok {
		t.Fatal("expected anchor to be found")
	}
	if at != 2 {
		t.Errorf("expected insert position 2, got %d", at)
	}
	if diff := cmp.Diff([]string{"a", "b", "x", "y", "c"}, out.Names()); diff != "" {
		t.Errorf("unexpected names (-want +got):\n%s", diff)
	}
	if i, _ := out.Index("c"); i != 4 {
		t.Errorf("expected c at 4, got %d", i)
	}

	// receiver untouched
	if diff := cmp.Diff([]string{"a", "b", "c"}, s.Names()); diff != "" {
		t.Errorf("receiver modified (-want +got):\n%s", diff)
	}

	if _, _, ok := s.InsertAfter("missing", "x"); ok {
		t.Error("expected unknown anchor to fail")
	}
}

func TestSchemaNamesIsCopy(t *testing.T) {
	s := NewSchema([]string{"a", "b"})
	names := s.Names()
	names[0] = "changed"
	if s.Name(0) != "a" {
		t.Errorf("Names leaked internal storage")
	}
}

func TestSchemaDuplicateNames(t *testing.T) {
	s := NewSchema([]string{"a", "b", "a"})
	if i, _ := s.Index("a"); i != 0 {
		t.Errorf("expected first occurrence to win, got %d", i)
	}
}

func TestCriteriaIsEmpty(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		expected bool
	}{
		{name: "Zero value", criteria: Criteria{}, expected: true},
		{name: "Exact flag alone", criteria: Criteria{ExactMatch: true}, expected: true},
		{name: "Search column without value", criteria: Criteria{SearchColumn: "City"}, expected: true},
		{name: "Account", criteria: Criteria{AccountID: "1"}, expected: false},
		{name: "Status", criteria: Criteria{StatusCodes: []string{"A"}}, expected: false},
		{name: "Postcode", criteria: Criteria{Postcode: "SW1"}, expected: false},
		{name: "Column search", criteria: Criteria{SearchColumn: "City", SearchValue: "x"}, expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.criteria.IsEmpty(); got != tc.expected {
				t.Errorf("expected IsEmpty=%v, got %v", tc.expected, got)
			}
		})
	}
}

func TestTableValue(t *testing.T) {
	table := Table{
		Schema: SchemaForWidth(2),
		Rows:   []Row{{"100", "x"}},
	}
	if v, ok := table.Value(0, ColAccountID); !ok || v != "100" {
		t.Errorf("expected 100, got %q (%v)", v, ok)
	}
	if _, ok := table.Value(0, ColFirstName); ok {
		t.Error("expected missing column to report false")
	}
}
