package tokenizer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var tokenizeCases = []struct {
	name     string
	line     string
	expected []string
}{
	{name: "Tabs", line: "864652\t2.24062E+32\t0", expected: []string{"864652", "2.24062E+32", "0"}},
	{name: "Mixed runs", line: "  a \t\t b   c\t", expected: []string{"a", "b", "c"}},
	{name: "Carriage return", line: "a b\r", expected: []string{"a", "b"}},
	{name: "Blank", line: " \t ", expected: nil},
	{name: "Empty", line: "", expected: nil},
	{name: "Non-ASCII tokens", line: "Zoë\tMüller", expected: []string{"Zoë", "Müller"}},
	{name: "Unicode space", line: "a\u2003b\u00a0c", expected: []string{"a", "b", "c"}},
	{name: "Information separators", line: "a\x1cb\x1dc\x1e\x1fd", expected: []string{"a", "b", "c", "d"}},
	{name: "Other control bytes", line: "a\x1bb\x00c", expected: []string{"a\x1bb\x00c"}},
}

func TestIsSeparator(t *testing.T) {
	for r := rune(0); r < 0x80; r++ {
		want := r == ' ' || (r >= '\t' && r <= '\r') || (r >= 0x1c && r <= 0x1f)
		if got := IsSeparator(r); got != want {
			t.Errorf("IsSeparator(%U) = %v, want %v", r, got, want)
		}
	}
}

func TestTokenizers(t *testing.T) {
	for _, typ := range []Type{DefaultType, ASCIIType} {
		tok := New(typ)
		for _, tc := range tokenizeCases {
			t.Run(string(typ)+"/"+tc.name, func(t *testing.T) {
				got := tok.Tokenize(tc.line, nil)
				if diff := cmp.Diff(tc.expected, got); diff != "" {
					t.Errorf("unexpected tokens (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestTokenizeAppendsToDst(t *testing.T) {
	for _, typ := range []Type{DefaultType, ASCIIType} {
		dst := []string{"keep"}
		got := New(typ).Tokenize("x y", dst)
		if diff := cmp.Diff([]string{"keep", "x", "y"}, got); diff != "" {
			t.Errorf("%s: unexpected tokens (-want +got):\n%s", typ, diff)
		}
	}
}

func TestASCIIFallbackKeepsPrefix(t *testing.T) {
	// the fallback must discard tokens the byte scan already appended
	got := NewASCIITokenizer().Tokenize("a b\u2003c", []string{"p"})
	if diff := cmp.Diff([]string{"p", "a", "b", "c"}, got); diff != "" {
		t.Errorf("unexpected tokens (-want +got):\n%s", diff)
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		name     string
		expected Type
		wantErr  bool
	}{
		{name: "", expected: DefaultType},
		{name: "default", expected: DefaultType},
		{name: "ascii", expected: ASCIIType},
		{name: "regex", wantErr: true},
	}

	for _, tc := range tests {
		got, err := ParseType(tc.name)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseType(%q): unexpected error %v", tc.name, err)
		}
		if got != tc.expected {
			t.Errorf("ParseType(%q) = %q, expected %q", tc.name, got, tc.expected)
		}
	}
}
