package tokenizer

import (
	"fmt"

	"github.com/baditaflorin/go_cra_records/internal/ports"
)

// Type names a tokenization strategy.
type Type string

const (
	// DefaultType splits on Unicode whitespace
	DefaultType Type = "default"

	// ASCIIType scans bytes and falls back to DefaultType for non-ASCII lines
	ASCIIType Type = "ascii"
)

// ParseType resolves a strategy name; the empty name selects DefaultType.
func ParseType(name string) (Type, error) {
	switch Type(name) {
	case "", DefaultType:
		return DefaultType, nil
	case ASCIIType:
		return ASCIIType, nil
	default:
		return "", fmt.Errorf("unknown tokenizer %q", name)
	}
}

// New creates the tokenizer for the given strategy. Unknown strategies get
// the default tokenizer.
func New(t Type) ports.Tokenizer {
	switch t {
	case ASCIIType:
		return NewASCIITokenizer()
	default:
		return NewDefaultTokenizer()
	}
}
