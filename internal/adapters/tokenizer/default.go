package tokenizer

import (
	"strings"
	"unicode"

	"github.com/baditaflorin/go_cra_records/internal/ports"
)

// DefaultTokenizer splits lines on runs of Unicode whitespace and the
// information separators U+001C to U+001F.
type DefaultTokenizer struct{}

// NewDefaultTokenizer creates a new default tokenizer.
func NewDefaultTokenizer() ports.Tokenizer {
	return &DefaultTokenizer{}
}

// Tokenize appends the whitespace-separated fields of line to dst. Tabs are
// whitespace, so they behave exactly like a single space.
func (t *DefaultTokenizer) Tokenize(line string, dst []string) []string {
	return append(dst, strings.FieldsFunc(line, IsSeparator)...)
}

// IsSeparator reports whether r separates tokens.
func IsSeparator(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
