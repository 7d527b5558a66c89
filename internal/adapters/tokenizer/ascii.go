package tokenizer

import (
	"github.com/baditaflorin/go_cra_records/internal/ports"
)

// ASCIITokenizer implements a byte-level tokenization strategy for ASCII
// lines. Lines containing any non-ASCII byte are handed to the default
// strategy so both always agree.
type ASCIITokenizer struct {
	// Pre-computed whitespace table for ASCII characters (0-127)
	space [128]bool

	fallback ports.Tokenizer
}

// NewASCIITokenizer creates a new ASCII fast-path tokenizer
func NewASCIITokenizer() ports.Tokenizer {
	t := &ASCIITokenizer{fallback: NewDefaultTokenizer()}
	for b := range t.space {
		t.space[b] = IsSeparator(rune(b))
	}
	return t
}

// Tokenize appends the whitespace-separated fields of line to dst.
func (t *ASCIITokenizer) Tokenize(line string, dst []string) []string {
	base := len(dst)
	start := -1

	for i := 0; i < len(line); i++ {
		b := line[i]
		if b >= 0x80 {
			// Unicode whitespace needs the rune-aware path
			return t.fallback.Tokenize(line, dst[:base])
		}
		if t.space[b] {
			if start >= 0 {
				dst = append(dst, line[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		dst = append(dst, line[start:])
	}
	return dst
}
