// Package decode turns uploaded record file bytes into valid UTF-8 text.
package decode

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Charset names a supported input encoding.
type Charset string

const (
	UTF8        Charset = "utf-8"
	Windows1252 Charset = "windows-1252"
	ISO88591    Charset = "iso-8859-1"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCharset resolves a charset name. The empty name selects UTF8.
func ParseCharset(name string) (Charset, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return UTF8, nil
	case "windows-1252", "cp1252":
		return Windows1252, nil
	case "iso-8859-1", "latin1", "latin-1":
		return ISO88591, nil
	default:
		return "", fmt.Errorf("unsupported charset %q", name)
	}
}

// Decode converts data to text. UTF-8 input loses a leading byte order mark
// and every byte that is not valid UTF-8; single byte charsets are
// transcoded in full.
func Decode(data []byte, cs Charset) (string, error) {
	var enc encoding.Encoding
	switch cs {
	case "", UTF8:
		return strings.ToValidUTF8(string(bytes.TrimPrefix(data, utf8BOM)), ""), nil
	case Windows1252:
		enc = charmap.Windows1252
	case ISO88591:
		enc = charmap.ISO8859_1
	default:
		return "", fmt.Errorf("unsupported charset %q", cs)
	}

	text, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", cs, err)
	}
	return string(text), nil
}

// NewReader wraps r so it yields UTF-8 text. UTF-8 input only loses a
// leading byte order mark; invalid bytes are left to the consumer.
func NewReader(r io.Reader, cs Charset) (io.Reader, error) {
	switch cs {
	case "", UTF8:
		br := bufio.NewReader(r)
		if prefix, _ := br.Peek(len(utf8BOM)); bytes.Equal(prefix, utf8BOM) {
			_, _ = br.Discard(len(utf8BOM))
		}
		return br, nil
	case Windows1252:
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	case ISO88591:
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("unsupported charset %q", cs)
	}
}
