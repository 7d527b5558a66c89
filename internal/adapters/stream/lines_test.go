package stream

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/baditaflorin/go_cra_records/internal/adapters/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, r io.Reader, chunkSize int) []string {
	t.Helper()
	var lines []string
	_, err := NewLineReader(logger.NewNopLogger(), chunkSize).ReadLines(context.Background(), r, func(line string) error {
		lines = append(lines, line)
		return nil
	})
	require.NoError(t, err)
	return lines
}

func TestReadLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "Trailing newline", input: "a b\nc d\n", expected: []string{"a b", "c d"}},
		{name: "No trailing newline", input: "a b\nc d", expected: []string{"a b", "c d"}},
		{name: "CRLF keeps CR", input: "a\r\nb\r\n", expected: []string{"a\r", "b\r"}},
		{name: "Blank lines", input: "\n\na\n\n", expected: []string{"", "", "a", ""}},
		{name: "Empty", input: "", expected: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, collect(t, strings.NewReader(tc.input), 4))
		})
	}
}

func TestReadLinesAcrossChunks(t *testing.T) {
	long := strings.Repeat("x", 100)
	input := long + "\nshort\n" + long

	// one byte per Read forces every line across many chunks
	lines := collect(t, iotest.OneByteReader(strings.NewReader(input)), 8)
	assert.Equal(t, []string{long, "short", long}, lines)
}

func TestReadLinesCountsBytes(t *testing.T) {
	n, err := NewLineReader(logger.NewNopLogger(), 0).ReadLines(context.Background(), strings.NewReader("ab\ncd"), func(string) error { return nil })
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)
}

func TestReadLinesStopsOnCallbackError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	_, err := NewLineReader(logger.NewNopLogger(), 4).ReadLines(context.Background(), strings.NewReader("a\nb\nc\n"), func(string) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestReadLinesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLineReader(logger.NewNopLogger(), 4).ReadLines(ctx, strings.NewReader("a\nb"), func(string) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadLinesReaderError(t *testing.T) {
	boom := errors.New("disk gone")
	r := io.MultiReader(strings.NewReader("a\n"), iotest.ErrReader(boom))

	_, err := NewLineReader(logger.NewNopLogger(), 4).ReadLines(context.Background(), r, func(string) error { return nil })
	assert.ErrorIs(t, err, boom)
}
