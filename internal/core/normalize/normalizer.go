// Package normalize turns decoded CRA record text into a rectangular table
// with a positional schema and a decomposed status column.
package normalize

import (
	"context"
	"io"
	"runtime"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/baditaflorin/go_cra_records/internal/adapters/stream"
	"github.com/baditaflorin/go_cra_records/internal/adapters/tokenizer"
	"github.com/baditaflorin/go_cra_records/internal/core/domain"
	"github.com/baditaflorin/go_cra_records/internal/pool"
	"github.com/baditaflorin/go_cra_records/internal/ports"
)

// Constants for line tokenization
const (
	// DefaultBatchSize defines how many lines one parallel shard tokenizes
	DefaultBatchSize = 8192

	// DefaultParallelThreshold is the line count from which parallel mode kicks in
	DefaultParallelThreshold = 65536

	// ContextCheckFrequency defines how often to check for context cancellation
	ContextCheckFrequency = 4096 // lines
)

// Config defines configuration for a Normalizer.
type Config struct {
	Tokenizer         ports.Tokenizer
	ChunkSize         int
	Parallel          bool
	Workers           int
	BatchSize         int
	ParallelThreshold int
}

// Normalizer implements ports.Normalizer.
type Normalizer struct {
	logger    ports.Logger
	tokenizer ports.Tokenizer
	tokens    *pool.TokenBufferPool
	lines     *stream.LineReader

	parallel          bool
	workers           int
	batchSize         int
	parallelThreshold int
}

// NewNormalizer creates a normalizer, filling unset configuration with defaults.
func NewNormalizer(logger ports.Logger, config Config) *Normalizer {
	if config.Tokenizer == nil {
		config.Tokenizer = tokenizer.NewDefaultTokenizer()
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBatchSize
	}
	if config.ParallelThreshold <= 0 {
		config.ParallelThreshold = DefaultParallelThreshold
	}

	return &Normalizer{
		logger:            logger,
		tokenizer:         config.Tokenizer,
		tokens:            pool.NewTokenBufferPool(pool.DefaultTokenCapacity),
		lines:             stream.NewLineReader(logger, config.ChunkSize),
		parallel:          config.Parallel,
		workers:           config.Workers,
		batchSize:         config.BatchSize,
		parallelThreshold: config.ParallelThreshold,
	}
}

// Normalize converts text into a table. Empty text yields an empty table with
// a success flag. The flag is false only when processing was aborted, either
// by the context or by an unexpected fault; the returned table is then empty.
func (n *Normalizer) Normalize(ctx context.Context, text string) (table domain.Table, ok bool) {
	startTime := time.Now()

	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("Record normalization failed", "panic", r)
			table, ok = domain.Table{}, false
		}
	}()

	trimmed := strings.TrimFunc(text, tokenizer.IsSeparator)
	if trimmed == "" {
		n.logger.Debug("Empty record input")
		return domain.Table{Schema: domain.NewSchema(nil)}, true
	}

	lines := strings.Split(trimmed, "\n")

	var (
		rows  []domain.Row
		width int
		err   error
	)
	if n.parallel && len(lines) >= n.parallelThreshold {
		rows, width, err = n.tokenizeParallel(ctx, lines)
	} else {
		rows, width, err = n.tokenizeLines(ctx, lines)
	}
	if err != nil {
		n.logger.Error("Record tokenization aborted", "error", err, "lines", len(lines))
		return domain.Table{}, false
	}

	table = DecomposeStatus(Reconcile(rows, width))

	n.logger.Debug("Record normalization completed",
		"lines", len(lines),
		"rows", table.Len(),
		"columns", table.Width(),
		"duration", time.Since(startTime),
	)

	return table, true
}

// tokenizeLines tokenizes lines in order, skipping lines without tokens, and
// returns the rows together with the widest row length.
func (n *Normalizer) tokenizeLines(ctx context.Context, lines []string) ([]domain.Row, int, error) {
	scratch := n.tokens.Get()
	defer n.tokens.Put(scratch)

	rows := make([]domain.Row, 0, len(lines))
	width := 0

	for i, line := range lines {
		if i%ContextCheckFrequency == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}

		if row := n.tokenizeLine(scratch, line); row != nil {
			rows = append(rows, row)
			width = max(width, len(row))
		}
	}

	return rows, width, nil
}

// tokenizeLine tokenizes one line through scratch and returns a row owning
// its cells, or nil for a line without tokens.
func (n *Normalizer) tokenizeLine(scratch *[]string, line string) domain.Row {
	*scratch = n.tokenizer.Tokenize(line, (*scratch)[:0])
	if len(*scratch) == 0 {
		return nil
	}
	row := make(domain.Row, len(*scratch))
	copy(row, *scratch)
	return row
}

// NormalizeReader is Normalize for input read from r, one line at a time.
// Bytes that are not valid UTF-8 are dropped. Read errors and cancellation
// give an empty table and false.
func (n *Normalizer) NormalizeReader(ctx context.Context, r io.Reader) (table domain.Table, ok bool) {
	startTime := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			n.logger.Error("Record normalization failed", "panic", rec)
			table, ok = domain.Table{}, false
		}
	}()

	scratch := n.tokens.Get()
	defer n.tokens.Put(scratch)

	var (
		rows  []domain.Row
		width int
		lines int
	)
	read, err := n.lines.ReadLines(ctx, r, func(line string) error {
		lines++
		if !utf8.ValidString(line) {
			line = strings.ToValidUTF8(line, "")
		}
		if row := n.tokenizeLine(scratch, line); row != nil {
			rows = append(rows, row)
			width = max(width, len(row))
		}
		return nil
	})
	if err != nil {
		n.logger.Error("Record reading aborted", "error", err, "lines", lines)
		return domain.Table{}, false
	}

	if len(rows) == 0 {
		return domain.Table{Schema: domain.NewSchema(nil)}, true
	}

	table = DecomposeStatus(Reconcile(rows, width))

	n.logger.Debug("Record normalization completed",
		"lines", lines,
		"bytes", read,
		"rows", table.Len(),
		"columns", table.Width(),
		"duration", time.Since(startTime),
	)

	return table, true
}
