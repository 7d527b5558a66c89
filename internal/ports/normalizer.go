package ports

import (
	"context"
	"io"

	"github.com/baditaflorin/go_cra_records/internal/core/domain"
)

// Normalizer turns decoded record text into a rectangular table.
type Normalizer interface {
	// Normalize returns the table and a success flag. A false flag means the
	// text could not be processed at all and the table must not be read.
	Normalize(ctx context.Context, text string) (domain.Table, bool)
}

// StreamNormalizer normalizes decoded text read from a stream.
type StreamNormalizer interface {
	NormalizeReader(ctx context.Context, r io.Reader) (domain.Table, bool)
}
