// Package stream splits large inputs into lines without holding them whole.
package stream

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/baditaflorin/go_cra_records/internal/pool"
	"github.com/baditaflorin/go_cra_records/internal/ports"
)

// LF ends a line. A CR before it stays part of the line.
const LF = '\n'

// LineReader reads lines from an io.Reader in fixed-size chunks
type LineReader struct {
	logger ports.Logger
	chunks *pool.ChunkBufferPool
}

// NewLineReader creates a line reader reading chunkSize bytes at a time
func NewLineReader(logger ports.Logger, chunkSize int) *LineReader {
	return &LineReader{
		logger: logger,
		chunks: pool.NewChunkBufferPool(chunkSize),
	}
}

// ReadLines calls fn for every LF-terminated line of r, and for a final
// unterminated line if any. Lines are passed without their LF. The context
// is checked once per chunk. It returns the number of bytes read.
func (lr *LineReader) ReadLines(ctx context.Context, r io.Reader, fn func(line string) error) (int64, error) {
	startTime := time.Now()

	chunk := lr.chunks.Get()
	defer lr.chunks.Put(chunk)

	var (
		partial []byte
		read    int64
		lines   int
	)

	emit := func(line string) error {
		lines++
		return fn(line)
	}

	for {
		if err := ctx.Err(); err != nil {
			lr.logger.Warn("Line reading cancelled by context", "error", err, "bytes", read)
			return read, err
		}

		n, err := r.Read(chunk.Bytes)
		if n > 0 {
			read += int64(n)
			data := chunk.Bytes[:n]

			for {
				i := bytes.IndexByte(data, LF)
				if i < 0 {
					break
				}

				var line string
				if len(partial) > 0 {
					partial = append(partial, data[:i]...)
					line = string(partial)
					partial = partial[:0]
				} else {
					line = string(data[:i])
				}
				if ferr := emit(line); ferr != nil {
					return read, ferr
				}
				data = data[i+1:]
			}

			// Carry the unterminated tail into the next chunk
			partial = append(partial, data...)
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			lr.logger.Warn("Error reading from input", "error", err)
			return read, err
		}
	}

	if len(partial) > 0 {
		if err := emit(string(partial)); err != nil {
			return read, err
		}
	}

	lr.logger.Debug("Line reading completed",
		"lines", lines,
		"bytes", read,
		"duration", time.Since(startTime),
	)

	return read, nil
}
