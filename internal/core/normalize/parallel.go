package normalize

import (
	"context"
	"fmt"
	"time"

	"github.com/baditaflorin/go_cra_records/internal/core/domain"
	"golang.org/x/sync/errgroup"
)

// shardResult holds the tokenized rows of one contiguous line range.
type shardResult struct {
	rows  []domain.Row
	width int
}

// tokenizeParallel shards lines into contiguous batches tokenized by a
// bounded worker group. Shards are reassembled in line order and the table
// width is reduced over all shards only after every shard has finished.
func (n *Normalizer) tokenizeParallel(ctx context.Context, lines []string) ([]domain.Row, int, error) {
	startTime := time.Now()

	shardCount := (len(lines) + n.batchSize - 1) / n.batchSize
	results := make([]shardResult, shardCount)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(n.workers)

	for shard := 0; shard < shardCount; shard++ {
		lo := shard * n.batchSize
		hi := min(lo+n.batchSize, len(lines))
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("shard %d: %v", shard, r)
				}
			}()

			rows, width, err := n.tokenizeLines(gctx, lines[lo:hi])
			if err != nil {
				return err
			}
			results[shard] = shardResult{rows: rows, width: width}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	total, width := 0, 0
	for _, r := range results {
		total += len(r.rows)
		width = max(width, r.width)
	}

	rows := make([]domain.Row, 0, total)
	for _, r := range results {
		rows = append(rows, r.rows...)
	}

	n.logger.Debug("Parallel tokenization completed",
		"lines", len(lines),
		"shards", shardCount,
		"workers", n.workers,
		"duration", time.Since(startTime),
	)

	return rows, width, nil
}
