package warmup

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/baditaflorin/go_cra_records/internal/adapters/logger"
	"github.com/baditaflorin/go_cra_records/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

type countingNormalizer struct {
	calls atomic.Int64
}

func (c *countingNormalizer) Normalize(ctx context.Context, text string) (domain.Table, bool) {
	c.calls.Add(1)
	return domain.Table{Schema: domain.SchemaForWidth(1), Rows: []domain.Row{{"1"}}}, true
}

type countingEvaluator struct {
	calls atomic.Int64
}

func (c *countingEvaluator) Apply(table domain.Table, criteria domain.Criteria) domain.Table {
	c.calls.Add(1)
	return table
}

func TestWarmUpRunsEveryIteration(t *testing.T) {
	norm := &countingNormalizer{}
	eval := &countingEvaluator{}

	m := NewManager(logger.NewNopLogger(), WarmupConfig{
		Concurrency: 3,
		Iterations:  5,
		SampleLines: 10,
	})
	m.RegisterNormalizer(norm)
	m.RegisterEvaluator(eval)
	m.WarmUp(context.Background())

	assert.EqualValues(t, 15, norm.calls.Load())
	assert.EqualValues(t, 15, eval.calls.Load())
}

func TestWarmUpStopsOnCancel(t *testing.T) {
	norm := &countingNormalizer{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewManager(logger.NewNopLogger(), WarmupConfig{Concurrency: 2, Iterations: 100, Duration: time.Second})
	m.RegisterNormalizer(norm)
	m.WarmUp(ctx)

	assert.Zero(t, norm.calls.Load())
}

func TestWarmUpWithoutComponents(t *testing.T) {
	m := NewManager(logger.NewNopLogger(), DefaultWarmupConfig())
	m.WarmUp(context.Background())
}

func TestGenerateRecords(t *testing.T) {
	text := GenerateRecords(6)
	lines := strings.Split(text, "\n")
	assert.Len(t, lines, 6)

	assert.Len(t, strings.Fields(lines[0]), 12)
	assert.Len(t, strings.Fields(lines[1]), 16)
	assert.Contains(t, lines[0], "\t")
	assert.Contains(t, lines[1], "  ")

	assert.Empty(t, GenerateRecords(0))
}
