package warmup

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/baditaflorin/go_cra_records/internal/core/domain"
	"github.com/baditaflorin/go_cra_records/internal/ports"
)

// WarmupConfig defines configuration for warming up the system
type WarmupConfig struct {
	// Number of concurrent warmup routines to run
	Concurrency int
	// Number of iterations per routine
	Iterations int
	// Number of synthetic record lines per sample
	SampleLines int
	// Warmup duration (0 means no time limit)
	Duration time.Duration
	// Whether to perform GC after warmup
	ForceGC bool
}

// DefaultWarmupConfig returns the default warmup configuration
func DefaultWarmupConfig() WarmupConfig {
	return WarmupConfig{
		Concurrency: runtime.NumCPU(),
		Iterations:  100,
		SampleLines: 500,
		Duration:    5 * time.Second,
		ForceGC:     true,
	}
}

// Manager handles system warmup operations
type Manager struct {
	logger      ports.Logger
	normalizers []ports.Normalizer
	evaluators  []ports.Evaluator
	config      WarmupConfig
}

// NewManager creates a new warmup manager
func NewManager(logger ports.Logger, config WarmupConfig) *Manager {
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	return &Manager{
		logger: logger,
		config: config,
	}
}

// RegisterNormalizer adds a normalizer to be warmed up
func (wm *Manager) RegisterNormalizer(norm ports.Normalizer) {
	wm.normalizers = append(wm.normalizers, norm)
}

// RegisterEvaluator adds a filter evaluator to be warmed up
func (wm *Manager) RegisterEvaluator(eval ports.Evaluator) {
	wm.evaluators = append(wm.evaluators, eval)
}

// WarmUp runs the warmup process for all registered components
func (wm *Manager) WarmUp(ctx context.Context) {
	startTime := time.Now()
	wm.logger.Info("Starting system warmup",
		"components", len(wm.normalizers)+len(wm.evaluators),
		"concurrency", wm.config.Concurrency,
		"iterations", wm.config.Iterations,
	)

	// Create a context with timeout if duration is specified
	warmupCtx := ctx
	if wm.config.Duration > 0 {
		var cancel context.CancelFunc
		warmupCtx, cancel = context.WithTimeout(ctx, wm.config.Duration)
		defer cancel()
	}

	sample := GenerateRecords(wm.config.SampleLines)

	wm.run(warmupCtx, func(j int) {
		for _, normalizer := range wm.normalizers {
			table, ok := normalizer.Normalize(warmupCtx, sample)
			if !ok {
				continue
			}
			for _, evaluator := range wm.evaluators {
				_ = evaluator.Apply(table, sampleCriteria[j%len(sampleCriteria)])
			}
		}
	})

	// Force garbage collection if configured
	if wm.config.ForceGC {
		wm.logger.Debug("Forcing garbage collection after warmup")
		runtime.GC()
	}

	wm.logger.Info("System warmup completed",
		"duration", time.Since(startTime),
	)
}

// run executes fn Iterations times on each of Concurrency goroutines,
// stopping early once ctx is done.
func (wm *Manager) run(ctx context.Context, fn func(iteration int)) {
	if len(wm.normalizers) == 0 {
		return
	}

	var wg sync.WaitGroup
	for i := 0; i < wm.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for j := 0; j < wm.config.Iterations; j++ {
				if ctx.Err() != nil {
					return
				}
				fn(j)
			}
		}()
	}

	wg.Wait()
}

// sampleCriteria cycles through every criterion kind.
var sampleCriteria = []domain.Criteria{
	{StatusCodes: []string{"A", "M"}},
	{AccountID: "1000", ExactMatch: false},
	{AccountID: "100042", ExactMatch: true},
	{FirstName: "sarah", LastName: "lawrence"},
	{Postcode: "SW1"},
	{SearchColumn: "City", SearchValue: "london"},
}

// GenerateRecords creates lines synthetic CRA record lines with varying
// widths and tab or space delimiters.
func GenerateRecords(lines int) string {
	titles := []string{"AMiss", "MMiss", "PMr", "VMrs", "ADr"}
	firstNames := []string{"Sarah", "Charlotte", "James", "Amir", "Olu"}
	lastNames := []string{"Lawrence", "Giles", "Patel", "Okafor", "Smith"}
	cities := []string{"LONDON", "LEEDS", "YORK", "BATH", "DERBY"}

	var sb strings.Builder
	for i := 0; i < lines; i++ {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sep := "\t"
		if i%2 == 1 {
			sep = "  "
		}
		fields := []string{
			fmt.Sprintf("%d", 100000+i),
			"2.24062E+32", "0", "0", "0", "0",
			titles[i%len(titles)],
			firstNames[i%len(firstNames)],
			lastNames[i%len(lastNames)],
			fmt.Sprintf("%d", 1+i%200), "VICTORIA", "AVENUE",
		}
		if i%3 != 0 {
			fields = append(fields, cities[i%len(cities)], "SW1", "4AA", "01/02/2020")
		}
		sb.WriteString(strings.Join(fields, sep))
	}
	return sb.String()
}
