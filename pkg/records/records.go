// Package records loads whitespace-delimited CRA report files into named
// tables and filters them.
package records

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/baditaflorin/go_cra_records/internal/adapters/decode"
	"github.com/baditaflorin/go_cra_records/internal/adapters/export"
	"github.com/baditaflorin/go_cra_records/internal/adapters/logger"
	"github.com/baditaflorin/go_cra_records/internal/adapters/tokenizer"
	"github.com/baditaflorin/go_cra_records/internal/cache"
	"github.com/baditaflorin/go_cra_records/internal/core/domain"
	"github.com/baditaflorin/go_cra_records/internal/core/filter"
	"github.com/baditaflorin/go_cra_records/internal/core/normalize"
	"github.com/baditaflorin/go_cra_records/internal/core/paging"
	"github.com/baditaflorin/go_cra_records/internal/ports"
	"github.com/baditaflorin/go_cra_records/internal/warmup"
	"github.com/baditaflorin/l"
)

type (
	// Table is a normalized record table.
	Table = domain.Table
	// Row is one record of a Table.
	Row = domain.Row
	// Schema names the columns of a Table.
	Schema = domain.Schema
	// Criteria holds optional filter constraints.
	Criteria = domain.Criteria
	// PageResult is one page of a Table.
	PageResult = paging.PageResult
	// Stats summarizes a filter result.
	Stats = paging.Stats
	// TokenizerType names a tokenization strategy.
	TokenizerType = tokenizer.Type
)

// Tokenization strategies.
const (
	DefaultTokenizer = tokenizer.DefaultType
	ASCIITokenizer   = tokenizer.ASCIIType
)

// Column names with a fixed meaning.
const (
	ColAccountID   = domain.ColAccountID
	ColStatusTitle = domain.ColStatusTitle
	ColStatusCode  = domain.ColStatusCode
	ColTitle       = domain.ColTitle
	ColFirstName   = domain.ColFirstName
	ColLastName    = domain.ColLastName
	ColPostcode1   = domain.ColPostcode1
	ColPostcode2   = domain.ColPostcode2
)

// StatusCodes lists the status codes a CRA report uses.
func StatusCodes() []string {
	return append([]string(nil), domain.StatusCodes...)
}

// Analyzer loads, filters, pages and exports record tables.
type Analyzer struct {
	normalizer ports.Normalizer
	stream     ports.StreamNormalizer
	evaluator  ports.Evaluator
	cache      *cache.TableCache
	logger     ports.Logger
	exportDir  string
	warmed     bool
}

// Option defines a functional option for configuring an Analyzer.
type Option func(*analyzerConfig)

type analyzerConfig struct {
	Logger            ports.Logger
	Tokenizer         TokenizerType
	Parallel          bool
	Workers           int
	BatchSize         int
	ParallelThreshold int
	CacheCapacity     int
	ExportDir         string
	WarmUp            bool
	WarmUpConfig      warmup.WarmupConfig
}

// WithLogger sets a custom logger.
func WithLogger(lg l.Logger) Option {
	return func(cfg *analyzerConfig) {
		cfg.Logger = logger.FromExisting(lg)
	}
}

// WithoutLogging discards all log output.
func WithoutLogging() Option {
	return func(cfg *analyzerConfig) {
		cfg.Logger = logger.NewNopLogger()
	}
}

// WithTokenizer selects the tokenization strategy.
func WithTokenizer(t TokenizerType) Option {
	return func(cfg *analyzerConfig) {
		cfg.Tokenizer = t
	}
}

// WithParallel enables sharded tokenization of large inputs.
func WithParallel(enable bool) Option {
	return func(cfg *analyzerConfig) {
		cfg.Parallel = enable
	}
}

// WithWorkers bounds the number of tokenization workers.
func WithWorkers(n int) Option {
	return func(cfg *analyzerConfig) {
		cfg.Workers = n
	}
}

// WithBatchSize sets the number of lines per parallel shard.
func WithBatchSize(n int) Option {
	return func(cfg *analyzerConfig) {
		cfg.BatchSize = n
	}
}

// WithParallelThreshold sets the line count from which parallel mode is used.
func WithParallelThreshold(n int) Option {
	return func(cfg *analyzerConfig) {
		cfg.ParallelThreshold = n
	}
}

// WithCache memoizes loaded tables by content fingerprint, keeping at most
// capacity tables.
func WithCache(capacity int) Option {
	return func(cfg *analyzerConfig) {
		cfg.CacheCapacity = capacity
	}
}

// WithExportDir sets the scratch directory for exports that build files.
func WithExportDir(dir string) Option {
	return func(cfg *analyzerConfig) {
		cfg.ExportDir = dir
	}
}

// WithWarmUp enables system warm-up on initialization.
func WithWarmUp(enable bool) Option {
	return func(cfg *analyzerConfig) {
		cfg.WarmUp = enable
	}
}

// WithWarmUpConfig sets a custom warm-up configuration.
func WithWarmUpConfig(config warmup.WarmupConfig) Option {
	return func(cfg *analyzerConfig) {
		cfg.WarmUpConfig = config
		cfg.WarmUp = true
	}
}

// New creates a new Analyzer instance.
func New(opts ...Option) (*Analyzer, error) {
	config := &analyzerConfig{
		Tokenizer:         DefaultTokenizer,
		BatchSize:         normalize.DefaultBatchSize,
		ParallelThreshold: normalize.DefaultParallelThreshold,
		WarmUpConfig:      warmup.DefaultWarmupConfig(),
	}

	// Apply options
	for _, opt := range opts {
		opt(config)
	}

	// Set up logger if not provided
	if config.Logger == nil {
		var err error
		config.Logger, err = logger.NewStdLogger()
		if err != nil {
			return nil, err
		}
	}

	norm := normalize.NewNormalizer(config.Logger, normalize.Config{
		Tokenizer:         tokenizer.New(config.Tokenizer),
		Parallel:          config.Parallel,
		Workers:           config.Workers,
		BatchSize:         config.BatchSize,
		ParallelThreshold: config.ParallelThreshold,
	})

	a := &Analyzer{
		normalizer: norm,
		stream:     norm,
		evaluator:  filter.NewEvaluator(config.Logger),
		logger:     config.Logger,
		exportDir:  config.ExportDir,
	}
	if config.CacheCapacity > 0 {
		a.cache = cache.New(config.CacheCapacity)
	}

	// Perform warm-up if configured
	if config.WarmUp {
		a.WarmUp(context.Background(), config.WarmUpConfig)
	}

	return a, nil
}

// Load normalizes decoded text into a table. ok is false only when the text
// could not be processed at all; callers must not read the table then.
// Empty text gives an empty table and ok == true.
func (a *Analyzer) Load(ctx context.Context, text string) (table Table, ok bool) {
	if a.cache == nil {
		return a.normalizer.Normalize(ctx, text)
	}

	fp := cache.Of(text)
	if cached, hit := a.cache.Get(fp); hit {
		a.logger.Debug("Table cache hit", "fingerprint", fp.String())
		return cached, true
	}

	table, ok = a.normalizer.Normalize(ctx, text)
	if ok {
		a.cache.Put(fp, table)
	}
	return table, ok
}

// LoadBytes decodes raw file content using the named charset and loads it.
// The error reports an unsupported charset or a failed transcoding.
func (a *Analyzer) LoadBytes(ctx context.Context, data []byte, charset string) (Table, bool, error) {
	text, err := Decode(data, charset)
	if err != nil {
		return Table{}, false, err
	}
	table, ok := a.Load(ctx, text)
	return table, ok, nil
}

// LoadReader decodes and loads r line by line without holding the whole
// input in memory. Tables loaded this way bypass the cache.
func (a *Analyzer) LoadReader(ctx context.Context, r io.Reader, charset string) (Table, bool, error) {
	cs, err := decode.ParseCharset(charset)
	if err != nil {
		return Table{}, false, err
	}
	text, err := decode.NewReader(r, cs)
	if err != nil {
		return Table{}, false, err
	}
	table, ok := a.stream.NormalizeReader(ctx, text)
	return table, ok, nil
}

// Invalidate forgets the cached table for text, if any.
func (a *Analyzer) Invalidate(text string) {
	if a.cache != nil {
		a.cache.Invalidate(cache.Of(text))
	}
}

// Filter returns the rows of table that satisfy every active criterion, in
// table order.
func (a *Analyzer) Filter(table Table, criteria Criteria) Table {
	return a.evaluator.Apply(table, criteria)
}

// Page returns one page of table. See paging.Page for clamping rules.
func (a *Analyzer) Page(table Table, perPage, page int) PageResult {
	return paging.Page(table, perPage, page)
}

// Stats summarizes how many of total rows a filtered table kept.
func (a *Analyzer) Stats(total, filtered Table) Stats {
	return paging.NewStats(total.Len(), filtered.Len())
}

// Export writes table to w in the named format using the analyzer's export
// settings. See the package level Export.
func (a *Analyzer) Export(w io.Writer, table Table, format string) (filename, contentType string, err error) {
	filename, contentType, err = export.To(w, table, format, time.Now(), export.WithTempDir(a.exportDir))
	if err != nil {
		return "", "", err
	}
	a.logger.Debug("Table exported", "format", format, "rows", table.Len(), "filename", filename)
	return filename, contentType, nil
}

// DefaultWarmUpConfig returns the default warm-up configuration.
func DefaultWarmUpConfig() warmup.WarmupConfig {
	return warmup.DefaultWarmupConfig()
}

// WarmUp performs system warm-up to optimize performance.
func (a *Analyzer) WarmUp(ctx context.Context, config warmup.WarmupConfig) {
	if a.warmed {
		a.logger.Debug("System already warmed up, skipping")
		return
	}

	warmupMgr := warmup.NewManager(a.logger, config)
	warmupMgr.RegisterNormalizer(a.normalizer)
	warmupMgr.RegisterEvaluator(a.evaluator)

	warmupMgr.WarmUp(ctx)
	a.warmed = true
}

// Close releases the analyzer's logger.
func (a *Analyzer) Close() error {
	return a.logger.Close()
}

// Decode converts raw file content to text. Supported charsets are utf-8
// (the default), windows-1252 and iso-8859-1; invalid UTF-8 bytes are dropped.
func Decode(data []byte, charset string) (string, error) {
	cs, err := decode.ParseCharset(charset)
	if err != nil {
		return "", err
	}
	return decode.Decode(data, cs)
}

// Formats lists the format names Export accepts.
func Formats() []string {
	formats := export.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return names
}

// Export writes table to w in the named format (csv, xlsx or sqlite) and
// returns the download file name and content type for it.
func Export(w io.Writer, table Table, format string) (filename, contentType string, err error) {
	return export.To(w, table, format, time.Now())
}

var (
	// ErrUnknownFormat is returned by Export for unsupported formats.
	ErrUnknownFormat = export.ErrUnknownFormat

	// ErrParseFailed marks input the normalizer could not process. Shells
	// wrap it when a Load reports false.
	ErrParseFailed = errors.New("failed to parse records: expected a tab or space-delimited text file")
)
