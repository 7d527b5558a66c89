package main

import (
	"fmt"
	"io"
	"os"

	"github.com/baditaflorin/go_cra_records/internal/config"
	"github.com/baditaflorin/go_cra_records/pkg/records"
	"github.com/baditaflorin/l"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
	charset    string

	cfg    *config.Config
	logger l.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "crafilter",
	Short: "Filter and export CRA report record files",
	Long: `crafilter loads tab or space-delimited CRA report files, names their
columns, splits the status field into code and title, and filters the
records by account, status, name, postcode or any column.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if charset != "" {
			cfg.Normalizer.Charset = charset
		}
		if verbose {
			cfg.Logging.Verbose = true
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		if cfg.Logging.Verbose {
			logger, err = createLogger(cfg.Logging)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log processing details to stderr")
	rootCmd.PersistentFlags().StringVar(&charset, "charset", "", "Input charset: utf-8, windows-1252, iso-8859-1")

	rootCmd.AddCommand(filterCmd, previewCmd, schemaCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newAnalyzer builds an analyzer from the loaded configuration.
func newAnalyzer() (*records.Analyzer, error) {
	opts := []records.Option{
		records.WithTokenizer(records.TokenizerType(cfg.Normalizer.Tokenizer)),
		records.WithParallel(cfg.Normalizer.Parallel),
		records.WithWorkers(cfg.Normalizer.Workers),
		records.WithBatchSize(cfg.Normalizer.BatchSize),
		records.WithParallelThreshold(cfg.Normalizer.ParallelThreshold),
		records.WithExportDir(cfg.Export.TempDir),
	}
	if logger != nil {
		opts = append(opts, records.WithLogger(logger))
	} else {
		opts = append(opts, records.WithoutLogging())
	}
	return records.New(opts...)
}

// loadFile reads and normalizes a record file, returning the analyzer that
// loaded it.
func loadFile(cmd *cobra.Command, path string) (*records.Analyzer, records.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, records.Table{}, err
	}
	defer f.Close()

	analyzer, err := newAnalyzer()
	if err != nil {
		return nil, records.Table{}, err
	}

	table, ok, err := analyzer.LoadReader(cmd.Context(), f, cfg.Normalizer.Charset)
	if err != nil {
		return nil, records.Table{}, err
	}
	if !ok {
		return nil, records.Table{}, fmt.Errorf("%s: %w", path, records.ErrParseFailed)
	}
	return analyzer, table, nil
}

// createLogger creates a text logger writing to stderr or the configured file
func createLogger(lc config.LoggingConfig) (l.Logger, error) {
	var output io.Writer = os.Stderr
	if lc.File != "" {
		file, err := os.OpenFile(lc.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
	}

	return l.NewStandardFactory().CreateLogger(l.Config{
		Output:     output,
		JsonFormat: lc.JSON,
		AsyncWrite: false,
		AddSource:  false,
	})
}
