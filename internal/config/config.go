// Package config loads the YAML configuration shared by the server and CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/baditaflorin/go_cra_records/internal/adapters/decode"
	"github.com/baditaflorin/go_cra_records/internal/adapters/export"
	"github.com/baditaflorin/go_cra_records/internal/adapters/tokenizer"
	"github.com/baditaflorin/go_cra_records/internal/core/normalize"
	"github.com/baditaflorin/go_cra_records/internal/core/paging"
	"gopkg.in/yaml.v3"
)

// Config holds all service configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Normalizer NormalizerConfig `yaml:"normalizer"`
	Cache      CacheConfig      `yaml:"cache"`
	Export     ExportConfig     `yaml:"export"`
	Preview    PreviewConfig    `yaml:"preview"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	MaxRequestSize int           `yaml:"max_request_size"`
	Concurrency    int           `yaml:"concurrency"` // 0 means fasthttp default
	WarmUp         bool          `yaml:"warm_up"`
}

// NormalizerConfig configures record tokenization.
type NormalizerConfig struct {
	Tokenizer         string `yaml:"tokenizer"` // default, ascii
	Charset           string `yaml:"charset"`   // utf-8, windows-1252, iso-8859-1
	Parallel          bool   `yaml:"parallel"`
	Workers           int    `yaml:"workers"` // 0 means runtime.NumCPU()
	BatchSize         int    `yaml:"batch_size"`
	ParallelThreshold int    `yaml:"parallel_threshold"`
}

// CacheConfig configures the fingerprint cache.
type CacheConfig struct {
	Enabled  bool `yaml:"enabled"`
	Capacity int  `yaml:"capacity"`
}

// ExportConfig configures downloads.
type ExportConfig struct {
	Format  string `yaml:"format"` // csv, xlsx, sqlite
	TempDir string `yaml:"temp_dir"`
}

// PreviewConfig configures paged previews.
type PreviewConfig struct {
	PerPage int `yaml:"per_page"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	File    string `yaml:"file"`
	JSON    bool   `yaml:"json"`
	Verbose bool   `yaml:"verbose"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			ReadTimeout:    5 * time.Minute,
			WriteTimeout:   5 * time.Minute,
			MaxRequestSize: 500 * 1024 * 1024, // 500MB
		},
		Normalizer: NormalizerConfig{
			Tokenizer:         string(tokenizer.DefaultType),
			Charset:           string(decode.UTF8),
			Parallel:          true,
			BatchSize:         normalize.DefaultBatchSize,
			ParallelThreshold: normalize.DefaultParallelThreshold,
		},
		Cache: CacheConfig{
			Enabled:  true,
			Capacity: 8,
		},
		Export: ExportConfig{
			Format: string(export.CSV),
		},
		Preview: PreviewConfig{
			PerPage: paging.DefaultPerPage,
		},
		Logging: LoggingConfig{
			JSON: true,
		},
	}
}

// Load reads a YAML file over the defaults and applies environment
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// applyEnvOverrides lets CRA_* environment variables win over the file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CRA_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("CRA_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv("CRA_LOG_JSON"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.JSON = b
		}
	}
	if v := os.Getenv("CRA_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Normalizer.Workers = n
		}
	}
}

// Validate checks the configuration for values no component accepts.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.MaxRequestSize <= 0 {
		errs = append(errs, fmt.Errorf("server.max_request_size must be positive"))
	}
	if _, err := tokenizer.ParseType(c.Normalizer.Tokenizer); err != nil {
		errs = append(errs, fmt.Errorf("normalizer.tokenizer: %w", err))
	}
	if _, err := decode.ParseCharset(c.Normalizer.Charset); err != nil {
		errs = append(errs, fmt.Errorf("normalizer.charset: %w", err))
	}
	if c.Normalizer.Workers < 0 {
		errs = append(errs, fmt.Errorf("normalizer.workers must not be negative"))
	}
	if _, err := export.ForFormat(c.Export.Format); err != nil {
		errs = append(errs, fmt.Errorf("export.format: %w", err))
	}
	if !slices.Contains(paging.PageSizes, c.Preview.PerPage) {
		errs = append(errs, fmt.Errorf("preview.per_page must be one of %v", paging.PageSizes))
	}

	return errors.Join(errs...)
}
