package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/baditaflorin/go_cra_records/internal/ports"
	"github.com/baditaflorin/l"
)

// Options selects where and how log records are written.
type Options struct {
	// File is the log file path; empty writes to stdout.
	File string
	// JSON switches from text to JSON records.
	JSON bool
	// Async buffers writes in a background goroutine.
	Async bool
}

// StdLogger adapts the l.Logger to the ports.Logger interface.
type StdLogger struct {
	logger l.Logger
	file   *os.File
}

// NewStdLogger creates a new standard logger adapter with default configuration.
func NewStdLogger() (ports.Logger, error) {
	return NewLogger(Options{Async: true})
}

// NewLogger creates a logger writing to stdout or to the configured file.
func NewLogger(opts Options) (ports.Logger, error) {
	var (
		output io.Writer = os.Stdout
		file   *os.File
	)
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output, file = f, f
	}

	logger, err := l.NewStandardFactory().CreateLogger(l.Config{
		Output:      output,
		JsonFormat:  opts.JSON,
		AsyncWrite:  opts.Async,
		BufferSize:  1024 * 1024,       // 1MB buffer
		MaxFileSize: 100 * 1024 * 1024, // 100MB max file size
		MaxBackups:  5,
		AddSource:   true,
		Metrics:     true,
	})
	if err != nil {
		if file != nil {
			file.Close()
		}
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &StdLogger{logger: logger, file: file}, nil
}

// NewCustomStdLogger creates a new standard logger with custom configuration.
func NewCustomStdLogger(config l.Config) (ports.Logger, error) {
	logger, err := l.NewStandardFactory().CreateLogger(config)
	if err != nil {
		return nil, err
	}

	return &StdLogger{logger: logger}, nil
}

// Debug logs a debug message.
func (s *StdLogger) Debug(msg string, keysAndValues ...interface{}) {
	s.logger.Debug(msg, keysAndValues...)
}

// Info logs an info message.
func (s *StdLogger) Info(msg string, keysAndValues ...interface{}) {
	s.logger.Info(msg, keysAndValues...)
}

// Warn logs a warning message.
func (s *StdLogger) Warn(msg string, keysAndValues ...interface{}) {
	s.logger.Warn(msg, keysAndValues...)
}

// Error logs an error message.
func (s *StdLogger) Error(msg string, keysAndValues ...interface{}) {
	s.logger.Error(msg, keysAndValues...)
}

// Close flushes the logger and releases the log file, if any.
func (s *StdLogger) Close() error {
	err := s.logger.Close()
	if s.file != nil {
		if cerr := s.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// FromExisting creates a new StdLogger from an existing l.Logger.
func FromExisting(logger l.Logger) ports.Logger {
	return &StdLogger{logger: logger}
}
