// Package export serializes tables for download.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/baditaflorin/go_cra_records/internal/core/domain"
	"github.com/baditaflorin/go_cra_records/internal/ports"
)

// Format names an export format.
type Format string

const (
	CSV    Format = "csv"
	XLSX   Format = "xlsx"
	SQLite Format = "sqlite"
)

// FilenamePrefix starts every download file name.
const FilenamePrefix = "cra_report_filtered"

var (
	// ErrUnknownFormat is returned for format names without an exporter.
	ErrUnknownFormat = errors.New("unknown export format")
	// ErrNoColumns is returned by formats that cannot represent a table without columns.
	ErrNoColumns = errors.New("table has no columns")
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{CSV, XLSX, SQLite}
}

// Option configures exporters built by ForFormat.
type Option func(*options)

type options struct {
	tempDir string
}

// WithTempDir sets the directory formats that need scratch files build them in.
func WithTempDir(dir string) Option {
	return func(o *options) {
		o.tempDir = dir
	}
}

// ForFormat returns the exporter for the named format; the empty name selects CSV.
func ForFormat(name string, opts ...Option) (ports.Exporter, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	switch Format(strings.ToLower(name)) {
	case "", CSV:
		return NewCSVExporter(), nil
	case XLSX:
		return NewXLSXExporter(), nil
	case SQLite:
		return &SQLiteExporter{TempDir: o.tempDir}, nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: %v)", ErrUnknownFormat, name, Formats())
	}
}

// To writes table to w in the named format and returns the download file
// name for an export created at t together with its content type.
func To(w io.Writer, table domain.Table, format string, t time.Time, opts ...Option) (filename, contentType string, err error) {
	exporter, err := ForFormat(format, opts...)
	if err != nil {
		return "", "", err
	}
	if err := exporter.Export(w, table); err != nil {
		return "", "", err
	}
	return Filename(exporter, t), exporter.ContentType(), nil
}

// Filename builds the download name for an export created at t.
func Filename(e ports.Exporter, t time.Time) string {
	return fmt.Sprintf("%s_%s.%s", FilenamePrefix, t.Format("20060102_150405"), e.Extension())
}
