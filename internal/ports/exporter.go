package ports

import (
	"io"

	"github.com/baditaflorin/go_cra_records/internal/core/domain"
)

// Exporter serializes a table for download.
type Exporter interface {
	Export(w io.Writer, table domain.Table) error
	// ContentType is the MIME type of the produced bytes.
	ContentType() string
	// Extension is the file extension without the leading dot.
	Extension() string
}
