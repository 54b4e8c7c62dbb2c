// Package report renders scan records for the command line.
package report

import (
	"fmt"
	"io"

	"github.com/user/schema-scanner/internal/entity"
)

// Format names an output format accepted by NewWriter.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Writer renders scan results.
type Writer interface {
	WriteScan(record *entity.ScanRecord) error
	WriteHealth(report *entity.HealthReport) error
}

// NewWriter returns the writer for format.
func NewWriter(format Format, output io.Writer) (Writer, error) {
	switch format {
	case FormatJSON:
		return NewJSONWriter(output), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want json or markdown)", format)
	}
}
