package report

import (
	"encoding/json"
	"io"

	"github.com/user/schema-scanner/internal/entity"
)

// JSONWriter writes pretty-printed JSON, the same shape the HTTP API returns.
type JSONWriter struct {
	output io.Writer
}

func NewJSONWriter(output io.Writer) *JSONWriter {
	return &JSONWriter{output: output}
}

func (w *JSONWriter) WriteScan(record *entity.ScanRecord) error {
	return w.encode(record)
}

func (w *JSONWriter) WriteHealth(report *entity.HealthReport) error {
	return w.encode(report)
}

func (w *JSONWriter) encode(v any) error {
	enc := json.NewEncoder(w.output)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
