package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/user/schema-scanner/internal/entity"
)

func sampleRecord() *entity.ScanRecord {
	completed := time.Date(2024, 5, 1, 12, 5, 0, 0, time.UTC)
	return &entity.ScanRecord{
		ID:          "7d444840-9dc0-11d1-b245-5ffdce74fad2",
		URL:         "https://ex.com/",
		Type:        entity.ScanTypeSiteScan,
		Status:      entity.ScanStatusCompleted,
		CreatedAt:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		CompletedAt: &completed,
		Pages: []entity.PageResult{
			{URL: "https://ex.com/", StatusCode: 200, SchemasFound: 2},
			{URL: "https://ex.com/a", Depth: 1, StatusCode: 200, SchemasFound: 1},
		},
		Skipped: []entity.SkippedURL{{URL: "https://ex.com/broken", Depth: 1, Reason: "page returned a non-2xx status: 404"}},
		Analysis: &entity.Analysis{
			PagesScanned: 2,
			SchemasFound: 3,
			Issues: []entity.ConsistencyIssue{
				{Type: "Product", IDs: []string{"a", "b"}, Message: "2 different identifiers found for Product schemas"},
			},
			Score:           85,
			Health:          entity.Health{Status: entity.HealthWarning, CriticalIssues: 1},
			Recommendations: []string{"Standardize identifier for Product schemas."},
			Entities:        []entity.EntitySummary{{Type: "Product", Count: 3, WithID: 3}},
		},
	}
}

func TestNewWriter(t *testing.T) {
	t.Parallel()

	if _, err := NewWriter(FormatJSON, &bytes.Buffer{}); err != nil {
		t.Errorf("json: %v", err)
	}
	if _, err := NewWriter(FormatMarkdown, &bytes.Buffer{}); err != nil {
		t.Errorf("markdown: %v", err)
	}
	if _, err := NewWriter("xml", &bytes.Buffer{}); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestJSONWriter_WriteScan(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := NewJSONWriter(&buf).WriteScan(sampleRecord()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded["scan_id"] != "7d444840-9dc0-11d1-b245-5ffdce74fad2" {
		t.Errorf("unexpected scan_id %v", decoded["scan_id"])
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("expected indented output")
	}
}

func TestMarkdownWriter_WriteScan(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := NewMarkdownWriter(&buf).WriteScan(sampleRecord()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"# Structured Data Report",
		"## Summary",
		"## Consistency Issues",
		"2 different identifiers found for Product schemas",
		"## Recommendations",
		"Standardize identifier for Product schemas.",
		"## Entities",
		"https://ex.com/a",
		"## Skipped URLs",
		"https://ex.com/broken",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestMarkdownWriter_FailedScan(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	record := &entity.ScanRecord{
		ID:     "7d444840-9dc0-11d1-b245-5ffdce74fad2",
		URL:    "https://down.example/",
		Type:   entity.ScanTypeSinglePage,
		Status: entity.ScanStatusFailed,
		Error:  "page fetch timed out",
	}
	if err := NewMarkdownWriter(&buf).WriteScan(record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "page fetch timed out") || !strings.Contains(out, "No pages scanned.") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "## Summary") {
		t.Error("failed scans have no summary")
	}
}

func TestMarkdownWriter_WriteHealth(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := NewMarkdownWriter(&buf).WriteHealth(&entity.HealthReport{
		URL:       "https://ex.com/",
		Status:    entity.HealthCritical,
		Score:     100,
		CheckedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "critical") {
		t.Errorf("expected status in output:\n%s", buf.String())
	}
}
