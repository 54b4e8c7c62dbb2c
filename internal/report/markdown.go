package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/user/schema-scanner/internal/entity"
)

// MarkdownWriter writes a human-readable summary of a scan.
type MarkdownWriter struct {
	output io.Writer
}

func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// WriteScan writes the overview, issues, recommendations and page table of a scan.
func (w *MarkdownWriter) WriteScan(record *entity.ScanRecord) error {
	md := markdown.NewMarkdown(w.output)

	md.H1("Structured Data Report")
	md.PlainText("")
	rows := [][]string{
		{"URL", "`" + record.URL + "`"},
		{"Scan ID", record.ID},
		{"Type", string(record.Type)},
		{"Status", string(record.Status)},
		{"Started", record.CreatedAt.Format(time.RFC3339)},
	}
	if record.Error != "" {
		rows = append(rows, []string{"Error", record.Error})
	}
	md.Table(markdown.TableSet{Header: []string{"Property", "Value"}, Rows: rows})
	md.PlainText("")

	if a := record.Analysis; a != nil {
		w.writeAnalysis(md, a)
	}
	w.writePages(md, record.Pages)
	w.writeSkipped(md, record.Skipped)

	return md.Build()
}

func (w *MarkdownWriter) writeAnalysis(md *markdown.Markdown, a *entity.Analysis) {
	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Pages scanned", strconv.Itoa(a.PagesScanned)},
			{"Schemas found", strconv.Itoa(a.SchemasFound)},
			{"Schemas without identifier", strconv.Itoa(a.SchemasWithoutID)},
			{"Consistency issues", strconv.Itoa(len(a.Issues))},
			{"Score", strconv.Itoa(a.Score)},
			{"Health", string(a.Health.Status)},
		},
	})
	md.PlainText("")

	switch a.Health.Status {
	case entity.HealthCritical:
		md.Cautionf("%d critical issue(s) found.", a.Health.CriticalIssues)
	case entity.HealthWarning:
		md.Warning("Structured data needs attention.")
	default:
		md.Tip("Structured data looks healthy.")
	}
	md.PlainText("")

	if len(a.Issues) > 0 {
		md.H2("Consistency Issues")
		md.PlainText("")
		issueRows := make([][]string, len(a.Issues))
		for i, issue := range a.Issues {
			issueRows[i] = []string{issue.Type, strconv.Itoa(len(issue.IDs)), issue.Message}
		}
		md.Table(markdown.TableSet{Header: []string{"Type", "Identifiers", "Message"}, Rows: issueRows})
		md.PlainText("")
	}

	if len(a.Recommendations) > 0 {
		md.H2("Recommendations")
		md.PlainText("")
		md.BulletList(a.Recommendations...)
		md.PlainText("")
	}

	if len(a.Entities) > 0 {
		md.H2("Entities")
		md.PlainText("")
		entityRows := make([][]string, len(a.Entities))
		for i, e := range a.Entities {
			entityRows[i] = []string{e.Type, strconv.Itoa(e.Count), strconv.Itoa(e.WithID), strconv.Itoa(e.WithoutID)}
		}
		md.Table(markdown.TableSet{Header: []string{"Type", "Count", "With ID", "Without ID"}, Rows: entityRows})
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writePages(md *markdown.Markdown, pages []entity.PageResult) {
	md.H2("Pages")
	md.PlainText("")
	if len(pages) == 0 {
		md.PlainText("No pages scanned.")
		md.PlainText("")
		return
	}
	rows := make([][]string, len(pages))
	for i, p := range pages {
		rows[i] = []string{p.URL, strconv.Itoa(p.Depth), strconv.Itoa(p.StatusCode), strconv.Itoa(p.SchemasFound)}
	}
	md.Table(markdown.TableSet{Header: []string{"URL", "Depth", "Status", "Schemas"}, Rows: rows})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSkipped(md *markdown.Markdown, skipped []entity.SkippedURL) {
	if len(skipped) == 0 {
		return
	}
	md.H2("Skipped URLs")
	md.PlainText("")
	rows := make([][]string, len(skipped))
	for i, s := range skipped {
		rows[i] = []string{s.URL, strconv.Itoa(s.Depth), s.Reason}
	}
	md.Table(markdown.TableSet{Header: []string{"URL", "Depth", "Reason"}, Rows: rows})
	md.PlainText("")
}

// WriteHealth writes the quick check result as a single table.
func (w *MarkdownWriter) WriteHealth(report *entity.HealthReport) error {
	md := markdown.NewMarkdown(w.output)
	md.H1("Structured Data Health")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"URL", "`" + report.URL + "`"},
			{"Status", string(report.Status)},
			{"Critical issues", strconv.Itoa(report.CriticalIssues)},
			{"Schemas found", strconv.Itoa(report.SchemasFound)},
			{"Schemas without identifier", strconv.Itoa(report.SchemasWithoutID)},
			{"Consistency issues", strconv.Itoa(report.IssuesFound)},
			{"Score", strconv.Itoa(report.Score)},
			{"Checked", report.CheckedAt.Format(time.RFC3339)},
		},
	})
	return md.Build()
}
