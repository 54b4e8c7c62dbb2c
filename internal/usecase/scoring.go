package usecase

import (
	"fmt"
	"strings"

	"github.com/user/schema-scanner/internal/entity"
)

const (
	missingIDPenalty   = 10
	inconsistentWeight = 15
)

// Score is 100 minus 10 per schema without an identifier and 15 per
// consistency issue, floored at zero.
func Score(withoutID, issues int) int {
	score := 100 - missingIDPenalty*withoutID - inconsistentWeight*issues
	if score < 0 {
		return 0
	}
	return score
}

// ClassifyHealth turns the population counts into a quick-check verdict.
func ClassifyHealth(total, withoutID, issues int) entity.Health {
	switch {
	case total == 0:
		return entity.Health{Status: entity.HealthCritical, CriticalIssues: 1}
	case float64(withoutID) > float64(total)*0.5 || issues > 0:
		return entity.Health{Status: entity.HealthWarning, CriticalIssues: issues}
	default:
		return entity.Health{Status: entity.HealthHealthy}
	}
}

// Recommend builds remediation advice in priority order: missing identifiers,
// then one entry per consistency issue, then identifiers outside the namespace
// prefix. An empty prefix disables the namespace check.
func Recommend(schemas []entity.SchemaObject, issues []entity.ConsistencyIssue, namespacePrefix string) []string {
	recs := []string{}

	if u := countWithoutID(schemas); u > 0 {
		recs = append(recs, fmt.Sprintf("Add identifiers to %d schemas.", u))
	}
	for _, issue := range issues {
		recs = append(recs, fmt.Sprintf("Standardize identifier for %s schemas.", issue.Type))
	}
	if namespacePrefix != "" {
		if n := countOutsideNamespace(schemas, namespacePrefix); n > 0 {
			recs = append(recs, fmt.Sprintf("Use the %q namespace convention for %d identifier values.", namespacePrefix, n))
		}
	}
	return recs
}

func countWithoutID(schemas []entity.SchemaObject) int {
	n := 0
	for _, s := range schemas {
		if !s.HasID() {
			n++
		}
	}
	return n
}

// countOutsideNamespace counts distinct identifier values lacking prefix.
func countOutsideNamespace(schemas []entity.SchemaObject, prefix string) int {
	seen := make(map[string]struct{})
	for _, s := range schemas {
		if !s.HasID() {
			continue
		}
		id := s.IDValue()
		if strings.HasPrefix(id, prefix) {
			continue
		}
		seen[id] = struct{}{}
	}
	return len(seen)
}

// Analyze runs the checker and scoring over a scan's schema population.
func Analyze(record *entity.ScanRecord, namespacePrefix string) *entity.Analysis {
	schemas := record.Schemas()
	opts := record.Options

	var issues []entity.ConsistencyIssue
	if opts.ConsistencyCheck {
		issues = CheckConsistency(schemas)
	}
	if issues == nil {
		issues = []entity.ConsistencyIssue{}
	}

	withoutID := countWithoutID(schemas)
	a := &entity.Analysis{
		PagesScanned:     len(record.Pages),
		SkippedCount:     len(record.Skipped),
		SchemasFound:     len(schemas),
		SchemasWithoutID: withoutID,
		Issues:           issues,
		Score:            Score(withoutID, len(issues)),
		Health:           ClassifyHealth(len(schemas), withoutID, len(issues)),
		Recommendations:  []string{},
	}
	if opts.Recommendations {
		a.Recommendations = Recommend(schemas, issues, namespacePrefix)
	}
	if opts.EntityAnalysis {
		a.Entities = SummarizeEntities(schemas)
	}
	return a
}
