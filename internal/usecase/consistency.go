package usecase

import (
	"fmt"

	"github.com/user/schema-scanner/internal/entity"
)

// CheckConsistency reports every schema type declared with more than one
// distinct identifier. Issues follow the order in which types were first seen,
// and ids the order in which they were first seen for that type.
func CheckConsistency(schemas []entity.SchemaObject) []entity.ConsistencyIssue {
	var order []string
	idsByType := make(map[string][]string)
	seen := make(map[string]map[string]struct{})

	for _, s := range schemas {
		if !s.HasID() {
			continue
		}
		ids, ok := seen[s.Type]
		if !ok {
			ids = make(map[string]struct{})
			seen[s.Type] = ids
			order = append(order, s.Type)
		}
		id := s.IDValue()
		if _, dup := ids[id]; dup {
			continue
		}
		ids[id] = struct{}{}
		idsByType[s.Type] = append(idsByType[s.Type], id)
	}

	var issues []entity.ConsistencyIssue
	for _, t := range order {
		ids := idsByType[t]
		if len(ids) <= 1 {
			continue
		}
		issues = append(issues, entity.ConsistencyIssue{
			Type:    t,
			IDs:     ids,
			Message: fmt.Sprintf("%d different identifiers found for %s schemas", len(ids), t),
		})
	}
	return issues
}

// SummarizeEntities counts objects per type in first-seen order.
func SummarizeEntities(schemas []entity.SchemaObject) []entity.EntitySummary {
	index := make(map[string]int)
	var out []entity.EntitySummary
	for _, s := range schemas {
		i, ok := index[s.Type]
		if !ok {
			i = len(out)
			index[s.Type] = i
			out = append(out, entity.EntitySummary{Type: s.Type})
		}
		out[i].Count++
		if s.HasID() {
			out[i].WithID++
		} else {
			out[i].WithoutID++
		}
	}
	return out
}
