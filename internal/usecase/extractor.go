package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/user/schema-scanner/internal/entity"
)

// PayloadSkip records a script payload that could not be parsed.
type PayloadSkip struct {
	Index  int
	Reason string
}

// ExtractResult is the outcome of extracting one page's script payloads.
type ExtractResult struct {
	Schemas []entity.SchemaObject
	Skipped []PayloadSkip
}

// ExtractSchemas parses JSON-LD payloads into schema objects in document order.
// A malformed payload is recorded in Skipped and does not affect the others.
// Objects without a usable @type are dropped.
func ExtractSchemas(payloads []string) ExtractResult {
	var res ExtractResult
	for i, payload := range payloads {
		trimmed := strings.TrimSpace(payload)
		if trimmed == "" {
			res.Skipped = append(res.Skipped, PayloadSkip{Index: i, Reason: "empty payload"})
			continue
		}

		var value any
		if err := json.Unmarshal([]byte(trimmed), &value); err != nil {
			res.Skipped = append(res.Skipped, PayloadSkip{Index: i, Reason: fmt.Sprintf("invalid JSON: %v", err)})
			continue
		}
		res.Schemas = collectSchemas(res.Schemas, value)
	}
	return res
}

func collectSchemas(dst []entity.SchemaObject, value any) []entity.SchemaObject {
	switch v := value.(type) {
	case []any:
		for _, item := range v {
			dst = collectSchemas(dst, item)
		}
	case map[string]any:
		if obj, ok := toSchemaObject(v); ok {
			dst = append(dst, obj)
		}
		if graph, ok := v["@graph"]; ok {
			dst = collectSchemas(dst, graph)
		}
	}
	return dst
}

func toSchemaObject(attrs map[string]any) (entity.SchemaObject, bool) {
	schemaType := resolveType(attrs["@type"])
	if schemaType == "" {
		return entity.SchemaObject{}, false
	}

	obj := entity.SchemaObject{Type: schemaType, Attributes: attrs}
	for _, key := range []string{"@id", "id"} {
		if id, ok := attrs[key].(string); ok && strings.TrimSpace(id) != "" {
			obj.ID = &id
			break
		}
	}
	return obj, true
}

// resolveType takes the first element of a list-valued @type.
func resolveType(raw any) string {
	if list, ok := raw.([]any); ok {
		if len(list) == 0 {
			return ""
		}
		raw = list[0]
	}
	s, _ := raw.(string)
	return strings.TrimSpace(s)
}
