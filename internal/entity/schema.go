package entity

// SchemaObject is one normalized structured-data entity found on a page.
type SchemaObject struct {
	Type       string         `json:"type"`
	ID         *string        `json:"id"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// HasID reports whether the object declared a non-empty identifier.
func (s SchemaObject) HasID() bool {
	return s.ID != nil && *s.ID != ""
}

// IDValue returns the declared identifier or "".
func (s SchemaObject) IDValue() string {
	if s.ID == nil {
		return ""
	}
	return *s.ID
}
