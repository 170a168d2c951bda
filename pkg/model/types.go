package model

import "regexp"

// FieldKind is the closed enumeration of supported input kinds.
type FieldKind string

const (
	FieldKindText     FieldKind = "text"
	FieldKindSelect   FieldKind = "select"
	FieldKindDate     FieldKind = "date"
	FieldKindTextArea FieldKind = "textarea"
	FieldKindNumber   FieldKind = "number"
)

// Known reports whether the kind belongs to the supported set.
func (k FieldKind) Known() bool {
	switch k {
	case FieldKindText, FieldKindSelect, FieldKindDate, FieldKindTextArea, FieldKindNumber:
		return true
	default:
		return false
	}
}

// Constraints holds optional per-field rules. Length bounds and Pattern apply
// to text and textarea fields, Min/Max to number fields. Message replaces the
// generated error message for any constraint violation on the field.
type Constraints struct {
	MinLength *int   `json:"min_length,omitempty" yaml:"min_length,omitempty"`
	MaxLength *int   `json:"max_length,omitempty" yaml:"max_length,omitempty"`
	Min       *int   `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *int   `json:"max,omitempty" yaml:"max,omitempty"`
	Pattern   string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Message   string `json:"message,omitempty" yaml:"message,omitempty"`
}

// FieldSpec describes a single form input.
type FieldSpec struct {
	Key         string       `json:"key" yaml:"key"`
	Kind        FieldKind    `json:"type" yaml:"type"`
	Label       string       `json:"label" yaml:"label"`
	Required    bool         `json:"required,omitempty" yaml:"required,omitempty"`
	Options     []string     `json:"options,omitempty" yaml:"options,omitempty"`
	Constraints *Constraints `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	Help        string       `json:"help,omitempty" yaml:"help,omitempty"`
}

// Message returns the custom constraint message, or fallback when none is set.
func (f FieldSpec) Message(fallback string) string {
	if f.Constraints != nil && f.Constraints.Message != "" {
		return f.Constraints.Message
	}
	return fallback
}

// FormSchema is an ordered, validated collection of field specs. The zero
// value is an empty schema.
type FormSchema struct {
	fields   []FieldSpec
	index    map[string]int
	patterns map[string]*regexp.Regexp
}

// NewSchema validates the provided fields and returns a schema preserving
// their order.
func NewSchema(fields ...FieldSpec) (FormSchema, error) {
	schema := FormSchema{
		fields: make([]FieldSpec, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, field := range fields {
		pattern, err := validateField(field)
		if err != nil {
			return FormSchema{}, err
		}
		if _, exists := schema.index[field.Key]; exists {
			return FormSchema{}, &ConfigurationError{Field: field.Key, Reason: "duplicate field key"}
		}
		if pattern != nil {
			if schema.patterns == nil {
				schema.patterns = make(map[string]*regexp.Regexp)
			}
			schema.patterns[field.Key] = pattern
		}
		schema.index[field.Key] = len(schema.fields)
		schema.fields = append(schema.fields, cloneField(field))
	}
	return schema, nil
}

// MustSchema is NewSchema that panics on error. Useful for static schemas.
func MustSchema(fields ...FieldSpec) FormSchema {
	schema, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return schema
}

// Fields returns a copy of the field specs in schema order.
func (s FormSchema) Fields() []FieldSpec {
	out := make([]FieldSpec, len(s.fields))
	for i, field := range s.fields {
		out[i] = cloneField(field)
	}
	return out
}

// Field looks up a field spec by key.
func (s FormSchema) Field(key string) (FieldSpec, bool) {
	idx, ok := s.index[key]
	if !ok {
		return FieldSpec{}, false
	}
	return cloneField(s.fields[idx]), true
}

// Pattern returns the compiled pattern constraint of a field, anchored to the
// whole value, or nil when the field has none.
func (s FormSchema) Pattern(key string) *regexp.Regexp {
	return s.patterns[key]
}

// Keys returns the field keys in schema order.
func (s FormSchema) Keys() []string {
	out := make([]string, len(s.fields))
	for i, field := range s.fields {
		out[i] = field.Key
	}
	return out
}

// Labels returns the field labels in schema order. They double as worksheet
// column headers.
func (s FormSchema) Labels() []string {
	out := make([]string, len(s.fields))
	for i, field := range s.fields {
		out[i] = field.Label
	}
	return out
}

// Len reports the number of fields.
func (s FormSchema) Len() int {
	return len(s.fields)
}

func cloneField(field FieldSpec) FieldSpec {
	clone := field
	if field.Options != nil {
		clone.Options = append([]string(nil), field.Options...)
	}
	if field.Constraints != nil {
		c := *field.Constraints
		clone.Constraints = &c
	}
	return clone
}
