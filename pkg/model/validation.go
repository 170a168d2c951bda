package model

import (
	"fmt"
	"regexp"
	"strings"
)

// validateField checks a field and returns its compiled, fully anchored
// pattern when it has one.
func validateField(field FieldSpec) (*regexp.Regexp, error) {
	if strings.TrimSpace(field.Key) == "" {
		return nil, &ConfigurationError{Reason: "field key is required"}
	}
	if !field.Kind.Known() {
		if field.Kind == "" {
			return nil, &ConfigurationError{Field: field.Key, Reason: "field type is required"}
		}
		return nil, &ConfigurationError{Field: field.Key, Reason: fmt.Sprintf("unknown field type %q", field.Kind), Err: ErrUnknownKind}
	}
	if strings.TrimSpace(field.Label) == "" {
		return nil, &ConfigurationError{Field: field.Key, Reason: "field label is required"}
	}

	switch field.Kind {
	case FieldKindSelect:
		if len(field.Options) == 0 {
			return nil, &ConfigurationError{Field: field.Key, Reason: "select field requires options"}
		}
		seen := make(map[string]struct{}, len(field.Options))
		for _, option := range field.Options {
			if _, dup := seen[option]; dup {
				return nil, &ConfigurationError{Field: field.Key, Reason: fmt.Sprintf("duplicate option %q", option)}
			}
			seen[option] = struct{}{}
		}
	default:
		if len(field.Options) > 0 {
			return nil, &ConfigurationError{Field: field.Key, Reason: fmt.Sprintf("options are only valid on select fields, got %s", field.Kind)}
		}
	}

	return validateConstraints(field)
}

func validateConstraints(field FieldSpec) (*regexp.Regexp, error) {
	c := field.Constraints
	if c == nil {
		return nil, nil
	}
	if c.MinLength != nil || c.MaxLength != nil || c.Pattern != "" {
		if field.Kind != FieldKindText && field.Kind != FieldKindTextArea {
			return nil, &ConfigurationError{Field: field.Key, Reason: "length and pattern constraints require a text or textarea field"}
		}
	}
	if c.MinLength != nil && *c.MinLength < 0 {
		return nil, &ConfigurationError{Field: field.Key, Reason: "min_length must not be negative"}
	}
	if c.MinLength != nil && c.MaxLength != nil && *c.MinLength > *c.MaxLength {
		return nil, &ConfigurationError{Field: field.Key, Reason: "min_length exceeds max_length"}
	}
	if c.Min != nil || c.Max != nil {
		if field.Kind != FieldKindNumber {
			return nil, &ConfigurationError{Field: field.Key, Reason: "min/max constraints require a number field"}
		}
	}
	if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
		return nil, &ConfigurationError{Field: field.Key, Reason: "min exceeds max"}
	}
	if c.Pattern == "" {
		return nil, nil
	}
	if _, err := regexp.Compile(c.Pattern); err != nil {
		return nil, &ConfigurationError{Field: field.Key, Reason: "invalid pattern", Err: err}
	}
	return regexp.MustCompile(`^(?:` + c.Pattern + `)$`), nil
}
