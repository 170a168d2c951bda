package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind is wrapped by configuration errors raised for unsupported
// field types.
var ErrUnknownKind = errors.New("model: unknown field kind")

// ConfigurationError reports a malformed schema. It is fatal: callers should
// abort before rendering anything.
type ConfigurationError struct {
	Form   string
	Field  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("model: invalid schema")
	if e.Form != "" {
		fmt.Fprintf(&b, " %q", e.Form)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " field %q", e.Field)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Err != nil && !errors.Is(e.Err, ErrUnknownKind) {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ValidationError carries the user-facing messages produced for a rejected
// submission.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// PersistenceError wraps a failure reported by the spreadsheet store. The
// core neither retries nor queues the write.
type PersistenceError struct {
	Worksheet string
	Op        string
	Err       error
}

func (e *PersistenceError) Error() string {
	if e.Worksheet == "" {
		return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("persistence: %s %q: %v", e.Op, e.Worksheet, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
