// internal/app/system/inputval/result.go
package inputval

import "strings"

// FieldError is a single violation tied to an input field.
type FieldError struct {
	Field   string
	Message string
}

// Result collects field violations in the order they were found.
type Result struct {
	Errors []FieldError
}

// Add records a violation for field.
func (r *Result) Add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any violation was recorded.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Has reports whether field has a violation.
func (r *Result) Has(field string) bool {
	for _, e := range r.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

// First returns the first message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// Map returns field -> message. If a field has several violations the first
// one wins.
func (r *Result) Map() map[string]string {
	if len(r.Errors) == 0 {
		return nil
	}
	m := make(map[string]string, len(r.Errors))
	for _, e := range r.Errors {
		if _, seen := m[e.Field]; !seen {
			m[e.Field] = e.Message
		}
	}
	return m
}
