package core

import "errors"

// Common errors.
var (
	// ErrInvalid is returned by Save when validation failed. Inspect the
	// model's Errors() for the field messages.
	ErrInvalid = errors.New("model failed validation")

	// ErrNotFound is returned by finders when no record matches.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned on insert when the record already exists.
	ErrConflict = errors.New("record already exists")

	// ErrReadOnly is returned by stores in read-only mode.
	ErrReadOnly = errors.New("store is in read-only mode")
)

// FieldError is a single validation failure on a named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorList accumulates field validation errors in first-insertion order.
// Raising the same field again overwrites its message in place, keeping the
// original position, so "first error" is reproducible.
type ErrorList struct {
	fields   []string
	messages map[string]string
}

// NewErrorList creates an empty collector.
func NewErrorList() *ErrorList {
	return &ErrorList{messages: make(map[string]string)}
}

// Add records a message for a field, overwriting any previous one.
func (e *ErrorList) Add(field, message string) {
	if _, ok := e.messages[field]; !ok {
		e.fields = append(e.fields, field)
	}
	e.messages[field] = message
}

// AddMany records every entry of the mapping.
func (e *ErrorList) AddMany(errs map[string]string) {
	for _, f := range sortedKeys(errs) {
		e.Add(f, errs[f])
	}
}

// AddResult copies the failures of a validation result, if any.
func (e *ErrorList) AddResult(res *Result) {
	if res == nil || !res.Failed() {
		return
	}
	for _, fe := range res.Errors() {
		e.Add(fe.Field, fe.Message)
	}
}

// Get returns the message for a field, or "" when the field has no error.
func (e *ErrorList) Get(field string) string {
	return e.messages[field]
}

// Has reports whether the field has an error recorded.
func (e *ErrorList) Has(field string) bool {
	_, ok := e.messages[field]
	return ok
}

// First returns the earliest recorded message, or "" when empty.
func (e *ErrorList) First() string {
	if len(e.fields) == 0 {
		return ""
	}
	return e.messages[e.fields[0]]
}

// Fields returns the errors in insertion order.
func (e *ErrorList) Fields() []FieldError {
	out := make([]FieldError, 0, len(e.fields))
	for _, f := range e.fields {
		out = append(out, FieldError{Field: f, Message: e.messages[f]})
	}
	return out
}

// Map returns a copy of the field to message mapping.
func (e *ErrorList) Map() map[string]string {
	out := make(map[string]string, len(e.messages))
	for k, v := range e.messages {
		out[k] = v
	}
	return out
}

// Len returns the number of fields with errors.
func (e *ErrorList) Len() int {
	return len(e.fields)
}

// Empty reports whether no errors are recorded.
func (e *ErrorList) Empty() bool {
	return len(e.fields) == 0
}

// Reset discards all recorded errors.
func (e *ErrorList) Reset() {
	e.fields = e.fields[:0]
	e.messages = make(map[string]string)
}
