package internal

import (
	"errors"
	"sort"
	"strings"

	"github.com/gopher93185789/redshow/internal/store"
)

var (
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = store.ErrNotFound
	ErrAlreadyCompleted = errors.New("profile already completed")
)

// ValidationError carries messages the user can act on. Fields is keyed by
// form field name, Form holds a message that belongs to no single field.
type ValidationError struct {
	Fields map[string]string
	Form   string
}

func (e *ValidationError) Error() string {
	if e.Form != "" && len(e.Fields) == 0 {
		return "validation: " + e.Form
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return "validation: invalid " + strings.Join(keys, ", ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) empty() bool {
	return e.Form == "" && len(e.Fields) == 0
}

// orNil keeps callers from returning a typed nil pointer as a non-nil error.
func (e *ValidationError) orNil() error {
	if e == nil || e.empty() {
		return nil
	}
	return e
}

func formError(msg string) error {
	return &ValidationError{Form: msg}
}

func fieldError(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
