// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

package validation

import (
	"context"
	"fmt"
)

// Issue is one constraint violation.
type Issue struct {
	// Path is a JSON Pointer to the offending value ("" for the root).
	Path string `json:"path"`
	// Code is a short machine-readable identifier such as "required" or "format".
	Code string `json:"code"`
	// Message is the human-readable description.
	Message string `json:"message"`
}

// Error is a structured validation failure. Issues are ordered; the first one
// is the one reported by Validate.
type Error struct {
	Issues []Issue
}

// NewError returns an Error holding issues.
func NewError(issues ...Issue) *Error {
	return &Error{Issues: issues}
}

// Issuef returns an Error with a single issue.
func Issuef(path, code, format string, args ...any) *Error {
	return NewError(Issue{Path: path, Code: code, Message: fmt.Sprintf(format, args...)})
}

// First returns the first issue.
func (e *Error) First() (Issue, bool) {
	if e == nil || len(e.Issues) == 0 {
		return Issue{}, false
	}
	return e.Issues[0], true
}

func (e *Error) Error() string {
	first, ok := e.First()
	if !ok || first.Message == "" {
		return DefaultFailureMessage
	}
	if n := len(e.Issues) - 1; n > 0 {
		return fmt.Sprintf("%s (and %d more)", first.Message, n)
	}
	return first.Message
}

// Schema parses untrusted data into T. A constraint violation is reported as a
// *Error; any other error means the schema itself could not run.
type Schema[T any] interface {
	Parse(data any) (T, error)
}

// AsyncSchema is a Schema whose checks may block on I/O, such as a
// uniqueness lookup. Implementations should honour ctx cancellation.
type AsyncSchema[T any] interface {
	ParseContext(ctx context.Context, data any) (T, error)
}

// SchemaFunc adapts a function to Schema and AsyncSchema.
type SchemaFunc[T any] func(data any) (T, error)

// Parse calls f.
func (f SchemaFunc[T]) Parse(data any) (T, error) {
	return f(data)
}

// ParseContext calls f unless ctx is already done.
func (f SchemaFunc[T]) ParseContext(ctx context.Context, data any) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	return f(data)
}

// AsyncSchemaFunc adapts a context-aware function to AsyncSchema.
type AsyncSchemaFunc[T any] func(ctx context.Context, data any) (T, error)

// ParseContext calls f.
func (f AsyncSchemaFunc[T]) ParseContext(ctx context.Context, data any) (T, error) {
	return f(ctx, data)
}

// Async lifts a synchronous Schema into an AsyncSchema. Schemas that already
// implement AsyncSchema are returned unchanged.
func Async[T any](s Schema[T]) AsyncSchema[T] {
	if as, ok := s.(AsyncSchema[T]); ok {
		return as
	}
	return AsyncSchemaFunc[T](func(ctx context.Context, data any) (T, error) {
		if err := ctx.Err(); err != nil {
			var zero T
			return zero, err
		}
		return s.Parse(data)
	})
}
