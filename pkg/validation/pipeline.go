// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

package validation

import (
	"context"
	"errors"
)

// Validate parses data with schema and reports the outcome as a Result.
func Validate[T any](schema Schema[T], data any) (res Result[T]) {
	defer recoverFailure(&res)

	if schema == nil {
		return Fail[T](DefaultFailureMessage)
	}
	v, err := schema.Parse(data)
	return resultOf(v, err)
}

// ValidateContext is Validate for schemas with blocking checks. It returns
// once the schema's context-aware parse has completed. The pipeline applies no
// timeout of its own; bound ctx to limit slow refinements.
func ValidateContext[T any](ctx context.Context, schema AsyncSchema[T], data any) (res Result[T]) {
	defer recoverFailure(&res)

	if schema == nil {
		return Fail[T](DefaultFailureMessage)
	}
	v, err := schema.ParseContext(ctx, data)
	return resultOf(v, err)
}

// ValidateAsync runs ValidateContext on a new goroutine. The returned channel
// receives exactly one Result and is then closed.
func ValidateAsync[T any](ctx context.Context, schema AsyncSchema[T], data any) <-chan Result[T] {
	out := make(chan Result[T], 1)
	go func() {
		defer close(out)
		out <- ValidateContext(ctx, schema, data)
	}()
	return out
}

// NewValidator binds schema into a reusable validation function.
func NewValidator[T any](schema Schema[T]) func(data any) Result[T] {
	return func(data any) Result[T] {
		return Validate(schema, data)
	}
}

// NewAsyncValidator binds schema into a reusable context-aware validation function.
func NewAsyncValidator[T any](schema AsyncSchema[T]) func(ctx context.Context, data any) Result[T] {
	return func(ctx context.Context, data any) Result[T] {
		return ValidateContext(ctx, schema, data)
	}
}

func resultOf[T any](v T, err error) Result[T] {
	if err == nil {
		return Succeed(v)
	}
	var verr *Error
	if errors.As(err, &verr) {
		if first, ok := verr.First(); ok && first.Message != "" {
			return Fail[T](first.Message)
		}
	}
	return Fail[T](DefaultFailureMessage)
}

func recoverFailure[T any](res *Result[T]) {
	if r := recover(); r != nil {
		*res = Fail[T](DefaultFailureMessage)
	}
}
