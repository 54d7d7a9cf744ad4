// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

package validation

import (
	"encoding/json"

	"github.com/samber/oops"
)

// DefaultFailureMessage is reported when a failure carries no usable message.
const DefaultFailureMessage = "validation failed"

// Result is either a success carrying data or a failure carrying a message.
// The zero value is a failure with DefaultFailureMessage.
type Result[T any] struct {
	ok   bool
	data T
	err  string
}

// Succeed returns a successful Result.
func Succeed[T any](data T) Result[T] {
	return Result[T]{ok: true, data: data}
}

// Fail returns a failed Result. An empty message is replaced by DefaultFailureMessage.
func Fail[T any](msg string) Result[T] {
	if msg == "" {
		msg = DefaultFailureMessage
	}
	return Result[T]{err: msg}
}

// OK reports whether the result is a success.
func (r Result[T]) OK() bool { return r.ok }

// Data returns the validated value, or the zero value on failure.
func (r Result[T]) Data() T { return r.data }

// Get returns the validated value and whether the result is a success.
func (r Result[T]) Get() (T, bool) { return r.data, r.ok }

// Message returns the failure message, or "" on success.
func (r Result[T]) Message() string {
	if r.ok {
		return ""
	}
	if r.err == "" {
		return DefaultFailureMessage
	}
	return r.err
}

// Any erases the data type, for registries holding heterogeneous schemas.
func (r Result[T]) Any() Result[any] {
	if r.ok {
		return Succeed[any](r.data)
	}
	return Fail[any](r.Message())
}

type successJSON[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

type failureJSON struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// MarshalJSON encodes the discriminated shape callers depend on.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.ok {
		//nolint:wrapcheck // encoding errors pass through unchanged
		return json.Marshal(successJSON[T]{Success: true, Data: r.data})
	}
	//nolint:wrapcheck // encoding errors pass through unchanged
	return json.Marshal(failureJSON{Success: false, Error: r.Message()})
}

// UnmarshalJSON decodes the discriminated shape. A document carrying both or
// neither variant's payload is rejected.
func (r *Result[T]) UnmarshalJSON(b []byte) error {
	var wire struct {
		Success *bool           `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *string         `json:"error"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return oops.Code("VALIDATION_RESULT_DECODE").Wrap(err)
	}
	if wire.Success == nil {
		return oops.Code("VALIDATION_RESULT_DECODE").Errorf("missing success discriminator")
	}

	if *wire.Success {
		if wire.Error != nil {
			return oops.Code("VALIDATION_RESULT_DECODE").Errorf("success result must not carry an error")
		}
		var data T
		if len(wire.Data) > 0 {
			if err := json.Unmarshal(wire.Data, &data); err != nil {
				return oops.Code("VALIDATION_RESULT_DECODE").Wrap(err)
			}
		}
		*r = Succeed(data)
		return nil
	}

	if wire.Error == nil || *wire.Error == "" {
		return oops.Code("VALIDATION_RESULT_DECODE").Errorf("failure result must carry an error message")
	}
	if len(wire.Data) > 0 && string(wire.Data) != "null" {
		return oops.Code("VALIDATION_RESULT_DECODE").Errorf("failure result must not carry data")
	}
	*r = Fail[T](*wire.Error)
	return nil
}
