// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

package errutil

import "errors"

// ErrFatal marks environment failures (entropy source, key derivation) that
// must abort the enclosing operation. It is never used for bad user input.
var ErrFatal = errors.New("fatal")

type fatalError struct {
	msg string
}

func (e *fatalError) Error() string { return e.msg }

func (e *fatalError) Is(target error) bool { return target == ErrFatal }

// NewFatal returns a sentinel error that matches ErrFatal under errors.Is.
func NewFatal(msg string) error {
	return &fatalError{msg: msg}
}

// IsFatal reports whether err, or anything it wraps, is a fatal error.
func IsFatal(err error) bool {
	return errors.Is(err, ErrFatal)
}
