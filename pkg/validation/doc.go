// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

// Package validation turns untrusted input into typed values or a single
// human-readable error.
//
// A Schema parses input into T or fails with a *Error holding an ordered list
// of Issues. Validate and ValidateContext wrap that into a Result:
//
//	{ "success": true,  "data": T }
//	{ "success": false, "error": "<message of the first issue>" }
//
// Only the first issue is reported; the rest are discarded. Any failure that
// is not a *Error, including a panic inside the schema, becomes the generic
// message DefaultFailureMessage. Validation never returns an error to the
// caller.
//
// JSONSchema implements both Schema and AsyncSchema on top of JSON Schema
// documents, either reflected from Go types or supplied explicitly, and can
// carry asynchronous refinements such as uniqueness lookups.
package validation
