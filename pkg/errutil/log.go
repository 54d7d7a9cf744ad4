// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

// Package errutil holds shared error helpers: fatal error classification,
// structured logging of oops errors and test assertions.
package errutil

import (
	"log/slog"

	"github.com/samber/oops"
)

// LogError logs err at error level. For oops errors the code and context are
// emitted as separate attributes; fatal errors are flagged with fatal=true.
// Context values are logged as-is, so callers must never attach secrets to
// oops context.
func LogError(logger *slog.Logger, msg string, err error) {
	attrs := []any{"error", err.Error()}
	if oopsErr, ok := oops.AsOops(err); ok {
		if code := oopsErr.Code(); code != nil && code != "" {
			attrs = append(attrs, "code", code)
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			attrs = append(attrs, "context", ctx)
		}
	}
	if IsFatal(err) {
		attrs = append(attrs, "fatal", true)
	}
	logger.Error(msg, attrs...)
}
