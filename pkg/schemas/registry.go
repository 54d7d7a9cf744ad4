// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

package schemas

import (
	"context"
	"sort"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/alissa-agent/seccore/pkg/validation"
)

var tracer = otel.Tracer("seccore/schemas")

// Schema names accepted by Registry.
const (
	NameRegister        = "register"
	NameLogin           = "login"
	NamePagination      = "pagination"
	NameAgentConfig     = "agent-config"
	NameUserPreferences = "user-preferences"
)

// Validation outcomes reported to a Recorder.
const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
)

// Compiled schemas for each request shape.
var (
	Register        = validation.MustJSONSchema[RegisterRequest]()
	Login           = validation.MustJSONSchema[LoginRequest]()
	PaginationQuery = validation.MustJSONSchema[Pagination]()
	Agent           = validation.MustJSONSchema[AgentConfig]()
	Preferences     = validation.MustJSONSchema[UserPreferences]()
)

// EmailLookup reports whether email already belongs to an account.
type EmailLookup func(ctx context.Context, email string) (bool, error)

// RegisterSchema returns the register schema with an e-mail uniqueness check
// run after the structural checks pass.
func RegisterSchema(lookup EmailLookup) *validation.JSONSchema[RegisterRequest] {
	return Register.Refine(func(ctx context.Context, req RegisterRequest) error {
		taken, err := lookup(ctx, req.Email)
		if err != nil {
			return oops.Code("SCHEMA_LOOKUP_FAILED").
				With("schema", NameRegister).
				Wrap(err)
		}
		if taken {
			return validation.Issuef("/email", "unique", "email: already registered")
		}
		return nil
	})
}

// Recorder receives validation metrics.
type Recorder interface {
	RecordValidation(schema, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordValidation(string, string) {}

type entry struct {
	description string
	document    func() []byte
	validate    func(ctx context.Context, data any) validation.Result[any]
}

func entryFor[T any](description string, s *validation.JSONSchema[T]) entry {
	return entry{
		description: description,
		document:    s.Document,
		validate: func(ctx context.Context, data any) validation.Result[any] {
			return validation.ValidateContext[T](ctx, s, data).Any()
		},
	}
}

// Registry validates input against schemas selected by name.
type Registry struct {
	entries  map[string]entry
	recorder Recorder
}

// Option configures a Registry.
type Option func(*Registry)

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(reg *Registry) { reg.recorder = r }
}

// WithEmailLookup adds the uniqueness check to the register schema.
func WithEmailLookup(lookup EmailLookup) Option {
	return func(reg *Registry) {
		reg.entries[NameRegister] = entryFor("account registration", RegisterSchema(lookup))
	}
}

// NewRegistry returns a Registry holding every request schema.
func NewRegistry(opts ...Option) *Registry {
	reg := &Registry{
		entries: map[string]entry{
			NameRegister:        entryFor("account registration", Register),
			NameLogin:           entryFor("sign-in", Login),
			NamePagination:      entryFor("listing page selection", PaginationQuery),
			NameAgentConfig:     entryFor("agent configuration", Agent),
			NameUserPreferences: entryFor("user preferences", Preferences),
		},
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(reg)
	}
	return reg
}

// Names returns the registered schema names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns a one-line description of the named schema.
func (r *Registry) Describe(name string) (string, error) {
	e, err := r.lookup(name)
	if err != nil {
		return "", err
	}
	return e.description, nil
}

// Document returns the JSON Schema document of the named schema.
func (r *Registry) Document(name string) ([]byte, error) {
	e, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return e.document(), nil
}

// Validate checks data against the named schema. The error is non-nil only
// when the schema name is unknown; validation failures live in the Result.
func (r *Registry) Validate(ctx context.Context, name string, data any) (validation.Result[any], error) {
	ctx, span := tracer.Start(ctx, "schemas.validate",
		trace.WithAttributes(attribute.String("schema.name", name)),
	)
	defer span.End()

	e, err := r.lookup(name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return validation.Result[any]{}, err
	}
	res := e.validate(ctx, data)
	outcome := OutcomeValid
	if !res.OK() {
		outcome = OutcomeInvalid
	}
	span.SetAttributes(attribute.String("schema.outcome", outcome))
	r.recorder.RecordValidation(name, outcome)
	return res, nil
}

func (r *Registry) lookup(name string) (entry, error) {
	e, ok := r.entries[name]
	if !ok {
		return entry{}, oops.Code("SCHEMA_UNKNOWN").
			With("schema", name).
			With("known", r.Names()).
			Errorf("unknown schema: %s", name)
	}
	return e, nil
}
