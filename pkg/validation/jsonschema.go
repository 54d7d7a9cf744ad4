// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

package validation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/alissa-agent/seccore/pkg/digest"
)

// compiledCacheSize bounds the number of distinct schema documents kept compiled.
const compiledCacheSize = 256

// compiledSchemas maps the SHA-256 of a schema document to its compiled form.
var compiledSchemas = mustCache()

var printer = message.NewPrinter(language.English)

// compiled is a compiled schema plus the declaration order of its properties.
type compiled struct {
	schema *jschema.Schema
	order  fieldOrder
}

func mustCache() *lru.Cache[string, *compiled] {
	c, err := lru.New[string, *compiled](compiledCacheSize)
	if err != nil {
		panic(err)
	}
	return c
}

// Refinement is an additional check run after structural validation. Return a
// *Error to report a validation failure; any other error aborts validation
// with the generic failure message.
type Refinement[T any] func(ctx context.Context, value T) error

// Defaulter is implemented by types whose optional fields have default
// values. ApplyDefaults runs on a fresh value before decoding, so only fields
// absent from the input keep their defaults.
type Defaulter interface {
	ApplyDefaults()
}

// JSONSchema validates input against a compiled JSON Schema document and
// decodes it into T. It implements Schema[T] and AsyncSchema[T].
type JSONSchema[T any] struct {
	doc         []byte
	compiled    *compiled
	refinements []Refinement[T]
}

// NewJSONSchema reflects T's JSON Schema from its struct tags and compiles it.
//
// Fields without omitempty are required and unknown properties are rejected.
// Constraints come from `jsonschema:"..."` tags, for example
// `jsonschema:"minLength=3,format=email"`.
func NewJSONSchema[T any]() (*JSONSchema[T], error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
		Anonymous:      true,
	}
	var zero T
	doc, err := json.Marshal(r.Reflect(&zero))
	if err != nil {
		return nil, oops.Code("VALIDATION_SCHEMA_INVALID").
			With("type", fmt.Sprintf("%T", zero)).
			Wrap(err)
	}
	return CompileJSONSchema[T](doc)
}

// MustJSONSchema is NewJSONSchema that panics on error, for package-level
// schema variables.
func MustJSONSchema[T any]() *JSONSchema[T] {
	s, err := NewJSONSchema[T]()
	if err != nil {
		panic(err)
	}
	return s
}

// CompileJSONSchema compiles an explicit JSON Schema document for T.
func CompileJSONSchema[T any](doc []byte) (*JSONSchema[T], error) {
	key := digest.SHA256(string(doc))
	if c, ok := compiledSchemas.Get(key); ok {
		return &JSONSchema[T]{doc: doc, compiled: c}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()
	var parsed any
	if err := dec.Decode(&parsed); err != nil {
		return nil, oops.Code("VALIDATION_SCHEMA_INVALID").Wrap(err)
	}

	order, err := propertyOrder(doc)
	if err != nil {
		return nil, oops.Code("VALIDATION_SCHEMA_INVALID").With("operation", "read property order").Wrap(err)
	}

	comp := jschema.NewCompiler()
	comp.AssertFormat()
	registerFormats(comp)

	loc := "mem://schemas/" + key + ".json"
	if err := comp.AddResource(loc, parsed); err != nil {
		return nil, oops.Code("VALIDATION_SCHEMA_INVALID").With("operation", "add resource").Wrap(err)
	}
	sch, err := comp.Compile(loc)
	if err != nil {
		return nil, oops.Code("VALIDATION_SCHEMA_INVALID").With("operation", "compile").Wrap(err)
	}

	c := &compiled{schema: sch, order: order}
	compiledSchemas.Add(key, c)
	return &JSONSchema[T]{doc: doc, compiled: c}, nil
}

// Document returns the JSON Schema document the validator was compiled from.
func (s *JSONSchema[T]) Document() []byte {
	return slices.Clone(s.doc)
}

// Refine returns a copy of s that also runs fn from ParseContext. Refinements
// run in the order they were added, after structural validation succeeds.
func (s *JSONSchema[T]) Refine(fn Refinement[T]) *JSONSchema[T] {
	next := *s
	next.refinements = append(slices.Clone(s.refinements), fn)
	return &next
}

// Parse validates data and decodes it into T. A schema with refinements can
// only be checked by ParseContext; Parse then fails with
// VALIDATION_ASYNC_REQUIRED instead of skipping them.
func (s *JSONSchema[T]) Parse(data any) (T, error) {
	if len(s.refinements) > 0 {
		var zero T
		return zero, oops.Code("VALIDATION_ASYNC_REQUIRED").
			With("refinements", len(s.refinements)).
			Errorf("schema has asynchronous refinements; use ParseContext")
	}
	return s.parse(data)
}

func (s *JSONSchema[T]) parse(data any) (T, error) {
	var zero T

	inst, err := toInstance(data)
	if err != nil {
		return zero, err
	}

	if err := s.compiled.schema.Validate(inst); err != nil {
		var ve *jschema.ValidationError
		if errors.As(err, &ve) {
			return zero, NewError(s.compiled.order.issuesOf(ve)...)
		}
		return zero, oops.Code("VALIDATION_SCHEMA_FAILED").Wrap(err)
	}

	raw, err := json.Marshal(inst)
	if err != nil {
		return zero, oops.Code("VALIDATION_DECODE_FAILED").Wrap(err)
	}
	var out T
	if d, ok := any(&out).(Defaulter); ok {
		d.ApplyDefaults()
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, oops.Code("VALIDATION_DECODE_FAILED").
			With("type", fmt.Sprintf("%T", zero)).
			Wrap(err)
	}
	return out, nil
}

// ParseContext runs Parse followed by every refinement.
func (s *JSONSchema[T]) ParseContext(ctx context.Context, data any) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	v, err := s.parse(data)
	if err != nil {
		return zero, err
	}
	for _, refine := range s.refinements {
		if err := refine(ctx, v); err != nil {
			return zero, err
		}
	}
	return v, nil
}

// fieldOrder maps the JSON pointer of every declared property to its position
// among its siblings. Array items are keyed with "*" in place of the index.
type fieldOrder map[string]int

// Rank of locations the schema does not declare, and of issues about an
// object's extra properties, which sort after its declared fields.
const (
	undeclaredRank = math.MaxInt - 1
	trailingRank   = math.MaxInt
)

// issuesOf flattens the validation error tree into leaf issues in field
// declaration order, so the first issue is the one for the earliest field.
func (o fieldOrder) issuesOf(ve *jschema.ValidationError) []Issue {
	var leaves []*jschema.ValidationError
	var walk func(*jschema.ValidationError)
	walk = func(e *jschema.ValidationError) {
		if len(e.Causes) == 0 {
			leaves = append(leaves, e)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)

	type ranked struct {
		issue Issue
		rank  []int
	}
	var all []ranked
	add := func(loc []string, code, msg string, trailing bool) {
		rank := o.rank(loc)
		if trailing {
			rank = append(rank, trailingRank)
		}
		all = append(all, ranked{
			issue: Issue{Path: jsonPointer(loc), Code: code, Message: withField(loc, msg)},
			rank:  rank,
		})
	}

	for _, leaf := range leaves {
		loc := leaf.InstanceLocation
		switch k := leaf.ErrorKind.(type) {
		case nil:
			add(loc, "invalid", DefaultFailureMessage, false)
		case *kind.Required:
			for _, prop := range k.Missing {
				add(append(slices.Clone(loc), prop), "required", "is required", false)
			}
		case *kind.AdditionalProperties:
			add(loc, "additionalProperties", k.LocalizedString(printer), true)
		default:
			code := "invalid"
			if kp := k.KeywordPath(); len(kp) > 0 {
				code = kp[len(kp)-1]
			}
			add(loc, code, describe(k), false)
		}
	}

	slices.SortStableFunc(all, func(a, b ranked) int {
		if c := slices.Compare(a.rank, b.rank); c != 0 {
			return c
		}
		if c := strings.Compare(a.issue.Path, b.issue.Path); c != 0 {
			return c
		}
		if c := strings.Compare(a.issue.Code, b.issue.Code); c != 0 {
			return c
		}
		return strings.Compare(a.issue.Message, b.issue.Message)
	})

	issues := make([]Issue, len(all))
	for i, r := range all {
		issues[i] = r.issue
	}
	return issues
}

// rank returns the declaration position of each segment of loc.
func (o fieldOrder) rank(loc []string) []int {
	rank := make([]int, 0, len(loc))
	path := ""
	for _, tok := range loc {
		if idx, err := strconv.Atoi(tok); err == nil {
			if _, ok := o[path+"/*"]; ok {
				path += "/*"
				rank = append(rank, idx)
				continue
			}
		}
		path += "/" + pointerEscaper.Replace(tok)
		pos, ok := o[path]
		if !ok {
			pos = undeclaredRank
		}
		rank = append(rank, pos)
	}
	return rank
}

// describe renders an error kind without echoing the submitted value.
func describe(k jschema.ErrorKind) string {
	switch k := k.(type) {
	case *kind.Format:
		for _, rule := range customFormats {
			if rule.name == k.Want {
				return rule.err.Error()
			}
		}
		return printer.Sprintf("must be a valid %s", k.Want)
	case *kind.Pattern:
		return printer.Sprintf("must match pattern %q", k.Want)
	default:
		return k.LocalizedString(printer)
	}
}

// propertyOrder reads the position of every "properties" entry in doc,
// following nested objects and array items.
func propertyOrder(doc []byte) (fieldOrder, error) {
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()
	root, err := readOrdered(dec)
	if err != nil {
		return nil, err
	}
	order := fieldOrder{}
	order.collect(root, "")
	return order, nil
}

func (o fieldOrder) collect(node any, prefix string) {
	obj, ok := node.(*orderedObject)
	if !ok {
		return
	}
	if props, ok := obj.values["properties"].(*orderedObject); ok {
		for i, name := range props.keys {
			path := prefix + "/" + pointerEscaper.Replace(name)
			o[path] = i
			o.collect(props.values[name], path)
		}
	}
	if items, ok := obj.values["items"]; ok {
		o[prefix+"/*"] = 0
		o.collect(items, prefix+"/*")
	}
}

// orderedObject is a decoded JSON object that remembers its key order.
type orderedObject struct {
	keys   []string
	values map[string]any
}

func readOrdered(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		obj := &orderedObject{values: map[string]any{}}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, _ := keyTok.(string)
			v, err := readOrdered(dec)
			if err != nil {
				return nil, err
			}
			if _, dup := obj.values[key]; !dup {
				obj.keys = append(obj.keys, key)
			}
			obj.values[key] = v
		}
		_, err := dec.Token()
		return obj, err
	case '[':
		var arr []any
		for dec.More() {
			v, err := readOrdered(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		_, err := dec.Token()
		return arr, err
	default:
		return nil, fmt.Errorf("unexpected delimiter %v", delim)
	}
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func jsonPointer(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	var b strings.Builder
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(pointerEscaper.Replace(t))
	}
	return b.String()
}

// withField prefixes msg with the dotted field path, e.g. "settings.model: ...".
func withField(tokens []string, msg string) string {
	if len(tokens) == 0 {
		return msg
	}
	return strings.Join(tokens, ".") + ": " + msg
}
