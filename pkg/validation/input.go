// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// DecodeYAML parses YAML text into JSON-compatible Go values suitable for
// Schema.Parse. Malformed YAML is reported as a *Error.
func DecodeYAML(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, Issuef("", "invalid_yaml", "invalid YAML: %v", err)
	}
	return toJSONTypes(v), nil
}

// toInstance converts Parse input into the generic JSON value tree the
// validator walks. []byte and json.RawMessage are JSON text; anything else is
// a Go value and is converted through its JSON encoding.
func toInstance(data any) (any, error) {
	switch v := data.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return decodeJSON(v)
	case []byte:
		return decodeJSON(v)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, Issuef("", "invalid_type", "input of type %T cannot be represented as JSON", data)
		}
		return decodeJSON(raw)
	}
}

func decodeJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, Issuef("", "invalid_json", "invalid JSON: %v", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, Issuef("", "invalid_json", "invalid JSON: unexpected data after top-level value")
	}
	return v, nil
}

// toJSONTypes rewrites YAML-decoded values so that every map has string keys.
func toJSONTypes(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = toJSONTypes(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = toJSONTypes(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = toJSONTypes(item)
		}
		return out
	default:
		return val
	}
}
