// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

package validation

import (
	"errors"

	jschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// Custom JSON Schema formats available to every compiled schema.
const (
	FormatPhone          = "cn-phone"
	FormatStrongPassword = "strong-password"
	FormatIDCard         = "cn-id-card"
	FormatUUID           = "uuid-rfc4122"
)

type stringRule struct {
	name  string
	check func(string) bool
	err   error
}

var customFormats = []stringRule{
	{FormatPhone, IsValidPhone, errors.New("must be an 11-digit mobile number starting with 13-19")},
	{FormatStrongPassword, IsStrongPassword, errors.New("must be at least 8 characters with upper and lower case letters, a digit and one of @$!%*?&")},
	{FormatIDCard, IsValidIDCard, errors.New("must be an 18-character identity card number")},
	{FormatUUID, IsValidUUID, errors.New("must be a version 1-5 UUID")},
}

func registerFormats(c *jschema.Compiler) {
	for _, rule := range customFormats {
		c.RegisterFormat(&jschema.Format{
			Name: rule.name,
			Validate: func(v any) error {
				s, ok := v.(string)
				if !ok {
					return nil
				}
				if !rule.check(s) {
					return rule.err
				}
				return nil
			},
		})
	}
}
