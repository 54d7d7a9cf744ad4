// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

package validation

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\p{Z}\s@]+@[^\p{Z}\s@]+\.[^\p{Z}\s@]+$`)
	phonePattern  = regexp.MustCompile(`^1[3-9]\d{9}$`)
	idCardPattern = regexp.MustCompile(`^[1-9]\d{5}(18|19|20)\d{2}((0[1-9])|(1[0-2]))(([0-2][1-9])|10|20|30|31)\d{3}[0-9Xx]$`)
)

// passwordSpecials are the symbols a strong password may and must draw from.
const passwordSpecials = "@$!%*?&"

// minPasswordLength is the shortest strong password.
const minPasswordLength = 8

// IsValidEmail reports whether s looks like local@domain.tld.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidPhone reports whether s is a mainland China mobile number.
func IsValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// IsStrongPassword reports whether s has at least eight characters drawn only
// from letters, digits and @$!%*?&, including at least one lower case letter,
// one upper case letter, one digit and one of the symbols.
func IsStrongPassword(s string) bool {
	if len(s) < minPasswordLength {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return false
		}
	}
	return lower && upper && digit && special
}

// IsValidURL reports whether s is an absolute URL. Hierarchical web schemes
// must also carry a host.
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "ws", "wss", "ftp":
		return u.Host != ""
	default:
		return u.Opaque != "" || u.Host != "" || u.Path != ""
	}
}

// IsValidUUID reports whether s is a canonical 36-character RFC 4122 UUID of
// version 1 through 5. Case is ignored.
func IsValidUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	v := id.Version()
	return v >= 1 && v <= 5 && id.Variant() == uuid.RFC4122
}

// IsValidIDCard reports whether s is shaped like an 18-digit mainland China
// resident identity card number. The checksum digit is not verified.
func IsValidIDCard(s string) bool {
	return idCardPattern.MatchString(s)
}
