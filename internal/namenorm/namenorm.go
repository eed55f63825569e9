// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package namenorm normalizes person names and identifiers so that the
// same referee spelled differently across sources collapses to one
// dedup key.
package namenorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases a name, strips diacritics, and collapses
// whitespace. "José  GARCÍA" and "jose garcia" normalize identically.
func Normalize(name string) string {
	decomposed := norm.NFD.String(name)
	var b strings.Builder
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Key returns the dedup key for a candidate: the lower-cased email when
// present, else the normalized name.
func Key(email, name string) string {
	if email = strings.TrimSpace(email); email != "" {
		return strings.ToLower(email)
	}
	return Normalize(name)
}

// ORCID extracts a bare ORCID identifier from a URL or raw string
// (e.g. "https://orcid.org/0000-0002-1825-0097" → "0000-0002-1825-0097").
// Returns "" when the input does not look like an ORCID iD.
func ORCID(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, "orcid.org/"); i >= 0 {
		s = s[i+len("orcid.org/"):]
	}
	s = strings.TrimSuffix(strings.ToUpper(s), "/")
	if !looksLikeORCID(s) {
		return ""
	}
	return s
}

// looksLikeORCID checks the 0000-0000-0000-000X shape. The final
// character may be the checksum letter X.
func looksLikeORCID(s string) bool {
	if len(s) != 19 {
		return false
	}
	for i, r := range s {
		switch i {
		case 4, 9, 14:
			if r != '-' {
				return false
			}
		case 18:
			if !unicode.IsDigit(r) && r != 'X' {
				return false
			}
		default:
			if !unicode.IsDigit(r) {
				return false
			}
		}
	}
	return true
}
