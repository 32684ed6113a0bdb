// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package normalize canonicalizes the human-entered names used as unique keys.

Name applies, in order: Unicode NFC composition, lowercasing, trimming, and
collapsing every internal whitespace run to a single space. The result is a
fixed point: Name(Name(s)) == Name(s).

Example:

	normalize.Name(" A   NAmE to correct ") // "a name to correct"
*/
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Name returns the canonical form of an author name or book title.
func Name(raw string) string {
	composed := norm.NFC.String(raw)
	lowered := cases.Lower(language.Und).String(composed)

	// strings.Fields splits on any Unicode whitespace run and drops the ends.
	return norm.NFC.String(strings.Join(strings.Fields(lowered), " "))
}

// LikePattern builds a case-insensitive substring pattern for ILIKE with the
// LIKE wildcards of the normalized input escaped.
func LikePattern(raw string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(Name(raw))
	return "%" + escaped + "%"
}
