// Package entity decodes the small, fixed set of HTML character references
// the events platform leaves behind in its fragments.
//
// Only the named references below plus decimal and hexadecimal numeric
// references are recognised. Anything else, including malformed or
// out-of-range references, is left exactly as written.
package entity

import (
	"regexp"
	"strconv"
	"unicode/utf8"
)

// named maps the recognised named references to their replacement text.
// &nbsp; deliberately decodes to a plain space.
var named = map[string]string{
	"amp":   "&",
	"lt":    "<",
	"gt":    ">",
	"quot":  `"`,
	"ndash": "–",
	"mdash": "—",
	"nbsp":  " ",
}

// referencePattern matches named, decimal, and hex references in one pass.
var referencePattern = regexp.MustCompile(`&(?:([a-zA-Z]+)|#([0-9]+)|#[xX]([0-9a-fA-F]+));`)

// Decode replaces every recognised reference in s with its character.
// Replacements are never rescanned, so "&amp;lt;" decodes to "&lt;".
func Decode(s string) string {
	if s == "" {
		return ""
	}

	return referencePattern.ReplaceAllStringFunc(s, func(ref string) string {
		m := referencePattern.FindStringSubmatch(ref)
		switch {
		case m[1] != "":
			if r, ok := named[m[1]]; ok {
				return r
			}
			return ref
		case m[2] != "":
			return codePoint(ref, m[2], 10)
		default:
			return codePoint(ref, m[3], 16)
		}
	})
}

// codePoint converts a numeric reference, returning ref untouched when the
// number is not a valid Unicode scalar value.
func codePoint(ref, digits string, base int) string {
	n, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return ref
	}
	r := rune(n)
	if r == 0 || !utf8.ValidRune(r) {
		return ref
	}
	return string(r)
}
