// Package sqltext provides quote- and parenthesis-aware helpers for working
// with fragments of SQL text.
//
// Nothing in this package parses SQL into a tree. Every helper walks the raw
// text, skipping string literals ('...') and quoted identifiers ("..."), and
// tracks parenthesis depth so that callers can reason about the top level of
// a clause while treating nested expressions and subqueries as opaque.
package sqltext

import (
	"regexp"
	"strings"
)

// identPattern matches an identifier, optionally dotted once (schema.table).
const identPattern = `[A-Za-z_][A-Za-z0-9_$#]*(?:\.[A-Za-z_][A-Za-z0-9_$#]*)?`

var identRe = regexp.MustCompile(`^` + identPattern + `$`)

// Normalize collapses every run of whitespace outside literals into a single
// space and trims the result.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isSpace(c) {
			pending = true
			continue
		}
		if pending && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pending = false
		if c == '\'' || c == '"' {
			end := closingQuote(s, i)
			b.WriteString(s[i : end+1])
			i = end
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// SplitTopLevel splits s on sep wherever sep appears outside literals and
// parentheses. Parts are trimmed and empty parts are dropped.
func SplitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\'' || c == '"':
			i = closingQuote(s, i)
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case c == sep && depth == 0:
			parts = appendTrimmed(parts, s[start:i])
			start = i + 1
		}
	}
	return appendTrimmed(parts, s[start:])
}

// SplitConjuncts splits a predicate on top-level AND (case-insensitive).
// The AND that belongs to a BETWEEN ... AND ... range is not a split point.
func SplitConjuncts(s string) []string {
	var parts []string
	start := 0
	between := false
	for _, tok := range Words(s) {
		if tok.Depth != 0 {
			continue
		}
		switch strings.ToUpper(tok.Text) {
		case "BETWEEN":
			between = true
		case "AND":
			if between {
				between = false
				continue
			}
			parts = appendTrimmed(parts, s[start:tok.Start])
			start = tok.End
		}
	}
	return appendTrimmed(parts, s[start:])
}

// Unparen strips parentheses that wrap the whole of s.
func Unparen(s string) string {
	s = strings.TrimSpace(s)
	for len(s) >= 2 && s[0] == '(' && MatchingParen(s, 0) == len(s)-1 {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// MatchingParen returns the index of the parenthesis closing the one at
// open, or -1 when it is unbalanced.
func MatchingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '\'', '"':
			i = closingQuote(s, i)
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// IsIdentifier reports whether s is a bare identifier, optionally dotted once.
func IsIdentifier(s string) bool {
	return identRe.MatchString(s)
}

// LastSegment returns the right-most segment of a dotted name.
func LastSegment(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// IsQuoted reports whether s is a single-quoted string literal.
func IsQuoted(s string) bool {
	return len(s) >= 2 && s[0] == '\'' && closingQuote(s, 0) == len(s)-1
}

// Unquote removes the surrounding single quotes of a string literal and
// collapses doubled quotes.
func Unquote(s string) string {
	if !IsQuoted(s) {
		return s
	}
	return strings.ReplaceAll(s[1:len(s)-1], "''", "'")
}

// closingQuote returns the index of the quote closing the one at i. Doubled
// quotes are escapes. An unterminated literal runs to the end of s.
func closingQuote(s string, i int) int {
	q := s[i]
	for j := i + 1; j < len(s); j++ {
		if s[j] != q {
			continue
		}
		if j+1 < len(s) && s[j+1] == q {
			j++
			continue
		}
		return j
	}
	return len(s) - 1
}

func appendTrimmed(parts []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		parts = append(parts, s)
	}
	return parts
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isWordStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isWordByte(c byte) bool {
	return isWordStart(c) || isDigit(c) || c == '$' || c == '#'
}
