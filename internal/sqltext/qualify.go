package sqltext

import "strings"

// keywords are words that never name a column. They are neither qualified
// nor accepted as implicit aliases.
var keywords = map[string]bool{
	"ALL": true, "AND": true, "ANY": true, "AS": true, "ASC": true, "AT": true,
	"BETWEEN": true, "BOTH": true, "BY": true, "CASE": true, "COLLATE": true,
	"CONNECT_BY_ISCYCLE": true, "CONNECT_BY_ISLEAF": true, "CONNECT_BY_ROOT": true,
	"CURRENT": true, "CURRENT_DATE": true, "CURRENT_TIMESTAMP": true,
	"DATE": true, "DAY": true, "DESC": true, "DISTINCT": true, "DUAL": true,
	"ELSE": true, "END": true, "ESCAPE": true, "EXISTS": true,
	"FALSE": true, "FIRST": true, "FOLLOWING": true, "FROM": true,
	"GROUP": true, "HOUR": true, "IN": true, "INTERVAL": true, "IS": true,
	"KEEP": true, "LAST": true, "LEADING": true, "LEVEL": true, "LIKE": true, "MINUTE": true,
	"MONTH": true, "NOT": true, "NULL": true, "NULLS": true, "OR": true,
	"ORDER": true, "OVER": true, "PARTITION": true, "PRECEDING": true,
	"PRIOR": true, "RANGE": true, "ROW": true, "ROWID": true, "ROWNUM": true,
	"ROWS": true, "SECOND": true, "SELECT": true, "SOME": true,
	"SYSDATE": true, "SYSTIMESTAMP": true, "THEN": true, "TIMESTAMP": true,
	"TO": true, "TRAILING": true, "TRUE": true, "UNBOUNDED": true, "UNKNOWN": true, "USER": true,
	"WHEN": true, "WHERE": true, "WITH": true, "WITHIN": true, "YEAR": true,
}

// operandKeywords expect an operand after them, so a word that follows one
// is never an implicit alias.
var operandKeywords = map[string]bool{
	"AND": true, "BETWEEN": true, "CASE": true, "CONNECT_BY_ROOT": true,
	"DATE": true, "DISTINCT": true, "ELSE": true, "IN": true, "INTERVAL": true,
	"IS": true, "LIKE": true, "NOT": true, "OR": true, "PRIOR": true,
	"THEN": true, "TIMESTAMP": true, "WHEN": true,
}

// IsKeyword reports whether word is a reserved word that never names a column.
func IsKeyword(word string) bool {
	return keywords[strings.ToUpper(word)]
}

// Qualify prefixes every bare column reference in expr with qualifier.
//
// Left untouched: literals, numbers, bind variables, names that are already
// dotted, function names, keywords, type names following AS or AT, and
// parenthesized subqueries.
func Qualify(expr, qualifier string) string {
	var b strings.Builder
	b.Grow(len(expr) + 16)
	last := 0
	walk(expr, func(start, _ int, call bool) {
		if call {
			return
		}
		b.WriteString(expr[last:start])
		b.WriteString(qualifier)
		b.WriteByte('.')
		last = start
	})
	b.WriteString(expr[last:])
	return b.String()
}

// ColumnRefs returns the bare column references of expr in order of
// appearance, using the same rules as Qualify. Duplicates are kept.
func ColumnRefs(expr string) []string {
	var out []string
	walk(expr, func(start, end int, call bool) {
		if !call {
			out = append(out, expr[start:end])
		}
	})
	return out
}

// Calls returns the upper-cased names of the functions expr calls outside
// subqueries. Schema-qualified calls are not reported.
func Calls(expr string) []string {
	var out []string
	walk(expr, func(start, end int, call bool) {
		if call {
			out = append(out, strings.ToUpper(expr[start:end]))
		}
	})
	return out
}

// walk calls visit with the span of every bare name outside literals and
// subqueries. call is set for function names.
func walk(expr string, visit func(start, end int, call bool)) {
	prev := ""
	typeName := false // inside a type name after AS or AT, as in CAST(x AS TIMESTAMP WITH TIME ZONE)
	for i := 0; i < len(expr); {
		c := expr[i]
		switch {
		case c == '\'':
			i, prev, typeName = closingQuote(expr, i)+1, "", false
		case c == '"':
			end := closingQuote(expr, i) + 1
			if !typeName && prev != "AS" && prev != "AT" && !dotted(expr, i, end) && !followedByParen(expr, end) {
				visit(i, end, false)
			}
			i, prev, typeName = end, "", false
		case c == '(' && startsSubquery(expr, i):
			end := MatchingParen(expr, i)
			if end < 0 {
				end = len(expr) - 1
			}
			i, prev, typeName = end+1, "", false
		case c == ':' && i+1 < len(expr) && isWordByte(expr[i+1]):
			j := i + 1
			for j < len(expr) && isWordByte(expr[j]) {
				j++
			}
			i, prev, typeName = j, "", false
		case isDigit(c):
			j := i
			for j < len(expr) && (isWordByte(expr[j]) || expr[j] == '.') {
				j++
			}
			i, prev, typeName = j, "", false
		case isWordStart(c):
			j := i
			for j < len(expr) && isWordByte(expr[j]) {
				j++
			}
			word := strings.ToUpper(expr[i:j])
			if prev == "AS" || prev == "AT" {
				typeName = true
			}
			if !typeName && !IsKeyword(word) && !dotted(expr, i, j) {
				visit(i, j, followedByParen(expr, j))
			}
			i, prev = j, word
		default:
			if !isSpace(c) {
				prev, typeName = "", false
			}
			i++
		}
	}
}

func startsSubquery(s string, open int) bool {
	rest := strings.TrimLeft(s[open+1:], " \t\n\r")
	for _, kw := range []string{"SELECT", "WITH"} {
		if len(rest) > len(kw) && strings.EqualFold(rest[:len(kw)], kw) && !isWordByte(rest[len(kw)]) {
			return true
		}
	}
	return false
}

// SplitAlias separates a select-list item into its expression and alias.
// Both "expr AS alias" and "expr alias" are recognised; alias may be a
// quoted identifier. ok is false when the item carries no alias.
func SplitAlias(item string) (expr, alias string, ok bool) {
	item = strings.TrimSpace(item)
	start := aliasStart(item)
	if start <= 0 || item[start-1] != ' ' {
		return item, "", false
	}
	alias = item[start:]
	head := strings.TrimRight(item[:start], " ")
	if head == "" {
		return item, "", false
	}

	words := Words(head)
	if len(words) > 0 {
		last := words[len(words)-1]
		if last.End == len(head) && last.Depth == 0 && !dotted(head, last.Start, last.End) {
			upper := strings.ToUpper(last.Text)
			if upper == "AS" {
				expr = strings.TrimSpace(head[:last.Start])
				if expr == "" {
					return item, "", false
				}
				return expr, alias, true
			}
			if operandKeywords[upper] {
				return item, "", false
			}
		}
	}

	if alias[0] != '"' && IsKeyword(alias) {
		return item, "", false
	}
	switch head[len(head)-1] {
	case '+', '-', '*', '/', '|', '=', '<', '>', ',', '.', '(', ':':
		return item, "", false
	}
	return head, alias, true
}

// aliasStart returns the offset of the trailing identifier of item, or -1
// when item does not end in one.
func aliasStart(item string) int {
	if item == "" {
		return -1
	}
	if item[len(item)-1] == '"' {
		// Walk forward so escaped quotes are honoured.
		for i := 0; i < len(item); i++ {
			switch item[i] {
			case '\'':
				i = closingQuote(item, i)
			case '"':
				end := closingQuote(item, i)
				if end == len(item)-1 {
					return i
				}
				i = end
			}
		}
		return -1
	}
	j := len(item)
	for j > 0 && isWordByte(item[j-1]) {
		j--
	}
	if j == len(item) || !isWordStart(item[j]) {
		return -1
	}
	return j
}
