package sqlgen

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pthm/hiercte/internal/sqlgen/sqldsl"
	"github.com/pthm/hiercte/internal/sqltext"
)

var (
	levelCmpRe     = regexp.MustCompile(`(?i)^LEVEL\s*(<=|>=|<>|!=|=|<|>)\s*(\d+)$`)
	levelCmpRevRe  = regexp.MustCompile(`(?i)^(\d+)\s*(<=|>=|<>|!=|=|<|>)\s*LEVEL$`)
	levelBetweenRe = regexp.MustCompile(`(?i)^LEVEL\s+BETWEEN\s+(\d+)\s+AND\s+(\d+)$`)
)

// flipped maps an operator to its mirror image, for "3 >= LEVEL".
var flipped = map[string]string{
	"<": ">", ">": "<", "<=": ">=", ">=": "<=", "=": "=", "<>": "<>", "!=": "<>",
}

// whereSplit is a WHERE clause with its LEVEL conjuncts pulled out.
type whereSplit struct {
	rest      string      // conjuncts that do not mention LEVEL, rejoined with AND
	filter    sqldsl.Expr // first LEVEL comparison, against the depth column
	dropped   []string    // later LEVEL comparisons, as written
	relocated []string    // other conjuncts mentioning LEVEL, as written
}

// splitWhere separates the LEVEL conjuncts of a WHERE clause. The first
// conjunct of the form "LEVEL <op> <int>" (either side, or LEVEL BETWEEN)
// becomes a filter on the depth column and later ones are dropped. Any other
// conjunct that mentions LEVEL, such as "LEVEL <= 2 OR name = 'x'", is kept
// whole for the outer query.
func splitWhere(where, depth string) whereSplit {
	var out whereSplit
	var rest []string
	for _, conjunct := range sqltext.SplitConjuncts(where) {
		if !sqltext.HasWord(conjunct, "LEVEL") {
			rest = append(rest, conjunct)
			continue
		}
		f := levelPredicate(sqltext.Unparen(conjunct), depth)
		switch {
		case f == nil:
			out.relocated = append(out.relocated, conjunct)
		case out.filter == nil:
			out.filter = f
		default:
			out.dropped = append(out.dropped, conjunct)
		}
	}
	out.rest = strings.Join(rest, " AND ")
	return out
}

func levelPredicate(c, depth string) sqldsl.Expr {
	col := sqldsl.Col{Column: depth}
	if m := levelCmpRe.FindStringSubmatch(c); m != nil {
		return sqldsl.Cmp{Left: col, Op: normalizeOp(m[1]), Right: atoi(m[2])}
	}
	if m := levelCmpRevRe.FindStringSubmatch(c); m != nil {
		return sqldsl.Cmp{Left: col, Op: flipped[m[2]], Right: atoi(m[1])}
	}
	if m := levelBetweenRe.FindStringSubmatch(c); m != nil {
		return sqldsl.Between{Expr: col, Low: atoi(m[1]), High: atoi(m[2])}
	}
	return nil
}

func normalizeOp(op string) string {
	if op == "!=" {
		return "<>"
	}
	return op
}

func atoi(s string) sqldsl.Expr {
	n, err := strconv.Atoi(s)
	if err != nil {
		return sqldsl.Raw(s)
	}
	return sqldsl.Int(n)
}

// outerClause rewrites an ORDER BY, GROUP BY or HAVING body so it refers to
// the CTE's columns: pseudo-columns are renamed and base-table qualifiers
// dropped.
func outerClause(text, tableAlias, depth, isLeaf string) string {
	if text == "" {
		return ""
	}
	if depth != "" {
		text = sqltext.ReplaceWord(text, "LEVEL", depth, true)
	}
	text = sqltext.ReplaceWord(text, "CONNECT_BY_ISLEAF", isLeaf, true)
	return sqltext.Unqualify(text, tableAlias)
}
