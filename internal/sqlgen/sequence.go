package sqlgen

import (
	"strconv"

	"github.com/pthm/hiercte/internal/sqlgen/sqldsl"
	"github.com/pthm/hiercte/internal/sqltext"
	"github.com/pthm/hiercte/pkg/parser"
)

// SequenceColumn is the column a row-sequence function exposes.
const SequenceColumn = "id"

// Clauses a row generator cannot honour.
const (
	WarnSequenceStartWith = "START WITH ignored for a row generator"
	WarnSequenceSiblings  = "ORDER SIBLINGS BY ignored for a row generator"
)

// BuildSequence renders a row-sequence generator
// (SELECT LEVEL FROM DUAL CONNECT BY LEVEL <= n) as a query over the
// sequence function. LEVEL becomes the function's id column in every clause;
// the upper bound is shifted by one because the function's end is exclusive.
func BuildSequence(c *parser.Components, opts Options) Output {
	opts = opts.WithDefaults()

	items := make([]sqldsl.Expr, len(c.SelectItems))
	for i, item := range c.SelectItems {
		items[i] = sqldsl.Raw(toSequence(item))
	}

	stmt := sqldsl.SelectStmt{
		Distinct:    c.Distinct,
		ColumnExprs: items,
		FromExpr: sqldsl.FunctionCallExpr{
			Name: opts.SequenceFunction,
			Args: []sqldsl.Expr{sqldsl.Int(1), sequenceEnd(c.SequenceLimit, c.SequenceExclusive)},
		},
		Where:   rawExpr(toSequence(c.Where)),
		GroupBy: rawList(toSequence(c.GroupBy)),
		Having:  rawExpr(toSequence(c.Having)),
		OrderBy: rawList(toSequence(c.OrderBy)),
	}

	out := Output{SQL: stmt.SQL(), Notes: []string{NoteSequence}}
	if c.StartWith != "" {
		out.Warnings = append(out.Warnings, WarnSequenceStartWith+": "+c.StartWith)
	}
	if c.OrderSiblingsBy != "" {
		out.Warnings = append(out.Warnings, WarnSequenceSiblings+": "+c.OrderSiblingsBy)
	}
	return out
}

func toSequence(text string) string {
	return sqltext.ReplaceWord(text, "LEVEL", SequenceColumn, true)
}

func sequenceEnd(limit string, exclusive bool) sqldsl.Expr {
	if n, err := strconv.Atoi(limit); err == nil {
		if exclusive {
			return sqldsl.Int(n)
		}
		return sqldsl.Int(n + 1)
	}
	if exclusive {
		return sqldsl.Raw(limit)
	}
	return sqldsl.Add{Left: sqldsl.Raw(limit), Right: sqldsl.Int(1)}
}
