package analysis

import (
	"fmt"
	"strings"

	"github.com/pthm/hiercte/internal/sqlgen/sqldsl"
	"github.com/pthm/hiercte/internal/sqltext"
)

// IsLeafPlaceholder is the comment attached to the CONNECT_BY_ISLEAF
// placeholder in generated SQL.
const IsLeafPlaceholder = "TODO: CONNECT_BY_ISLEAF needs manual implementation"

// Scope carries the names a column needs to render its forms.
type Scope struct {
	Table    string // alias of the base table in the recursive member
	CTE      string // name of the recursive CTE
	Depth    string // depth column name
	CastType string // string type used for path segments
}

// Forms holds the three renderings of a column. Anchor and Recursive are
// nil for columns the CTE does not project; Outer is nil for columns the
// outer query does not select.
type Forms struct {
	Anchor    sqldsl.Expr
	Recursive sqldsl.Expr
	Outer     sqldsl.Expr
}

// InCTE reports whether the column is projected by the CTE members.
func (f Forms) InCTE() bool {
	return f.Anchor != nil
}

// BuildForms renders a column in the given scope.
func BuildForms(col Column, s Scope) Forms {
	name := col.Name()
	outer := sqldsl.Raw(name)

	switch c := col.(type) {
	case PlainColumn:
		return plainForms(c, s)

	case LevelColumn:
		return Forms{
			Anchor:    sqldsl.SelectAs(sqldsl.Int(1), name),
			Recursive: sqldsl.SelectAs(sqldsl.Add{Left: sqldsl.Col{Table: s.CTE, Column: name}, Right: sqldsl.Int(1)}, name),
			Outer:     outer,
		}

	case LevelExprColumn:
		next := "(" + sqldsl.Col{Table: s.CTE, Column: s.Depth}.SQL() + " + 1)"
		return Forms{
			Anchor:    sqldsl.SelectAs(sqldsl.Raw(sqltext.ReplaceWord(c.Expr, "LEVEL", "1", true)), name),
			Recursive: sqldsl.SelectAs(sqldsl.Raw(sqltext.ReplaceWord(sqltext.Qualify(c.Expr, s.Table), "LEVEL", next, true)), name),
			Outer:     outer,
		}

	case PathColumn:
		anchor := sqldsl.Func{Name: "CONCAT", Args: []sqldsl.Expr{
			sqldsl.Lit(c.Delimiter),
			sqldsl.Cast{Expr: sqldsl.Raw(c.Expr), Type: s.CastType},
		}}
		recursive := sqldsl.Func{Name: "CONCAT", Args: []sqldsl.Expr{
			sqldsl.Col{Table: s.CTE, Column: name},
			sqldsl.Lit(c.Delimiter),
			sqldsl.Cast{Expr: sqldsl.Raw(sqltext.Qualify(c.Expr, s.Table)), Type: s.CastType},
		}}
		return Forms{
			Anchor:    sqldsl.SelectAs(anchor, name),
			Recursive: sqldsl.SelectAs(recursive, name),
			Outer:     outer,
		}

	case RootColumn:
		return Forms{
			Anchor:    sqldsl.SelectAs(sqldsl.Raw(c.Expr), name),
			Recursive: sqldsl.SelectAs(sqldsl.Col{Table: s.CTE, Column: name}, name),
			Outer:     outer,
		}

	case IsLeafColumn:
		return Forms{
			Outer: sqldsl.Commented{Expr: sqldsl.SelectAs(sqldsl.Null{}, name), Text: IsLeafPlaceholder},
		}

	case AggregateColumn:
		expr := sqltext.Unqualify(c.Expr, s.Table)
		if s.Depth != "" {
			expr = sqltext.ReplaceWord(expr, "LEVEL", s.Depth, true)
		}
		if c.Alias == "" {
			return Forms{Outer: sqldsl.Raw(expr)}
		}
		return Forms{Outer: sqldsl.SelectAs(sqldsl.Raw(expr), c.Alias)}

	case CarriedColumn:
		anchor, recursive := sqldsl.Expr(sqldsl.Raw(c.Ref)), sqldsl.Expr(sqldsl.Col{Table: s.Table, Column: c.Ref})
		if !strings.EqualFold(c.Alias, c.Ref) {
			anchor, recursive = sqldsl.SelectAs(anchor, c.Alias), sqldsl.SelectAs(recursive, c.Alias)
		}
		return Forms{Anchor: anchor, Recursive: recursive}

	default:
		panic(fmt.Sprintf("analysis: unhandled column type %T", col))
	}
}

func plainForms(c PlainColumn, s Scope) Forms {
	switch {
	case c.IsStar():
		recursive := c.Expr
		if recursive == "*" {
			recursive = s.Table + ".*"
		}
		return Forms{Anchor: sqldsl.Raw(c.Expr), Recursive: sqldsl.Raw(recursive), Outer: sqldsl.Raw("*")}

	case c.Synthetic:
		return Forms{
			Anchor:    sqldsl.SelectAs(sqldsl.Raw(c.Expr), c.Alias),
			Recursive: sqldsl.SelectAs(sqldsl.Raw(sqltext.Qualify(c.Expr, s.Table)), c.Alias),
			Outer:     sqldsl.Raw(c.Alias),
		}

	case c.Alias != "":
		return Forms{
			Anchor:    sqldsl.Raw(c.Text),
			Recursive: sqldsl.SelectAs(sqldsl.Raw(sqltext.Qualify(c.Expr, s.Table)), c.Alias),
			Outer:     sqldsl.Raw(c.Alias),
		}

	default:
		return Forms{
			Anchor:    sqldsl.Raw(c.Expr),
			Recursive: sqldsl.Raw(sqltext.Qualify(c.Expr, s.Table)),
			Outer:     sqldsl.Raw(c.Name()),
		}
	}
}
