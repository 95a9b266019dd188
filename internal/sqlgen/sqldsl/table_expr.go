package sqldsl

import "strings"

// TableExpr is the interface for table expressions in FROM and JOIN clauses.
// Types that can be used as table sources implement this interface.
type TableExpr interface {
	// TableSQL returns the SQL for use in FROM/JOIN clauses.
	TableSQL() string
}

// TableRef wraps a raw table name for use as a TableExpr.
// An alias equal to the table name is not repeated.
type TableRef struct {
	Name  string
	Alias string
}

// TableSQL implements TableExpr.
func (t TableRef) TableSQL() string {
	if t.Alias != "" && !strings.EqualFold(t.Alias, t.Name) {
		return t.Name + " " + t.Alias
	}
	return t.Name
}

// FunctionCallExpr represents a set-returning function used as a table
// expression, such as RANGE(1, 11).
type FunctionCallExpr struct {
	Name  string // Function name
	Args  []Expr // Function arguments
	Alias string // Table alias for the result
}

// TableSQL implements TableExpr.
func (f FunctionCallExpr) TableSQL() string {
	result := f.Name + "(" + ExprList(f.Args) + ")"
	if f.Alias != "" {
		result += " AS " + f.Alias
	}
	return result
}
