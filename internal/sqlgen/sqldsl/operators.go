package sqldsl

import (
	"strings"
)

// Comparison operators

// Eq represents an equality comparison (=).
type Eq struct {
	Left  Expr
	Right Expr
}

func (e Eq) SQL() string { return e.Left.SQL() + " = " + e.Right.SQL() }

// Cmp represents a binary comparison with an explicit operator.
type Cmp struct {
	Left  Expr
	Op    string // =, <>, <, <=, >, >=
	Right Expr
}

func (c Cmp) SQL() string { return c.Left.SQL() + " " + c.Op + " " + c.Right.SQL() }

// Between represents expr BETWEEN low AND high.
type Between struct {
	Expr Expr
	Low  Expr
	High Expr
}

func (b Between) SQL() string {
	return b.Expr.SQL() + " BETWEEN " + b.Low.SQL() + " AND " + b.High.SQL()
}

// Arithmetic operators

// Add represents addition (+).
type Add struct {
	Left  Expr
	Right Expr
}

func (a Add) SQL() string { return a.Left.SQL() + " + " + a.Right.SQL() }

// Logical operators

// filterNilExprs removes nil expressions from the slice.
func filterNilExprs(exprs []Expr) []Expr {
	filtered := make([]Expr, 0, len(exprs))
	for _, e := range exprs {
		if e != nil {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// ConjExpr is a top-level conjunction. It is rendered without enclosing
// parentheses, so it belongs directly in a WHERE or ON clause.
type ConjExpr struct {
	Exprs []Expr
}

func (c ConjExpr) SQL() string {
	if len(c.Exprs) == 0 {
		return "TRUE"
	}
	parts := make([]string, len(c.Exprs))
	for i, e := range c.Exprs {
		parts[i] = e.SQL()
	}
	return strings.Join(parts, " AND ")
}

// Conj creates a top-level conjunction, dropping nil expressions.
func Conj(exprs ...Expr) ConjExpr {
	return ConjExpr{Exprs: filterNilExprs(exprs)}
}
