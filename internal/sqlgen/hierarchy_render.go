package sqlgen

import (
	"github.com/pthm/hiercte/internal/sqlgen/sqldsl"
)

// Output is a rendered conversion.
type Output struct {
	SQL      string
	Warnings []string
	Notes    []string
}

// RenderHierarchy renders a validated plan as a WITH RECURSIVE statement.
func RenderHierarchy(p HierarchyPlan) string {
	anchor := sqldsl.SelectStmt{
		ColumnExprs: exprs(p.AnchorColumns),
		FromExpr:    p.Table,
		Where:       p.AnchorWhere,
	}
	recursive := sqldsl.SelectStmt{
		ColumnExprs: exprs(p.RecursiveColumns),
		FromExpr:    p.Table,
		Joins: []sqldsl.JoinClause{{
			Type:      "INNER",
			TableExpr: sqldsl.TableRef{Name: p.CTEName},
			On:        p.JoinCondition,
		}},
	}

	var anchorComments, recursiveComments []string
	if p.Annotate {
		anchorComments = []string{"Anchor: root rows"}
		recursiveComments = []string{"Recursive: child rows joined to their parent"}
	}
	body := sqldsl.UnionAll{Blocks: []sqldsl.QueryBlock{
		{Comments: anchorComments, Query: anchor},
		{Comments: recursiveComments, Query: recursive},
	}}

	outer := sqldsl.SelectStmt{
		Distinct:    p.Distinct,
		ColumnExprs: p.OuterColumns,
		FromExpr:    sqldsl.TableRef{Name: p.CTEName},
		Where:       p.OuterWhere,
		GroupBy:     rawList(p.GroupBy),
		Having:      rawExpr(p.Having),
		OrderBy:     rawList(p.OrderBy),
	}

	return sqldsl.RecursiveCTE(p.CTEName, nil, body, outer).SQL()
}

// Assemble plans, validates and renders the recursive CTE for one query.
func Assemble(in HierarchyInput, opts Options) (Output, error) {
	plan := BuildHierarchyPlan(in, opts)
	if err := plan.Validate(); err != nil {
		return Output{}, err
	}
	return Output{
		SQL:      RenderHierarchy(plan),
		Warnings: plan.Warnings,
		Notes:    plan.Notes,
	}, nil
}

func exprs(cols []NamedExpr) []sqldsl.Expr {
	out := make([]sqldsl.Expr, len(cols))
	for i, c := range cols {
		out[i] = c.Expr
	}
	return out
}

func rawList(text string) []sqldsl.Expr {
	if text == "" {
		return nil
	}
	return []sqldsl.Expr{sqldsl.Raw(text)}
}

func rawExpr(text string) sqldsl.Expr {
	if text == "" {
		return nil
	}
	return sqldsl.Raw(text)
}
