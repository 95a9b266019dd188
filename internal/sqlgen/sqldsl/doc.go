// Package sqldsl provides a small typed DSL for building the SQL emitted by
// the hierarchy rewriter.
//
// # Overview
//
// Rather than concatenating strings, the rewriter composes typed building
// blocks that render themselves. Fragments lifted verbatim from the input
// query enter the DSL through Raw; everything the rewriter synthesizes
// (depth counters, path concatenation, the join back to the working table)
// is built from typed nodes so its shape is checked by the compiler.
//
// # Core Interfaces
//
//   - Expr: SQL expressions (columns, literals, operators, function calls)
//   - SQLer: complete statements (SELECT, UNION ALL bodies, WITH)
//   - TableExpr: sources usable in FROM and JOIN
//
// # Expression Types
//
//	Col{Table: "t", Column: "id"}     // t.id
//	Lit("/")                          // '/'
//	Int(1)                            // 1
//	Raw("manager_id IS NULL")         // raw SQL lifted from the input
//	Cast{Expr: col, Type: "text"}     // CAST(col AS text)
//	Func{Name: "CONCAT", Args: ...}   // CONCAT(a, b)
//	Alias{Expr: e, Name: "level"}     // e AS level
//
// Operators:
//
//	Eq{Left: a, Right: b}             // a = b
//	Cmp{Left: a, Op: "<=", Right: b}  // a <= b
//	Add{Left: a, Right: Int(1)}       // a + 1
//	Conj(a, b)                        // a AND b, for a WHERE clause
//
// # Statement Types
//
//	SelectStmt{
//	    ColumnExprs: []Expr{...},
//	    FromExpr:    TableRef{Name: "employees"},
//	    Joins:       []JoinClause{...},
//	    Where:       cond,
//	}
//
//	RecursiveCTE("hierarchy_cte_1", nil,
//	    UnionAll{Blocks: []QueryBlock{anchor, recursive}},
//	    outer)
package sqldsl
