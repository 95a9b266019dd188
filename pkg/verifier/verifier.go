// Package verifier checks generated recursive CTEs before they are shipped.
//
// Lint and CheckAlignment run the PostgreSQL grammar (through pg_query) over
// the SQL text and need no database. Explain asks a live PostgreSQL
// compatible database to plan the statement, which also resolves tables,
// columns and functions.
package verifier

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v5"
)

// Sentinel errors returned by the checks.
var (
	// ErrSyntax is returned when the SQL does not parse.
	ErrSyntax = errors.New("verifier: syntax error")

	// ErrNoRecursiveCTE is returned by CheckAlignment when the statement is
	// not a WITH RECURSIVE query with a UNION ALL body.
	ErrNoRecursiveCTE = errors.New("verifier: no recursive CTE")

	// ErrMisaligned is returned when the anchor and recursive members of a
	// recursive CTE project different columns.
	ErrMisaligned = errors.New("verifier: anchor and recursive members are not aligned")

	// ErrExplain is returned when the database refuses to plan the statement.
	ErrExplain = errors.New("verifier: EXPLAIN failed")
)

// Querier is the minimal interface needed by Explain.
// Implemented by *sql.DB, *sql.Tx, and *sql.Conn.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Lint parses query with the PostgreSQL grammar.
func Lint(query string) error {
	if _, err := pg_query.Parse(query); err != nil {
		return fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return nil
}

// CheckAlignment verifies that every recursive CTE of the statement has
// anchor and recursive members with the same number of columns under the
// same names, in the same order. It returns the column count of the last
// CTE checked.
//
// Column names follow PostgreSQL's rules: the alias when there is one,
// otherwise the last field of a column reference. Other unaliased
// expressions are only counted.
func CheckAlignment(query string) (int, error) {
	tree, err := pg_query.Parse(query)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	if len(tree.Stmts) != 1 {
		return 0, fmt.Errorf("%w: expected one statement, got %d", ErrNoRecursiveCTE, len(tree.Stmts))
	}

	sel := tree.Stmts[0].Stmt.GetSelectStmt()
	if sel == nil || sel.WithClause == nil || !sel.WithClause.Recursive {
		return 0, ErrNoRecursiveCTE
	}

	columns, checked := 0, 0
	for _, node := range sel.WithClause.Ctes {
		cte := node.GetCommonTableExpr()
		if cte == nil {
			continue
		}
		body := cte.Ctequery.GetSelectStmt()
		if body == nil || body.Op != pg_query.SetOperation_SETOP_UNION || !body.All {
			continue
		}
		anchor, recursive := targetNames(body.Larg), targetNames(body.Rarg)
		if len(anchor) != len(recursive) {
			return 0, fmt.Errorf("%w: %s: anchor has %d columns, recursive member has %d",
				ErrMisaligned, cte.Ctename, len(anchor), len(recursive))
		}
		for i := range anchor {
			if anchor[i] != "" && recursive[i] != "" && !strings.EqualFold(anchor[i], recursive[i]) {
				return 0, fmt.Errorf("%w: %s: column %d is %q in anchor but %q in recursive member",
					ErrMisaligned, cte.Ctename, i+1, anchor[i], recursive[i])
			}
		}
		columns = len(anchor)
		checked++
	}
	if checked == 0 {
		return 0, fmt.Errorf("%w: no CTE with a UNION ALL body", ErrNoRecursiveCTE)
	}
	return columns, nil
}

// targetNames returns the output column names of a SELECT. Unnamed
// expressions are returned as "".
func targetNames(sel *pg_query.SelectStmt) []string {
	if sel == nil {
		return nil
	}
	names := make([]string, 0, len(sel.TargetList))
	for _, t := range sel.TargetList {
		rt := t.GetResTarget()
		if rt == nil {
			continue
		}
		names = append(names, targetName(rt))
	}
	return names
}

func targetName(rt *pg_query.ResTarget) string {
	if rt.Name != "" {
		return rt.Name
	}
	ref := rt.Val.GetColumnRef()
	if ref == nil || len(ref.Fields) == 0 {
		return ""
	}
	last := ref.Fields[len(ref.Fields)-1]
	if last.GetAStar() != nil {
		return "*"
	}
	if s := last.GetString_(); s != nil {
		return s.Sval
	}
	return ""
}

// Explain asks the database to plan query without running it and returns the
// plan, one line per row.
func Explain(ctx context.Context, q Querier, query string) ([]string, error) {
	rows, err := q.QueryContext(ctx, "EXPLAIN "+query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExplain, err)
	}
	defer rows.Close()

	var plan []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("%w: scanning plan: %w", ErrExplain, err)
		}
		plan = append(plan, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExplain, err)
	}
	return plan, nil
}
