package sqldsl

import (
	"fmt"
	"strings"
)

// Sqlf formats SQL with automatic dedenting and blank line removal.
// The SQL shape is visible in the format string.
func Sqlf(format string, args ...any) string {
	s := fmt.Sprintf(format, args...)
	lines := strings.Split(s, "\n")

	// Find minimum indentation (ignoring empty lines)
	minIndent := 1000
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		indent := len(line) - len(trimmed)
		if indent < minIndent {
			minIndent = indent
		}
	}

	// Remove common indent and empty lines
	var result []string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if len(line) >= minIndent {
			result = append(result, line[minIndent:])
		} else {
			result = append(result, strings.TrimLeft(line, " \t"))
		}
	}

	return strings.Join(result, "\n")
}

// Optf returns formatted string if condition is true, empty string otherwise.
// Useful for optional SQL clauses.
func Optf(cond bool, format string, args ...any) string {
	if !cond {
		return ""
	}
	return fmt.Sprintf(format, args...)
}

// JoinClause represents a SQL JOIN clause.
type JoinClause struct {
	Type      string // "INNER", "LEFT", etc.
	TableExpr TableExpr
	On        Expr
}

// SQL renders the JOIN clause.
func (j JoinClause) SQL() string {
	// Determine join keyword - don't add "JOIN" if Type already contains it
	joinKeyword := j.Type + " JOIN"
	if strings.Contains(j.Type, "JOIN") {
		joinKeyword = j.Type
	}

	// CROSS JOIN doesn't have an ON clause
	if strings.HasPrefix(j.Type, "CROSS") || j.On == nil {
		return joinKeyword + " " + j.TableExpr.TableSQL()
	}
	return joinKeyword + " " + j.TableExpr.TableSQL() + " ON " + j.On.SQL()
}

// SelectStmt represents a SELECT query.
type SelectStmt struct {
	Distinct    bool
	ColumnExprs []Expr
	FromExpr    TableExpr
	Joins       []JoinClause
	Where       Expr
	GroupBy     []Expr
	Having      Expr
	OrderBy     []Expr
}

// SQL renders the SELECT statement.
func (s SelectStmt) SQL() string {
	return Sqlf(`
		SELECT %s%s
		%s
		%s
		%s
		%s
		%s
		%s`,
		Optf(s.Distinct, "DISTINCT "),
		s.columnsSQL(),
		s.fromSQL(),
		s.joinsSQL(),
		s.whereSQL(),
		s.groupBySQL(),
		s.havingSQL(),
		s.orderBySQL(),
	)
}

func (s SelectStmt) columnsSQL() string {
	if len(s.ColumnExprs) == 0 {
		return "1"
	}
	return ExprList(s.ColumnExprs)
}

func (s SelectStmt) fromSQL() string {
	if s.FromExpr == nil {
		return ""
	}
	return "FROM " + s.FromExpr.TableSQL()
}

func (s SelectStmt) joinsSQL() string {
	if len(s.Joins) == 0 {
		return ""
	}
	var parts []string
	for _, j := range s.Joins {
		parts = append(parts, j.SQL())
	}
	return strings.Join(parts, "\n")
}

func (s SelectStmt) whereSQL() string {
	if s.Where == nil {
		return ""
	}
	return "WHERE " + s.Where.SQL()
}

func (s SelectStmt) groupBySQL() string {
	if len(s.GroupBy) == 0 {
		return ""
	}
	return "GROUP BY " + ExprList(s.GroupBy)
}

func (s SelectStmt) havingSQL() string {
	if s.Having == nil {
		return ""
	}
	return "HAVING " + s.Having.SQL()
}

func (s SelectStmt) orderBySQL() string {
	if len(s.OrderBy) == 0 {
		return ""
	}
	return "ORDER BY " + ExprList(s.OrderBy)
}

// =============================================================================
// Query Blocks (for UNION queries)
// =============================================================================

// SQLer is an interface for types that can render SQL.
type SQLer interface {
	SQL() string
}

// QueryBlock represents a query with optional comments.
// Used to build UNION queries with descriptive comments for each branch.
type QueryBlock struct {
	Comments []string // Comment lines (without -- prefix)
	Query    SQLer
}

// SQL renders the block's comments followed by its query.
func (b QueryBlock) SQL() string {
	var lines []string
	for _, comment := range b.Comments {
		lines = append(lines, "-- "+comment)
	}
	lines = append(lines, b.Query.SQL())
	return strings.Join(lines, "\n")
}

// UnionAll joins query blocks with UNION ALL. It is the body shape of a
// recursive CTE: the first block is the anchor member and the rest are
// recursive members.
type UnionAll struct {
	Blocks []QueryBlock
}

// SQL renders the blocks joined with UNION ALL.
func (u UnionAll) SQL() string {
	parts := make([]string, len(u.Blocks))
	for i, block := range u.Blocks {
		parts[i] = block.SQL()
	}
	return strings.Join(parts, "\nUNION ALL\n")
}

// IndentLines adds the given indent prefix to each line of input.
func IndentLines(input, indent string) string {
	if input == "" {
		return ""
	}
	lines := strings.Split(strings.TrimSpace(input), "\n")
	for i, line := range lines {
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}
