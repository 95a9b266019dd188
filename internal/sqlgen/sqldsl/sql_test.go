package sqldsl

import "testing"

func TestSelectStmt_SQL(t *testing.T) {
	tests := []struct {
		name string
		stmt SelectStmt
		want string
	}{
		{
			name: "columns from table",
			stmt: SelectStmt{
				ColumnExprs: []Expr{Col{Column: "id"}, SelectAs(Int(1), "level")},
				FromExpr:    TableRef{Name: "nodes"},
				Where:       Raw("parent_id IS NULL"),
			},
			want: "SELECT id, 1 AS level\nFROM nodes\nWHERE parent_id IS NULL",
		},
		{
			name: "join back to working table",
			stmt: SelectStmt{
				ColumnExprs: []Expr{Col{Table: "n", Column: "id"}},
				FromExpr:    TableRef{Name: "nodes", Alias: "n"},
				Joins: []JoinClause{{
					Type:      "INNER",
					TableExpr: TableRef{Name: "t"},
					On:        Eq{Left: Col{Table: "n", Column: "parent_id"}, Right: Col{Table: "t", Column: "id"}},
				}},
			},
			want: "SELECT n.id\nFROM nodes n\nINNER JOIN t ON n.parent_id = t.id",
		},
		{
			name: "outer clauses",
			stmt: SelectStmt{
				Distinct:    true,
				ColumnExprs: []Expr{Raw("dept"), Raw("COUNT(*) AS n")},
				FromExpr:    TableRef{Name: "t"},
				GroupBy:     []Expr{Raw("dept")},
				Having:      Raw("COUNT(*) > 1"),
				OrderBy:     []Expr{Raw("dept DESC")},
			},
			want: "SELECT DISTINCT dept, COUNT(*) AS n\nFROM t\nGROUP BY dept\nHAVING COUNT(*) > 1\nORDER BY dept DESC",
		},
		{
			name: "no columns",
			stmt: SelectStmt{},
			want: "SELECT 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stmt.SQL(); got != tt.want {
				t.Errorf("SelectStmt.SQL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTableExpr_TableSQL(t *testing.T) {
	tests := []struct {
		name string
		expr TableExpr
		want string
	}{
		{"table", TableRef{Name: "employees"}, "employees"},
		{"aliased", TableRef{Name: "hr.employees", Alias: "e"}, "hr.employees e"},
		{"alias equal to name", TableRef{Name: "employees", Alias: "EMPLOYEES"}, "employees"},
		{"function", FunctionCallExpr{Name: "RANGE", Args: []Expr{Int(1), Int(11)}}, "RANGE(1, 11)"},
		{"function aliased", FunctionCallExpr{Name: "generate_series", Args: []Expr{Int(1), Int(3)}, Alias: "g"}, "generate_series(1, 3) AS g"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.expr.TableSQL(); got != tt.want {
				t.Errorf("TableSQL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnionAll_SQL(t *testing.T) {
	u := UnionAll{Blocks: []QueryBlock{
		{Comments: []string{"Anchor"}, Query: Raw("SELECT 1")},
		{Query: Raw("SELECT 2")},
	}}
	want := "-- Anchor\nSELECT 1\nUNION ALL\nSELECT 2"
	if got := u.SQL(); got != want {
		t.Errorf("UnionAll.SQL() = %q, want %q", got, want)
	}
}

func TestSqlf(t *testing.T) {
	got := Sqlf(`
		SELECT %s
		%s
		FROM t`, "a", Optf(false, "WHERE x"))
	if want := "SELECT a\nFROM t"; got != want {
		t.Errorf("Sqlf() = %q, want %q", got, want)
	}
}

func TestIndentLines(t *testing.T) {
	if got := IndentLines("a\nb", "  "); got != "  a\n  b" {
		t.Errorf("IndentLines() = %q", got)
	}
	if got := IndentLines("", "  "); got != "" {
		t.Errorf("IndentLines(\"\") = %q, want empty", got)
	}
}
