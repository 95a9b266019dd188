package sqldsl

import "testing"

func TestExpr_SQL(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{"column", Col{Table: "e", Column: "id"}, "e.id"},
		{"bare column", Col{Column: "id"}, "id"},
		{"literal escapes quotes", Lit("it's"), "'it''s'"},
		{"int", Int(11), "11"},
		{"null", Null{}, "NULL"},
		{"cast", Cast{Expr: Col{Column: "name"}, Type: "text"}, "CAST(name AS text)"},
		{
			name: "concat path",
			expr: Func{Name: "CONCAT", Args: []Expr{Col{Table: "cte", Column: "path"}, Lit("/"), Cast{Expr: Col{Table: "e", Column: "name"}, Type: "text"}}},
			want: "CONCAT(cte.path, '/', CAST(e.name AS text))",
		},
		{"alias", SelectAs(Int(1), "level"), "1 AS level"},
		{"paren", Paren{Expr: Raw("a OR b")}, "(a OR b)"},
		{"block comment", Commented{Expr: Null{}, Text: "fill in"}, "NULL /* fill in */"},
		{"block comment cannot terminate early", Commented{Expr: Null{}, Text: "a */ b"}, "NULL /* a * / b */"},
		{"empty block comment", Commented{Expr: Null{}}, "NULL"},
		{"line comment", LineComment{Expr: Raw("1=0"), Text: "fix\nme"}, "1=0 -- fix me"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.expr.SQL(); got != tt.want {
				t.Errorf("SQL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOperators_SQL(t *testing.T) {
	level := Col{Column: "level"}
	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{"eq", Eq{Left: Col{Table: "e", Column: "manager_id"}, Right: Col{Table: "h", Column: "employee_id"}}, "e.manager_id = h.employee_id"},
		{"cmp", Cmp{Left: level, Op: "<=", Right: Int(3)}, "level <= 3"},
		{"between", Between{Expr: level, Low: Int(2), High: Int(4)}, "level BETWEEN 2 AND 4"},
		{"add", Add{Left: Col{Table: "h", Column: "level"}, Right: Int(1)}, "h.level + 1"},
		{"conj single", Conj(Raw("a"), nil), "a"},
		{"conj many", Conj(Raw("(a)"), Raw("(b)")), "(a) AND (b)"},
		{"conj empty", Conj(nil), "TRUE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.expr.SQL(); got != tt.want {
				t.Errorf("SQL() = %q, want %q", got, tt.want)
			}
		})
	}
}
