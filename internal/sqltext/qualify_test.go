package sqltext

import (
	"strings"
	"testing"
)

func TestQualify(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
	}{
		{"bare column", "name", "e.name"},
		{"already qualified", "x.name", "x.name"},
		{"function call", "UPPER(name)", "UPPER(e.name)"},
		{"arithmetic", "salary * 12 + bonus", "e.salary * 12 + e.bonus"},
		{"literal", "name || ' (' || title || ')'", "e.name || ' (' || e.title || ')'"},
		{"keywords", "CASE WHEN x IS NULL THEN 0 ELSE x END", "CASE WHEN e.x IS NULL THEN 0 ELSE e.x END"},
		{"cast target", "CAST(id AS VARCHAR2(10))", "CAST(e.id AS VARCHAR2(10))"},
		{"bind variable", "id = :p_id", "e.id = :p_id"},
		{"decimal", "rate * 1.5", "e.rate * 1.5"},
		{"subquery", "(SELECT MAX(x) FROM t) + y", "(SELECT MAX(x) FROM t) + e.y"},
		{"quoted identifier", `"Full Name"`, `e."Full Name"`},
		{"level untouched", "LEVEL * 10", "LEVEL * 10"},
		{"window", "ROW_NUMBER() OVER (PARTITION BY dept ORDER BY sal)", "ROW_NUMBER() OVER (PARTITION BY e.dept ORDER BY e.sal)"},
		{"multi-word cast type", "CAST(hired AS TIMESTAMP WITH TIME ZONE)", "CAST(e.hired AS TIMESTAMP WITH TIME ZONE)"},
		{"cast then column", "CAST(code AS DOUBLE PRECISION) + rate", "CAST(e.code AS DOUBLE PRECISION) + e.rate"},
		{"at time zone", "hired AT TIME ZONE 'UTC'", "e.hired AT TIME ZONE 'UTC'"},
		{"trim both", "TRIM(BOTH ' ' FROM name)", "TRIM(BOTH ' ' FROM e.name)"},
		{"trim leading", "TRIM(LEADING '0' FROM code)", "TRIM(LEADING '0' FROM e.code)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Qualify(tt.expr, "e"); got != tt.want {
				t.Errorf("Qualify(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}

func TestColumnRefs(t *testing.T) {
	tests := []struct {
		expr string
		want []string
	}{
		{"name", []string{"name"}},
		{"COUNT(*)", nil},
		{"SUM(salary) + bonus", []string{"salary", "bonus"}},
		{"x.name, dept DESC NULLS LAST", []string{"dept"}},
		{"CAST(hired AS TIMESTAMP WITH TIME ZONE)", []string{"hired"}},
		{"depth, name", []string{"depth", "name"}},
		{"TRIM(BOTH ' ' FROM name)", []string{"name"}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got := ColumnRefs(tt.expr)
			if len(got) != len(tt.want) {
				t.Fatalf("ColumnRefs(%q) = %q, want %q", tt.expr, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ColumnRefs(%q) = %q, want %q", tt.expr, got, tt.want)
				}
			}
		})
	}
}

func TestCalls(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"name", ""},
		{"COUNT(*)", "COUNT"},
		{"upper(name) || lower (title)", "UPPER LOWER"},
		{"SUM(CASE WHEN x IN (1, 2) THEN 1 END)", "SUM"},
		{"(SELECT MAX(x) FROM t) + y", ""},
		{"pkg.total(x)", ""},
		{"'COUNT(*)'", ""},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			if got := strings.Join(Calls(tt.expr), " "); got != tt.want {
				t.Errorf("Calls(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}

func TestSplitAlias(t *testing.T) {
	tests := []struct {
		item      string
		wantExpr  string
		wantAlias string
		wantOK    bool
	}{
		{"employee_id", "employee_id", "", false},
		{"e.name", "e.name", "", false},
		{"name AS full_name", "name", "full_name", true},
		{"name as full_name", "name", "full_name", true},
		{"salary * 12 annual", "salary * 12", "annual", true},
		{"COUNT(*) cnt", "COUNT(*)", "cnt", true},
		{"e.name ename", "e.name", "ename", true},
		{`name AS "Full Name"`, "name", `"Full Name"`, true},
		{`name "Full Name"`, "name", `"Full Name"`, true},
		{"a + 1", "a + 1", "", false},
		{"x IS NULL", "x IS NULL", "", false},
		{"CASE WHEN a THEN 1 ELSE 0 END", "CASE WHEN a THEN 1 ELSE 0 END", "", false},
		{"CASE WHEN a THEN 1 ELSE 0 END flag", "CASE WHEN a THEN 1 ELSE 0 END", "flag", true},
		{"CONNECT_BY_ROOT name", "CONNECT_BY_ROOT name", "", false},
		{"LEVEL lvl", "LEVEL", "lvl", true},
		{"a - b", "a - b", "", false},
		{"AS x", "AS x", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.item, func(t *testing.T) {
			expr, alias, ok := SplitAlias(tt.item)
			if expr != tt.wantExpr || alias != tt.wantAlias || ok != tt.wantOK {
				t.Errorf("SplitAlias(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.item, expr, alias, ok, tt.wantExpr, tt.wantAlias, tt.wantOK)
			}
		})
	}
}
