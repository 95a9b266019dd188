package sqldsl

import (
	"strings"
	"testing"
)

func TestCTEDef_SQL(t *testing.T) {
	tests := []struct {
		name     string
		cte      CTEDef
		contains []string
	}{
		{
			name: "simple CTE without columns",
			cte: CTEDef{
				Name:  "hierarchy_cte_1",
				Query: Raw("SELECT 1"),
			},
			contains: []string{"hierarchy_cte_1 AS (", "    SELECT 1"},
		},
		{
			name: "CTE with columns",
			cte: CTEDef{
				Name:    "tree",
				Columns: []string{"node_id", "level"},
				Query:   Raw("SELECT id, 1 FROM nodes"),
			},
			contains: []string{"tree(node_id, level) AS (", "SELECT id, 1 FROM nodes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cte.SQL()
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("CTEDef.SQL() = %q, want to contain %q", got, want)
				}
			}
		})
	}
}

func TestWithCTE_SQL(t *testing.T) {
	tests := []struct {
		name     string
		cte      WithCTE
		contains []string
	}{
		{
			name: "recursive CTE",
			cte: WithCTE{
				Recursive: true,
				CTEs: []CTEDef{{
					Name:  "hierarchy_cte_1",
					Query: Raw("SELECT id, 1 AS level FROM nodes"),
				}},
				Query: Raw("SELECT * FROM hierarchy_cte_1"),
			},
			contains: []string{
				"WITH RECURSIVE",
				"hierarchy_cte_1 AS (",
				"SELECT id, 1 AS level FROM nodes",
				"SELECT * FROM hierarchy_cte_1",
			},
		},
		{
			name: "non-recursive CTE",
			cte: WithCTE{
				CTEs: []CTEDef{{
					Name:  "filtered",
					Query: Raw("SELECT * FROM data WHERE active = TRUE"),
				}},
				Query: Raw("SELECT * FROM filtered"),
			},
			contains: []string{
				"WITH filtered AS (",
				"SELECT * FROM filtered",
			},
		},
		{
			name: "no CTEs renders the query alone",
			cte: WithCTE{
				Query: Raw("SELECT 1"),
			},
			contains: []string{"SELECT 1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cte.SQL()
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("WithCTE.SQL() = %q, want to contain %q", got, want)
				}
			}
		})
	}
}

func TestRecursiveCTE(t *testing.T) {
	body := UnionAll{Blocks: []QueryBlock{
		{Query: Raw("SELECT id, 1 AS level FROM nodes WHERE parent_id IS NULL")},
		{Query: Raw("SELECT nodes.id, t.level + 1 AS level FROM nodes INNER JOIN t ON nodes.parent_id = t.id")},
	}}
	cte := RecursiveCTE("t", nil, body, Raw("SELECT id, level FROM t"))

	want := `WITH RECURSIVE t AS (
    SELECT id, 1 AS level FROM nodes WHERE parent_id IS NULL
    UNION ALL
    SELECT nodes.id, t.level + 1 AS level FROM nodes INNER JOIN t ON nodes.parent_id = t.id
)
SELECT id, level FROM t`
	if got := cte.SQL(); got != want {
		t.Errorf("RecursiveCTE().SQL() = %q, want %q", got, want)
	}
}
