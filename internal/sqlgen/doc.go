// Package sqlgen rewrites hierarchical queries into recursive CTE queries.
//
// # Overview
//
// The generator receives the clauses of a CONNECT BY query (see pkg/parser),
// the join keys inferred from its CONNECT BY condition and the classified
// select list (see the analysis subpackage), and emits a single
// WITH RECURSIVE statement:
//
//	WITH RECURSIVE hierarchy_cte_1 AS (
//	    SELECT <anchor columns> FROM <table> WHERE <start with> [AND (<where>)]
//	    UNION ALL
//	    SELECT <recursive columns> FROM <table>
//	    INNER JOIN hierarchy_cte_1 ON <table>.<child> = hierarchy_cte_1.<parent>
//	)
//	SELECT <outer columns> FROM hierarchy_cte_1
//	[WHERE <level filter>] [GROUP BY ...] [HAVING ...] [ORDER BY ...]
//
// # Architecture
//
// Generation runs in two phases:
//
//  1. Planning: BuildHierarchyPlan computes every column form, predicate and
//     diagnostic. HierarchyPlan.Validate checks that the anchor and recursive
//     members project the same columns in the same order.
//  2. Rendering: RenderHierarchy turns a validated plan into SQL using the
//     sqldsl subpackage.
//
// Row-sequence generators (SELECT LEVEL FROM DUAL CONNECT BY LEVEL <= n)
// bypass both phases and are rendered by BuildSequence.
//
// # Subpackages
//
//   - analysis: join-key inference and select-list classification
//   - sqldsl: typed SQL building blocks
package sqlgen
