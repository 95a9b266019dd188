// Package analysis classifies the parts of a hierarchical query that need
// rewriting before SQL generation.
//
// # Overview
//
// Two analyses feed the generator:
//
//  1. InferJoin reads the CONNECT BY condition and produces the join keys
//     that link a child row to its parent row.
//  2. ClassifyColumns sorts each select-list item into one of six column
//     kinds and decides which column carries the traversal depth.
//
// # Join Keys
//
// A CONNECT BY condition is a conjunction of equalities in which one side is
// marked PRIOR:
//
//	PRIOR employee_id = manager_id      // parent.employee_id = child.manager_id
//	manager_id = PRIOR employee_id      // same relationship, written reversed
//
// Each equality becomes a JoinKey. Anything else (inequalities, functions,
// LEVEL bounds) cannot be expressed as a join back to the working table and
// is reported with ErrUnresolvedJoin.
//
// # Column Kinds
//
// Every select item is classified by the first rule that matches:
//
//   - KindLevel: the LEVEL pseudo-column, optionally aliased
//   - KindPath: SYS_CONNECT_BY_PATH(expr, 'delim')
//   - KindRoot: CONNECT_BY_ROOT col
//   - KindIsLeaf: CONNECT_BY_ISLEAF
//   - KindLevelExpr: any other expression that references LEVEL
//   - KindPlain: everything else
//
// Forms then renders the three shapes a column takes in the rewritten query:
// its anchor-member form, its recursive-member form and its outer-projection
// form. Anchor and recursive forms always expose the same column name, which
// is what keeps the two halves of the UNION ALL aligned.
package analysis
