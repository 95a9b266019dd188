package sqlgen

import (
	"fmt"
	"strings"

	"github.com/pthm/hiercte/internal/sqlgen/analysis"
	"github.com/pthm/hiercte/internal/sqlgen/sqldsl"
	"github.com/pthm/hiercte/internal/sqltext"
	"github.com/pthm/hiercte/pkg/parser"
)

// Diagnostics emitted while planning. Warnings mean the output needs review
// before it is trusted; notes describe approximations that are usable as is.
const (
	WarnUnresolvedJoin  = "Could not parse CONNECT BY condition - manual review required"
	WarnSiblingsOrder   = "ORDER SIBLINGS BY approximated as ORDER BY depth - sibling order may differ"
	WarnSiblingsIgnored = "ORDER SIBLINGS BY ignored because ORDER BY is also present"
	WarnIsLeaf          = "CONNECT_BY_ISLEAF is emitted as NULL - manual review required"
	WarnLevelDropped    = "Only one LEVEL filter is supported - dropped"
	WarnIsLeafReference = "CONNECT_BY_ISLEAF referenced outside the select list has no column to map to - manual review required"
	WarnDistinctOrder   = "ORDER BY uses columns outside the DISTINCT select list - manual review required"

	NotePath           = "SYS_CONNECT_BY_PATH converted to path concatenation in recursive CTE"
	NoteRoot           = "CONNECT_BY_ROOT tracked via carried-forward columns in CTE"
	NoteIsLeaf         = "CONNECT_BY_ISLEAF requires a NOT EXISTS check against child rows"
	NoteNoCycle        = "NOCYCLE ignored - the target engine's recursion limits apply"
	NoteSiblings       = "Consider ordering by a materialized path for exact sibling order"
	NoteHidden         = "Hidden depth column added to the CTE for LEVEL filtering and ordering"
	NoteSequence       = "Row generator converted to a RANGE-based sequence"
	NoteCarried        = "Columns carried through the CTE for the join and outer clauses"
	NoteAggregate      = "Aggregate and window expressions evaluated over the finished hierarchy"
	NoteLevelRelocated = "LEVEL condition applied to the finished hierarchy"
)

// JoinPlaceholder stands in for a join condition that could not be
// inferred. It never matches, so the query returns only root rows until a
// human fixes it.
const JoinPlaceholder = "1=0"

// HierarchyInput is everything needed to plan one hierarchical query.
type HierarchyInput struct {
	Components *parser.Components
	Joins      []analysis.JoinKey // ignored when JoinErr is set
	JoinErr    error
	Columns    analysis.Columns
	CTEName    string
}

// NamedExpr pairs a projected expression with the column name it exposes.
type NamedExpr struct {
	Name string
	Expr sqldsl.Expr
}

// HierarchyPlan contains all computed data needed to render the recursive
// CTE. This separates plan computation from rendering.
type HierarchyPlan struct {
	CTEName string
	Table   sqldsl.TableRef
	Alias   string // qualifier for base-table columns in the recursive member

	// Anchor member: root rows.
	AnchorColumns []NamedExpr
	AnchorWhere   sqldsl.Expr

	// Recursive member: children of rows already in the CTE.
	RecursiveColumns []NamedExpr
	JoinCondition    sqldsl.Expr

	// Outer query over the CTE.
	Distinct     bool
	OuterColumns []sqldsl.Expr
	OuterWhere   sqldsl.Expr
	GroupBy      string
	Having       string
	OrderBy      string

	Annotate bool

	Warnings []string
	Notes    []string
}

// BuildHierarchyPlan creates a plan for the recursive CTE rewrite.
//
// Base-table columns that the join or the outer clauses need but the select
// list does not expose are carried through the CTE as extra columns that the
// outer projection leaves out.
func BuildHierarchyPlan(in HierarchyInput, opts Options) HierarchyPlan {
	opts = opts.WithDefaults()
	c := in.Components
	alias := c.TableAlias()
	cols := in.Columns.Clone()
	depth := cols.Depth

	plan := HierarchyPlan{
		CTEName:  in.CTEName,
		Table:    sqldsl.TableRef{Name: c.Table, Alias: c.Alias},
		Alias:    alias,
		Distinct: c.Distinct,
		Annotate: opts.Annotate,
	}

	isLeafName := "is_leaf"
	for _, col := range cols.Items {
		if col.Kind() == analysis.KindIsLeaf {
			isLeafName = col.Name()
		}
	}
	rewrite := func(text string) string { return outerClause(text, alias, depth, isLeafName) }
	scope := analysis.Scope{Table: alias, CTE: in.CTEName, Depth: depth, CastType: opts.CastType}

	// Join. Parent columns are resolved first so they keep their own names.
	if in.JoinErr != nil {
		plan.JoinCondition = sqldsl.LineComment{Expr: sqldsl.Raw(JoinPlaceholder), Text: "TODO: Fix join condition"}
		plan.warn(WarnUnresolvedJoin + ": " + c.ConnectBy)
	} else {
		conds := make([]sqldsl.Expr, len(in.Joins))
		for i, k := range in.Joins {
			conds[i] = sqldsl.Eq{
				Left:  sqldsl.Col{Table: alias, Column: k.Child},
				Right: sqldsl.Col{Table: in.CTEName, Column: cols.Carry(k.Parent)},
			}
		}
		plan.JoinCondition = sqldsl.Conj(conds...)
	}

	// Anchor WHERE: START WITH plus the non-LEVEL part of WHERE.
	where := splitWhere(c.Where, depth)
	start := c.StartWith
	if start == "" {
		start = "1=1"
	}
	if where.rest != "" {
		plan.AnchorWhere = sqldsl.Conj(sqldsl.Paren{Expr: sqldsl.Raw(start)}, sqldsl.Paren{Expr: sqldsl.Raw(where.rest)})
	} else {
		plan.AnchorWhere = sqldsl.Raw(start)
	}
	for _, d := range where.dropped {
		plan.warn(WarnLevelDropped + ": " + d)
	}

	// Outer WHERE: the depth filter, then LEVEL conjuncts kept whole.
	outerWhere := []sqldsl.Expr{where.filter}
	var refs []string
	for _, r := range where.relocated {
		text := rewrite(r)
		outerWhere = append(outerWhere, sqldsl.Paren{Expr: sqldsl.Raw(text)})
		refs = append(refs, text)
		plan.note(NoteLevelRelocated + ": " + r)
	}
	if conj := sqldsl.Conj(outerWhere...); len(conj.Exprs) > 0 {
		plan.OuterWhere = conj
	}

	// Outer clauses
	plan.GroupBy = rewrite(c.GroupBy)
	plan.Having = rewrite(c.Having)
	plan.OrderBy = rewrite(c.OrderBy)
	if c.OrderSiblingsBy != "" {
		if plan.OrderBy != "" {
			plan.warn(WarnSiblingsIgnored)
		} else {
			siblings := rewrite(c.OrderSiblingsBy)
			if depth != "" {
				siblings = depth + ", " + siblings
			}
			plan.OrderBy = siblings
			plan.warn(WarnSiblingsOrder)
			plan.note(NoteSiblings)
		}
	}
	refs = append(refs, plan.GroupBy, plan.Having, plan.OrderBy)
	for _, col := range cols.Items {
		if col.Kind() == analysis.KindAggregate {
			refs = append(refs, analysis.BuildForms(col, scope).Outer.SQL())
		}
	}

	// Columns the outer query names but the select list does not expose.
	hasIsLeaf := cols.Has(analysis.KindIsLeaf)
	for _, text := range refs {
		for _, ref := range sqltext.ColumnRefs(text) {
			if !hasIsLeaf && strings.EqualFold(ref, isLeafName) {
				continue
			}
			cols.Expose(ref)
		}
	}
	carried := cols.Carried()
	if plan.Distinct {
		if hidden := namedIn(plan.OrderBy, carried); len(hidden) > 0 {
			plan.warn(WarnDistinctOrder + ": " + strings.Join(hidden, ", "))
		}
	}

	// Columns
	aggregated := c.GroupBy != "" || cols.Has(analysis.KindAggregate)
	for _, col := range cols.Items {
		forms := analysis.BuildForms(col, scope)
		if forms.InCTE() {
			plan.AnchorColumns = append(plan.AnchorColumns, NamedExpr{Name: col.Name(), Expr: forms.Anchor})
			plan.RecursiveColumns = append(plan.RecursiveColumns, NamedExpr{Name: col.Name(), Expr: forms.Recursive})
		}
		if forms.Outer == nil {
			continue
		}
		if lc, ok := col.(analysis.LevelColumn); ok && lc.Hidden && aggregated {
			continue
		}
		plan.OuterColumns = append(plan.OuterColumns, forms.Outer)
	}

	// Diagnostics
	if cols.Has(analysis.KindPath) {
		plan.note(NotePath)
	}
	if cols.Has(analysis.KindRoot) {
		plan.note(NoteRoot)
	}
	if hasIsLeaf {
		plan.warn(WarnIsLeaf)
		plan.note(NoteIsLeaf)
	} else if c.HasIsLeaf {
		plan.warn(WarnIsLeafReference)
	}
	if cols.Has(analysis.KindAggregate) {
		plan.note(NoteAggregate)
	}
	if c.HasNoCycle {
		plan.note(NoteNoCycle)
	}
	if cols.HiddenDepth {
		plan.note(NoteHidden)
	}
	if len(carried) > 0 {
		plan.note(NoteCarried + ": " + strings.Join(carried, ", "))
	}
	return plan
}

// namedIn returns the names that text references, in order of appearance.
func namedIn(text string, names []string) []string {
	var out []string
	for _, ref := range sqltext.ColumnRefs(text) {
		for _, name := range names {
			if strings.EqualFold(ref, name) {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

func (p *HierarchyPlan) warn(msg string) { p.Warnings = append(p.Warnings, msg) }
func (p *HierarchyPlan) note(msg string) { p.Notes = append(p.Notes, msg) }

// Validate checks that the anchor and recursive members project the same
// columns in the same order.
func (p HierarchyPlan) Validate() error {
	if len(p.AnchorColumns) == 0 {
		return fmt.Errorf("hierarchy plan %s: no columns in recursive CTE", p.CTEName)
	}
	if len(p.AnchorColumns) != len(p.RecursiveColumns) {
		return fmt.Errorf("hierarchy plan %s: anchor has %d columns, recursive member has %d",
			p.CTEName, len(p.AnchorColumns), len(p.RecursiveColumns))
	}
	for i := range p.AnchorColumns {
		a, r := p.AnchorColumns[i].Name, p.RecursiveColumns[i].Name
		if !strings.EqualFold(a, r) {
			return fmt.Errorf("hierarchy plan %s: column %d is %q in anchor but %q in recursive member",
				p.CTEName, i+1, a, r)
		}
	}
	return nil
}
