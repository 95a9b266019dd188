package analysis

// Kind identifies how a select-list item is rewritten.
type Kind int

const (
	// KindPlain is an ordinary expression copied into both CTE members.
	KindPlain Kind = iota

	// KindLevel is the LEVEL pseudo-column, rewritten as a depth counter.
	KindLevel

	// KindLevelExpr is an expression that uses LEVEL, rewritten against the
	// depth counter.
	KindLevelExpr

	// KindPath is SYS_CONNECT_BY_PATH, rewritten as an accumulated string.
	KindPath

	// KindRoot is CONNECT_BY_ROOT, rewritten as a carried-forward value.
	KindRoot

	// KindIsLeaf is CONNECT_BY_ISLEAF, which is not computed and only
	// appears as a placeholder in the outer projection.
	KindIsLeaf

	// KindAggregate is an aggregate or window expression, evaluated only
	// by the outer query.
	KindAggregate

	// KindCarried is a base-table column projected by the CTE members for
	// the join or the outer clauses but not selected by the query.
	KindCarried
)

// String returns the kind name for debugging and diagnostic output.
func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "Plain"
	case KindLevel:
		return "Level"
	case KindLevelExpr:
		return "LevelExpr"
	case KindPath:
		return "Path"
	case KindRoot:
		return "Root"
	case KindIsLeaf:
		return "IsLeaf"
	case KindAggregate:
		return "Aggregate"
	case KindCarried:
		return "Carried"
	default:
		return "Unknown"
	}
}
