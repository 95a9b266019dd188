package sqlgen

import "github.com/pthm/hiercte/pkg/parser"

// Defaults applied by Options.WithDefaults.
const (
	DefaultCastType         = "text"
	DefaultSequenceFunction = "RANGE"
)

// Options controls the generated SQL.
type Options struct {
	// CastType is the string type path segments are cast to before
	// concatenation.
	CastType string

	// SequenceFunction is the set-returning function used for row-sequence
	// generators. It must take (start, end) with an exclusive end and
	// expose its values as a column named id.
	SequenceFunction string

	// Annotate adds "--" comments naming the anchor and recursive members.
	Annotate bool
}

// WithDefaults fills unset fields.
func (o Options) WithDefaults() Options {
	if o.CastType == "" {
		o.CastType = DefaultCastType
	}
	if o.SequenceFunction == "" {
		o.SequenceFunction = DefaultSequenceFunction
	}
	return o
}

// NeedsDepth reports whether the CTE for c must carry a depth column: LEVEL
// is used somewhere or siblings are ordered by depth.
func NeedsDepth(c *parser.Components) bool {
	return c.HasLevel || c.OrderSiblingsBy != ""
}
