// Package hiercte rewrites Oracle hierarchical queries (START WITH /
// CONNECT BY) into recursive common table expressions for engines that have
// no native hierarchical-query operator.
//
// # Module Structure
//
//   - github.com/pthm/hiercte (this package): Converter, Result, errors.
//   - pkg/parser: clause extraction and statement preparation.
//   - pkg/compiler: stage-level access to join inference, column
//     classification and CTE assembly.
//   - pkg/verifier: syntax, alignment and EXPLAIN checks for generated SQL.
//
// # Basic Usage
//
//	conv := hiercte.NewConverter()
//	res, err := conv.Convert(`SELECT employee_id, manager_id, LEVEL FROM employees
//	    START WITH manager_id IS NULL
//	    CONNECT BY PRIOR employee_id = manager_id`)
//	if hiercte.IsNotHierarchicalErr(err) {
//	    // not a CONNECT BY query, translate it some other way
//	}
//	fmt.Println(res.SQL)
//
// Convert never returns a nil Result. When the rewrite fails, Result.SQL
// holds the original statement so callers can pass it through unchanged.
//
// # Diagnostics
//
// A successful conversion may still carry warnings and notes. Warnings mark
// output that must be reviewed before it is trusted, such as a CONNECT BY
// predicate whose parent/child roles could not be inferred (the join is
// emitted as 1=0 so the query cannot silently return wrong rows). Notes
// describe usable approximations such as ORDER SIBLINGS BY.
//
// # Concurrency
//
// A Converter owns a CTE name counter and is not safe for concurrent use
// unless it was built with a NameGenerator that is, such as SharedCounter:
//
//	names := hiercte.NewSharedCounter()
//	for range workers {
//	    go work(hiercte.NewConverter(hiercte.WithNameGenerator(names)))
//	}
package hiercte

import (
	"errors"
	"fmt"

	"github.com/pthm/hiercte/pkg/compiler"
	"github.com/pthm/hiercte/pkg/parser"
)

// Result is the outcome of converting one statement.
type Result struct {
	// Success is set when SQL holds a rewritten statement.
	Success bool `json:"success"`
	// SQL is the converted statement, or Original when Success is false.
	SQL      string `json:"sql"`
	Original string `json:"original"`
	// Warnings require manual review of SQL before use.
	Warnings []string `json:"warnings,omitempty"`
	// Notes describe approximations in SQL that are usable as is.
	Notes []string `json:"notes,omitempty"`
	// Err is the failure when Success is false.
	Err error `json:"-"`
}

// Converter rewrites hierarchical queries. See the package documentation
// for the concurrency rules.
type Converter struct {
	opts  compiler.Options
	names NameGenerator
}

// Option configures a Converter.
type Option func(*Converter)

// WithCastType sets the string type path segments are cast to before
// concatenation. The default is "text"; Databricks and Spark want "STRING".
func WithCastType(t string) Option {
	return func(c *Converter) {
		c.opts.CastType = t
	}
}

// WithSequenceFunction sets the set-returning function row-sequence
// generators are rewritten to. It must accept (start, end) with an
// exclusive end and expose a column named id. The default is RANGE.
func WithSequenceFunction(name string) Option {
	return func(c *Converter) {
		c.opts.SequenceFunction = name
	}
}

// WithAnnotations adds comment lines naming the anchor and recursive
// members of each generated CTE.
func WithAnnotations() Option {
	return func(c *Converter) {
		c.opts.Annotate = true
	}
}

// WithNameGenerator replaces the converter's private CTE name counter.
// Share one SharedCounter between converters used from several goroutines
// to keep names unique across all of them.
func WithNameGenerator(g NameGenerator) Option {
	return func(c *Converter) {
		c.names = g
	}
}

// NewConverter creates a converter with its own CTE name counter.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{names: NewCounter()}
	for _, opt := range opts {
		opt(c)
	}
	c.opts = c.opts.WithDefaults()
	return c
}

// Convert rewrites one statement.
//
// Statements without CONNECT BY fail with ErrNotHierarchical; callers
// usually pass them on unchanged. Statements whose structure cannot be
// isolated fail with an error wrapping ErrStructureUnrecognized. An
// unresolved join is not an error: the conversion succeeds with a warning.
//
// The returned Result is never nil, and on failure Result.Err equals the
// returned error.
func (c *Converter) Convert(sql string) (res *Result, err error) {
	res = &Result{SQL: sql, Original: sql}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: internal error: %v", ErrStructureUnrecognized, r)
			res.Success = false
			res.SQL = sql
			res.Warnings = append(res.Warnings, fmt.Sprintf("Conversion aborted: %v", r))
			res.Err = err
		}
	}()

	out, err := c.convert(sql)
	if err != nil {
		res.Err = err
		return res, err
	}
	res.Success = true
	res.SQL = out.SQL
	res.Warnings = out.Warnings
	res.Notes = out.Notes
	return res, nil
}

func (c *Converter) convert(sql string) (compiler.Output, error) {
	comp, err := parser.Extract(sql)
	if err != nil {
		return compiler.Output{}, err
	}

	if comp.IsSequenceGenerator {
		return compiler.BuildSequence(comp, c.opts), nil
	}

	joins, joinErr := compiler.InferJoin(comp.ConnectBy)
	out, err := compiler.Assemble(compiler.HierarchyInput{
		Components: comp,
		Joins:      joins,
		JoinErr:    joinErr,
		Columns:    compiler.ClassifyColumns(comp.SelectItems, compiler.NeedsDepth(comp)),
		CTEName:    c.names.Next(),
	}, c.opts)
	if err != nil {
		return compiler.Output{}, fmt.Errorf("%w: %w", ErrStructureUnrecognized, err)
	}
	return out, nil
}

// ConvertAll converts each statement independently. Statements that are not
// hierarchical come back unchanged with Success false and Err set to
// ErrNotHierarchical; a failure never stops the remaining statements.
func (c *Converter) ConvertAll(statements []string) []*Result {
	results := make([]*Result, len(statements))
	for i, stmt := range statements {
		results[i], _ = c.Convert(stmt)
	}
	return results
}

// Convert rewrites one statement with a fresh default Converter.
func Convert(sql string) (*Result, error) {
	return NewConverter().Convert(sql)
}

// HasConnectBy reports whether sql contains CONNECT BY outside string
// literals and quoted identifiers.
func HasConnectBy(sql string) bool {
	return parser.HasConnectBy(sql)
}

// Skipped reports whether the result is a statement the converter does not
// apply to, as opposed to a failed conversion.
func (r *Result) Skipped() bool {
	return !r.Success && errors.Is(r.Err, ErrNotHierarchical)
}
