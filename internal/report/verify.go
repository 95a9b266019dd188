package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pthm/hiercte/pkg/verifier"
)

// Verifier runs the pkg/verifier checks over converted statements and
// records each outcome in a Report.
type Verifier struct {
	db      verifier.Querier
	lint    bool
	explain bool
}

// VerifyOption configures a Verifier.
type VerifyOption func(*Verifier)

// WithLint toggles the grammar and column alignment checks.
func WithLint(enabled bool) VerifyOption {
	return func(v *Verifier) {
		v.lint = enabled
	}
}

// WithExplain plans every statement against db.
func WithExplain(db verifier.Querier) VerifyOption {
	return func(v *Verifier) {
		v.db = db
		v.explain = db != nil
	}
}

// NewVerifier creates a Verifier. Linting is on unless disabled.
func NewVerifier(opts ...VerifyOption) *Verifier {
	v := &Verifier{lint: true}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Run checks every statement of source and adds one entry per statement to
// r. A failing statement never stops the others; only a cancelled context
// ends the run early.
func (v *Verifier) Run(ctx context.Context, r *Report, source string, statements []string) error {
	for i, stmt := range statements {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.Add(v.check(ctx, source, i+1, stmt))
	}
	return nil
}

func (v *Verifier) check(ctx context.Context, source string, n int, stmt string) Entry {
	e := Entry{Source: source, Statement: n}

	var checks []string
	if v.lint {
		if err := verifier.Lint(stmt); err != nil {
			return failed(e, "Does not parse as PostgreSQL", err)
		}
		cols, err := verifier.CheckAlignment(stmt)
		switch {
		case errors.Is(err, verifier.ErrNoRecursiveCTE):
			e.Status = StatusSkip
			e.Message = "No recursive CTE"
			if !v.explain {
				return e
			}
		case err != nil:
			return failed(e, "Recursive members are not aligned", err)
		default:
			checks = append(checks, fmt.Sprintf("%d aligned columns", cols))
		}
	}

	if v.explain {
		plan, err := verifier.Explain(ctx, v.db, stmt)
		if err != nil {
			return failed(e, "Database rejected the statement", err)
		}
		checks = append(checks, "planned")
		e.Details = strings.Join(plan, "\n")
	}

	if len(checks) == 0 {
		if e.Status == StatusSkip {
			return e
		}
		e.Status = StatusSkip
		e.Message = "No checks enabled"
		return e
	}
	e.Status = StatusPass
	e.Message = "OK (" + strings.Join(checks, ", ") + ")"
	return e
}

func failed(e Entry, msg string, err error) Entry {
	e.Status = StatusFail
	e.Message = msg
	e.Details = err.Error()
	return e
}
