package hiercte

import (
	"errors"

	"github.com/pthm/hiercte/pkg/compiler"
	"github.com/pthm/hiercte/pkg/parser"
)

// Sentinel errors for the failure modes of a conversion.
//
// Use the Is*Err helper functions to tell them apart; they also match
// wrapped errors.
var (
	// ErrNotHierarchical is returned when a statement has no CONNECT BY.
	// It is not a failure: the statement simply needs no rewrite.
	ErrNotHierarchical = parser.ErrNotHierarchical

	// ErrStructureUnrecognized is returned when a statement has CONNECT BY
	// but is not a single SELECT over one table, or when the rewrite fails
	// internally. The statement is returned unchanged.
	ErrStructureUnrecognized = parser.ErrStructureUnrecognized

	// ErrMultipleConnectBy is returned for statements with more than one
	// CONNECT BY clause, or with CONNECT BY only inside a subquery. It wraps
	// ErrStructureUnrecognized.
	ErrMultipleConnectBy = parser.ErrMultipleConnectBy

	// ErrUnresolvedJoin describes a CONNECT BY predicate whose parent and
	// child columns could not be inferred. Convert does not return it:
	// the conversion succeeds with a placeholder join and a warning. It is
	// exported for callers driving pkg/compiler directly.
	ErrUnresolvedJoin = compiler.ErrUnresolvedJoin
)

// IsNotHierarchicalErr returns true if err is or wraps ErrNotHierarchical.
func IsNotHierarchicalErr(err error) bool {
	return errors.Is(err, ErrNotHierarchical)
}

// IsStructureUnrecognizedErr returns true if err is or wraps
// ErrStructureUnrecognized, including ErrMultipleConnectBy.
func IsStructureUnrecognizedErr(err error) bool {
	return errors.Is(err, ErrStructureUnrecognized)
}

// IsMultipleConnectByErr returns true if err is or wraps ErrMultipleConnectBy.
func IsMultipleConnectByErr(err error) bool {
	return errors.Is(err, ErrMultipleConnectBy)
}

// IsUnresolvedJoinErr returns true if err is or wraps ErrUnresolvedJoin.
func IsUnresolvedJoinErr(err error) bool {
	return errors.Is(err, ErrUnresolvedJoin)
}
