package analysis

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/pthm/hiercte/internal/sqltext"
)

// ErrUnresolvedJoin is returned when a CONNECT BY condition cannot be turned
// into equality join keys.
var ErrUnresolvedJoin = errors.New("hiercte: CONNECT BY condition could not be resolved")

// JoinKey links a child row to its parent row. Child names the column read
// from the current row; Parent names the column read from the PRIOR row.
// Both are unqualified.
type JoinKey struct {
	Child  string
	Parent string
}

const joinIdent = `[A-Za-z_][A-Za-z0-9_$#]*(?:\.[A-Za-z_][A-Za-z0-9_$#]*)*`

var (
	priorLeftRe  = regexp.MustCompile(`(?i)^PRIOR\s+(` + joinIdent + `)\s*=\s*(` + joinIdent + `)$`)
	priorRightRe = regexp.MustCompile(`(?i)^(` + joinIdent + `)\s*=\s*PRIOR\s+(` + joinIdent + `)$`)
)

// InferJoin derives the join keys of a CONNECT BY condition. The condition
// is split on top-level AND and every conjunct must have the form
// "PRIOR a = b" or "b = PRIOR a", optionally parenthesized. Column
// qualifiers are dropped.
func InferJoin(connectBy string) ([]JoinKey, error) {
	conjuncts := sqltext.SplitConjuncts(sqltext.Unparen(connectBy))
	if len(conjuncts) == 0 {
		return nil, fmt.Errorf("%w: empty condition", ErrUnresolvedJoin)
	}

	keys := make([]JoinKey, 0, len(conjuncts))
	for _, conjunct := range conjuncts {
		key, ok := resolveConjunct(sqltext.Unparen(conjunct))
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnresolvedJoin, conjunct)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func resolveConjunct(c string) (JoinKey, bool) {
	var parent, child string
	if m := priorLeftRe.FindStringSubmatch(c); m != nil {
		parent, child = m[1], m[2]
	} else if m := priorRightRe.FindStringSubmatch(c); m != nil {
		child, parent = m[1], m[2]
	} else {
		return JoinKey{}, false
	}
	key := JoinKey{Child: sqltext.LastSegment(child), Parent: sqltext.LastSegment(parent)}
	// "PRIOR a = NULL" and friends match the pattern but name no column.
	if sqltext.IsKeyword(key.Child) || sqltext.IsKeyword(key.Parent) {
		return JoinKey{}, false
	}
	return key, true
}
