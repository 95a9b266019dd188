package parser

import (
	"fmt"
	"strings"

	"github.com/pthm/hiercte/internal/sqltext"
)

type clauseKind int

const (
	clauseSelect clauseKind = iota
	clauseFrom
	clauseWhere
	clauseStartWith
	clauseConnectBy
	clauseOrderSiblingsBy
	clauseOrderBy
	clauseGroupBy
	clauseHaving
)

func (k clauseKind) String() string {
	switch k {
	case clauseSelect:
		return "SELECT"
	case clauseFrom:
		return "FROM"
	case clauseWhere:
		return "WHERE"
	case clauseStartWith:
		return "START WITH"
	case clauseConnectBy:
		return "CONNECT BY"
	case clauseOrderSiblingsBy:
		return "ORDER SIBLINGS BY"
	case clauseOrderBy:
		return "ORDER BY"
	case clauseGroupBy:
		return "GROUP BY"
	case clauseHaving:
		return "HAVING"
	default:
		return fmt.Sprintf("clauseKind(%d)", int(k))
	}
}

// clausePhrases is ordered so longer phrases win over their prefixes.
var clausePhrases = []struct {
	kind  clauseKind
	words []string
}{
	{clauseOrderSiblingsBy, []string{"ORDER", "SIBLINGS", "BY"}},
	{clauseOrderBy, []string{"ORDER", "BY"}},
	{clauseStartWith, []string{"START", "WITH"}},
	{clauseConnectBy, []string{"CONNECT", "BY"}},
	{clauseGroupBy, []string{"GROUP", "BY"}},
	{clauseHaving, []string{"HAVING"}},
	{clauseWhere, []string{"WHERE"}},
	{clauseFrom, []string{"FROM"}},
	{clauseSelect, []string{"SELECT"}},
}

type clauseMark struct {
	kind  clauseKind
	start int // offset of the keyword
	body  int // offset just past the keyword (and NOCYCLE)
}

type clauses struct {
	bodies  map[clauseKind]string
	noCycle bool
}

func (c clauses) body(k clauseKind) string {
	return c.bodies[k]
}

// splitClauses locates the top-level clause keywords of a single SELECT and
// slices the text between them.
func splitClauses(sc *sqltext.Scan) (clauses, error) {
	var marks []clauseMark
	noCycle := false
	for i := 0; i < len(sc.Tokens); i++ {
		if sc.Tokens[i].Depth != 0 {
			continue
		}
		for _, p := range clausePhrases {
			if !sc.MatchAt(i, p.words...) {
				continue
			}
			last := i + len(p.words) - 1
			mark := clauseMark{kind: p.kind, start: sc.Tokens[i].Start, body: sc.Tokens[last].End}
			if p.kind == clauseConnectBy && sc.MatchAt(last+1, "NOCYCLE") {
				noCycle = true
				last++
				mark.body = sc.Tokens[last].End
			}
			marks = append(marks, mark)
			i = last
			break
		}
	}

	if len(marks) < 2 || marks[0].kind != clauseSelect || marks[0].start != 0 {
		return clauses{}, fmt.Errorf("%w: statement must start with SELECT", ErrStructureUnrecognized)
	}
	if marks[1].kind != clauseFrom {
		return clauses{}, fmt.Errorf("%w: missing FROM clause", ErrStructureUnrecognized)
	}

	out := clauses{bodies: make(map[clauseKind]string, len(marks)), noCycle: noCycle}
	for i, m := range marks {
		if _, dup := out.bodies[m.kind]; dup {
			return clauses{}, fmt.Errorf("%w: repeated %s clause", ErrStructureUnrecognized, m.kind)
		}
		end := len(sc.Text)
		if i+1 < len(marks) {
			end = marks[i+1].start
		}
		out.bodies[m.kind] = strings.TrimSpace(sc.Text[m.body:end])
	}
	return out, nil
}
