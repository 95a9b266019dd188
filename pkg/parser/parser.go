// Package parser extracts the clauses of an Oracle hierarchical query.
//
// The parser does not build a syntax tree. It locates the top-level clause
// keywords of a single SELECT statement (SELECT, FROM, WHERE, START WITH,
// CONNECT BY, ORDER SIBLINGS BY, ORDER BY, GROUP BY, HAVING) and returns
// their bodies as text, together with a set of feature flags describing the
// hierarchical constructs the query uses. Nested expressions and subqueries
// are carried along verbatim.
//
// # Basic Usage
//
//	c, err := parser.Extract("SELECT id FROM t START WITH pid IS NULL CONNECT BY PRIOR id = pid")
//	if errors.Is(err, parser.ErrNotHierarchical) {
//	    // hand the statement to another converter
//	}
//
// Row-sequence generators (SELECT LEVEL FROM DUAL CONNECT BY LEVEL <= n)
// are detected before anything else and reported through
// Components.IsSequenceGenerator.
package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/pthm/hiercte/internal/sqltext"
)

// Sentinel errors returned by Extract.
var (
	// ErrNotHierarchical is returned when the statement contains no
	// CONNECT BY outside of literals. Callers usually pass such statements
	// through unchanged.
	ErrNotHierarchical = errors.New("hiercte: not a CONNECT BY query")

	// ErrStructureUnrecognized is returned when a CONNECT BY query does not
	// have the shape of a single SELECT over one table.
	ErrStructureUnrecognized = errors.New("hiercte: unrecognized query structure")

	// ErrMultipleConnectBy is returned when a statement holds more than one
	// CONNECT BY clause. It wraps ErrStructureUnrecognized.
	ErrMultipleConnectBy = fmt.Errorf("%w: more than one CONNECT BY clause", ErrStructureUnrecognized)
)

// Components holds the extracted clauses of a hierarchical query.
// Clause fields are empty when the clause is absent.
type Components struct {
	SelectItems []string // top-level select-list items, in order
	Distinct    bool

	Table string // FROM target, optionally schema-qualified
	Alias string // explicit FROM alias, empty when none was written

	Where           string
	StartWith       string
	ConnectBy       string
	OrderSiblingsBy string
	OrderBy         string
	GroupBy         string
	Having          string

	HasPrior   bool // PRIOR appears in CONNECT BY
	HasNoCycle bool // CONNECT BY NOCYCLE
	HasLevel   bool // LEVEL pseudo-column used anywhere
	HasPath    bool // SYS_CONNECT_BY_PATH used
	HasRoot    bool // CONNECT_BY_ROOT used
	HasIsLeaf  bool // CONNECT_BY_ISLEAF used

	IsSequenceGenerator bool
	SequenceLimit       string // integer literal or identifier; bind variables keep their colon
	SequenceExclusive   bool   // LEVEL < n rather than LEVEL <= n
}

// TableAlias returns the alias rows of the FROM target are qualified with:
// the explicit alias when one was written, otherwise the last segment of the
// table name.
func (c *Components) TableAlias() string {
	if c.Alias != "" {
		return c.Alias
	}
	return sqltext.LastSegment(c.Table)
}

var (
	fromRe = regexp.MustCompile(`(?i)^([A-Za-z_][A-Za-z0-9_$#]*(?:\.[A-Za-z_][A-Za-z0-9_$#]*)?)(?:\s+(?:AS\s+)?([A-Za-z_][A-Za-z0-9_$#]*))?$`)

	sequenceRe = regexp.MustCompile(`(?i)^LEVEL\s*(<=|<)\s*(\d+|:?[A-Za-z_][A-Za-z0-9_$#]*)$`)

	// reservedAliases cannot be FROM aliases; seeing one means the clause
	// split went wrong.
	reservedAliases = map[string]bool{
		"START": true, "CONNECT": true, "WHERE": true, "ORDER": true,
		"GROUP": true, "HAVING": true, "UNION": true, "MINUS": true,
		"INTERSECT": true, "JOIN": true, "INNER": true, "LEFT": true,
		"RIGHT": true, "FULL": true, "CROSS": true, "NATURAL": true, "AS": true,
	}
)

// HasConnectBy reports whether sql contains CONNECT BY outside literals.
func HasConnectBy(sql string) bool {
	total, _ := sqltext.NewScan(sqltext.Normalize(sql)).Count("CONNECT", "BY")
	return total > 0
}

// Extract splits a hierarchical query into its components.
//
// Whitespace is normalized and a trailing semicolon is ignored. Extract
// returns ErrNotHierarchical when there is no CONNECT BY, and an error
// wrapping ErrStructureUnrecognized when the statement cannot be split.
func Extract(sql string) (*Components, error) {
	text := strings.TrimSpace(strings.TrimSuffix(sqltext.Normalize(sql), ";"))
	sc := sqltext.NewScan(text)

	total, topLevel := sc.Count("CONNECT", "BY")
	switch {
	case total == 0:
		return nil, ErrNotHierarchical
	case total > 1:
		return nil, fmt.Errorf("%w (found %d)", ErrMultipleConnectBy, total)
	case topLevel == 0:
		return nil, fmt.Errorf("%w: CONNECT BY inside a subquery", ErrStructureUnrecognized)
	}

	cl, err := splitClauses(sc)
	if err != nil {
		return nil, err
	}

	c := &Components{
		Where:           cl.body(clauseWhere),
		StartWith:       cl.body(clauseStartWith),
		ConnectBy:       cl.body(clauseConnectBy),
		OrderSiblingsBy: cl.body(clauseOrderSiblingsBy),
		OrderBy:         cl.body(clauseOrderBy),
		GroupBy:         cl.body(clauseGroupBy),
		Having:          cl.body(clauseHaving),
		HasNoCycle:      cl.noCycle,
	}
	if c.ConnectBy == "" {
		return nil, fmt.Errorf("%w: empty CONNECT BY condition", ErrStructureUnrecognized)
	}

	if err := c.setSelectList(cl.body(clauseSelect)); err != nil {
		return nil, err
	}

	from := cl.body(clauseFrom)
	if m := sequenceRe.FindStringSubmatch(c.ConnectBy); m != nil && strings.EqualFold(from, "DUAL") {
		c.Table = "DUAL"
		c.IsSequenceGenerator = true
		c.SequenceExclusive = m[1] == "<"
		c.SequenceLimit = m[2]
		c.HasLevel = true
		return c, nil
	}

	if err := c.setFrom(from); err != nil {
		return nil, err
	}

	c.HasPrior = sqltext.HasWord(c.ConnectBy, "PRIOR")
	c.HasLevel = c.usesLevel()
	c.HasPath = sqltext.HasWord(text, "SYS_CONNECT_BY_PATH")
	c.HasRoot = sqltext.HasWord(text, "CONNECT_BY_ROOT")
	c.HasIsLeaf = sqltext.HasWord(text, "CONNECT_BY_ISLEAF")
	return c, nil
}

// usesLevel reports whether LEVEL is referenced as a value. A select item
// merely aliased "level" does not count.
func (c *Components) usesLevel() bool {
	for _, item := range c.SelectItems {
		expr, _, _ := sqltext.SplitAlias(item)
		if sqltext.HasWord(expr, "LEVEL") {
			return true
		}
	}
	for _, clause := range []string{c.Where, c.StartWith, c.ConnectBy, c.OrderSiblingsBy, c.OrderBy, c.GroupBy, c.Having} {
		if sqltext.HasWord(clause, "LEVEL") {
			return true
		}
	}
	return false
}

func (c *Components) setSelectList(body string) error {
	words := sqltext.Words(body)
	if len(words) > 0 && words[0].Start == 0 {
		switch strings.ToUpper(words[0].Text) {
		case "DISTINCT", "UNIQUE":
			c.Distinct = true
			body = strings.TrimSpace(body[words[0].End:])
		case "ALL":
			body = strings.TrimSpace(body[words[0].End:])
		}
	}
	c.SelectItems = sqltext.SplitTopLevel(body, ',')
	if len(c.SelectItems) == 0 {
		return fmt.Errorf("%w: empty select list", ErrStructureUnrecognized)
	}
	return nil
}

func (c *Components) setFrom(body string) error {
	m := fromRe.FindStringSubmatch(body)
	if m == nil {
		return fmt.Errorf("%w: FROM must name a single table, got %q", ErrStructureUnrecognized, body)
	}
	if reservedAliases[strings.ToUpper(m[2])] {
		return fmt.Errorf("%w: FROM must name a single table, got %q", ErrStructureUnrecognized, body)
	}
	c.Table = m[1]
	c.Alias = m[2]
	return nil
}
