package analysis

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pthm/hiercte/internal/sqltext"
)

// Column is one classified select-list item. The concrete types are
// PlainColumn, LevelColumn, LevelExprColumn, PathColumn, RootColumn,
// IsLeafColumn, AggregateColumn and CarriedColumn.
type Column interface {
	// Name is the column name exposed by the anchor and recursive members
	// and referenced by the outer projection.
	Name() string
	// Kind reports how the column is rewritten.
	Kind() Kind
	column()
}

// PlainColumn is an ordinary select-list expression.
type PlainColumn struct {
	Text      string // item as written
	Expr      string // item without its alias
	Alias     string // empty for unaliased column references
	Synthetic bool   // Alias was generated for an unaliased expression
}

func (c PlainColumn) Name() string {
	if c.Alias != "" {
		return c.Alias
	}
	if c.IsStar() {
		return "*"
	}
	return sqltext.LastSegment(c.Expr)
}

func (PlainColumn) Kind() Kind { return KindPlain }
func (PlainColumn) column()    {}

// IsStar reports whether the column is * or alias.*.
func (c PlainColumn) IsStar() bool {
	return c.Expr == "*" || strings.HasSuffix(c.Expr, ".*")
}

// LevelColumn is the LEVEL pseudo-column. Hidden marks a depth column the
// rewriter added because the query needs depth without selecting LEVEL.
type LevelColumn struct {
	Alias  string
	Hidden bool
}

func (c LevelColumn) Name() string { return c.Alias }
func (LevelColumn) Kind() Kind     { return KindLevel }
func (LevelColumn) column()        {}

// LevelExprColumn is an expression that references LEVEL.
type LevelExprColumn struct {
	Expr  string
	Alias string
}

func (c LevelExprColumn) Name() string { return c.Alias }
func (LevelExprColumn) Kind() Kind     { return KindLevelExpr }
func (LevelExprColumn) column()        {}

// PathColumn is SYS_CONNECT_BY_PATH(Expr, 'Delimiter').
type PathColumn struct {
	Expr      string
	Delimiter string // unquoted
	Alias     string
}

func (c PathColumn) Name() string { return c.Alias }
func (PathColumn) Kind() Kind     { return KindPath }
func (PathColumn) column()        {}

// RootColumn is CONNECT_BY_ROOT Expr.
type RootColumn struct {
	Expr  string
	Alias string
}

func (c RootColumn) Name() string { return c.Alias }
func (RootColumn) Kind() Kind     { return KindRoot }
func (RootColumn) column()        {}

// IsLeafColumn is CONNECT_BY_ISLEAF.
type IsLeafColumn struct {
	Alias string
}

func (c IsLeafColumn) Name() string { return c.Alias }
func (IsLeafColumn) Kind() Kind     { return KindIsLeaf }
func (IsLeafColumn) column()        {}

// AggregateColumn is an expression calling an aggregate or window function.
// An unaliased aggregate is projected as written.
type AggregateColumn struct {
	Expr  string
	Alias string
}

func (c AggregateColumn) Name() string { return orDefault(c.Alias, c.Expr) }
func (AggregateColumn) Kind() Kind     { return KindAggregate }
func (AggregateColumn) column()        {}

// CarriedColumn is a base-table column the CTE members project so the join
// or the outer query can reference it. It is never part of the outer
// projection.
type CarriedColumn struct {
	Ref   string // column name in the base table
	Alias string // name exposed by the CTE, Ref unless that name was taken
}

func (c CarriedColumn) Name() string { return c.Alias }
func (CarriedColumn) Kind() Kind     { return KindCarried }
func (CarriedColumn) column()        {}

// Columns is the result of ClassifyColumns.
type Columns struct {
	Items []Column
	// Depth names the column carrying the traversal depth, or is empty when
	// the query does not need one.
	Depth string
	// HiddenDepth is set when Depth names a column the rewriter appended.
	HiddenDepth bool
}

// Clone returns a copy whose Items can be appended to without touching c.
func (c Columns) Clone() Columns {
	c.Items = append([]Column(nil), c.Items...)
	return c
}

// Projects reports whether the CTE exposes a column called name.
func (c Columns) Projects(name string) bool {
	for _, col := range c.Items {
		if p, ok := col.(PlainColumn); ok && p.IsStar() {
			return true
		}
		if strings.EqualFold(col.Name(), name) {
			return true
		}
	}
	return false
}

// Carry returns the name of the CTE column holding base-table column ref,
// appending a CarriedColumn when no item holds it under any name.
func (c *Columns) Carry(ref string) string {
	names := newNameSet()
	for _, col := range c.Items {
		switch col := col.(type) {
		case PlainColumn:
			if col.IsStar() {
				return ref
			}
			if !col.Synthetic && isColumnRef(col.Expr) && strings.EqualFold(sqltext.LastSegment(col.Expr), ref) {
				return col.Name()
			}
		case CarriedColumn:
			if strings.EqualFold(col.Ref, ref) {
				return col.Alias
			}
		}
		names.add(col.Name())
	}
	carried := CarriedColumn{Ref: ref, Alias: names.unique(ref, len(c.Items))}
	c.Items = append(c.Items, carried)
	return carried.Alias
}

// Expose makes sure the CTE has a column called ref, carrying the
// base-table column of that name when no item is called ref.
func (c *Columns) Expose(ref string) {
	if !c.Projects(ref) {
		c.Items = append(c.Items, CarriedColumn{Ref: ref, Alias: ref})
	}
}

// Carried returns the names of the carried columns, in order.
func (c Columns) Carried() []string {
	var out []string
	for _, col := range c.Items {
		if col.Kind() == KindCarried {
			out = append(out, col.Name())
		}
	}
	return out
}

// Has reports whether any item has kind k.
func (c Columns) Has(k Kind) bool {
	for _, col := range c.Items {
		if col.Kind() == k {
			return true
		}
	}
	return false
}

const (
	aliasPattern = `(?:\s+(?:AS\s+)?([A-Za-z_][A-Za-z0-9_$#]*|"[^"]+"))?`
	colPattern   = `[A-Za-z_][A-Za-z0-9_$#]*(?:\.[A-Za-z_][A-Za-z0-9_$#]*)?`
)

var (
	levelRe      = regexp.MustCompile(`(?i)^LEVEL` + aliasPattern + `$`)
	isLeafRe     = regexp.MustCompile(`(?i)^CONNECT_BY_ISLEAF` + aliasPattern + `$`)
	rootRe       = regexp.MustCompile(`(?i)^CONNECT_BY_ROOT(?:\s*\(\s*(` + colPattern + `)\s*\)|\s+(` + colPattern + `))` + aliasPattern + `$`)
	pathPrefixRe = regexp.MustCompile(`(?i)^SYS_CONNECT_BY_PATH\s*\(`)
	pathAliasRe  = regexp.MustCompile(`(?i)^(?:AS\s+)?([A-Za-z_][A-Za-z0-9_$#]*|"[^"]+")$`)
)

// ClassifyColumns classifies select-list items and picks the depth column.
// The depth column is the first LEVEL item; when there is none and
// needDepth is set, a hidden LEVEL column is appended.
func ClassifyColumns(items []string, needDepth bool) Columns {
	names := newNameSet()
	classified := make([]Column, len(items))
	for i, item := range items {
		classified[i] = classify(item)
		if !synthetic(classified[i]) {
			names.add(classified[i].Name())
		}
	}
	for i, col := range classified {
		if synthetic(col) {
			classified[i] = rename(col, names.unique(col.Name(), i))
		}
	}

	out := Columns{Items: classified}
	for _, col := range classified {
		if col.Kind() == KindLevel {
			out.Depth = col.Name()
			break
		}
	}
	if out.Depth == "" && needDepth {
		hidden := LevelColumn{Alias: names.unique("level", len(classified)), Hidden: true}
		out.Items = append(out.Items, hidden)
		out.Depth = hidden.Alias
		out.HiddenDepth = true
	}
	return out
}

// classify applies the classification rules in order; the first match wins.
// Synthetic names are placeholders until ClassifyColumns makes them unique.
func classify(item string) Column {
	item = strings.TrimSpace(item)

	if m := levelRe.FindStringSubmatch(item); m != nil && !sqltext.IsKeyword(m[1]) {
		return LevelColumn{Alias: orDefault(m[1], "level")}
	}
	if col, ok := classifyPath(item); ok {
		return col
	}
	if m := rootRe.FindStringSubmatch(item); m != nil && !sqltext.IsKeyword(m[3]) {
		expr := m[1] + m[2]
		return RootColumn{Expr: expr, Alias: orDefault(m[3], syntheticPrefix+"root_"+sqltext.LastSegment(expr))}
	}
	if m := isLeafRe.FindStringSubmatch(item); m != nil && !sqltext.IsKeyword(m[1]) {
		return IsLeafColumn{Alias: orDefault(m[1], syntheticPrefix+"is_leaf")}
	}

	expr, alias, ok := sqltext.SplitAlias(item)
	if isAggregate(expr) {
		return AggregateColumn{Expr: expr, Alias: alias}
	}
	if sqltext.HasWord(expr, "LEVEL") {
		if !ok {
			alias = syntheticPrefix + "level_expr"
		}
		return LevelExprColumn{Expr: expr, Alias: alias}
	}
	if ok {
		return PlainColumn{Text: item, Expr: expr, Alias: alias}
	}
	col := PlainColumn{Text: item, Expr: item}
	if !col.IsStar() && !isColumnRef(item) {
		col.Alias = syntheticPrefix + "expr"
		col.Synthetic = true
	}
	return col
}

func classifyPath(item string) (Column, bool) {
	loc := pathPrefixRe.FindStringIndex(item)
	if loc == nil {
		return nil, false
	}
	open := loc[1] - 1
	closing := sqltext.MatchingParen(item, open)
	if closing < 0 {
		return nil, false
	}
	args := sqltext.SplitTopLevel(item[open+1:closing], ',')
	if len(args) != 2 || !sqltext.IsQuoted(args[1]) {
		return nil, false
	}

	alias := syntheticPrefix + "path"
	if rest := strings.TrimSpace(item[closing+1:]); rest != "" {
		m := pathAliasRe.FindStringSubmatch(rest)
		if m == nil || sqltext.IsKeyword(m[1]) {
			return nil, false
		}
		alias = m[1]
	}
	return PathColumn{Expr: args[0], Delimiter: sqltext.Unquote(args[1]), Alias: alias}, true
}

// aggregates are functions that fold many rows into one value.
var aggregates = map[string]bool{
	"ARRAY_AGG": true, "AVG": true, "COLLECT": true, "COUNT": true,
	"LISTAGG": true, "MAX": true, "MEDIAN": true, "MIN": true,
	"STDDEV": true, "STRING_AGG": true, "SUM": true, "VARIANCE": true,
	"XMLAGG": true,
}

// isAggregate reports whether expr calls an aggregate or window function.
// Such expressions cannot be evaluated row by row inside the CTE members.
func isAggregate(expr string) bool {
	for _, name := range sqltext.Calls(expr) {
		if aggregates[name] {
			return true
		}
	}
	return sqltext.HasWord(expr, "OVER")
}

// isColumnRef reports whether s names a column: an identifier, optionally
// qualified, or a quoted identifier.
func isColumnRef(s string) bool {
	if sqltext.IsIdentifier(s) {
		return !sqltext.IsKeyword(s)
	}
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' && !strings.Contains(s[1:len(s)-1], `"`)
}

// syntheticPrefix marks generated names until they are made unique. It
// cannot occur in a real identifier.
const syntheticPrefix = "\x00"

func synthetic(c Column) bool {
	return strings.HasPrefix(c.Name(), syntheticPrefix)
}

func rename(c Column, name string) Column {
	switch c := c.(type) {
	case PlainColumn:
		c.Alias = name
		return c
	case LevelExprColumn:
		c.Alias = name
		return c
	case PathColumn:
		c.Alias = name
		return c
	case RootColumn:
		c.Alias = name
		return c
	case IsLeafColumn:
		c.Alias = name
		return c
	default:
		panic(fmt.Sprintf("analysis: cannot rename %T", c))
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// nameSet tracks column names case-insensitively.
type nameSet map[string]bool

func newNameSet() nameSet { return nameSet{} }

func (n nameSet) add(name string) {
	n[strings.ToLower(name)] = true
}

// unique returns base, made unique against the set, and records it.
// Placeholders for expressions become "<base>_<index>".
func (n nameSet) unique(base string, index int) string {
	base = strings.TrimPrefix(base, syntheticPrefix)
	if base == "expr" || base == "level_expr" {
		base += "_" + strconv.Itoa(index)
	}
	name := base
	for i := 2; n[strings.ToLower(name)]; i++ {
		name = base + "_" + strconv.Itoa(i)
	}
	n.add(name)
	return name
}
