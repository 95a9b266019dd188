package sqltext

import "strings"

// Token is a bare word of SQL text found outside literals.
type Token struct {
	Text  string
	Start int // byte offset of the first character
	End   int // byte offset one past the last character
	Depth int // parenthesis depth
}

// Words returns every identifier-like word of s that lies outside literals,
// in order of appearance. Numbers are returned as words too.
func Words(s string) []Token {
	var out []Token
	depth := 0
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '\'' || c == '"':
			i = closingQuote(s, i) + 1
		case c == '(':
			depth++
			i++
		case c == ')':
			if depth > 0 {
				depth--
			}
			i++
		case isWordByte(c):
			j := i
			for j < len(s) && isWordByte(s[j]) {
				j++
			}
			out = append(out, Token{Text: s[i:j], Start: i, End: j, Depth: depth})
			i = j
		default:
			i++
		}
	}
	return out
}

// Scan is a tokenized view of a statement used to locate keyword phrases.
type Scan struct {
	Text   string
	Tokens []Token
}

// NewScan tokenizes s.
func NewScan(s string) *Scan {
	return &Scan{Text: s, Tokens: Words(s)}
}

// MatchAt reports whether the keyword phrase starts at token i. Phrase words
// compare case-insensitively, must share one depth and may only be separated
// by whitespace.
func (sc *Scan) MatchAt(i int, phrase ...string) bool {
	if i+len(phrase) > len(sc.Tokens) {
		return false
	}
	first := sc.Tokens[i]
	for k, word := range phrase {
		tok := sc.Tokens[i+k]
		if tok.Depth != first.Depth || !strings.EqualFold(tok.Text, word) {
			return false
		}
		if k > 0 && strings.TrimSpace(sc.Text[sc.Tokens[i+k-1].End:tok.Start]) != "" {
			return false
		}
	}
	return !dotted(sc.Text, first.Start, sc.Tokens[i+len(phrase)-1].End)
}

// Count returns how many times the phrase occurs at any depth.
func (sc *Scan) Count(phrase ...string) (total, topLevel int) {
	for i := range sc.Tokens {
		if sc.MatchAt(i, phrase...) {
			total++
			if sc.Tokens[i].Depth == 0 {
				topLevel++
			}
		}
	}
	return total, topLevel
}

// HasWord reports whether word appears in s as a standalone word outside
// literals. Words that are part of a dotted name (t.level) do not count.
func HasWord(s, word string) bool {
	for _, tok := range Words(s) {
		if strings.EqualFold(tok.Text, word) && !dotted(s, tok.Start, tok.End) {
			return true
		}
	}
	return false
}

// ReplaceWord replaces every standalone occurrence of word outside literals
// with repl. When skipCalls is set, occurrences followed by an opening
// parenthesis are left alone.
func ReplaceWord(s, word, repl string, skipCalls bool) string {
	var b strings.Builder
	last := 0
	for _, tok := range Words(s) {
		if !strings.EqualFold(tok.Text, word) || dotted(s, tok.Start, tok.End) {
			continue
		}
		if skipCalls && followedByParen(s, tok.End) {
			continue
		}
		b.WriteString(s[last:tok.Start])
		b.WriteString(repl)
		last = tok.End
	}
	if last == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

// Unqualify removes "qualifier." prefixes from column references outside
// literals.
func Unqualify(s, qualifier string) string {
	if qualifier == "" {
		return s
	}
	var b strings.Builder
	last := 0
	for _, tok := range Words(s) {
		if !strings.EqualFold(tok.Text, qualifier) {
			continue
		}
		if tok.End >= len(s) || s[tok.End] != '.' || (tok.Start > 0 && s[tok.Start-1] == '.') {
			continue
		}
		b.WriteString(s[last:tok.Start])
		last = tok.End + 1
	}
	if last == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

// dotted reports whether the word spanning [start, end) is joined to a
// neighbour by a dot.
func dotted(s string, start, end int) bool {
	return (start > 0 && s[start-1] == '.') || (end < len(s) && s[end] == '.')
}

func followedByParen(s string, i int) bool {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i < len(s) && s[i] == '('
}
