package sqltext

import "testing"

func TestWords(t *testing.T) {
	toks := Words("SELECT a, f(b) FROM t WHERE x = 'CONNECT BY'")
	var got []string
	for _, tok := range toks {
		got = append(got, tok.Text)
	}
	want := []string{"SELECT", "a", "f", "b", "FROM", "t", "WHERE", "x"}
	if len(got) != len(want) {
		t.Fatalf("Words() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Words()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if toks[3].Depth != 1 {
		t.Errorf("depth of b = %d, want 1", toks[3].Depth)
	}
}

func TestScan_MatchAt(t *testing.T) {
	sc := NewScan("SELECT x FROM t connect  by prior id = pid ORDER SIBLINGS BY name")
	tests := []struct {
		name   string
		index  int
		phrase []string
		want   bool
	}{
		{"connect by", 4, []string{"CONNECT", "BY"}, true},
		{"siblings", 9, []string{"ORDER", "SIBLINGS", "BY"}, true},
		{"order by is not siblings", 9, []string{"ORDER", "BY"}, false},
		{"out of range", 12, []string{"NAME", "X"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sc.MatchAt(tt.index, tt.phrase...); got != tt.want {
				t.Errorf("MatchAt(%d, %v) = %v, want %v", tt.index, tt.phrase, got, tt.want)
			}
		})
	}
}

func TestScan_Count(t *testing.T) {
	sc := NewScan("SELECT * FROM (SELECT id FROM t CONNECT BY PRIOR id = pid) CONNECT BY PRIOR a = b")
	total, top := sc.Count("CONNECT", "BY")
	if total != 2 || top != 1 {
		t.Errorf("Count() = (%d, %d), want (2, 1)", total, top)
	}

	sc = NewScan("SELECT 'connect by' FROM t")
	if total, _ := sc.Count("CONNECT", "BY"); total != 0 {
		t.Errorf("Count() inside literal = %d, want 0", total)
	}
}

func TestHasWord(t *testing.T) {
	tests := []struct {
		s    string
		word string
		want bool
	}{
		{"SELECT LEVEL FROM t", "level", true},
		{"SELECT t.level FROM t", "LEVEL", false},
		{"SELECT levels FROM t", "LEVEL", false},
		{"SELECT 'LEVEL' FROM t", "LEVEL", false},
		{"WHERE level<3", "LEVEL", true},
	}
	for _, tt := range tests {
		if got := HasWord(tt.s, tt.word); got != tt.want {
			t.Errorf("HasWord(%q, %q) = %v, want %v", tt.s, tt.word, got, tt.want)
		}
	}
}

func TestReplaceWord(t *testing.T) {
	tests := []struct {
		name      string
		s         string
		word      string
		repl      string
		skipCalls bool
		want      string
	}{
		{"plain", "LEVEL * 10", "LEVEL", "1", false, "1 * 10"},
		{"every occurrence", "level + LEVEL", "LEVEL", "d", false, "d + d"},
		{"dotted left alone", "t.level + LEVEL", "LEVEL", "d", false, "t.level + d"},
		{"literal left alone", "'LEVEL' || LEVEL", "LEVEL", "d", false, "'LEVEL' || d"},
		{"call skipped", "level(x) + level", "LEVEL", "d", true, "level(x) + d"},
		{"no match", "a + b", "LEVEL", "d", false, "a + b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReplaceWord(tt.s, tt.word, tt.repl, tt.skipCalls); got != tt.want {
				t.Errorf("ReplaceWord() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnqualify(t *testing.T) {
	tests := []struct {
		s, qualifier, want string
	}{
		{"e.name DESC, e.id", "e", "name DESC, id"},
		{"E.name", "e", "name"},
		{"emp.e.name", "e", "emp.e.name"},
		{"'e.name'", "e", "'e.name'"},
		{"name", "", "name"},
		{"employees.salary > 10", "employees", "salary > 10"},
	}
	for _, tt := range tests {
		if got := Unqualify(tt.s, tt.qualifier); got != tt.want {
			t.Errorf("Unqualify(%q, %q) = %q, want %q", tt.s, tt.qualifier, got, tt.want)
		}
	}
}
