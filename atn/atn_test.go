package atn

import (
	"bytes"
	"strings"
	"testing"
)

func TestIntervalSetAddMerges(t *testing.T) {
	tests := []struct {
		name string
		set  IntervalSet
		want IntervalSet
	}{
		{"single", Range('a', 'z'+1), IntervalSet{{'a', 'z' + 1}}},
		{"adjacent", Range(1, 3).Add(3, 5), IntervalSet{{1, 5}}},
		{"overlapping", Range(1, 4).Add(2, 8), IntervalSet{{1, 8}}},
		{"disjoint", Range(10, 12).Add(1, 3), IntervalSet{{1, 3}, {10, 12}}},
		{"empty range ignored", Range(1, 2).Add(5, 5), IntervalSet{{1, 2}}},
		{"values", Of(3, 1, 2, 7), IntervalSet{{1, 4}, {7, 8}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set.String() != tt.want.String() {
				t.Errorf("set = %s, want %s", tt.set, tt.want)
			}
		})
	}
}

func TestIntervalSetContains(t *testing.T) {
	set := Range('a', 'c'+1).Add('X', 'Y'+1)

	for _, v := range []int{'a', 'b', 'c', 'X', 'Y'} {
		if !set.Contains(v) {
			t.Errorf("Contains(%q) = false, want true", rune(v))
		}
	}
	for _, v := range []int{'d', 'W', 'Z', 0} {
		if set.Contains(v) {
			t.Errorf("Contains(%q) = true, want false", rune(v))
		}
	}
	if set.Len() != 5 {
		t.Errorf("Len() = %d, want 5", set.Len())
	}
	values := set.Values()
	if len(values) != 5 || values[0] != 'X' || values[4] != 'c' {
		t.Errorf("Values() = %v", values)
	}
}

func TestAutomatonRules(t *testing.T) {
	a := New(KindParser)
	r := a.AddRule("Query")
	if r != 0 {
		t.Fatalf("AddRule = %d, want 0", r)
	}
	if a.Rule("Query") != 0 || a.Rule("Missing") != -1 {
		t.Errorf("Rule lookup mismatch")
	}
	mid := a.NewState(r)
	a.RuleStart[r].AddAtom(1, mid)
	mid.AddSet(Of(2, 3), a.RuleStop[r])

	if !a.IsRuleStop(a.RuleStop[r]) {
		t.Error("IsRuleStop(stop) = false, want true")
	}
	if a.IsRuleStop(mid) {
		t.Error("IsRuleStop(mid) = true, want false")
	}
	for i, s := range a.States {
		if s.ID != i {
			t.Errorf("States[%d].ID = %d", i, s.ID)
		}
	}
}

func TestDump(t *testing.T) {
	a := New(KindLexer)
	r := a.AddRule("word")
	mid := a.NewState(r)
	a.RuleStart[r].AddAtom('w', mid)
	mid.AddSet(Range('a', 'c'+1), a.RuleStop[r])

	var buf bytes.Buffer
	if err := a.Dump(&buf, nil); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"rule 0 word", "-'w'->", "['a'..'c']"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
}
