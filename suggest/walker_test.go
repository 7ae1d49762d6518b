package suggest

import (
	"reflect"
	"testing"

	"github.com/dhamidi/ahi/atn"
)

func TestWalkerFrontier(t *testing.T) {
	g := newFakeGrammar()
	a, b, c := g.literal("a"), g.literal("b"), g.literal("c")
	g.rule("S", []int{a, b}, []int{a, c}, []int{b})

	tests := []struct {
		tokens []int
		want   []int
	}{
		{nil, []int{a, b}},
		{[]int{a}, []int{b, c}},
		{[]int{b}, nil},
		{[]int{c}, nil},
	}
	for _, tt := range tests {
		var tokens []Token
		for _, k := range tt.tokens {
			tokens = append(tokens, Token{Kind: k})
		}
		var got []int
		w := newWalker(tokens, func(s *atn.State) error {
			labels, err := frontierLabels(s)
			if err != nil {
				return err
			}
			for _, l := range labels.Items() {
				if !contains(got, l) {
					got = append(got, l)
				}
			}
			return nil
		})
		if err := w.walk(g.parser.Start, 0); err != nil {
			t.Fatalf("walk(%v): %v", tt.tokens, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("frontier after %v = %v, want %v", tt.tokens, got, tt.want)
		}
	}
}

func TestWalkerRestoresGuard(t *testing.T) {
	g := newFakeGrammar()
	a := g.literal("a")
	g.rule("S", []int{a, a})

	w := newWalker([]Token{{Kind: a}}, func(*atn.State) error { return nil })
	if err := w.walk(g.parser.Start, 0); err != nil {
		t.Fatal(err)
	}
	if len(w.lastVisit) != 0 {
		t.Errorf("lastVisit has %d entries after walk, want 0", len(w.lastVisit))
	}
}

func TestAcceptsKind(t *testing.T) {
	p := atn.New(atn.KindParser)
	r := p.AddRule("S")
	start, stop := p.RuleStart[r], p.RuleStop[r]
	mid := p.NewState(r)
	start.AddEpsilon(mid)
	mid.AddEpsilon(start)
	mid.AddAtom(3, stop)
	mid.AddSet(atn.Range(5, 8), stop)

	for kind, want := range map[int]bool{3: true, 4: false, 5: true, 7: true, 8: false} {
		got, err := acceptsKind(start, kind, make(map[edge]bool))
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("acceptsKind(%d) = %v, want %v", kind, got, want)
		}
	}
}

func contains(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
