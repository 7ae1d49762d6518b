package parse

import (
	"slices"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/ahi/ebnf/grammar"
)

// symbol is a terminal token kind or a nonterminal index.
type symbol struct {
	terminal bool
	kind     int
	nt       int
}

type rule struct {
	lhs int
	rhs []symbol
}

// bnf is the syntactic part of a grammar with options, repetitions and
// groups rewritten into plain rules over helper nonterminals.
type bnf struct {
	grammar *grammar.Grammar

	names    []string // production name, or the enclosing one for helpers
	helper   []bool
	rules    []rule
	byLHS    [][]int
	nullable []bool
	nonterms map[string]int
}

func newBNF(g *grammar.Grammar) *bnf {
	b := &bnf{
		grammar:  g,
		nonterms: make(map[string]int),
	}

	var productions []*ebnf.Production
	for name, p := range g.Source() {
		if !grammar.IsLexical(name) {
			productions = append(productions, p)
		}
	}
	slices.SortFunc(productions, func(x, y *ebnf.Production) int {
		return x.Pos().Offset - y.Pos().Offset
	})
	for _, p := range productions {
		b.nonterms[p.Name.String] = b.newNonterm(p.Name.String, false)
	}
	for _, p := range productions {
		b.addAlternatives(b.nonterms[p.Name.String], p.Expr)
	}
	b.computeNullable()
	return b
}

func (b *bnf) newNonterm(name string, helper bool) int {
	b.names = append(b.names, name)
	b.helper = append(b.helper, helper)
	b.byLHS = append(b.byLHS, nil)
	return len(b.names) - 1
}

func (b *bnf) addRule(lhs int, rhs []symbol) {
	b.byLHS[lhs] = append(b.byLHS[lhs], len(b.rules))
	b.rules = append(b.rules, rule{lhs: lhs, rhs: rhs})
}

func (b *bnf) addAlternatives(lhs int, x ebnf.Expression) {
	if alt, ok := x.(ebnf.Alternative); ok {
		for _, e := range alt {
			b.addAlternatives(lhs, e)
		}
		return
	}
	b.addRule(lhs, b.sequence(lhs, x))
}

func (b *bnf) sequence(lhs int, x ebnf.Expression) []symbol {
	if x == nil {
		return nil
	}
	if seq, ok := x.(ebnf.Sequence); ok {
		var rhs []symbol
		for _, e := range seq {
			rhs = append(rhs, b.sequence(lhs, e)...)
		}
		return rhs
	}
	return []symbol{b.symbol(lhs, x)}
}

func (b *bnf) symbol(lhs int, x ebnf.Expression) symbol {
	switch x := x.(type) {
	case *ebnf.Token:
		kind, _ := b.grammar.LiteralKind(x.String)
		return symbol{terminal: true, kind: kind}
	case *ebnf.Name:
		if nt, ok := b.nonterms[x.String]; ok {
			return symbol{nt: nt}
		}
		kind, _ := b.grammar.NamedKind(x.String)
		return symbol{terminal: true, kind: kind}
	case *ebnf.Group:
		nt := b.newNonterm(b.names[lhs], true)
		b.addAlternatives(nt, x.Body)
		return symbol{nt: nt}
	case *ebnf.Option:
		nt := b.newNonterm(b.names[lhs], true)
		b.addAlternatives(nt, x.Body)
		b.addRule(nt, nil)
		return symbol{nt: nt}
	case *ebnf.Repetition:
		nt := b.newNonterm(b.names[lhs], true)
		b.addRule(nt, nil)
		for _, rhs := range b.bodies(nt, x.Body) {
			b.addRule(nt, append(rhs, symbol{nt: nt}))
		}
		return symbol{nt: nt}
	case ebnf.Alternative:
		nt := b.newNonterm(b.names[lhs], true)
		b.addAlternatives(nt, x)
		return symbol{nt: nt}
	}
	return symbol{terminal: true, kind: -1}
}

func (b *bnf) bodies(lhs int, x ebnf.Expression) [][]symbol {
	alt, ok := x.(ebnf.Alternative)
	if !ok {
		return [][]symbol{b.sequence(lhs, x)}
	}
	var out [][]symbol
	for _, e := range alt {
		out = append(out, b.sequence(lhs, e))
	}
	return out
}

func (b *bnf) computeNullable() {
	b.nullable = make([]bool, len(b.names))
	for changed := true; changed; {
		changed = false
		for _, r := range b.rules {
			if b.nullable[r.lhs] {
				continue
			}
			all := true
			for _, s := range r.rhs {
				if s.terminal || !b.nullable[s.nt] {
					all = false
					break
				}
			}
			if all {
				b.nullable[r.lhs] = true
				changed = true
			}
		}
	}
}

func (b *bnf) symbolName(s symbol) string {
	if s.terminal {
		return b.grammar.TokenName(s.kind)
	}
	if b.helper[s.nt] {
		return "(" + b.names[s.nt] + ")"
	}
	return b.names[s.nt]
}
