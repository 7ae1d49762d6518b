package parse

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dhamidi/ahi/ebnf/grammar"
	"github.com/dhamidi/ahi/ebnflex"
)

// EarleyParser implements Earley parsing for EBNF grammars.
// Ambiguous input yields the first derivation in rule order.
type EarleyParser struct {
	grammar *grammar.Grammar
	bnf     *bnf
	tokens  []ebnflex.Token

	chart     []*ItemSet
	completed map[span]bool
}

// Item represents an Earley item: a rule with a dot position and origin.
type Item struct {
	Rule   int // index into the rewritten rules
	Dot    int // number of right-hand side symbols already matched
	Origin int // chart position where this item started
}

// ItemSet is a set of Earley items at a particular chart position.
type ItemSet struct {
	items    []Item
	seen     map[Item]bool
	position int
}

func newItemSet(pos int) *ItemSet {
	return &ItemSet{
		seen:     make(map[Item]bool),
		position: pos,
	}
}

// Add appends item unless the set already holds it.
func (s *ItemSet) Add(item Item) bool {
	if s.seen[item] {
		return false
	}
	s.seen[item] = true
	s.items = append(s.items, item)
	return true
}

// Items returns the items in insertion order.
func (s *ItemSet) Items() []Item {
	return s.items
}

// Position returns the index of the set in the chart.
func (s *ItemSet) Position() int {
	return s.position
}

type span struct {
	nt, start, end int
}

// NewEarleyParser creates a parser for tokens. Tokens off the default
// channel and the EOF token are ignored.
func NewEarleyParser(g *grammar.Grammar, tokens []ebnflex.Token) *EarleyParser {
	p := &EarleyParser{
		grammar: g,
		bnf:     newBNF(g),
	}
	for _, tok := range tokens {
		if tok.Kind != 0 && tok.Channel == 0 {
			p.tokens = append(p.tokens, tok)
		}
	}
	return p
}

// Chart returns the item sets of the last run.
func (p *EarleyParser) Chart() []*ItemSet {
	return p.chart
}

// Describe renders an item as "Rule → a • b, origin".
func (p *EarleyParser) Describe(item Item) string {
	r := p.bnf.rules[item.Rule]
	var b strings.Builder
	b.WriteString(p.bnf.symbolName(symbol{nt: r.lhs}))
	b.WriteString(" →")
	for i, s := range r.rhs {
		if i == item.Dot {
			b.WriteString(" •")
		}
		b.WriteString(" ")
		b.WriteString(p.bnf.symbolName(s))
	}
	if item.Dot == len(r.rhs) {
		b.WriteString(" •")
	}
	fmt.Fprintf(&b, ", %d", item.Origin)
	return b.String()
}

// Recognize runs the parser from start and reports whether all tokens form
// a sentence of start. An empty start means the grammar's start production.
func (p *EarleyParser) Recognize(start string) error {
	if start == "" {
		start = p.grammar.Start()
	}
	nt, ok := p.bnf.nonterms[start]
	if !ok {
		return fmt.Errorf("production %q not found in grammar", start)
	}

	n := len(p.tokens)
	p.chart = make([]*ItemSet, n+1)
	for i := range p.chart {
		p.chart[i] = newItemSet(i)
	}
	p.completed = make(map[span]bool)

	for _, r := range p.bnf.byLHS[nt] {
		p.chart[0].Add(Item{Rule: r})
	}

	for i := 0; i <= n; i++ {
		// Items may be added to the current set while iterating.
		for j := 0; j < len(p.chart[i].items); j++ {
			item := p.chart[i].items[j]
			r := p.bnf.rules[item.Rule]
			if item.Dot == len(r.rhs) {
				p.complete(i, item)
				continue
			}
			next := r.rhs[item.Dot]
			if next.terminal {
				p.scan(i, item, next)
			} else {
				p.predict(i, item, next)
			}
		}
	}

	if p.completed[span{nt, 0, n}] {
		return nil
	}
	return p.syntaxError()
}

func (p *EarleyParser) predict(pos int, item Item, next symbol) {
	for _, r := range p.bnf.byLHS[next.nt] {
		p.chart[pos].Add(Item{Rule: r, Origin: pos})
	}
	if p.bnf.nullable[next.nt] {
		p.chart[pos].Add(Item{Rule: item.Rule, Dot: item.Dot + 1, Origin: item.Origin})
		p.completed[span{next.nt, pos, pos}] = true
	}
}

func (p *EarleyParser) scan(pos int, item Item, next symbol) {
	if pos >= len(p.tokens) || p.tokens[pos].Kind != next.kind {
		return
	}
	p.chart[pos+1].Add(Item{Rule: item.Rule, Dot: item.Dot + 1, Origin: item.Origin})
}

func (p *EarleyParser) complete(pos int, done Item) {
	lhs := p.bnf.rules[done.Rule].lhs
	p.completed[span{lhs, done.Origin, pos}] = true

	for _, item := range p.chart[done.Origin].items {
		r := p.bnf.rules[item.Rule]
		if item.Dot == len(r.rhs) {
			continue
		}
		next := r.rhs[item.Dot]
		if !next.terminal && next.nt == lhs {
			p.chart[pos].Add(Item{Rule: item.Rule, Dot: item.Dot + 1, Origin: item.Origin})
		}
	}
}

// syntaxError reports the first token no item could scan, with the token
// names that would have been accepted there.
func (p *EarleyParser) syntaxError() error {
	furthest := 0
	for i, set := range p.chart {
		if len(set.items) > 0 {
			furthest = i
		}
	}

	var expected []string
	for _, item := range p.chart[furthest].items {
		r := p.bnf.rules[item.Rule]
		if item.Dot < len(r.rhs) && r.rhs[item.Dot].terminal {
			name := p.grammar.TokenName(r.rhs[item.Dot].kind)
			if !slices.Contains(expected, name) {
				expected = append(expected, name)
			}
		}
	}

	err := &SyntaxError{Expected: expected}
	if furthest < len(p.tokens) {
		tok := p.tokens[furthest]
		err.Position = tok.Position
		err.Found = tok.Literal
	} else if n := len(p.tokens); n > 0 {
		err.Position = NewTerminal(p.tokens[n-1]).Span.End
	}
	return err
}

// Parse recognizes the tokens and builds the concrete syntax tree of the
// first derivation. Helper rules introduced for groups, options and
// repetitions do not appear in the tree.
func (p *EarleyParser) Parse(start string) (*Node, error) {
	if err := p.Recognize(start); err != nil {
		return nil, err
	}
	if start == "" {
		start = p.grammar.Start()
	}
	nt := p.bnf.nonterms[start]

	b := &treeBuilder{p: p, visiting: make(map[span]bool)}
	children, ok := b.derive(nt, 0, len(p.tokens))
	if !ok {
		return nil, fmt.Errorf("no derivation of %s", start)
	}
	root := NewNonTerminal(start)
	for _, c := range children {
		root.AddChild(c)
	}
	return root, nil
}

type treeBuilder struct {
	p        *EarleyParser
	visiting map[span]bool
}

func (b *treeBuilder) derive(nt, start, end int) ([]*Node, bool) {
	key := span{nt, start, end}
	if !b.p.completed[key] || b.visiting[key] {
		return nil, false
	}
	b.visiting[key] = true
	defer delete(b.visiting, key)

	for _, r := range b.p.bnf.byLHS[nt] {
		if children, ok := b.match(b.p.bnf.rules[r].rhs, start, end); ok {
			return children, true
		}
	}
	return nil, false
}

func (b *treeBuilder) match(rhs []symbol, start, end int) ([]*Node, bool) {
	if len(rhs) == 0 {
		return nil, start == end
	}
	s := rhs[0]
	if s.terminal {
		if start >= end || b.p.tokens[start].Kind != s.kind {
			return nil, false
		}
		rest, ok := b.match(rhs[1:], start+1, end)
		if !ok {
			return nil, false
		}
		return append([]*Node{NewTerminal(b.p.tokens[start])}, rest...), true
	}

	for mid := end; mid >= start; mid-- {
		if !b.p.completed[span{s.nt, start, mid}] {
			continue
		}
		rest, ok := b.match(rhs[1:], mid, end)
		if !ok {
			continue
		}
		children, ok := b.derive(s.nt, start, mid)
		if !ok {
			continue
		}
		if b.p.bnf.helper[s.nt] {
			return append(children, rest...), true
		}
		node := NewNonTerminal(b.p.bnf.names[s.nt])
		for _, c := range children {
			node.AddChild(c)
		}
		return append([]*Node{node}, rest...), true
	}
	return nil, false
}
