package grammar

import (
	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/ahi/atn"
)

// buildLexer creates one lexer rule per token kind. Rule i yields kind i+1.
func (c *compiler) buildLexer() *atn.Automaton {
	a := atn.New(atn.KindLexer)
	for _, def := range c.g.tokens {
		rule := a.AddRule(def.name)
		c.inlining = c.inlining[:0]
		if def.literal == "" {
			c.inlining = append(c.inlining, def.name)
		}
		t := &thompson{a: a, rule: rule, set: charSet}
		t.atom = func(x ebnf.Expression, from *atn.State) (*atn.State, bool) {
			return c.lexAtom(t, x, from)
		}
		t.build(def.expr, a.RuleStart[rule]).AddEpsilon(a.RuleStop[rule])
	}
	return a
}

func (c *compiler) lexAtom(t *thompson, x ebnf.Expression, from *atn.State) (*atn.State, bool) {
	switch x := x.(type) {
	case *ebnf.Token:
		s := from
		for _, r := range x.String {
			next := t.a.NewState(t.rule)
			s.AddAtom(int(r), next)
			s = next
		}
		return s, true
	case *ebnf.Range:
		set, ok := c.charRange(x)
		if !ok {
			return from, true
		}
		to := t.a.NewState(t.rule)
		from.AddSet(set, to)
		return to, true
	case *ebnf.Name:
		for _, name := range c.inlining {
			if name == x.String {
				c.errors.add(x.Pos(), "recursive lexical production %s", x.String)
				return from, true
			}
		}
		p, ok := c.source[x.String]
		if !ok {
			return from, true
		}
		c.inlining = append(c.inlining, x.String)
		to := t.build(p.Expr, from)
		c.inlining = c.inlining[:len(c.inlining)-1]
		return to, true
	case *ebnf.Bad:
		return from, true
	}
	return nil, false
}

func (c *compiler) charRange(x *ebnf.Range) (atn.IntervalSet, bool) {
	begin, ok1 := char(x.Begin)
	end, ok2 := char(x.End)
	switch {
	case !ok1 || !ok2:
		c.errors.add(x.Pos(), "range bounds must be single characters")
		return atn.IntervalSet{}, false
	case end < begin:
		c.errors.add(x.Pos(), "empty range %q … %q", begin, end)
		return atn.IntervalSet{}, false
	}
	return atn.Range(int(begin), int(end)+1), true
}

// charSet merges an alternative of single characters and ranges into one
// set.
func charSet(alt ebnf.Alternative) (atn.IntervalSet, bool) {
	var set atn.IntervalSet
	for _, x := range alt {
		switch x := x.(type) {
		case *ebnf.Token:
			r, ok := char(x)
			if !ok {
				return atn.IntervalSet{}, false
			}
			set = set.Add(int(r), int(r)+1)
		case *ebnf.Range:
			begin, ok1 := char(x.Begin)
			end, ok2 := char(x.End)
			if !ok1 || !ok2 || end < begin {
				return atn.IntervalSet{}, false
			}
			set = set.Union(atn.Range(int(begin), int(end)+1))
		default:
			return atn.IntervalSet{}, false
		}
	}
	return set, true
}

// buildParser creates one parser rule per syntactic production. A reference
// to a syntactic production enters its start state; its stop state returns
// to the state after every reference, whichever reference was taken.
func (c *compiler) buildParser() *atn.Automaton {
	a := atn.New(atn.KindParser)
	rules := make(map[string]int)
	var syntactic []*ebnf.Production
	for _, p := range c.productions {
		if IsLexical(p.Name.String) {
			continue
		}
		rules[p.Name.String] = a.AddRule(p.Name.String)
		syntactic = append(syntactic, p)
	}

	for _, p := range syntactic {
		rule := rules[p.Name.String]
		t := &thompson{a: a, rule: rule, set: c.tokenSet}
		t.atom = func(x ebnf.Expression, from *atn.State) (*atn.State, bool) {
			return c.parseAtom(t, rules, x, from)
		}
		t.build(p.Expr, a.RuleStart[rule]).AddEpsilon(a.RuleStop[rule])
	}

	a.Start = a.RuleStart[rules[c.g.start]]
	return a
}

func (c *compiler) parseAtom(t *thompson, rules map[string]int, x ebnf.Expression, from *atn.State) (*atn.State, bool) {
	if kind, ok := c.tokenKind(x); ok {
		to := t.a.NewState(t.rule)
		from.AddAtom(kind, to)
		return to, true
	}
	switch x := x.(type) {
	case *ebnf.Name:
		callee, ok := rules[x.String]
		if !ok {
			return from, true
		}
		follow := t.a.NewState(t.rule)
		from.AddEpsilon(t.a.RuleStart[callee])
		t.a.RuleStop[callee].AddEpsilon(follow)
		return follow, true
	case *ebnf.Token, *ebnf.Range, *ebnf.Bad:
		return from, true
	}
	return nil, false
}

// tokenKind returns the kind matched by a literal or a reference to a
// token production.
func (c *compiler) tokenKind(x ebnf.Expression) (int, bool) {
	switch x := x.(type) {
	case *ebnf.Token:
		k, ok := c.g.literals[x.String]
		return k, ok
	case *ebnf.Name:
		if !IsLexical(x.String) {
			return 0, false
		}
		k, ok := c.g.named[x.String]
		return k, ok
	}
	return 0, false
}

// tokenSet merges an alternative of tokens into one set of kinds.
func (c *compiler) tokenSet(alt ebnf.Alternative) (atn.IntervalSet, bool) {
	var set atn.IntervalSet
	for _, x := range alt {
		k, ok := c.tokenKind(x)
		if !ok {
			return atn.IntervalSet{}, false
		}
		set = set.Add(k, k+1)
	}
	return set, true
}
