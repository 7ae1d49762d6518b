package grammar

import (
	"slices"
	"text/scanner"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/ahi/atn"
)

type compiler struct {
	source ebnf.Grammar
	g      *Grammar
	errors ErrorList

	productions []*ebnf.Production // in source order
	inlining    []string           // lexical productions being inlined
}

func (c *compiler) run(o options) {
	c.productions = make([]*ebnf.Production, 0, len(c.source))
	for _, p := range c.source {
		c.productions = append(c.productions, p)
	}
	slices.SortFunc(c.productions, func(a, b *ebnf.Production) int {
		return a.Pos().Offset - b.Pos().Offset
	})

	c.checkReferences()
	c.selectStart(o.start)
	c.assignKinds(o.hidden)
	if len(c.errors) > 0 {
		return
	}

	c.g.lexer = c.buildLexer()
	c.g.parser = c.buildParser()
}

// checkReferences reports names without a production and lexical
// productions that refer to syntactic ones.
func (c *compiler) checkReferences() {
	for _, p := range c.productions {
		lexical := IsLexical(p.Name.String)
		walk(p.Expr, func(x ebnf.Expression) {
			switch x := x.(type) {
			case *ebnf.Name:
				if _, ok := c.source[x.String]; !ok {
					c.errors.add(x.Pos(), "missing production %s", x.String)
				} else if lexical && !IsLexical(x.String) {
					c.errors.add(x.Pos(), "reference to non-lexical production %s in lexical production %s", x.String, p.Name.String)
				}
			case *ebnf.Bad:
				c.errors.add(x.Pos(), "%s", x.Error)
			}
		})
	}
}

func (c *compiler) selectStart(start string) {
	if start == "" {
		for _, p := range c.productions {
			if !IsLexical(p.Name.String) {
				start = p.Name.String
				break
			}
		}
		if start == "" {
			c.errors.add(scanner.Position{}, "no syntactic production to start from")
			return
		}
	}
	p, ok := c.source[start]
	switch {
	case !ok:
		c.errors.add(scanner.Position{}, "missing start production %s", start)
	case IsLexical(start):
		c.errors.add(p.Pos(), "start production %s is lexical", start)
	}
	c.g.start = start
}

// assignKinds numbers literal tokens first, then named tokens, then hidden
// tokens.
func (c *compiler) assignKinds(hidden []string) {
	var named []string
	seen := make(map[string]bool)
	for _, p := range c.productions {
		if IsLexical(p.Name.String) {
			continue
		}
		walk(p.Expr, func(x ebnf.Expression) {
			switch x := x.(type) {
			case *ebnf.Token:
				if x.String == "" {
					c.errors.add(x.Pos(), "empty literal in syntactic production %s", p.Name.String)
					return
				}
				if _, ok := c.g.literals[x.String]; !ok {
					c.addToken(tokenDef{name: quote(x.String), literal: x.String, expr: x})
					c.g.literals[x.String] = len(c.g.tokens)
				}
			case *ebnf.Range:
				c.errors.add(x.Pos(), "character range in syntactic production %s", p.Name.String)
			case *ebnf.Name:
				if IsLexical(x.String) && !seen[x.String] {
					seen[x.String] = true
					named = append(named, x.String)
				}
			}
		})
	}

	slices.SortStableFunc(named, func(a, b string) int {
		return c.offsetOf(a) - c.offsetOf(b)
	})
	for _, name := range named {
		p, ok := c.source[name]
		if !ok {
			continue
		}
		c.addToken(tokenDef{name: name, expr: p.Expr})
		c.g.named[name] = len(c.g.tokens)
	}

	for _, name := range hidden {
		p, ok := c.source[name]
		switch {
		case !ok:
			c.errors.add(scanner.Position{}, "missing hidden production %s", name)
			continue
		case !IsLexical(name):
			c.errors.add(p.Pos(), "hidden production %s is not lexical", name)
			continue
		case seen[name]:
			c.errors.add(p.Pos(), "hidden production %s is used by syntactic productions", name)
			continue
		}
		if _, dup := c.g.named[name]; dup {
			continue
		}
		c.addToken(tokenDef{name: name, expr: p.Expr, channel: HiddenChannel})
		c.g.named[name] = len(c.g.tokens)
		c.g.hidden = append(c.g.hidden, name)
	}
}

func (c *compiler) addToken(t tokenDef) {
	c.g.tokens = append(c.g.tokens, t)
}

func (c *compiler) offsetOf(name string) int {
	if p, ok := c.source[name]; ok {
		return p.Pos().Offset
	}
	return -1
}

// walk calls f for x and every expression nested in it.
func walk(x ebnf.Expression, f func(ebnf.Expression)) {
	if x == nil {
		return
	}
	f(x)
	switch x := x.(type) {
	case ebnf.Alternative:
		for _, e := range x {
			walk(e, f)
		}
	case ebnf.Sequence:
		for _, e := range x {
			walk(e, f)
		}
	case *ebnf.Group:
		walk(x.Body, f)
	case *ebnf.Option:
		walk(x.Body, f)
	case *ebnf.Repetition:
		walk(x.Body, f)
	}
}

// thompson holds the construction shared by both automata: each expression
// is built as a fragment from an entry state and returns its exit state.
type thompson struct {
	a    *atn.Automaton
	rule int
	atom func(x ebnf.Expression, from *atn.State) (*atn.State, bool)
	set  func(alt ebnf.Alternative) (atn.IntervalSet, bool)
}

func (t *thompson) build(x ebnf.Expression, from *atn.State) *atn.State {
	if x == nil {
		return from
	}
	if to, ok := t.atom(x, from); ok {
		return to
	}
	switch x := x.(type) {
	case ebnf.Sequence:
		s := from
		for _, e := range x {
			s = t.build(e, s)
		}
		return s
	case ebnf.Alternative:
		if set, ok := t.set(x); ok {
			to := t.a.NewState(t.rule)
			from.AddSet(set, to)
			return to
		}
		to := t.a.NewState(t.rule)
		for _, e := range x {
			entry := t.a.NewState(t.rule)
			from.AddEpsilon(entry)
			t.build(e, entry).AddEpsilon(to)
		}
		return to
	case *ebnf.Group:
		return t.build(x.Body, from)
	case *ebnf.Option:
		entry := t.a.NewState(t.rule)
		to := t.a.NewState(t.rule)
		from.AddEpsilon(entry)
		t.build(x.Body, entry).AddEpsilon(to)
		from.AddEpsilon(to)
		return to
	case *ebnf.Repetition:
		loop := t.a.NewState(t.rule)
		body := t.a.NewState(t.rule)
		to := t.a.NewState(t.rule)
		from.AddEpsilon(loop)
		loop.AddEpsilon(body)
		t.build(x.Body, body).AddEpsilon(loop)
		loop.AddEpsilon(to)
		return to
	}
	return from
}

// char returns the single code point of a one-character literal.
func char(x *ebnf.Token) (rune, bool) {
	r, size := utf8.DecodeRuneInString(x.String)
	if size == 0 || size != len(x.String) {
		return 0, false
	}
	return r, true
}
