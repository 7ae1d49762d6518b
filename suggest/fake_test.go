package suggest

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/ahi/atn"
)

var errNoMatch = errors.New("no token matches")

// fakeGrammar is a recognizer assembled by hand: every token kind pairs a
// lexer automaton rule with a matching function used by the fake lexer.
type fakeGrammar struct {
	lexer  *atn.Automaton
	parser *atn.Automaton
	rules  []fakeRule
}

type fakeRule struct {
	channel int
	match   func(string) int
}

func newFakeGrammar() *fakeGrammar {
	return &fakeGrammar{
		lexer:  atn.New(atn.KindLexer),
		parser: atn.New(atn.KindParser),
	}
}

// literal adds a token kind that matches text exactly.
func (g *fakeGrammar) literal(text string) int {
	rule := g.lexer.AddRule(strconv.Quote(text))
	s := g.lexer.RuleStart[rule]
	runes := []rune(text)
	for i, r := range runes {
		next := g.lexer.RuleStop[rule]
		if i < len(runes)-1 {
			next = g.lexer.NewState(rule)
		}
		s.AddAtom(int(r), next)
		s = next
	}
	g.rules = append(g.rules, fakeRule{match: func(in string) int {
		if strings.HasPrefix(in, text) {
			return len(text)
		}
		return 0
	}})
	return rule + 1
}

// class adds a token kind of one or more characters out of set. With first
// set, the first character must come from first instead.
func (g *fakeGrammar) class(name string, first, rest atn.IntervalSet, channel int) int {
	rule := g.lexer.AddRule(name)
	head := g.lexer.NewState(rule)
	loop := g.lexer.NewState(rule)
	body := g.lexer.NewState(rule)
	g.lexer.RuleStart[rule].AddSet(first, head)
	head.AddEpsilon(loop)
	loop.AddSet(rest, body)
	body.AddEpsilon(loop)
	loop.AddEpsilon(g.lexer.RuleStop[rule])

	g.rules = append(g.rules, fakeRule{channel: channel, match: func(in string) int {
		n := 0
		for i, r := range in {
			set := rest
			if i == 0 {
				set = first
			}
			if !set.Contains(int(r)) {
				break
			}
			n = i + len(string(r))
		}
		return n
	}})
	return rule + 1
}

var (
	letters      = atn.Range('a', 'z'+1).Union(atn.Range('A', 'Z'+1))
	alphanumeric = letters.Union(atn.Range('0', '9'+1))
	blanks       = atn.Of(' ', '\t', '\n')
)

func (g *fakeGrammar) ident() int {
	return g.class("ID", letters, alphanumeric, 0)
}

func (g *fakeGrammar) whitespace() int {
	return g.class("WS", blanks, blanks, 1)
}

// sequence adds a chain of atom transitions from start and returns the last
// state of the chain.
func (g *fakeGrammar) sequence(start *atn.State, kinds ...int) *atn.State {
	s := g.parser.NewState(start.Rule)
	start.AddEpsilon(s)
	for _, kind := range kinds {
		next := g.parser.NewState(start.Rule)
		s.AddAtom(kind, next)
		s = next
	}
	return s
}

// rule adds a parser rule made of alternatives of token sequences.
func (g *fakeGrammar) rule(name string, alternatives ...[]int) int {
	rule := g.parser.AddRule(name)
	for _, alt := range alternatives {
		end := g.sequence(g.parser.RuleStart[rule], alt...)
		end.AddEpsilon(g.parser.RuleStop[rule])
	}
	if g.parser.Start == nil {
		g.parser.Start = g.parser.RuleStart[rule]
	}
	return rule
}

func (g *fakeGrammar) NewLexer(input string) Lexer {
	return &fakeLexer{grammar: g, input: input}
}

func (g *fakeGrammar) NewParser() Parser {
	return fakeParser{g.parser}
}

type fakeParser struct {
	automaton *atn.Automaton
}

func (p fakeParser) Automaton() *atn.Automaton { return p.automaton }

type fakeLexer struct {
	grammar *fakeGrammar
	input   string
	pos     int
}

func (l *fakeLexer) NextToken() (Token, error) {
	if l.pos >= len(l.input) {
		return Token{}, io.EOF
	}
	rest := l.input[l.pos:]
	best, bestKind := 0, 0
	for i, rule := range l.grammar.rules {
		if n := rule.match(rest); n > best {
			best, bestKind = n, i+1
		}
	}
	if best == 0 {
		return Token{}, errNoMatch
	}
	tok := Token{
		Kind:    bestKind,
		Channel: l.grammar.rules[bestKind-1].channel,
		Text:    rest[:best],
		Offset:  l.pos,
	}
	l.pos += best
	return tok, nil
}

func (l *fakeLexer) Automaton() *atn.Automaton {
	return l.grammar.lexer
}

func (l *fakeLexer) StateForKind(kind int) *atn.State {
	if kind < 1 || kind > len(l.grammar.lexer.RuleStart) {
		return nil
	}
	return l.grammar.lexer.RuleStart[kind-1]
}
