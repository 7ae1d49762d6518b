// Package ebnflex scans input with the character automaton compiled from an
// EBNF grammar.
package ebnflex

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/dhamidi/ahi/atn"
)

// Position represents a location in source code.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Rule describes the token produced by one rule of the lexer automaton.
// Rule i of the automaton produces tokens of kind i+1.
type Rule struct {
	Name    string
	Channel int
}

// Token represents a lexical token with its position.
type Token struct {
	Kind     int
	Name     string
	Literal  string
	Channel  int
	Position Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Position, t.Name, t.Literal)
}

// ErrUnknownTransition means the automaton holds a transition that is
// neither epsilon, atom nor set.
var ErrUnknownTransition = errors.New("unknown transition")

// ScanError is returned when no rule matches at the current position.
type ScanError struct {
	Position Position
	Char     rune
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s: unexpected character %q", e.Position, e.Char)
}

// Lexer tokenizes input with a lexer automaton.
type Lexer struct {
	automaton *atn.Automaton
	rules     []Rule
	input     []byte
	filename  string
	pos       int
	line      int
	column    int
	err       error
}

// NewLexer creates a lexer for the given automaton and input. rules names
// the automaton's rules by index; missing entries get a generated name.
func NewLexer(a *atn.Automaton, rules []Rule, input []byte, filename string) *Lexer {
	return &Lexer{
		automaton: a,
		rules:     rules,
		input:     input,
		filename:  filename,
		line:      1,
		column:    1,
	}
}

// Automaton returns the lexer automaton.
func (l *Lexer) Automaton() *atn.Automaton {
	return l.automaton
}

// Position returns the current position in the input.
func (l *Lexer) Position() Position {
	return Position{
		Filename: l.filename,
		Offset:   l.pos,
		Line:     l.line,
		Column:   l.column,
	}
}

func (l *Lexer) advance(n int) {
	end := l.pos + n
	for l.pos < end {
		r, size := utf8.DecodeRune(l.input[l.pos:])
		l.pos += size
		if r == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
	}
}

// NextToken returns the next token from the input. It returns io.EOF at the
// end of the input and a *ScanError when no token matches; once it fails
// every further call returns the same error.
func (l *Lexer) NextToken() (Token, error) {
	if l.err != nil {
		return Token{}, l.err
	}
	if l.pos >= len(l.input) {
		l.err = io.EOF
		return Token{Kind: 0, Name: "EOF", Position: l.Position()}, io.EOF
	}

	start := l.Position()
	rule, length, err := l.longestMatch(l.pos)
	if err != nil {
		l.err = err
		return Token{}, err
	}
	if length == 0 {
		r, _ := utf8.DecodeRune(l.input[l.pos:])
		l.err = &ScanError{Position: start, Char: r}
		return Token{}, l.err
	}

	tok := Token{
		Kind:     rule + 1,
		Name:     l.ruleName(rule),
		Literal:  string(l.input[l.pos : l.pos+length]),
		Channel:  l.ruleChannel(rule),
		Position: start,
	}
	l.advance(length)
	return tok, nil
}

// longestMatch runs every rule of the automaton in parallel from offset and
// returns the rule with the longest non-empty match. Ties go to the lower
// rule index.
func (l *Lexer) longestMatch(offset int) (rule, length int, err error) {
	rule = -1

	current := make(map[*atn.State]bool)
	for _, s := range l.automaton.RuleStart {
		closure(s, current)
	}

	pos := offset
	for len(current) > 0 && pos < len(l.input) {
		r, size := utf8.DecodeRune(l.input[pos:])
		next := make(map[*atn.State]bool)
		for s := range current {
			for _, t := range s.Transitions {
				switch t := t.(type) {
				case *atn.Atom:
					if t.Label == int(r) {
						closure(t.Target, next)
					}
				case *atn.Set:
					if t.Intervals.Contains(int(r)) {
						closure(t.Target, next)
					}
				case *atn.Epsilon:
					// followed by closure
				default:
					return -1, 0, fmt.Errorf("%w %T at %v", ErrUnknownTransition, t, s)
				}
			}
		}
		pos += size
		current = next

		if accepted := l.accepting(current); accepted >= 0 {
			if pos-offset > length || (pos-offset == length && accepted < rule) {
				rule, length = accepted, pos-offset
			}
		}
	}
	return rule, length, nil
}

// accepting returns the lowest rule index whose stop state is in states, or
// -1.
func (l *Lexer) accepting(states map[*atn.State]bool) int {
	for i, stop := range l.automaton.RuleStop {
		if states[stop] {
			return i
		}
	}
	return -1
}

func closure(s *atn.State, set map[*atn.State]bool) {
	if set[s] {
		return
	}
	set[s] = true
	for _, t := range s.Transitions {
		if e, ok := t.(*atn.Epsilon); ok {
			closure(e.Target, set)
		}
	}
}

func (l *Lexer) ruleName(rule int) string {
	if rule < len(l.rules) && l.rules[rule].Name != "" {
		return l.rules[rule].Name
	}
	if rule < len(l.automaton.RuleNames) {
		return l.automaton.RuleNames[rule]
	}
	return fmt.Sprintf("T%d", rule+1)
}

func (l *Lexer) ruleChannel(rule int) int {
	if rule < len(l.rules) {
		return l.rules[rule].Channel
	}
	return 0
}

// Tokenize reads all tokens from input. The final token is the EOF token.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err == io.EOF {
			tokens = append(tokens, tok)
			break
		}
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}
