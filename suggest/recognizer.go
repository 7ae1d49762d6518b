package suggest

import (
	"errors"
	"fmt"

	"github.com/dhamidi/ahi/atn"
)

// DefaultChannel is the channel of tokens the parser sees.
const DefaultChannel = 0

var (
	// ErrMissingAutomaton is returned by New when the recognizer does not
	// expose the automata the traversal needs.
	ErrMissingAutomaton = errors.New("recognizer does not expose an automaton")

	// ErrUnknownTransition means an automaton holds a transition that is
	// neither epsilon, atom nor set.
	ErrUnknownTransition = errors.New("unknown transition")
)

// Token is a completed token produced by a Lexer.
type Token struct {
	Kind    int
	Channel int
	Text    string
	Offset  int // byte offset of Text in the input
}

func (t Token) String() string {
	return fmt.Sprintf("%d:%d %q", t.Offset, t.Kind, t.Text)
}

// End returns the byte offset just past the token.
func (t Token) End() int {
	return t.Offset + len(t.Text)
}

// Lexer scans one input string.
type Lexer interface {
	// NextToken returns the next token. It returns io.EOF at the end of the
	// input and any other error when no token can be matched; the lexer
	// stops at that point.
	NextToken() (Token, error)

	// Automaton returns the lexer automaton.
	Automaton() *atn.Automaton

	// StateForKind returns the lexer automaton entry state of a token kind,
	// or nil when the kind has no lexer rule.
	StateForKind(kind int) *atn.State
}

// Parser exposes the parser automaton.
type Parser interface {
	Automaton() *atn.Automaton
}

// Recognizer creates lexers and parsers for one grammar.
type Recognizer interface {
	NewLexer(input string) Lexer
	NewParser() Parser
}

func unknownTransition(from *atn.State, t atn.Transition) error {
	return fmt.Errorf("%w %T at %v: %v", ErrUnknownTransition, t, from, t)
}
