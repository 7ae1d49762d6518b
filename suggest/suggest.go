package suggest

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/ahi/atn"
)

// Suggester computes completions for one grammar.
type Suggester struct {
	tokenizer  *Tokenizer
	parser     *atn.Automaton
	preference CasePreference
	log        commonlog.Logger
}

// Option configures a Suggester.
type Option func(*Suggester)

// WithCasePreference sets which letter case wins when a set transition
// offers both.
func WithCasePreference(p CasePreference) Option {
	return func(s *Suggester) {
		s.preference = p
	}
}

// WithLogger replaces the package logger.
func WithLogger(log commonlog.Logger) Option {
	return func(s *Suggester) {
		s.log = log
	}
}

// New checks that rec exposes both automata and returns a Suggester for it.
func New(rec Recognizer, opts ...Option) (*Suggester, error) {
	s := &Suggester{
		tokenizer:  NewTokenizer(rec),
		preference: CaseBoth,
		log:        commonlog.GetLogger("ahi.suggest"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if lexer := s.tokenizer.Automaton(); lexer == nil {
		return nil, fmt.Errorf("lexer: %w", ErrMissingAutomaton)
	}
	p := rec.NewParser()
	if p == nil || p.Automaton() == nil || p.Automaton().Start == nil {
		return nil, fmt.Errorf("parser: %w", ErrMissingAutomaton)
	}
	s.parser = p.Automaton()

	return s, nil
}

// Tokenizer returns the tokenizer the Suggester splits input with.
func (s *Suggester) Tokenizer() *Tokenizer {
	return s.tokenizer
}

// CasePreference returns the configured case preference.
func (s *Suggester) CasePreference() CasePreference {
	return s.preference
}

// Suggest returns the texts that may be appended to input to complete its
// last token or add the next one. The result is free of duplicates and
// ordered by parser automaton transitions, then lexer automaton transitions.
func (s *Suggester) Suggest(input string) ([]string, error) {
	tokenization := s.tokenizer.TokenizeDefaultChannel(input)
	req := &request{
		Suggester:   s,
		input:       input,
		tokens:      tokenization.Tokens,
		untokenized: tokenization.Untokenized,
		suggestions: newOrderedSet[string](),
	}

	w := newWalker(req.tokens, req.suggestAt)
	if err := w.walk(s.parser.Start, 0); err != nil {
		return nil, err
	}

	suggestions := req.suggestions.Items()
	if suggestions == nil {
		suggestions = []string{}
	}
	return suggestions, nil
}

// request holds the state of one Suggest call.
type request struct {
	*Suggester

	input       string
	tokens      []Token
	untokenized string
	suggestions *orderedSet[string]
}

// suggestAt completes the remainder for a frontier state of the parser walk.
func (r *request) suggestAt(state *atn.State) error {
	kinds, err := frontierLabels(state)
	if err != nil {
		return err
	}
	if r.log.AllowLevel(commonlog.Debug) {
		r.log.Debugf("frontier %s after %d tokens: kinds %v, partial %q", state, len(r.tokens), kinds.Items(), r.untokenized)
	}

	c := newCompleter(r.untokenized, r.preference)
	for _, kind := range kinds.Items() {
		entry := r.tokenizer.StateForKind(kind)
		if entry == nil {
			r.log.Debugf("token kind %d has no lexer rule", kind)
			continue
		}
		if err := c.complete(entry); err != nil {
			return err
		}
	}

	for _, tail := range c.tails.Items() {
		ok, err := r.accepts(state, tail)
		if err != nil {
			return err
		}
		if !ok {
			r.log.Debugf("rejected %q at %s", tail, state)
			continue
		}
		r.suggestions.Add(tail)
	}
	return nil
}

// accepts reports whether input+tail ends in a whole new token whose kind
// the parser automaton can consume from state.
func (r *request) accepts(state *atn.State, tail string) (bool, error) {
	tok, ok := r.addedToken(tail)
	if !ok {
		return false, nil
	}
	return acceptsKind(state, tok.Kind, make(map[edge]bool))
}

func (r *request) addedToken(tail string) (Token, bool) {
	completed := r.tokenizer.TokenizeDefaultChannel(r.input + tail).Tokens
	if len(completed) <= len(r.tokens) {
		return Token{}, false
	}
	return completed[len(completed)-1], true
}
