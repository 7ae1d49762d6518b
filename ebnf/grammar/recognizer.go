package grammar

import (
	"github.com/dhamidi/ahi/atn"
	"github.com/dhamidi/ahi/ebnflex"
	"github.com/dhamidi/ahi/suggest"
)

var _ suggest.Recognizer = (*Grammar)(nil)

// NewLexer returns a lexer over input for completion.
func (g *Grammar) NewLexer(input string) suggest.Lexer {
	return &lexer{
		Lexer:   g.Scan([]byte(input), ""),
		grammar: g,
	}
}

// NewParser returns the parser side of the grammar for completion.
func (g *Grammar) NewParser() suggest.Parser {
	return parser{g.parser}
}

type lexer struct {
	*ebnflex.Lexer
	grammar *Grammar
}

func (l *lexer) NextToken() (suggest.Token, error) {
	tok, err := l.Lexer.NextToken()
	if err != nil {
		return suggest.Token{}, err
	}
	return suggest.Token{
		Kind:    tok.Kind,
		Channel: tok.Channel,
		Text:    tok.Literal,
		Offset:  tok.Position.Offset,
	}, nil
}

func (l *lexer) StateForKind(kind int) *atn.State {
	a := l.grammar.lexer
	if kind < 1 || kind > len(a.RuleStart) {
		return nil
	}
	return a.RuleStart[kind-1]
}

type parser struct {
	automaton *atn.Automaton
}

func (p parser) Automaton() *atn.Automaton {
	return p.automaton
}
