package suggest

import (
	"sync"

	"github.com/dhamidi/ahi/atn"
)

// Tokenization is the result of splitting an input into tokens.
type Tokenization struct {
	Tokens []Token

	// Untokenized is the suffix of the input not covered by Tokens.
	Untokenized string
}

// Tokenizer wraps a Recognizer's lexers. It never fails: input the lexer
// cannot match ends up in Tokenization.Untokenized.
type Tokenizer struct {
	recognizer Recognizer

	once  sync.Once
	empty Lexer
}

// NewTokenizer returns a Tokenizer for rec.
func NewTokenizer(rec Recognizer) *Tokenizer {
	return &Tokenizer{recognizer: rec}
}

// Tokenize splits text into tokens, stopping at the first position where no
// token can be matched.
func (t *Tokenizer) Tokenize(text string) Tokenization {
	lexer := t.recognizer.NewLexer(text)

	var result Tokenization
	end := 0
	for {
		tok, err := lexer.NextToken()
		if err != nil {
			break
		}
		result.Tokens = append(result.Tokens, tok)
		if tok.End() > end {
			end = tok.End()
		}
	}
	if end > len(text) {
		end = len(text)
	}
	result.Untokenized = text[end:]
	return result
}

// TokenizeDefaultChannel is Tokenize restricted to tokens on the default
// channel. Untokenized still accounts for hidden tokens.
func (t *Tokenizer) TokenizeDefaultChannel(text string) Tokenization {
	result := t.Tokenize(text)
	visible := result.Tokens[:0]
	for _, tok := range result.Tokens {
		if tok.Channel == DefaultChannel {
			visible = append(visible, tok)
		}
	}
	result.Tokens = visible
	return result
}

// Automaton returns the lexer automaton.
func (t *Tokenizer) Automaton() *atn.Automaton {
	lexer := t.lexer()
	if lexer == nil {
		return nil
	}
	return lexer.Automaton()
}

// StateForKind returns the lexer entry state of a token kind.
func (t *Tokenizer) StateForKind(kind int) *atn.State {
	lexer := t.lexer()
	if lexer == nil {
		return nil
	}
	return lexer.StateForKind(kind)
}

// lexer returns a lexer over the empty input, created on first use. It is
// only used for automaton lookups and carries no per-call state.
func (t *Tokenizer) lexer() Lexer {
	t.once.Do(func() {
		t.empty = t.recognizer.NewLexer("")
	})
	return t.empty
}
