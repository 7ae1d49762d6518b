package parse

import (
	"fmt"
	"strings"

	"github.com/dhamidi/ahi/ebnf/grammar"
	"github.com/dhamidi/ahi/ebnflex"
)

// SyntaxError reports where the input stops being a prefix of a sentence.
type SyntaxError struct {
	Position ebnflex.Position
	Found    string // empty at the end of input
	Expected []string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: ", e.Position)
	if e.Found == "" {
		b.WriteString("unexpected end of input")
	} else {
		fmt.Fprintf(&b, "unexpected %q", e.Found)
	}
	if len(e.Expected) > 0 {
		fmt.Fprintf(&b, ", expected %s", strings.Join(e.Expected, " or "))
	}
	return b.String()
}

// ParseTokens parses tokens with g starting at start.
func ParseTokens(g *grammar.Grammar, tokens []ebnflex.Token, start string) (*Node, error) {
	return NewEarleyParser(g, tokens).Parse(start)
}

// ParseFile scans input with g and parses the tokens starting at start.
func ParseFile(g *grammar.Grammar, input []byte, filename, start string) (*Node, error) {
	tokens, err := g.Scan(input, filename).Tokenize()
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	return ParseTokens(g, tokens, start)
}

// Accepts reports whether input is a sentence of g's start production.
func Accepts(g *grammar.Grammar, input string) bool {
	tokens, err := g.Scan([]byte(input), "").Tokenize()
	if err != nil {
		return false
	}
	return NewEarleyParser(g, tokens).Recognize("") == nil
}
