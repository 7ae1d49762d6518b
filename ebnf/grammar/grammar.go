// Package grammar compiles an EBNF grammar into the lexer and parser
// automata used for scanning and completion.
//
// Productions follow the conventions of golang.org/x/exp/ebnf: a name that
// starts with an upper-case letter is syntactic, every other name is
// lexical. String literals used in syntactic productions become tokens of
// their own. Lexical productions referenced from syntactic productions are
// named tokens; lexical productions only referenced by other lexical
// productions are inlined wherever they are used.
//
//	Select  = "select" Columns "from" ident .
//	Columns = "*" | ident { "," ident } .
//	ident   = letter { letter | digit } .
//	letter  = "a" … "z" .
//	digit   = "0" … "9" .
//	blank   = " " | "\t" | "\n" .
//
// Compiled with WithHidden("blank"), the grammar above has the token kinds
// "select", "from", "*", ",", ident and blank, in that order.
package grammar

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/ahi/atn"
	"github.com/dhamidi/ahi/ebnflex"
)

// HiddenChannel is the channel of tokens listed with WithHidden.
const HiddenChannel = 1

// Option configures Compile.
type Option func(*options)

type options struct {
	start  string
	hidden []string
}

// WithStart selects the start production. By default the first syntactic
// production of the source is used.
func WithStart(name string) Option {
	return func(o *options) {
		o.start = name
	}
}

// WithHidden names lexical productions whose tokens are scanned but never
// seen by the parser, such as white space and comments.
func WithHidden(names ...string) Option {
	return func(o *options) {
		o.hidden = append(o.hidden, names...)
	}
}

// tokenDef describes one token kind. Kind k is tokens[k-1].
type tokenDef struct {
	name    string // quoted literal or production name
	literal string // set for implicit literal tokens
	expr    ebnf.Expression
	channel int
}

// Grammar is a compiled EBNF grammar.
type Grammar struct {
	source ebnf.Grammar
	start  string

	tokens   []tokenDef
	literals map[string]int
	named    map[string]int
	hidden   []string

	lexer  *atn.Automaton
	parser *atn.Automaton
}

// Load reads and compiles the grammar in filename.
func Load(filename string, opts ...Option) (*Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	return Parse(filename, f, opts...)
}

// Parse reads and compiles a grammar from r. The filename is only used for
// error positions.
func Parse(filename string, r io.Reader, opts ...Option) (*Grammar, error) {
	g, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, err
	}
	return Compile(g, opts...)
}

// Compile builds both automata for source. The returned error is an
// ErrorList when the grammar is inconsistent.
func Compile(source ebnf.Grammar, opts ...Option) (*Grammar, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := &compiler{
		source: source,
		g: &Grammar{
			source:   source,
			literals: make(map[string]int),
			named:    make(map[string]int),
		},
	}
	c.run(o)
	if err := c.errors.Err(); err != nil {
		return nil, err
	}
	return c.g, nil
}

// IsLexical reports whether name denotes a lexical production.
func IsLexical(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(r)
}

// Source returns the parsed productions.
func (g *Grammar) Source() ebnf.Grammar {
	return g.source
}

// Start returns the name of the start production.
func (g *Grammar) Start() string {
	return g.start
}

// Lexer returns the character automaton.
func (g *Grammar) Lexer() *atn.Automaton {
	return g.lexer
}

// Parser returns the token automaton.
func (g *Grammar) Parser() *atn.Automaton {
	return g.parser
}

// Kinds returns the number of token kinds. Kinds are numbered from 1.
func (g *Grammar) Kinds() int {
	return len(g.tokens)
}

// TokenName returns the name of a token kind: the quoted literal for
// implicit tokens and the production name otherwise.
func (g *Grammar) TokenName(kind int) string {
	if kind < 1 || kind > len(g.tokens) {
		return fmt.Sprintf("<kind %d>", kind)
	}
	return g.tokens[kind-1].name
}

// LiteralKind returns the kind of the implicit token for a literal.
func (g *Grammar) LiteralKind(literal string) (int, bool) {
	k, ok := g.literals[literal]
	return k, ok
}

// Literals returns the texts of the implicit literal tokens in kind order.
func (g *Grammar) Literals() []string {
	var out []string
	for _, t := range g.tokens {
		if t.literal != "" {
			out = append(out, t.literal)
		}
	}
	return out
}

// NamedKind returns the kind of the token defined by a lexical production.
func (g *Grammar) NamedKind(name string) (int, bool) {
	k, ok := g.named[name]
	return k, ok
}

// Hidden returns the names of the hidden token productions.
func (g *Grammar) Hidden() []string {
	return slices.Clone(g.hidden)
}

// Rules returns the scanning rules of the lexer automaton, one per kind.
func (g *Grammar) Rules() []ebnflex.Rule {
	rules := make([]ebnflex.Rule, len(g.tokens))
	for i, t := range g.tokens {
		rules[i] = ebnflex.Rule{Name: t.name, Channel: t.channel}
	}
	return rules
}

// Scan returns a lexer over input.
func (g *Grammar) Scan(input []byte, filename string) *ebnflex.Lexer {
	return ebnflex.NewLexer(g.lexer, g.Rules(), input, filename)
}

func quote(literal string) string {
	return strconv.Quote(literal)
}
