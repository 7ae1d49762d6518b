package grammar

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/dhamidi/ahi/atn"
)

const selectGrammar = `
Select  = "select" Columns "from" ident [ Where ] .
Columns = "*" | ident { "," ident } .
Where   = "where" ident "=" number .
ident   = letter { letter | digit | "_" } .
number  = digit { digit } .
letter  = "a" … "z" | "A" … "Z" .
digit   = "0" … "9" .
blank   = " " | "\t" | "\n" .
`

func mustParse(t *testing.T, src string, opts ...Option) *Grammar {
	t.Helper()
	g, err := Parse("test.ebnf", strings.NewReader(src), opts...)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return g
}

func TestTokenKinds(t *testing.T) {
	g := mustParse(t, selectGrammar, WithHidden("blank"))

	want := []string{`"select"`, `"from"`, `"*"`, `","`, `"where"`, `"="`, "ident", "number", "blank"}
	var got []string
	for k := 1; k <= g.Kinds(); k++ {
		got = append(got, g.TokenName(k))
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("token names = %q, want %q", got, want)
	}
	if !reflect.DeepEqual(g.Lexer().RuleNames, want) {
		t.Errorf("lexer rules = %q, want %q", g.Lexer().RuleNames, want)
	}

	if k, ok := g.LiteralKind("where"); !ok || k != 5 {
		t.Errorf("LiteralKind(where) = %d, %v, want 5, true", k, ok)
	}
	if k, ok := g.NamedKind("number"); !ok || k != 8 {
		t.Errorf("NamedKind(number) = %d, %v, want 8, true", k, ok)
	}
	if _, ok := g.NamedKind("letter"); ok {
		t.Errorf("NamedKind(letter) found, want fragment")
	}
	if got := g.Literals(); !reflect.DeepEqual(got, []string{"select", "from", "*", ",", "where", "="}) {
		t.Errorf("Literals() = %q", got)
	}
	if got := g.Hidden(); !reflect.DeepEqual(got, []string{"blank"}) {
		t.Errorf("Hidden() = %q, want [blank]", got)
	}
	if got := g.TokenName(42); got != "<kind 42>" {
		t.Errorf("TokenName(42) = %q", got)
	}
}

func TestStartProduction(t *testing.T) {
	g := mustParse(t, selectGrammar)
	if g.Start() != "Select" {
		t.Errorf("Start() = %q, want Select", g.Start())
	}
	if g.Parser().Start != g.Parser().RuleStart[g.Parser().Rule("Select")] {
		t.Errorf("parser start is not the start state of Select")
	}

	g = mustParse(t, selectGrammar, WithStart("Where"))
	if g.Parser().Start != g.Parser().RuleStart[g.Parser().Rule("Where")] {
		t.Errorf("parser start is not the start state of Where")
	}
}

func TestScanKeywordsBeforeIdentifiers(t *testing.T) {
	g := mustParse(t, selectGrammar, WithHidden("blank"))
	toks, err := g.Scan([]byte("select selected from t_1"), "").Tokenize()
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, tok := range toks {
		if tok.Channel == 0 && tok.Name != "EOF" {
			got = append(got, tok.Name+":"+tok.Literal)
		}
	}
	want := []string{`"select":select`, "ident:selected", `"from":from`, "ident:t_1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %q, want %q", got, want)
	}
}

func TestCharacterAlternativeIsOneSet(t *testing.T) {
	g := mustParse(t, "S = letter .\nletter = \"a\" … \"c\" | \"X\" | \"Y\" .")
	a := g.Lexer()
	start := a.RuleStart[0]
	if len(start.Transitions) != 1 {
		t.Fatalf("letter start has %d transitions, want 1", len(start.Transitions))
	}
	set, ok := start.Transitions[0].(*atn.Set)
	if !ok {
		t.Fatalf("transition = %T, want *atn.Set", start.Transitions[0])
	}
	if got := set.Intervals.String(); got != "{88..89, 97..99}" {
		t.Errorf("set = %s, want {88..89, 97..99}", got)
	}
}

func TestTokenAlternativeIsOneSet(t *testing.T) {
	g := mustParse(t, `Op = "+" | "-" | "*" .`)
	start := g.Parser().Start
	if len(start.Transitions) != 1 {
		t.Fatalf("Op start has %d transitions, want 1", len(start.Transitions))
	}
	set, ok := start.Transitions[0].(*atn.Set)
	if !ok {
		t.Fatalf("transition = %T, want *atn.Set", start.Transitions[0])
	}
	if set.Intervals.Len() != 3 {
		t.Errorf("set = %s, want three kinds", set.Intervals)
	}
}

func TestRuleReferenceReturnsToCaller(t *testing.T) {
	g := mustParse(t, `S = "(" T ")" . T = "x" .`)
	p := g.Parser()
	stop := p.RuleStop[p.Rule("T")]
	if len(stop.Transitions) != 1 {
		t.Fatalf("T stop has %d transitions, want 1", len(stop.Transitions))
	}
	follow := stop.Transitions[0].To()
	if follow.Rule != p.Rule("S") {
		t.Errorf("T returns into rule %d, want S", follow.Rule)
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		opts []Option
		want string
	}{
		{"missing production", `S = T .`, nil, "missing production T"},
		{"lexical refers to syntactic", `S = a . a = S .`, nil, "reference to non-lexical production S"},
		{"recursive lexical", `S = a . a = "x" a | "y" .`, nil, "recursive lexical production a"},
		{"range in syntactic", `S = "a" … "z" .`, nil, "character range in syntactic production S"},
		{"empty literal", `S = "" "a" .`, nil, "empty literal"},
		{"missing start", `S = "a" .`, []Option{WithStart("Q")}, "missing start production Q"},
		{"lexical start", `S = "a" . b = "b" .`, []Option{WithStart("b")}, "start production b is lexical"},
		{"no syntactic production", `a = "a" .`, nil, "no syntactic production"},
		{"hidden missing", `S = "a" .`, []Option{WithHidden("ws")}, "missing hidden production ws"},
		{"hidden syntactic", `S = "a" . T = "b" .`, []Option{WithHidden("T")}, "hidden production T is not lexical"},
		{"hidden used", `S = ws . ws = " " .`, []Option{WithHidden("ws")}, "hidden production ws is used"},
		{"bad range", `S = a . a = "z" … "a" .`, nil, "empty range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("test.ebnf", strings.NewReader(tt.src), tt.opts...)
			var list ErrorList
			if !errors.As(err, &list) {
				t.Fatalf("err = %v, want ErrorList", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse("test.ebnf", strings.NewReader(`S = "a" `))
	if err == nil {
		t.Fatal("Parse accepted a production without a period")
	}
	var list ErrorList
	if errors.As(err, &list) {
		t.Errorf("syntax error reported as ErrorList: %v", err)
	}
}

func TestIsLexical(t *testing.T) {
	for name, want := range map[string]bool{"ident": true, "Ident": false, "_x": true, "Ω": false} {
		if got := IsLexical(name); got != want {
			t.Errorf("IsLexical(%q) = %v, want %v", name, got, want)
		}
	}
}
