package parse

import (
	"errors"
	"strings"
	"testing"

	"github.com/dhamidi/ahi/ebnf/grammar"
)

func mustGrammar(t *testing.T, src string, opts ...grammar.Option) *grammar.Grammar {
	t.Helper()
	g, err := grammar.Parse("test", strings.NewReader(src), opts...)
	if err != nil {
		t.Fatalf("parse grammar: %v", err)
	}
	return g
}

func TestEarleyParser_AlternativeItems(t *testing.T) {
	g := mustGrammar(t, `
		ClassModifier = Annotation | "public" | "private" .
		Annotation = "@" identifier .
		identifier = letter { letter } .
		letter = "a" … "z" .
	`)

	for _, input := range []string{"public", "private", "@deprecated"} {
		tokens, err := g.Scan([]byte(input), "").Tokenize()
		if err != nil {
			t.Fatalf("tokenize %q: %v", input, err)
		}
		parser := NewEarleyParser(g, tokens)
		if err := parser.Recognize(""); err != nil {
			t.Errorf("Recognize(%q) = %v", input, err)
		}
	}

	tokens, _ := g.Scan([]byte("public"), "").Tokenize()
	parser := NewEarleyParser(g, tokens)
	parser.Recognize("")
	chart := parser.Chart()
	if len(chart) != 2 {
		t.Fatalf("len(chart) = %d, want 2", len(chart))
	}

	found := false
	for _, item := range chart[0].Items() {
		if parser.Describe(item) == `ClassModifier → • "public", 0` {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an item for the \"public\" alternative in chart[0]")
		for _, item := range chart[0].Items() {
			t.Logf("  %s", parser.Describe(item))
		}
	}
}

func TestEarleyParser_MultipleRepetitions(t *testing.T) {
	g := mustGrammar(t, `
		MethodDeclaration = { MethodModifier } Result MethodDeclarator .
		MethodModifier = "public" | "static" | "final" .
		Result = "void" | "int" .
		MethodDeclarator = identifier "(" ")" .
		identifier = "a" … "z" { "a" … "z" } .
		blank = " " .
	`, grammar.WithHidden("blank"))

	root, err := ParseFile(g, []byte("public static void main()"), "", "")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	var kinds []string
	for _, c := range root.Children {
		kinds = append(kinds, c.Kind)
	}
	want := "MethodModifier MethodModifier Result MethodDeclarator"
	if got := strings.Join(kinds, " "); got != want {
		t.Errorf("children = %s, want %s", got, want)
	}
	if got := root.Text(); got != "public static void main ( )" {
		t.Errorf("Text() = %q", got)
	}
}

func TestEarleyParser_NestedRepetitions(t *testing.T) {
	g := mustGrammar(t, `
		PackageDeclaration = "package" identifier { "." identifier } ";" .
		identifier = "a" … "z" { "a" … "z" } .
		blank = " " .
	`, grammar.WithHidden("blank"))

	root, err := ParseFile(g, []byte("package com.example.foo;"), "", "")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(root.Children) != 7 {
		t.Errorf("len(children) = %d, want 7", len(root.Children))
	}
	if root.Span.Start.Offset != 0 || root.Span.End.Offset != 24 {
		t.Errorf("span = %d..%d, want 0..24", root.Span.Start.Offset, root.Span.End.Offset)
	}
}

func TestEarleyParser_LeftRecursion(t *testing.T) {
	g := mustGrammar(t, `
		Expr = Expr "+" Term | Term .
		Term = number .
		number = "0" … "9" { "0" … "9" } .
	`)

	root, err := ParseFile(g, []byte("1+22+3"), "", "")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	var b strings.Builder
	root.Print(&b)
	want := `Expr
  Expr
    Expr
      Term
        number "1"
    "+" "+"
    Term
      number "22"
  "+" "+"
  Term
    number "3"
`
	if b.String() != want {
		t.Errorf("tree =\n%s\nwant\n%s", b.String(), want)
	}
}

func TestEarleyParser_SyntaxError(t *testing.T) {
	g := mustGrammar(t, `
		Select = "select" identifier "from" identifier .
		identifier = "a" … "z" { "a" … "z" } .
		blank = " " .
	`, grammar.WithHidden("blank"))

	tests := []struct {
		input string
		want  string
	}{
		{"select a where", `1:10: unexpected "where", expected "from"`},
		{"select a", `1:9: unexpected end of input, expected "from"`},
		{"from", `1:1: unexpected "from", expected "select"`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseFile(g, []byte(tt.input), "", "")
			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("err = %v, want *SyntaxError", err)
			}
			if err.Error() != tt.want {
				t.Errorf("err = %q, want %q", err, tt.want)
			}
		})
	}
}

func TestEarleyParser_UnknownStart(t *testing.T) {
	g := mustGrammar(t, `S = "a" .`)
	if err := NewEarleyParser(g, nil).Recognize("Nope"); err == nil {
		t.Error("Recognize accepted an unknown production")
	}
}

func TestAccepts(t *testing.T) {
	g := mustGrammar(t, `
		List = "[" [ Item { "," Item } ] "]" .
		Item = "x" | List .
	`)
	tests := map[string]bool{
		"[]":        true,
		"[x]":       true,
		"[x,[x,x]]": true,
		"[x,]":      false,
		"[":         false,
		"[x]]":      false,
		"y":         false,
	}
	for input, want := range tests {
		if got := Accepts(g, input); got != want {
			t.Errorf("Accepts(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestItemSetDeduplication(t *testing.T) {
	set := newItemSet(0)

	if !set.Add(Item{Rule: 1}) {
		t.Error("first item should be added")
	}
	if !set.Add(Item{Rule: 2}) {
		t.Error("second item with a different rule should be added")
	}
	if len(set.Items()) != 2 {
		t.Errorf("expected 2 items, got %d", len(set.Items()))
	}
	if set.Add(Item{Rule: 1}) {
		t.Error("duplicate item should not be added")
	}
}
