package suggest_test

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/dhamidi/ahi/ebnf/grammar"
	"github.com/dhamidi/ahi/ebnf/parse"
	"github.com/dhamidi/ahi/suggest"
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

func newSuggester(t *testing.T, opts ...suggest.Option) (*grammar.Grammar, *suggest.Suggester) {
	t.Helper()
	g, err := grammar.Parse("select.ebnf", strings.NewReader(selectGrammar), grammar.WithHidden("blank"))
	if err != nil {
		t.Fatalf("grammar: %v", err)
	}
	s, err := suggest.New(g, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g, s
}

func letters(from, to rune) []string {
	var out []string
	for r := from; r <= to; r++ {
		out = append(out, string(r))
	}
	return out
}

func TestSuggestSelect(t *testing.T) {
	_, s := newSuggester(t, suggest.WithCasePreference(suggest.CaseLower))

	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"select"}},
		{"sel", []string{}},
		{"select ", append([]string{"*"}, letters('a', 'z')...)},
		{"select * ", []string{"from"}},
		{"select * fr", []string{}},
		{"select a", []string{","}},
		{"select a ", []string{",", "from"}},
		{"select a, ", letters('a', 'z')},
		{"select * from t ", []string{"where"}},
		{"select * from t where x ", []string{"="}},
		{"select * from t where x = ", letters('0', '9')},
		{"select * from t where x = 1 ", []string{}},
		{"select ? ", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := s.Suggest(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Suggest(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSuggestBothCases(t *testing.T) {
	_, s := newSuggester(t)
	got, err := s.Suggest("select a, ")
	if err != nil {
		t.Fatal(err)
	}
	want := append(letters('A', 'Z'), letters('a', 'z')...)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Suggest = %q, want %q", got, want)
	}
}

// Appending a suggestion that completes the statement must give a sentence
// the Earley parser accepts.
func TestSuggestionsCompleteSentences(t *testing.T) {
	g, s := newSuggester(t, suggest.WithCasePreference(suggest.CaseLower))

	inputs := []string{
		"select * from ",
		"select a, b from c where d = ",
		"select * from t",
		"select x from y where z = 4",
	}
	for _, input := range inputs {
		got, err := s.Suggest(input)
		if err != nil {
			t.Fatal(err)
		}
		for _, sug := range got {
			completed := input + sug
			if parse.Accepts(g, completed) {
				continue
			}
			// Not every suggestion ends the statement, but the result must
			// still be a viable prefix: some further suggestion exists.
			more, err := s.Suggest(completed + " ")
			if err != nil {
				t.Fatal(err)
			}
			if len(more) == 0 && !parse.Accepts(g, completed) {
				t.Errorf("%q + %q is neither a sentence nor extendable", input, sug)
			}
		}
	}
}

// A keyword prefix that no token matches stays untokenized and is completed
// from the keywords the parser expects. Prefixes an identifier rule would
// match are identifiers, as in the Select cases above.
func TestSuggestCompletesKeywordPrefix(t *testing.T) {
	g, err := grammar.Parse("show.ebnf", strings.NewReader(`
		Show  = "show" ( "tables" | "databases" | "tablespaces" ) [ ";" ] .
		blank = " " .
	`), grammar.WithHidden("blank"))
	if err != nil {
		t.Fatal(err)
	}
	s, err := suggest.New(g)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		input string
		want  []string
	}{
		{"sh", []string{"ow"}},
		{"show ", []string{"tables", "databases", "tablespaces"}},
		{"show ta", []string{"bles", "blespaces"}},
		{"show d", []string{"atabases"}},
		{"show tables", []string{";"}},
		{"show x", []string{}},
	}
	for _, tt := range tests {
		got, err := s.Suggest(tt.input)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Suggest(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSuggestNestedRules(t *testing.T) {
	g, err := grammar.Parse("list.ebnf", strings.NewReader(`
		List  = "[" [ Items ] "]" .
		Items = Item { "," Item } .
		Item  = "x" | List .
	`))
	if err != nil {
		t.Fatal(err)
	}
	s, err := suggest.New(g)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"["}},
		{"[", []string{"x", "[", "]"}},
		{"[x", []string{",", "]"}},
		{"[x,", []string{"x", "["}},
	}
	for _, tt := range tests {
		got, err := s.Suggest(tt.input)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Suggest(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func ExampleSuggester_Suggest() {
	g, err := grammar.Parse("select.ebnf", strings.NewReader(selectGrammar), grammar.WithHidden("blank"))
	if err != nil {
		panic(err)
	}
	s, err := suggest.New(g)
	if err != nil {
		panic(err)
	}

	for _, input := range []string{"", "select * ", "select * from t ", "select * from t where x "} {
		suggestions, _ := s.Suggest(input)
		fmt.Printf("%q: %q\n", input, suggestions)
	}
	// Output:
	// "": ["select"]
	// "select * ": ["from"]
	// "select * from t ": ["where"]
	// "select * from t where x ": ["="]
}
