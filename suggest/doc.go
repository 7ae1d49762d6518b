// Package suggest computes completions for partially typed input from a
// pair of grammar automata.
//
// # Overview
//
// A Recognizer supplies two automata: a lexer automaton over code points and
// a parser automaton over token kinds. For an input string the Suggester
//
//	┌──────────┐   ┌────────────┐   ┌────────────┐   ┌───────────┐
//	│ Tokenize │──▶│ Walk parser│──▶│ Walk lexer │──▶│ Re-check  │
//	│  input   │   │  automaton │   │  automaton │   │ each tail │
//	└──────────┘   └────────────┘   └────────────┘   └───────────┘
//
//  1. splits the input into completed tokens and an untokenized remainder,
//  2. replays the completed tokens through the parser automaton and collects
//     the token kinds that may follow (the frontier),
//  3. for every such kind walks the lexer automaton from that kind's entry
//     state, re-matching the remainder and then generating characters until
//     the token is complete,
//  4. keeps only the tails that, appended to the input, tokenize into a new
//     whole token that the parser automaton accepts at the frontier.
//
// # Usage
//
// With a recognizer for the grammar
//
//	Show  = "show" ( "tables" | "databases" | "tablespaces" ) .
//	blank = " " .
//
// and blank hidden:
//
//	s, err := suggest.New(recognizer, suggest.WithCasePreference(suggest.CaseLower))
//	if err != nil {
//	    return err
//	}
//	tails, err := s.Suggest("show ta")
//	// tails == []string{"bles", "blespaces"}
//
// A partial keyword is only completed when no other token rule, such as an
// identifier, already matches it as a whole token.
//
// Each call is a fresh traversal; nothing carries over between calls. A
// Suggester may be shared between goroutines.
//
// # Termination
//
// Both walks keep a guard scoped to the current recursion path. The parser
// walk may re-enter a state only after consuming at least one token, so
// epsilon cycles terminate while recursive rules still work. The lexer walk
// never re-enters a state on the same path, so a repetition contributes at
// most its first iteration to a suggestion.
package suggest
