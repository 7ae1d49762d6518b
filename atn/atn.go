// Package atn models the finite-state automata a grammar compiles to.
//
// Two automata describe a language: a lexer automaton whose transition
// labels are code points, and a parser automaton whose labels are token
// kinds. Both are built once and then only read; traversals never mutate
// states or transitions.
package atn

import (
	"fmt"
)

// Kind tells what a transition label means inside an automaton.
type Kind int

const (
	// KindLexer automata label transitions with code points.
	KindLexer Kind = iota
	// KindParser automata label transitions with token kinds.
	KindParser
)

func (k Kind) String() string {
	switch k {
	case KindLexer:
		return "lexer"
	case KindParser:
		return "parser"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// State is a node of an automaton.
type State struct {
	ID          int
	Rule        int // index of the rule this state belongs to, -1 if none
	Transitions []Transition
}

func (s *State) String() string {
	return fmt.Sprintf("s%d", s.ID)
}

// AddEpsilon appends an epsilon transition to target.
func (s *State) AddEpsilon(target *State) {
	s.Transitions = append(s.Transitions, &Epsilon{Target: target})
}

// AddAtom appends a transition on a single label.
func (s *State) AddAtom(label int, target *State) {
	s.Transitions = append(s.Transitions, &Atom{Label: label, Target: target})
}

// AddSet appends a transition on any label contained in set.
func (s *State) AddSet(set IntervalSet, target *State) {
	s.Transitions = append(s.Transitions, &Set{Intervals: set, Target: target})
}

// Transition is an edge between two states. The set of implementations is
// closed: *Epsilon, *Atom and *Set.
type Transition interface {
	To() *State
	String() string
	transition()
}

// Epsilon is taken without consuming input.
type Epsilon struct {
	Target *State
}

// Atom consumes exactly one label.
type Atom struct {
	Label  int
	Target *State
}

// Set consumes one label out of Intervals.
type Set struct {
	Intervals IntervalSet
	Target    *State
}

func (t *Epsilon) To() *State { return t.Target }
func (t *Atom) To() *State    { return t.Target }
func (t *Set) To() *State     { return t.Target }

func (t *Epsilon) String() string { return fmt.Sprintf("ε->%s", t.Target) }
func (t *Atom) String() string    { return fmt.Sprintf("%d->%s", t.Label, t.Target) }
func (t *Set) String() string     { return fmt.Sprintf("%s->%s", t.Intervals, t.Target) }

func (*Epsilon) transition() {}
func (*Atom) transition()    {}
func (*Set) transition()     {}

// Automaton owns a set of states and the entry points of its rules.
type Automaton struct {
	Kind      Kind
	States    []*State
	Start     *State
	RuleNames []string
	RuleStart []*State
	RuleStop  []*State
}

// New returns an empty automaton of the given kind.
func New(kind Kind) *Automaton {
	return &Automaton{Kind: kind}
}

// NewState creates a state owned by rule. Pass -1 for states outside any rule.
func (a *Automaton) NewState(rule int) *State {
	s := &State{ID: len(a.States), Rule: rule}
	a.States = append(a.States, s)
	return s
}

// AddRule registers a rule and creates its start and stop states.
// It returns the rule index.
func (a *Automaton) AddRule(name string) int {
	rule := len(a.RuleNames)
	a.RuleNames = append(a.RuleNames, name)
	a.RuleStart = append(a.RuleStart, a.NewState(rule))
	a.RuleStop = append(a.RuleStop, a.NewState(rule))
	return rule
}

// Rule returns the index of the rule called name, or -1.
func (a *Automaton) Rule(name string) int {
	for i, n := range a.RuleNames {
		if n == name {
			return i
		}
	}
	return -1
}

// IsRuleStop reports whether s is the stop state of its rule.
func (a *Automaton) IsRuleStop(s *State) bool {
	if s.Rule < 0 || s.Rule >= len(a.RuleStop) {
		return false
	}
	return a.RuleStop[s.Rule] == s
}
