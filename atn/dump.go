package atn

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// LabelFunc renders a transition label for display.
type LabelFunc func(label int) string

// RuneLabel renders code points as quoted characters.
func RuneLabel(label int) string {
	return strconv.QuoteRune(rune(label))
}

// Dump writes a line-oriented listing of every rule and the states
// reachable from its start state.
func (a *Automaton) Dump(w io.Writer, label LabelFunc) error {
	if label == nil {
		if a.Kind == KindLexer {
			label = RuneLabel
		} else {
			label = strconv.Itoa
		}
	}

	if a.Start != nil {
		if _, err := fmt.Fprintf(w, "start %s\n", a.Start); err != nil {
			return err
		}
	}

	for rule, name := range a.RuleNames {
		if _, err := fmt.Fprintf(w, "rule %d %s: %s -> %s\n", rule, name, a.RuleStart[rule], a.RuleStop[rule]); err != nil {
			return err
		}
		for _, s := range a.States {
			if s.Rule != rule {
				continue
			}
			if err := dumpState(w, s, label); err != nil {
				return err
			}
		}
	}
	return nil
}

func dumpState(w io.Writer, s *State, label LabelFunc) error {
	if len(s.Transitions) == 0 {
		_, err := fmt.Fprintf(w, "  %s\n", s)
		return err
	}
	for _, t := range s.Transitions {
		var edge string
		switch t := t.(type) {
		case *Epsilon:
			edge = "ε"
		case *Atom:
			edge = label(t.Label)
		case *Set:
			edge = setLabel(t.Intervals, label)
		}
		if _, err := fmt.Fprintf(w, "  %s -%s-> %s\n", s, edge, t.To()); err != nil {
			return err
		}
	}
	return nil
}

func setLabel(set IntervalSet, label LabelFunc) string {
	parts := make([]string, 0, len(set))
	for _, iv := range set {
		if iv.Len() == 1 {
			parts = append(parts, label(iv.Start))
			continue
		}
		parts = append(parts, label(iv.Start)+".."+label(iv.Stop-1))
	}
	return "[" + strings.Join(parts, " ") + "]"
}
