package suggest

import (
	"github.com/dhamidi/ahi/atn"
)

type transitionKind uint8

const (
	epsilonTransition transitionKind = iota
	atomTransition
	setTransition
)

// edge identifies a transition by its endpoints and variant.
type edge struct {
	from int
	kind transitionKind
	to   int
}

func edgeOf(from *atn.State, t atn.Transition) (edge, error) {
	e := edge{from: from.ID}
	switch t := t.(type) {
	case *atn.Epsilon:
		e.kind, e.to = epsilonTransition, t.Target.ID
	case *atn.Atom:
		e.kind, e.to = atomTransition, t.Target.ID
	case *atn.Set:
		e.kind, e.to = setTransition, t.Target.ID
	default:
		return e, unknownTransition(from, t)
	}
	return e, nil
}

// walker replays completed tokens through the parser automaton and reports
// every state reached exactly when the tokens run out.
type walker struct {
	tokens     []Token
	lastVisit  map[*atn.State]int
	onFrontier func(state *atn.State) error
}

func newWalker(tokens []Token, onFrontier func(*atn.State) error) *walker {
	return &walker{
		tokens:     tokens,
		lastVisit:  make(map[*atn.State]int),
		onFrontier: onFrontier,
	}
}

func (w *walker) walk(state *atn.State, index int) error {
	prev, visited := w.lastVisit[state]
	if visited && prev == index {
		return nil
	}
	w.lastVisit[state] = index
	defer func() {
		if visited {
			w.lastVisit[state] = prev
		} else {
			delete(w.lastVisit, state)
		}
	}()

	if index >= len(w.tokens) {
		return w.onFrontier(state)
	}

	next := w.tokens[index].Kind
	for _, t := range state.Transitions {
		var err error
		switch t := t.(type) {
		case *atn.Epsilon:
			err = w.walk(t.Target, index)
		case *atn.Atom:
			if t.Label == next {
				err = w.walk(t.Target, index+1)
			}
		case *atn.Set:
			if t.Intervals.Contains(next) {
				err = w.walk(t.Target, index+1)
			}
		default:
			err = unknownTransition(state, t)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// frontierLabels collects the token kinds on the transitions reachable from
// state through epsilon transitions.
func frontierLabels(state *atn.State) (*orderedSet[int], error) {
	labels := newOrderedSet[int]()
	err := collectLabels(state, labels, make(map[edge]bool))
	return labels, err
}

func collectLabels(state *atn.State, labels *orderedSet[int], visited map[edge]bool) error {
	for _, t := range state.Transitions {
		switch t := t.(type) {
		case *atn.Epsilon:
			e, _ := edgeOf(state, t)
			if visited[e] {
				continue
			}
			visited[e] = true
			err := collectLabels(t.Target, labels, visited)
			delete(visited, e)
			if err != nil {
				return err
			}
		case *atn.Atom:
			labels.Add(t.Label)
		case *atn.Set:
			for _, kind := range t.Intervals.Values() {
				labels.Add(kind)
			}
		default:
			return unknownTransition(state, t)
		}
	}
	return nil
}

// acceptsKind reports whether a token of the given kind can be consumed
// from state, following epsilon transitions first.
func acceptsKind(state *atn.State, kind int, visited map[edge]bool) (bool, error) {
	for _, t := range state.Transitions {
		switch t := t.(type) {
		case *atn.Epsilon:
			e, _ := edgeOf(state, t)
			if visited[e] {
				continue
			}
			visited[e] = true
			ok, err := acceptsKind(t.Target, kind, visited)
			delete(visited, e)
			if err != nil || ok {
				return ok, err
			}
		case *atn.Atom:
			if t.Label == kind {
				return true, nil
			}
		case *atn.Set:
			if t.Intervals.Contains(kind) {
				return true, nil
			}
		default:
			return false, unknownTransition(state, t)
		}
	}
	return false, nil
}
