package suggest

import (
	"slices"

	"github.com/dhamidi/ahi/atn"
)

// completer enumerates the shortest texts the lexer automaton accepts from a
// token's entry state that start with the partially typed token.
type completer struct {
	partial    []rune
	preference CasePreference

	path  []int // state IDs on the current branch
	tails *orderedSet[string]
}

func newCompleter(partial string, preference CasePreference) *completer {
	return &completer{
		partial:    []rune(partial),
		preference: preference,
		tails:      newOrderedSet[string](),
	}
}

// complete walks from a token kind's entry state.
func (c *completer) complete(entry *atn.State) error {
	return c.visit(entry, nil, c.partial)
}

func (c *completer) visit(state *atn.State, soFar, remaining []rune) error {
	if slices.Contains(c.path, state.ID) {
		return nil
	}
	c.path = append(c.path, state.ID)
	defer func() { c.path = c.path[:len(c.path)-1] }()

	if len(soFar) > 0 && len(state.Transitions) == 0 {
		c.emit(soFar)
	}

	for _, t := range state.Transitions {
		if err := c.follow(state, t, soFar, remaining); err != nil {
			return err
		}
	}
	return nil
}

func (c *completer) follow(state *atn.State, t atn.Transition, soFar, remaining []rune) error {
	switch t := t.(type) {
	case *atn.Epsilon:
		return c.visit(t.Target, soFar, remaining)
	case *atn.Atom:
		ch := rune(t.Label)
		if matchesHead(remaining, ch) {
			return c.advance(t.Target, soFar, remaining, ch)
		}
		return nil
	case *atn.Set:
		if len(remaining) > 0 {
			ch := remaining[0]
			if t.Intervals.Contains(int(ch)) && !c.preference.skip(ch, t.Intervals) {
				return c.advance(t.Target, soFar, remaining, ch)
			}
			return nil
		}
		for _, v := range t.Intervals.Values() {
			ch := rune(v)
			if c.preference.skip(ch, t.Intervals) {
				continue
			}
			if err := c.advance(t.Target, soFar, remaining, ch); err != nil {
				return err
			}
		}
		return nil
	default:
		return unknownTransition(state, t)
	}
}

func (c *completer) advance(target *atn.State, soFar, remaining []rune, ch rune) error {
	next := make([]rune, len(soFar)+1)
	copy(next, soFar)
	next[len(soFar)] = ch
	if len(remaining) > 0 {
		remaining = remaining[1:]
	}
	return c.visit(target, next, remaining)
}

// emit records the part of token that was not typed yet.
func (c *completer) emit(token []rune) {
	n := min(len(token), len(c.partial))
	c.tails.Add(string(token[n:]))
}

func matchesHead(remaining []rune, ch rune) bool {
	return len(remaining) == 0 || remaining[0] == ch
}
