package suggest

import (
	"context"
	"fmt"
)

// SuggestContext is Suggest bounded by ctx. When ctx ends first the
// traversal is abandoned and ctx's error is returned.
func (s *Suggester) SuggestContext(ctx context.Context, input string) ([]string, error) {
	type result struct {
		suggestions []string
		err         error
	}
	done := make(chan result, 1)

	go func() {
		suggestions, err := s.Suggest(input)
		done <- result{suggestions, err}
	}()

	select {
	case r := <-done:
		return r.suggestions, r.err
	case <-ctx.Done():
		s.log.Warningf("suggest %q: %v", input, ctx.Err())
		return nil, fmt.Errorf("suggest: %w", ctx.Err())
	}
}

// Partial returns the trailing text of input that does not form a complete
// token. Suggestions extend it.
func (s *Suggester) Partial(input string) string {
	return s.tokenizer.Tokenize(input).Untokenized
}
