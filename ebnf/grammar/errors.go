package grammar

import (
	"fmt"
	"text/scanner"
)

// CompileError reports a problem with one place of the grammar source.
type CompileError struct {
	Pos scanner.Position
	Msg string
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return e.Msg
}

// ErrorList collects every CompileError found while compiling a grammar.
type ErrorList []*CompileError

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0], len(l)-1)
}

// Err returns nil for an empty list.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func (l *ErrorList) add(pos scanner.Position, format string, args ...any) {
	*l = append(*l, &CompileError{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}
