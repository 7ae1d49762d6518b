package suggest

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dhamidi/ahi/atn"
)

// CasePreference picks between upper- and lower-case alternatives offered by
// the same set transition of the lexer automaton.
type CasePreference string

const (
	CaseBoth  CasePreference = "BOTH"
	CaseLower CasePreference = "LOWER"
	CaseUpper CasePreference = "UPPER"
)

// ParseCasePreference accepts LOWER, UPPER or BOTH in any letter case. The
// empty string means BOTH.
func ParseCasePreference(s string) (CasePreference, error) {
	switch p := CasePreference(strings.ToUpper(strings.TrimSpace(s))); p {
	case "":
		return CaseBoth, nil
	case CaseBoth, CaseLower, CaseUpper:
		return p, nil
	default:
		return "", fmt.Errorf("unknown case preference %q (want LOWER, UPPER or BOTH)", s)
	}
}

// skip reports whether ch should be dropped because set also offers the
// preferred case of the same letter.
func (p CasePreference) skip(ch rune, set atn.IntervalSet) bool {
	switch p {
	case CaseLower:
		lower := unicode.ToLower(ch)
		return lower != ch && unicode.ToUpper(ch) == ch && set.Contains(int(lower))
	case CaseUpper:
		upper := unicode.ToUpper(ch)
		return upper != ch && unicode.ToLower(ch) == ch && set.Contains(int(upper))
	default:
		return false
	}
}
