package domain

import (
	"fmt"

	"golang.org/x/text/width"
)

// DisplayWidth measures a display name the way spec.md §3 means "wide
// chars": east-asian fullwidth/wide runes count as 2, everything else
// as 1. Counting runes (len([]rune(s))) would under-count a name made
// of CJK characters against the same "≤5" bound the original enforces
// on raw character count, not on bytes or on naive rune count.
func DisplayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

// ValidateDisplayName enforces the ≤5 wide-char bound.
func ValidateDisplayName(s string) error {
	if DisplayWidth(s) > MaxDisplayRunes {
		return fmt.Errorf("domain: display name %q exceeds %d wide chars", s, MaxDisplayRunes)
	}
	return nil
}
