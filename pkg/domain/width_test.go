package domain

import "testing"

func TestDisplayWidthASCII(t *testing.T) {
	if got := DisplayWidth("alice"); got != 5 {
		t.Errorf("DisplayWidth(alice) = %d, want 5", got)
	}
}

func TestDisplayWidthEastAsianWide(t *testing.T) {
	// each of these three CJK characters counts as width 2.
	if got := DisplayWidth("北京南"); got != 6 {
		t.Errorf("DisplayWidth(北京南) = %d, want 6", got)
	}
}

func TestValidateDisplayNameBound(t *testing.T) {
	if err := ValidateDisplayName("alice"); err != nil {
		t.Errorf("ValidateDisplayName(alice) = %v, want nil", err)
	}
	if err := ValidateDisplayName("北京"); err != nil {
		t.Errorf("ValidateDisplayName(北京) = %v, want nil (width 4 <= 5)", err)
	}
}

func TestValidateDisplayNameRejectsOverLong(t *testing.T) {
	cases := []string{"abcdef", "北京南"}
	for _, name := range cases {
		if err := ValidateDisplayName(name); err == nil {
			t.Errorf("ValidateDisplayName(%q): expected error, width exceeds %d", name, MaxDisplayRunes)
		}
	}
}
