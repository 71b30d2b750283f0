package command

import "testing"

func TestParseIntRejectsNonNumeric(t *testing.T) {
	if _, err := parseInt("n", "abc"); err == nil {
		t.Errorf("parseInt(abc): expected error")
	}
	n, err := parseInt("n", "42")
	if err != nil || n != 42 {
		t.Errorf("parseInt(42) = (%d,%v), want (42,nil)", n, err)
	}
}

func TestParseBoolDefaultsWhenAbsent(t *testing.T) {
	v, err := parseBool("q", "", true)
	if err != nil || v != true {
		t.Errorf("parseBool(\"\", true) = (%v,%v), want (true,nil)", v, err)
	}
	v, err = parseBool("q", "false", true)
	if err != nil || v != false {
		t.Errorf("parseBool(false) = (%v,%v), want (false,nil)", v, err)
	}
	if _, err := parseBool("q", "maybe", false); err == nil {
		t.Errorf("parseBool(maybe): expected error")
	}
}

func TestSplitPipeEmptyStringYieldsNil(t *testing.T) {
	if got := splitPipe(""); got != nil {
		t.Errorf("splitPipe(\"\") = %v, want nil", got)
	}
	got := splitPipe("a|b|c")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("splitPipe(a|b|c) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitPipe[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseIntListPropagatesElementError(t *testing.T) {
	got, err := parseIntList("p", "10|20|30")
	if err != nil {
		t.Fatalf("parseIntList: %v", err)
	}
	want := []int{10, 20, 30}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("parseIntList[%d] = %d, want %d", i, got[i], want[i])
		}
	}
	if _, err := parseIntList("p", "10|x|30"); err == nil {
		t.Errorf("parseIntList(10|x|30): expected error")
	}
}

func TestParseDateRangeRequiresTwoParts(t *testing.T) {
	start, end, err := parseDateRange("01-01|01-05")
	if err != nil {
		t.Fatalf("parseDateRange: %v", err)
	}
	if !start.Less(end) {
		t.Errorf("parseDateRange start=%v should be before end=%v", start, end)
	}
	if _, _, err := parseDateRange("01-01"); err == nil {
		t.Errorf("parseDateRange(single date): expected error")
	}
	if _, _, err := parseDateRange("01-01|01-05|01-10"); err == nil {
		t.Errorf("parseDateRange(three dates): expected error")
	}
}

func TestParseSortKeyOptDefaultsToTime(t *testing.T) {
	letter, err := parseSortKeyOpt("", false)
	if err != nil || letter != 't' {
		t.Errorf("parseSortKeyOpt(absent) = (%c,%v), want ('t',nil)", letter, err)
	}
	letter, err = parseSortKeyOpt("cost", true)
	if err != nil || letter != 'c' {
		t.Errorf("parseSortKeyOpt(cost) = (%c,%v), want ('c',nil)", letter, err)
	}
	if _, err := parseSortKeyOpt("bogus", true); err == nil {
		t.Errorf("parseSortKeyOpt(bogus): expected error")
	}
}
