package inventory

import "testing"

func TestQuerySeatMinOverRange(t *testing.T) {
	seats := []int{5, 2, 8, 1, 9}
	if got := QuerySeat(seats, 0, 4); got != 1 {
		t.Errorf("QuerySeat(full range) = %d, want 1", got)
	}
	if got := QuerySeat(seats, 0, 1); got != 2 {
		t.Errorf("QuerySeat(0,1) = %d, want 2", got)
	}
	if got := QuerySeat(seats, 2, 2); got != 8 {
		t.Errorf("QuerySeat(2,2) = %d, want 8 (single-link range)", got)
	}
}

func TestModifySeatAppliesDeltaToRange(t *testing.T) {
	seats := []int{5, 5, 5, 5}
	ModifySeat(seats, 1, 2, -3)
	want := []int{5, 2, 2, 5}
	for i := range want {
		if seats[i] != want[i] {
			t.Errorf("seats[%d] = %d, want %d", i, seats[i], want[i])
		}
	}
}

func TestModifySeatPositiveDeltaReleasesCapacity(t *testing.T) {
	seats := []int{0, 0, 5}
	ModifySeat(seats, 0, 1, 4)
	want := []int{4, 4, 5}
	for i := range want {
		if seats[i] != want[i] {
			t.Errorf("seats[%d] = %d, want %d", i, seats[i], want[i])
		}
	}
}

func TestSegmentsIntersect(t *testing.T) {
	cases := []struct {
		name                   string
		f1, t1, f2, t2         int
		want                   bool
	}{
		{"identical", 0, 2, 0, 2, true},
		{"overlapping", 0, 3, 2, 5, true},
		{"adjacent_no_overlap", 0, 2, 2, 4, false},
		{"disjoint", 0, 1, 3, 4, false},
		{"contained", 1, 2, 0, 5, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := segmentsIntersect(tc.f1, tc.t1, tc.f2, tc.t2); got != tc.want {
				t.Errorf("segmentsIntersect(%d,%d,%d,%d) = %v, want %v", tc.f1, tc.t1, tc.f2, tc.t2, got, tc.want)
			}
		})
	}
}
