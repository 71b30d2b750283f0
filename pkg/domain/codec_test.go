package domain

import (
	"testing"

	"ticketcore/pkg/railtime"
)

func roundTripKey[K any](t *testing.T, kc interface {
	Size() int
	Encode(K, []byte)
	Decode([]byte) K
}, k K) K {
	t.Helper()
	buf := make([]byte, kc.Size())
	kc.Encode(k, buf)
	return kc.Decode(buf)
}

func TestStringKeyCodecRoundTrip(t *testing.T) {
	got := roundTripKey[string](t, UIDKeyCodec, "alice")
	if got != "alice" {
		t.Errorf("round trip = %q, want alice", got)
	}
}

func TestStringKeyCodecOrderingAgreesWithCompare(t *testing.T) {
	a := make([]byte, UIDKeyCodec.Size())
	b := make([]byte, UIDKeyCodec.Size())
	UIDKeyCodec.Encode("alice", a)
	UIDKeyCodec.Encode("bob", b)
	if UIDKeyCodec.Compare("alice", "bob") >= 0 {
		t.Fatalf("Compare(alice,bob) should be negative")
	}
	// byte-prefix padding (zero bytes) must preserve string ordering
	less := false
	for i := range a {
		if a[i] != b[i] {
			less = a[i] < b[i]
			break
		}
	}
	if !less {
		t.Errorf("encoded byte layout does not agree with Compare ordering")
	}
}

func TestStationKeyCodecRoundTrip(t *testing.T) {
	k := StationKey{Name: "Beijing", Tid: "G1"}
	got := roundTripKey[StationKey](t, StationKC, k)
	if got != k {
		t.Errorf("round trip = %+v, want %+v", got, k)
	}
}

func TestStationKeySentinelsOrder(t *testing.T) {
	lo := MinStationKey("Beijing")
	hi := MaxStationKey("Beijing")
	if StationKC.Compare(lo, hi) >= 0 {
		t.Errorf("MinStationKey should order before MaxStationKey")
	}
	mid := StationKey{Name: "Beijing", Tid: "G1"}
	if StationKC.Compare(lo, mid) >= 0 || StationKC.Compare(mid, hi) >= 0 {
		t.Errorf("a real tid should sort strictly between the sentinels")
	}
}

func TestTrainStationKeyCodecRoundTrip(t *testing.T) {
	k := TrainStationKey{Tid: "G1", Index: 3}
	got := roundTripKey[TrainStationKey](t, TrainStationKC, k)
	if got != k {
		t.Errorf("round trip = %+v, want %+v", got, k)
	}
}

func TestDayTrainKeyCodecOrdering(t *testing.T) {
	a := DayTrainKey{StartDate: railtime.Date(1, 1), Tid: "G1"}
	b := DayTrainKey{StartDate: railtime.Date(1, 2), Tid: "G1"}
	if DayTrainKC.Compare(a, b) >= 0 {
		t.Errorf("earlier StartDate should order first")
	}
	got := roundTripKey[DayTrainKey](t, DayTrainKC, a)
	if got != a {
		t.Errorf("round trip = %+v, want %+v", got, a)
	}
}

func TestOrderKeyCodecRoundTrip(t *testing.T) {
	k := OrderKey{Uid: "alice", Oid: 42}
	got := roundTripKey[OrderKey](t, OrderKC, k)
	if got != k {
		t.Errorf("round trip = %+v, want %+v", got, k)
	}
}

func TestPendingKeyCodecRoundTrip(t *testing.T) {
	k := PendingKey{StartDate: railtime.Date(6, 1), Tid: "G1", Oid: 7}
	got := roundTripKey[PendingKey](t, PendingKC, k)
	if got != k {
		t.Errorf("round trip = %+v, want %+v", got, k)
	}
}

func TestUserValueCodecRoundTrip(t *testing.T) {
	u := User{Password: "secret", Name: "Alice", Mail: "a@example.com", Privilege: 7}
	buf := make([]byte, UserVC.Size())
	UserVC.Encode(u, buf)
	got := UserVC.Decode(buf)
	// Uid is carried by the key, not the value codec.
	got.Uid = u.Uid
	if got != u {
		t.Errorf("round trip = %+v, want %+v", got, u)
	}
}

func TestTrainValueCodecRoundTrip(t *testing.T) {
	tr := Train{
		StationNum:    5,
		TotalSeatNum:  100,
		StartTime:     railtime.New(1, 1, 8, 0),
		SaleDateStart: railtime.Date(1, 1),
		SaleDateEnd:   railtime.Date(6, 1),
		Type:          'G',
		IsReleased:    true,
	}
	buf := make([]byte, TrainVC.Size())
	TrainVC.Encode(tr, buf)
	got := TrainVC.Decode(buf)
	got.Tid = tr.Tid
	if got != tr {
		t.Errorf("round trip = %+v, want %+v", got, tr)
	}
}

func TestDayTrainValueCodecPreservesVariableLength(t *testing.T) {
	d := DayTrain{SeatNum: []int{10, 20, 30}}
	buf := make([]byte, DayTrainVC.Size())
	DayTrainVC.Encode(d, buf)
	got := DayTrainVC.Decode(buf)
	if len(got.SeatNum) != len(d.SeatNum) {
		t.Fatalf("decoded SeatNum length = %d, want %d", len(got.SeatNum), len(d.SeatNum))
	}
	for i := range d.SeatNum {
		if got.SeatNum[i] != d.SeatNum[i] {
			t.Errorf("SeatNum[%d] = %d, want %d", i, got.SeatNum[i], d.SeatNum[i])
		}
	}
}

func TestOrderValueCodecRoundTrip(t *testing.T) {
	o := Order{
		Tid:          "G1",
		StartDate:    railtime.Date(3, 1),
		From:         0,
		To:           2,
		FromStation:  "Beijing",
		ToStation:    "Shanghai",
		LeavingTime:  railtime.New(3, 1, 8, 0),
		ArrivingTime: railtime.New(3, 1, 14, 0),
		Price:        280,
		Num:          2,
		Status:       StatusSuccess,
	}
	buf := make([]byte, OrderVC.Size())
	OrderVC.Encode(o, buf)
	got := OrderVC.Decode(buf)
	got.Uid, got.Oid = o.Uid, o.Oid
	if got != o {
		t.Errorf("round trip = %+v, want %+v", got, o)
	}
}

func TestPendingValueCodecCarriesOwnKeyFields(t *testing.T) {
	p := PendingEntry{Order: Order{
		Uid:       "alice",
		Oid:       9,
		Tid:       "G1",
		StartDate: railtime.Date(3, 1),
		From:      0,
		To:        1,
		Num:       1,
		Status:    StatusPending,
	}}
	buf := make([]byte, PendingVC.Size())
	PendingVC.Encode(p, buf)
	got := PendingVC.Decode(buf)
	if got.Order.Uid != p.Order.Uid || got.Order.Oid != p.Order.Oid {
		t.Errorf("decoded PendingEntry lost Uid/Oid: got %+v, want %+v", got.Order, p.Order)
	}
}

func TestOrderStatusString(t *testing.T) {
	cases := map[OrderStatus]string{
		StatusSuccess:  "success",
		StatusPending:  "pending",
		StatusRefunded: "refunded",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", status, got, want)
		}
	}
}
