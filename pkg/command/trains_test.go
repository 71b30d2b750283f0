package command

import "testing"

func addG1(t *testing.T, d *Dispatcher) {
	t.Helper()
	res, err := d.Handle(rec("add_train", map[byte]string{
		'i': "G1", 'n': "3", 'm': "10",
		's': "Beijing|Jinan|Shanghai",
		'p': "100|200",
		'x': "08:00",
		't': "120|240",
		'o': "10",
		'd': "01-01|01-05",
		'y': "G",
	}))
	if err != nil {
		t.Fatalf("add_train: %v", err)
	}
	if res.Lines[0] != "0" {
		t.Fatalf("add_train = %+v, want [0]", res)
	}
}

func TestAddTrainRejectsBadStationNum(t *testing.T) {
	d := openTestDispatcher(t)
	res, err := d.Handle(rec("add_train", map[byte]string{
		'i': "G1", 'n': "1", 'm': "10",
		's': "Beijing", 'p': "", 'x': "08:00", 't': "", 'o': "", 'd': "01-01|01-05", 'y': "G",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if res.Lines[0] != "-1" {
		t.Errorf("add_train(n=1) = %+v, want [-1] (stationNum below minimum of 2)", res)
	}
}

func TestAddTrainRejectsMismatchedStationList(t *testing.T) {
	d := openTestDispatcher(t)
	res, err := d.Handle(rec("add_train", map[byte]string{
		'i': "G1", 'n': "3", 'm': "10",
		's': "Beijing|Shanghai", // only 2 names for n=3
		'p': "100|200", 'x': "08:00", 't': "120|240", 'o': "10", 'd': "01-01|01-05", 'y': "G",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if res.Lines[0] != "-1" {
		t.Errorf("add_train(station count mismatch) = %+v, want [-1]", res)
	}
}

func TestAddTrainRejectsMismatchedPriceList(t *testing.T) {
	d := openTestDispatcher(t)
	res, err := d.Handle(rec("add_train", map[byte]string{
		'i': "G1", 'n': "3", 'm': "10",
		's': "Beijing|Jinan|Shanghai",
		'p': "100", // needs n-1=2 prices
		'x': "08:00", 't': "120|240", 'o': "10", 'd': "01-01|01-05", 'y': "G",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if res.Lines[0] != "-1" {
		t.Errorf("add_train(price count mismatch) = %+v, want [-1]", res)
	}
}

func TestAddTrainRejectsDuplicateTid(t *testing.T) {
	d := openTestDispatcher(t)
	addG1(t, d)
	res, err := d.Handle(rec("add_train", map[byte]string{
		'i': "G1", 'n': "2", 'm': "5",
		's': "A|B", 'p': "10", 'x': "09:00", 't': "30", 'o': "", 'd': "01-01|01-02", 'y': "D",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if res.Lines[0] != "-1" {
		t.Errorf("add_train(duplicate tid) = %+v, want [-1]", res)
	}
}

func TestQueryTrainBeforeReleaseUsesTotalSeatNum(t *testing.T) {
	d := openTestDispatcher(t)
	addG1(t, d)

	res, err := d.Handle(rec("query_train", map[byte]string{'i': "G1", 'd': "01-01"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	want := []string{
		"G1 G",
		"Beijing xx-xx xx:xx -> 01-01 08:00 0 10",
		"Jinan 01-01 10:00 -> 01-01 10:10 100 10",
		"Shanghai 01-01 14:10 -> xx-xx xx:xx 300 x",
	}
	if len(res.Lines) != len(want) {
		t.Fatalf("query_train(unreleased) = %v, want %v", res.Lines, want)
	}
	for i := range want {
		if res.Lines[i] != want[i] {
			t.Errorf("query_train(unreleased)[%d] = %q, want %q", i, res.Lines[i], want[i])
		}
	}
}

func TestReleaseTrainThenQueryTrainReflectsBookedSeats(t *testing.T) {
	d := openTestDispatcher(t)
	addG1(t, d)

	if res, err := d.Handle(rec("release_train", map[byte]string{'i': "G1"})); err != nil || res.Lines[0] != "0" {
		t.Fatalf("release_train = (%+v,%v), want ([0],nil)", res, err)
	}

	// a second release of the same train must be rejected.
	res, err := d.Handle(rec("release_train", map[byte]string{'i': "G1"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if res.Lines[0] != "-1" {
		t.Errorf("release_train(already released) = %+v, want [-1]", res)
	}

	// release of an unknown train is rejected.
	res, err = d.Handle(rec("release_train", map[byte]string{'i': "nope"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if res.Lines[0] != "-1" {
		t.Errorf("release_train(unknown tid) = %+v, want [-1]", res)
	}

	if _, err := d.Handle(rec("add_user", map[byte]string{'u': "root", 'p': "pw", 'n': "Root", 'm': "r@x.com", 'g': "10"})); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if _, err := d.Handle(rec("login", map[byte]string{'u': "root", 'p': "pw"})); err != nil {
		t.Fatalf("login: %v", err)
	}
	buy, err := d.Handle(rec("buy_ticket", map[byte]string{'u': "root", 'i': "G1", 'd': "01-01", 'n': "2", 'f': "Beijing", 't': "Jinan"}))
	if err != nil {
		t.Fatalf("buy_ticket: %v", err)
	}
	if buy.Lines[0] != "200" {
		t.Fatalf("buy_ticket cost = %+v, want [200] (2 * 100)", buy)
	}

	res, err = d.Handle(rec("query_train", map[byte]string{'i': "G1", 'd': "01-01"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	want := []string{
		"G1 G",
		"Beijing xx-xx xx:xx -> 01-01 08:00 0 8",
		"Jinan 01-01 10:00 -> 01-01 10:10 100 10",
		"Shanghai 01-01 14:10 -> xx-xx xx:xx 300 x",
	}
	if len(res.Lines) != len(want) {
		t.Fatalf("query_train(released, after purchase) = %v, want %v", res.Lines, want)
	}
	for i := range want {
		if res.Lines[i] != want[i] {
			t.Errorf("query_train(released)[%d] = %q, want %q", i, res.Lines[i], want[i])
		}
	}
}

func TestQueryTrainRejectsOutsideSaleWindow(t *testing.T) {
	d := openTestDispatcher(t)
	addG1(t, d)
	if res, err := d.Handle(rec("release_train", map[byte]string{'i': "G1"})); err != nil || res.Lines[0] != "0" {
		t.Fatalf("release_train = (%+v,%v), want ([0],nil)", res, err)
	}

	res, err := d.Handle(rec("query_train", map[byte]string{'i': "G1", 'd': "02-01"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if res.Lines[0] != "-1" {
		t.Errorf("query_train(outside sale window) = %+v, want [-1]", res)
	}
}

// TestDeleteTrainAcceptedBeforeReleaseRejectedAfter covers spec.md's
// delete_train scenario: deletable while unreleased, rejected once
// released.
func TestDeleteTrainAcceptedBeforeReleaseRejectedAfter(t *testing.T) {
	d := openTestDispatcher(t)
	addG1(t, d)

	res, err := d.Handle(rec("delete_train", map[byte]string{'i': "G1"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if res.Lines[0] != "0" {
		t.Fatalf("delete_train(unreleased) = %+v, want [0]", res)
	}
	if _, ok, _ := d.stores.GetTrain("G1"); ok {
		t.Errorf("GetTrain(G1) after delete: ok=true, want false")
	}

	addG1(t, d)
	if res, err := d.Handle(rec("release_train", map[byte]string{'i': "G1"})); err != nil || res.Lines[0] != "0" {
		t.Fatalf("release_train = (%+v,%v), want ([0],nil)", res, err)
	}
	res, err = d.Handle(rec("delete_train", map[byte]string{'i': "G1"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if res.Lines[0] != "-1" {
		t.Errorf("delete_train(released) = %+v, want [-1]", res)
	}
	if _, ok, _ := d.stores.GetTrain("G1"); !ok {
		t.Errorf("GetTrain(G1) after rejected delete: ok=false, want true (train must survive)")
	}
}

func TestDeleteTrainRejectsUnknownTid(t *testing.T) {
	d := openTestDispatcher(t)
	res, err := d.Handle(rec("delete_train", map[byte]string{'i': "nope"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if res.Lines[0] != "-1" {
		t.Errorf("delete_train(unknown tid) = %+v, want [-1]", res)
	}
}
