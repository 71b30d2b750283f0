package store

import (
	"fmt"

	"ticketcore/pkg/domain"
)

// GetUser looks up a user by uid, filling in the Uid field the value
// codec omits (it is already carried by the key).
func (s *Stores) GetUser(uid string) (domain.User, bool, error) {
	u, ok, err := s.Users.Find(uid)
	if err != nil || !ok {
		return domain.User{}, ok, err
	}
	u.Uid = uid
	return u, true, nil
}

// GetTrain looks up a train by tid, filling in the Tid field.
func (s *Stores) GetTrain(tid string) (domain.Train, bool, error) {
	t, ok, err := s.Trains.Find(tid)
	if err != nil || !ok {
		return domain.Train{}, ok, err
	}
	t.Tid = tid
	return t, true, nil
}

// GetStation looks up one (name, tid) Station entry, filling in the key
// fields.
func (s *Stores) GetStation(name, tid string) (domain.Station, bool, error) {
	k := domain.StationKey{Name: name, Tid: tid}
	st, ok, err := s.Stations.Find(k)
	if err != nil || !ok {
		return domain.Station{}, ok, err
	}
	st.Name = name
	st.Tid = tid
	return st, true, nil
}

// GetDayTrain looks up a departure's seat vector, filling in the key
// fields.
func (s *Stores) GetDayTrain(k domain.DayTrainKey) (domain.DayTrain, bool, error) {
	d, ok, err := s.DayTrains.Find(k)
	if err != nil || !ok {
		return domain.DayTrain{}, ok, err
	}
	d.StartDate = k.StartDate
	d.Tid = k.Tid
	return d, true, nil
}

// LoadStops returns a train's per-stop schedule in index order, read
// back from the TrainStation secondary index (SPEC_FULL.md §5.1).
func (s *Stores) LoadStops(tid string, stationNum int) ([]domain.TrainStation, error) {
	lo := domain.TrainStationKey{Tid: tid, Index: 0}
	hi := domain.TrainStationKey{Tid: tid, Index: stationNum - 1}
	entries, err := s.TrainStations.RangeFindKV(lo, hi, domain.StationNumMax)
	if err != nil {
		return nil, fmt.Errorf("store: load stops for %s: %w", tid, err)
	}
	if len(entries) != stationNum {
		return nil, fmt.Errorf("store: train %s has %d stop records, want %d", tid, len(entries), stationNum)
	}
	stops := make([]domain.TrainStation, len(entries))
	for i, e := range entries {
		stop := e.Value
		stop.Tid = e.Key.Tid
		stop.Index = e.Key.Index
		stops[i] = stop
	}
	return stops, nil
}

// UserOrders returns every order for uid, ascending oid order (the
// caller reverses for "newest first" display, query_order's contract).
func (s *Stores) UserOrders(uid string) ([]domain.Order, error) {
	lo := domain.OrderKey{Uid: uid, Oid: 0}
	hi := domain.OrderKey{Uid: uid, Oid: 1<<31 - 1}
	entries, err := s.Orders.RangeFindKV(lo, hi, domain.PoolMax)
	if err != nil {
		return nil, fmt.Errorf("store: load orders for %s: %w", uid, err)
	}
	orders := make([]domain.Order, len(entries))
	for i, e := range entries {
		o := e.Value
		o.Uid = e.Key.Uid
		o.Oid = e.Key.Oid
		orders[i] = o
	}
	return orders, nil
}

// PendingForDeparture returns every pending order for (startDate, tid),
// ascending oid order — the FIFO drain order spec.md §4.3 requires.
func (s *Stores) PendingForDeparture(startDate domain.DayTrainKey) ([]domain.PendingEntry, error) {
	lo := domain.PendingKey{StartDate: startDate.StartDate, Tid: startDate.Tid, Oid: 0}
	hi := domain.PendingKey{StartDate: startDate.StartDate, Tid: startDate.Tid, Oid: 1<<31 - 1}
	entries, err := s.Pending.RangeFind(lo, hi, domain.PoolMax)
	if err != nil {
		return nil, fmt.Errorf("store: load pending for %s/%s: %w", startDate.Tid, startDate.StartDate.Format(), err)
	}
	return entries, nil
}

// StationsForName returns every (stationName, *) Station entry, tid
// ascending — the station-indexed prefix scan spec.md §4.4 describes.
func (s *Stores) StationsForName(name string) ([]domain.Station, error) {
	lo := domain.MinStationKey(name)
	hi := domain.MaxStationKey(name)
	kv, err := s.Stations.RangeFindKV(lo, hi, domain.PoolMax)
	if err != nil {
		return nil, fmt.Errorf("store: load stations for %s: %w", name, err)
	}
	out := make([]domain.Station, len(kv))
	for i, e := range kv {
		st := e.Value
		st.Name = e.Key.Name
		st.Tid = e.Key.Tid
		out[i] = st
	}
	return out, nil
}
