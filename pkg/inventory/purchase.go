package inventory

import (
	"ticketcore/pkg/apperr"
	"ticketcore/pkg/domain"
	"ticketcore/pkg/railtime"
	"ticketcore/pkg/store"
)

// PurchaseResult reports the outcome of a successful Purchase call: a
// committed ticket has Queued=false and a positive Cost; a queued
// ticket has Queued=true and Cost=0 (buy_ticket prints "queue").
type PurchaseResult struct {
	Cost   int64
	Queued bool
	Oid    int
}

// Purchase implements spec.md §4.3's purchase authorisation, seat
// commit, and pending-enqueue fallback. Login is assumed already
// checked by the caller (pkg/command centralizes that gate uniformly
// across commands, see DESIGN.md's pkg/inventory section).
func Purchase(s *store.Stores, uid, tid string, date railtime.Minute, from, to string, num int, acceptQueue bool) (PurchaseResult, error) {
	train, ok, err := s.GetTrain(tid)
	if err != nil {
		return PurchaseResult{}, err
	}
	if !ok {
		return PurchaseResult{}, apperr.NotFound("train_not_found", "train %s does not exist", tid)
	}
	if !train.IsReleased {
		return PurchaseResult{}, apperr.State("train_not_released", "train %s is not released", tid)
	}
	if num > train.TotalSeatNum {
		return PurchaseResult{}, apperr.RangeErr("num_exceeds_capacity", "requested %d exceeds total capacity %d", num, train.TotalSeatNum)
	}

	fromSt, ok, err := s.GetStation(from, tid)
	if err != nil {
		return PurchaseResult{}, err
	}
	if !ok {
		return PurchaseResult{}, apperr.NotFound("station_not_found", "station %s not on train %s", from, tid)
	}
	toSt, ok, err := s.GetStation(to, tid)
	if err != nil {
		return PurchaseResult{}, err
	}
	if !ok {
		return PurchaseResult{}, apperr.NotFound("station_not_found", "station %s not on train %s", to, tid)
	}
	if fromSt.Index >= toSt.Index {
		return PurchaseResult{}, apperr.RangeErr("bad_segment", "from %s does not precede to %s on train %s", from, to, tid)
	}

	startDay := date.Sub(fromSt.LeavingTime.DateComponent())
	if startDay.Less(fromSt.SaleDateStart) || fromSt.SaleDateEnd.Less(startDay) {
		return PurchaseResult{}, apperr.RangeErr("outside_sale_window", "date %s outside sale window for train %s", date.Format(), tid)
	}

	dayKey := domain.DayTrainKey{StartDate: startDay, Tid: tid}
	dayTrain, ok, err := s.GetDayTrain(dayKey)
	if err != nil {
		return PurchaseResult{}, err
	}
	if !ok {
		return PurchaseResult{}, apperr.NotFound("departure_not_found", "no departure of %s on %s", tid, startDay.Format())
	}

	oid := s.NextOid()
	order := domain.Order{
		Oid:          oid,
		Uid:          uid,
		Tid:          tid,
		StartDate:    startDay,
		From:         fromSt.Index,
		To:           toSt.Index,
		FromStation:  from,
		ToStation:    to,
		LeavingTime:  startDay.Add(fromSt.LeavingTime),
		ArrivingTime: startDay.Add(toSt.ArrivingTime),
		Price:        int64(num) * (toSt.PriceSum - fromSt.PriceSum),
		Num:          num,
	}

	remain := QuerySeat(dayTrain.SeatNum, fromSt.Index, toSt.Index-1)
	if remain >= num {
		ModifySeat(dayTrain.SeatNum, fromSt.Index, toSt.Index-1, -num)
		if err := s.DayTrains.Modify(dayKey, dayTrain); err != nil {
			return PurchaseResult{}, err
		}
		order.Status = domain.StatusSuccess
		if err := s.Orders.Insert(domain.OrderKey{Uid: uid, Oid: oid}, order); err != nil {
			return PurchaseResult{}, err
		}
		return PurchaseResult{Cost: order.Price, Oid: oid}, nil
	}

	if !acceptQueue {
		return PurchaseResult{}, apperr.RangeErr("insufficient_capacity", "only %d seats remain on %s/%s", remain, tid, from)
	}

	order.Status = domain.StatusPending
	if err := s.Orders.Insert(domain.OrderKey{Uid: uid, Oid: oid}, order); err != nil {
		return PurchaseResult{}, err
	}
	pendingKey := domain.PendingKey{StartDate: startDay, Tid: tid, Oid: oid}
	if err := s.Pending.Insert(pendingKey, domain.PendingEntry{Order: order}); err != nil {
		return PurchaseResult{}, err
	}
	return PurchaseResult{Queued: true, Oid: oid}, nil
}
