package search

import (
	"ticketcore/pkg/domain"
	"ticketcore/pkg/inventory"
	"ticketcore/pkg/railtime"
	"ticketcore/pkg/store"
)

// TransferResult is a winning two-leg itinerary.
type TransferResult struct {
	Leg1 Ticket
	Leg2 Ticket
}

type transferCandidate struct {
	totalTime    railtime.Minute
	totalCost    int64
	firstLegTime railtime.Minute
	tid1, tid2   string

	fromSt, xOn1 domain.Station // fromSt: boarding stop of leg1; xOn1: x as seen on train1
	toSt, xOn2   domain.Station // toSt: alighting stop of leg2; xOn2: x as seen on train2
	startDay1    railtime.Minute
	startDay2    railtime.Minute
}

// Transfer implements query_transfer: the best single-change itinerary
// boarding at s on date and alighting at t, per spec.md §4.4's
// selection ordering and "fastest catch-up" boarding-date arithmetic.
// Returns ok=false if no valid pair exists.
func Transfer(s *store.Stores, date railtime.Minute, from, to string, sortKey SortKey) (TransferResult, bool, error) {
	fromStations, err := s.StationsForName(from)
	if err != nil {
		return TransferResult{}, false, err
	}
	toStations, err := s.StationsForName(to)
	if err != nil {
		return TransferResult{}, false, err
	}

	var best *transferCandidate

	stopCache := map[string][]domain.TrainStation{}
	loadStops := func(tid string, stationNum int) ([]domain.TrainStation, error) {
		if cached, ok := stopCache[tid]; ok {
			return cached, nil
		}
		stops, err := s.LoadStops(tid, stationNum)
		if err != nil {
			return nil, err
		}
		stopCache[tid] = stops
		return stops, nil
	}

	for _, si := range fromStations {
		startDay1 := date.Sub(si.LeavingTime.DateComponent())
		if startDay1.Less(si.SaleDateStart) || si.SaleDateEnd.Less(startDay1) {
			continue
		}
		stops1, err := loadStops(si.Tid, si.StationNum)
		if err != nil {
			return TransferResult{}, false, err
		}

		for _, ti := range toStations {
			if ti.Tid == si.Tid {
				continue
			}
			stops2, err := loadStops(ti.Tid, ti.StationNum)
			if err != nil {
				return TransferResult{}, false, err
			}

			for k := si.Index + 1; k < len(stops1); k++ {
				x1 := stops1[k]
				for l := 0; l < ti.Index; l++ {
					x2 := stops2[l]
					if x1.Name != x2.Name {
						continue
					}

					T1 := startDay1.Add(x1.ArrivingTime)
					dayAnchor := T1.DateComponent()
					var fastest railtime.Minute
					if x1.ArrivingTime.ClockComponent() <= x2.LeavingTime.ClockComponent() {
						fastest = dayAnchor.Sub(x2.LeavingTime.DateComponent())
					} else {
						fastest = dayAnchor.Add(railtime.OneDay).Sub(x2.LeavingTime.DateComponent())
					}
					if ti.SaleDateEnd.Less(fastest) {
						continue // spec.md §4.4: skip if fastest > endSaleDate@ti
					}
					startDay2 := fastest
					if startDay2.Less(ti.SaleDateStart) {
						startDay2 = ti.SaleDateStart
					}

					cand := transferCandidate{
						totalCost:    x1.PriceSum - si.PriceSum + ti.PriceSum - x2.PriceSum,
						totalTime:    (startDay2.Add(ti.ArrivingTime)).Sub(startDay1.Add(si.LeavingTime)),
						firstLegTime: x1.ArrivingTime - si.LeavingTime,
						tid1:         si.Tid,
						tid2:         ti.Tid,
						fromSt:       si,
						xOn1:         x1,
						toSt:         ti,
						xOn2:         x2,
						startDay1:    startDay1,
						startDay2:    startDay2,
					}
					if betterCandidate(best, &cand, sortKey) {
						c := cand
						best = &c
					}
				}
			}
		}
	}

	if best == nil {
		return TransferResult{}, false, nil
	}

	dayKey1 := domain.DayTrainKey{StartDate: best.startDay1, Tid: best.tid1}
	day1, ok, err := s.GetDayTrain(dayKey1)
	if err != nil {
		return TransferResult{}, false, err
	}
	if !ok {
		return TransferResult{}, false, nil
	}
	dayKey2 := domain.DayTrainKey{StartDate: best.startDay2, Tid: best.tid2}
	day2, ok, err := s.GetDayTrain(dayKey2)
	if err != nil {
		return TransferResult{}, false, err
	}
	if !ok {
		return TransferResult{}, false, nil
	}

	leg1 := Ticket{
		Tid:    best.tid1,
		From:   from,
		To:     best.xOn1.Name,
		Leave:  best.startDay1.Add(best.fromSt.LeavingTime),
		Arrive: best.startDay1.Add(best.xOn1.ArrivingTime),
		Price:  best.xOn1.PriceSum - best.fromSt.PriceSum,
		Seats:  inventory.QuerySeat(day1.SeatNum, best.fromSt.Index, best.xOn1.Index-1),
	}
	leg2 := Ticket{
		Tid:    best.tid2,
		From:   best.xOn2.Name,
		To:     to,
		Leave:  best.startDay2.Add(best.xOn2.LeavingTime),
		Arrive: best.startDay2.Add(best.toSt.ArrivingTime),
		Price:  best.toSt.PriceSum - best.xOn2.PriceSum,
		Seats:  inventory.QuerySeat(day2.SeatNum, best.xOn2.Index, best.toSt.Index-1),
	}
	return TransferResult{Leg1: leg1, Leg2: leg2}, true, nil
}

// betterCandidate implements the tie-break chain of spec.md §4.4:
// primary metric (time or cost), then first-leg time, then first
// train's tid, then second train's tid.
func betterCandidate(cur, cand *transferCandidate, sortKey SortKey) bool {
	if cur == nil {
		return true
	}
	var curPrimary, candPrimary int64
	if sortKey == SortByCost {
		curPrimary, candPrimary = cur.totalCost, cand.totalCost
	} else {
		curPrimary, candPrimary = int64(cur.totalTime), int64(cand.totalTime)
	}
	if candPrimary != curPrimary {
		return candPrimary < curPrimary
	}
	if cand.firstLegTime != cur.firstLegTime {
		return cand.firstLegTime < cur.firstLegTime
	}
	if cand.tid1 != cur.tid1 {
		return cand.tid1 < cur.tid1
	}
	return cand.tid2 < cur.tid2
}
