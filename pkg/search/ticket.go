// Package search implements the station-indexed direct and two-leg
// transfer ticket search (spec.md §4.4): a hash join by tid over the
// Station index for direct tickets, and an intermediate-station enumeration
// with the "fastest catch-up" boarding-date arithmetic for transfers.
package search

import (
	"sort"

	"ticketcore/pkg/domain"
	"ticketcore/pkg/inventory"
	"ticketcore/pkg/railtime"
	"ticketcore/pkg/store"
)

// SortKey selects the search engine's primary ordering.
type SortKey int

const (
	SortByTime SortKey = iota
	SortByCost
)

// Ticket is one direct-search result or transfer-search leg.
type Ticket struct {
	Tid    string
	From   string
	To     string
	Leave  railtime.Minute
	Arrive railtime.Minute
	Price  int64
	Seats  int
}

// Direct implements query_ticket: a hash join by tid over the Station
// index entries at s and t, filtered by ordering/sale-window validity,
// sorted by (cost,tid) or (time,tid).
func Direct(s *store.Stores, date railtime.Minute, from, to string, sortKey SortKey) ([]Ticket, error) {
	fromStations, err := s.StationsForName(from)
	if err != nil {
		return nil, err
	}
	toStations, err := s.StationsForName(to)
	if err != nil {
		return nil, err
	}

	byTid := make(map[string]domain.Station, len(toStations))
	for _, st := range toStations {
		byTid[st.Tid] = st
	}

	var out []Ticket
	for _, fromSt := range fromStations {
		toSt, ok := byTid[fromSt.Tid]
		if !ok {
			continue
		}
		if !(fromSt.LeavingTime < toSt.ArrivingTime) || fromSt.Index >= toSt.Index {
			continue
		}
		startDay := date.Sub(fromSt.LeavingTime.DateComponent())
		if startDay.Less(fromSt.SaleDateStart) || fromSt.SaleDateEnd.Less(startDay) {
			continue
		}

		dayKey := domain.DayTrainKey{StartDate: startDay, Tid: fromSt.Tid}
		dayTrain, ok, err := s.GetDayTrain(dayKey)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		seats := inventory.QuerySeat(dayTrain.SeatNum, fromSt.Index, toSt.Index-1)

		out = append(out, Ticket{
			Tid:    fromSt.Tid,
			From:   from,
			To:     to,
			Leave:  startDay.Add(fromSt.LeavingTime),
			Arrive: startDay.Add(toSt.ArrivingTime),
			Price:  toSt.PriceSum - fromSt.PriceSum,
			Seats:  seats,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch sortKey {
		case SortByCost:
			if a.Price != b.Price {
				return a.Price < b.Price
			}
		default:
			at := a.Arrive - a.Leave
			bt := b.Arrive - b.Leave
			if at != bt {
				return at < bt
			}
		}
		return a.Tid < b.Tid
	})
	return out, nil
}
