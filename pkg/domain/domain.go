// Package domain defines the reservation engine's entities — User,
// Train, TrainStation, DayTrain, Station, Order — and the fixed-width
// binary codecs pkg/store uses to persist them in pkg/pmap. Field
// layouts follow spec.md §3 exactly. NewTrain spells out every Train
// field's default; records elsewhere are built with struct literals and
// rely on Go zero values for the fields they omit.
package domain

import "ticketcore/pkg/railtime"

// Fixed bounds from spec.md §3 and §5 (StationNum_Max / Pool_Max are
// decided values: the original's const.hpp was not part of the
// retrieval pack, see SPEC_FULL.md §5).
const (
	MaxUID         = 20
	MaxTID         = 20
	MaxStationName = 30
	MaxPassword    = 30
	MaxMailLen     = 30
	MaxDisplayRunes = 5 // measured in east-asian "wide chars", see pkg/domain/width.go
	StationNumMax  = 100
	PoolMax        = 100000
)

// Privilege bounds, spec.md §3.
const (
	MinPrivilege = 0
	MaxPrivilege = 10
)

// User is keyed by Uid. Never deleted once created.
type User struct {
	Uid       string
	Password  string
	Name      string
	Mail      string
	Privilege int
}

// Train is keyed by Tid. Holds only the fixed-size metadata; the
// per-stop schedule lives in the TrainStation secondary index (see
// SPEC_FULL.md §5.1).
type Train struct {
	Tid           string
	StationNum    int
	TotalSeatNum  int
	StartTime     railtime.Minute // leavingTimes[0]: clock fused with the 01-01 anchor date
	SaleDateStart railtime.Minute
	SaleDateEnd   railtime.Minute
	Type          byte
	IsReleased    bool
}

// NewTrain zero-defaults every field explicitly: IsReleased=false,
// StartTime/SaleDateStart/SaleDateEnd=0 are valid zero values only once
// overwritten by add_train — callers must always set them before
// release.
func NewTrain(tid string) Train {
	return Train{
		Tid:           tid,
		StationNum:    0,
		TotalSeatNum:  0,
		StartTime:     0,
		SaleDateStart: 0,
		SaleDateEnd:   0,
		Type:          0,
		IsReleased:    false,
	}
}

// TrainStation is keyed by (Tid, Index) and holds one stop's schedule
// detail. ArrivingTime/LeavingTime are clock offsets fused with the
// 01-01 anchor the same way Train.StartTime is (railtime's "synthetic
// anchor date" convention, spec.md §9 open question); PriceSum is the
// cumulative fare from station 0 up to and including this stop.
// Index 0 has ArrivingTime=0 (unused, spec.md §3); the last index has
// LeavingTime=railtime.InfTime.
type TrainStation struct {
	Tid          string
	Index        int
	Name         string
	ArrivingTime railtime.Minute
	LeavingTime  railtime.Minute
	PriceSum     int64
}

// Station is the (stationName, tid) search index: a denormalized
// projection of one TrainStation entry plus the handful of Train fields
// the search engine needs without a second lookup (spec.md §4.4).
type Station struct {
	Name          string
	Tid           string
	Index         int
	ArrivingTime  railtime.Minute
	LeavingTime   railtime.Minute
	PriceSum      int64
	SaleDateStart railtime.Minute
	SaleDateEnd   railtime.Minute
	StationNum    int
	TotalSeatNum  int
}

// DayTrain is keyed by (StartDate, Tid): the per-departure seat vector.
// SeatNum[i] is remaining capacity on the link from stop i to i+1; the
// last slot is unused (spec.md §4.3).
type DayTrain struct {
	StartDate railtime.Minute
	Tid       string
	SeatNum   []int
}

// OrderStatus is the three-state purchase lifecycle (spec.md §3).
type OrderStatus byte

const (
	StatusSuccess OrderStatus = iota
	StatusPending
	StatusRefunded
)

func (s OrderStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusPending:
		return "pending"
	case StatusRefunded:
		return "refunded"
	default:
		return "unknown"
	}
}

// Order is keyed by (Uid, Oid). FromStation/ToStation and the absolute
// LeavingTime/ArrivingTime are denormalized onto the order at purchase
// time (startDay-adjusted) so query_order and refund never need to
// rejoin against Train/TrainStation.
type Order struct {
	Oid         int
	Uid         string
	Tid         string
	StartDate   railtime.Minute
	From        int
	To          int
	FromStation string
	ToStation   string
	LeavingTime railtime.Minute
	ArrivingTime railtime.Minute
	Price       int64
	Num         int
	Status      OrderStatus
}

// PendingEntry is the PendingQ value: a copy of the Order, keyed by
// ((StartDate, Tid), Oid) in pkg/store so the inventory engine can scan
// one departure's pending queue in oid order without touching any
// user's order list.
type PendingEntry struct {
	Order Order
}
