package domain

import (
	"encoding/binary"
	"strings"

	"ticketcore/pkg/pmap"
	"ticketcore/pkg/railtime"
)

// fixed-width helpers shared by every codec in this file. Strings are
// zero-padded on the right so that a prefix byte comparison (used by
// pmap's range scans) agrees with lexicographic string ordering:
// zero bytes sort before any printable ASCII character, so a shorter
// string always orders before a longer string that extends it.

func encodeFixedString(s string, n int, buf []byte) {
	copy(buf, s)
	for i := len(s); i < n; i++ {
		buf[i] = 0
	}
}

func decodeFixedString(buf []byte) string {
	return strings.TrimRight(string(buf), "\x00")
}

func encodeOrderedInt64(v int64, buf []byte) {
	binary.BigEndian.PutUint64(buf, uint64(v)^0x8000000000000000)
}

func decodeOrderedInt64(buf []byte) int64 {
	return int64(binary.BigEndian.Uint64(buf) ^ 0x8000000000000000)
}

func encodeMinute(m railtime.Minute, buf []byte) { encodeOrderedInt64(int64(m), buf) }
func decodeMinute(buf []byte) railtime.Minute    { return railtime.Minute(decodeOrderedInt64(buf)) }

// StringKeyCodec is a KeyCodec[string] for a single fixed-width id
// field (uid or tid).
type StringKeyCodec struct{ N int }

func (c StringKeyCodec) Size() int               { return c.N }
func (c StringKeyCodec) Encode(k string, buf []byte) { encodeFixedString(k, c.N, buf) }
func (c StringKeyCodec) Decode(buf []byte) string { return decodeFixedString(buf) }
func (c StringKeyCodec) Compare(a, b string) int  { return strings.Compare(a, b) }

var (
	UIDKeyCodec = StringKeyCodec{N: MaxUID}
	TIDKeyCodec = StringKeyCodec{N: MaxTID}
)

// StationKey is the (stationName, tid) composite key of the Station
// search index.
type StationKey struct {
	Name string
	Tid  string
}

// MaxStationKey builds the upper sentinel for a prefix scan over every
// tid at a given station name (INF_TID of spec.md §4.4). Sentinel keys
// are only ever compared, never stored, so the Tid field need not be a
// valid fixed-width id — a single byte greater than any real id
// character suffices for ordering purposes.
func MaxStationKey(name string) StationKey { return StationKey{Name: name, Tid: "\xff"} }

// MinStationKey builds the lower sentinel (empty tid) for the same scan.
func MinStationKey(name string) StationKey { return StationKey{Name: name, Tid: ""} }

type StationKeyCodec struct{}

func (StationKeyCodec) Size() int { return MaxStationName + MaxTID }

func (StationKeyCodec) Encode(k StationKey, buf []byte) {
	encodeFixedString(k.Name, MaxStationName, buf[:MaxStationName])
	encodeFixedString(k.Tid, MaxTID, buf[MaxStationName:])
}

func (StationKeyCodec) Decode(buf []byte) StationKey {
	return StationKey{
		Name: decodeFixedString(buf[:MaxStationName]),
		Tid:  decodeFixedString(buf[MaxStationName : MaxStationName+MaxTID]),
	}
}

func (StationKeyCodec) Compare(a, b StationKey) int {
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return strings.Compare(a.Tid, b.Tid)
}

var StationKC = StationKeyCodec{}

// TrainStationKey is the (tid, index) composite key of the per-stop
// schedule index (SPEC_FULL.md §5.1).
type TrainStationKey struct {
	Tid   string
	Index int
}

type TrainStationKeyCodec struct{}

func (TrainStationKeyCodec) Size() int { return MaxTID + 4 }

func (TrainStationKeyCodec) Encode(k TrainStationKey, buf []byte) {
	encodeFixedString(k.Tid, MaxTID, buf[:MaxTID])
	binary.BigEndian.PutUint32(buf[MaxTID:], uint32(int32(k.Index)))
}

func (TrainStationKeyCodec) Decode(buf []byte) TrainStationKey {
	return TrainStationKey{
		Tid:   decodeFixedString(buf[:MaxTID]),
		Index: int(int32(binary.BigEndian.Uint32(buf[MaxTID:]))),
	}
}

func (TrainStationKeyCodec) Compare(a, b TrainStationKey) int {
	if c := strings.Compare(a.Tid, b.Tid); c != 0 {
		return c
	}
	return a.Index - b.Index
}

var TrainStationKC = TrainStationKeyCodec{}

// DayTrainKey is the (startDate, tid) composite key.
type DayTrainKey struct {
	StartDate railtime.Minute
	Tid       string
}

type DayTrainKeyCodec struct{}

func (DayTrainKeyCodec) Size() int { return 8 + MaxTID }

func (DayTrainKeyCodec) Encode(k DayTrainKey, buf []byte) {
	encodeMinute(k.StartDate, buf[:8])
	encodeFixedString(k.Tid, MaxTID, buf[8:])
}

func (DayTrainKeyCodec) Decode(buf []byte) DayTrainKey {
	return DayTrainKey{StartDate: decodeMinute(buf[:8]), Tid: decodeFixedString(buf[8:])}
}

func (DayTrainKeyCodec) Compare(a, b DayTrainKey) int {
	if a.StartDate != b.StartDate {
		if a.StartDate < b.StartDate {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Tid, b.Tid)
}

var DayTrainKC = DayTrainKeyCodec{}

// OrderKey is the (uid, oid) composite key.
type OrderKey struct {
	Uid string
	Oid int
}

type OrderKeyCodec struct{}

func (OrderKeyCodec) Size() int { return MaxUID + 8 }

func (OrderKeyCodec) Encode(k OrderKey, buf []byte) {
	encodeFixedString(k.Uid, MaxUID, buf[:MaxUID])
	encodeOrderedInt64(int64(k.Oid), buf[MaxUID:])
}

func (OrderKeyCodec) Decode(buf []byte) OrderKey {
	return OrderKey{Uid: decodeFixedString(buf[:MaxUID]), Oid: int(decodeOrderedInt64(buf[MaxUID:]))}
}

func (OrderKeyCodec) Compare(a, b OrderKey) int {
	if c := strings.Compare(a.Uid, b.Uid); c != 0 {
		return c
	}
	return a.Oid - b.Oid
}

var OrderKC = OrderKeyCodec{}

// PendingKey is the ((startDate, tid), oid) composite key of PendingQ.
type PendingKey struct {
	StartDate railtime.Minute
	Tid       string
	Oid       int
}

type PendingKeyCodec struct{}

func (PendingKeyCodec) Size() int { return 8 + MaxTID + 8 }

func (PendingKeyCodec) Encode(k PendingKey, buf []byte) {
	encodeMinute(k.StartDate, buf[:8])
	encodeFixedString(k.Tid, MaxTID, buf[8:8+MaxTID])
	encodeOrderedInt64(int64(k.Oid), buf[8+MaxTID:])
}

func (PendingKeyCodec) Decode(buf []byte) PendingKey {
	return PendingKey{
		StartDate: decodeMinute(buf[:8]),
		Tid:       decodeFixedString(buf[8 : 8+MaxTID]),
		Oid:       int(decodeOrderedInt64(buf[8+MaxTID:])),
	}
}

func (PendingKeyCodec) Compare(a, b PendingKey) int {
	if a.StartDate != b.StartDate {
		if a.StartDate < b.StartDate {
			return -1
		}
		return 1
	}
	if c := strings.Compare(a.Tid, b.Tid); c != 0 {
		return c
	}
	return a.Oid - b.Oid
}

var PendingKC = PendingKeyCodec{}

// compile-time interface satisfaction checks.
var (
	_ pmap.KeyCodec[string]           = StringKeyCodec{}
	_ pmap.KeyCodec[StationKey]       = StationKeyCodec{}
	_ pmap.KeyCodec[TrainStationKey]  = TrainStationKeyCodec{}
	_ pmap.KeyCodec[DayTrainKey]      = DayTrainKeyCodec{}
	_ pmap.KeyCodec[OrderKey]         = OrderKeyCodec{}
	_ pmap.KeyCodec[PendingKey]       = PendingKeyCodec{}
)
