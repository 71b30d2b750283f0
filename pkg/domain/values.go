package domain

import (
	"encoding/binary"

	"ticketcore/pkg/pmap"
	"ticketcore/pkg/railtime"
)

func putInt64(buf []byte, v int64)   { binary.BigEndian.PutUint64(buf, uint64(v)) }
func getInt64(buf []byte) int64      { return int64(binary.BigEndian.Uint64(buf)) }
func putInt32(buf []byte, v int)     { binary.BigEndian.PutUint32(buf, uint32(int32(v))) }
func getInt32(buf []byte) int        { return int(int32(binary.BigEndian.Uint32(buf))) }
func putMinute(buf []byte, m railtime.Minute) { putInt64(buf, int64(m)) }
func getMinute(buf []byte) railtime.Minute    { return railtime.Minute(getInt64(buf)) }
func putBool(buf []byte, b bool) {
	if b {
		buf[0] = 1
	} else {
		buf[0] = 0
	}
}
func getBool(buf []byte) bool { return buf[0] != 0 }

// UserValueCodec encodes the full User record.
type UserValueCodec struct{}

const userValueSize = MaxPassword + MaxStationName /*name, reuse bound*/ + MaxMailLen + 4

func (UserValueCodec) Size() int { return userValueSize }

func (UserValueCodec) Encode(u User, buf []byte) {
	off := 0
	encodeFixedString(u.Password, MaxPassword, buf[off:off+MaxPassword])
	off += MaxPassword
	encodeFixedString(u.Name, MaxStationName, buf[off:off+MaxStationName])
	off += MaxStationName
	encodeFixedString(u.Mail, MaxMailLen, buf[off:off+MaxMailLen])
	off += MaxMailLen
	putInt32(buf[off:off+4], u.Privilege)
}

func (UserValueCodec) Decode(buf []byte) User {
	off := 0
	password := decodeFixedString(buf[off : off+MaxPassword])
	off += MaxPassword
	name := decodeFixedString(buf[off : off+MaxStationName])
	off += MaxStationName
	mail := decodeFixedString(buf[off : off+MaxMailLen])
	off += MaxMailLen
	priv := getInt32(buf[off : off+4])
	return User{Password: password, Name: name, Mail: mail, Privilege: priv}
}

var UserVC = UserValueCodec{}

// TrainValueCodec encodes Train's fixed-size metadata.
type TrainValueCodec struct{}

const trainValueSize = 4 + 4 + 8 + 8 + 8 + 1 + 1

func (TrainValueCodec) Size() int { return trainValueSize }

func (TrainValueCodec) Encode(t Train, buf []byte) {
	off := 0
	putInt32(buf[off:off+4], t.StationNum)
	off += 4
	putInt32(buf[off:off+4], t.TotalSeatNum)
	off += 4
	putMinute(buf[off:off+8], t.StartTime)
	off += 8
	putMinute(buf[off:off+8], t.SaleDateStart)
	off += 8
	putMinute(buf[off:off+8], t.SaleDateEnd)
	off += 8
	buf[off] = t.Type
	off++
	putBool(buf[off:off+1], t.IsReleased)
}

func (TrainValueCodec) Decode(buf []byte) Train {
	off := 0
	stationNum := getInt32(buf[off : off+4])
	off += 4
	totalSeatNum := getInt32(buf[off : off+4])
	off += 4
	startTime := getMinute(buf[off : off+8])
	off += 8
	saleStart := getMinute(buf[off : off+8])
	off += 8
	saleEnd := getMinute(buf[off : off+8])
	off += 8
	typ := buf[off]
	off++
	released := getBool(buf[off : off+1])
	return Train{
		StationNum:    stationNum,
		TotalSeatNum:  totalSeatNum,
		StartTime:     startTime,
		SaleDateStart: saleStart,
		SaleDateEnd:   saleEnd,
		Type:          typ,
		IsReleased:    released,
	}
}

var TrainVC = TrainValueCodec{}

// TrainStationValueCodec encodes one TrainStation stop record (the key
// already carries Tid/Index, so only the schedule detail is stored).
type TrainStationValueCodec struct{}

const trainStationValueSize = MaxStationName + 8 + 8 + 8

func (TrainStationValueCodec) Size() int { return trainStationValueSize }

func (TrainStationValueCodec) Encode(s TrainStation, buf []byte) {
	off := 0
	encodeFixedString(s.Name, MaxStationName, buf[off:off+MaxStationName])
	off += MaxStationName
	putMinute(buf[off:off+8], s.ArrivingTime)
	off += 8
	putMinute(buf[off:off+8], s.LeavingTime)
	off += 8
	putInt64(buf[off:off+8], s.PriceSum)
}

func (TrainStationValueCodec) Decode(buf []byte) TrainStation {
	off := 0
	name := decodeFixedString(buf[off : off+MaxStationName])
	off += MaxStationName
	arr := getMinute(buf[off : off+8])
	off += 8
	lea := getMinute(buf[off : off+8])
	off += 8
	price := getInt64(buf[off : off+8])
	return TrainStation{Name: name, ArrivingTime: arr, LeavingTime: lea, PriceSum: price}
}

var TrainStationVC = TrainStationValueCodec{}

// StationValueCodec encodes the Station search-index projection (the
// key carries Name/Tid already).
type StationValueCodec struct{}

const stationValueSize = 4 + 8 + 8 + 8 + 8 + 8 + 4 + 4

func (StationValueCodec) Size() int { return stationValueSize }

func (StationValueCodec) Encode(s Station, buf []byte) {
	off := 0
	putInt32(buf[off:off+4], s.Index)
	off += 4
	putMinute(buf[off:off+8], s.ArrivingTime)
	off += 8
	putMinute(buf[off:off+8], s.LeavingTime)
	off += 8
	putInt64(buf[off:off+8], s.PriceSum)
	off += 8
	putMinute(buf[off:off+8], s.SaleDateStart)
	off += 8
	putMinute(buf[off:off+8], s.SaleDateEnd)
	off += 8
	putInt32(buf[off:off+4], s.StationNum)
	off += 4
	putInt32(buf[off:off+4], s.TotalSeatNum)
}

func (StationValueCodec) Decode(buf []byte) Station {
	off := 0
	index := getInt32(buf[off : off+4])
	off += 4
	arr := getMinute(buf[off : off+8])
	off += 8
	lea := getMinute(buf[off : off+8])
	off += 8
	price := getInt64(buf[off : off+8])
	off += 8
	saleStart := getMinute(buf[off : off+8])
	off += 8
	saleEnd := getMinute(buf[off : off+8])
	off += 8
	stationNum := getInt32(buf[off : off+4])
	off += 4
	totalSeatNum := getInt32(buf[off : off+4])
	return Station{
		Index:         index,
		ArrivingTime:  arr,
		LeavingTime:   lea,
		PriceSum:      price,
		SaleDateStart: saleStart,
		SaleDateEnd:   saleEnd,
		StationNum:    stationNum,
		TotalSeatNum:  totalSeatNum,
	}
}

var StationVC = StationValueCodec{}

// DayTrainValueCodec encodes the per-departure seat vector, padded to
// StationNumMax entries regardless of the train's actual stop count.
type DayTrainValueCodec struct{}

const dayTrainValueSize = 4 + StationNumMax*4

func (DayTrainValueCodec) Size() int { return dayTrainValueSize }

func (DayTrainValueCodec) Encode(d DayTrain, buf []byte) {
	putInt32(buf[0:4], len(d.SeatNum))
	for i := 0; i < StationNumMax; i++ {
		off := 4 + i*4
		if i < len(d.SeatNum) {
			putInt32(buf[off:off+4], d.SeatNum[i])
		} else {
			putInt32(buf[off:off+4], 0)
		}
	}
}

func (DayTrainValueCodec) Decode(buf []byte) DayTrain {
	n := getInt32(buf[0:4])
	seats := make([]int, n)
	for i := 0; i < n; i++ {
		off := 4 + i*4
		seats[i] = getInt32(buf[off : off+4])
	}
	return DayTrain{SeatNum: seats}
}

var DayTrainVC = DayTrainValueCodec{}

// orderFieldsSize is the encoded size of an Order's non-key fields
// shared by OrderValueCodec and PendingValueCodec (the PendingQ value
// is a full copy of the Order, spec.md §3).
const orderFieldsSize = MaxTID + 8 + 4 + 4 + MaxStationName + MaxStationName + 8 + 8 + 8 + 4 + 1

func encodeOrderFields(o Order, buf []byte) {
	off := 0
	encodeFixedString(o.Tid, MaxTID, buf[off:off+MaxTID])
	off += MaxTID
	putMinute(buf[off:off+8], o.StartDate)
	off += 8
	putInt32(buf[off:off+4], o.From)
	off += 4
	putInt32(buf[off:off+4], o.To)
	off += 4
	encodeFixedString(o.FromStation, MaxStationName, buf[off:off+MaxStationName])
	off += MaxStationName
	encodeFixedString(o.ToStation, MaxStationName, buf[off:off+MaxStationName])
	off += MaxStationName
	putMinute(buf[off:off+8], o.LeavingTime)
	off += 8
	putMinute(buf[off:off+8], o.ArrivingTime)
	off += 8
	putInt64(buf[off:off+8], o.Price)
	off += 8
	putInt32(buf[off:off+4], o.Num)
	off += 4
	buf[off] = byte(o.Status)
}

func decodeOrderFields(buf []byte) Order {
	off := 0
	tid := decodeFixedString(buf[off : off+MaxTID])
	off += MaxTID
	startDate := getMinute(buf[off : off+8])
	off += 8
	from := getInt32(buf[off : off+4])
	off += 4
	to := getInt32(buf[off : off+4])
	off += 4
	fromStation := decodeFixedString(buf[off : off+MaxStationName])
	off += MaxStationName
	toStation := decodeFixedString(buf[off : off+MaxStationName])
	off += MaxStationName
	leaving := getMinute(buf[off : off+8])
	off += 8
	arriving := getMinute(buf[off : off+8])
	off += 8
	price := getInt64(buf[off : off+8])
	off += 8
	num := getInt32(buf[off : off+4])
	off += 4
	status := OrderStatus(buf[off])
	return Order{
		Tid:          tid,
		StartDate:    startDate,
		From:         from,
		To:           to,
		FromStation:  fromStation,
		ToStation:    toStation,
		LeavingTime:  leaving,
		ArrivingTime: arriving,
		Price:        price,
		Num:          num,
		Status:       status,
	}
}

// OrderValueCodec encodes an Order (the key carries Uid/Oid already).
type OrderValueCodec struct{}

func (OrderValueCodec) Size() int { return orderFieldsSize }
func (OrderValueCodec) Encode(o Order, buf []byte) { encodeOrderFields(o, buf) }
func (OrderValueCodec) Decode(buf []byte) Order     { return decodeOrderFields(buf) }

var OrderVC = OrderValueCodec{}

// PendingValueCodec encodes a PendingEntry (a full Order copy; the key
// carries StartDate/Tid/Oid already, but the payload still needs its
// own Tid/StartDate/Oid to reconstruct a standalone Order for the
// user-keyed store update on drain).
type PendingValueCodec struct{}

func (PendingValueCodec) Size() int { return orderFieldsSize + MaxUID + 8 }

func (PendingValueCodec) Encode(p PendingEntry, buf []byte) {
	encodeOrderFields(p.Order, buf[:orderFieldsSize])
	encodeFixedString(p.Order.Uid, MaxUID, buf[orderFieldsSize:orderFieldsSize+MaxUID])
	putInt64(buf[orderFieldsSize+MaxUID:], int64(p.Order.Oid))
}

func (PendingValueCodec) Decode(buf []byte) PendingEntry {
	o := decodeOrderFields(buf[:orderFieldsSize])
	o.Uid = decodeFixedString(buf[orderFieldsSize : orderFieldsSize+MaxUID])
	o.Oid = int(getInt64(buf[orderFieldsSize+MaxUID:]))
	return PendingEntry{Order: o}
}

var PendingVC = PendingValueCodec{}

var (
	_ pmap.ValueCodec[User]         = UserValueCodec{}
	_ pmap.ValueCodec[Train]        = TrainValueCodec{}
	_ pmap.ValueCodec[TrainStation] = TrainStationValueCodec{}
	_ pmap.ValueCodec[Station]      = StationValueCodec{}
	_ pmap.ValueCodec[DayTrain]     = DayTrainValueCodec{}
	_ pmap.ValueCodec[Order]        = OrderValueCodec{}
	_ pmap.ValueCodec[PendingEntry] = PendingValueCodec{}
)
