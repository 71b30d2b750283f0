package command

import (
	"fmt"

	"ticketcore/pkg/apperr"
	"ticketcore/pkg/domain"
	"ticketcore/pkg/railtime"
)

func (d *Dispatcher) addTrain(rec Record) (Result, error) {
	if err := requireExact(rec, 'i', 'n', 'm', 's', 'p', 'x', 't', 'o', 'd', 'y'); err != nil {
		return Result{}, err
	}
	tid, _ := rec.Get('i')
	nStr, _ := rec.Get('n')
	mStr, _ := rec.Get('m')
	sStr, _ := rec.Get('s')
	pStr, _ := rec.Get('p')
	xStr, _ := rec.Get('x')
	tStr, _ := rec.Get('t')
	oStr, _ := rec.Get('o')
	dStr, _ := rec.Get('d')
	yStr, _ := rec.Get('y')

	if _, exists, err := d.stores.GetTrain(tid); err != nil {
		return Result{}, err
	} else if exists {
		return Result{}, apperr.Duplicate("tid_exists", "train %s already exists", tid)
	}

	n, err := parseInt("add_train", nStr)
	if err != nil {
		return Result{}, err
	}
	if n < 2 || n > domain.StationNumMax {
		return Result{}, apperr.Arg("bad_station_num", "stationNum %d out of range", n)
	}
	totalSeatNum, err := parseInt("add_train", mStr)
	if err != nil {
		return Result{}, err
	}

	stations := splitPipe(sStr)
	if len(stations) != n {
		return Result{}, apperr.Arg("bad_station_list", "expected %d stations, got %d", n, len(stations))
	}
	prices, err := parseIntList("add_train", pStr)
	if err != nil {
		return Result{}, err
	}
	if len(prices) != n-1 {
		return Result{}, apperr.Arg("bad_price_list", "expected %d prices, got %d", n-1, len(prices))
	}
	travel, err := parseIntList("add_train", tStr)
	if err != nil {
		return Result{}, err
	}
	if len(travel) != n-1 {
		return Result{}, apperr.Arg("bad_travel_list", "expected %d travel times, got %d", n-1, len(travel))
	}
	stopover, err := parseIntList("add_train", oStr)
	if err != nil {
		return Result{}, err
	}
	if len(stopover) != n-2 {
		return Result{}, apperr.Arg("bad_stopover_list", "expected %d stopover times, got %d", n-2, len(stopover))
	}
	startTime, err := railtime.ParseDateTime("01-01 " + xStr)
	if err != nil {
		return Result{}, apperr.Arg("bad_start_time", "%v", err)
	}
	saleStart, saleEnd, err := parseDateRange(dStr)
	if err != nil {
		return Result{}, err
	}
	if len(yStr) != 1 {
		return Result{}, apperr.Arg("bad_type", "type must be a single character")
	}

	arriving := make([]railtime.Minute, n)
	leaving := make([]railtime.Minute, n)
	priceSum := make([]int64, n)
	leaving[0] = startTime
	for k := 1; k < n; k++ {
		arriving[k] = leaving[k-1].Add(railtime.Minute(travel[k-1]))
		if k < n-1 {
			leaving[k] = arriving[k].Add(railtime.Minute(stopover[k-1]))
		} else {
			leaving[k] = railtime.InfTime
		}
		priceSum[k] = priceSum[k-1] + int64(prices[k-1])
	}

	train := domain.Train{
		StationNum:    n,
		TotalSeatNum:  totalSeatNum,
		StartTime:     startTime,
		SaleDateStart: saleStart,
		SaleDateEnd:   saleEnd,
		Type:          yStr[0],
		IsReleased:    false,
	}
	if err := d.stores.Trains.Insert(tid, train); err != nil {
		return Result{}, err
	}
	for k := 0; k < n; k++ {
		ts := domain.TrainStation{Name: stations[k], ArrivingTime: arriving[k], LeavingTime: leaving[k], PriceSum: priceSum[k]}
		key := domain.TrainStationKey{Tid: tid, Index: k}
		if err := d.stores.TrainStations.Insert(key, ts); err != nil {
			return Result{}, err
		}
	}
	return ok0(), nil
}

func (d *Dispatcher) releaseTrain(rec Record) (Result, error) {
	if err := requireExact(rec, 'i'); err != nil {
		return Result{}, err
	}
	tid, _ := rec.Get('i')
	train, ok, err := d.stores.GetTrain(tid)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, apperr.NotFound("tid_not_found", "train %s does not exist", tid)
	}
	if train.IsReleased {
		return Result{}, apperr.State("already_released", "train %s is already released", tid)
	}

	stops, err := d.stores.LoadStops(tid, train.StationNum)
	if err != nil {
		return Result{}, err
	}
	for k, stop := range stops {
		st := domain.Station{
			Index:         k,
			ArrivingTime:  stop.ArrivingTime,
			LeavingTime:   stop.LeavingTime,
			PriceSum:      stop.PriceSum,
			SaleDateStart: train.SaleDateStart,
			SaleDateEnd:   train.SaleDateEnd,
			StationNum:    train.StationNum,
			TotalSeatNum:  train.TotalSeatNum,
		}
		if err := d.stores.Stations.Insert(domain.StationKey{Name: stop.Name, Tid: tid}, st); err != nil {
			return Result{}, err
		}
	}

	for date := train.SaleDateStart; !train.SaleDateEnd.Less(date); date = date.Add(railtime.OneDay) {
		seats := make([]int, train.StationNum)
		for i := 0; i < train.StationNum-1; i++ {
			seats[i] = train.TotalSeatNum
		}
		key := domain.DayTrainKey{StartDate: date, Tid: tid}
		if err := d.stores.DayTrains.Insert(key, domain.DayTrain{SeatNum: seats}); err != nil {
			return Result{}, err
		}
	}

	train.IsReleased = true
	if err := d.stores.Trains.Modify(tid, train); err != nil {
		return Result{}, err
	}
	return ok0(), nil
}

func (d *Dispatcher) deleteTrain(rec Record) (Result, error) {
	if err := requireExact(rec, 'i'); err != nil {
		return Result{}, err
	}
	tid, _ := rec.Get('i')
	train, ok, err := d.stores.GetTrain(tid)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, apperr.NotFound("tid_not_found", "train %s does not exist", tid)
	}
	if train.IsReleased {
		return Result{}, apperr.State("train_released", "released train %s cannot be deleted", tid)
	}
	for k := 0; k < train.StationNum; k++ {
		if err := d.stores.TrainStations.Erase(domain.TrainStationKey{Tid: tid, Index: k}); err != nil {
			return Result{}, err
		}
	}
	if err := d.stores.Trains.Erase(tid); err != nil {
		return Result{}, err
	}
	return ok0(), nil
}

func (d *Dispatcher) queryTrain(rec Record) (Result, error) {
	if err := requireExact(rec, 'i', 'd'); err != nil {
		return Result{}, err
	}
	tid, _ := rec.Get('i')
	dStr, _ := rec.Get('d')
	date, err := railtime.ParseDate(dStr)
	if err != nil {
		return Result{}, apperr.Arg("bad_date", "%v", err)
	}

	train, ok, err := d.stores.GetTrain(tid)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, apperr.NotFound("tid_not_found", "train %s does not exist", tid)
	}
	stops, err := d.stores.LoadStops(tid, train.StationNum)
	if err != nil {
		return Result{}, err
	}

	var dayTrain domain.DayTrain
	haveDay := false
	if train.IsReleased {
		if date.Less(train.SaleDateStart) || train.SaleDateEnd.Less(date) {
			return Result{}, apperr.RangeErr("outside_sale_window", "train %s does not depart on %s", tid, date.Format())
		}
		dt, ok, err := d.stores.GetDayTrain(domain.DayTrainKey{StartDate: date, Tid: tid})
		if err != nil {
			return Result{}, err
		}
		if !ok {
			return Result{}, apperr.NotFound("departure_not_found", "no departure of %s on %s", tid, date.Format())
		}
		dayTrain = dt
		haveDay = true
	}

	lines := make([]string, 0, train.StationNum+1)
	lines = append(lines, fmt.Sprintf("%s %c", tid, train.Type))
	for k, stop := range stops {
		arr := "xx-xx xx:xx"
		if k > 0 {
			arr = date.Add(stop.ArrivingTime).Format()
		}
		lea := "xx-xx xx:xx"
		if k < train.StationNum-1 {
			lea = date.Add(stop.LeavingTime).Format()
		}
		seat := "x"
		if k < train.StationNum-1 {
			if haveDay {
				seat = fmt.Sprintf("%d", dayTrain.SeatNum[k])
			} else {
				seat = fmt.Sprintf("%d", train.TotalSeatNum)
			}
		}
		lines = append(lines, fmt.Sprintf("%s %s -> %s %d %s", stop.Name, arr, lea, stop.PriceSum, seat))
	}
	return Result{Lines: lines}, nil
}
