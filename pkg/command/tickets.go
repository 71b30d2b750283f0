package command

import (
	"fmt"

	"ticketcore/pkg/apperr"
	"ticketcore/pkg/inventory"
	"ticketcore/pkg/railtime"
	"ticketcore/pkg/search"
)

func sortKeyFromOpt(rec Record) (search.SortKey, error) {
	p, present := rec.Get('p')
	letter, err := parseSortKeyOpt(p, present)
	if err != nil {
		return 0, err
	}
	if letter == 'c' {
		return search.SortByCost, nil
	}
	return search.SortByTime, nil
}

func formatLeg(l search.Ticket) string {
	return fmt.Sprintf("%s %s %s -> %s %s %d %d", l.Tid, l.From, l.Leave.Format(), l.To, l.Arrive.Format(), l.Price, l.Seats)
}

func (d *Dispatcher) queryTicket(rec Record) (Result, error) {
	if err := requireAtLeast(rec, []byte{'s', 't', 'd'}, []byte{'p'}); err != nil {
		return Result{}, err
	}
	s, _ := rec.Get('s')
	t, _ := rec.Get('t')
	dStr, _ := rec.Get('d')
	date, err := railtime.ParseDate(dStr)
	if err != nil {
		return Result{}, apperr.Arg("bad_date", "%v", err)
	}
	sortKey, err := sortKeyFromOpt(rec)
	if err != nil {
		return Result{}, err
	}
	if s == t {
		return single("0"), nil
	}

	tickets, err := search.Direct(d.stores, date, s, t, sortKey)
	if err != nil {
		return Result{}, err
	}
	lines := make([]string, 0, len(tickets)+1)
	lines = append(lines, fmt.Sprintf("%d", len(tickets)))
	for _, tk := range tickets {
		lines = append(lines, formatLeg(tk))
	}
	return Result{Lines: lines}, nil
}

func (d *Dispatcher) queryTransfer(rec Record) (Result, error) {
	if err := requireAtLeast(rec, []byte{'s', 't', 'd'}, []byte{'p'}); err != nil {
		return Result{}, err
	}
	s, _ := rec.Get('s')
	t, _ := rec.Get('t')
	dStr, _ := rec.Get('d')
	date, err := railtime.ParseDate(dStr)
	if err != nil {
		return Result{}, apperr.Arg("bad_date", "%v", err)
	}
	sortKey, err := sortKeyFromOpt(rec)
	if err != nil {
		return Result{}, err
	}
	if s == t {
		return single("0"), nil
	}

	result, found, err := search.Transfer(d.stores, date, s, t, sortKey)
	if err != nil {
		return Result{}, err
	}
	if !found {
		return single("0"), nil
	}
	return Result{Lines: []string{formatLeg(result.Leg1), formatLeg(result.Leg2)}}, nil
}

func (d *Dispatcher) buyTicket(rec Record) (Result, error) {
	if err := requireAtLeast(rec, []byte{'u', 'i', 'd', 'n', 'f', 't'}, []byte{'q'}); err != nil {
		return Result{}, err
	}
	uid, _ := rec.Get('u')
	tid, _ := rec.Get('i')
	dStr, _ := rec.Get('d')
	nStr, _ := rec.Get('n')
	from, _ := rec.Get('f')
	to, _ := rec.Get('t')
	qStr, qPresent := rec.Get('q')

	if _, loggedIn := d.stores.Logged.Privilege(uid); !loggedIn {
		return Result{}, apperr.Auth("not_logged_in", "user %s is not logged in", uid)
	}

	date, err := railtime.ParseDate(dStr)
	if err != nil {
		return Result{}, apperr.Arg("bad_date", "%v", err)
	}
	num, err := parseInt("buy_ticket", nStr)
	if err != nil {
		return Result{}, err
	}
	acceptQueue, err := parseBool("buy_ticket", qStr, false)
	if !qPresent {
		acceptQueue = false
	} else if err != nil {
		return Result{}, err
	}

	res, err := inventory.Purchase(d.stores, uid, tid, date, from, to, num, acceptQueue)
	if err != nil {
		return Result{}, err
	}
	if res.Queued {
		return single("queue"), nil
	}
	return single(fmt.Sprintf("%d", res.Cost)), nil
}
