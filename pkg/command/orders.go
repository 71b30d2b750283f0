package command

import (
	"fmt"

	"ticketcore/pkg/apperr"
	"ticketcore/pkg/domain"
	"ticketcore/pkg/inventory"
)

func formatOrder(o domain.Order) string {
	return fmt.Sprintf("[%s] %s %s %s -> %s %s %d %d",
		o.Status, o.Tid, o.FromStation, o.LeavingTime.Format(), o.ToStation, o.ArrivingTime.Format(), o.Price, o.Num)
}

func (d *Dispatcher) queryOrder(rec Record) (Result, error) {
	if err := requireExact(rec, 'u'); err != nil {
		return Result{}, err
	}
	uid, _ := rec.Get('u')
	if _, loggedIn := d.stores.Logged.Privilege(uid); !loggedIn {
		return Result{}, apperr.Auth("not_logged_in", "user %s is not logged in", uid)
	}

	orders, err := d.stores.UserOrders(uid)
	if err != nil {
		return Result{}, err
	}
	lines := make([]string, 0, len(orders)+1)
	lines = append(lines, fmt.Sprintf("%d", len(orders)))
	for i := len(orders) - 1; i >= 0; i-- {
		lines = append(lines, formatOrder(orders[i]))
	}
	return Result{Lines: lines}, nil
}

func (d *Dispatcher) refundTicket(rec Record) (Result, error) {
	if err := requireAtLeast(rec, []byte{'u'}, []byte{'n'}); err != nil {
		return Result{}, err
	}
	uid, _ := rec.Get('u')
	if _, loggedIn := d.stores.Logged.Privilege(uid); !loggedIn {
		return Result{}, apperr.Auth("not_logged_in", "user %s is not logged in", uid)
	}
	n := 1
	if nStr, present := rec.Get('n'); present {
		v, err := parseInt("refund_ticket", nStr)
		if err != nil {
			return Result{}, err
		}
		n = v
	}

	if err := inventory.Refund(d.stores, uid, n); err != nil {
		return Result{}, err
	}
	return ok0(), nil
}
