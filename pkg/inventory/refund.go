package inventory

import (
	"ticketcore/pkg/apperr"
	"ticketcore/pkg/domain"
	"ticketcore/pkg/store"
)

// Refund implements spec.md §4.3's refund + pending-drain: locates the
// uid's n-th most recent order (n=1 is the latest), rejects an
// already-refunded order, releases seats and drains the departure's
// pending queue in oid order when the order was SUCCESS, or simply
// dequeues it when it was PENDING.
func Refund(s *store.Stores, uid string, n int) error {
	orders, err := s.UserOrders(uid)
	if err != nil {
		return err
	}
	if n < 1 || n > len(orders) {
		return apperr.NotFound("order_not_found", "user %s has no %d-th most recent order", uid, n)
	}
	order := orders[len(orders)-n]

	if order.Status == domain.StatusRefunded {
		return apperr.State("already_refunded", "order %d already refunded", order.Oid)
	}

	wasSuccess := order.Status == domain.StatusSuccess
	order.Status = domain.StatusRefunded
	orderKey := domain.OrderKey{Uid: uid, Oid: order.Oid}
	if err := s.Orders.Modify(orderKey, order); err != nil {
		return err
	}

	dayKey := domain.DayTrainKey{StartDate: order.StartDate, Tid: order.Tid}

	if !wasSuccess {
		pendingKey := domain.PendingKey{StartDate: order.StartDate, Tid: order.Tid, Oid: order.Oid}
		if err := s.Pending.Erase(pendingKey); err != nil {
			return err
		}
		return nil
	}

	dayTrain, ok, err := s.GetDayTrain(dayKey)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("departure_not_found", "no departure of %s on %s", order.Tid, order.StartDate.Format())
	}
	ModifySeat(dayTrain.SeatNum, order.From, order.To-1, order.Num)

	pending, err := s.PendingForDeparture(dayKey)
	if err != nil {
		return err
	}
	for _, p := range pending {
		cand := p.Order
		if !segmentsIntersect(order.From, order.To, cand.From, cand.To) {
			continue // optimisation: non-intersecting segments can't have changed feasibility (spec.md §9)
		}
		remain := QuerySeat(dayTrain.SeatNum, cand.From, cand.To-1)
		if remain < cand.Num {
			continue
		}
		ModifySeat(dayTrain.SeatNum, cand.From, cand.To-1, -cand.Num)
		cand.Status = domain.StatusSuccess
		if err := s.Orders.Modify(domain.OrderKey{Uid: cand.Uid, Oid: cand.Oid}, cand); err != nil {
			return err
		}
		if err := s.Pending.Erase(domain.PendingKey{StartDate: cand.StartDate, Tid: cand.Tid, Oid: cand.Oid}); err != nil {
			return err
		}
	}

	return s.DayTrains.Modify(dayKey, dayTrain)
}
