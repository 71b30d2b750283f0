package command

import (
	"log/slog"

	"github.com/google/uuid"

	"ticketcore/pkg/apperr"
	"ticketcore/pkg/store"
)

// Dispatcher owns the persistent stores and routes each Record to its
// handler. Not safe for concurrent Handle calls (SPEC_FULL.md §7): the
// command stream is single-threaded by contract.
type Dispatcher struct {
	stores *store.Stores
	log    *slog.Logger
}

// New builds a Dispatcher over the given stores.
func New(stores *store.Stores, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{stores: stores, log: log}
}

// Handle dispatches one command record. The returned error is non-nil
// only for fatal I/O faults on the persistent maps; ordinary business
// rejections are folded into Result.Lines = ["-1"].
func (d *Dispatcher) Handle(rec Record) (Result, error) {
	traceID := uuid.New().String()
	d.log.Debug("dispatch", "trace", traceID, "command", rec.Name)

	res, err := d.route(rec)
	if err != nil {
		if _, isCore := apperr.As(err); isCore {
			d.log.Debug("rejected", "trace", traceID, "command", rec.Name, "reason", err)
			return fail(), nil
		}
		d.log.Error("fatal store error", "trace", traceID, "command", rec.Name, "error", err)
		return Result{}, err
	}
	return res, nil
}

func (d *Dispatcher) route(rec Record) (Result, error) {
	switch rec.Name {
	case "add_user":
		return d.addUser(rec)
	case "login":
		return d.login(rec)
	case "logout":
		return d.logout(rec)
	case "query_profile":
		return d.queryProfile(rec)
	case "modify_profile":
		return d.modifyProfile(rec)
	case "add_train":
		return d.addTrain(rec)
	case "release_train":
		return d.releaseTrain(rec)
	case "query_train":
		return d.queryTrain(rec)
	case "delete_train":
		return d.deleteTrain(rec)
	case "query_ticket":
		return d.queryTicket(rec)
	case "query_transfer":
		return d.queryTransfer(rec)
	case "buy_ticket":
		return d.buyTicket(rec)
	case "query_order":
		return d.queryOrder(rec)
	case "refund_ticket":
		return d.refundTicket(rec)
	case "clean":
		if err := d.stores.Clean(); err != nil {
			return Result{}, err
		}
		return ok0(), nil
	case "exit":
		return Result{Lines: []string{"bye"}, Shutdown: true}, nil
	default:
		return Result{}, apperr.Arg("unknown_command", "unrecognised command %q", rec.Name)
	}
}

// requireExact checks that rec carries exactly the given letters.
func requireExact(rec Record, letters ...byte) error {
	if len(rec.Opts) != len(letters) {
		return apperr.Arg("bad_arg_count", "%s: expected %d options, got %d", rec.Name, len(letters), len(rec.Opts))
	}
	for _, l := range letters {
		if _, ok := rec.Opts[l]; !ok {
			return apperr.Arg("missing_option", "%s: missing -%c", rec.Name, l)
		}
	}
	return nil
}

// requireAtLeast checks that rec carries every letter in required, plus
// only letters drawn from required ∪ optional.
func requireAtLeast(rec Record, required []byte, optional []byte) error {
	allowed := make(map[byte]bool, len(required)+len(optional))
	for _, l := range required {
		allowed[l] = true
	}
	for _, l := range optional {
		allowed[l] = true
	}
	for l := range rec.Opts {
		if !allowed[l] {
			return apperr.Arg("unexpected_option", "%s: unexpected -%c", rec.Name, l)
		}
	}
	for _, l := range required {
		if _, ok := rec.Opts[l]; !ok {
			return apperr.Arg("missing_option", "%s: missing -%c", rec.Name, l)
		}
	}
	return nil
}
