// Package store wires pkg/pmap instances into the named repositories
// the reservation engine's schema describes (spec.md §3): one PMap per
// entity/index, plus the in-memory LoggedSet. It owns no business logic
// — pkg/inventory, pkg/search, and pkg/command read and write these
// repositories directly.
package store

import (
	"fmt"
	"path/filepath"
	"sync"

	"ticketcore/pkg/domain"
	"ticketcore/pkg/pmap"
)

// Stores bundles every persistent map the engine needs, plus the
// in-memory logged-in-user set.
type Stores struct {
	Users         *pmap.PMap[string, domain.User]
	Trains        *pmap.PMap[string, domain.Train]
	TrainStations *pmap.PMap[domain.TrainStationKey, domain.TrainStation]
	Stations      *pmap.PMap[domain.StationKey, domain.Station]
	DayTrains     *pmap.PMap[domain.DayTrainKey, domain.DayTrain]
	Orders        *pmap.PMap[domain.OrderKey, domain.Order]
	Pending       *pmap.PMap[domain.PendingKey, domain.PendingEntry]
	Logged        *LoggedSet

	dataDir string
}

type mapFiles struct {
	name string
	data string
	meta string
}

func files(dataDir, name string) mapFiles {
	return mapFiles{
		name: name,
		data: filepath.Join(dataDir, name+".dat"),
		meta: filepath.Join(dataDir, name+".meta"),
	}
}

// Open opens (or creates) every persistent map under dataDir, each with
// the given per-map page cache capacity.
func Open(dataDir string, cacheCapacity int) (*Stores, error) {
	users, err := pmap.Open(files(dataDir, "user").data, files(dataDir, "user").meta, cacheCapacity, domain.UIDKeyCodec, domain.UserVC)
	if err != nil {
		return nil, fmt.Errorf("store: open user map: %w", err)
	}
	trains, err := pmap.Open(files(dataDir, "train").data, files(dataDir, "train").meta, cacheCapacity, domain.TIDKeyCodec, domain.TrainVC)
	if err != nil {
		return nil, fmt.Errorf("store: open train map: %w", err)
	}
	trainStations, err := pmap.Open(files(dataDir, "trainstation").data, files(dataDir, "trainstation").meta, cacheCapacity, domain.TrainStationKC, domain.TrainStationVC)
	if err != nil {
		return nil, fmt.Errorf("store: open trainstation map: %w", err)
	}
	stations, err := pmap.Open(files(dataDir, "station").data, files(dataDir, "station").meta, cacheCapacity, domain.StationKC, domain.StationVC)
	if err != nil {
		return nil, fmt.Errorf("store: open station map: %w", err)
	}
	dayTrains, err := pmap.Open(files(dataDir, "daytrain").data, files(dataDir, "daytrain").meta, cacheCapacity, domain.DayTrainKC, domain.DayTrainVC)
	if err != nil {
		return nil, fmt.Errorf("store: open daytrain map: %w", err)
	}
	orders, err := pmap.Open(files(dataDir, "order").data, files(dataDir, "order").meta, cacheCapacity, domain.OrderKC, domain.OrderVC)
	if err != nil {
		return nil, fmt.Errorf("store: open order map: %w", err)
	}
	pending, err := pmap.Open(files(dataDir, "pending").data, files(dataDir, "pending").meta, cacheCapacity, domain.PendingKC, domain.PendingVC)
	if err != nil {
		return nil, fmt.Errorf("store: open pending map: %w", err)
	}

	return &Stores{
		Users:         users,
		Trains:        trains,
		TrainStations: trainStations,
		Stations:      stations,
		DayTrains:     dayTrains,
		Orders:        orders,
		Pending:       pending,
		Logged:        NewLoggedSet(),
		dataDir:       dataDir,
	}, nil
}

// Flush persists every map's dirty pages and metadata.
func (s *Stores) Flush() error {
	for _, m := range s.all() {
		if err := m.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes and closes every map.
func (s *Stores) Close() error {
	for _, m := range s.all() {
		if err := m.Close(); err != nil {
			return err
		}
	}
	return nil
}

// Clean drops all persistent and in-memory state (the `clean` command).
func (s *Stores) Clean() error {
	for _, m := range s.all() {
		if err := m.Clear(); err != nil {
			return err
		}
	}
	s.Logged.Clear()
	return nil
}

type flusher interface {
	Flush() error
	Close() error
	Clear() error
}

func (s *Stores) all() []flusher {
	return []flusher{s.Users, s.Trains, s.TrainStations, s.Stations, s.DayTrains, s.Orders, s.Pending}
}

// NextOid returns the oid the next inserted order will receive: the
// order database is append-only and never erased (refund modifies
// status in place), so its live size at any instant is exactly the next
// assignable oid (spec.md §3).
func (s *Stores) NextOid() int { return int(s.Orders.Size()) }

// LoggedSet tracks logged-in users and their privilege, in-memory only,
// cleared on `clean` or process exit (spec.md §3). Mutex-protected so a
// test harness driving the dispatcher from multiple goroutines can't
// race on it; the dispatcher itself is still single-threaded by
// contract (SPEC_FULL.md §7).
type LoggedSet struct {
	mu   sync.Mutex
	priv map[string]int
}

// NewLoggedSet returns an empty LoggedSet.
func NewLoggedSet() *LoggedSet { return &LoggedSet{priv: make(map[string]int)} }

// Login marks uid logged in with the given privilege.
func (l *LoggedSet) Login(uid string, privilege int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.priv[uid] = privilege
}

// Logout removes uid, reporting whether it was present.
func (l *LoggedSet) Logout(uid string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.priv[uid]; !ok {
		return false
	}
	delete(l.priv, uid)
	return true
}

// Privilege returns uid's logged-in privilege, if logged in.
func (l *LoggedSet) Privilege(uid string) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.priv[uid]
	return p, ok
}

// Clear logs every user out.
func (l *LoggedSet) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.priv = make(map[string]int)
}
