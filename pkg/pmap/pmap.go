// Package pmap implements a generic, disk-backed ordered map: a B+tree
// keyed by a byte-comparable fixed-width encoding of K and valued by a
// fixed-width encoding of V, paginated over pkg/pager. It is the storage
// primitive every repository in pkg/store is built from — user records,
// train schedules, per-day seat tables, station timetable indices, and
// orders are all just PMaps with different codecs.
package pmap

import (
	"errors"
	"fmt"
	"sort"

	"ticketcore/pkg/pager"
)

// ErrKeyExists is returned by Insert when the key is already present.
var ErrKeyExists = errors.New("pmap: key already exists")

// ErrKeyNotFound is returned by Modify and Erase when the key is absent.
var ErrKeyNotFound = errors.New("pmap: key not found")

// ErrRangeTooLarge is returned by RangeFind when more than limit values
// would match — the engine treats an unbounded scan as a caller error
// rather than silently truncating the result.
var ErrRangeTooLarge = errors.New("pmap: range scan exceeds limit")

// PMap is an ordered, disk-backed map from K to V.
type PMap[K any, V any] struct {
	pager    *pager.Pager
	keyCodec KeyCodec[K]
	valCodec ValueCodec[V]

	keySize        int
	valSize        int
	maxLeafEntries int
	maxInternalKeys int
}

// Open opens (or creates) the PMap backed by the given data/meta file
// pair, with the given in-memory page cache size.
func Open[K any, V any](dataPath, metaPath string, cacheCapacity int, kc KeyCodec[K], vc ValueCodec[V]) (*PMap[K, V], error) {
	pg, err := pager.Open(dataPath, metaPath, cacheCapacity)
	if err != nil {
		return nil, err
	}
	keySize := kc.Size()
	valSize := vc.Size()

	maxLeaf := (pager.PageSize - headerSize) / (keySize + valSize)
	if maxLeaf < 3 {
		return nil, fmt.Errorf("pmap: key+value size %d too large for page size %d", keySize+valSize, pager.PageSize)
	}
	maxInternal := (pager.PageSize - headerSize - 4) / (keySize + 4)
	if maxInternal < 3 {
		return nil, fmt.Errorf("pmap: key size %d too large for page size %d", keySize, pager.PageSize)
	}

	return &PMap[K, V]{
		pager:           pg,
		keyCodec:        kc,
		valCodec:        vc,
		keySize:         keySize,
		valSize:         valSize,
		maxLeafEntries:  maxLeaf,
		maxInternalKeys: maxInternal,
	}, nil
}

// Size returns the number of live key/value pairs.
func (m *PMap[K, V]) Size() uint64 { return m.pager.RecordCount() }

// Flush writes back dirty pages and the meta file.
func (m *PMap[K, V]) Flush() error { return m.pager.Flush() }

// Close flushes and closes the underlying pager.
func (m *PMap[K, V]) Close() error { return m.pager.Close() }

// Clear discards all entries, truncating the backing files.
func (m *PMap[K, V]) Clear() error { return m.pager.Clear() }

func (m *PMap[K, V]) setRecordCount(delta int64) {
	n := int64(m.pager.RecordCount()) + delta
	if n < 0 {
		n = 0
	}
	m.pager.SetRecordCount(uint64(n))
}

// leafSearch returns (index, found): index is the position of k if found,
// else the position where k would be inserted to keep the leaf sorted.
func (m *PMap[K, V]) leafSearch(pg *pager.Page, k K) (int, bool) {
	count := pageCount(pg)
	i := sort.Search(count, func(i int) bool {
		return m.keyCodec.Compare(m.leafKeyAt(pg, i), k) >= 0
	})
	if i < count && m.keyCodec.Compare(m.leafKeyAt(pg, i), k) == 0 {
		return i, true
	}
	return i, false
}

// childIndex returns the index of the child to descend into for key k:
// the first i such that k < internalKeyAt(i), else count.
func (m *PMap[K, V]) childIndex(pg *pager.Page, k K) int {
	count := pageCount(pg)
	return sort.Search(count, func(i int) bool {
		return m.keyCodec.Compare(k, m.internalKeyAt(pg, i)) < 0
	})
}

// Find looks up k.
func (m *PMap[K, V]) Find(k K) (V, bool, error) {
	var zero V
	rootID, ok := m.pager.RootID()
	if !ok {
		return zero, false, nil
	}
	id := rootID
	for {
		pg, err := m.pager.ReadPage(id)
		if err != nil {
			return zero, false, err
		}
		if isLeafPage(pg) {
			i, found := m.leafSearch(pg, k)
			if !found {
				return zero, false, nil
			}
			return m.leafValueAt(pg, i), true, nil
		}
		idx := m.childIndex(pg, k)
		id = m.internalChildAt(pg, idx)
	}
}

// Insert adds k/v, returning ErrKeyExists if k is already present.
func (m *PMap[K, V]) Insert(k K, v V) error {
	rootID, ok := m.pager.RootID()
	if !ok {
		leaf, err := m.pager.Allocate()
		if err != nil {
			return err
		}
		setLeafFlag(leaf, true)
		setPageCount(leaf, 0)
		setLeafNext(leaf, noNext)
		m.leafInsertAt(leaf, 0, k, v)
		m.pager.Touch(leaf)
		m.pager.SetRootID(leaf.ID)
		m.setRecordCount(1)
		return nil
	}

	promoted, rightID, didSplit, err := m.insertRec(rootID, k, v)
	if err != nil {
		return err
	}
	if didSplit {
		newRoot, err := m.pager.Allocate()
		if err != nil {
			return err
		}
		setLeafFlag(newRoot, false)
		setPageCount(newRoot, 0)
		m.internalSetChildAt(newRoot, 0, rootID)
		m.internalInsertAt(newRoot, 0, promoted, rightID)
		m.pager.Touch(newRoot)
		m.pager.SetRootID(newRoot.ID)
	}
	return nil
}

// insertRec inserts k/v into the subtree rooted at pageID. A full leaf
// is split before the new entry is written into it; a full internal
// node is split only when a child split must add a separator to it. It
// returns the key to promote to the parent and the new right-sibling
// page id when a split occurred.
func (m *PMap[K, V]) insertRec(pageID uint32, k K, v V) (K, uint32, bool, error) {
	var zeroK K
	pg, err := m.pager.ReadPage(pageID)
	if err != nil {
		return zeroK, 0, false, err
	}

	if isLeafPage(pg) {
		if _, found := m.leafSearch(pg, k); found {
			return zeroK, 0, false, ErrKeyExists
		}
		if pageCount(pg) == m.maxLeafEntries {
			promoted, rightID, err := m.splitLeaf(pg)
			if err != nil {
				return zeroK, 0, false, err
			}
			if m.keyCodec.Compare(k, promoted) >= 0 {
				right, err := m.pager.ReadPage(rightID)
				if err != nil {
					return zeroK, 0, false, err
				}
				if err := m.insertIntoLeaf(right, k, v); err != nil {
					return zeroK, 0, false, err
				}
			} else {
				if err := m.insertIntoLeaf(pg, k, v); err != nil {
					return zeroK, 0, false, err
				}
			}
			return promoted, rightID, true, nil
		}
		if err := m.insertIntoLeaf(pg, k, v); err != nil {
			return zeroK, 0, false, err
		}
		return zeroK, 0, false, nil
	}

	idx := m.childIndex(pg, k)
	childID := m.internalChildAt(pg, idx)
	promoted, rightChildID, didSplit, err := m.insertRec(childID, k, v)
	if err != nil {
		return zeroK, 0, false, err
	}
	if !didSplit {
		return zeroK, 0, false, nil
	}

	if pageCount(pg) == m.maxInternalKeys {
		upKey, newRightID, err := m.splitInternal(pg, idx, promoted, rightChildID)
		if err != nil {
			return zeroK, 0, false, err
		}
		return upKey, newRightID, true, nil
	}
	m.internalInsertAt(pg, idx, promoted, rightChildID)
	m.pager.Touch(pg)
	return zeroK, 0, false, nil
}

func (m *PMap[K, V]) insertIntoLeaf(pg *pager.Page, k K, v V) error {
	i, found := m.leafSearch(pg, k)
	if found {
		return ErrKeyExists
	}
	m.leafInsertAt(pg, i, k, v)
	m.pager.Touch(pg)
	m.setRecordCount(1)
	return nil
}

// splitLeaf splits a full leaf into itself (left half) and a new right
// leaf, linking them, and returns the right leaf's first key (the
// separator, which remains present in the right leaf) and its page id.
func (m *PMap[K, V]) splitLeaf(left *pager.Page) (K, uint32, error) {
	var zeroK K
	count := pageCount(left)
	mid := count / 2

	right, err := m.pager.Allocate()
	if err != nil {
		return zeroK, 0, err
	}
	setLeafFlag(right, true)
	setPageCount(right, 0)

	for i := mid; i < count; i++ {
		k := m.leafKeyAt(left, i)
		v := m.leafValueAt(left, i)
		m.leafInsertAt(right, pageCount(right), k, v)
	}
	setPageCount(left, mid)

	setLeafNext(right, leafNext(left))
	setLeafNext(left, right.ID)

	m.pager.Touch(left)
	m.pager.Touch(right)

	return m.leafKeyAt(right, 0), right.ID, nil
}

// splitInternal splits a full internal node that must additionally
// accommodate an (idx, promotedKey, rightChild) insertion that doesn't
// fit. It materializes the node's keys/children plus the pending
// insertion into scratch slices, splits around the median (which is
// promoted to the parent and not duplicated into either child, per
// standard B+tree internal-node splitting), and rewrites pg in place as
// the left half plus a newly allocated right half.
func (m *PMap[K, V]) splitInternal(pg *pager.Page, idx int, promotedKey K, rightChild uint32) (K, uint32, error) {
	var zeroK K
	count := pageCount(pg)

	keys := make([]K, 0, count+1)
	children := make([]uint32, 0, count+2)
	for i := 0; i < count; i++ {
		keys = append(keys, m.internalKeyAt(pg, i))
	}
	for i := 0; i <= count; i++ {
		children = append(children, m.internalChildAt(pg, i))
	}

	newKeys := make([]K, 0, count+1)
	newChildren := make([]uint32, 0, count+2)
	newKeys = append(newKeys, keys[:idx]...)
	newKeys = append(newKeys, promotedKey)
	newKeys = append(newKeys, keys[idx:]...)
	newChildren = append(newChildren, children[:idx+1]...)
	newChildren = append(newChildren, rightChild)
	newChildren = append(newChildren, children[idx+1:]...)

	mid := len(newKeys) / 2
	upKey := newKeys[mid]
	leftKeys := newKeys[:mid]
	leftChildren := newChildren[:mid+1]
	rightKeys := newKeys[mid+1:]
	rightChildren := newChildren[mid+1:]

	setPageCount(pg, 0)
	for i, k := range leftKeys {
		m.internalSetKeyAt(pg, i, k)
	}
	for i, c := range leftChildren {
		m.internalSetChildAt(pg, i, c)
	}
	setPageCount(pg, len(leftKeys))

	right, err := m.pager.Allocate()
	if err != nil {
		return zeroK, 0, err
	}
	setLeafFlag(right, false)
	setPageCount(right, 0)
	for i, k := range rightKeys {
		m.internalSetKeyAt(right, i, k)
	}
	for i, c := range rightChildren {
		m.internalSetChildAt(right, i, c)
	}
	setPageCount(right, len(rightKeys))

	m.pager.Touch(pg)
	m.pager.Touch(right)

	return upKey, right.ID, nil
}

// Modify overwrites the value for an existing key, returning
// ErrKeyNotFound if absent.
func (m *PMap[K, V]) Modify(k K, v V) error {
	rootID, ok := m.pager.RootID()
	if !ok {
		return ErrKeyNotFound
	}
	id := rootID
	for {
		pg, err := m.pager.ReadPage(id)
		if err != nil {
			return err
		}
		if isLeafPage(pg) {
			i, found := m.leafSearch(pg, k)
			if !found {
				return ErrKeyNotFound
			}
			m.leafSetValueAt(pg, i, v)
			m.pager.Touch(pg)
			return nil
		}
		idx := m.childIndex(pg, k)
		id = m.internalChildAt(pg, idx)
	}
}

// Erase removes k, returning ErrKeyNotFound if absent. It does not
// rebalance the tree after removal (see pkg/pmap's design notes).
func (m *PMap[K, V]) Erase(k K) error {
	rootID, ok := m.pager.RootID()
	if !ok {
		return ErrKeyNotFound
	}
	id := rootID
	for {
		pg, err := m.pager.ReadPage(id)
		if err != nil {
			return err
		}
		if isLeafPage(pg) {
			i, found := m.leafSearch(pg, k)
			if !found {
				return ErrKeyNotFound
			}
			m.leafRemoveAt(pg, i)
			m.pager.Touch(pg)
			m.setRecordCount(-1)
			return nil
		}
		idx := m.childIndex(pg, k)
		id = m.internalChildAt(pg, idx)
	}
}

// RangeFind collects the values for every key in [lo, hi], in ascending
// key order, stopping with ErrRangeTooLarge if more than limit values
// would match.
func (m *PMap[K, V]) RangeFind(lo, hi K, limit int) ([]V, error) {
	entries, err := m.RangeFindKV(lo, hi, limit)
	if err != nil {
		return nil, err
	}
	out := make([]V, len(entries))
	for i, e := range entries {
		out[i] = e.Value
	}
	return out, nil
}

// Entry is one (key, value) pair returned by RangeFindKV.
type Entry[K any, V any] struct {
	Key   K
	Value V
}

// RangeFindKV is RangeFind but also returns each matched key — needed
// whenever a value codec omits fields already carried by the key (the
// common case in pkg/domain, to avoid storing the same bytes twice).
func (m *PMap[K, V]) RangeFindKV(lo, hi K, limit int) ([]Entry[K, V], error) {
	rootID, ok := m.pager.RootID()
	if !ok {
		return nil, nil
	}

	id := rootID
	for {
		pg, err := m.pager.ReadPage(id)
		if err != nil {
			return nil, err
		}
		if isLeafPage(pg) {
			break
		}
		idx := m.childIndex(pg, lo)
		id = m.internalChildAt(pg, idx)
	}

	var out []Entry[K, V]
	for id != noNext {
		pg, err := m.pager.ReadPage(id)
		if err != nil {
			return nil, err
		}
		count := pageCount(pg)
		start, _ := m.leafSearch(pg, lo)
		for i := start; i < count; i++ {
			key := m.leafKeyAt(pg, i)
			if m.keyCodec.Compare(key, hi) > 0 {
				return out, nil
			}
			if len(out) >= limit {
				return nil, ErrRangeTooLarge
			}
			out = append(out, Entry[K, V]{Key: key, Value: m.leafValueAt(pg, i)})
		}
		id = leafNext(pg)
	}
	return out, nil
}
