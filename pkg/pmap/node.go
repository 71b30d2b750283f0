package pmap

import (
	"encoding/binary"

	"ticketcore/pkg/pager"
)

const (
	headerSize   = 9 // isLeaf(1) + count(4) + next(4)
	offIsLeaf    = 0
	offCount     = 1
	offNext      = 5
	noNext       = ^uint32(0)
	noRootPlacer = ^uint32(0)
)

func isLeafPage(pg *pager.Page) bool { return pg.Data[offIsLeaf] != 0 }

func setLeafFlag(pg *pager.Page, leaf bool) {
	if leaf {
		pg.Data[offIsLeaf] = 1
	} else {
		pg.Data[offIsLeaf] = 0
	}
}

func pageCount(pg *pager.Page) int {
	return int(binary.BigEndian.Uint32(pg.Data[offCount : offCount+4]))
}

func setPageCount(pg *pager.Page, n int) {
	binary.BigEndian.PutUint32(pg.Data[offCount:offCount+4], uint32(n))
}

func leafNext(pg *pager.Page) uint32 {
	return binary.BigEndian.Uint32(pg.Data[offNext : offNext+4])
}

func setLeafNext(pg *pager.Page, id uint32) {
	binary.BigEndian.PutUint32(pg.Data[offNext:offNext+4], id)
}

// leaf entry layout: headerSize + i*(keySize+valSize)

func (m *PMap[K, V]) leafEntrySize() int { return m.keySize + m.valSize }

func (m *PMap[K, V]) leafKeyAt(pg *pager.Page, i int) K {
	off := headerSize + i*m.leafEntrySize()
	return m.keyCodec.Decode(pg.Data[off : off+m.keySize])
}

func (m *PMap[K, V]) leafValueAt(pg *pager.Page, i int) V {
	off := headerSize + i*m.leafEntrySize() + m.keySize
	return m.valCodec.Decode(pg.Data[off : off+m.valSize])
}

func (m *PMap[K, V]) leafSetAt(pg *pager.Page, i int, k K, v V) {
	off := headerSize + i*m.leafEntrySize()
	m.keyCodec.Encode(k, pg.Data[off:off+m.keySize])
	m.valCodec.Encode(v, pg.Data[off+m.keySize:off+m.keySize+m.valSize])
}

func (m *PMap[K, V]) leafSetValueAt(pg *pager.Page, i int, v V) {
	off := headerSize + i*m.leafEntrySize() + m.keySize
	m.valCodec.Encode(v, pg.Data[off:off+m.valSize])
}

// leafInsertAt shifts entries [i,count) right by one slot and writes k,v
// at i, incrementing count. Caller must ensure count+1 fits the page
// (insertRec splits a full leaf before inserting into it).
func (m *PMap[K, V]) leafInsertAt(pg *pager.Page, i int, k K, v V) {
	count := pageCount(pg)
	entrySize := m.leafEntrySize()
	src := headerSize + i*entrySize
	dst := src + entrySize
	n := (count - i) * entrySize
	copy(pg.Data[dst:dst+n], pg.Data[src:src+n])
	setPageCount(pg, count+1)
	m.leafSetAt(pg, i, k, v)
}

func (m *PMap[K, V]) leafRemoveAt(pg *pager.Page, i int) {
	count := pageCount(pg)
	entrySize := m.leafEntrySize()
	dst := headerSize + i*entrySize
	src := dst + entrySize
	n := (count - i - 1) * entrySize
	copy(pg.Data[dst:dst+n], pg.Data[src:src+n])
	setPageCount(pg, count-1)
}

// internal node layout: keys region [headerSize, headerSize+maxInternalKeys*keySize)
// children region [that, +  (maxInternalKeys+1)*4)

func (m *PMap[K, V]) internalChildrenOffset() int {
	return headerSize + m.maxInternalKeys*m.keySize
}

func (m *PMap[K, V]) internalKeyAt(pg *pager.Page, i int) K {
	off := headerSize + i*m.keySize
	return m.keyCodec.Decode(pg.Data[off : off+m.keySize])
}

func (m *PMap[K, V]) internalSetKeyAt(pg *pager.Page, i int, k K) {
	off := headerSize + i*m.keySize
	m.keyCodec.Encode(k, pg.Data[off:off+m.keySize])
}

func (m *PMap[K, V]) internalChildAt(pg *pager.Page, i int) uint32 {
	off := m.internalChildrenOffset() + i*4
	return binary.BigEndian.Uint32(pg.Data[off : off+4])
}

func (m *PMap[K, V]) internalSetChildAt(pg *pager.Page, i int, id uint32) {
	off := m.internalChildrenOffset() + i*4
	binary.BigEndian.PutUint32(pg.Data[off:off+4], id)
}

// internalInsertAt inserts separator key at position i and its right
// child at position i+1, shifting existing keys [i,count) and children
// [i+1,count+1) right by one slot.
func (m *PMap[K, V]) internalInsertAt(pg *pager.Page, i int, key K, rightChild uint32) {
	count := pageCount(pg)
	keyOff := headerSize + i*m.keySize
	keyDst := keyOff + m.keySize
	keyN := (count - i) * m.keySize
	copy(pg.Data[keyDst:keyDst+keyN], pg.Data[keyOff:keyOff+keyN])

	childOff := m.internalChildrenOffset() + (i+1)*4
	childDst := childOff + 4
	childN := (count - i) * 4
	copy(pg.Data[childDst:childDst+childN], pg.Data[childOff:childOff+childN])

	setPageCount(pg, count+1)
	m.internalSetKeyAt(pg, i, key)
	m.internalSetChildAt(pg, i+1, rightChild)
}

func (m *PMap[K, V]) internalRemoveAt(pg *pager.Page, i int) {
	count := pageCount(pg)
	keyDst := headerSize + i*m.keySize
	keySrc := keyDst + m.keySize
	keyN := (count - i - 1) * m.keySize
	copy(pg.Data[keyDst:keyDst+keyN], pg.Data[keySrc:keySrc+keyN])

	childDst := m.internalChildrenOffset() + i*4
	childSrc := childDst + 4
	childN := (count - i) * 4
	copy(pg.Data[childDst:childDst+childN], pg.Data[childSrc:childSrc+childN])

	setPageCount(pg, count-1)
}
