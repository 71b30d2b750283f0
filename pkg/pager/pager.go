// Package pager implements a fixed-size paginated file with a bounded
// in-memory page cache. It knows nothing about keys, values, or trees; it
// is the storage substrate pkg/pmap builds its B+tree on top of, and the
// piece of the engine that gives every PMap its two companion files (data
// + meta) and its crash-indifferent-but-clean-shutdown durability model.
package pager

import (
	"container/list"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"
)

// PageSize is the fixed size, in bytes, of every page in the data file.
const PageSize = 4096

const metaMagic uint32 = 0x54494b54 // "TIKT"
const metaVersion uint32 = 1

// Page is one fixed-size slot of the data file, identified by its
// zero-based index. Callers mutate Data in place and call Pager.Touch to
// mark it dirty; Allocate returns a page already marked dirty, ReadPage
// does not.
type Page struct {
	ID    uint32
	Data  []byte
	dirty bool
}

// Pager owns the data and meta files for a single PMap and caches a
// bounded number of decoded pages in memory.
type Pager struct {
	mu sync.Mutex

	dataPath string
	metaPath string
	dataFile *os.File

	capacity int
	cache    map[uint32]*list.Element // pageID -> lru element
	lru      *list.List               // list.Element.Value is *lruEntry

	pageCount   uint32
	freeList    []uint32
	rootID      uint32
	hasRoot     bool
	recordCount uint64
}

type lruEntry struct {
	page *Page
}

// Open opens (or creates) the data/meta file pair, sized for the given
// in-memory page cache capacity.
func Open(dataPath, metaPath string, cacheCapacity int) (*Pager, error) {
	if cacheCapacity < 1 {
		cacheCapacity = 1
	}
	f, err := os.OpenFile(dataPath, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("pager: open data file %s: %w", dataPath, err)
	}
	p := &Pager{
		dataPath: dataPath,
		metaPath: metaPath,
		dataFile: f,
		capacity: cacheCapacity,
		cache:    make(map[uint32]*list.Element, cacheCapacity),
		lru:      list.New(),
	}
	if err := p.loadMeta(); err != nil {
		f.Close()
		return nil, err
	}
	return p, nil
}

func (p *Pager) loadMeta() error {
	f, err := os.Open(p.metaPath)
	if os.IsNotExist(err) {
		p.pageCount = 0
		p.freeList = nil
		p.hasRoot = false
		return nil
	}
	if err != nil {
		return fmt.Errorf("pager: open meta file %s: %w", p.metaPath, err)
	}
	defer f.Close()

	var magic, version uint32
	if err := binary.Read(f, binary.BigEndian, &magic); err != nil {
		return fmt.Errorf("pager: read meta magic: %w", err)
	}
	if magic != metaMagic {
		return fmt.Errorf("pager: meta file %s has bad magic", p.metaPath)
	}
	if err := binary.Read(f, binary.BigEndian, &version); err != nil {
		return fmt.Errorf("pager: read meta version: %w", err)
	}
	var hasRoot uint8
	if err := binary.Read(f, binary.BigEndian, &hasRoot); err != nil {
		return fmt.Errorf("pager: read meta hasRoot: %w", err)
	}
	p.hasRoot = hasRoot != 0
	if err := binary.Read(f, binary.BigEndian, &p.rootID); err != nil {
		return fmt.Errorf("pager: read meta rootID: %w", err)
	}
	if err := binary.Read(f, binary.BigEndian, &p.pageCount); err != nil {
		return fmt.Errorf("pager: read meta pageCount: %w", err)
	}
	if err := binary.Read(f, binary.BigEndian, &p.recordCount); err != nil {
		return fmt.Errorf("pager: read meta recordCount: %w", err)
	}
	var freeLen uint32
	if err := binary.Read(f, binary.BigEndian, &freeLen); err != nil {
		return fmt.Errorf("pager: read meta freeLen: %w", err)
	}
	p.freeList = make([]uint32, freeLen)
	for i := range p.freeList {
		if err := binary.Read(f, binary.BigEndian, &p.freeList[i]); err != nil {
			return fmt.Errorf("pager: read meta free list entry: %w", err)
		}
	}
	return nil
}

func (p *Pager) saveMeta() error {
	f, err := os.OpenFile(p.metaPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("pager: create meta file %s: %w", p.metaPath, err)
	}
	defer f.Close()

	var hasRoot uint8
	if p.hasRoot {
		hasRoot = 1
	}
	fields := []interface{}{metaMagic, metaVersion, hasRoot, p.rootID, p.pageCount, p.recordCount, uint32(len(p.freeList))}
	for _, v := range fields {
		if err := binary.Write(f, binary.BigEndian, v); err != nil {
			return fmt.Errorf("pager: write meta: %w", err)
		}
	}
	for _, id := range p.freeList {
		if err := binary.Write(f, binary.BigEndian, id); err != nil {
			return fmt.Errorf("pager: write meta free list: %w", err)
		}
	}
	return nil
}

// RootID returns the current root page id and whether one has been set.
func (p *Pager) RootID() (uint32, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rootID, p.hasRoot
}

// SetRootID records the tree's root page id.
func (p *Pager) SetRootID(id uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rootID = id
	p.hasRoot = true
}

// RecordCount returns the live record count tracked alongside the tree.
func (p *Pager) RecordCount() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.recordCount
}

// SetRecordCount overwrites the tracked live record count.
func (p *Pager) SetRecordCount(n uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.recordCount = n
}

// Allocate returns a new zeroed page, either recycled from the free list
// or grown at the end of the data file.
func (p *Pager) Allocate() (*Page, error) {
	p.mu.Lock()
	var id uint32
	if n := len(p.freeList); n > 0 {
		id = p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
	} else {
		id = p.pageCount
		p.pageCount++
	}
	p.mu.Unlock()

	pg := &Page{ID: id, Data: make([]byte, PageSize), dirty: true}
	p.put(pg)
	return pg, nil
}

// Free releases a page id back to the free list. The page is evicted from
// cache without being flushed.
func (p *Pager) Free(id uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if el, ok := p.cache[id]; ok {
		p.lru.Remove(el)
		delete(p.cache, id)
	}
	p.freeList = append(p.freeList, id)
}

// ReadPage loads a page by id, from cache if present, otherwise from
// disk, evicting the least recently used cached page (flushing it first
// if dirty) to stay within capacity.
func (p *Pager) ReadPage(id uint32) (*Page, error) {
	p.mu.Lock()
	if el, ok := p.cache[id]; ok {
		p.lru.MoveToFront(el)
		pg := el.Value.(*lruEntry).page
		p.mu.Unlock()
		return pg, nil
	}
	p.mu.Unlock()

	buf := make([]byte, PageSize)
	off := int64(id) * PageSize
	if _, err := p.dataFile.ReadAt(buf, off); err != nil && err != io.EOF {
		return nil, fmt.Errorf("pager: read page %d: %w", id, err)
	}
	pg := &Page{ID: id, Data: buf}
	p.put(pg)
	return pg, nil
}

// Touch marks a cached page dirty (call after mutating its Data).
func (p *Pager) Touch(pg *Page) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pg.dirty = true
}

func (p *Pager) put(pg *Page) {
	p.mu.Lock()
	el := p.lru.PushFront(&lruEntry{page: pg})
	p.cache[pg.ID] = el
	for p.lru.Len() > p.capacity {
		back := p.lru.Back()
		if back == nil {
			break
		}
		victim := back.Value.(*lruEntry).page
		p.lru.Remove(back)
		delete(p.cache, victim.ID)
		if victim.dirty {
			p.mu.Unlock()
			p.writePage(victim)
			p.mu.Lock()
		}
	}
	p.mu.Unlock()
}

func (p *Pager) writePage(pg *Page) error {
	off := int64(pg.ID) * PageSize
	if _, err := p.dataFile.WriteAt(pg.Data, off); err != nil {
		return fmt.Errorf("pager: write page %d: %w", pg.ID, err)
	}
	pg.dirty = false
	return nil
}

// Flush writes back every dirty cached page and the meta file.
func (p *Pager) Flush() error {
	p.mu.Lock()
	var dirty []*Page
	for el := p.lru.Front(); el != nil; el = el.Next() {
		pg := el.Value.(*lruEntry).page
		if pg.dirty {
			dirty = append(dirty, pg)
		}
	}
	p.mu.Unlock()

	for _, pg := range dirty {
		if err := p.writePage(pg); err != nil {
			return err
		}
	}
	if err := p.dataFile.Sync(); err != nil {
		return fmt.Errorf("pager: sync data file: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saveMeta()
}

// Close flushes and closes the underlying data file.
func (p *Pager) Close() error {
	if err := p.Flush(); err != nil {
		return err
	}
	return p.dataFile.Close()
}

// Clear truncates the data file and resets all tree metadata, discarding
// the page cache.
func (p *Pager) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.dataFile.Truncate(0); err != nil {
		return fmt.Errorf("pager: truncate data file: %w", err)
	}
	p.cache = make(map[uint32]*list.Element, p.capacity)
	p.lru = list.New()
	p.pageCount = 0
	p.freeList = nil
	p.hasRoot = false
	p.rootID = 0
	p.recordCount = 0
	return p.saveMeta()
}
