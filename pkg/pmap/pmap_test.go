package pmap

import (
	"encoding/binary"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"
)

// testKeyCodec and testValueCodec are sized large (300 bytes) relative
// to the 4096-byte page so that a few dozen inserts are enough to force
// both leaf and internal node splits without a slow, large-N test.

type testKeyCodec struct{}

const testKeySize = 300

func (testKeyCodec) Size() int { return testKeySize }
func (testKeyCodec) Encode(k int, buf []byte) {
	binary.BigEndian.PutUint64(buf, uint64(int64(k))^0x8000000000000000)
}
func (testKeyCodec) Decode(buf []byte) int {
	return int(int64(binary.BigEndian.Uint64(buf) ^ 0x8000000000000000))
}
func (testKeyCodec) Compare(a, b int) int { return a - b }

type testValueCodec struct{}

const testValSize = 300

func (testValueCodec) Size() int { return testValSize }
func (testValueCodec) Encode(v string, buf []byte) {
	copy(buf, v)
	for i := len(v); i < testValSize; i++ {
		buf[i] = 0
	}
}
func (testValueCodec) Decode(buf []byte) string {
	return strings.TrimRight(string(buf), "\x00")
}

func openTestMap(t *testing.T) *PMap[int, string] {
	t.Helper()
	dir := t.TempDir()
	m, err := Open(filepath.Join(dir, "m.dat"), filepath.Join(dir, "m.meta"), 8, testKeyCodec{}, testValueCodec{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestInsertFindAcrossSplits(t *testing.T) {
	m := openTestMap(t)
	const n = 40
	for i := 0; i < n; i++ {
		if err := m.Insert(i, strconv.Itoa(i)); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}
	if got := m.Size(); got != n {
		t.Fatalf("Size() = %d, want %d", got, n)
	}
	for i := 0; i < n; i++ {
		v, ok, err := m.Find(i)
		if err != nil {
			t.Fatalf("Find(%d): %v", i, err)
		}
		if !ok {
			t.Fatalf("Find(%d): not found after insert", i)
		}
		if v != strconv.Itoa(i) {
			t.Fatalf("Find(%d) = %q, want %q", i, v, strconv.Itoa(i))
		}
	}
}

func TestInsertDuplicateKeyFails(t *testing.T) {
	m := openTestMap(t)
	if err := m.Insert(1, "a"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := m.Insert(1, "b"); err != ErrKeyExists {
		t.Fatalf("second Insert(1) = %v, want ErrKeyExists", err)
	}
}

func TestModifyAndErase(t *testing.T) {
	m := openTestMap(t)
	for i := 0; i < 10; i++ {
		if err := m.Insert(i, strconv.Itoa(i)); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}
	if err := m.Modify(5, "five"); err != nil {
		t.Fatalf("Modify: %v", err)
	}
	v, ok, err := m.Find(5)
	if err != nil || !ok || v != "five" {
		t.Fatalf("Find(5) after Modify = (%q, %v, %v), want (five, true, nil)", v, ok, err)
	}
	if err := m.Modify(999, "x"); err != ErrKeyNotFound {
		t.Fatalf("Modify(999) = %v, want ErrKeyNotFound", err)
	}

	if err := m.Erase(5); err != nil {
		t.Fatalf("Erase(5): %v", err)
	}
	if _, ok, err := m.Find(5); err != nil || ok {
		t.Fatalf("Find(5) after Erase: ok=%v err=%v, want ok=false", ok, err)
	}
	if err := m.Erase(5); err != ErrKeyNotFound {
		t.Fatalf("second Erase(5) = %v, want ErrKeyNotFound", err)
	}
	if got := m.Size(); got != 9 {
		t.Fatalf("Size() after Erase = %d, want 9", got)
	}
}

func TestRangeFindOrderedAndBounded(t *testing.T) {
	m := openTestMap(t)
	const n = 30
	for i := n - 1; i >= 0; i-- { // insert in reverse to exercise leaf placement both sides of split points
		if err := m.Insert(i, strconv.Itoa(i)); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}
	got, err := m.RangeFind(5, 15, 100)
	if err != nil {
		t.Fatalf("RangeFind: %v", err)
	}
	if len(got) != 11 {
		t.Fatalf("RangeFind(5,15) returned %d values, want 11", len(got))
	}
	want := make([]string, 11)
	for i := range want {
		want[i] = strconv.Itoa(5 + i)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("RangeFind result[%d] = %q, want %q (must be ascending key order)", i, got[i], want[i])
		}
	}
}

func TestRangeFindKVReturnsKeys(t *testing.T) {
	m := openTestMap(t)
	for i := 0; i < 5; i++ {
		if err := m.Insert(i, strconv.Itoa(i)); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}
	entries, err := m.RangeFindKV(0, 4, 100)
	if err != nil {
		t.Fatalf("RangeFindKV: %v", err)
	}
	if !sort.SliceIsSorted(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key }) {
		t.Fatalf("RangeFindKV entries not sorted by key: %+v", entries)
	}
	for _, e := range entries {
		if e.Value != strconv.Itoa(e.Key) {
			t.Fatalf("entry key %d has value %q, want %q", e.Key, e.Value, strconv.Itoa(e.Key))
		}
	}
}

func TestRangeFindTooLarge(t *testing.T) {
	m := openTestMap(t)
	for i := 0; i < 10; i++ {
		if err := m.Insert(i, strconv.Itoa(i)); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}
	if _, err := m.RangeFind(0, 9, 5); err != ErrRangeTooLarge {
		t.Fatalf("RangeFind with limit 5 over 10 matches = %v, want ErrRangeTooLarge", err)
	}
}

func TestFindOnEmptyMap(t *testing.T) {
	m := openTestMap(t)
	if _, ok, err := m.Find(0); err != nil || ok {
		t.Fatalf("Find on empty map: ok=%v err=%v, want ok=false", ok, err)
	}
}

func TestClosePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "m.dat")
	metaPath := filepath.Join(dir, "m.meta")

	m, err := Open(dataPath, metaPath, 8, testKeyCodec{}, testValueCodec{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for i := 0; i < 20; i++ {
		if err := m.Insert(i, strconv.Itoa(i)); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(dataPath, metaPath, 8, testKeyCodec{}, testValueCodec{})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if got := reopened.Size(); got != 20 {
		t.Fatalf("Size() after reopen = %d, want 20", got)
	}
	for i := 0; i < 20; i++ {
		v, ok, err := reopened.Find(i)
		if err != nil || !ok || v != strconv.Itoa(i) {
			t.Fatalf("Find(%d) after reopen = (%q,%v,%v)", i, v, ok, err)
		}
	}
}

