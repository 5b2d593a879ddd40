package skiplist

import (
	"math/rand"
	"testing"

	"github.com/go-litedb/litedb/internal/bson"
)

// memArena is a trivial in-memory Arena used only by tests, keyed by int
// node ids, to exercise the algorithm without any page layer.
type memArena struct {
	keys   map[int]bson.Value
	levels map[int]int
	prev   map[int][]int
	next   map[int][]int
}

func newMemArena() *memArena {
	return &memArena{
		keys:   map[int]bson.Value{0: bson.Min(), 1: bson.Max()},
		levels: map[int]int{0: MaxLevel, 1: MaxLevel},
		prev:   map[int][]int{0: make([]int, MaxLevel), 1: repeat(0, MaxLevel)},
		next:   map[int][]int{0: repeat(1, MaxLevel), 1: make([]int, MaxLevel)},
	}
}

func repeat(v, n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func (m *memArena) Key(n int) bson.Value     { return m.keys[n] }
func (m *memArena) Levels(n int) int         { return m.levels[n] }
func (m *memArena) Prev(n int, l int) int    { return m.prev[n][l] }
func (m *memArena) Next(n int, l int) int    { return m.next[n][l] }
func (m *memArena) SetPrev(n int, l int, v int) { m.prev[n][l] = v }
func (m *memArena) SetNext(n int, l int, v int) { m.next[n][l] = v }

func (m *memArena) addNode(id int, key bson.Value, levels int) {
	m.keys[id] = key
	m.levels[id] = levels
	m.prev[id] = make([]int, levels)
	m.next[id] = make([]int, levels)
}

func TestAddNodeAndFind(t *testing.T) {
	a := newMemArena()
	r := rand.New(rand.NewSource(1))
	for i, v := range []int32{5, 1, 9, 3, 7} {
		id := i + 2
		a.addNode(id, bson.Int32(v), RandomLevel(r))
		if err := AddNode[int](a, 0, id, false); err != nil {
			t.Fatalf("add %d: %v", v, err)
		}
	}
	got, ok := Find[int](a, 0, bson.Int32(7))
	if !ok {
		t.Fatalf("expected to find key 7")
	}
	v, _ := a.Key(got).AsInt32()
	if v != 7 {
		t.Fatalf("got %d", v)
	}
}

func TestAddNodeRejectsDuplicateOnUniqueIndex(t *testing.T) {
	a := newMemArena()
	a.addNode(2, bson.Int32(1), 1)
	if err := AddNode[int](a, 0, 2, true); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	a.addNode(3, bson.Int32(1), 1)
	if err := AddNode[int](a, 0, 3, true); err != ErrDuplicateKey {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestFindRangeAscendingAndDescending(t *testing.T) {
	a := newMemArena()
	r := rand.New(rand.NewSource(2))
	for i, v := range []int32{10, 20, 30, 40, 50} {
		id := i + 2
		a.addNode(id, bson.Int32(v), RandomLevel(r))
		AddNode[int](a, 0, id, false)
	}
	asc := FindRange[int](a, 0, bson.Int32(15), bson.Int32(45), false)
	if len(asc) != 3 {
		t.Fatalf("expected 3 nodes ascending, got %d", len(asc))
	}
	first, _ := a.Key(asc[0]).AsInt32()
	last, _ := a.Key(asc[len(asc)-1]).AsInt32()
	if first != 20 || last != 40 {
		t.Fatalf("got first=%d last=%d", first, last)
	}

	desc := FindRange[int](a, 0, bson.Int32(15), bson.Int32(45), true)
	if len(desc) != 3 {
		t.Fatalf("expected 3 nodes descending, got %d", len(desc))
	}
	first, _ = a.Key(desc[0]).AsInt32()
	if first != 40 {
		t.Fatalf("expected descending to start at 40, got %d", first)
	}
}

func TestFindRangeDescendingVisitsAllDuplicatesOfMax(t *testing.T) {
	a := newMemArena()
	r := rand.New(rand.NewSource(4))
	// Three non-unique nodes share the key 30 (the upper bound of the
	// range), plus one node below it.
	keys := []int32{10, 30, 30, 30}
	var ids []int
	for i, v := range keys {
		id := i + 2
		a.addNode(id, bson.Int32(v), RandomLevel(r))
		if err := AddNode[int](a, 0, id, false); err != nil {
			t.Fatalf("add %d: %v", v, err)
		}
		ids = append(ids, id)
	}
	desc := FindRange[int](a, 0, bson.Int32(0), bson.Int32(30), true)
	if len(desc) != 4 {
		t.Fatalf("expected all 4 nodes (3 duplicates of 30 plus 10), got %d", len(desc))
	}
	seen := map[int]bool{}
	for _, id := range desc {
		seen[id] = true
	}
	for _, id := range ids {
		if !seen[id] {
			t.Fatalf("node %d missing from descending range", id)
		}
	}
}

func TestDeleteNode(t *testing.T) {
	a := newMemArena()
	r := rand.New(rand.NewSource(3))
	var ids []int
	for i, v := range []int32{1, 2, 3} {
		id := i + 2
		a.addNode(id, bson.Int32(v), RandomLevel(r))
		AddNode[int](a, 0, id, false)
		ids = append(ids, id)
	}
	DeleteNode[int](a, ids[1])
	if _, ok := Find[int](a, 0, bson.Int32(2)); ok {
		t.Fatalf("expected key 2 removed")
	}
	if _, ok := Find[int](a, 0, bson.Int32(1)); !ok {
		t.Fatalf("expected key 1 still present")
	}
}
