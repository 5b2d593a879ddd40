// Package skiplist implements the index skip-list algorithms (insert,
// find, range scan, delete) over an abstract Arena, so the geometry can be
// unit tested without a page layer underneath it — the same split the
// teacher draws between a B+Tree's pure algorithm (btree.go) and its
// on-page encoding (btree_page.go), just for a skip list instead of a
// B+Tree, per the index engine this format actually uses.
package skiplist

import (
	"errors"
	"math/rand"

	"github.com/go-litedb/litedb/internal/bson"
)

// MaxLevel is the tallest a node may grow. Every index's head/tail
// sentinel is linked at all MaxLevel levels from creation, so callers
// never need to special-case "this index doesn't have level N yet".
const MaxLevel = 32

// ErrDuplicateKey is returned by AddNode when inserting into a unique
// index at a key that already has a node.
var ErrDuplicateKey = errors.New("skiplist: duplicate key")

// Arena is the storage backing for one index's skip list. N is an opaque
// node reference (in production, a pager.Address); the arena is the only
// thing that knows how to read or mutate a node's fields.
type Arena[N comparable] interface {
	Key(n N) bson.Value
	Levels(n N) int
	Prev(n N, level int) N
	Next(n N, level int) N
	SetPrev(n N, level int, v N)
	SetNext(n N, level int, v N)
}

// RandomLevel draws a node height geometrically (each additional level
// has probability 0.5), capped at MaxLevel.
func RandomLevel(r *rand.Rand) int {
	level := 1
	for level < MaxLevel && r.Intn(2) == 0 {
		level++
	}
	return level
}

// AddNode splices newNode (already allocated with its final level and key
// via the arena) into the skip list rooted at head. unique rejects an
// exact key match with ErrDuplicateKey instead of inserting after it.
func AddNode[N comparable](a Arena[N], head N, newNode N, unique bool) error {
	key := a.Key(newNode)
	level := a.Levels(newNode)
	// Find the left neighbour at every level before splicing anything, so a
	// duplicate first seen at a lower level leaves the list untouched.
	var left [MaxLevel]N
	cur := head
	for l := MaxLevel - 1; l >= 0; l-- {
		for {
			next := a.Next(cur, l)
			c := bson.Compare(a.Key(next), key)
			if c < 0 || (c == 0 && !unique) {
				cur = next
				continue
			}
			if c == 0 && unique {
				return ErrDuplicateKey
			}
			break
		}
		left[l] = cur
	}
	for l := 0; l < level; l++ {
		next := a.Next(left[l], l)
		a.SetNext(left[l], l, newNode)
		a.SetPrev(newNode, l, left[l])
		a.SetNext(newNode, l, next)
		a.SetPrev(next, l, newNode)
	}
	return nil
}

// Find returns the first node whose key equals target, or (successor,
// false) where successor is the smallest node with key > target (head's
// tail sentinel if there is none).
func Find[N comparable](a Arena[N], head N, target bson.Value) (N, bool) {
	cur := head
	for l := MaxLevel - 1; l >= 0; l-- {
		for {
			next := a.Next(cur, l)
			if bson.Compare(a.Key(next), target) < 0 {
				cur = next
				continue
			}
			break
		}
	}
	cand := a.Next(cur, 0)
	return cand, bson.Compare(a.Key(cand), target) == 0
}

// FindRange walks the level-0 chain collecting every node with
// min <= key <= max (ascending) or the same set in reverse order
// (descending), starting from head.
func FindRange[N comparable](a Arena[N], head N, min, max bson.Value, descending bool) []N {
	var out []N
	if !descending {
		cur, _ := Find(a, head, min)
		for bson.Compare(a.Key(cur), bson.Max()) != 0 && bson.Compare(a.Key(cur), max) <= 0 {
			out = append(out, cur)
			cur = a.Next(cur, 0)
		}
		return out
	}
	// Descending: find the last node with key <= max, then walk prev. Find
	// returns the leftmost node equal to max, so on an exact match we must
	// first advance through the run of max-equal siblings (a non-unique
	// index can hold several) to the rightmost one before reversing,
	// otherwise every duplicate but the first is skipped.
	cur, ok := Find(a, head, max)
	if !ok {
		cur = a.Prev(cur, 0)
	} else {
		for bson.Compare(a.Key(a.Next(cur, 0)), max) == 0 {
			cur = a.Next(cur, 0)
		}
	}
	for bson.Compare(a.Key(cur), bson.Min()) != 0 && bson.Compare(a.Key(cur), min) >= 0 {
		out = append(out, cur)
		cur = a.Prev(cur, 0)
	}
	return out
}

// DeleteNode unsplices node from the skip list at every level it
// participates in.
func DeleteNode[N comparable](a Arena[N], node N) {
	for l := 0; l < a.Levels(node); l++ {
		prev := a.Prev(node, l)
		next := a.Next(node, l)
		a.SetNext(prev, l, next)
		a.SetPrev(next, l, prev)
	}
}
