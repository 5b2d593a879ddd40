package bson

import "github.com/cespare/xxhash/v2"

// caseIndex maps already-folded document keys to their slot in the parent
// Document's keys/vals slices. Keys are hashed with xxhash rather than
// routed through Go's built-in string map, since folded keys are produced
// on every lookup and a fast non-cryptographic hash keeps that cheap; open
// chaining handles the rare collision.
type caseIndex struct {
	buckets map[uint64][]caseIndexEntry
}

type caseIndexEntry struct {
	key string
	pos int
}

func newCaseIndex() *caseIndex {
	return &caseIndex{buckets: make(map[uint64][]caseIndexEntry)}
}

func hashFolded(folded string) uint64 {
	return xxhash.Sum64String(folded)
}

func (c *caseIndex) get(folded string) (int, bool) {
	for _, e := range c.buckets[hashFolded(folded)] {
		if e.key == folded {
			return e.pos, true
		}
	}
	return 0, false
}

func (c *caseIndex) put(folded string, pos int) {
	h := hashFolded(folded)
	bucket := c.buckets[h]
	for i, e := range bucket {
		if e.key == folded {
			bucket[i].pos = pos
			return
		}
	}
	c.buckets[h] = append(bucket, caseIndexEntry{key: folded, pos: pos})
}

func (c *caseIndex) remove(folded string) {
	h := hashFolded(folded)
	bucket := c.buckets[h]
	for i, e := range bucket {
		if e.key == folded {
			c.buckets[h] = append(bucket[:i], bucket[i+1:]...)
			return
		}
	}
}

// shiftDown decrements every recorded position greater than removedPos,
// keeping the index consistent after a slice element is spliced out.
func (c *caseIndex) shiftDown(removedPos int) {
	for h, bucket := range c.buckets {
		for i, e := range bucket {
			if e.pos > removedPos {
				c.buckets[h][i].pos = e.pos - 1
			}
		}
	}
}
