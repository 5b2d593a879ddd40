package litedb

import (
	"math/rand"

	"github.com/go-litedb/litedb/internal/bson"
	"github.com/go-litedb/litedb/internal/skiplist"
	"github.com/go-litedb/litedb/internal/storage/pager"
)

// indexArena adapts one (collection, index) pair to skiplist.Arena, so the
// generic skip-list algorithms in internal/skiplist can walk and mutate
// nodes that live in real index pages. It holds no state of its own beyond
// the db/slot it was built for — every read or write goes straight through
// to the backing page bytes, so the skip list is always consistent with
// what FileWriter would serialize.
type indexArena struct {
	db   *DbFile
	slot byte
}

var _ skiplist.Arena[pager.Address] = indexArena{}

func (a indexArena) node(addr pager.Address) pager.DecodedIndexNode {
	buf := a.db.getPage(addr.PageID)
	rec, err := pager.GetRecord(buf, addr.Slot)
	if err != nil {
		panic("litedb: index node lookup: " + err.Error())
	}
	return pager.DecodeIndexNode(rec)
}

func (a indexArena) Key(n pager.Address) bson.Value {
	return decodeIndexKey(a.node(n).Key)
}

func (a indexArena) Levels(n pager.Address) int { return int(a.node(n).Levels) }

func (a indexArena) Prev(n pager.Address, level int) pager.Address { return a.node(n).Prev(level) }
func (a indexArena) Next(n pager.Address, level int) pager.Address { return a.node(n).Next(level) }

func (a indexArena) SetPrev(n pager.Address, level int, v pager.Address) {
	a.rewrite(n, func(dn *pager.DecodedIndexNode) { dn.SetPrev(level, v) })
}

func (a indexArena) SetNext(n pager.Address, level int, v pager.Address) {
	a.rewrite(n, func(dn *pager.DecodedIndexNode) { dn.SetNext(level, v) })
}

// setNextNode rewrites a node's sibling-chain pointer (the NextNode field,
// not a skip-list level pointer): the address of the next index's node for
// the same document, rooted at the document's PK node.
func (a indexArena) setNextNode(n, v pager.Address) {
	a.rewrite(n, func(dn *pager.DecodedIndexNode) { dn.NextNode = v })
}

// setDataBlock rewrites a node's DataBlock pointer. Nothing calls it at
// present: Update deletes and rebuilds the document's whole sibling chain
// instead of repointing existing nodes.
func (a indexArena) setDataBlock(n, v pager.Address) {
	a.rewrite(n, func(dn *pager.DecodedIndexNode) { dn.DataBlock = v })
}

func (a indexArena) rewrite(addr pager.Address, mutate func(*pager.DecodedIndexNode)) {
	dn := a.node(addr)
	mutate(&dn)
	buf, err := pager.EncodeIndexNode(dn.Slot, dn.Levels, dn.DataBlock, dn.NextNode, dn.PrevNext, dn.Key)
	if err != nil {
		panic("litedb: re-encode index node: " + err.Error())
	}
	if err := pager.UpdateRecord(a.db.getPage(addr.PageID), addr.Slot, buf); err != nil {
		panic("litedb: update index node: " + err.Error())
	}
}

// encodeIndexKey/decodeIndexKey store a single bson.Value by wrapping it in
// a one-field document {"k": v} and keeping that document's full wire
// encoding; the bare tag-plus-value form is not used.
func encodeIndexKey(v bson.Value) []byte {
	doc := bson.NewDocument().Set("k", v)
	full := bson.WriteValue(nil, bson.Doc(doc))
	return full
}

func decodeIndexKey(b []byte) bson.Value {
	doc, _, err := bson.ParseDocument(b)
	if err != nil {
		panic("litedb: corrupt index key: " + err.Error())
	}
	v, _ := doc.Get("k")
	return v
}

// newIndexNode allocates storage for a fresh node with the given key/level
// and links it to dataBlock, without yet splicing it into the skip list
// (that's skiplist.AddNode's job). It scans every index page of the
// collection in db.pages for one with room before allocating a new page;
// there is no per-index free list.
func (db *DbFile) newIndexNode(col *Collection, idx *IndexMeta, key bson.Value, level int, dataBlock pager.Address) pager.Address {
	keyBytes := encodeIndexKey(key)
	prevNext := make([]pager.Address, level*2)
	for i := range prevNext {
		prevNext[i] = pager.EmptyAddress
	}
	rec, err := pager.EncodeIndexNode(idx.Slot, byte(level), dataBlock, pager.EmptyAddress, prevNext, keyBytes)
	if err != nil {
		panic(err)
	}

	for pageID, buf := range db.pages {
		h := pager.ReadHeader(buf)
		if h.Type != pager.PageTypeIndex || h.ColID != col.pageID {
			continue
		}
		if pager.FreeBytes(buf) < len(rec)+8 {
			continue
		}
		slot, err := pager.InsertRecord(buf, rec)
		if err != nil {
			continue
		}
		return pager.Address{PageID: pageID, Slot: slot}
	}
	id, buf := db.newIndexPage(col.pageID)
	slot, err := pager.InsertRecord(buf, rec)
	if err != nil {
		panic(err)
	}
	return pager.Address{PageID: id, Slot: slot}
}

// indexLevelSource is a package-private level-draw source, fixed-seeded so
// that the sequence of drawn levels is reproducible (harmless for skip-list
// balance since the seed is unrelated to key order). On-disk images are
// still not byte-identical across runs: newIndexNode picks pages in map
// iteration order, and New stamps the current creation time.
var indexLevelSource = rand.New(rand.NewSource(1))
