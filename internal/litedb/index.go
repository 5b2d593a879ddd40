package litedb

import (
	"fmt"
	"sort"
	"unicode"

	"github.com/go-litedb/litedb/internal/bson"
	"github.com/go-litedb/litedb/internal/skiplist"
	"github.com/go-litedb/litedb/internal/storage/pager"
)

// maxIndexNameLength bounds an index name to a reasonable identifier
// length, per spec.md §4.9 ensure_index.
const maxIndexNameLength = 32

// validateIndexName enforces the index-naming contract: a non-empty word
// (letters, digits, underscore), not starting with '$', under 32 bytes.
// Per spec.md §7 this is a programming error, not a recoverable one, so
// like the reference engine it panics rather than returning an *Error.
func validateIndexName(name string) {
	if name == "" {
		panic("litedb: index name must not be empty")
	}
	if len(name) >= maxIndexNameLength {
		panic(fmt.Sprintf("litedb: index name %q is too long (max %d)", name, maxIndexNameLength-1))
	}
	if name[0] == '$' {
		panic(fmt.Sprintf("litedb: index name %q must not start with '$'", name))
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			panic(fmt.Sprintf("litedb: index name %q is not a valid word", name))
		}
	}
}

// createIndexLocked allocates a fresh index slot, creates its MinValue/
// MaxValue sentinel nodes fully linked at every skiplist.MaxLevel, and
// registers it on col. It does not populate the index from existing
// documents — callers that add an index to a non-empty collection (see
// EnsureIndex) walk the primary key chain themselves afterwards.
func (db *DbFile) createIndexLocked(col *Collection, name, expression string, unique bool) error {
	if _, exists := col.indexes[name]; exists {
		return newError(ErrIndexAlreadyExists, "index %q already exists", name).WithDetail("index", name)
	}
	if len(col.indexes) >= pager.MaxIndexesPerCollection {
		return newError(ErrCollectionIndexLimit, "collection %q already has %d indexes", col.Name, pager.MaxIndexesPerCollection)
	}

	slot := byte(0)
	for col.indexBySlot(slot) != nil {
		slot++
	}
	idx := &IndexMeta{
		Slot:       slot,
		Name:       name,
		Expression: expression,
		Unique:     unique,
	}
	idx.Head = db.newIndexNode(col, idx, bson.Min(), skiplist.MaxLevel, pager.EmptyAddress)
	idx.Tail = db.newIndexNode(col, idx, bson.Max(), skiplist.MaxLevel, pager.EmptyAddress)

	arena := indexArena{db: db, slot: idx.Slot}
	for l := 0; l < skiplist.MaxLevel; l++ {
		arena.SetNext(idx.Head, l, idx.Tail)
		arena.SetPrev(idx.Tail, l, idx.Head)
	}

	col.indexes[name] = idx
	return nil
}

// indexBySlot finds the IndexMeta owning a given skip-list slot, or nil.
func (col *Collection) indexBySlot(slot byte) *IndexMeta {
	for _, idx := range col.indexes {
		if idx.Slot == slot {
			return idx
		}
	}
	return nil
}

// orderedIndexNames returns every index name in slot order (_id is always
// slot 0), giving deterministic sibling-chain construction.
func orderedIndexNames(col *Collection) []string {
	names := make([]string, 0, len(col.indexes))
	for n := range col.indexes {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return col.indexes[names[i]].Slot < col.indexes[names[j]].Slot })
	return names
}

// extractIndexKeys resolves idx's expression against doc. "_id" is an
// ordinary path expression ("$._id") like any other, so no special casing
// is needed here.
func (db *DbFile) extractIndexKeys(idx *IndexMeta, doc *bson.Document) ([]bson.Value, error) {
	return DefaultExtractor.Extract(idx.Expression, doc)
}

// insertIndexNode draws a random level, allocates a node for key pointing
// at dataBlock, and splices it into idx's skip list.
func (db *DbFile) insertIndexNode(col *Collection, idx *IndexMeta, key bson.Value, dataBlock pager.Address) (pager.Address, error) {
	if key.Type() == bson.TypeDocument || key.Type() == bson.TypeMinValue || key.Type() == bson.TypeMaxValue {
		return pager.Address{}, newError(ErrInvalidIndexKeyType, "value of type %s is not indexable", key.Type())
	}
	if n := len(encodeIndexKey(key)); n > pager.MaxIndexKeyLength {
		return pager.Address{}, newError(ErrIndexKeySizeExceeded, "index key of %d bytes exceeds max %d", n, pager.MaxIndexKeyLength)
	}

	level := skiplist.RandomLevel(indexLevelSource)
	node := db.newIndexNode(col, idx, key, level, dataBlock)
	arena := indexArena{db: db, slot: idx.Slot}
	if err := skiplist.AddNode[pager.Address](arena, idx.Head, node, idx.Unique); err != nil {
		pager.DeleteRecord(db.getPage(node.PageID), node.Slot)
		if err == skiplist.ErrDuplicateKey {
			return pager.Address{}, newError(ErrDuplicatedIndexKey, "duplicate key in unique index %q", idx.Name).WithDetail("index", idx.Name)
		}
		return pager.Address{}, err
	}
	return node, nil
}

// insertSiblingChain extracts doc's key for every one of col's indexes
// (in slot order, _id first), inserts one node per key into each index's
// skip list, and links them into a single sibling chain rooted at the PK
// node via each node's NextNode pointer. On any failure it unwinds the
// nodes it already created.
func (db *DbFile) insertSiblingChain(col *Collection, doc *bson.Document, dataBlock pager.Address) (pager.Address, error) {
	var created []struct {
		idx  *IndexMeta
		addr pager.Address
	}
	rollback := func() {
		for _, c := range created {
			arena := indexArena{db: db, slot: c.idx.Slot}
			skiplist.DeleteNode[pager.Address](arena, c.addr)
			pager.DeleteRecord(db.getPage(c.addr.PageID), c.addr.Slot)
		}
	}

	var pkAddr, lastAddr pager.Address
	first := true
	for _, name := range orderedIndexNames(col) {
		idx := col.indexes[name]
		keys, err := db.extractIndexKeys(idx, doc)
		if err != nil {
			rollback()
			return pager.Address{}, err
		}
		for _, k := range keys {
			addr, err := db.insertIndexNode(col, idx, k, dataBlock)
			if err != nil {
				rollback()
				return pager.Address{}, err
			}
			created = append(created, struct {
				idx  *IndexMeta
				addr pager.Address
			}{idx, addr})
			if first {
				pkAddr = addr
				first = false
			} else {
				(indexArena{db: db}).setNextNode(lastAddr, addr)
			}
			lastAddr = addr
		}
	}
	return pkAddr, nil
}

// deleteSiblingChain removes every node reachable from pkAddr via NextNode
// (across every index) from its index's skip list and reclaims its slot.
func (db *DbFile) deleteSiblingChain(col *Collection, pkAddr pager.Address) {
	raw := indexArena{db: db}
	cur := pkAddr
	for !cur.IsEmpty() {
		dn := raw.node(cur)
		if idx := col.indexBySlot(dn.Slot); idx != nil {
			arena := indexArena{db: db, slot: idx.Slot}
			skiplist.DeleteNode[pager.Address](arena, cur)
		}
		next := dn.NextNode
		pager.DeleteRecord(db.getPage(cur.PageID), cur.Slot)
		cur = next
	}
}

// unlinkIndexFromSiblingChains walks the PK chain once, splicing slot's
// node out of every document's sibling chain (used by DropIndex before it
// tears down the index's own skip list).
func (db *DbFile) unlinkIndexFromSiblingChains(col *Collection, slot byte) {
	pk := col.indexes[idIndexName]
	raw := indexArena{db: db}
	pkArena := indexArena{db: db, slot: pk.Slot}

	cur := pkArena.Next(pk.Head, 0)
	for bson.Compare(pkArena.Key(cur), bson.Max()) != 0 {
		prev := cur
		node := raw.node(cur).NextNode
		for !node.IsEmpty() {
			dn := raw.node(node)
			if dn.Slot == slot {
				raw.setNextNode(prev, dn.NextNode)
				node = dn.NextNode
				continue
			}
			prev = node
			node = dn.NextNode
		}
		cur = pkArena.Next(cur, 0)
	}
}
