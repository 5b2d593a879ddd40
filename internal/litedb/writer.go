package litedb

import (
	"sort"

	"github.com/go-litedb/litedb/internal/storage/pager"
)

// FileWriter serializes a DbFile to a flat byte image: a concatenation of
// fixed-size pages, one per entry in db.pages, in ascending page-id order
// (page 0 is always the header). Per spec.md §4.8 step 6 the writer
// produces a canonical image and need not reproduce the exact page-id
// assignment a previous writer chose — but since this engine (unlike the
// original's commit-time arena-to-page translation) mutates data/index
// pages in place on every CRUD call, those pages are already in their
// final byte form; only the header page and each collection page are
// authoritative from in-memory state and must be regenerated here.
type FileWriter struct{}

// Write serializes db to a byte slice whose length is a multiple of
// pager.PageSize.
func (FileWriter) Write(db *DbFile) []byte {
	db.syncHeaderPage()
	for _, col := range db.collections {
		db.syncCollectionPage(col)
	}

	ids := make([]uint32, 0, len(db.pages))
	for id := range db.pages {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]byte, 0, len(ids)*pager.PageSize)
	for _, id := range ids {
		out = append(out, db.pages[id]...)
	}
	return out
}

func (db *DbFile) syncHeaderPage() {
	buf := db.headerPage()
	pager.SetCreationTicks(buf, db.creationTicks)
	pager.SetLastPageID(buf, db.lastPageID)
	pager.SetFreeEmptyPageID(buf, 0xFFFFFFFF)
	pager.WritePragmas(buf, db.pragmas)

	entries := make([]pager.CollectionEntry, 0, len(db.collections))
	for name, col := range db.collections {
		entries = append(entries, pager.CollectionEntry{Name: name, PageID: col.pageID})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	if err := pager.WriteCollections(buf, entries); err != nil {
		panic("litedb: " + err.Error())
	}
}

func (db *DbFile) syncCollectionPage(col *Collection) {
	buf := db.getPage(col.pageID)
	for bucket, pageID := range col.freeDataPages {
		pager.SetFreeDataPageList(buf, bucket, pageID)
	}

	descs := make([]pager.IndexDescriptor, 0, len(col.indexes))
	for _, idx := range col.indexes {
		descs = append(descs, pager.IndexDescriptor{
			Slot:       idx.Slot,
			Name:       idx.Name,
			Expression: idx.Expression,
			Unique:     idx.Unique,
			Head:       idx.Head,
			Tail:       idx.Tail,
		})
	}
	sort.Slice(descs, func(i, j int) bool { return descs[i].Slot < descs[j].Slot })
	if err := pager.WriteIndexDescriptors(buf, descs); err != nil {
		panic("litedb: " + err.Error())
	}
}
