package litedb

import (
	"github.com/go-litedb/litedb/internal/storage/pager"
)

// FileParser parses a flat byte image back into a DbFile. Per spec.md
// §4.7 steps 3-5, the reference algorithm harvests raw index/data records
// into arenas and then resolves PageAddress references into arena keys via
// a work-list BFS. That indirection exists because the original engine
// needs a reference that stays stable across the in-memory mutations of a
// transaction, decoupled from the page an object happens to live on. This
// engine has no such boundary — operations already commit straight to
// page bytes (see DbFile.pages) and every collaborator (indexArena,
// writeDocument/readDocument) already addresses nodes and documents by
// pager.Address directly. So a parsed DbFile needs only: validate every
// page's self-reported id/type, load the header's pragmas/collection map,
// and reconstruct each Collection's free-list and index descriptors from
// its collection page — the data/index pages themselves are already
// correct as bytes and need no translation pass.
type FileParser struct{}

// Parse validates and loads data as a LiteDB v8 file image. data's length
// is truncated down to a multiple of pager.PageSize before splitting.
func (FileParser) Parse(data []byte, opts ...Option) (*DbFile, error) {
	n := len(data) / pager.PageSize
	if n == 0 {
		return nil, newError(ErrInvalidDatabase, "file is smaller than one page")
	}

	pages := make(map[uint32][]byte, n)
	for i := 0; i < n; i++ {
		buf := append([]byte(nil), data[i*pager.PageSize:(i+1)*pager.PageSize]...)
		h := pager.ReadHeader(buf)
		if h.PageID != uint32(i) {
			return nil, newError(ErrBadPageID, "page %d has recorded id %d", i, h.PageID)
		}
		switch h.Type {
		case pager.PageTypeEmpty, pager.PageTypeHeader, pager.PageTypeCollection, pager.PageTypeIndex, pager.PageTypeData:
		default:
			return nil, newError(ErrBadPageType, "page %d has unknown type %d", i, h.Type)
		}
		pages[uint32(i)] = buf
	}

	header := pages[0]
	if err := pager.ValidateHeaderPage(header); err != nil {
		return nil, wrapError(ErrInvalidDatabase, err, "invalid header page")
	}

	db := &DbFile{
		pages:         pages,
		lastPageID:    pager.LastPageID(header),
		pragmas:       pager.ReadPragmas(header),
		creationTicks: pager.CreationTicks(header),
		collections:   make(map[string]*Collection),
		log:           NopLogger{},
	}
	for _, o := range opts {
		o(db)
	}

	for _, entry := range pager.ReadCollections(header) {
		buf, ok := pages[entry.PageID]
		if !ok {
			return nil, newError(ErrBadPageID, "collection %q references missing page %d", entry.Name, entry.PageID)
		}
		col := &Collection{
			Name:    entry.Name,
			pageID:  entry.PageID,
			indexes: make(map[string]*IndexMeta),
		}
		for bucket := range col.freeDataPages {
			col.freeDataPages[bucket] = pager.FreeDataPageList(buf, bucket)
		}
		for _, d := range pager.ReadIndexDescriptors(buf) {
			col.indexes[d.Name] = &IndexMeta{
				Slot:       d.Slot,
				Name:       d.Name,
				Expression: d.Expression,
				Unique:     d.Unique,
				Head:       d.Head,
				Tail:       d.Tail,
			}
		}
		db.collections[entry.Name] = col
	}
	return db, nil
}
