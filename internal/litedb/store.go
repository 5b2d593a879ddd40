// Package litedb implements the file-level operations of a LiteDB v8
// database: parsing and writing the page file, and the collection CRUD
// surface (insert/update/upsert/delete/ensure_index/drop_index/
// drop_collection/rename_collection/get_by_index/get_range_indexed/
// get_all) built on top of internal/storage/pager and internal/skiplist.
package litedb

import (
	"fmt"
	"time"

	"github.com/go-litedb/litedb/internal/bson"
	"github.com/go-litedb/litedb/internal/storage/pager"
)

// DbFile is the whole parsed database: every page kept in memory, indexed
// by page id, plus the collection catalog mirrored from the header page
// for fast lookup. There is no buffer pool or WAL here — per this format's
// scope the engine is single-threaded and synchronous, so every page is
// simply resident for the file's lifetime.
type DbFile struct {
	pages         map[uint32][]byte
	lastPageID    uint32
	pragmas       pager.Pragmas
	creationTicks int64
	collections   map[string]*Collection
	log           Logger
}

// Collection is the in-memory mirror of one collection page.
type Collection struct {
	Name           string
	pageID         uint32
	freeDataPages  [5]uint32
	indexes        map[string]*IndexMeta
	lastAutoInt64  int64
	lastAutoSeeded bool
}

// IndexMeta is the in-memory mirror of one collection index descriptor.
type IndexMeta struct {
	Slot       byte
	Name       string
	Expression string
	Unique     bool
	Head       pager.Address
	Tail       pager.Address
}

// New creates an empty, in-memory database (the equivalent of LiteDB
// creating a brand-new file on first open).
func New(opts ...Option) *DbFile {
	db := &DbFile{
		pages:         make(map[uint32][]byte),
		pragmas:       pager.DefaultPragmas(),
		creationTicks: bson.DateTimeFromTime(time.Now()).Ticks(),
		collections:   make(map[string]*Collection),
		log:           NopLogger{},
	}
	for _, o := range opts {
		o(db)
	}
	header := make([]byte, pager.PageSize)
	pager.WriteHeaderPage(header, db.creationTicks)
	pager.WritePragmas(header, db.pragmas)
	db.pages[0] = header
	return db
}

// Option configures a DbFile at construction time.
type Option func(*DbFile)

// WithLogger sets the structured logger used for collection/index
// lifecycle events. Without this option NopLogger is used; a nil Logger
// passed here is not replaced with one.
func WithLogger(l Logger) Option { return func(db *DbFile) { db.log = l } }

// WithPragmas overrides the header page's default pragma block.
func WithPragmas(p pager.Pragmas) Option { return func(db *DbFile) { db.pragmas = p } }

func (db *DbFile) headerPage() []byte { return db.pages[0] }

func (db *DbFile) allocPageID() uint32 {
	db.lastPageID++
	return db.lastPageID
}

func (db *DbFile) getPage(id uint32) []byte {
	buf, ok := db.pages[id]
	if !ok {
		panic(fmt.Sprintf("litedb: page %d not found", id))
	}
	return buf
}

func (db *DbFile) newCollectionPage() (uint32, []byte) {
	id := db.allocPageID()
	buf := make([]byte, pager.PageSize)
	pager.WriteCollectionPage(buf, id)
	db.pages[id] = buf
	return id, buf
}

func (db *DbFile) newDataPage(colID uint32) (uint32, []byte) {
	id := db.allocPageID()
	buf := pager.NewPage(id, pager.PageTypeData)
	h := pager.ReadHeader(buf)
	h.ColID = colID
	h.Write(buf)
	db.pages[id] = buf
	return id, buf
}

func (db *DbFile) newIndexPage(colID uint32) (uint32, []byte) {
	id := db.allocPageID()
	buf := pager.NewPage(id, pager.PageTypeIndex)
	h := pager.ReadHeader(buf)
	h.ColID = colID
	h.Write(buf)
	db.pages[id] = buf
	return id, buf
}

// CollectionNames returns every collection name, in no particular order.
func (db *DbFile) CollectionNames() []string {
	names := make([]string, 0, len(db.collections))
	for n := range db.collections {
		names = append(names, n)
	}
	return names
}

func (db *DbFile) getCollection(name string) (*Collection, bool) {
	c, ok := db.collections[name]
	return c, ok
}

// getOrCreateCollection returns the named collection, creating a new
// collection page (with the default _id unique index already wired) if it
// doesn't exist yet.
func (db *DbFile) getOrCreateCollection(name string) (*Collection, error) {
	if c, ok := db.collections[name]; ok {
		return c, nil
	}
	pageID, buf := db.newCollectionPage()
	col := &Collection{
		Name:    name,
		pageID:  pageID,
		indexes: make(map[string]*IndexMeta),
	}
	for i := range col.freeDataPages {
		col.freeDataPages[i] = pager.FreeDataPageList(buf, i)
	}
	if err := db.createIndexLocked(col, idIndexName, idExtractorExpr, true); err != nil {
		return nil, err
	}
	db.collections[name] = col
	db.log.Infof("created collection %q", name)
	return col, nil
}
