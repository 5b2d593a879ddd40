package litedb

import (
	"github.com/go-litedb/litedb/internal/bson"
	"github.com/go-litedb/litedb/internal/skiplist"
	"github.com/go-litedb/litedb/internal/storage/pager"
)

// Insert stores doc in collection, synthesizing an _id via mode if doc has
// none (or a Null one). It returns the document's final _id.
func (db *DbFile) Insert(collection string, doc *bson.Document, mode AutoID) (bson.Value, error) {
	col, err := db.getOrCreateCollection(collection)
	if err != nil {
		return bson.Null(), err
	}

	id, ok := doc.Get(idIndexName)
	switch {
	case !ok || id.IsNull():
		id = db.synthesizeID(col, mode)
		doc.Set(idIndexName, id)
	case id.IsMinValue() || id.IsMaxValue():
		return bson.Null(), newError(ErrInvalidFieldType, "_id cannot be MinValue or MaxValue")
	}

	dataBlock, err := db.writeDocument(col, doc)
	if err != nil {
		return bson.Null(), err
	}
	if _, err := db.insertSiblingChain(col, doc, dataBlock); err != nil {
		db.deleteDocument(col, dataBlock)
		return bson.Null(), err
	}
	return id, nil
}

// Update replaces the document with doc's _id in collection, reindexing it
// against every current index. It reports (false, nil) if no document with
// that _id exists. Unlike the original engine's incremental per-index
// diff, this rebuilds every index entry for the document from scratch on
// every update — simpler to get right, and the cost is bounded by the
// collection's own index count, not the collection size (see DESIGN.md).
func (db *DbFile) Update(collection string, doc *bson.Document) (bool, error) {
	col, ok := db.getCollection(collection)
	if !ok {
		return false, newError(ErrCollectionNotFound, "collection %q not found", collection).WithDetail("collection", collection)
	}
	id, ok := doc.Get(idIndexName)
	if !ok || id.IsNull() {
		return false, newError(ErrInvalidFieldType, "_id is required to update a document")
	}

	pk := col.indexes[idIndexName]
	pkArena := indexArena{db: db, slot: pk.Slot}
	node, found := skiplist.Find[pager.Address](pkArena, pk.Head, id)
	if !found {
		return false, nil
	}
	oldDataBlock := pkArena.node(node).DataBlock

	if err := db.deleteDocument(col, oldDataBlock); err != nil {
		return false, err
	}
	db.deleteSiblingChain(col, node)

	newDataBlock, err := db.writeDocument(col, doc)
	if err != nil {
		return false, err
	}
	if _, err := db.insertSiblingChain(col, doc, newDataBlock); err != nil {
		return false, err
	}
	return true, nil
}

// Upsert updates doc if a document with its _id already exists, or inserts
// it (synthesizing an _id via mode if needed) otherwise. It reports
// whether a new document was inserted.
func (db *DbFile) Upsert(collection string, doc *bson.Document, mode AutoID) (inserted bool, id bson.Value, err error) {
	if existing, ok := doc.Get(idIndexName); ok && !existing.IsNull() {
		if _, exists := db.getCollection(collection); exists {
			updated, err := db.Update(collection, doc)
			if err != nil {
				return false, bson.Null(), err
			}
			if updated {
				return false, existing, nil
			}
		}
	}
	id, err = db.Insert(collection, doc, mode)
	return true, id, err
}

// Delete removes the document with the given _id from collection,
// reporting whether one was found.
func (db *DbFile) Delete(collection string, id bson.Value) (bool, error) {
	col, ok := db.getCollection(collection)
	if !ok {
		return false, nil
	}
	pk := col.indexes[idIndexName]
	pkArena := indexArena{db: db, slot: pk.Slot}
	node, found := skiplist.Find[pager.Address](pkArena, pk.Head, id)
	if !found {
		return false, nil
	}
	dataBlock := pkArena.node(node).DataBlock
	if err := db.deleteDocument(col, dataBlock); err != nil {
		return false, err
	}
	db.deleteSiblingChain(col, node)
	return true, nil
}

// EnsureIndex creates a secondary index on collection if it doesn't
// already exist, then backfills it from every document already stored.
// "$._id"/"_id" are no-ops: the primary key index always exists. It
// reports whether an index was newly created: false on the identical-
// definition no-op path, true after a successful create.
func (db *DbFile) EnsureIndex(collection, name, expression string, unique bool) (bool, error) {
	if name == idIndexName || expression == idExtractorExpr {
		return false, nil
	}
	validateIndexName(name)
	if err := DefaultExtractor.Compile(expression); err != nil {
		return false, err
	}
	if !DefaultExtractor.IsIndexable(expression) {
		return false, newError(ErrExpressionParse, "expression %q is not indexable", expression)
	}
	if unique && !DefaultExtractor.IsScalar(expression) {
		return false, newError(ErrInvalidFieldType, "a unique index requires a scalar expression")
	}

	col, err := db.getOrCreateCollection(collection)
	if err != nil {
		return false, err
	}
	if existing, exists := col.indexes[name]; exists {
		if existing.Expression == expression && existing.Unique == unique {
			return false, nil
		}
		return false, newError(ErrIndexAlreadyExists, "index %q already exists with a different definition", name).WithDetail("index", name)
	}
	if err := db.createIndexLocked(col, name, expression, unique); err != nil {
		return false, err
	}
	idx := col.indexes[name]

	pk := col.indexes[idIndexName]
	pkArena := indexArena{db: db, slot: pk.Slot}
	cur := pkArena.Next(pk.Head, 0)
	for bson.Compare(pkArena.Key(cur), bson.Max()) != 0 {
		dataBlock := pkArena.node(cur).DataBlock
		doc, err := db.readDocument(dataBlock)
		if err != nil {
			return false, err
		}
		keys, err := db.extractIndexKeys(idx, doc)
		if err != nil {
			return false, err
		}
		for _, k := range keys {
			addr, err := db.insertIndexNode(col, idx, k, dataBlock)
			if err != nil {
				return false, err
			}
			// Splice the new node into the document's sibling chain right
			// after its PK node, so Update/Delete reach it.
			raw := indexArena{db: db}
			raw.setNextNode(addr, raw.node(cur).NextNode)
			raw.setNextNode(cur, addr)
		}
		cur = pkArena.Next(cur, 0)
	}
	db.log.Infof("ensured index %q (%s) on %q", name, expression, collection)
	return true, nil
}

// DropIndex removes a secondary index and every reference to it from the
// collection's sibling chains. The primary key index cannot be dropped.
func (db *DbFile) DropIndex(collection, name string) error {
	if name == idIndexName {
		return newError(ErrInvalidFieldType, "cannot drop the _id index")
	}
	col, ok := db.getCollection(collection)
	if !ok {
		return newError(ErrCollectionNotFound, "collection %q not found", collection).WithDetail("collection", collection)
	}
	idx, ok := col.indexes[name]
	if !ok {
		return newError(ErrIndexNotFound, "index %q not found", name).WithDetail("index", name)
	}

	db.unlinkIndexFromSiblingChains(col, idx.Slot)

	arena := indexArena{db: db, slot: idx.Slot}
	cur := arena.Next(idx.Head, 0)
	for bson.Compare(arena.Key(cur), bson.Max()) != 0 {
		next := arena.Next(cur, 0)
		skiplist.DeleteNode[pager.Address](arena, cur)
		pager.DeleteRecord(db.getPage(cur.PageID), cur.Slot)
		cur = next
	}
	delete(col.indexes, name)
	db.log.Infof("dropped index %q on %q", name, collection)
	return nil
}

// DropCollection removes collection from the catalog. Its pages are left
// resident (this format's scope excludes a page-level garbage collector,
// see SPEC_FULL.md Non-goals) and are not reclaimed: a subsequent
// FileWriter.Write still writes every page in db.pages, so they stay in the
// image, merely no longer referenced from the header page.
func (db *DbFile) DropCollection(collection string) error {
	if _, ok := db.collections[collection]; !ok {
		return newError(ErrCollectionNotFound, "collection %q not found", collection).WithDetail("collection", collection)
	}
	delete(db.collections, collection)
	db.log.Infof("dropped collection %q", collection)
	return nil
}

// RenameCollection renames a collection in the catalog.
func (db *DbFile) RenameCollection(oldName, newName string) error {
	if oldName == newName {
		return nil
	}
	col, ok := db.collections[oldName]
	if !ok {
		return newError(ErrCollectionNotFound, "collection %q not found", oldName).WithDetail("collection", oldName)
	}
	if _, exists := db.collections[newName]; exists {
		return newError(ErrCollectionNameExists, "collection %q already exists", newName).WithDetail("collection", newName)
	}
	delete(db.collections, oldName)
	col.Name = newName
	db.collections[newName] = col
	return nil
}

// GetByIndex looks up the single document whose key, under the named
// index, equals key.
func (db *DbFile) GetByIndex(collection, indexName string, key bson.Value) (*bson.Document, bool, error) {
	col, ok := db.getCollection(collection)
	if !ok {
		return nil, false, nil
	}
	idx, ok := col.indexes[indexName]
	if !ok {
		return nil, false, newError(ErrIndexNotFound, "index %q not found", indexName).WithDetail("index", indexName)
	}
	arena := indexArena{db: db, slot: idx.Slot}
	node, found := skiplist.Find[pager.Address](arena, idx.Head, key)
	if !found {
		return nil, false, nil
	}
	doc, err := db.readDocument(arena.node(node).DataBlock)
	if err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

// GetRangeIndexed returns every document whose key, under the named
// index, falls within [min, max], ascending or descending.
func (db *DbFile) GetRangeIndexed(collection, indexName string, min, max bson.Value, descending bool) ([]*bson.Document, error) {
	col, ok := db.getCollection(collection)
	if !ok {
		return nil, nil
	}
	idx, ok := col.indexes[indexName]
	if !ok {
		return nil, newError(ErrIndexNotFound, "index %q not found", indexName).WithDetail("index", indexName)
	}
	arena := indexArena{db: db, slot: idx.Slot}
	nodes := skiplist.FindRange[pager.Address](arena, idx.Head, min, max, descending)

	docs := make([]*bson.Document, 0, len(nodes))
	for _, n := range nodes {
		doc, err := db.readDocument(arena.node(n).DataBlock)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// GetAll returns every document in collection, in primary key order.
func (db *DbFile) GetAll(collection string) ([]*bson.Document, error) {
	return db.GetRangeIndexed(collection, idIndexName, bson.Min(), bson.Max(), false)
}
