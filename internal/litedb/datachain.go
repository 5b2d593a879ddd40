package litedb

import (
	"errors"

	"github.com/go-litedb/litedb/internal/bson"
	"github.com/go-litedb/litedb/internal/storage/pager"
)

// writeDocument serializes doc and stores it as a chain of data blocks,
// chunked to pager.MaxBytesPerBlock per block, allocating pages from the
// collection's free-list buckets before falling back to a brand-new page.
// It returns the address of the chain's first block.
func (db *DbFile) writeDocument(col *Collection, doc *bson.Document) (pager.Address, error) {
	body := bson.WriteValue(nil, bson.Doc(doc))
	if len(body) > pager.MaxDocumentSize {
		return pager.Address{}, newError(ErrDocumentTooLarge, "document of %d bytes exceeds max %d", len(body), pager.MaxDocumentSize)
	}

	var chunks [][]byte
	for len(body) > 0 {
		n := len(body)
		if n > pager.MaxBytesPerBlock {
			n = pager.MaxBytesPerBlock
		}
		chunks = append(chunks, body[:n])
		body = body[n:]
	}
	if len(chunks) == 0 {
		chunks = [][]byte{{}}
	}

	addrs := make([]pager.Address, len(chunks))
	for i := len(chunks) - 1; i >= 0; i-- {
		next := pager.EmptyAddress
		if i+1 < len(chunks) {
			next = addrs[i+1]
		}
		rec := pager.EncodeBlock(i > 0, next, chunks[i])
		addrs[i] = db.allocDataBlock(col, rec)
	}
	return addrs[0], nil
}

// allocDataBlock finds a data page with enough free space via the
// collection's fullness-bucketed free list, or allocates a fresh page,
// inserts rec, and returns its address.
func (db *DbFile) allocDataBlock(col *Collection, rec []byte) pager.Address {
	minBucket := pager.MinimumDataFreeListSlot(len(rec))
	for bucket := minBucket; bucket < 5; bucket++ {
		pageID := col.freeDataPages[bucket]
		if pageID == 0xFFFFFFFF {
			continue
		}
		buf := db.getPage(pageID)
		slot, err := pager.InsertRecord(buf, rec)
		if err != nil {
			continue
		}
		db.relinkDataPage(col, pageID, buf)
		return pager.Address{PageID: pageID, Slot: slot}
	}
	id, buf := db.newDataPage(col.pageID)
	slot, err := pager.InsertRecord(buf, rec)
	if err != nil {
		panic(err)
	}
	db.relinkDataPage(col, id, buf)
	return pager.Address{PageID: id, Slot: slot}
}

// relinkDataPage moves pageID to the free-list bucket matching its
// current free space. Each bucket holds a single page id, so placing
// pageID replaces whatever page the bucket held before.
func (db *DbFile) relinkDataPage(col *Collection, pageID uint32, buf []byte) {
	bucket := pager.DataFreeListSlot(pager.FreeBytes(buf))
	for i := range col.freeDataPages {
		if col.freeDataPages[i] == pageID {
			col.freeDataPages[i] = 0xFFFFFFFF
		}
	}
	col.freeDataPages[bucket] = pageID
}

// readDocument walks the block chain starting at head and parses the
// reassembled bytes as a document.
func (db *DbFile) readDocument(head pager.Address) (*bson.Document, error) {
	body, err := db.readDocumentBytes(head)
	if err != nil {
		return nil, err
	}
	doc, _, err := bson.ParseDocument(body)
	if err != nil {
		if errors.Is(err, bson.ErrDateTimeRange) {
			return nil, wrapError(ErrDateTimeRange, err, "parsing document at block %v", head)
		}
		return nil, wrapError(ErrInvalidBson, err, "parsing document at block %v", head)
	}
	return doc, nil
}

func (db *DbFile) readDocumentBytes(head pager.Address) ([]byte, error) {
	var body []byte
	cur := head
	for {
		if cur.IsEmpty() {
			break
		}
		buf := db.getPage(cur.PageID)
		rec, err := pager.GetRecord(buf, cur.Slot)
		if err != nil {
			return nil, wrapError(ErrBadBlockReference, err, "reading data block %v", cur)
		}
		_, next, payload := pager.DecodeBlock(rec)
		body = append(body, payload...)
		cur = next
	}
	return body, nil
}

// deleteDocument tombstones every block in the chain starting at head.
func (db *DbFile) deleteDocument(col *Collection, head pager.Address) error {
	cur := head
	for !cur.IsEmpty() {
		buf := db.getPage(cur.PageID)
		rec, err := pager.GetRecord(buf, cur.Slot)
		if err != nil {
			return wrapError(ErrBadBlockReference, err, "deleting data block %v", cur)
		}
		_, next, _ := pager.DecodeBlock(rec)
		if err := pager.DeleteRecord(buf, cur.Slot); err != nil {
			return err
		}
		db.relinkDataPage(col, cur.PageID, buf)
		cur = next
	}
	return nil
}
