package pager

import (
	"encoding/binary"
	"fmt"
)

// Header page (page 0) byte offsets, beyond the common 32-byte header.
const (
	hInfoOffset        = 32  // 27-byte magic string
	hFileVersionOffset = 59  // byte
	hFreeEmptyPageID   = 60  // uint32: head of the global empty-page free chain
	hLastPageID        = 64  // uint32: highest page id ever allocated
	hCreationTime      = 68  // int64 creation time in .NET-style ticks
	hPragmasOffset     = 76  // 32-byte pragma block, see pragmas.go
	hCollectionsOffset = 192 // 8000-byte collection name -> page id map
	CollectionsSize    = 8000
)

// HeaderInfo is the magic string identifying a LiteDB v8 file.
const HeaderInfo = "** This is a LiteDB file **"

// FileVersion is the format version this package reads and writes.
const FileVersion byte = 8

// MaxCollectionNameLength bounds a single entry in the collection map.
const MaxCollectionNameLength = 60

// WriteHeaderPage initializes a brand-new page 0.
func WriteHeaderPage(buf []byte, creationTime int64) {
	h := Header{PageID: 0, Type: PageTypeHeader, NextFreePosition: PageHeaderSize}
	h.Write(buf)
	copy(buf[hInfoOffset:hInfoOffset+len(HeaderInfo)], HeaderInfo)
	buf[hFileVersionOffset] = FileVersion
	binary.LittleEndian.PutUint32(buf[hFreeEmptyPageID:], invalidPageID)
	binary.LittleEndian.PutUint32(buf[hLastPageID:], 0)
	binary.LittleEndian.PutUint64(buf[hCreationTime:], uint64(creationTime))
	WriteDefaultPragmas(buf)
}

// ValidateHeaderPage checks the magic string and format version.
func ValidateHeaderPage(buf []byte) error {
	if len(buf) < PageSize {
		return fmt.Errorf("pager: header page too small (%d bytes)", len(buf))
	}
	got := string(buf[hInfoOffset : hInfoOffset+len(HeaderInfo)])
	if got != HeaderInfo {
		return fmt.Errorf("pager: not a LiteDB file (bad magic %q)", got)
	}
	if buf[hFileVersionOffset] != FileVersion {
		return fmt.Errorf("pager: unsupported file version %d, want %d", buf[hFileVersionOffset], FileVersion)
	}
	return nil
}

func FreeEmptyPageID(buf []byte) uint32 { return binary.LittleEndian.Uint32(buf[hFreeEmptyPageID:]) }
func SetFreeEmptyPageID(buf []byte, id uint32) {
	binary.LittleEndian.PutUint32(buf[hFreeEmptyPageID:], id)
}

func LastPageID(buf []byte) uint32 { return binary.LittleEndian.Uint32(buf[hLastPageID:]) }
func SetLastPageID(buf []byte, id uint32) {
	binary.LittleEndian.PutUint32(buf[hLastPageID:], id)
}

// CreationTicks and SetCreationTicks access the header page's creation
// timestamp, stored as raw .NET-style ticks (see bson.DateTime).
func CreationTicks(buf []byte) int64 {
	return int64(binary.LittleEndian.Uint64(buf[hCreationTime:]))
}

func SetCreationTicks(buf []byte, ticks int64) {
	binary.LittleEndian.PutUint64(buf[hCreationTime:], uint64(ticks))
}

// CollectionEntry is one (name, page id) pair in the header's collection map.
type CollectionEntry struct {
	Name   string
	PageID uint32
}

// WriteCollections serializes the collection name->page-id map into the
// header page's 8000-byte reserved region: a byte count, then for each
// entry a length-prefixed name and a uint32 page id.
func WriteCollections(buf []byte, entries []CollectionEntry) error {
	region := buf[hCollectionsOffset : hCollectionsOffset+CollectionsSize]
	for i := range region {
		region[i] = 0
	}
	pos := 1 // byte 0 reserved for count
	for _, e := range entries {
		if len(e.Name) > MaxCollectionNameLength {
			return fmt.Errorf("pager: collection name %q exceeds %d bytes", e.Name, MaxCollectionNameLength)
		}
		need := 1 + len(e.Name) + 4
		if pos+need > CollectionsSize {
			return fmt.Errorf("pager: collection map full, cannot add %q", e.Name)
		}
		region[pos] = byte(len(e.Name))
		pos++
		copy(region[pos:], e.Name)
		pos += len(e.Name)
		binary.LittleEndian.PutUint32(region[pos:], e.PageID)
		pos += 4
	}
	region[0] = byte(len(entries))
	return nil
}

// ReadCollections parses the collection name->page-id map.
func ReadCollections(buf []byte) []CollectionEntry {
	region := buf[hCollectionsOffset : hCollectionsOffset+CollectionsSize]
	count := int(region[0])
	entries := make([]CollectionEntry, 0, count)
	pos := 1
	for i := 0; i < count; i++ {
		n := int(region[pos])
		pos++
		name := string(region[pos : pos+n])
		pos += n
		id := binary.LittleEndian.Uint32(region[pos:])
		pos += 4
		entries = append(entries, CollectionEntry{Name: name, PageID: id})
	}
	return entries
}
