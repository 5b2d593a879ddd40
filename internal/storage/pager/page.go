// Package pager implements the LiteDB v8 on-disk page layout: the common
// 32-byte page header, the footer-growing slotted record directory, and the
// header/collection/index/data page bodies built on top of it. Every
// function here operates on a plain page-sized []byte buffer rather than an
// *os.File — the engine keeps the whole database in memory (spec scope is a
// single-threaded, synchronous, transaction-free core); the FileParser/
// FileWriter layer above this package also works on byte slices, and only
// the root package's Open/Save touch actual file I/O.
package pager

import (
	"encoding/binary"
	"fmt"
)

// PageSize is the fixed page size of the LiteDB v8 format. Unlike the
// teacher's pager (which supports 4 KiB-64 KiB pages), LiteDB v8 hardcodes
// 8 KiB pages — there is no page-size field to read.
const PageSize = 8192

// PageHeaderSize is the size of the common header present on every page.
const PageHeaderSize = 32

// PageType identifies the kind of page.
type PageType byte

const (
	PageTypeEmpty      PageType = 0
	PageTypeHeader     PageType = 1
	PageTypeCollection PageType = 2
	PageTypeIndex      PageType = 3
	PageTypeData       PageType = 4
)

func (t PageType) String() string {
	switch t {
	case PageTypeEmpty:
		return "Empty"
	case PageTypeHeader:
		return "Header"
	case PageTypeCollection:
		return "Collection"
	case PageTypeIndex:
		return "Index"
	case PageTypeData:
		return "Data"
	default:
		return fmt.Sprintf("PageType(%d)", t)
	}
}

// Common page header byte offsets, relative to the start of the page.
const (
	pPageID             = 0  // uint32
	pPageType           = 4  // byte
	pPrevPageID         = 5  // uint32
	pNextPageID         = 9  // uint32
	pInitialSlot        = 13 // byte: lowest slot index ever used, for slot-id reuse heuristics
	pTransactionID      = 14 // uint32: unused outside the out-of-scope WAL layer, kept for byte-layout fidelity
	pIsConfirmed        = 18 // byte: unused outside the out-of-scope WAL layer
	pColID              = 19 // uint32: owning collection's page id
	pItemsCount         = 23 // byte: live slot count
	pUsedBytes          = 24 // uint16: bytes occupied by live records
	pFragmentedBytes    = 26 // uint16: bytes lost to deleted/resized records awaiting defragment
	pNextFreePosition   = 28 // uint16: cursor for the next contiguous append
	pHighestIndex       = 30 // byte: highest slot index currently in use
)

const invalidPageID = 0xFFFFFFFF

// Header is the parsed common page header.
type Header struct {
	PageID           uint32
	Type             PageType
	PrevPageID       uint32
	NextPageID       uint32
	InitialSlot      byte
	ColID            uint32
	ItemsCount       byte
	UsedBytes        uint16
	FragmentedBytes  uint16
	NextFreePosition uint16
	HighestIndex     byte
}

// NewPage allocates a zeroed page buffer and writes a fresh common header
// into it.
func NewPage(pageID uint32, typ PageType) []byte {
	buf := make([]byte, PageSize)
	h := Header{
		PageID:           pageID,
		Type:             typ,
		PrevPageID:       invalidPageID,
		NextPageID:       invalidPageID,
		NextFreePosition: PageHeaderSize,
	}
	h.Write(buf)
	return buf
}

// Write serializes h into the first PageHeaderSize bytes of buf.
func (h Header) Write(buf []byte) {
	binary.LittleEndian.PutUint32(buf[pPageID:], h.PageID)
	buf[pPageType] = byte(h.Type)
	binary.LittleEndian.PutUint32(buf[pPrevPageID:], h.PrevPageID)
	binary.LittleEndian.PutUint32(buf[pNextPageID:], h.NextPageID)
	buf[pInitialSlot] = h.InitialSlot
	binary.LittleEndian.PutUint32(buf[pTransactionID:], 0)
	buf[pIsConfirmed] = 1
	binary.LittleEndian.PutUint32(buf[pColID:], h.ColID)
	buf[pItemsCount] = h.ItemsCount
	binary.LittleEndian.PutUint16(buf[pUsedBytes:], h.UsedBytes)
	binary.LittleEndian.PutUint16(buf[pFragmentedBytes:], h.FragmentedBytes)
	binary.LittleEndian.PutUint16(buf[pNextFreePosition:], h.NextFreePosition)
	buf[pHighestIndex] = h.HighestIndex
}

// ReadHeader parses the common header out of buf.
func ReadHeader(buf []byte) Header {
	return Header{
		PageID:           binary.LittleEndian.Uint32(buf[pPageID:]),
		Type:             PageType(buf[pPageType]),
		PrevPageID:       binary.LittleEndian.Uint32(buf[pPrevPageID:]),
		NextPageID:       binary.LittleEndian.Uint32(buf[pNextPageID:]),
		InitialSlot:      buf[pInitialSlot],
		ColID:            binary.LittleEndian.Uint32(buf[pColID:]),
		ItemsCount:       buf[pItemsCount],
		UsedBytes:        binary.LittleEndian.Uint16(buf[pUsedBytes:]),
		FragmentedBytes:  binary.LittleEndian.Uint16(buf[pFragmentedBytes:]),
		NextFreePosition: binary.LittleEndian.Uint16(buf[pNextFreePosition:]),
		HighestIndex:     buf[pHighestIndex],
	}
}

// FreeBytes returns the space available for new records on the page:
// whatever lies between the append cursor and the slot footer, plus bytes
// reclaimable by a defragment.
func FreeBytes(buf []byte) int {
	h := ReadHeader(buf)
	footer := PageSize
	if h.ItemsCount > 0 || h.HighestIndex > 0 {
		footer -= (int(h.HighestIndex) + 1) * slotEntrySize
	}
	return footer - int(h.NextFreePosition) + int(h.FragmentedBytes)
}
