package pager

import (
	"encoding/binary"
	"fmt"
)

// Collection page byte offsets, beyond the common 32-byte header.
const (
	cFreeDataPageList = 32 // [5]uint32, one head per data-page fullness bucket (see datapage.go)
	cIndexesOffset    = 96 // byte count, then a sequence of IndexDescriptor entries
)

// MaxIndexesPerCollection is LiteDB's hard cap on indexes per collection
// (the descriptor count, _id index included, is stored in a single byte).
const MaxIndexesPerCollection = 255

// IndexDescriptor is one entry in a collection page's index list: the
// skip list's slot id, its name/expression, uniqueness, and head/tail
// sentinel addresses.
type IndexDescriptor struct {
	Slot              byte
	IndexType         byte // reserved, always 0 in this format
	Name              string
	Expression        string
	Unique            bool
	Head              Address
	Tail              Address
	FreeIndexPageList uint32
}

// descriptorLength returns the serialized size of d, matching LiteDB's
// get_length_static(name, expression).
func descriptorLength(name, expression string) int {
	const fixed = 1 + 1 + 1 + 1 + 1 + AddressSize + AddressSize + 1 + 4 // slot,type,namelen,exprlen,unique,head,tail,reserved,freelist
	return fixed + len(name) + len(expression)
}

func (d IndexDescriptor) length() int { return descriptorLength(d.Name, d.Expression) }

// WriteCollectionPage initializes a brand-new collection page.
func WriteCollectionPage(buf []byte, pageID uint32) {
	h := Header{PageID: pageID, Type: PageTypeCollection, NextFreePosition: PageHeaderSize}
	h.Write(buf)
	for i := 0; i < 5; i++ {
		binary.LittleEndian.PutUint32(buf[cFreeDataPageList+i*4:], invalidPageID)
	}
}

func FreeDataPageList(buf []byte, bucket int) uint32 {
	return binary.LittleEndian.Uint32(buf[cFreeDataPageList+bucket*4:])
}

func SetFreeDataPageList(buf []byte, bucket int, pageID uint32) {
	binary.LittleEndian.PutUint32(buf[cFreeDataPageList+bucket*4:], pageID)
}

// WriteIndexDescriptors serializes descs into the collection page's index
// region, rejecting a set that exceeds MaxIndexesPerCollection or the
// page's available space.
func WriteIndexDescriptors(buf []byte, descs []IndexDescriptor) error {
	if len(descs) > MaxIndexesPerCollection {
		return fmt.Errorf("pager: %d indexes exceeds max %d", len(descs), MaxIndexesPerCollection)
	}
	region := buf[cIndexesOffset:]
	pos := 1
	for _, d := range descs {
		n := d.length()
		if pos+n > len(region) {
			return fmt.Errorf("pager: index descriptors do not fit in collection page")
		}
		region[pos] = d.Slot
		region[pos+1] = d.IndexType
		region[pos+2] = byte(len(d.Name))
		copy(region[pos+3:], d.Name)
		pos += 3 + len(d.Name)
		region[pos] = byte(len(d.Expression))
		copy(region[pos+1:], d.Expression)
		pos += 1 + len(d.Expression)
		if d.Unique {
			region[pos] = 1
		} else {
			region[pos] = 0
		}
		pos++
		d.Head.Write(region[pos:])
		pos += AddressSize
		d.Tail.Write(region[pos:])
		pos += AddressSize
		region[pos] = 0 // reserved
		pos++
		binary.LittleEndian.PutUint32(region[pos:], d.FreeIndexPageList)
		pos += 4
	}
	region[0] = byte(len(descs))
	return nil
}

// ReadIndexDescriptors parses the collection page's index region.
func ReadIndexDescriptors(buf []byte) []IndexDescriptor {
	region := buf[cIndexesOffset:]
	count := int(region[0])
	out := make([]IndexDescriptor, 0, count)
	pos := 1
	for i := 0; i < count; i++ {
		var d IndexDescriptor
		d.Slot = region[pos]
		d.IndexType = region[pos+1]
		nameLen := int(region[pos+2])
		d.Name = string(region[pos+3 : pos+3+nameLen])
		pos += 3 + nameLen
		exprLen := int(region[pos])
		d.Expression = string(region[pos+1 : pos+1+exprLen])
		pos += 1 + exprLen
		d.Unique = region[pos] != 0
		pos++
		d.Head = ReadAddress(region[pos:])
		pos += AddressSize
		d.Tail = ReadAddress(region[pos:])
		pos += AddressSize
		pos++ // reserved
		d.FreeIndexPageList = binary.LittleEndian.Uint32(region[pos:])
		pos += 4
		out = append(out, d)
	}
	return out
}
