package pager

import "encoding/binary"

// AddressSize is the serialized size of a PageAddress.
const AddressSize = 5

// Address locates a single slot within a page: a 4-byte page id and a
// 1-byte slot index. EmptyAddress is the sentinel for "no such slot".
type Address struct {
	PageID uint32
	Slot   byte
}

// EmptyAddress is the LiteDB sentinel: page id 0xFFFFFFFF, slot 0xFF.
var EmptyAddress = Address{PageID: invalidPageID, Slot: 0xFF}

func (a Address) IsEmpty() bool { return a == EmptyAddress }

func (a Address) Write(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], a.PageID)
	buf[4] = a.Slot
}

func ReadAddress(buf []byte) Address {
	return Address{
		PageID: binary.LittleEndian.Uint32(buf[0:4]),
		Slot:   buf[4],
	}
}
