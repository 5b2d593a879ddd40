package pager

import "fmt"

// MaxIndexLength is the free-space threshold above which an index page is
// considered "has room" — unlike data pages' five fullness buckets, index
// pages use a single binary free/full distinction (index nodes are small
// and fairly uniform in size, so finer bucketing isn't worth it).
const MaxIndexLength = 1400

// IndexFreeListSlot returns 0 ("has room for another node") when freeBytes
// is at least MaxIndexLength, else 1 ("effectively full").
func IndexFreeListSlot(freeBytes int) int {
	if freeBytes >= MaxIndexLength {
		return 0
	}
	return 1
}

// MaxLevel is the tallest a skip list node may grow (level 1-32).
const MaxLevel = 32

// MaxIndexKeyLength bounds the wire-encoded size of an indexed key.
const MaxIndexKeyLength = 1023

// Index node fixed-header byte offsets, within the node's slotted record.
const (
	nSlot      = 0 // byte: which collection index this node belongs to
	nLevels    = 1 // byte: number of skip-list levels (1-32)
	nDataBlock = 2 // Address: the document's first data block
	nNextNode  = 7 // Address: next node in this document's sibling chain (rooted at the PK node)
	nFixedSize = 12
)

// EncodeIndexNode serializes a node's fixed header, its per-level
// prev/next Address pairs, and its indexed key's wire bytes.
func EncodeIndexNode(slot byte, levels byte, dataBlock, nextNode Address, prevNext []Address, key []byte) ([]byte, error) {
	if int(levels) < 1 || int(levels) > MaxLevel {
		return nil, fmt.Errorf("pager: index node levels %d out of range [1,%d]", levels, MaxLevel)
	}
	if len(prevNext) != int(levels)*2 {
		return nil, fmt.Errorf("pager: expected %d prev/next addresses, got %d", int(levels)*2, len(prevNext))
	}
	if len(key) > MaxIndexKeyLength {
		return nil, fmt.Errorf("pager: index key length %d exceeds max %d", len(key), MaxIndexKeyLength)
	}
	keyPtr := calcKeyPtr(levels)
	buf := make([]byte, keyPtr+len(key))
	buf[nSlot] = slot
	buf[nLevels] = levels
	dataBlock.Write(buf[nDataBlock:])
	nextNode.Write(buf[nNextNode:])
	for i, a := range prevNext {
		a.Write(buf[nFixedSize+i*AddressSize:])
	}
	copy(buf[keyPtr:], key)
	return buf, nil
}

// calcKeyPtr returns the byte offset where the key begins: past the fixed
// header and the levels*2 prev/next addresses.
func calcKeyPtr(levels byte) int {
	return nFixedSize + int(levels)*AddressSize*2
}

// DecodedIndexNode is the parsed form of EncodeIndexNode's output.
type DecodedIndexNode struct {
	Slot      byte
	Levels    byte
	DataBlock Address
	NextNode  Address
	PrevNext  []Address // length Levels*2: [prev0,next0,prev1,next1,...]
	Key       []byte
}

func DecodeIndexNode(buf []byte) DecodedIndexNode {
	levels := buf[nLevels]
	prevNext := make([]Address, int(levels)*2)
	for i := range prevNext {
		prevNext[i] = ReadAddress(buf[nFixedSize+i*AddressSize:])
	}
	keyPtr := calcKeyPtr(levels)
	key := append([]byte(nil), buf[keyPtr:]...)
	return DecodedIndexNode{
		Slot:      buf[nSlot],
		Levels:    levels,
		DataBlock: ReadAddress(buf[nDataBlock:]),
		NextNode:  ReadAddress(buf[nNextNode:]),
		PrevNext:  prevNext,
		Key:       key,
	}
}

// Prev returns the node's predecessor address at level.
func (n DecodedIndexNode) Prev(level int) Address { return n.PrevNext[level*2] }

// Next returns the node's successor address at level.
func (n DecodedIndexNode) Next(level int) Address { return n.PrevNext[level*2+1] }

func (n DecodedIndexNode) SetPrev(level int, a Address) { n.PrevNext[level*2] = a }
func (n DecodedIndexNode) SetNext(level int, a Address) { n.PrevNext[level*2+1] = a }
