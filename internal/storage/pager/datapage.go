package pager

// Data-page free list: each collection keeps one data page id per bucket
// (cFreeDataPageList in collection.go), bucketed by how much free space
// that page currently has. A page moves to a fuller bucket as blocks are
// inserted and back toward an emptier one as they're deleted, so insert can
// find a page with enough room without scanning every page in the
// collection. The buckets are not linked lists: placing a page in a bucket
// replaces the page that was there, and the replaced page is no longer
// reachable from the free list, so its remaining space is not reused.
const dataFreeListBuckets = 5

var dataBucketThresholds = [4]int{
	(PageSize - PageHeaderSize) * 90 / 100,
	(PageSize - PageHeaderSize) * 75 / 100,
	(PageSize - PageHeaderSize) * 60 / 100,
	(PageSize - PageHeaderSize) * 30 / 100,
}

// DataFreeListSlot returns the bucket (0-4) a data page with freeBytes
// free space belongs in: bucket 0 is >=90% free, down to bucket 4 for
// anything below the 30% threshold.
func DataFreeListSlot(freeBytes int) int {
	for i, threshold := range dataBucketThresholds {
		if freeBytes >= threshold {
			return i
		}
	}
	return dataFreeListBuckets - 1
}

// MinimumDataFreeListSlot returns the first bucket guaranteed to hold a
// page with at least length bytes free — one bucket emptier (lower index,
// more free space) than the one length itself would land in, since a page
// merely landing in
// DataFreeListSlot(length)'s bucket might have exactly length-1 bytes free.
func MinimumDataFreeListSlot(length int) int {
	slot := DataFreeListSlot(length) - 1
	if slot < 0 {
		return 0
	}
	return slot
}

// Data block chain layout: within a data page's slotted record body, a
// block is [extend bool][next-block Address][payload]. A document larger
// than one block's payload is split across a singly-linked chain of
// blocks, each possibly on a different data page.
const (
	blockFixedSize  = 1 + AddressSize // extend flag + next-block address
	dataBlockExtend = 0
	dataBlockNext   = 1
)

// MaxBytesPerBlock is the largest payload a single data block can hold.
const MaxBytesPerBlock = PageSize - PageHeaderSize - slotEntrySize - blockFixedSize

// MaxBlocksPerDocument and MaxDocumentSize bound how large a single
// document may be: a chain of at most 2047 blocks.
const MaxBlocksPerDocument = 2047
const MaxDocumentSize = MaxBlocksPerDocument * MaxBytesPerBlock

// EncodeBlock serializes a data block: whether it extends a previous
// block, the address of the next block in the chain (EmptyAddress if this
// is the last), and the payload bytes.
func EncodeBlock(extend bool, next Address, payload []byte) []byte {
	buf := make([]byte, blockFixedSize+len(payload))
	if extend {
		buf[dataBlockExtend] = 1
	}
	next.Write(buf[dataBlockNext:])
	copy(buf[blockFixedSize:], payload)
	return buf
}

// DecodeBlock parses a data block's extend flag, next-block address, and
// payload (a view into buf, not a copy).
func DecodeBlock(buf []byte) (extend bool, next Address, payload []byte) {
	extend = buf[dataBlockExtend] != 0
	next = ReadAddress(buf[dataBlockNext:])
	payload = buf[blockFixedSize:]
	return
}
