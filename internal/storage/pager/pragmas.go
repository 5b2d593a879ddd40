package pager

import (
	"encoding/binary"
	"math"
	"time"
)

// Pragma block byte offsets, inside the header page's 32-byte pragma
// region starting at hPragmasOffset (76).
const (
	pragmaUserVersion   = 76  // int32
	pragmaCollationLCID = 80  // int32
	pragmaCollationSort = 84  // int32
	pragmaTimeout       = 88  // int32, seconds
	pragmaUTCDate       = 96  // bool
	pragmaCheckpoint    = 97  // int32, pages between auto-checkpoints
	pragmaLimitSize     = 101 // int64, 0 on disk means "no limit"
)

// DefaultTimeout is the default engine lock timeout (unused by this
// single-threaded core beyond preserving the on-disk default).
const DefaultTimeout = 60 * time.Second

// Pragmas holds the header page's configuration block.
type Pragmas struct {
	UserVersion     int32
	CollationLCID   int32
	CollationSort   int32
	Timeout         time.Duration
	UTCDate         bool
	Checkpoint      int32
	LimitSize       int64 // math.MaxInt64 means unlimited
}

// DefaultPragmas returns LiteDB's documented defaults.
func DefaultPragmas() Pragmas {
	return Pragmas{
		CollationLCID: 127, // invariant culture
		CollationSort: 1,   // ignore case
		Timeout:       DefaultTimeout,
		Checkpoint:    1000,
		LimitSize:     math.MaxInt64,
	}
}

// WriteDefaultPragmas writes DefaultPragmas() into buf's header page.
func WriteDefaultPragmas(buf []byte) {
	WritePragmas(buf, DefaultPragmas())
}

// WritePragmas serializes p into buf's header page.
func WritePragmas(buf []byte, p Pragmas) {
	binary.LittleEndian.PutUint32(buf[pragmaUserVersion:], uint32(p.UserVersion))
	binary.LittleEndian.PutUint32(buf[pragmaCollationLCID:], uint32(p.CollationLCID))
	binary.LittleEndian.PutUint32(buf[pragmaCollationSort:], uint32(p.CollationSort))
	binary.LittleEndian.PutUint32(buf[pragmaTimeout:], uint32(p.Timeout/time.Second))
	if p.UTCDate {
		buf[pragmaUTCDate] = 1
	} else {
		buf[pragmaUTCDate] = 0
	}
	binary.LittleEndian.PutUint32(buf[pragmaCheckpoint:], uint32(p.Checkpoint))
	limit := p.LimitSize
	if limit == math.MaxInt64 {
		limit = 0
	}
	binary.LittleEndian.PutUint64(buf[pragmaLimitSize:], uint64(limit))
}

// ReadPragmas parses the pragma block out of buf's header page.
func ReadPragmas(buf []byte) Pragmas {
	limit := int64(binary.LittleEndian.Uint64(buf[pragmaLimitSize:]))
	if limit == 0 {
		limit = math.MaxInt64
	}
	return Pragmas{
		UserVersion:   int32(binary.LittleEndian.Uint32(buf[pragmaUserVersion:])),
		CollationLCID: int32(binary.LittleEndian.Uint32(buf[pragmaCollationLCID:])),
		CollationSort: int32(binary.LittleEndian.Uint32(buf[pragmaCollationSort:])),
		Timeout:       time.Duration(binary.LittleEndian.Uint32(buf[pragmaTimeout:])) * time.Second,
		UTCDate:       buf[pragmaUTCDate] != 0,
		Checkpoint:    int32(binary.LittleEndian.Uint32(buf[pragmaCheckpoint:])),
		LimitSize:     limit,
	}
}
