package bson

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"os"
	"sync/atomic"
	"time"
)

// ObjectID is LiteDB's 12-byte identifier: a 4-byte Unix-second timestamp,
// a 5-byte machine+process identifier, and a 3-byte per-process counter.
// This mirrors MongoDB's ObjectId layout; it predates RFC 9562 and is not a
// UUID, so it is hand-rolled rather than built on google/uuid (that library
// backs Guid instead, see guid.go).
type ObjectID [12]byte

var (
	objectIDMachine  [5]byte
	objectIDCounter  uint32
)

func init() {
	var b [5]byte
	if _, err := rand.Read(b[:3]); err == nil {
		copy(objectIDMachine[:3], b[:3])
	}
	pid := os.Getpid()
	objectIDMachine[3] = byte(pid >> 8)
	objectIDMachine[4] = byte(pid)
	var seed [4]byte
	rand.Read(seed[:])
	objectIDCounter = binary.BigEndian.Uint32(seed[:]) & 0x00FFFFFF
}

// NewObjectID generates a fresh id using the current time, a process-wide
// machine/pid component, and an atomically incrementing counter.
func NewObjectID() ObjectID {
	var id ObjectID
	binary.BigEndian.PutUint32(id[0:4], uint32(time.Now().Unix()))
	copy(id[4:9], objectIDMachine[:])
	c := atomic.AddUint32(&objectIDCounter, 1) & 0x00FFFFFF
	id[9] = byte(c >> 16)
	id[10] = byte(c >> 8)
	id[11] = byte(c)
	return id
}

func (id ObjectID) Bytes() [12]byte { return id }

func (id ObjectID) String() string { return hex.EncodeToString(id[:]) }

func (id ObjectID) Compare(o ObjectID) int {
	for i := range id {
		if id[i] != o[i] {
			if id[i] < o[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func ObjectIDFromBytes(b []byte) ObjectID {
	var id ObjectID
	copy(id[:], b)
	return id
}
