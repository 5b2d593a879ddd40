package bson

import "github.com/google/uuid"

// Guid is a 16-byte .NET Guid, stored on disk as Binary subtype 4 (see
// wire.go). Generation is delegated to google/uuid (the teacher's own
// dependency, previously used for the same purpose in
// internal/storage/uuid_helpers.go) rather than hand-rolled.
type Guid [16]byte

// NewGuid generates a random (v4) Guid.
func NewGuid() Guid {
	return Guid(uuid.New())
}

func (g Guid) Bytes() [16]byte { return g }

func (g Guid) String() string { return uuid.UUID(g).String() }

func (g Guid) Compare(o Guid) int {
	for i := range g {
		if g[i] != o[i] {
			if g[i] < o[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func GuidFromBytes(b []byte) Guid {
	var g Guid
	copy(g[:], b)
	return g
}
