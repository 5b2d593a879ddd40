package litedb

import (
	"github.com/go-litedb/litedb/internal/bson"
)

// AutoID selects how Insert synthesizes a missing _id.
type AutoID int

const (
	AutoObjectID AutoID = iota
	AutoGuid
	AutoInt32
	AutoInt64
)

// synthesizeID generates a fresh _id value per mode, seeding the Int32/
// Int64 sequence from the collection's current highest _id the first time
// it's needed (there is no cached "last id" page field in this format, so
// it is derived on demand, same as get_last_id in original_source's
// sequence.rs).
func (db *DbFile) synthesizeID(col *Collection, mode AutoID) bson.Value {
	switch mode {
	case AutoGuid:
		return bson.GuidValue(bson.NewGuid())
	case AutoInt32:
		return bson.Int32(int32(db.nextSequence(col)))
	case AutoInt64:
		return bson.Int64(db.nextSequence(col))
	default:
		return bson.ObjectIDValue(bson.NewObjectID())
	}
}

func (db *DbFile) nextSequence(col *Collection) int64 {
	if !col.lastAutoSeeded {
		col.lastAutoInt64 = db.seedSequence(col)
		col.lastAutoSeeded = true
	}
	col.lastAutoInt64++
	return col.lastAutoInt64
}

// seedSequence reads the predecessor of the _id index's MaxValue sentinel
// (the current largest primary key, if any) and returns its integer value,
// or 0 for an empty collection or a non-integer key scheme.
func (db *DbFile) seedSequence(col *Collection) int64 {
	pk := col.indexes[idIndexName]
	arena := indexArena{db: db, slot: pk.Slot}
	last := arena.Prev(pk.Tail, 0)
	if last == pk.Head {
		return 0
	}
	key := arena.Key(last)
	if n, ok := key.AsInt64(); ok {
		return n
	}
	if n, ok := key.AsInt32(); ok {
		return int64(n)
	}
	return 0
}
