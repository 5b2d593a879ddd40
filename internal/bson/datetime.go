package bson

import (
	"encoding/binary"
	"errors"
	"time"
)

// DateTime stores a moment as 100-nanosecond ticks since 0001-01-01 00:00:00
// UTC, matching .NET's DateTime.Ticks — the unit LiteDB keeps in memory.
// The on-disk wire format is a 64-bit little-endian Unix-epoch millisecond
// count (see wire.go), so every read/write crosses through UnixMillis.
type DateTime struct {
	ticks int64
}

const (
	ticksPerMillisecond = 10000
	ticksPerSecond      = ticksPerMillisecond * 1000
	// unixEpochTicks is 0001-01-01 -> 1970-01-01 in 100ns ticks.
	unixEpochTicks = 621355968000000000
	// MaxTicks is the largest representable DateTime (9999-12-31 23:59:59.9999999).
	MaxTicks = 3155378975999999999
)

// ErrDateTimeRange is returned by ReadDateTimeWire when the decoded tick
// count falls outside [0, MaxTicks] — a corrupt or crafted wire value that
// does not correspond to any representable DateTime.
var ErrDateTimeRange = errors.New("bson: datetime out of range")

// DateTimeFromTicks builds a DateTime from raw .NET-style ticks.
func DateTimeFromTicks(ticks int64) DateTime { return DateTime{ticks: ticks} }

// DateTimeFromUnixMillis builds a DateTime from the on-disk millisecond form.
func DateTimeFromUnixMillis(ms int64) DateTime {
	return DateTime{ticks: unixEpochTicks + ms*ticksPerMillisecond}
}

// DateTimeFromTime converts a time.Time, truncating to a whole 100ns tick.
func DateTimeFromTime(t time.Time) DateTime {
	ms := t.UnixMilli()
	sub := t.Nanosecond() % int(time.Millisecond) / 100
	return DateTime{ticks: unixEpochTicks + ms*ticksPerMillisecond + int64(sub)}
}

func (d DateTime) Ticks() int64 { return d.ticks }

// UnixMillis returns the on-disk wire value.
func (d DateTime) UnixMillis() int64 {
	return (d.ticks - unixEpochTicks) / ticksPerMillisecond
}

func (d DateTime) Time() time.Time {
	return time.UnixMilli(d.UnixMillis()).UTC()
}

func (d DateTime) Compare(o DateTime) int {
	switch {
	case d.ticks < o.ticks:
		return -1
	case d.ticks > o.ticks:
		return 1
	default:
		return 0
	}
}

// WriteWire appends the 8-byte little-endian Unix-millisecond wire form.
func (d DateTime) WriteWire(buf []byte) {
	binary.LittleEndian.PutUint64(buf, uint64(d.UnixMillis()))
}

// ReadDateTimeWire parses the 8-byte on-disk form, rejecting a decoded tick
// count outside [0, MaxTicks] with ErrDateTimeRange.
func ReadDateTimeWire(buf []byte) (DateTime, error) {
	d := DateTimeFromUnixMillis(int64(binary.LittleEndian.Uint64(buf)))
	if d.ticks < 0 || d.ticks > MaxTicks {
		return DateTime{}, ErrDateTimeRange
	}
	return d, nil
}
