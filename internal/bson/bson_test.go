package bson

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func TestDocumentCaseInsensitiveGet(t *testing.T) {
	d := NewDocument()
	d.Set("Name", String("Ada"))
	v, ok := d.Get("name")
	if !ok {
		t.Fatalf("expected case-insensitive hit")
	}
	s, _ := v.AsString()
	if s != "Ada" {
		t.Fatalf("got %q", s)
	}
	if d.Keys()[0] != "Name" {
		t.Fatalf("expected original casing preserved, got %q", d.Keys()[0])
	}
}

func TestDocumentDeleteShiftsIndex(t *testing.T) {
	d := NewDocument()
	d.Set("a", Int32(1))
	d.Set("b", Int32(2))
	d.Set("c", Int32(3))
	if !d.Delete("b") {
		t.Fatalf("expected delete to find key")
	}
	v, ok := d.Get("c")
	if !ok {
		t.Fatalf("expected c still present after delete")
	}
	n, _ := v.AsInt32()
	if n != 3 {
		t.Fatalf("got %d", n)
	}
	if d.Len() != 2 {
		t.Fatalf("expected len 2, got %d", d.Len())
	}
}

func TestValueRoundTrip(t *testing.T) {
	d := NewDocument()
	d.Set("_id", Int64(42))
	d.Set("name", String("hello"))
	d.Set("active", Boolean(true))
	d.Set("tags", Arr(NewArray(String("a"), String("b"))))
	d.Set("nested", Doc(NewDocument().Set("x", Int32(1))))

	buf := WriteValue(nil, Doc(d))
	got, n, err := ParseDocument(buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("consumed %d, want %d", n, len(buf))
	}
	v, ok := got.Get("name")
	if !ok {
		t.Fatalf("missing name")
	}
	s, _ := v.AsString()
	if s != "hello" {
		t.Fatalf("got %q", s)
	}
	idv, _ := got.Get("_id")
	id, _ := idv.AsInt64()
	if id != 42 {
		t.Fatalf("got id %d", id)
	}
}

func TestTotalOrderAcrossNumericTypes(t *testing.T) {
	if Compare(Int32(1), Int64(2)) >= 0 {
		t.Fatalf("expected 1 < 2")
	}
	if Compare(Double(1.5), Int32(1)) <= 0 {
		t.Fatalf("expected 1.5 > 1")
	}
	dec, _ := DecimalFromString("2.50")
	if Compare(Decimal(dec), Int32(2)) <= 0 {
		t.Fatalf("expected 2.50 > 2")
	}
}

func TestTotalOrderNaNIsLeastAndEqualToItself(t *testing.T) {
	nan := Double(math.NaN())
	if Compare(nan, Double(5.0)) >= 0 {
		t.Fatalf("NaN must sort below a normal double")
	}
	if Compare(Double(5.0), nan) <= 0 {
		t.Fatalf("a normal double must sort above NaN")
	}
	if Compare(nan, Int32(-1)) >= 0 {
		t.Fatalf("NaN must sort below every non-NaN number across types")
	}
	if Compare(nan, nan) != 0 {
		t.Fatalf("NaN must compare equal to itself")
	}
	if Compare(nan, Min()) <= 0 {
		t.Fatalf("MinValue must still sort below NaN")
	}
}

func TestTotalOrderSentinels(t *testing.T) {
	if Compare(Min(), Null()) >= 0 {
		t.Fatalf("MinValue must sort before Null")
	}
	if Compare(Max(), String("z")) <= 0 {
		t.Fatalf("MaxValue must sort after everything")
	}
}

func TestDocumentCompareIsFatal(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic comparing two documents")
		}
	}()
	Compare(Doc(NewDocument()), Doc(NewDocument()))
}

func TestDecimalByteRoundTrip(t *testing.T) {
	d, ok := DecimalFromString("-123.456")
	if !ok {
		t.Fatalf("parse failed")
	}
	b := d.Bytes()
	got := DecimalFromBytes(b)
	if got.Compare(d) != 0 {
		t.Fatalf("round-trip mismatch: %v vs %v", got, d)
	}
}

func TestDateTimeWireRoundTrip(t *testing.T) {
	dt := DateTimeFromUnixMillis(1700000000123)
	var buf [8]byte
	dt.WriteWire(buf[:])
	got, err := ReadDateTimeWire(buf[:])
	if err != nil {
		t.Fatalf("ReadDateTimeWire: %v", err)
	}
	if got.UnixMillis() != dt.UnixMillis() {
		t.Fatalf("got %d want %d", got.UnixMillis(), dt.UnixMillis())
	}
}

func TestDateTimeWireRejectsOutOfRangeTicks(t *testing.T) {
	// One millisecond past 9999-12-31 23:59:59.999 (the largest
	// representable DateTime), so the decoded tick count is MaxTicks+1.
	const msJustPastMax = 253402300800000
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(msJustPastMax))
	if _, err := ReadDateTimeWire(buf[:]); !errors.Is(err, ErrDateTimeRange) {
		t.Fatalf("expected ErrDateTimeRange, got %v", err)
	}
}
