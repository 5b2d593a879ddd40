package bson

import "math"

// Compare implements the total order over Values used by the index skip
// lists: MinValue < everything < MaxValue, same-variant values compare by
// their natural order, numbers compare across Int32/Int64/Double/Decimal by
// converting through Decimal128, and any other cross-type comparison falls
// back to ordering by internal Type tag. This is a total order, not
// equality: NaN still sorts, and Document-to-Document comparison is a
// contract violation (the caller must never index unordered documents).
func Compare(a, b Value) int {
	if a.typ == TypeMinValue || b.typ == TypeMinValue {
		if a.typ == b.typ {
			return 0
		}
		if a.typ == TypeMinValue {
			return -1
		}
		return 1
	}
	if a.typ == TypeMaxValue || b.typ == TypeMaxValue {
		if a.typ == b.typ {
			return 0
		}
		if a.typ == TypeMaxValue {
			return 1
		}
		return -1
	}
	if a.IsNumber() && b.IsNumber() {
		return compareNumbers(a, b)
	}
	if a.typ != b.typ {
		if a.typ < b.typ {
			return -1
		}
		return 1
	}
	switch a.typ {
	case TypeNull:
		return 0
	case TypeString:
		return compareStrings(a.str, b.str)
	case TypeBoolean:
		return compareBool(a.b, b.b)
	case TypeDateTime:
		return a.dt.Compare(b.dt)
	case TypeObjectID:
		return a.oid.Compare(b.oid)
	case TypeGuid:
		return a.guid.Compare(b.guid)
	case TypeBinary:
		return compareBytes(a.bin, b.bin)
	case TypeArray:
		return compareArrays(a.arr, b.arr)
	case TypeDocument:
		panic("bson: Document values have no total order")
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	if a == b {
		return 0
	}
	if !a {
		return -1
	}
	return 1
}

// compareStrings orders strings case-insensitively, by their Unicode
// upper-cased forms (the invariant, ignore-case collation).
func compareStrings(a, b string) int {
	a, b = FoldKey(a), FoldKey(b)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareBytes(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

func compareArrays(a, b *Array) int {
	n := a.Len()
	if b.Len() < n {
		n = b.Len()
	}
	for i := 0; i < n; i++ {
		if c := Compare(a.Get(i), b.Get(i)); c != 0 {
			return c
		}
	}
	switch {
	case a.Len() < b.Len():
		return -1
	case a.Len() > b.Len():
		return 1
	default:
		return 0
	}
}

// compareNumbers converts both sides through Decimal128 so Int32/Int64/
// Double/Decimal compare on a single common scale, except when a Double
// operand is NaN, +/-Inf, or too large in magnitude (2^96 or more) to fit a
// Decimal128: those compare by their float sign/ordering directly rather
// than through a (lossy) Decimal conversion.
// NaN is special-cased ahead of the Inf check: it sorts strictly below
// every other number, same-type or cross-type, and equal only to itself —
// Go's `<`/`>` both report false for NaN, so the generic float compare
// below would otherwise fall through to "equal".
func compareNumbers(a, b Value) int {
	af, aIsFloat := a.AsDouble()
	bf, bIsFloat := b.AsDouble()
	aIsNaN := aIsFloat && math.IsNaN(af)
	bIsNaN := bIsFloat && math.IsNaN(bf)
	if aIsNaN || bIsNaN {
		switch {
		case aIsNaN && bIsNaN:
			return 0
		case aIsNaN:
			return -1
		default:
			return 1
		}
	}
	if aIsFloat && math.Abs(af) >= 0x1p96 || bIsFloat && math.Abs(bf) >= 0x1p96 {
		if !aIsFloat {
			af = numberToFloat(a)
		}
		if !bIsFloat {
			bf = numberToFloat(b)
		}
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	return numberToDecimal(a).Compare(numberToDecimal(b))
}

func numberToFloat(v Value) float64 {
	switch v.typ {
	case TypeInt32:
		return float64(v.i32)
	case TypeInt64:
		return float64(v.i64)
	case TypeDouble:
		return v.f64
	case TypeDecimal:
		return v.dec.Float64()
	}
	return 0
}

func numberToDecimal(v Value) Decimal128 {
	switch v.typ {
	case TypeInt32:
		return DecimalFromInt64(int64(v.i32))
	case TypeInt64:
		return DecimalFromInt64(v.i64)
	case TypeDouble:
		return DecimalFromFloat64(v.f64)
	case TypeDecimal:
		return v.dec
	}
	return Decimal128{}
}
