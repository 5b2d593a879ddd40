package bson

import (
	"encoding/binary"
	"math"
	"math/big"
)

// Decimal128 is the Microsoft/.NET System.Decimal layout LiteDB stores on
// disk: a 96-bit unsigned integer mantissa (lo/mid/hi) plus a flags word
// carrying the sign bit (31) and a base-10 scale (bits 16-23, 0-28). This is
// NOT IEEE-754 decimal128 — the raw 16 bytes must round-trip exactly, so
// arithmetic is performed on a *big.Rat view and re-quantized back into the
// same shape rather than reused as a general-purpose decimal type, mirroring
// the teacher's storage.DecimalAdd/AsBigRat split between wire bytes and
// working arithmetic.
type Decimal128 struct {
	lo, mid, hi uint32
	flags       uint32
}

const decimalScaleShift = 16
const decimalSignMask = uint32(1) << 31

// NewDecimal builds a Decimal128 from an unscaled 96-bit magnitude plus a
// base-10 scale and sign.
func NewDecimal(lo, mid, hi uint32, scale uint8, negative bool) Decimal128 {
	flags := uint32(scale) << decimalScaleShift
	if negative {
		flags |= decimalSignMask
	}
	return Decimal128{lo: lo, mid: mid, hi: hi, flags: flags}
}

// DecimalFromInt64 builds an exact, zero-scale Decimal128.
func DecimalFromInt64(v int64) Decimal128 {
	neg := v < 0
	u := uint64(v)
	if neg {
		u = uint64(-v)
	}
	return NewDecimal(uint32(u), uint32(u>>32), 0, 0, neg)
}

// DecimalFromString parses a base-10 literal ("-123.456") into a
// Decimal128, preserving the literal's scale.
func DecimalFromString(s string) (Decimal128, bool) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Decimal128{}, false
	}
	scale := 0
	if i := indexByte(s, '.'); i >= 0 {
		scale = len(s) - i - 1
	}
	return decimalFromRat(r, uint8(scale)), true
}

func indexByte(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}

func decimalFromRat(r *big.Rat, scale uint8) Decimal128 {
	neg := r.Sign() < 0
	scaled := new(big.Int).Abs(r.Num())
	denom := new(big.Int).Set(r.Denom())
	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(scale)), nil)
	scaled.Mul(scaled, pow)
	scaled.Quo(scaled, denom)

	var words [3]uint32
	tmp := new(big.Int).Set(scaled)
	mask := big.NewInt(1 << 32)
	for i := 0; i < 3; i++ {
		rem := new(big.Int)
		tmp.DivMod(tmp, mask, rem)
		words[i] = uint32(rem.Uint64())
	}
	return NewDecimal(words[0], words[1], words[2], scale, neg)
}

// Scale returns the base-10 scale (0-28).
func (d Decimal128) Scale() uint8 { return uint8((d.flags >> decimalScaleShift) & 0xFF) }

// Negative reports the sign bit.
func (d Decimal128) Negative() bool { return d.flags&decimalSignMask != 0 }

// Rat returns the exact rational value.
func (d Decimal128) Rat() *big.Rat {
	mag := new(big.Int).SetUint64(uint64(d.hi))
	mag.Lsh(mag, 32)
	mag.Or(mag, new(big.Int).SetUint64(uint64(d.mid)))
	mag.Lsh(mag, 32)
	mag.Or(mag, new(big.Int).SetUint64(uint64(d.lo)))
	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d.Scale())), nil)
	r := new(big.Rat).SetFrac(mag, pow)
	if d.Negative() {
		r.Neg(r)
	}
	return r
}

func (d Decimal128) Float64() float64 {
	f, _ := d.Rat().Float64()
	return f
}

func (d Decimal128) add(other Decimal128, op func(z, x, y *big.Rat) *big.Rat) Decimal128 {
	scale := d.Scale()
	if other.Scale() > scale {
		scale = other.Scale()
	}
	r := op(new(big.Rat), d.Rat(), other.Rat())
	return decimalFromRat(r, scale)
}

func (d Decimal128) Add(o Decimal128) Decimal128 {
	return d.add(o, (*big.Rat).Add)
}

func (d Decimal128) Sub(o Decimal128) Decimal128 {
	return d.add(o, (*big.Rat).Sub)
}

func (d Decimal128) Mul(o Decimal128) Decimal128 {
	scale := d.Scale() + o.Scale()
	if scale > 28 {
		scale = 28
	}
	r := new(big.Rat).Mul(d.Rat(), o.Rat())
	return decimalFromRat(r, scale)
}

func (d Decimal128) Div(o Decimal128) Decimal128 {
	scale := d.Scale()
	if o.Scale() > scale {
		scale = o.Scale()
	}
	r := new(big.Rat).Quo(d.Rat(), o.Rat())
	return decimalFromRat(r, scale)
}

// Compare implements the total order between two decimals of possibly
// different scales, by exact rational comparison.
func (d Decimal128) Compare(o Decimal128) int {
	return d.Rat().Cmp(o.Rat())
}

// Bytes returns the 16-byte on-disk layout: lo, mid, hi, flags, each LE.
func (d Decimal128) Bytes() [16]byte {
	var b [16]byte
	binary.LittleEndian.PutUint32(b[0:4], d.lo)
	binary.LittleEndian.PutUint32(b[4:8], d.mid)
	binary.LittleEndian.PutUint32(b[8:12], d.hi)
	binary.LittleEndian.PutUint32(b[12:16], d.flags)
	return b
}

// DecimalFromBytes parses the 16-byte on-disk layout.
func DecimalFromBytes(b [16]byte) Decimal128 {
	return Decimal128{
		lo:    binary.LittleEndian.Uint32(b[0:4]),
		mid:   binary.LittleEndian.Uint32(b[4:8]),
		hi:    binary.LittleEndian.Uint32(b[8:12]),
		flags: binary.LittleEndian.Uint32(b[12:16]),
	}
}

// DecimalFromFloat64 is a best-effort conversion used when comparing a
// Decimal to a Double in the total order (spec.md's cross-numeric-type
// comparison). The scale starts at 15 and is lowered as far as needed for
// the scaled magnitude to fit the 96-bit mantissa; a double of magnitude
// 2^96 or more fits at no scale, and compareNumbers compares such values on
// the Double path instead of calling this function.
func DecimalFromFloat64(f float64) Decimal128 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Decimal128{}
	}
	r := new(big.Rat).SetFloat64(f)
	if r == nil {
		return Decimal128{}
	}
	limit := new(big.Rat).SetInt(new(big.Int).Lsh(big.NewInt(1), 96))
	abs := new(big.Rat).Abs(r)
	scale := uint8(15)
	for scale > 0 {
		pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(scale)), nil)
		if new(big.Rat).Mul(abs, new(big.Rat).SetInt(pow)).Cmp(limit) < 0 {
			break
		}
		scale--
	}
	return decimalFromRat(r, scale)
}
