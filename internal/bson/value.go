// Package bson implements the LiteDB-flavored BSON value model: a tagged
// union of scalar and container types with a total order distinct from
// equality, and the byte-exact wire types (Decimal128, DateTime ticks,
// ObjectId, Guid) the on-disk format requires.
package bson

import "fmt"

// Type is the internal type tag used for variant dispatch and total
// ordering. It is distinct from the on-wire BsonTag values written by the
// codec (see wire.go).
type Type byte

const (
	TypeMinValue Type = iota
	TypeNull
	TypeInt32
	TypeInt64
	TypeDouble
	TypeDecimal
	TypeString
	TypeDocument
	TypeArray
	TypeBinary
	TypeObjectID
	TypeGuid
	TypeBoolean
	TypeDateTime
	TypeMaxValue
)

func (t Type) String() string {
	switch t {
	case TypeMinValue:
		return "MinValue"
	case TypeNull:
		return "Null"
	case TypeInt32:
		return "Int32"
	case TypeInt64:
		return "Int64"
	case TypeDouble:
		return "Double"
	case TypeDecimal:
		return "Decimal"
	case TypeString:
		return "String"
	case TypeDocument:
		return "Document"
	case TypeArray:
		return "Array"
	case TypeBinary:
		return "Binary"
	case TypeObjectID:
		return "ObjectId"
	case TypeGuid:
		return "Guid"
	case TypeBoolean:
		return "Boolean"
	case TypeDateTime:
		return "DateTime"
	case TypeMaxValue:
		return "MaxValue"
	default:
		return fmt.Sprintf("Type(%d)", t)
	}
}

// Value is a single BSON value. Exactly one of the typed fields is
// meaningful, selected by typ. The zero Value is MinValue (TypeMinValue is
// 0); use Null() for a null value.
type Value struct {
	typ  Type
	i32  int32
	i64  int64
	f64  float64
	dec  Decimal128
	str  string
	doc  *Document
	arr  *Array
	bin  []byte
	oid  ObjectID
	guid Guid
	b    bool
	dt   DateTime
}

func Min() Value { return Value{typ: TypeMinValue} }
func Max() Value { return Value{typ: TypeMaxValue} }
func Null() Value { return Value{typ: TypeNull} }

func Int32(v int32) Value { return Value{typ: TypeInt32, i32: v} }
func Int64(v int64) Value { return Value{typ: TypeInt64, i64: v} }
func Double(v float64) Value { return Value{typ: TypeDouble, f64: v} }
func Decimal(v Decimal128) Value { return Value{typ: TypeDecimal, dec: v} }
func String(v string) Value { return Value{typ: TypeString, str: v} }
func Doc(v *Document) Value { return Value{typ: TypeDocument, doc: v} }
func Arr(v *Array) Value { return Value{typ: TypeArray, arr: v} }
func Binary(v []byte) Value { return Value{typ: TypeBinary, bin: v} }
func ObjectIDValue(v ObjectID) Value { return Value{typ: TypeObjectID, oid: v} }
func GuidValue(v Guid) Value { return Value{typ: TypeGuid, guid: v} }
func Boolean(v bool) Value { return Value{typ: TypeBoolean, b: v} }
func DateTimeValue(v DateTime) Value { return Value{typ: TypeDateTime, dt: v} }

func (v Value) Type() Type { return v.typ }
func (v Value) IsNull() bool { return v.typ == TypeNull }
func (v Value) IsMinValue() bool { return v.typ == TypeMinValue }
func (v Value) IsMaxValue() bool { return v.typ == TypeMaxValue }

func (v Value) AsInt32() (int32, bool)   { return v.i32, v.typ == TypeInt32 }
func (v Value) AsInt64() (int64, bool)   { return v.i64, v.typ == TypeInt64 }
func (v Value) AsDouble() (float64, bool) { return v.f64, v.typ == TypeDouble }
func (v Value) AsDecimal() (Decimal128, bool) { return v.dec, v.typ == TypeDecimal }
func (v Value) AsString() (string, bool) { return v.str, v.typ == TypeString }
func (v Value) AsDocument() (*Document, bool) { return v.doc, v.typ == TypeDocument }
func (v Value) AsArray() (*Array, bool) { return v.arr, v.typ == TypeArray }
func (v Value) AsBinary() ([]byte, bool) { return v.bin, v.typ == TypeBinary }
func (v Value) AsObjectID() (ObjectID, bool) { return v.oid, v.typ == TypeObjectID }
func (v Value) AsGuid() (Guid, bool) { return v.guid, v.typ == TypeGuid }
func (v Value) AsBoolean() (bool, bool) { return v.b, v.typ == TypeBoolean }
func (v Value) AsDateTime() (DateTime, bool) { return v.dt, v.typ == TypeDateTime }

// IsNumber reports whether the value participates in cross-numeric-type
// comparison (Int32, Int64, Double, Decimal).
func (v Value) IsNumber() bool {
	switch v.typ {
	case TypeInt32, TypeInt64, TypeDouble, TypeDecimal:
		return true
	default:
		return false
	}
}

// Document is an ordered, case-insensitive string-keyed map of Values.
// Insertion order is preserved for serialization; lookup is case-insensitive
// per the collation rules of spec.md §3.1.
type Document struct {
	keys   []string // original casing, insertion order
	folded []string // case-folded keys, parallel to keys
	vals   []Value
	index  *caseIndex // folded key -> position in keys/vals
}

func NewDocument() *Document {
	return &Document{index: newCaseIndex()}
}

// Set inserts or replaces the value for key, preserving the original
// casing of the first insertion.
func (d *Document) Set(key string, v Value) *Document {
	fk := FoldKey(key)
	if i, ok := d.index.get(fk); ok {
		d.vals[i] = v
		return d
	}
	d.index.put(fk, len(d.keys))
	d.keys = append(d.keys, key)
	d.folded = append(d.folded, fk)
	d.vals = append(d.vals, v)
	return d
}

// Get looks up key case-insensitively.
func (d *Document) Get(key string) (Value, bool) {
	if d == nil {
		return Null(), false
	}
	i, ok := d.index.get(FoldKey(key))
	if !ok {
		return Null(), false
	}
	return d.vals[i], true
}

// Delete removes key if present, returning whether it was found.
func (d *Document) Delete(key string) bool {
	fk := FoldKey(key)
	i, ok := d.index.get(fk)
	if !ok {
		return false
	}
	d.keys = append(d.keys[:i], d.keys[i+1:]...)
	d.folded = append(d.folded[:i], d.folded[i+1:]...)
	d.vals = append(d.vals[:i], d.vals[i+1:]...)
	d.index.remove(fk)
	d.index.shiftDown(i)
	return true
}

// Len returns the number of keys in the document.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Keys returns the document's keys in insertion order, original casing.
func (d *Document) Keys() []string { return d.keys }

// Range calls fn for every key/value pair in insertion order.
func (d *Document) Range(fn func(key string, v Value)) {
	if d == nil {
		return
	}
	for i, k := range d.keys {
		fn(k, d.vals[i])
	}
}

// Array is an ordered sequence of Values.
type Array struct {
	items []Value
}

func NewArray(items ...Value) *Array { return &Array{items: items} }

func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.items)
}

func (a *Array) Get(i int) Value { return a.items[i] }

func (a *Array) Items() []Value { return a.items }

func (a *Array) Append(v Value) *Array {
	a.items = append(a.items, v)
	return a
}
