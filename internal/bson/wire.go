package bson

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Wire tags are the on-disk type markers, distinct from the internal Type
// used for total ordering (see value.go). These follow LiteDB's own BSON
// dialect: mostly the familiar MongoDB tag numbers, plus MinValue/MaxValue
// sentinels that MongoDB's BSON does not define.
const (
	wireMinValue = 0xFF // -1 as a signed byte
	wireDouble   = 1
	wireString   = 2
	wireDocument = 3
	wireArray    = 4
	wireBinary   = 5
	wireObjectID = 7
	wireBoolean  = 8
	wireDateTime = 9
	wireNull     = 10
	wireInt32    = 16
	wireInt64    = 18
	wireDecimal  = 19
	wireMaxValue = 0x7F // 127
)

const (
	binarySubtypeGeneric = 0
	binarySubtypeGuid    = 4
)

// WriteValue appends the wire encoding of v to buf and returns the result.
func WriteValue(buf []byte, v Value) []byte {
	switch v.typ {
	case TypeMinValue:
		return buf
	case TypeMaxValue:
		return buf
	case TypeNull:
		return buf
	case TypeInt32:
		return binary.LittleEndian.AppendUint32(buf, uint32(v.i32))
	case TypeInt64:
		return binary.LittleEndian.AppendUint64(buf, uint64(v.i64))
	case TypeDouble:
		return binary.LittleEndian.AppendUint64(buf, math.Float64bits(v.f64))
	case TypeDecimal:
		b := v.dec.Bytes()
		return append(buf, b[:]...)
	case TypeString:
		return writeWireString(buf, v.str)
	case TypeDocument:
		return writeDocumentBody(buf, v.doc)
	case TypeArray:
		return writeArrayBody(buf, v.arr)
	case TypeBinary:
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(v.bin)))
		buf = append(buf, binarySubtypeGeneric)
		return append(buf, v.bin...)
	case TypeObjectID:
		return append(buf, v.oid[:]...)
	case TypeGuid:
		b := v.guid.Bytes()
		buf = binary.LittleEndian.AppendUint32(buf, 16)
		buf = append(buf, binarySubtypeGuid)
		return append(buf, b[:]...)
	case TypeBoolean:
		if v.b {
			return append(buf, 1)
		}
		return append(buf, 0)
	case TypeDateTime:
		return binary.LittleEndian.AppendUint64(buf, uint64(v.dt.UnixMillis()))
	default:
		panic(fmt.Sprintf("bson: unknown type %v", v.typ))
	}
}

func writeWireString(buf []byte, s string) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s)+1))
	buf = append(buf, s...)
	return append(buf, 0)
}

// writeDocumentBody writes the length-prefixed, tag-keyed element sequence
// shared by top-level documents and embedded TypeDocument values.
func writeDocumentBody(buf []byte, d *Document) []byte {
	start := len(buf)
	buf = binary.LittleEndian.AppendUint32(buf, 0) // placeholder length
	d.Range(func(key string, v Value) {
		buf = append(buf, wireTagOf(v))
		buf = append(buf, key...)
		buf = append(buf, 0)
		buf = WriteValue(buf, v)
	})
	buf = append(buf, 0)
	binary.LittleEndian.PutUint32(buf[start:], uint32(len(buf)-start))
	return buf
}

// writeArrayBody writes a length-prefixed element sequence of tag and value
// only: unlike a document, no element keys ("0", "1", ...) are written, and
// parseTagged reads arrays back in the same keyless form.
func writeArrayBody(buf []byte, a *Array) []byte {
	start := len(buf)
	buf = binary.LittleEndian.AppendUint32(buf, 0)
	for _, v := range a.Items() {
		buf = append(buf, wireTagOf(v))
		buf = WriteValue(buf, v)
	}
	buf = append(buf, 0)
	binary.LittleEndian.PutUint32(buf[start:], uint32(len(buf)-start))
	return buf
}

func wireTagOf(v Value) byte {
	switch v.typ {
	case TypeMinValue:
		return wireMinValue
	case TypeMaxValue:
		return wireMaxValue
	case TypeNull:
		return wireNull
	case TypeInt32:
		return wireInt32
	case TypeInt64:
		return wireInt64
	case TypeDouble:
		return wireDouble
	case TypeDecimal:
		return wireDecimal
	case TypeString:
		return wireString
	case TypeDocument:
		return wireDocument
	case TypeArray:
		return wireArray
	case TypeBinary:
		return wireBinary
	case TypeObjectID:
		return wireObjectID
	case TypeGuid:
		return wireBinary
	case TypeBoolean:
		return wireBoolean
	case TypeDateTime:
		return wireDateTime
	default:
		panic(fmt.Sprintf("bson: unknown type %v", v.typ))
	}
}

// Length returns the number of bytes WriteValue(nil, v) would produce,
// without allocating the value itself.
func Length(v Value) int {
	switch v.typ {
	case TypeMinValue, TypeMaxValue, TypeNull:
		return 0
	case TypeInt32:
		return 4
	case TypeInt64, TypeDouble, TypeDateTime:
		return 8
	case TypeDecimal:
		return 16
	case TypeString:
		return 5 + len(v.str)
	case TypeObjectID:
		return 12
	case TypeGuid:
		return 4 + 1 + 16
	case TypeBinary:
		return 4 + 1 + len(v.bin)
	case TypeBoolean:
		return 1
	case TypeDocument:
		n := 5
		v.doc.Range(func(key string, e Value) {
			n += 1 + len(key) + 1 + Length(e)
		})
		return n
	case TypeArray:
		n := 5
		for _, e := range v.arr.Items() {
			n += 1 + Length(e)
		}
		return n
	default:
		panic(fmt.Sprintf("bson: unknown type %v", v.typ))
	}
}

// WireElementLength is Length(v) plus the tag byte that prefixes it
// wherever the value is stored as a document/array element.
func WireElementLength(v Value) int { return 1 + Length(v) }

// ParseDocument decodes a top-level document from buf, returning the value
// and the number of bytes consumed.
func ParseDocument(buf []byte) (*Document, int, error) {
	v, n, err := parseTagged(wireDocument, buf)
	if err != nil {
		return nil, 0, err
	}
	doc, _ := v.AsDocument()
	return doc, n, nil
}

func parseTagged(tag byte, buf []byte) (Value, int, error) {
	switch tag {
	case wireMinValue:
		return Min(), 0, nil
	case wireMaxValue:
		return Max(), 0, nil
	case wireNull:
		return Null(), 0, nil
	case wireInt32:
		if len(buf) < 4 {
			return Value{}, 0, errShort("int32")
		}
		return Int32(int32(binary.LittleEndian.Uint32(buf))), 4, nil
	case wireInt64:
		if len(buf) < 8 {
			return Value{}, 0, errShort("int64")
		}
		return Int64(int64(binary.LittleEndian.Uint64(buf))), 8, nil
	case wireDouble:
		if len(buf) < 8 {
			return Value{}, 0, errShort("double")
		}
		return Double(math.Float64frombits(binary.LittleEndian.Uint64(buf))), 8, nil
	case wireDecimal:
		if len(buf) < 16 {
			return Value{}, 0, errShort("decimal")
		}
		var raw [16]byte
		copy(raw[:], buf[:16])
		return Decimal(DecimalFromBytes(raw)), 16, nil
	case wireString:
		if len(buf) < 4 {
			return Value{}, 0, errShort("string length")
		}
		n := int(binary.LittleEndian.Uint32(buf))
		if n < 1 || len(buf) < 4+n {
			return Value{}, 0, errShort("string body")
		}
		s := string(buf[4 : 4+n-1])
		return String(s), 4 + n, nil
	case wireObjectID:
		if len(buf) < 12 {
			return Value{}, 0, errShort("objectId")
		}
		return ObjectIDValue(ObjectIDFromBytes(buf[:12])), 12, nil
	case wireBinary:
		if len(buf) < 5 {
			return Value{}, 0, errShort("binary header")
		}
		n := int(binary.LittleEndian.Uint32(buf))
		subtype := buf[4]
		if len(buf) < 5+n {
			return Value{}, 0, errShort("binary body")
		}
		body := buf[5 : 5+n]
		if subtype == binarySubtypeGuid && n == 16 {
			return GuidValue(GuidFromBytes(body)), 5 + n, nil
		}
		cp := append([]byte(nil), body...)
		return Binary(cp), 5 + n, nil
	case wireBoolean:
		if len(buf) < 1 {
			return Value{}, 0, errShort("bool")
		}
		return Boolean(buf[0] != 0), 1, nil
	case wireDateTime:
		if len(buf) < 8 {
			return Value{}, 0, errShort("datetime")
		}
		dt, err := ReadDateTimeWire(buf)
		if err != nil {
			return Value{}, 0, err
		}
		return DateTimeValue(dt), 8, nil
	case wireDocument:
		if len(buf) < 4 {
			return Value{}, 0, errShort("document length")
		}
		total := int(binary.LittleEndian.Uint32(buf))
		if total < 5 || len(buf) < total {
			return Value{}, 0, errShort("document body")
		}
		body := buf[4 : total-1]
		doc := NewDocument()
		pos := 0
		for pos < len(body) {
			tag := body[pos]
			pos++
			keyStart := pos
			for pos < len(body) && body[pos] != 0 {
				pos++
			}
			if pos >= len(body) {
				return Value{}, 0, errShort("document key")
			}
			key := string(body[keyStart:pos])
			pos++
			v, n, err := parseTagged(tag, body[pos:])
			if err != nil {
				return Value{}, 0, err
			}
			pos += n
			doc.Set(key, v)
		}
		return Doc(doc), total, nil
	case wireArray:
		if len(buf) < 4 {
			return Value{}, 0, errShort("array length")
		}
		total := int(binary.LittleEndian.Uint32(buf))
		if total < 5 || len(buf) < total {
			return Value{}, 0, errShort("array body")
		}
		body := buf[4 : total-1]
		arr := NewArray()
		pos := 0
		for pos < len(body) {
			tag := body[pos]
			pos++
			v, n, err := parseTagged(tag, body[pos:])
			if err != nil {
				return Value{}, 0, err
			}
			pos += n
			arr.Append(v)
		}
		return Arr(arr), total, nil
	default:
		return Value{}, 0, fmt.Errorf("bson: unknown wire tag 0x%02x", tag)
	}
}

func errShort(field string) error {
	return fmt.Errorf("bson: truncated %s", field)
}
