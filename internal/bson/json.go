package bson

import (
	"fmt"
	"strconv"
	"strings"
)

// String renders a shallow, JSON-ish form of v for logging and test
// failure messages. It is not a wire format and is not guaranteed to
// round-trip; it mirrors the teacher's JSONMarshal/normalizeForJSON debug
// helper (internal/storage/json_helpers.go), adapted from arbitrary Go
// values to the bson.Value union.
func (v Value) String() string {
	var b strings.Builder
	writeJSON(&b, v)
	return b.String()
}

func writeJSON(b *strings.Builder, v Value) {
	switch v.typ {
	case TypeMinValue:
		b.WriteString(`"$minValue"`)
	case TypeMaxValue:
		b.WriteString(`"$maxValue"`)
	case TypeNull:
		b.WriteString("null")
	case TypeInt32:
		b.WriteString(strconv.FormatInt(int64(v.i32), 10))
	case TypeInt64:
		b.WriteString(strconv.FormatInt(v.i64, 10))
	case TypeDouble:
		b.WriteString(strconv.FormatFloat(v.f64, 'g', -1, 64))
	case TypeDecimal:
		b.WriteString(v.dec.Rat().RatString())
	case TypeString:
		b.WriteString(strconv.Quote(v.str))
	case TypeBoolean:
		b.WriteString(strconv.FormatBool(v.b))
	case TypeDateTime:
		b.WriteString(strconv.Quote(v.dt.Time().Format("2006-01-02T15:04:05.000Z")))
	case TypeObjectID:
		b.WriteString(strconv.Quote(v.oid.String()))
	case TypeGuid:
		b.WriteString(strconv.Quote(v.guid.String()))
	case TypeBinary:
		fmt.Fprintf(b, `"$binary(%d bytes)"`, len(v.bin))
	case TypeDocument:
		b.WriteByte('{')
		first := true
		v.doc.Range(func(key string, e Value) {
			if !first {
				b.WriteByte(',')
			}
			first = false
			b.WriteString(strconv.Quote(key))
			b.WriteByte(':')
			writeJSON(b, e)
		})
		b.WriteByte('}')
	case TypeArray:
		b.WriteByte('[')
		for i, e := range v.arr.Items() {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSON(b, e)
		}
		b.WriteByte(']')
	}
}
