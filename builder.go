package litedb

import "github.com/go-litedb/litedb/internal/bson"

// DocBuilder provides a fluent interface for constructing a bson.Document,
// the same chain-and-terminal-Build shape the teacher's SQL query builder
// used for statements — here applied to BSON values instead of SQL ASTs.
//
// Example:
//
//	doc := litedb.Doc().
//	       Set("Name", litedb.Str("Ada")).
//	       Set("Age", litedb.I32(36)).
//	       Build()
type DocBuilder struct {
	doc *bson.Document
}

// Doc starts a new document builder.
func Doc() *DocBuilder { return &DocBuilder{doc: bson.NewDocument()} }

// Set assigns a field, returning the builder for chaining.
func (b *DocBuilder) Set(field string, v Value) *DocBuilder {
	b.doc.Set(field, v)
	return b
}

// Build returns the constructed document.
func (b *DocBuilder) Build() *Document { return b.doc }

// ArrBuilder provides a fluent interface for constructing a bson.Array.
type ArrBuilder struct {
	arr *bson.Array
}

// Arr starts a new array builder, optionally seeded with initial items.
func Arr(items ...Value) *ArrBuilder { return &ArrBuilder{arr: bson.NewArray(items...)} }

// Append adds one value, returning the builder for chaining.
func (b *ArrBuilder) Append(v Value) *ArrBuilder {
	b.arr.Append(v)
	return b
}

// Build returns the constructed array.
func (b *ArrBuilder) Build() *Array { return b.arr }

// Value constructors, re-exported for callers building documents/arrays
// without importing internal/bson directly.
func Null() Value            { return bson.Null() }
func Min() Value              { return bson.Min() }
func Max() Value              { return bson.Max() }
func I32(v int32) Value       { return bson.Int32(v) }
func I64(v int64) Value       { return bson.Int64(v) }
func F64(v float64) Value     { return bson.Double(v) }
func Str(v string) Value      { return bson.String(v) }
func Bool(v bool) Value       { return bson.Boolean(v) }
func DocValue(d *Document) Value { return bson.Doc(d) }
func ArrValue(a *Array) Value { return bson.Arr(a) }
func BinValue(b []byte) Value { return bson.Binary(b) }
