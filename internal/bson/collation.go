package bson

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// foldCaser implements LiteDB's invariant-culture, case-insensitive key
// comparison: Unicode upper-casing rather than a byte-wise ASCII fold, so
// keys like "café" and "CAFÉ" collide the same way they would on .NET's
// InvariantCulture comparer.
var foldCaser = cases.Upper(language.Und)

// FoldKey returns the case-folded form of a document key, used for
// case-insensitive lookup and hashing. The original string is preserved
// separately for serialization.
func FoldKey(key string) string {
	return foldCaser.String(key)
}
