package litedb

import (
	"strings"

	"github.com/go-litedb/litedb/internal/bson"
)

// idIndexName is the name reserved for the primary key index every
// collection is created with.
const idIndexName = "_id"
const idExtractorExpr = "$._id"

// IndexKeyExtractor is the collaborator interface between an index and the
// (explicitly out of scope) BSON expression compiler: it turns a document
// into the zero or more key values that should be indexed for it. Only the
// two trivial extractors below are implemented here; a real expression
// compiler plugs in by implementing this same interface.
type IndexKeyExtractor interface {
	// Compile validates expression syntax, returning an error the caller
	// surfaces as ErrExpressionParse.
	Compile(expression string) error
	// Extract returns the indexable key(s) expression selects from doc.
	// Most expressions return exactly one value; a path through an array
	// can return several.
	Extract(expression string, doc *bson.Document) ([]bson.Value, error)
	// IsIndexable reports whether expression is a fixed single-field path
	// (required for ensure_index, since a computed/aggregate expression
	// cannot be maintained incrementally).
	IsIndexable(expression string) bool
	// IsScalar reports whether expression always yields at most one key
	// per document (required for a unique index).
	IsScalar(expression string) bool
}

// defaultExtractor implements IndexKeyExtractor for "$._id" and bare or
// dotted field paths ("Field", "$.Field.Sub") — enough to exercise
// ensure_index against non-primary-key fields without the expression
// compiler this format's scope excludes.
type defaultExtractor struct{}

// DefaultExtractor is the IndexKeyExtractor used when none is supplied.
var DefaultExtractor IndexKeyExtractor = defaultExtractor{}

func (defaultExtractor) Compile(expression string) error {
	if _, err := pathSegments(expression); err != nil {
		return wrapError(ErrExpressionParse, err, "invalid index expression %q", expression)
	}
	return nil
}

func (defaultExtractor) Extract(expression string, doc *bson.Document) ([]bson.Value, error) {
	segs, err := pathSegments(expression)
	if err != nil {
		return nil, wrapError(ErrExpressionEval, err, "invalid index expression %q", expression)
	}
	v := bson.Doc(doc)
	for _, seg := range segs {
		d, ok := v.AsDocument()
		if !ok {
			return nil, nil
		}
		next, ok := d.Get(seg)
		if !ok {
			return nil, nil
		}
		v = next
	}
	return []bson.Value{v}, nil
}

func (defaultExtractor) IsIndexable(expression string) bool {
	_, err := pathSegments(expression)
	return err == nil
}

func (defaultExtractor) IsScalar(string) bool { return true }

func pathSegments(expression string) ([]string, error) {
	expr := expression
	if strings.HasPrefix(expr, "$.") {
		expr = expr[2:]
	} else if strings.HasPrefix(expr, "$") {
		expr = expr[1:]
	}
	if expr == "" {
		return nil, newError(ErrExpressionParse, "empty index expression")
	}
	return strings.Split(expr, "."), nil
}
