// Package litedb is the public entry point for an embedded, single-file
// document database binary-compatible with the LiteDB v8 on-disk format:
// BSON documents, a skip-list secondary-index engine, and a collection
// CRUD surface, with no transactions, WAL, or network layer (see
// SPEC_FULL.md for the full scope).
package litedb

import (
	"os"

	"github.com/go-litedb/litedb/internal/bson"
	core "github.com/go-litedb/litedb/internal/litedb"
	"github.com/go-litedb/litedb/internal/storage/pager"
)

// Re-exported types so callers never need to import the internal packages
// directly.
type (
	DbFile            = core.DbFile
	Collection        = core.Collection
	IndexMeta         = core.IndexMeta
	Option            = core.Option
	Logger            = core.Logger
	ZapLogger         = core.ZapLogger
	AutoID            = core.AutoID
	ErrorCode         = core.ErrorCode
	Error             = core.Error
	IndexKeyExtractor = core.IndexKeyExtractor
	Pragmas           = pager.Pragmas
	Value             = bson.Value
	Document          = bson.Document
	Array             = bson.Array
)

const (
	AutoObjectID = core.AutoObjectID
	AutoGuid     = core.AutoGuid
	AutoInt32    = core.AutoInt32
	AutoInt64    = core.AutoInt64
)

const (
	ErrInvalidDatabase      = core.ErrInvalidDatabase
	ErrBadPageID            = core.ErrBadPageID
	ErrBadPageType          = core.ErrBadPageType
	ErrBadBlockReference    = core.ErrBadBlockReference
	ErrInvalidBson          = core.ErrInvalidBson
	ErrDateTimeRange        = core.ErrDateTimeRange
	ErrDocumentTooLarge     = core.ErrDocumentTooLarge
	ErrInvalidIndexKeyType  = core.ErrInvalidIndexKeyType
	ErrIndexKeySizeExceeded = core.ErrIndexKeySizeExceeded
	ErrDuplicatedIndexKey   = core.ErrDuplicatedIndexKey
	ErrIndexAlreadyExists   = core.ErrIndexAlreadyExists
	ErrInvalidFieldType     = core.ErrInvalidFieldType
	ErrExpressionParse      = core.ErrExpressionParse
	ErrExpressionEval       = core.ErrExpressionEval
	ErrCollectionNotFound   = core.ErrCollectionNotFound
	ErrIndexNotFound        = core.ErrIndexNotFound
	ErrCollectionIndexLimit = core.ErrCollectionIndexLimit
	ErrCollectionNameExists = core.ErrCollectionNameExists
)

var (
	WithLogger      = core.WithLogger
	WithPragmas     = core.WithPragmas
	NopLogger       = core.NopLogger{}
	DefaultExtractor = core.DefaultExtractor
)

// NewZapLogger builds a ZapLogger (a Logger backed by a *zap.SugaredLogger)
// from zap's production configuration; it takes no arguments.
var NewZapLogger = core.NewZapLogger

// Create returns a brand-new, empty in-memory database.
func Create(opts ...Option) *DbFile { return core.New(opts...) }

// Parse loads a database from an in-memory byte image previously produced
// by Save or Serialize.
func Parse(data []byte, opts ...Option) (*DbFile, error) {
	return core.FileParser{}.Parse(data, opts...)
}

// Open reads path and parses it as a LiteDB v8 file.
func Open(path string, opts ...Option) (*DbFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, opts...)
}

// Serialize returns db's canonical on-disk byte image.
func Serialize(db *DbFile) []byte {
	return core.FileWriter{}.Write(db)
}

// Save serializes db and writes it to path.
func Save(db *DbFile, path string) error {
	return os.WriteFile(path, Serialize(db), 0o644)
}
