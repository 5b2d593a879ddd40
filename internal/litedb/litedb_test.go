package litedb

import (
	"testing"

	"github.com/go-litedb/litedb/internal/bson"
)

func newDoc(id string, age int32) *bson.Document {
	d := bson.NewDocument()
	d.Set("Name", bson.String(id))
	d.Set("Age", bson.Int32(age))
	return d
}

func TestInsertAndGetByIndexID(t *testing.T) {
	db := New()
	doc := newDoc("ada", 36)
	id, err := db.Insert("people", doc, AutoObjectID)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if id.Type() != bson.TypeObjectID {
		t.Fatalf("expected a synthesized ObjectID, got %s", id.Type())
	}

	got, found, err := db.GetByIndex("people", idIndexName, id)
	if err != nil || !found {
		t.Fatalf("GetByIndex: found=%v err=%v", found, err)
	}
	name, _ := got.Get("Name")
	if s, _ := name.AsString(); s != "ada" {
		t.Fatalf("got wrong document back: %+v", got)
	}
}

func TestInsertRejectsDuplicatePK(t *testing.T) {
	db := New()
	doc1 := bson.NewDocument().Set(idIndexName, bson.Int64(1)).Set("Name", bson.String("a"))
	doc2 := bson.NewDocument().Set(idIndexName, bson.Int64(1)).Set("Name", bson.String("b"))

	if _, err := db.Insert("people", doc1, AutoInt64); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := db.Insert("people", doc2, AutoInt64); err == nil {
		t.Fatalf("expected duplicate PK error")
	}
}

func TestAutoIncrementSequence(t *testing.T) {
	db := New()
	for i := 0; i < 3; i++ {
		id, err := db.Insert("counters", bson.NewDocument().Set("n", bson.Int32(int32(i))), AutoInt64)
		if err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
		v, ok := id.AsInt64()
		if !ok || v != int64(i+1) {
			t.Fatalf("insert %d: expected sequential id %d, got %v", i, i+1, id)
		}
	}
}

func TestUpdateReindexesSecondary(t *testing.T) {
	db := New()
	doc := bson.NewDocument().Set(idIndexName, bson.Int64(1)).Set("Status", bson.String("new"))
	if _, err := db.Insert("orders", doc, AutoInt64); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := db.EnsureIndex("orders", "Status", "$.Status", false); err != nil {
		t.Fatalf("ensure index: %v", err)
	}

	updated := bson.NewDocument().Set(idIndexName, bson.Int64(1)).Set("Status", bson.String("shipped"))
	ok, err := db.Update("orders", updated)
	if err != nil || !ok {
		t.Fatalf("update: ok=%v err=%v", ok, err)
	}

	if _, found, _ := db.GetByIndex("orders", "Status", bson.String("new")); found {
		t.Fatalf("old status key should no longer be indexed")
	}
	doc2, found, err := db.GetByIndex("orders", "Status", bson.String("shipped"))
	if err != nil || !found {
		t.Fatalf("new status key should be indexed: found=%v err=%v", found, err)
	}
	statusVal, _ := doc2.Get("Status")
	if s, _ := statusVal.AsString(); s != "shipped" {
		t.Fatalf("unexpected document: %+v", doc2)
	}
}

func TestEnsureIndexReportsCreatedVsNoOp(t *testing.T) {
	db := New()
	created, err := db.EnsureIndex("people", "Name", "$.Name", false)
	if err != nil || !created {
		t.Fatalf("first ensure_index should report created: created=%v err=%v", created, err)
	}
	created, err = db.EnsureIndex("people", "Name", "$.Name", false)
	if err != nil || created {
		t.Fatalf("identical second ensure_index should be a no-op: created=%v err=%v", created, err)
	}
	if _, err := db.EnsureIndex("people", "Name", "$.Name", true); err == nil {
		t.Fatalf("same name with a different definition should fail")
	}
}

func TestDeleteRemovesFromAllIndexes(t *testing.T) {
	db := New()
	doc := bson.NewDocument().Set(idIndexName, bson.Int64(7)).Set("Tag", bson.String("x"))
	if _, err := db.Insert("items", doc, AutoInt64); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := db.EnsureIndex("items", "Tag", "$.Tag", false); err != nil {
		t.Fatalf("ensure index: %v", err)
	}
	ok, err := db.Delete("items", bson.Int64(7))
	if err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}
	if _, found, _ := db.GetByIndex("items", "Tag", bson.String("x")); found {
		t.Fatalf("secondary index entry should be gone after delete")
	}
	if _, found, _ := db.GetByIndex("items", idIndexName, bson.Int64(7)); found {
		t.Fatalf("PK entry should be gone after delete")
	}
}

func TestDropIndexUnlinksSiblingChain(t *testing.T) {
	db := New()
	doc := bson.NewDocument().Set(idIndexName, bson.Int64(1)).Set("Tag", bson.String("x"))
	if _, err := db.Insert("items", doc, AutoInt64); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := db.EnsureIndex("items", "Tag", "$.Tag", false); err != nil {
		t.Fatalf("ensure index: %v", err)
	}
	if err := db.DropIndex("items", "Tag"); err != nil {
		t.Fatalf("drop index: %v", err)
	}
	if _, _, err := db.GetByIndex("items", "Tag", bson.String("x")); err == nil {
		t.Fatalf("expected index-not-found after drop")
	}
	// PK lookup must still work; dropping a secondary index must not
	// corrupt the PK sibling chain.
	got, found, err := db.GetByIndex("items", idIndexName, bson.Int64(1))
	if err != nil || !found || got == nil {
		t.Fatalf("PK lookup broken after dropping secondary index: found=%v err=%v", found, err)
	}
}

func TestRenameAndDropCollection(t *testing.T) {
	db := New()
	if _, err := db.Insert("old", bson.NewDocument().Set(idIndexName, bson.Int64(1)), AutoInt64); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := db.RenameCollection("old", "new"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if _, ok := db.getCollection("old"); ok {
		t.Fatalf("old name should no longer resolve")
	}
	if _, ok := db.getCollection("new"); !ok {
		t.Fatalf("new name should resolve")
	}
	if err := db.DropCollection("new"); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if _, ok := db.getCollection("new"); ok {
		t.Fatalf("collection should be gone after drop")
	}
}

func TestGetRangeIndexedAscendingDescending(t *testing.T) {
	db := New()
	for i := int64(1); i <= 5; i++ {
		if _, err := db.Insert("nums", bson.NewDocument().Set(idIndexName, bson.Int64(i)), AutoInt64); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}
	asc, err := db.GetRangeIndexed("nums", idIndexName, bson.Int64(2), bson.Int64(4), false)
	if err != nil {
		t.Fatalf("range asc: %v", err)
	}
	if len(asc) != 3 {
		t.Fatalf("expected 3 docs, got %d", len(asc))
	}
	first, _ := asc[0].Get(idIndexName)
	if v, _ := first.AsInt64(); v != 2 {
		t.Fatalf("expected ascending range to start at 2, got %v", v)
	}

	desc, err := db.GetRangeIndexed("nums", idIndexName, bson.Int64(2), bson.Int64(4), true)
	if err != nil {
		t.Fatalf("range desc: %v", err)
	}
	firstDesc, _ := desc[0].Get(idIndexName)
	if v, _ := firstDesc.AsInt64(); v != 4 {
		t.Fatalf("expected descending range to start at 4, got %v", v)
	}
}

func TestParseWriteRoundTrip(t *testing.T) {
	db := New()
	if _, err := db.Insert("people", newDoc("grace", 85), AutoObjectID); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := db.EnsureIndex("people", "Age", "$.Age", false); err != nil {
		t.Fatalf("ensure index: %v", err)
	}

	data := (FileWriter{}).Write(db)
	if len(data)%8192 != 0 {
		t.Fatalf("serialized image must be a multiple of the page size, got %d", len(data))
	}

	reloaded, err := (FileParser{}).Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	names := reloaded.CollectionNames()
	if len(names) != 1 || names[0] != "people" {
		t.Fatalf("expected collection 'people', got %v", names)
	}
	col, _ := reloaded.getCollection("people")
	if _, ok := col.indexes["Age"]; !ok {
		t.Fatalf("expected 'Age' index to survive round-trip")
	}

	docs, err := reloaded.GetAll("people")
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document after reload, got %d", len(docs))
	}
}
