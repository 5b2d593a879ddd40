package litedb

import "testing"

func TestDocBuilderAndCRUD(t *testing.T) {
	db := Create()

	doc := Doc().
		Set("Name", Str("Ada Lovelace")).
		Set("Born", I32(1815)).
		Set("Tags", ArrValue(Arr(Str("mathematician"), Str("writer")).Build())).
		Build()

	id, err := db.Insert("people", doc, AutoObjectID)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, found, err := db.GetByIndex("people", "_id", id)
	if err != nil || !found {
		t.Fatalf("GetByIndex: found=%v err=%v", found, err)
	}
	name, _ := got.Get("Name")
	if s, _ := name.AsString(); s != "Ada Lovelace" {
		t.Fatalf("unexpected document: %+v", got)
	}

	data := Serialize(db)
	reloaded, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	all, err := reloaded.GetAll("people")
	if err != nil || len(all) != 1 {
		t.Fatalf("GetAll after reload: %d docs, err=%v", len(all), err)
	}
}
