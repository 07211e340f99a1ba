package store

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToBSONWritesDBRef(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	out := toBSON(map[string]any{
		"categoryRef": Ref{Collection: Categories, ID: "a"},
		"submittedAt": ServerTimestamp,
		"tags":        []any{"x"},
	}, now).(bson.M)

	ref, ok := out["categoryRef"].(bson.D)
	if !ok || len(ref) != 2 || ref[0].Key != "$ref" || ref[1].Value != "a" {
		t.Fatalf("unexpected DBRef encoding: %#v", out["categoryRef"])
	}
	if out["submittedAt"] != now {
		t.Fatalf("expected server timestamp replaced, got %v", out["submittedAt"])
	}
	if _, ok := out["tags"].(bson.A); !ok {
		t.Fatalf("expected bson.A, got %T", out["tags"])
	}
}

func TestFromBSON(t *testing.T) {
	oid := primitive.NewObjectID()
	when := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	doc := fromBSON(bson.M{
		"_id":         oid,
		"name":        "Drill",
		"categoryRef": bson.D{{Key: "$ref", Value: "categories"}, {Key: "$id", Value: "tools"}},
		"createdAt":   primitive.NewDateTimeFromTime(when),
		"variations": bson.A{
			bson.M{"name": "Size", "attributes": bson.A{bson.M{"title": "L", "value": "10"}}},
		},
	})

	if doc.ID != oid.Hex() {
		t.Fatalf("expected hex id, got %s", doc.ID)
	}
	if _, ok := doc.Data["_id"]; ok {
		t.Fatal("_id must not leak into data")
	}
	if ref, ok := doc.Data["categoryRef"].(Ref); !ok || ref.ID != "tools" {
		t.Fatalf("expected Ref, got %#v", doc.Data["categoryRef"])
	}
	if got, ok := doc.Data["createdAt"].(time.Time); !ok || !got.Equal(when) {
		t.Fatalf("expected time, got %#v", doc.Data["createdAt"])
	}
	vars, ok := doc.Data["variations"].([]any)
	if !ok || len(vars) != 1 {
		t.Fatalf("expected []any variations, got %#v", doc.Data["variations"])
	}
	if _, ok := vars[0].(map[string]any); !ok {
		t.Fatalf("expected plain map, got %T", vars[0])
	}
}

func TestIDFilter(t *testing.T) {
	if idFilter("tools") != "tools" {
		t.Fatal("plain ids are matched as-is")
	}
	oid := primitive.NewObjectID()
	if _, ok := idFilter(oid.Hex()).(bson.M); !ok {
		t.Fatal("hex ids match both ObjectID and string")
	}
}

func TestJSONDocumentRoundTrip(t *testing.T) {
	body, err := encodeJSONDocument(map[string]any{
		"name":        "Drill",
		"categoryRef": Ref{Collection: Categories, ID: "tools"},
		"nested":      map[string]any{"refs": []any{Ref{Collection: Products, ID: "p1"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	data, err := decodeJSONDocument(body)
	if err != nil {
		t.Fatal(err)
	}
	if data["categoryRef"] != (Ref{Collection: Categories, ID: "tools"}) {
		t.Fatalf("unexpected ref: %#v", data["categoryRef"])
	}
	nested := data["nested"].(map[string]any)["refs"].([]any)
	if nested[0] != (Ref{Collection: Products, ID: "p1"}) {
		t.Fatalf("unexpected nested ref: %#v", nested[0])
	}
}

func TestApplyQuerySortsNumbersAndStrings(t *testing.T) {
	docs := []Document{
		{ID: "1", Data: map[string]any{"name": "beta", "rank": 10}},
		{ID: "2", Data: map[string]any{"name": "Alpha", "rank": 2}},
		{ID: "3", Data: map[string]any{"name": "gamma", "rank": 7.5}},
	}
	byName := applyQuery(docs, Query{OrderBy: "name"})
	if byName[0].ID != "2" || byName[2].ID != "3" {
		t.Fatalf("case-insensitive name sort expected, got %v", byName)
	}
	byRank := applyQuery(docs, Query{OrderBy: "rank"})
	if byRank[0].ID != "2" || byRank[2].ID != "1" {
		t.Fatalf("numeric sort expected, got %v", byRank)
	}
}
