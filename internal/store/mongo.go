package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoStore stocke chaque collection du catalogue dans une collection MongoDB.
// Les références sont écrites au format DBRef ({"$ref", "$id"}).
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connexion MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	zap.S().Infof("✅ Connecté à MongoDB (base %s)", database)
	return &MongoStore{client: client, db: client.Database(database)}, nil
}

// idFilter accepte les identifiants texte et les ObjectID existants.
func idFilter(id string) any {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"$in": bson.A{oid, id}}
	}
	return id
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (Document, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": idFilter(id)}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, err
	}
	return fromBSON(raw), nil
}

func (s *MongoStore) List(ctx context.Context, collection string, q Query) ([]Document, error) {
	filter := bson.D{}
	for _, f := range q.Filters {
		filter = append(filter, bson.E{Key: f.Field, Value: toBSON(f.Value, time.Time{})})
	}

	opts := options.Find().SetLimit(int64(q.MaxDocs()))
	if q.OrderBy != "" {
		opts.SetSort(bson.D{{Key: q.OrderBy, Value: 1}})
	}

	cursor, err := s.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var raws []bson.M
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(raws))
	for _, raw := range raws {
		docs = append(docs, fromBSON(raw))
	}
	return docs, nil
}

func (s *MongoStore) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	doc := toBSON(fields, time.Now().UTC()).(bson.M)
	id := primitive.NewObjectID().Hex()
	doc["_id"] = id
	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return "", err
	}
	return id, nil
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	set := toBSON(fields, time.Now().UTC()).(bson.M)
	delete(set, "_id")
	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": idFilter(id)}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": idFilter(id)})
	return err
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// toBSON prépare une valeur pour l'écriture ou un filtre.
func toBSON(v any, now time.Time) any {
	switch val := v.(type) {
	case serverTimestamp:
		return now
	case Ref:
		return bson.D{{Key: "$ref", Value: val.Collection}, {Key: "$id", Value: val.ID}}
	case *Ref:
		if val == nil {
			return nil
		}
		return toBSON(*val, now)
	case map[string]any:
		out := bson.M{}
		for k, item := range val {
			out[k] = toBSON(item, now)
		}
		return out
	case []any:
		out := bson.A{}
		for _, item := range val {
			out = append(out, toBSON(item, now))
		}
		return out
	}
	return v
}

func fromBSON(raw bson.M) Document {
	doc := Document{Data: make(map[string]any, len(raw))}
	for k, v := range raw {
		if k == "_id" {
			doc.ID = bsonID(v)
			continue
		}
		doc.Data[k] = fromBSONValue(v)
	}
	return doc
}

func bsonID(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	}
	return fmt.Sprint(v)
}

// fromBSONValue ramène les types du driver vers des types Go simples
// et reconnaît les DBRef.
func fromBSONValue(v any) any {
	switch val := v.(type) {
	case primitive.D:
		m := make(map[string]any, len(val))
		for _, e := range val {
			m[e.Key] = e.Value
		}
		return mapFromBSON(m)
	case primitive.M:
		return mapFromBSON(val)
	case map[string]any:
		return mapFromBSON(val)
	case primitive.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = fromBSONValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = fromBSONValue(item)
		}
		return out
	case primitive.DateTime:
		return val.Time().UTC()
	case primitive.ObjectID:
		return val.Hex()
	}
	return v
}

func mapFromBSON(m map[string]any) any {
	if id, ok := m["$id"].(primitive.ObjectID); ok {
		m["$id"] = id.Hex()
	}
	if ref, ok := refFromMap(m); ok {
		return ref
	}
	out := make(map[string]any, len(m))
	for k, item := range m {
		out[k] = fromBSONValue(item)
	}
	return out
}
