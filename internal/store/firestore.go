package store

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore s'appuie sur Cloud Firestore. Les références sont des
// *firestore.DocumentRef natifs et ServerTimestamp devient firestore.ServerTimestamp.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(ctx context.Context, projectID, credentialsFile string) (*FirestoreStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("client Firestore: %w", err)
	}
	zap.S().Infof("✅ Client Firestore prêt (projet %s)", projectID)
	return &FirestoreStore{client: client}, nil
}

func validDocID(id string) bool {
	return id != "" && !strings.Contains(id, "/")
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (Document, error) {
	if !validDocID(id) {
		return Document{}, ErrNotFound
	}
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, err
	}
	return fromSnapshot(snap), nil
}

func (s *FirestoreStore) List(ctx context.Context, collection string, q Query) ([]Document, error) {
	query := s.client.Collection(collection).Query
	for _, f := range q.Filters {
		query = query.Where(f.Field, "==", s.encode(f.Value))
	}
	if q.OrderBy != "" {
		query = query.OrderBy(q.OrderBy, firestore.Asc)
	}
	snaps, err := query.Limit(q.MaxDocs()).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, fromSnapshot(snap))
	}
	return docs, nil
}

func (s *FirestoreStore) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, s.encode(fields))
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if !validDocID(id) {
		return ErrNotFound
	}
	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: s.encode(v)})
	}
	if len(updates) == 0 {
		return nil
	}
	_, err := s.client.Collection(collection).Doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	if !validDocID(id) {
		return nil
	}
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx)
	return err
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func (s *FirestoreStore) encode(v any) any {
	switch val := v.(type) {
	case serverTimestamp:
		return firestore.ServerTimestamp
	case Ref:
		return s.client.Collection(val.Collection).Doc(val.ID)
	case *Ref:
		if val == nil {
			return nil
		}
		return s.encode(*val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = s.encode(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = s.encode(item)
		}
		return out
	}
	return v
}

func fromSnapshot(snap *firestore.DocumentSnapshot) Document {
	return Document{ID: snap.Ref.ID, Data: decodeFirestore(snap.Data()).(map[string]any)}
}

func decodeFirestore(v any) any {
	switch val := v.(type) {
	case *firestore.DocumentRef:
		if val == nil {
			return nil
		}
		ref := Ref{ID: val.ID}
		if val.Parent != nil {
			ref.Collection = val.Parent.ID
		}
		return ref
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = decodeFirestore(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = decodeFirestore(item)
		}
		return out
	}
	return v
}
