package store

import (
	"context"
	"fmt"
)

// Config sélectionne et paramètre le backend documentaire.
type Config struct {
	Backend              string
	MongoURI             string
	MongoDatabase        string
	FirestoreProject     string
	FirestoreCredentials string
	Scylla               ScyllaConfig
}

// New crée un DocumentStore selon le nom du backend.
//
// Backends supportés :
//
//	"memory"    - en mémoire (défaut, développement et tests)
//	"mongo"     - MongoDB
//	"firestore" - Cloud Firestore
//	"scylla"    - ScyllaDB, documents JSON dans la table documents
func New(ctx context.Context, cfg Config) (DocumentStore, error) {
	switch cfg.Backend {
	case "memory", "":
		return NewMemoryStore(), nil
	case "mongo":
		return NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case "firestore":
		return NewFirestoreStore(ctx, cfg.FirestoreProject, cfg.FirestoreCredentials)
	case "scylla":
		return NewScyllaStore(cfg.Scylla)
	default:
		return nil, fmt.Errorf("backend inconnu: %q (supportés: memory, mongo, firestore, scylla)", cfg.Backend)
	}
}
