package store

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gocql/gocql"
	"go.uber.org/zap"
)

// --- Configuration ScyllaDB ---
type ScyllaConfig struct {
	Hosts       []string
	Keyspace    string
	Username    string
	Password    string
	SSLEnabled  bool
	CACertPath  string
	Timeout     time.Duration
	NumConns    int
	Consistency gocql.Consistency
}

// ScyllaStore range les documents sérialisés en JSON dans une seule table
// partitionnée par collection. Filtres et tri sont appliqués en mémoire.
type ScyllaStore struct {
	session *gocql.Session
}

const createDocumentsTable = `CREATE TABLE IF NOT EXISTS documents (
	collection text,
	id text,
	body text,
	updated_at timestamp,
	PRIMARY KEY (collection, id))`

func NewScyllaStore(cfg ScyllaConfig) (*ScyllaStore, error) {
	cluster, err := createScyllaCluster(cfg)
	if err != nil {
		return nil, fmt.Errorf("erreur configuration cluster pour %s: %w", cfg.Keyspace, err)
	}
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("erreur création session pour %s: %w", cfg.Keyspace, err)
	}
	if err := session.Query(createDocumentsTable).Exec(); err != nil {
		// le rôle applicatif n'a pas forcément le droit CREATE
		zap.S().Warnf("⚠️ Création de la table documents impossible: %v", err)
	}
	zap.S().Infof("✅ Session ScyllaDB pour keyspace '%s' (utilisateur: %s)", cfg.Keyspace, cfg.Username)
	return &ScyllaStore{session: session}, nil
}

// createScyllaCluster crée une configuration de cluster pour un keyspace
func createScyllaCluster(cfg ScyllaConfig) (*gocql.ClusterConfig, error) {
	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Keyspace = cfg.Keyspace
	cluster.Consistency = cfg.Consistency
	cluster.Timeout = cfg.Timeout
	cluster.NumConns = cfg.NumConns
	cluster.ReconnectInterval = 1 * time.Second
	if cfg.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}

	if cfg.SSLEnabled && cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("impossible de lire le certificat CA: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, errors.New("impossible de parser le certificat CA")
		}
		cluster.SslOpts = &gocql.SslOptions{Config: &tls.Config{RootCAs: pool}}
	}

	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())
	return cluster, nil
}

func (s *ScyllaStore) Get(ctx context.Context, collection, id string) (Document, error) {
	var body string
	err := s.session.Query(`SELECT body FROM documents WHERE collection = ? AND id = ?`, collection, id).
		WithContext(ctx).Scan(&body)
	if errors.Is(err, gocql.ErrNotFound) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, err
	}
	data, err := decodeJSONDocument(body)
	if err != nil {
		return Document{}, err
	}
	return Document{ID: id, Data: data}, nil
}

func (s *ScyllaStore) List(ctx context.Context, collection string, q Query) ([]Document, error) {
	iter := s.session.Query(`SELECT id, body FROM documents WHERE collection = ?`, collection).
		WithContext(ctx).Iter()

	var docs []Document
	var id, body string
	for iter.Scan(&id, &body) {
		data, err := decodeJSONDocument(body)
		if err != nil {
			zap.S().Warnf("⚠️ Document %s/%s illisible: %v", collection, id, err)
			continue
		}
		docs = append(docs, Document{ID: id, Data: data})
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return applyQuery(docs, q), nil
}

func (s *ScyllaStore) write(ctx context.Context, collection, id string, data map[string]any) error {
	body, err := encodeJSONDocument(data)
	if err != nil {
		return err
	}
	return s.session.Query(`INSERT INTO documents (collection, id, body, updated_at) VALUES (?, ?, ?, ?)`,
		collection, id, body, time.Now()).WithContext(ctx).Exec()
}

func (s *ScyllaStore) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id := gocql.TimeUUID().String()
	if err := s.write(ctx, collection, id, materializeFields(fields, time.Now().UTC())); err != nil {
		return "", err
	}
	return id, nil
}

// Update relit puis réécrit le document : pas d'atomicité entre les deux.
func (s *ScyllaStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	doc, err := s.Get(ctx, collection, id)
	if err != nil {
		return err
	}
	for k, v := range materializeFields(fields, time.Now().UTC()) {
		doc.Data[k] = v
	}
	return s.write(ctx, collection, id, doc.Data)
}

func (s *ScyllaStore) Delete(ctx context.Context, collection, id string) error {
	return s.session.Query(`DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id).
		WithContext(ctx).Exec()
}

func (s *ScyllaStore) Close() error {
	s.session.Close()
	return nil
}

// encodeJSONDocument écrit les références sous forme DBRef.
func encodeJSONDocument(data map[string]any) (string, error) {
	b, err := json.Marshal(jsonValue(data))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func jsonValue(v any) any {
	switch val := v.(type) {
	case Ref:
		return map[string]any{"$ref": val.Collection, "$id": val.ID}
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = jsonValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = jsonValue(item)
		}
		return out
	}
	return v
}

func decodeJSONDocument(body string) (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		return nil, err
	}
	if data == nil {
		data = map[string]any{}
	}
	return refsFromJSON(data).(map[string]any), nil
}

func refsFromJSON(v any) any {
	switch val := v.(type) {
	case map[string]any:
		if _, isRef := val["$ref"]; isRef {
			if ref, ok := refFromMap(val); ok {
				return ref
			}
		}
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = refsFromJSON(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = refsFromJSON(item)
		}
		return out
	}
	return v
}
