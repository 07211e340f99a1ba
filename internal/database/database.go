// Package database ouvre les connexions externes du service : la base
// documentaire (obligatoire), Redis, Elasticsearch et MinIO (facultatifs).
package database

import (
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"catalogue_back_end/internal/config"
	"catalogue_back_end/internal/services"
	"catalogue_back_end/internal/store"
)

// Connections regroupe les clients ouverts au démarrage. Un client facultatif
// non configuré ou injoignable reste nil.
type Connections struct {
	Store   store.DocumentStore
	Redis   *redis.Client
	Elastic *elasticsearch.Client
	MinIO   *minio.Client
}

// Connect ouvre toutes les connexions. Seule l'absence de base documentaire est fatale.
func Connect(ctx context.Context, cfg config.Config) (*Connections, error) {
	st, err := store.New(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("base documentaire %q: %w", cfg.Store.Backend, err)
	}
	zap.S().Infow("✅ Base documentaire connectée", "backend", cfg.Store.Backend)

	conns := &Connections{Store: st}
	conns.Redis = connectRedis(ctx, cfg.Redis)
	conns.Elastic = connectElastic(cfg.Elastic)
	conns.MinIO = connectMinIO(cfg.MinIO)
	return conns, nil
}

// =============================================
// REDIS
// =============================================
func connectRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		zap.S().Info("⚠️ REDIS_HOST absent, limitation de débit désactivée")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		// le client reste utilisable : il se reconnectera, et la limite laisse passer en attendant
		zap.S().Warnw("⚠️ Redis injoignable au démarrage", "addr", cfg.Addr, "error", err)
	} else {
		zap.S().Infow("✅ Connecté à Redis", "addr", cfg.Addr)
	}
	return client
}

// =============================================
// ELASTICSEARCH
// =============================================
func connectElastic(cfg config.ElasticConfig) *elasticsearch.Client {
	if cfg.URL == "" {
		zap.S().Info("⚠️ ELASTIC_URL absent, recherche locale uniquement")
		return nil
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		zap.S().Errorw("❌ Erreur création client Elasticsearch", "error", err)
		return nil
	}

	res, err := client.Info()
	if err != nil {
		zap.S().Warnw("⚠️ Elasticsearch injoignable au démarrage", "url", cfg.URL, "error", err)
		return client
	}
	defer res.Body.Close()
	zap.S().Infow("✅ Connecté à Elasticsearch", "url", cfg.URL)
	return client
}

// =============================================
// MINIO
// =============================================
func connectMinIO(cfg config.MinIOConfig) *minio.Client {
	if cfg.Endpoint == "" {
		zap.S().Info("⚠️ MINIO_ENDPOINT absent, images servies telles quelles")
		return nil
	}
	client, err := services.NewMinioClient(cfg)
	if err != nil {
		zap.S().Errorw("❌ Erreur connexion MinIO", "error", err)
		return nil
	}
	zap.S().Infow("✅ Client MinIO prêt", "endpoint", cfg.Endpoint)
	return client
}

// Close ferme la base documentaire et Redis.
func (c *Connections) Close() {
	if err := c.Store.Close(); err != nil {
		zap.S().Warnw("⚠️ Fermeture de la base documentaire", "error", err)
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			zap.S().Warnw("⚠️ Fermeture de Redis", "error", err)
		}
	}
	zap.S().Info("🔌 Connexions fermées")
}
