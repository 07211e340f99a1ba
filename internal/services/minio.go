package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"catalogue_back_end/internal/config"
)

// ImageStore signe les images du catalogue stockées dans un bucket MinIO.
// Une image est soit une URL complète, soit un chemin local ("/images/..."),
// soit une clé d'objet du bucket : seule cette dernière forme est signée.
type ImageStore struct {
	client   *minio.Client
	bucket   string
	validity time.Duration
}

// NewMinioClient crée le client MinIO sans contacter le serveur.
func NewMinioClient(cfg config.MinIOConfig) (*minio.Client, error) {
	return minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
}

func NewImageStore(client *minio.Client, bucket string, validity time.Duration) *ImageStore {
	if validity <= 0 {
		validity = 24 * time.Hour
	}
	return &ImageStore{client: client, bucket: bucket, validity: validity}
}

// EnsureBucket crée le bucket s'il n'existe pas encore.
func (s *ImageStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("vérification du bucket %s: %w", s.bucket, err)
	}
	if exists {
		zap.S().Infow("🪣 Bucket MinIO déjà présent", "bucket", s.bucket)
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("création du bucket %s: %w", s.bucket, err)
	}
	zap.S().Infow("🪣 Bucket créé", "bucket", s.bucket)
	return nil
}

// IsObjectKey indique si l'image désigne un objet du bucket.
func IsObjectKey(image string) bool {
	if image == "" || strings.HasPrefix(image, "/") {
		return false
	}
	u, err := url.Parse(image)
	return err != nil || u.Scheme == ""
}

// SignedURL retourne une URL signée pour une clé d'objet, l'image inchangée sinon.
func (s *ImageStore) SignedURL(ctx context.Context, image string) (string, error) {
	if !IsObjectKey(image) {
		return image, nil
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, image, s.validity, url.Values{})
	if err != nil {
		return "", fmt.Errorf("signature de %s: %w", image, err)
	}
	return u.String(), nil
}

// Upload envoie une image dans le bucket et retourne sa clé d'objet.
func (s *ImageStore) Upload(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error) {
	key := "products/" + uuid.NewString() + strings.ToLower(path.Ext(filename))
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("envoi de %s: %w", filename, err)
	}
	zap.S().Infow("✅ Image envoyée", "key", key)
	return key, nil
}
