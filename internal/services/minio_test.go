package services

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"catalogue_back_end/internal/config"
)

func newTestImageStore(t *testing.T) *ImageStore {
	t.Helper()
	// avec une région fixée, la signature se fait sans appel réseau
	client, err := NewMinioClient(config.MinIOConfig{
		Endpoint:  "minio.example.com:9000",
		AccessKey: "access",
		SecretKey: "secret",
		Region:    "us-east-1",
	})
	if err != nil {
		t.Fatal(err)
	}
	return NewImageStore(client, "catalogue-images", time.Hour)
}

func TestIsObjectKey(t *testing.T) {
	cases := map[string]bool{
		"":                                false,
		"/images/placeholder-product.jpg": false,
		"https://cdn.example.com/a.jpg":   false,
		"http://minio.local/bucket/a.jpg": false,
		"products/3f2c.jpg":               true,
		"wrench.png":                      true,
	}
	for image, want := range cases {
		if got := IsObjectKey(image); got != want {
			t.Errorf("IsObjectKey(%q) = %v, want %v", image, got, want)
		}
	}
}

func TestSignedURL(t *testing.T) {
	s := newTestImageStore(t)
	ctx := context.Background()

	got, err := s.SignedURL(ctx, "products/wrench.jpg")
	if err != nil {
		t.Fatal(err)
	}
	u, err := url.Parse(got)
	if err != nil {
		t.Fatal(err)
	}
	if u.Host != "minio.example.com:9000" || !strings.HasSuffix(u.Path, "/catalogue-images/products/wrench.jpg") {
		t.Fatalf("unexpected signed url %s", got)
	}
	if u.Query().Get("X-Amz-Expires") != "3600" || u.Query().Get("X-Amz-Signature") == "" {
		t.Fatalf("expected signature parameters, got %s", u.RawQuery)
	}

	for _, image := range []string{"/images/placeholder-product.jpg", "https://cdn.example.com/a.jpg"} {
		if got, err := s.SignedURL(ctx, image); err != nil || got != image {
			t.Fatalf("%s should be returned unchanged, got %s %v", image, got, err)
		}
	}
}
