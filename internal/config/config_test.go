package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORE_BACKEND", "TIMEOUT_DOCUMENT_MS", "TIMEOUT_LIST_MS",
		"TIMEOUT_GROUP_MS", "TIMEOUT_WRITE_MS", "CORS_ORIGINS", "SUBMIT_MAX_PER_WINDOW", "ELASTIC_INDEX"} {
		t.Setenv(key, "")
	}
	c := Load()
	if c.Port != "8080" {
		t.Fatalf("Port default")
	}
	if c.Store.Backend != "memory" {
		t.Fatalf("Store backend default")
	}
	if c.Timeouts.Document != 5*time.Second || c.Timeouts.List != 10*time.Second {
		t.Fatalf("read timeouts default")
	}
	if c.Timeouts.Group != 15*time.Second || c.Timeouts.Write != 10*time.Second {
		t.Fatalf("group/write timeouts default")
	}
	if len(c.CORSOrigins) != 0 {
		t.Fatalf("CORS origins default")
	}
	if c.Redis.SubmitMax != 5 || c.Redis.SubmitCooldown != 10*time.Minute {
		t.Fatalf("rate limit default")
	}
	if c.Elastic.Index != "products" {
		t.Fatalf("elastic index default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_BACKEND", "mongo")
	t.Setenv("TIMEOUT_DOCUMENT_MS", "3000")
	t.Setenv("TIMEOUT_GROUP_MS", "12000")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("SCYLLA_HOSTS", "10.0.0.1,10.0.0.2")
	t.Setenv("MINIO_USE_SSL", "TRUE")
	t.Setenv("SUBMIT_MAX_PER_WINDOW", "not-a-number")
	c := Load()
	if c.Port != "9090" || c.Store.Backend != "mongo" {
		t.Fatalf("port/backend env")
	}
	if c.Timeouts.Document != 3*time.Second || c.Timeouts.Group != 12*time.Second {
		t.Fatalf("timeouts env")
	}
	if len(c.CORSOrigins) != 2 || c.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("cors env: %v", c.CORSOrigins)
	}
	if len(c.Store.Scylla.Hosts) != 2 {
		t.Fatalf("scylla hosts env")
	}
	if !c.MinIO.UseSSL {
		t.Fatalf("minio ssl env")
	}
	if c.Redis.SubmitMax != 5 {
		t.Fatalf("invalid numbers fall back to default")
	}
}
