package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gocql/gocql"
	"github.com/joho/godotenv"

	"catalogue_back_end/internal/store"
)

type Timeouts struct {
	Document time.Duration
	List     time.Duration
	Group    time.Duration
	Write    time.Duration
}

type LogConfig struct {
	Mode     string // "production" ou "development"
	Level    string
	File     string
	MaxSize  int
	MaxFiles int
}

type RedisConfig struct {
	Addr           string
	Password       string
	SubmitMax      int
	SubmitCooldown time.Duration
}

type ElasticConfig struct {
	URL             string
	Username        string
	Password        string
	Index           string
	ReindexSchedule string
}

type MinIOConfig struct {
	Endpoint    string
	AccessKey   string
	SecretKey   string
	Bucket      string
	Region      string
	UseSSL      bool
	URLValidity time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	NotifyTo string
}

type AuthConfig struct {
	JWTSecret         string
	AdminPasswordHash string
	TokenTTL          time.Duration
}

// Config regroupe la configuration du service, lue depuis l'environnement.
type Config struct {
	Port         string
	CORSOrigins  []string
	Store        store.Config
	Timeouts     Timeouts
	FallbackFile string
	Log          LogConfig
	Redis        RedisConfig
	Elastic      ElasticConfig
	MinIO        MinIOConfig
	SMTP         SMTPConfig
	Auth         AuthConfig
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	n, err := strconv.Atoi(getenv(key, ""))
	if err != nil {
		return def
	}
	return n
}

func durenvms(key string, defMs int) time.Duration {
	return time.Duration(atoienv(key, defMs)) * time.Millisecond
}

func boolenv(key string) bool {
	return strings.ToLower(os.Getenv(key)) == "true"
}

func listenv(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// LoadDotEnv charge .env s'il existe. Appelée avant l'initialisation du
// logger : le résultat est journalisé par l'appelant.
func LoadDotEnv() bool {
	return godotenv.Load(".env") == nil
}

// Load construit la configuration depuis l'environnement avec des valeurs par défaut.
func Load() Config {
	return Config{
		Port:        getenv("PORT", "8080"),
		CORSOrigins: listenv("CORS_ORIGINS"),
		Store: store.Config{
			Backend:              getenv("STORE_BACKEND", "memory"),
			MongoURI:             getenv("MONGO_URI", "mongodb://localhost:27017"),
			MongoDatabase:        getenv("MONGO_DATABASE", "catalogue"),
			FirestoreProject:     os.Getenv("FIRESTORE_PROJECT_ID"),
			FirestoreCredentials: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
			Scylla: store.ScyllaConfig{
				Hosts:       listenv("SCYLLA_HOSTS"),
				Keyspace:    getenv("SCYLLA_KEYSPACE", "catalogue"),
				Username:    os.Getenv("SCYLLA_ROLE"),
				Password:    os.Getenv("SCYLLA_PASSWORD"),
				SSLEnabled:  boolenv("SCYLLA_SSL_ENABLED"),
				CACertPath:  os.Getenv("SCYLLA_SSL_CA_PATH"),
				Timeout:     5 * time.Second,
				NumConns:    atoienv("SCYLLA_NUM_CONNS", 20),
				Consistency: gocql.Quorum,
			},
		},
		Timeouts: Timeouts{
			Document: durenvms("TIMEOUT_DOCUMENT_MS", 5000),
			List:     durenvms("TIMEOUT_LIST_MS", 10000),
			Group:    durenvms("TIMEOUT_GROUP_MS", 15000),
			Write:    durenvms("TIMEOUT_WRITE_MS", 10000),
		},
		FallbackFile: os.Getenv("FALLBACK_CATALOGUE_FILE"),
		Log: LogConfig{
			Mode:     getenv("LOG_MODE", "development"),
			Level:    getenv("LOG_LEVEL", "info"),
			File:     os.Getenv("LOG_FILE"),
			MaxSize:  atoienv("LOG_MAX_SIZE_MB", 64),
			MaxFiles: atoienv("LOG_MAX_FILES", 7),
		},
		Redis: RedisConfig{
			Addr:           os.Getenv("REDIS_HOST"),
			Password:       os.Getenv("REDIS_PASSWORD"),
			SubmitMax:      atoienv("SUBMIT_MAX_PER_WINDOW", 5),
			SubmitCooldown: durenvms("SUBMIT_WINDOW_MS", 10*60*1000),
		},
		Elastic: ElasticConfig{
			URL:             os.Getenv("ELASTIC_URL"),
			Username:        os.Getenv("ELASTIC_USER"),
			Password:        os.Getenv("ELASTIC_PASSWORD"),
			Index:           getenv("ELASTIC_INDEX", "products"),
			ReindexSchedule: getenv("SEARCH_REINDEX_SCHEDULE", "@every 1h"),
		},
		MinIO: MinIOConfig{
			Endpoint:    os.Getenv("MINIO_ENDPOINT"),
			AccessKey:   os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey:   os.Getenv("MINIO_SECRET_KEY"),
			Bucket:      getenv("MINIO_BUCKET", "catalogue-images"),
			Region:      getenv("MINIO_REGION", "us-east-1"),
			UseSSL:      boolenv("MINIO_USE_SSL"),
			URLValidity: durenvms("MINIO_URL_VALIDITY_MS", 24*60*60*1000),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     atoienv("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getenv("SMTP_FROM", "noreply@localhost"),
			NotifyTo: os.Getenv("NOTIFY_EMAIL"),
		},
		Auth: AuthConfig{
			JWTSecret:         os.Getenv("JWT_SECRET"),
			AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
			TokenTTL:          durenvms("ADMIN_TOKEN_TTL_MS", 12*60*60*1000),
		},
	}
}
