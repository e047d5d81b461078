package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// StoreBackendSnapshot keeps document metadata in a JSON snapshot file.
	StoreBackendSnapshot = "snapshot"
	// StoreBackendPostgres keeps document metadata in PostgreSQL.
	StoreBackendPostgres = "postgres"

	// StorageBackendLocal writes uploaded bytes under UploadsDir.
	StorageBackendLocal = "local"
	// StorageBackendMinIO writes uploaded bytes to an S3-compatible bucket.
	StorageBackendMinIO = "minio"
)

// DatabaseConfig holds PostgreSQL database connection settings.
// Only used when StoreConfig.Backend is StoreBackendPostgres.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
// Only used when StoreConfig.StorageBackend is StorageBackendMinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// StoreConfig selects where document metadata and uploaded bytes live.
type StoreConfig struct {
	Backend        string
	StorageBackend string
	DataDir        string
	SnapshotFile   string
	UploadsDir     string
}

// SnapshotPath returns the full path of the metadata snapshot file.
func (s StoreConfig) SnapshotPath() string {
	if filepath.IsAbs(s.SnapshotFile) {
		return s.SnapshotFile
	}
	return filepath.Join(s.DataDir, s.SnapshotFile)
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost       string
	Port          string
	Timezone      string
	MaxUploadSize int
	DevToken      string
	Store         StoreConfig
	Database      DatabaseConfig
	MinIO         MinIOConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	dataDir := getEnv("DATA_DIR", "data")
	return &AppConfig{
		AppHost:       getEnv("APP_HOST", "localhost:8080"),
		Port:          getEnv("PORT", "8080"),
		Timezone:      getEnv("APP_TIMEZONE", "UTC"),
		MaxUploadSize: getEnvInt("MAX_UPLOAD_SIZE", 50*1024*1024),
		DevToken:      getEnv("DEV_TOKEN", "dev-token"),
		Store: StoreConfig{
			Backend:        strings.ToLower(getEnv("STORE_BACKEND", StoreBackendSnapshot)),
			StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", StorageBackendLocal)),
			DataDir:        dataDir,
			SnapshotFile:   getEnv("SNAPSHOT_FILE", "mock-db.json"),
			UploadsDir:     getEnv("UPLOADS_DIR", filepath.Join(dataDir, "uploads")),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
