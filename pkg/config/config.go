package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StorageFile     = "file"
	StorageMongo    = "mongo"
	StoragePostgres = "postgres"

	ImageStoreDisk = "disk"
	ImageStoreS3   = "s3"
)

type Config struct {
	// Server
	ServerPort string

	// Storage backend
	StorageDriver string
	PostsFile     string
	MongoURI      string
	MongoDatabase string

	// Postgres
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Image store
	ImageStore       string
	ImagesDir        string
	ImagesPublicPath string
	MaxImageSize     int64

	// Post rules
	PostMinTitleLength   int
	PostMinContentLength int
	HomePostLimit        int
	SnippetLength        int

	// Redis
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	RateLimitPerMinute int

	// RabbitMQ
	RabbitMQHost     string
	RabbitMQPort     string
	RabbitMQUser     string
	RabbitMQPassword string

	// AWS S3
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSEndpoint        string
	S3UseSSL           string
	S3BucketName       string

	// Admin
	AdminTokenHash string

	// Site
	SiteTitle  string
	SiteURL    string
	AuthorName string
}

func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	config := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageFile)),
		PostsFile:     getEnv("POSTS_FILE", "data/posts.json"),
		MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "blog"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "blog"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		ImageStore:       strings.ToLower(getEnv("IMAGE_STORE", ImageStoreDisk)),
		ImagesDir:        getEnv("IMAGES_DIR", "public/images"),
		ImagesPublicPath: getEnv("IMAGES_PUBLIC_PATH", "/images"),

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       0,

		RabbitMQHost:     getEnv("RABBITMQ_HOST", ""),
		RabbitMQPort:     getEnv("RABBITMQ_PORT", "5672"),
		RabbitMQUser:     getEnv("RABBITMQ_USER", "guest"),
		RabbitMQPassword: getEnv("RABBITMQ_PASSWORD", "guest"),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpoint:        getEnv("AWS_ENDPOINT", ""),
		S3UseSSL:           getEnv("S3_USE_SSL", "true"),
		S3BucketName:       getEnv("S3_BUCKET_NAME", "blog-images"),

		AdminTokenHash: getEnv("ADMIN_TOKEN_HASH", ""),

		SiteTitle:  getEnv("SITE_TITLE", "My Blog"),
		SiteURL:    getEnv("SITE_URL", "http://localhost:8080"),
		AuthorName: getEnv("AUTHOR_NAME", "Blog Author"),
	}

	var err error
	if config.MaxImageSize, err = getEnvInt64("MAX_IMAGE_SIZE", 5*1024*1024); err != nil {
		return nil, err
	}
	if config.PostMinTitleLength, err = getEnvInt("POST_MIN_TITLE_LENGTH", 5); err != nil {
		return nil, err
	}
	if config.PostMinContentLength, err = getEnvInt("POST_MIN_CONTENT_LENGTH", 20); err != nil {
		return nil, err
	}
	if config.HomePostLimit, err = getEnvInt("HOME_POST_LIMIT", 3); err != nil {
		return nil, err
	}
	if config.SnippetLength, err = getEnvInt("SNIPPET_LENGTH", 150); err != nil {
		return nil, err
	}
	if config.RateLimitPerMinute, err = getEnvInt("RATE_LIMIT_PER_MINUTE", 30); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the values that select implementations.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageFile, StorageMongo, StoragePostgres:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	switch c.ImageStore {
	case ImageStoreDisk, ImageStoreS3:
	default:
		return fmt.Errorf("unknown IMAGE_STORE %q", c.ImageStore)
	}

	if c.MaxImageSize <= 0 {
		return fmt.Errorf("MAX_IMAGE_SIZE must be positive")
	}
	if c.SnippetLength <= 0 {
		return fmt.Errorf("SNIPPET_LENGTH must be positive")
	}
	return nil
}

func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

func (c *Config) RabbitMQEnabled() bool {
	return c.RabbitMQHost != ""
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost,
		c.DBUser,
		c.DBPassword,
		c.DBName,
		c.DBPort,
		c.DBSSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
