package config

import (
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port      int    `mapstructure:"PORT"`
	StaticDir string `mapstructure:"STATIC_DIR"`

	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	NATSURL string `mapstructure:"NATS_URL"`

	MinIOEndpoint      string `mapstructure:"MINIO_ENDPOINT"`
	MinIOAccessKey     string `mapstructure:"MINIO_ACCESS_KEY"`
	MinIOSecretKey     string `mapstructure:"MINIO_SECRET_KEY"`
	MinIOBucket        string `mapstructure:"MINIO_BUCKET"`
	MinIOUseSSL        bool   `mapstructure:"MINIO_USE_SSL"`
	MinIOPublicBaseURL string `mapstructure:"MINIO_PUBLIC_BASE_URL"`
	Thumbnails         bool   `mapstructure:"THUMBNAILS_ENABLED"`

	JWTSecret    string        `mapstructure:"JWT_SECRET"`
	JWTTTL       time.Duration `mapstructure:"JWT_TTL"`
	CookieName   string        `mapstructure:"SESSION_COOKIE_NAME"`
	CookieSecure bool          `mapstructure:"SESSION_COOKIE_SECURE"`

	GoogleMapsAPIKey string `mapstructure:"GOOGLE_MAPS_API_KEY"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPSender   string `mapstructure:"SMTP_SENDER_EMAIL"`
	ContactInbox string `mapstructure:"CONTACT_INBOX"`

	OTLPEndpoint string   `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	CORSOrigins  []string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	ServiceName string `mapstructure:"SERVICE_NAME"`
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("PORT", 8080)
	v.SetDefault("STATIC_DIR", "./web")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "business_directory")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("NATS_URL", "nats://localhost:4222")
	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_ACCESS_KEY", "minioadmin")
	v.SetDefault("MINIO_SECRET_KEY", "minioadmin")
	v.SetDefault("MINIO_BUCKET", "business-media")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("MINIO_PUBLIC_BASE_URL", "")
	v.SetDefault("THUMBNAILS_ENABLED", true)
	v.SetDefault("JWT_SECRET", "your-secret-key")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("SESSION_COOKIE_NAME", "session")
	v.SetDefault("SESSION_COOKIE_SECURE", false)
	v.SetDefault("GOOGLE_MAPS_API_KEY", "")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_SENDER_EMAIL", "")
	v.SetDefault("CONTACT_INBOX", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", []string{"http://localhost:*"})
	v.SetDefault("SERVICE_NAME", "business_directory")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	if cfg.JWTSecret == "your-secret-key" {
		log.Println("Warning: JWT_SECRET is set to its default insecure value")
	}

	return &cfg, nil
}
