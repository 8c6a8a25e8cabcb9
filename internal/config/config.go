package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetDurationEnv returns a duration environment variable or a default value.
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		log.Printf("invalid duration for %s, using default %s", key, defaultVal)
	}
	return defaultVal
}

// GetBoolEnv returns a bool environment variable or a default value.
func GetBoolEnv(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

// IsProduction checks if the app runs in production mode.
func IsProduction() bool {
	return GetEnv("ENV", "development") == "production"
}

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Auth     AuthConfig
	Payment  PaymentConfig
	Email    EmailConfig
	Upload   UploadConfig
	Cron     CronConfig
}

type ServerConfig struct {
	Port        string
	CORSOrigins string
	Production  bool
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DSN builds the key/value connection string understood by the postgres driver.
func (d DatabaseConfig) DSN() string {
	return "host=" + d.Host +
		" user=" + d.User +
		" password=" + d.Password +
		" dbname=" + d.Name +
		" port=" + d.Port +
		" sslmode=" + d.SSLMode
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	CacheTTL time.Duration
}

type KafkaConfig struct {
	Brokers []string
	GroupID string
}

type AuthConfig struct {
	SessionSecret string
	SessionTTL    time.Duration
}

type PaymentConfig struct {
	Provider          string
	Currency          string
	RazorpayKeyID     string
	RazorpayKeySecret string
	RazorpayBaseURL   string
	StripeSecretKey   string
}

type EmailConfig struct {
	ServiceURL string
	From       string
}

type UploadConfig struct {
	Dir      string
	MaxBytes int
}

type CronConfig struct {
	SessionCleanupInterval time.Duration
}

// Load assembles the typed configuration from the environment.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        GetEnv("PORT", "3000"),
			CORSOrigins: GetEnv("CORS_ORIGINS", "http://localhost:3000"),
			Production:  IsProduction(),
		},
		Database: DatabaseConfig{
			Host:            GetEnv("DB_HOST", "localhost"),
			Port:            GetEnv("DB_PORT", "5432"),
			User:            GetEnv("DB_USER", "postgres"),
			Password:        GetEnv("DB_PASSWORD", "postgres"),
			Name:            GetEnv("DB_NAME", "aesthetx"),
			SSLMode:         GetEnv("DB_SSLMODE", "disable"),
			MaxIdleConns:    GetIntEnv("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    GetIntEnv("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Host:     GetEnv("REDIS_HOST", "localhost"),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetIntEnv("REDIS_DB", 0),
			CacheTTL: GetDurationEnv("CACHE_TTL", 10*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers: splitCSV(GetEnv("KAFKA_BROKERS", "")),
			GroupID: GetEnv("KAFKA_GROUP", "aesthetx-notifier"),
		},
		Auth: AuthConfig{
			SessionSecret: GetEnv("SESSION_SECRET", "aesthetx-dev-secret"),
			SessionTTL:    GetDurationEnv("SESSION_TTL", 30*24*time.Hour),
		},
		Payment: PaymentConfig{
			Provider:          strings.ToLower(GetEnv("PAYMENT_PROVIDER", "razorpay")),
			Currency:          GetEnv("PAYMENT_CURRENCY", "INR"),
			RazorpayKeyID:     GetEnv("RAZORPAY_KEY_ID", ""),
			RazorpayKeySecret: GetEnv("RAZORPAY_KEY_SECRET", ""),
			RazorpayBaseURL:   GetEnv("RAZORPAY_BASE_URL", "https://api.razorpay.com"),
			StripeSecretKey:   GetEnv("STRIPE_SECRET_KEY", ""),
		},
		Email: EmailConfig{
			ServiceURL: GetEnv("EMAIL_SERVICE_URL", ""),
			From:       GetEnv("EMAIL_FROM", "AesthetX Ways <orders@aesthetxways.com>"),
		},
		Upload: UploadConfig{
			Dir:      GetEnv("UPLOAD_DIR", "./uploads"),
			MaxBytes: GetIntEnv("UPLOAD_MAX_BYTES", 5<<20),
		},
		Cron: CronConfig{
			SessionCleanupInterval: GetDurationEnv("SESSION_CLEANUP_INTERVAL", time.Minute),
		},
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
