package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Device tokens
	JWTSecret       string
	JWTAccessExpiry time.Duration

	// Vision analysis
	VisionProvider string
	VisionAPIURL   string
	VisionAPIHost  string
	VisionAPIKey   string
	GeminiAPIKey   string
	GeminiModel    string
	AITimeout      time.Duration

	// Future projection
	ImageGenAPIURL  string
	ImageGenAPIHost string

	// Storage
	HistoryLimit int
	S3Bucket     string
	AWSRegion    string

	CoachReplyDelay time.Duration

	// RevenueCat
	WebhookAuth string

	// Server
	AppName      string
	SupportEmail string
	Port         string
	CORSOrigins  string
	SentryDSN    string
	AppEnv       string
}

// Load reads the environment, after merging a local .env file if present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "looksmax"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTAccessExpiry: parseDuration(getEnv("JWT_ACCESS_EXPIRY", "720h"), 720*time.Hour),

		VisionProvider: getEnv("VISION_PROVIDER", "rapidapi"),
		VisionAPIURL:   getEnv("VISION_API_URL", "https://chatgpt-vision1.p.rapidapi.com/matagvision2"),
		VisionAPIHost:  getEnv("VISION_API_HOST", "chatgpt-vision1.p.rapidapi.com"),
		VisionAPIKey:   getEnv("VISION_API_KEY", ""),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		AITimeout:      parseDuration(getEnv("AI_TIMEOUT", "30s"), 30*time.Second),

		ImageGenAPIURL:  getEnv("IMAGEGEN_API_URL", "https://ai-image-generator16.p.rapidapi.com/generate-image"),
		ImageGenAPIHost: getEnv("IMAGEGEN_API_HOST", "ai-image-generator16.p.rapidapi.com"),

		HistoryLimit: parseInt(getEnv("HISTORY_LIMIT", "50"), 50),
		S3Bucket:     getEnv("S3_BUCKET", ""),
		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),

		CoachReplyDelay: parseDuration(getEnv("COACH_REPLY_DELAY", "1s"), time.Second),

		WebhookAuth: getEnv("REVENUECAT_WEBHOOK_AUTH", ""),

		AppName:      getEnv("APP_NAME", "LooksMax AI"),
		SupportEmail: getEnv("SUPPORT_EMAIL", "support@looksmax.app"),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		SentryDSN:   getEnv("SENTRY_DSN", ""),
		AppEnv:      getEnv("APP_ENV", "development"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
