package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"spendchat/internal/logger"
)

// Config holds application configuration
type Config struct {
	// Server
	Port        string
	Env         string
	CORSOrigins string

	// DashboardAPIKey guards the /api/v1 read endpoints when set.
	DashboardAPIKey string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis (OTP challenges)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	OTPTTL        time.Duration

	// Gemini
	GeminiAPIKey     string
	GeminiModel      string
	AIRequestTimeout time.Duration

	// Vonage
	VonageAPIKey          string
	VonageAPISecret       string
	VonageBrand           string
	VonageWhatsAppNumber  string
	VonageVerifyURL       string
	VonageMessagesURL     string
	VonageSignatureSecret string

	// Conversation
	JoinPhrase string

	// AMQP (optional expense events)
	AMQPURL      string
	AMQPExchange string

	// Rate limiting for OTP requests
	OTPRatePerMinute int
	OTPRateBurst     int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		logger.For("config").Debug(".env file not found, using process environment")
	}

	config := &Config{
		// Server
		Port:        getEnv("PORT", "3002"),
		Env:         getEnv("ENV", "development"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		DashboardAPIKey: getEnv("DASHBOARD_API_KEY", ""),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "spendchat"),
		DBPassword: getEnv("DB_PASSWORD", "spendchat"),
		DBName:     getEnv("DB_NAME", "spendchat"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Redis
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		OTPTTL:        getEnvDuration("OTP_TTL", 10*time.Minute),

		// Gemini
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		AIRequestTimeout: getEnvDuration("AI_REQUEST_TIMEOUT", 60*time.Second),

		// Vonage
		VonageAPIKey:          getEnv("VONAGE_API_KEY", ""),
		VonageAPISecret:       getEnv("VONAGE_API_SECRET", ""),
		VonageBrand:           getEnv("VONAGE_BRAND", "Vonage"),
		VonageWhatsAppNumber:  getEnv("VONAGE_WHATSAPP_NUMBER", ""),
		VonageVerifyURL:       getEnv("VONAGE_VERIFY_URL", "https://api.nexmo.com"),
		VonageMessagesURL:     getEnv("VONAGE_MESSAGES_URL", "https://messages-sandbox.nexmo.com"),
		VonageSignatureSecret: getEnv("VONAGE_SIGNATURE_SECRET", ""),

		// Conversation
		JoinPhrase: getEnv("WHATSAPP_JOIN_PHRASE", "Join couch plow"),

		// AMQP
		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "spendchat"),

		// Rate limiting
		OTPRatePerMinute: getEnvInt("OTP_RATE_PER_MINUTE", 5),
		OTPRateBurst:     getEnvInt("OTP_RATE_BURST", 3),
	}

	return config, nil
}

// AllowedOrigins splits CORS_ORIGINS into individual origins.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		logger.For("config").Warnf("invalid %s value '%s', falling back to %d", key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		logger.For("config").Warnf("invalid %s value '%s', falling back to %s", key, raw, defaultValue)
		return defaultValue
	}
	return d
}
