package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	defaultSQLiteDSN   = "data/store.db"
	defaultCORSOrigins = "http://localhost:3000"
)

type Config struct {
	HTTPPort        string
	ShutdownTimeout time.Duration
	LogLevel        string

	DatabaseDriver string
	DatabaseDSN    string
	SeedOnStart    bool

	JWTSecret string
	JWTTTL    time.Duration

	CORSOrigins     string
	PurchaseTimeout time.Duration

	AIProvider     string
	AIBaseURL      string // provider endpoint override, mainly for tests and proxies
	AITimeout      time.Duration
	DeepSeekAPIKey string
	OpenAIAPIKey   string
	GeminiAPIKey   string
	OllamaURL      string

	ChatRateLimit  int
	ChatRateWindow time.Duration

	RSAPrivateKeyPath string
	RSAKeyBits        int
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// .env is optional; a missing file is the normal case in containers.
	_ = godotenv.Load()

	var errs []error
	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		ShutdownTimeout:   getDuration("SHUTDOWN_TIMEOUT", 10*time.Second, &errs),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", "info")),
		DatabaseDriver:    strings.ToLower(getEnv("DATABASE_DRIVER", DriverSQLite)),
		DatabaseDSN:       getEnv("DATABASE_DSN", ""),
		SeedOnStart:       getBool("SEED_ON_START", true, &errs),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		JWTTTL:            getDuration("JWT_TTL", 24*time.Hour, &errs),
		CORSOrigins:       getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins),
		PurchaseTimeout:   getDuration("PURCHASE_TIMEOUT", 5*time.Second, &errs),
		AIProvider:        strings.ToLower(getEnv("AI_API", "deepseek")),
		AIBaseURL:         getEnv("AI_BASE_URL", ""),
		AITimeout:         getDuration("AI_TIMEOUT", 60*time.Second, &errs),
		DeepSeekAPIKey:    getEnv("DEEPSEEK_API_KEY", ""),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		OllamaURL:         getEnv("OLLAMA_URL", "http://localhost:11434"),
		ChatRateLimit:     getInt("CHAT_RATE_LIMIT", 100, &errs),
		ChatRateWindow:    getDuration("CHAT_RATE_WINDOW", 15*time.Minute, &errs),
		RSAPrivateKeyPath: getEnv("RSA_PRIVATE_KEY_PATH", ""),
		RSAKeyBits:        getInt("RSA_KEY_BITS", 2048, &errs),
	}

	switch cfg.DatabaseDriver {
	case DriverSQLite:
		if cfg.DatabaseDSN == "" {
			cfg.DatabaseDSN = defaultSQLiteDSN
		}
	case DriverPostgres:
		if cfg.DatabaseDSN == "" {
			errs = append(errs, errors.New("DATABASE_DSN is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER %q is not supported", cfg.DatabaseDriver))
	}

	if cfg.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	} else if len(cfg.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 characters"))
	}
	if cfg.PurchaseTimeout <= 0 {
		errs = append(errs, errors.New("PURCHASE_TIMEOUT must be positive"))
	}
	if cfg.ChatRateLimit <= 0 {
		errs = append(errs, errors.New("CHAT_RATE_LIMIT must be positive"))
	}
	if cfg.RSAKeyBits < 2048 {
		errs = append(errs, errors.New("RSA_KEY_BITS must be at least 2048"))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Warnings lists settings that work but should not reach production.
func (c *Config) Warnings() []string {
	var out []string
	if c.CORSOrigins == defaultCORSOrigins {
		out = append(out, "CORS_ALLOWED_ORIGINS uses the default value, set your own domain for production")
	}
	if c.DatabaseDriver == DriverSQLite {
		out = append(out, "sqlite driver in use, writes are serialized through a single connection")
	}
	if c.RSAPrivateKeyPath == "" {
		out = append(out, "RSA_PRIVATE_KEY_PATH is empty, response signatures use an ephemeral key")
	}
	return out
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func getBool(key string, def bool, errs *[]error) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return b
}

func getDuration(key string, def time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}
