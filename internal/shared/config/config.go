package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	LogLevel        string
	CORSAllowOrigin []string
	DatabaseURL     string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	LLMProvider   string
	LLMModel      string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	LLMTimeout    time.Duration

	MapboxToken     string
	MapboxBaseURL   string
	MapboxCountry   string
	RedisAddr       string
	RedisPassword   string
	GeocodeCacheTTL time.Duration

	EnforceRoles   bool
	SuperAdmins    []string
	ChromePath     string
	PDFTimeout     time.Duration
	PDFPaper       string
	MaxUploadBytes int64

	RateLimitRPS     float64
	RateLimitBurst   int
	IngestLimitRPS   float64
	IngestLimitBurst int
}

// Load reads configuration with sensible defaults. Sources, lowest precedence first:
// built-in defaults, the YAML file named by CONFIG_FILE, then environment variables.
// Keys are the lower-cased environment variable names (database_url, llm_model, ...).
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	k := koanf.New(".")
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			log.Printf("config: load %s: %v", path, err)
		}
	}
	// Blank variables are skipped so they do not mask values from the file.
	envProvider := env.ProviderWithValue("", ".", func(key, value string) (string, any) {
		if strings.TrimSpace(value) == "" {
			return "", nil
		}
		return strings.ToLower(key), value
	})
	if err := k.Load(envProvider, nil); err != nil {
		log.Printf("config: load env: %v", err)
	}

	appEnv := normalizeEnv(getString(k, "env", "dev"))
	dbURL := getString(k, "database_url", "")
	if appEnv == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            getString(k, "port", "8080"),
		Env:             appEnv,
		LogLevel:        getString(k, "log_level", ""),
		CORSAllowOrigin: splitAndTrim(getString(k, "cors_allow_origins", "http://localhost:3000")),
		DatabaseURL:     dbURL,

		ObjectStoreType: normalizeStoreType(getString(k, "object_store", "local")),
		LocalStoreDir:   getString(k, "local_store_dir", "./data"),
		AWSRegion:       getString(k, "aws_region", ""),
		S3Bucket:        getString(k, "s3_bucket", ""),
		S3Prefix:        getString(k, "s3_prefix", ""),
		SSEKMSKeyID:     getString(k, "sse_kms_key_id", ""),

		LLMProvider:   strings.ToLower(getString(k, "llm_provider", "openai")),
		LLMModel:      getString(k, "llm_model", "gpt-4-turbo-preview"),
		OpenAIAPIKey:  getString(k, "openai_api_key", ""),
		OpenAIBaseURL: getString(k, "openai_base_url", ""),
		LLMTimeout:    getSeconds(k, "llm_timeout_seconds", 120*time.Second),

		MapboxToken:     getString(k, "mapbox_token", ""),
		MapboxBaseURL:   getString(k, "mapbox_base_url", "https://api.mapbox.com"),
		MapboxCountry:   getString(k, "mapbox_country", ""),
		RedisAddr:       getString(k, "redis_addr", ""),
		RedisPassword:   getString(k, "redis_password", ""),
		GeocodeCacheTTL: getSeconds(k, "geocode_cache_ttl", 24*time.Hour),

		EnforceRoles:   getBool(k, "enforce_roles", false),
		SuperAdmins:    splitAndTrim(getString(k, "super_admin_user_ids", "")),
		ChromePath:     getString(k, "chrome_path", ""),
		PDFTimeout:     getSeconds(k, "pdf_timeout_seconds", 60*time.Second),
		PDFPaper:       strings.ToLower(getString(k, "pdf_paper", "letter")),
		MaxUploadBytes: int64(getInt(k, "max_upload_mb", 10)) << 20,

		RateLimitRPS:     getFloat(k, "rate_limit_rps", 20),
		RateLimitBurst:   getInt(k, "rate_limit_burst", 40),
		IngestLimitRPS:   getFloat(k, "ingest_limit_rps", 0.5),
		IngestLimitBurst: getInt(k, "ingest_limit_burst", 5),
	}
}

func getString(k *koanf.Koanf, key, def string) string {
	if !k.Exists(key) {
		return def
	}
	if val := strings.TrimSpace(k.String(key)); val != "" {
		return val
	}
	return def
}

func getInt(k *koanf.Koanf, key string, def int) int {
	raw := getString(k, key, "")
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("config: %s invalid int %q", key, raw)
		return def
	}
	return val
}

func getFloat(k *koanf.Koanf, key string, def float64) float64 {
	raw := getString(k, key, "")
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil || val <= 0 {
		log.Printf("config: %s invalid number %q", key, raw)
		return def
	}
	return val
}

func getBool(k *koanf.Koanf, key string, def bool) bool {
	raw := getString(k, key, "")
	if raw == "" {
		return def
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("config: %s invalid bool %q", key, raw)
		return def
	}
	return val
}

// getSeconds accepts either a bare number of seconds or a Go duration string.
func getSeconds(k *koanf.Koanf, key string, def time.Duration) time.Duration {
	raw := getString(k, key, "")
	if raw == "" {
		return def
	}
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	log.Printf("config: %s invalid duration %q", key, raw)
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

// IsDevLike reports whether the environment allows in-memory fallbacks.
func (c Config) IsDevLike() bool {
	return c.Env == "dev" || c.Env == "local"
}
