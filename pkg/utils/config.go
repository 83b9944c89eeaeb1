package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AuthConfig struct {
	JWTSecret   string        `yaml:"jwt_secret"`
	JWTIssuer   string        `yaml:"jwt_issuer"`
	JWTDuration time.Duration `yaml:"jwt_duration"`
}

type CatalogConfig struct {
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
	Language string `yaml:"language"`
	// RPS caps outgoing catalog requests; 0 disables the limiter.
	RPS float64 `yaml:"rps"`
	// Timeout of 0 means no timeout.
	Timeout time.Duration `yaml:"timeout"`
}

type Config struct {
	HTTPAddr       string        `yaml:"http_addr"`
	SyncAddr       string        `yaml:"sync_addr"`
	GRPCAddr       string        `yaml:"grpc_addr"`
	DBPath         string        `yaml:"db_path"`
	LogLevel       string        `yaml:"log_level"`
	LogFormat      string        `yaml:"log_format"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	Catalog        CatalogConfig `yaml:"catalog"`
	Auth           AuthConfig    `yaml:"auth"`
}

func Defaults() Config {
	return Config{
		HTTPAddr:  ":8080",
		SyncAddr:  ":7070",
		GRPCAddr:  ":9090",
		LogLevel:  "info",
		LogFormat: "text",
		Catalog: CatalogConfig{
			BaseURL:  "https://api.themoviedb.org/3",
			Language: "en-US",
			RPS:      40,
		},
		Auth: AuthConfig{
			// dev default (change for demo / production)
			JWTSecret:   "dev-secret-change-me",
			JWTIssuer:   "animeverse",
			JWTDuration: 24 * time.Hour,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// ANIMEVERSE_CONFIG and ANIMEVERSE_* environment variables, in that order.
// A .env file in the working directory is loaded first when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if path := os.Getenv("ANIMEVERSE_CONFIG"); path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func LoadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("jwt secret is required")
	}
	if c.Auth.JWTDuration <= 0 {
		return fmt.Errorf("jwt duration must be positive")
	}
	if c.Catalog.RPS < 0 {
		return fmt.Errorf("catalog rps must be >= 0")
	}
	if c.Catalog.Timeout < 0 {
		return fmt.Errorf("catalog timeout must be >= 0")
	}
	if strings.TrimSpace(c.Catalog.BaseURL) == "" {
		return fmt.Errorf("catalog base url is required")
	}
	return nil
}

func applyEnv(c *Config) {
	c.HTTPAddr = getEnv("ANIMEVERSE_HTTP_ADDR", c.HTTPAddr)
	c.SyncAddr = getEnv("ANIMEVERSE_SYNC_ADDR", c.SyncAddr)
	c.GRPCAddr = getEnv("ANIMEVERSE_GRPC_ADDR", c.GRPCAddr)
	c.DBPath = getEnv("ANIMEVERSE_DB_PATH", c.DBPath)
	c.LogLevel = getEnv("ANIMEVERSE_LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("ANIMEVERSE_LOG_FORMAT", c.LogFormat)
	if v := os.Getenv("ANIMEVERSE_ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitList(v)
	}

	c.Catalog.APIKey = getEnv("ANIMEVERSE_TMDB_API_KEY", c.Catalog.APIKey)
	c.Catalog.BaseURL = getEnv("ANIMEVERSE_TMDB_BASE_URL", c.Catalog.BaseURL)
	c.Catalog.Language = getEnv("ANIMEVERSE_TMDB_LANGUAGE", c.Catalog.Language)
	if v, err := strconv.ParseFloat(os.Getenv("ANIMEVERSE_TMDB_RPS"), 64); err == nil {
		c.Catalog.RPS = v
	}
	if v, err := time.ParseDuration(os.Getenv("ANIMEVERSE_TMDB_TIMEOUT")); err == nil {
		c.Catalog.Timeout = v
	}

	c.Auth.JWTSecret = getEnv("ANIMEVERSE_JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.JWTIssuer = getEnv("ANIMEVERSE_JWT_ISSUER", c.Auth.JWTIssuer)
	// hours; a bad value keeps the current duration
	if h, err := strconv.Atoi(os.Getenv("ANIMEVERSE_JWT_TTL_HOURS")); err == nil && h > 0 {
		c.Auth.JWTDuration = time.Duration(h) * time.Hour
	}
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
