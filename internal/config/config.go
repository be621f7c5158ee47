package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port     string `yaml:"port"`
	GinMode  string `yaml:"gin_mode"`
	LogLevel string `yaml:"log_level"`

	DBDriver   string `yaml:"db_driver"` // mysql, postgres, sqlite
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBName     string `yaml:"db_name"`

	SessionStore  string `yaml:"session_store"` // redis, cookie
	RedisHost     string `yaml:"redis_host"`
	RedisPort     string `yaml:"redis_port"`
	SessionSecret string `yaml:"session_secret"`

	IdentityBaseURL     string `yaml:"identity_base_url"`
	IdentityProjectID   string `yaml:"identity_project_id"`
	IdentitySecretKey   string `yaml:"identity_secret_key"`
	IdentityJWTSecret   string `yaml:"identity_jwt_secret"`
	IdentityJWTIssuer   string `yaml:"identity_jwt_issuer"`
	IdentityJWTAudience string `yaml:"identity_jwt_audience"`

	OpenAIAPIKey string `yaml:"openai_api_key"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`

	CORSAllowedOrigins  []string `yaml:"cors_allowed_origins"`
	InvitationRateLimit float64  `yaml:"invitation_rate_limit"`
	InvitationRateBurst int      `yaml:"invitation_rate_burst"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Port:                "8080",
		GinMode:             "debug",
		LogLevel:            "info",
		DBDriver:            "mysql",
		DBHost:              "localhost",
		DBPort:              "3306",
		DBUser:              "standup",
		DBPassword:          "standuppassword",
		DBName:              "standup",
		SessionStore:        "redis",
		RedisHost:           "localhost",
		RedisPort:           "6379",
		SessionSecret:       "default-secret-key-change-me",
		IdentityBaseURL:     "https://api.stack-auth.com",
		CORSAllowedOrigins:  []string{"http://localhost:3000"},
		InvitationRateLimit: 1,
		InvitationRateBurst: 10,
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_PATH, and finally environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.overrideFromEnv()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) overrideFromEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.GinMode = getEnv("GIN_MODE", c.GinMode)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.DBDriver = getEnv("DB_DRIVER", c.DBDriver)
	c.DBHost = getEnv("DB_HOST", c.DBHost)
	c.DBPort = getEnv("DB_PORT", c.DBPort)
	c.DBUser = getEnv("DB_USER", c.DBUser)
	c.DBPassword = getEnv("DB_PASSWORD", c.DBPassword)
	c.DBName = getEnv("DB_NAME", c.DBName)

	c.SessionStore = getEnv("SESSION_STORE", c.SessionStore)
	c.RedisHost = getEnv("REDIS_HOST", c.RedisHost)
	c.RedisPort = getEnv("REDIS_PORT", c.RedisPort)
	c.SessionSecret = getEnv("SESSION_SECRET", c.SessionSecret)

	c.IdentityBaseURL = getEnv("IDENTITY_BASE_URL", c.IdentityBaseURL)
	c.IdentityProjectID = getEnv("IDENTITY_PROJECT_ID", c.IdentityProjectID)
	c.IdentitySecretKey = getEnv("IDENTITY_SECRET_KEY", c.IdentitySecretKey)
	c.IdentityJWTSecret = getEnv("IDENTITY_JWT_SECRET", c.IdentityJWTSecret)
	c.IdentityJWTIssuer = getEnv("IDENTITY_JWT_ISSUER", c.IdentityJWTIssuer)
	c.IdentityJWTAudience = getEnv("IDENTITY_JWT_AUDIENCE", c.IdentityJWTAudience)

	c.OpenAIAPIKey = getEnv("OPENAI_API_KEY", c.OpenAIAPIKey)
	c.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.OTLPEndpoint)

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.CORSAllowedOrigins = splitList(origins)
	}
	if v := os.Getenv("INVITATION_RATE_LIMIT"); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil {
			c.InvitationRateLimit = rps
		}
	}
	if v := os.Getenv("INVITATION_RATE_BURST"); v != "" {
		if burst, err := strconv.Atoi(v); err == nil {
			c.InvitationRateBurst = burst
		}
	}
}

// IsProduction reports whether the server runs in gin release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
