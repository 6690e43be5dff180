// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// AuthServiceConfig provides settings needed by the auth service.
type AuthServiceConfig interface {
	JWTConfig
	GetAccessTokenTTL() time.Duration
}

// BootstrapConfig provides the first admin account created on an empty users table.
type BootstrapConfig interface {
	GetAdminEmail() string
	GetAdminPassword() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// RateLimitConfig provides limits for public write endpoints (quotes, rendez-vous).
type RateLimitConfig interface {
	GetPublicRatePerMinute() int
	GetPublicRateBurst() int
}

// EmailConfig provides settings for email sending.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// NotificationConfig provides settings for the notification module.
type NotificationConfig interface {
	GetAppBaseURL() string
	GetOwnerNotificationEmail() string
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	GetMinioBucketPartnerLogos() string
	GetMinioBucketCaseImages() string
	IsMinIOEnabled() bool
}

// RedisConfig provides the Redis connection used by the catalog cache.
type RedisConfig interface {
	GetRedisURL() string
	GetCatalogCacheTTL() time.Duration
}

// SchedulerConfig provides settings for the asynq mail queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                     string
	HTTPAddr                string
	DatabaseURL             string
	JWTAccessSecret         string
	AccessTokenTTL          time.Duration
	AdminEmail              string
	AdminPassword           string
	CORSAllowAll            bool
	CORSOrigins             []string
	CORSAllowCreds          bool
	PublicRatePerMinute     int
	PublicRateBurst         int
	AppBaseURL              string
	OwnerNotificationEmail  string
	EmailEnabled            bool
	SMTPHost                string
	SMTPPort                int
	SMTPUsername            string
	SMTPPassword            string
	EmailFromName           string
	EmailFromAddress        string
	MinIOEndpoint           string
	MinIOAccessKey          string
	MinIOSecretKey          string
	MinIOUseSSL             bool
	MinIOMaxFileSize        int64
	MinioBucketPartnerLogos string
	MinioBucketCaseImages   string
	RedisURL                string
	RedisTLSInsecure        bool
	CatalogCacheTTL         time.Duration
	AsynqQueueName          string
	AsynqConcurrency        int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig / AuthServiceConfig implementation
func (c *Config) GetJWTAccessSecret() string       { return c.JWTAccessSecret }
func (c *Config) GetAccessTokenTTL() time.Duration { return c.AccessTokenTTL }

// BootstrapConfig implementation
func (c *Config) GetAdminEmail() string    { return c.AdminEmail }
func (c *Config) GetAdminPassword() string { return c.AdminPassword }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// RateLimitConfig implementation
func (c *Config) GetPublicRatePerMinute() int { return c.PublicRatePerMinute }
func (c *Config) GetPublicRateBurst() int     { return c.PublicRateBurst }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }

// NotificationConfig implementation
func (c *Config) GetAppBaseURL() string             { return c.AppBaseURL }
func (c *Config) GetOwnerNotificationEmail() string { return c.OwnerNotificationEmail }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string           { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string          { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string          { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool               { return c.MinIOUseSSL }
func (c *Config) GetMinIOMaxFileSize() int64         { return c.MinIOMaxFileSize }
func (c *Config) GetMinioBucketPartnerLogos() string { return c.MinioBucketPartnerLogos }
func (c *Config) GetMinioBucketCaseImages() string   { return c.MinioBucketCaseImages }
func (c *Config) IsMinIOEnabled() bool               { return c.MinIOEndpoint != "" }

// RedisConfig / SchedulerConfig implementation
func (c *Config) GetRedisURL() string               { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool         { return c.RedisTLSInsecure }
func (c *Config) GetCatalogCacheTTL() time.Duration { return c.CatalogCacheTTL }
func (c *Config) GetAsynqQueueName() string         { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int          { return c.AsynqConcurrency }

// Load reads configuration from environment variables (and a .env file when present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	smtpHost := getEnv("SMTP_HOST", "")
	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")

	cfg := &Config{
		Env:                     getEnv("APP_ENV", "development"),
		HTTPAddr:                getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:             getEnv("DATABASE_URL", ""),
		JWTAccessSecret:         getEnv("JWT_ACCESS_SECRET", ""),
		AccessTokenTTL:          mustDuration(getEnv("JWT_ACCESS_TTL", "12h")),
		AdminEmail:              strings.TrimSpace(getEnv("ADMIN_EMAIL", "")),
		AdminPassword:           getEnv("ADMIN_PASSWORD", ""),
		CORSAllowAll:            corsAllowAll,
		CORSOrigins:             corsOrigins,
		CORSAllowCreds:          strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		PublicRatePerMinute:     mustInt(getEnv("PUBLIC_RATE_PER_MINUTE", "10")),
		PublicRateBurst:         mustInt(getEnv("PUBLIC_RATE_BURST", "5")),
		AppBaseURL:              getEnv("APP_BASE_URL", "http://localhost:4200"),
		OwnerNotificationEmail:  getEnv("OWNER_NOTIFICATION_EMAIL", ""),
		EmailEnabled:            emailEnabled && smtpHost != "",
		SMTPHost:                smtpHost,
		SMTPPort:                mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:            getEnv("SMTP_USERNAME", ""),
		SMTPPassword:            getEnv("SMTP_PASSWORD", ""),
		EmailFromName:           getEnv("EMAIL_FROM_NAME", "Studio"),
		EmailFromAddress:        getEnv("EMAIL_FROM_ADDRESS", ""),
		MinIOEndpoint:           getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:          getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:          getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:             strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinIOMaxFileSize:        mustInt64(getEnv("MINIO_MAX_FILE_SIZE", "10485760")),
		MinioBucketPartnerLogos: getEnv("MINIO_BUCKET_PARTNER_LOGOS", "partner-logos"),
		MinioBucketCaseImages:   getEnv("MINIO_BUCKET_CASE_IMAGES", "case-images"),
		RedisURL:                getEnv("REDIS_URL", ""),
		RedisTLSInsecure:        strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		CatalogCacheTTL:         mustDuration(getEnv("CATALOG_CACHE_TTL", "10m")),
		AsynqQueueName:          getEnv("ASYNQ_QUEUE", "mail"),
		AsynqConcurrency:        mustInt(getEnv("ASYNQ_CONCURRENCY", "5")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.EmailEnabled && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when email is enabled")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if (cfg.AdminEmail == "") != (cfg.AdminPassword == "") {
		return nil, fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
