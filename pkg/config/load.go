package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load resolves the configuration: defaults, then the YAML file at path
// (skipped when path is empty), then KEYGRAPH_* environment variables.
// The result is validated before being returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays KEYGRAPH_* environment variables onto the config.
// Unset variables leave the current value untouched.
func applyEnv(cfg *Config) {
	setString(&cfg.Server.Host, "KEYGRAPH_HOST")
	setInt(&cfg.Server.Port, "KEYGRAPH_PORT")
	setDuration(&cfg.Server.ReadTimeout, "KEYGRAPH_READ_TIMEOUT")
	setDuration(&cfg.Server.WriteTimeout, "KEYGRAPH_WRITE_TIMEOUT")
	setDuration(&cfg.Server.ShutdownTimeout, "KEYGRAPH_SHUTDOWN_TIMEOUT")
	if origins := os.Getenv("KEYGRAPH_CORS_ORIGINS"); origins != "" {
		cfg.Server.CORSOrigins = splitAndTrim(origins, ",")
	}

	setString(&cfg.Corpus.Source, "KEYGRAPH_CORPUS_SOURCE")
	setString(&cfg.Corpus.File.Path, "KEYGRAPH_CORPUS_PATH")
	setString(&cfg.Corpus.File.Delimiter, "KEYGRAPH_CORPUS_DELIMITER")
	setBool(&cfg.Corpus.File.Header, "KEYGRAPH_CORPUS_HEADER")
	setString(&cfg.Corpus.Postgres.URL, "KEYGRAPH_PG_URL")
	setString(&cfg.Corpus.Postgres.Query, "KEYGRAPH_PG_QUERY")
	setString(&cfg.Corpus.S3.Bucket, "KEYGRAPH_S3_BUCKET")
	setString(&cfg.Corpus.S3.Key, "KEYGRAPH_S3_KEY")
	setString(&cfg.Corpus.S3.Region, "KEYGRAPH_S3_REGION")
	setString(&cfg.Corpus.S3.Endpoint, "KEYGRAPH_S3_ENDPOINT")
	setString(&cfg.Corpus.S3.AccessKey, "KEYGRAPH_S3_ACCESS_KEY")
	setString(&cfg.Corpus.S3.SecretKey, "KEYGRAPH_S3_SECRET_KEY")
	setBool(&cfg.Corpus.S3.UsePathStyle, "KEYGRAPH_S3_PATH_STYLE")

	setInt(&cfg.Pipeline.MaxNodes, "KEYGRAPH_MAX_NODES")
	setInt(&cfg.Pipeline.MinLinkStrength, "KEYGRAPH_MIN_LINK_STRENGTH")
	setString(&cfg.Pipeline.Variant, "KEYGRAPH_VARIANT")
	setDuration(&cfg.Pipeline.TickInterval, "KEYGRAPH_TICK_INTERVAL")

	setFloat(&cfg.Layout.Width, "KEYGRAPH_CANVAS_WIDTH")
	setFloat(&cfg.Layout.Height, "KEYGRAPH_CANVAS_HEIGHT")

	setString(&cfg.Stream.PublishAddr, "KEYGRAPH_STREAM_ADDR")

	setBool(&cfg.Auth.Enabled, "KEYGRAPH_AUTH_ENABLED")
	setString(&cfg.Auth.JWTSecret, "KEYGRAPH_JWT_SECRET")
	setDuration(&cfg.Auth.TokenTTL, "KEYGRAPH_TOKEN_TTL")
	setString(&cfg.Auth.AdminUser, "KEYGRAPH_ADMIN_USER")
	setString(&cfg.Auth.AdminPassword, "KEYGRAPH_ADMIN_PASSWORD")

	setString(&cfg.Log.Level, "KEYGRAPH_LOG_LEVEL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "true" || v == "1"
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

// splitAndTrim splits a string and trims whitespace from each part
func splitAndTrim(s string, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
