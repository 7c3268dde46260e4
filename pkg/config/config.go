// Package config loads and validates the keygraph runtime configuration.
// Values resolve in three layers: built-in defaults, then an optional
// YAML file, then KEYGRAPH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dd0wney/keygraph/pkg/validation"
)

// Default configuration values
const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 8080
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxNodes        = 30
	DefaultMinLinkStrength = 1
	DefaultVariant         = "standard"
	DefaultTickInterval    = 33 * time.Millisecond
	DefaultCanvasWidth     = 800.0
	DefaultCanvasHeight    = 600.0
	DefaultTokenTTL        = 24 * time.Hour
	DefaultLogLevel        = "info"
)

// Corpus source names
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceS3       = "s3"
)

// Config is the root configuration for the keygraph server
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Corpus   CorpusConfig   `yaml:"corpus"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Layout   LayoutConfig   `yaml:"layout"`
	Stream   StreamConfig   `yaml:"stream"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig controls the HTTP listener
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// CORSOrigins lists allowed cross-origin hosts; empty disables CORS
	CORSOrigins []string `yaml:"cors_origins"`
}

// CorpusConfig selects where documents come from
type CorpusConfig struct {
	// Source is one of "file", "postgres", "s3"
	Source   string         `yaml:"source"`
	File     FileConfig     `yaml:"file"`
	Postgres PostgresConfig `yaml:"postgres"`
	S3       S3Config       `yaml:"s3"`
}

// FileConfig describes a delimited corpus file
type FileConfig struct {
	Path string `yaml:"path"`
	// Delimiter is a single character; empty means sniff from the extension
	Delimiter string `yaml:"delimiter"`
	Header    bool   `yaml:"header"`
}

// PostgresConfig describes a corpus table
type PostgresConfig struct {
	URL string `yaml:"url"`
	// Query overrides the default corpus query; must select id, title, keywords
	Query string `yaml:"query"`
}

// S3Config describes a corpus object
type S3Config struct {
	Bucket       string `yaml:"bucket"`
	Key          string `yaml:"key"`
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint"`
	AccessKey    string `yaml:"access_key"`
	SecretKey    string `yaml:"secret_key"`
	UsePathStyle bool   `yaml:"use_path_style"`
}

// PipelineConfig controls graph construction and the tick loop
type PipelineConfig struct {
	MaxNodes        int           `yaml:"max_nodes"`
	MinLinkStrength int           `yaml:"min_link_strength"`
	Variant         string        `yaml:"variant"`
	TickInterval    time.Duration `yaml:"tick_interval"`
}

// LayoutConfig sets the simulation canvas
type LayoutConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// StreamConfig controls frame publishing.
// PublishAddr is empty (socket transport off) or "nng://host:port" /
// "zmq://host:port".
type StreamConfig struct {
	PublishAddr string `yaml:"publish_addr"`
}

// AuthConfig controls token authentication for mutating endpoints
type AuthConfig struct {
	Enabled   bool          `yaml:"enabled"`
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
	// AdminUser/AdminPassword seed the initial account when auth is enabled
	AdminUser     string `yaml:"admin_user"`
	AdminPassword string `yaml:"admin_password"`
}

// LogConfig controls structured logging
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns a configuration with every field at its built-in default.
// The corpus source is left empty and must be set by file, env, or flag.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Corpus: CorpusConfig{
			Source: SourceFile,
			File:   FileConfig{Header: true},
		},
		Pipeline: PipelineConfig{
			MaxNodes:        DefaultMaxNodes,
			MinLinkStrength: DefaultMinLinkStrength,
			Variant:         DefaultVariant,
			TickInterval:    DefaultTickInterval,
		},
		Layout: LayoutConfig{
			Width:  DefaultCanvasWidth,
			Height: DefaultCanvasHeight,
		},
		Auth: AuthConfig{
			TokenTTL: DefaultTokenTTL,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Validate checks the whole configuration and reports every problem found
func (c *Config) Validate() error {
	cv := validation.NewConfigValidator("Config")

	cv.Required("Server.Host", c.Server.Host).
		Port("Server.Port", c.Server.Port).
		MinDuration("Server.ReadTimeout", c.Server.ReadTimeout, time.Second).
		MinDuration("Server.WriteTimeout", c.Server.WriteTimeout, time.Second).
		MinDuration("Server.ShutdownTimeout", c.Server.ShutdownTimeout, time.Second)

	cv.OneOf("Corpus.Source", c.Corpus.Source, []string{SourceFile, SourcePostgres, SourceS3}).
		When(c.Corpus.Source == SourceFile, func(v *validation.ConfigValidator) {
			v.Required("Corpus.File.Path", c.Corpus.File.Path)
			v.Custom("Corpus.File.Delimiter", func() error {
				if c.Corpus.File.Delimiter != "" && len([]rune(c.Corpus.File.Delimiter)) != 1 {
					return fmt.Errorf("delimiter %q must be a single character", c.Corpus.File.Delimiter)
				}
				return nil
			})
		}).
		When(c.Corpus.Source == SourcePostgres, func(v *validation.ConfigValidator) {
			v.Required("Corpus.Postgres.URL", c.Corpus.Postgres.URL)
		}).
		When(c.Corpus.Source == SourceS3, func(v *validation.ConfigValidator) {
			v.Required("Corpus.S3.Bucket", c.Corpus.S3.Bucket)
			v.Required("Corpus.S3.Key", c.Corpus.S3.Key)
		})

	cv.RangeInt("Pipeline.MaxNodes", c.Pipeline.MaxNodes, validation.MinNodes, validation.MaxNodes).
		NonNegative("Pipeline.MinLinkStrength", c.Pipeline.MinLinkStrength).
		OneOf("Pipeline.Variant", c.Pipeline.Variant, []string{"standard", "radial", "cluster"}).
		MinDuration("Pipeline.TickInterval", c.Pipeline.TickInterval, time.Millisecond)

	cv.PositiveFloat("Layout.Width", c.Layout.Width).
		PositiveFloat("Layout.Height", c.Layout.Height)

	cv.Custom("Stream.PublishAddr", func() error {
		addr := c.Stream.PublishAddr
		if addr == "" {
			return nil
		}
		if !strings.HasPrefix(addr, "nng://") && !strings.HasPrefix(addr, "zmq://") {
			return fmt.Errorf("address %q must use an nng:// or zmq:// scheme", addr)
		}
		return nil
	})

	cv.When(c.Auth.Enabled, func(v *validation.ConfigValidator) {
		v.Required("Auth.JWTSecret", c.Auth.JWTSecret)
		v.Custom("Auth.JWTSecret", func() error {
			if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 32 {
				return errors.New("secret must be at least 32 bytes")
			}
			return nil
		})
		v.MinDuration("Auth.TokenTTL", c.Auth.TokenTTL, time.Minute)
		v.Required("Auth.AdminUser", c.Auth.AdminUser)
		v.Required("Auth.AdminPassword", c.Auth.AdminPassword)
	})

	cv.OneOf("Log.Level", c.Log.Level, []string{"debug", "info", "warn", "error"})

	return cv.Validate()
}
