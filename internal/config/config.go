// Package config loads labnotebook settings from defaults, an optional YAML
// file and LABNOTEBOOK_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"labnotebook/internal/kv"
	"labnotebook/internal/persistence"
)

// EnvPrefix prefixes every environment override, e.g.
// LABNOTEBOOK_STORAGE_DRIVER=postgres.
const EnvPrefix = "LABNOTEBOOK"

// FileName is the config file base name searched when no path is given.
const FileName = "labnotebook"

// Config is the complete application configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	HTTP    HTTPConfig    `mapstructure:"http" yaml:"http"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// StorageConfig selects the key-value backend.
type StorageConfig struct {
	Driver      string   `mapstructure:"driver" yaml:"driver"`
	Key         string   `mapstructure:"key" yaml:"key"`
	SQLitePath  string   `mapstructure:"sqlitePath" yaml:"sqlitePath"`
	FSRoot      string   `mapstructure:"fsRoot" yaml:"fsRoot"`
	PostgresDSN string   `mapstructure:"postgresDSN" yaml:"postgresDSN"`
	S3          S3Config `mapstructure:"s3" yaml:"s3"`
	// QuotaBytes caps the serialized collection size; 0 disables the cap.
	QuotaBytes int `mapstructure:"quotaBytes" yaml:"quotaBytes"`
}

// S3Config holds bucket settings for the s3 driver.
type S3Config struct {
	Bucket          string `mapstructure:"bucket" yaml:"bucket"`
	Region          string `mapstructure:"region" yaml:"region"`
	Prefix          string `mapstructure:"prefix" yaml:"prefix"`
	Endpoint        string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
	AccessKeyID     string `mapstructure:"accessKeyID" yaml:"accessKeyID,omitempty"`
	SecretAccessKey string `mapstructure:"secretAccessKey" yaml:"secretAccessKey,omitempty"`
	SessionToken    string `mapstructure:"sessionToken" yaml:"sessionToken,omitempty"`
	PathStyle       bool   `mapstructure:"pathStyle" yaml:"pathStyle"`
}

// HTTPConfig configures the web UI listener.
type HTTPConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsConfig configures the metrics recorder.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Exporter is prometheus or expvar.
	Exporter string `mapstructure:"exporter" yaml:"exporter"`
}

// ConfigError reports an invalid setting.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver:     string(kv.DriverSQLite),
			Key:        persistence.DefaultKey,
			SQLitePath: "labnotebook.db",
			FSRoot:     "notebookdata",
			S3:         S3Config{Region: "us-east-1"},
		},
		HTTP:    HTTPConfig{Addr: "127.0.0.1:8080"},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Metrics: MetricsConfig{Enabled: false, Exporter: "prometheus"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.key", d.Storage.Key)
	v.SetDefault("storage.sqlitePath", d.Storage.SQLitePath)
	v.SetDefault("storage.fsRoot", d.Storage.FSRoot)
	v.SetDefault("storage.postgresDSN", d.Storage.PostgresDSN)
	v.SetDefault("storage.quotaBytes", d.Storage.QuotaBytes)
	v.SetDefault("storage.s3.bucket", "")
	v.SetDefault("storage.s3.region", d.Storage.S3.Region)
	v.SetDefault("storage.s3.prefix", "")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.accessKeyID", "")
	v.SetDefault("storage.s3.secretAccessKey", "")
	v.SetDefault("storage.s3.sessionToken", "")
	v.SetDefault("storage.s3.pathStyle", false)
	v.SetDefault("http.addr", d.HTTP.Addr)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.exporter", d.Metrics.Exporter)
}

// Load reads path when given, otherwise searches the working directory and
// the user config directory for labnotebook.yaml. A missing search result is
// not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, FileName))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch kv.Driver(c.Storage.Driver) {
	case kv.DriverMemory, kv.DriverFilesystem, kv.DriverSQLite, kv.DriverPostgres, kv.DriverS3:
	default:
		return &ConfigError{Field: "storage.driver", Message: fmt.Sprintf("unknown driver %q", c.Storage.Driver)}
	}
	if c.Storage.Key == "" {
		return &ConfigError{Field: "storage.key", Message: "must not be empty"}
	}
	if c.Storage.QuotaBytes < 0 {
		return &ConfigError{Field: "storage.quotaBytes", Message: "must not be negative"}
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: fmt.Sprintf("unknown format %q", c.Logging.Format)}
	}
	switch c.Metrics.Exporter {
	case "prometheus", "expvar":
	default:
		return &ConfigError{Field: "metrics.exporter", Message: fmt.Sprintf("unknown exporter %q", c.Metrics.Exporter)}
	}
	return nil
}

// KV converts the storage section into backend settings.
func (c *Config) KV() kv.Config {
	s := c.Storage
	return kv.Config{
		Driver:      kv.Driver(s.Driver),
		SQLitePath:  s.SQLitePath,
		FSRoot:      s.FSRoot,
		PostgresDSN: s.PostgresDSN,
		QuotaBytes:  s.QuotaBytes,
		S3: kv.S3Config{
			Region:          s.S3.Region,
			Bucket:          s.S3.Bucket,
			Prefix:          s.S3.Prefix,
			Endpoint:        s.S3.Endpoint,
			AccessKeyID:     s.S3.AccessKeyID,
			SecretAccessKey: s.S3.SecretAccessKey,
			SessionToken:    s.S3.SessionToken,
			PathStyle:       s.S3.PathStyle,
		},
	}
}

// Save writes c to path as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
