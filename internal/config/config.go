package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingKey is returned by Validate when a required key has no value.
var ErrMissingKey = errors.New("missing required config key")

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Realtime RealtimeConfig `mapstructure:"realtime"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	URL             string        `mapstructure:"url"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	LogLevel        string        `mapstructure:"log_level"`
}

// DSN returns the connection string for the configured driver.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return c.URL
	}
	return c.Path
}

// GatewayConfig describes the AI gateway (OpenAI-compatible chat completions).
type GatewayConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	APIKey     string        `mapstructure:"api_key"`
	TextModel  string        `mapstructure:"text_model"`
	ImageModel string        `mapstructure:"image_model"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// BackendConfig identifies the backend project clients talk to.
type BackendConfig struct {
	ProjectKey string `mapstructure:"project_key"`
}

type StorageConfig struct {
	Type      string `mapstructure:"type"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
}

// Enabled reports whether generated images should be uploaded to object storage.
func (c *StorageConfig) Enabled() bool {
	return c.Type != "" && c.Type != "none"
}

type RealtimeConfig struct {
	BufferSize int `mapstructure:"buffer_size"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Secrets and deployment endpoints come from well-known variables
	v.BindEnv("gateway.api_key", "LOVABLE_API_KEY")
	v.BindEnv("gateway.base_url", "GATEWAY_BASE_URL")
	v.BindEnv("backend.project_key", "LEARNX_PROJECT_KEY")
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.url", "DATABASE_DSN")
	v.BindEnv("storage.access_key", "STORAGE_ACCESS_KEY")
	v.BindEnv("storage.secret_key", "STORAGE_SECRET_KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/learnx.db")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("gateway.base_url", "https://ai.gateway.lovable.dev/v1")
	v.SetDefault("gateway.text_model", "google/gemini-2.5-flash")
	v.SetDefault("gateway.image_model", "google/gemini-2.5-flash-image-preview")
	v.SetDefault("gateway.timeout", time.Duration(0))
	v.SetDefault("storage.type", "none")
	v.SetDefault("storage.bucket", "learnx")
	v.SetDefault("realtime.buffer_size", 64)
}

// Validate checks that every key the API server cannot start without is present.
// It runs once at startup so a missing credential fails the process instead of
// the first gateway call.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Gateway.APIKey) == "" {
		missing = append(missing, "gateway.api_key")
	}
	if strings.TrimSpace(c.Backend.ProjectKey) == "" {
		missing = append(missing, "backend.project_key")
	}
	if strings.TrimSpace(c.Database.DSN()) == "" {
		missing = append(missing, "database endpoint ("+databaseKey(c.Database.Driver)+")")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingKey, strings.Join(missing, ", "))
	}

	if _, err := url.ParseRequestURI(c.Gateway.BaseURL); err != nil {
		return fmt.Errorf("invalid gateway.base_url %q: %w", c.Gateway.BaseURL, err)
	}
	if c.Storage.Enabled() && c.Storage.Endpoint == "" {
		return fmt.Errorf("%w: storage.endpoint", ErrMissingKey)
	}
	return nil
}

func databaseKey(driver string) string {
	if driver == "postgres" {
		return "database.url"
	}
	return "database.path"
}
