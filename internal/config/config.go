package config

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for all environment variable overrides
const EnvPrefix = "FOLIO"

// EmbeddedFS can be set to use embedded configuration files
// This should be set from the configs package if embedding is desired
var EmbeddedFS embed.FS

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Site     SiteConfig     `mapstructure:"site"`
	Meta     MetaConfig     `mapstructure:"meta"`
	Projects ProjectsConfig `mapstructure:"projects"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	SSH      SSHConfig      `mapstructure:"ssh"`
	GitHub   GitHubConfig   `mapstructure:"github"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Refresh  RefreshConfig  `mapstructure:"refresh"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	OTEL     OTELConfig     `mapstructure:"otel"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`      // debug, release, test
	BasePath     string        `mapstructure:"base_path"` // prefix for every internal link, e.g. /portfolio/
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	OpenBrowser  bool          `mapstructure:"open_browser"`
}

// SiteConfig holds the portfolio owner's details shown on every page
type SiteConfig struct {
	Title      string `mapstructure:"title"`
	Author     string `mapstructure:"author"`
	Email      string `mapstructure:"email"`
	GitHubUser string `mapstructure:"github_user"`
	GitHubURL  string `mapstructure:"github_url"`
}

// MetaConfig holds the commit dashboard configuration
type MetaConfig struct {
	LogPath       string `mapstructure:"log_path"`
	Source        string `mapstructure:"source"` // storage, database
	CommitURLBase string `mapstructure:"commit_url_base"`
	Timezone      string `mapstructure:"timezone"`
}

// Location resolves the configured timezone. Empty and "Local" both mean the process location.
func (m *MetaConfig) Location() (*time.Location, error) {
	if m.Timezone == "" || strings.EqualFold(m.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(m.Timezone)
}

// FromDatabase returns true if rows are read from PostgreSQL instead of the log file
func (m *MetaConfig) FromDatabase() bool {
	return strings.ToLower(m.Source) == "database"
}

// ProjectsConfig holds the project gallery configuration
type ProjectsConfig struct {
	Path string `mapstructure:"path"`
}

// StorageConfig holds storage backend configuration
type StorageConfig struct {
	Type          string        `mapstructure:"type"` // filesystem, s3, http
	BasePath      string        `mapstructure:"base_path"`
	S3Bucket      string        `mapstructure:"s3_bucket"`
	S3Region      string        `mapstructure:"s3_region"`
	S3AccessKey   string        `mapstructure:"s3_access_key"`
	S3SecretKey   string        `mapstructure:"s3_secret_key"`
	S3Endpoint    string        `mapstructure:"s3_endpoint"` // For S3-compatible services
	S3PathStyle   bool          `mapstructure:"s3_path_style"`
	HTTPBaseURL   string        `mapstructure:"http_base_url"`
	HTTPTimeout   time.Duration `mapstructure:"http_timeout"`
	HTTPRetries   int           `mapstructure:"http_retries"`
	HTTPAuthToken string        `mapstructure:"http_auth_token"`
}

// IsS3 returns true if the storage type is S3
func (s *StorageConfig) IsS3() bool {
	return strings.ToLower(s.Type) == "s3"
}

// IsFilesystem returns true if the storage type is filesystem
func (s *StorageConfig) IsFilesystem() bool {
	return strings.ToLower(s.Type) == "filesystem" || s.Type == ""
}

// IsHTTP returns true if resources are fetched from a remote web server
func (s *StorageConfig) IsHTTP() bool {
	return strings.ToLower(s.Type) == "http"
}

// DatabaseConfig holds PostgreSQL database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the database connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// SSHConfig holds SSH server configuration
type SSHConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	HostKeyPath    string   `mapstructure:"host_key_path"`
	AuthorizedKeys []string `mapstructure:"authorized_keys"` // empty accepts every key
}

// Address returns the SSH server address
func (s *SSHConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// GitHubConfig holds the GitHub API client configuration
type GitHubConfig struct {
	Token         string        `mapstructure:"token"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	Burst         int           `mapstructure:"burst"`
	CachePath     string        `mapstructure:"cache_path"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// AdminConfig holds the admin endpoint configuration
type AdminConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// RefreshConfig holds the periodic dataset reload configuration
type RefreshConfig struct {
	Interval time.Duration `mapstructure:"interval"` // 0 disables
}

// WatchConfig holds the file watcher configuration
type WatchConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Debounce time.Duration `mapstructure:"debounce"`
	Include  []string      `mapstructure:"include"`
	Exclude  []string      `mapstructure:"exclude"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level          string `mapstructure:"level"`  // debug, info, warn, error
	Output         string `mapstructure:"output"` // console, file, both
	Format         string `mapstructure:"format"` // json, console
	FilePath       string `mapstructure:"file_path"`
	FileMaxSizeMB  int    `mapstructure:"file_max_size_mb"`
	FileMaxBackups int    `mapstructure:"file_max_backups"`
	FileMaxAgeDays int    `mapstructure:"file_max_age_days"`
}

// OTELConfig holds OpenTelemetry export configuration
type OTELConfig struct {
	Enabled     bool              `mapstructure:"enabled"`
	Endpoint    string            `mapstructure:"endpoint"`
	Protocol    string            `mapstructure:"protocol"` // grpc, http
	Insecure    bool              `mapstructure:"insecure"`
	ServiceName string            `mapstructure:"service_name"`
	Environment string            `mapstructure:"environment"`
	Headers     map[string]string `mapstructure:"headers"`
}

// Load reads configuration from file and environment variables
// It supports loading from:
// 1. Explicit file path (if provided and exists on filesystem)
// 2. Embedded filesystem (if EmbeddedFS is set)
// 3. Common filesystem locations
// 4. Environment variables (always applied as overrides, .env included)
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set default values
	setDefaults(v)

	// Set config type
	v.SetConfigType("yaml")

	// Read from environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Try to load config file
	configLoaded := false

	// 1. Try explicit config path on filesystem first
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			configLoaded = true
		}
	}

	// 2. Try embedded filesystem if config not loaded and EmbeddedFS is set
	if !configLoaded {
		embeddedConfig, err := tryLoadEmbeddedConfig(configPath)
		if err == nil && embeddedConfig != nil {
			if err := v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
				return nil, fmt.Errorf("failed to read embedded config: %w", err)
			}
			configLoaded = true
		}
	}

	// 3. Try common filesystem locations if still not loaded
	if !configLoaded {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/folio")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			// Config file not found; rely on defaults and env vars
		}
	}

	// Override with environment variables for sensitive data
	overrideFromEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadWithEmbedded loads configuration with an embedded filesystem
// This is a convenience function for use with embedded configs
func LoadWithEmbedded(configPath string, embeddedFS embed.FS) (*Config, error) {
	EmbeddedFS = embeddedFS
	return Load(configPath)
}

// loadDotEnv loads KEY=value pairs from a .env file into the process environment.
// Variables already set in the environment win over the file.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// tryLoadEmbeddedConfig attempts to load config from the embedded filesystem
func tryLoadEmbeddedConfig(configPath string) ([]byte, error) {
	entries, err := fs.ReadDir(EmbeddedFS, ".")
	if err != nil || len(entries) == 0 {
		return nil, fmt.Errorf("no embedded config available")
	}

	if configPath != "" {
		pathsToTry := []string{
			configPath,
			strings.TrimPrefix(configPath, "configs/"),
			strings.TrimPrefix(configPath, "./configs/"),
			strings.TrimPrefix(configPath, "./"),
		}

		for _, path := range pathsToTry {
			if data, err := fs.ReadFile(EmbeddedFS, path); err == nil {
				return data, nil
			}
		}
	}

	for _, name := range []string{"config.yaml", "config.yml"} {
		if data, err := fs.ReadFile(EmbeddedFS, name); err == nil {
			return data, nil
		}
	}

	return nil, fmt.Errorf("config file not found in embedded filesystem")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.base_path", "/")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.open_browser", false)

	// Site defaults
	v.SetDefault("site.title", "Portfolio")
	v.SetDefault("site.author", "Dylan Vo")
	v.SetDefault("site.email", "")
	v.SetDefault("site.github_user", "Dylan-Vo05")
	v.SetDefault("site.github_url", "https://github.com/Dylan-Vo05/")

	// Meta dashboard defaults
	v.SetDefault("meta.log_path", "loc.csv")
	v.SetDefault("meta.source", "storage")
	v.SetDefault("meta.commit_url_base", "https://github.com/Dylan-Vo05/Portfolio/commit/")
	v.SetDefault("meta.timezone", "Local")

	v.SetDefault("projects.path", "projects.json")

	// Storage defaults
	v.SetDefault("storage.type", "filesystem")
	v.SetDefault("storage.base_path", "./data")
	v.SetDefault("storage.http_timeout", 10*time.Second)
	v.SetDefault("storage.http_retries", 3)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "folio")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.dbname", "folio")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	// SSH defaults
	v.SetDefault("ssh.enabled", false)
	v.SetDefault("ssh.host", "0.0.0.0")
	v.SetDefault("ssh.port", 2222)
	v.SetDefault("ssh.host_key_path", "./ssh_host_key")

	// GitHub defaults
	v.SetDefault("github.rate_per_second", 1.0)
	v.SetDefault("github.burst", 5)
	v.SetDefault("github.cache_path", "./data/github-cache.db")
	v.SetDefault("github.cache_ttl", 30*time.Minute)
	v.SetDefault("github.timeout", 10*time.Second)

	// Admin defaults
	v.SetDefault("admin.enabled", false)
	v.SetDefault("admin.token_ttl", 24*time.Hour)

	v.SetDefault("refresh.interval", time.Duration(0))

	// Watcher defaults
	v.SetDefault("watch.enabled", false)
	v.SetDefault("watch.debounce", 500*time.Millisecond)
	v.SetDefault("watch.include", []string{"*.csv", "*.json"})
	v.SetDefault("watch.exclude", []string{"*.tmp", ".*"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.output", "console")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file_path", "./logs/folio.log")
	v.SetDefault("logging.file_max_size_mb", 100)
	v.SetDefault("logging.file_max_backups", 3)
	v.SetDefault("logging.file_max_age_days", 28)

	// OTEL defaults
	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.endpoint", "localhost:4317")
	v.SetDefault("otel.protocol", "grpc")
	v.SetDefault("otel.insecure", true)
	v.SetDefault("otel.service_name", "folio")
	v.SetDefault("otel.environment", "development")
}

// overrideFromEnv handles special environment variable overrides
func overrideFromEnv(v *viper.Viper) {
	if dbPass := os.Getenv("FOLIO_DB_PASSWORD"); dbPass != "" {
		v.Set("database.password", dbPass)
	}

	// S3 credentials from env (more secure than config file)
	if s3Key := os.Getenv("AWS_ACCESS_KEY_ID"); s3Key != "" {
		v.Set("storage.s3_access_key", s3Key)
	}
	if s3Secret := os.Getenv("AWS_SECRET_ACCESS_KEY"); s3Secret != "" {
		v.Set("storage.s3_secret_key", s3Secret)
	}

	if token := os.Getenv("GITHUB_TOKEN"); token != "" && v.GetString("github.token") == "" {
		v.Set("github.token", token)
	}
	if secret := os.Getenv("FOLIO_JWT_SECRET"); secret != "" {
		v.Set("admin.jwt_secret", secret)
	}

	// PORT is what most PaaS runtimes inject
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			v.Set("server.port", p)
		}
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if !strings.HasPrefix(c.Server.BasePath, "/") {
		return fmt.Errorf("server base path must start with '/': %q", c.Server.BasePath)
	}

	// Validate storage config
	switch {
	case c.Storage.IsS3():
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("S3 bucket is required when using S3 storage")
		}
		if c.Storage.S3Region == "" {
			return fmt.Errorf("S3 region is required when using S3 storage")
		}
	case c.Storage.IsHTTP():
		if c.Storage.HTTPBaseURL == "" {
			return fmt.Errorf("storage http_base_url is required for http storage")
		}
	case c.Storage.IsFilesystem():
		if c.Storage.BasePath == "" {
			return fmt.Errorf("storage base path is required for filesystem storage")
		}
	default:
		return fmt.Errorf("invalid storage type: %s", c.Storage.Type)
	}

	switch strings.ToLower(c.Meta.Source) {
	case "storage", "database":
	default:
		return fmt.Errorf("invalid meta source: %s", c.Meta.Source)
	}
	if c.Meta.LogPath == "" {
		return fmt.Errorf("meta log path is required")
	}
	if _, err := c.Meta.Location(); err != nil {
		return fmt.Errorf("invalid meta timezone %q: %w", c.Meta.Timezone, err)
	}

	if c.Meta.FromDatabase() && c.Database.Host == "" {
		return fmt.Errorf("database host is required when meta source is database")
	}

	// Validate SSH config if enabled
	if c.SSH.Enabled {
		if c.SSH.Port <= 0 || c.SSH.Port > 65535 {
			return fmt.Errorf("invalid SSH port: %d", c.SSH.Port)
		}
	}

	if c.Admin.Enabled && len(c.Admin.JWTSecret) < 16 {
		return fmt.Errorf("admin jwt secret must be at least 16 characters when admin is enabled")
	}

	if c.OTEL.Enabled {
		switch strings.ToLower(c.OTEL.Protocol) {
		case "grpc", "http":
		default:
			return fmt.Errorf("invalid otel protocol: %s", c.OTEL.Protocol)
		}
	}

	return nil
}

// ServerAddress returns the HTTP server address
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Mode == "debug" || c.Server.Mode == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Mode == "release" || c.Server.Mode == "production"
}
