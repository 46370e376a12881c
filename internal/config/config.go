package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/TuanAnhhh123/M26-HKT/internal/errors"
	"github.com/TuanAnhhh123/M26-HKT/pkg/router"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "hkt.json"

	// DefaultPort is the default HTTP port.
	DefaultPort = 8080

	// DefaultHost is the default bind host.
	DefaultHost = "localhost"

	// DefaultAssetPrefix is the URL prefix for static assets.
	DefaultAssetPrefix = "/assets/"

	// DefaultMetricsPath is where Prometheus metrics are exposed.
	DefaultMetricsPath = "/metrics"

	// DefaultNamespace prefixes metric names and names the tracer.
	DefaultNamespace = "hkt"
)

// Asset sources.
const (
	AssetSourceEmbed = "embed"
	AssetSourceDir   = "dir"
	AssetSourceS3    = "s3"
)

// Cache control policies for static assets.
const (
	CacheControlNone       = "none"
	CacheControlProduction = "production"
)

// Config represents the complete hkt.json configuration.
type Config struct {
	// Name is the application name shown in the shell title.
	Name string `json:"name,omitempty"`

	// Server contains HTTP server settings.
	Server ServerConfig `json:"server,omitempty"`

	// History contains browser history settings.
	History HistoryConfig `json:"history,omitempty"`

	// Routing contains route matching settings.
	Routing RoutingConfig `json:"routing,omitempty"`

	// Assets contains shell and static file settings.
	Assets AssetsConfig `json:"assets,omitempty"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing contains OpenTelemetry settings.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// Log contains logging settings.
	Log LogConfig `json:"log,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`

	// Durations use time.ParseDuration syntax ("10s", "1m").
	ReadHeaderTimeout string `json:"readHeaderTimeout,omitempty"`
	IdleTimeout       string `json:"idleTimeout,omitempty"`
	ShutdownTimeout   string `json:"shutdownTimeout,omitempty"`
}

// HistoryConfig selects the client history mode.
type HistoryConfig struct {
	// Mode is "web" (path-based) or "hash".
	Mode string `json:"mode,omitempty"`

	// Base is the path the application is mounted under.
	Base string `json:"base,omitempty"`
}

// RoutingConfig tunes path matching. Matching is exact unless one of the
// relaxations is switched on.
type RoutingConfig struct {
	IgnoreCase          bool `json:"ignoreCase,omitempty"`
	IgnoreTrailingSlash bool `json:"ignoreTrailingSlash,omitempty"`
	Canonicalize        bool `json:"canonicalize,omitempty"`
	MaxRedirects        int  `json:"maxRedirects,omitempty"`
}

// AssetsConfig selects where the shell and static files come from.
type AssetsConfig struct {
	// Source is "embed", "dir" or "s3".
	Source string `json:"source,omitempty"`

	// Dir is the local directory for the "dir" source.
	Dir string `json:"dir,omitempty"`

	// Prefix is the URL prefix static files are served under.
	Prefix string `json:"prefix,omitempty"`

	// CacheControl is "none" or "production".
	CacheControl string `json:"cacheControl,omitempty"`

	// S3 configures the "s3" source.
	S3 S3Config `json:"s3,omitempty"`
}

// S3Config locates assets in a bucket.
type S3Config struct {
	Bucket string `json:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty"`
	Region string `json:"region,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled"`
	Path      string `json:"path,omitempty"`
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty"`
	TracerName string `json:"tracerName,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Name: "HKT Admin",
		Server: ServerConfig{
			Host:              DefaultHost,
			Port:              DefaultPort,
			ReadHeaderTimeout: "5s",
			IdleTimeout:       "60s",
			ShutdownTimeout:   "10s",
		},
		History: HistoryConfig{
			Mode: string(router.HistoryWeb),
		},
		Routing: RoutingConfig{
			MaxRedirects: router.DefaultMaxRedirects,
		},
		Assets: AssetsConfig{
			Source:       AssetSourceEmbed,
			Dir:          "public",
			Prefix:       DefaultAssetPrefix,
			CacheControl: CacheControlProduction,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Path:      DefaultMetricsPath,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultNamespace,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from the specified directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadOptional is like LoadFile but returns defaults when the file does
// not exist.
func LoadOptional(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		if ce, ok := err.(*errors.CodedError); ok && ce.Code == "E100" {
			cfg = New()
			cfg.configPath = path
			return cfg, nil
		}
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").
				WithDetail("No " + ConfigFileName + " found at " + path).
				WithSuggestion("Run 'hkt init' to write a default configuration")
		}
		return nil, errors.New("E101").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E101").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E108").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E108").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	d := New()

	if c.Name == "" {
		c.Name = d.Name
	}
	if c.Server.Host == "" {
		c.Server.Host = d.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.ReadHeaderTimeout == "" {
		c.Server.ReadHeaderTimeout = d.Server.ReadHeaderTimeout
	}
	if c.Server.IdleTimeout == "" {
		c.Server.IdleTimeout = d.Server.IdleTimeout
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = d.Server.ShutdownTimeout
	}

	if c.History.Mode == "" {
		c.History.Mode = d.History.Mode
	}
	if c.Routing.MaxRedirects == 0 {
		c.Routing.MaxRedirects = d.Routing.MaxRedirects
	}

	if c.Assets.Source == "" {
		c.Assets.Source = d.Assets.Source
	}
	if c.Assets.Dir == "" {
		c.Assets.Dir = d.Assets.Dir
	}
	if c.Assets.Prefix == "" {
		c.Assets.Prefix = d.Assets.Prefix
	}
	if !strings.HasSuffix(c.Assets.Prefix, "/") {
		c.Assets.Prefix += "/"
	}
	if c.Assets.CacheControl == "" {
		c.Assets.CacheControl = d.Assets.CacheControl
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = d.Metrics.Path
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = d.Metrics.Namespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = d.Tracing.TracerName
	}

	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E102").
			WithDetailf("Port must be between 0 and 65535, got %d", c.Server.Port)
	}

	for name, value := range map[string]string{
		"server.readHeaderTimeout": c.Server.ReadHeaderTimeout,
		"server.idleTimeout":       c.Server.IdleTimeout,
		"server.shutdownTimeout":   c.Server.ShutdownTimeout,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return errors.New("E107").WithDetailf("%s: %v", name, err)
		}
	}

	if _, err := router.NewHistory(router.HistoryMode(c.History.Mode), c.History.Base); err != nil {
		return errors.New("E103").
			WithDetailf("%q is not one of web, hash", c.History.Mode)
	}

	switch c.Assets.Source {
	case AssetSourceEmbed, AssetSourceDir:
	case AssetSourceS3:
		if c.Assets.S3.Bucket == "" {
			return errors.New("E105").
				WithSuggestion("Set assets.s3.bucket or HKT_S3_BUCKET")
		}
	default:
		return errors.New("E104").
			WithDetailf("%q is not one of embed, dir, s3", c.Assets.Source)
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}

	return nil
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// URL returns the base URL of the running server.
func (c *Config) URL() string {
	return "http://" + c.Address() + c.History.Base
}

// ReadHeaderTimeout returns the parsed read-header timeout.
func (c *Config) ReadHeaderTimeout() time.Duration {
	return parseDuration(c.Server.ReadHeaderTimeout, 5*time.Second)
}

// IdleTimeout returns the parsed idle timeout.
func (c *Config) IdleTimeout() time.Duration {
	return parseDuration(c.Server.IdleTimeout, 60*time.Second)
}

// ShutdownTimeout returns the parsed shutdown timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, 10*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, errors.New("E106").
			WithDetailf("%q is not one of debug, info, warn, error", c.Log.Level)
	}
	return level, nil
}

// AssetsPath returns the absolute path to the local asset directory.
func (c *Config) AssetsPath() string {
	if filepath.IsAbs(c.Assets.Dir) {
		return c.Assets.Dir
	}
	return filepath.Join(c.Dir(), c.Assets.Dir)
}

// RouterOptions returns resolver options for the routing and history
// settings.
func (c *Config) RouterOptions() ([]router.Option, error) {
	history, err := router.NewHistory(router.HistoryMode(c.History.Mode), c.History.Base)
	if err != nil {
		return nil, errors.New("E103").Wrap(err)
	}

	opts := []router.Option{
		router.WithHistory(history),
		router.WithMaxRedirects(c.Routing.MaxRedirects),
	}
	if c.Routing.IgnoreCase {
		opts = append(opts, router.WithIgnoreCase())
	}
	if c.Routing.IgnoreTrailingSlash {
		opts = append(opts, router.WithIgnoreTrailingSlash())
	}
	if c.Routing.Canonicalize {
		opts = append(opts, router.WithCanonicalPaths())
	}
	return opts, nil
}
