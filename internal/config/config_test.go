package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/TuanAnhhh123/M26-HKT/internal/console"
	"github.com/TuanAnhhh123/M26-HKT/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.History.Mode != "web" {
		t.Errorf("History.Mode = %q, want web", cfg.History.Mode)
	}
	if cfg.Routing.MaxRedirects != 4 {
		t.Errorf("Routing.MaxRedirects = %d, want 4", cfg.Routing.MaxRedirects)
	}
	if cfg.Routing.IgnoreCase || cfg.Routing.IgnoreTrailingSlash || cfg.Routing.Canonicalize {
		t.Errorf("Routing = %+v, want exact matching", cfg.Routing)
	}
	if cfg.Assets.Source != AssetSourceEmbed {
		t.Errorf("Assets.Source = %q, want embed", cfg.Assets.Source)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	configContent := `{
  "name": "Backoffice",
  "server": {"port": 4000, "shutdownTimeout": "3s"},
  "history": {"mode": "hash", "base": "/admin"},
  "routing": {"ignoreTrailingSlash": true},
  "assets": {"source": "dir", "dir": "web", "prefix": "/static"},
  "log": {"level": "debug"}
}`
	configPath := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Name != "Backoffice" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.Server.Port != 4000 || cfg.Server.Host != DefaultHost {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.ShutdownTimeout() != 3*time.Second {
		t.Errorf("ShutdownTimeout() = %v", cfg.ShutdownTimeout())
	}
	if cfg.History.Mode != "hash" || cfg.History.Base != "/admin" {
		t.Errorf("History = %+v", cfg.History)
	}
	if !cfg.Routing.IgnoreTrailingSlash || cfg.Routing.IgnoreCase || cfg.Routing.MaxRedirects != 4 {
		t.Errorf("Routing = %+v", cfg.Routing)
	}
	if cfg.Assets.Prefix != "/static/" {
		t.Errorf("Assets.Prefix = %q, want /static/", cfg.Assets.Prefix)
	}
	if cfg.AssetsPath() != filepath.Join(tmpDir, "web") {
		t.Errorf("AssetsPath() = %q", cfg.AssetsPath())
	}
	if level, err := cfg.LogLevel(); err != nil || level != slog.LevelDebug {
		t.Errorf("LogLevel() = %v, %v", level, err)
	}
	if cfg.Path() != configPath || cfg.Dir() != tmpDir {
		t.Errorf("Path() = %q, Dir() = %q", cfg.Path(), cfg.Dir())
	}
	if cfg.URL() != "http://localhost:4000/admin" {
		t.Errorf("URL() = %q", cfg.URL())
	}
}

func TestLoadErrors(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Load(tmpDir)
	ce, ok := err.(*errors.CodedError)
	if !ok || ce.Code != "E100" {
		t.Errorf("missing file: err = %v, want E100", err)
	}

	path := filepath.Join(tmpDir, ConfigFileName)
	os.WriteFile(path, []byte("{not json"), 0644)
	_, err = LoadFile(path)
	ce, ok = err.(*errors.CodedError)
	if !ok || ce.Code != "E101" {
		t.Errorf("bad json: err = %v, want E101", err)
	}
}

func TestLoadOptional(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	cfg, err := LoadOptional(path)
	if err != nil {
		t.Fatalf("LoadOptional() error = %v", err)
	}
	if cfg.Server.Port != DefaultPort || cfg.Path() != path {
		t.Errorf("LoadOptional() = %+v", cfg)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)

	cfg := New()
	cfg.Server.Port = 9090
	cfg.Assets.S3.Bucket = "assets"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if loaded.Server.Port != 9090 || loaded.Assets.S3.Bucket != "assets" {
		t.Errorf("round trip lost values: %+v", loaded)
	}

	if err := New().Save(); err == nil {
		t.Error("Save() without a path should fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		code   string
	}{
		{"port", func(c *Config) { c.Server.Port = 70000 }, "E102"},
		{"history", func(c *Config) { c.History.Mode = "memory" }, "E103"},
		{"source", func(c *Config) { c.Assets.Source = "ftp" }, "E104"},
		{"bucket", func(c *Config) { c.Assets.Source = AssetSourceS3 }, "E105"},
		{"level", func(c *Config) { c.Log.Level = "loud" }, "E106"},
		{"duration", func(c *Config) { c.Server.IdleTimeout = "forever" }, "E107"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			ce, ok := err.(*errors.CodedError)
			if !ok || ce.Code != tt.code {
				t.Errorf("Validate() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"HKT_PORT":          "9000",
		"HKT_HISTORY_MODE":  "hash",
		"HKT_IGNORE_CASE":   "true",
		"HKT_ASSETS_SOURCE": "s3",
		"HKT_S3_BUCKET":     "console-assets",
		"HKT_METRICS":       "false",
		"HKT_LOG_LEVEL":     "warn",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := New()
	if err := cfg.applyEnv(lookup); err != nil {
		t.Fatalf("applyEnv() error = %v", err)
	}
	if cfg.Server.Port != 9000 || cfg.History.Mode != "hash" || !cfg.Routing.IgnoreCase {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Assets.Source != AssetSourceS3 || cfg.Assets.S3.Bucket != "console-assets" {
		t.Errorf("Assets = %+v", cfg.Assets)
	}
	if cfg.Metrics.Enabled {
		t.Error("HKT_METRICS=false should disable metrics")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	env = map[string]string{"HKT_PORT": "eighty"}
	if err := New().applyEnv(lookup); err == nil {
		t.Error("non-numeric port should fail")
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	os.WriteFile(path, []byte("HKT_TEST_DOTENV=loaded\n"), 0644)
	t.Setenv("HKT_TEST_DOTENV", "")
	os.Unsetenv("HKT_TEST_DOTENV")

	if err := LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv("HKT_TEST_DOTENV"); got != "loaded" {
		t.Errorf("HKT_TEST_DOTENV = %q", got)
	}
}

func TestRouterOptions(t *testing.T) {
	cfg := New()
	opts, err := cfg.RouterOptions()
	if err != nil {
		t.Fatalf("RouterOptions() error = %v", err)
	}
	r, err := console.NewResolver(opts...)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}
	if o := r.Options(); o.IgnoreCase || o.IgnoreTrailingSlash || o.Canonicalize {
		t.Errorf("default options = %+v, want exact matching", o)
	}
	if res, _ := r.Resolve("/manager-user/"); !res.Redirected() {
		t.Error("default config should redirect /manager-user/")
	}

	cfg.Routing.IgnoreCase = true
	cfg.Routing.IgnoreTrailingSlash = true
	cfg.Routing.Canonicalize = true
	opts, err = cfg.RouterOptions()
	if err != nil {
		t.Fatalf("RouterOptions() error = %v", err)
	}
	if len(opts) != 5 {
		t.Errorf("len(opts) = %d, want 5", len(opts))
	}
	r, _ = console.NewResolver(opts...)
	if res, _ := r.Resolve("//Manager-User/"); res.Redirected() || res.View() != console.ManagerUser {
		t.Errorf("relaxed config: Resolve = %s (redirected=%v)", res.View(), res.Redirected())
	}

	cfg.History.Mode = "memory"
	if _, err := cfg.RouterOptions(); err == nil {
		t.Error("bad history mode should fail")
	}
}
