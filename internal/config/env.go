package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/TuanAnhhh123/M26-HKT/internal/errors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "HKT_"

// LoadDotEnv loads KEY=VALUE pairs from the given .env files into the
// process environment. Variables that are already set are left alone and
// missing files are skipped.
func LoadDotEnv(files ...string) error {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return errors.New("E101").Wrap(err).
			WithSuggestion("Check the syntax of your .env file")
	}
	return nil
}

// ApplyEnv overrides configuration values from HKT_* environment variables.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok || v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New("E101").WithDetailf("%s%s: %v", EnvPrefix, key, err)
		}
		*dst = b
		return nil
	}
	integer := func(key string, dst *int, code string) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.New(code).WithDetailf("%s%s: %v", EnvPrefix, key, err)
		}
		*dst = n
		return nil
	}

	str("HOST", &c.Server.Host)
	if err := integer("PORT", &c.Server.Port, "E102"); err != nil {
		return err
	}
	str("HISTORY_MODE", &c.History.Mode)
	str("HISTORY_BASE", &c.History.Base)
	if err := boolean("IGNORE_CASE", &c.Routing.IgnoreCase); err != nil {
		return err
	}
	if err := boolean("IGNORE_TRAILING_SLASH", &c.Routing.IgnoreTrailingSlash); err != nil {
		return err
	}
	if err := boolean("CANONICALIZE", &c.Routing.Canonicalize); err != nil {
		return err
	}
	if err := integer("MAX_REDIRECTS", &c.Routing.MaxRedirects, "E101"); err != nil {
		return err
	}
	str("ASSETS_SOURCE", &c.Assets.Source)
	str("ASSETS_DIR", &c.Assets.Dir)
	str("S3_BUCKET", &c.Assets.S3.Bucket)
	str("S3_PREFIX", &c.Assets.S3.Prefix)
	str("S3_REGION", &c.Assets.S3.Region)
	if err := boolean("METRICS", &c.Metrics.Enabled); err != nil {
		return err
	}
	if err := boolean("TRACING", &c.Tracing.Enabled); err != nil {
		return err
	}
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	c.applyDefaults()
	return nil
}
