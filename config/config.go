package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"substackscraper/helpers"
	apperrors "substackscraper/pkg/errors"
)

// Config is a nested key-value store addressed by dotted keys. Values come
// from defaults, an optional YAML/JSON file, and SUBSTACK_* environment
// variables, in increasing priority. Explicit Set calls win over all three.
type Config struct {
	v *viper.Viper
}

// New creates a configuration populated with defaults
func New() *Config {
	v := viper.New()

	v.SetDefault("browser.engine", "chrome")
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("browser.timeout", 30)
	v.SetDefault("browser.page_load_timeout", 60)

	v.SetDefault("scraping.render", true)
	v.SetDefault("scraping.initial_wait.min", 3.0)
	v.SetDefault("scraping.initial_wait.max", 6.0)
	v.SetDefault("scraping.scroll_wait.min", 2.0)
	v.SetDefault("scraping.scroll_wait.max", 5.0)
	v.SetDefault("scraping.max_scroll_attempts", 50)
	v.SetDefault("scraping.max_retries", 3)
	v.SetDefault("scraping.retry_delay", 5)

	v.SetDefault("output.format", "txt")
	v.SetDefault("output.directory", "output")
	v.SetDefault("output.include_dates", false)
	v.SetDefault("output.include_titles", false)
	v.SetDefault("output.sort_by_date", false)
	v.SetDefault("output.ascending", false)

	v.SetDefault("checkpoint.enabled", true)
	v.SetDefault("checkpoint.file", ".checkpoint.json")

	v.SetDefault("publish.addr", "")
	v.SetDefault("publish.db", 0)
	v.SetDefault("publish.stream", "articles")
	v.SetDefault("publish.stream_count", 1)
	v.SetDefault("publish.stream_max_length", 500)

	v.SetDefault("cache.addr", "")
	v.SetDefault("cache.block_seconds", 300)

	v.SetDefault("logging.level", "info")

	v.SetEnvPrefix("SUBSTACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{v: v}
}

// LoadFile merges a YAML or JSON configuration file over the defaults
func (c *Config) LoadFile(path string) error {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	switch ext {
	case "yaml", "yml", "json":
	default:
		return apperrors.NewConfiguration(fmt.Sprintf("unsupported config format: .%s", ext), nil)
	}

	c.v.SetConfigFile(path)
	c.v.SetConfigType(ext)
	if err := c.v.MergeInConfig(); err != nil {
		return apperrors.NewConfiguration(fmt.Sprintf("failed to load config from %s", path), err)
	}
	return nil
}

// Get retrieves a value by dotted key, or def when the key is unset
func (c *Config) Get(key string, def interface{}) interface{} {
	if !c.v.IsSet(key) {
		return def
	}
	return c.v.Get(key)
}

// Set stores a value by dotted key, overriding file and env values
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// GetString retrieves a string value
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetBool retrieves a boolean value
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetInt retrieves an integer value
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// Seconds retrieves a numeric value expressed in seconds as a duration
func (c *Config) Seconds(key string) time.Duration {
	return time.Duration(c.v.GetFloat64(key) * float64(time.Second))
}

// WaitRange retrieves a {min, max} second pair as a wait range
func (c *Config) WaitRange(key string) helpers.WaitRange {
	return helpers.WaitRange{
		Min: c.Seconds(key + ".min"),
		Max: c.Seconds(key + ".max"),
	}
}

// Validate checks value-level consistency before any crawl starts
func (c *Config) Validate() error {
	if c.GetInt("scraping.max_retries") < 1 {
		return apperrors.NewConfiguration("scraping.max_retries must be at least 1", nil)
	}
	if c.GetInt("scraping.max_scroll_attempts") < 1 {
		return apperrors.NewConfiguration("scraping.max_scroll_attempts must be at least 1", nil)
	}
	for _, key := range []string{"scraping.initial_wait", "scraping.scroll_wait"} {
		r := c.WaitRange(key)
		if r.Min < 0 || r.Max < r.Min {
			return apperrors.NewConfiguration(fmt.Sprintf("%s must satisfy 0 <= min <= max", key), nil)
		}
	}
	switch format := strings.ToLower(c.GetString("output.format")); format {
	case "txt", "csv", "json":
	default:
		return apperrors.NewConfiguration(fmt.Sprintf("unsupported output format: %s", format), nil)
	}
	return nil
}
