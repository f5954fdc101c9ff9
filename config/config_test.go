package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "substackscraper/pkg/errors"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "chrome", cfg.GetString("browser.engine"))
	assert.True(t, cfg.GetBool("browser.headless"))
	assert.Equal(t, 50, cfg.GetInt("scraping.max_scroll_attempts"))
	assert.Equal(t, 3, cfg.GetInt("scraping.max_retries"))
	assert.Equal(t, 5*time.Second, cfg.Seconds("scraping.retry_delay"))
	assert.Equal(t, "txt", cfg.GetString("output.format"))
	assert.True(t, cfg.GetBool("checkpoint.enabled"))
	assert.Equal(t, "info", cfg.GetString("logging.level"))
}

func TestGetFallsBackToDefault(t *testing.T) {
	cfg := New()

	assert.Equal(t, "fallback", cfg.Get("nonexistent.key", "fallback"))
	assert.Equal(t, "chrome", cfg.Get("browser.engine", "ignored"))
}

func TestSetOverrides(t *testing.T) {
	cfg := New()
	cfg.Set("browser.engine", "edge")
	cfg.Set("scraping.max_retries", 7)

	assert.Equal(t, "edge", cfg.GetString("browser.engine"))
	assert.Equal(t, 7, cfg.GetInt("scraping.max_retries"))
}

func TestWaitRange(t *testing.T) {
	cfg := New()

	r := cfg.WaitRange("scraping.initial_wait")
	assert.Equal(t, 3*time.Second, r.Min)
	assert.Equal(t, 6*time.Second, r.Max)

	cfg.Set("scraping.scroll_wait.min", 0.5)
	cfg.Set("scraping.scroll_wait.max", 1.5)
	r = cfg.WaitRange("scraping.scroll_wait")
	assert.Equal(t, 500*time.Millisecond, r.Min)
	assert.Equal(t, 1500*time.Millisecond, r.Max)
}

func TestLoadFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "browser:\n  engine: chromium\nscraping:\n  max_retries: 5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := New()
	require.NoError(t, cfg.LoadFile(path))

	assert.Equal(t, "chromium", cfg.GetString("browser.engine"))
	assert.Equal(t, 5, cfg.GetInt("scraping.max_retries"))
	// Untouched keys keep their defaults
	assert.Equal(t, 50, cfg.GetInt("scraping.max_scroll_attempts"))
}

func TestLoadFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"output": {"format": "csv", "include_dates": true}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := New()
	require.NoError(t, cfg.LoadFile(path))

	assert.Equal(t, "csv", cfg.GetString("output.format"))
	assert.True(t, cfg.GetBool("output.include_dates"))
}

func TestLoadFileUnsupportedExtension(t *testing.T) {
	err := New().LoadFile("config.toml")
	assert.Equal(t, apperrors.ErrorTypeConfiguration, apperrors.TypeOf(err))
}

func TestLoadFileMissing(t *testing.T) {
	err := New().LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Equal(t, apperrors.ErrorTypeConfiguration, apperrors.TypeOf(err))
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("SUBSTACK_BROWSER_ENGINE", "edge")

	cfg := New()

	assert.Equal(t, "edge", cfg.GetString("browser.engine"))
}

func TestValidate(t *testing.T) {
	t.Run("defaults pass", func(t *testing.T) {
		assert.NoError(t, New().Validate())
	})

	t.Run("retries below one", func(t *testing.T) {
		cfg := New()
		cfg.Set("scraping.max_retries", 0)
		assert.Error(t, cfg.Validate())
	})

	t.Run("scroll attempts below one", func(t *testing.T) {
		cfg := New()
		cfg.Set("scraping.max_scroll_attempts", 0)
		assert.Error(t, cfg.Validate())
	})

	t.Run("inverted wait range", func(t *testing.T) {
		cfg := New()
		cfg.Set("scraping.initial_wait.min", 10.0)
		cfg.Set("scraping.initial_wait.max", 2.0)
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative wait", func(t *testing.T) {
		cfg := New()
		cfg.Set("scraping.scroll_wait.min", -1.0)
		assert.Error(t, cfg.Validate())
	})

	t.Run("unsupported format", func(t *testing.T) {
		cfg := New()
		cfg.Set("output.format", "xml")
		assert.Error(t, cfg.Validate())
	})
}
