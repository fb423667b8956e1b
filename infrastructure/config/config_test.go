package config

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"webpom/application/pom"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestLoadDefaults(t *testing.T) {
	for _, name := range []string{
		"BASE_URL", "BROWSER", "HEADLESS", "DEFAULT_TIMEOUT",
		"SAVE_SCREENSHOT_ON_FAILURE", "BROWSER_DRIVER_PATH",
		"CHROME_BINARY_PATH", "STORAGE_STATE_PATH",
	} {
		t.Setenv(name, "")
	}

	cfg := Load(quietLogger())

	assert.Empty(t, cfg.BaseURL)
	assert.Equal(t, BrowserPlaywright, cfg.Browser)
	assert.False(t, cfg.Headless)
	assert.Equal(t, pom.DefaultTimeout, cfg.DefaultTimeout)
	assert.False(t, cfg.SaveScreenshotOnFailure)
	assert.Empty(t, cfg.DriverPath)
	assert.Empty(t, cfg.StorageStatePath)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("BASE_URL", "https://staging.example.com")
	t.Setenv("BROWSER", "selenium")
	t.Setenv("HEADLESS", "true")
	t.Setenv("DEFAULT_TIMEOUT", "30")
	t.Setenv("SAVE_SCREENSHOT_ON_FAILURE", "1")
	t.Setenv("BROWSER_DRIVER_PATH", "/opt/chromedriver")
	t.Setenv("CHROME_BINARY_PATH", "/opt/chrome")
	t.Setenv("STORAGE_STATE_PATH", "/tmp/state.json")

	cfg := Load(quietLogger())

	assert.Equal(t, "https://staging.example.com", cfg.BaseURL)
	assert.Equal(t, BrowserSelenium, cfg.Browser)
	assert.True(t, cfg.Headless)
	assert.Equal(t, 30*time.Second, cfg.DefaultTimeout)
	assert.True(t, cfg.SaveScreenshotOnFailure)
	assert.Equal(t, "/opt/chromedriver", cfg.DriverPath)
	assert.Equal(t, "/opt/chrome", cfg.ChromeBinaryPath)
	assert.Equal(t, "/tmp/state.json", cfg.StorageStatePath)
}

func TestLoadInvalidValues(t *testing.T) {
	t.Setenv("HEADLESS", "maybe")
	t.Setenv("DEFAULT_TIMEOUT", "soon")

	cfg := Load(quietLogger())

	assert.False(t, cfg.Headless)
	assert.Equal(t, pom.DefaultTimeout, cfg.DefaultTimeout)
}

func TestLoadNegativeTimeout(t *testing.T) {
	t.Setenv("DEFAULT_TIMEOUT", "-5")

	cfg := Load(quietLogger())
	assert.Equal(t, pom.DefaultTimeout, cfg.DefaultTimeout)
}
