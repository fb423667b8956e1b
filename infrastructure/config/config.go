// Package config loads test environment settings from a .env file and the
// process environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"webpom/application/pom"
)

// Browser backend names accepted in the BROWSER variable.
const (
	BrowserPlaywright = "playwright"
	BrowserSelenium   = "selenium"
	BrowserChromedp   = "chromedp"
)

// Config holds the settings the driver adapters and page layer read from the
// environment.
type Config struct {
	// BaseURL is the root url page objects navigate relative to.
	BaseURL string
	// Browser selects the driver backend: playwright, selenium or chromedp.
	Browser string
	// Headless launches the browser without a window.
	Headless bool
	// DefaultTimeout is the element wait budget applied to pages.
	DefaultTimeout time.Duration
	// SaveScreenshotOnFailure enables the screenshot-on-failure hook in the
	// surrounding test harness.
	SaveScreenshotOnFailure bool
	// DriverPath points at a chromedriver binary for the selenium backend.
	DriverPath string
	// ChromeBinaryPath points at a Chrome/Chromium binary.
	ChromeBinaryPath string
	// StorageStatePath, when set, makes the playwright backend persist and
	// restore browser storage state across sessions.
	StorageStatePath string
}

// Load reads .env (optional) and the environment into a Config. Missing
// variables are logged as warnings and fall back to defaults.
func Load(log *logrus.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug(".env file not found, using environment variables")
	}

	return &Config{
		BaseURL:                 getProperty(log, "BASE_URL"),
		Browser:                 getOr(os.Getenv("BROWSER"), BrowserPlaywright),
		Headless:                getBool("HEADLESS"),
		DefaultTimeout:          getTimeout(log, "DEFAULT_TIMEOUT"),
		SaveScreenshotOnFailure: getBool("SAVE_SCREENSHOT_ON_FAILURE"),
		DriverPath:              os.Getenv("BROWSER_DRIVER_PATH"),
		ChromeBinaryPath:        os.Getenv("CHROME_BINARY_PATH"),
		StorageStatePath:        os.Getenv("STORAGE_STATE_PATH"),
	}
}

// getProperty returns the named variable, warning when it is not set.
func getProperty(log *logrus.Logger, name string) string {
	v := os.Getenv(name)
	if v == "" {
		log.Warnf("The environment variable %s was not set", name)
	}
	return v
}

func getOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func getBool(name string) bool {
	v, err := strconv.ParseBool(os.Getenv(name))
	return err == nil && v
}

// getTimeout parses the variable as seconds, falling back to the pom default.
func getTimeout(log *logrus.Logger, name string) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return pom.DefaultTimeout
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		log.Warnf("Invalid %s value %q, using default", name, v)
		return pom.DefaultTimeout
	}
	return time.Duration(secs) * time.Second
}
