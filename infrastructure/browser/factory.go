// Package browser provides the driver backends the page object layer runs
// against: playwright, selenium-over-chromedriver and chromedp.
package browser

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"webpom/domain/interfaces"
	"webpom/infrastructure/config"
)

// New creates the driver backend selected by cfg.Browser.
func New(cfg *config.Config, logger *logrus.Logger) (interfaces.Driver, error) {
	switch cfg.Browser {
	case config.BrowserPlaywright, "":
		return NewPlaywrightDriver(cfg, logger)
	case config.BrowserSelenium:
		return NewSeleniumDriver(cfg, logger)
	case config.BrowserChromedp:
		return NewChromedpDriver(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown browser backend: %q", cfg.Browser)
	}
}
