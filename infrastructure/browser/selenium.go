package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"

	"webpom/domain/interfaces"
	"webpom/domain/locator"
	"webpom/infrastructure/config"
)

const chromeDriverPort = 9515

type seleniumDriver struct {
	wd      selenium.WebDriver
	service *selenium.Service
	logger  *logrus.Logger
}

// findChromeDriver - finds ChromeDriver executable path
func findChromeDriver(cfg *config.Config) (string, error) {
	if cfg.DriverPath != "" {
		if _, err := os.Stat(cfg.DriverPath); err == nil {
			return cfg.DriverPath, nil
		}
	}

	commonPaths := []string{
		"/usr/local/bin/chromedriver",
		"/usr/bin/chromedriver",
		"/opt/homebrew/bin/chromedriver",
		filepath.Join(os.Getenv("HOME"), "bin", "chromedriver"),
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath("chromedriver"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("chromedriver not found. Please install it or set BROWSER_DRIVER_PATH environment variable")
}

// findChromeBinary - finds Chrome/Chromium browser executable path
func findChromeBinary(cfg *config.Config) string {
	if cfg.ChromeBinaryPath != "" {
		if _, err := os.Stat(cfg.ChromeBinaryPath); err == nil {
			return cfg.ChromeBinaryPath
		}
	}

	chromePaths := []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
	}

	for _, path := range chromePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	return ""
}

// NewSeleniumDriver starts a local chromedriver service and connects a
// WebDriver session to it.
func NewSeleniumDriver(cfg *config.Config, logger *logrus.Logger) (interfaces.Driver, error) {
	driverPath, err := findChromeDriver(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to find chromedriver: %w", err)
	}

	logger.Infof("Using ChromeDriver at: %s", driverPath)

	service, err := selenium.NewChromeDriverService(driverPath, chromeDriverPort)
	if err != nil {
		return nil, fmt.Errorf("failed to start chromedriver: %w", err)
	}

	caps := selenium.Capabilities{
		"browserName": "chrome",
	}

	chromeCaps := chrome.Capabilities{
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	}
	if cfg.Headless {
		chromeCaps.Args = append(chromeCaps.Args, "--headless=new")
	}
	if binary := findChromeBinary(cfg); binary != "" {
		logger.Infof("Using Chrome binary at: %s", binary)
		chromeCaps.Path = binary
	}

	caps.AddChrome(chromeCaps)

	wd, err := selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", chromeDriverPort))
	if err != nil {
		service.Stop()
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}

	return &seleniumDriver{
		wd:      wd,
		service: service,
		logger:  logger,
	}, nil
}

// Navigate - navigates browser to specified URL
func (d *seleniumDriver) Navigate(ctx context.Context, url string) error {
	d.logger.Infof("Navigating to: %s", url)
	return d.wd.Get(url)
}

// Find - returns the first element matching the locator without waiting.
func (d *seleniumDriver) Find(ctx context.Context, loc locator.Locator, scope interfaces.WebElement) (interfaces.WebElement, error) {
	by, value := seleniumStrategy(loc)

	var el selenium.WebElement
	var err error
	if scope != nil {
		el, err = scope.(*seleniumElement).el.FindElement(by, value)
	} else {
		el, err = d.wd.FindElement(by, value)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrNoSuchElement, loc)
	}
	return &seleniumElement{el: el}, nil
}

// FindAll - returns every element matching the locator, possibly none.
func (d *seleniumDriver) FindAll(ctx context.Context, loc locator.Locator, scope interfaces.WebElement) ([]interfaces.WebElement, error) {
	by, value := seleniumStrategy(loc)

	var els []selenium.WebElement
	var err error
	if scope != nil {
		els, err = scope.(*seleniumElement).el.FindElements(by, value)
	} else {
		els, err = d.wd.FindElements(by, value)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %s failed: %w", loc, err)
	}

	elements := make([]interfaces.WebElement, 0, len(els))
	for _, el := range els {
		elements = append(elements, &seleniumElement{el: el})
	}
	return elements, nil
}

// CurrentURL - returns current page URL
func (d *seleniumDriver) CurrentURL(ctx context.Context) (string, error) {
	return d.wd.CurrentURL()
}

// Title - returns current page title
func (d *seleniumDriver) Title(ctx context.Context) (string, error) {
	return d.wd.Title()
}

// Screenshot - takes screenshot of current page
func (d *seleniumDriver) Screenshot(ctx context.Context) ([]byte, error) {
	return d.wd.Screenshot()
}

// Close - closes browser and stops ChromeDriver service
func (d *seleniumDriver) Close() error {
	if d.wd != nil {
		d.wd.Quit()
	}
	if d.service != nil {
		d.service.Stop()
	}
	return nil
}

// seleniumStrategy maps a locator onto selenium's native By strategies,
// which cover all eight directly.
func seleniumStrategy(loc locator.Locator) (by, value string) {
	switch loc.Strategy() {
	case locator.ID:
		return selenium.ByID, loc.Value()
	case locator.Name:
		return selenium.ByName, loc.Value()
	case locator.Class:
		return selenium.ByClassName, loc.Value()
	case locator.Tag:
		return selenium.ByTagName, loc.Value()
	case locator.XPath:
		return selenium.ByXPATH, loc.Value()
	case locator.LinkText:
		return selenium.ByLinkText, loc.Value()
	case locator.PartialLinkText:
		return selenium.ByPartialLinkText, loc.Value()
	default:
		return selenium.ByCSSSelector, loc.Value()
	}
}

type seleniumElement struct {
	el selenium.WebElement
}

func (e *seleniumElement) Click(ctx context.Context) error {
	return e.el.Click()
}

func (e *seleniumElement) Clear(ctx context.Context) error {
	return e.el.Clear()
}

func (e *seleniumElement) SendKeys(ctx context.Context, text string) error {
	return e.el.SendKeys(text)
}

func (e *seleniumElement) Text(ctx context.Context) (string, error) {
	return e.el.Text()
}

func (e *seleniumElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	// tebeka reports a missing attribute as an error rather than a nil value.
	v, err := e.el.GetAttribute(name)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "nil") {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

func (e *seleniumElement) CSSProperty(ctx context.Context, name string) (string, error) {
	return e.el.CSSProperty(name)
}

func (e *seleniumElement) Displayed(ctx context.Context) (bool, error) {
	return e.el.IsDisplayed()
}

func (e *seleniumElement) Selected(ctx context.Context) (bool, error) {
	return e.el.IsSelected()
}

func (e *seleniumElement) TagName(ctx context.Context) (string, error) {
	return e.el.TagName()
}
