package browser

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"

	"webpom/domain/interfaces"
	"webpom/domain/locator"
	"webpom/infrastructure/config"
)

type playwrightDriver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	logger  *logrus.Logger

	storagePath string
}

// NewPlaywrightDriver launches a chromium session through playwright. When
// cfg.StorageStatePath is set, browser storage state is restored on start and
// saved on Close, so logins survive across sessions.
func NewPlaywrightDriver(cfg *config.Config, logger *logrus.Logger) (interfaces.Driver, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	contextOptions := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  1280,
			Height: 720,
		},
	}

	if cfg.StorageStatePath != "" {
		if _, err := os.Stat(cfg.StorageStatePath); err == nil {
			contextOptions.StorageStatePath = playwright.String(cfg.StorageStatePath)
		}
	}

	browserContext, err := browser.NewContext(contextOptions)
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := browserContext.NewPage()
	if err != nil {
		browserContext.Close()
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &playwrightDriver{
		pw:          pw,
		browser:     browser,
		context:     browserContext,
		page:        page,
		logger:      logger,
		storagePath: cfg.StorageStatePath,
	}, nil
}

// Navigate - navigates to the specified URL. Returns once the navigation is
// committed; waiting for content is the page object layer's job.
func (d *playwrightDriver) Navigate(ctx context.Context, url string) error {
	d.logger.Infof("Navigating to: %s", url)
	_, err := d.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateCommit,
	})
	return err
}

// Find - returns the first element matching the locator without waiting.
func (d *playwrightDriver) Find(ctx context.Context, loc locator.Locator, scope interfaces.WebElement) (interfaces.WebElement, error) {
	sel, err := playwrightSelector(loc)
	if err != nil {
		return nil, err
	}

	var handle playwright.ElementHandle
	if scope != nil {
		handle, err = scope.(*playwrightElement).handle.QuerySelector(sel)
	} else {
		handle, err = d.page.QuerySelector(sel)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %s failed: %w", loc, err)
	}
	if handle == nil {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrNoSuchElement, loc)
	}
	return &playwrightElement{handle: handle}, nil
}

// FindAll - returns every element matching the locator, possibly none.
func (d *playwrightDriver) FindAll(ctx context.Context, loc locator.Locator, scope interfaces.WebElement) ([]interfaces.WebElement, error) {
	sel, err := playwrightSelector(loc)
	if err != nil {
		return nil, err
	}

	var handles []playwright.ElementHandle
	if scope != nil {
		handles, err = scope.(*playwrightElement).handle.QuerySelectorAll(sel)
	} else {
		handles, err = d.page.QuerySelectorAll(sel)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %s failed: %w", loc, err)
	}

	elements := make([]interfaces.WebElement, 0, len(handles))
	for _, h := range handles {
		elements = append(elements, &playwrightElement{handle: h})
	}
	return elements, nil
}

// CurrentURL - returns the current page URL.
func (d *playwrightDriver) CurrentURL(ctx context.Context) (string, error) {
	return d.page.URL(), nil
}

// Title - returns the current page title.
func (d *playwrightDriver) Title(ctx context.Context) (string, error) {
	return d.page.Title()
}

// Screenshot - captures the current viewport.
func (d *playwrightDriver) Screenshot(ctx context.Context) ([]byte, error) {
	return d.page.Screenshot()
}

// Close - saves storage state if configured, then shuts everything down.
func (d *playwrightDriver) Close() error {
	var closeErr error

	if d.storagePath != "" && d.context != nil {
		if _, err := d.context.StorageState(d.storagePath); err != nil {
			if !strings.Contains(err.Error(), "closed") {
				closeErr = fmt.Errorf("failed to save storage state: %w", err)
			}
		}
	}

	if d.context != nil {
		if err := d.context.Close(); err != nil && closeErr == nil {
			closeErr = fmt.Errorf("failed to close context: %w", err)
		}
	}
	if d.browser != nil {
		if err := d.browser.Close(); err != nil && closeErr == nil {
			closeErr = fmt.Errorf("failed to close browser: %w", err)
		}
	}
	if d.pw != nil {
		if err := d.pw.Stop(); err != nil && closeErr == nil {
			closeErr = fmt.Errorf("failed to stop playwright: %w", err)
		}
	}
	return closeErr
}

// playwrightSelector maps a locator onto playwright's selector syntax, which
// understands css natively and xpath behind an "xpath=" prefix.
func playwrightSelector(loc locator.Locator) (string, error) {
	sel, isXPath, err := cssOrXPath(loc)
	if err != nil {
		return "", err
	}
	if isXPath {
		return "xpath=" + sel, nil
	}
	return sel, nil
}

type playwrightElement struct {
	handle playwright.ElementHandle
}

func (e *playwrightElement) Click(ctx context.Context) error {
	return e.handle.Click()
}

func (e *playwrightElement) Clear(ctx context.Context) error {
	return e.handle.Fill("")
}

func (e *playwrightElement) SendKeys(ctx context.Context, text string) error {
	return e.handle.Type(text)
}

func (e *playwrightElement) Text(ctx context.Context) (string, error) {
	return e.handle.InnerText()
}

func (e *playwrightElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	// GetAttribute cannot distinguish a missing attribute from an empty one,
	// so read through the DOM instead.
	result, err := e.handle.Evaluate("(el, name) => el.getAttribute(name)", name)
	if err != nil {
		return "", false, err
	}
	if result == nil {
		return "", false, nil
	}
	v, ok := result.(string)
	if !ok {
		return fmt.Sprintf("%v", result), true, nil
	}
	return v, true, nil
}

func (e *playwrightElement) CSSProperty(ctx context.Context, name string) (string, error) {
	result, err := e.handle.Evaluate("(el, name) => window.getComputedStyle(el).getPropertyValue(name)", name)
	if err != nil {
		return "", err
	}
	v, _ := result.(string)
	return v, nil
}

func (e *playwrightElement) Displayed(ctx context.Context) (bool, error) {
	return e.handle.IsVisible()
}

func (e *playwrightElement) Selected(ctx context.Context) (bool, error) {
	result, err := e.handle.Evaluate("el => el.checked === true || el.selected === true")
	if err != nil {
		return false, err
	}
	v, _ := result.(bool)
	return v, nil
}

func (e *playwrightElement) TagName(ctx context.Context) (string, error) {
	result, err := e.handle.Evaluate("el => el.tagName.toLowerCase()")
	if err != nil {
		return "", err
	}
	v, _ := result.(string)
	return v, nil
}
