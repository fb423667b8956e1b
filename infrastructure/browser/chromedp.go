package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/css"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"webpom/domain/interfaces"
	"webpom/domain/locator"
	"webpom/infrastructure/config"
)

type chromedpDriver struct {
	ctx         context.Context
	cancelAlloc context.CancelFunc
	cancelCtx   context.CancelFunc
	logger      *logrus.Logger
}

// NewChromedpDriver launches a Chrome instance over the DevTools protocol.
func NewChromedpDriver(cfg *config.Config, logger *logrus.Logger) (interfaces.Driver, error) {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if !cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if cfg.ChromeBinaryPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ChromeBinaryPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(logger.Debugf))

	// Start the browser and enable the domains element reads depend on.
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		if err := dom.Enable().Do(ctx); err != nil {
			return err
		}
		return css.Enable().Do(ctx)
	}))
	if err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start chrome: %w", err)
	}

	return &chromedpDriver{
		ctx:         ctx,
		cancelAlloc: cancelAlloc,
		cancelCtx:   cancelCtx,
		logger:      logger,
	}, nil
}

// Navigate - navigates to the URL, returning once navigation is initiated
// rather than waiting for the load event.
func (d *chromedpDriver) Navigate(ctx context.Context, url string) error {
	d.logger.Infof("Navigating to: %s", url)
	return chromedp.Run(d.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, _, errorText, err := page.Navigate(url).Do(ctx)
		if err != nil {
			return err
		}
		if errorText != "" {
			return fmt.Errorf("navigation failed: %s", errorText)
		}
		return nil
	}))
}

// Find - returns the first element matching the locator without waiting.
func (d *chromedpDriver) Find(ctx context.Context, loc locator.Locator, scope interfaces.WebElement) (interfaces.WebElement, error) {
	nodes, err := d.query(loc, scope)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrNoSuchElement, loc)
	}
	return &chromedpElement{drv: d, node: nodes[0]}, nil
}

// FindAll - returns every element matching the locator, possibly none.
func (d *chromedpDriver) FindAll(ctx context.Context, loc locator.Locator, scope interfaces.WebElement) ([]interfaces.WebElement, error) {
	nodes, err := d.query(loc, scope)
	if err != nil {
		return nil, err
	}

	elements := make([]interfaces.WebElement, 0, len(nodes))
	for _, n := range nodes {
		elements = append(elements, &chromedpElement{drv: d, node: n})
	}
	return elements, nil
}

// query resolves a locator to DOM nodes. Css selectors run scoped under the
// given node when one is set; xpath and link-text run through the DevTools
// search API, which is always document wide.
func (d *chromedpDriver) query(loc locator.Locator, scope interfaces.WebElement) ([]*cdp.Node, error) {
	sel, isXPath, err := cssOrXPath(loc)
	if err != nil {
		return nil, err
	}

	queryOpts := []chromedp.QueryOption{chromedp.AtLeast(0)}
	if isXPath {
		queryOpts = append(queryOpts, chromedp.BySearch)
	} else {
		queryOpts = append(queryOpts, chromedp.ByQueryAll)
		if scope != nil {
			queryOpts = append(queryOpts, chromedp.FromNode(scope.(*chromedpElement).node))
		}
	}

	var nodes []*cdp.Node
	if err := chromedp.Run(d.ctx, chromedp.Nodes(sel, &nodes, queryOpts...)); err != nil {
		return nil, fmt.Errorf("lookup %s failed: %w", loc, err)
	}
	return nodes, nil
}

// CurrentURL - returns the current page URL.
func (d *chromedpDriver) CurrentURL(ctx context.Context) (string, error) {
	var url string
	err := chromedp.Run(d.ctx, chromedp.Location(&url))
	return url, err
}

// Title - returns the current page title.
func (d *chromedpDriver) Title(ctx context.Context) (string, error) {
	var title string
	err := chromedp.Run(d.ctx, chromedp.Title(&title))
	return title, err
}

// Screenshot - captures the current viewport.
func (d *chromedpDriver) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	err := chromedp.Run(d.ctx, chromedp.CaptureScreenshot(&buf))
	return buf, err
}

// Close - shuts down the browser and the allocator.
func (d *chromedpDriver) Close() error {
	d.cancelCtx()
	d.cancelAlloc()
	return nil
}

type chromedpElement struct {
	drv  *chromedpDriver
	node *cdp.Node
}

func (e *chromedpElement) ids() []cdp.NodeID {
	return []cdp.NodeID{e.node.NodeID}
}

func (e *chromedpElement) Click(ctx context.Context) error {
	return chromedp.Run(e.drv.ctx, chromedp.MouseClickNode(e.node))
}

func (e *chromedpElement) Clear(ctx context.Context) error {
	return chromedp.Run(e.drv.ctx, chromedp.Clear(e.ids(), chromedp.ByNodeID))
}

func (e *chromedpElement) SendKeys(ctx context.Context, text string) error {
	return chromedp.Run(e.drv.ctx, chromedp.SendKeys(e.ids(), text, chromedp.ByNodeID))
}

func (e *chromedpElement) Text(ctx context.Context) (string, error) {
	var text string
	err := chromedp.Run(e.drv.ctx, chromedp.Text(e.ids(), &text, chromedp.ByNodeID))
	return text, err
}

func (e *chromedpElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	var value string
	var ok bool
	err := chromedp.Run(e.drv.ctx, chromedp.AttributeValue(e.ids(), name, &value, &ok, chromedp.ByNodeID))
	if err != nil {
		return "", false, err
	}
	return value, ok, nil
}

func (e *chromedpElement) CSSProperty(ctx context.Context, name string) (string, error) {
	var value string
	err := chromedp.Run(e.drv.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		computed, err := css.GetComputedStyleForNode(e.node.NodeID).Do(ctx)
		if err != nil {
			return err
		}
		for _, prop := range computed {
			if prop.Name == name {
				value = prop.Value
				return nil
			}
		}
		return nil
	}))
	return value, err
}

func (e *chromedpElement) Displayed(ctx context.Context) (bool, error) {
	return e.evalBool(`function() {
		const style = window.getComputedStyle(this);
		const rect = this.getBoundingClientRect();
		return style.display !== 'none' && style.visibility !== 'hidden' &&
			rect.width > 0 && rect.height > 0;
	}`)
}

func (e *chromedpElement) Selected(ctx context.Context) (bool, error) {
	return e.evalBool(`function() {
		return this.checked === true || this.selected === true;
	}`)
}

func (e *chromedpElement) TagName(ctx context.Context) (string, error) {
	return strings.ToLower(e.node.NodeName), nil
}

// evalBool runs a javascript function with `this` bound to the element and
// returns its boolean result.
func (e *chromedpElement) evalBool(fn string) (bool, error) {
	var result bool
	err := chromedp.Run(e.drv.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		obj, err := dom.ResolveNode().WithNodeID(e.node.NodeID).Do(ctx)
		if err != nil {
			return err
		}
		res, exc, err := runtime.CallFunctionOn(fn).
			WithObjectID(obj.ObjectID).
			WithReturnByValue(true).
			Do(ctx)
		if err != nil {
			return err
		}
		if exc != nil {
			return fmt.Errorf("javascript evaluation failed: %s", exc.Text)
		}
		return json.Unmarshal(res.Value, &result)
	}))
	return result, err
}
