package pom

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"webpom/domain/interfaces"
	"webpom/domain/locator"
)

// DefaultTimeout is the process-wide default element wait budget.
const DefaultTimeout = 15 * time.Second

// Param is a single url query parameter. Parameters are passed as a slice so
// their order in the final url is the caller's insertion order.
type Param struct {
	Key   string
	Value string
}

type options struct {
	timeout    time.Duration
	log        *logrus.Logger
	root       locator.Locator
	rootEl     interfaces.WebElement
	appendCSS  string
	prependCSS string
}

// Option configures a Page or Section.
type Option func(*options)

// WithTimeout overrides the default element wait budget.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithLogger sets the logger used for interaction logging.
func WithLogger(log *logrus.Logger) Option {
	return func(o *options) { o.log = log }
}

// Page associates locators with a driver session and owns navigation. Bind
// turns a locator declaration into a lazily resolving Element.
type Page struct {
	drv     interfaces.Driver
	timeout time.Duration
	log     *logrus.Logger
}

// NewPage creates a page bound to the given driver session.
func NewPage(drv interfaces.Driver, opts ...Option) *Page {
	o := applyOptions(opts)
	return &Page{drv: drv, timeout: o.timeout, log: o.log}
}

func applyOptions(opts []Option) *options {
	o := &options{timeout: DefaultTimeout, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Bind binds a locator to this page's driver session and timeout.
func (p *Page) Bind(loc locator.Locator) *Element {
	return &Element{loc: loc, drv: p.drv, timeout: p.timeout, log: p.log}
}

// Open builds the target url from rawurl and params and navigates to it. It
// returns once the driver reports navigation initiated; waiting for page
// content is the caller's job, via waits on the page's elements.
func (p *Page) Open(ctx context.Context, rawurl string, params ...Param) error {
	target, err := BuildURL(rawurl, params...)
	if err != nil {
		return &NavigationError{URL: rawurl, Err: err}
	}
	p.log.Infof("Opening %s", target)
	if err := p.drv.Navigate(ctx, target); err != nil {
		return &NavigationError{URL: target, Err: err}
	}
	return nil
}

// Title returns the current page title.
func (p *Page) Title(ctx context.Context) (string, error) {
	return p.drv.Title(ctx)
}

// URL returns the session's current location.
func (p *Page) URL(ctx context.Context) (string, error) {
	return p.drv.CurrentURL(ctx)
}

// Screenshot captures the current viewport.
func (p *Page) Screenshot(ctx context.Context) ([]byte, error) {
	return p.drv.Screenshot(ctx)
}

// Driver exposes the underlying driver session, for constructing sections
// that share it.
func (p *Page) Driver() interfaces.Driver { return p.drv }

// Timeout returns the page's element wait budget.
func (p *Page) Timeout() time.Duration { return p.timeout }

// BuildURL appends params to rawurl as a percent-encoded query string. Query
// pairs already present in rawurl are kept, new ones are appended after them
// in insertion order. Spaces encode as %20.
func BuildURL(rawurl string, params ...Param) (string, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return "", err
	}

	var pairs []string
	if u.RawQuery != "" {
		pairs = strings.Split(u.RawQuery, "&")
	}
	for _, p := range params {
		pairs = append(pairs, encodeQueryPart(p.Key)+"="+encodeQueryPart(p.Value))
	}

	u.RawQuery = strings.Join(pairs, "&")
	return u.String(), nil
}

// encodeQueryPart percent-encodes a query key or value. QueryEscape would
// render spaces as "+"; element ids and search terms read better as %20.
func encodeQueryPart(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
