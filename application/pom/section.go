package pom

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"webpom/domain/interfaces"
	"webpom/domain/locator"
)

// WithRoot supplies a dynamic root locator for a section. It always takes
// precedence over the section's statically declared root.
func WithRoot(loc locator.Locator) Option {
	return func(o *options) { o.root = loc }
}

// WithRootElement anchors a section under an already resolved element
// instead of a locator. Takes precedence over both static and dynamic
// locator roots.
func WithRootElement(el interfaces.WebElement) Option {
	return func(o *options) { o.rootEl = el }
}

// WithAppendCSS appends raw css to the section's root selector.
func WithAppendCSS(css string) Option {
	return func(o *options) { o.appendCSS = css }
}

// WithPrependCSS prepends raw css to the section's root selector.
func WithPrependCSS(css string) Option {
	return func(o *options) { o.prependCSS = css }
}

// Section is a sub-scope of locators rooted under one element, for regions
// repeated across pages. Css-convertible child locators are combined under
// the root; xpath and link-text children cannot be css-scoped and are
// evaluated against the whole document instead.
type Section struct {
	drv     interfaces.Driver
	root    locator.Locator
	rootEl  interfaces.WebElement
	timeout time.Duration
	log     *logrus.Logger
}

// NewSection creates a section under the given static root. A dynamic root
// supplied via WithRoot or WithRootElement overrides staticRoot. Returns
// ErrUnresolvedRoot when no root can be determined or the root cannot anchor
// a css scope.
func NewSection(drv interfaces.Driver, staticRoot locator.Locator, opts ...Option) (*Section, error) {
	o := applyOptions(opts)

	if o.rootEl != nil {
		return &Section{drv: drv, rootEl: o.rootEl, timeout: o.timeout, log: o.log}, nil
	}

	root := staticRoot
	if !o.root.IsZero() {
		root = o.root
	}
	if root.IsZero() {
		return nil, ErrUnresolvedRoot
	}
	if !root.CSSConvertible() {
		return nil, fmt.Errorf("root %s cannot anchor a css scope: %w", root, ErrUnresolvedRoot)
	}

	css, _ := root.CSS()
	if o.prependCSS != "" {
		css = o.prependCSS + css
	}
	if o.appendCSS != "" {
		css += o.appendCSS
	}

	return &Section{
		drv:     drv,
		root:    locator.ByCSS(css),
		timeout: o.timeout,
		log:     o.log,
	}, nil
}

// Root returns the section's root as a bound element.
func (s *Section) Root() *Element {
	if s.rootEl != nil {
		return &Element{handle: s.rootEl, drv: s.drv, timeout: s.timeout, log: s.log}
	}
	return &Element{loc: s.root, drv: s.drv, timeout: s.timeout, log: s.log}
}

// RootLocator returns the section's resolved root locator. Zero when the
// section was anchored to an element handle.
func (s *Section) RootLocator() locator.Locator { return s.root }

// Bind binds a child locator under the section's root. Css-convertible
// locators are scoped as descendants of the root; xpath, link-text and
// partial-link-text locators fall back to whole-document lookup since they
// have no css form.
func (s *Section) Bind(loc locator.Locator) *Element {
	if !loc.CSSConvertible() {
		return &Element{loc: loc, drv: s.drv, timeout: s.timeout, log: s.log}
	}

	if s.rootEl != nil {
		css, _ := loc.CSS()
		return &Element{
			loc:     locator.ByCSS(css),
			drv:     s.drv,
			scope:   s.rootEl,
			timeout: s.timeout,
			log:     s.log,
		}
	}

	combined, _ := s.root.Combine(loc)
	return &Element{loc: combined, drv: s.drv, timeout: s.timeout, log: s.log}
}

// Nth returns a copy of the section scoped to the n-th root match, by
// appending an :nth-child pseudo class. The index is 1 based.
func (s *Section) Nth(n int) (*Section, error) {
	if s.rootEl != nil {
		return nil, fmt.Errorf("cannot index a section anchored to an element handle")
	}
	root, err := s.root.NthChild(n)
	if err != nil {
		return nil, err
	}
	return &Section{drv: s.drv, root: root, timeout: s.timeout, log: s.log}, nil
}

// All waits for at least one root match, then returns one section per match,
// each scoped by nth-child index.
func (s *Section) All(ctx context.Context) ([]*Section, error) {
	matches, err := s.Root().All(ctx)
	if err != nil {
		return nil, err
	}

	sections := make([]*Section, 0, len(matches))
	for i := range matches {
		sec, err := s.Nth(i + 1)
		if err != nil {
			return nil, err
		}
		sections = append(sections, sec)
	}
	return sections, nil
}
