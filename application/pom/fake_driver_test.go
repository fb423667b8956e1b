package pom

import (
	"context"
	"fmt"
	"sync"
	"time"

	"webpom/domain/interfaces"
	"webpom/domain/locator"
)

// testTimeout is the wait budget used across these tests, long enough for a
// few poll cycles and short enough to keep timeout cases fast.
const testTimeout = 400 * time.Millisecond

// fakeDriver is an in-memory Driver for exercising the page object layer
// without a browser. Elements are registered per locator; scoped lookups walk
// the parent element's own children.
type fakeDriver struct {
	mu       sync.Mutex
	elements map[string][]*fakeElement
	visited  []string
	title    string
	url      string
	navErr   error
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{elements: make(map[string][]*fakeElement)}
}

func (d *fakeDriver) add(loc locator.Locator, el *fakeElement) *fakeElement {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.elements[loc.String()] = append(d.elements[loc.String()], el)
	return el
}

func (d *fakeDriver) visitedURLs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.visited...)
}

func (d *fakeDriver) Navigate(ctx context.Context, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.navErr != nil {
		return d.navErr
	}
	d.visited = append(d.visited, url)
	d.url = url
	return nil
}

func (d *fakeDriver) Find(ctx context.Context, loc locator.Locator, scope interfaces.WebElement) (interfaces.WebElement, error) {
	els, err := d.FindAll(ctx, loc, scope)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrNoSuchElement, loc)
	}
	return els[0], nil
}

func (d *fakeDriver) FindAll(ctx context.Context, loc locator.Locator, scope interfaces.WebElement) ([]interfaces.WebElement, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var matches []*fakeElement
	if scope != nil {
		matches = scope.(*fakeElement).children[loc.String()]
	} else {
		matches = d.elements[loc.String()]
	}

	els := make([]interfaces.WebElement, 0, len(matches))
	for _, el := range matches {
		els = append(els, el)
	}
	return els, nil
}

func (d *fakeDriver) CurrentURL(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url, nil
}

func (d *fakeDriver) Title(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.title, nil
}

func (d *fakeDriver) Screenshot(ctx context.Context) ([]byte, error) {
	return []byte("png"), nil
}

func (d *fakeDriver) Close() error { return nil }

type fakeElement struct {
	mu       sync.Mutex
	visible  bool
	text     string
	tag      string
	selected bool
	attrs    map[string]string
	css      map[string]string
	children map[string][]*fakeElement

	clicks  int
	typed   []string
	cleared int
}

func newFakeElement() *fakeElement {
	return &fakeElement{
		visible:  true,
		attrs:    make(map[string]string),
		css:      make(map[string]string),
		children: make(map[string][]*fakeElement),
	}
}

func (e *fakeElement) withText(s string) *fakeElement {
	e.text = s
	return e
}

func (e *fakeElement) withAttr(name, value string) *fakeElement {
	e.attrs[name] = value
	return e
}

func (e *fakeElement) hidden() *fakeElement {
	e.visible = false
	return e
}

func (e *fakeElement) withChild(loc locator.Locator, child *fakeElement) *fakeElement {
	e.children[loc.String()] = append(e.children[loc.String()], child)
	return e
}

func (e *fakeElement) setVisible(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.visible = v
}

func (e *fakeElement) setText(s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.text = s
}

func (e *fakeElement) clickCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clicks
}

func (e *fakeElement) typedKeys() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.typed...)
}

func (e *fakeElement) Click(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clicks++
	return nil
}

func (e *fakeElement) Clear(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cleared++
	return nil
}

func (e *fakeElement) SendKeys(ctx context.Context, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.typed = append(e.typed, text)
	return nil
}

func (e *fakeElement) Text(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.text, nil
}

func (e *fakeElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.attrs[name]
	return v, ok, nil
}

func (e *fakeElement) CSSProperty(ctx context.Context, name string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.css[name], nil
}

func (e *fakeElement) Displayed(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.visible, nil
}

func (e *fakeElement) Selected(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selected, nil
}

func (e *fakeElement) TagName(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tag, nil
}
