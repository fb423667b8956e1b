package interfaces

import (
	"context"
	"errors"

	"webpom/domain/locator"
)

// ErrNoSuchElement is returned by Driver lookups when no element matches.
// Adapters must wrap their backend's not-found failure in it so the waiting
// layer can keep polling without inspecting backend specific errors.
var ErrNoSuchElement = errors.New("no such element")

// Driver defines the browser session consumed by the page object layer.
// Lookups are primitive: they report the current state of the DOM and never
// wait. All waiting lives above the driver.
type Driver interface {
	// Navigate points the session at the given URL. It returns once the
	// driver reports navigation has been initiated.
	Navigate(ctx context.Context, url string) error

	// Find returns the first element matching the locator. A non-nil scope
	// restricts the lookup to descendants of that element. Returns
	// ErrNoSuchElement when nothing matches.
	Find(ctx context.Context, loc locator.Locator, scope WebElement) (WebElement, error)

	// FindAll returns every element matching the locator, possibly none.
	FindAll(ctx context.Context, loc locator.Locator, scope WebElement) ([]WebElement, error)

	// CurrentURL returns the session's current location.
	CurrentURL(ctx context.Context) (string, error)

	// Title returns the current page title.
	Title(ctx context.Context) (string, error)

	// Screenshot captures the current viewport as PNG bytes.
	Screenshot(ctx context.Context) ([]byte, error)

	// Close shuts down the browser session and releases its resources.
	Close() error
}

// WebElement is a live handle to an element resolved by a Driver.
type WebElement interface {
	// Click clicks the element.
	Click(ctx context.Context) error

	// Clear empties an input field.
	Clear(ctx context.Context) error

	// SendKeys types text into the element.
	SendKeys(ctx context.Context, text string) error

	// Text returns the element's visible text.
	Text(ctx context.Context) (string, error)

	// Attribute returns the value of the named attribute and whether the
	// attribute is present at all.
	Attribute(ctx context.Context, name string) (string, bool, error)

	// CSSProperty returns the computed value of the named css property.
	CSSProperty(ctx context.Context, name string) (string, error)

	// Displayed reports whether the element is currently visible.
	Displayed(ctx context.Context) (bool, error)

	// Selected reports whether a checkbox, radio or option is selected.
	Selected(ctx context.Context) (bool, error)

	// TagName returns the element's lowercase tag name.
	TagName(ctx context.Context) (string, error)
}
