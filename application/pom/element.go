package pom

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"webpom/domain/interfaces"
	"webpom/domain/locator"
	"webpom/domain/wait"
)

// Condition is an element readiness condition.
type Condition string

const (
	// ConditionExists requires the element to be attached to the DOM.
	ConditionExists Condition = "exists"
	// ConditionVisible requires the element to exist and be displayed.
	ConditionVisible Condition = "visible"
)

// Element pairs a locator with a live driver session. Resolution is lazy:
// nothing touches the browser until an interaction or read is called, and
// every call first waits for the element's readiness condition. Interactions
// wait for visibility, reads wait for existence.
type Element struct {
	loc     locator.Locator
	drv     interfaces.Driver
	scope   interfaces.WebElement
	handle  interfaces.WebElement
	timeout time.Duration
	log     *logrus.Logger
}

// Locator returns the locator this element was bound with.
func (e *Element) Locator() locator.Locator { return e.loc }

// resolve waits until the element satisfies cond and returns its handle.
func (e *Element) resolve(ctx context.Context, cond Condition) (interfaces.WebElement, error) {
	if e.handle != nil {
		return e.handle, nil
	}

	var found interfaces.WebElement
	err := wait.Until(ctx, e.timeout, fmt.Sprintf("element %s %s", e.loc, cond), func(ctx context.Context) (bool, error) {
		el, err := e.drv.Find(ctx, e.loc, e.scope)
		if err != nil {
			return false, err
		}
		if cond == ConditionVisible {
			visible, err := el.Displayed(ctx)
			if err != nil {
				return false, err
			}
			if !visible {
				return false, nil
			}
		}
		found = el
		return true, nil
	})
	if err != nil {
		var timeout *wait.TimeoutError
		if errors.As(err, &timeout) {
			return nil, &TimeoutError{Locator: e.loc, Condition: cond, Timeout: e.timeout, cause: err}
		}
		return nil, err
	}
	return found, nil
}

// Click waits for the element to be visible, then clicks it.
func (e *Element) Click(ctx context.Context) error {
	el, err := e.resolve(ctx, ConditionVisible)
	if err != nil {
		return err
	}
	e.log.Debugf("Clicking %s", e.loc)
	return el.Click(ctx)
}

// Type waits for visibility, clears the field, then types text into it.
func (e *Element) Type(ctx context.Context, text string) error {
	el, err := e.resolve(ctx, ConditionVisible)
	if err != nil {
		return err
	}
	e.log.Debugf("Typing into %s", e.loc)
	if err := el.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear %s: %w", e.loc, err)
	}
	return el.SendKeys(ctx, text)
}

// SendKeys waits for visibility and sends text without clearing first.
func (e *Element) SendKeys(ctx context.Context, text string) error {
	el, err := e.resolve(ctx, ConditionVisible)
	if err != nil {
		return err
	}
	return el.SendKeys(ctx, text)
}

// Submit waits for visibility and submits the enclosing form by sending a
// newline, which every backend translates to the Enter key.
func (e *Element) Submit(ctx context.Context) error {
	el, err := e.resolve(ctx, ConditionVisible)
	if err != nil {
		return err
	}
	return el.SendKeys(ctx, "\n")
}

// Clear waits for visibility and empties the input field.
func (e *Element) Clear(ctx context.Context) error {
	el, err := e.resolve(ctx, ConditionVisible)
	if err != nil {
		return err
	}
	return el.Clear(ctx)
}

// Text waits for the element to exist and returns its visible text.
func (e *Element) Text(ctx context.Context) (string, error) {
	el, err := e.resolve(ctx, ConditionExists)
	if err != nil {
		return "", err
	}
	return el.Text(ctx)
}

// Attribute waits for existence and returns the named attribute's value and
// whether the attribute is present.
func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	el, err := e.resolve(ctx, ConditionExists)
	if err != nil {
		return "", false, err
	}
	return el.Attribute(ctx, name)
}

// Value returns the element's value attribute, typically for inputs.
func (e *Element) Value(ctx context.Context) (string, error) {
	v, _, err := e.Attribute(ctx, "value")
	return v, err
}

// CSSProperty waits for existence and returns a computed css property value.
func (e *Element) CSSProperty(ctx context.Context, name string) (string, error) {
	el, err := e.resolve(ctx, ConditionExists)
	if err != nil {
		return "", err
	}
	return el.CSSProperty(ctx, name)
}

// Classes returns the element's css classes, empty when it has none.
func (e *Element) Classes(ctx context.Context) ([]string, error) {
	v, ok, err := e.Attribute(ctx, "class")
	if err != nil || !ok {
		return nil, err
	}
	return strings.Fields(v), nil
}

// HasClass reports whether the element carries the given css class.
func (e *Element) HasClass(ctx context.Context, name string) (bool, error) {
	classes, err := e.Classes(ctx)
	if err != nil {
		return false, err
	}
	for _, c := range classes {
		if c == name {
			return true, nil
		}
	}
	return false, nil
}

// Selected waits for existence and reports whether the element is selected.
func (e *Element) Selected(ctx context.Context) (bool, error) {
	el, err := e.resolve(ctx, ConditionExists)
	if err != nil {
		return false, err
	}
	return el.Selected(ctx)
}

// TagName waits for existence and returns the element's tag name.
func (e *Element) TagName(ctx context.Context) (string, error) {
	el, err := e.resolve(ctx, ConditionExists)
	if err != nil {
		return "", err
	}
	return el.TagName(ctx)
}

// Exists reports whether the element currently exists, without waiting.
func (e *Element) Exists(ctx context.Context) (bool, error) {
	if e.handle != nil {
		return true, nil
	}
	_, err := e.drv.Find(ctx, e.loc, e.scope)
	if errors.Is(err, interfaces.ErrNoSuchElement) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Visible reports whether the element currently exists and is displayed,
// without waiting.
func (e *Element) Visible(ctx context.Context) (bool, error) {
	el := e.handle
	if el == nil {
		var err error
		el, err = e.drv.Find(ctx, e.loc, e.scope)
		if errors.Is(err, interfaces.ErrNoSuchElement) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
	}
	return el.Displayed(ctx)
}

// Count returns the number of elements currently matching the locator.
func (e *Element) Count(ctx context.Context) (int, error) {
	els, err := e.drv.FindAll(ctx, e.loc, e.scope)
	if err != nil {
		return 0, err
	}
	return len(els), nil
}

// All waits until at least one element matches, then returns every match.
func (e *Element) All(ctx context.Context) ([]interfaces.WebElement, error) {
	var found []interfaces.WebElement
	err := wait.Until(ctx, e.timeout, fmt.Sprintf("any element %s exists", e.loc), func(ctx context.Context) (bool, error) {
		els, err := e.drv.FindAll(ctx, e.loc, e.scope)
		if err != nil {
			return false, err
		}
		if len(els) == 0 {
			return false, nil
		}
		found = els
		return true, nil
	})
	if err != nil {
		var timeout *wait.TimeoutError
		if errors.As(err, &timeout) {
			return nil, &TimeoutError{Locator: e.loc, Condition: ConditionExists, Timeout: e.timeout, cause: err}
		}
		return nil, err
	}
	return found, nil
}

// WaitUntilExists blocks until the element exists.
func (e *Element) WaitUntilExists(ctx context.Context) error {
	_, err := e.resolve(ctx, ConditionExists)
	return err
}

// WaitUntilVisible blocks until the element is visible.
func (e *Element) WaitUntilVisible(ctx context.Context) error {
	_, err := e.resolve(ctx, ConditionVisible)
	return err
}

// WaitUntilNotExists blocks until no element matches the locator.
func (e *Element) WaitUntilNotExists(ctx context.Context) error {
	return wait.Until(ctx, e.timeout, fmt.Sprintf("element %s gone", e.loc), func(ctx context.Context) (bool, error) {
		exists, err := e.Exists(ctx)
		if err != nil {
			return false, err
		}
		return !exists, nil
	})
}

// WaitUntilNotVisible blocks until the element is absent or hidden.
func (e *Element) WaitUntilNotVisible(ctx context.Context) error {
	return wait.Until(ctx, e.timeout, fmt.Sprintf("element %s hidden", e.loc), func(ctx context.Context) (bool, error) {
		visible, err := e.Visible(ctx)
		if err != nil {
			return false, err
		}
		return !visible, nil
	})
}

// WaitUntilTextEquals blocks until the element's text equals want.
func (e *Element) WaitUntilTextEquals(ctx context.Context, want string) error {
	_, err := wait.UntilEqual(ctx, e.timeout, want, func(ctx context.Context) (string, error) {
		return e.textNow(ctx)
	})
	return err
}

// WaitUntilTextContains blocks until the element's text contains want.
func (e *Element) WaitUntilTextContains(ctx context.Context, want string) error {
	_, err := wait.UntilContains(ctx, e.timeout, want, func(ctx context.Context) (string, error) {
		return e.textNow(ctx)
	})
	return err
}

// WaitUntilAttributeEquals blocks until the named attribute equals want.
func (e *Element) WaitUntilAttributeEquals(ctx context.Context, name, want string) error {
	_, err := wait.UntilEqual(ctx, e.timeout, want, func(ctx context.Context) (string, error) {
		el, err := e.findNow(ctx)
		if err != nil {
			return "", err
		}
		v, _, err := el.Attribute(ctx, name)
		return v, err
	})
	return err
}

// WaitUntilCountEquals blocks until exactly want elements match.
func (e *Element) WaitUntilCountEquals(ctx context.Context, want int) error {
	_, err := wait.UntilEqual(ctx, e.timeout, want, func(ctx context.Context) (int, error) {
		return e.Count(ctx)
	})
	return err
}

// textNow reads the element's text without the existence wait; used by the
// polling waits which supply their own.
func (e *Element) textNow(ctx context.Context) (string, error) {
	el, err := e.findNow(ctx)
	if err != nil {
		return "", err
	}
	return el.Text(ctx)
}

func (e *Element) findNow(ctx context.Context) (interfaces.WebElement, error) {
	if e.handle != nil {
		return e.handle, nil
	}
	return e.drv.Find(ctx, e.loc, e.scope)
}
