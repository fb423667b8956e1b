package pom

import (
	"errors"
	"fmt"
	"time"

	"webpom/domain/locator"
)

// ErrUnresolvedRoot is returned when a section is constructed without a
// usable root: neither a static root nor a dynamic one was supplied, or the
// supplied root cannot anchor a css scope.
var ErrUnresolvedRoot = errors.New("section has no usable root")

// TimeoutError reports an element that never reached its readiness condition
// within the wait budget. No interaction is attempted once it is returned.
type TimeoutError struct {
	Locator   locator.Locator
	Condition Condition
	Timeout   time.Duration
	cause     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("element %s still not %s after %s", e.Locator, e.Condition, e.Timeout)
}

func (e *TimeoutError) Unwrap() error { return e.cause }

// NavigationError reports a navigation the driver failed to perform. It is
// never retried; retry policy belongs to the caller.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("failed to navigate to %s: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }
