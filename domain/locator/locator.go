// Package locator defines the value type describing how to find an element
// on a page: a lookup strategy plus a selector string. Locators are immutable;
// every combinator returns a new value. They carry no driver handle, which is
// what lets pages declare them as plain metadata and bind them later.
package locator

import "fmt"

// Strategy identifies an element lookup mechanism.
type Strategy string

const (
	ID              Strategy = "id"
	Name            Strategy = "name"
	CSS             Strategy = "css"
	Class           Strategy = "class"
	Tag             Strategy = "tag"
	XPath           Strategy = "xpath"
	LinkText        Strategy = "link_text"
	PartialLinkText Strategy = "partial_link_text"
)

// Locator is an immutable (strategy, value) pair.
type Locator struct {
	strategy Strategy
	value    string
}

// New creates a locator with the given strategy and raw value.
func New(strategy Strategy, value string) Locator {
	return Locator{strategy: strategy, value: value}
}

// ByID locates by element id attribute.
func ByID(value string) Locator { return New(ID, value) }

// ByName locates by element name attribute.
func ByName(value string) Locator { return New(Name, value) }

// ByCSS locates by a css selector.
func ByCSS(value string) Locator { return New(CSS, value) }

// ByClass locates by a single css class name.
func ByClass(value string) Locator { return New(Class, value) }

// ByTag locates by tag name, e.g. "div".
func ByTag(value string) Locator { return New(Tag, value) }

// ByXPath locates by an xpath expression.
func ByXPath(value string) Locator { return New(XPath, value) }

// ByLinkText locates an anchor by its full visible text.
func ByLinkText(value string) Locator { return New(LinkText, value) }

// ByPartialLinkText locates an anchor by a substring of its visible text.
func ByPartialLinkText(value string) Locator { return New(PartialLinkText, value) }

// Strategy returns the lookup strategy.
func (l Locator) Strategy() Strategy { return l.strategy }

// Value returns the raw selector value.
func (l Locator) Value() string { return l.value }

// IsZero reports whether the locator was never set.
func (l Locator) IsZero() bool { return l.strategy == "" && l.value == "" }

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.strategy, l.value)
}

// UnsupportedCombinationError is returned when a locator that cannot be
// expressed as a css fragment is used as an operand of a combination.
type UnsupportedCombinationError struct {
	Left  Locator
	Right Locator
}

func (e *UnsupportedCombinationError) Error() string {
	return fmt.Sprintf("cannot combine %s with %s: both locators must be css convertible", e.Left, e.Right)
}

// CSSConvertible reports whether the locator maps directly to a css selector
// fragment. XPath and the link text strategies do not.
func (l Locator) CSSConvertible() bool {
	switch l.strategy {
	case ID, Name, CSS, Class, Tag:
		return true
	default:
		return false
	}
}

// CSS returns the css selector fragment equivalent to this locator.
func (l Locator) CSS() (string, error) {
	switch l.strategy {
	case ID:
		return "#" + l.value, nil
	case Name:
		return fmt.Sprintf(`[name="%s"]`, l.value), nil
	case CSS:
		return l.value, nil
	case Class:
		return "." + l.value, nil
	case Tag:
		return l.value, nil
	default:
		return "", fmt.Errorf("locator %s has no css equivalent", l)
	}
}

// Combine produces a new css locator matching other as a descendant of l.
// Both operands must be css convertible.
func (l Locator) Combine(other Locator) (Locator, error) {
	if !l.CSSConvertible() || !other.CSSConvertible() {
		return Locator{}, &UnsupportedCombinationError{Left: l, Right: other}
	}
	left, _ := l.CSS()
	right, _ := other.CSS()
	return ByCSS(left + " " + right), nil
}

// DirectDescendant produces a css locator matching css as an immediate child
// of l, equivalent to "parent > child".
func (l Locator) DirectDescendant(css string) (Locator, error) {
	left, err := l.CSS()
	if err != nil {
		return Locator{}, err
	}
	return ByCSS(left + " > " + css), nil
}

// ImmediateSibling produces a css locator matching css as the sibling
// immediately following l, equivalent to "a + b".
func (l Locator) ImmediateSibling(css string) (Locator, error) {
	left, err := l.CSS()
	if err != nil {
		return Locator{}, err
	}
	return ByCSS(left + " + " + css), nil
}

// GeneralSibling produces a css locator matching css as any sibling
// following l, equivalent to "a ~ b".
func (l Locator) GeneralSibling(css string) (Locator, error) {
	left, err := l.CSS()
	if err != nil {
		return Locator{}, err
	}
	return ByCSS(left + " ~ " + css), nil
}

// Or produces a css locator matching either operand, using the css group
// operator ",".
func (l Locator) Or(other Locator) (Locator, error) {
	if !l.CSSConvertible() || !other.CSSConvertible() {
		return Locator{}, &UnsupportedCombinationError{Left: l, Right: other}
	}
	left, _ := l.CSS()
	right, _ := other.CSS()
	return ByCSS(left + "," + right), nil
}

// Append returns a copy of the locator with suffix appended to its raw value.
func (l Locator) Append(suffix string) Locator {
	return New(l.strategy, l.value+suffix)
}

// NthChild appends an :nth-child pseudo class to the locator's css form.
// The index is 1 based.
func (l Locator) NthChild(n int) (Locator, error) {
	css, err := l.CSS()
	if err != nil {
		return Locator{}, err
	}
	return ByCSS(fmt.Sprintf("%s:nth-child(%d)", css, n)), nil
}

// Format returns a copy of the locator with printf style substitution applied
// to its value. Useful for templated selectors declared once and filled in
// per test.
func (l Locator) Format(args ...any) Locator {
	return New(l.strategy, fmt.Sprintf(l.value, args...))
}
