package browser

import (
	"fmt"
	"strings"

	"webpom/domain/locator"
)

// linkTextXPath translates a link-text locator into the xpath the backends
// without a native link-text strategy can execute.
func linkTextXPath(text string, partial bool) string {
	if partial {
		return fmt.Sprintf("//a[contains(normalize-space(.), %s)]", xpathLiteral(text))
	}
	return fmt.Sprintf("//a[normalize-space(.) = %s]", xpathLiteral(text))
}

// xpathLiteral quotes s as an xpath string literal. Values containing both
// quote characters need the concat() form.
func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	parts := strings.Split(s, `"`)
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `'"'`)
		}
		quoted = append(quoted, `"`+p+`"`)
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}

// cssOrXPath reduces a locator to either a css selector or an xpath
// expression, for backends that only understand those two languages.
func cssOrXPath(loc locator.Locator) (sel string, isXPath bool, err error) {
	switch loc.Strategy() {
	case locator.XPath:
		return loc.Value(), true, nil
	case locator.LinkText:
		return linkTextXPath(loc.Value(), false), true, nil
	case locator.PartialLinkText:
		return linkTextXPath(loc.Value(), true), true, nil
	default:
		css, err := loc.CSS()
		if err != nil {
			return "", false, err
		}
		return css, false, nil
	}
}
