// Package pom implements the page object model layer: pages and sections
// declare named locators, Bind turns each declaration into an Element bound
// to the live driver session, and every Element access waits for its
// readiness condition before touching the browser.
//
// A page object is an ordinary struct wrapping Page (or Section) whose
// constructor binds its locators once:
//
//	type LoginPage struct {
//		*pom.Page
//		User   *pom.Element
//		Pass   *pom.Element
//		Submit *pom.Element
//	}
//
//	func NewLoginPage(drv interfaces.Driver) *LoginPage {
//		p := pom.NewPage(drv)
//		return &LoginPage{
//			Page:   p,
//			User:   p.Bind(locator.ByID("user")),
//			Pass:   p.Bind(locator.ByName("password")),
//			Submit: p.Bind(locator.ByCSS("button[type=submit]")),
//		}
//	}
package pom
