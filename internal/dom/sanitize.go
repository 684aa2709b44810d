package dom

import "github.com/microcosm-cc/bluemonday"

// policy accepts the structural markup a landing page is built from and drops
// anything executable. Generated markup passes through here before it touches
// the editable surface.
var policy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("style").Globally()
	p.AllowAttrs("class").Globally()
	p.AllowElements("button", "section", "header", "footer", "nav", "main")
	p.AllowAttrs("type", "disabled").OnElements("button")
	return p
}()

// Sanitize strips scripts and event handlers from generated markup.
func Sanitize(markup string) string {
	return policy.Sanitize(markup)
}
