// Package sanitize holds the HTML policies shared by template titles and
// block handlers.
package sanitize

import (
	"html"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce   sync.Once
	strictPolicy *bluemonday.Policy
	ugcPolicy    *bluemonday.Policy
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	policyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
		ugcPolicy = bluemonday.UGCPolicy()
	})
	return strictPolicy, ugcPolicy
}

// StripTags removes all markup from s and returns plain text.
func StripTags(s string) string {
	strict, _ := policies()
	return html.UnescapeString(strict.Sanitize(s))
}

// UGC keeps the markup allowed in user-generated content and drops the rest,
// including unsafe link schemes.
func UGC(s string) string {
	_, ugc := policies()
	return ugc.Sanitize(s)
}
