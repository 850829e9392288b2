// Package htmlsanitize strips dangerous markup from submitter-provided text
// before it is rendered as HTML. Descriptions come from arbitrary Discord
// users, so everything outside a small safe subset is removed.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var policy = bluemonday.UGCPolicy()

// Sanitize returns s with unsafe HTML removed. Plain text passes through
// unchanged; scripts, event handlers, and javascript: URLs do not survive.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}
