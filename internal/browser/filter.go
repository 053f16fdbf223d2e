package browser

import "strings"

// TargetFilter reports whether a target with the given URL is visible to
// automation.
type TargetFilter func(url string) bool

// hiddenPrefixes are browser-internal schemes that automation never sees.
var hiddenPrefixes = []string{
	"chrome://",
	"chrome-extension://",
	"chrome-untrusted://",
}

// NewTargetFilter builds the visibility predicate. DevTools targets are only
// visible when devtools is true.
func NewTargetFilter(devtools bool) TargetFilter {
	return func(url string) bool {
		if url == NewTabURL {
			return true
		}
		for _, prefix := range hiddenPrefixes {
			if strings.HasPrefix(url, prefix) {
				return false
			}
		}
		if !devtools && strings.HasPrefix(url, DevtoolsURLPrefix) {
			return false
		}
		return true
	}
}
