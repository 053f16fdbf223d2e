package browser

import "testing"

func TestTargetFilter(t *testing.T) {
	tests := []struct {
		url      string
		devtools bool
		want     bool
	}{
		{"chrome://newtab/", false, true},
		{"chrome://newtab/", true, true},
		{"chrome://settings", false, false},
		{"chrome://settings", true, false},
		{"chrome://newtab", false, false},
		{"chrome-extension://abc/popup.html", true, false},
		{"chrome-untrusted://print/", true, false},
		{"devtools://devtools/bundled/inspector.html", false, false},
		{"devtools://devtools/bundled/inspector.html", true, true},
		{"https://example.com", false, true},
		{"about:blank", false, true},
		{"", false, true},
	}

	for _, tt := range tests {
		filter := NewTargetFilter(tt.devtools)
		if got := filter(tt.url); got != tt.want {
			t.Errorf("NewTargetFilter(%v)(%q) = %v, want %v", tt.devtools, tt.url, got, tt.want)
		}
	}
}
