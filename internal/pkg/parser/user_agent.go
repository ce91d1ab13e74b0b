package parser

import "strings"

func ParseUserAgent(ua string) (os, browser string) {
	uaLower := strings.ToLower(ua)

	// OS detection. iPhone UAs contain "like Mac OS X" and android UAs
	// contain "linux", so the more specific platforms go first.
	if strings.Contains(uaLower, "iphone") || strings.Contains(uaLower, "ipad") {
		os = "iOS"
	} else if strings.Contains(uaLower, "android") {
		os = "Android"
	} else if strings.Contains(uaLower, "windows") {
		os = "Windows"
	} else if strings.Contains(uaLower, "mac os") {
		os = "macOS"
	} else if strings.Contains(uaLower, "linux") {
		os = "Linux"
	} else {
		os = "Unknown"
	}

	// Browser Detection
	if strings.Contains(uaLower, "chrome") && !strings.Contains(uaLower, "edge") {
		browser = "Chrome"
	} else if strings.Contains(uaLower, "safari") && !strings.Contains(uaLower, "chrome") {
		browser = "Safari"
	} else if strings.Contains(uaLower, "firefox") {
		browser = "Firefox"
	} else if strings.Contains(uaLower, "edge") {
		browser = "Edge"
	} else {
		browser = "Unknown"
	}

	return os, browser
}

func ParseDeviceType(ua string) string {
	uaLower := strings.ToLower(ua)
	if strings.Contains(uaLower, "ipad") || strings.Contains(uaLower, "tablet") {
		return "tablet"
	}
	if strings.Contains(uaLower, "mobile") || strings.Contains(uaLower, "android") || strings.Contains(uaLower, "iphone") {
		return "mobile"
	}
	return "desktop"
}
