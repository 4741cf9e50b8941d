package ripple

import (
	"strings"

	"golang.org/x/text/language"
)

// AppDetails describes the host application.
type AppDetails struct {
	PackageName string `json:"packageName"`
	VersionName string `json:"versionName"`
	VersionCode string `json:"versionCode"`
	Title       string `json:"title"`
	AppID       string `json:"appId"`
}

// DeviceDetails describes the device the events originate from.
type DeviceDetails struct {
	Platform        string `json:"platform"`
	PlatformVersion string `json:"platformVersion"`
	Make            string `json:"make"`
	Model           string `json:"model"`
	Locale          string `json:"locale"`
	Carrier         string `json:"carrier"`
}

// SDKInfo names the SDK that produced the events.
type SDKInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// DefaultSDKInfo is stamped on events when no SDKInfo is configured.
var DefaultSDKInfo = SDKInfo{Name: "ripple-analytics-go", Version: "0.1.0"}

// canonicalLocale rewrites tags such as "en_us" into BCP 47 form ("en-US").
// It reports false when the value cannot be parsed; the input is then returned unchanged.
func canonicalLocale(locale string) (string, bool) {
	trimmed := strings.TrimSpace(locale)
	if trimmed == "" {
		return "", true
	}
	tag, err := language.Parse(strings.ReplaceAll(trimmed, "_", "-"))
	if err != nil {
		return locale, false
	}
	return tag.String(), true
}
