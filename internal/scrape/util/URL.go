package util

import (
	"net/url"
	"strings"
)

// AbsURL resolves href against base. It returns "" for hrefs that cannot be
// resolved into an http(s) URL.
func AbsURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		if ref.Scheme != "http" && ref.Scheme != "https" {
			return ""
		}
		return ref.String()
	}
	b, err := url.Parse(strings.TrimSpace(base))
	if err != nil || b.Host == "" {
		return ""
	}
	return b.ResolveReference(ref).String()
}

// FirstPathSegment returns the first non-empty path segment of raw when its
// host contains hostPart. ok is false otherwise.
func FirstPathSegment(raw, hostPart string) (seg string, ok bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	if !strings.Contains(strings.ToLower(u.Host), hostPart) {
		return "", false
	}
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			return s, true
		}
	}
	return "", false
}

// SlugFromName is the fallback board identifier: lower-cased, spaces removed.
func SlugFromName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "")
}
