package latex

import "strings"

// EnsureProtocol returns u as an absolute http(s) URL, defaulting to https.
func EnsureProtocol(u string) string {
	if u == "" || strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return "https://" + u
}

// DisplayURL is the human-readable form of u shown on the page: scheme and a
// leading "www." removed. It is never used as a link target.
func DisplayURL(u string) string {
	s := strings.TrimPrefix(u, "https://")
	s = strings.TrimPrefix(s, "http://")
	return strings.TrimPrefix(s, "www.")
}

// link renders an arrowless hyperlink whose visible text is escaped.
func link(target, display string) string {
	return `\mbox{\hrefWithoutArrow{` + target + `}{` + Escape(display) + `}}`
}

// urlLink links u using its normalized target and display form.
func urlLink(u string) string {
	return link(EnsureProtocol(u), strings.TrimSuffix(DisplayURL(u), "/"))
}
