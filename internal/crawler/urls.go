package crawler

import "strings"

var schemePrefixes = []string{"https://", "http://"}

// HostnameOf returns the host portion of an absolute URL, or the empty
// string when the URL carries no recognized scheme.
func HostnameOf(url string) string {
	for _, prefix := range schemePrefixes {
		if !strings.HasPrefix(url, prefix) {
			continue
		}
		rest := url[len(prefix):]
		if slash := strings.IndexByte(rest, '/'); slash >= 0 {
			return rest[:slash]
		}
		return rest
	}
	return ""
}

// PathOf returns the absolute path portion of an absolute URL, "/" when
// the URL has no path or no recognized scheme.
func PathOf(url string) string {
	for _, prefix := range schemePrefixes {
		if !strings.HasPrefix(url, prefix) {
			continue
		}
		rest := url[len(prefix):]
		if slash := strings.IndexByte(rest, '/'); slash >= 0 {
			return rest[slash:]
		}
		return "/"
	}
	return "/"
}
