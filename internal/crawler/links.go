package crawler

import "strings"

// Link is one extracted target, split into hostname and absolute path.
// An empty Host means the target resolves onto whatever host the body
// came from.
type Link struct {
	Host string
	Path string
}

// linkStartTokens open a URL candidate in the normalized body. The scan
// always takes the earliest match; a candidate begins right after it.
var linkStartTokens = []string{
	`href="`,
	`href='`,
	`src="`,
	`src='`,
	`url(`,
	"http://",
	"https://",
}

const urlTerminators = `"'#? ),`

// reformatBody sanitizes a raw response for scanning: ASCII letters are
// lowercased, newline and tab become spaces, and every byte outside the
// allowed set is dropped. HTML structure does not survive this, URL
// tokens do.
func reformatBody(body []byte) string {
	var b strings.Builder
	b.Grow(len(body))
	for _, ch := range body {
		switch {
		case ch >= 'A' && ch <= 'Z':
			b.WriteByte(ch + ('a' - 'A'))
		case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9':
			b.WriteByte(ch)
		case ch == '\n' || ch == '\t':
			b.WriteByte(' ')
		case strings.IndexByte(` .,/":#?+-_='()`, ch) >= 0:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// ExtractLinks scans a response body for link targets and resolves each
// against baseHost. Targets rejected by the filters are dropped. The
// scan never fails; bytes the sanitizer cannot keep are simply lost.
func ExtractLinks(body []byte, baseHost string, filters *Filters) []Link {
	if filters == nil {
		filters = DefaultFilters()
	}
	text := reformatBody(body)

	var links []Link
	pos := 0
	for pos < len(text) {
		start := scanNextCandidate(text, pos)
		if start < 0 {
			break
		}
		end := start
		for end < len(text) && strings.IndexByte(urlTerminators, text[end]) < 0 {
			end++
		}
		candidate := text[start:end]
		pos = end

		link := resolveCandidate(candidate, baseHost)
		if !filters.Allow(link.Host, link.Path, candidate) {
			continue
		}
		links = append(links, link)
	}
	return links
}

// scanNextCandidate returns the offset just past the earliest link start
// token at or after pos, or -1.
func scanNextCandidate(text string, pos int) int {
	bestMatch := -1
	bestStart := -1
	for _, tok := range linkStartTokens {
		idx := strings.Index(text[pos:], tok)
		if idx < 0 {
			continue
		}
		matchAt := pos + idx
		if bestMatch < 0 || matchAt < bestMatch {
			bestMatch = matchAt
			bestStart = matchAt + len(tok)
		}
	}
	return bestStart
}

// resolveCandidate normalizes one scanned candidate into a concrete
// (host, path) pair. Candidates opening with "/" stay on baseHost;
// candidates with no scheme at all are taken as site-relative paths;
// everything else is treated as an absolute URL.
func resolveCandidate(candidate, baseHost string) Link {
	if strings.HasPrefix(candidate, "/") {
		return Link{Host: baseHost, Path: candidate}
	}
	if !strings.Contains(candidate, "http") {
		return Link{Host: baseHost, Path: "/" + candidate}
	}
	return Link{Host: HostnameOf(candidate), Path: PathOf(candidate)}
}
