package crawler

import (
	"reflect"
	"testing"
)

func extract(t *testing.T, body, baseHost string) []Link {
	t.Helper()
	return ExtractLinks([]byte(body), baseHost, nil)
}

func TestReformatBody(t *testing.T) {
	in := "<html>\n\tHref=\"/X\"</html>"
	want := `html  href="/x"/html`
	if got := reformatBody([]byte(in)); got != want {
		t.Errorf("reformatBody = %q, want %q", got, want)
	}
}

func TestExtractLinksRelative(t *testing.T) {
	links := extract(t, `<a href="/about">about</a>`, "a.com")
	want := []Link{{Host: "a.com", Path: "/about"}}
	if !reflect.DeepEqual(links, want) {
		t.Errorf("got %v, want %v", links, want)
	}
}

func TestExtractLinksAbsolute(t *testing.T) {
	links := extract(t, `<a href="http://b.com/page">b</a>`, "a.com")
	want := []Link{{Host: "b.com", Path: "/page"}}
	if !reflect.DeepEqual(links, want) {
		t.Errorf("got %v, want %v", links, want)
	}
}

func TestExtractLinksSiteRelativeWithoutSlash(t *testing.T) {
	links := extract(t, `<a href="contact.html">c</a>`, "a.com")
	want := []Link{{Host: "a.com", Path: "/contact.html"}}
	if !reflect.DeepEqual(links, want) {
		t.Errorf("got %v, want %v", links, want)
	}
}

func TestExtractLinksTokenVariants(t *testing.T) {
	body := `<a href='/single'>s</a><img src="/pic.gif"><div style='background: url(/bg.gif)'>`
	links := extract(t, body, "a.com")
	want := []Link{
		{Host: "a.com", Path: "/single"},
		{Host: "a.com", Path: "/pic.gif"},
		{Host: "a.com", Path: "/bg.gif"},
	}
	if !reflect.DeepEqual(links, want) {
		t.Errorf("got %v, want %v", links, want)
	}
}

// The terminator set cuts candidates at fragments, queries, and quotes.
func TestExtractLinksTerminators(t *testing.T) {
	links := extract(t, `<a href="/page?session=1">p</a><a href="/doc#part">d</a>`, "a.com")
	want := []Link{
		{Host: "a.com", Path: "/page"},
		{Host: "a.com", Path: "/doc"},
	}
	if !reflect.DeepEqual(links, want) {
		t.Errorf("got %v, want %v", links, want)
	}
}

func TestExtractLinksForbiddenExtensions(t *testing.T) {
	body := `<link href="/style.css"><a href="/paper.pdf">p</a><img src="/logo.png"><a href="/ok">ok</a>`
	links := extract(t, body, "a.com")
	want := []Link{{Host: "a.com", Path: "/ok"}}
	if !reflect.DeepEqual(links, want) {
		t.Errorf("got %v, want %v", links, want)
	}
}

func TestExtractLinksTLDFilter(t *testing.T) {
	body := `<a href="http://good.com/">g</a><a href="http://weird.notatld/">w</a>`
	links := extract(t, body, "a.com")
	want := []Link{{Host: "good.com", Path: "/"}}
	if !reflect.DeepEqual(links, want) {
		t.Errorf("got %v, want %v", links, want)
	}
}

// A bare scheme token yields a candidate with its scheme already
// consumed, which the resolver can only treat as a path on the base
// host. The scan is lossy on purpose.
func TestExtractLinksBareSchemeToken(t *testing.T) {
	links := extract(t, `visit http://b.com/x today`, "a.com")
	want := []Link{{Host: "a.com", Path: "/b.com/x"}}
	if !reflect.DeepEqual(links, want) {
		t.Errorf("got %v, want %v", links, want)
	}
}

func TestExtractLinksUppercaseMarkup(t *testing.T) {
	links := extract(t, `<A HREF="/Upper">U</A>`, "a.com")
	want := []Link{{Host: "a.com", Path: "/upper"}}
	if !reflect.DeepEqual(links, want) {
		t.Errorf("got %v, want %v", links, want)
	}
}

func TestExtractLinksCustomFilters(t *testing.T) {
	filters := &Filters{
		AllowedTLDs:         []string{".test"},
		ForbiddenExtensions: []string{".zip"},
	}
	body := `<a href="http://h.test/ok">1</a><a href="http://h.com/no">2</a><a href="/file.zip">3</a>`
	links := ExtractLinks([]byte(body), "base.test", filters)
	want := []Link{{Host: "h.test", Path: "/ok"}}
	if !reflect.DeepEqual(links, want) {
		t.Errorf("got %v, want %v", links, want)
	}
}

func TestExtractLinksNoTokens(t *testing.T) {
	if links := extract(t, `<html>plain text, nothing linked</html>`, "a.com"); links != nil {
		t.Errorf("expected no links, got %v", links)
	}
}
