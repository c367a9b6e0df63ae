package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// imageAttrs are checked in order for an image URL, lazy-loading attributes last.
var imageAttrs = []string{"src", "data-src", "data-lazy-src", "data-original"}

// ResolveURL makes ref absolute against baseURL. Absolute http(s) refs are
// returned unchanged, protocol-relative refs take the base scheme and
// anything else is resolved per RFC 3986. When either URL cannot be parsed
// ref is returned unchanged.
func ResolveURL(baseURL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	lower := strings.ToLower(ref)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return ref
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return ref
	}
	if strings.HasPrefix(ref, "//") {
		return base.Scheme + ":" + ref
	}

	rel, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(rel).String()
}

// imageURL returns the absolute image URL of sel, looking at sel's own
// attributes first and then at its first nested <img>.
func imageURL(sel *goquery.Selection, baseURL string) string {
	if v := firstAttr(sel, imageAttrs); v != "" {
		return ResolveURL(baseURL, v)
	}
	if goquery.NodeName(sel) == "img" {
		return ""
	}
	if v := firstAttr(sel.Find("img").First(), imageAttrs); v != "" {
		return ResolveURL(baseURL, v)
	}
	return ""
}

// linkURL returns the absolute href of sel if it is an anchor, otherwise
// of its first descendant anchor with an href.
func linkURL(sel *goquery.Selection, baseURL string) string {
	a := sel
	if goquery.NodeName(sel) != "a" {
		a = sel.Find("a[href]").First()
	}
	href := strings.TrimSpace(a.AttrOr("href", ""))
	if href == "" {
		return ""
	}
	return ResolveURL(baseURL, href)
}

func firstAttr(sel *goquery.Selection, names []string) string {
	for _, name := range names {
		if v := strings.TrimSpace(sel.AttrOr(name, "")); v != "" {
			return v
		}
	}
	return ""
}
