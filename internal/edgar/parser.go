package edgar

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

const (
	// archivePrefix starts every link from an index page to a filing detail page.
	archivePrefix = "/Archives"

	// xmlSuffix ends the visible text of links to XML documents.
	xmlSuffix = ".xml"

	// noResultsMarker starts the <h1> of an index page for an unknown identifier.
	noResultsMarker = "No matching"
)

// Link is an anchor element with an href attribute.
type Link struct {
	// Href is the raw href attribute value.
	Href string

	// Text is the anchor's visible text with surrounding whitespace removed.
	Text string
}

// IndexPage holds what is extracted from a filing index page.
type IndexPage struct {
	// Heading is the text of the first <h1>, empty if the page has none.
	Heading string

	// FilingLinks are the links to filing detail pages, in page order.
	FilingLinks []Link
}

// NoResults reports whether EDGAR found no filer for the identifier.
func (p *IndexPage) NoResults() bool {
	return strings.HasPrefix(p.Heading, noResultsMarker)
}

// FilingPage holds what is extracted from a filing detail page.
type FilingPage struct {
	// DocumentLinks are the links whose text names an XML document, in page order.
	DocumentLinks []Link
}

// ParseIndexPage parses a filing index page.
// contentType is the response Content-Type, used to pick the character set.
func ParseIndexPage(r io.Reader, contentType string) (*IndexPage, error) {
	doc, err := parseHTML(r, contentType)
	if err != nil {
		return nil, err
	}

	page := &IndexPage{FilingLinks: make([]Link, 0)}
	if h1 := findFirst(doc, "h1"); h1 != nil {
		page.Heading = textContent(h1)
	}
	for _, link := range collectLinks(doc) {
		if strings.HasPrefix(link.Href, archivePrefix) {
			page.FilingLinks = append(page.FilingLinks, link)
		}
	}
	return page, nil
}

// ParseFilingPage parses a filing detail page.
func ParseFilingPage(r io.Reader, contentType string) (*FilingPage, error) {
	doc, err := parseHTML(r, contentType)
	if err != nil {
		return nil, err
	}

	page := &FilingPage{DocumentLinks: make([]Link, 0)}
	for _, link := range collectLinks(doc) {
		if strings.HasSuffix(link.Text, xmlSuffix) {
			page.DocumentLinks = append(page.DocumentLinks, link)
		}
	}
	return page, nil
}

// parseHTML decodes r according to contentType (or a <meta> charset) and
// parses it into a DOM.
func parseHTML(r io.Reader, contentType string) (*html.Node, error) {
	utf8Reader, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to detect page encoding: %w", err)
	}
	doc, err := html.Parse(utf8Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// collectLinks returns every <a> element that has an href attribute, in
// document order.
func collectLinks(doc *html.Node) []Link {
	links := make([]Link, 0)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href, ok := getAttr(n, "href"); ok {
				links = append(links, Link{
					Href: strings.TrimSpace(href),
					Text: strings.TrimSpace(textContent(n)),
				})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links
}

// findFirst returns the first element named tag in document order.
func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// textContent concatenates all text below n.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}
