package snapshot

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"renderdiff/internal/model"
)

// StructuralTags is the fixed tag table counted into SelectorCounts. Kept as
// a named table so tests can assert against it and the differ can treat a
// missing tag as zero.
var StructuralTags = []string{
	"main", "article", "section", "nav", "footer", "header",
	"aside", "form", "table", "iframe", "video", "canvas",
}

var (
	html5Doctype = regexp.MustCompile(`(?i)<!DOCTYPE\s+html>`)
	html4Doctype = regexp.MustCompile(`(?i)<!DOCTYPE\s+HTML\s+PUBLIC\s+"[^"]*//DTD\s+HTML\s+4`)
	xhtmlDoctype = regexp.MustCompile(`(?i)<!DOCTYPE\s+html\s+PUBLIC\s+"[^"]*//DTD\s+XHTML`)
)

// Extract parses raw markup into a PageSnapshot. The snapshot is a pure
// function of the markup and the page URL: missing fields come back as empty
// strings or zero counts, never as absent values.
func Extract(rawHTML, pageURL string) (*model.PageSnapshot, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page URL: %w", err)
	}

	// First view: everything as-is, scripts included, for element counts
	// and meta fields.
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	// Second view: script/style-stripped node tree for visible text,
	// headings and links.
	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	snap := &model.PageSnapshot{
		Headings:       extractHeadings(root),
		SelectorCounts: make(map[string]int, len(StructuralTags)),
	}

	snap.VisibleText = visibleText(root)
	snap.TextLength = len(snap.VisibleText)
	snap.WordCount = len(strings.Fields(snap.VisibleText))
	for _, texts := range snap.Headings {
		snap.HeadingCount += len(texts)
	}

	snap.InternalLinks, snap.ExternalLinks = extractLinks(root, base)

	snap.ImageCount = doc.Find("img").Length()
	snap.LinkCount = doc.Find("a").Length()
	snap.ScriptCount = doc.Find("script").Length()
	snap.JSONLDCount = doc.Find(`script[type="application/ld+json"]`).Length()
	for _, tag := range StructuralTags {
		snap.SelectorCounts[tag] = doc.Find(tag).Length()
	}

	snap.MetaTitle = strings.TrimSpace(doc.Find("title").First().Text())
	snap.MetaDescription, _ = doc.Find(`meta[name="description"]`).First().Attr("content")
	snap.Canonical, _ = doc.Find(`link[rel="canonical"]`).First().Attr("href")
	snap.OGTitle, _ = doc.Find(`meta[property="og:title"]`).First().Attr("content")
	snap.HTMLVersion = detectHTMLVersion(rawHTML)

	return snap, nil
}

// visibleText concatenates every text node outside script/style elements,
// collapsing whitespace runs to single spaces.
func visibleText(root *html.Node) string {
	var sb strings.Builder

	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style":
				return
			}
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(root)

	return strings.Join(strings.Fields(sb.String()), " ")
}

var headingLevels = map[string]int{
	"h1": 1, "h2": 2, "h3": 3, "h4": 4, "h5": 5, "h6": 6,
}

func extractHeadings(root *html.Node) map[int][]string {
	headings := make(map[int][]string)

	var visitNode func(*html.Node)
	visitNode = func(node *html.Node) {
		if node.Type == html.ElementNode {
			if level, ok := headingLevels[node.Data]; ok {
				text := strings.Join(strings.Fields(innerText(node)), " ")
				if text != "" {
					headings[level] = append(headings[level], text)
				}
				return
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			visitNode(child)
		}
	}
	visitNode(root)

	return headings
}

// extractLinks classifies every resolvable anchor href against the page
// host. Fragment-only and javascript: pseudo links are skipped, malformed
// hrefs are silently dropped, and each set is deduplicated in
// first-occurrence order and capped at model.MaxLinksPerSet.
func extractLinks(root *html.Node, base *url.URL) (internal, external []string) {
	seen := make(map[string]bool)

	var visitNode func(*html.Node)
	visitNode = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "a" {
			if href := hrefValue(node); href != "" {
				if resolved, ok := resolveHref(href, base); ok && !seen[resolved] {
					seen[resolved] = true
					if isInternal(resolved, base) {
						if len(internal) < model.MaxLinksPerSet {
							internal = append(internal, resolved)
						}
					} else if len(external) < model.MaxLinksPerSet {
						external = append(external, resolved)
					}
				}
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			visitNode(child)
		}
	}
	visitNode(root)

	return internal, external
}

func hrefValue(node *html.Node) string {
	for _, attr := range node.Attr {
		if attr.Key == "href" {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}

func resolveHref(href string, base *url.URL) (string, bool) {
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}
	if strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return "", false
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	return base.ResolveReference(parsed).String(), true
}

func isInternal(link string, base *url.URL) bool {
	parsed, err := url.Parse(link)
	if err != nil {
		return false
	}
	return strings.EqualFold(parsed.Host, base.Host)
}

// innerText extracts the text content inside a node (recursively), skipping
// script and style subtrees the same way visibleText does.
func innerText(node *html.Node) string {
	var sb strings.Builder
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(node)
	return sb.String()
}

// detectHTMLVersion inspects the doctype at the top of the document.
func detectHTMLVersion(rawHTML string) string {
	docStart := rawHTML
	if len(rawHTML) > 1000 {
		docStart = rawHTML[:1000]
	}

	switch {
	case xhtmlDoctype.MatchString(docStart):
		return "XHTML 1.0"
	case html4Doctype.MatchString(docStart):
		return "HTML 4.01"
	case html5Doctype.MatchString(docStart):
		return "HTML5"
	default:
		return "Unknown (possibly HTML5 without explicit DOCTYPE)"
	}
}
