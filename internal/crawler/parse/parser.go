// Package parse implements static HTML extraction: the title, metadata,
// headings, links, structured data, readability, and security heuristics
// computed from a fetched page's raw body, with no JavaScript execution.
package parse

import (
	"encoding/json"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/llmrank/crawlengine/internal/models"
)

// Parse runs the full static extraction surface against an HTML document,
// resolving relative links against pageURL.
func Parse(pageURL string, body io.Reader, extractors []models.ExtractorSpec) (*models.ParsedPage, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, err
	}

	base, _ := url.Parse(pageURL)

	page := &models.ParsedPage{
		Title:           strings.TrimSpace(doc.Find("title").First().Text()),
		MetaDescription: metaContent(doc, "description"),
		Canonical:       canonicalLink(doc),
		Headings:        extractHeadings(doc),
		Links:           extractLinks(doc, base),
		Images:          extractImageStats(doc),
		JSONLD:          extractJSONLD(doc),
		RobotsMeta:      metaContent(doc, "robots"),
	}
	page.SchemaTypes = schemaTypesFrom(page.JSONLD)
	page.OGTitle = metaProperty(doc, "og:title")
	page.OGDescription = metaProperty(doc, "og:description")
	page.OGImage = metaProperty(doc, "og:image")
	page.OGType = metaProperty(doc, "og:type")

	text := getAllText(doc)
	page.WordCount = countWords(text)
	page.Flesch = ComputeFlesch(text)

	htmlBytes := htmlByteLen(doc)
	page.TextHTMLRatio = ComputeTextHTMLRatio(text, htmlBytes)

	pageHost := ""
	if base != nil {
		pageHost = base.Hostname()
	}
	page.CORS = AnalyzeCORS(doc, pageHost, base != nil && base.Scheme == "https")
	page.PDFLinks = ExtractPDFLinks(page.Links)

	page.CustomExtractions = RunExtractors(doc, extractors)

	return page, nil
}

func metaContent(doc *goquery.Document, name string) string {
	val, _ := doc.Find(`meta[name="` + name + `"]`).First().Attr("content")
	return strings.TrimSpace(val)
}

func metaProperty(doc *goquery.Document, property string) string {
	val, _ := doc.Find(`meta[property="` + property + `"]`).First().Attr("content")
	return strings.TrimSpace(val)
}

func canonicalLink(doc *goquery.Document) string {
	href, _ := doc.Find(`link[rel="canonical"]`).First().Attr("href")
	return strings.TrimSpace(href)
}

func extractHeadings(doc *goquery.Document) models.Heading {
	var h models.Heading
	collect := func(tag string) []string {
		var out []string
		doc.Find(tag).Each(func(_ int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if text != "" {
				out = append(out, text)
			}
		})
		return out
	}
	h.H1 = collect("h1")
	h.H2 = collect("h2")
	h.H3 = collect("h3")
	h.H4 = collect("h4")
	h.H5 = collect("h5")
	h.H6 = collect("h6")
	return h
}

func extractLinks(doc *goquery.Document, base *url.URL) []models.ExtractedLink {
	var links []models.ExtractedLink
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		resolved, ok := resolve(base, href)
		if !ok || seen[resolved] {
			return
		}
		seen[resolved] = true

		rel, _ := s.Attr("rel")
		internal := isInternal(base, resolved)
		links = append(links, models.ExtractedLink{
			URL:        resolved,
			AnchorText: strings.TrimSpace(s.Text()),
			Rel:        rel,
			Internal:   internal,
		})
	})
	return links
}

func resolve(base *url.URL, href string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	return u.String(), true
}

func isInternal(base *url.URL, link string) bool {
	if base == nil {
		return false
	}
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return u.Hostname() == base.Hostname()
}

func extractImageStats(doc *goquery.Document) models.ImageStats {
	stats := models.ImageStats{}
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		stats.Total++
		alt, exists := s.Attr("alt")
		if !exists || strings.TrimSpace(alt) == "" {
			stats.MissingAlt++
		}
	})
	return stats
}

func extractJSONLD(doc *goquery.Document) []map[string]any {
	var out []map[string]any
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var obj map[string]any
		if err := json.Unmarshal([]byte(s.Text()), &obj); err == nil {
			out = append(out, obj)
		}
	})
	return out
}

func schemaTypesFrom(jsonLD []map[string]any) []string {
	seen := make(map[string]bool)
	var types []string
	for _, obj := range jsonLD {
		t, ok := obj["@type"]
		if !ok {
			continue
		}
		if s, ok := t.(string); ok && !seen[s] {
			seen[s] = true
			types = append(types, s)
		}
	}
	return types
}

func htmlByteLen(doc *goquery.Document) int {
	html, err := doc.Html()
	if err != nil {
		return 0
	}
	return len(html)
}

// getAllText collects visible text from the document, recursively skipping
// the subtrees of <script> and <style> elements.
func getAllText(doc *goquery.Document) string {
	var sb strings.Builder
	collectText(doc.Selection, &sb)
	return sb.String()
}

func collectText(sel *goquery.Selection, sb *strings.Builder) {
	sel.Contents().Each(func(_ int, node *goquery.Selection) {
		if goquery.NodeName(node) == "script" || goquery.NodeName(node) == "style" {
			return
		}
		if len(node.Nodes) > 0 && node.Nodes[0].Type == html.TextNode {
			sb.WriteString(node.Text())
			sb.WriteString(" ")
			return
		}
		collectText(node, sb)
	})
}
