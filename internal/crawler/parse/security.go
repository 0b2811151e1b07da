package parse

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/llmrank/crawlengine/internal/models"
)

// AnalyzeCORS flags unsafe target=_blank anchors, http:// resources
// embedded on an https page, and resources missing a crossorigin
// attribute. Mixed-content is only meaningful when the page itself is
// https.
func AnalyzeCORS(doc *goquery.Document, pageHost string, pageIsHTTPS bool) models.CORSReport {
	report := models.CORSReport{
		UnsafeBlankLinks:   countUnsafeBlankLinks(doc),
		MissingCrossorigin: countMissingCrossorigin(doc, pageHost),
	}
	if pageIsHTTPS {
		report.MixedContentCount = countMixedContent(doc)
	}
	report.HasIssues = report.UnsafeBlankLinks > 0 || report.MixedContentCount > 0 || report.MissingCrossorigin > 0
	return report
}

func countUnsafeBlankLinks(doc *goquery.Document) int {
	count := 0
	doc.Find(`a[target="_blank"]`).Each(func(_ int, s *goquery.Selection) {
		rel, _ := s.Attr("rel")
		rel = strings.ToLower(rel)
		if !strings.Contains(rel, "noopener") {
			count++
		}
	})
	return count
}

func countMixedContent(doc *goquery.Document) int {
	count := 0
	doc.Find("img[src], script[src], link[href]").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok {
			src, ok = s.Attr("href")
		}
		if !ok || strings.HasPrefix(src, "data:") || strings.HasPrefix(src, "blob:") {
			return
		}
		if strings.HasPrefix(strings.ToLower(src), "http://") {
			count++
		}
	})
	return count
}

func countMissingCrossorigin(doc *goquery.Document, pageHost string) int {
	count := 0
	doc.Find("img[src], script[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if src == "" || strings.HasPrefix(src, "data:") || strings.HasPrefix(src, "blob:") {
			return
		}
		u, err := url.Parse(src)
		if err != nil || u.Hostname() == "" || u.Hostname() == pageHost {
			return
		}
		if _, has := s.Attr("crossorigin"); !has {
			count++
		}
	})
	return count
}

// ExtractPDFLinks returns the subset of already-extracted links whose full
// URL string ends in ".pdf", case-insensitively (a query string or fragment
// after ".pdf" is not matched).
func ExtractPDFLinks(links []models.ExtractedLink) models.PdfLinks {
	var pdfs []string
	for _, l := range links {
		if strings.HasSuffix(strings.ToLower(l.URL), ".pdf") {
			pdfs = append(pdfs, l.URL)
		}
	}
	return models.PdfLinks{URLs: pdfs}
}
