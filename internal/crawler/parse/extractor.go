package parse

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/llmrank/crawlengine/internal/models"
)

// maxExtractorMatches bounds the number of matches a single regex
// extractor may return, so a pathological pattern can't produce unbounded
// output.
const maxExtractorMatches = 50

// RunExtractors evaluates every job-supplied extractor spec against doc.
// An invalid selector or pattern yields an empty match list rather than an
// error, so one bad spec never fails the whole page.
func RunExtractors(doc *goquery.Document, specs []models.ExtractorSpec) []models.ExtractorResult {
	if len(specs) == 0 {
		return nil
	}
	results := make([]models.ExtractorResult, 0, len(specs))
	for _, spec := range specs {
		var matches []string
		switch spec.ExtractorType {
		case "css_selector":
			matches = extractByCSS(doc, spec)
		case "regex":
			matches = extractByRegex(doc, spec)
		}
		results = append(results, models.ExtractorResult{Name: spec.Name, Matches: matches})
	}
	return results
}

func extractByCSS(doc *goquery.Document, spec models.ExtractorSpec) []string {
	defer func() { recover() }() // malformed selectors panic inside cascadia
	var matches []string
	doc.Find(spec.Selector).Each(func(_ int, s *goquery.Selection) {
		if spec.Attribute != "" {
			if v, ok := s.Attr(spec.Attribute); ok {
				matches = append(matches, v)
			}
			return
		}
		matches = append(matches, s.Text())
	})
	return matches
}

func extractByRegex(doc *goquery.Document, spec models.ExtractorSpec) []string {
	re, err := regexp.Compile(spec.Selector)
	if err != nil {
		return nil
	}
	html, err := doc.Html()
	if err != nil {
		return nil
	}
	found := re.FindAllString(html, maxExtractorMatches)
	return found
}
