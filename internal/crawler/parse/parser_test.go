package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmrank/crawlengine/internal/models"
)

const testHTML = `<!DOCTYPE html>
<html>
<head>
	<title>  Example Page  </title>
	<meta name="description" content="A test page">
	<meta name="robots" content="index,follow">
	<meta property="og:title" content="OG Title">
	<link rel="canonical" href="https://example.com/canonical">
	<script type="application/ld+json">{"@type": "Article", "name": "x"}</script>
	<style>.hidden { display: none; }</style>
	<script>var shouldNotAppearInText = 1;</script>
</head>
<body>
	<h1>Main Heading</h1>
	<h2>Sub Heading</h2>
	<p>Some visible paragraph text that should be counted.</p>
	<a href="/internal-page">Internal link</a>
	<a href="https://external.com/page" target="_blank">External link</a>
	<a href="report.pdf">PDF report</a>
	<img src="/logo.png">
	<img src="/nologo.png" alt="">
</body>
</html>`

func TestParseExtractsTitleAndMeta(t *testing.T) {
	page, err := Parse("https://example.com/start", strings.NewReader(testHTML), nil)
	require.NoError(t, err)
	assert.Equal(t, "Example Page", page.Title)
	assert.Equal(t, "A test page", page.MetaDescription)
	assert.Equal(t, "https://example.com/canonical", page.Canonical)
	assert.Equal(t, "index,follow", page.RobotsMeta)
	assert.Equal(t, "OG Title", page.OGTitle)
}

func TestParseExtractsHeadings(t *testing.T) {
	page, err := Parse("https://example.com/start", strings.NewReader(testHTML), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Main Heading"}, page.Headings.H1)
	assert.Equal(t, []string{"Sub Heading"}, page.Headings.H2)
}

func TestParseExtractsLinksWithInternalFlag(t *testing.T) {
	page, err := Parse("https://example.com/start", strings.NewReader(testHTML), nil)
	require.NoError(t, err)
	var internal, external int
	for _, l := range page.Links {
		if l.Internal {
			internal++
		} else {
			external++
		}
	}
	assert.Equal(t, 2, internal) // internal-page + report.pdf
	assert.Equal(t, 1, external)
}

func TestParseExtractsImageStats(t *testing.T) {
	page, err := Parse("https://example.com/start", strings.NewReader(testHTML), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Images.Total)
	assert.Equal(t, 1, page.Images.MissingAlt)
}

func TestParseExtractsSchemaTypes(t *testing.T) {
	page, err := Parse("https://example.com/start", strings.NewReader(testHTML), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Article"}, page.SchemaTypes)
}

func TestParseExcludesScriptAndStyleFromText(t *testing.T) {
	page, err := Parse("https://example.com/start", strings.NewReader(testHTML), nil)
	require.NoError(t, err)
	assert.Greater(t, page.WordCount, 0)
}

func TestParsePDFLinks(t *testing.T) {
	page, err := Parse("https://example.com/start", strings.NewReader(testHTML), nil)
	require.NoError(t, err)
	require.Len(t, page.PDFLinks.URLs, 1)
	assert.Contains(t, page.PDFLinks.URLs[0], "report.pdf")
}

func TestParseUnsafeBlankLink(t *testing.T) {
	page, err := Parse("https://example.com/start", strings.NewReader(testHTML), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, page.CORS.UnsafeBlankLinks)
}

func TestParseWithCustomExtractor(t *testing.T) {
	specs := []models.ExtractorSpec{
		{Name: "headings", ExtractorType: "css_selector", Selector: "h1"},
	}
	page, err := Parse("https://example.com/start", strings.NewReader(testHTML), specs)
	require.NoError(t, err)
	require.Len(t, page.CustomExtractions, 1)
	assert.Equal(t, []string{"Main Heading"}, page.CustomExtractions[0].Matches)
}
