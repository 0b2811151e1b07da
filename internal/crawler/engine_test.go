package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/llmrank/crawlengine/internal/models"
)

func TestMergeLinksNoRendered(t *testing.T) {
	static := []models.ExtractedLink{{URL: "https://example.com/a"}}
	merged := mergeLinks(static, nil, "example.com")
	assert.Equal(t, static, merged)
}

func TestMergeLinksDedup(t *testing.T) {
	static := []models.ExtractedLink{{URL: "https://example.com/a", AnchorText: "static"}}
	rendered := []models.ExtractedLink{{URL: "https://example.com/a", AnchorText: "rendered"}}
	merged := mergeLinks(static, rendered, "example.com")
	assert.Len(t, merged, 1)
	assert.Equal(t, "static", merged[0].AnchorText)
}

func TestMergeLinksJsOnlyExternal(t *testing.T) {
	rendered := []models.ExtractedLink{{URL: "https://other.com/x"}}
	merged := mergeLinks(nil, rendered, "example.com")
	assert.Len(t, merged, 1)
	assert.Equal(t, "https://other.com/x", merged[0].URL)
	assert.False(t, merged[0].Internal)
}

func TestMergeLinksJsAddsNewInternal(t *testing.T) {
	static := []models.ExtractedLink{{URL: "https://example.com/a"}}
	rendered := []models.ExtractedLink{{URL: "https://example.com/b"}}
	merged := mergeLinks(static, rendered, "example.com")
	assert.Len(t, merged, 2)
	assert.True(t, merged[1].Internal)
}

func TestMergeLinksFiltersNonHTTP(t *testing.T) {
	static := []models.ExtractedLink{
		{URL: "javascript:void(0)"},
		{URL: "mailto:a@b.com"},
		{URL: "https://example.com/a"},
	}
	merged := mergeLinks(static, nil, "example.com")
	assert.Len(t, merged, 1)
	assert.Equal(t, "https://example.com/a", merged[0].URL)
}

func TestMergeLinksPrefersStaticExternalDetails(t *testing.T) {
	static := []models.ExtractedLink{{URL: "https://partner.com/x", AnchorText: "Partner", Rel: "sponsored"}}
	rendered := []models.ExtractedLink{{URL: "https://partner.com/x", AnchorText: "", Rel: ""}}
	merged := mergeLinks(static, rendered, "example.com")
	assert.Len(t, merged, 1)
	assert.Equal(t, "sponsored", merged[0].Rel)
}

func TestMergeLinksRenderedSameHostIsInternal(t *testing.T) {
	rendered := []models.ExtractedLink{{URL: "https://example.com/js-only"}}
	merged := mergeLinks(nil, rendered, "example.com")
	assert.Len(t, merged, 1)
	assert.True(t, merged[0].Internal)
}

func TestIsHTMLContentTypeDefaultsTrueWhenAbsent(t *testing.T) {
	assert.True(t, isHTMLContentType(map[string]string{}))
	assert.True(t, isHTMLContentType(map[string]string{"Content-Type": "text/html; charset=utf-8"}))
	assert.False(t, isHTMLContentType(map[string]string{"Content-Type": "application/json"}))
}
