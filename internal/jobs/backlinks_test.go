package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmrank/crawlengine/internal/models"
)

func TestCollectBacklinkEntriesProjectsExternalLinks(t *testing.T) {
	pages := []models.PageResult{
		{
			URL: "https://example.com/post",
			Parsed: &models.ParsedPage{
				Links: []models.ExtractedLink{
					{URL: "https://partner.com/x", AnchorText: "Partner", Rel: "sponsored", Internal: false},
					{URL: "https://example.com/other", Internal: true},
				},
			},
		},
	}
	entries := collectBacklinkEntries(pages)
	require.Len(t, entries, 1)
	assert.Equal(t, "example.com", entries[0].SourceDomain)
	assert.Equal(t, "partner.com", entries[0].TargetDomain)
	assert.Equal(t, "sponsored", entries[0].Rel)
}

func TestCollectBacklinkEntriesSkipsInvalidURLs(t *testing.T) {
	pages := []models.PageResult{
		{
			URL: "https://example.com/post",
			Parsed: &models.ParsedPage{
				Links: []models.ExtractedLink{
					{URL: "not a url at all", Internal: false},
					{URL: "https://partner.com/x", Internal: false},
				},
			},
		},
		{
			URL:    "://broken-source-url",
			Parsed: &models.ParsedPage{Links: []models.ExtractedLink{{URL: "https://partner.com/y"}}},
		},
	}
	entries := collectBacklinkEntries(pages)
	require.Len(t, entries, 1)
	assert.Equal(t, "https://partner.com/x", entries[0].TargetURL)
}

func TestCollectBacklinkEntriesSkipsPagesWithoutParsed(t *testing.T) {
	pages := []models.PageResult{{URL: "https://example.com/a", Parsed: nil}}
	assert.Empty(t, collectBacklinkEntries(pages))
}

func TestCollectBacklinkEntriesSkipsSameHostLinks(t *testing.T) {
	pages := []models.PageResult{
		{
			URL: "https://example.com/a",
			Parsed: &models.ParsedPage{
				Links: []models.ExtractedLink{{URL: "https://example.com/b", Internal: false}},
			},
		},
	}
	assert.Empty(t, collectBacklinkEntries(pages))
}
