package frontier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeduplication(t *testing.T) {
	f := New(0, 0)
	assert.True(t, f.AddDiscovered("https://example.com/a", 1))
	assert.False(t, f.AddDiscovered("https://example.com/a", 1))
	assert.False(t, f.AddDiscovered("https://example.com/a/", 1))
	assert.Equal(t, 1, f.PendingCount())
}

func TestDepthLimit(t *testing.T) {
	f := New(2, 0)
	assert.True(t, f.AddDiscovered("https://example.com/a", 2))
	assert.False(t, f.AddDiscovered("https://example.com/b", 3))
}

func TestBFSOrdering(t *testing.T) {
	f := New(0, 0)
	f.AddDiscovered("https://example.com/depth1", 1)
	f.AddDiscovered("https://example.com/depth0", 0)
	f.AddDiscovered("https://example.com/depth1b", 1)

	u, d, ok := f.Next()
	assert.True(t, ok)
	assert.Equal(t, 0, d)
	assert.Equal(t, "https://example.com/depth0", u)

	u, d, ok = f.Next()
	assert.True(t, ok)
	assert.Equal(t, 1, d)
	assert.Equal(t, "https://example.com/depth1", u)

	u, d, ok = f.Next()
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/depth1b", u)
}

func TestCrawledCountRespectsMaxPages(t *testing.T) {
	f := New(0, 1)
	f.AddDiscovered("https://example.com/a", 0)
	f.AddDiscovered("https://example.com/b", 0)

	_, _, ok := f.Next()
	assert.True(t, ok)
	_, _, ok = f.Next()
	assert.False(t, ok)
	assert.Equal(t, 1, f.CrawledCount())
}

func TestNormalizeTrailingSlash(t *testing.T) {
	n1, ok := Normalize("https://example.com/path/")
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/path", n1)

	n2, ok := Normalize("https://example.com/")
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/", n2)
}

func TestNormalizeDropsFragment(t *testing.T) {
	n, ok := Normalize("https://example.com/path#section")
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/path", n)
}

func TestAddDiscoveredRejectsInvalidURL(t *testing.T) {
	f := New(0, 0)
	assert.False(t, f.AddDiscovered("not a url", 0))
	assert.False(t, f.AddDiscovered("/relative/path", 0))
}
