package robots

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/llmrank/crawlengine/internal/models"
)

// maxChildSitemaps bounds how many child sitemaps a sitemapindex expands
// into, to avoid unbounded fan-out from a hostile or misconfigured site.
const maxChildSitemaps = 5

var locPattern = regexp.MustCompile(`(?is)<loc>\s*(.*?)\s*</loc>`)

// FetchSitemapURLs discovers sitemap.xml at the site root, expands a
// sitemapindex into up to maxChildSitemaps child sitemaps, and returns the
// deduplicated, domain-filtered set of page URLs found. Filtering keeps
// only URLs under the seed host or its "www." variant.
func FetchSitemapURLs(ctx context.Context, client *http.Client, seed, userAgent string) models.SitemapAnalysis {
	seedURL, err := url.Parse(seed)
	if err != nil {
		return models.SitemapAnalysis{}
	}
	base := seedURL.Scheme + "://" + seedURL.Host

	root, ok := fetchXML(ctx, client, base+"/sitemap.xml", userAgent)
	if !ok {
		return models.SitemapAnalysis{}
	}

	locs := extractLocs(root)
	seen := make(map[string]bool)
	var urls []string

	if strings.Contains(strings.ToLower(root), "<sitemapindex") {
		childCount := 0
		for _, childLoc := range locs {
			if childCount >= maxChildSitemaps {
				break
			}
			childCount++
			childXML, ok := fetchXML(ctx, client, childLoc, userAgent)
			if !ok {
				continue
			}
			for _, loc := range extractLocs(childXML) {
				addIfAllowed(&urls, seen, loc, seedURL.Hostname())
			}
		}
	} else {
		for _, loc := range locs {
			addIfAllowed(&urls, seen, loc, seedURL.Hostname())
		}
	}

	return models.SitemapAnalysis{SitemapURLs: urls, URLCount: len(urls)}
}

func addIfAllowed(urls *[]string, seen map[string]bool, loc, seedHost string) {
	parsed, err := url.Parse(loc)
	if err != nil {
		return
	}
	host := parsed.Hostname()
	if host != seedHost && host != "www."+seedHost && "www."+host != seedHost {
		return
	}
	if seen[loc] {
		return
	}
	seen[loc] = true
	*urls = append(*urls, loc)
}

func extractLocs(xml string) []string {
	matches := locPattern.FindAllStringSubmatch(xml, -1)
	locs := make([]string, 0, len(matches))
	for _, m := range matches {
		locs = append(locs, m[1])
	}
	return locs
}

func fetchXML(ctx context.Context, client *http.Client, target, userAgent string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", false
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 5<<20))
	if err != nil {
		return "", false
	}
	return string(body), true
}
