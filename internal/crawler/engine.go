// Package crawler assembles the per-page pipeline: fetch, parse, hash,
// fan out to object storage / audit / render, merge links, and produce a
// PageResult.
package crawler

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/llmrank/crawlengine/internal/crawler/fetcher"
	"github.com/llmrank/crawlengine/internal/crawler/parse"
	"github.com/llmrank/crawlengine/internal/models"
)

// Auditor runs a page-quality audit (lighthouse-style), local or remote.
type Auditor interface {
	Audit(ctx context.Context, pageURL string) (*models.LighthouseResult, error)
}

// Renderer extracts links from a page after JS execution.
type Renderer interface {
	RenderLinks(ctx context.Context, pageURL string) ([]models.ExtractedLink, error)
}

// Uploader persists page artifacts to object storage, keyed by path.
type Uploader interface {
	UploadHTML(ctx context.Context, key string, body []byte) error
	UploadJSON(ctx context.Context, key string, body []byte) error
}

// Engine wires a fetcher with optional audit/render/upload collaborators to
// produce a PageResult for a single URL.
type Engine struct {
	Fetcher  *fetcher.Fetcher
	Auditor  Auditor
	Renderer Renderer
	Uploader Uploader
}

// CrawlPage fetches and parses one URL, fanning out to the upload/audit/
// render collaborators, and returns the fully assembled PageResult. jobID
// is used to namespace object-store keys; extractSchema/runLighthouse/
// runJsRender/extractLinks gate the optional sub-steps per job config.
func (e *Engine) CrawlPage(ctx context.Context, jobID, pageURL string, depth int, cfg models.CrawlConfig) models.PageResult {
	result := models.PageResult{URL: pageURL, Depth: depth}

	start := time.Now()
	fr, err := e.Fetcher.Fetch(ctx, pageURL)
	result.ResponseTimeMs = time.Since(start).Milliseconds()
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.StatusCode = fr.StatusCode
	result.PageSizeBytes = len(fr.Body)

	isHTML := isHTMLContentType(fr.Headers)

	sum := sha256.Sum256(fr.Body)
	hash := hex.EncodeToString(sum[:])
	result.ContentHash = hash

	htmlKey := fmt.Sprintf("crawls/%s/html/%s.html.gz", jobID, hash[:16])
	result.HTMLObjectKey = htmlKey

	parsed, parseErr := parse.Parse(fr.FinalURL, bytes.NewReader(fr.Body), cfg.Extractors)
	if parseErr != nil {
		result.Error = parseErr.Error()
		return result
	}
	if !cfg.ExtractSchema {
		parsed.JSONLD = nil
		parsed.SchemaTypes = nil
	}
	if !cfg.ExtractLinks {
		parsed.Links = nil
	}

	var renderedLinks []models.ExtractedLink
	g, gctx := errgroup.WithContext(ctx)

	if e.Uploader != nil {
		g.Go(func() error {
			return e.Uploader.UploadHTML(gctx, htmlKey, fr.Body)
		})
	}

	var audit *models.LighthouseResult
	if cfg.RunLighthouse && e.Auditor != nil {
		g.Go(func() error {
			a, aerr := e.Auditor.Audit(gctx, fr.FinalURL)
			if aerr != nil {
				audit = &models.LighthouseResult{Error: aerr.Error()}
				return nil
			}
			audit = a
			return nil
		})
	}

	if isHTML && cfg.RunJsRender && e.Renderer != nil && cfg.ExtractLinks {
		g.Go(func() error {
			links, rerr := e.Renderer.RenderLinks(gctx, fr.FinalURL)
			if rerr != nil {
				return nil
			}
			renderedLinks = links
			return nil
		})
	}

	_ = g.Wait() // fan-out steps are best-effort; none fail the page

	if audit != nil {
		result.Lighthouse = audit
		if audit != nil && len(audit.Error) == 0 {
			keyJSON := fmt.Sprintf("crawls/%s/lighthouse/%s.json.gz", jobID, hash[:16])
			if e.Uploader != nil {
				if auditJSON, jerr := json.Marshal(audit); jerr == nil {
					_ = e.Uploader.UploadJSON(ctx, keyJSON, auditJSON)
				}
			}
		}
	}

	if cfg.ExtractLinks {
		pageHost := ""
		if u, uerr := url.Parse(fr.FinalURL); uerr == nil {
			pageHost = u.Hostname()
		}
		parsed.Links = mergeLinks(parsed.Links, renderedLinks, pageHost)
	}
	result.Parsed = parsed
	return result
}

// isHTMLContentType defaults to true when the header is absent — the
// original source treats a missing Content-Type as "assume HTML".
func isHTMLContentType(headers map[string]string) bool {
	ct, ok := headers["Content-Type"]
	if !ok {
		return true
	}
	return strings.Contains(strings.ToLower(ct), "text/html")
}

// mergeLinks treats statically-parsed links as the baseline and only adds
// rendered links that introduce a new URL; when a rendered link duplicates
// a static one, the static link's anchor/rel detail is preferred. Rendered
// links are classified internal/external by comparing their host against
// pageHost, since the renderer itself has no notion of that distinction.
func mergeLinks(static, rendered []models.ExtractedLink, pageHost string) []models.ExtractedLink {
	seen := make(map[string]bool, len(static))
	merged := make([]models.ExtractedLink, 0, len(static)+len(rendered))
	for _, l := range static {
		if !isNavigableURL(l.URL) || seen[l.URL] {
			continue
		}
		seen[l.URL] = true
		merged = append(merged, l)
	}
	for _, l := range rendered {
		if !isNavigableURL(l.URL) || seen[l.URL] {
			continue
		}
		seen[l.URL] = true
		l.Internal = linkHost(l.URL) == pageHost
		merged = append(merged, l)
	}
	return merged
}

func linkHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func isNavigableURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
