// Package fetcher implements the per-host rate-limited HTTP client used by
// the page pipeline. Each host gets its own token bucket, lazily created on
// first use; there are no retries here, by design — a failed fetch is
// reported to the caller and never reattempted.
package fetcher

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/llmrank/crawlengine/internal/models"
)

// Fetcher performs rate-limited GET requests, one token bucket per host.
type Fetcher struct {
	userAgent string
	timeout   time.Duration
	client    *http.Client

	mu       sync.RWMutex
	limiters map[string]*rate.Limiter

	ratePerSec float64
}

// New constructs a Fetcher. rateLimitMs is the minimum interval between
// requests to the same host, translated into a token-bucket rate with
// burst 1.
func New(userAgent string, timeout time.Duration, rateLimitMs int) *Fetcher {
	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSClientConfig:     &tls.Config{InsecureSkipVerify: false},
			MaxIdleConnsPerHost: 20,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("fetcher: stopped after 10 redirects")
			}
			return nil
		},
	}

	perSec := 1.0
	if rateLimitMs > 0 {
		perSec = 1000.0 / float64(rateLimitMs)
	}

	return &Fetcher{
		userAgent:  userAgent,
		timeout:    timeout,
		client:     client,
		limiters:   make(map[string]*rate.Limiter),
		ratePerSec: perSec,
	}
}

// limiterFor returns the token bucket for host, creating one if necessary.
// Uses a read-then-write double-checked pattern to avoid taking the write
// lock on the common, already-created path.
func (f *Fetcher) limiterFor(host string) *rate.Limiter {
	host = strings.ToLower(host)

	f.mu.RLock()
	l, ok := f.limiters[host]
	f.mu.RUnlock()
	if ok {
		return l
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.limiters[host]; ok {
		return l
	}
	l = rate.NewLimiter(rate.Limit(f.ratePerSec), 1)
	f.limiters[host] = l
	return l
}

// Fetch performs a single GET request against rawURL, blocking on the
// per-host rate limiter before issuing the request. It never retries.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*models.FetchResult, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetcher: invalid url %q: %w", rawURL, err)
	}

	limiter := f.limiterFor(parsed.Host)
	if err := limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("fetcher: rate limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	// Accept-Encoding is deliberately left unset: net/http's Transport only
	// performs transparent gzip decompression when the caller hasn't set
	// this header explicitly.

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetcher: fetching %s failed: %w", rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 25<<20))
	if err != nil {
		return nil, fmt.Errorf("fetcher: reading body of %s failed: %w", rawURL, err)
	}

	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &models.FetchResult{
		StatusCode: resp.StatusCode,
		Body:       body,
		Headers:    headers,
		FinalURL:   finalURL,
	}, nil
}
