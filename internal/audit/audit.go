// Package audit runs the headless-browser quality audit for a page, either
// as a local "lighthouse" subprocess or by delegating to a remote HTTP
// service, bounded by a concurrency semaphore in both modes.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/exec"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/llmrank/crawlengine/internal/models"
)

// auditTimeout bounds a single audit run, local or remote.
const auditTimeout = 60 * time.Second

// Runner audits pages via a local lighthouse subprocess, or a remote HTTP
// endpoint when apiBaseURL is non-empty.
type Runner struct {
	sem        *semaphore.Weighted
	apiBaseURL string
	httpClient *http.Client
}

// New constructs a Runner bounded to maxConcurrent simultaneous audits. If
// apiBaseURL is non-empty, audits are delegated to
// "<apiBaseURL>/api/browser/audit" instead of spawning a local subprocess.
func New(maxConcurrent int, apiBaseURL string) *Runner {
	return &Runner{
		sem:        semaphore.NewWeighted(int64(maxConcurrent)),
		apiBaseURL: apiBaseURL,
		httpClient: &http.Client{Timeout: auditTimeout},
	}
}

// Audit runs the quality audit for pageURL, blocking until a concurrency
// slot is free.
func (r *Runner) Audit(ctx context.Context, pageURL string) (*models.LighthouseResult, error) {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer r.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, auditTimeout)
	defer cancel()

	if r.apiBaseURL != "" {
		return r.auditRemote(ctx, pageURL)
	}
	return r.auditLocal(ctx, pageURL)
}

func (r *Runner) auditLocal(ctx context.Context, pageURL string) (*models.LighthouseResult, error) {
	cmd := exec.CommandContext(ctx, "lighthouse", pageURL,
		"--output=json", "--quiet",
		"--chrome-flags=--headless --no-sandbox")

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("audit: lighthouse subprocess failed: %w", err)
	}
	return extractScore(stdout.Bytes())
}

func (r *Runner) auditRemote(ctx context.Context, pageURL string) (*models.LighthouseResult, error) {
	payload, err := json.Marshal(map[string]string{"url": pageURL})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		r.apiBaseURL+"/api/browser/audit", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("audit: remote request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("audit: remote service returned %s", resp.Status)
	}

	var envelope struct {
		Data models.LighthouseResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("audit: decoding remote response: %w", err)
	}
	return &envelope.Data, nil
}

// extractScore pulls the four lighthouse category scores out of the raw
// lighthouse JSON report.
func extractScore(raw []byte) (*models.LighthouseResult, error) {
	var report struct {
		Categories map[string]struct {
			Score *float64 `json:"score"`
		} `json:"categories"`
	}
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("audit: parsing lighthouse report: %w", err)
	}

	result := &models.LighthouseResult{}
	if c, ok := report.Categories["performance"]; ok {
		result.Performance = c.Score
	}
	if c, ok := report.Categories["accessibility"]; ok {
		result.Accessibility = c.Score
	}
	if c, ok := report.Categories["best-practices"]; ok {
		result.BestPractices = c.Score
	}
	if c, ok := report.Categories["seo"]; ok {
		result.SEO = c.Score
	}
	return result, nil
}
