// Package render extracts links from a page after JavaScript execution, by
// delegating to a Node.js subprocess that loads the page in a headless
// browser and prints the discovered links as JSON.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/llmrank/crawlengine/internal/models"
)

// renderTimeout bounds a single render subprocess invocation.
const renderTimeout = 15 * time.Second

// output is the JSON shape the render script prints on stdout.
type output struct {
	Links []struct {
		URL        string `json:"url"`
		AnchorText string `json:"anchorText"`
		Rel        string `json:"rel"`
	} `json:"links"`
	Error string `json:"error"`
}

// Runner renders pages via a Node.js subprocess, bounded by a concurrency
// semaphore.
type Runner struct {
	sem        *semaphore.Weighted
	scriptPath string
}

// New constructs a Runner bounded to maxConcurrent simultaneous renders,
// invoking scriptPath with Node.
func New(maxConcurrent int, scriptPath string) *Runner {
	return &Runner{
		sem:        semaphore.NewWeighted(int64(maxConcurrent)),
		scriptPath: scriptPath,
	}
}

// RenderLinks runs the render script against pageURL and returns the links
// it discovered after JS execution.
func (r *Runner) RenderLinks(ctx context.Context, pageURL string) ([]models.ExtractedLink, error) {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer r.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, renderTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "node", r.scriptPath, pageURL)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("render: node subprocess failed: %w", err)
	}

	var out output
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return nil, fmt.Errorf("render: parsing output: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("render: %s", out.Error)
	}

	links := make([]models.ExtractedLink, 0, len(out.Links))
	for _, l := range out.Links {
		links = append(links, models.ExtractedLink{
			URL:        l.URL,
			AnchorText: l.AnchorText,
			Rel:        l.Rel,
		})
	}
	return links, nil
}
