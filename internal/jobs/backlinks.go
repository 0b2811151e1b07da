package jobs

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/llmrank/crawlengine/internal/models"
)

// backlinksTimeout bounds the outbound backlinks projection POST.
const backlinksTimeout = 30 * time.Second

// emitBacklinks projects every external link discovered across the job's
// crawled pages into BacklinkEntry records and POSTs them to the
// backlinks endpoint, HMAC-signed the same way as a callback. Like the
// callback, this is never retried and is skipped entirely on cancellation.
func (r *Runner) emitBacklinks(ctx context.Context, seed string) {
	if r.Config.APIBaseURL == "" {
		return
	}
	r.mu.Lock()
	pages := append([]models.PageResult(nil), r.allPages...)
	r.mu.Unlock()

	entries := collectBacklinkEntries(pages)
	if len(entries) == 0 {
		return
	}

	body, err := json.Marshal(struct {
		Links []models.BacklinkEntry `json:"links"`
	}{Links: entries})
	if err != nil {
		r.Logger.Warn().Err(err).Msg("failed to marshal backlinks payload")
		return
	}

	target := r.Config.APIBaseURL + "/api/backlinks/ingest"
	if err := postSigned(ctx, target, r.Config.SharedSecret, body, backlinksTimeout); err != nil {
		r.Logger.Warn().Err(err).Int("count", len(entries)).Msg("backlinks delivery failed")
	}
}

// collectBacklinkEntries builds one BacklinkEntry per external link found
// on each page. Links with an unparseable URL, or whose host matches the
// source page's host (i.e. not actually external), are skipped.
func collectBacklinkEntries(pages []models.PageResult) []models.BacklinkEntry {
	var entries []models.BacklinkEntry
	for _, page := range pages {
		if page.Parsed == nil {
			continue
		}
		sourceURL, err := url.Parse(page.URL)
		if err != nil {
			continue
		}
		for _, link := range page.Parsed.Links {
			if link.Internal {
				continue
			}
			targetURL, err := url.Parse(link.URL)
			if err != nil {
				continue
			}
			if targetURL.Hostname() == "" || targetURL.Hostname() == sourceURL.Hostname() {
				continue
			}
			entries = append(entries, models.BacklinkEntry{
				SourceURL:    page.URL,
				SourceDomain: sourceURL.Hostname(),
				TargetURL:    link.URL,
				TargetDomain: targetURL.Hostname(),
				AnchorText:   link.AnchorText,
				Rel:          link.Rel,
			})
		}
	}
	return entries
}
