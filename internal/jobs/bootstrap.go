package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/llmrank/crawlengine/internal/crawler/robots"
	"github.com/llmrank/crawlengine/internal/models"
)

// errNoSeedURLs is returned when a job is submitted with no seed URLs at
// all — a setup failure, not a per-page error.
var errNoSeedURLs = errors.New("jobs: no seed urls provided")

// siteContext bundles the public SiteContext with the parsed robots
// checker used internally to gate the worker pool.
type siteContext struct {
	models.SiteContext
	robotsChecker *robots.Checker
}

// bootstrapSiteContext probes robots.txt, llms.txt, and sitemap.xml for the
// job's seed host before crawling begins.
func (r *Runner) bootstrapSiteContext(ctx context.Context, seed string, cfg models.CrawlConfig) *siteContext {
	client := newProbeClient()

	sc := &siteContext{SiteContext: models.SiteContext{Seed: seed, ContentHashes: make(map[string]string)}}

	start := time.Now()
	checker, _ := robots.Fetch(ctx, client, seed, cfg.UserAgent)
	sc.ResponseTimeMs = time.Since(start).Milliseconds()
	sc.robotsChecker = checker
	sc.RobotsFound = checker.Found()
	sc.BlockedAIBots = checker.BlockedBots()

	if cfg.CheckLlmsTxt {
		sc.LlmsTxtFound = robots.FetchLlmsTxt(ctx, client, seed, cfg.UserAgent)
	}

	sc.Sitemap = robots.FetchSitemapURLs(ctx, client, seed, cfg.UserAgent)

	return sc
}
