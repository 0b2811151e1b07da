package jobs

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/llmrank/crawlengine/internal/config"
	"github.com/llmrank/crawlengine/internal/crawler"
	"github.com/llmrank/crawlengine/internal/crawler/frontier"
	"github.com/llmrank/crawlengine/internal/crawler/robots"
	"github.com/llmrank/crawlengine/internal/models"
)

// Runner drives a single crawl job from seed URLs to completion: it
// bootstraps the SiteContext, then runs a bounded worker pool over the
// frontier, biasing the control loop toward cancellation over completing
// in-flight work.
type Runner struct {
	JobID   string
	Payload models.JobPayload
	Engine  *crawler.Engine
	Config  *config.Config
	Logger  zerolog.Logger
	OnStats func(models.CrawlStats)

	mu       sync.Mutex
	stats    models.CrawlStats
	allPages []models.PageResult
}

// Run executes the crawl. It returns a non-nil error only for fatal setup
// failures (e.g. no valid seed URL); per-page errors are recorded on the
// individual PageResult and never abort the job.
func (r *Runner) Run(ctx context.Context) error {
	cfg := r.Payload.Config
	if len(r.Payload.SeedURLs) == 0 {
		return errNoSeedURLs
	}
	seed := r.Payload.SeedURLs[0]

	siteCtx := r.bootstrapSiteContext(ctx, seed, cfg)

	fr := frontier.New(cfg.MaxDepth, cfg.MaxPages)
	fr.Seed(r.Payload.SeedURLs)
	for _, u := range siteCtx.Sitemap.SitemapURLs {
		fr.AddDiscovered(u, 1)
	}

	batcher := newBatcher(r.JobID, r.Config.BatchPageThreshold, time.Duration(r.Config.BatchIntervalSecs)*time.Second)
	resultsCh := make(chan models.PageResult, r.Config.MaxConcurrentFetches)

	var wg sync.WaitGroup
	workerCount := r.Config.MaxConcurrentFetches
	if workerCount < 1 {
		workerCount = 1
	}

	robotsChecker := siteCtx.robotsChecker

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, fr, resultsCh, cfg, robotsChecker)
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	flushTicker := time.NewTicker(batcher.interval)
	defer flushTicker.Stop()

	cancelled := false
loop:
	for {
		// Cancellation takes priority: it is checked on its own before the
		// multiplexed select, which would otherwise pick randomly among
		// ready cases. On cancel, stop accepting new results and do not
		// flush the final partial batch.
		select {
		case <-ctx.Done():
			cancelled = true
			break loop
		default:
		}
		select {
		case <-ctx.Done():
			cancelled = true
			break loop
		case pr, ok := <-resultsCh:
			if !ok {
				break loop
			}
			r.recordResult(pr)
			if full := batcher.add(pr); full != nil {
				r.emitBatch(ctx, full)
			}
		case <-flushTicker.C:
			if partial := batcher.flushDue(); partial != nil {
				r.emitBatch(ctx, partial)
			}
		case <-done:
			// Workers finished; drain any remaining buffered results then
			// stop.
			for {
				select {
				case pr, ok := <-resultsCh:
					if !ok {
						break loop
					}
					r.recordResult(pr)
					if full := batcher.add(pr); full != nil {
						r.emitBatch(ctx, full)
					}
				default:
					break loop
				}
			}
		}
	}

	if !cancelled {
		if final := batcher.finalFlush(); final != nil {
			r.emitBatch(ctx, final)
		}
		r.emitBacklinks(ctx, siteCtx.Seed)
	}

	return nil
}

func (r *Runner) worker(ctx context.Context, fr *frontier.Frontier, out chan<- models.PageResult, cfg models.CrawlConfig, rc *robots.Checker) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		u, depth, ok := fr.Next()
		if !ok {
			return
		}

		if cfg.RespectRobots && rc != nil {
			parsed, err := url.Parse(u)
			if err == nil && !rc.IsAllowed(cfg.UserAgent, parsed.Path) {
				continue
			}
		}

		pr := r.Engine.CrawlPage(ctx, r.JobID, u, depth, cfg)
		if cfg.ExtractLinks && pr.Parsed != nil {
			for _, link := range pr.Parsed.Links {
				if link.Internal {
					fr.AddDiscovered(link.URL, depth+1)
				}
			}
		}

		select {
		case out <- pr:
		case <-ctx.Done():
			return
		}
	}
}

func (r *Runner) recordResult(pr models.PageResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.allPages = append(r.allPages, pr)
	if pr.Error != "" {
		r.stats.PagesFailed++
	} else {
		r.stats.PagesCrawled++
		r.stats.BytesFetched += pr.PageSizeBytes
		if pr.Parsed != nil {
			r.stats.LinksFound += len(pr.Parsed.Links)
		}
	}
	if r.OnStats != nil {
		r.OnStats(r.stats)
	}
}
