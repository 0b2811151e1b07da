// Package jobs implements the Job Manager: job submission, status
// tracking, and cooperative cancellation, plus the Job Runner control loop
// that drives a single crawl to completion.
package jobs

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/llmrank/crawlengine/internal/audit"
	"github.com/llmrank/crawlengine/internal/config"
	"github.com/llmrank/crawlengine/internal/crawler"
	crawlerfetcher "github.com/llmrank/crawlengine/internal/crawler/fetcher"
	"github.com/llmrank/crawlengine/internal/models"
	"github.com/llmrank/crawlengine/internal/render"
	"github.com/llmrank/crawlengine/internal/storage"
)

// entry is the manager's bookkeeping for one submitted job: the public
// record plus the means to cancel its runner.
type entry struct {
	record JobRecord
	cancel context.CancelFunc
}

// JobRecord mirrors models.JobRecord but is kept separately mutable under
// the manager's lock.
type JobRecord = models.JobRecord

// Manager owns the in-memory job table and the bounded pool of concurrently
// running jobs. It does not persist state across restarts and does not
// share a frontier or rate limits across jobs, by design.
type Manager struct {
	cfg    *config.Config
	logger zerolog.Logger

	mu   sync.RWMutex
	jobs map[string]*entry

	sem chan struct{} // bounds concurrently-running jobs

	storage *storage.Client
}

// New constructs a Manager. storageClient may be nil in tests that don't
// exercise uploads.
func New(cfg *config.Config, logger zerolog.Logger, storageClient *storage.Client) *Manager {
	return &Manager{
		cfg:     cfg,
		logger:  logger,
		jobs:    make(map[string]*entry),
		sem:     make(chan struct{}, cfg.MaxConcurrentJobs),
		storage: storageClient,
	}
}

// Submit registers a new job and starts its runner asynchronously. The
// payload's JobID is generated if absent.
func (m *Manager) Submit(payload models.JobPayload) string {
	if payload.JobID == "" {
		payload.JobID = uuid.NewString()
	}

	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now()
	rec := JobRecord{
		JobID:     payload.JobID,
		Status:    models.JobQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}

	m.mu.Lock()
	m.jobs[payload.JobID] = &entry{record: rec, cancel: cancel}
	m.mu.Unlock()

	go m.runGuarded(ctx, payload)
	return payload.JobID
}

// runGuarded blocks on the manager's job-concurrency semaphore before
// running the job, so at most MaxConcurrentJobs crawls run at once.
func (m *Manager) runGuarded(ctx context.Context, payload models.JobPayload) {
	select {
	case m.sem <- struct{}{}:
	case <-ctx.Done():
		m.finish(payload.JobID, models.JobCancelled, "")
		return
	}
	defer func() { <-m.sem }()

	m.setStatus(payload.JobID, models.JobCrawling)

	runner := &Runner{
		JobID:   payload.JobID,
		Payload: payload,
		Engine:  m.buildEngine(payload),
		Config:  m.cfg,
		Logger:  m.logger.With().Str("job_id", payload.JobID).Logger(),
		OnStats: func(stats models.CrawlStats) { m.setStats(payload.JobID, stats) },
	}

	err := runner.Run(ctx)
	switch {
	case ctx.Err() != nil:
		m.finish(payload.JobID, models.JobCancelled, "")
	case err != nil:
		m.finish(payload.JobID, models.JobFailed, err.Error())
	default:
		m.finish(payload.JobID, models.JobComplete, "")
	}
}

func (m *Manager) buildEngine(payload models.JobPayload) *crawler.Engine {
	cfg := payload.Config
	f := crawlerfetcher.New(cfg.UserAgent, time.Duration(cfg.TimeoutSecs)*time.Second, cfg.RateLimitMs)

	e := &crawler.Engine{Fetcher: f, Uploader: m.storage}
	if cfg.RunLighthouse {
		e.Auditor = audit.New(m.cfg.MaxConcurrentAudits, m.cfg.APIBaseURL)
	}
	if cfg.RunJsRender {
		e.Renderer = render.New(m.cfg.MaxConcurrentRenders, m.cfg.RendererScriptPath)
	}
	return e
}

// Status returns a snapshot of the job's record. An unknown job ID is not
// an error — it synthesizes a Pending status, since the job may simply not
// have been recorded yet from the caller's point of view.
func (m *Manager) Status(jobID string) models.JobStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.jobs[jobID]
	if !ok {
		return models.JobStatus{JobID: jobID, Status: models.JobPending}
	}
	return models.JobStatus{JobID: e.record.JobID, Status: e.record.Status, Stats: e.record.Stats}
}

// Cancel requests cooperative cancellation of a running job. Returns false
// if the job is unknown.
func (m *Manager) Cancel(jobID string) bool {
	m.mu.Lock()
	e, ok := m.jobs[jobID]
	m.mu.Unlock()
	if !ok {
		return false
	}
	e.cancel()
	return true
}

func (m *Manager) setStatus(jobID string, status models.JobStatusKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.jobs[jobID]; ok {
		e.record.Status = status
		e.record.UpdatedAt = time.Now()
	}
}

func (m *Manager) setStats(jobID string, stats models.CrawlStats) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.jobs[jobID]; ok {
		e.record.Stats = stats
		e.record.UpdatedAt = time.Now()
	}
}

func (m *Manager) finish(jobID string, status models.JobStatusKind, errMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.jobs[jobID]; ok {
		e.record.Status = status
		e.record.Error = errMsg
		e.record.UpdatedAt = time.Now()
	}
}

// httpClientTimeout is used by auxiliary collaborators (sitemap/robots
// probes) constructed outside of the rate-limited fetcher.
var httpClientTimeout = 10 * time.Second

func newProbeClient() *http.Client {
	return &http.Client{Timeout: httpClientTimeout}
}
