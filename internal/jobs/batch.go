package jobs

import (
	"sync"
	"time"

	"github.com/llmrank/crawlengine/internal/models"
)

// batcher accumulates PageResults and releases them as a CrawlResultBatch
// once the page-count threshold is reached, or returns the accumulated
// partial batch on explicit interval/final flush requests. The caller is
// responsible for driving the interval ticker and for skipping the final
// flush on a cancelled job.
type batcher struct {
	jobID     string
	threshold int
	interval  time.Duration

	mu        sync.Mutex
	pending   []models.PageResult
	seq       int
	lastFlush time.Time
}

func newBatcher(jobID string, threshold int, interval time.Duration) *batcher {
	if threshold < 1 {
		threshold = 1
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &batcher{jobID: jobID, threshold: threshold, interval: interval, lastFlush: time.Now()}
}

// add appends a page result and returns a full batch if the threshold was
// just reached, or nil otherwise.
func (b *batcher) add(pr models.PageResult) *models.CrawlResultBatch {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = append(b.pending, pr)
	if len(b.pending) >= b.threshold {
		return b.drainLocked(false)
	}
	return nil
}

// flushDue returns a batch of whatever is pending if the interval has
// elapsed since the last flush and there is at least one pending page, or
// nil otherwise.
func (b *batcher) flushDue() *models.CrawlResultBatch {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.pending) == 0 {
		return nil
	}
	if time.Since(b.lastFlush) < b.interval {
		return nil
	}
	return b.drainLocked(false)
}

// finalFlush always returns a batch marked Final, even an empty one — the
// final batch is what communicates is_final=true and the job's final stats,
// so it must be sent whether or not any pages are still pending. The caller
// must not invoke this on a cancelled job — the source never flushes a
// final batch for a job that was cancelled.
func (b *batcher) finalFlush() *models.CrawlResultBatch {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.drainLocked(true)
}

func (b *batcher) drainLocked(final bool) *models.CrawlResultBatch {
	batch := &models.CrawlResultBatch{
		JobID:  b.jobID,
		Pages:  b.pending,
		Final:  final,
		SeqNum: b.seq,
	}
	b.seq++
	b.pending = nil
	b.lastFlush = time.Now()
	return batch
}
