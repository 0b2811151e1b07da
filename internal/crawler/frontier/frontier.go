// Package frontier implements the depth-bounded, exactly-deduplicated BFS
// URL frontier a single crawl job draws from. It is not durable and not
// shared across jobs or process restarts.
package frontier

import (
	"container/heap"
	"net/url"
	"strings"
	"sync"
)

// entry is one pending URL paired with its discovery depth.
type entry struct {
	url   string
	depth int
	seq   int // insertion order, for stable BFS ordering among equal depths
}

// entryHeap is a min-heap ordered by depth, then by insertion order, giving
// breadth-first exploration.
type entryHeap []entry

func (h entryHeap) Len() int { return len(h) }
func (h entryHeap) Less(i, j int) bool {
	if h[i].depth != h[j].depth {
		return h[i].depth < h[j].depth
	}
	return h[i].seq < h[j].seq
}
func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x any)   { *h = append(*h, x.(entry)) }
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// Frontier is a BFS queue of URLs to crawl, bounded by depth and exact
// dedup via a seen-set keyed on normalized URL.
type Frontier struct {
	mu        sync.Mutex
	heap      entryHeap
	seen      map[string]bool
	maxDepth  int
	maxPages  int
	crawled   int
	seqCursor int
}

// New constructs an empty Frontier. maxDepth <= 0 means unbounded depth;
// maxPages <= 0 means unbounded page count.
func New(maxDepth, maxPages int) *Frontier {
	return &Frontier{
		heap:     entryHeap{},
		seen:     make(map[string]bool),
		maxDepth: maxDepth,
		maxPages: maxPages,
	}
}

// Seed adds the job's starting URLs at depth 0.
func (f *Frontier) Seed(urls []string) {
	for _, u := range urls {
		f.AddDiscovered(u, 0)
	}
}

// AddDiscovered adds a newly discovered URL at the given depth if it has
// not been seen before and is within the depth bound. Returns true if the
// URL was accepted into the frontier.
func (f *Frontier) AddDiscovered(rawURL string, depth int) bool {
	if f.maxDepth > 0 && depth > f.maxDepth {
		return false
	}
	norm, ok := Normalize(rawURL)
	if !ok {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seen[norm] {
		return false
	}
	f.seen[norm] = true
	f.seqCursor++
	heap.Push(&f.heap, entry{url: norm, depth: depth, seq: f.seqCursor})
	return true
}

// Next pops the lowest-depth pending URL. ok is false when the frontier is
// empty or the configured page budget has been exhausted.
func (f *Frontier) Next() (u string, depth int, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.maxPages > 0 && f.crawled >= f.maxPages {
		return "", 0, false
	}
	if f.heap.Len() == 0 {
		return "", 0, false
	}
	e := heap.Pop(&f.heap).(entry)
	f.crawled++
	return e.url, e.depth, true
}

// PendingCount returns the number of URLs currently queued.
func (f *Frontier) PendingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.heap.Len()
}

// CrawledCount returns the number of URLs handed out via Next so far.
func (f *Frontier) CrawledCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.crawled
}

// Normalize canonicalizes a URL for dedup purposes: strips the fragment,
// lowercases scheme (the url package already does this on Parse) and host,
// and drops a trailing slash unless the path is exactly "/".
func Normalize(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	if u.Path != "/" {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}
	return u.String(), true
}
