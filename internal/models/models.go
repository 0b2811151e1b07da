// Package models defines the wire and in-memory data shapes shared across
// the crawl job engine: job submission payloads, per-page results, site-wide
// context accumulated during a crawl, and the batches shipped to callback
// and backlinks consumers.
package models

import "time"

// CrawlConfig carries the tunables for a single crawl job. Zero values are
// not filled in field by field: the submission handler replaces the whole
// config with DefaultCrawlConfig when the submitted one has no user agent.
type CrawlConfig struct {
	RespectRobots   bool             `json:"respectRobots"`
	RunLighthouse   bool             `json:"runLighthouse"`
	ExtractSchema   bool             `json:"extractSchema"`
	ExtractLinks    bool             `json:"extractLinks"`
	CheckLlmsTxt    bool             `json:"checkLlmsTxt"`
	RunJsRender     bool             `json:"runJsRender"`
	UserAgent       string           `json:"userAgent"`
	RateLimitMs     int              `json:"rateLimitMs"`
	TimeoutSecs     int              `json:"timeoutS"`
	MaxPages        int              `json:"maxPages"`
	MaxDepth        int              `json:"maxDepth"`
	Extractors      []ExtractorSpec  `json:"extractors,omitempty"`
}

// DefaultCrawlConfig returns the config with every default field populated,
// matching the original Rust serde(default = "...") values.
func DefaultCrawlConfig() CrawlConfig {
	return CrawlConfig{
		RespectRobots: true,
		RunLighthouse: true,
		ExtractSchema: true,
		ExtractLinks:  true,
		CheckLlmsTxt:  true,
		RunJsRender:   true,
		UserAgent:     "AISEOBot/1.0",
		RateLimitMs:   1000,
		TimeoutSecs:   30,
		MaxPages:      100,
		MaxDepth:      3,
	}
}

// ExtractorSpec is a custom, job-supplied extraction rule run against every
// parsed page in addition to the built-in extraction surface.
type ExtractorSpec struct {
	Name          string `json:"name"`
	ExtractorType string `json:"extractorType"` // "css_selector" | "regex"
	Selector      string `json:"selector"`
	Attribute     string `json:"attribute,omitempty"`
}

// ExtractorResult is the output of running one ExtractorSpec against a page.
type ExtractorResult struct {
	Name    string   `json:"name"`
	Matches []string `json:"matches"`
}

// JobStatusKind enumerates the lifecycle states of a crawl job.
type JobStatusKind string

const (
	JobPending   JobStatusKind = "pending"
	JobQueued    JobStatusKind = "queued"
	JobCrawling  JobStatusKind = "crawling"
	// JobScoring exists for wire compatibility with systems that read the
	// status field as a string; the runner never transitions a job into it.
	JobScoring   JobStatusKind = "scoring"
	JobComplete  JobStatusKind = "complete"
	JobFailed    JobStatusKind = "failed"
	JobCancelled JobStatusKind = "cancelled"
)

// JobPayload is the request body accepted by the job submission endpoint.
type JobPayload struct {
	JobID       string      `json:"jobId"`
	SeedURLs    []string    `json:"seedUrls"`
	CallbackURL string      `json:"callbackUrl,omitempty"`
	Config      CrawlConfig `json:"config"`
}

// CrawlStats accumulates counters over the lifetime of a job.
type CrawlStats struct {
	PagesCrawled  int `json:"pagesCrawled"`
	PagesFailed   int `json:"pagesFailed"`
	LinksFound    int `json:"linksFound"`
	BytesFetched  int `json:"bytesFetched"`
}

// JobRecord is the server-side bookkeeping entry for a submitted job.
type JobRecord struct {
	JobID     string        `json:"jobId"`
	Status    JobStatusKind `json:"status"`
	Stats     CrawlStats    `json:"stats"`
	Error     string        `json:"error,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// JobStatus is the response body for a job status query.
type JobStatus struct {
	JobID  string        `json:"jobId"`
	Status JobStatusKind `json:"status"`
	Stats  CrawlStats    `json:"stats"`
}

// FrontierEntry is a single pending URL in the BFS frontier.
type FrontierEntry struct {
	URL   string
	Depth int
}

// FetchResult is the raw outcome of fetching one URL.
type FetchResult struct {
	StatusCode int
	Body       []byte
	Headers    map[string]string
	FinalURL   string
}

// Heading groups the text content of each heading level found on a page.
type Heading struct {
	H1 []string `json:"h1,omitempty"`
	H2 []string `json:"h2,omitempty"`
	H3 []string `json:"h3,omitempty"`
	H4 []string `json:"h4,omitempty"`
	H5 []string `json:"h5,omitempty"`
	H6 []string `json:"h6,omitempty"`
}

// ExtractedLink is one anchor or resource link found on a page, static or
// rendered.
type ExtractedLink struct {
	URL        string `json:"url"`
	AnchorText string `json:"anchorText,omitempty"`
	Rel        string `json:"rel,omitempty"`
	Internal   bool   `json:"internal"`
}

// ImageStats summarizes <img> usage on a page.
type ImageStats struct {
	Total          int `json:"total"`
	MissingAlt     int `json:"missingAlt"`
}

// FleschScore is the readability score and its qualitative classification.
type FleschScore struct {
	Score          float64 `json:"score"`
	Classification string  `json:"classification"`
}

// TextHtmlRatio is the ratio of visible text bytes to total HTML bytes.
type TextHtmlRatio struct {
	TextBytes int     `json:"textBytes"`
	HTMLBytes int     `json:"htmlBytes"`
	Ratio     float64 `json:"ratio"`
}

// CORSReport summarizes cross-origin and mixed-content issues on a page.
type CORSReport struct {
	UnsafeBlankLinks    int  `json:"unsafeBlankLinks"`
	MixedContentCount   int  `json:"mixedContentCount"`
	MissingCrossorigin  int  `json:"missingCrossorigin"`
	HasIssues           bool `json:"hasIssues"`
}

// PdfLinks lists PDF resources discovered on a page.
type PdfLinks struct {
	URLs []string `json:"urls,omitempty"`
}

// ParsedPage is the full static-extraction result for one fetched page.
type ParsedPage struct {
	Title             string            `json:"title,omitempty"`
	MetaDescription   string            `json:"metaDescription,omitempty"`
	Canonical         string            `json:"canonical,omitempty"`
	Headings          Heading           `json:"headings"`
	Links             []ExtractedLink   `json:"links,omitempty"`
	Images            ImageStats        `json:"images"`
	JSONLD            []map[string]any  `json:"jsonLd,omitempty"`
	SchemaTypes       []string          `json:"schemaTypes,omitempty"`
	OGTitle           string            `json:"ogTitle,omitempty"`
	OGDescription     string            `json:"ogDescription,omitempty"`
	OGImage           string            `json:"ogImage,omitempty"`
	OGType            string            `json:"ogType,omitempty"`
	RobotsMeta        string            `json:"robotsMeta,omitempty"`
	WordCount         int               `json:"wordCount"`
	Flesch            FleschScore       `json:"flesch"`
	TextHTMLRatio     TextHtmlRatio     `json:"textHtmlRatio"`
	CORS              CORSReport        `json:"cors"`
	PDFLinks          PdfLinks          `json:"pdfLinks"`
	CustomExtractions []ExtractorResult `json:"customExtractions,omitempty"`
}

// LighthouseResult is the audit outcome for a page, however it was produced.
type LighthouseResult struct {
	Performance   *float64 `json:"performance,omitempty"`
	Accessibility *float64 `json:"accessibility,omitempty"`
	BestPractices *float64 `json:"bestPractices,omitempty"`
	SEO           *float64 `json:"seo,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// RedirectHop is one hop in a redirect chain encountered while fetching.
type RedirectHop struct {
	URL        string `json:"url"`
	StatusCode int    `json:"statusCode"`
}

// PageResult is the fully assembled per-page outcome emitted by the page
// pipeline, combining fetch, parse, audit and render results.
type PageResult struct {
	URL            string            `json:"url"`
	Depth          int               `json:"depth"`
	StatusCode     int               `json:"statusCode"`
	ContentHash    string            `json:"contentHash"`
	HTMLObjectKey  string            `json:"htmlObjectKey,omitempty"`
	ResponseTimeMs int64             `json:"responseTimeMs"`
	PageSizeBytes  int               `json:"pageSizeBytes"`
	RedirectChain  []RedirectHop     `json:"redirectChain,omitempty"`
	Parsed         *ParsedPage       `json:"parsed,omitempty"`
	Lighthouse     *LighthouseResult `json:"lighthouse,omitempty"`
	Error          string            `json:"error,omitempty"`
}

// SitemapAnalysis summarizes what was found while probing for sitemaps.
type SitemapAnalysis struct {
	SitemapURLs []string `json:"sitemapUrls,omitempty"`
	URLCount    int      `json:"urlCount"`
}

// SiteContext is the bootstrap information gathered once per job before
// crawling begins: robots rules, sitemap contents, llms.txt presence.
type SiteContext struct {
	Seed            string            `json:"seed"`
	RobotsFound     bool              `json:"robotsFound"`
	LlmsTxtFound    bool              `json:"llmsTxtFound"`
	BlockedAIBots   []string          `json:"blockedAiBots,omitempty"`
	Sitemap         SitemapAnalysis   `json:"sitemap"`
	ResponseTimeMs  int64             `json:"responseTimeMs"`
	PageSizeBytes   int               `json:"pageSizeBytes"`
	ContentHashes   map[string]string `json:"contentHashes,omitempty"` // hash -> url
}

// Clone returns a deep-enough copy of the SiteContext for safe concurrent
// sharing with per-page ContentHashes accumulation.
func (s SiteContext) Clone() SiteContext {
	clone := s
	clone.ContentHashes = make(map[string]string, len(s.ContentHashes))
	for k, v := range s.ContentHashes {
		clone.ContentHashes[k] = v
	}
	clone.BlockedAIBots = append([]string(nil), s.BlockedAIBots...)
	return clone
}

// BacklinkEntry is one external-link projection emitted to the backlinks
// consumer.
type BacklinkEntry struct {
	SourceURL    string `json:"sourceUrl"`
	SourceDomain string `json:"sourceDomain"`
	TargetURL    string `json:"targetUrl"`
	TargetDomain string `json:"targetDomain"`
	AnchorText   string `json:"anchorText,omitempty"`
	Rel          string `json:"rel,omitempty"`
}

// CrawlResultBatch is the unit shipped to the callback URL, either on a
// size/interval trigger or as the job's final flush.
type CrawlResultBatch struct {
	JobID   string       `json:"jobId"`
	Pages   []PageResult `json:"pages"`
	Final   bool         `json:"final"`
	SeqNum  int          `json:"seqNum"`
}
