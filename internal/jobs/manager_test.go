package jobs

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmrank/crawlengine/internal/config"
	"github.com/llmrank/crawlengine/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		SharedSecret:         "s",
		MaxConcurrentJobs:    2,
		MaxConcurrentFetches: 2,
		MaxConcurrentAudits:  1,
		MaxConcurrentRenders: 1,
		BatchPageThreshold:   25,
		BatchIntervalSecs:    30,
	}
}

func TestSubmitAssignsJobIDAndQueuesOrCrawls(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><a href="/next">next</a></body></html>`))
	}))
	defer page.Close()

	m := New(testConfig(), zerolog.Nop(), nil)
	jobID := m.Submit(models.JobPayload{
		SeedURLs: []string{page.URL},
		Config:   models.CrawlConfig{UserAgent: "ua", MaxPages: 1, RunLighthouse: false, RunJsRender: false, CheckLlmsTxt: false},
	})
	require.NotEmpty(t, jobID)

	require.Eventually(t, func() bool {
		status := m.Status(jobID)
		return status.Status == models.JobComplete || status.Status == models.JobFailed
	}, 5*time.Second, 10*time.Millisecond)
}

func TestStatusUnknownJobSynthesizesPending(t *testing.T) {
	m := New(testConfig(), zerolog.Nop(), nil)
	status := m.Status("does-not-exist")
	assert.Equal(t, models.JobPending, status.Status)
}

func TestCancelUnknownJobReturnsFalse(t *testing.T) {
	m := New(testConfig(), zerolog.Nop(), nil)
	assert.False(t, m.Cancel("does-not-exist"))
}

func TestCancelStopsRunningJob(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`<html><body>hi</body></html>`))
	}))
	defer page.Close()

	m := New(testConfig(), zerolog.Nop(), nil)
	jobID := m.Submit(models.JobPayload{
		SeedURLs: []string{page.URL},
		Config:   models.CrawlConfig{UserAgent: "ua", MaxPages: 0, RunLighthouse: false, RunJsRender: false, CheckLlmsTxt: false},
	})
	assert.True(t, m.Cancel(jobID))

	require.Eventually(t, func() bool {
		status := m.Status(jobID)
		return status.Status == models.JobCancelled
	}, 5*time.Second, 10*time.Millisecond)
}
