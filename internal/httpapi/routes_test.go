package httpapi

import (
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmrank/crawlengine/internal/config"
	"github.com/llmrank/crawlengine/internal/jobs"
	"github.com/llmrank/crawlengine/internal/signing"
)

func testServer() (*Server, string) {
	secret := "shh"
	cfg := &config.Config{
		SharedSecret:         secret,
		MaxConcurrentJobs:    1,
		MaxConcurrentFetches: 1,
		BatchPageThreshold:   25,
		BatchIntervalSecs:    30,
	}
	manager := jobs.New(cfg, zerolog.Nop(), nil)
	return New(manager, secret, zerolog.Nop()), secret
}

func TestHealthEndpointUnauthenticated(t *testing.T) {
	s, _ := testServer()
	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestCreateJobRejectsWithoutSignature(t *testing.T) {
	s, _ := testServer()
	req := httptest.NewRequest("POST", "/api/v1/jobs/", nil)
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestJobStatusUnknownSynthesizesPending(t *testing.T) {
	s, secret := testServer()
	now := time.Now().Unix()
	req := httptest.NewRequest("GET", "/api/v1/jobs/unknown-id/status", nil)
	req.Header.Set("X-Signature", signing.Header(secret, now, []byte{}))
	req.Header.Set("X-Timestamp", strconv.FormatInt(now, 10))

	resp, err := s.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "pending", body["status"])
}
