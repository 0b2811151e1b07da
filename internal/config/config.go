// Package config loads process configuration from the environment,
// following the same GetEnv/GetEnvAsInt helper pattern the rest of the
// pack's crawlers use, generalized to fail fast on missing secrets rather
// than silently defaulting them.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds every environment-driven knob the crawl engine needs at
// startup.
type Config struct {
	Port                  string
	SharedSecret          string
	APIBaseURL            string
	R2AccessKey           string
	R2SecretKey           string
	R2Endpoint            string
	R2Bucket              string
	MaxConcurrentJobs     int
	MaxConcurrentFetches  int
	MaxConcurrentAudits   int
	MaxConcurrentRenders  int
	BatchPageThreshold    int
	BatchIntervalSecs     int
	RendererScriptPath    string
}

// Error wraps a missing or malformed required environment variable.
type Error struct {
	Var string
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Var, e.Msg)
}

// getEnv reads an environment variable or returns a default.
func getEnv(key, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultVal
}

// getEnvAsInt reads an environment variable as an int or returns a default.
func getEnvAsInt(key string, defaultVal int) int {
	v := getEnv(key, "")
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return defaultVal
}

func requireEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", &Error{Var: key, Msg: "required but not set"}
	}
	return v, nil
}

// FromEnv builds a Config from the process environment. Required
// credentials and secrets are startup-fatal when missing; everything else
// falls back to the defaults below.
func FromEnv() (*Config, error) {
	sharedSecret, err := requireEnv("SHARED_SECRET")
	if err != nil {
		return nil, err
	}
	r2Access, err := requireEnv("R2_ACCESS_KEY")
	if err != nil {
		return nil, err
	}
	r2Secret, err := requireEnv("R2_SECRET_KEY")
	if err != nil {
		return nil, err
	}
	r2Endpoint, err := requireEnv("R2_ENDPOINT")
	if err != nil {
		return nil, err
	}
	r2Bucket, err := requireEnv("R2_BUCKET")
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:                 getEnv("PORT", "8080"),
		SharedSecret:         sharedSecret,
		APIBaseURL:           getEnv("API_BASE_URL", ""),
		R2AccessKey:          r2Access,
		R2SecretKey:          r2Secret,
		R2Endpoint:           r2Endpoint,
		R2Bucket:             r2Bucket,
		MaxConcurrentJobs:    getEnvAsInt("MAX_CONCURRENT_JOBS", 5),
		MaxConcurrentFetches: getEnvAsInt("MAX_CONCURRENT_FETCHES", 10),
		MaxConcurrentAudits:  getEnvAsInt("MAX_CONCURRENT_AUDITS", 2),
		MaxConcurrentRenders: getEnvAsInt("MAX_CONCURRENT_RENDERERS", 2),
		BatchPageThreshold:   getEnvAsInt("BATCH_PAGE_THRESHOLD", 25),
		BatchIntervalSecs:    getEnvAsInt("BATCH_INTERVAL_SECS", 30),
		RendererScriptPath:   getEnv("RENDERER_SCRIPT_PATH", "render.js"),
	}, nil
}
