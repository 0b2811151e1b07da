package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchReturnsBodyAndStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>hi</html>"))
	}))
	defer srv.Close()

	f := New("test-agent", 5*time.Second, 0)
	res, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "<html>hi</html>", string(res.Body))
}

func TestFetchNonExistentHostErrors(t *testing.T) {
	f := New("test-agent", time.Second, 0)
	_, err := f.Fetch(context.Background(), "http://127.0.0.1:1")
	assert.Error(t, err)
}

func TestLimiterForReusesSameHostBucket(t *testing.T) {
	f := New("ua", time.Second, 1000)
	l1 := f.limiterFor("Example.com")
	l2 := f.limiterFor("example.com")
	assert.Same(t, l1, l2)
}

func TestFetchRespectsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := New("ua", 5*time.Second, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Fetch(ctx, srv.URL)
	assert.Error(t, err)
}
