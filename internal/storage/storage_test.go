package storage

import (
	"bytes"
	"compress/gzip"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGzipBytesRoundTrip(t *testing.T) {
	raw := []byte("<html><body>hello world</body></html>")
	compressed, err := gzipBytes(raw)
	require.NoError(t, err)
	assert.NotEqual(t, raw, compressed)

	reader, err := gzip.NewReader(bytes.NewReader(compressed))
	require.NoError(t, err)
	defer reader.Close()

	decompressed, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, raw, decompressed)
}

func TestGzipBytesEmptyInput(t *testing.T) {
	compressed, err := gzipBytes(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, compressed)
}
