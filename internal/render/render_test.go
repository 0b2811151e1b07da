package render

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputParsesLinks(t *testing.T) {
	raw := []byte(`{"links":[{"url":"https://example.com/a","anchorText":"A","rel":"nofollow"}]}`)
	var out output
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Len(t, out.Links, 1)
	assert.Equal(t, "https://example.com/a", out.Links[0].URL)
	assert.Empty(t, out.Error)
}

func TestOutputParsesError(t *testing.T) {
	raw := []byte(`{"error":"navigation timeout"}`)
	var out output
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "navigation timeout", out.Error)
	assert.Empty(t, out.Links)
}
