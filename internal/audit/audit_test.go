package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractScore(t *testing.T) {
	raw := []byte(`{"categories":{"performance":{"score":0.91},"accessibility":{"score":0.8},"best-practices":{"score":0.95},"seo":{"score":1.0}}}`)
	result, err := extractScore(raw)
	require.NoError(t, err)
	require.NotNil(t, result.Performance)
	assert.InDelta(t, 0.91, *result.Performance, 0.001)
	require.NotNil(t, result.BestPractices)
	assert.InDelta(t, 0.95, *result.BestPractices, 0.001)
}

func TestExtractScoreMissingCategory(t *testing.T) {
	raw := []byte(`{"categories":{"performance":{"score":0.5}}}`)
	result, err := extractScore(raw)
	require.NoError(t, err)
	require.NotNil(t, result.Performance)
	assert.Nil(t, result.Accessibility)
}

func TestExtractScoreInvalidJSON(t *testing.T) {
	_, err := extractScore([]byte(`not json`))
	assert.Error(t, err)
}
