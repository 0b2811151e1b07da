package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeFleschClassification(t *testing.T) {
	easy := ComputeFlesch("The cat sat. The dog ran. I see a star.")
	assert.GreaterOrEqual(t, easy.Score, 0.0)
	assert.LessOrEqual(t, easy.Score, 100.0)
	assert.NotEmpty(t, easy.Classification)
}

func TestClassifyFleschThresholds(t *testing.T) {
	assert.Equal(t, "Very Easy", classifyFlesch(95))
	assert.Equal(t, "Easy", classifyFlesch(85))
	assert.Equal(t, "Fairly Easy", classifyFlesch(75))
	assert.Equal(t, "Standard", classifyFlesch(65))
	assert.Equal(t, "Fairly Difficult", classifyFlesch(55))
	assert.Equal(t, "Difficult", classifyFlesch(35))
	assert.Equal(t, "Very Difficult", classifyFlesch(10))
}

func TestCountSentencesFloorsAtOne(t *testing.T) {
	assert.Equal(t, 1, countSentences("no punctuation here"))
	assert.Equal(t, 2, countSentences("One. Two."))
}

func TestCountWordSyllables(t *testing.T) {
	assert.Equal(t, 1, countWordSyllables("cat"))
	assert.Equal(t, 2, countWordSyllables("table"))
	assert.Equal(t, 1, countWordSyllables(""))
}

func TestComputeTextHTMLRatio(t *testing.T) {
	r := ComputeTextHTMLRatio("hello world", 100)
	assert.Equal(t, 11, r.TextBytes)
	assert.Equal(t, 100, r.HTMLBytes)
	assert.InDelta(t, 0.11, r.Ratio, 0.01)
}

func TestHumanReadinessScoreEmptyText(t *testing.T) {
	assert.Equal(t, 0.0, HumanReadinessScore(""))
}

func TestHumanReadinessScoreTransitionWords(t *testing.T) {
	withTransitions := HumanReadinessScore("This is a long enough sentence to count. However, this next one also counts. Furthermore this one does too.")
	withoutTransitions := HumanReadinessScore("This is a long enough sentence to count. This next one also counts here. This one does too yes.")
	assert.Greater(t, withTransitions, withoutTransitions)
}
