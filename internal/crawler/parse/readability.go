package parse

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/llmrank/crawlengine/internal/models"
)

var sentenceBoundary = regexp.MustCompile(`[.!?]+`)

// countSentences counts terminal punctuation marks, with a floor of 1 so a
// division by sentence count never panics on punctuation-free text.
func countSentences(text string) int {
	n := len(sentenceBoundary.FindAllString(text, -1))
	if n < 1 {
		return 1
	}
	return n
}

func countWords(text string) int {
	n := len(strings.Fields(text))
	if n < 1 {
		return 1
	}
	return n
}

var vowels = "aeiouy"

// countWordSyllables applies a vowel-group heuristic with a silent
// trailing-e adjustment (skipped for a consonant+"le" ending, as in
// "table"), floored at 1 syllable per word.
func countWordSyllables(word string) int {
	word = strings.ToLower(strings.TrimFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r)
	}))
	if word == "" {
		return 1
	}
	count := 0
	prevVowel := false
	for _, r := range word {
		isVowel := strings.ContainsRune(vowels, r)
		if isVowel && !prevVowel {
			count++
		}
		prevVowel = isVowel
	}
	consonantLE := len(word) > 2 && strings.HasSuffix(word, "le") &&
		!strings.ContainsRune(vowels, rune(word[len(word)-3]))
	if strings.HasSuffix(word, "e") && !consonantLE && count > 1 {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}

func countSyllables(text string) int {
	total := 0
	for _, w := range strings.Fields(text) {
		total += countWordSyllables(w)
	}
	if total < 1 {
		total = 1
	}
	return total
}

// ComputeFlesch computes the Flesch Reading Ease score, clamped to
// [0, 100], with its qualitative classification.
func ComputeFlesch(text string) models.FleschScore {
	words := float64(countWords(text))
	sentences := float64(countSentences(text))
	syllables := float64(countSyllables(text))

	score := 206.835 - 1.015*(words/sentences) - 84.6*(syllables/words)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return models.FleschScore{Score: score, Classification: classifyFlesch(score)}
}

func classifyFlesch(score float64) string {
	switch {
	case score >= 90:
		return "Very Easy"
	case score >= 80:
		return "Easy"
	case score >= 70:
		return "Fairly Easy"
	case score >= 60:
		return "Standard"
	case score >= 50:
		return "Fairly Difficult"
	case score >= 30:
		return "Difficult"
	default:
		return "Very Difficult"
	}
}

// ComputeTextHTMLRatio reports the ratio of visible text bytes to total
// HTML bytes.
func ComputeTextHTMLRatio(text string, htmlBytes int) models.TextHtmlRatio {
	textBytes := len(text)
	ratio := 0.0
	if htmlBytes > 0 {
		ratio = float64(textBytes) / float64(htmlBytes)
	}
	return models.TextHtmlRatio{TextBytes: textBytes, HTMLBytes: htmlBytes, Ratio: ratio}
}

var transitionWords = []string{
	"in conclusion",
	"moreover",
	"furthermore",
	"however",
	"therefore",
	"additionally",
	"consequently",
	"it is important to note",
	"it's important to note",
}

// HumanReadinessScore estimates how "naturally written" (as opposed to
// templated or AI-boilerplate) a body of text reads, based on sentence
// length variance and transition-word usage.
func HumanReadinessScore(text string) float64 {
	sentences := splitSentences(text)
	var lengths []int
	for _, s := range sentences {
		words := len(strings.Fields(s))
		if words > 3 {
			lengths = append(lengths, words)
		}
	}
	if len(lengths) == 0 {
		return 0
	}

	mean := 0.0
	for _, l := range lengths {
		mean += float64(l)
	}
	mean /= float64(len(lengths))

	variance := 0.0
	for _, l := range lengths {
		d := float64(l) - mean
		variance += d * d
	}
	variance /= float64(len(lengths))

	lower := strings.ToLower(text)
	transitionHits := 0
	for _, tw := range transitionWords {
		transitionHits += strings.Count(lower, tw)
	}

	score := variance + float64(transitionHits)*2
	return score
}

func splitSentences(text string) []string {
	raw := sentenceBoundary.Split(text, -1)
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
