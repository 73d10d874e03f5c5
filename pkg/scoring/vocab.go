// Package scoring implements the deterministic, rule-based scorers for
// answer text, speech signal, and video frames, plus the aggregator that
// rolls per-question evaluations into weak/strong areas, skill gaps, and a
// learning path.
package scoring

import (
	"math"
	"strings"
)

// stopWords is the closed-vocabulary stop-word list used for token-overlap
// relevance scoring.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "been": true, "being": true, "and": true,
	"or": true, "but": true, "if": true, "then": true, "so": true,
	"to": true, "of": true, "in": true, "on": true, "at": true, "for": true,
	"with": true, "by": true, "from": true, "as": true, "it": true,
	"this": true, "that": true, "these": true, "those": true, "i": true,
	"you": true, "he": true, "she": true, "we": true, "they": true,
	"my": true, "your": true, "his": true, "her": true, "our": true,
	"their": true, "me": true, "him": true, "us": true, "them": true,
	"do": true, "does": true, "did": true, "will": true, "would": true,
	"can": true, "could": true, "should": true, "have": true, "has": true,
	"had": true, "not": true, "no": true, "just": true, "about": true,
}

var exampleMarkers = []string{"for example", "for instance", "such as", "like", "specifically"}

var transitionWords = []string{
	"however", "therefore", "furthermore", "moreover", "additionally",
	"consequently", "meanwhile", "nevertheless", "thus", "also", "first",
	"second", "finally", "in addition", "on the other hand",
}

var positiveWords = map[string]bool{
	"excited": true, "passionate": true, "confident": true, "great": true,
	"excellent": true, "happy": true, "love": true, "enjoy": true,
	"successful": true, "achieved": true, "proud": true, "motivated": true,
	"good": true, "positive": true, "strong": true, "effective": true,
}

var negativeWords = map[string]bool{
	"difficult": true, "problem": true, "failed": true, "struggle": true,
	"hard": true, "bad": true, "worried": true, "frustrated": true,
	"confused": true, "weak": true, "poor": true, "negative": true,
	"afraid": true, "anxious": true, "mistake": true,
}

var hardIndicators = []string{"critically", "evaluate", "propose"}
var mediumIndicators = []string{"how would you", "compare", "analyze"}
var easyIndicators = []string{"what is", "define", "tell me about"}

var fillerWords = []string{
	"um", "uh", "like", "you know", "basically", "actually", "literally",
	"sort of", "kind of", "i mean",
}

func tokenize(s string) []string {
	s = strings.ToLower(s)
	var tokens []string
	var cur strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '\'' {
			cur.WriteRune(r)
		} else {
			if cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
		}
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

func filterStopWords(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !stopWords[t] {
			out = append(out, t)
		}
	}
	return out
}

func wordCount(s string) int {
	return len(tokenize(s))
}

func splitSentences(s string) []string {
	var sentences []string
	var cur strings.Builder
	for _, r := range s {
		cur.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			trimmed := strings.TrimSpace(cur.String())
			if trimmed != "" {
				sentences = append(sentences, trimmed)
			}
			cur.Reset()
		}
	}
	if trimmed := strings.TrimSpace(cur.String()); trimmed != "" {
		sentences = append(sentences, trimmed)
	}
	return sentences
}

func containsAny(haystack string, needles []string) bool {
	lower := strings.ToLower(haystack)
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}

func countAny(haystack string, needles []string) int {
	lower := strings.ToLower(haystack)
	count := 0
	for _, n := range needles {
		count += strings.Count(lower, n)
	}
	return count
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}

func variance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return sum / float64(len(xs))
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
