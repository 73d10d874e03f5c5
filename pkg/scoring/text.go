package scoring

import (
	"strings"

	"github.com/altoai/interview-platform/pkg/interview"
)

// TextResult is the output of the Text Scorer, prior to being folded into
// an interview.Evaluation by the Agent Core.
type TextResult struct {
	Content       float64
	Relevance     float64
	Keywords      interview.KeywordCoverage
	Sentiment     interview.Sentiment
	Coherence     float64
	WordCount     int
	SentenceCount int
	Feedback      string
	Suggestions   []string
}

// TextScorer is a pure, stateless value component: no shared mutable
// state, safe for concurrent use.
type TextScorer struct{}

func NewTextScorer() TextScorer { return TextScorer{} }

// Score runs the full pipeline: short-circuit, content score, relevance
// score, keyword analysis, sentiment, coherence, and feedback/suggestion
// assembly.
func (TextScorer) Score(questionType interview.Type, questionText, answer string, expectedKeywords []string) TextResult {
	wc := wordCount(answer)
	if strings.TrimSpace(answer) == "" || wc < 10 {
		return TextResult{
			Content:     0,
			Relevance:   0,
			WordCount:   wc,
			Feedback:    "too short",
			Suggestions: []string{"provide more detail", "explain reasoning"},
		}
	}

	sentences := splitSentences(answer)
	content := contentScore(answer, wc, sentences)
	relevance := relevanceScore(questionText, answer, expectedKeywords)
	keywords := keywordAnalysis(answer, expectedKeywords)
	sentiment := sentimentOf(answer)
	coherence := coherenceScore(sentences)

	feedback, suggestions := assembleFeedback(content, relevance, keywords, questionType)

	return TextResult{
		Content:       content,
		Relevance:     relevance,
		Keywords:      keywords,
		Sentiment:     sentiment,
		Coherence:     coherence,
		WordCount:     wc,
		SentenceCount: len(sentences),
		Feedback:      feedback,
		Suggestions:   suggestions,
	}
}

func contentScore(answer string, wc int, sentences []string) float64 {
	return lengthScore(wc) + structureScore(answer, sentences) + complexityScore(answer, wc)
}

// lengthScore is the 0-40 piecewise length bucket.
func lengthScore(wc int) float64 {
	fwc := float64(wc)
	switch {
	case fwc < 20:
		return (fwc / 20) * 20
	case fwc < 50:
		return 20 + ((fwc-20)/30)*10
	case fwc < 100:
		return 30 + ((fwc-50)/50)*10
	default:
		return 40
	}
}

// structureScore is the 0-30 structure bucket: base on sentence count, plus
// a bonus for example markers.
func structureScore(answer string, sentences []string) float64 {
	var base float64
	switch {
	case len(sentences) >= 3:
		base = 15
	case len(sentences) >= 2:
		base = 10
	default:
		base = 5
	}
	if containsAny(answer, exampleMarkers) {
		base += 15
	}
	return base
}

// complexityScore is the 0-15 bucket on average word length.
func complexityScore(answer string, wc int) float64 {
	if wc == 0 {
		return 5
	}
	totalLen := 0
	for _, t := range tokenize(answer) {
		totalLen += len(t)
	}
	avgLen := float64(totalLen) / float64(wc)
	switch {
	case avgLen > 5:
		return 15
	case avgLen > 4:
		return 10
	default:
		return 5
	}
}

func relevanceScore(questionText, answer string, expectedKeywords []string) float64 {
	overlap := tokenOverlapScore(questionText, answer)
	coverage := keywordCoverageScore(answer, expectedKeywords)
	return overlap + coverage
}

// tokenOverlapScore is 0-50: |Q ∩ A| / |Q| over stop-word-filtered tokens.
func tokenOverlapScore(questionText, answer string) float64 {
	qTokens := filterStopWords(tokenize(questionText))
	if len(qTokens) == 0 {
		return 0
	}
	aSet := make(map[string]bool)
	for _, t := range filterStopWords(tokenize(answer)) {
		aSet[t] = true
	}
	qSet := make(map[string]bool)
	overlap := 0
	for _, t := range qTokens {
		if qSet[t] {
			continue
		}
		qSet[t] = true
		if aSet[t] {
			overlap++
		}
	}
	return (float64(overlap) / float64(len(qSet))) * 50
}

// keywordCoverageScore is 0-50: (found/total)*50, or the constant 25 with
// an empty expected-keyword list.
func keywordCoverageScore(answer string, expectedKeywords []string) float64 {
	if len(expectedKeywords) == 0 {
		return 25
	}
	found := 0
	lower := strings.ToLower(answer)
	for _, kw := range expectedKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			found++
		}
	}
	return (float64(found) / float64(len(expectedKeywords))) * 50
}

func keywordAnalysis(answer string, expectedKeywords []string) interview.KeywordCoverage {
	lower := strings.ToLower(answer)
	var found, missing []string
	for _, kw := range expectedKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			found = append(found, kw)
		} else {
			missing = append(missing, kw)
		}
	}
	return interview.KeywordCoverage{Found: found, Missing: missing}
}

func sentimentOf(answer string) interview.Sentiment {
	pos := countAny(answer, keys(positiveWords))
	neg := countAny(answer, keys(negativeWords))
	switch {
	case pos > neg:
		return interview.SentimentPositive
	case neg > pos:
		return interview.SentimentNegative
	default:
		return interview.SentimentNeutral
	}
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// coherenceScore starts at base 70, adds +20/+10 for transition words and
// +10 for low sentence-length variance, capped at 100; with fewer than 2
// sentences it returns a flat 60.
func coherenceScore(sentences []string) float64 {
	if len(sentences) < 2 {
		return 60
	}
	full := strings.Join(sentences, " ")
	transitions := countAny(full, transitionWords)

	score := 70.0
	switch {
	case transitions >= 2:
		score += 20
	case transitions == 1:
		score += 10
	}

	lengths := make([]float64, len(sentences))
	for i, s := range sentences {
		lengths[i] = float64(wordCount(s))
	}
	if variance(lengths) < 100 {
		score += 10
	}

	return minF(score, 100)
}

// assembleFeedback is threshold-driven template assembly keyed on
// (content<60), (relevance<60), (missing keywords), (question type).
func assembleFeedback(content, relevance float64, keywords interview.KeywordCoverage, qType interview.Type) (string, []string) {
	var parts []string
	var suggestions []string

	if content < 60 {
		parts = append(parts, "Your answer could use more depth and structure.")
		suggestions = append(suggestions, "expand your answer with more specific details")
	}
	if relevance < 60 {
		parts = append(parts, "Your answer didn't fully address the question asked.")
		suggestions = append(suggestions, "focus more directly on what the question is asking")
	}
	if len(keywords.Missing) > 0 {
		parts = append(parts, "You missed some key terms expected in a strong answer.")
		suggestions = append(suggestions, "try to include relevant terminology such as: "+strings.Join(keywords.Missing, ", "))
	}

	switch qType {
	case interview.TypeBehavioral:
		suggestions = append(suggestions, "use the STAR method (Situation, Task, Action, Result)")
	case interview.TypeTechnical:
		suggestions = append(suggestions, "walk through your reasoning step by step")
	case interview.TypeSituational:
		suggestions = append(suggestions, "describe the specific actions you would take and why")
	}

	if len(parts) == 0 {
		parts = append(parts, "Solid answer overall.")
	}

	return strings.Join(parts, " "), suggestions
}
