package scoring

import (
	"strings"
)

// AudioFeatures carries the signal-level inputs to the Speech Scorer:
// duration, per-frame RMS energy, per-frame zero-crossing rate, sample
// rate, and hop length (in samples).
type AudioFeatures struct {
	DurationSeconds float64
	RMS             []float64
	ZCR             []float64
	SampleRate      int
	HopLength       int
}

// SpeechResult is the output of the Speech Scorer.
type SpeechResult struct {
	Clarity       float64
	Fluency       float64
	WPM           float64
	FillerCount   int
	FillerPercent float64
	PauseCount    int
	Feedback      string
}

// SpeechScorer is a pure, stateless value component.
type SpeechScorer struct{}

func NewSpeechScorer() SpeechScorer { return SpeechScorer{} }

// Score derives clarity, fluency, filler, and pause metrics from the
// audio signal and its transcript.
func (SpeechScorer) Score(features AudioFeatures, transcript string) SpeechResult {
	avgVolume := mean(features.RMS)
	volumeConsistency := 0.0
	if avgVolume > 0 {
		volumeConsistency = 100 - minF((stddev(features.RMS)/avgVolume)*100, 100)
	}

	pauses := countPauses(features, avgVolume)
	pauseSeconds := totalPauseSeconds(features, avgVolume)

	avgZCR := mean(features.ZCR)
	audioQuality := minF(100, (1-minF(avgZCR, 0.5))*100)

	pauseRate := 0.0
	if features.DurationSeconds > 0 {
		pauseRate = float64(pauses) / (features.DurationSeconds / 60)
	}

	clarity := clarityScore(audioQuality, volumeConsistency, pauseRate)
	wc := wordCount(transcript)
	wpm := 0.0
	if features.DurationSeconds > 0 {
		wpm = float64(wc) * 60 / features.DurationSeconds
	}

	fluency, pauseRatio := fluencyScore(wpm, pauseSeconds, features.DurationSeconds, transcript, wc)
	_ = pauseRatio

	fillerCount, fillerPct := fillerDetection(transcript, wc)

	return SpeechResult{
		Clarity:       clarity,
		Fluency:       fluency,
		WPM:           wpm,
		FillerCount:   fillerCount,
		FillerPercent: fillerPct,
		PauseCount:    pauses,
		Feedback:      speechFeedback(clarity, fluency, fillerPct),
	}
}

// isSilent reports whether a frame's RMS is below 0.3*mean(RMS).
func isSilent(rms, avgVolume float64) bool {
	return rms < 0.3*avgVolume
}

func frameSeconds(features AudioFeatures) float64 {
	if features.SampleRate == 0 {
		return 0
	}
	return float64(features.HopLength) / float64(features.SampleRate)
}

// countPauses counts maximal silent runs whose duration exceeds 0.5s.
func countPauses(features AudioFeatures, avgVolume float64) int {
	fs := frameSeconds(features)
	if fs == 0 {
		return 0
	}
	count := 0
	run := 0
	for _, r := range features.RMS {
		if isSilent(r, avgVolume) {
			run++
		} else {
			if float64(run)*fs > 0.5 {
				count++
			}
			run = 0
		}
	}
	if float64(run)*fs > 0.5 {
		count++
	}
	return count
}

func totalPauseSeconds(features AudioFeatures, avgVolume float64) float64 {
	fs := frameSeconds(features)
	if fs == 0 {
		return 0
	}
	total := 0.0
	run := 0
	flush := func() {
		if float64(run)*fs > 0.5 {
			total += float64(run) * fs
		}
		run = 0
	}
	for _, r := range features.RMS {
		if isSilent(r, avgVolume) {
			run++
		} else {
			flush()
		}
	}
	flush()
	return total
}

// clarityScore: quality*0.4 + volume_consistency*0.3 + pause_rate term.
func clarityScore(quality, volumeConsistency, pauseRate float64) float64 {
	var term float64
	switch {
	case pauseRate >= 2 && pauseRate <= 4:
		term = 30
	case pauseRate < 2:
		term = 20 + (pauseRate/2)*10
	default:
		term = maxF(0, 30-(pauseRate-4)*5)
	}
	return quality*0.4 + volumeConsistency*0.3 + term
}

// fluencyScore: speaking rate (0-40) + pause ratio (0-30) + lexical variety (0-30).
func fluencyScore(wpm, pauseSeconds, duration float64, transcript string, wc int) (float64, float64) {
	var rateScore float64
	switch {
	case wpm >= 120 && wpm <= 160:
		rateScore = 40
	case (wpm >= 100 && wpm < 120) || (wpm > 160 && wpm <= 180):
		rateScore = 30
	case wpm < 100:
		rateScore = (wpm / 100) * 20
	default:
		rateScore = maxF(0, 40-(wpm-180)*0.5)
	}

	pauseRatio := 0.0
	if duration > 0 {
		pauseRatio = pauseSeconds / duration
	}
	var pauseScore float64
	switch {
	case pauseRatio >= 0.15 && pauseRatio <= 0.25:
		pauseScore = 30
	case (pauseRatio >= 0.10 && pauseRatio < 0.15) || (pauseRatio > 0.25 && pauseRatio <= 0.30):
		pauseScore = 20
	default:
		pauseScore = 10
	}

	varietyScore := 0.0
	if wc > 0 {
		unique := uniqueWordCount(transcript)
		varietyScore = minF((float64(unique)/float64(wc))*60, 30)
	}

	return rateScore + pauseScore + varietyScore, pauseRatio
}

func uniqueWordCount(s string) int {
	set := make(map[string]bool)
	for _, t := range tokenize(s) {
		set[t] = true
	}
	return len(set)
}

func fillerDetection(transcript string, wc int) (int, float64) {
	count := countAny(transcript, fillerWords)
	pct := 0.0
	if wc > 0 {
		pct = (float64(count) / float64(wc)) * 100
	}
	return count, pct
}

func speechFeedback(clarity, fluency, fillerPct float64) string {
	var parts []string
	if clarity < 60 {
		parts = append(parts, "Work on speaking more clearly and steadily.")
	}
	if fluency < 60 {
		parts = append(parts, "Try to speak at a more natural, even pace.")
	}
	if fillerPct > 5 {
		parts = append(parts, "Reduce filler words like 'um' and 'like'.")
	}
	if len(parts) == 0 {
		return "Clear and fluent delivery."
	}
	return strings.Join(parts, " ")
}
