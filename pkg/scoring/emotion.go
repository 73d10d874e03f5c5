package scoring

// EmotionFrame is one time-ordered video frame's emotion signal: either no
// face detected, or an emotion distribution with a dominant label.
type EmotionFrame struct {
	FaceDetected bool
	Emotions     map[string]float64 // label -> score, present iff FaceDetected
	Dominant     string
}

// EmotionResult is the output of the Emotion Scorer.
type EmotionResult struct {
	Confidence      float64
	DominantEmotion string
	Stability       float64
	FaceVisibility  float64
	Feedback        string
}

var positivePool = map[string]bool{"happy": true, "neutral": true}
var stressPool = map[string]bool{"fear": true, "sad": true, "angry": true}

// EmotionScorer is a pure, stateless value component.
type EmotionScorer struct{}

func NewEmotionScorer() EmotionScorer { return EmotionScorer{} }

// Score derives confidence, stability, and dominant emotion across a
// submission's video frames.
func (EmotionScorer) Score(frames []EmotionFrame) EmotionResult {
	if len(frames) == 0 {
		return EmotionResult{Confidence: 50, DominantEmotion: "neutral", Stability: 100, Feedback: "No video signal available."}
	}

	detected := 0
	for _, f := range frames {
		if f.FaceDetected {
			detected++
		}
	}
	visibility := (float64(detected) / float64(len(frames))) * 100

	avgDist := averageEmotionDistribution(frames)
	dominant := argmax(avgDist)

	posSum, stressSum := 0.0, 0.0
	for label, score := range avgDist {
		if positivePool[label] {
			posSum += score
		}
		if stressPool[label] {
			stressSum += score
		}
	}
	confidence := 50.0
	if posSum+stressSum > 0 {
		confidence = 100 * posSum / (posSum + stressSum)
	}

	stability := stabilityOf(frames)

	return EmotionResult{
		Confidence:      confidence,
		DominantEmotion: dominant,
		Stability:       stability,
		FaceVisibility:  visibility,
		Feedback:        emotionFeedback(confidence, visibility),
	}
}

func averageEmotionDistribution(frames []EmotionFrame) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, f := range frames {
		if !f.FaceDetected {
			continue
		}
		for label, score := range f.Emotions {
			sums[label] += score
			counts[label]++
		}
	}
	avg := make(map[string]float64, len(sums))
	for label, sum := range sums {
		avg[label] = sum / float64(counts[label])
	}
	return avg
}

func argmax(dist map[string]float64) string {
	best := ""
	bestScore := -1.0
	// Deterministic iteration over a fixed label priority keeps argmax stable
	// across runs even when the input map iterates in random order.
	for _, label := range []string{"happy", "neutral", "sad", "angry", "fear", "surprise", "disgust"} {
		if score, ok := dist[label]; ok && score > bestScore {
			bestScore = score
			best = label
		}
	}
	if best == "" {
		for label, score := range dist {
			if score > bestScore {
				bestScore = score
				best = label
			}
		}
	}
	return best
}

func stabilityOf(frames []EmotionFrame) float64 {
	var emotive []EmotionFrame
	for _, f := range frames {
		if f.FaceDetected {
			emotive = append(emotive, f)
		}
	}
	if len(emotive) < 2 {
		return 100
	}
	transitions := 0
	for i := 1; i < len(emotive); i++ {
		if emotive[i].Dominant != emotive[i-1].Dominant {
			transitions++
		}
	}
	return (1 - float64(transitions)/float64(len(emotive)-1)) * 100
}

func emotionFeedback(confidence, visibility float64) string {
	switch {
	case visibility < 50:
		return "Your face wasn't visible for much of the session; ensure good lighting and camera framing."
	case confidence < 50:
		return "You appeared tense at times; try to relax and project more confidence."
	default:
		return "You maintained a confident, composed presence."
	}
}
