package scoring

import (
	"math"

	"github.com/altoai/interview-platform/pkg/interview"
)

// Severity classifies a weak area.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
)

// ConfidenceLevel classifies a strong area.
type ConfidenceLevel string

const (
	ConfidenceHigh ConfidenceLevel = "high"
	ConfidenceGood ConfidenceLevel = "good"
)

const (
	DefaultWeakThreshold   = 65.0
	DefaultStrongThreshold = 80.0
)

// WeakArea is one entry of Aggregator.WeakAreas's result.
type WeakArea struct {
	Area                  string
	AvgScore               float64
	Attempts               int
	Severity               Severity
	CommonMissingKeywords  []string
	ImprovementPotential   float64
}

// StrongArea is one entry of Aggregator.StrongAreas's result.
type StrongArea struct {
	Area            string
	AvgScore        float64
	Attempts        int
	ConfidenceLevel ConfidenceLevel
}

// SkillGap is one entry of Aggregator.SkillGaps's result.
type SkillGap struct {
	Skill       string
	RelatedArea string
	Current     float64
	Gap         float64
	Priority    int
}

// Suggestion is one entry of Aggregator.Suggestions's result.
type Suggestion struct {
	Type        string
	Priority    int
	Title       string
	Description string
	ActionItems []string
	Resources   []string
}

// LearningPhase is one phase of the Aggregator.LearningPath's result.
type LearningPhase struct {
	Name      string
	Weeks     int
	Focus     []string
	Milestones []string
}

// LearningPath is the full three-phase learning plan.
type LearningPath struct {
	TotalWeeks int
	Phases     []LearningPhase
}

// QuestionEval pairs an Evaluation with the category its question belonged
// to, the input shape the Aggregator consumes.
type QuestionEval struct {
	Category   string
	Eval       interview.Evaluation
}

// Aggregator is a pure, stateless value component.
type Aggregator struct{}

func NewAggregator() Aggregator { return Aggregator{} }

func categoryAverage(e interview.Evaluation) float64 {
	return (e.Content + e.Relevance) / 2
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// byCategory groups evaluations by category, preserving first-seen order.
func byCategory(evals []QuestionEval) ([]string, map[string][]interview.Evaluation) {
	order := make([]string, 0)
	groups := make(map[string][]interview.Evaluation)
	for _, qe := range evals {
		if _, ok := groups[qe.Category]; !ok {
			order = append(order, qe.Category)
		}
		groups[qe.Category] = append(groups[qe.Category], qe.Eval)
	}
	return order, groups
}

// WeakAreas groups evaluations by category and flags those averaging
// below threshold.
func (Aggregator) WeakAreas(evals []QuestionEval, threshold float64) []WeakArea {
	order, groups := byCategory(evals)
	var out []WeakArea
	for _, category := range order {
		es := groups[category]
		scores := make([]float64, len(es))
		for i, e := range es {
			scores[i] = categoryAverage(e)
		}
		avgScore := round2(mean(scores))
		if avgScore >= threshold {
			continue
		}
		sev := SeverityMedium
		if avgScore < 50 {
			sev = SeverityHigh
		}
		out = append(out, WeakArea{
			Area:                  category,
			AvgScore:              avgScore,
			Attempts:              len(es),
			Severity:              sev,
			CommonMissingKeywords: commonMissingKeywords(es),
			ImprovementPotential:  round2(threshold - avgScore),
		})
	}
	return out
}

func commonMissingKeywords(es []interview.Evaluation) []string {
	counts := make(map[string]int)
	var order []string
	for _, e := range es {
		for _, kw := range e.Keywords.Missing {
			if counts[kw] == 0 {
				order = append(order, kw)
			}
			counts[kw]++
		}
	}
	var out []string
	for _, kw := range order {
		if counts[kw] >= 2 || len(es) == 1 {
			out = append(out, kw)
		}
	}
	return out
}

// StrongAreas groups evaluations by category and flags those averaging
// at or above threshold.
func (Aggregator) StrongAreas(evals []QuestionEval, threshold float64) []StrongArea {
	order, groups := byCategory(evals)
	var out []StrongArea
	for _, category := range order {
		es := groups[category]
		scores := make([]float64, len(es))
		for i, e := range es {
			scores[i] = categoryAverage(e)
		}
		avgScore := round2(mean(scores))
		if avgScore < threshold {
			continue
		}
		lvl := ConfidenceGood
		if avgScore >= 90 {
			lvl = ConfidenceHigh
		}
		out = append(out, StrongArea{Area: category, AvgScore: avgScore, Attempts: len(es), ConfidenceLevel: lvl})
	}
	return out
}

// skillMapping is one (skill, area-keyword) entry in the fixed skill table.
type skillMapping struct {
	Skill       string
	AreaKeyword string
}

// skillMap is the fixed skill→keyword-area mapping per interview type,
// recovered in shape from original_source/ai_modules/adaptive/adaptive_system.py.
// Entry order is preserved so SkillGaps is deterministic.
var skillMap = map[interview.Type][]skillMapping{
	interview.TypeTechnical: {
		{"Data Structures & Algorithms", "algorithms"},
		{"System Design", "system-design"},
		{"Database Design", "databases"},
		{"Programming Fundamentals", "languages"},
	},
	interview.TypeBehavioral: {
		{"Communication", "communication"},
		{"Leadership", "leadership"},
		{"Teamwork", "teamwork"},
		{"Conflict Resolution", "conflict"},
	},
	interview.TypeHR: {
		{"Self Awareness", "self-awareness"},
		{"Career Planning", "career"},
		{"Cultural Fit", "culture"},
	},
	interview.TypeSituational: {
		{"Problem Solving", "problem-solving"},
		{"Decision Making", "decision-making"},
	},
	interview.TypeUPSC: {
		{"Current Affairs Awareness", "current-affairs"},
		{"Ethical Reasoning", "ethics"},
		{"Administrative Aptitude", "administrative"},
	},
	interview.TypeGeneral: {
		{"General Communication", "communication"},
		{"Problem Solving", "problem-solving"},
	},
}

// SkillGaps maps weak areas onto named skills for the given interview type.
func (Aggregator) SkillGaps(weak []WeakArea, interviewType interview.Type) []SkillGap {
	mapping, ok := skillMap[interviewType]
	if !ok {
		mapping = skillMap[interview.TypeGeneral]
	}

	var out []SkillGap
	for _, sm := range mapping {
		for _, w := range weak {
			if !categoryMatches(w.Area, sm.AreaKeyword) {
				continue
			}
			gap := round2(80 - w.AvgScore)
			priority := 1
			if w.Severity == SeverityHigh {
				priority = 3
			} else if gap > 30 {
				priority = 2
			}
			out = append(out, SkillGap{Skill: sm.Skill, RelatedArea: w.Area, Current: w.AvgScore, Gap: gap, Priority: priority})
		}
	}
	return out
}

func categoryMatches(area, keyword string) bool {
	return containsAny(area, []string{keyword})
}

// Suggestions builds templated recommendations keyed on area
// classification plus three pattern-driven suggestions.
func (Aggregator) Suggestions(weak []WeakArea, strong []StrongArea, interviewType interview.Type, evals []QuestionEval) []Suggestion {
	var out []Suggestion
	priority := 1

	for _, w := range weak {
		class := classifyArea(w.Area)
		out = append(out, templateSuggestion(class, w, priority))
		priority++
	}

	total := len(evals)
	if total > 0 {
		lowContent, lowRelevance, shortAnswers := 0, 0, 0
		for _, qe := range evals {
			if qe.Eval.Content < 60 {
				lowContent++
			}
			if qe.Eval.Relevance < 60 {
				lowRelevance++
			}
			if qe.Eval.WordCount < 20 {
				shortAnswers++
			}
		}
		if float64(lowContent)/float64(total) > 0.3 {
			out = append(out, Suggestion{
				Type: "content", Priority: priority,
				Title:       "Deepen your answer content",
				Description: "Many of your answers lacked depth.",
				ActionItems: []string{"add concrete examples", "explain your reasoning step by step"},
			})
			priority++
		}
		if float64(lowRelevance)/float64(total) > 0.3 {
			out = append(out, Suggestion{
				Type: "relevance", Priority: priority,
				Title:       "Stay on topic",
				Description: "Several answers drifted from what was asked.",
				ActionItems: []string{"restate the question in your own words before answering", "check you've addressed every part of the question"},
			})
			priority++
		}
		if float64(shortAnswers)/float64(total) > 0.4 {
			out = append(out, Suggestion{
				Type: "length", Priority: priority,
				Title:       "Elaborate more",
				Description: "Many answers were too brief.",
				ActionItems: []string{"aim for at least 2-3 sentences per answer", "include a specific example"},
			})
			priority++
		}
	}

	if len(strong) > 0 {
		out = append(out, Suggestion{
			Type: "strength", Priority: priority,
			Title:       "Leverage your strengths",
			Description: "Keep building on the areas where you already perform well.",
			ActionItems: []string{"use your strong areas as anchors when tackling harder questions"},
		})
	}

	return out
}

func classifyArea(area string) string {
	switch {
	case containsAny(area, []string{"algorithm", "system-design", "database", "technical", "programming", "language"}):
		return "technical"
	case containsAny(area, []string{"communication", "clarity", "fluency", "speech"}):
		return "communication"
	default:
		return "behavioral"
	}
}

func templateSuggestion(class string, w WeakArea, priority int) Suggestion {
	switch class {
	case "technical":
		return Suggestion{
			Type: "technical", Priority: priority,
			Title:       "Strengthen " + w.Area,
			Description: "Your technical depth in " + w.Area + " needs work.",
			ActionItems: []string{"review core concepts in " + w.Area, "practice explaining tradeoffs out loud"},
			Resources:   []string{"topic-specific practice problems"},
		}
	case "communication":
		return Suggestion{
			Type: "communication", Priority: priority,
			Title:       "Improve " + w.Area,
			Description: "Delivery in " + w.Area + " could be clearer.",
			ActionItems: []string{"practice pacing with a timer", "record and review your own answers"},
		}
	default:
		return Suggestion{
			Type: "behavioral", Priority: priority,
			Title:       "Build out " + w.Area,
			Description: "Your answers in " + w.Area + " need more structure.",
			ActionItems: []string{"use the STAR method", "prepare two to three stories you can adapt"},
		}
	}
}

// LearningPath builds a deterministic three-phase plan with milestones.
func (Aggregator) LearningPath(weak []WeakArea, gaps []SkillGap, weeks int) LearningPath {
	if weeks <= 0 {
		weeks = 6
	}
	phase1 := weeks / 3
	phase2 := weeks / 3
	phase3 := weeks - phase1 - phase2

	var focus1, focus2, focus3 []string
	for _, w := range weak {
		if w.Severity == SeverityHigh {
			focus1 = append(focus1, w.Area)
		} else {
			focus2 = append(focus2, w.Area)
		}
	}
	for _, g := range gaps {
		focus3 = append(focus3, g.Skill)
	}
	if len(focus1) == 0 {
		focus1 = []string{"foundational review"}
	}
	if len(focus2) == 0 {
		focus2 = []string{"practice interviews"}
	}
	if len(focus3) == 0 {
		focus3 = []string{"mock interview under timed conditions"}
	}

	return LearningPath{
		TotalWeeks: weeks,
		Phases: []LearningPhase{
			{Name: "Foundation", Weeks: phase1, Focus: focus1, Milestones: []string{"complete a self-assessment of weakest areas", "review core material for each flagged area"}},
			{Name: "Practice", Weeks: phase2, Focus: focus2, Milestones: []string{"complete two practice interviews", "get feedback on at least one recorded answer"}},
			{Name: "Consolidation", Weeks: phase3, Focus: focus3, Milestones: []string{"close remaining skill gaps", "complete a full mock interview at target difficulty"}},
		},
	}
}

// OverallScore blends content, relevance, clarity, fluency, and
// confidence into a single score, with missing channels defaulting to 70.
func OverallScore(avgContent, avgRelevance float64, avgClarity, avgFluency, avgConfidence *float64) float64 {
	clarity, fluency, confidence := 70.0, 70.0, 70.0
	if avgClarity != nil {
		clarity = *avgClarity
	}
	if avgFluency != nil {
		fluency = *avgFluency
	}
	if avgConfidence != nil {
		confidence = *avgConfidence
	}
	contentCombined := 0.6*avgContent + 0.4*avgRelevance
	overall := 0.4*contentCombined + 0.3*((clarity+fluency)/2) + 0.3*confidence
	return round2(clamp(overall, 0, 100))
}
