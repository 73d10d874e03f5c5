package interview

import (
	"math/rand"
	"strings"
)

// upscSubCategories is the fixed sampling order for UPSC mode.
var upscSubCategories = []string{
	UPSCCurrentAffairs,
	UPSCEthics,
	UPSCPersonality,
	UPSCAdministrative,
	UPSCOpinion,
}

// technicalCategories is the fixed matching order for the technical type's
// skill-intersection rule.
var technicalCategories = []string{"languages", "algorithms", "databases", "system-design"}

// difficultyMix is the standard-mode easy/medium/hard draw table.
func difficultyMix(requested Difficulty) (easy, medium, hard int) {
	switch requested {
	case DifficultyEasy:
		return 3, 2, 0
	case DifficultyHard:
		return 0, 2, 3
	default:
		return 1, 3, 1
	}
}

// GenerateRequest is the input to Catalog.Generate.
type GenerateRequest struct {
	InterviewType Type
	Difficulty    Difficulty
	Mode          Mode
	ResumeDigest  string
	Skills        []string
	FocusAreas    []string
	AvoidTopics   []string
	N             int
	// Seed makes selection deterministic; callers that don't care about
	// reproducibility can pass a value derived from e.g. time.Now().
	Seed int64
}

// Catalog is the Question Catalog: deterministic selection and
// difficulty-tagging of questions from the static bank.
type Catalog struct {
	bank *Bank
}

func NewCatalog(bank *Bank) *Catalog {
	return &Catalog{bank: bank}
}

// Generate runs type/mode-specific sampling, avoid-topic drop, focus-area
// prioritization, difficulty re-classification, and truncation to N.
func (c *Catalog) Generate(req GenerateRequest) []Question {
	rng := rand.New(rand.NewSource(req.Seed))

	var pool []bankEntry
	switch {
	case req.InterviewType == TypeTechnical:
		pool = c.selectTechnical(req.Skills, req.N, rng)
	case req.Mode == ModeUPSC || req.InterviewType == TypeUPSC:
		pool = c.selectUPSC(req.Difficulty, rng)
	default:
		pool = c.selectStandard(req.InterviewType, req.Difficulty, rng)
	}

	pool = dropAvoidTopics(pool, req.AvoidTopics)
	pool = reclassifyDifficulty(pool)
	pool = prioritizeFocusAreas(pool, req.FocusAreas)

	if req.N > 0 && len(pool) > req.N {
		pool = pool[:req.N]
	}

	questions := make([]Question, len(pool))
	for i, e := range pool {
		questions[i] = Question{
			ID:               e.ID,
			Text:             e.Text,
			Type:             req.InterviewType,
			Category:         e.Category,
			Difficulty:       e.Difficulty,
			ExpectedKeywords: e.Keywords,
			Order:            i + 1,
		}
	}
	return questions
}

func splitByDifficulty(pool []bankEntry) (easy, medium, hard []bankEntry) {
	for _, e := range pool {
		switch e.Difficulty {
		case DifficultyEasy:
			easy = append(easy, e)
		case DifficultyHard:
			hard = append(hard, e)
		default:
			medium = append(medium, e)
		}
	}
	return
}

func drawN(pool []bankEntry, k int, rng *rand.Rand) []bankEntry {
	if k <= 0 || len(pool) == 0 {
		return nil
	}
	shuffled := make([]bankEntry, len(pool))
	copy(shuffled, pool)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if k > len(shuffled) {
		k = len(shuffled)
	}
	return shuffled[:k]
}

func (c *Catalog) selectStandard(t Type, difficulty Difficulty, rng *rand.Rand) []bankEntry {
	easyN, medN, hardN := difficultyMix(difficulty)
	easyPool, medPool, hardPool := splitByDifficulty(c.bank.entries(t))

	var out []bankEntry
	out = append(out, drawN(easyPool, easyN, rng)...)
	out = append(out, drawN(medPool, medN, rng)...)
	out = append(out, drawN(hardPool, hardN, rng)...)
	return out
}

func (c *Catalog) selectUPSC(difficulty Difficulty, rng *rand.Rand) []bankEntry {
	easyN, medN, hardN := difficultyMix(difficulty)

	var out []bankEntry
	for _, sub := range upscSubCategories {
		subPool := c.bank.entriesByCategory(TypeUPSC, sub)
		easyPool, medPool, hardPool := splitByDifficulty(subPool)
		out = append(out, drawN(easyPool, easyN, rng)...)
		out = append(out, drawN(medPool, medN, rng)...)
		out = append(out, drawN(hardPool, hardN, rng)...)
	}
	return out
}

func hasSkillOverlap(entrySkills, requestedSkills []string) bool {
	if len(requestedSkills) == 0 {
		return false
	}
	req := make(map[string]bool, len(requestedSkills))
	for _, s := range requestedSkills {
		req[strings.ToLower(s)] = true
	}
	for _, s := range entrySkills {
		if req[strings.ToLower(s)] {
			return true
		}
	}
	return false
}

func (c *Catalog) selectTechnical(skills []string, n int, rng *rand.Rand) []bankEntry {
	pool := c.bank.entries(TypeTechnical)

	byCategory := make(map[string][]bankEntry)
	for _, e := range pool {
		byCategory[e.Category] = append(byCategory[e.Category], e)
	}

	var matched []string
	for _, cat := range technicalCategories {
		for _, e := range byCategory[cat] {
			if hasSkillOverlap(e.Skills, skills) {
				matched = append(matched, cat)
				break
			}
		}
	}

	selected := make(map[string]bool)
	var out []bankEntry
	for _, cat := range matched {
		for _, e := range drawN(byCategory[cat], 2, rng) {
			if !selected[e.ID] {
				selected[e.ID] = true
				out = append(out, e)
			}
		}
	}

	if n <= 0 {
		n = len(out)
	}
	if len(out) < n {
		backfillOrder := []string{"algorithms", "databases"}
		for _, cat := range backfillOrder {
			if len(out) >= n {
				break
			}
			for _, e := range byCategory[cat] {
				if len(out) >= n {
					break
				}
				if !selected[e.ID] {
					selected[e.ID] = true
					out = append(out, e)
				}
			}
		}
	}

	return out
}

func dropAvoidTopics(pool []bankEntry, avoidTopics []string) []bankEntry {
	if len(avoidTopics) == 0 {
		return pool
	}
	var out []bankEntry
	for _, e := range pool {
		if entryMatchesAny(e, avoidTopics) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func entryMatchesAny(e bankEntry, needles []string) bool {
	if containsAnyCI(e.Category, needles) {
		return true
	}
	for _, kw := range e.Keywords {
		if containsAnyCI(kw, needles) {
			return true
		}
	}
	return false
}

func containsAnyCI(haystack string, needles []string) bool {
	lower := strings.ToLower(haystack)
	for _, n := range needles {
		if strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

// prioritizeFocusAreas stable-partitions the pool, focus-matching items
// first.
func prioritizeFocusAreas(pool []bankEntry, focusAreas []string) []bankEntry {
	if len(focusAreas) == 0 {
		return pool
	}
	var matched, rest []bankEntry
	for _, e := range pool {
		if entryMatchesAny(e, focusAreas) {
			matched = append(matched, e)
		} else {
			rest = append(rest, e)
		}
	}
	return append(matched, rest...)
}

var (
	hardReclassifyIndicators   = []string{"critically", "evaluate", "propose"}
	mediumReclassifyIndicators = []string{"how would you", "compare", "analyze"}
	easyReclassifyIndicators   = []string{"what is", "define", "tell me about"}
)

// reclassifyDifficulty overrides the bank-declared difficulty whenever the
// question text matches an indicator vocabulary, ties broken toward the
// stronger (hard > medium > easy) indicator. The re-classifier always
// runs, even when it contradicts the difficulty mix that just selected
// the question.
func reclassifyDifficulty(pool []bankEntry) []bankEntry {
	out := make([]bankEntry, len(pool))
	for i, e := range pool {
		out[i] = e
		lower := strings.ToLower(e.Text)
		switch {
		case containsAnyCI(lower, hardReclassifyIndicators) || len(e.Text) > 200:
			out[i].Difficulty = DifficultyHard
		case containsAnyCI(lower, mediumReclassifyIndicators):
			out[i].Difficulty = DifficultyMedium
		case containsAnyCI(lower, easyReclassifyIndicators):
			out[i].Difficulty = DifficultyEasy
		}
	}
	return out
}
