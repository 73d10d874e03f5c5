package httpapi

// startInterviewRequest binds POST /interviews.
type startInterviewRequest struct {
	UserID       string   `json:"user_id" validate:"required"`
	Type         string   `json:"type" validate:"required"`
	Mode         string   `json:"mode,omitempty"`
	Difficulty   string   `json:"difficulty,omitempty"`
	Resume       string   `json:"resume,omitempty"`
	Skills       []string `json:"skills,omitempty"`
	N            int      `json:"n,omitempty"`
	Seed         *int64   `json:"seed,omitempty"`
}

type questionDTO struct {
	ID               string   `json:"id"`
	Text             string   `json:"text"`
	Type             string   `json:"type"`
	Category         string   `json:"category"`
	Difficulty       string   `json:"difficulty"`
	ExpectedKeywords []string `json:"expected_keywords,omitempty"`
	Order            int      `json:"order"`
}

type startInterviewResponse struct {
	InterviewID string        `json:"interview_id"`
	Questions   []questionDTO `json:"questions"`
	Difficulty  string        `json:"difficulty"`
	Total       int           `json:"total"`
}

// audioDTO carries the caller-extracted audio signal features alongside the
// raw bytes handed to the Transcriber, since decoding audio into these
// features is out of scope.
type audioDTO struct {
	RawBase64       string    `json:"raw_base64,omitempty"`
	DurationSeconds float64   `json:"duration_seconds"`
	RMS             []float64 `json:"rms"`
	ZCR             []float64 `json:"zcr"`
	SampleRate      int       `json:"sample_rate"`
	HopLength       int       `json:"hop_length"`
}

type submitAnswerRequest struct {
	QuestionOrder int        `json:"question_order" validate:"required"`
	Text          string     `json:"text" validate:"required"`
	Audio         *audioDTO  `json:"audio,omitempty"`
	VideoFrames   []string   `json:"video_frames,omitempty"` // base64-encoded frames
}

type keywordCoverageDTO struct {
	Found   []string `json:"found"`
	Missing []string `json:"missing"`
}

type evaluationDTO struct {
	QuestionOrder   int                `json:"question_order"`
	Content         float64            `json:"content"`
	Relevance       float64            `json:"relevance"`
	Clarity         *float64           `json:"clarity,omitempty"`
	Fluency         *float64           `json:"fluency,omitempty"`
	Confidence      *float64           `json:"confidence,omitempty"`
	Keywords        keywordCoverageDTO `json:"keywords"`
	Sentiment       string             `json:"sentiment"`
	Coherence       float64            `json:"coherence"`
	WordCount       int                `json:"word_count"`
	SentenceCount   int                `json:"sentence_count"`
	Feedback        string             `json:"feedback"`
	Suggestions     []string           `json:"suggestions,omitempty"`
	SpeechBackend   string             `json:"speech_backend,omitempty"`
	DominantEmotion string             `json:"dominant_emotion,omitempty"`
}

type runningPerformanceDTO struct {
	Answered      int     `json:"answered"`
	AvgContent    float64 `json:"avg_content"`
	AvgRelevance  float64 `json:"avg_relevance"`
	AvgClarity    float64 `json:"avg_clarity"`
	AvgFluency    float64 `json:"avg_fluency"`
	AvgConfidence float64 `json:"avg_confidence"`
}

type realtimeFeedbackDTO struct {
	Level   string   `json:"level"`
	Message string   `json:"message"`
	Tips    []string `json:"tips,omitempty"`
}

type submitAnswerResponse struct {
	Evaluation  evaluationDTO         `json:"evaluation"`
	Running     runningPerformanceDTO `json:"running_performance"`
	Feedback    realtimeFeedbackDTO   `json:"realtime_feedback"`
	Remaining   int                   `json:"remaining"`
}

type weakAreaDTO struct {
	Area                  string   `json:"area"`
	AvgScore              float64  `json:"avg_score"`
	Attempts              int      `json:"attempts"`
	Severity              string   `json:"severity"`
	CommonMissingKeywords []string `json:"common_missing_keywords,omitempty"`
	ImprovementPotential  float64  `json:"improvement_potential"`
}

type strongAreaDTO struct {
	Area            string  `json:"area"`
	AvgScore        float64 `json:"avg_score"`
	Attempts        int     `json:"attempts"`
	ConfidenceLevel string  `json:"confidence_level"`
}

type skillGapDTO struct {
	Skill       string  `json:"skill"`
	RelatedArea string  `json:"related_area"`
	Current     float64 `json:"current"`
	Gap         float64 `json:"gap"`
	Priority    int     `json:"priority"`
}

type suggestionDTO struct {
	Type        string   `json:"type"`
	Priority    int      `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ActionItems []string `json:"action_items,omitempty"`
	Resources   []string `json:"resources,omitempty"`
}

type learningPhaseDTO struct {
	Name       string   `json:"name"`
	Weeks      int      `json:"weeks"`
	Focus      []string `json:"focus"`
	Milestones []string `json:"milestones"`
}

type learningPathDTO struct {
	TotalWeeks int                `json:"total_weeks"`
	Phases     []learningPhaseDTO `json:"phases"`
}

type finalReportResponse struct {
	InterviewID    string            `json:"interview_id"`
	Type           string            `json:"type"`
	Mode           string            `json:"mode"`
	Difficulty     string            `json:"difficulty"`
	OverallScore   float64           `json:"overall_score"`
	WeakAreas      []weakAreaDTO     `json:"weak_areas"`
	StrongAreas    []strongAreaDTO   `json:"strong_areas"`
	SkillGaps      []skillGapDTO     `json:"skill_gaps"`
	Suggestions    []suggestionDTO   `json:"suggestions"`
	LearningPath   learningPathDTO   `json:"learning_path"`
	QuestionsTotal int               `json:"questions_total"`
	Answered       int               `json:"answered"`
}

type interviewStatusResponse struct {
	Phase              string                `json:"phase"`
	Total              int                   `json:"total"`
	Answered           int                   `json:"answered"`
	CurrentPerformance runningPerformanceDTO `json:"current_performance"`
	StartedAt          string                `json:"started_at"`
}

type proctorStartRequest struct {
	InterviewID      string `json:"interview_id" validate:"required"`
	ReferenceImage   string `json:"reference_image_base64,omitempty"`
}

type proctorStartResponse struct {
	SessionID string `json:"session_id"`
}

type proctorReferencePhotoRequest struct {
	ImageBase64 string `json:"image_base64" validate:"required"`
}

type proctorAnalyzeFrameRequest struct {
	FrameBase64  string  `json:"frame_base64" validate:"required"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	VerifyPerson bool    `json:"verify_person,omitempty"`
}

type violationDTO struct {
	Kind        string  `json:"kind"`
	Severity    string  `json:"severity"`
	Confidence  float64 `json:"confidence"`
	FrameNumber int     `json:"frame_number,omitempty"`
	Detail      string  `json:"detail,omitempty"`
}

type frameResultResponse struct {
	FrameNumber   int            `json:"frame_number"`
	FaceVisible   bool           `json:"face_visible"`
	Yaw           float64        `json:"yaw"`
	Pitch         float64        `json:"pitch"`
	Roll          float64        `json:"roll"`
	GazeDirection string         `json:"gaze_direction"`
	LookingAway   bool           `json:"looking_away"`
	Violations    []violationDTO `json:"violations"`
	Alerts        []string       `json:"alerts,omitempty"`
}

type tabSwitchRequest struct {
	Kind string `json:"kind" validate:"required,oneof=switch blur"`
}

type proctorReportResponse struct {
	SessionID       string         `json:"session_id"`
	FrameCount      int            `json:"frame_count"`
	VisibilityRatio float64        `json:"visibility_ratio"`
	AttentionRatio  float64        `json:"attention_ratio"`
	IntegrityScore  float64        `json:"integrity_score"`
	Violations      []violationDTO `json:"violations"`
	Recommendation  string         `json:"recommendation"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}
