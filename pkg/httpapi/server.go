// Package httpapi is the reference HTTP transport binding external
// callers to the Agent Core and Proctor Session. It is a thin adapter:
// request validation, JSON marshaling, and error-kind-to-status
// translation over the core session types.
package httpapi

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/altoai/interview-platform/pkg/agent"
	"github.com/altoai/interview-platform/pkg/interview"
	"github.com/altoai/interview-platform/pkg/proctor"
	"github.com/altoai/interview-platform/pkg/scoring"
)

// Server wires the Agent Core and Proctor Session behind Gin handlers.
type Server struct {
	agent    *agent.Agent
	proctor  *proctor.Proctor
	validate *validator.Validate
}

func NewServer(a *agent.Agent, p *proctor.Proctor) *Server {
	return &Server{agent: a, proctor: p, validate: validator.New()}
}

// Routes registers every external surface onto the given router group.
func (s *Server) Routes(rg *gin.RouterGroup) {
	interviews := rg.Group("/interviews")
	{
		interviews.POST("", s.handleStartInterview)
		interviews.GET("/:id", s.handleInterviewStatus)
		interviews.POST("/:id/answers", s.handleSubmitAnswer)
		interviews.POST("/:id/complete", s.handleCompleteInterview)
	}

	proctorGroup := rg.Group("/proctor/sessions")
	{
		proctorGroup.POST("", s.handleProctorStart)
		proctorGroup.POST("/:id/reference-photo", s.handleProctorReferencePhoto)
		proctorGroup.POST("/:id/frames", s.handleProctorAnalyzeFrame)
		proctorGroup.POST("/:id/tab-switch", s.handleProctorTabSwitch)
		proctorGroup.POST("/:id/end", s.handleProctorEnd)
	}
}

func (s *Server) bindAndValidate(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: string(interview.KindValidationError)})
		return false
	}
	if err := s.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: string(interview.KindValidationError)})
		return false
	}
	return true
}

func (s *Server) handleStartInterview(c *gin.Context) {
	var req startInterviewRequest
	if !s.bindAndValidate(c, &req) {
		return
	}

	mode := interview.ModeStandard
	if req.Mode != "" {
		mode = interview.Mode(req.Mode)
	}
	var difficulty *interview.Difficulty
	if req.Difficulty != "" {
		d := interview.Difficulty(req.Difficulty)
		difficulty = &d
	}

	result, err := s.agent.Start(c.Request.Context(), agent.StartRequest{
		UserID:       req.UserID,
		Type:         interview.Type(req.Type),
		Mode:         mode,
		Difficulty:   difficulty,
		ResumeDigest: req.Resume,
		Skills:       req.Skills,
		N:            req.N,
		Seed:         req.Seed,
	})
	if err != nil {
		writeInterviewError(c, err)
		return
	}

	questions := make([]questionDTO, len(result.Questions))
	for i, q := range result.Questions {
		questions[i] = questionDTO{
			ID: q.ID, Text: q.Text, Type: string(q.Type), Category: q.Category,
			Difficulty: string(q.Difficulty), ExpectedKeywords: q.ExpectedKeywords, Order: q.Order,
		}
	}
	c.JSON(http.StatusOK, startInterviewResponse{
		InterviewID: result.InterviewID,
		Questions:   questions,
		Difficulty:  string(result.ChosenDifficulty),
		Total:       result.Summary.Total,
	})
}

func decodeFrames(encoded []string) ([][]byte, error) {
	frames := make([][]byte, len(encoded))
	for i, e := range encoded {
		b, err := base64.StdEncoding.DecodeString(e)
		if err != nil {
			return nil, err
		}
		frames[i] = b
	}
	return frames, nil
}

func (s *Server) handleSubmitAnswer(c *gin.Context) {
	var req submitAnswerRequest
	if !s.bindAndValidate(c, &req) {
		return
	}

	submitReq := agent.SubmitRequest{
		InterviewID:   c.Param("id"),
		QuestionOrder: req.QuestionOrder,
		AnswerText:    req.Text,
	}

	if req.Audio != nil {
		raw, err := base64.StdEncoding.DecodeString(req.Audio.RawBase64)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid audio encoding", Kind: string(interview.KindValidationError)})
			return
		}
		submitReq.Audio = &agent.AudioInput{
			Raw: raw,
			Features: scoring.AudioFeatures{
				DurationSeconds: req.Audio.DurationSeconds,
				RMS:             req.Audio.RMS,
				ZCR:             req.Audio.ZCR,
				SampleRate:      req.Audio.SampleRate,
				HopLength:       req.Audio.HopLength,
			},
		}
	}
	if len(req.VideoFrames) > 0 {
		frames, err := decodeFrames(req.VideoFrames)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid video frame encoding", Kind: string(interview.KindValidationError)})
			return
		}
		submitReq.Video = &agent.VideoInput{Frames: frames}
	}

	result, err := s.agent.Submit(c.Request.Context(), submitReq)
	if err != nil {
		writeInterviewError(c, err)
		return
	}

	c.JSON(http.StatusOK, submitAnswerResponse{
		Evaluation:  evaluationToDTO(result.Evaluation),
		Running:     runningPerformanceToDTO(result.RunningPerf),
		Feedback:    realtimeFeedbackDTO{Level: result.Feedback.Level, Message: result.Feedback.Message, Tips: result.Feedback.Tips},
		Remaining:   result.Remaining,
	})
}

func (s *Server) handleCompleteInterview(c *gin.Context) {
	report, err := s.agent.Complete(c.Param("id"))
	if err != nil {
		writeInterviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, finalReportToDTO(report))
}

func (s *Server) handleInterviewStatus(c *gin.Context) {
	status, err := s.agent.Status(c.Param("id"))
	if err != nil {
		writeInterviewError(c, err)
		return
	}
	c.JSON(http.StatusOK, interviewStatusResponse{
		Phase:              status.Phase.String(),
		Total:              status.Total,
		Answered:           status.Answered,
		CurrentPerformance: runningPerformanceToDTO(status.CurrentPerformance),
		StartedAt:          status.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

func (s *Server) handleProctorStart(c *gin.Context) {
	var req proctorStartRequest
	if !s.bindAndValidate(c, &req) {
		return
	}
	var refImage []byte
	if req.ReferenceImage != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.ReferenceImage)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid reference image encoding", Kind: string(interview.KindValidationError)})
			return
		}
		refImage = decoded
	}
	sessionID, err := s.proctor.Start(c.Request.Context(), proctor.StartRequest{
		InterviewID:    req.InterviewID,
		ReferenceImage: refImage,
	})
	if err != nil {
		writeProctorError(c, err)
		return
	}
	c.JSON(http.StatusOK, proctorStartResponse{SessionID: sessionID})
}

func (s *Server) handleProctorReferencePhoto(c *gin.Context) {
	var req proctorReferencePhotoRequest
	if !s.bindAndValidate(c, &req) {
		return
	}
	image, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid image encoding", Kind: string(interview.KindValidationError)})
		return
	}
	if err := s.proctor.SetReferencePhoto(c.Request.Context(), c.Param("id"), image); err != nil {
		writeProctorError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) handleProctorAnalyzeFrame(c *gin.Context) {
	var req proctorAnalyzeFrameRequest
	if !s.bindAndValidate(c, &req) {
		return
	}
	frame, err := base64.StdEncoding.DecodeString(req.FrameBase64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid frame encoding", Kind: string(interview.KindValidationError)})
		return
	}
	result, err := s.proctor.AnalyzeFrame(c.Request.Context(), proctor.AnalyzeFrameRequest{
		SessionID:    c.Param("id"),
		Frame:        frame,
		Width:        req.Width,
		Height:       req.Height,
		VerifyPerson: req.VerifyPerson,
	})
	if err != nil {
		writeProctorError(c, err)
		return
	}
	c.JSON(http.StatusOK, frameResultToDTO(result))
}

func (s *Server) handleProctorTabSwitch(c *gin.Context) {
	var req tabSwitchRequest
	if !s.bindAndValidate(c, &req) {
		return
	}
	v, err := s.proctor.TabSwitch(c.Param("id"), req.Kind)
	if err != nil {
		writeProctorError(c, err)
		return
	}
	c.JSON(http.StatusOK, violationToDTO(*v))
}

func (s *Server) handleProctorEnd(c *gin.Context) {
	report, err := s.proctor.End(c.Param("id"))
	if err != nil {
		writeProctorError(c, err)
		return
	}
	c.JSON(http.StatusOK, proctorReportToDTO(report))
}

func evaluationToDTO(e interview.Evaluation) evaluationDTO {
	return evaluationDTO{
		QuestionOrder:   e.QuestionOrder,
		Content:         e.Content,
		Relevance:       e.Relevance,
		Clarity:         e.Clarity,
		Fluency:         e.Fluency,
		Confidence:      e.Confidence,
		Keywords:        keywordCoverageDTO{Found: e.Keywords.Found, Missing: e.Keywords.Missing},
		Sentiment:       string(e.Sentiment),
		Coherence:       e.Coherence,
		WordCount:       e.WordCount,
		SentenceCount:   e.SentenceCount,
		Feedback:        e.Feedback,
		Suggestions:     e.Suggestions,
		SpeechBackend:   e.SpeechBackend,
		DominantEmotion: e.DominantEmotion,
	}
}

func runningPerformanceToDTO(p interview.RunningPerformance) runningPerformanceDTO {
	return runningPerformanceDTO{
		Answered:      p.Answered,
		AvgContent:    p.AvgContent,
		AvgRelevance:  p.AvgRelevance,
		AvgClarity:    p.AvgClarity,
		AvgFluency:    p.AvgFluency,
		AvgConfidence: p.AvgConfidence,
	}
}

func finalReportToDTO(r *agent.FinalReport) finalReportResponse {
	weak := make([]weakAreaDTO, len(r.WeakAreas))
	for i, w := range r.WeakAreas {
		weak[i] = weakAreaDTO{
			Area: w.Area, AvgScore: w.AvgScore, Attempts: w.Attempts, Severity: string(w.Severity),
			CommonMissingKeywords: w.CommonMissingKeywords, ImprovementPotential: w.ImprovementPotential,
		}
	}
	strong := make([]strongAreaDTO, len(r.StrongAreas))
	for i, sArea := range r.StrongAreas {
		strong[i] = strongAreaDTO{Area: sArea.Area, AvgScore: sArea.AvgScore, Attempts: sArea.Attempts, ConfidenceLevel: string(sArea.ConfidenceLevel)}
	}
	gaps := make([]skillGapDTO, len(r.SkillGaps))
	for i, g := range r.SkillGaps {
		gaps[i] = skillGapDTO{Skill: g.Skill, RelatedArea: g.RelatedArea, Current: g.Current, Gap: g.Gap, Priority: g.Priority}
	}
	suggestions := make([]suggestionDTO, len(r.Suggestions))
	for i, sg := range r.Suggestions {
		suggestions[i] = suggestionDTO{
			Type: sg.Type, Priority: sg.Priority, Title: sg.Title, Description: sg.Description,
			ActionItems: sg.ActionItems, Resources: sg.Resources,
		}
	}
	phases := make([]learningPhaseDTO, len(r.LearningPath.Phases))
	for i, p := range r.LearningPath.Phases {
		phases[i] = learningPhaseDTO{Name: p.Name, Weeks: p.Weeks, Focus: p.Focus, Milestones: p.Milestones}
	}

	return finalReportResponse{
		InterviewID:    r.InterviewID,
		Type:           string(r.Type),
		Mode:           string(r.Mode),
		Difficulty:     string(r.Difficulty),
		OverallScore:   r.OverallScore,
		WeakAreas:      weak,
		StrongAreas:    strong,
		SkillGaps:      gaps,
		Suggestions:    suggestions,
		LearningPath:   learningPathDTO{TotalWeeks: r.LearningPath.TotalWeeks, Phases: phases},
		QuestionsTotal: r.QuestionsTotal,
		Answered:       r.Answered,
	}
}

func violationToDTO(v proctor.Violation) violationDTO {
	return violationDTO{
		Kind: string(v.Kind), Severity: string(v.Severity), Confidence: v.Confidence,
		FrameNumber: v.FrameNumber, Detail: v.Detail,
	}
}

func frameResultToDTO(r *proctor.FrameResult) frameResultResponse {
	violations := make([]violationDTO, len(r.Violations))
	for i, v := range r.Violations {
		violations[i] = violationToDTO(v)
	}
	return frameResultResponse{
		FrameNumber: r.FrameNumber, FaceVisible: r.FaceVisible, Yaw: r.Yaw, Pitch: r.Pitch, Roll: r.Roll,
		GazeDirection: r.GazeDirection, LookingAway: r.LookingAway, Violations: violations, Alerts: r.Alerts,
	}
}

func proctorReportToDTO(r *proctor.ProctorReport) proctorReportResponse {
	violations := make([]violationDTO, len(r.Violations))
	for i, v := range r.Violations {
		violations[i] = violationToDTO(v)
	}
	return proctorReportResponse{
		SessionID: r.SessionID, FrameCount: r.FrameCount, VisibilityRatio: r.VisibilityRatio,
		AttentionRatio: r.AttentionRatio, IntegrityScore: r.IntegrityScore, Violations: violations,
		Recommendation: r.Recommendation,
	}
}

// writeInterviewError translates the interview package's error kinds into
// HTTP status codes.
func writeInterviewError(c *gin.Context, err error) {
	var ierr *interview.Error
	kind := interview.KindInternalError
	if errors.As(err, &ierr) {
		kind = ierr.Kind
	}
	if kind == interview.KindInternalError {
		slog.Error("unexpected interview error", "error", err)
	}
	c.JSON(statusForInterviewKind(kind), errorResponse{Error: err.Error(), Kind: string(kind)})
}

func statusForInterviewKind(k interview.Kind) int {
	switch k {
	case interview.KindNotFound:
		return http.StatusNotFound
	case interview.KindInvalidTransition, interview.KindAlreadyAnswered, interview.KindValidationError:
		return http.StatusBadRequest
	case interview.KindSessionClosed:
		return http.StatusConflict
	case interview.KindCollaboratorUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeProctorError(c *gin.Context, err error) {
	var perr *proctor.Error
	kind := proctor.KindInternalError
	if errors.As(err, &perr) {
		kind = perr.Kind
	}
	if kind == proctor.KindInternalError {
		slog.Error("unexpected proctor error", "error", err)
	}
	c.JSON(statusForProctorKind(kind), errorResponse{Error: err.Error(), Kind: string(kind)})
}

func statusForProctorKind(k proctor.Kind) int {
	switch k {
	case proctor.KindNotFound:
		return http.StatusNotFound
	case proctor.KindValidationError:
		return http.StatusBadRequest
	case proctor.KindSessionClosed:
		return http.StatusConflict
	case proctor.KindCollaboratorUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
