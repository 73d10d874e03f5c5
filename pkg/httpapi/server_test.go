package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altoai/interview-platform/pkg/agent"
	"github.com/altoai/interview-platform/pkg/collab"
	"github.com/altoai/interview-platform/pkg/interview"
	"github.com/altoai/interview-platform/pkg/proctor"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	bank, err := interview.LoadEmbeddedBank()
	require.NoError(t, err)
	catalog := interview.NewCatalog(bank)

	history := collab.NewStubHistoryReader()
	transcriber := &collab.StubTranscriber{Text: "a reasonably long transcribed answer for scoring purposes"}
	faceDetector := &collab.StubFaceDetector{}
	faceMesh := &collab.StubFaceMesh{}
	faceEmbedder := &collab.StubFaceEmbedder{}

	a := agent.New(catalog, transcriber, faceDetector, history, 0, 0, 3)
	p := proctor.New(faceDetector, faceMesh, faceEmbedder, proctor.SensitivityMedium)

	router := gin.New()
	v1 := router.Group("/v1")
	NewServer(a, p).Routes(v1)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleStartInterview_Success(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/v1/interviews", startInterviewRequest{
		UserID: "u1", Type: "behavioral", N: 2,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp startInterviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.InterviewID)
	assert.LessOrEqual(t, len(resp.Questions), 2)
}

func TestHandleStartInterview_MissingUserIDIsBadRequest(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/v1/interviews", startInterviewRequest{Type: "behavioral"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleInterviewStatus_UnknownInterviewIs404(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/interviews/nonexistent", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleSubmitAnswer_EndToEnd(t *testing.T) {
	router := newTestRouter(t)
	startRec := doJSON(t, router, http.MethodPost, "/v1/interviews", startInterviewRequest{UserID: "u2", Type: "general", N: 1})
	require.Equal(t, http.StatusOK, startRec.Code)
	var start startInterviewResponse
	require.NoError(t, json.Unmarshal(startRec.Body.Bytes(), &start))
	require.Len(t, start.Questions, 1)

	submitRec := doJSON(t, router, http.MethodPost, "/v1/interviews/"+start.InterviewID+"/answers", submitAnswerRequest{
		QuestionOrder: start.Questions[0].Order,
		Text:          "I worked on a large distributed project and led a small team through a difficult migration, for example cutting over databases with zero downtime.",
	})
	require.Equal(t, http.StatusOK, submitRec.Code)

	completeRec := httptest.NewRequest(http.MethodPost, "/v1/interviews/"+start.InterviewID+"/complete", nil)
	completeResultRec := httptest.NewRecorder()
	router.ServeHTTP(completeResultRec, completeRec)
	assert.Equal(t, http.StatusOK, completeResultRec.Code)

	var report finalReportResponse
	require.NoError(t, json.Unmarshal(completeResultRec.Body.Bytes(), &report))
	assert.Equal(t, 1, report.QuestionsTotal)
	assert.Equal(t, 1, report.Answered)
}

func TestHandleProctorLifecycle(t *testing.T) {
	router := newTestRouter(t)
	startRec := doJSON(t, router, http.MethodPost, "/v1/proctor/sessions", proctorStartRequest{InterviewID: "iv-1"})
	require.Equal(t, http.StatusOK, startRec.Code)
	var start proctorStartResponse
	require.NoError(t, json.Unmarshal(startRec.Body.Bytes(), &start))
	require.NotEmpty(t, start.SessionID)

	tabRec := doJSON(t, router, http.MethodPost, "/v1/proctor/sessions/"+start.SessionID+"/tab-switch", tabSwitchRequest{Kind: "switch"})
	assert.Equal(t, http.StatusOK, tabRec.Code)

	endReq := httptest.NewRequest(http.MethodPost, "/v1/proctor/sessions/"+start.SessionID+"/end", nil)
	endRec := httptest.NewRecorder()
	router.ServeHTTP(endRec, endReq)
	assert.Equal(t, http.StatusOK, endRec.Code)

	var report proctorReportResponse
	require.NoError(t, json.Unmarshal(endRec.Body.Bytes(), &report))
	assert.NotEmpty(t, report.Recommendation)
}

func TestHandleProctorTabSwitch_InvalidKindIsBadRequest(t *testing.T) {
	router := newTestRouter(t)
	startRec := doJSON(t, router, http.MethodPost, "/v1/proctor/sessions", proctorStartRequest{InterviewID: "iv-2"})
	require.Equal(t, http.StatusOK, startRec.Code)
	var start proctorStartResponse
	require.NoError(t, json.Unmarshal(startRec.Body.Bytes(), &start))

	rec := doJSON(t, router, http.MethodPost, "/v1/proctor/sessions/"+start.SessionID+"/tab-switch", tabSwitchRequest{Kind: "nonsense"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
