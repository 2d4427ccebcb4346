package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"feasibility_analysis/internal/models"
	"feasibility_analysis/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(_ context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(_ context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockAnalysis struct {
	report    *models.Report
	evalErr   error
	run       models.Run
	submitErr error

	lastRequest models.AnalysisRequest
	lastUserID  int
	submitCalls int
}

func (m *mockAnalysis) Evaluate(_ context.Context, req models.AnalysisRequest) (*models.Report, error) {
	m.lastRequest = req
	return m.report, m.evalErr
}
func (m *mockAnalysis) Submit(_ context.Context, req models.AnalysisRequest, userID int) (models.Run, error) {
	m.submitCalls++
	m.lastRequest = req
	m.lastUserID = userID
	return m.run, m.submitErr
}

// mockRuns serves snapshots in order, repeating the last one; the websocket
// tests use it to simulate a run progressing.
type mockRuns struct {
	mu        sync.Mutex
	snapshots []models.Run
	getErr    error
	gets      int

	list       []models.Run
	listErr    error
	lastStatus string
	lastLimit  int
}

func (m *mockRuns) GetRun(_ context.Context, id string) (*models.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	i := m.gets
	if i >= len(m.snapshots) {
		i = len(m.snapshots) - 1
	}
	m.gets++
	run := m.snapshots[i]
	run.ID = id
	return &run, nil
}
func (m *mockRuns) ListRuns(_ context.Context, status string, limit int) ([]models.Run, error) {
	m.lastStatus = status
	m.lastLimit = limit
	return m.list, m.listErr
}

type mockEventLog struct {
	resp      []models.RunEvent
	err       error
	lastFrom  time.Time
	lastTo    time.Time
	lastType  string
	lastRunID string
}

func (m *mockEventLog) List(_ context.Context, f service.LogFilter) ([]models.RunEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	m.lastRunID = f.RunID
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func newAuthedRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}
