package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"timetrack/internal/models"
	"timetrack/internal/service"

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

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockTracker struct {
	startEntry  models.TimeEntry
	startErr    error
	stopEntry   models.TimeEntry
	stopErr     error
	resumeEntry models.TimeEntry
	resumeErr   error
	state       models.TimerState
	stateErr    error
	entries     []models.TimeEntry
	entriesErr  error

	startCalled  int
	stopCalled   int
	resumeCalled int
	stateCalled  int

	lastStart    service.StartParams
	lastResumeID int64
	lastUserID   int
	lastFilter   service.EntryFilter
}

func (m *mockTracker) Start(ctx context.Context, userID int, p service.StartParams) (models.TimeEntry, error) {
	m.startCalled++
	m.lastUserID = userID
	m.lastStart = p
	return m.startEntry, m.startErr
}
func (m *mockTracker) Stop(ctx context.Context, userID int) (models.TimeEntry, error) {
	m.stopCalled++
	m.lastUserID = userID
	return m.stopEntry, m.stopErr
}
func (m *mockTracker) Resume(ctx context.Context, userID int, entryID int64) (models.TimeEntry, error) {
	m.resumeCalled++
	m.lastUserID = userID
	m.lastResumeID = entryID
	return m.resumeEntry, m.resumeErr
}
func (m *mockTracker) State(ctx context.Context, userID int) (models.TimerState, error) {
	m.stateCalled++
	m.lastUserID = userID
	return m.state, m.stateErr
}
func (m *mockTracker) Entries(ctx context.Context, userID int, f service.EntryFilter) ([]models.TimeEntry, error) {
	m.lastUserID = userID
	m.lastFilter = f
	return m.entries, m.entriesErr
}

type mockDashboard struct {
	summary models.DashboardSummary
	err     error
}

func (m *mockDashboard) Summary(ctx context.Context, userID int) (models.DashboardSummary, error) {
	return m.summary, m.err
}

type mockPreferences struct {
	pref   *models.Preference
	getErr error
	setErr error

	lastSetKey   string
	lastSetValue json.RawMessage
}

func (m *mockPreferences) Get(ctx context.Context, userID int, key string) (*models.Preference, error) {
	return m.pref, m.getErr
}
func (m *mockPreferences) Set(ctx context.Context, userID int, key string, value json.RawMessage) error {
	m.lastSetKey = key
	m.lastSetValue = value
	return m.setErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
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

func ptrTime(t time.Time) *time.Time { return &t }
