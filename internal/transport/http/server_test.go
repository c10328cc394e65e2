package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"interview-assessment-service/internal/app"
	"interview-assessment-service/internal/auth"
	"interview-assessment-service/internal/domain"
	"interview-assessment-service/internal/infra/memory"
	"interview-assessment-service/internal/metrics"
)

var tokens = auth.StaticResolver{
	"tok-interviewer": "interviewer-1",
	"tok-alice":       "alice",
	"tok-bob":         "bob",
}

type fakePresence struct {
	joined chan string
	left   chan string
}

func (p *fakePresence) Join(_ context.Context, id string) error {
	p.joined <- id
	return nil
}

func (p *fakePresence) Leave(_ context.Context, id string) error {
	p.left <- id
	return nil
}

func newTestServer(t *testing.T, presence FeedPresence, health ...func(context.Context) error) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()

	interviews := memory.NewInterviewStore()
	tests := memory.NewTestStore(interviews)
	questions := memory.NewQuestionStore()
	cache := memory.NewQuestionCache(questions, time.Minute)
	collector := metrics.NewCollector()

	ledger := app.NewLedgerService(tests, memory.NewAttemptStore(), app.LedgerConfig{Grace: 30 * time.Second}, log)
	ledger.SetObserver(collector)
	h := NewHandler(Services{
		Catalog:    app.NewCatalogService(tests, log),
		Ledger:     ledger,
		Questions:  app.NewQuestionService(questions, cache, log),
		Interviews: app.NewInterviewService(interviews, log),
		Assignment: app.NewAssignmentService(interviews, tests, cache, app.NewFeedHub(), log),
	}, presence, log)

	router := NewRouter(RouterConfig{Mode: gin.TestMode, Health: health}, h, tokens, collector, log)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	return resp.StatusCode, buf.Bytes()
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

func sampleTestDraft(questionSet bool) domain.TestDraft {
	return domain.TestDraft{
		Title:           "Logic basics",
		DurationMinutes: 15,
		IsQuestionSet:   questionSet,
		Questions: []domain.TestQuestion{
			{QuestionText: "2 + 2?", Options: []string{"4", "5"}, CorrectOptionIndex: 0, Points: 1},
			{QuestionText: "Capital of France?", Options: []string{"Rome", "Paris"}, CorrectOptionIndex: 1, Points: 2},
		},
	}
}

func TestSubmitFlow(t *testing.T) {
	srv := newTestServer(t, nil)

	status, body := call(t, srv, http.MethodPost, "/api/v1/tests", "tok-interviewer", sampleTestDraft(false))
	if status != http.StatusCreated {
		t.Fatalf("create test: %d %s", status, body)
	}
	testID := decode[idResponse](t, body).ID

	now := time.Now().UnixMilli()
	status, body = call(t, srv, http.MethodPost, "/api/v1/tests/"+testID+"/attempts", "tok-alice", submitRequest{
		Answers: []domain.SubmittedAnswer{
			{QuestionIndex: 0, SelectedOptionIndex: 0},
			{QuestionIndex: 1, SelectedOptionIndex: 1},
		},
		StartedAt:   now - 60_000,
		CompletedAt: now,
	})
	if status != http.StatusCreated {
		t.Fatalf("submit: %d %s", status, body)
	}
	attemptID := decode[idResponse](t, body).ID

	status, body = call(t, srv, http.MethodGet, "/api/v1/attempts/"+attemptID, "", nil)
	if status != http.StatusOK {
		t.Fatalf("get attempt: %d %s", status, body)
	}
	attempt := decode[domain.Attempt](t, body)
	if attempt.Score != 3 || attempt.Percentage != 100 || attempt.TimeSpentSeconds != 60 {
		t.Fatalf("unexpected attempt %+v", attempt)
	}

	status, body = call(t, srv, http.MethodGet, "/api/v1/tests/"+testID+"/attempts/mine", "tok-alice", nil)
	if status != http.StatusOK || decode[domain.Attempt](t, body).ID != attemptID {
		t.Fatalf("my attempt: %d %s", status, body)
	}
	if status, _ := call(t, srv, http.MethodGet, "/api/v1/tests/"+testID+"/attempts", "tok-alice", nil); status != http.StatusForbidden {
		t.Fatalf("expected 403 for candidate review, got %d", status)
	}
	status, body = call(t, srv, http.MethodGet, "/api/v1/tests/"+testID+"/attempts", "tok-interviewer", nil)
	if status != http.StatusOK || len(decode[[]domain.Attempt](t, body)) != 1 {
		t.Fatalf("creator review: %d %s", status, body)
	}

	status, body = call(t, srv, http.MethodGet, "/api/v1/attempts/mine", "", nil)
	if status != http.StatusOK || strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("anonymous attempts should be empty, got %d %s", status, body)
	}
}

func TestTestViewHidesAnswerKey(t *testing.T) {
	srv := newTestServer(t, nil)
	_, body := call(t, srv, http.MethodPost, "/api/v1/tests", "tok-interviewer", sampleTestDraft(false))
	testID := decode[idResponse](t, body).ID

	_, body = call(t, srv, http.MethodGet, "/api/v1/tests/"+testID, "tok-alice", nil)
	if strings.Contains(string(body), "correctOptionIndex") {
		t.Fatalf("candidate view leaked answer key: %s", body)
	}
	view := decode[testView](t, body)
	if len(view.Questions) != 2 || view.Questions[1].Options[1] != "Paris" || view.TotalPoints != 3 {
		t.Fatalf("unexpected view %+v", view)
	}

	_, body = call(t, srv, http.MethodGet, "/api/v1/tests/"+testID, "tok-interviewer", nil)
	if !strings.Contains(string(body), "correctOptionIndex") {
		t.Fatalf("creator should see answer key: %s", body)
	}

	_, body = call(t, srv, http.MethodGet, "/api/v1/tests/available", "tok-bob", nil)
	if got := decode[[]testView](t, body); len(got) != 1 {
		t.Fatalf("expected one available test, got %s", body)
	}
}

func TestViewMappingFailureIsInternal(t *testing.T) {
	srv := newTestServer(t, nil)
	_, body := call(t, srv, http.MethodPost, "/api/v1/tests", "tok-interviewer", sampleTestDraft(false))
	testID := decode[idResponse](t, body).ID

	original := copyView
	copyView = func(any, any) error { return errors.New("copy failed") }
	t.Cleanup(func() { copyView = original })

	for _, path := range []string{"/api/v1/tests/" + testID, "/api/v1/tests/available"} {
		status, body := call(t, srv, http.MethodGet, path, "tok-alice", nil)
		if status != http.StatusInternalServerError {
			t.Fatalf("%s: expected 500, got %d %s", path, status, body)
		}
		if strings.Contains(string(body), "Logic basics") {
			t.Fatalf("%s: partial view leaked: %s", path, body)
		}
	}

	if status, body := call(t, srv, http.MethodGet, "/api/v1/tests/"+testID, "tok-interviewer", nil); status != http.StatusOK {
		t.Fatalf("creator view does not copy, expected 200, got %d %s", status, body)
	}
}

func TestErrorMapping(t *testing.T) {
	srv := newTestServer(t, nil)
	_, body := call(t, srv, http.MethodPost, "/api/v1/tests", "tok-interviewer", sampleTestDraft(false))
	testID := decode[idResponse](t, body).ID

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		status int
	}{
		{"anonymous create", http.MethodPost, "/api/v1/tests", "", sampleTestDraft(false), http.StatusUnauthorized},
		{"invalid token", http.MethodGet, "/api/v1/tests/mine", "tok-nobody", nil, http.StatusUnauthorized},
		{"non owner delete", http.MethodDelete, "/api/v1/tests/" + testID, "tok-alice", nil, http.StatusForbidden},
		{"unknown test", http.MethodGet, "/api/v1/tests/missing", "", nil, http.StatusNotFound},
		{"no questions", http.MethodPost, "/api/v1/tests", "tok-interviewer", domain.TestDraft{Title: "x", DurationMinutes: 5}, http.StatusBadRequest},
		{"malformed json", http.MethodPatch, "/api/v1/tests/" + testID, "tok-interviewer", "not an object", http.StatusBadRequest},
		{"late submission", http.MethodPost, "/api/v1/tests/" + testID + "/attempts", "tok-alice", submitRequest{StartedAt: 0, CompletedAt: 3_600_000}, http.StatusBadRequest},
		{"unknown interview", http.MethodGet, "/api/v1/interviews/by-call/nope", "tok-alice", nil, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := call(t, srv, tc.method, tc.path, tc.token, tc.body)
			if status != tc.status {
				t.Fatalf("expected %d, got %d %s", tc.status, status, body)
			}
		})
	}
}

func TestStatusForUnknownErrorIsInternal(t *testing.T) {
	if got := statusFor(errors.New("boom")); got != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", got)
	}
	if got := statusFor(domain.ErrAlreadyAttempted); got != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", got)
	}
}

func createInterview(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	status, body := call(t, srv, http.MethodPost, "/api/v1/interviews", "tok-interviewer", domain.InterviewDraft{
		Title:          "Backend onsite",
		StartTime:      time.Now().UnixMilli(),
		StreamCallID:   "call-1",
		CandidateID:    "alice",
		InterviewerIDs: []string{"interviewer-1"},
	})
	if status != http.StatusCreated {
		t.Fatalf("create interview: %d %s", status, body)
	}
	return decode[idResponse](t, body).ID
}

func TestInterviewAssignmentFlow(t *testing.T) {
	srv := newTestServer(t, nil)
	interviewID := createInterview(t, srv)

	status, body := call(t, srv, http.MethodPost, "/api/v1/questions", "tok-interviewer", domain.QuestionDraft{
		Title:       "Two Sum",
		Description: "Find two numbers adding up to target.",
		Difficulty:  domain.DifficultyEasy,
		TestCases: []domain.TestCase{
			{Input: "[2,7] 9", ExpectedOutput: "[0,1]"},
			{Input: "[3,3] 6", ExpectedOutput: "[0,1]", IsHidden: true},
		},
	})
	if status != http.StatusCreated {
		t.Fatalf("create question: %d %s", status, body)
	}
	questionID := decode[idResponse](t, body).ID

	path := "/api/v1/interviews/" + interviewID
	if status, _ := call(t, srv, http.MethodPost, path+"/questions", "tok-alice", assignQuestionRequest{QuestionID: questionID}); status != http.StatusForbidden {
		t.Fatalf("expected candidate forbidden, got %d", status)
	}
	if status, body := call(t, srv, http.MethodPost, path+"/questions", "tok-interviewer", assignQuestionRequest{QuestionID: questionID}); status != http.StatusNoContent {
		t.Fatalf("assign question: %d %s", status, body)
	}

	_, body = call(t, srv, http.MethodGet, path+"/questions", "tok-alice", nil)
	candidateView := decode[[]domain.CodingQuestion](t, body)
	if len(candidateView) != 1 || len(candidateView[0].TestCases) != 1 {
		t.Fatalf("candidate should see only visible test cases, got %s", body)
	}
	_, body = call(t, srv, http.MethodGet, path+"/questions", "tok-interviewer", nil)
	if got := decode[[]domain.CodingQuestion](t, body); len(got) != 1 || len(got[0].TestCases) != 2 {
		t.Fatalf("interviewer should see every test case, got %s", body)
	}
	if status, _ := call(t, srv, http.MethodGet, path+"/questions", "tok-bob", nil); status != http.StatusForbidden {
		t.Fatalf("expected outsider forbidden, got %d", status)
	}

	_, body = call(t, srv, http.MethodPost, "/api/v1/tests", "tok-interviewer", sampleTestDraft(false))
	plainID := decode[idResponse](t, body).ID
	if status, _ := call(t, srv, http.MethodPut, path+"/aptitude-test", "tok-interviewer", assignTestRequest{TestID: plainID}); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for non question set, got %d", status)
	}
	_, body = call(t, srv, http.MethodPost, "/api/v1/tests", "tok-interviewer", sampleTestDraft(true))
	setID := decode[idResponse](t, body).ID
	if status, body := call(t, srv, http.MethodPut, path+"/aptitude-test", "tok-interviewer", assignTestRequest{TestID: setID}); status != http.StatusNoContent {
		t.Fatalf("assign test: %d %s", status, body)
	}
	_, body = call(t, srv, http.MethodGet, path+"/aptitude-test", "tok-alice", nil)
	if got := decode[testView](t, body); got.ID != setID {
		t.Fatalf("expected assigned test %s, got %s", setID, body)
	}

	if status, _ := call(t, srv, http.MethodPatch, path+"/status", "tok-interviewer", statusRequest{Status: domain.InterviewCompleted}); status != http.StatusNoContent {
		t.Fatalf("complete interview: %d", status)
	}
	_, body = call(t, srv, http.MethodGet, "/api/v1/interviews/by-call/call-1", "", nil)
	if got := decode[domain.Interview](t, body); got.Status != domain.InterviewCompleted || got.EndTime == 0 {
		t.Fatalf("expected completed interview, got %s", body)
	}
}

func TestFeedStreamsAssignments(t *testing.T) {
	presence := &fakePresence{joined: make(chan string, 1), left: make(chan string, 1)}
	srv := newTestServer(t, presence)
	interviewID := createInterview(t, srv)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/interviews/" + interviewID + "/feed?token=tok-alice"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	initial := readSnapshot(t, conn)
	if initial.InterviewID != interviewID || len(initial.QuestionIDs) != 0 {
		t.Fatalf("unexpected initial snapshot %+v", initial)
	}
	select {
	case id := <-presence.joined:
		if id != interviewID {
			t.Fatalf("unexpected presence join %s", id)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected presence join")
	}

	call(t, srv, http.MethodPost, "/api/v1/interviews/"+interviewID+"/questions", "tok-interviewer", assignQuestionRequest{QuestionID: "q-42"})
	update := readSnapshot(t, conn)
	if len(update.QuestionIDs) != 1 || update.QuestionIDs[0] != "q-42" {
		t.Fatalf("expected q-42 in update, got %+v", update)
	}

	_ = conn.Close()
	select {
	case <-presence.left:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected presence leave after close")
	}
}

func TestFeedRejectsOutsiders(t *testing.T) {
	srv := newTestServer(t, nil)
	interviewID := createInterview(t, srv)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/interviews/" + interviewID + "/feed?token=tok-bob"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatalf("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %+v", resp)
	}
}

func readSnapshot(t *testing.T, conn *websocket.Conn) domain.AssignmentSnapshot {
	t.Helper()
	var msg outboundMessage[domain.AssignmentSnapshot]
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if msg.Type != "assignment" {
		t.Fatalf("expected assignment message, got %s", msg.Type)
	}
	return msg.Payload
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t, nil)
	if status, body := call(t, srv, http.MethodGet, "/healthz", "", nil); status != http.StatusOK || string(body) != "ok" {
		t.Fatalf("healthz: %d %s", status, body)
	}
	call(t, srv, http.MethodGet, "/api/v1/tests/available", "", nil)
	_, body := call(t, srv, http.MethodGet, "/metrics", "", nil)
	if !strings.Contains(string(body), `endpoint="/api/v1/tests/available"`) {
		t.Fatalf("expected request metric, got:\n%s", body)
	}

	down := newTestServer(t, nil, func(context.Context) error { return errors.New("db down") })
	if status, _ := call(t, down, http.MethodGet, "/healthz", "", nil); status != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", status)
	}
}
