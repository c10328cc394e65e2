package app_test

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"interview-assessment-service/internal/app"
	"interview-assessment-service/internal/domain"
	"interview-assessment-service/internal/infra/memory"
)

const (
	interviewer = "interviewer-1"
	colleague   = "interviewer-2"
	candidateA  = "candidate-a"
	candidateB  = "candidate-b"
)

type testEnv struct {
	tests      *memory.TestStore
	attempts   *memory.AttemptStore
	interviews *memory.InterviewStore
	questions  *memory.QuestionStore
	feed       *app.FeedHub

	catalog    *app.CatalogService
	ledger     *app.LedgerService
	assignment *app.AssignmentService
	scheduling *app.InterviewService
	coding     *app.QuestionService
}

func newTestEnv(t *testing.T, cfg app.LedgerConfig) *testEnv {
	t.Helper()
	log := zap.NewNop()
	env := &testEnv{
		interviews: memory.NewInterviewStore(),
		attempts:   memory.NewAttemptStore(),
		questions:  memory.NewQuestionStore(),
		feed:       app.NewFeedHub(),
	}
	env.tests = memory.NewTestStore(env.interviews)
	cache := memory.NewQuestionCache(env.questions, time.Minute)

	env.catalog = app.NewCatalogService(env.tests, log)
	env.ledger = app.NewLedgerService(env.tests, env.attempts, cfg, log)
	env.assignment = app.NewAssignmentService(env.interviews, env.tests, cache, env.feed, log)
	env.scheduling = app.NewInterviewService(env.interviews, log)
	env.coding = app.NewQuestionService(env.questions, cache, log)
	return env
}

func sampleDraft() domain.TestDraft {
	return domain.TestDraft{
		Title:           "  Logic basics  ",
		Description:     "Warm-up",
		DurationMinutes: 10,
		Questions:       twoQuestions(),
	}
}

func (e *testEnv) createTest(t *testing.T, mutate func(*domain.TestDraft)) string {
	t.Helper()
	draft := sampleDraft()
	if mutate != nil {
		mutate(&draft)
	}
	id, err := e.catalog.Create(context.Background(), interviewer, draft)
	if err != nil {
		t.Fatalf("create test: %v", err)
	}
	return id
}

func (e *testEnv) createInterview(t *testing.T) string {
	t.Helper()
	id, err := e.scheduling.Create(context.Background(), interviewer, domain.InterviewDraft{
		Title:          "Backend onsite",
		StartTime:      1_700_000_000_000,
		StreamCallID:   "call-1",
		CandidateID:    candidateA,
		InterviewerIDs: []string{interviewer, colleague},
	})
	if err != nil {
		t.Fatalf("create interview: %v", err)
	}
	return id
}

func (e *testEnv) createQuestion(t *testing.T, title string) string {
	t.Helper()
	id, err := e.coding.Create(context.Background(), interviewer, domain.QuestionDraft{
		Title:       title,
		Description: "Solve it.",
		Difficulty:  domain.DifficultyMedium,
		TestCases:   []domain.TestCase{{Input: "1", ExpectedOutput: "1"}},
	})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	return id
}
