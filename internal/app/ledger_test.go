package app_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"interview-assessment-service/internal/app"
	"interview-assessment-service/internal/domain"
)

const start = int64(1_700_000_000_000)

func TestSubmitScoresAndPersists(t *testing.T) {
	env := newTestEnv(t, app.LedgerConfig{})
	ctx := context.Background()
	testID := env.createTest(t, nil)

	cases := []struct {
		answers    []domain.SubmittedAnswer
		score      float64
		percentage float64
	}{
		{[]domain.SubmittedAnswer{{QuestionIndex: 0, SelectedOptionIndex: 0}, {QuestionIndex: 1, SelectedOptionIndex: 1}}, 3, 100},
		{[]domain.SubmittedAnswer{{QuestionIndex: 0, SelectedOptionIndex: 1}, {QuestionIndex: 1, SelectedOptionIndex: 0}}, 0, 0},
		{[]domain.SubmittedAnswer{{QuestionIndex: 0, SelectedOptionIndex: 0}}, 1, 33.333333},
	}
	for _, tc := range cases {
		id, err := env.ledger.Submit(ctx, candidateA, testID, tc.answers, start, start+95_500)
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		attempt, err := env.ledger.Get(ctx, id)
		if err != nil || attempt == nil {
			t.Fatalf("get attempt: %v %v", attempt, err)
		}
		if attempt.Score != tc.score || attempt.TotalPoints != 3 {
			t.Fatalf("expected score %v of 3, got %v of %v", tc.score, attempt.Score, attempt.TotalPoints)
		}
		if math.Abs(attempt.Percentage-tc.percentage) > 1e-4 {
			t.Fatalf("expected percentage %v, got %v", tc.percentage, attempt.Percentage)
		}
		if attempt.TimeSpentSeconds != 95 {
			t.Fatalf("expected 95s spent, got %d", attempt.TimeSpentSeconds)
		}
		if attempt.CandidateID != candidateA || attempt.TestID != testID {
			t.Fatalf("unexpected attempt ownership %+v", attempt)
		}
	}
}

func TestSubmitErrors(t *testing.T) {
	env := newTestEnv(t, app.LedgerConfig{Grace: 30 * time.Second})
	ctx := context.Background()
	testID := env.createTest(t, nil) // 10 minute limit

	if _, err := env.ledger.Submit(ctx, "", testID, nil, start, start+1000); !errors.Is(err, domain.ErrAuthenticationRequired) {
		t.Fatalf("expected authentication error, got %v", err)
	}
	if _, err := env.ledger.Submit(ctx, candidateA, "missing", nil, start, start+1000); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := env.ledger.Submit(ctx, candidateA, testID, nil, start, start-1); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for negative duration, got %v", err)
	}

	withinGrace := start + (10*60+25)*1000
	if _, err := env.ledger.Submit(ctx, candidateA, testID, nil, start, withinGrace); err != nil {
		t.Fatalf("expected submission within grace to pass, got %v", err)
	}
	late := start + (10*60+31)*1000
	if _, err := env.ledger.Submit(ctx, candidateA, testID, nil, start, late); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for late submission, got %v", err)
	}
	if _, err := env.ledger.Submit(ctx, candidateA, testID, nil, 0, 9_223_372_036_855); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for elapsed time beyond duration range, got %v", err)
	}
	if _, err := env.ledger.Submit(ctx, candidateA, testID, nil, math.MinInt64, start); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for negative startedAt, got %v", err)
	}
	attempts, err := env.ledger.ListByCandidate(ctx, candidateA)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(attempts) != 1 {
		t.Fatalf("expected only the in-grace attempt to be stored, got %d", len(attempts))
	}
}

func TestSubmitGradesAgainstCurrentDefinition(t *testing.T) {
	env := newTestEnv(t, app.LedgerConfig{})
	ctx := context.Background()
	testID := env.createTest(t, nil)

	edited := []domain.TestQuestion{
		{QuestionText: "2 + 2?", Options: []string{"4", "5"}, CorrectOptionIndex: 1, Points: 4},
	}
	if err := env.catalog.Update(ctx, interviewer, testID, domain.TestPatch{Questions: &edited}); err != nil {
		t.Fatalf("update: %v", err)
	}

	id, err := env.ledger.Submit(ctx, candidateA, testID, []domain.SubmittedAnswer{{QuestionIndex: 0, SelectedOptionIndex: 1}}, start, start+1000)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	attempt, _ := env.ledger.Get(ctx, id)
	if attempt.Score != 4 || attempt.TotalPoints != 4 || len(attempt.Answers) != 1 {
		t.Fatalf("expected grading against edited test, got %+v", attempt)
	}
}

func TestSinglePolicyRejectsSecondAttempt(t *testing.T) {
	env := newTestEnv(t, app.LedgerConfig{Policy: app.AttemptsSingle})
	ctx := context.Background()
	testID := env.createTest(t, nil)

	if _, err := env.ledger.Submit(ctx, candidateA, testID, nil, start, start+1000); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, err := env.ledger.Submit(ctx, candidateA, testID, nil, start, start+2000)
	if !errors.Is(err, domain.ErrAlreadyAttempted) || !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected already attempted validation error, got %v", err)
	}
	if _, err := env.ledger.Submit(ctx, candidateB, testID, nil, start, start+1000); err != nil {
		t.Fatalf("other candidate should submit, got %v", err)
	}
}

func TestMultiplePolicyKeepsEveryAttempt(t *testing.T) {
	env := newTestEnv(t, app.LedgerConfig{})
	ctx := context.Background()
	testID := env.createTest(t, nil)

	first, _ := env.ledger.Submit(ctx, candidateA, testID, nil, start, start+1000)
	if _, err := env.ledger.Submit(ctx, candidateA, testID, nil, start, start+2000); err != nil {
		t.Fatalf("second submit: %v", err)
	}

	mine, err := env.ledger.ListByCandidate(ctx, candidateA)
	if err != nil || len(mine) != 2 {
		t.Fatalf("expected 2 attempts, got %d %v", len(mine), err)
	}
	got, err := env.ledger.GetByTestAndCandidate(ctx, candidateA, testID)
	if err != nil || got == nil || got.ID != first {
		t.Fatalf("expected first attempt %s, got %+v %v", first, got, err)
	}
}

func TestListByTestRequiresCreator(t *testing.T) {
	env := newTestEnv(t, app.LedgerConfig{})
	ctx := context.Background()
	testID := env.createTest(t, nil)
	_, _ = env.ledger.Submit(ctx, candidateA, testID, nil, start, start+1000)
	_, _ = env.ledger.Submit(ctx, candidateB, testID, nil, start, start+1000)

	if _, err := env.ledger.ListByTest(ctx, candidateA, testID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := env.ledger.ListByTest(ctx, interviewer, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	attempts, err := env.ledger.ListByTest(ctx, interviewer, testID)
	if err != nil || len(attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d %v", len(attempts), err)
	}
}

func TestAnonymousReadsAreEmpty(t *testing.T) {
	env := newTestEnv(t, app.LedgerConfig{})
	ctx := context.Background()
	testID := env.createTest(t, nil)

	attempts, err := env.ledger.ListByCandidate(ctx, "")
	if err != nil || len(attempts) != 0 {
		t.Fatalf("expected no attempts for anonymous, got %v %v", attempts, err)
	}
	attempt, err := env.ledger.GetByTestAndCandidate(ctx, "", testID)
	if err != nil || attempt != nil {
		t.Fatalf("expected nil attempt for anonymous, got %v %v", attempt, err)
	}
	if got, err := env.ledger.Get(ctx, "missing"); err != nil || got != nil {
		t.Fatalf("expected nil for unknown attempt, got %v %v", got, err)
	}
}

type recordingObserver struct {
	testID     string
	percentage float64
}

func (o *recordingObserver) ObserveSubmission(testID string, percentage float64, _ time.Duration) {
	o.testID = testID
	o.percentage = percentage
}

func TestSubmitNotifiesObserver(t *testing.T) {
	env := newTestEnv(t, app.LedgerConfig{})
	obs := &recordingObserver{}
	env.ledger.SetObserver(obs)
	testID := env.createTest(t, nil)

	answers := []domain.SubmittedAnswer{{QuestionIndex: 0, SelectedOptionIndex: 0}, {QuestionIndex: 1, SelectedOptionIndex: 1}}
	if _, err := env.ledger.Submit(context.Background(), candidateA, testID, answers, start, start+1000); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if obs.testID != testID || obs.percentage != 100 {
		t.Fatalf("expected observer notified, got %+v", obs)
	}
}
