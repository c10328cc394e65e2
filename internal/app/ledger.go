package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"interview-assessment-service/internal/domain"
)

// AttemptPolicy decides whether a candidate may submit the same test twice.
type AttemptPolicy string

const (
	// AttemptsMultiple records every submission.
	AttemptsMultiple AttemptPolicy = "multiple"
	// AttemptsSingle rejects a second submission for the same test.
	AttemptsSingle AttemptPolicy = "single"
)

// LedgerConfig tunes submission checks.
type LedgerConfig struct {
	Policy AttemptPolicy
	// Grace is added to the test duration before a late submission is rejected.
	Grace time.Duration
}

// SubmissionObserver is notified after an attempt is recorded.
type SubmissionObserver interface {
	ObserveSubmission(testID string, percentage float64, timeSpent time.Duration)
}

// LedgerService grades submissions and records them as immutable attempts.
type LedgerService struct {
	tests    TestRepository
	attempts AttemptRepository
	cfg      LedgerConfig
	log      *zap.Logger
	observer SubmissionObserver
	nextID   func() string
}

func NewLedgerService(tests TestRepository, attempts AttemptRepository, cfg LedgerConfig, log *zap.Logger) *LedgerService {
	if cfg.Policy == "" {
		cfg.Policy = AttemptsMultiple
	}
	return &LedgerService{
		tests:    tests,
		attempts: attempts,
		cfg:      cfg,
		log:      log.Named("ledger"),
		nextID:   uuid.NewString,
	}
}

// SetObserver registers an observer for recorded submissions.
func (s *LedgerService) SetObserver(o SubmissionObserver) {
	s.observer = o
}

// Submit grades answers against the current version of the test and records
// the attempt for principal. startedAt and completedAt are epoch milliseconds.
func (s *LedgerService) Submit(ctx context.Context, principal, testID string, answers []domain.SubmittedAnswer, startedAt, completedAt int64) (string, error) {
	if principal == "" {
		return "", domain.ErrAuthenticationRequired
	}
	test, err := s.tests.Get(ctx, testID)
	if err != nil {
		return "", fmt.Errorf("submit attempt: %w", err)
	}

	if startedAt < 0 {
		return "", domain.Validationf("startedAt %d is negative", startedAt)
	}
	if completedAt < startedAt {
		return "", domain.Validationf("completedAt %d is before startedAt %d", completedAt, startedAt)
	}
	// Compared in milliseconds: the difference can exceed what a Duration holds.
	spentMillis := completedAt - startedAt
	limitMillis := int64(test.DurationMinutes)*time.Minute.Milliseconds() + s.cfg.Grace.Milliseconds()
	if spentMillis > limitMillis {
		return "", domain.Validationf("attempt took %dms, limit is %dms", spentMillis, limitMillis)
	}
	elapsed := time.Duration(spentMillis) * time.Millisecond

	graded := Grade(test.Questions, answers)
	attempt := domain.Attempt{
		ID:               s.nextID(),
		TestID:           test.ID,
		CandidateID:      principal,
		Answers:          graded.Answers,
		Score:            graded.Score,
		TotalPoints:      graded.TotalPoints,
		Percentage:       graded.Percentage,
		StartedAt:        startedAt,
		CompletedAt:      completedAt,
		TimeSpentSeconds: spentMillis / 1000,
	}

	insert := s.attempts.Insert
	if s.cfg.Policy == AttemptsSingle {
		insert = s.attempts.InsertFirst
	}
	if err := insert(ctx, attempt); err != nil {
		if !errors.Is(err, domain.ErrAlreadyAttempted) {
			s.log.Error("insert attempt", zap.String("test_id", testID), zap.String("candidate", principal), zap.Error(err))
		}
		return "", fmt.Errorf("submit attempt: %w", err)
	}

	s.log.Info("attempt recorded",
		zap.String("attempt_id", attempt.ID),
		zap.String("test_id", test.ID),
		zap.String("candidate", principal),
		zap.Float64("score", attempt.Score),
		zap.Float64("percentage", attempt.Percentage))
	if s.observer != nil {
		s.observer.ObserveSubmission(test.ID, attempt.Percentage, elapsed)
	}
	return attempt.ID, nil
}

// ListByCandidate returns principal's own attempts; anonymous callers get none.
func (s *LedgerService) ListByCandidate(ctx context.Context, principal string) ([]domain.Attempt, error) {
	if principal == "" {
		return []domain.Attempt{}, nil
	}
	attempts, err := s.attempts.ListByCandidate(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	return attempts, nil
}

// GetByTestAndCandidate returns principal's first recorded attempt at the test,
// or nil when there is none.
func (s *LedgerService) GetByTestAndCandidate(ctx context.Context, principal, testID string) (*domain.Attempt, error) {
	if principal == "" {
		return nil, nil
	}
	attempt, err := s.attempts.FirstByTestAndCandidate(ctx, testID, principal)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	return &attempt, nil
}

// ListByTest returns every attempt at the test. Only its creator may review them.
func (s *LedgerService) ListByTest(ctx context.Context, principal, testID string) ([]domain.Attempt, error) {
	if principal == "" {
		return nil, domain.ErrAuthenticationRequired
	}
	test, err := s.tests.Get(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("list test attempts: %w", err)
	}
	if !CanViewResults(principal, test) {
		return nil, domain.Forbiddenf("only the test creator can view attempts")
	}
	attempts, err := s.attempts.ListByTest(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("list test attempts: %w", err)
	}
	return attempts, nil
}

// Get returns the attempt or nil when it does not exist.
func (s *LedgerService) Get(ctx context.Context, id string) (*domain.Attempt, error) {
	attempt, err := s.attempts.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get attempt %s: %w", id, err)
	}
	return &attempt, nil
}
