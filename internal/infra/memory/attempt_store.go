package memory

import (
	"context"
	"sync"

	"interview-assessment-service/internal/domain"
)

// AttemptStore is an in-memory, append-only implementation of app.AttemptRepository.
type AttemptStore struct {
	mu       sync.RWMutex
	attempts []domain.Attempt
	byID     map[string]int
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{byID: make(map[string]int)}
}

func (s *AttemptStore) Insert(_ context.Context, attempt domain.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendLocked(attempt)
	return nil
}

func (s *AttemptStore) InsertFirst(_ context.Context, attempt domain.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.attempts {
		if a.TestID == attempt.TestID && a.CandidateID == attempt.CandidateID {
			return domain.ErrAlreadyAttempted
		}
	}
	s.appendLocked(attempt)
	return nil
}

func (s *AttemptStore) appendLocked(attempt domain.Attempt) {
	s.byID[attempt.ID] = len(s.attempts)
	s.attempts = append(s.attempts, cloneAttempt(attempt))
}

func (s *AttemptStore) Get(_ context.Context, id string) (domain.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.byID[id]
	if !ok {
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}
	return cloneAttempt(s.attempts[idx]), nil
}

func (s *AttemptStore) ListByCandidate(_ context.Context, candidateID string) ([]domain.Attempt, error) {
	return s.filter(func(a domain.Attempt) bool { return a.CandidateID == candidateID }), nil
}

func (s *AttemptStore) ListByTest(_ context.Context, testID string) ([]domain.Attempt, error) {
	return s.filter(func(a domain.Attempt) bool { return a.TestID == testID }), nil
}

func (s *AttemptStore) FirstByTestAndCandidate(_ context.Context, testID, candidateID string) (domain.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.attempts {
		if a.TestID == testID && a.CandidateID == candidateID {
			return cloneAttempt(a), nil
		}
	}
	return domain.Attempt{}, domain.ErrAttemptNotFound
}

func (s *AttemptStore) filter(keep func(domain.Attempt) bool) []domain.Attempt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Attempt, 0)
	for _, a := range s.attempts {
		if keep(a) {
			out = append(out, cloneAttempt(a))
		}
	}
	return out
}
