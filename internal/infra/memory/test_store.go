package memory

import (
	"context"
	"fmt"
	"sync"

	"interview-assessment-service/internal/app"
	"interview-assessment-service/internal/domain"
)

// TestStore is an in-memory implementation of app.TestRepository.
type TestStore struct {
	mu    sync.RWMutex
	tests map[string]domain.TestDefinition
	order []string

	interviews *InterviewStore
}

// NewTestStore builds a store; interviews, when set, has its aptitude test
// references cleared on delete.
func NewTestStore(interviews *InterviewStore) *TestStore {
	return &TestStore{
		tests:      make(map[string]domain.TestDefinition),
		interviews: interviews,
	}
}

func (s *TestStore) Insert(_ context.Context, test domain.TestDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tests[test.ID]; ok {
		return fmt.Errorf("aptitude test %s already exists", test.ID)
	}
	s.tests[test.ID] = cloneTest(test)
	s.order = append(s.order, test.ID)
	return nil
}

func (s *TestStore) Get(_ context.Context, id string) (domain.TestDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	test, ok := s.tests[id]
	if !ok {
		return domain.TestDefinition{}, domain.ErrTestNotFound
	}
	return cloneTest(test), nil
}

func (s *TestStore) Update(_ context.Context, id string, fn func(*domain.TestDefinition) error) (domain.TestDefinition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	test, ok := s.tests[id]
	if !ok {
		return domain.TestDefinition{}, domain.ErrTestNotFound
	}
	working := cloneTest(test)
	if err := fn(&working); err != nil {
		return domain.TestDefinition{}, err
	}
	s.tests[id] = working
	return cloneTest(working), nil
}

// Delete removes the test and clears interview references to it while still
// holding the test lock, so no reader sees the test gone but still attached.
func (s *TestStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tests[id]; !ok {
		return domain.ErrTestNotFound
	}
	delete(s.tests, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.interviews != nil {
		s.interviews.detachAptitudeTest(id)
	}
	return nil
}

func (s *TestStore) List(_ context.Context, filter app.TestFilter) ([]domain.TestDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.TestDefinition, 0, len(s.order))
	for _, id := range s.order {
		test := s.tests[id]
		if filter.CreatedBy != "" && test.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.ActiveOnly && !test.IsActive {
			continue
		}
		out = append(out, cloneTest(test))
	}
	return out, nil
}
