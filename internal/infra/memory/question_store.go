package memory

import (
	"context"
	"fmt"
	"sync"

	"interview-assessment-service/internal/domain"
)

// QuestionStore is an in-memory implementation of app.QuestionRepository.
// It also serves as the QuestionLoader behind QuestionCache.
type QuestionStore struct {
	mu        sync.RWMutex
	questions map[string]domain.CodingQuestion
	order     []string
}

func NewQuestionStore(seed ...domain.CodingQuestion) *QuestionStore {
	s := &QuestionStore{questions: make(map[string]domain.CodingQuestion)}
	for _, q := range seed {
		s.questions[q.ID] = q
		s.order = append(s.order, q.ID)
	}
	return s
}

func (s *QuestionStore) Insert(_ context.Context, q domain.CodingQuestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[q.ID]; ok {
		return fmt.Errorf("question %s already exists", q.ID)
	}
	s.questions[q.ID] = q
	s.order = append(s.order, q.ID)
	return nil
}

func (s *QuestionStore) Get(_ context.Context, id string) (domain.CodingQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return domain.CodingQuestion{}, domain.ErrQuestionNotFound
	}
	return q, nil
}

func (s *QuestionStore) List(_ context.Context, createdBy string) ([]domain.CodingQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CodingQuestion, 0, len(s.order))
	for _, id := range s.order {
		q := s.questions[id]
		if createdBy != "" && q.CreatedBy != createdBy {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

func (s *QuestionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(s.questions, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
