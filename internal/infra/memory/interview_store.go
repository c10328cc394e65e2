package memory

import (
	"context"
	"fmt"
	"sync"

	"interview-assessment-service/internal/app"
	"interview-assessment-service/internal/domain"
)

// InterviewStore is an in-memory implementation of app.InterviewRepository.
type InterviewStore struct {
	mu         sync.RWMutex
	interviews map[string]domain.Interview
	order      []string
}

func NewInterviewStore() *InterviewStore {
	return &InterviewStore{interviews: make(map[string]domain.Interview)}
}

func (s *InterviewStore) Insert(_ context.Context, interview domain.Interview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.interviews[interview.ID]; ok {
		return fmt.Errorf("interview %s already exists", interview.ID)
	}
	s.interviews[interview.ID] = cloneInterview(interview)
	s.order = append(s.order, interview.ID)
	return nil
}

func (s *InterviewStore) Get(_ context.Context, id string) (domain.Interview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	interview, ok := s.interviews[id]
	if !ok {
		return domain.Interview{}, domain.ErrInterviewNotFound
	}
	return cloneInterview(interview), nil
}

func (s *InterviewStore) GetByStreamCallID(_ context.Context, callID string) (domain.Interview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		if s.interviews[id].StreamCallID == callID {
			return cloneInterview(s.interviews[id]), nil
		}
	}
	return domain.Interview{}, domain.ErrInterviewNotFound
}

func (s *InterviewStore) List(_ context.Context, filter app.InterviewFilter) ([]domain.Interview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Interview, 0, len(s.order))
	for _, id := range s.order {
		interview := s.interviews[id]
		if filter.CandidateID != "" && interview.CandidateID != filter.CandidateID {
			continue
		}
		out = append(out, cloneInterview(interview))
	}
	return out, nil
}

func (s *InterviewStore) Patch(_ context.Context, id string, patch domain.InterviewPatch) (domain.Interview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	interview, ok := s.interviews[id]
	if !ok {
		return domain.Interview{}, domain.ErrInterviewNotFound
	}
	if patch.Status != nil {
		interview.Status = *patch.Status
	}
	if patch.EndTime != nil {
		interview.EndTime = *patch.EndTime
	}
	if patch.QuestionIDs != nil {
		interview.QuestionIDs = cloneStrings(*patch.QuestionIDs)
	}
	if patch.AptitudeTestID != nil {
		interview.AptitudeTestID = *patch.AptitudeTestID
	}
	s.interviews[id] = interview
	return cloneInterview(interview), nil
}

func (s *InterviewStore) AppendQuestion(_ context.Context, id, questionID string) (domain.Interview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	interview, ok := s.interviews[id]
	if !ok {
		return domain.Interview{}, domain.ErrInterviewNotFound
	}
	for _, existing := range interview.QuestionIDs {
		if existing == questionID {
			return cloneInterview(interview), nil
		}
	}
	interview.QuestionIDs = append(cloneStrings(interview.QuestionIDs), questionID)
	s.interviews[id] = interview
	return cloneInterview(interview), nil
}

func (s *InterviewStore) detachAptitudeTest(testID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, interview := range s.interviews {
		if interview.AptitudeTestID == testID {
			interview.AptitudeTestID = ""
			s.interviews[id] = interview
		}
	}
}
