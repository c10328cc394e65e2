package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"interview-assessment-service/internal/domain"
)

// InterviewService schedules interviews and tracks their status.
type InterviewService struct {
	interviews InterviewRepository
	log        *zap.Logger
	now        func() time.Time
	nextID     func() string
}

func NewInterviewService(interviews InterviewRepository, log *zap.Logger) *InterviewService {
	return &InterviewService{
		interviews: interviews,
		log:        log.Named("interviews"),
		now:        time.Now,
		nextID:     uuid.NewString,
	}
}

func (s *InterviewService) Create(ctx context.Context, principal string, draft domain.InterviewDraft) (string, error) {
	if principal == "" {
		return "", domain.ErrAuthenticationRequired
	}
	title := strings.TrimSpace(draft.Title)
	switch {
	case title == "":
		return "", domain.Validationf("title is required")
	case draft.CandidateID == "":
		return "", domain.Validationf("candidate id is required")
	case draft.StreamCallID == "":
		return "", domain.Validationf("stream call id is required")
	case len(draft.InterviewerIDs) == 0:
		return "", domain.Validationf("at least one interviewer is required")
	}
	status := draft.Status
	if status == "" {
		status = domain.InterviewUpcoming
	}

	interview := domain.Interview{
		ID:             s.nextID(),
		Title:          title,
		Description:    strings.TrimSpace(draft.Description),
		StartTime:      draft.StartTime,
		Status:         status,
		StreamCallID:   draft.StreamCallID,
		CandidateID:    draft.CandidateID,
		InterviewerIDs: draft.InterviewerIDs,
		QuestionIDs:    []string{},
	}
	if err := s.interviews.Insert(ctx, interview); err != nil {
		s.log.Error("insert interview", zap.String("call_id", draft.StreamCallID), zap.Error(err))
		return "", fmt.Errorf("create interview: %w", err)
	}
	s.log.Info("interview created", zap.String("interview_id", interview.ID), zap.String("candidate", interview.CandidateID))
	return interview.ID, nil
}

func (s *InterviewService) ListAll(ctx context.Context, principal string) ([]domain.Interview, error) {
	if principal == "" {
		return nil, domain.ErrAuthenticationRequired
	}
	interviews, err := s.interviews.List(ctx, InterviewFilter{})
	if err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}
	return interviews, nil
}

// ListMine returns the interviews where principal is the candidate.
func (s *InterviewService) ListMine(ctx context.Context, principal string) ([]domain.Interview, error) {
	if principal == "" {
		return []domain.Interview{}, nil
	}
	interviews, err := s.interviews.List(ctx, InterviewFilter{CandidateID: principal})
	if err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}
	return interviews, nil
}

// Get returns the interview to one of its participants.
func (s *InterviewService) Get(ctx context.Context, principal, id string) (domain.Interview, error) {
	if principal == "" {
		return domain.Interview{}, domain.ErrAuthenticationRequired
	}
	interview, err := s.interviews.Get(ctx, id)
	if err != nil {
		return domain.Interview{}, fmt.Errorf("get interview: %w", err)
	}
	if !CanViewInterview(principal, interview) {
		return domain.Interview{}, domain.Forbiddenf("not a participant of interview %s", id)
	}
	return interview, nil
}

// GetByStreamCallID returns nil when no interview uses the call id.
func (s *InterviewService) GetByStreamCallID(ctx context.Context, callID string) (*domain.Interview, error) {
	interview, err := s.interviews.GetByStreamCallID(ctx, callID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get interview by call %s: %w", callID, err)
	}
	return &interview, nil
}

// UpdateStatus sets the status; completing an interview stamps its end time.
func (s *InterviewService) UpdateStatus(ctx context.Context, principal, id, status string) error {
	if principal == "" {
		return domain.ErrAuthenticationRequired
	}
	switch status {
	case domain.InterviewUpcoming, domain.InterviewLive, domain.InterviewCompleted:
	default:
		return domain.Validationf("unknown interview status %q", status)
	}
	interview, err := s.interviews.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("update interview status: %w", err)
	}
	if !CanAssign(principal, interview) {
		return domain.Forbiddenf("only interviewers can change the status of interview %s", id)
	}
	patch := domain.InterviewPatch{Status: &status}
	if status == domain.InterviewCompleted {
		end := s.now().UnixMilli()
		patch.EndTime = &end
	}
	if _, err := s.interviews.Patch(ctx, id, patch); err != nil {
		return fmt.Errorf("update interview status: %w", err)
	}
	return nil
}
