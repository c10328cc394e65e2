package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"interview-assessment-service/internal/domain"
)

// resolveConcurrency bounds parallel question lookups for one interview.
const resolveConcurrency = 8

// AssignmentService attaches catalog content to interviews by reference.
type AssignmentService struct {
	interviews InterviewRepository
	tests      TestRepository
	questions  QuestionReader
	feed       *FeedHub
	log        *zap.Logger
	now        func() time.Time
}

func NewAssignmentService(interviews InterviewRepository, tests TestRepository, questions QuestionReader, feed *FeedHub, log *zap.Logger) *AssignmentService {
	return &AssignmentService{
		interviews: interviews,
		tests:      tests,
		questions:  questions,
		feed:       feed,
		log:        log.Named("assignment"),
		now:        time.Now,
	}
}

// AssignQuestion appends questionID to the interview unless it is already there.
func (s *AssignmentService) AssignQuestion(ctx context.Context, principal, interviewID, questionID string) error {
	if principal == "" {
		return domain.ErrAuthenticationRequired
	}
	if questionID == "" {
		return domain.Validationf("question id is required")
	}
	interview, err := s.interviews.Get(ctx, interviewID)
	if err != nil {
		return fmt.Errorf("assign question: %w", err)
	}
	if !CanAssign(principal, interview) {
		return domain.Forbiddenf("only interviewers of %s can assign questions", interviewID)
	}
	updated, err := s.interviews.AppendQuestion(ctx, interviewID, questionID)
	if err != nil {
		return fmt.Errorf("assign question: %w", err)
	}
	s.log.Info("question assigned",
		zap.String("interview_id", interviewID),
		zap.String("question_id", questionID),
		zap.String("interviewer", principal))
	s.publish(updated)
	return nil
}

// AssignAptitudeTest makes testID the interview's aptitude test, replacing any
// earlier one. Only tests flagged as question sets qualify, whoever asks.
func (s *AssignmentService) AssignAptitudeTest(ctx context.Context, principal, interviewID, testID string) error {
	if principal == "" {
		return domain.ErrAuthenticationRequired
	}
	interview, err := s.interviews.Get(ctx, interviewID)
	if err != nil {
		return fmt.Errorf("assign aptitude test: %w", err)
	}
	test, err := s.tests.Get(ctx, testID)
	if err != nil {
		return fmt.Errorf("assign aptitude test: %w", err)
	}
	if !CanAttach(test) {
		return fmt.Errorf("assign aptitude test %s: %w", testID, domain.ErrNotQuestionSet)
	}
	if !CanAssign(principal, interview) {
		return domain.Forbiddenf("only interviewers of %s can assign tests", interviewID)
	}
	updated, err := s.interviews.Patch(ctx, interviewID, domain.InterviewPatch{AptitudeTestID: &testID})
	if err != nil {
		return fmt.Errorf("assign aptitude test: %w", err)
	}
	s.log.Info("aptitude test assigned",
		zap.String("interview_id", interviewID),
		zap.String("test_id", testID),
		zap.String("interviewer", principal))
	s.publish(updated)
	return nil
}

// InterviewQuestions resolves the interview's question ids in stored order.
// Ids whose question no longer exists are skipped.
func (s *AssignmentService) InterviewQuestions(ctx context.Context, principal, interviewID string) ([]domain.CodingQuestion, error) {
	interview, err := s.viewable(ctx, principal, interviewID)
	if err != nil {
		return nil, err
	}

	resolved := make([]*domain.CodingQuestion, len(interview.QuestionIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveConcurrency)
	for i, id := range interview.QuestionIDs {
		i, id := i, id
		g.Go(func() error {
			q, err := s.questions.GetQuestion(gctx, id)
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("resolve question %s: %w", id, err)
			}
			resolved[i] = &q
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	questions := make([]domain.CodingQuestion, 0, len(resolved))
	for _, q := range resolved {
		if q != nil {
			questions = append(questions, *q)
		}
	}
	return questions, nil
}

// InterviewAptitudeTest returns the assigned test, or nil when none is
// assigned or it has since been deleted.
func (s *AssignmentService) InterviewAptitudeTest(ctx context.Context, principal, interviewID string) (*domain.TestDefinition, error) {
	interview, err := s.viewable(ctx, principal, interviewID)
	if err != nil {
		return nil, err
	}
	if interview.AptitudeTestID == "" {
		return nil, nil
	}
	test, err := s.tests.Get(ctx, interview.AptitudeTestID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("interview aptitude test: %w", err)
	}
	return &test, nil
}

// Subscribe opens a live feed of assignment snapshots for a participant of
// the interview. The first value is the current snapshot.
func (s *AssignmentService) Subscribe(ctx context.Context, principal, interviewID string) (<-chan domain.AssignmentSnapshot, func(), error) {
	interview, err := s.viewable(ctx, principal, interviewID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := s.feed.Subscribe(s.snapshot(interview))
	return ch, cancel, nil
}

func (s *AssignmentService) viewable(ctx context.Context, principal, interviewID string) (domain.Interview, error) {
	if principal == "" {
		return domain.Interview{}, domain.ErrAuthenticationRequired
	}
	interview, err := s.interviews.Get(ctx, interviewID)
	if err != nil {
		return domain.Interview{}, fmt.Errorf("get interview: %w", err)
	}
	if !CanViewInterview(principal, interview) {
		return domain.Interview{}, domain.Forbiddenf("not a participant of interview %s", interviewID)
	}
	return interview, nil
}

func (s *AssignmentService) snapshot(interview domain.Interview) domain.AssignmentSnapshot {
	ids := make([]string, len(interview.QuestionIDs))
	copy(ids, interview.QuestionIDs)
	return domain.AssignmentSnapshot{
		InterviewID:    interview.ID,
		QuestionIDs:    ids,
		AptitudeTestID: interview.AptitudeTestID,
		UpdatedAt:      s.now().UnixMilli(),
	}
}

func (s *AssignmentService) publish(interview domain.Interview) {
	if s.feed == nil {
		return
	}
	s.feed.Publish(s.snapshot(interview))
}
