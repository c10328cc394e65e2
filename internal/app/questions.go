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

// QuestionService manages the coding question catalog.
type QuestionService struct {
	questions QuestionRepository
	reader    QuestionReader
	log       *zap.Logger
	now       func() time.Time
	nextID    func() string
}

func NewQuestionService(questions QuestionRepository, reader QuestionReader, log *zap.Logger) *QuestionService {
	return &QuestionService{
		questions: questions,
		reader:    reader,
		log:       log.Named("questions"),
		now:       time.Now,
		nextID:    uuid.NewString,
	}
}

func (s *QuestionService) Create(ctx context.Context, principal string, draft domain.QuestionDraft) (string, error) {
	if principal == "" {
		return "", domain.ErrAuthenticationRequired
	}
	title := strings.TrimSpace(draft.Title)
	description := strings.TrimSpace(draft.Description)
	switch {
	case title == "":
		return "", domain.Validationf("title is required")
	case description == "":
		return "", domain.Validationf("description is required")
	case len(draft.TestCases) == 0:
		return "", domain.Validationf("at least one test case is required")
	}
	if err := validateStruct(draft); err != nil {
		return "", err
	}

	question := domain.CodingQuestion{
		ID:          s.nextID(),
		Title:       title,
		Description: description,
		Difficulty:  draft.Difficulty,
		LeetcodeURL: strings.TrimSpace(draft.LeetcodeURL),
		Source:      draft.Source,
		Examples:    draft.Examples,
		StarterCode: draft.StarterCode,
		Constraints: nonNil(draft.Constraints),
		TestCases:   draft.TestCases,
		CreatedBy:   principal,
		CreatedAt:   s.now().UnixMilli(),
	}
	if err := s.questions.Insert(ctx, question); err != nil {
		s.log.Error("insert question", zap.String("creator", principal), zap.Error(err))
		return "", fmt.Errorf("create question: %w", err)
	}
	s.log.Info("question created", zap.String("question_id", question.ID), zap.String("difficulty", question.Difficulty))
	return question.ID, nil
}

func (s *QuestionService) ListAll(ctx context.Context, principal string) ([]domain.CodingQuestion, error) {
	if principal == "" {
		return nil, domain.ErrAuthenticationRequired
	}
	return s.list(ctx, "")
}

// ListByCreator returns principal's questions; anonymous callers get none.
func (s *QuestionService) ListByCreator(ctx context.Context, principal string) ([]domain.CodingQuestion, error) {
	if principal == "" {
		return []domain.CodingQuestion{}, nil
	}
	return s.list(ctx, principal)
}

// Get returns the question or nil when it does not exist.
func (s *QuestionService) Get(ctx context.Context, id string) (*domain.CodingQuestion, error) {
	q, err := s.reader.GetQuestion(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get question %s: %w", id, err)
	}
	return &q, nil
}

// Delete removes a question owned by principal. Interviews keep the dangling id.
func (s *QuestionService) Delete(ctx context.Context, principal, id string) error {
	if principal == "" {
		return domain.ErrAuthenticationRequired
	}
	q, err := s.questions.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("delete question %s: %w", id, err)
	}
	if q.CreatedBy != principal {
		return domain.Forbiddenf("only the creator can delete question %s", id)
	}
	if err := s.questions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete question %s: %w", id, err)
	}
	s.reader.Invalidate(ctx, id)
	return nil
}

func (s *QuestionService) list(ctx context.Context, createdBy string) ([]domain.CodingQuestion, error) {
	questions, err := s.questions.List(ctx, createdBy)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}
