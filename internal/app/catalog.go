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

// CatalogService owns aptitude test definitions. Mutations are restricted to
// the creating interviewer.
type CatalogService struct {
	tests  TestRepository
	log    *zap.Logger
	now    func() time.Time
	nextID func() string
}

func NewCatalogService(tests TestRepository, log *zap.Logger) *CatalogService {
	return &CatalogService{
		tests:  tests,
		log:    log.Named("catalog"),
		now:    time.Now,
		nextID: uuid.NewString,
	}
}

// Create validates the draft and stores a new active test owned by principal.
func (s *CatalogService) Create(ctx context.Context, principal string, draft domain.TestDraft) (string, error) {
	if principal == "" {
		return "", domain.ErrAuthenticationRequired
	}
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return "", domain.Validationf("title is required")
	}
	if err := validateQuestions(draft.Questions); err != nil {
		return "", err
	}
	if err := validateStruct(draft); err != nil {
		return "", err
	}

	test := domain.TestDefinition{
		ID:                 s.nextID(),
		Title:              title,
		Description:        strings.TrimSpace(draft.Description),
		DurationMinutes:    draft.DurationMinutes,
		Questions:          draft.Questions,
		TotalPoints:        TotalPoints(draft.Questions),
		CreatedBy:          principal,
		CreatedAt:          s.now().UnixMilli(),
		IsActive:           true,
		IsQuestionSet:      draft.IsQuestionSet,
		AssignedCandidates: nonNil(draft.AssignedCandidates),
	}
	if err := s.tests.Insert(ctx, test); err != nil {
		s.log.Error("insert aptitude test", zap.String("creator", principal), zap.Error(err))
		return "", fmt.Errorf("create aptitude test: %w", err)
	}
	s.log.Info("aptitude test created",
		zap.String("test_id", test.ID),
		zap.String("creator", principal),
		zap.Int("questions", len(test.Questions)),
		zap.Float64("total_points", test.TotalPoints))
	return test.ID, nil
}

// Update applies the supplied fields of patch. Replacing the questions
// recomputes the total; points are never patched on their own.
func (s *CatalogService) Update(ctx context.Context, principal, id string, patch domain.TestPatch) error {
	if principal == "" {
		return domain.ErrAuthenticationRequired
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return domain.Validationf("title is required")
	}
	if patch.Questions != nil {
		if err := validateQuestions(*patch.Questions); err != nil {
			return err
		}
	}
	if err := validateStruct(patch); err != nil {
		return err
	}

	_, err := s.tests.Update(ctx, id, func(test *domain.TestDefinition) error {
		if !CanEdit(principal, *test) {
			return domain.Forbiddenf("only the creator can update test %s", id)
		}
		applyTestPatch(test, patch)
		return nil
	})
	if err != nil {
		return fmt.Errorf("update aptitude test %s: %w", id, err)
	}
	return nil
}

// Delete hard-deletes the test. Attempts that reference it are kept.
func (s *CatalogService) Delete(ctx context.Context, principal, id string) error {
	if principal == "" {
		return domain.ErrAuthenticationRequired
	}
	test, err := s.tests.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("delete aptitude test %s: %w", id, err)
	}
	if !CanEdit(principal, test) {
		return domain.Forbiddenf("only the creator can delete test %s", id)
	}
	if err := s.tests.Delete(ctx, id); err != nil {
		s.log.Error("delete aptitude test", zap.String("test_id", id), zap.Error(err))
		return fmt.Errorf("delete aptitude test %s: %w", id, err)
	}
	s.log.Info("aptitude test deleted", zap.String("test_id", id))
	return nil
}

// Get returns the test or nil when it does not exist. No principal is
// needed so shared test links resolve for anyone.
func (s *CatalogService) Get(ctx context.Context, id string) (*domain.TestDefinition, error) {
	test, err := s.tests.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get aptitude test %s: %w", id, err)
	}
	return &test, nil
}

func (s *CatalogService) ListAll(ctx context.Context, principal string) ([]domain.TestDefinition, error) {
	if principal == "" {
		return nil, domain.ErrAuthenticationRequired
	}
	return s.list(ctx, TestFilter{})
}

func (s *CatalogService) ListByCreator(ctx context.Context, principal string) ([]domain.TestDefinition, error) {
	if principal == "" {
		return nil, domain.ErrAuthenticationRequired
	}
	return s.list(ctx, TestFilter{CreatedBy: principal})
}

// ListActiveVisibleTo returns the active tests principal may take. An
// anonymous caller simply has none.
func (s *CatalogService) ListActiveVisibleTo(ctx context.Context, principal string) ([]domain.TestDefinition, error) {
	if principal == "" {
		return []domain.TestDefinition{}, nil
	}
	tests, err := s.list(ctx, TestFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	visible := make([]domain.TestDefinition, 0, len(tests))
	for _, t := range tests {
		if CanList(principal, t) {
			visible = append(visible, t)
		}
	}
	return visible, nil
}

func (s *CatalogService) list(ctx context.Context, filter TestFilter) ([]domain.TestDefinition, error) {
	tests, err := s.tests.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list aptitude tests: %w", err)
	}
	return tests, nil
}

func applyTestPatch(test *domain.TestDefinition, patch domain.TestPatch) {
	if patch.Title != nil {
		test.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		test.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.DurationMinutes != nil {
		test.DurationMinutes = *patch.DurationMinutes
	}
	if patch.IsActive != nil {
		test.IsActive = *patch.IsActive
	}
	if patch.IsQuestionSet != nil {
		test.IsQuestionSet = *patch.IsQuestionSet
	}
	if patch.AssignedCandidates != nil {
		test.AssignedCandidates = nonNil(*patch.AssignedCandidates)
	}
	if patch.Questions != nil {
		test.Questions = *patch.Questions
		test.TotalPoints = TotalPoints(test.Questions)
	}
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
