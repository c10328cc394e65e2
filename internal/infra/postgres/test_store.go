package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"interview-assessment-service/internal/app"
	"interview-assessment-service/internal/domain"
)

type testRow struct {
	bun.BaseModel `bun:"table:aptitude_tests,alias:t"`

	ID                 string                `bun:"id,pk"`
	Title              string                `bun:"title"`
	Description        string                `bun:"description"`
	DurationMinutes    int                   `bun:"duration_minutes"`
	Questions          []domain.TestQuestion `bun:"questions,type:jsonb"`
	TotalPoints        float64               `bun:"total_points"`
	IsActive           bool                  `bun:"is_active"`
	IsQuestionSet      bool                  `bun:"is_question_set"`
	AssignedCandidates []string              `bun:"assigned_candidates,type:jsonb"`
	CreatedBy          string                `bun:"created_by"`
	CreatedAt          int64                 `bun:"created_at"`
}

func newTestRow(t domain.TestDefinition) *testRow {
	candidates := t.AssignedCandidates
	if candidates == nil {
		candidates = []string{}
	}
	return &testRow{
		ID:                 t.ID,
		Title:              t.Title,
		Description:        t.Description,
		DurationMinutes:    t.DurationMinutes,
		Questions:          t.Questions,
		TotalPoints:        t.TotalPoints,
		IsActive:           t.IsActive,
		IsQuestionSet:      t.IsQuestionSet,
		AssignedCandidates: candidates,
		CreatedBy:          t.CreatedBy,
		CreatedAt:          t.CreatedAt,
	}
}

func (r *testRow) domain() domain.TestDefinition {
	return domain.TestDefinition{
		ID:                 r.ID,
		Title:              r.Title,
		Description:        r.Description,
		DurationMinutes:    r.DurationMinutes,
		Questions:          r.Questions,
		TotalPoints:        r.TotalPoints,
		IsActive:           r.IsActive,
		IsQuestionSet:      r.IsQuestionSet,
		AssignedCandidates: r.AssignedCandidates,
		CreatedBy:          r.CreatedBy,
		CreatedAt:          r.CreatedAt,
	}
}

// TestStore keeps aptitude test definitions in the aptitude_tests table.
type TestStore struct {
	db *bun.DB
}

func NewTestStore(db *bun.DB) *TestStore {
	return &TestStore{db: db}
}

func (s *TestStore) Insert(ctx context.Context, test domain.TestDefinition) error {
	if _, err := s.db.NewInsert().Model(newTestRow(test)).Exec(ctx); err != nil {
		return fmt.Errorf("insert test %s: %w", test.ID, err)
	}
	return nil
}

func (s *TestStore) Get(ctx context.Context, id string) (domain.TestDefinition, error) {
	row := new(testRow)
	if err := s.db.NewSelect().Model(row).Where("t.id = ?", id).Scan(ctx); err != nil {
		return domain.TestDefinition{}, notFound(err, domain.ErrTestNotFound)
	}
	return row.domain(), nil
}

// Update locks the row for the duration of fn.
func (s *TestStore) Update(ctx context.Context, id string, fn func(*domain.TestDefinition) error) (domain.TestDefinition, error) {
	var updated domain.TestDefinition
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		row := new(testRow)
		if err := tx.NewSelect().Model(row).Where("t.id = ?", id).For("UPDATE").Scan(ctx); err != nil {
			return notFound(err, domain.ErrTestNotFound)
		}
		test := row.domain()
		if err := fn(&test); err != nil {
			return err
		}
		if _, err := tx.NewUpdate().Model(newTestRow(test)).WherePK().Exec(ctx); err != nil {
			return fmt.Errorf("update test %s: %w", id, err)
		}
		updated = test
		return nil
	})
	return updated, err
}

// Delete removes the test and detaches it from interviews in one transaction.
// Attempts at the test are kept.
func (s *TestStore) Delete(ctx context.Context, id string) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().Model((*testRow)(nil)).Where("id = ?", id).Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete test %s: %w", id, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return domain.ErrTestNotFound
		}
		_, err = tx.NewUpdate().Model((*interviewRow)(nil)).
			Set("aptitude_test_id = ''").
			Where("aptitude_test_id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("detach test %s: %w", id, err)
		}
		return nil
	})
}

func (s *TestStore) List(ctx context.Context, filter app.TestFilter) ([]domain.TestDefinition, error) {
	var rows []testRow
	q := s.db.NewSelect().Model(&rows).OrderExpr("t.seq ASC")
	if filter.CreatedBy != "" {
		q = q.Where("t.created_by = ?", filter.CreatedBy)
	}
	if filter.ActiveOnly {
		q = q.Where("t.is_active")
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}
	out := make([]domain.TestDefinition, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].domain())
	}
	return out, nil
}
