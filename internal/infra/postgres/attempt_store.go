package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"interview-assessment-service/internal/domain"
)

type attemptRow struct {
	bun.BaseModel `bun:"table:test_attempts,alias:a"`

	ID               string                `bun:"id"`
	TestID           string                `bun:"test_id"`
	CandidateID      string                `bun:"candidate_id"`
	Answers          []domain.GradedAnswer `bun:"answers,type:jsonb"`
	Score            float64               `bun:"score"`
	TotalPoints      float64               `bun:"total_points"`
	Percentage       float64               `bun:"percentage"`
	StartedAt        int64                 `bun:"started_at"`
	CompletedAt      int64                 `bun:"completed_at"`
	TimeSpentSeconds int64                 `bun:"time_spent_seconds"`
}

func newAttemptRow(a domain.Attempt) *attemptRow {
	answers := a.Answers
	if answers == nil {
		answers = []domain.GradedAnswer{}
	}
	return &attemptRow{
		ID:               a.ID,
		TestID:           a.TestID,
		CandidateID:      a.CandidateID,
		Answers:          answers,
		Score:            a.Score,
		TotalPoints:      a.TotalPoints,
		Percentage:       a.Percentage,
		StartedAt:        a.StartedAt,
		CompletedAt:      a.CompletedAt,
		TimeSpentSeconds: a.TimeSpentSeconds,
	}
}

func (r *attemptRow) domain() domain.Attempt {
	return domain.Attempt{
		ID:               r.ID,
		TestID:           r.TestID,
		CandidateID:      r.CandidateID,
		Answers:          r.Answers,
		Score:            r.Score,
		TotalPoints:      r.TotalPoints,
		Percentage:       r.Percentage,
		StartedAt:        r.StartedAt,
		CompletedAt:      r.CompletedAt,
		TimeSpentSeconds: r.TimeSpentSeconds,
	}
}

// AttemptStore appends attempts to test_attempts. The seq column keeps
// insertion order.
type AttemptStore struct {
	db *bun.DB
}

func NewAttemptStore(db *bun.DB) *AttemptStore {
	return &AttemptStore{db: db}
}

func (s *AttemptStore) Insert(ctx context.Context, attempt domain.Attempt) error {
	if _, err := s.db.NewInsert().Model(newAttemptRow(attempt)).Exec(ctx); err != nil {
		return fmt.Errorf("insert attempt %s: %w", attempt.ID, err)
	}
	return nil
}

// InsertFirst serialises concurrent first submissions of one candidate with a
// transaction-scoped advisory lock on the (test, candidate) pair.
func (s *AttemptStore) InsertFirst(ctx context.Context, attempt domain.Attempt) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		lockKey := attempt.TestID + "/" + attempt.CandidateID
		if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext(?))", lockKey); err != nil {
			return fmt.Errorf("lock attempt slot: %w", err)
		}
		exists, err := tx.NewSelect().Model((*attemptRow)(nil)).
			Where("a.test_id = ?", attempt.TestID).
			Where("a.candidate_id = ?", attempt.CandidateID).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("check attempts: %w", err)
		}
		if exists {
			return domain.ErrAlreadyAttempted
		}
		if _, err := tx.NewInsert().Model(newAttemptRow(attempt)).Exec(ctx); err != nil {
			return fmt.Errorf("insert attempt %s: %w", attempt.ID, err)
		}
		return nil
	})
}

func (s *AttemptStore) Get(ctx context.Context, id string) (domain.Attempt, error) {
	row := new(attemptRow)
	if err := s.db.NewSelect().Model(row).Where("a.id = ?", id).Scan(ctx); err != nil {
		return domain.Attempt{}, notFound(err, domain.ErrAttemptNotFound)
	}
	return row.domain(), nil
}

func (s *AttemptStore) ListByCandidate(ctx context.Context, candidateID string) ([]domain.Attempt, error) {
	return s.list(ctx, "a.candidate_id = ?", candidateID)
}

func (s *AttemptStore) ListByTest(ctx context.Context, testID string) ([]domain.Attempt, error) {
	return s.list(ctx, "a.test_id = ?", testID)
}

func (s *AttemptStore) FirstByTestAndCandidate(ctx context.Context, testID, candidateID string) (domain.Attempt, error) {
	row := new(attemptRow)
	err := s.db.NewSelect().Model(row).
		Where("a.test_id = ?", testID).
		Where("a.candidate_id = ?", candidateID).
		OrderExpr("a.seq ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return domain.Attempt{}, notFound(err, domain.ErrAttemptNotFound)
	}
	return row.domain(), nil
}

func (s *AttemptStore) list(ctx context.Context, where string, arg string) ([]domain.Attempt, error) {
	var rows []attemptRow
	if err := s.db.NewSelect().Model(&rows).Where(where, arg).OrderExpr("a.seq ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	out := make([]domain.Attempt, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].domain())
	}
	return out, nil
}
