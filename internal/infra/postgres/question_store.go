package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"interview-assessment-service/internal/domain"
)

// QuestionStore keeps coding questions as JSONB documents in coding_questions.
type QuestionStore struct {
	pool *pgxpool.Pool
}

func NewQuestionStore(pool *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{pool: pool}
}

func (s *QuestionStore) Insert(ctx context.Context, q domain.CodingQuestion) error {
	data, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("marshal question: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO coding_questions (id, created_by, created_at, data) VALUES ($1, $2, $3, $4)`,
		q.ID, q.CreatedBy, q.CreatedAt, data)
	if err != nil {
		return fmt.Errorf("insert question %s: %w", q.ID, err)
	}
	return nil
}

func (s *QuestionStore) Get(ctx context.Context, id string) (domain.CodingQuestion, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM coding_questions WHERE id=$1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.CodingQuestion{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.CodingQuestion{}, fmt.Errorf("load question: %w", err)
	}
	var q domain.CodingQuestion
	if err := json.Unmarshal(raw, &q); err != nil {
		return domain.CodingQuestion{}, fmt.Errorf("unmarshal question: %w", err)
	}
	return q, nil
}

// List returns questions in creation order, optionally only those by createdBy.
func (s *QuestionStore) List(ctx context.Context, createdBy string) ([]domain.CodingQuestion, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM coding_questions WHERE $1 = '' OR created_by = $1 ORDER BY seq`, createdBy)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	out := []domain.CodingQuestion{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		var q domain.CodingQuestion
		if err := json.Unmarshal(raw, &q); err != nil {
			return nil, fmt.Errorf("unmarshal question: %w", err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return out, nil
}

func (s *QuestionStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM coding_questions WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete question %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}
