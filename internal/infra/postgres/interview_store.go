package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"interview-assessment-service/internal/app"
	"interview-assessment-service/internal/domain"
)

type interviewRow struct {
	bun.BaseModel `bun:"table:interviews,alias:i"`

	ID             string   `bun:"id,pk"`
	Title          string   `bun:"title"`
	Description    string   `bun:"description"`
	StartTime      int64    `bun:"start_time"`
	EndTime        int64    `bun:"end_time"`
	Status         string   `bun:"status"`
	StreamCallID   string   `bun:"stream_call_id"`
	CandidateID    string   `bun:"candidate_id"`
	InterviewerIDs []string `bun:"interviewer_ids,type:jsonb"`
	QuestionIDs    []string `bun:"question_ids,type:jsonb"`
	AptitudeTestID string   `bun:"aptitude_test_id"`
}

func newInterviewRow(i domain.Interview) *interviewRow {
	questionIDs := i.QuestionIDs
	if questionIDs == nil {
		questionIDs = []string{}
	}
	return &interviewRow{
		ID:             i.ID,
		Title:          i.Title,
		Description:    i.Description,
		StartTime:      i.StartTime,
		EndTime:        i.EndTime,
		Status:         i.Status,
		StreamCallID:   i.StreamCallID,
		CandidateID:    i.CandidateID,
		InterviewerIDs: i.InterviewerIDs,
		QuestionIDs:    questionIDs,
		AptitudeTestID: i.AptitudeTestID,
	}
}

func (r *interviewRow) domain() domain.Interview {
	return domain.Interview{
		ID:             r.ID,
		Title:          r.Title,
		Description:    r.Description,
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		Status:         r.Status,
		StreamCallID:   r.StreamCallID,
		CandidateID:    r.CandidateID,
		InterviewerIDs: r.InterviewerIDs,
		QuestionIDs:    r.QuestionIDs,
		AptitudeTestID: r.AptitudeTestID,
	}
}

// InterviewStore keeps interviews in the interviews table.
type InterviewStore struct {
	db *bun.DB
}

func NewInterviewStore(db *bun.DB) *InterviewStore {
	return &InterviewStore{db: db}
}

func (s *InterviewStore) Insert(ctx context.Context, interview domain.Interview) error {
	if _, err := s.db.NewInsert().Model(newInterviewRow(interview)).Exec(ctx); err != nil {
		return fmt.Errorf("insert interview %s: %w", interview.ID, err)
	}
	return nil
}

func (s *InterviewStore) Get(ctx context.Context, id string) (domain.Interview, error) {
	return s.getBy(ctx, "i.id = ?", id)
}

func (s *InterviewStore) GetByStreamCallID(ctx context.Context, callID string) (domain.Interview, error) {
	return s.getBy(ctx, "i.stream_call_id = ?", callID)
}

func (s *InterviewStore) List(ctx context.Context, filter app.InterviewFilter) ([]domain.Interview, error) {
	var rows []interviewRow
	q := s.db.NewSelect().Model(&rows).OrderExpr("i.seq ASC")
	if filter.CandidateID != "" {
		q = q.Where("i.candidate_id = ?", filter.CandidateID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}
	out := make([]domain.Interview, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].domain())
	}
	return out, nil
}

func (s *InterviewStore) Patch(ctx context.Context, id string, patch domain.InterviewPatch) (domain.Interview, error) {
	return s.modify(ctx, id, func(i *domain.Interview) {
		if patch.Status != nil {
			i.Status = *patch.Status
		}
		if patch.EndTime != nil {
			i.EndTime = *patch.EndTime
		}
		if patch.QuestionIDs != nil {
			i.QuestionIDs = *patch.QuestionIDs
		}
		if patch.AptitudeTestID != nil {
			i.AptitudeTestID = *patch.AptitudeTestID
		}
	})
}

func (s *InterviewStore) AppendQuestion(ctx context.Context, id, questionID string) (domain.Interview, error) {
	return s.modify(ctx, id, func(i *domain.Interview) {
		for _, existing := range i.QuestionIDs {
			if existing == questionID {
				return
			}
		}
		i.QuestionIDs = append(i.QuestionIDs, questionID)
	})
}

// modify runs fn on the locked row and writes the result back.
func (s *InterviewStore) modify(ctx context.Context, id string, fn func(*domain.Interview)) (domain.Interview, error) {
	var updated domain.Interview
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		row := new(interviewRow)
		if err := tx.NewSelect().Model(row).Where("i.id = ?", id).For("UPDATE").Scan(ctx); err != nil {
			return notFound(err, domain.ErrInterviewNotFound)
		}
		interview := row.domain()
		fn(&interview)
		if _, err := tx.NewUpdate().Model(newInterviewRow(interview)).WherePK().Exec(ctx); err != nil {
			return fmt.Errorf("update interview %s: %w", id, err)
		}
		updated = interview
		return nil
	})
	return updated, err
}

func (s *InterviewStore) getBy(ctx context.Context, where, arg string) (domain.Interview, error) {
	row := new(interviewRow)
	if err := s.db.NewSelect().Model(row).Where(where, arg).Scan(ctx); err != nil {
		return domain.Interview{}, notFound(err, domain.ErrInterviewNotFound)
	}
	return row.domain(), nil
}
