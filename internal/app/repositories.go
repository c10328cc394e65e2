package app

import (
	"context"

	"interview-assessment-service/internal/domain"
)

// TestFilter narrows a catalog listing. Zero values match everything.
type TestFilter struct {
	CreatedBy  string
	ActiveOnly bool
}

// TestRepository persists aptitude test definitions.
type TestRepository interface {
	Insert(ctx context.Context, test domain.TestDefinition) error
	// Get returns domain.ErrTestNotFound when the id is unknown.
	Get(ctx context.Context, id string) (domain.TestDefinition, error)
	// Update applies fn to the stored test as one atomic read-modify-write.
	// An error from fn aborts the write and is returned as is.
	Update(ctx context.Context, id string, fn func(*domain.TestDefinition) error) (domain.TestDefinition, error)
	// Delete removes the test and clears interview assignments that point at it.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter TestFilter) ([]domain.TestDefinition, error)
}

// AttemptRepository is the append-only attempt ledger. It has no
// update or delete methods.
type AttemptRepository interface {
	Insert(ctx context.Context, attempt domain.Attempt) error
	// InsertFirst inserts only when the candidate has no attempt for the test
	// yet, otherwise it returns domain.ErrAlreadyAttempted.
	InsertFirst(ctx context.Context, attempt domain.Attempt) error
	Get(ctx context.Context, id string) (domain.Attempt, error)
	ListByCandidate(ctx context.Context, candidateID string) ([]domain.Attempt, error)
	ListByTest(ctx context.Context, testID string) ([]domain.Attempt, error)
	// FirstByTestAndCandidate returns the earliest recorded attempt or
	// domain.ErrAttemptNotFound.
	FirstByTestAndCandidate(ctx context.Context, testID, candidateID string) (domain.Attempt, error)
}

// InterviewFilter narrows an interview listing.
type InterviewFilter struct {
	CandidateID string
}

// InterviewRepository persists interview sessions.
type InterviewRepository interface {
	Insert(ctx context.Context, interview domain.Interview) error
	Get(ctx context.Context, id string) (domain.Interview, error)
	GetByStreamCallID(ctx context.Context, callID string) (domain.Interview, error)
	List(ctx context.Context, filter InterviewFilter) ([]domain.Interview, error)
	Patch(ctx context.Context, id string, patch domain.InterviewPatch) (domain.Interview, error)
	// AppendQuestion adds questionID to the interview's list unless present.
	AppendQuestion(ctx context.Context, id, questionID string) (domain.Interview, error)
}

// QuestionRepository persists coding questions.
type QuestionRepository interface {
	Insert(ctx context.Context, question domain.CodingQuestion) error
	Get(ctx context.Context, id string) (domain.CodingQuestion, error)
	List(ctx context.Context, createdBy string) ([]domain.CodingQuestion, error)
	Delete(ctx context.Context, id string) error
}

// QuestionReader is the cached read path for coding questions.
type QuestionReader interface {
	GetQuestion(ctx context.Context, id string) (domain.CodingQuestion, error)
	Invalidate(ctx context.Context, id string)
}
