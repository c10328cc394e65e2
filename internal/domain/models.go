package domain

// Timestamps on every model are milliseconds since the Unix epoch.

// TestQuestion is a single multiple-choice question of an aptitude test.
type TestQuestion struct {
	QuestionText       string   `json:"questionText" validate:"required"`
	Options            []string `json:"options" validate:"min=2,dive,required"`
	CorrectOptionIndex int      `json:"correctOptionIndex" validate:"gte=0"`
	Points             float64  `json:"points" validate:"gt=0"`
}

// TestDefinition is an aptitude test in the catalog.
type TestDefinition struct {
	ID                 string         `json:"id"`
	Title              string         `json:"title"`
	Description        string         `json:"description,omitempty"`
	DurationMinutes    int            `json:"durationMinutes"`
	Questions          []TestQuestion `json:"questions"`
	TotalPoints        float64        `json:"totalPoints"`
	CreatedBy          string         `json:"createdBy"`
	CreatedAt          int64          `json:"createdAt"`
	IsActive           bool           `json:"isActive"`
	IsQuestionSet      bool           `json:"isQuestionSet"`
	AssignedCandidates []string       `json:"assignedCandidates"`
}

// TestDraft carries the interviewer-supplied fields of a new test. Any total
// sent by a client is not part of the draft; it is always derived.
type TestDraft struct {
	Title              string         `json:"title"`
	Description        string         `json:"description,omitempty"`
	DurationMinutes    int            `json:"durationMinutes" validate:"gt=0"`
	Questions          []TestQuestion `json:"questions" validate:"dive"`
	IsQuestionSet      bool           `json:"isQuestionSet"`
	AssignedCandidates []string       `json:"assignedCandidates"`
}

// TestPatch is a partial update of a TestDefinition. Nil fields are left untouched.
type TestPatch struct {
	Title              *string         `json:"title,omitempty"`
	Description        *string         `json:"description,omitempty"`
	DurationMinutes    *int            `json:"durationMinutes,omitempty" validate:"omitempty,gt=0"`
	Questions          *[]TestQuestion `json:"questions,omitempty" validate:"omitempty,dive"`
	IsActive           *bool           `json:"isActive,omitempty"`
	IsQuestionSet      *bool           `json:"isQuestionSet,omitempty"`
	AssignedCandidates *[]string       `json:"assignedCandidates,omitempty"`
}

// Unanswered marks a question the candidate skipped.
const Unanswered = -1

// SubmittedAnswer is the candidate's choice for one question.
type SubmittedAnswer struct {
	QuestionIndex       int `json:"questionIndex"`
	SelectedOptionIndex int `json:"selectedOptionIndex"`
}

// GradedAnswer is a SubmittedAnswer with its derived correctness.
type GradedAnswer struct {
	QuestionIndex       int  `json:"questionIndex"`
	SelectedOptionIndex int  `json:"selectedOptionIndex"`
	IsCorrect           bool `json:"isCorrect"`
}

// Attempt is an immutable ledger entry for one submission.
type Attempt struct {
	ID               string         `json:"id"`
	TestID           string         `json:"testId"`
	CandidateID      string         `json:"candidateId"`
	Answers          []GradedAnswer `json:"answers"`
	Score            float64        `json:"score"`
	TotalPoints      float64        `json:"totalPoints"`
	Percentage       float64        `json:"percentage"`
	StartedAt        int64          `json:"startedAt"`
	CompletedAt      int64          `json:"completedAt"`
	TimeSpentSeconds int64          `json:"timeSpentSeconds"`
}

// Interview statuses used by the scheduling flow.
const (
	InterviewUpcoming  = "upcoming"
	InterviewLive      = "live"
	InterviewCompleted = "completed"
)

// Interview is a scheduled video interview session.
type Interview struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	StartTime      int64    `json:"startTime"`
	EndTime        int64    `json:"endTime,omitempty"`
	Status         string   `json:"status"`
	StreamCallID   string   `json:"streamCallId"`
	CandidateID    string   `json:"candidateId"`
	InterviewerIDs []string `json:"interviewerIds"`
	QuestionIDs    []string `json:"questionIds,omitempty"`
	AptitudeTestID string   `json:"aptitudeTestId,omitempty"`
}

// HasInterviewer reports whether principal is one of the interviewers.
func (i Interview) HasInterviewer(principal string) bool {
	for _, id := range i.InterviewerIDs {
		if id == principal {
			return true
		}
	}
	return false
}

// InterviewDraft carries the fields of a new interview.
type InterviewDraft struct {
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	StartTime      int64    `json:"startTime"`
	Status         string   `json:"status"`
	StreamCallID   string   `json:"streamCallId"`
	CandidateID    string   `json:"candidateId"`
	InterviewerIDs []string `json:"interviewerIds"`
}

// InterviewPatch is a partial update of an Interview. Nil fields are left untouched.
// An empty AptitudeTestID clears the assignment.
type InterviewPatch struct {
	Status         *string
	EndTime        *int64
	QuestionIDs    *[]string
	AptitudeTestID *string
}

// Coding question difficulties.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Example is a worked input/output pair shown with a coding question.
type Example struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation,omitempty"`
}

// StarterCode holds per-language scaffolding for a coding question.
type StarterCode struct {
	JavaScript string `json:"javascript"`
	Python     string `json:"python"`
	Java       string `json:"java"`
	Cpp        string `json:"cpp,omitempty"`
}

// TestCase is an input and its expected output for a coding question.
type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
	IsHidden       bool   `json:"isHidden,omitempty"`
}

// CodingQuestion is a problem an interviewer can attach to an interview.
type CodingQuestion struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Difficulty  string      `json:"difficulty"`
	LeetcodeURL string      `json:"leetcodeUrl,omitempty"`
	Source      string      `json:"source,omitempty"`
	Examples    []Example   `json:"examples"`
	StarterCode StarterCode `json:"starterCode"`
	Constraints []string    `json:"constraints"`
	TestCases   []TestCase  `json:"testCases"`
	CreatedBy   string      `json:"createdBy"`
	CreatedAt   int64       `json:"createdAt"`
}

// QuestionDraft carries the fields of a new coding question.
type QuestionDraft struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Difficulty  string      `json:"difficulty" validate:"oneof=easy medium hard"`
	LeetcodeURL string      `json:"leetcodeUrl,omitempty" validate:"omitempty,url"`
	Source      string      `json:"source,omitempty" validate:"omitempty,oneof=leetcode custom"`
	Examples    []Example   `json:"examples"`
	StarterCode StarterCode `json:"starterCode"`
	Constraints []string    `json:"constraints"`
	TestCases   []TestCase  `json:"testCases"`
}

// AssignmentSnapshot is what live subscribers of an interview receive.
type AssignmentSnapshot struct {
	InterviewID    string   `json:"interviewId"`
	QuestionIDs    []string `json:"questionIds"`
	AptitudeTestID string   `json:"aptitudeTestId,omitempty"`
	UpdatedAt      int64    `json:"updatedAt"`
}
