package http

import (
	"fmt"

	"github.com/jinzhu/copier"

	"interview-assessment-service/internal/domain"
)

// questionView is a test question without its answer key.
type questionView struct {
	QuestionText string   `json:"questionText"`
	Options      []string `json:"options"`
	Points       float64  `json:"points"`
}

// testView is what non-creators see of a test.
type testView struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description,omitempty"`
	DurationMinutes int            `json:"durationMinutes"`
	Questions       []questionView `json:"questions" copier:"-"`
	TotalPoints     float64        `json:"totalPoints"`
	CreatedBy       string         `json:"createdBy"`
	CreatedAt       int64          `json:"createdAt"`
	IsActive        bool           `json:"isActive"`
	IsQuestionSet   bool           `json:"isQuestionSet"`
}

// codingQuestionView hides hidden test cases from candidates.
type codingQuestionView struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Difficulty  string             `json:"difficulty"`
	LeetcodeURL string             `json:"leetcodeUrl,omitempty"`
	Source      string             `json:"source,omitempty"`
	Examples    []domain.Example   `json:"examples"`
	StarterCode domain.StarterCode `json:"starterCode"`
	Constraints []string           `json:"constraints"`
	TestCases   []domain.TestCase  `json:"testCases" copier:"-"`
}

// copyView fills a response view from a domain value.
var copyView = copier.Copy

// viewTest returns the full definition to its creator and a view without the
// answer key to everyone else.
func viewTest(principal string, test domain.TestDefinition) (any, error) {
	if principal != "" && principal == test.CreatedBy {
		return test, nil
	}
	var view testView
	if err := copyView(&view, &test); err != nil {
		return nil, fmt.Errorf("build view of test %s: %w", test.ID, err)
	}
	view.Questions = make([]questionView, 0, len(test.Questions))
	if err := copyView(&view.Questions, &test.Questions); err != nil {
		return nil, fmt.Errorf("build question views of test %s: %w", test.ID, err)
	}
	return view, nil
}

func viewTests(principal string, tests []domain.TestDefinition) ([]any, error) {
	out := make([]any, 0, len(tests))
	for _, t := range tests {
		view, err := viewTest(principal, t)
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

// viewCodingQuestions drops hidden test cases unless principal is an
// interviewer of the interview the questions were resolved for.
func viewCodingQuestions(interviewer bool, questions []domain.CodingQuestion) ([]any, error) {
	out := make([]any, 0, len(questions))
	for _, q := range questions {
		if interviewer {
			out = append(out, q)
			continue
		}
		var view codingQuestionView
		if err := copyView(&view, &q); err != nil {
			return nil, fmt.Errorf("build view of question %s: %w", q.ID, err)
		}
		view.TestCases = []domain.TestCase{}
		for _, tc := range q.TestCases {
			if !tc.IsHidden {
				view.TestCases = append(view.TestCases, tc)
			}
		}
		out = append(out, view)
	}
	return out, nil
}
