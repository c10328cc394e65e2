package app

import "interview-assessment-service/internal/domain"

// GradeResult is the outcome of grading one submission.
type GradeResult struct {
	Answers     []domain.GradedAnswer
	Score       float64
	TotalPoints float64
	Percentage  float64
}

// Grade scores answers against questions. Every question of the test is
// graded, so a question without a submitted answer counts as wrong. When an
// index is submitted more than once the first answer is used; indices outside
// the test are ignored.
func Grade(questions []domain.TestQuestion, answers []domain.SubmittedAnswer) GradeResult {
	selected := make(map[int]int, len(answers))
	for _, a := range answers {
		if a.QuestionIndex < 0 || a.QuestionIndex >= len(questions) {
			continue
		}
		if _, seen := selected[a.QuestionIndex]; !seen {
			selected[a.QuestionIndex] = a.SelectedOptionIndex
		}
	}

	result := GradeResult{Answers: make([]domain.GradedAnswer, 0, len(questions))}
	for i, q := range questions {
		choice, ok := selected[i]
		if !ok {
			choice = domain.Unanswered
		}
		correct := choice == q.CorrectOptionIndex
		if correct {
			result.Score += q.Points
		}
		result.TotalPoints += q.Points
		result.Answers = append(result.Answers, domain.GradedAnswer{
			QuestionIndex:       i,
			SelectedOptionIndex: choice,
			IsCorrect:           correct,
		})
	}
	result.Percentage = percentage(result.Score, result.TotalPoints)
	return result
}

// TotalPoints sums the points of every question.
func TotalPoints(questions []domain.TestQuestion) float64 {
	var total float64
	for _, q := range questions {
		total += q.Points
	}
	return total
}

func percentage(score, total float64) float64 {
	// A test without points scores 0, not NaN.
	if total <= 0 {
		return 0
	}
	return 100 * score / total
}
