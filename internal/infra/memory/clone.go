package memory

import "interview-assessment-service/internal/domain"

// Stores hand out copies so callers cannot mutate stored records.

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func cloneTest(t domain.TestDefinition) domain.TestDefinition {
	questions := make([]domain.TestQuestion, len(t.Questions))
	for i, q := range t.Questions {
		q.Options = cloneStrings(q.Options)
		questions[i] = q
	}
	t.Questions = questions
	t.AssignedCandidates = cloneStrings(t.AssignedCandidates)
	return t
}

func cloneAttempt(a domain.Attempt) domain.Attempt {
	answers := make([]domain.GradedAnswer, len(a.Answers))
	copy(answers, a.Answers)
	a.Answers = answers
	return a
}

func cloneInterview(i domain.Interview) domain.Interview {
	i.InterviewerIDs = cloneStrings(i.InterviewerIDs)
	i.QuestionIDs = cloneStrings(i.QuestionIDs)
	return i
}
