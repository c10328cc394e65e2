package app

import "interview-assessment-service/internal/domain"

// CanList reports whether the test shows up in principal's candidate listing:
// it must be active and either open to everyone or assigned to principal.
func CanList(principal string, test domain.TestDefinition) bool {
	if principal == "" || !test.IsActive {
		return false
	}
	if len(test.AssignedCandidates) == 0 {
		return true
	}
	for _, c := range test.AssignedCandidates {
		if c == principal {
			return true
		}
	}
	return false
}

// CanEdit reports whether principal may update or delete the test.
func CanEdit(principal string, test domain.TestDefinition) bool {
	return principal != "" && principal == test.CreatedBy
}

// CanViewResults reports whether principal may review every attempt of the test.
func CanViewResults(principal string, test domain.TestDefinition) bool {
	return CanEdit(principal, test)
}

// CanAttach reports whether the test may be attached to a live interview.
func CanAttach(test domain.TestDefinition) bool {
	return test.IsQuestionSet
}

// CanAssign reports whether principal may attach content to the interview.
func CanAssign(principal string, interview domain.Interview) bool {
	return principal != "" && interview.HasInterviewer(principal)
}

// CanViewInterview reports whether principal takes part in the interview.
func CanViewInterview(principal string, interview domain.Interview) bool {
	if principal == "" {
		return false
	}
	return principal == interview.CandidateID || interview.HasInterviewer(principal)
}
