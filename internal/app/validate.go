package app

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"interview-assessment-service/internal/domain"
)

var validate = validator.New()

// validateStruct runs the struct tags and reports failures as domain.ErrValidation.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.Validationf("%v", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fe.Namespace()+" failed "+fe.Tag())
	}
	return domain.Validationf("%s", strings.Join(msgs, "; "))
}

func validateQuestions(questions []domain.TestQuestion) error {
	if len(questions) == 0 {
		return domain.Validationf("at least one question is required")
	}
	for i, q := range questions {
		if strings.TrimSpace(q.QuestionText) == "" {
			return domain.Validationf("question %d has no text", i)
		}
		if q.CorrectOptionIndex < 0 || q.CorrectOptionIndex >= len(q.Options) {
			return domain.Validationf("question %d: correct option %d out of range", i, q.CorrectOptionIndex)
		}
	}
	return nil
}
