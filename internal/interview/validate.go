package interview

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var ErrInvalidForm = errors.New("invalid interview form")

// Field names used as keys in ValidationError.Fields.
const (
	FieldCompanyName       = "companyName"
	FieldYearsOfExperience = "yearsOfExperience"
	FieldRole              = "role"
	FieldQuestion          = "question"
	FieldCanAnswer         = "canAnswer"
)

// ValidationError lists every problem with a form. Questions is keyed by
// question ID, then by field.
type ValidationError struct {
	Fields    map[string]string
	Questions map[string]map[string]string
}

func (e *ValidationError) Error() string {
	var parts []string
	for _, field := range slices.Sorted(maps.Keys(e.Fields)) {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	for _, id := range slices.Sorted(maps.Keys(e.Questions)) {
		q := e.Questions[id]
		for _, field := range slices.Sorted(maps.Keys(q)) {
			parts = append(parts, fmt.Sprintf("question %s %s: %s", id, field, q[field]))
		}
	}
	return fmt.Sprintf("%s: %s", ErrInvalidForm, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidForm
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0 && len(e.Questions) == 0
}

// Validate checks the mandatory fields. It returns a *ValidationError
// describing every failure, or nil.
func (f *Form) Validate() error {
	verr := &ValidationError{
		Fields:    map[string]string{},
		Questions: map[string]map[string]string{},
	}

	if strings.TrimSpace(f.CompanyName) == "" {
		verr.Fields[FieldCompanyName] = "Company interviewed for is required"
	}
	if strings.TrimSpace(f.YearsOfExperience) == "" {
		verr.Fields[FieldYearsOfExperience] = "Years of experience is required"
	}
	if strings.TrimSpace(f.Role) == "" {
		verr.Fields[FieldRole] = "Role is required"
	}

	for _, q := range f.Questions {
		qerr := map[string]string{}
		if strings.TrimSpace(q.Question) == "" {
			qerr[FieldQuestion] = "Question is required"
		}
		switch {
		case q.CanAnswer == "":
			qerr[FieldCanAnswer] = "Please select if you can answer this question"
		case !q.CanAnswer.Valid():
			qerr[FieldCanAnswer] = fmt.Sprintf("%q is not one of yes, no or partially", q.CanAnswer)
		}
		if len(qerr) > 0 {
			verr.Questions[q.ID] = qerr
		}
	}

	if verr.empty() {
		return nil
	}
	return verr
}
