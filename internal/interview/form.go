// Package interview holds the interview practice form: the questions a
// candidate was asked, whether they could answer them, and the draft that
// autosaves while the form is being filled in.
package interview

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/wolfeidau/asknalyze/internal/session"
)

// Answerability records whether the candidate could answer a question.
type Answerability string

const (
	CanAnswerYes       Answerability = "yes"
	CanAnswerNo        Answerability = "no"
	CanAnswerPartially Answerability = "partially"
)

// Valid reports whether a is one of the selectable values.
func (a Answerability) Valid() bool {
	switch a {
	case CanAnswerYes, CanAnswerNo, CanAnswerPartially:
		return true
	}
	return false
}

// firstQuestionID is the ID a fresh form gives its blank question.
const firstQuestionID = "1"

var (
	ErrLastQuestion        = errors.New("a form needs at least one question")
	ErrIncompleteQuestions = errors.New("complete the existing questions before adding another")
	ErrQuestionNotFound    = errors.New("question not found")
)

// Question is one interview question and the candidate's attempt at it.
type Question struct {
	ID            string        `json:"id" yaml:"id"`
	Question      string        `json:"question" yaml:"question"`
	CanAnswer     Answerability `json:"canAnswer" yaml:"canAnswer"`
	Answer        string        `json:"answer" yaml:"answer"`
	IsAnalyzed    bool          `json:"isAnalyzed" yaml:"isAnalyzed"`
	Analysis      string        `json:"analysis" yaml:"analysis"`
	CorrectAnswer string        `json:"correctAnswer" yaml:"correctAnswer"`
}

// complete reports whether the mandatory fields are filled in.
func (q Question) complete() bool {
	return strings.TrimSpace(q.Question) != "" && q.CanAnswer != ""
}

// Form is an interview practice submission.
type Form struct {
	CompanyName       string     `json:"companyName" yaml:"companyName"`
	YearsOfExperience string     `json:"yearsOfExperience" yaml:"yearsOfExperience"`
	Role              string     `json:"role" yaml:"role"`
	JobDescription    string     `json:"jobDescription" yaml:"jobDescription"`
	Questions         []Question `json:"questions" yaml:"questions"`
}

// NewForm returns an empty form with experience and role taken from user,
// which may be nil, and a single blank question.
func NewForm(user *session.User) *Form {
	f := &Form{}
	f.applyDefaults(user)
	return f
}

// applyDefaults fills blank experience and role from user and makes sure
// there is at least one question.
func (f *Form) applyDefaults(user *session.User) {
	if user != nil {
		if f.YearsOfExperience == "" {
			f.YearsOfExperience = user.Experience
		}
		if f.Role == "" {
			f.Role = user.Role
		}
	}
	if len(f.Questions) == 0 {
		f.Questions = []Question{{ID: firstQuestionID}}
	}
}

// CanAddQuestion reports whether every existing question has its text and
// answerability filled in.
func (f *Form) CanAddQuestion() bool {
	for _, q := range f.Questions {
		if !q.complete() {
			return false
		}
	}
	return true
}

// AddQuestion appends a blank question and returns it.
func (f *Form) AddQuestion() (*Question, error) {
	if !f.CanAddQuestion() {
		return nil, ErrIncompleteQuestions
	}

	f.Questions = append(f.Questions, Question{ID: uuid.NewString()})
	return &f.Questions[len(f.Questions)-1], nil
}

// RemoveQuestion deletes the question with id. The last question cannot be
// removed.
func (f *Form) RemoveQuestion(id string) error {
	idx := slices.IndexFunc(f.Questions, func(q Question) bool { return q.ID == id })
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrQuestionNotFound, id)
	}
	if len(f.Questions) == 1 {
		return ErrLastQuestion
	}

	f.Questions = slices.Delete(f.Questions, idx, idx+1)
	return nil
}

// LoadFile reads a form from a JSON or YAML file. Files ending in .json are
// parsed as JSON, anything else as YAML. Missing IDs are generated, and user
// (which may be nil) supplies blank experience and role.
func LoadFile(path string, user *session.User) (*Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read form file: %w", err)
	}

	var f Form
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse JSON form: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse YAML form: %w", err)
		}
	}

	for i := range f.Questions {
		if f.Questions[i].ID == "" {
			f.Questions[i].ID = uuid.NewString()
		}
	}
	f.applyDefaults(user)

	return &f, nil
}
