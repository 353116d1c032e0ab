package entity

import "strings"

// StepType classifies one rendered state of the apply wizard.
type StepType string

const (
	StepModalClosed StepType = "MODAL_CLOSED"
	StepContactInfo StepType = "CONTACT_INFO"
	StepCurriculum  StepType = "CURRICULUM"
	StepResume      StepType = "RESUME"
	StepFavorite    StepType = "FAVORITE"
	StepRegular     StepType = "REGULAR"
	StepReviewFinal StepType = "REVIEW_FINAL"
	StepDone        StepType = "DONE"
)

func (s StepType) String() string {
	if s == "" {
		return "NONE"
	}
	return string(s)
}

// FieldDescriptor identifies one free-text input of the current step.
// It is rebuilt on every step because the form re-renders between steps.
type FieldDescriptor struct {
	Label     string
	ElementID string
	Required  bool
}

type FieldState struct {
	FieldDescriptor
	Value string
}

func (f FieldState) Empty() bool {
	return strings.TrimSpace(f.Value) == ""
}

// FormSnapshot is a single observation of the wizard modal.
type FormSnapshot struct {
	ModalPresent  bool
	FormPresent   bool
	Headings      []string
	Subheadings   []string
	Fields        []FieldState
	SubmitVisible bool
}

// EmptyFields returns the labelled fields that still need an answer.
func (s FormSnapshot) EmptyFields() []FieldDescriptor {
	var out []FieldDescriptor
	for _, f := range s.Fields {
		if f.Label != "" && f.ElementID != "" && f.Empty() {
			out = append(out, f.FieldDescriptor)
		}
	}
	return out
}
