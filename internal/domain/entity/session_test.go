package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWizardSession_StreakProgression(t *testing.T) {
	s := NewWizardSession(0)
	assert.Equal(t, DefaultMaxSteps, s.MaxSteps)

	var streaks []int
	for i := 0; i < 4; i++ {
		s.Observe(StepRegular)
		streaks = append(streaks, s.SameStepStreak)
	}

	assert.Equal(t, []int{0, 1, 2, 3}, streaks)
	assert.True(t, s.Stalled())
}

func TestWizardSession_StreakResetsOnChange(t *testing.T) {
	s := NewWizardSession(15)

	s.Observe(StepRegular)
	s.Observe(StepRegular)
	assert.Equal(t, 1, s.SameStepStreak)

	s.Observe(StepResume)
	assert.Equal(t, 0, s.SameStepStreak)
	assert.Equal(t, StepResume, s.PreviousStep)

	s.Observe(StepRegular)
	assert.Equal(t, 0, s.SameStepStreak)
	assert.False(t, s.Stalled())
}

func TestWizardSession_Budget(t *testing.T) {
	s := NewWizardSession(2)
	assert.False(t, s.BudgetExhausted())
	s.StepCount = 2
	assert.True(t, s.BudgetExhausted())
}

func TestApplicationOutcome_Err(t *testing.T) {
	tests := []struct {
		outcome ApplicationOutcome
		want    error
	}{
		{Submitted(3), nil},
		{Skipped(ReasonNotQuickApply), nil},
		{Incomplete(ReasonClosed, 1), ErrModalUnexpectedlyClosed},
		{Incomplete(ReasonStalled, 4), ErrStalled},
		{Incomplete(ReasonBudgetExhausted, 15), ErrBudgetExhausted},
		{Incomplete(ReasonValidationRejected, 2), ErrValidationRejected},
		{Incomplete(ReasonUnrecognized, 2), nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.outcome.Status)+"/"+string(tt.outcome.Reason), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.outcome.Err())
		})
	}
}

func TestFormSnapshot_EmptyFields(t *testing.T) {
	snap := FormSnapshot{Fields: []FieldState{
		{FieldDescriptor: FieldDescriptor{Label: "Years of experience", ElementID: "f1"}, Value: "  "},
		{FieldDescriptor: FieldDescriptor{Label: "City", ElementID: "f2"}, Value: "Madrid"},
		{FieldDescriptor: FieldDescriptor{Label: "", ElementID: "f3"}},
	}}

	empty := snap.EmptyFields()
	assert.Len(t, empty, 1)
	assert.Equal(t, "f1", empty[0].ElementID)
}

func TestRunSummary_Record(t *testing.T) {
	var s RunSummary
	s.Record(JobResult{Outcome: Submitted(4)})
	s.Record(JobResult{Outcome: Incomplete(ReasonStalled, 4)})
	s.Record(JobResult{Outcome: Skipped(ReasonNotQuickApply)})
	s.Record(JobResult{Outcome: Failed()})

	assert.Equal(t, 1, s.Submitted)
	assert.Equal(t, 1, s.Incomplete)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, 1, s.Failed)
	assert.Len(t, s.Results, 4)
}
