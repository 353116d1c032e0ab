package entity

const (
	DefaultMaxSteps  = 15
	StallStreakLimit = 3
)

// WizardSession tracks progress of one wizard run. It lives only for the
// duration of a single Driver.Run call.
type WizardSession struct {
	StepCount      int
	MaxSteps       int
	PreviousStep   StepType
	SameStepStreak int
}

func NewWizardSession(maxSteps int) *WizardSession {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &WizardSession{MaxSteps: maxSteps}
}

// Observe records a classification. The streak resets whenever the step
// differs from the previous one and increments on every repeat.
func (s *WizardSession) Observe(step StepType) {
	if s.PreviousStep != "" && step == s.PreviousStep {
		s.SameStepStreak++
	} else {
		s.SameStepStreak = 0
	}
	s.PreviousStep = step
}

func (s *WizardSession) BudgetExhausted() bool {
	return s.StepCount >= s.MaxSteps
}

func (s *WizardSession) Stalled() bool {
	return s.SameStepStreak >= StallStreakLimit
}
