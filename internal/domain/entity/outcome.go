package entity

import "time"

type OutcomeStatus string

const (
	StatusSubmitted  OutcomeStatus = "submitted"
	StatusIncomplete OutcomeStatus = "incomplete"
	StatusSkipped    OutcomeStatus = "skipped"
	StatusFailed     OutcomeStatus = "failed"
)

type OutcomeReason string

const (
	ReasonNone               OutcomeReason = ""
	ReasonClosed             OutcomeReason = "closed"
	ReasonStalled            OutcomeReason = "stalled"
	ReasonBudgetExhausted    OutcomeReason = "budget_exhausted"
	ReasonUnrecognized       OutcomeReason = "unrecognized"
	ReasonValidationRejected OutcomeReason = "validation_rejected"
	ReasonNotQuickApply      OutcomeReason = "not_quick_apply"
)

// ApplicationOutcome is the terminal state of one wizard run.
type ApplicationOutcome struct {
	Status OutcomeStatus
	Reason OutcomeReason
	Steps  int
}

func Submitted(steps int) ApplicationOutcome {
	return ApplicationOutcome{Status: StatusSubmitted, Steps: steps}
}

func Incomplete(reason OutcomeReason, steps int) ApplicationOutcome {
	return ApplicationOutcome{Status: StatusIncomplete, Reason: reason, Steps: steps}
}

func Skipped(reason OutcomeReason) ApplicationOutcome {
	return ApplicationOutcome{Status: StatusSkipped, Reason: reason}
}

// Err maps an incomplete outcome onto the error taxonomy. It returns nil for
// submitted and skipped outcomes.
func (o ApplicationOutcome) Err() error {
	if o.Status != StatusIncomplete {
		return nil
	}
	switch o.Reason {
	case ReasonClosed:
		return ErrModalUnexpectedlyClosed
	case ReasonStalled:
		return ErrStalled
	case ReasonBudgetExhausted:
		return ErrBudgetExhausted
	case ReasonValidationRejected:
		return ErrValidationRejected
	default:
		return nil
	}
}

type JobResult struct {
	Job      Job
	Outcome  ApplicationOutcome
	Error    string
	Duration time.Duration
}

// RunSummary aggregates the results of one pass over the job list.
type RunSummary struct {
	RunID      string
	Total      int
	Eligible   int
	Submitted  int
	Incomplete int
	Skipped    int
	Failed     int
	Results    []JobResult
}

func (s *RunSummary) Record(r JobResult) {
	s.Results = append(s.Results, r)
	switch r.Outcome.Status {
	case StatusSubmitted:
		s.Submitted++
	case StatusIncomplete:
		s.Incomplete++
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	}
}

func Failed() ApplicationOutcome {
	return ApplicationOutcome{Status: StatusFailed}
}
