package entity

// Job is one listing card produced by the job pipeline.
type Job struct {
	ID                 string
	DisplayName        string
	QuickApplyEligible bool
}
