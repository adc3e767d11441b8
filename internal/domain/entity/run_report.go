// internal/domain/entity/run_report.go
package entity

import (
	"time"
)

// RunStatus is the outcome of an ingestion run
type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// RunReport summarizes one ingestion run. It is the success/failure signal
// handed to the notification collaborator.
type RunReport struct {
	RunID          string    `json:"runId"`
	Status         RunStatus `json:"status"`
	Routes         []Route   `json:"routes"`
	StartedAt      time.Time `json:"startedAt"`
	FinishedAt     time.Time `json:"finishedAt"`
	Queries        int       `json:"queries"`
	EmptyResponses int       `json:"emptyResponses"`
	Archived       int       `json:"archived"`
	Observations   int       `json:"observations"`
	Err            error     `json:"-"`
	Error          string    `json:"error,omitempty"`
}

// Succeeded reports whether the run completed and persisted its batch
func (r *RunReport) Succeeded() bool {
	return r.Status == RunSucceeded
}

// Duration is the wall time of the run
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Fail marks the report as failed with err
func (r *RunReport) Fail(err error) {
	r.Status = RunFailed
	r.Err = err
	if err != nil {
		r.Error = err.Error()
	}
}
