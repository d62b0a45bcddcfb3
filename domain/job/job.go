// Package job defines the segmentation job record and its history service.
package job

import (
	"fmt"
	"time"

	"aura-go/domain/segmentation"
)

// Status is the terminal or in-flight status of a job record.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Job is one submission to the processing service.
type Job struct {
	// ID is the unique identifier (MongoDB ObjectID hex, or generated in memory)
	ID string

	// Slot is the workspace slot the job was submitted from
	Slot int

	// FileID identifies the uploaded image on the service
	FileID string

	// Route is the service route the request was sent to
	Route string

	// Request is the submitted body
	Request segmentation.Request

	Status Status
	Error  string

	SubmittedAt time.Time
	FinishedAt  time.Time
}

// Summary returns a one-line description for history lists.
func (j *Job) Summary() string {
	s := fmt.Sprintf("%s  %s  file %s", j.SubmittedAt.Format("15:04:05"), j.Request.Type, j.FileID)
	if j.Request.Type.NeedsSeeds() {
		s += fmt.Sprintf("  seeds %d", len(j.Request.SeedPoints))
	}
	return s + "  " + string(j.Status)
}

// Duration returns how long the job took, or zero while pending.
func (j *Job) Duration() time.Duration {
	if j.FinishedAt.IsZero() {
		return 0
	}
	return j.FinishedAt.Sub(j.SubmittedAt)
}

// Clone creates a deep copy of the job.
func (j *Job) Clone() *Job {
	clone := *j
	if j.Request.SeedPoints != nil {
		clone.Request.SeedPoints = make([]segmentation.SeedPoint, len(j.Request.SeedPoints))
		copy(clone.Request.SeedPoints, j.Request.SeedPoints)
	}
	return &clone
}
