package event

import (
	"image"

	"aura-go/domain/job"
	"aura-go/domain/segmentation"
)

// FileUploaded is published when the processing service accepted an upload.
type FileUploaded struct {
	slotSource
	FileID string
	URL    string
}

func NewFileUploaded(slot int, fileID, url string) *FileUploaded {
	return &FileUploaded{
		slotSource: slotSource{slot: slot},
		FileID:     fileID,
		URL:        url,
	}
}

func (e *FileUploaded) EventName() string {
	return "FileUploaded"
}

// AlgorithmChanged is published when the slot's algorithm selection changes.
type AlgorithmChanged struct {
	slotSource
	Algorithm    segmentation.AlgorithmType
	SeedsEnabled bool
}

func NewAlgorithmChanged(slot int, alg segmentation.AlgorithmType, seedsEnabled bool) *AlgorithmChanged {
	return &AlgorithmChanged{
		slotSource:   slotSource{slot: slot},
		Algorithm:    alg,
		SeedsEnabled: seedsEnabled,
	}
}

func (e *AlgorithmChanged) EventName() string {
	return "AlgorithmChanged"
}

// JobSubmitted is published once a job is recorded and sent.
type JobSubmitted struct {
	slotSource
	JobID   string
	Request segmentation.Request
}

func NewJobSubmitted(slot int, jobID string, req segmentation.Request) *JobSubmitted {
	return &JobSubmitted{
		slotSource: slotSource{slot: slot},
		JobID:      jobID,
		Request:    req,
	}
}

func (e *JobSubmitted) EventName() string {
	return "JobSubmitted"
}

// JobCompleted is published with the processed image.
type JobCompleted struct {
	slotSource
	JobID string
	Image image.Image
}

func NewJobCompleted(slot int, jobID string, img image.Image) *JobCompleted {
	return &JobCompleted{
		slotSource: slotSource{slot: slot},
		JobID:      jobID,
		Image:      img,
	}
}

func (e *JobCompleted) EventName() string {
	return "JobCompleted"
}

// JobFailed is published when a submission could not be processed.
type JobFailed struct {
	slotSource
	JobID string
	Error error
}

func NewJobFailed(slot int, jobID string, err error) *JobFailed {
	return &JobFailed{
		slotSource: slotSource{slot: slot},
		JobID:      jobID,
		Error:      err,
	}
}

func (e *JobFailed) EventName() string {
	return "JobFailed"
}

// HistoryLoaded carries the most recent job records, newest first.
type HistoryLoaded struct {
	Jobs []*job.Job
}

func (e *HistoryLoaded) EventName() string {
	return "HistoryLoaded"
}

// WorkspaceReset is published after every slot has been cleared.
type WorkspaceReset struct{}

func (e *WorkspaceReset) EventName() string {
	return "WorkspaceReset"
}
