package job

import (
	"context"
	"errors"
	"time"

	"aura-go/domain/segmentation"
)

// Common errors for job operations.
var (
	ErrJobNotFound = errors.New("job not found")
)

// DefaultHistoryLimit bounds History when no limit is given.
const DefaultHistoryLimit = 50

// Service provides business logic for the job history.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new job service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Record stores a new pending job and returns it with its ID set.
func (s *Service) Record(ctx context.Context, slot int, fileID string, req *segmentation.Request) (*Job, error) {
	j := &Job{
		Slot:        slot,
		FileID:      fileID,
		Route:       segmentation.Route(fileID),
		Request:     *req,
		Status:      StatusPending,
		SubmittedAt: s.now(),
	}
	if err := s.repo.Insert(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

// Complete marks a job as completed.
func (s *Service) Complete(ctx context.Context, id string) error {
	return s.repo.UpdateStatus(ctx, id, StatusCompleted, "", s.now())
}

// Fail marks a job as failed with the given cause.
func (s *Service) Fail(ctx context.Context, id string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return s.repo.UpdateStatus(ctx, id, StatusFailed, msg, s.now())
}

// GetJob retrieves a job by ID.
func (s *Service) GetJob(ctx context.Context, id string) (*Job, error) {
	j, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, ErrJobNotFound
	}
	return j, nil
}

// History returns the most recent jobs, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]*Job, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.repo.FindRecent(ctx, limit)
}

// ClearHistory removes all job records.
func (s *Service) ClearHistory(ctx context.Context) error {
	return s.repo.DeleteAll(ctx)
}
