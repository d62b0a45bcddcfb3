package repository

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"aura-go/domain/job"
)

// MemoryJobRepository implements job.Repository in process memory.
// It is used when MongoDB is unavailable and in tests.
type MemoryJobRepository struct {
	jobs   map[string]*job.Job
	nextID uint64
	mu     sync.RWMutex
}

// NewMemoryJobRepository creates an empty in-memory repository.
func NewMemoryJobRepository() *MemoryJobRepository {
	return &MemoryJobRepository{jobs: make(map[string]*job.Job)}
}

// FindByID retrieves a job by its unique identifier.
func (r *MemoryJobRepository) FindByID(ctx context.Context, id string) (*job.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, nil
	}
	return j.Clone(), nil
}

// FindRecent retrieves up to limit jobs, newest first.
func (r *MemoryJobRepository) FindRecent(ctx context.Context, limit int) ([]*job.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	jobs := make([]*job.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		jobs = append(jobs, j.Clone())
	}
	sort.Slice(jobs, func(i, k int) bool {
		if !jobs[i].SubmittedAt.Equal(jobs[k].SubmittedAt) {
			return jobs[i].SubmittedAt.After(jobs[k].SubmittedAt)
		}
		return jobs[i].ID > jobs[k].ID
	})
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

// Insert creates a new job.
func (r *MemoryJobRepository) Insert(ctx context.Context, j *job.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	j.ID = strconv.FormatUint(r.nextID, 10)
	r.jobs[j.ID] = j.Clone()
	return nil
}

// UpdateStatus records the outcome of a job.
func (r *MemoryJobRepository) UpdateStatus(ctx context.Context, id string, status job.Status, errMsg string, finishedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return job.ErrJobNotFound
	}
	j.Status = status
	j.Error = errMsg
	j.FinishedAt = finishedAt
	return nil
}

// DeleteAll removes every job.
func (r *MemoryJobRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = make(map[string]*job.Job)
	return nil
}

var _ job.Repository = (*MemoryJobRepository)(nil)
