package slot

import (
	"fmt"
	"image"
	"os"

	"aura-go/core/command"
	"aura-go/core/event"
	"aura-go/core/state"
	"aura-go/domain/segmentation"
	"aura-go/infrastructure/imageload"
	"aura-go/infrastructure/logging"
)

// uploadFinished reports the result of a background upload.
type uploadFinished struct {
	generation uint64
	path       string
	fileID     string
	err        error
}

func (c *uploadFinished) CommandName() string {
	return "uploadFinished"
}

// jobStarted reports that a job was recorded and is about to be sent.
type jobStarted struct {
	token    string
	recordID string
	request  segmentation.Request
}

func (c *jobStarted) CommandName() string {
	return "jobStarted"
}

// jobFinished reports the service's answer for a job.
type jobFinished struct {
	token    string
	recordID string
	img      image.Image
	err      error
}

func (c *jobFinished) CommandName() string {
	return "jobFinished"
}

func (s *Slot) handleUploadFile(c *command.UploadFile) {
	s.uploadGen++
	gen := s.uploadGen
	path := c.Path

	s.logger.Info("Uploading image", "path", path)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		data, err := os.ReadFile(path)
		if err != nil {
			s.post(&uploadFinished{generation: gen, path: path, err: fmt.Errorf("failed to read %s: %w", path, err)})
			return
		}
		fileID, err := s.client.Upload(s.ctx, path, data)
		s.post(&uploadFinished{generation: gen, path: path, fileID: fileID, err: err})
	}()
}

func (s *Slot) handleUploadFinished(c *uploadFinished) {
	if c.generation != s.uploadGen {
		s.logger.Debug("Discarding stale upload", "path", c.path)
		return
	}
	if c.err != nil {
		s.logger.Error("Upload failed", "path", c.path, "error", c.err)
		s.publishEvent(event.NewOperationFailed(s.index, "upload", c.err))
		return
	}

	prev, _ := s.workspace.Get(s.index)
	url := imageload.FileURL(c.path)
	if err := s.workspace.SetUpload(s.index, c.fileID, url); err != nil {
		s.logger.Error("Failed to record upload", "error", err)
		s.publishEvent(event.NewOperationFailed(s.index, "upload", err))
		return
	}
	if prev.Job != state.StateIdle {
		if prev.Busy() {
			s.logger.Info("Abandoning job for replaced image", "job", prev.JobID)
		}
		s.publishEvent(event.NewJobStateChanged(s.index, prev.Job, state.StateIdle))
	}

	s.publishEvent(event.NewFileUploaded(s.index, c.fileID, url))
	s.handleLoadImage(url)
}

func (s *Slot) handleSetAlgorithm(c *command.SetAlgorithm) {
	alg, err := s.registry.Lookup(c.Algorithm)
	if err != nil {
		s.logger.Warn("Unknown algorithm selected", "algorithm", c.Algorithm)
		s.publishEvent(event.NewOperationFailed(s.index, "set_algorithm", err))
		return
	}

	s.stateMu.Lock()
	s.algorithm = alg.Type
	s.stateMu.Unlock()

	s.publishEvent(event.NewAlgorithmChanged(s.index, alg.Type, alg.Type.NeedsSeeds()))
}

// handleSubmitJob validates the parameters, marks the slot busy and sends the
// job in the background. Seed points are the latest image-space projection.
func (s *Slot) handleSubmitJob(c *command.SubmitJob) {
	alg, err := s.registry.Lookup(s.Algorithm())
	if err != nil {
		s.publishEvent(event.NewOperationFailed(s.index, "submit", err))
		return
	}
	if err := c.Params.Validate(alg); err != nil {
		s.logger.Warn("Invalid parameters", "algorithm", alg.Type, "error", err)
		s.publishEvent(event.NewOperationFailed(s.index, "submit", err))
		return
	}

	s.jobSeq++
	token := fmt.Sprintf("%d-%d", s.index, s.jobSeq)

	ws, _ := s.workspace.Get(s.index)
	if err := s.workspace.BeginJob(s.index, token); err != nil {
		s.logger.Warn("Submit refused", "error", err)
		s.publishEvent(event.NewOperationFailed(s.index, "submit", err))
		return
	}
	s.publishEvent(event.NewJobStateChanged(s.index, ws.Job, state.StateSubmitting))

	req := segmentation.NewRequest(alg.Type, c.Params, s.SeedPoints())
	fileID := ws.FileID

	s.wg.Add(1)
	go s.runJob(token, fileID, req)
}

// runJob records the job, sends it and records the outcome.
func (s *Slot) runJob(token, fileID string, req *segmentation.Request) {
	defer s.wg.Done()

	recordID := token
	recorded := false
	if s.jobs != nil {
		rec, err := s.jobs.Record(s.ctx, s.index, fileID, req)
		if err != nil {
			s.logger.Warn("Failed to record job", "error", err)
		} else {
			recordID = rec.ID
			recorded = true
		}
	}

	s.post(&jobStarted{token: token, recordID: recordID, request: *req})

	ctx := logging.With(s.ctx, s.logger.With("job_id", recordID))
	img, err := s.client.Process(ctx, segmentation.Route(fileID), req)

	if recorded {
		var recErr error
		if err != nil {
			recErr = s.jobs.Fail(s.ctx, recordID, err)
		} else {
			recErr = s.jobs.Complete(s.ctx, recordID)
		}
		if recErr != nil {
			s.logger.Warn("Failed to record job outcome", "job_id", recordID, "error", recErr)
		}
	}

	s.post(&jobFinished{token: token, recordID: recordID, img: img, err: err})
}

func (s *Slot) handleJobStarted(c *jobStarted) {
	if err := s.workspace.Transition(s.index, c.token, state.StateProcessing); err != nil {
		s.logger.Debug("Ignoring start of stale job", "job_id", c.recordID, "error", err)
		return
	}
	s.publishEvent(event.NewJobStateChanged(s.index, state.StateSubmitting, state.StateProcessing))
	s.publishEvent(event.NewJobSubmitted(s.index, c.recordID, c.request))
	s.logger.Info("Job submitted", "job_id", c.recordID, "type", c.request.Type, "seeds", len(c.request.SeedPoints))
}

func (s *Slot) handleJobFinished(c *jobFinished) {
	if c.err != nil {
		if err := s.workspace.Fail(s.index, c.token); err != nil {
			s.logger.Debug("Discarding failure of stale job", "job_id", c.recordID)
			return
		}
		s.logger.Error("Job failed", "job_id", c.recordID, "error", c.err)
		s.publishEvent(event.NewJobStateChanged(s.index, state.StateProcessing, state.StateFailed))
		s.publishEvent(event.NewJobFailed(s.index, c.recordID, c.err))
		return
	}

	if err := s.workspace.Complete(s.index, c.token, c.img); err != nil {
		s.logger.Debug("Discarding result of stale job", "job_id", c.recordID)
		return
	}
	s.logger.Info("Job completed", "job_id", c.recordID)
	s.publishEvent(event.NewJobStateChanged(s.index, state.StateProcessing, state.StateCompleted))
	s.publishEvent(event.NewJobCompleted(s.index, c.recordID, c.img))
}
