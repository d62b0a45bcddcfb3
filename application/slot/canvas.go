package slot

import (
	"image"

	"aura-go/core/command"
	"aura-go/core/event"
	"aura-go/core/state"
	"aura-go/domain/annotation"
)

// loadFinished reports the result of a background image fetch.
type loadFinished struct {
	ticket annotation.LoadTicket
	img    image.Image
	err    error
}

func (c *loadFinished) CommandName() string {
	return "loadFinished"
}

func (s *Slot) handleLoadImage(url string) {
	ticket := s.surface.BeginLoad(url)
	s.publishMarkers()

	if url == "" {
		return
	}

	s.logger.Info("Loading image", "url", url, "generation", ticket.Generation)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		img, err := s.loader.Load(s.ctx, url)
		s.post(&loadFinished{ticket: ticket, img: img, err: err})
	}()
}

func (s *Slot) handleLoadFinished(c *loadFinished) {
	if c.err != nil {
		if !s.surface.FailLoad(c.ticket) {
			s.logger.Debug("Discarding stale load failure", "url", c.ticket.URL, "generation", c.ticket.Generation)
			return
		}
		s.logger.Error("Image load failed", "url", c.ticket.URL, "error", c.err)
		s.publishEvent(event.NewImageLoadFailed(s.index, c.ticket.URL, c.err))
		s.publishMarkers()
		return
	}

	if !s.surface.CompleteLoad(c.ticket, c.img) {
		s.logger.Debug("Discarding stale image", "url", c.ticket.URL, "generation", c.ticket.Generation)
		return
	}

	natural := s.surface.NaturalSize()
	s.logger.Info("Image loaded", "url", c.ticket.URL, "width", natural.Width, "height", natural.Height)
	s.publishEvent(event.NewImageLoaded(s.index, c.ticket.URL, c.img))
	s.publishMarkers()
}

func (s *Slot) handleResizeViewport(c *command.ResizeViewport) {
	before, hadTransform := s.surface.Transform()
	s.surface.SetViewport(annotation.NewSize(c.Width, c.Height))
	after, hasTransform := s.surface.Transform()

	if before != after || hadTransform != hasTransform {
		s.publishMarkers()
	}
}

func (s *Slot) handlePressCanvas(c *command.PressCanvas) {
	outcome, index := s.surface.Press(annotation.Point{X: c.X, Y: c.Y})
	if outcome == annotation.PressIgnored {
		s.logger.Debug("Press ignored, no image", "x", c.X, "y", c.Y)
		return
	}
	s.logger.Debug("Seed point "+outcome.String(), "index", index, "x", c.X, "y", c.Y)
	s.publishMarkers()
}

func (s *Slot) handleRemovePoint(c *command.RemovePoint) {
	if !s.surface.RemovePoint(c.Index) {
		s.logger.Debug("Remove ignored, no such point", "index", c.Index)
		return
	}
	s.publishMarkers()
}

// handleReset clears the surface and the slot's workspace entry.
func (s *Slot) handleReset() {
	old, _ := s.workspace.Get(s.index)

	s.surface.Reset()
	s.uploadGen++
	if err := s.workspace.Reset(s.index); err != nil {
		s.logger.Error("Failed to reset workspace slot", "error", err)
	}

	if old.Job != state.StateIdle {
		s.publishEvent(event.NewJobStateChanged(s.index, old.Job, state.StateIdle))
	}
	s.publishEvent(event.NewSlotReset(s.index))
	s.publishMarkers()
	s.logger.Info("Slot reset")
}
