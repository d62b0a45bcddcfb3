package event

import (
	"image"

	"aura-go/domain/annotation"
	"aura-go/domain/segmentation"
)

// ImageLoaded is published when the slot's display surface finished decoding an image.
type ImageLoaded struct {
	slotSource
	URL   string
	Image image.Image
}

func NewImageLoaded(slot int, url string, img image.Image) *ImageLoaded {
	return &ImageLoaded{
		slotSource: slotSource{slot: slot},
		URL:        url,
		Image:      img,
	}
}

func (e *ImageLoaded) EventName() string {
	return "ImageLoaded"
}

// ImageLoadFailed is published when the current image could not be loaded.
type ImageLoadFailed struct {
	slotSource
	URL   string
	Error error
}

func NewImageLoadFailed(slot int, url string, err error) *ImageLoadFailed {
	return &ImageLoadFailed{
		slotSource: slotSource{slot: slot},
		URL:        url,
		Error:      err,
	}
}

func (e *ImageLoadFailed) EventName() string {
	return "ImageLoadFailed"
}

// SeedPointsChanged carries the full image-space projection of the slot's seed points.
// Points is empty, never nil, when nothing can be projected.
type SeedPointsChanged struct {
	slotSource
	Points []segmentation.SeedPoint
}

func NewSeedPointsChanged(slot int, points []segmentation.SeedPoint) *SeedPointsChanged {
	if points == nil {
		points = []segmentation.SeedPoint{}
	}
	return &SeedPointsChanged{
		slotSource: slotSource{slot: slot},
		Points:     points,
	}
}

func (e *SeedPointsChanged) EventName() string {
	return "SeedPointsChanged"
}

// MarkersChanged carries what the canvas needs to draw: the fit transform and
// the marker centres in display space.
type MarkersChanged struct {
	slotSource
	Transform annotation.Transform
	HasImage  bool
	Markers   []annotation.Point
	Radius    float64
}

func NewMarkersChanged(slot int, t annotation.Transform, hasImage bool, markers []annotation.Point, radius float64) *MarkersChanged {
	return &MarkersChanged{
		slotSource: slotSource{slot: slot},
		Transform:  t,
		HasImage:   hasImage,
		Markers:    markers,
		Radius:     radius,
	}
}

func (e *MarkersChanged) EventName() string {
	return "MarkersChanged"
}
