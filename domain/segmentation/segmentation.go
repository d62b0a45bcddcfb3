// Package segmentation defines the segmentation algorithms offered by the
// processing service, their tunable parameters, and the job request payload.
package segmentation

import (
	"errors"
	"fmt"
	"math"
)

// Common errors for segmentation parameters.
var (
	ErrUnknownAlgorithm = errors.New("unknown segmentation algorithm")
	ErrNoAlgorithm      = errors.New("no segmentation algorithm selected")
	ErrParamOutOfRange  = errors.New("parameter out of range")
	ErrParamOffStep     = errors.New("parameter not on step grid")
	ErrUnknownParam     = errors.New("unknown parameter")
)

// AlgorithmType identifies a segmentation algorithm on the wire.
type AlgorithmType string

const (
	AlgorithmKMeans        AlgorithmType = "kmeans"
	AlgorithmMeanShift     AlgorithmType = "meanShift"
	AlgorithmAgglomerative AlgorithmType = "agglomerative"
	AlgorithmRegionGrowing AlgorithmType = "regionGrowing"
)

// NeedsSeeds reports whether the algorithm consumes seed points.
func (a AlgorithmType) NeedsSeeds() bool {
	return a == AlgorithmRegionGrowing
}

// ParamName is the wire name of a tunable parameter.
type ParamName string

const (
	ParamK              ParamName = "k"
	ParamMaxIterations  ParamName = "maxIterations"
	ParamWindowSize     ParamName = "windowSize"
	ParamThreshold      ParamName = "threshold"
	ParamClustersNumber ParamName = "clustersNumber"
)

// ParamSpec describes one numeric input of an algorithm.
type ParamSpec struct {
	Name  ParamName
	Label string
	Min   int
	Max   int
	Step  int
}

// Algorithm is one entry of the catalog.
type Algorithm struct {
	Type   AlgorithmType
	Label  string
	Params []ParamSpec
}

// Param returns the ParamSpec for name, if the algorithm exposes it.
func (a *Algorithm) Param(name ParamName) (ParamSpec, bool) {
	for _, p := range a.Params {
		if p.Name == name {
			return p, true
		}
	}
	return ParamSpec{}, false
}

// Params holds every tunable value. Only the fields exposed by the selected
// algorithm are meaningful, but all of them travel in the request.
type Params struct {
	K              int
	MaxIterations  int
	WindowSize     int
	Threshold      int
	ClustersNumber int
}

// DefaultParams returns the initial form values.
func DefaultParams() Params {
	return Params{
		K:              5,
		MaxIterations:  100,
		WindowSize:     30,
		Threshold:      100,
		ClustersNumber: 7,
	}
}

// Get returns the value of a named parameter.
func (p *Params) Get(name ParamName) (int, bool) {
	switch name {
	case ParamK:
		return p.K, true
	case ParamMaxIterations:
		return p.MaxIterations, true
	case ParamWindowSize:
		return p.WindowSize, true
	case ParamThreshold:
		return p.Threshold, true
	case ParamClustersNumber:
		return p.ClustersNumber, true
	default:
		return 0, false
	}
}

// Set assigns a named parameter. Unknown names report false.
func (p *Params) Set(name ParamName, v int) bool {
	switch name {
	case ParamK:
		p.K = v
	case ParamMaxIterations:
		p.MaxIterations = v
	case ParamWindowSize:
		p.WindowSize = v
	case ParamThreshold:
		p.Threshold = v
	case ParamClustersNumber:
		p.ClustersNumber = v
	default:
		return false
	}
	return true
}

// ValidationError reports a parameter outside its allowed range or off its
// step grid, which is counted from Min.
type ValidationError struct {
	Field ParamName
	Value int
	Min   int
	Max   int
	Step  int
}

func (e *ValidationError) offStep() bool {
	return e.Value >= e.Min && e.Value <= e.Max
}

func (e *ValidationError) Error() string {
	if e.offStep() {
		return fmt.Sprintf("%s = %d, must be %d plus a multiple of %d", e.Field, e.Value, e.Min, e.Step)
	}
	return fmt.Sprintf("%s = %d, must be between %d and %d", e.Field, e.Value, e.Min, e.Max)
}

func (e *ValidationError) Unwrap() error {
	if e.offStep() {
		return ErrParamOffStep
	}
	return ErrParamOutOfRange
}

// Validate checks the parameters the algorithm exposes against their ranges
// and steps.
func (p *Params) Validate(alg *Algorithm) error {
	if alg == nil {
		return ErrNoAlgorithm
	}
	for _, spec := range alg.Params {
		v, ok := p.Get(spec.Name)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownParam, spec.Name)
		}
		verr := &ValidationError{Field: spec.Name, Value: v, Min: spec.Min, Max: spec.Max, Step: spec.Step}
		if v < spec.Min || v > spec.Max {
			return verr
		}
		if spec.Step > 1 && (v-spec.Min)%spec.Step != 0 {
			return verr
		}
	}
	return nil
}

// SeedPoint is an image-space seed coordinate as sent to the service.
type SeedPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Request is the job-submission body.
type Request struct {
	Type           AlgorithmType `json:"type"`
	K              int           `json:"k"`
	MaxIterations  int           `json:"maxIterations"`
	WindowSize     int           `json:"windowSize"`
	Threshold      int           `json:"threshold"`
	ClustersNumber int           `json:"clustersNumber"`
	SeedPoints     []SeedPoint   `json:"seedPoints"`
}

// NewRequest builds a request body. seeds must already be in image space.
func NewRequest(alg AlgorithmType, p Params, seeds []SeedPoint) *Request {
	if seeds == nil {
		seeds = []SeedPoint{}
	}
	return &Request{
		Type:           alg,
		K:              p.K,
		MaxIterations:  p.MaxIterations,
		WindowSize:     p.WindowSize,
		Threshold:      p.Threshold,
		ClustersNumber: p.ClustersNumber,
		SeedPoints:     seeds,
	}
}

// Route returns the service route for segmenting the given uploaded file.
func Route(fileID string) string {
	return "/api/segmentation/" + fileID
}

// RoundSeed rounds an image-space point to the nearest pixel for display.
func RoundSeed(p SeedPoint) (int, int) {
	return int(math.Round(p.X)), int(math.Round(p.Y))
}
