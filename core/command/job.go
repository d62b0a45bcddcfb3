package command

import "aura-go/domain/segmentation"

// UploadFile uploads a local image to the processing service and shows it in the slot.
type UploadFile struct {
	slotTarget
	Path string
}

func NewUploadFile(slot int, path string) *UploadFile {
	return &UploadFile{slotTarget: slotTarget{slot: slot}, Path: path}
}

func (c *UploadFile) CommandName() string {
	return "UploadFile"
}

// SetAlgorithm selects the segmentation algorithm for the slot.
type SetAlgorithm struct {
	slotTarget
	Algorithm segmentation.AlgorithmType
}

func NewSetAlgorithm(slot int, alg segmentation.AlgorithmType) *SetAlgorithm {
	return &SetAlgorithm{slotTarget: slotTarget{slot: slot}, Algorithm: alg}
}

func (c *SetAlgorithm) CommandName() string {
	return "SetAlgorithm"
}

// SubmitJob sends the slot's image to the processing service with the given parameters.
type SubmitJob struct {
	slotTarget
	Params segmentation.Params
}

func NewSubmitJob(slot int, params segmentation.Params) *SubmitJob {
	return &SubmitJob{slotTarget: slotTarget{slot: slot}, Params: params}
}

func (c *SubmitJob) CommandName() string {
	return "SubmitJob"
}
