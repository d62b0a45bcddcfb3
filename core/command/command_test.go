package command

import (
	"testing"

	"aura-go/domain/segmentation"
)

func TestCommand_Names(t *testing.T) {
	tests := []struct {
		cmd      Command
		expected string
	}{
		{NewLoadImage(0, "file:///a.png"), "LoadImage"},
		{NewResizeViewport(0, 200, 100), "ResizeViewport"},
		{NewPressCanvas(0, 10, 20), "PressCanvas"},
		{NewRemovePoint(0, 1), "RemovePoint"},
		{NewResetSlot(0), "ResetSlot"},
		{NewUploadFile(0, "/tmp/a.png"), "UploadFile"},
		{NewSetAlgorithm(0, segmentation.AlgorithmKMeans), "SetAlgorithm"},
		{NewSubmitJob(0, segmentation.DefaultParams()), "SubmitJob"},
		{&ResetWorkspace{}, "ResetWorkspace"},
		{&RefreshHistory{Limit: 10}, "RefreshHistory"},
		{&ClearHistory{}, "ClearHistory"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.cmd.CommandName(); got != tt.expected {
				t.Errorf("CommandName() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSlotCommand_Slot(t *testing.T) {
	tests := []struct {
		name     string
		cmd      SlotCommand
		expected int
	}{
		{"LoadImage", NewLoadImage(1, "u"), 1},
		{"ResizeViewport", NewResizeViewport(2, 1, 1), 2},
		{"PressCanvas", NewPressCanvas(3, 0, 0), 3},
		{"RemovePoint", NewRemovePoint(4, 0), 4},
		{"ResetSlot", NewResetSlot(5), 5},
		{"UploadFile", NewUploadFile(6, "p"), 6},
		{"SetAlgorithm", NewSetAlgorithm(7, segmentation.AlgorithmRegionGrowing), 7},
		{"SubmitJob", NewSubmitJob(8, segmentation.Params{}), 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cmd.Slot(); got != tt.expected {
				t.Errorf("Slot() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestWorkspaceCommands_AreNotSlotCommands(t *testing.T) {
	cmds := []Command{&ResetWorkspace{}, &RefreshHistory{}, &ClearHistory{}}
	for _, cmd := range cmds {
		if _, ok := cmd.(SlotCommand); ok {
			t.Errorf("%s should not be a SlotCommand", cmd.CommandName())
		}
	}
}
