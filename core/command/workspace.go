package command

// ResetWorkspace clears every slot. Sent when the segmentation view is entered.
type ResetWorkspace struct{}

func (c *ResetWorkspace) CommandName() string {
	return "ResetWorkspace"
}

// RefreshHistory requests the most recent job records.
type RefreshHistory struct {
	Limit int
}

func (c *RefreshHistory) CommandName() string {
	return "RefreshHistory"
}

// ClearHistory removes all job records.
type ClearHistory struct{}

func (c *ClearHistory) CommandName() string {
	return "ClearHistory"
}
