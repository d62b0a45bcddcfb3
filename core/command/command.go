// Package command holds the requests the presentation layer sends to the
// coordinator and slot actors.
package command

// Command is a request handled by the coordinator or a slot actor.
type Command interface {
	// CommandName identifies the command in logs.
	CommandName() string
}

// SlotCommand is routed to the actor owning Slot().
type SlotCommand interface {
	Command
	Slot() int
}

// slotTarget is embedded by every slot command.
type slotTarget struct {
	slot int
}

func (c *slotTarget) Slot() int {
	return c.slot
}
