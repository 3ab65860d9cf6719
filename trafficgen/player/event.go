package player

import "github.com/sarchlab/dramsweep/timing"

// enterDirectiveEvent moves the player to a directive. It is a secondary
// event so that all the packets of the previous phase go out first.
type enterDirectiveEvent struct {
	*timing.EventBase
	index int
}

func newEnterDirectiveEvent(
	t timing.Tick,
	handler timing.Handler,
	index int,
) *enterDirectiveEvent {
	return &enterDirectiveEvent{
		EventBase: timing.NewSecondaryEventBase(t, handler),
		index:     index,
	}
}

type issueEvent struct {
	*timing.EventBase
	index int
}

func newIssueEvent(
	t timing.Tick,
	handler timing.Handler,
	index int,
) *issueEvent {
	return &issueEvent{
		EventBase: timing.NewEventBase(t, handler),
		index:     index,
	}
}
