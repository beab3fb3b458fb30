package trigger

import (
	"fmt"
	"time"
)

// EventKind is what caused an invocation.
type EventKind int

const (
	// EventTime is a scheduled invocation. It is the only kind the driver
	// acts on.
	EventTime EventKind = iota + 1
	// EventData is an invocation caused by a change of ledger data.
	EventData
	// EventExecute is an explicit call.
	EventExecute
)

func (k EventKind) String() string {
	switch k {
	case EventTime:
		return "time"
	case EventData:
		return "data"
	case EventExecute:
		return "execute"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one invocation of a trigger.
type Event struct {
	// TriggerID selects the trigger configuration.
	TriggerID string
	Kind      EventKind
	Time      time.Time
}

// NewTimeEvent returns the event the scheduler fires for triggerID.
func NewTimeEvent(triggerID string, t time.Time) Event {
	return Event{TriggerID: triggerID, Kind: EventTime, Time: t}
}
