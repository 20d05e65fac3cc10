package model

import "time"

// LifecycleState is the position state machine state. Transitions are
// one-directional; Closed is terminal.
type LifecycleState string

const (
	StateNew            LifecycleState = "NEW"
	StateBreakevenArmed LifecycleState = "BREAKEVEN_ARMED"
	StatePartialTaken   LifecycleState = "PARTIAL_TAKEN"
	StateTrailing       LifecycleState = "TRAILING"
	StateTarget2Hit     LifecycleState = "TARGET2_HIT"
	StateClosed         LifecycleState = "CLOSED"
)

// CloseReason records how a position reached StateClosed.
type CloseReason string

const (
	CloseNone    CloseReason = ""
	CloseTarget3 CloseReason = "TARGET3_HIT"
	CloseStop    CloseReason = "STOP_HIT"
	CloseRevers  CloseReason = "REVERSED"
)

// EventKind enumerates the risk-management events a position can emit.
type EventKind string

const (
	EventBreakevenArm  EventKind = "BREAKEVEN_ARM"  // move stop to entry
	EventPartialTake   EventKind = "PARTIAL_TAKE"   // take partial profit
	EventTrailActivate EventKind = "TRAIL_ACTIVATE" // activate trailing stop
	EventTarget2Hit    EventKind = "TARGET2_HIT"    // target 2 reached
	EventTarget3Close  EventKind = "TARGET3_CLOSE"  // final target, close
	EventStopClose     EventKind = "STOP_CLOSE"     // stop hit, close
	EventReversalClose EventKind = "REVERSAL_CLOSE" // reversal exit
)

// LifecycleEvent is emitted once per transition, carrying enough context
// for the notification and persistence collaborators.
type LifecycleEvent struct {
	PositionID string
	Kind       EventKind
	// State is the lifecycle state the position entered with this event,
	// captured at emission so a multi-event cascade reports each step
	// rather than the final state.
	State LifecycleState
	Price float64
	Time  time.Time
}

// PositionState is the mutable record attached 1:1 to a tracked TradeSignal.
// Mutated only by the lifecycle monitor; each flag guards its event so no
// event is ever emitted twice.
type PositionState struct {
	ID     string       `json:"id"`
	Signal *TradeSignal `json:"signal"`

	State       LifecycleState `json:"state"`
	CloseReason CloseReason    `json:"close_reason,omitempty"`

	BreakevenArmed bool `json:"breakeven_armed"`
	PartialTaken   bool `json:"partial_taken"`
	TrailingActive bool `json:"trailing_active"`
	Target2Hit     bool `json:"target2_hit"`
	Target3Hit     bool `json:"target3_hit"`

	OpenedAt time.Time `json:"opened_at"`
	ClosedAt time.Time `json:"closed_at,omitempty"`
}

// Closed reports whether the position is terminal.
func (p *PositionState) Closed() bool { return p.State == StateClosed }

// PriceTick is the latest observed price for a monitored symbol.
type PriceTick struct {
	Symbol     string
	Price      float64
	ObservedAt time.Time
}
