package recorder

import (
	"TradeSentinel/internal/model"
	"TradeSentinel/internal/strategy"
)

// SignalRecord holds all data for one emitted trade signal.
type SignalRecord struct {
	PositionID string
	Evaluation *strategy.Evaluation
	Signal     *model.TradeSignal
}

// EventRecord holds one lifecycle event together with the position it
// belongs to.
type EventRecord struct {
	Event    model.LifecycleEvent
	Position *model.PositionState
}

// Recorder persists emitted signals and lifecycle events for analysis.
type Recorder interface {
	RecordSignal(rec *SignalRecord) error
	RecordEvent(rec *EventRecord) error
	Close() error
}
