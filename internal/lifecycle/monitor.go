package lifecycle

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"TradeSentinel/internal/model"
)

// Monitor tracks open positions against a live price stream, driving each
// PositionState through its one-directional lifecycle and emitting every
// risk-management event at most once. Updates are serialized per position,
// not globally: observations for different positions may run concurrently.
type Monitor struct {
	mu        sync.Mutex
	positions map[string]*trackedPosition
}

type trackedPosition struct {
	mu    sync.Mutex
	state *model.PositionState
}

// NewMonitor creates an empty Monitor.
func NewMonitor() *Monitor {
	return &Monitor{positions: make(map[string]*trackedPosition)}
}

// Track accepts a TradeSignal for live tracking, assigning it a position
// ID. The monitor is the sole mutator of the returned state from here on.
func (m *Monitor) Track(signal *model.TradeSignal) *model.PositionState {
	state := &model.PositionState{
		ID:       uuid.New().String(),
		Signal:   signal,
		State:    model.StateNew,
		OpenedAt: time.Now(),
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions[state.ID] = &trackedPosition{state: state}
	return state
}

// Position returns the state for an ID, if tracked.
func (m *Monitor) Position(id string) (*model.PositionState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tp, ok := m.positions[id]
	if !ok {
		return nil, false
	}
	return tp.state, true
}

// OpenPositions returns all tracked positions that are not yet closed.
func (m *Monitor) OpenPositions() []*model.PositionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	var open []*model.PositionState
	for _, tp := range m.positions {
		if !tp.state.Closed() {
			open = append(open, tp.state)
		}
	}
	return open
}

// Release drops a position from tracking, normally after closure has been
// notified and recorded.
func (m *Monitor) Release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.positions, id)
}

// Observe applies a price tick to every tracked position on its symbol and
// returns the lifecycle events fired, in transition order per position.
// Ticks against closed positions are no-ops.
func (m *Monitor) Observe(tick model.PriceTick) []model.LifecycleEvent {
	m.mu.Lock()
	matched := make([]*trackedPosition, 0, len(m.positions))
	for _, tp := range m.positions {
		if tp.state.Signal.Symbol == tick.Symbol {
			matched = append(matched, tp)
		}
	}
	m.mu.Unlock()

	var events []model.LifecycleEvent
	for _, tp := range matched {
		tp.mu.Lock()
		events = append(events, advance(tp.state, tick.Price, tick.ObservedAt)...)
		tp.mu.Unlock()
	}
	return events
}

// favorable reports whether price has reached a level in the trade
// direction; every comparison in the machine mirrors this way so longs
// and shorts behave symmetrically.
func favorable(dir model.Direction, price, level float64) bool {
	if dir == model.Long {
		return price >= level
	}
	return price <= level
}

// stopped reports whether price has reached the stop against the trade.
func stopped(dir model.Direction, price, stop float64) bool {
	if dir == model.Long {
		return price <= stop
	}
	return price >= stop
}

// reversed reports whether price has crossed back through entry against
// the trade direction.
func reversed(dir model.Direction, price, entry float64) bool {
	if dir == model.Long {
		return price < entry
	}
	return price > entry
}

// advance applies one observation to one position: read the flags, fire
// whichever transitions the price now satisfies, and never re-fire a flag
// already set. A single observation may cross several thresholds; events
// come out in lifecycle order. The stop exit always wins over target
// thresholds crossed in the same observation.
func advance(p *model.PositionState, price float64, at time.Time) []model.LifecycleEvent {
	if p.Closed() {
		return nil
	}

	sig := p.Signal
	dir := sig.Direction
	// Each transition mutates the state before its event is built, so the
	// event carries the state it produced.
	event := func(kind model.EventKind) model.LifecycleEvent {
		return model.LifecycleEvent{PositionID: p.ID, Kind: kind, State: p.State, Price: price, Time: at}
	}
	terminate := func(reason model.CloseReason) {
		p.State = model.StateClosed
		p.CloseReason = reason
		p.ClosedAt = at
	}

	if stopped(dir, price, sig.Stop) {
		terminate(model.CloseStop)
		return []model.LifecycleEvent{event(model.EventStopClose)}
	}

	if (p.State == model.StatePartialTaken || p.State == model.StateTrailing) &&
		reversed(dir, price, sig.Entry) {
		terminate(model.CloseRevers)
		return []model.LifecycleEvent{event(model.EventReversalClose)}
	}

	t1 := sig.Targets[0]
	final := sig.Targets[len(sig.Targets)-1]
	var t2 float64
	hasMid := len(sig.Targets) >= 3
	if hasMid {
		t2 = sig.Targets[1]
	}

	var events []model.LifecycleEvent

	// Breakeven arms once price has moved favorably by half the initial
	// risk distance; the same expression mirrors for shorts because
	// entry-stop flips sign.
	if p.State == model.StateNew && !p.BreakevenArmed &&
		favorable(dir, price, sig.Entry+0.5*(sig.Entry-sig.Stop)) {
		p.BreakevenArmed = true
		p.State = model.StateBreakevenArmed
		events = append(events, event(model.EventBreakevenArm))
	}

	if (p.State == model.StateNew || p.State == model.StateBreakevenArmed) &&
		!p.PartialTaken && favorable(dir, price, t1) {
		p.PartialTaken = true
		p.State = model.StatePartialTaken
		events = append(events, event(model.EventPartialTake))
	}

	if hasMid {
		if p.State == model.StatePartialTaken && !p.TrailingActive &&
			favorable(dir, price, t1+0.5*(t2-t1)) {
			p.TrailingActive = true
			p.State = model.StateTrailing
			events = append(events, event(model.EventTrailActivate))
		}

		if (p.State == model.StatePartialTaken || p.State == model.StateTrailing) &&
			!p.Target2Hit && favorable(dir, price, t2) {
			p.Target2Hit = true
			p.State = model.StateTarget2Hit
			events = append(events, event(model.EventTarget2Hit))
		}
	}

	if !p.Target3Hit && favorable(dir, price, final) {
		p.Target3Hit = true
		terminate(model.CloseTarget3)
		events = append(events, event(model.EventTarget3Close))
	}

	return events
}
