package lifecycle

import (
	"path/filepath"
	"testing"
	"time"

	"TradeSentinel/internal/model"
)

func longSignal() *model.TradeSignal {
	return &model.TradeSignal{
		Symbol:    "XAU/USD",
		Direction: model.Long,
		Entry:     100,
		Stop:      95,
		Targets:   []float64{115, 130, 150},
		Size:      0.2,
		Tier:      "phase1",
		CreatedAt: time.Now(),
	}
}

func shortSignal() *model.TradeSignal {
	return &model.TradeSignal{
		Symbol:    "XAU/USD",
		Direction: model.Short,
		Entry:     100,
		Stop:      105,
		Targets:   []float64{85, 70, 50},
		Size:      0.2,
		Tier:      "phase1",
		CreatedAt: time.Now(),
	}
}

func tick(price float64) model.PriceTick {
	return model.PriceTick{Symbol: "XAU/USD", Price: price, ObservedAt: time.Now()}
}

func observeKinds(t *testing.T, m *Monitor, price float64) []model.EventKind {
	t.Helper()
	events := m.Observe(tick(price))
	kinds := make([]model.EventKind, len(events))
	for i, ev := range events {
		kinds[i] = ev.Kind
	}
	return kinds
}

func assertKinds(t *testing.T, got, want []model.EventKind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected events %v, got %v", want, got)
		}
	}
}

func TestMonitor_LongFullRide(t *testing.T) {
	m := NewMonitor()
	pos := m.Track(longSignal())

	steps := []struct {
		price float64
		kinds []model.EventKind
		state model.LifecycleState
	}{
		{101, nil, model.StateNew},
		{102.5, []model.EventKind{model.EventBreakevenArm}, model.StateBreakevenArmed},
		{102.5, nil, model.StateBreakevenArmed}, // same tick twice, no re-fire
		{110, nil, model.StateBreakevenArmed},
		{115, []model.EventKind{model.EventPartialTake}, model.StatePartialTaken},
		{122.5, []model.EventKind{model.EventTrailActivate}, model.StateTrailing},
		{130, []model.EventKind{model.EventTarget2Hit}, model.StateTarget2Hit},
		{150, []model.EventKind{model.EventTarget3Close}, model.StateClosed},
	}
	for _, st := range steps {
		assertKinds(t, observeKinds(t, m, st.price), st.kinds)
		if pos.State != st.state {
			t.Fatalf("at price %.1f: expected state %s, got %s", st.price, st.state, pos.State)
		}
	}
	if pos.CloseReason != model.CloseTarget3 {
		t.Errorf("expected close reason TARGET3_HIT, got %s", pos.CloseReason)
	}
	if pos.ClosedAt.IsZero() {
		t.Error("closed position must carry a close time")
	}

	// Further ticks against a closed position are no-ops.
	assertKinds(t, observeKinds(t, m, 95), nil)
	if pos.CloseReason != model.CloseTarget3 {
		t.Errorf("close reason changed after closure: %s", pos.CloseReason)
	}
}

func TestMonitor_ImmediateStop(t *testing.T) {
	m := NewMonitor()
	pos := m.Track(longSignal())

	assertKinds(t, observeKinds(t, m, 94), []model.EventKind{model.EventStopClose})
	if pos.State != model.StateClosed || pos.CloseReason != model.CloseStop {
		t.Errorf("expected stop closure, got state=%s reason=%s", pos.State, pos.CloseReason)
	}
	if pos.BreakevenArmed || pos.PartialTaken {
		t.Error("stop from NEW must not fire management events first")
	}
}

func TestMonitor_OneTickCascade(t *testing.T) {
	m := NewMonitor()
	pos := m.Track(longSignal())

	// A single observation far beyond every threshold fires the whole
	// ladder in lifecycle order, each event carrying the state it produced.
	events := m.Observe(tick(150))
	want := []struct {
		kind  model.EventKind
		state model.LifecycleState
	}{
		{model.EventBreakevenArm, model.StateBreakevenArmed},
		{model.EventPartialTake, model.StatePartialTaken},
		{model.EventTrailActivate, model.StateTrailing},
		{model.EventTarget2Hit, model.StateTarget2Hit},
		{model.EventTarget3Close, model.StateClosed},
	}
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %d: %+v", len(want), len(events), events)
	}
	for i, w := range want {
		if events[i].Kind != w.kind || events[i].State != w.state {
			t.Errorf("event %d: expected %s/%s, got %s/%s",
				i, w.kind, w.state, events[i].Kind, events[i].State)
		}
	}
	if pos.State != model.StateClosed || pos.CloseReason != model.CloseTarget3 {
		t.Errorf("expected target closure, got state=%s reason=%s", pos.State, pos.CloseReason)
	}
}

func TestMonitor_StopBeatsReversal(t *testing.T) {
	m := NewMonitor()
	pos := m.Track(longSignal())

	assertKinds(t, observeKinds(t, m, 115), []model.EventKind{
		model.EventBreakevenArm, model.EventPartialTake,
	})
	// 94 satisfies both the stop and the reversal rule; the stop wins.
	assertKinds(t, observeKinds(t, m, 94), []model.EventKind{model.EventStopClose})
	if pos.CloseReason != model.CloseStop {
		t.Errorf("expected STOP_HIT, got %s", pos.CloseReason)
	}
}

func TestMonitor_ReversalAfterPartial(t *testing.T) {
	m := NewMonitor()
	pos := m.Track(longSignal())

	assertKinds(t, observeKinds(t, m, 115), []model.EventKind{
		model.EventBreakevenArm, model.EventPartialTake,
	})
	// Back below entry but above the stop: reversal exit.
	assertKinds(t, observeKinds(t, m, 99), []model.EventKind{model.EventReversalClose})
	if pos.State != model.StateClosed || pos.CloseReason != model.CloseRevers {
		t.Errorf("expected reversal closure, got state=%s reason=%s", pos.State, pos.CloseReason)
	}
}

func TestMonitor_NoReversalBeforePartial(t *testing.T) {
	m := NewMonitor()
	pos := m.Track(longSignal())

	// Below entry from NEW is drawdown, not a reversal exit.
	assertKinds(t, observeKinds(t, m, 98), nil)
	if pos.State != model.StateNew {
		t.Errorf("expected NEW, got %s", pos.State)
	}
}

func TestMonitor_ShortMirror(t *testing.T) {
	m := NewMonitor()
	pos := m.Track(shortSignal())

	steps := []struct {
		price float64
		kinds []model.EventKind
		state model.LifecycleState
	}{
		{99, nil, model.StateNew},
		{97.5, []model.EventKind{model.EventBreakevenArm}, model.StateBreakevenArmed},
		{85, []model.EventKind{model.EventPartialTake}, model.StatePartialTaken},
		{77.5, []model.EventKind{model.EventTrailActivate}, model.StateTrailing},
		{70, []model.EventKind{model.EventTarget2Hit}, model.StateTarget2Hit},
		{50, []model.EventKind{model.EventTarget3Close}, model.StateClosed},
	}
	for _, st := range steps {
		assertKinds(t, observeKinds(t, m, st.price), st.kinds)
		if pos.State != st.state {
			t.Fatalf("at price %.1f: expected state %s, got %s", st.price, st.state, pos.State)
		}
	}
	if pos.CloseReason != model.CloseTarget3 {
		t.Errorf("expected TARGET3_HIT, got %s", pos.CloseReason)
	}
}

func TestMonitor_ShortStop(t *testing.T) {
	m := NewMonitor()
	pos := m.Track(shortSignal())

	assertKinds(t, observeKinds(t, m, 106), []model.EventKind{model.EventStopClose})
	if pos.CloseReason != model.CloseStop {
		t.Errorf("expected STOP_HIT, got %s", pos.CloseReason)
	}
}

func TestMonitor_SymbolFilter(t *testing.T) {
	m := NewMonitor()
	pos := m.Track(longSignal())

	events := m.Observe(model.PriceTick{Symbol: "EUR/USD", Price: 94, ObservedAt: time.Now()})
	if len(events) != 0 {
		t.Errorf("tick on another symbol produced events: %v", events)
	}
	if pos.State != model.StateNew {
		t.Errorf("expected NEW, got %s", pos.State)
	}
}

func TestMonitor_TrackAndRelease(t *testing.T) {
	m := NewMonitor()
	a := m.Track(longSignal())
	b := m.Track(shortSignal())
	if a.ID == b.ID {
		t.Fatal("position IDs must be unique")
	}
	if got := len(m.OpenPositions()); got != 2 {
		t.Fatalf("expected 2 open positions, got %d", got)
	}

	m.Release(a.ID)
	if _, ok := m.Position(a.ID); ok {
		t.Error("released position still tracked")
	}
	if got := len(m.OpenPositions()); got != 1 {
		t.Errorf("expected 1 open position, got %d", got)
	}
}

func TestCheckpointRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "positions.json")

	m := NewMonitor()
	open := m.Track(longSignal())
	closedSig := shortSignal()
	closedSig.Symbol = "EUR/USD"
	closed := m.Track(closedSig)
	// Stop out the short without touching the long.
	m.Observe(model.PriceTick{Symbol: "EUR/USD", Price: 106, ObservedAt: time.Now()})

	if err := m.Checkpoint(path); err != nil {
		t.Fatalf("checkpoint: %v", err)
	}

	positions, err := LoadPositions(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	restored := NewMonitor()
	if n := restored.Restore(positions); n != 1 {
		t.Fatalf("expected 1 restored position, got %d", n)
	}
	got, ok := restored.Position(open.ID)
	if !ok {
		t.Fatal("open position missing after restore")
	}
	if got.Signal.Entry != 100 || got.State != model.StateNew {
		t.Errorf("restored position mismatch: %+v", got)
	}
	if _, ok := restored.Position(closed.ID); ok {
		t.Error("closed position must not be restored")
	}

	// The restored book keeps advancing.
	events := restored.Observe(tick(102.5))
	if len(events) != 1 || events[0].Kind != model.EventBreakevenArm {
		t.Errorf("expected breakeven arm after restore, got %v", events)
	}
}

func TestLoadPositions_MissingFile(t *testing.T) {
	positions, err := LoadPositions(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if positions != nil {
		t.Errorf("expected empty book, got %v", positions)
	}
}
