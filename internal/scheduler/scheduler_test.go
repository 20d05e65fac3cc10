package scheduler

import (
	"context"
	"strings"
	"testing"

	"TradeSentinel/internal/collector"
	"TradeSentinel/internal/lifecycle"
	"TradeSentinel/internal/model"
	"TradeSentinel/internal/recorder"
)

type captureNotifier struct {
	messages []string
}

func (c *captureNotifier) SendWithRetry(_ context.Context, text string, _ int) error {
	c.messages = append(c.messages, text)
	return nil
}

type captureRecorder struct {
	signals []*recorder.SignalRecord
	events  []*recorder.EventRecord
}

func (c *captureRecorder) RecordSignal(rec *recorder.SignalRecord) error {
	c.signals = append(c.signals, rec)
	return nil
}

func (c *captureRecorder) RecordEvent(rec *recorder.EventRecord) error {
	c.events = append(c.events, rec)
	return nil
}

func (c *captureRecorder) Close() error { return nil }

func testScheduler() *Scheduler {
	col := collector.NewCollector(&collector.MockFetcher{Price: 2400}, "XAU/USD")
	return NewScheduler(context.Background(), col, nil, lifecycle.NewMonitor(),
		nil, recorder.NewNoopRecorder(), model.Account{Balance: 10000, Tier: "phase1"}, "")
}

func TestHandleCommand_Status(t *testing.T) {
	s := testScheduler()
	reply := s.HandleCommand("/status")
	for _, want := range []string{"XAU/USD", "phase1", "Open positions: 0"} {
		if !strings.Contains(reply, want) {
			t.Errorf("status missing %q:\n%s", want, reply)
		}
	}
}

func TestHandleCommand_Positions(t *testing.T) {
	s := testScheduler()
	if reply := s.HandleCommand("/positions"); !strings.Contains(reply, "No open positions") {
		t.Errorf("unexpected empty-book reply: %s", reply)
	}

	s.Monitor.Track(&model.TradeSignal{
		Symbol: "XAU/USD", Direction: model.Long,
		Entry: 2400, Stop: 2390, Targets: []float64{2430, 2460, 2500}, Size: 0.2,
	})
	if reply := s.HandleCommand("/positions"); !strings.Contains(reply, "Open positions (1)") {
		t.Errorf("expected one open position:\n%s", reply)
	}
}

func TestHandleCommand_Unknown(t *testing.T) {
	s := testScheduler()
	if reply := s.HandleCommand("/bogus"); !strings.Contains(reply, "Available commands") {
		t.Errorf("unexpected help reply: %s", reply)
	}
}

func TestPollTask_ClosingCascadeKeepsEveryEvent(t *testing.T) {
	// A price gap straight to the final target closes the position in a
	// single observation. Every event of that cascade, including the
	// terminal close, must still reach the notifier and the recorder
	// before the position leaves the book.
	nt := &captureNotifier{}
	rec := &captureRecorder{}
	col := collector.NewCollector(&collector.MockFetcher{Price: 150}, "XAU/USD")
	s := NewScheduler(context.Background(), col, nil, lifecycle.NewMonitor(),
		nt, rec, model.Account{Balance: 10000, Tier: "phase1"}, "")

	pos := s.Monitor.Track(&model.TradeSignal{
		Symbol: "XAU/USD", Direction: model.Long,
		Entry: 100, Stop: 95, Targets: []float64{115, 130, 150}, Size: 0.2,
	})

	s.pollTask()

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
	if len(rec.events) != len(want) {
		got := make([]model.EventKind, len(rec.events))
		for i, e := range rec.events {
			got[i] = e.Event.Kind
		}
		t.Fatalf("expected %d recorded events, got %d: %v", len(want), len(got), got)
	}
	for i, w := range want {
		ev := rec.events[i].Event
		if ev.Kind != w.kind || ev.State != w.state {
			t.Errorf("event %d: expected %s/%s, got %s/%s", i, w.kind, w.state, ev.Kind, ev.State)
		}
	}
	if len(nt.messages) != len(want) {
		t.Errorf("expected %d notifications, got %d", len(want), len(nt.messages))
	}

	// Only after the whole cascade is handled does the position leave.
	if _, ok := s.Monitor.Position(pos.ID); ok {
		t.Error("closed position must be released after the cascade")
	}
	if got := len(s.Monitor.OpenPositions()); got != 0 {
		t.Errorf("expected empty book, got %d positions", got)
	}
}

func TestRegisterAll_RejectsBadSpec(t *testing.T) {
	s := testScheduler()
	if err := s.RegisterAll("not a cron spec", "0 * * * * *"); err == nil {
		t.Error("expected error for invalid cron spec")
	}
	if err := s.RegisterAll("0 */15 * * * *", "0 * * * * *"); err != nil {
		t.Errorf("valid specs must register: %v", err)
	}
}
