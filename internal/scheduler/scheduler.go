package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"TradeSentinel/internal/collector"
	"TradeSentinel/internal/lifecycle"
	"TradeSentinel/internal/model"
	"TradeSentinel/internal/notifier"
	"TradeSentinel/internal/recorder"
	"TradeSentinel/internal/strategy"

	"github.com/robfig/cron/v3"
)

// Notifier delivers outbound alert messages.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages all cron tasks: periodic strategy evaluation and the
// price poll that drives open position lifecycles.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Engine    *strategy.Engine
	Monitor   *lifecycle.Monitor
	Notifier  Notifier
	Recorder  recorder.Recorder
	Account   model.Account
	StateFile string
	Ctx       context.Context

	// NotifyNoSetup sends a message even when evaluation yields no signal.
	NotifyNoSetup bool
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, eng *strategy.Engine,
	mon *lifecycle.Monitor, tn Notifier, rec recorder.Recorder,
	acct model.Account, stateFile string) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Engine:    eng,
		Monitor:   mon,
		Notifier:  tn,
		Recorder:  rec,
		Account:   acct,
		StateFile: stateFile,
		Ctx:       ctx,
	}
}

// RegisterAll registers the evaluation and price poll tasks.
func (s *Scheduler) RegisterAll(evalCron, pollCron string) error {
	if _, err := s.Cron.AddFunc(evalCron, s.evaluateTask); err != nil {
		return fmt.Errorf("register evaluate task: %w", err)
	}
	if _, err := s.Cron.AddFunc(pollCron, s.pollTask); err != nil {
		return fmt.Errorf("register poll task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunEvaluateNow executes the evaluation task immediately (for manual
// trigger / RUN_ON_START).
func (s *Scheduler) RunEvaluateNow() {
	s.evaluateTask()
}

func (s *Scheduler) evaluateTask() {
	log.Println("[INFO] running strategy evaluation")
	data, err := s.Collector.Collect()
	if err != nil {
		log.Printf("[ERROR] evaluate collect: %v", err)
		s.trySend(fmt.Sprintf("❌ Market data collection failed: %v", err))
		return
	}

	ev, err := s.Engine.Evaluate(data.HTF, data.LTF, s.Account)
	if err != nil {
		log.Printf("[ERROR] evaluate: %v", err)
		return
	}
	if ev.Signal == nil {
		log.Printf("[INFO] no setup for %s: %s", s.Collector.Symbol, ev.Reason)
		if s.NotifyNoSetup {
			s.trySend(notifier.FormatNoSetup(s.Collector.Symbol, ev))
		}
		return
	}

	pos := s.Monitor.Track(ev.Signal)
	log.Printf("[INFO] new signal: %s %s entry=%.2f stop=%.2f confidence=%d position=%s",
		ev.Signal.Symbol, ev.Signal.Direction, ev.Signal.Entry, ev.Signal.Stop,
		ev.Signal.Confidence, pos.ID)

	s.trySend(notifier.FormatSignal(ev, ev.Signal, pos.ID))

	if err := s.Recorder.RecordSignal(&recorder.SignalRecord{
		PositionID: pos.ID,
		Evaluation: ev,
		Signal:     ev.Signal,
	}); err != nil {
		log.Printf("[ERROR] record signal: %v", err)
	}
	s.checkpoint()
}

func (s *Scheduler) pollTask() {
	open := s.Monitor.OpenPositions()
	if len(open) == 0 {
		return
	}

	price, err := s.Collector.Fetcher.FetchCurrentPrice(s.Collector.Symbol)
	if err != nil {
		log.Printf("[ERROR] poll price: %v", err)
		return
	}

	// Snapshot the book before handling events: a single observation can
	// close a position mid-cascade, and every event of that cascade still
	// has to be notified and recorded before the position is released.
	book := make(map[string]*model.PositionState, len(open))
	for _, p := range open {
		book[p.ID] = p
	}

	events := s.Monitor.Observe(model.PriceTick{
		Symbol:     s.Collector.Symbol,
		Price:      price,
		ObservedAt: time.Now(),
	})
	if len(events) == 0 {
		return
	}

	for _, ev := range events {
		pos, ok := book[ev.PositionID]
		if !ok {
			continue
		}
		log.Printf("[INFO] position %s event %s at %.2f (state %s)",
			ev.PositionID, ev.Kind, ev.Price, ev.State)
		s.trySend(notifier.FormatLifecycleEvent(pos, ev))
		if err := s.Recorder.RecordEvent(&recorder.EventRecord{Event: ev, Position: pos}); err != nil {
			log.Printf("[ERROR] record event: %v", err)
		}
	}
	for _, pos := range book {
		if pos.Closed() {
			s.Monitor.Release(pos.ID)
		}
	}
	s.checkpoint()
}

func (s *Scheduler) checkpoint() {
	if s.StateFile == "" {
		return
	}
	if err := s.Monitor.Checkpoint(s.StateFile); err != nil {
		log.Printf("[ERROR] checkpoint positions: %v", err)
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/signal":
		s.evaluateTask()
		return ""
	case "/positions":
		return notifier.FormatPositions(s.Monitor.OpenPositions())
	case "/status":
		return fmt.Sprintf("✅ <b>TradeSentinel</b>\n\nSymbol: %s\nTier: %s\nBalance: %.2f\nOpen positions: %d",
			s.Collector.Symbol, s.Account.Tier, s.Account.Balance, len(s.Monitor.OpenPositions()))
	default:
		return "Available commands:\n• /signal - run evaluation now\n• /positions - list open positions\n• /status - bot status"
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
