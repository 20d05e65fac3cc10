package notifier

import (
	"fmt"
	"strings"

	"TradeSentinel/internal/model"
	"TradeSentinel/internal/strategy"
)

func directionEmoji(d model.Direction) string {
	if d == model.Long {
		return "🟢"
	}
	return "🔴"
}

// FormatSignal renders a new trade signal as a Telegram HTML message.
func FormatSignal(ev *strategy.Evaluation, sig *model.TradeSignal, positionID string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s <b>New Signal: %s %s</b>\n\n", directionEmoji(sig.Direction), sig.Symbol, sig.Direction))
	b.WriteString(fmt.Sprintf("Entry: <code>%.2f</code>\n", sig.Entry))
	b.WriteString(fmt.Sprintf("Stop: <code>%.2f</code>\n", sig.Stop))
	for i, t := range sig.Targets {
		b.WriteString(fmt.Sprintf("TP%d: <code>%.2f</code>\n", i+1, t))
	}
	b.WriteString(fmt.Sprintf("Size: <code>%.2f</code> lots\n", sig.Size))
	b.WriteString(fmt.Sprintf("Confidence: <b>%d/100</b>\n", sig.Confidence))
	b.WriteString(fmt.Sprintf("Tier: %s\n", sig.Tier))
	if ev != nil {
		b.WriteString(fmt.Sprintf("\nBias: %s", ev.Bias))
		if ev.Shift.Confirmed {
			b.WriteString(" | Structure shift confirmed")
		}
		if ev.POI != nil {
			b.WriteString(fmt.Sprintf("\nPOI: %s [%.2f, %.2f]", ev.POI.Kind, ev.POI.Lower, ev.POI.Upper))
		}
		if len(ev.Zones) > 0 {
			b.WriteString(fmt.Sprintf("\nLiquidity zones: %d", len(ev.Zones)))
		}
	}
	b.WriteString(fmt.Sprintf("\n\nPosition: <code>%s</code>", shortID(positionID)))
	return b.String()
}

var eventHeadlines = map[model.EventKind]string{
	model.EventBreakevenArm:  "🔒 Breakeven armed",
	model.EventPartialTake:   "💰 Partial taken at TP1",
	model.EventTrailActivate: "📈 Trailing activated",
	model.EventTarget2Hit:    "🎯 TP2 reached",
	model.EventTarget3Close:  "🏆 TP3 hit, position closed",
	model.EventStopClose:     "🛑 Stop hit, position closed",
	model.EventReversalClose: "↩️ Reversal exit, position closed",
}

// FormatLifecycleEvent renders a single lifecycle transition.
func FormatLifecycleEvent(state *model.PositionState, ev model.LifecycleEvent) string {
	headline, ok := eventHeadlines[ev.Kind]
	if !ok {
		headline = string(ev.Kind)
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<b>%s</b>\n\n", headline))
	b.WriteString(fmt.Sprintf("%s %s %s\n", directionEmoji(state.Signal.Direction), state.Signal.Symbol, state.Signal.Direction))
	b.WriteString(fmt.Sprintf("Price: <code>%.2f</code>\n", ev.Price))
	b.WriteString(fmt.Sprintf("State: %s\n", ev.State))
	if ev.State == model.StateClosed && state.CloseReason != "" {
		b.WriteString(fmt.Sprintf("Reason: %s\n", state.CloseReason))
	}
	b.WriteString(fmt.Sprintf("Position: <code>%s</code>", shortID(ev.PositionID)))
	return b.String()
}

// FormatPositions renders the open position list for the /positions command.
func FormatPositions(positions []*model.PositionState) string {
	if len(positions) == 0 {
		return "📭 No open positions."
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<b>Open positions (%d)</b>\n", len(positions)))
	for _, p := range positions {
		b.WriteString(fmt.Sprintf("\n%s <b>%s %s</b> [%s]\n", directionEmoji(p.Signal.Direction), p.Signal.Symbol, p.Signal.Direction, shortID(p.ID)))
		b.WriteString(fmt.Sprintf("  Entry %.2f | Stop %.2f | Size %.2f\n", p.Signal.Entry, p.Signal.Stop, p.Signal.Size))
		b.WriteString(fmt.Sprintf("  State: %s | Opened %s\n", p.State, p.OpenedAt.Format("01-02 15:04")))
	}
	return b.String()
}

// FormatNoSetup renders an evaluation that produced no signal.
func FormatNoSetup(symbol string, ev *strategy.Evaluation) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔍 <b>%s</b>: no setup\n\n", symbol))
	b.WriteString(fmt.Sprintf("Bias: %s\n", ev.Bias))
	if ev.Reason != "" {
		b.WriteString(fmt.Sprintf("Reason: %s\n", ev.Reason))
	}
	if ev.Confidence > 0 {
		b.WriteString(fmt.Sprintf("Confidence: %d/100\n", ev.Confidence))
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
