package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	"TradeSentinel/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists signals and lifecycle events to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signals (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			position_id     TEXT,
			symbol          TEXT NOT NULL,
			direction       TEXT NOT NULL,
			entry           REAL,
			stop            REAL,
			target1         REAL,
			target2         REAL,
			target3         REAL,
			size            REAL,
			confidence      INTEGER,
			tier            TEXT,
			bias            TEXT,
			shift_confirmed INTEGER,
			liquidity_zones INTEGER,
			poi_kind        TEXT,
			poi_upper       REAL,
			poi_lower       REAL,
			confirmed       INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_ts ON signals(timestamp)`,

		`CREATE TABLE IF NOT EXISTS position_events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			position_id TEXT NOT NULL,
			symbol      TEXT NOT NULL,
			event_kind  TEXT NOT NULL,
			price       REAL,
			state       TEXT,
			close_reason TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_ts ON position_events(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_events_position ON position_events(position_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSignal(rec *SignalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sig := rec.Signal
	ev := rec.Evaluation

	// Targets are a fixed three-rung ladder in the canonical config; pad
	// shorter ladders with zeros rather than failing the insert.
	targets := make([]float64, 3)
	for i := 0; i < len(sig.Targets) && i < 3; i++ {
		targets[i] = sig.Targets[i]
	}

	var poiKind string
	var poiUpper, poiLower float64
	if ev.POI != nil {
		poiKind = string(ev.POI.Kind)
		poiUpper = ev.POI.Upper
		poiLower = ev.POI.Lower
	}

	_, err := r.db.Exec(`INSERT INTO signals
		(timestamp, position_id, symbol, direction, entry, stop,
		 target1, target2, target3, size, confidence, tier,
		 bias, shift_confirmed, liquidity_zones, poi_kind, poi_upper, poi_lower, confirmed)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		sig.CreatedAt.Unix(), rec.PositionID, sig.Symbol, string(sig.Direction),
		sig.Entry, sig.Stop, targets[0], targets[1], targets[2],
		sig.Size, sig.Confidence, sig.Tier,
		string(ev.Bias), boolToInt(ev.Shift.Confirmed), len(ev.Zones),
		poiKind, poiUpper, poiLower, boolToInt(ev.Confirmed),
	)
	return err
}

func (r *SQLiteRecorder) RecordEvent(rec *EventRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// The event carries its own state; the position may already have
	// advanced past it within the same observation.
	var closeReason string
	if rec.Event.State == model.StateClosed {
		closeReason = string(rec.Position.CloseReason)
	}
	_, err := r.db.Exec(`INSERT INTO position_events
		(timestamp, position_id, symbol, event_kind, price, state, close_reason)
		VALUES (?,?,?,?,?,?,?)`,
		rec.Event.Time.Unix(), rec.Event.PositionID, rec.Position.Signal.Symbol,
		string(rec.Event.Kind), rec.Event.Price,
		string(rec.Event.State), closeReason,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
