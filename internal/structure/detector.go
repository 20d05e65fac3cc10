package structure

// Config holds the look-back and tolerance policy for all detectors.
// These were module-level constants scattered across the source variants;
// they are explicit configuration here so evaluations stay deterministic
// and testable.
type Config struct {
	MinBiasBars    int     // minimum bars before bias is attempted
	BiasSwings     int     // swing highs/lows compared for bias
	ShiftWindow    int     // trailing bars (excluding current) for break of structure
	EqualTolerance float64 // relative tolerance for equal highs/lows, e.g. 0.001 = 0.1%
	SweepLookback  int     // recent bars scanned for liquidity sweeps
	POILookback    int     // recent bars scanned for POI candidates
}

// DefaultConfig returns the canonical detector policy.
func DefaultConfig() Config {
	return Config{
		MinBiasBars:    5,
		BiasSwings:     2,
		ShiftWindow:    4,
		EqualTolerance: 0.001,
		SweepLookback:  5,
		POILookback:    30,
	}
}

// Detector runs the structural detectors against candle series.
// Each method is a pure function of its inputs; a Detector is safe for
// concurrent use across symbols.
type Detector struct {
	cfg Config
}

// New creates a Detector with the given policy.
func New(cfg Config) *Detector {
	return &Detector{cfg: cfg}
}
