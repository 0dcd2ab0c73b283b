package fibonacci

// Options configures a Fibonacci calculation.
type Options struct {
	// DisableSmallPath forces the wrapped engine to run even for indices
	// that fit the 128-bit fast path. Used when timing or cross-checking the
	// engines themselves.
	DisableSmallPath bool
	// CancelCheckInterval is the number of linear-engine iterations between
	// context checks. If 0, DefaultCancelCheckInterval is used.
	CancelCheckInterval int
	// ProgressThreshold is the minimum progress change (0.0 to 1.0) between
	// two reports. If 0, ProgressReportThreshold is used.
	ProgressThreshold float64
}

// normalizeOptions returns a copy of opts with default values filled in for
// zero values.
//
// Parameters:
//   - opts: The options to normalize.
//
// Returns:
//   - Options: A normalized copy of opts with defaults applied.
func normalizeOptions(opts Options) Options {
	normalized := opts
	if normalized.CancelCheckInterval <= 0 {
		normalized.CancelCheckInterval = DefaultCancelCheckInterval
	}
	if normalized.ProgressThreshold <= 0 {
		normalized.ProgressThreshold = ProgressReportThreshold
	}
	return normalized
}
