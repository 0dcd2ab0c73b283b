package fibonacci

const (
	// DefaultCancelCheckInterval is how many additions the linear engine
	// performs between two context checks.
	DefaultCancelCheckInterval = 1024

	// ProgressReportThreshold is the minimum progress change (0.0 to 1.0)
	// required before a new progress update is sent.
	//
	// A value of 0.01 (1%) provides smooth progress updates without overhead.
	ProgressReportThreshold = 0.01

	// MaxFibInt64 is the largest index whose Fibonacci number fits in an
	// int64. The machine-integer strategies wrap around past it.
	MaxFibInt64 = 92
)
