package fibonacci

// ProgressUpdate carries the progress state of one calculation from an
// engine to its consumers (UI, logs, metrics).
type ProgressUpdate struct {
	// CalculatorIndex identifies the calculation when several run at once.
	CalculatorIndex int
	// Value is the normalized progress, from 0.0 to 1.0.
	Value float64
}

// ProgressReporter is the callback engines use to report normalized
// progress (0.0 to 1.0) without depending on how it is delivered.
type ProgressReporter func(progress float64)

// weightsOf4[i] = 4^i. A fast-doubling step squares operands whose length
// doubles at every bit, and schoolbook multiplication is quadratic, so the
// cost of step i grows as 4^i.
var weightsOf4 [64]float64

func init() {
	weightsOf4[0] = 1
	for i := 1; i < len(weightsOf4); i++ {
		weightsOf4[i] = weightsOf4[i-1] * 4
	}
}

// CalcTotalWork returns the total work units of a fast-doubling run over
// numBits bits: 4^0 + 4^1 + ... + 4^(numBits-1).
//
// Parameters:
//   - numBits: The number of bits in the index.
//
// Returns:
//   - float64: The estimated total work units.
func CalcTotalWork(numBits int) float64 {
	var total float64
	for i := 0; i < numBits && i < len(weightsOf4); i++ {
		total += weightsOf4[i]
	}
	return total
}

// stepTracker accumulates per-step work and throttles progress reports.
type stepTracker struct {
	reporter     ProgressReporter
	threshold    float64
	total        float64
	done         float64
	lastReported float64
}

func newStepTracker(reporter ProgressReporter, threshold float64, numBits int) *stepTracker {
	if reporter == nil {
		reporter = func(float64) {}
	}
	return &stepTracker{reporter: reporter, threshold: threshold, total: CalcTotalWork(numBits)}
}

// step records the completion of the step that consumed bit i out of
// numBits (counting down from numBits-1 to 0) and reports when the change
// since the last report reaches the threshold, or at the boundaries.
func (t *stepTracker) step(i, numBits int) {
	idx := numBits - 1 - i
	if idx >= len(weightsOf4) {
		idx = len(weightsOf4) - 1
	}
	t.done += weightsOf4[idx]
	if t.total <= 0 {
		return
	}
	p := t.done / t.total
	if p-t.lastReported >= t.threshold || i == 0 || i == numBits-1 {
		t.reporter(p)
		t.lastReported = p
	}
}

// reportLinear reports progress of the linear engine after iteration i of k.
// Additions cost is proportional to operand length, which grows linearly with
// i, so completed work is (i/k)^2 of the total.
func reportLinear(reporter ProgressReporter, lastReported *float64, threshold float64, i, k int64) {
	if reporter == nil || k <= 0 {
		return
	}
	f := float64(i) / float64(k)
	p := f * f
	if p-*lastReported >= threshold || i == k {
		reporter(p)
		*lastReported = p
	}
}
