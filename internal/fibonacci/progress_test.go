package fibonacci

import "testing"

func TestCalcTotalWork(t *testing.T) {
	t.Parallel()
	tests := []struct {
		numBits int
		want    float64
	}{
		{0, 0},
		{1, 1},
		{2, 5},
		{3, 21},
		{10, (1<<20 - 1) / 3},
	}
	for _, tc := range tests {
		if got := CalcTotalWork(tc.numBits); got != tc.want {
			t.Errorf("CalcTotalWork(%d) = %v, want %v", tc.numBits, got, tc.want)
		}
	}
	if CalcTotalWork(64) <= CalcTotalWork(63) {
		t.Error("CalcTotalWork not increasing at 64 bits")
	}
}

func TestStepTracker(t *testing.T) {
	t.Parallel()
	var reports []float64
	const numBits = 20
	tracker := newStepTracker(func(p float64) { reports = append(reports, p) }, 0.05, numBits)
	for i := numBits - 1; i >= 0; i-- {
		tracker.step(i, numBits)
	}
	if len(reports) < 2 {
		t.Fatalf("expected at least 2 reports, got %v", reports)
	}
	for i := 1; i < len(reports); i++ {
		if reports[i] < reports[i-1] {
			t.Fatalf("progress not monotonic: %v", reports)
		}
	}
	if last := reports[len(reports)-1]; last != 1.0 {
		t.Errorf("final progress = %v, want 1.0", last)
	}
}

func TestStepTrackerNilReporter(t *testing.T) {
	t.Parallel()
	tracker := newStepTracker(nil, ProgressReportThreshold, 3)
	for i := 2; i >= 0; i-- {
		tracker.step(i, 3)
	}
}

func TestReportLinear(t *testing.T) {
	t.Parallel()
	var reports []float64
	reporter := func(p float64) { reports = append(reports, p) }
	var last float64
	for i := int64(1); i <= 100; i++ {
		reportLinear(reporter, &last, 0.1, i, 100)
	}
	if len(reports) == 0 || len(reports) > 12 {
		t.Fatalf("unexpected number of reports: %d", len(reports))
	}
	if reports[len(reports)-1] != 1.0 {
		t.Errorf("final report = %v, want 1.0", reports[len(reports)-1])
	}
	reportLinear(nil, &last, 0.1, 1, 100)
}
