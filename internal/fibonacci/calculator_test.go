package fibonacci

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
)

func TestFibCalculator_Name(t *testing.T) {
	t.Parallel()
	tests := []struct {
		core coreCalculator
		want string
	}{
		{&LinearCalculator{}, "Linear"},
		{&FastDoublingCalculator{}, "Fast Doubling"},
	}
	for _, tt := range tests {
		calc := NewCalculator(tt.core)
		if calc.Name() != tt.core.Name() {
			t.Errorf("Name() = %q, want %q", calc.Name(), tt.core.Name())
		}
		if !strings.Contains(calc.Name(), tt.want) {
			t.Errorf("Name() = %q, expected it to contain %q", calc.Name(), tt.want)
		}
	}
}

func TestNewCalculatorPanicsOnNil(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Error("NewCalculator(nil) did not panic")
		}
	}()
	NewCalculator(nil)
}

func TestCalculateIndexOutOfRange(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(&FastDoublingCalculator{})
	_, err := calc.Calculate(context.Background(), nil, 0, math.MaxInt64+1, Options{})
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestCalculateCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, core := range []coreCalculator{&LinearCalculator{}, &FastDoublingCalculator{}} {
		calc := NewCalculator(core)
		if _, err := calc.Calculate(ctx, nil, 0, 10, Options{}); !errors.Is(err, context.Canceled) {
			t.Errorf("%s: small index error = %v, want context.Canceled", core.Name(), err)
		}
		if _, err := calc.Calculate(ctx, nil, 0, 100_000, Options{}); !errors.Is(err, context.Canceled) {
			t.Errorf("%s: large index error = %v, want context.Canceled", core.Name(), err)
		}
		// The engines check the context themselves.
		if _, err := core.CalculateCore(ctx, nil, 100_000, Options{CancelCheckInterval: 1}); !errors.Is(err, context.Canceled) {
			t.Errorf("%s: core error = %v, want context.Canceled", core.Name(), err)
		}
	}
}

// TestProgressReachesCompletion verifies progress is monotonic and ends at 1.0.
func TestProgressReachesCompletion(t *testing.T) {
	t.Parallel()
	for _, core := range []coreCalculator{&LinearCalculator{}, &FastDoublingCalculator{}} {
		t.Run(core.Name(), func(t *testing.T) {
			t.Parallel()
			calc := NewCalculator(core)
			progressChan := make(chan ProgressUpdate, 1000)

			var updates []float64
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				for u := range progressChan {
					updates = append(updates, u.Value)
				}
			}()

			_, err := calc.Calculate(context.Background(), progressChan, 3, 5000, Options{CancelCheckInterval: 64})
			close(progressChan)
			wg.Wait()
			if err != nil {
				t.Fatal(err)
			}
			if len(updates) == 0 {
				t.Fatal("no progress updates")
			}
			for i := 1; i < len(updates); i++ {
				if updates[i] < updates[i-1] {
					t.Fatalf("progress went backwards: %v then %v", updates[i-1], updates[i])
				}
			}
			if last := updates[len(updates)-1]; last != 1.0 {
				t.Errorf("final progress = %v, want 1.0", last)
			}
		})
	}
}

// TestSmallPathMatchesEngines compares the 128-bit path with both engines
// over its whole range.
func TestSmallPathMatchesEngines(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	for n := uint64(0); n <= MaxFibU128; n++ {
		small := calculateSmall(n)
		fast, err := NewCalculator(&FastDoublingCalculator{}).Calculate(ctx, nil, 0, n, Options{DisableSmallPath: true})
		if err != nil {
			t.Fatal(err)
		}
		if small.String() != fast.String() {
			t.Fatalf("F(%d): small path %s, engine %s", n, small, fast)
		}
	}
}
