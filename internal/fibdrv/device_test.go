package fibdrv

import (
	"errors"
	"io"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/agbru/fibdrv/internal/bignum"
	"github.com/agbru/fibdrv/internal/fibonacci"
	"github.com/rs/zerolog"
)

func newTestDevice(opts ...Option) *Device {
	return New(append([]Option{WithLogger(zerolog.Nop())}, opts...)...)
}

// TestOpenIsExclusive checks that a second open fails until the first
// session is closed.
func TestOpenIsExclusive(t *testing.T) {
	t.Parallel()
	dev := newTestDevice()

	s, err := dev.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := dev.Open(); !errors.Is(err, ErrBusy) {
		t.Fatalf("second Open error = %v, want ErrBusy", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close error = %v, want ErrClosed", err)
	}

	s2, err := dev.Open()
	if err != nil {
		t.Fatalf("Open after Close: %v", err)
	}
	defer s2.Close()
}

// TestOpenConcurrent checks that exactly one of many concurrent opens wins.
func TestOpenConcurrent(t *testing.T) {
	t.Parallel()
	dev := newTestDevice()

	const workers = 32
	var (
		wg       sync.WaitGroup
		winners  atomic.Int32
		busy     atomic.Int32
		sessions = make(chan *Session, workers)
	)
	start := make(chan struct{})
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			s, err := dev.Open()
			switch {
			case err == nil:
				winners.Add(1)
				sessions <- s
			case errors.Is(err, ErrBusy):
				busy.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()
	close(sessions)

	if winners.Load() != 1 || busy.Load() != workers-1 {
		t.Errorf("winners = %d, busy = %d", winners.Load(), busy.Load())
	}
	for s := range sessions {
		s.Close()
	}
}

func TestSeek(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		start  int64
		offset int64
		whence int
		want   int64
	}{
		{"set", 0, 42, io.SeekStart, 42},
		{"set negative clamps to zero", 10, -5, io.SeekStart, 0},
		{"set past end clamps", 0, MaxLength + 1, io.SeekStart, MaxLength},
		{"current forward", 10, 5, io.SeekCurrent, 15},
		{"current backward", 10, -3, io.SeekCurrent, 7},
		{"current below zero clamps", 10, -20, io.SeekCurrent, 0},
		{"end", 0, 0, io.SeekEnd, MaxLength},
		{"end offset counts back", 0, 100, io.SeekEnd, MaxLength - 100},
		{"end negative offset clamps", 0, -1, io.SeekEnd, MaxLength},
		{"end large offset clamps", 0, MaxLength * 2, io.SeekEnd, 0},
		{"current max offset saturates", 10, math.MaxInt64, io.SeekCurrent, MaxLength},
		{"current min offset saturates", 10, math.MinInt64, io.SeekCurrent, 0},
		{"end min offset saturates", 0, math.MinInt64, io.SeekEnd, MaxLength},
		{"end max offset saturates", 0, math.MaxInt64, io.SeekEnd, 0},
		{"set max offset clamps", 0, math.MaxInt64, io.SeekStart, MaxLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, err := newTestDevice().Open()
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer s.Close()

			if _, err := s.Seek(tt.start, io.SeekStart); err != nil {
				t.Fatalf("Seek start: %v", err)
			}
			got, err := s.Seek(tt.offset, tt.whence)
			if err != nil {
				t.Fatalf("Seek: %v", err)
			}
			if got != tt.want || s.Position() != tt.want {
				t.Errorf("Seek = %d, Position = %d, want %d", got, s.Position(), tt.want)
			}
		})
	}
}

func TestSeekInvalidWhence(t *testing.T) {
	t.Parallel()
	s, err := newTestDevice().Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	s.Seek(7, io.SeekStart)
	pos, err := s.Seek(1, 99)
	if !errors.Is(err, ErrInvalidWhence) {
		t.Fatalf("error = %v, want ErrInvalidWhence", err)
	}
	if pos != 7 {
		t.Errorf("position moved to %d", pos)
	}
}

func TestRead(t *testing.T) {
	t.Parallel()
	s, err := newTestDevice().Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	for _, k := range []int64{0, 1, 2, 10, 92, 93, 100, 1000} {
		want, err := fibonacci.ComputeDecimal(k)
		if err != nil {
			t.Fatalf("ComputeDecimal(%d): %v", k, err)
		}
		s.Seek(k, io.SeekStart)

		buf := make([]byte, 1000)
		n, err := s.Read(buf)
		if err != nil {
			t.Fatalf("Read at %d: %v", k, err)
		}
		if got := string(buf[:n]); got != want {
			t.Errorf("Read at %d = %q, want %q", k, got, want)
		}
		// Reads do not advance the position.
		if s.Position() != k {
			t.Errorf("position after read = %d, want %d", s.Position(), k)
		}
	}
}

func TestReadTruncated(t *testing.T) {
	t.Parallel()
	s, err := newTestDevice().Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	s.Seek(MaxLength, io.SeekStart)
	full, err := s.Fibonacci()
	if err != nil {
		t.Fatalf("Fibonacci: %v", err)
	}
	if len(full) <= 1000 {
		t.Fatalf("F(%d) has only %d digits", MaxLength, len(full))
	}

	buf := make([]byte, 1000)
	n, err := s.Read(buf)
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("error = %v, want ErrTruncated", err)
	}
	if n != len(buf) || string(buf) != full[:n] {
		t.Errorf("truncated read returned %d bytes, prefix mismatch", n)
	}
}

func TestReadEngineError(t *testing.T) {
	t.Parallel()
	boom := func(int64) (*bignum.Int, error) { return nil, bignum.ErrAllocation }
	s, err := newTestDevice(WithEngine(boom)).Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if _, err := s.Read(make([]byte, 10)); !errors.Is(err, bignum.ErrAllocation) {
		t.Errorf("error = %v, want ErrAllocation", err)
	}
}

func TestTime(t *testing.T) {
	t.Parallel()
	s, err := newTestDevice().Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	for _, k := range []int64{0, 1, 2, 50, 92} {
		s.Seek(k, io.SeekStart)
		want, _ := fibonacci.ComputeDecimal(k)
		for sel := fibonacci.Selector(0); sel < fibonacci.NumStrategies; sel++ {
			timing, err := s.Time(sel)
			if err != nil {
				t.Fatalf("Time(%v) at %d: %v", sel, k, err)
			}
			if timing.K != k || timing.Selector != sel {
				t.Errorf("timing identifies k=%d sel=%v", timing.K, timing.Selector)
			}
			if got := bignum.NewInt(timing.Value).String(); got != want {
				t.Errorf("%v(%d) = %s, want %s", sel, k, got, want)
			}
			if timing.Elapsed < 0 {
				t.Errorf("negative elapsed time %v", timing.Elapsed)
			}
		}
	}
}

func TestTimeInvalidSelector(t *testing.T) {
	t.Parallel()
	s, err := newTestDevice().Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	for _, sel := range []fibonacci.Selector{-1, fibonacci.NumStrategies, 100} {
		if _, err := s.Time(sel); !errors.Is(err, ErrInvalidSelector) {
			t.Errorf("Time(%d) error = %v, want ErrInvalidSelector", int(sel), err)
		}
	}
}

func TestClosedSession(t *testing.T) {
	t.Parallel()
	s, err := newTestDevice().Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Close()

	if _, err := s.Seek(0, io.SeekStart); !errors.Is(err, ErrClosed) {
		t.Errorf("Seek error = %v", err)
	}
	if _, err := s.Read(make([]byte, 4)); !errors.Is(err, ErrClosed) {
		t.Errorf("Read error = %v", err)
	}
	if _, err := s.Fibonacci(); !errors.Is(err, ErrClosed) {
		t.Errorf("Fibonacci error = %v", err)
	}
	if _, err := s.Time(fibonacci.SelectFastDoubling); !errors.Is(err, ErrClosed) {
		t.Errorf("Time error = %v", err)
	}
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()
	for _, err := range []error{ErrBusy, ErrClosed, ErrTruncated, ErrInvalidSelector, ErrInvalidWhence} {
		if !strings.HasPrefix(err.Error(), "fibdrv: ") {
			t.Errorf("%q lacks the package prefix", err)
		}
	}
}

func TestSaturatingArithmetic(t *testing.T) {
	t.Parallel()
	tests := []struct {
		a, b     int64
		add, sub int64
	}{
		{1, 2, 3, -1},
		{math.MaxInt64, 1, math.MaxInt64, math.MaxInt64 - 1},
		{math.MinInt64, -1, math.MinInt64, math.MinInt64 + 1},
		{10, math.MinInt64, math.MinInt64 + 10, math.MaxInt64},
		{-10, math.MaxInt64, math.MaxInt64 - 10, math.MinInt64},
	}
	for _, tt := range tests {
		if got := saturatingAdd(tt.a, tt.b); got != tt.add {
			t.Errorf("saturatingAdd(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.add)
		}
		if got := saturatingSub(tt.a, tt.b); got != tt.sub {
			t.Errorf("saturatingSub(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.sub)
		}
	}
}
