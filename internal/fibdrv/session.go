package fibdrv

import (
	"fmt"
	"io"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/agbru/fibdrv/internal/fibonacci"
)

// Session is an open handle on a Device. Its methods are safe for
// concurrent use, but a session is normally driven by one goroutine.
type Session struct {
	dev *Device
	cpu int

	mu     sync.Mutex
	pos    int64
	closed bool
}

// Timing is the outcome of one strategy run.
type Timing struct {
	Selector fibonacci.Selector `json:"selector"`
	K        int64              `json:"k"`
	Value    int64              `json:"value"`
	Elapsed  time.Duration      `json:"elapsed_ns"`
	// CPU is the CPU the run was pinned to, or -1 when pinning was unavailable.
	CPU int `json:"cpu"`
}

// Seek moves the session position. whence is io.SeekStart, io.SeekCurrent
// or io.SeekEnd; io.SeekEnd positions at MaxLength - offset. The result is
// clamped to [0, MaxLength].
func (s *Session) Seek(offset int64, whence int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}

	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = saturatingAdd(s.pos, offset)
	case io.SeekEnd:
		pos = saturatingSub(MaxLength, offset)
	default:
		return s.pos, fmt.Errorf("%w: %d", ErrInvalidWhence, whence)
	}
	s.pos = min(max(pos, 0), MaxLength)
	return s.pos, nil
}

// saturatingAdd returns a + b, pinned to the int64 range on overflow.
func saturatingAdd(a, b int64) int64 {
	sum := a + b
	switch {
	case b > 0 && sum < a:
		return math.MaxInt64
	case b < 0 && sum > a:
		return math.MinInt64
	}
	return sum
}

// saturatingSub returns a - b, pinned to the int64 range on overflow.
func saturatingSub(a, b int64) int64 {
	d := a - b
	switch {
	case b < 0 && d < a:
		return math.MaxInt64
	case b > 0 && d > a:
		return math.MinInt64
	}
	return d
}

// Position returns the current position.
func (s *Session) Position() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

// Fibonacci returns the decimal digits of F(position).
func (s *Session) Fibonacci() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrClosed
	}
	return s.fibonacciLocked()
}

func (s *Session) fibonacciLocked() (string, error) {
	str, err := fibonacci.ComputeDecimalWith(s.dev.engine, s.pos)
	if err != nil {
		readsTotal.WithLabelValues("error").Inc()
		return "", err
	}
	return str, nil
}

// Read copies the decimal digits of F(position) into p. The position does
// not advance, so repeated reads return the same digits. When p is shorter
// than the digits, Read fills p and returns ErrTruncated.
func (s *Session) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	str, err := s.fibonacciLocked()
	if err != nil {
		return 0, err
	}
	n := copy(p, str)
	if n < len(str) {
		readsTotal.WithLabelValues("truncated").Inc()
		return n, ErrTruncated
	}
	readsTotal.WithLabelValues("ok").Inc()
	return n, nil
}

// Time runs the strategy selected by sel on the current position and
// measures it. The run happens on a locked OS thread pinned to the session
// CPU where the platform allows it.
//
// Parameters:
//   - sel: The strategy selector, 0 through 3.
//
// Returns:
//   - Timing: The value, elapsed time and CPU of the run.
//   - error: ErrInvalidSelector, ErrClosed, or an error from the strategy.
func (s *Session) Time(sel fibonacci.Selector) (Timing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Timing{}, ErrClosed
	}
	fn, ok := fibonacci.StrategyFor(sel)
	if !ok {
		return Timing{}, fmt.Errorf("%w: %d", ErrInvalidSelector, int(sel))
	}

	type outcome struct {
		timing Timing
		err    error
	}
	done := make(chan outcome, 1)
	k, want := s.pos, s.cpu
	go func() {
		// The thread is never unlocked, so it exits with this goroutine and
		// its affinity mask dies with it.
		runtime.LockOSThread()
		cpu, err := pinToCPU(want)
		if err != nil {
			s.dev.logger.Debug().Err(err).Int("cpu", want).Msg("cpu pinning unavailable")
			cpu = -1
		}
		start := time.Now()
		v, err := fn(k)
		done <- outcome{Timing{Selector: sel, K: k, Value: v, Elapsed: time.Since(start), CPU: cpu}, err}
	}()
	o := <-done

	if o.err == nil {
		strategyDuration.WithLabelValues(sel.String()).Observe(o.timing.Elapsed.Seconds())
	}
	return o.timing, o.err
}

// Close ends the session and frees the device. Closing twice returns
// ErrClosed.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	s.dev.guard.Release(1)
	s.dev.logger.Debug().Msg("session closed")
	return nil
}
