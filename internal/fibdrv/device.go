// Package fibdrv reproduces the Fibonacci character device in-process.
//
// A Device admits one Session at a time. A Session carries a position that
// Seek moves within [0, MaxLength]; reading yields the decimal digits of
// F(position), and Time runs one of the machine-integer strategies on the
// position with the calling work pinned to a CPU, reporting the elapsed time.
package fibdrv

import (
	"errors"

	"github.com/agbru/fibdrv/internal/fibonacci"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// MaxLength is the largest position a session can seek to.
const MaxLength = 10000

var (
	// ErrBusy is returned by Open while another session is active.
	ErrBusy = errors.New("fibdrv: device is in use")
	// ErrClosed is returned by operations on a closed session.
	ErrClosed = errors.New("fibdrv: session closed")
	// ErrTruncated is returned by Read when the buffer cannot hold the digits.
	ErrTruncated = errors.New("fibdrv: read buffer too small")
	// ErrInvalidSelector is returned by Time for an unknown strategy.
	ErrInvalidSelector = errors.New("fibdrv: invalid strategy selector")
	// ErrInvalidWhence is returned by Seek for an unknown whence value.
	ErrInvalidWhence = errors.New("fibdrv: invalid whence")
)

// Device is the single-session Fibonacci device.
type Device struct {
	guard  *semaphore.Weighted
	engine fibonacci.Engine
	logger zerolog.Logger
	cpu    int
}

// Option configures a Device.
type Option func(*Device)

// WithEngine sets the big-integer engine used by reads. The default is
// fibonacci.FastDoubling.
func WithEngine(engine fibonacci.Engine) Option {
	return func(d *Device) {
		if engine != nil {
			d.engine = engine
		}
	}
}

// WithLogger sets the device logger. The default is the global zerolog logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Device) {
		d.logger = logger
	}
}

// WithCPU pins timing runs to cpu. A negative value, the default, selects
// the first CPU the process may run on when a session opens.
func WithCPU(cpu int) Option {
	return func(d *Device) {
		d.cpu = cpu
	}
}

// New creates a Device.
func New(opts ...Option) *Device {
	d := &Device{
		guard:  semaphore.NewWeighted(1),
		engine: fibonacci.FastDoubling,
		logger: log.Logger,
		cpu:    -1,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Open starts a session. It never blocks: while another session is open it
// returns ErrBusy.
//
// Returns:
//   - *Session: The new session, positioned at 0.
//   - error: ErrBusy if the device is in use.
func (d *Device) Open() (*Session, error) {
	if !d.guard.TryAcquire(1) {
		busyTotal.Inc()
		d.logger.Warn().Msg("device is in use")
		return nil, ErrBusy
	}
	opensTotal.Inc()

	cpu := d.cpu
	if cpu < 0 {
		cpu = defaultCPU()
	}
	d.logger.Debug().Int("cpu", cpu).Msg("session opened")
	return &Session{dev: d, cpu: cpu}, nil
}
