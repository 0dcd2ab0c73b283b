// Package service exposes Fibonacci values and device strategy timings to
// the HTTP server.
package service

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	lru "github.com/hashicorp/golang-lru"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	"github.com/agbru/fibdrv/internal/config"
	"github.com/agbru/fibdrv/internal/fibdrv"
	"github.com/agbru/fibdrv/internal/fibonacci"
)

var (
	// ErrMaxValueExceeded is returned when k exceeds the configured limit.
	ErrMaxValueExceeded = errors.New("maximum k value exceeded")
	// ErrNegativeIndex is returned for k < 0.
	ErrNegativeIndex = errors.New("k must be non-negative")
)

var (
	cacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fibdrv_service_cache_requests_total",
		Help: "Result cache lookups by outcome.",
	}, []string{"result"})
)

// DefaultAlgorithm is used when a request names no calculator.
const DefaultAlgorithm = "fast"

// Service is what the HTTP server needs from the calculation layer.
type Service interface {
	// Fibonacci returns the decimal digits of F(k) computed by algo.
	//
	// Parameters:
	//   - ctx: The context for cancellation.
	//   - algo: The calculator name; empty selects DefaultAlgorithm.
	//   - k: The Fibonacci index.
	//
	// Returns:
	//   - string: The decimal digits.
	//   - error: A validation, lookup or calculation error.
	Fibonacci(ctx context.Context, algo string, k int64) (string, error)
	// Time runs the strategy sel at position k through a device session.
	Time(ctx context.Context, sel fibonacci.Selector, k int64) (fibdrv.Timing, error)
	// Algorithms returns the calculator names, sorted.
	Algorithms() []string
}

// Device opens device sessions.
type Device interface {
	Open() (*fibdrv.Session, error)
}

// CalculatorService implements Service on a calculator factory, a device
// and an optional LRU cache of decimal results keyed by index.
type CalculatorService struct {
	factory fibonacci.CalculatorFactory
	device  Device
	opts    fibonacci.Options
	maxK    int64
	cache   *lru.Cache
}

var _ Service = (*CalculatorService)(nil)

// NewCalculatorService builds a CalculatorService.
//
// Parameters:
//   - factory: The calculators.
//   - dev: The device used by Time.
//   - cfg: Supplies MaxK (0 for no limit), CacheSize (0 disables the
//     cache) and the calculation options.
//
// Returns:
//   - *CalculatorService: The service.
//   - error: An error if the cache cannot be created.
func NewCalculatorService(factory fibonacci.CalculatorFactory, dev Device, cfg config.AppConfig) (*CalculatorService, error) {
	s := &CalculatorService{
		factory: factory,
		device:  dev,
		opts:    cfg.ToCalculationOptions(),
		maxK:    cfg.MaxK,
	}
	if cfg.CacheSize > 0 {
		cache, err := lru.New(cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("creating result cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

func (s *CalculatorService) checkIndex(k, limit int64) error {
	if k < 0 {
		return ErrNegativeIndex
	}
	if limit > 0 && k > limit {
		return fmt.Errorf("%w: %d > %d", ErrMaxValueExceeded, k, limit)
	}
	return nil
}

// Fibonacci implements Service. Values of any calculator are cached
// together since every calculator yields the same digits.
func (s *CalculatorService) Fibonacci(ctx context.Context, algo string, k int64) (string, error) {
	if err := s.checkIndex(k, s.maxK); err != nil {
		return "", err
	}
	if algo == "" {
		algo = DefaultAlgorithm
	}
	calc, err := s.factory.Get(algo)
	if err != nil {
		return "", err
	}

	key := strconv.FormatInt(k, 10)
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			cacheRequests.WithLabelValues("hit").Inc()
			return v.(string), nil
		}
		cacheRequests.WithLabelValues("miss").Inc()
	}

	res, err := calc.Calculate(ctx, nil, 0, uint64(k), s.opts)
	if err != nil {
		return "", err
	}
	digits, err := res.Decimal()
	if err != nil {
		return "", err
	}
	if s.cache != nil {
		s.cache.Add(key, digits)
	}
	return digits, nil
}

// Time implements Service. It holds a device session for the duration of
// one timing, so a concurrent caller gets fibdrv.ErrBusy.
func (s *CalculatorService) Time(ctx context.Context, sel fibonacci.Selector, k int64) (fibdrv.Timing, error) {
	if err := s.checkIndex(k, fibdrv.MaxLength); err != nil {
		return fibdrv.Timing{}, err
	}
	if err := ctx.Err(); err != nil {
		return fibdrv.Timing{}, err
	}
	sess, err := s.device.Open()
	if err != nil {
		return fibdrv.Timing{}, err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.Warn().Err(err).Msg("closing device session")
		}
	}()

	if _, err := sess.Seek(k, io.SeekStart); err != nil {
		return fibdrv.Timing{}, err
	}
	return sess.Time(sel)
}

// Algorithms implements Service.
func (s *CalculatorService) Algorithms() []string {
	return s.factory.List()
}
