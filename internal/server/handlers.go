package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/agbru/fibdrv/internal/bignum"
	"github.com/agbru/fibdrv/internal/fibdrv"
	"github.com/agbru/fibdrv/internal/fibonacci"
	"github.com/agbru/fibdrv/internal/logging"
	"github.com/agbru/fibdrv/internal/service"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.writeJSONResponse(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	strategies := make([]string, fibonacci.NumStrategies)
	for i := range strategies {
		strategies[i] = fibonacci.Selector(i).String()
	}
	s.writeJSONResponse(w, http.StatusOK, map[string]any{
		"algorithms": s.service.Algorithms(),
		"strategies": strategies,
	})
}

// handleFibonacci answers GET /fibonacci?k=<index>&algo=<name> with the
// decimal digits of F(k).
func (s *Server) handleFibonacci(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	q := r.URL.Query()
	k, err := parseIndex(q)
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	algo := q.Get("algo")
	if algo == "" {
		algo = service.DefaultAlgorithm
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	start := time.Now()
	digits, err := s.service.Fibonacci(ctx, algo, k)
	duration := time.Since(start)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, FibonacciResponse{
		K:         k,
		Algorithm: algo,
		Result:    digits,
		Digits:    len(digits),
		Duration:  duration.String(),
	})
}

// handleTime answers GET /time?k=<index>&selector=<0-3> with one timing of
// the selected strategy through a device session.
func (s *Server) handleTime(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	q := r.URL.Query()
	k, err := parseIndex(q)
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	sel, err := parseSelector(q)
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	t, err := s.service.Time(ctx, sel, k)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSONResponse(w, http.StatusOK, TimeResponse{
		K:         t.K,
		Selector:  int(t.Selector),
		Strategy:  t.Selector.String(),
		Value:     t.Value,
		ElapsedNS: t.Elapsed.Nanoseconds(),
		CPU:       t.CPU,
	})
}

func parseIndex(q url.Values) (int64, error) {
	raw := q.Get("k")
	if raw == "" {
		return 0, paramError{"Missing 'k' parameter"}
	}
	k, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || k < 0 {
		return 0, paramError{"Invalid 'k' parameter: must be a non-negative integer"}
	}
	return k, nil
}

// parseSelector reads the optional selector parameter, 0 by default.
func parseSelector(q url.Values) (fibonacci.Selector, error) {
	raw := q.Get("selector")
	if raw == "" {
		return fibonacci.SelectSequenceArray, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || !fibonacci.Selector(v).Valid() {
		return 0, paramError{"Invalid 'selector' parameter: must be 0, 1, 2 or 3"}
	}
	return fibonacci.Selector(v), nil
}

// statusFor maps a service error to an HTTP status.
func statusFor(err error) int {
	var unknown *fibonacci.UnknownCalculatorError
	switch {
	case errors.Is(err, fibdrv.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, bignum.ErrAllocation):
		return http.StatusInsufficientStorage
	case errors.Is(err, service.ErrMaxValueExceeded),
		errors.Is(err, service.ErrNegativeIndex),
		errors.Is(err, fibdrv.ErrInvalidSelector),
		errors.Is(err, fibonacci.ErrIndexOutOfRange),
		errors.As(err, &unknown):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", err, logging.Int("status", status))
	}
	s.writeErrorResponse(w, status, err.Error())
}

func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding JSON response", err)
	}
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	s.writeJSONResponse(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}
