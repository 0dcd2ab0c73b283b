package fibdrv

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	opensTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fibdrv_sessions_opened_total",
		Help: "The total number of device sessions opened",
	})
	busyTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fibdrv_sessions_busy_total",
		Help: "The total number of open attempts rejected because the device was in use",
	})
	readsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fibdrv_reads_total",
			Help: "The total number of device reads by outcome",
		},
		[]string{"result"},
	)
	strategyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fibdrv_strategy_duration_seconds",
			Help:    "The duration of timed strategy runs in seconds",
			Buckets: prometheus.ExponentialBuckets(1e-7, 4, 12),
		},
		[]string{"strategy"},
	)
)
