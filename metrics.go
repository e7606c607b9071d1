package reversehash

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "reversehash"

// Job outcomes.
const (
	outcomeMatch     = "match"
	outcomeExhausted = "exhausted"
	outcomeAborted   = "aborted"
)

// Search outcomes.
const (
	outcomeFound    = "found"
	outcomeNotFound = "not_found"
	outcomeCanceled = "canceled"
	outcomeError    = "error"
)

// metrics holds the collectors a Searcher updates. Counters are bumped once
// per job, never per candidate, to keep atomics off the scan loop.
type metrics struct {
	jobs       *prometheus.CounterVec
	candidates prometheus.Counter
	shutdowns  prometheus.Counter
	running    prometheus.Gauge
	searches   *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "jobs_total",
			Help:      "Jobs evaluated by workers, by outcome.",
		}, []string{"outcome"}),
		candidates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "candidates_total",
			Help:      "Candidate plaintexts hashed.",
		}),
		shutdowns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "shutdown_markers_observed_total",
			Help:      "Shutdown markers dequeued by workers.",
		}),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "workers_running",
			Help:      "Workers that have not reached the done state.",
		}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "searches_total",
			Help:      "Completed searches, by outcome.",
		}, []string{"outcome"}),
	}
	if reg == nil {
		return m, nil
	}

	var err error
	if m.jobs, err = register(reg, m.jobs); err != nil {
		return nil, err
	}
	if m.candidates, err = register(reg, m.candidates); err != nil {
		return nil, err
	}
	if m.shutdowns, err = register(reg, m.shutdowns); err != nil {
		return nil, err
	}
	if m.running, err = register(reg, m.running); err != nil {
		return nil, err
	}
	if m.searches, err = register(reg, m.searches); err != nil {
		return nil, err
	}
	return m, nil
}

// register adds c to reg, reusing the existing collector when several
// searchers share one registry.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}
