package reversehash

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"

	streamerrors "github.com/tamirms/reversehash/errors"
	"github.com/tamirms/reversehash/internal/digest"
	"github.com/tamirms/reversehash/internal/keyspace"
)

// Searcher looks for a plaintext whose digest equals one target.
//
// Usage:
//
//	s, err := reversehash.NewSearcher("187ef4436122d1cc2f40dc2b92f0eba0",
//	    reversehash.WithMaxLength(4), reversehash.WithWorkers(8))
//	if err != nil { return err }
//	res, err := s.Search(ctx)
//	if errors.Is(err, streamerrors.ErrNoSolution) { ... }
//	if err != nil { return err }
//	fmt.Println(res.Plaintext)
//
// A Searcher holds no per-run state; Search may be called repeatedly and
// returns the same outcome for the same inputs.
type Searcher struct {
	cfg     *searchConfig
	spec    digest.Spec
	target  []byte
	spaces  []keyspace.Enumerator // one per length, 1..maxLength
	chunks  int                   // ranges each length is split into
	jobs    int                   // jobs one Search enqueues
	metrics *metrics
}

// Result describes a finished search.
type Result struct {
	// Plaintext is the matching candidate when Found is true.
	Plaintext string
	Found     bool

	// Target is the normalized hex digest searched for.
	Target    string
	Algorithm string

	// Elapsed is measured from the start of Search until the outcome is
	// known, before workers are torn down.
	Elapsed time.Duration

	// Jobs is how many jobs were enqueued. Candidates sums what workers
	// actually hashed.
	Jobs       int
	Candidates uint64

	// Workers holds one entry per worker; nil for SearchSequential. Every
	// entry is in WorkerDone by the time Search returns.
	Workers []WorkerStats
}

// maxJobsPerLength bounds workers*jobsPerWorker. Every job of a search is
// queued up front, so this also bounds the work queue.
const maxJobsPerLength = 1 << 20

// NewSearcher validates the configuration and the target digest.
func NewSearcher(target string, opts ...SearchOption) (*Searcher, error) {
	cfg := defaultSearchConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.workers <= 0 {
		return nil, streamerrors.ErrInvalidWorkers
	}
	if cfg.maxLength <= 0 {
		return nil, streamerrors.ErrInvalidMaxLength
	}
	if cfg.jobsPerWorker <= 0 {
		return nil, streamerrors.ErrInvalidJobsFactor
	}
	if cfg.jobsPerWorker > maxJobsPerLength/cfg.workers {
		return nil, fmt.Errorf("%w: %d workers x %d jobs exceeds %d jobs per length",
			streamerrors.ErrInvalidJobsFactor, cfg.workers, cfg.jobsPerWorker, maxJobsPerLength)
	}
	if cfg.shutdown.String() == "unknown" {
		return nil, fmt.Errorf("%w: id %d", streamerrors.ErrUnknownShutdown, uint8(cfg.shutdown))
	}

	spec, err := resolveDigest(cfg)
	if err != nil {
		return nil, err
	}
	decoded, err := decodeToken(target, spec.Size)
	if err != nil {
		return nil, err
	}

	chunks := cfg.workers * cfg.jobsPerWorker
	spaces := make([]keyspace.Enumerator, 0, cfg.maxLength)
	jobs := 0
	for length := 1; length <= cfg.maxLength; length++ {
		space, err := keyspace.NewEnumerator(cfg.alphabet, length)
		if err != nil {
			return nil, fmt.Errorf("length %d: %w", length, err)
		}
		spaces = append(spaces, space)
		jobs += int(min(space.Total(), uint64(chunks)))
	}

	m, err := newMetrics(cfg.registerer)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	return &Searcher{
		cfg:     cfg,
		spec:    spec,
		target:  decoded,
		spaces:  spaces,
		chunks:  chunks,
		jobs:    jobs,
		metrics: m,
	}, nil
}

func resolveDigest(cfg *searchConfig) (digest.Spec, error) {
	if cfg.digest == nil {
		return newDigest(cfg.algorithm)
	}
	if cfg.digest.Size <= 0 || cfg.digest.Sum == nil {
		return digest.Spec{}, fmt.Errorf("%w: custom digest %q needs a positive size and a sum function",
			streamerrors.ErrUnknownAlgorithm, cfg.digest.Name)
	}
	return *cfg.digest, nil
}

// Search runs the worker pool over every length from 1 to the maximum.
//
// It returns a Result with Found set on success. When every candidate was
// tried without a match it returns the Result together with ErrNoSolution.
// If ctx ends first, it returns ctx.Err(); with ShutdownNone that is the
// only way an unsuccessful search returns. A worker error (an enumerator
// addressed out of range) is returned wrapped.
func (s *Searcher) Search(ctx context.Context) (*Result, error) {
	log := clog.FromContext(ctx).With("target", encodeToken(s.target), "algorithm", s.spec.Name)
	start := s.cfg.clock.Now()

	capacity := s.jobs + s.cfg.shutdown.markers(s.cfg.workers)
	p := newPool(s.cfg, s.spec, s.target, s.metrics, capacity)
	p.start(ctx)

	for _, space := range s.spaces {
		ranges := keyspace.Partition(space.Total(), s.chunks)
		for _, r := range ranges {
			if r.Len() == 0 {
				continue
			}
			p.enqueueJob(job{space: space, rng: r})
		}
		log.Debug("enqueued length", "length", space.Length(), "candidates", space.Total(), "jobs", len(ranges))
	}
	markers := p.enqueueShutdown()
	log.Debug("enqueued shutdown markers", "strategy", s.cfg.shutdown.String(), "markers", markers)

	plaintext, found, waitErr := p.wait(ctx)
	elapsed := s.cfg.clock.Since(start)
	p.stop()

	res := &Result{
		Plaintext: plaintext,
		Found:     found,
		Target:    encodeToken(s.target),
		Algorithm: s.spec.Name,
		Elapsed:   elapsed,
		Jobs:      s.jobs,
		Workers:   p.stats,
	}
	for _, st := range p.stats {
		res.Candidates += st.Candidates
	}

	switch {
	case found:
		s.metrics.searches.WithLabelValues(outcomeFound).Inc()
		log.Info("found plaintext", "elapsed", elapsed, "candidates", res.Candidates)
		return res, nil
	case waitErr != nil && ctx.Err() != nil && errors.Is(waitErr, ctx.Err()):
		s.metrics.searches.WithLabelValues(outcomeCanceled).Inc()
		if s.cfg.shutdown == ShutdownNone {
			log.Warn("search ended by context; workers had no shutdown signal", "elapsed", elapsed)
		}
		return res, waitErr
	case waitErr != nil:
		s.metrics.searches.WithLabelValues(outcomeError).Inc()
		return res, fmt.Errorf("search: %w", waitErr)
	default:
		s.metrics.searches.WithLabelValues(outcomeNotFound).Inc()
		log.Info("no solution", "elapsed", elapsed, "candidates", res.Candidates)
		return res, streamerrors.ErrNoSolution
	}
}

// SearchSequential scans every length in order on the calling goroutine.
// It is the baseline the pool is measured against and returns the same
// outcomes as Search.
func (s *Searcher) SearchSequential(ctx context.Context) (*Result, error) {
	start := s.cfg.clock.Now()
	sc := newScanner(s.target, s.spec, s.cfg.maxLength)

	res := &Result{
		Target:    encodeToken(s.target),
		Algorithm: s.spec.Name,
	}
	for _, space := range s.spaces {
		rep, err := sc.evaluate(ctx, job{space: space, rng: keyspace.Range{Stop: space.Total()}})
		res.Jobs++
		res.Candidates += rep.scanned
		if err != nil {
			res.Elapsed = s.cfg.clock.Since(start)
			return res, err
		}
		if rep.found {
			res.Plaintext = rep.plaintext
			res.Found = true
			res.Elapsed = s.cfg.clock.Since(start)
			return res, nil
		}
	}
	res.Elapsed = s.cfg.clock.Since(start)
	return res, streamerrors.ErrNoSolution
}
