package reversehash

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"

	streamerrors "github.com/tamirms/reversehash/errors"
	"github.com/tamirms/reversehash/internal/digest"
)

// ShutdownStrategy selects how workers learn that no more jobs will arrive.
type ShutdownStrategy uint8

const (
	// ShutdownPoisonPill enqueues one shutdown marker per worker after the
	// last job. Each worker stops at the first marker it dequeues.
	ShutdownPoisonPill ShutdownStrategy = iota

	// ShutdownRelayPill enqueues a single marker after the last job. A
	// worker that dequeues it puts it back before stopping, so the marker
	// visits every worker once, one at a time.
	ShutdownRelayPill

	// ShutdownNone enqueues no marker. Workers stop only when they find the
	// plaintext.
	//
	// Known defect: when the queue drains without a match, every worker
	// blocks on its next dequeue and the coordinator never learns the
	// search is exhausted. Search then returns only when its context ends,
	// with the context's error instead of ErrNoSolution. It exists as the
	// baseline the marker strategies fix.
	ShutdownNone
)

var shutdownNames = [...]string{
	ShutdownPoisonPill: "pill",
	ShutdownRelayPill:  "relay",
	ShutdownNone:       "none",
}

// String returns the strategy name accepted by ParseShutdown.
func (s ShutdownStrategy) String() string {
	if int(s) < len(shutdownNames) {
		return shutdownNames[s]
	}
	return "unknown"
}

// ParseShutdown maps "pill", "relay" or "none" to a ShutdownStrategy.
func ParseShutdown(name string) (ShutdownStrategy, error) {
	for i, n := range shutdownNames {
		if n == name {
			return ShutdownStrategy(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", streamerrors.ErrUnknownShutdown, name)
}

// markers returns how many shutdown items the coordinator enqueues.
func (s ShutdownStrategy) markers(workers int) int {
	switch s {
	case ShutdownPoisonPill:
		return workers
	case ShutdownRelayPill:
		return 1
	default:
		return 0
	}
}

// WorkerState is the lifecycle state of one worker.
type WorkerState uint8

const (
	// WorkerRunning is the state from start until the worker returns.
	WorkerRunning WorkerState = iota
	// WorkerDone means the worker has returned and will dequeue nothing more.
	WorkerDone
)

// String returns "running" or "done".
func (s WorkerState) String() string {
	if s == WorkerDone {
		return "done"
	}
	return "running"
}

// WorkerStats describes what one worker did during a search.
type WorkerStats struct {
	ID                int
	State             WorkerState
	Jobs              int    // jobs dequeued and evaluated, including aborted ones
	Candidates        uint64 // candidates hashed
	ShutdownsObserved int    // shutdown markers dequeued
	Found             bool   // this worker published the plaintext
}

type itemKind uint8

const (
	itemJob itemKind = iota
	itemShutdown
)

// workItem is what travels on the work queue. The shutdown marker is a
// variant of the item itself, so recognizing it never depends on identity.
type workItem struct {
	kind itemKind
	job  job
}

// pool is a fixed set of worker goroutines fed from one work queue.
//
// Shutdown sequence:
//  1. The coordinator enqueues every job, then the strategy's markers.
//  2. wait blocks until a plaintext is published, every worker has
//     returned, or the caller's context ends.
//  3. stop cancels the worker context and waits for every worker, so the
//     stats are final and no goroutine outlives the search.
type pool struct {
	cfg     *searchConfig
	spec    digest.Spec
	target  []byte
	metrics *metrics

	work    chan workItem
	results chan string
	stats   []WorkerStats

	group  *errgroup.Group
	cancel context.CancelFunc
	done   chan struct{} // closed after every worker has returned
	err    error         // first worker error, valid once done is closed
}

// newPool sizes the work queue to hold capacity items, so enqueueing the
// whole run never blocks, and the result channel to one slot per worker,
// so publishing never blocks.
func newPool(cfg *searchConfig, spec digest.Spec, target []byte, m *metrics, capacity int) *pool {
	stats := make([]WorkerStats, cfg.workers)
	for i := range stats {
		stats[i] = WorkerStats{ID: i, State: WorkerRunning}
	}
	return &pool{
		cfg:     cfg,
		spec:    spec,
		target:  target,
		metrics: m,
		work:    make(chan workItem, capacity),
		results: make(chan string, cfg.workers),
		stats:   stats,
		done:    make(chan struct{}),
	}
}

// start launches the workers.
func (p *pool) start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	var workerCtx context.Context
	p.group, workerCtx = errgroup.WithContext(ctx)
	for id := range p.cfg.workers {
		p.metrics.running.Inc()
		p.group.Go(func() error {
			return p.runWorker(workerCtx, id)
		})
	}
	go func() {
		p.err = p.group.Wait()
		close(p.done)
	}()
}

// enqueueJob adds a job to the work queue.
func (p *pool) enqueueJob(j job) {
	p.work <- workItem{kind: itemJob, job: j}
}

// enqueueShutdown adds the strategy's shutdown markers after the last job.
func (p *pool) enqueueShutdown() int {
	n := p.cfg.shutdown.markers(p.cfg.workers)
	for range n {
		p.work <- workItem{kind: itemShutdown}
	}
	return n
}

// runWorker is the worker loop: dequeue, evaluate, publish on match.
func (p *pool) runWorker(ctx context.Context, id int) error {
	st := &p.stats[id]
	log := clog.FromContext(ctx).With("worker", id)
	sc := newScanner(p.target, p.spec, p.cfg.maxLength)

	defer func() {
		st.State = WorkerDone
		p.metrics.running.Dec()
		log.Debug("worker done", "jobs", st.Jobs, "candidates", st.Candidates, "found", st.Found)
	}()

	for {
		var item workItem
		select {
		case item = <-p.work:
		case <-ctx.Done():
			return nil
		}

		if item.kind == itemShutdown {
			st.ShutdownsObserved++
			p.metrics.shutdowns.Inc()
			if p.cfg.shutdown == ShutdownRelayPill {
				// Room is guaranteed: this worker just removed the only marker.
				p.work <- item
			}
			return nil
		}

		rep, err := sc.evaluate(ctx, item.job)
		st.Jobs++
		st.Candidates += rep.scanned
		p.metrics.candidates.Add(float64(rep.scanned))
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				p.metrics.jobs.WithLabelValues(outcomeAborted).Inc()
				return nil
			}
			return fmt.Errorf("worker %d: %w", id, err)
		}
		if rep.found {
			p.metrics.jobs.WithLabelValues(outcomeMatch).Inc()
			st.Found = true
			p.results <- rep.plaintext
			return nil
		}
		p.metrics.jobs.WithLabelValues(outcomeExhausted).Inc()
	}
}

// wait blocks until a plaintext arrives, every worker has returned, or ctx
// ends. found is false with a nil error when the workers all finished
// without a match.
func (p *pool) wait(ctx context.Context) (plaintext string, found bool, err error) {
	select {
	case plaintext = <-p.results:
		return plaintext, true, nil
	case <-p.done:
		// The last worker to exit may have published just before exiting.
		select {
		case plaintext = <-p.results:
			return plaintext, true, nil
		default:
		}
		if p.err != nil {
			return "", false, p.err
		}
		// Workers also return when ctx ends; that is not exhaustion.
		if err := ctx.Err(); err != nil {
			return "", false, err
		}
		return "", false, nil
	case <-ctx.Done():
		// A plaintext published before ctx ended still wins.
		select {
		case plaintext = <-p.results:
			return plaintext, true, nil
		default:
		}
		return "", false, ctx.Err()
	}
}

// stop cancels any worker still running and waits for all of them.
func (p *pool) stop() {
	p.cancel()
	<-p.done
}
