// Package reversehash finds a plaintext whose digest matches a target by
// searching every string over an alphabet, shortest first, on a fixed pool
// of worker goroutines.
//
// # Basic Usage
//
//	s, err := reversehash.NewSearcher("187ef4436122d1cc2f40dc2b92f0eba0",
//	    reversehash.WithMaxLength(2))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := s.Search(ctx)
//	switch {
//	case errors.Is(err, streamerrors.ErrNoSolution):
//	    fmt.Println("Unable to find a solution")
//	case err != nil:
//	    log.Fatal(err)
//	default:
//	    fmt.Printf("%s (found in %.1fs)\n", res.Plaintext, res.Elapsed.Seconds())
//	}
//
// # How a search runs
//
// For each length the space of |alphabet|^length candidates is addressed by
// index and never materialized. The index space is cut into contiguous,
// disjoint ranges, one per worker by default, and each range becomes a job
// on a shared work queue. Workers dequeue jobs, hash every candidate in the
// range, and publish the first match on a result channel. The coordinator
// waits on the result channel and on the workers finishing, whichever comes
// first.
//
// How workers learn the queue is exhausted is selectable with WithShutdown:
// one marker per worker (the default), a single marker relayed from worker
// to worker, or no marker at all. The last exists to show why a marker is
// needed: without one an unsuccessful search never finishes.
//
// # Package Structure
//
//   - Public API: searcher.go (NewSearcher, Search, SearchSequential)
//   - Configuration: search_options.go (SearchOption, With* functions)
//   - Worker pool and shutdown strategies: pool.go
//   - Job evaluation: job.go
//   - Digest dispatch: algorithm.go, internal/digest/
//   - Index addressing and partitioning: internal/keyspace/
//   - Target files: targets.go (ReadTargets, memory-mapped)
//   - Metrics: metrics.go (Prometheus collectors)
package reversehash
