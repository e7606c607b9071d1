// Bench is a benchmarking tool comparing the sequential scan with each
// worker-pool shutdown strategy on a random plaintext.
//
// Usage:
//
//	go run ./cmd/bench -length 5 -workers 8 -algo md5
//
// Flags:
//
//	-length    Length of the random plaintext; also the max search length (default: 5)
//	-workers   Number of pool workers (default: number of CPUs)
//	-algo      Digest algorithm (default: md5)
//	-jobs      Jobs per worker per length (default: 1)
//	-seed      Seed for the plaintext generator (default: 1)
//	-miss      Search for an unreachable digest instead (exercises exhaustion)
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	mrand "math/rand/v2"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/tamirms/reversehash"
	streamerrors "github.com/tamirms/reversehash/errors"
)

// getMaxRSS returns the maximum resident set size in bytes.
// Uses getrusage(RUSAGE_SELF) which tracks peak RSS since process start.
func getMaxRSS() uint64 {
	var rusage syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &rusage); err != nil {
		return 0
	}
	// On macOS, MaxRss is in bytes. On Linux, it's in kilobytes.
	maxRSS := uint64(rusage.Maxrss)
	if runtime.GOOS == "linux" {
		maxRSS *= 1024
	}
	return maxRSS
}

type run struct {
	name       string
	elapsed    time.Duration
	candidates uint64
	outcome    string
}

func main() {
	lengthFlag := flag.Int("length", 5, "plaintext length and max search length")
	workersFlag := flag.Int("workers", runtime.NumCPU(), "number of pool workers")
	algoFlag := flag.String("algo", "md5", "digest algorithm")
	jobsFlag := flag.Int("jobs", 1, "jobs per worker per length")
	seedFlag := flag.Uint64("seed", 1, "plaintext generator seed")
	missFlag := flag.Bool("miss", false, "search for an unreachable digest")
	flag.Parse()

	algo, err := reversehash.ParseAlgorithm(*algoFlag)
	if err != nil {
		fmt.Printf("%v (known: %s)\n", err, strings.Join(reversehash.Algorithms(), ", "))
		return
	}

	rng := mrand.New(mrand.NewPCG(*seedFlag, *seedFlag^0x9e3779b97f4a7c15))
	plain := make([]byte, *lengthFlag)
	for i := range plain {
		plain[i] = reversehash.DefaultAlphabet[rng.IntN(len(reversehash.DefaultAlphabet))]
	}

	target, err := reversehash.Digest(algo, string(plain))
	if err != nil {
		fmt.Printf("Digest failed: %v\n", err)
		return
	}
	if *missFlag {
		target = strings.Repeat("0", len(target))
		fmt.Printf("Searching for unreachable %s digest\n", algo)
	} else {
		fmt.Printf("Searching for %s(%q) = %s\n", algo, plain, target)
	}

	baseOpts := []reversehash.SearchOption{
		reversehash.WithAlgorithm(algo),
		reversehash.WithMaxLength(*lengthFlag),
		reversehash.WithWorkers(*workersFlag),
		reversehash.WithJobsPerWorker(*jobsFlag),
	}

	var runs []run
	ctx := context.Background()

	seq, err := reversehash.NewSearcher(target, baseOpts...)
	if err != nil {
		fmt.Printf("NewSearcher failed: %v\n", err)
		return
	}
	fmt.Println("Running sequential scan...")
	res, err := seq.SearchSequential(ctx)
	runs = append(runs, summarize("sequential", res, err))

	for _, strategy := range []reversehash.ShutdownStrategy{
		reversehash.ShutdownPoisonPill,
		reversehash.ShutdownRelayPill,
		reversehash.ShutdownNone,
	} {
		s, err := reversehash.NewSearcher(target, append(baseOpts, reversehash.WithShutdown(strategy))...)
		if err != nil {
			fmt.Printf("NewSearcher failed: %v\n", err)
			return
		}

		runCtx := ctx
		cancel := context.CancelFunc(func() {})
		if strategy == reversehash.ShutdownNone {
			// Without a marker an exhausted search never finishes on its own.
			limit := 2*runs[0].elapsed + time.Second
			runCtx, cancel = context.WithTimeout(ctx, limit)
		}
		fmt.Printf("Running pool (%s)...\n", strategy)
		res, err := s.Search(runCtx)
		cancel()
		runs = append(runs, summarize("pool/"+strategy.String(), res, err))
	}

	peakRSS := getMaxRSS()

	fmt.Printf("\n")
	fmt.Printf("╔═════════════════════╦════════════════╦════════════════╦══════════════╗\n")
	fmt.Printf("║ Mode                ║ Time           ║ Throughput     ║ Outcome      ║\n")
	fmt.Printf("╠═════════════════════╬════════════════╬════════════════╬══════════════╣\n")
	for _, r := range runs {
		throughput := float64(r.candidates) / r.elapsed.Seconds() / 1_000_000
		fmt.Printf("║ %-19s ║ %8.3f sec   ║ %7.2f M/sec  ║ %-12s ║\n", r.name, r.elapsed.Seconds(), throughput, r.outcome)
	}
	fmt.Printf("╠═════════════════════╬════════════════╬════════════════╬══════════════╣\n")
	fmt.Printf("║ Workers             ║ %6d         ║                ║              ║\n", *workersFlag)
	fmt.Printf("║ Peak RSS memory     ║ %6.1f MB      ║                ║              ║\n", float64(peakRSS)/1_000_000)
	fmt.Printf("╚═════════════════════╩════════════════╩════════════════╩══════════════╝\n")
}

func summarize(name string, res *reversehash.Result, err error) run {
	r := run{name: name}
	if res != nil {
		r.elapsed = res.Elapsed
		r.candidates = res.Candidates
	}
	switch {
	case err == nil:
		r.outcome = "found"
	case errors.Is(err, streamerrors.ErrNoSolution):
		r.outcome = "not found"
	case errors.Is(err, context.DeadlineExceeded):
		r.outcome = "hung"
	default:
		r.outcome = "error"
		fmt.Printf("%s: %v\n", name, err)
	}
	return r
}
