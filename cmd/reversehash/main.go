// Reversehash searches for a plaintext whose digest matches a target.
//
// Usage:
//
//	go run ./cmd/reversehash -m 4 187ef4436122d1cc2f40dc2b92f0eba0
//
// Flags:
//
//	-m, -max-length   Longest candidate length (default: 6)
//	-w, -workers      Number of worker goroutines (default: number of CPUs)
//	-algo             Digest algorithm, e.g. md5, sha256, xxh3-64 (default: md5)
//	-alphabet         Candidate symbols in enumeration order (default: a-z)
//	-shutdown         pill, relay or none (default: pill)
//	-jobs-per-worker  Jobs per worker per length (default: 1)
//	-targets          File of hex digests, one per line, searched after the arguments
//	-sequential       Scan on one goroutine instead of the worker pool
//	-timeout          Give up on each target after this long (default: no limit)
//	-v                Debug logging on stderr
//
// Defaults can also be set with REVERSEHASH_MAX_LENGTH, REVERSEHASH_WORKERS,
// REVERSEHASH_ALGORITHM, REVERSEHASH_ALPHABET and REVERSEHASH_SHUTDOWN.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"

	"github.com/tamirms/reversehash"
	streamerrors "github.com/tamirms/reversehash/errors"
)

// env holds defaults for the flags below.
type env struct {
	MaxLength int    `env:"REVERSEHASH_MAX_LENGTH, default=6"`
	Workers   int    `env:"REVERSEHASH_WORKERS"`
	Algorithm string `env:"REVERSEHASH_ALGORITHM, default=md5"`
	Alphabet  string `env:"REVERSEHASH_ALPHABET, default=abcdefghijklmnopqrstuvwxyz"`
	Shutdown  string `env:"REVERSEHASH_SHUTDOWN, default=pill"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr, envconfig.OsLookuper()))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, lookuper envconfig.Lookuper) int {
	var defaults env
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &defaults, Lookuper: lookuper}); err != nil {
		fmt.Fprintf(stderr, "invalid environment: %v\n", err)
		return 2
	}
	if defaults.Workers <= 0 {
		defaults.Workers = runtime.NumCPU()
	}

	fs := flag.NewFlagSet("reversehash", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		maxLength     int
		workers       int
		algoName      string
		alphabet      string
		shutdownName  string
		jobsPerWorker int
		targetsPath   string
		sequential    bool
		timeout       time.Duration
		verbose       bool
	)
	fs.IntVar(&maxLength, "max-length", defaults.MaxLength, "longest candidate length")
	fs.IntVar(&maxLength, "m", defaults.MaxLength, "shorthand for -max-length")
	fs.IntVar(&workers, "workers", defaults.Workers, "number of worker goroutines")
	fs.IntVar(&workers, "w", defaults.Workers, "shorthand for -workers")
	fs.StringVar(&algoName, "algo", defaults.Algorithm, "digest algorithm")
	fs.StringVar(&alphabet, "alphabet", defaults.Alphabet, "candidate symbols")
	fs.StringVar(&shutdownName, "shutdown", defaults.Shutdown, "shutdown strategy: pill, relay or none")
	fs.IntVar(&jobsPerWorker, "jobs-per-worker", 1, "jobs per worker per length")
	fs.StringVar(&targetsPath, "targets", "", "file of hex digests, one per line")
	fs.BoolVar(&sequential, "sequential", false, "scan on one goroutine")
	fs.DurationVar(&timeout, "timeout", 0, "per-target time limit (0 = none)")
	fs.BoolVar(&verbose, "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	ctx = clog.WithLogger(ctx, clog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	log := clog.FromContext(ctx)

	algo, err := reversehash.ParseAlgorithm(algoName)
	if err != nil {
		log.Errorf("%v (known: %v)", err, reversehash.Algorithms())
		return 2
	}
	shutdown, err := reversehash.ParseShutdown(shutdownName)
	if err != nil {
		log.Errorf("%v", err)
		return 2
	}

	targets := fs.Args()
	if targetsPath != "" {
		fromFile, err := reversehash.ReadTargets(targetsPath)
		if err != nil {
			log.Errorf("reading targets: %v", err)
			return 1
		}
		targets = append(targets, fromFile...)
	}
	if len(targets) == 0 {
		fmt.Fprintln(stderr, "usage: reversehash [flags] <hex-digest>...")
		fs.PrintDefaults()
		return 2
	}

	opts := []reversehash.SearchOption{
		reversehash.WithMaxLength(maxLength),
		reversehash.WithWorkers(workers),
		reversehash.WithAlgorithm(algo),
		reversehash.WithAlphabet(alphabet),
		reversehash.WithShutdown(shutdown),
		reversehash.WithJobsPerWorker(jobsPerWorker),
	}

	status := 0
	for _, target := range targets {
		if err := searchOne(ctx, stdout, target, sequential, timeout, opts); err != nil {
			log.Errorf("%s: %v", target, err)
			status = 1
		}
		if ctx.Err() != nil {
			return 1
		}
	}
	return status
}

// searchOne prints one line for target: the plaintext and elapsed time, or
// the not-found message.
func searchOne(ctx context.Context, stdout io.Writer, target string, sequential bool,
	timeout time.Duration, opts []reversehash.SearchOption) error {
	s, err := reversehash.NewSearcher(target, opts...)
	if err != nil {
		return err
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var res *reversehash.Result
	if sequential {
		res, err = s.SearchSequential(ctx)
	} else {
		res, err = s.Search(ctx)
	}
	switch {
	case errors.Is(err, streamerrors.ErrNoSolution):
		fmt.Fprintln(stdout, "Unable to find a solution")
		return nil
	case err != nil:
		return err
	}
	fmt.Fprintf(stdout, "%s (found in %.1fs)\n", res.Plaintext, res.Elapsed.Seconds())
	return nil
}
