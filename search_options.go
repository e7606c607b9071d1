package reversehash

import (
	"runtime"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tamirms/reversehash/internal/digest"
)

const (
	// DefaultMaxLength is the longest candidate searched unless
	// WithMaxLength says otherwise.
	DefaultMaxLength = 6

	// DefaultAlphabet is lowercase ASCII.
	DefaultAlphabet = "abcdefghijklmnopqrstuvwxyz"
)

// SearchOption is a functional option for configuring a Searcher.
type SearchOption func(*searchConfig)

type searchConfig struct {
	workers       int
	maxLength     int
	alphabet      string
	algorithm     Algorithm
	digest        *digest.Spec // overrides algorithm when set
	shutdown      ShutdownStrategy
	jobsPerWorker int
	clock         clockwork.Clock
	registerer    prometheus.Registerer
}

func defaultSearchConfig() *searchConfig {
	return &searchConfig{
		workers:       runtime.NumCPU(),
		maxLength:     DefaultMaxLength,
		alphabet:      DefaultAlphabet,
		algorithm:     AlgoMD5,
		shutdown:      ShutdownPoisonPill,
		jobsPerWorker: 1,
		clock:         clockwork.NewRealClock(),
	}
}

// WithWorkers sets the number of worker goroutines. Defaults to
// runtime.NumCPU().
func WithWorkers(n int) SearchOption {
	return func(c *searchConfig) {
		c.workers = n
	}
}

// WithMaxLength sets the longest candidate length searched. Lengths are
// searched in increasing order starting at 1.
func WithMaxLength(n int) SearchOption {
	return func(c *searchConfig) {
		c.maxLength = n
	}
}

// WithAlphabet sets the candidate symbols. Each rune of alphabet is one
// symbol, and candidates are hashed as UTF-8. Order matters: it defines the
// enumeration order within each length.
func WithAlphabet(alphabet string) SearchOption {
	return func(c *searchConfig) {
		c.alphabet = alphabet
	}
}

// WithAlgorithm selects a built-in digest. Default is AlgoMD5.
func WithAlgorithm(a Algorithm) SearchOption {
	return func(c *searchConfig) {
		c.algorithm = a
		c.digest = nil
	}
}

// WithDigest installs a caller-supplied digest oracle producing size bytes.
// sum must append the digest of data to dst and be safe for concurrent use.
func WithDigest(name string, size int, sum func(dst, data []byte) []byte) SearchOption {
	return func(c *searchConfig) {
		c.digest = &digest.Spec{Name: name, Size: size, Sum: sum}
	}
}

// WithShutdown selects how workers learn that the queue holds no more work.
// Default is ShutdownPoisonPill.
func WithShutdown(s ShutdownStrategy) SearchOption {
	return func(c *searchConfig) {
		c.shutdown = s
	}
}

// WithJobsPerWorker splits each length into workers*k jobs instead of one
// per worker. Smaller jobs bound how long a worker keeps scanning after a
// peer has already found the answer.
func WithJobsPerWorker(k int) SearchOption {
	return func(c *searchConfig) {
		c.jobsPerWorker = k
	}
}

// WithClock sets the clock used to measure elapsed time.
func WithClock(clock clockwork.Clock) SearchOption {
	return func(c *searchConfig) {
		c.clock = clock
	}
}

// WithRegisterer registers the searcher's Prometheus collectors on reg.
// Without it the collectors still count but are not exported.
func WithRegisterer(reg prometheus.Registerer) SearchOption {
	return func(c *searchConfig) {
		c.registerer = reg
	}
}
