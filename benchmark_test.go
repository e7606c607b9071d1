package reversehash

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"testing"

	streamerrors "github.com/tamirms/reversehash/errors"
	"github.com/tamirms/reversehash/internal/keyspace"
)

func benchmarkExhaust(b *testing.B, algo Algorithm, maxLength int, sequential bool) {
	target, err := Digest(algo, "")
	if err != nil {
		b.Fatal(err)
	}
	// The empty string is never a candidate, so every run exhausts the space.
	s, err := NewSearcher(target, WithAlgorithm(algo), WithMaxLength(maxLength), WithWorkers(runtime.NumCPU()))
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()

	var candidates uint64
	b.ResetTimer()
	b.ReportAllocs()
	for range b.N {
		var res *Result
		if sequential {
			res, err = s.SearchSequential(ctx)
		} else {
			res, err = s.Search(ctx)
		}
		if !errors.Is(err, streamerrors.ErrNoSolution) {
			b.Fatalf("expected no solution, got %v", err)
		}
		candidates += res.Candidates
	}
	b.ReportMetric(float64(candidates)/b.Elapsed().Seconds()/1e6, "Mcand/s")
}

func BenchmarkSearchMD5(b *testing.B)           { benchmarkExhaust(b, AlgoMD5, 4, false) }
func BenchmarkSearchSequentialMD5(b *testing.B) { benchmarkExhaust(b, AlgoMD5, 4, true) }
func BenchmarkSearchXXH3(b *testing.B)          { benchmarkExhaust(b, AlgoXXH3, 4, false) }
func BenchmarkSearchSequentialXXH3(b *testing.B) {
	benchmarkExhaust(b, AlgoXXH3, 4, true)
}

// BenchmarkSearchShutdown compares the two marker strategies on a search
// that has to drain the whole queue.
func BenchmarkSearchShutdown(b *testing.B) {
	for _, strategy := range []ShutdownStrategy{ShutdownPoisonPill, ShutdownRelayPill} {
		for _, workers := range []int{4, 64} {
			b.Run(fmt.Sprintf("%s/workers=%d", strategy, workers), func(b *testing.B) {
				s, err := NewSearcher(unreachableMD5, WithMaxLength(3), WithWorkers(workers), WithShutdown(strategy))
				if err != nil {
					b.Fatal(err)
				}
				ctx := context.Background()
				b.ResetTimer()
				for range b.N {
					if _, err := s.Search(ctx); !errors.Is(err, streamerrors.ErrNoSolution) {
						b.Fatalf("expected no solution, got %v", err)
					}
				}
			})
		}
	}
}

func BenchmarkAppendAt(b *testing.B) {
	e, err := keyspace.NewEnumerator(DefaultAlphabet, 6)
	if err != nil {
		b.Fatal(err)
	}
	buf := make([]byte, 0, 6)
	total := e.Total()

	b.ResetTimer()
	b.ReportAllocs()
	for i := range b.N {
		buf, err = e.AppendAt(buf[:0], uint64(i)%total)
		if err != nil {
			b.Fatal(err)
		}
	}
}
