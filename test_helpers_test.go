package reversehash

import (
	"context"
	"crypto/md5"
	"encoding/binary"
	"encoding/hex"
	"hash/fnv"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/chainguard-dev/clog/slogtest"
	"github.com/stretchr/testify/require"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

// md5AB is MD5("ab").
const md5AB = "187ef4436122d1cc2f40dc2b92f0eba0"

// unreachableMD5 is not the MD5 of any short lowercase string.
var unreachableMD5 = strings.Repeat("0", 32)

func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

// testContext returns a context whose clog logger writes to t.Log.
func testContext(t *testing.T) context.Context {
	t.Helper()
	return slogtest.Context(t)
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// randomPlaintext draws a string of length n from alphabet.
func randomPlaintext(rng *rand.Rand, alphabet string, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rng.IntN(len(alphabet))]
	}
	return string(b)
}

func mustSearcher(t testing.TB, target string, opts ...SearchOption) *Searcher {
	t.Helper()
	s, err := NewSearcher(target, opts...)
	require.NoError(t, err)
	return s
}

// requireAllDone asserts every worker reached WorkerDone.
func requireAllDone(t *testing.T, res *Result, workers int) {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Workers, workers)
	for _, w := range res.Workers {
		require.Equal(t, WorkerDone, w.State, "worker %d", w.ID)
	}
}

// sumShutdowns totals the shutdown markers observed across workers.
func sumShutdowns(res *Result) int {
	n := 0
	for _, w := range res.Workers {
		n += w.ShutdownsObserved
	}
	return n
}
