package reversehash

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	streamerrors "github.com/tamirms/reversehash/errors"
	"github.com/tamirms/reversehash/internal/keyspace"
)

func newTestScanner(t *testing.T, target string) *scanner {
	t.Helper()
	spec, err := newDigest(AlgoMD5)
	require.NoError(t, err)
	return newScanner(mustDecode(t, target), spec, 8)
}

func lowercaseSpace(t *testing.T, length int) keyspace.Enumerator {
	t.Helper()
	e, err := keyspace.NewEnumerator(DefaultAlphabet, length)
	require.NoError(t, err)
	return e
}

func TestEvaluateFindsMatch(t *testing.T) {
	sc := newTestScanner(t, md5AB)
	space := lowercaseSpace(t, 2)

	rep, err := sc.evaluate(context.Background(), job{space: space, rng: keyspace.Range{Start: 0, Stop: space.Total()}})
	require.NoError(t, err)
	assert.True(t, rep.found)
	assert.Equal(t, "ab", rep.plaintext)
	// "aa" then "ab".
	assert.Equal(t, uint64(2), rep.scanned)
}

func TestEvaluateOnlyScansItsRange(t *testing.T) {
	sc := newTestScanner(t, md5AB)
	space := lowercaseSpace(t, 2)

	// "ab" is index 1; a range starting at 2 must miss it.
	rep, err := sc.evaluate(context.Background(), job{space: space, rng: keyspace.Range{Start: 2, Stop: 300}})
	require.NoError(t, err)
	assert.False(t, rep.found)
	assert.Equal(t, uint64(298), rep.scanned)

	rep, err = sc.evaluate(context.Background(), job{space: space, rng: keyspace.Range{Start: 1, Stop: 2}})
	require.NoError(t, err)
	assert.True(t, rep.found)
}

func TestEvaluateEmptyRange(t *testing.T) {
	sc := newTestScanner(t, md5AB)
	rep, err := sc.evaluate(context.Background(), job{space: lowercaseSpace(t, 2), rng: keyspace.Range{Start: 5, Stop: 5}})
	require.NoError(t, err)
	assert.False(t, rep.found)
	assert.Zero(t, rep.scanned)
}

func TestEvaluateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sc := newTestScanner(t, unreachableMD5)
	space := lowercaseSpace(t, 4)
	rep, err := sc.evaluate(ctx, job{space: space, rng: keyspace.Range{Start: 0, Stop: space.Total()}})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, rep.scanned)
}

// TestEvaluateStopsWithinCheckInterval cancels mid-scan from the digest
// oracle and expects the scan to stop at the next check.
func TestEvaluateStopsWithinCheckInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	sc := &scanner{
		target: []byte{0xFF},
		sum: func(dst, data []byte) []byte {
			calls++
			if calls == 5 {
				cancel()
			}
			return append(dst, 0)
		},
	}
	space := lowercaseSpace(t, 5)
	rep, err := sc.evaluate(ctx, job{space: space, rng: keyspace.Range{Start: 0, Stop: space.Total()}})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, uint64(contextCheckInterval), rep.scanned)
}

func TestEvaluateOutOfRange(t *testing.T) {
	sc := newTestScanner(t, unreachableMD5)
	space := lowercaseSpace(t, 1)
	rep, err := sc.evaluate(context.Background(), job{space: space, rng: keyspace.Range{Start: 20, Stop: 30}})
	require.ErrorIs(t, err, streamerrors.ErrIndexOutOfRange)
	assert.Equal(t, uint64(6), rep.scanned)
}
