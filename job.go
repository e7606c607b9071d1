package reversehash

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/tamirms/reversehash/internal/digest"
	"github.com/tamirms/reversehash/internal/keyspace"
)

// contextCheckInterval is how many candidates a job scans between context
// checks.
const contextCheckInterval = 10000

// job is one unit of work: a contiguous index range of one length's space.
// It is an immutable value handed to exactly one worker.
type job struct {
	space keyspace.Enumerator
	rng   keyspace.Range
}

// scanner holds the per-worker buffers a job scan reuses across candidates
// and jobs. It is not safe for concurrent use.
type scanner struct {
	target    []byte
	sum       digest.Func
	candidate []byte
	scratch   []byte
}

// newScanner sizes the candidate buffer for maxLength symbols of any width,
// so scanning never grows it.
func newScanner(target []byte, spec digest.Spec, maxLength int) *scanner {
	return &scanner{
		target:    target,
		sum:       spec.Sum,
		candidate: make([]byte, 0, maxLength*utf8.UTFMax),
		scratch:   make([]byte, 0, spec.Size),
	}
}

// jobReport summarizes one evaluation.
type jobReport struct {
	plaintext string
	found     bool
	scanned   uint64
}

// evaluate scans the job's range in index order and returns the first
// candidate whose digest equals the target. A cancelled context stops the
// scan early with ctx.Err(); the report still counts what was scanned.
func (s *scanner) evaluate(ctx context.Context, j job) (jobReport, error) {
	var rep jobReport
	for index := j.rng.Start; index < j.rng.Stop; index++ {
		if rep.scanned%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return rep, err
			}
		}

		var err error
		s.candidate, err = j.space.AppendAt(s.candidate[:0], index)
		if err != nil {
			return rep, fmt.Errorf("length %d index %d: %w", j.space.Length(), index, err)
		}
		rep.scanned++

		var match bool
		match, s.scratch = digest.Equal(s.sum, s.scratch, s.candidate, s.target)
		if match {
			rep.plaintext = string(s.candidate)
			rep.found = true
			return rep, nil
		}
	}
	return rep, nil
}
