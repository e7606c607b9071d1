// Package errors defines all exported error sentinels for the reversehash library.
//
// This is the single source of truth for error values. Both the top-level
// reversehash package and internal packages import from here, ensuring
// errors.Is checks work across package boundaries.
package errors

import "errors"

// Configuration errors
var (
	ErrInvalidTarget     = errors.New("reversehash: target is not a valid hex digest for the selected algorithm")
	ErrInvalidAlphabet   = errors.New("reversehash: alphabet must be non-empty valid UTF-8 with no duplicate symbols")
	ErrInvalidMaxLength  = errors.New("reversehash: max length must be positive")
	ErrInvalidWorkers    = errors.New("reversehash: worker count must be positive")
	ErrInvalidJobsFactor = errors.New("reversehash: jobs per worker must be positive")
	ErrSpaceTooLarge     = errors.New("reversehash: search space exceeds 2^64 candidates")
	ErrUnknownAlgorithm  = errors.New("reversehash: unknown digest algorithm")
	ErrUnknownShutdown   = errors.New("reversehash: unknown shutdown strategy")
)

// Search errors
var (
	// ErrNoSolution is the defined outcome of a search that exhausted every
	// candidate up to the maximum length without a match.
	ErrNoSolution = errors.New("reversehash: no solution found")

	// ErrIndexOutOfRange means an enumerator was addressed past its total
	// count. Partitioning never produces such an index, so seeing it is an
	// invariant violation.
	ErrIndexOutOfRange = errors.New("reversehash: index out of range")
)

// Target file errors
var (
	ErrNoTargets = errors.New("reversehash: target file contains no digests")
)
