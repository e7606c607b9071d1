package keyspace

import (
	intbits "github.com/tamirms/reversehash/internal/bits"
)

// Range is a half-open index interval [Start, Stop).
type Range struct {
	Start uint64
	Stop  uint64
}

// Len returns the number of indexes in the range.
func (r Range) Len() uint64 { return r.Stop - r.Start }

// Partition splits [0, total) into at most chunks contiguous, disjoint
// ranges in ascending order. Sizes differ by at most one. When chunks
// exceeds total, only total ranges of size one are produced.
//
// Each step divides what is left by the chunks still to emit and rounds
// half to even, so (20, 6) yields sizes 3,3,4,3,4,3.
func Partition(total uint64, chunks int) []Range {
	if total == 0 || chunks <= 0 {
		return nil
	}
	remainingChunks := uint64(chunks)
	ranges := make([]Range, 0, min(remainingChunks, total))

	var cursor uint64
	remaining := total
	for remainingChunks > 0 && remaining > 0 {
		effective := min(remainingChunks, remaining)
		size := intbits.DivRoundHalfEven(remaining, effective)
		ranges = append(ranges, Range{Start: cursor, Stop: cursor + size})
		cursor += size
		remaining -= size
		remainingChunks = effective - 1
	}
	return ranges
}
