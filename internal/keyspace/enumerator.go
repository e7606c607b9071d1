// Package keyspace addresses the set of fixed-length strings over an
// alphabet by integer index, and splits index spaces into contiguous ranges.
//
// Nothing here materializes the space: a candidate is produced on demand
// from its index.
package keyspace

import (
	"unicode/utf8"

	streamerrors "github.com/tamirms/reversehash/errors"
	intbits "github.com/tamirms/reversehash/internal/bits"
)

// Enumerator maps indexes in [0, Total()) to the strings of one length over
// an alphabet. Length counts symbols, and a symbol is one UTF-8 encoded
// rune, so a candidate may be longer in bytes than Length(). The rightmost
// symbol changes fastest: index 0 is the first symbol repeated, index 1
// differs only in the last position.
//
// An Enumerator is an immutable value and safe for concurrent use.
type Enumerator struct {
	symbols  []string // UTF-8 encoding of each symbol, in alphabet order
	place    []uint64 // place[i] is |alphabet|^(length-1-i)
	length   int
	maxBytes int
	total    uint64
}

// NewEnumerator creates an enumerator for strings of the given length.
// The alphabet must be non-empty valid UTF-8 with no repeated symbols,
// otherwise distinct indexes could map to the same string.
func NewEnumerator(alphabet string, length int) (Enumerator, error) {
	symbols, err := Symbols(alphabet)
	if err != nil {
		return Enumerator{}, err
	}
	if length < 0 {
		return Enumerator{}, streamerrors.ErrInvalidMaxLength
	}
	base := uint64(len(symbols))
	total, ok := intbits.Pow64(base, length)
	if !ok {
		return Enumerator{}, streamerrors.ErrSpaceTooLarge
	}

	// Every place value divides total, so none overflows.
	place := make([]uint64, length)
	p := uint64(1)
	for i := length - 1; i >= 0; i-- {
		place[i] = p
		p *= base
	}

	width := 0
	for _, s := range symbols {
		width = max(width, len(s))
	}
	return Enumerator{
		symbols:  symbols,
		place:    place,
		length:   length,
		maxBytes: length * width,
		total:    total,
	}, nil
}

// Symbols splits alphabet into its symbols. It reports ErrInvalidAlphabet
// for an empty alphabet, invalid UTF-8 or a repeated symbol.
func Symbols(alphabet string) ([]string, error) {
	if alphabet == "" {
		return nil, streamerrors.ErrInvalidAlphabet
	}
	symbols := make([]string, 0, utf8.RuneCountInString(alphabet))
	seen := make(map[rune]struct{}, cap(symbols))
	for i, r := range alphabet {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(alphabet[i:]); size == 1 {
				return nil, streamerrors.ErrInvalidAlphabet
			}
		}
		if _, dup := seen[r]; dup {
			return nil, streamerrors.ErrInvalidAlphabet
		}
		seen[r] = struct{}{}
		symbols = append(symbols, string(r))
	}
	return symbols, nil
}

// Total returns |alphabet|^length.
func (e Enumerator) Total() uint64 { return e.total }

// Length returns the number of symbols in every string this enumerator
// produces.
func (e Enumerator) Length() int { return e.length }

// MaxBytes returns the longest encoding, in bytes, of any string this
// enumerator produces.
func (e Enumerator) MaxBytes() int { return e.maxBytes }

// At returns the string at index.
func (e Enumerator) At(index uint64) ([]byte, error) {
	return e.AppendAt(make([]byte, 0, e.maxBytes), index)
}

// AppendAt appends the string at index to dst and returns the extended
// slice. It does not allocate when dst has room for MaxBytes() more bytes.
func (e Enumerator) AppendAt(dst []byte, index uint64) ([]byte, error) {
	if index >= e.total {
		return dst, streamerrors.ErrIndexOutOfRange
	}
	base := uint64(len(e.symbols))
	for _, p := range e.place {
		dst = append(dst, e.symbols[(index/p)%base]...)
	}
	return dst, nil
}
