package reversehash

import (
	"fmt"

	streamerrors "github.com/tamirms/reversehash/errors"
	"github.com/tamirms/reversehash/internal/digest"
)

// Algorithm identifies the digest function a search compares candidates
// against.
type Algorithm uint16

const (
	// AlgoMD5 is the default.
	AlgoMD5 Algorithm = iota
	AlgoSHA1
	AlgoSHA256
	AlgoSHA512
	AlgoBLAKE2b256
	AlgoSHA3256
	// AlgoXXH64 and the algorithms below are non-cryptographic; they make
	// fast oracles for exercising the search itself.
	AlgoXXH64
	AlgoXXH3
	AlgoXXH3128
	AlgoMurmur3128
)

var algorithmNames = [...]string{
	AlgoMD5:        "md5",
	AlgoSHA1:       "sha1",
	AlgoSHA256:     "sha256",
	AlgoSHA512:     "sha512",
	AlgoBLAKE2b256: "blake2b-256",
	AlgoSHA3256:    "sha3-256",
	AlgoXXH64:      "xxh64",
	AlgoXXH3:       "xxh3-64",
	AlgoXXH3128:    "xxh3-128",
	AlgoMurmur3128: "murmur3-128",
}

// String returns the algorithm name.
func (a Algorithm) String() string {
	if int(a) < len(algorithmNames) {
		return algorithmNames[a]
	}
	return "unknown"
}

// ParseAlgorithm maps a name such as "md5" or "xxh3-64" to its Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	for i, n := range algorithmNames {
		if n == name {
			return Algorithm(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", streamerrors.ErrUnknownAlgorithm, name)
}

// newDigest resolves an Algorithm to its digest function.
func newDigest(a Algorithm) (digest.Spec, error) {
	s, ok := digest.Lookup(a.String())
	if !ok {
		return digest.Spec{}, fmt.Errorf("%w: id %d", streamerrors.ErrUnknownAlgorithm, uint16(a))
	}
	return s, nil
}

// Digest computes the hex-encoded digest of plaintext under a. It is the
// same oracle a search uses, exposed for producing targets.
func Digest(a Algorithm, plaintext string) (string, error) {
	s, err := newDigest(a)
	if err != nil {
		return "", err
	}
	return encodeToken(s.Sum(nil, []byte(plaintext))), nil
}

// Algorithms lists the names ParseAlgorithm accepts.
func Algorithms() []string {
	return append([]string(nil), algorithmNames[:]...)
}
