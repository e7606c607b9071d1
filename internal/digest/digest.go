// Package digest provides the digest functions a search can compare
// candidates against.
//
// Every function appends a fixed-size digest to dst and returns the extended
// slice, so callers can reuse one buffer for every candidate. Integer
// digests (XXH64, XXH3, Murmur3) are written big-endian, which matches the
// canonical hex form printed by their reference tools.
package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Func appends the digest of data to dst.
type Func func(dst, data []byte) []byte

// Spec describes one digest function.
type Spec struct {
	Name string
	Size int // digest size in bytes
	Sum  Func
}

var specs = []Spec{
	{"md5", md5.Size, sumMD5},
	{"sha1", sha1.Size, sumSHA1},
	{"sha256", sha256.Size, sumSHA256},
	{"sha512", sha512.Size, sumSHA512},
	{"blake2b-256", blake2b.Size256, sumBLAKE2b256},
	{"sha3-256", 32, sumSHA3256},
	{"xxh64", 8, sumXXH64},
	{"xxh3-64", 8, sumXXH3},
	{"xxh3-128", 16, sumXXH3128},
	{"murmur3-128", 16, sumMurmur3128},
}

// Lookup returns the digest registered under name.
func Lookup(name string) (Spec, bool) {
	for _, s := range specs {
		if s.Name == name {
			return s, true
		}
	}
	return Spec{}, false
}

// Names lists the registered digest names in registration order.
func Names() []string {
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	return names
}

func sumMD5(dst, data []byte) []byte {
	h := md5.Sum(data)
	return append(dst, h[:]...)
}

func sumSHA1(dst, data []byte) []byte {
	h := sha1.Sum(data)
	return append(dst, h[:]...)
}

func sumSHA256(dst, data []byte) []byte {
	h := sha256.Sum256(data)
	return append(dst, h[:]...)
}

func sumSHA512(dst, data []byte) []byte {
	h := sha512.Sum512(data)
	return append(dst, h[:]...)
}

func sumBLAKE2b256(dst, data []byte) []byte {
	h := blake2b.Sum256(data)
	return append(dst, h[:]...)
}

func sumSHA3256(dst, data []byte) []byte {
	h := sha3.Sum256(data)
	return append(dst, h[:]...)
}

func sumXXH64(dst, data []byte) []byte {
	return binary.BigEndian.AppendUint64(dst, xxhash.Sum64(data))
}

func sumXXH3(dst, data []byte) []byte {
	return binary.BigEndian.AppendUint64(dst, xxh3.Hash(data))
}

func sumXXH3128(dst, data []byte) []byte {
	h := xxh3.Hash128(data).Bytes()
	return append(dst, h[:]...)
}

func sumMurmur3128(dst, data []byte) []byte {
	h1, h2 := murmur3.Sum128(data)
	dst = binary.BigEndian.AppendUint64(dst, h1)
	return binary.BigEndian.AppendUint64(dst, h2)
}

// Equal reports whether sum(data) equals want, using scratch to avoid
// allocating. It returns the (possibly grown) scratch buffer.
func Equal(sum Func, scratch, data, want []byte) (bool, []byte) {
	scratch = sum(scratch[:0], data)
	return slices.Equal(scratch, want), scratch
}
