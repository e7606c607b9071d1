package digest

import (
	"encoding/binary"
	"encoding/hex"
	"hash"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

func mustLookup(t *testing.T, name string) Spec {
	t.Helper()
	s, ok := Lookup(name)
	require.True(t, ok, "digest %q not registered", name)
	return s
}

func TestKnownVectors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"md5", "ab", "187ef4436122d1cc2f40dc2b92f0eba0"},
		{"md5", "", "d41d8cd98f00b204e9800998ecf8427e"},
		{"sha1", "abc", "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{"sha256", "abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{"xxh64", "", "ef46db3751d8e999"},
		{"xxh3-64", "", "2d06800538d394c2"},
		{"murmur3-128", "", "00000000000000000000000000000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.input, func(t *testing.T) {
			s := mustLookup(t, tt.name)
			got := s.Sum(nil, []byte(tt.input))
			assert.Equal(t, tt.want, hex.EncodeToString(got))
		})
	}
}

// TestAgreesWithStreamingHashers checks every one-shot digest against the
// streaming hash.Hash of the same library, which defines the canonical
// byte order.
func TestAgreesWithStreamingHashers(t *testing.T) {
	newBLAKE := func() hash.Hash {
		h, err := blake2b.New256(nil)
		require.NoError(t, err)
		return h
	}
	streaming := map[string]func() hash.Hash{
		"blake2b-256": newBLAKE,
		"sha3-256":    func() hash.Hash { return sha3.New256() },
		"xxh64":       func() hash.Hash { return xxhash.New() },
		"murmur3-128": func() hash.Hash { return murmur3.New128() },
	}

	inputs := []string{"", "a", "ab", "hello world", "zzzzzz"}
	for name, newHash := range streaming {
		s := mustLookup(t, name)
		for _, in := range inputs {
			h := newHash()
			h.Write([]byte(in))
			want := h.Sum(nil)
			got := s.Sum(nil, []byte(in))
			assert.Equal(t, want, got, "%s(%q)", name, in)
			assert.Len(t, got, s.Size, "%s size", name)
		}
	}
}

func TestXXH3Encoding(t *testing.T) {
	s64 := mustLookup(t, "xxh3-64")
	s128 := mustLookup(t, "xxh3-128")
	for _, in := range []string{"", "ab", "reversehash"} {
		got := s64.Sum(nil, []byte(in))
		assert.Equal(t, xxh3.Hash([]byte(in)), binary.BigEndian.Uint64(got))

		h := xxh3.Hash128([]byte(in))
		got128 := s128.Sum(nil, []byte(in))
		assert.Equal(t, h.Hi, binary.BigEndian.Uint64(got128[:8]))
		assert.Equal(t, h.Lo, binary.BigEndian.Uint64(got128[8:]))
	}
}

func TestSizesMatchOutput(t *testing.T) {
	for _, name := range Names() {
		s := mustLookup(t, name)
		assert.Len(t, s.Sum(nil, []byte("size check")), s.Size, name)
	}
}

func TestSumAppends(t *testing.T) {
	s := mustLookup(t, "md5")
	prefix := []byte{0xAA, 0xBB}
	out := s.Sum(prefix, []byte("ab"))
	require.Len(t, out, 2+s.Size)
	assert.Equal(t, prefix, out[:2])
	assert.Equal(t, "187ef4436122d1cc2f40dc2b92f0eba0", hex.EncodeToString(out[2:]))
}

func TestEqual(t *testing.T) {
	s := mustLookup(t, "md5")
	want, err := hex.DecodeString("187ef4436122d1cc2f40dc2b92f0eba0")
	require.NoError(t, err)

	scratch := make([]byte, 0, s.Size)
	ok, scratch := Equal(s.Sum, scratch, []byte("ab"), want)
	assert.True(t, ok)
	ok, _ = Equal(s.Sum, scratch, []byte("ba"), want)
	assert.False(t, ok)
}

func TestLookupUnknown(t *testing.T) {
	_, ok := Lookup("crc32")
	assert.False(t, ok)
	assert.Contains(t, Names(), "md5")
	assert.Len(t, Names(), 10)
}
