package reversehash

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/edsrzf/mmap-go"

	streamerrors "github.com/tamirms/reversehash/errors"
)

// encodeToken renders a raw digest as lowercase hex.
func encodeToken(sum []byte) string {
	return hex.EncodeToString(sum)
}

// decodeToken parses a hex digest of exactly size bytes. Surrounding
// whitespace and upper-case digits are accepted.
func decodeToken(token string, size int) ([]byte, error) {
	token = strings.TrimSpace(token)
	if len(token) != size*2 {
		return nil, fmt.Errorf("%w: %q has %d hex digits, want %d",
			streamerrors.ErrInvalidTarget, token, len(token), size*2)
	}
	sum, err := hex.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", streamerrors.ErrInvalidTarget, err)
	}
	return sum, nil
}

// ReadTargets memory-maps a file of hex digests, one per line, and returns
// them lowercased. Blank lines and lines starting with '#' are skipped.
// Digests are only checked to be hex here; their length is checked against
// the algorithm by NewSearcher.
func ReadTargets(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open target file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat target file: %w", err)
	}
	// Zero-length mappings are rejected by mmap(2).
	if stat.Size() == 0 {
		return nil, streamerrors.ErrNoTargets
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap target file: %w", err)
	}
	adviseSequential(mm)

	targets, err := ParseTargets(mm)
	if err != nil {
		return nil, errors.Join(err, mm.Unmap())
	}
	if err := mm.Unmap(); err != nil {
		return nil, fmt.Errorf("unmap target file: %w", err)
	}
	return targets, nil
}

// ParseTargets parses the target file format from memory. The returned
// strings do not alias data.
func ParseTargets(data []byte) ([]string, error) {
	var targets []string
	for lineNo := 1; len(data) > 0; lineNo++ {
		line := data
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, data = data[:i], data[i+1:]
		} else {
			data = nil
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		token := strings.ToLower(string(line))
		if len(token)%2 != 0 {
			return nil, fmt.Errorf("%w: line %d: odd number of hex digits", streamerrors.ErrInvalidTarget, lineNo)
		}
		if _, err := hex.DecodeString(token); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", streamerrors.ErrInvalidTarget, lineNo, err)
		}
		targets = append(targets, token)
	}
	if len(targets) == 0 {
		return nil, streamerrors.ErrNoTargets
	}
	return targets, nil
}
