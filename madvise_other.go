//go:build !linux

package reversehash

// adviseSequential is a no-op on non-Linux platforms.
func adviseSequential(data []byte) {}
