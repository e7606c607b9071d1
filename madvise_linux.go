//go:build linux

package reversehash

import "golang.org/x/sys/unix"

// adviseSequential hints to the kernel that a mapped file will be read
// front to back. Best-effort: errors are silently ignored.
func adviseSequential(data []byte) {
	if len(data) == 0 {
		return
	}
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
}
