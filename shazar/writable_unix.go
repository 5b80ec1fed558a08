//go:build unix

package shazar

import (
	"golang.org/x/sys/unix"
)

// writable checks that the calling user may create files in dir.
func writable(dir string) error {
	return unix.Access(dir, unix.W_OK)
}
