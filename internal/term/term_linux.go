//go:build linux

package term

import "golang.org/x/sys/unix"

// IsTerminal reports whether fd refers to a terminal, via the same
// TCGETS ioctl golang.org/x/term uses internally (avoiding a direct
// dependency on that larger package for a single syscall check).
func IsTerminal(fd int) bool {
	_, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	return err == nil
}
